// Package metrics exposes Prometheus counters for the log shipper.
//
// A Recorder counts records accepted on ingest and every capture call made to the
// error tracking client. Wrap a client factory with Recorder.WrapFactory so the
// lazily built client is instrumented:
//
//	rec, _ := metrics.NewRecorder(reg)
//	target, _ := sentrytarget.New(cfg, sentrytarget.WithClientFactory(
//		rec.WrapFactory(sentrytarget.DefaultClientFactory),
//	))
package metrics
