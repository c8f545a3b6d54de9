// Package server runs the logship HTTP ingest service.
//
// Routes:
//
//	POST /ingest        newline-delimited JSON log lines, answered with 202 and the record count
//	GET  /health/live   process liveness
//	GET  /health/ready  runs the readiness checks, 503 when any fails
//	GET  /metrics       Prometheus metrics
//
// Accepted records are logged to a logger.Dispatcher. A cron schedule flushes the
// dispatcher periodically and Run closes it, with a final flush, on shutdown.
package server
