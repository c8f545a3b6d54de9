// Package sentrytarget exports log records to Sentry.
//
// It plugs into the host logger as a logger.Target: the dispatcher hands it batches of
// records, the target filters and accumulates them, and on export each record becomes one
// normalized Event delivered through a Client.
//
// # Formatting
//
// For every record the Formatter:
//
//  1. extracts the description from the record context: the error text for
//     record.ErrorContext, the "msg" entry for record.StructuredContext (the remaining
//     fields become the event's extra mapping), the value itself for record.PlainContext
//  2. adds the host context snapshot under extra["context"] when IncludeContext is on
//  3. runs the extra and user callbacks; their results replace the mappings
//  4. normalizes the level (error, warning, info, debug; unknown codes become error)
//  5. tags the event with the record category
//
// Error contexts are sent with Client.CaptureException so the SDK can extract the error
// chain; everything else goes through Client.Capture together with the record's trace frames.
// Exactly one client call is made per record, in input order. Client failures are returned
// to the caller wrapped with ErrCapture; they are neither retried nor logged.
//
// # Usage
//
//	cfg := sentrytarget.DefaultConfig()
//	cfg.DSN = os.Getenv("SENTRY_DSN")
//	cfg.Levels = []string{"error", "warning"}
//
//	d := logger.NewDispatcher(logger.WithContextSnapshot(logger.EnvSnapshot("HOSTNAME")))
//	target, err := sentrytarget.New(cfg,
//		sentrytarget.WithContextSnapshot(d.ContextSnapshot),
//		sentrytarget.WithUserCallback(func(ctx record.Context, user map[string]any) map[string]any {
//			return map[string]any{"id": currentUserID()}
//		}),
//	)
//	if err != nil {
//		return err
//	}
//	d.AddTarget(target)
//
// The Sentry client is built on the first Collect. Call Init to build it at startup instead,
// and Close on shutdown to drain queued events.
//
// # Privacy
//
// Every field of a structured context except "msg" is forwarded verbatim as extra data.
// Use WithExtraCallback to drop or mask sensitive fields.
package sentrytarget
