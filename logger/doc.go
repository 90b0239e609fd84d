// Package logger is the public API of rotlog. Most users only need to
// import this package.
//
// GetLogger returns a named Logger that writes to a time-rotated log file:
//
//	log, err := logger.GetLogger("billing", logger.InfoLevel,
//	    logger.WithFilePath("/var/log/app/billing.log"),
//	    logger.WithRotation(handler.Hour, 6),
//	    logger.WithBackupCount(28),
//	)
//	if err != nil {
//	    return err
//	}
//	log.Info("invoice %s sent", id)
//
// Calls are idempotent. The same name always yields the same Logger, and
// the same file path always yields the same handler, so no record is ever
// written twice and no file is opened twice. The first configuration for a
// path wins; later calls with different rotation settings get the existing
// handler. Manager.Reset discards everything for tests and forced
// reconfiguration.
//
// The package-level GetLogger uses a process-wide Manager. Programs that
// prefer explicit wiring create their own with NewManager and pass it
// around.
//
// Level checks happen before any allocation, so filtered-out
// messages cost only a single integer comparison.
//
// Logger.Slog and NewSlogHandler expose a Logger as a log/slog handler.
package logger
