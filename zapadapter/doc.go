// Package zapadapter lets code that logs through go.uber.org/zap write
// into rotlog's rotating files.
//
//	log, _ := logger.GetLogger("worker", logger.InfoLevel)
//	z := zapadapter.New(log)
//	z.Info("started", zap.Int("workers", 4))
//
// The rotlog Logger's level decides what is written; zap's own level
// settings are not consulted. zap's caller annotation fills the
// %(filename)s, %(funcName)s and %(lineno)d fields of the template.
package zapadapter
