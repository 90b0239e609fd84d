package logger_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/philipp01105/rotlog/handler"
	"github.com/philipp01105/rotlog/logger"
)

// Get a logger that writes to an hourly rotated file.
func ExampleManager_GetLogger() {
	dir, err := os.MkdirTemp("", "rotlog-example")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	m := logger.NewManager()
	defer m.Close()

	path := filepath.Join(dir, "billing", "billing.log")
	log, err := m.GetLogger("billing", logger.InfoLevel,
		logger.WithFilePath(path),
		logger.WithRotation(handler.Hour, 1),
		logger.WithBackupCount(24),
		logger.WithMessageTemplate("%(levelname)s %(name)s: %(message)s"),
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	log.Debug("not written")
	log.Info("invoice %d sent", 42)
	log.Warn("invoice %d overdue", 7)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(string(data))
	// Output:
	// INFO billing: invoice 42 sent
	// WARNING billing: invoice 7 overdue
}

// Bridge log/slog into the same rotating file.
func ExampleLogger_Slog() {
	dir, err := os.MkdirTemp("", "rotlog-example")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	m := logger.NewManager()
	defer m.Close()

	path := filepath.Join(dir, "api.log")
	log, err := m.GetLogger("api", logger.DebugLevel,
		logger.WithFilePath(path),
		logger.WithMessageTemplate("%(levelname)s %(message)s"),
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	log.Slog().Info("request", "method", "GET", "status", 200)

	data, _ := os.ReadFile(path)
	fmt.Print(string(data))
	// Output:
	// INFO request method=GET status=200
}
