package benchmark

import "github.com/philipp01105/rotlog/core"

// noopHandler discards every entry. It isolates the logger's own cost
// from formatting and I/O.
type noopHandler struct{}

func (noopHandler) Handle(*core.Entry) error { return nil }

func (noopHandler) Level() core.Level { return core.DebugLevel }

func (noopHandler) Close() error { return nil }
