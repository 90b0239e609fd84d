package metrics

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/philipp01105/rotlog/core"
	"github.com/philipp01105/rotlog/handler"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func entry(level core.Level, msg string) *core.Entry {
	e := core.GetEntry()
	e.Level = level
	e.Message = msg
	return e
}

func setup(t *testing.T) (*handler.Registry, *handler.FileHandler, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	reg := handler.NewRegistry()
	t.Cleanup(func() { assert.NoError(t, reg.Close()) })

	h, err := reg.GetOrCreate(handler.Config{
		FilePath: filepath.Join(t.TempDir(), "app.log"),
		When:     handler.Second,
		Interval: 1,
		UTC:      true,
		Level:    core.InfoLevel,
		Clock:    clock.Now,
	})
	require.NoError(t, err)
	return reg, h, clock
}

func TestCollector(t *testing.T) {
	reg, h, clock := setup(t)

	require.NoError(t, h.Handle(entry(core.DebugLevel, "filtered")))
	require.NoError(t, h.Handle(entry(core.InfoLevel, "first")))
	clock.Advance(time.Second)
	require.NoError(t, h.Handle(entry(core.InfoLevel, "second")))

	expected := fmt.Sprintf(`
# HELP rotlog_handlers Number of registered rotating file handlers
# TYPE rotlog_handlers gauge
rotlog_handlers 1
# HELP rotlog_next_rollover_timestamp_seconds Unix time of the next scheduled rollover
# TYPE rotlog_next_rollover_timestamp_seconds gauge
rotlog_next_rollover_timestamp_seconds{file=%[1]q} 1772359202
# HELP rotlog_records_filtered_total Total number of records dropped by the handler's level
# TYPE rotlog_records_filtered_total counter
rotlog_records_filtered_total{file=%[1]q} 1
# HELP rotlog_records_written_total Total number of records written to the log file
# TYPE rotlog_records_written_total counter
rotlog_records_written_total{file=%[1]q} 2
# HELP rotlog_rotations_total Total number of completed rollovers
# TYPE rotlog_rotations_total counter
rotlog_rotations_total{file=%[1]q} 1
# HELP rotlog_write_errors_total Total number of failed writes and rollovers
# TYPE rotlog_write_errors_total counter
rotlog_write_errors_total{file=%[1]q} 0
`, h.Path())

	err := testutil.CollectAndCompare(NewCollector(reg), strings.NewReader(expected))
	assert.NoError(t, err)
}

func TestCollector_TracksNewHandlers(t *testing.T) {
	reg, _, _ := setup(t)
	c := NewCollector(reg)

	// One gauge plus five series per handler.
	assert.Equal(t, 6, testutil.CollectAndCount(c))

	_, err := reg.GetOrCreate(handler.Config{FilePath: filepath.Join(t.TempDir(), "other.log")})
	require.NoError(t, err)
	assert.Equal(t, 11, testutil.CollectAndCount(c))
	assert.Equal(t, 2, testutil.CollectAndCount(c, "rotlog_records_written_total"))
}

func TestCollector_MetricValues(t *testing.T) {
	reg, h, _ := setup(t)
	require.NoError(t, h.Handle(entry(core.ErrorLevel, "boom")))

	ch := make(chan prometheus.Metric, 16)
	NewCollector(reg).Collect(ch)
	close(ch)

	var written *dto.Metric
	for m := range ch {
		if !strings.Contains(m.Desc().String(), "rotlog_records_written_total") {
			continue
		}
		written = &dto.Metric{}
		require.NoError(t, m.Write(written))
	}
	require.NotNil(t, written)
	assert.Equal(t, float64(1), written.GetCounter().GetValue())
	require.Len(t, written.GetLabel(), 1)
	assert.Equal(t, "file", written.GetLabel()[0].GetName())
	assert.Equal(t, h.Path(), written.GetLabel()[0].GetValue())
}

func TestRegister(t *testing.T) {
	reg, _, _ := setup(t)
	promReg := prometheus.NewRegistry()

	_, err := Register(promReg, reg)
	require.NoError(t, err)

	_, err = Register(promReg, reg)
	assert.Error(t, err, "duplicate registration")

	families, err := promReg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 6)
}
