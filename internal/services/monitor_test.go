package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetsage/sheetsage-ai-go/internal/logging"
)

func testMonitor(interval time.Duration) *PerformanceMonitor {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewPerformanceMonitor(logger, logging.NewStandardLogger("error"), interval)
}

func TestPerformanceMonitor_CollectsOnStart(t *testing.T) {
	pm := testMonitor(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		pm.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return !pm.Stats().LastUpdated.IsZero()
	}, 2*time.Second, 10*time.Millisecond)

	stats := pm.Stats()
	assert.Greater(t, stats.Goroutines, 0)

	pm.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop")
	}
}

func TestPerformanceMonitor_StopIsIdempotent(t *testing.T) {
	pm := testMonitor(time.Hour)
	pm.Stop()
	pm.Stop()
}

func TestPerformanceMonitor_StopsOnContextCancel(t *testing.T) {
	pm := testMonitor(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		pm.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not observe cancellation")
	}
}

func TestPerformanceMonitor_RequestCounters(t *testing.T) {
	pm := testMonitor(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(fail bool) {
			defer wg.Done()
			if fail {
				pm.RecordRequest(assert.AnError)
			} else {
				pm.RecordRequest(nil)
			}
		}(i%2 == 0)
	}
	wg.Wait()

	pm.collect(context.Background())
	stats := pm.Stats()
	assert.Equal(t, int64(10), stats.RequestsTotal)
	assert.Equal(t, int64(5), stats.RequestsFailed)
}

// embeddedLogger aliases logging.Logger so the embedded field's name does
// not collide with the interface's Logger() method, which would block its
// promotion into the struct's method set.
type embeddedLogger = logging.Logger

// statsRecorder captures resource stat events for assertions.
type statsRecorder struct {
	embeddedLogger
	mu      sync.Mutex
	samples []map[string]interface{}
}

func (s *statsRecorder) LogResourceStats(serviceName string, stats map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, stats)
}

func TestPerformanceMonitor_SamplesReachEventLogger(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	recorder := &statsRecorder{embeddedLogger: logging.NewStandardLogger("error")}
	pm := NewPerformanceMonitor(logger, recorder, time.Hour)

	pm.RecordRequest(nil)
	pm.collect(context.Background())

	require.Len(t, recorder.samples, 1)
	assert.Equal(t, int64(1), recorder.samples[0]["requests_total"])
	assert.Contains(t, recorder.samples[0], "goroutines")
}

func TestNewPerformanceMonitor_DefaultInterval(t *testing.T) {
	pm := testMonitor(0)
	assert.Equal(t, 30*time.Second, pm.interval)
}
