package services

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sirupsen/logrus"

	"github.com/sheetsage/sheetsage-ai-go/internal/logging"
)

// monitorServiceName tags resource stat events.
const monitorServiceName = "sheetsage-analyzer"

// ResourceStats is one sampled view of process and host load.
type ResourceStats struct {
	CPUUsage       float64   `json:"cpu_usage"`
	MemoryUsedPct  float64   `json:"memory_used_pct"`
	HeapAlloc      uint64    `json:"heap_alloc"`
	Goroutines     int       `json:"goroutines"`
	NumGC          uint32    `json:"num_gc"`
	RequestsTotal  int64     `json:"requests_total"`
	RequestsFailed int64     `json:"requests_failed"`
	LastUpdated    time.Time `json:"last_updated"`
}

// PerformanceMonitor samples host and runtime stats on an interval and
// tracks request counters for the analysis pipeline.
type PerformanceMonitor struct {
	logger   *logrus.Logger
	events   logging.Logger
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once

	mu             sync.RWMutex
	stats          ResourceStats
	requestsTotal  int64
	requestsFailed int64
}

// NewPerformanceMonitor creates a monitor sampling at the given interval.
// Samples are emitted through the events logger.
func NewPerformanceMonitor(logger *logrus.Logger, events logging.Logger, interval time.Duration) *PerformanceMonitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &PerformanceMonitor{
		logger:   logger,
		events:   events,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start samples until Stop is called or the context ends. Run it on its own
// goroutine.
func (pm *PerformanceMonitor) Start(ctx context.Context) {
	pm.logger.Info("Starting performance monitor")

	ticker := time.NewTicker(pm.interval)
	defer ticker.Stop()

	pm.collect(ctx)
	for {
		select {
		case <-ticker.C:
			pm.collect(ctx)
		case <-pm.stopChan:
			pm.logger.Info("Performance monitor stopped")
			return
		case <-ctx.Done():
			pm.logger.Info("Performance monitor context cancelled")
			return
		}
	}
}

// Stop ends sampling. Safe to call more than once.
func (pm *PerformanceMonitor) Stop() {
	pm.stopOnce.Do(func() {
		close(pm.stopChan)
	})
}

// RecordRequest updates the pipeline counters after one analysis request.
func (pm *PerformanceMonitor) RecordRequest(err error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.requestsTotal++
	if err != nil {
		pm.requestsFailed++
	}
}

// Stats returns the latest sample.
func (pm *PerformanceMonitor) Stats() ResourceStats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.stats
}

func (pm *PerformanceMonitor) collect(ctx context.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := ResourceStats{
		HeapAlloc:   m.HeapAlloc,
		Goroutines:  runtime.NumGoroutine(),
		NumGC:       m.NumGC,
		LastUpdated: time.Now(),
	}

	if cpuPercent, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(cpuPercent) > 0 {
		stats.CPUUsage = cpuPercent[0]
	} else if err != nil {
		pm.logger.WithError(err).Debug("Could not sample CPU usage")
	}
	if memInfo, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		stats.MemoryUsedPct = memInfo.UsedPercent
	} else {
		pm.logger.WithError(err).Debug("Could not sample memory usage")
	}

	pm.mu.Lock()
	stats.RequestsTotal = pm.requestsTotal
	stats.RequestsFailed = pm.requestsFailed
	pm.stats = stats
	pm.mu.Unlock()

	pm.events.LogResourceStats(monitorServiceName, map[string]interface{}{
		"cpu_usage":       stats.CPUUsage,
		"memory_used_pct": stats.MemoryUsedPct,
		"heap_alloc":      stats.HeapAlloc,
		"goroutines":      stats.Goroutines,
		"requests_total":  stats.RequestsTotal,
		"requests_failed": stats.RequestsFailed,
	})
}
