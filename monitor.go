package lotto

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds operation counters for the lifecycle manager
type Metrics struct {
	// Conduct statistics
	DrawsConducted int64 `json:"draws_conducted"` // completed conduct operations
	DrawFailures   int64 `json:"draw_failures"`   // failed conduct operations
	TotalDrawTime  int64 `json:"total_draw_time"` // cumulative conduct time (ns)

	// Ticket statistics
	TicketsPurchased int64 `json:"tickets_purchased"` // successfully created tickets
	TicketsRejected  int64 `json:"tickets_rejected"`  // purchases rejected by a guard
	WinnersRecorded  int64 `json:"winners_recorded"`  // tickets flagged as winners

	// Lock statistics
	LockAcquisitions int64 `json:"lock_acquisitions"`
	LockFailures     int64 `json:"lock_failures"`
	LockReleases     int64 `json:"lock_releases"`

	// Store statistics
	StoreErrors int64 `json:"store_errors"`

	// Timestamps (ns)
	StartTime      int64 `json:"start_time"`
	LastUpdateTime int64 `json:"last_update_time"`
}

// ConductSuccessRate returns the share of conduct operations that succeeded,
// as a percentage
func (m *Metrics) ConductSuccessRate() float64 {
	total := atomic.LoadInt64(&m.DrawsConducted) + atomic.LoadInt64(&m.DrawFailures)
	if total == 0 {
		return 0.0
	}
	return float64(atomic.LoadInt64(&m.DrawsConducted)) / float64(total) * 100.0
}

// AverageConductTime returns the mean duration of a completed conduct
func (m *Metrics) AverageConductTime() time.Duration {
	conducted := atomic.LoadInt64(&m.DrawsConducted)
	if conducted == 0 {
		return 0
	}
	return time.Duration(atomic.LoadInt64(&m.TotalDrawTime) / conducted)
}

// Reset zeroes all counters
func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.DrawsConducted, 0)
	atomic.StoreInt64(&m.DrawFailures, 0)
	atomic.StoreInt64(&m.TotalDrawTime, 0)
	atomic.StoreInt64(&m.TicketsPurchased, 0)
	atomic.StoreInt64(&m.TicketsRejected, 0)
	atomic.StoreInt64(&m.WinnersRecorded, 0)
	atomic.StoreInt64(&m.LockAcquisitions, 0)
	atomic.StoreInt64(&m.LockFailures, 0)
	atomic.StoreInt64(&m.LockReleases, 0)
	atomic.StoreInt64(&m.StoreErrors, 0)
	atomic.StoreInt64(&m.StartTime, time.Now().UnixNano())
	atomic.StoreInt64(&m.LastUpdateTime, time.Now().UnixNano())
}

// PerformanceMonitor collects Metrics with atomic counters
type PerformanceMonitor struct {
	metrics *Metrics
	mu      sync.RWMutex
	enabled bool
}

// NewPerformanceMonitor creates an enabled performance monitor
func NewPerformanceMonitor() *PerformanceMonitor {
	pm := &PerformanceMonitor{
		metrics: &Metrics{},
		enabled: true,
	}
	pm.metrics.Reset()
	return pm
}

// Enable turns metric collection on
func (pm *PerformanceMonitor) Enable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.enabled = true
}

// Disable turns metric collection off
func (pm *PerformanceMonitor) Disable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.enabled = false
}

// IsEnabled reports whether metric collection is on
func (pm *PerformanceMonitor) IsEnabled() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	return pm.enabled
}

// RecordConduct records one conduct-draw operation
func (pm *PerformanceMonitor) RecordConduct(success bool, duration time.Duration) {
	if !pm.IsEnabled() {
		return
	}

	if success {
		atomic.AddInt64(&pm.metrics.DrawsConducted, 1)
		atomic.AddInt64(&pm.metrics.TotalDrawTime, int64(duration))
	} else {
		atomic.AddInt64(&pm.metrics.DrawFailures, 1)
	}
	atomic.StoreInt64(&pm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// RecordPurchase records one ticket purchase attempt
func (pm *PerformanceMonitor) RecordPurchase(success bool) {
	if !pm.IsEnabled() {
		return
	}

	if success {
		atomic.AddInt64(&pm.metrics.TicketsPurchased, 1)
	} else {
		atomic.AddInt64(&pm.metrics.TicketsRejected, 1)
	}
	atomic.StoreInt64(&pm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// RecordWinners records tickets flagged as winners by a conduct
func (pm *PerformanceMonitor) RecordWinners(count int) {
	if !pm.IsEnabled() {
		return
	}

	atomic.AddInt64(&pm.metrics.WinnersRecorded, int64(count))
	atomic.StoreInt64(&pm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// RecordLockAcquisition records a lock acquisition attempt
func (pm *PerformanceMonitor) RecordLockAcquisition(success bool) {
	if !pm.IsEnabled() {
		return
	}

	if success {
		atomic.AddInt64(&pm.metrics.LockAcquisitions, 1)
	} else {
		atomic.AddInt64(&pm.metrics.LockFailures, 1)
	}
	atomic.StoreInt64(&pm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// RecordLockRelease records a lock release
func (pm *PerformanceMonitor) RecordLockRelease() {
	if !pm.IsEnabled() {
		return
	}

	atomic.AddInt64(&pm.metrics.LockReleases, 1)
	atomic.StoreInt64(&pm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// RecordStoreError records a store failure
func (pm *PerformanceMonitor) RecordStoreError() {
	if !pm.IsEnabled() {
		return
	}

	atomic.AddInt64(&pm.metrics.StoreErrors, 1)
	atomic.StoreInt64(&pm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// GetMetrics returns a copy of the current metrics
func (pm *PerformanceMonitor) GetMetrics() Metrics {
	return Metrics{
		DrawsConducted:   atomic.LoadInt64(&pm.metrics.DrawsConducted),
		DrawFailures:     atomic.LoadInt64(&pm.metrics.DrawFailures),
		TotalDrawTime:    atomic.LoadInt64(&pm.metrics.TotalDrawTime),
		TicketsPurchased: atomic.LoadInt64(&pm.metrics.TicketsPurchased),
		TicketsRejected:  atomic.LoadInt64(&pm.metrics.TicketsRejected),
		WinnersRecorded:  atomic.LoadInt64(&pm.metrics.WinnersRecorded),
		LockAcquisitions: atomic.LoadInt64(&pm.metrics.LockAcquisitions),
		LockFailures:     atomic.LoadInt64(&pm.metrics.LockFailures),
		LockReleases:     atomic.LoadInt64(&pm.metrics.LockReleases),
		StoreErrors:      atomic.LoadInt64(&pm.metrics.StoreErrors),
		StartTime:        atomic.LoadInt64(&pm.metrics.StartTime),
		LastUpdateTime:   atomic.LoadInt64(&pm.metrics.LastUpdateTime),
	}
}

// ResetMetrics resets all counters
func (pm *PerformanceMonitor) ResetMetrics() { pm.metrics.Reset() }
