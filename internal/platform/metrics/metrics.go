package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64
	importsTotal    uint64
	exportsTotal    uint64
	shiftsGenerated uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordImport() {
	atomic.AddUint64(&c.importsTotal, 1)
}

func (c *Collector) RecordExport() {
	atomic.AddUint64(&c.exportsTotal, 1)
}

func (c *Collector) RecordShiftsGenerated(count int) {
	if count > 0 {
		atomic.AddUint64(&c.shiftsGenerated, uint64(count))
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":        total,
		"errorsTotal":          atomic.LoadUint64(&c.errorRequests),
		"rateLimitedTotal":     atomic.LoadUint64(&c.rateLimited),
		"avgDurationMs":        avg,
		"scheduleImportsTotal": atomic.LoadUint64(&c.importsTotal),
		"exportsTotal":         atomic.LoadUint64(&c.exportsTotal),
		"shiftsGeneratedTotal": atomic.LoadUint64(&c.shiftsGenerated),
	}
}
