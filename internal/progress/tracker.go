// Package progress reports completion counts during a batch of work.
package progress

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// Tracker counts completed items and logs a progress line at a fixed cadence
// and on the final item. Safe for concurrent use.
type Tracker struct {
	logger *zap.Logger
	total  int64
	every  int64
	done   atomic.Int64
}

// New builds a Tracker for a batch of total items, logging every `every`
// completions.
func New(logger *zap.Logger, total, every int) *Tracker {
	if every <= 0 {
		every = 5
	}
	return &Tracker{
		logger: logger,
		total:  int64(total),
		every:  int64(every),
	}
}

// Done records one completed item.
func (t *Tracker) Done() {
	n := t.done.Add(1)
	if n%t.every == 0 || n == t.total {
		t.logger.Info("progress",
			zap.Int64("completed", n),
			zap.Int64("total", t.total))
	}
}

// Completed returns the number of items recorded so far.
func (t *Tracker) Completed() int {
	return int(t.done.Load())
}
