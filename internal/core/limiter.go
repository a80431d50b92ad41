package core

// limiter.go bounds the number of imports and exports running at once.
//
// Each sync holds a slot for its whole duration (fetch, parse, write,
// format). When every slot is taken a new sync waits up to maxWait and then
// fails with ErrTooManySyncs; the caller is expected to retry.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManySyncs is returned when no sync slot frees up within the wait time.
var ErrTooManySyncs = errors.New("too many syncs in progress, please try again later")

// DefaultMaxConcurrentSyncs is the default limit for parallel syncs.
const DefaultMaxConcurrentSyncs = 4

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 15 * time.Second

// SyncLimiter is a counting semaphore with a bounded wait.
type SyncLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewSyncLimiter creates a limiter allowing maxConcurrent simultaneous syncs.
func NewSyncLimiter(maxConcurrent int, maxWait time.Duration) *SyncLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentSyncs
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &SyncLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting at most maxWait. The caller must Release
// the slot when the sync finishes.
func (l *SyncLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-timer.C:
		return ErrTooManySyncs
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (l *SyncLimiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// ActiveCount returns the number of syncs currently holding a slot.
func (l *SyncLimiter) ActiveCount() int {
	return int(l.active.Load())
}

// WaitForDrain blocks until no sync holds a slot or ctx ends. Used during
// shutdown so in-flight exports finish their writes.
func (l *SyncLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.ActiveCount() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// LimiterStatus is a point-in-time view of the limiter.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

// Status returns the current limiter state.
func (l *SyncLimiter) Status() LimiterStatus {
	return LimiterStatus{
		Active:        l.ActiveCount(),
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}
