package pipeline

import "sync/atomic"

// Level is the two-level shutdown state every stage observes: Running,
// then Graceful (finish pending work, forward the end-of-stream sentinel,
// exit), then Forced (exit promptly without draining).
type Level int32

const (
	// Running is the normal operating state.
	Running Level = 0
	// Graceful requests stages drain pending work before exiting.
	Graceful Level = 1
	// Forced requests stages exit immediately.
	Forced Level = 2
)

// ShutdownLevel is the process-wide do_exit flag, transitioning
// 0 (Running) -> 1 (Graceful) -> 2 (Forced) and never backward.
type ShutdownLevel struct {
	level atomic.Int32
}

// Load returns the current shutdown level.
func (s *ShutdownLevel) Load() Level {
	return Level(s.level.Load())
}

// RequestGraceful transitions Running -> Graceful. A no-op if already at
// or past Graceful.
func (s *ShutdownLevel) RequestGraceful() {
	s.level.CompareAndSwap(int32(Running), int32(Graceful))
}

// RequestForced transitions to Forced unconditionally.
func (s *ShutdownLevel) RequestForced() {
	s.level.Store(int32(Forced))
}
