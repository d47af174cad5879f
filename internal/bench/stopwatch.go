// Package bench drives mesh extraction over a batch of input files,
// timing each file on its own and the batch as a whole.
package bench

import "time"

// Stopwatch measures wall time on the monotonic clock. Elapsed may be
// read while the watch is running (time so far) or after Stop (frozen).
type Stopwatch struct {
	start   time.Time
	stop    time.Time
	running bool
}

// StartStopwatch returns a new, already running stopwatch.
func StartStopwatch() *Stopwatch {
	s := &Stopwatch{}
	s.Start()
	return s
}

// Start begins timing, discarding any earlier measurement.
func (s *Stopwatch) Start() {
	s.start = time.Now()
	s.stop = s.start
	s.running = true
}

// Stop freezes the elapsed time. Stopping a stopped watch has no effect.
func (s *Stopwatch) Stop() {
	if s.running {
		s.stop = time.Now()
		s.running = false
	}
}

// Elapsed returns the measured duration.
func (s *Stopwatch) Elapsed() time.Duration {
	if s.running {
		return time.Since(s.start)
	}
	return s.stop.Sub(s.start)
}

// ElapsedMS returns the measured duration in fractional milliseconds.
func (s *Stopwatch) ElapsedMS() float64 {
	return float64(s.Elapsed()) / float64(time.Millisecond)
}
