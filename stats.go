package fncall

import (
	"strings"
	"sync"
)

// RunStats contains counters for one pipeline run. All standard keys are prefixed
// with "fncall:" to avoid collisions with user-defined keys.
//
// # Counters vs Gauges
//
// Counters only go up: prompts processed, attempts made, failures per [Kind].
// Gauges can be set and reset, e.g. the consecutive failure count of the prompt
// currently being retried.
//
// # Thread Safety
//
// All methods are safe for concurrent use. The runner updates one RunStats from
// every worker goroutine.
type RunStats struct {
	mu       sync.RWMutex
	counters map[string]int64
	gauges   map[string]float64
}

// NewRunStats creates an empty RunStats.
func NewRunStats() *RunStats {
	return &RunStats{
		counters: make(map[string]int64),
		gauges:   make(map[string]float64),
	}
}

// IncrCounter increments a counter by delta, creating it if needed.
//
// Panics if delta is negative (counters only go up).
func (s *RunStats) IncrCounter(key StatKey, delta int64) {
	if delta < 0 {
		panic("fncall: IncrCounter called with negative delta")
	}
	s.mu.Lock()
	s.counters[string(key)] += delta
	s.mu.Unlock()
}

// GetCounter returns the counter value, or 0 if it was never incremented.
func (s *RunStats) GetCounter(key StatKey) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters[string(key)]
}

// IncrGauge adds delta to a gauge. Delta may be negative.
func (s *RunStats) IncrGauge(key StatKey, delta float64) {
	s.mu.Lock()
	s.gauges[string(key)] += delta
	s.mu.Unlock()
}

// SetGauge sets a gauge to value.
func (s *RunStats) SetGauge(key StatKey, value float64) {
	s.mu.Lock()
	s.gauges[string(key)] = value
	s.mu.Unlock()
}

// GetGauge returns the gauge value, or 0 if it was never set.
func (s *RunStats) GetGauge(key StatKey) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gauges[string(key)]
}

// ResetGauge sets a gauge back to 0.
func (s *RunStats) ResetGauge(key StatKey) {
	s.mu.Lock()
	delete(s.gauges, string(key))
	s.mu.Unlock()
}

// Counters returns a snapshot of all counters.
func (s *RunStats) Counters() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int64, len(s.counters))
	for k, v := range s.counters {
		out[k] = v
	}
	return out
}

// Gauges returns a snapshot of all gauges.
func (s *RunStats) Gauges() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]float64, len(s.gauges))
	for k, v := range s.gauges {
		out[k] = v
	}
	return out
}

// RecordFailure increments the total failure counter and the counter for kind.
func (s *RunStats) RecordFailure(kind Kind) {
	s.IncrCounter(SCFailures, 1)
	s.IncrCounter(SCFailuresFor.With(string(kind)), 1)
}

// FailuresByKind returns the per-kind failure counters keyed by Kind.
func (s *RunStats) FailuresByKind() map[Kind]int64 {
	prefix := string(SCFailuresFor)
	out := make(map[Kind]int64)
	for key, value := range s.Counters() {
		if strings.HasPrefix(key, prefix) {
			out[Kind(strings.TrimPrefix(key, prefix))] = value
		}
	}
	return out
}

// GetPrompts returns the number of prompts processed.
func (s *RunStats) GetPrompts() int64 {
	return s.GetCounter(SCPrompts)
}

// GetAttempts returns the number of generate/validate attempts made.
func (s *RunStats) GetAttempts() int64 {
	return s.GetCounter(SCAttempts)
}

// GetSuccesses returns the number of prompts that produced a valid call.
func (s *RunStats) GetSuccesses() int64 {
	return s.GetCounter(SCSuccesses)
}

// GetOutputTokens returns the number of model output tokens counted.
func (s *RunStats) GetOutputTokens() int64 {
	return s.GetCounter(SCOutputTokens)
}
