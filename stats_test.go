package fncall

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunStats_Counters(t *testing.T) {
	stats := NewRunStats()

	stats.IncrCounter(SCPrompts, 2)
	stats.IncrCounter(SCAttempts, 3)
	stats.IncrCounter(SCSuccesses, 1)
	stats.IncrCounter(SCOutputTokens, 40)

	assert.Equal(t, int64(2), stats.GetPrompts())
	assert.Equal(t, int64(3), stats.GetAttempts())
	assert.Equal(t, int64(1), stats.GetSuccesses())
	assert.Equal(t, int64(40), stats.GetOutputTokens())
	assert.Equal(t, int64(0), stats.GetCounter("custom:missing"))

	assert.Panics(t, func() { stats.IncrCounter(SCPrompts, -1) })
}

func TestRunStats_Gauges(t *testing.T) {
	stats := NewRunStats()

	stats.IncrGauge(SGInFlight, 1)
	stats.IncrGauge(SGInFlight, 1)
	stats.IncrGauge(SGInFlight, -1)
	assert.Equal(t, float64(1), stats.GetGauge(SGInFlight))

	stats.SetGauge(SGInFlight, 5)
	assert.Equal(t, map[string]float64{"fncall:in_flight": 5}, stats.Gauges())

	stats.ResetGauge(SGInFlight)
	assert.Equal(t, float64(0), stats.GetGauge(SGInFlight))
	assert.Empty(t, stats.Gauges())
}

func TestRunStats_FailuresByKind(t *testing.T) {
	stats := NewRunStats()

	stats.RecordFailure(KindParse)
	stats.RecordFailure(KindCoercion)
	stats.RecordFailure(KindCoercion)

	assert.Equal(t, int64(3), stats.GetCounter(SCFailures))
	assert.Equal(t, map[Kind]int64{KindParse: 1, KindCoercion: 2}, stats.FailuresByKind())
	assert.Equal(t, StatKey("fncall:failures:coercion_error"), SCFailuresFor.With(string(KindCoercion)))
}

func TestRunStats_Concurrent(t *testing.T) {
	stats := NewRunStats()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats.IncrCounter(SCAttempts, 1)
			stats.RecordFailure(KindStructural)
			stats.IncrGauge(SGInFlight, 1)
			stats.IncrGauge(SGInFlight, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), stats.GetAttempts())
	assert.Equal(t, int64(50), stats.FailuresByKind()[KindStructural])
	assert.Equal(t, float64(0), stats.GetGauge(SGInFlight))
}
