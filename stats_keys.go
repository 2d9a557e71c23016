package fncall

// StatKey names a counter or gauge in [RunStats].
type StatKey string

// With appends a suffix to a prefix key, e.g. SCFailuresFor.With("parse_failure").
func (k StatKey) With(suffix string) StatKey {
	return k + StatKey(suffix)
}

// KeyPrefix is the prefix of every standard key. Use your own prefix for custom keys.
const KeyPrefix = "fncall:"

// Counters.
const (
	SCPrompts      StatKey = "fncall:prompts"
	SCAttempts     StatKey = "fncall:attempts"
	SCSuccesses    StatKey = "fncall:successes"
	SCFailures     StatKey = "fncall:failures"
	SCFailuresFor  StatKey = "fncall:failures:" // + Kind
	SCGaveUp       StatKey = "fncall:gave_up"
	SCOutputTokens StatKey = "fncall:output_tokens"
	SCModelErrors  StatKey = "fncall:model_errors"
)

// Gauges.
const (
	SGInFlight StatKey = "fncall:in_flight"
)
