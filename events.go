package fncall

import "time"

// BeforeAttemptEvent is fired before the model is asked for a candidate.
type BeforeAttemptEvent struct {
	// PromptIndex is the position of the prompt in the run input.
	PromptIndex int
	// Prompt is the user prompt being answered.
	Prompt string
	// Attempt starts at 1.
	Attempt int
}

// AfterAttemptEvent is fired once per attempt, after validation or after the
// model call failed.
type AfterAttemptEvent struct {
	PromptIndex int
	Prompt      string
	Attempt     int

	// RawOutput is the model text, empty when the model call failed.
	RawOutput string

	// Result is set when the attempt produced a valid call.
	Result *CoercedFunctionCall

	// Error is the model, extraction or validation error. Use [KindOf] and
	// [Reasons] to inspect it.
	Error error

	// OutputTokens is the tokenizer count of RawOutput.
	OutputTokens int

	Duration time.Duration
}

// AfterPromptEvent is fired when a prompt is finished, either with a result or
// after its last failed attempt.
type AfterPromptEvent struct {
	PromptIndex int
	Prompt      string
	Attempts    int
	Result      *CoercedFunctionCall
	// Error is the error of the last attempt when Result is nil.
	Error error
}
