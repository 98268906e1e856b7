package domain

import (
	"context"
	"time"
)

// AskRequest captures user intent originating from the CLI or the REPL.
type AskRequest struct {
	Context       context.Context
	Prompt        string
	ModelOverride string
	BypassCache   bool
	Params        InferenceParams
	Debug         bool
}

// AskResult is the canonical response propagated back to the CLI.
//
// The orchestrator always returns a populated result; Error carries the
// failure description when the provider call did not succeed, so interactive
// loops can print it and keep going.
type AskResult struct {
	Answer    string
	ModelUsed string
	Family    ModelFamily
	FromCache bool
	Usage     TokenUsage
	CostUSD   float64
	Elapsed   time.Duration
	Error     string
}

// Failed reports whether the request produced no usable answer.
func (r AskResult) Failed() bool {
	return r.Error != ""
}

// AskService exposes the use-case boundary for handling one completion request.
type AskService interface {
	Run(AskRequest) (AskResult, error)
}
