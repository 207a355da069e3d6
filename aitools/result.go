package aitools

import "errors"

// FailureKind classifies why a tool's underlying dependency failed.
// Every kind is terminal for the current call; no tool retries on its own.
type FailureKind int

const (
	// FailNone means the call succeeded.
	FailNone FailureKind = iota
	// FailRateLimited means the underlying service signaled throttling.
	FailRateLimited
	// FailProvider means the underlying service returned a provider-specific failure.
	FailProvider
	// FailUnclassified covers any residual failure.
	FailUnclassified
)

// Result is the outcome of a tool call before it is rendered back to the
// agent runtime. Tools build a Result internally and hand the runtime the
// rendered string, which keeps Call total: a failure becomes a labeled
// string the model can reason about, never a raw error.
type Result struct {
	Value  string
	Kind   FailureKind
	Label  string // provider exception label, used when Kind == FailProvider
	Detail string
}

// Ok returns a successful result carrying value.
func Ok(value string) Result {
	return Result{Value: value, Kind: FailNone}
}

// RateLimited returns a throttling failure.
func RateLimited(detail string) Result {
	return Result{Kind: FailRateLimited, Detail: detail}
}

// ProviderFailure returns a provider-specific failure under the given label.
func ProviderFailure(label, detail string) Result {
	return Result{Kind: FailProvider, Label: label, Detail: detail}
}

// Unclassified returns a residual failure.
func Unclassified(detail string) Result {
	return Result{Kind: FailUnclassified, Detail: detail}
}

// Render converts the result into the string handed back to the agent
// runtime. Failure strings are prefixed with their exception label so the
// model can distinguish throttling from provider faults.
func (r Result) Render() string {
	switch r.Kind {
	case FailNone:
		return r.Value
	case FailRateLimited:
		return "RatelimitException: " + r.Detail
	case FailProvider:
		label := r.Label
		if label == "" {
			label = "ProviderException"
		}
		return label + ": " + r.Detail
	default:
		return "Exception: " + r.Detail
	}
}

// Failed reports whether the result carries a failure.
func (r Result) Failed() bool {
	return r.Kind != FailNone
}

// throttled is implemented by client errors that represent throttling.
type throttled interface {
	RateLimited() bool
}

// labeled is implemented by client errors that carry a provider label.
type labeled interface {
	ProviderLabel() string
}

// FromError classifies err into a Result using the optional throttled and
// labeled interfaces implemented by service client errors. Unrecognized
// errors degrade to FailUnclassified.
func FromError(err error) Result {
	var t throttled
	if errors.As(err, &t) && t.RateLimited() {
		return RateLimited(err.Error())
	}
	var l labeled
	if errors.As(err, &l) {
		return ProviderFailure(l.ProviderLabel(), err.Error())
	}
	return Unclassified(err.Error())
}
