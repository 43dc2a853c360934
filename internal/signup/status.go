package signup

import "github.com/nfrund/stucruum/internal/domain"

// Status is the submission lifecycle of a sign-up form.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// State is a point-in-time copy of a form, safe to hand to views.
type State struct {
	Draft  domain.Draft
	Status Status
	// Error is the inline message shown under the inputs. Empty unless
	// Status is StatusFailed.
	Error string
}

// Submitting reports whether a request is outstanding.
func (s State) Submitting() bool { return s.Status == StatusSubmitting }

// Outcome is what a submit produced.
type Outcome struct {
	State State
	// Redirect is the path the browser must navigate to. Only set when the
	// endpoint accepted the draft.
	Redirect string
}
