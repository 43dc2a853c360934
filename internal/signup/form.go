// Package signup holds the sign-up form state and the client that delivers a
// finished draft to the remote endpoint.
package signup

import (
	"context"
	"errors"
	"sync"

	"github.com/nfrund/stucruum/internal/domain"
)

const (
	// LoginPath is where the browser is sent once the endpoint accepts a draft.
	LoginPath = "/login"

	// MsgRejected is shown when the endpoint answers with a non-success status.
	MsgRejected = "Signup failed"
	// MsgFallback is shown when a transport error carries no message.
	MsgFallback = "An error occurred during signup"
)

// ErrSubmitInFlight is returned when a submit arrives while the previous one
// has not finished yet.
var ErrSubmitInFlight = errors.New("sign-up submission already in progress")

// Form is the sign-up form of one page. All methods are safe for concurrent use.
type Form struct {
	submitter domain.SignupSubmitter

	mu     sync.Mutex
	draft  domain.Draft
	status Status
	errMsg string
}

// NewForm creates an empty form that submits through s.
func NewForm(s domain.SignupSubmitter) *Form {
	return &Form{submitter: s}
}

// State returns a snapshot of the form.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateLocked()
}

func (f *Form) stateLocked() State {
	return State{Draft: f.draft, Status: f.status, Error: f.errMsg}
}

// Change stores value in field and clears any previous error.
func (f *Form) Change(field domain.Field, value string) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	draft, err := f.draft.With(field, value)
	if err != nil {
		return f.stateLocked(), err
	}
	f.draft = draft
	f.errMsg = ""
	if f.status == StatusFailed {
		f.status = StatusIdle
	}
	return f.stateLocked(), nil
}

// Submit sends the current draft upstream. The call blocks until the
// submitter returns; the form lock is not held meanwhile, so edits and
// renders stay responsive.
func (f *Form) Submit(ctx context.Context) (Outcome, error) {
	f.mu.Lock()
	if f.status == StatusSubmitting {
		st := f.stateLocked()
		f.mu.Unlock()
		return Outcome{State: st}, ErrSubmitInFlight
	}
	f.status = StatusSubmitting
	f.errMsg = ""
	draft := f.draft
	f.mu.Unlock()

	err := f.submitter.Submit(ctx, draft)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.status = StatusFailed
		f.errMsg = failureMessage(err)
		return Outcome{State: f.stateLocked()}, nil
	}
	f.status = StatusIdle
	return Outcome{State: f.stateLocked(), Redirect: LoginPath}, nil
}

func failureMessage(err error) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return MsgRejected
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgFallback
}
