// Package broker implements account resolution: it takes a normalized
// provider profile, applies tenant policy, and either matches an
// existing account or provisions a new one.
package broker

import (
	"errors"
	"fmt"

	"github.com/yoocash/idbroker/internal/store"
)

// ErrNoCredential is returned when a callback carries no token material.
var ErrNoCredential = errors.New("no access token provided")

// RejectReason identifies which policy gate refused a login. The values
// double as machine-readable codes on the wire; existing clients match
// on the exact strings, capitalization and all.
type RejectReason string

const (
	ReasonRegisterClosed RejectReason = "Auth.advanced.allow_register"
	ReasonEmailTaken     RejectReason = "Auth.form.error.email.taken"
)

// Rejection is a policy outcome, not a failure: the pipeline ran to
// completion and the tenant's settings refused the login. It implements
// error so it flows through the same return path, and callers pick it
// out with errors.As.
type Rejection struct {
	Reason  RejectReason
	Message string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("login rejected (%s): %s", r.Reason, r.Message)
}

func rejectRegisterClosed() *Rejection {
	return &Rejection{
		Reason: ReasonRegisterClosed,
		// The misspelling is part of the contract.
		Message: "Register action is actualy not available.",
	}
}

func rejectEmailTaken() *Rejection {
	return &Rejection{
		Reason:  ReasonEmailTaken,
		Message: "Email is already taken.",
	}
}

// StoreError wraps a persistence failure with the operation that hit it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Result is a successful resolution: the resolved account and whether
// it was created by this attempt.
type Result struct {
	User *store.User
	New  bool
}
