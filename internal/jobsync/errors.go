package jobsync

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindNone ErrorKind = iota
	// KindValidation: rejected before any request was made.
	KindValidation
	// KindTransport: the request failed or the backend answered non-2xx,
	// including a record that no longer exists.
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	default:
		return "none"
	}
}

type MutationError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s job: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// KindOf classifies err. Errors that did not come from a mutation are
// treated as transport failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var me *MutationError
	if errors.As(err, &me) {
		return me.Kind
	}
	return KindTransport
}
