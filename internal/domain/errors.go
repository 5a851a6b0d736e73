package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

type FailureKind int

const (
	FetchFailure FailureKind = iota + 1
	CompositionFailure
	TimeoutFailure
)

func (k FailureKind) String() string {
	switch k {
	case FetchFailure:
		return "fetch"
	case CompositionFailure:
		return "composition"
	case TimeoutFailure:
		return "timeout"
	default:
		return "unknown"
	}
}

// Failure is the error raised by a fetch, a presentation unit or a
// boundary timer. Op names the data kind or unit that failed.
type Failure struct {
	Kind FailureKind
	Op   string
	Err  error
}

func NewFailure(kind FailureKind, op string, err error) *Failure {
	return &Failure{Kind: kind, Op: op, Err: err}
}

func Compositionf(op, format string, args ...any) *Failure {
	return &Failure{Kind: CompositionFailure, Op: op, Err: fmt.Errorf(format, args...)}
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failure in %s: %v", f.Kind, f.Op, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// FailureKindOf reports the failure kind carried by err, if any.
func FailureKindOf(err error) (FailureKind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return 0, false
}
