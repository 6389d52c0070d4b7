package tensor

import (
	"errors"
	"fmt"
)

// Sentinel errors for shape and rank validation.
//
// Shape and rank failures are programmer errors: the Assert* helpers and the
// tensor operators panic with a *ShapeError or *RankError wrapping one of
// these, so callers that recover can still match them with errors.Is.
var (
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrRankMismatch  = errors.New("rank mismatch")
)

// ShapeError reports two shapes that cannot be combined by an operation.
// Dim is the offending axis, or -1 when the failure is not tied to one axis
// (e.g. differing element counts on reshape).
type ShapeError struct {
	Op  string
	Lhs []int
	Rhs []int
	Dim int
	Msg string
}

func (e *ShapeError) Error() string {
	if e.Dim >= 0 {
		return fmt.Sprintf("%s: %s %v vs %v at dim %d", e.Op, e.Msg, e.Lhs, e.Rhs, e.Dim)
	}
	return fmt.Sprintf("%s: %s %v vs %v", e.Op, e.Msg, e.Lhs, e.Rhs)
}

// Unwrap returns ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// RankError reports an operation invoked at the wrong rank.
type RankError struct {
	Op   string
	Want int
	Got  int
}

func (e *RankError) Error() string {
	return fmt.Sprintf("%s: expected rank %d, got rank %d", e.Op, e.Want, e.Got)
}

// Unwrap returns ErrRankMismatch.
func (e *RankError) Unwrap() error {
	return ErrRankMismatch
}

// CheckRank is the runtime guard for rank-restricted operations at the
// rank-erased contract boundary (e.g. a backend's MatMul primitive).
// It panics with a *RankError when len(dims) != want.
func CheckRank(op string, dims []int, want int) {
	if len(dims) != want {
		panic(&RankError{Op: op, Want: want, Got: len(dims)})
	}
}
