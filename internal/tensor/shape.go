package tensor

import "fmt"

// Dims is the set of fixed-rank dimension arrays a Shape can carry.
// The array length is the rank, so shapes of different rank are different
// types and mixing them is a compile error.
type Dims interface {
	[0]int | [1]int | [2]int | [3]int | [4]int | [5]int | [6]int
}

// Sizer is implemented by shapes of any rank.
type Sizer interface {
	NumElements() int
	Slice() []int
}

// Range is a half-open interval [Start, End) along one axis.
type Range struct {
	Start, End int
}

// Len returns the number of indices in the range (0 for empty or inverted ranges).
func (r Range) Len() int {
	return max(r.End-r.Start, 0)
}

// Shape represents the dimensions of a tensor of static rank len(D).
// Shapes are values: copy them freely.
type Shape[D Dims] struct {
	dims D
}

// NewShape creates a Shape from a dimension array.
//
// Example:
//
//	s := tensor.NewShape([3]int{2, 3, 4}) // Shape[[3]int]
func NewShape[D Dims](dims D) Shape[D] {
	return Shape[D]{dims: dims}
}

// ShapeFromSlice creates a Shape from a slice whose length must equal the rank.
// It panics with a *RankError otherwise.
func ShapeFromSlice[D Dims](dims []int) Shape[D] {
	var s Shape[D]
	if len(dims) != s.Rank() {
		panic(&RankError{Op: "shape", Want: s.Rank(), Got: len(dims)})
	}
	for i := range s.Rank() {
		s.dims[i] = dims[i]
	}
	return s
}

// Dims returns the dimension array.
func (s Shape[D]) Dims() D {
	return s.dims
}

// Rank returns the number of dimensions.
func (s Shape[D]) Rank() int {
	return len(s.dims)
}

// Dim returns the size of axis i.
func (s Shape[D]) Dim(i int) int {
	return s.dims[i]
}

// Slice returns the dimensions as a freshly allocated slice.
func (s Shape[D]) Slice() []int {
	out := make([]int, s.Rank())
	for i := range out {
		out[i] = s.dims[i]
	}
	return out
}

// NumElements returns the total number of elements.
// A rank-0 shape has one element.
func (s Shape[D]) NumElements() int {
	n := 1
	for i := range s.Rank() {
		n *= s.dims[i]
	}
	return n
}

// Equal checks if two shapes are equal.
func (s Shape[D]) Equal(other Shape[D]) bool {
	for i := range s.Rank() {
		if s.dims[i] != other.dims[i] {
			return false
		}
	}
	return true
}

// String formats the shape as [d0 d1 ...].
func (s Shape[D]) String() string {
	return fmt.Sprint(s.Slice())
}

// CheckReshape returns an error unless s and other hold the same number of elements.
// other may have any rank.
func (s Shape[D]) CheckReshape(other Sizer) error {
	if l, r := s.NumElements(), other.NumElements(); l != r {
		return &ShapeError{
			Op:  "reshape",
			Lhs: s.Slice(),
			Rhs: other.Slice(),
			Dim: -1,
			Msg: fmt.Sprintf("illegal reshape (%d elements to %d elements)", l, r),
		}
	}
	return nil
}

// AssertReshape panics unless s and other hold the same number of elements.
func (s Shape[D]) AssertReshape(other Sizer) {
	if err := s.CheckReshape(other); err != nil {
		panic(err)
	}
}

// CheckBroadcast returns an error unless s broadcasts onto target:
// every axis of s must equal the target axis or be exactly 1.
// Ranks are equal by construction; there is no implicit rank padding.
func (s Shape[D]) CheckBroadcast(target Shape[D]) error {
	for i := range s.Rank() {
		if s.dims[i] != target.dims[i] && s.dims[i] != 1 {
			return &ShapeError{
				Op:  "broadcast",
				Lhs: s.Slice(),
				Rhs: target.Slice(),
				Dim: i,
				Msg: "illegal broadcast",
			}
		}
	}
	return nil
}

// AssertBroadcast panics unless s broadcasts onto target.
//
// Example:
//
//	NewShape([3]int{4, 1, 3}).AssertBroadcast(NewShape([3]int{4, 5, 3})) // ok
//	NewShape([3]int{4, 2, 3}).AssertBroadcast(NewShape([3]int{4, 5, 3})) // panics, dim 1
func (s Shape[D]) AssertBroadcast(target Shape[D]) {
	if err := s.CheckBroadcast(target); err != nil {
		panic(err)
	}
}

// Index returns the shape of a sub-region: axis i of the result is the length
// of ranges[i] for the leading len(ranges) axes, and the source size for the rest.
// It panics with a *RankError when more ranges than axes are given.
func (s Shape[D]) Index(ranges ...Range) Shape[D] {
	if len(ranges) > s.Rank() {
		panic(&RankError{Op: "index", Want: s.Rank(), Got: len(ranges)})
	}
	out := s
	for i, r := range ranges {
		out.dims[i] = r.Len()
	}
	return out
}

// Higher returns the shape with the larger sum of dimensions, keeping s on ties.
// It is only a guess for an output shape; use BroadcastShape for the real thing.
func (s Shape[D]) Higher(other Shape[D]) Shape[D] {
	sumSelf, sumOther := 0, 0
	for i := range s.Rank() {
		sumSelf += s.dims[i]
		sumOther += other.dims[i]
	}
	if sumSelf < sumOther {
		return other
	}
	return s
}

// RemoveDim drops axis dim from s, producing a shape one rank lower.
// It panics with a *RankError when rank(D2) != rank(D1)-1 and with a
// *ShapeError when dim is not an axis of s.
//
// Example:
//
//	s := tensor.NewShape([3]int{2, 3, 4})
//	r := tensor.RemoveDim[[2]int](s, 1) // [2 4]
func RemoveDim[D2, D1 Dims](s Shape[D1], dim int) Shape[D2] {
	var out Shape[D2]
	if out.Rank() != s.Rank()-1 {
		panic(&RankError{Op: "remove_dim", Want: s.Rank() - 1, Got: out.Rank()})
	}
	if dim < 0 || dim >= s.Rank() {
		panic(&ShapeError{
			Op:  "remove_dim",
			Lhs: s.Slice(),
			Rhs: out.Slice(),
			Dim: dim,
			Msg: fmt.Sprintf("axis out of range for rank %d", s.Rank()),
		})
	}
	j := 0
	for i := range s.Rank() {
		if i != dim {
			out.dims[j] = s.dims[i]
			j++
		}
	}
	return out
}

// BroadcastShape returns the shape two equal-rank operands broadcast to:
// equal axes are kept, a 1 takes the other side's size, anything else is an error.
func BroadcastShape[D Dims](a, b Shape[D]) (Shape[D], error) {
	dims, err := BroadcastDims(a.Slice(), b.Slice())
	if err != nil {
		return Shape[D]{}, err
	}
	return ShapeFromSlice[D](dims), nil
}

// BroadcastDims is the rank-erased form of BroadcastShape used by backends.
// Both operands must have the same rank.
func BroadcastDims(a, b []int) ([]int, error) {
	if len(a) != len(b) {
		return nil, &RankError{Op: "broadcast", Want: len(a), Got: len(b)}
	}
	out := make([]int, len(a))
	for i := range a {
		switch {
		case a[i] == b[i]:
			out[i] = a[i]
		case a[i] == 1:
			out[i] = b[i]
		case b[i] == 1:
			out[i] = a[i]
		default:
			return nil, &ShapeError{
				Op:  "broadcast",
				Lhs: append([]int(nil), a...),
				Rhs: append([]int(nil), b...),
				Dim: i,
				Msg: "shapes not compatible for broadcasting",
			}
		}
	}
	return out, nil
}
