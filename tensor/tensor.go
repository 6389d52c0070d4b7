// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/tensorkit/internal/tensor"
)

// Type aliases for public API

// Dims is the set of fixed-rank dimension arrays, [0]int through [6]int.
type Dims = tensor.Dims

// Shape represents the dimensions of a tensor of static rank len(D).
// Example: NewShape([3]int{2, 3, 4}) is a 3D shape 2×3×4.
type Shape[D Dims] = tensor.Shape[D]

// Sizer is implemented by shapes of any rank.
type Sizer = tensor.Sizer

// Range is a half-open interval [Start, End) along one axis, used by Shape.Index.
type Range = tensor.Range

// Element is the constraint for numeric tensor elements.
// Supported types: float32, float64, int32, int64, uint8.
type Element = tensor.Element

// Float is the constraint for floating-point elements.
type Float = tensor.Float

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Unknown DataType = tensor.Unknown
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
)

// Tensor is a backend array paired with a static-rank shape.
//
// Backends export shorter aliases (see cpu.Tensor) fixing Dev, A and B.
type Tensor[E Element, D Dims, Dev any, A Array[A, Dev], B Numeric[E, A, Dev]] = tensor.Tensor[E, D, Dev, A, B]

// Ref is a borrowed, read-only view of a tensor.
type Ref[E Element, D Dims, Dev any, A Array[A, Dev], B Numeric[E, A, Dev]] = tensor.Ref[E, D, Dev, A, B]

// BoolTensor is a boolean tensor.
type BoolTensor[D Dims, Dev any, A Array[A, Dev], B BoolOps[A, Dev]] = tensor.BoolTensor[D, Dev, A, B]

// Operand is anything a tensor operator accepts on its right-hand side.
type Operand[A any, D Dims] = tensor.Operand[A, D]

// Errors.
var (
	ErrShapeMismatch = tensor.ErrShapeMismatch
	ErrRankMismatch  = tensor.ErrRankMismatch
)

// ShapeError reports two shapes that cannot be combined by an operation.
type ShapeError = tensor.ShapeError

// RankError reports an operation invoked at the wrong rank.
type RankError = tensor.RankError

// NewShape creates a Shape from a dimension array.
func NewShape[D Dims](dims D) Shape[D] {
	return tensor.NewShape(dims)
}

// ShapeFromSlice creates a Shape from a slice whose length must equal the rank.
func ShapeFromSlice[D Dims](dims []int) Shape[D] {
	return tensor.ShapeFromSlice[D](dims)
}

// RemoveDim drops axis dim from s, producing a shape one rank lower.
//
// Example:
//
//	r := tensor.RemoveDim[[2]int](tensor.NewShape([3]int{2, 3, 4}), 1) // [2 4]
func RemoveDim[D2, D1 Dims](s Shape[D1], dim int) Shape[D2] {
	return tensor.RemoveDim[D2](s, dim)
}

// BroadcastShape returns the shape two equal-rank operands broadcast to.
func BroadcastShape[D Dims](a, b Shape[D]) (Shape[D], error) {
	return tensor.BroadcastShape(a, b)
}

// BroadcastDims is BroadcastShape over rank-erased dimensions.
// Backends use it to size the output of a binary primitive.
func BroadcastDims(a, b []int) ([]int, error) {
	return tensor.BroadcastDims(a, b)
}

// DataTypeOf returns the DataType of E.
func DataTypeOf[E Element | ~bool]() DataType {
	return tensor.DataTypeOf[E]()
}

// New wraps array with shape. It fails if the element counts differ.
//
// This is a low-level function. Most users should use a backend's
// constructors (cpu.FromSlice, cpu.Zeros) instead.
func New[E Element, D Dims, Dev any, A Array[A, Dev], B Numeric[E, A, Dev]](array A, shape Shape[D]) (*Tensor[E, D, Dev, A, B], error) {
	return tensor.New[E, D, Dev, A, B](array, shape)
}

// NewBool wraps a boolean array with shape.
func NewBool[D Dims, Dev any, A Array[A, Dev], B BoolOps[A, Dev]](array A, shape Shape[D]) (*BoolTensor[D, Dev, A, B], error) {
	return tensor.NewBool[D, Dev, A, B](array, shape)
}

// Shape functions

// IntoShape consumes t and returns a tensor of another rank over the same array.
//
// Example:
//
//	flat := cpu.MustFromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.NewShape([1]int{6}))
//	m := tensor.IntoShape(flat, tensor.NewShape([2]int{2, 3}))
func IntoShape[D2 Dims, E Element, D Dims, Dev any, A Array[A, Dev], B Numeric[E, A, Dev]](t *Tensor[E, D, Dev, A, B], shape Shape[D2]) *Tensor[E, D2, Dev, A, B] {
	return tensor.IntoShape(t, shape)
}

// WithShape borrows t under a shape of any rank without copying.
func WithShape[D2 Dims, E Element, D Dims, Dev any, A Array[A, Dev], B Numeric[E, A, Dev]](t *Tensor[E, D, Dev, A, B], shape Shape[D2]) Ref[E, D2, Dev, A, B] {
	return tensor.WithShape(t, shape)
}

// Math functions

// MatMul multiplies two matrices: [M, K] @ [K, N] -> [M, N].
//
// Example:
//
//	a := cpu.Ones[float32](tensor.NewShape([2]int{2, 3}))
//	b := cpu.Ones[float32](tensor.NewShape([2]int{3, 4}))
//	c := tensor.MatMul(a, b) // [2 4]
func MatMul[E Element, Dev any, A Array[A, Dev], B Numeric[E, A, Dev]](lhs *Tensor[E, [2]int, Dev, A, B], rhs Operand[A, [2]int]) *Tensor[E, [2]int, Dev, A, B] {
	return tensor.MatMul(lhs, rhs)
}

// Gelu returns x/2 * (erf(x/2) + 1) elementwise.
func Gelu[E Float, D Dims, Dev any, A Array[A, Dev], B Real[E, A, Dev]](t *Tensor[E, D, Dev, A, B]) *Tensor[E, D, Dev, A, B] {
	return tensor.Gelu(t)
}

// GeluInPlace applies Gelu to t in place and returns t.
func GeluInPlace[E Float, D Dims, Dev any, A Array[A, Dev], B Real[E, A, Dev]](t *Tensor[E, D, Dev, A, B]) *Tensor[E, D, Dev, A, B] {
	return tensor.GeluInPlace(t)
}

// Erf returns the error function of t elementwise.
func Erf[E Float, D Dims, Dev any, A Array[A, Dev], B Real[E, A, Dev]](t *Tensor[E, D, Dev, A, B]) *Tensor[E, D, Dev, A, B] {
	return tensor.Erf(t)
}

// ErfInPlace applies the error function to t in place and returns t.
func ErfInPlace[E Float, D Dims, Dev any, A Array[A, Dev], B Real[E, A, Dev]](t *Tensor[E, D, Dev, A, B]) *Tensor[E, D, Dev, A, B] {
	return tensor.ErfInPlace(t)
}

// PowF returns t raised to the real power p.
func PowF[E Float, D Dims, Dev any, A Array[A, Dev], B Real[E, A, Dev]](t *Tensor[E, D, Dev, A, B], p float64) *Tensor[E, D, Dev, A, B] {
	return tensor.PowF(t, p)
}

// PowFInPlace raises t to the real power p in place and returns t.
func PowFInPlace[E Float, D Dims, Dev any, A Array[A, Dev], B Real[E, A, Dev]](t *Tensor[E, D, Dev, A, B], p float64) *Tensor[E, D, Dev, A, B] {
	return tensor.PowFInPlace(t, p)
}
