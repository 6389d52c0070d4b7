package cpu

import (
	"github.com/born-ml/tensorkit/internal/tensor"
)

// Backend implements the numeric contract on CPU for element type E.
// It is a zero-sized marker; Backend[E]{} is ready to use.
//
// Binary ops broadcast size-1 axes on either operand. Integer division by
// zero panics like Go's / operator.
type Backend[E tensor.Element] struct{}

// Verify that Backend implements the contracts it advertises.
var (
	_ tensor.Numeric[float32, *Array[float32], *Device] = Backend[float32]{}
	_ tensor.BinaryInPlacer[*Array[int32]]              = Backend[int32]{}
	_ tensor.ScalarInPlacer[int64, *Array[int64]]       = Backend[int64]{}
	_ tensor.UnaryInPlacer[*Array[uint8]]               = Backend[uint8]{}
)

// Name returns the backend name.
func (Backend[E]) Name() string {
	return "CPU"
}

// DefaultDevice creates a device configured from the environment.
func (Backend[E]) DefaultDevice() *Device {
	return NewDevice(ConfigFromEnv())
}

// FromSlice copies data into a new array on dev.
func (Backend[E]) FromSlice(dev *Device, data []E) *Array[E] {
	return wrap(dev, append([]E(nil), data...))
}

// Full allocates count elements on dev, all set to value.
func (Backend[E]) Full(dev *Device, count int, value E) *Array[E] {
	a := newArray[E](dev, count)
	if value != 0 {
		d := a.data()
		for i := range d {
			d[i] = value
		}
	}
	return a
}

// ToSlice copies the array back to host memory.
func (Backend[E]) ToSlice(a *Array[E]) []E {
	return append([]E(nil), a.data()...)
}

// Len returns the number of elements in a.
func (Backend[E]) Len(a *Array[E]) int {
	return a.Len()
}

func (Backend[E]) binary(op tensor.Op, lhs, rhs tensor.View[*Array[E]]) *Array[E] {
	out, err := tensor.BroadcastDims(lhs.Dims, rhs.Dims)
	if err != nil {
		panic(opError(op, err))
	}
	dst := newArray[E](lhs.Array.dev, numElements(out))
	binaryInto(op, dst.data(), lhs.Array.data(), lhs.Dims, rhs.Array.data(), rhs.Dims, out, lhs.Array.dev.cfg)
	return dst
}

func (Backend[E]) scalar(op tensor.Op, lhs tensor.View[*Array[E]], rhs E) *Array[E] {
	dst := newArray[E](lhs.Array.dev, lhs.Array.Len())
	scalarInto(op, dst.data(), lhs.Array.data(), rhs, lhs.Array.dev.cfg)
	return dst
}

// Add performs element-wise addition with broadcasting.
func (b Backend[E]) Add(lhs, rhs tensor.View[*Array[E]]) *Array[E] {
	return b.binary(tensor.OpAdd, lhs, rhs)
}

// AddScalar adds rhs to every element.
func (b Backend[E]) AddScalar(lhs tensor.View[*Array[E]], rhs E) *Array[E] {
	return b.scalar(tensor.OpAdd, lhs, rhs)
}

// Sub performs element-wise subtraction with broadcasting.
func (b Backend[E]) Sub(lhs, rhs tensor.View[*Array[E]]) *Array[E] {
	return b.binary(tensor.OpSub, lhs, rhs)
}

// SubScalar subtracts rhs from every element.
func (b Backend[E]) SubScalar(lhs tensor.View[*Array[E]], rhs E) *Array[E] {
	return b.scalar(tensor.OpSub, lhs, rhs)
}

// Mul performs element-wise multiplication with broadcasting.
func (b Backend[E]) Mul(lhs, rhs tensor.View[*Array[E]]) *Array[E] {
	return b.binary(tensor.OpMul, lhs, rhs)
}

// MulScalar multiplies every element by rhs.
func (b Backend[E]) MulScalar(lhs tensor.View[*Array[E]], rhs E) *Array[E] {
	return b.scalar(tensor.OpMul, lhs, rhs)
}

// Div performs element-wise division with broadcasting.
func (b Backend[E]) Div(lhs, rhs tensor.View[*Array[E]]) *Array[E] {
	return b.binary(tensor.OpDiv, lhs, rhs)
}

// DivScalar divides every element by rhs.
func (b Backend[E]) DivScalar(lhs tensor.View[*Array[E]], rhs E) *Array[E] {
	return b.scalar(tensor.OpDiv, lhs, rhs)
}

// Min returns the element-wise minimum with broadcasting.
func (b Backend[E]) Min(lhs, rhs tensor.View[*Array[E]]) *Array[E] {
	return b.binary(tensor.OpMin, lhs, rhs)
}

// MinScalar returns min(x, rhs) for every element.
func (b Backend[E]) MinScalar(lhs tensor.View[*Array[E]], rhs E) *Array[E] {
	return b.scalar(tensor.OpMin, lhs, rhs)
}

// Max returns the element-wise maximum with broadcasting.
func (b Backend[E]) Max(lhs, rhs tensor.View[*Array[E]]) *Array[E] {
	return b.binary(tensor.OpMax, lhs, rhs)
}

// MaxScalar returns max(x, rhs) for every element.
func (b Backend[E]) MaxScalar(lhs tensor.View[*Array[E]], rhs E) *Array[E] {
	return b.scalar(tensor.OpMax, lhs, rhs)
}

// PowUScalar raises every element to the integer power n.
func (Backend[E]) PowUScalar(x tensor.View[*Array[E]], n uint32) *Array[E] {
	return mapArray(x, func(v E) E { return powU(v, n) })
}

// BinaryInPlace computes lhs = op(lhs, rhs) into lhs's buffer when it is not
// shared, or into a fresh buffer that replaces it otherwise.
// It panics with a *tensor.ShapeError when rhs does not broadcast onto lhs.
func (Backend[E]) BinaryInPlace(op tensor.Op, lhs tensor.Mut[*Array[E]], rhs tensor.View[*Array[E]]) bool {
	if binaryFunc[E](op) == nil {
		return false
	}
	checkAssign(op, lhs.Dims, rhs.Dims)

	src := *lhs.Array
	dst := writable(lhs)
	binaryInto(op, dst.data(), src.data(), lhs.Dims, rhs.Array.data(), rhs.Dims, lhs.Dims, src.dev.cfg)
	commit(lhs, dst)
	return true
}

// ScalarInPlace computes lhs = op(lhs, rhs) without allocating when lhs's
// buffer is not shared.
func (Backend[E]) ScalarInPlace(op tensor.Op, lhs tensor.Mut[*Array[E]], rhs E) bool {
	if scalarFunc(op, rhs) == nil {
		return false
	}

	src := *lhs.Array
	dst := writable(lhs)
	scalarInto(op, dst.data(), src.data(), rhs, src.dev.cfg)
	commit(lhs, dst)
	return true
}

// UnaryInPlace handles relu in place.
func (Backend[E]) UnaryInPlace(op tensor.Op, x tensor.Mut[*Array[E]]) bool {
	if op != tensor.OpRelu {
		return false
	}
	unaryInPlace(x, func(v E) E { return max(v, 0) })
	return true
}

func unaryInPlace[E any](x tensor.Mut[*Array[E]], f func(E) E) {
	src := *x.Array
	dst := writable(x)
	mapInto(dst.data(), src.data(), f, src.dev.cfg)
	commit(x, dst)
}
