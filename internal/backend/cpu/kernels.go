package cpu

import (
	"errors"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/tensorkit/internal/parallel"
	"github.com/born-ml/tensorkit/internal/tensor"
)

func numElements(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}

// rowMajorStrides returns the strides of a contiguous row-major layout.
func rowMajorStrides(dims []int) []int {
	strides := make([]int, len(dims))
	stride := 1
	for i := len(dims) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= dims[i]
	}
	return strides
}

// broadcastStrides computes strides for reading in as if it had shape out.
// Axes of size 1 get stride 0 so the same element is reused along them.
func broadcastStrides(in, out []int) []int {
	strides := make([]int, len(out))
	stride := 1
	for i := len(in) - 1; i >= 0; i-- {
		if in[i] != 1 {
			strides[i] = stride
		}
		stride *= in[i]
	}
	return strides
}

// flatIndex computes the flat index in the source array for a given output index.
func flatIndex(outIdx int, outStrides, inStrides []int) int {
	idx := 0
	for i, s := range outStrides {
		coord := outIdx / s
		outIdx %= s
		idx += coord * inStrides[i]
	}
	return idx
}

func opError(op tensor.Op, err error) error {
	var se *tensor.ShapeError
	if errors.As(err, &se) {
		se.Op = op.String()
	}
	return err
}

// checkAssign panics unless rhs broadcasts onto lhs.
func checkAssign(op tensor.Op, lhs, rhs []int) {
	tensor.CheckRank(op.String(), rhs, len(lhs))
	for i := range lhs {
		if rhs[i] != lhs[i] && rhs[i] != 1 {
			panic(&tensor.ShapeError{Op: op.String(), Lhs: slices.Clone(rhs), Rhs: slices.Clone(lhs), Dim: i, Msg: "illegal broadcast"})
		}
	}
}

func binaryFunc[E tensor.Element](op tensor.Op) func(x, y E) E {
	switch op {
	case tensor.OpAdd:
		return func(x, y E) E { return x + y }
	case tensor.OpSub:
		return func(x, y E) E { return x - y }
	case tensor.OpMul:
		return func(x, y E) E { return x * y }
	case tensor.OpDiv:
		return func(x, y E) E { return x / y }
	case tensor.OpMin:
		return func(x, y E) E { return min(x, y) }
	case tensor.OpMax:
		return func(x, y E) E { return max(x, y) }
	}
	return nil
}

// binaryInto writes op(a, b) into dst, broadcasting both operands to out.
// dst may alias a when a already has shape out.
func binaryInto[E tensor.Element](op tensor.Op, dst, a []E, aDims []int, b []E, bDims []int, out []int, cfg parallel.Config) {
	same := slices.Equal(aDims, out) && slices.Equal(bDims, out)
	if same && gonumBinary(op, dst, a, b) {
		return
	}

	f := binaryFunc[E](op)
	if same {
		parallel.For(len(dst), func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = f(a[i], b[i])
			}
		}, cfg)
		return
	}

	outStrides := rowMajorStrides(out)
	aStrides := broadcastStrides(aDims, out)
	bStrides := broadcastStrides(bDims, out)
	parallel.For(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = f(a[flatIndex(i, outStrides, aStrides)], b[flatIndex(i, outStrides, bStrides)])
		}
	}, cfg)
}

// gonumBinary runs same-shape float64 arithmetic through gonum's vector kernels.
func gonumBinary[E tensor.Element](op tensor.Op, dst, a, b []E) bool {
	d, ok := any(dst).([]float64)
	if !ok {
		return false
	}
	s, t := any(a).([]float64), any(b).([]float64)
	switch op {
	case tensor.OpAdd:
		floats.AddTo(d, s, t)
	case tensor.OpSub:
		floats.SubTo(d, s, t)
	case tensor.OpMul:
		floats.MulTo(d, s, t)
	case tensor.OpDiv:
		floats.DivTo(d, s, t)
	default:
		return false
	}
	return true
}

func scalarFunc[E tensor.Element](op tensor.Op, s E) func(x E) E {
	switch op {
	case tensor.OpAdd:
		return func(x E) E { return x + s }
	case tensor.OpSub:
		return func(x E) E { return x - s }
	case tensor.OpMul:
		return func(x E) E { return x * s }
	case tensor.OpDiv:
		return func(x E) E { return x / s }
	case tensor.OpMin:
		return func(x E) E { return min(x, s) }
	case tensor.OpMax:
		return func(x E) E { return max(x, s) }
	}
	return nil
}

// scalarInto writes op(a, s) into dst. dst may alias a.
func scalarInto[E tensor.Element](op tensor.Op, dst, a []E, s E, cfg parallel.Config) {
	if d, ok := any(dst).([]float64); ok && op == tensor.OpMul {
		floats.ScaleTo(d, any(s).(float64), any(a).([]float64))
		return
	}
	mapInto(dst, a, scalarFunc(op, s), cfg)
}

// mapInto writes f(src[i]) into dst[i]. dst may alias src.
func mapInto[E, R any](dst []R, src []E, f func(E) R, cfg parallel.Config) {
	parallel.For(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = f(src[i])
		}
	}, cfg)
}

// mapArray returns a new array holding f applied to every element of x.
func mapArray[E, R any](x tensor.View[*Array[E]], f func(E) R) *Array[R] {
	src := x.Array.data()
	dst := newArray[R](x.Array.dev, len(src))
	mapInto(dst.data(), src, f, x.Array.dev.cfg)
	return dst
}

// powU computes x^n by repeated squaring.
func powU[E tensor.Element](x E, n uint32) E {
	result := E(1)
	for n > 0 {
		if n&1 == 1 {
			result *= x
		}
		x *= x
		n >>= 1
	}
	return result
}
