package cpu

import (
	"math"

	"github.com/chewxy/math32"

	"github.com/born-ml/tensorkit/internal/parallel"
	"github.com/born-ml/tensorkit/internal/tensor"
)

// Float is the CPU backend for floating-point elements. It adds the
// real-number operations (fractional powers, erf) to Backend.
// float32 kernels use math32 so they never round-trip through float64.
type Float[E tensor.Float] struct {
	Backend[E]
}

var _ tensor.Real[float64, *Array[float64], *Device] = Float[float64]{}

// PowFScalar raises every element to the real power p.
func (Float[E]) PowFScalar(x tensor.View[*Array[E]], p float64) *Array[E] {
	p32 := float32(p)
	return mapFloat(x,
		func(v float32) float32 { return math32.Pow(v, p32) },
		func(v float64) float64 { return math.Pow(v, p) })
}

// Erf applies the Gauss error function elementwise.
func (Float[E]) Erf(x tensor.View[*Array[E]]) *Array[E] {
	return mapFloat(x, math32.Erf, math.Erf)
}

// UnaryInPlace runs erf, gelu and relu in place. Gelu is fused into a single
// pass computing x/2 * (erf(x/2) + 1).
func (f Float[E]) UnaryInPlace(op tensor.Op, x tensor.Mut[*Array[E]]) bool {
	var f32 func(float32) float32
	var f64 func(float64) float64

	switch op {
	case tensor.OpErf:
		f32, f64 = math32.Erf, math.Erf
	case tensor.OpGelu:
		f32, f64 = gelu32, gelu64
	default:
		return f.Backend.UnaryInPlace(op, x)
	}

	src := *x.Array
	dst := writable(x)
	mapFloatInto(dst.data(), src.data(), f32, f64, src.dev.cfg)
	commit(x, dst)
	return true
}

func gelu32(v float32) float32 {
	h := v / 2
	return (math32.Erf(h) + 1) * v / 2
}

func gelu64(v float64) float64 {
	h := v / 2
	return (math.Erf(h) + 1) * v / 2
}

func mapFloat[E tensor.Float](x tensor.View[*Array[E]], f32 func(float32) float32, f64 func(float64) float64) *Array[E] {
	src := x.Array.data()
	dst := newArray[E](x.Array.dev, len(src))
	mapFloatInto(dst.data(), src, f32, f64, x.Array.dev.cfg)
	return dst
}

// mapFloatInto dispatches to the native-precision function by element type.
func mapFloatInto[E tensor.Float](dst, src []E, f32 func(float32) float32, f64 func(float64) float64, cfg parallel.Config) {
	if s, ok := any(src).([]float32); ok {
		mapInto(any(dst).([]float32), s, f32, cfg)
		return
	}
	mapInto(dst, src, func(v E) E { return E(f64(float64(v))) }, cfg)
}
