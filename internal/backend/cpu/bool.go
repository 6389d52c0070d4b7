package cpu

import "github.com/born-ml/tensorkit/internal/tensor"

// Bool is the CPU backend for boolean tensors.
type Bool struct{}

var (
	_ tensor.BoolOps[*Array[bool], *Device] = Bool{}
	_ tensor.UnaryInPlacer[*Array[bool]]    = Bool{}
)

// Name returns the backend name.
func (Bool) Name() string {
	return "CPU"
}

// DefaultDevice creates a device configured from the environment.
func (Bool) DefaultDevice() *Device {
	return NewDevice(ConfigFromEnv())
}

// FromSlice copies data into a new array on dev.
func (Bool) FromSlice(dev *Device, data []bool) *Array[bool] {
	return wrap(dev, append([]bool(nil), data...))
}

// Full allocates count elements on dev, all set to value.
func (Bool) Full(dev *Device, count int, value bool) *Array[bool] {
	a := newArray[bool](dev, count)
	if value {
		d := a.data()
		for i := range d {
			d[i] = true
		}
	}
	return a
}

// ToSlice copies the array back to host memory.
func (Bool) ToSlice(a *Array[bool]) []bool {
	return append([]bool(nil), a.data()...)
}

// Len returns the number of elements in a.
func (Bool) Len(a *Array[bool]) int {
	return a.Len()
}

// Neg returns the element-wise logical negation.
func (Bool) Neg(x tensor.View[*Array[bool]]) *Array[bool] {
	return mapArray(x, not)
}

// UnaryInPlace negates in place.
func (Bool) UnaryInPlace(op tensor.Op, x tensor.Mut[*Array[bool]]) bool {
	if op != tensor.OpNeg {
		return false
	}
	unaryInPlace(x, not)
	return true
}

func not(v bool) bool {
	return !v
}
