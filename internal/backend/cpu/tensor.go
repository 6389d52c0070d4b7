package cpu

import (
	"iter"
	"slices"

	"github.com/born-ml/tensorkit/internal/tensor"
)

// Tensor is a CPU tensor of element type E and static rank len(D).
type Tensor[E tensor.Element, D tensor.Dims] = tensor.Tensor[E, D, *Device, *Array[E], Backend[E]]

// FloatTensor is a CPU tensor with real-number operations (Gelu, Erf, PowF).
type FloatTensor[E tensor.Float, D tensor.Dims] = tensor.Tensor[E, D, *Device, *Array[E], Float[E]]

// BoolTensor is a CPU boolean tensor.
type BoolTensor[D tensor.Dims] = tensor.BoolTensor[D, *Device, *Array[bool], Bool]

// CurrentDevice returns the CPU device from the default registry, creating
// it on first use.
func CurrentDevice() *Device {
	return tensor.DeviceOf[*Device](tensor.Default(), Backend[float32]{})
}

// FromSlice creates a tensor on the current device from a copy of data.
// It fails if len(data) != shape.NumElements().
//
// Example:
//
//	t, err := cpu.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.NewShape([2]int{2, 3}))
func FromSlice[E tensor.Element, D tensor.Dims](data []E, shape tensor.Shape[D]) (*Tensor[E, D], error) {
	return FromSliceOn(CurrentDevice(), data, shape)
}

// FromSliceOn is FromSlice on an explicit device.
func FromSliceOn[E tensor.Element, D tensor.Dims](dev *Device, data []E, shape tensor.Shape[D]) (*Tensor[E, D], error) {
	return tensor.New[E, D, *Device, *Array[E], Backend[E]](Backend[E]{}.FromSlice(dev, data), shape)
}

// MustFromSlice is like FromSlice but panics on error.
func MustFromSlice[E tensor.Element, D tensor.Dims](data []E, shape tensor.Shape[D]) *Tensor[E, D] {
	t, err := FromSlice(data, shape)
	if err != nil {
		panic(err)
	}
	return t
}

// FromSeq collects seq into a rank-1 tensor on the current device.
func FromSeq[E tensor.Element](seq iter.Seq[E]) *Tensor[E, [1]int] {
	data := slices.Collect(seq)
	t, _ := tensor.New[E, [1]int, *Device, *Array[E], Backend[E]](
		wrap(CurrentDevice(), data), tensor.NewShape([1]int{len(data)}))
	return t
}

// Full creates a tensor on the current device with every element set to value.
func Full[E tensor.Element, D tensor.Dims](shape tensor.Shape[D], value E) *Tensor[E, D] {
	return FullOn(CurrentDevice(), shape, value)
}

// FullOn is Full on an explicit device.
func FullOn[E tensor.Element, D tensor.Dims](dev *Device, shape tensor.Shape[D], value E) *Tensor[E, D] {
	t, _ := tensor.New[E, D, *Device, *Array[E], Backend[E]](Backend[E]{}.Full(dev, shape.NumElements(), value), shape)
	return t
}

// Zeros creates a zero-filled tensor on the current device.
func Zeros[E tensor.Element, D tensor.Dims](shape tensor.Shape[D]) *Tensor[E, D] {
	return ZerosOn[E](CurrentDevice(), shape)
}

// ZerosOn is Zeros on an explicit device.
func ZerosOn[E tensor.Element, D tensor.Dims](dev *Device, shape tensor.Shape[D]) *Tensor[E, D] {
	d := tensor.NewDerived[E, *Device, *Array[E]](Backend[E]{})
	t, _ := tensor.New[E, D, *Device, *Array[E], Backend[E]](d.Zeros(dev, shape.NumElements()), shape)
	return t
}

// Ones creates a tensor of ones on the current device.
func Ones[E tensor.Element, D tensor.Dims](shape tensor.Shape[D]) *Tensor[E, D] {
	return OnesOn[E](CurrentDevice(), shape)
}

// OnesOn is Ones on an explicit device.
func OnesOn[E tensor.Element, D tensor.Dims](dev *Device, shape tensor.Shape[D]) *Tensor[E, D] {
	d := tensor.NewDerived[E, *Device, *Array[E]](Backend[E]{})
	t, _ := tensor.New[E, D, *Device, *Array[E], Backend[E]](d.Ones(dev, shape.NumElements()), shape)
	return t
}

// FloatFromSlice creates a float tensor on the current device from a copy of data.
func FloatFromSlice[E tensor.Float, D tensor.Dims](data []E, shape tensor.Shape[D]) (*FloatTensor[E, D], error) {
	return FloatFromSliceOn(CurrentDevice(), data, shape)
}

// FloatFromSliceOn is FloatFromSlice on an explicit device.
func FloatFromSliceOn[E tensor.Float, D tensor.Dims](dev *Device, data []E, shape tensor.Shape[D]) (*FloatTensor[E, D], error) {
	return tensor.New[E, D, *Device, *Array[E], Float[E]](Float[E]{}.FromSlice(dev, data), shape)
}

// FloatFull creates a float tensor on the current device with every element set to value.
func FloatFull[E tensor.Float, D tensor.Dims](shape tensor.Shape[D], value E) *FloatTensor[E, D] {
	t, _ := tensor.New[E, D, *Device, *Array[E], Float[E]](Float[E]{}.Full(CurrentDevice(), shape.NumElements(), value), shape)
	return t
}

// AsFloat rewraps t for the float backend without copying the data.
// The result holds its own copy-on-write handle, so in-place ops on either
// tensor leave the other unchanged.
func AsFloat[E tensor.Float, D tensor.Dims](t *Tensor[E, D]) *FloatTensor[E, D] {
	f, _ := tensor.New[E, D, *Device, *Array[E], Float[E]](t.Array().Clone(), t.Shape())
	return f
}

// BoolFromSlice creates a boolean tensor on the current device from a copy of data.
func BoolFromSlice[D tensor.Dims](data []bool, shape tensor.Shape[D]) (*BoolTensor[D], error) {
	return tensor.NewBool[D, *Device, *Array[bool], Bool](Bool{}.FromSlice(CurrentDevice(), data), shape)
}

// BoolFull creates a boolean tensor on the current device with every element set to value.
func BoolFull[D tensor.Dims](shape tensor.Shape[D], value bool) *BoolTensor[D] {
	d := tensor.BoolDerived[*Device, *Array[bool], Bool]{}
	var a *Array[bool]
	if value {
		a = d.Trues(CurrentDevice(), shape.NumElements())
	} else {
		a = d.Falses(CurrentDevice(), shape.NumElements())
	}
	t, _ := tensor.NewBool[D, *Device, *Array[bool], Bool](a, shape)
	return t
}
