// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	"iter"

	internalcpu "github.com/born-ml/tensorkit/internal/backend/cpu"
	"github.com/born-ml/tensorkit/internal/parallel"
	"github.com/born-ml/tensorkit/tensor"
)

// Device is a CPU device carrying its parallel execution settings.
type Device = internalcpu.Device

// Config controls how a Device splits elementwise and matmul work across goroutines.
type Config = parallel.Config

// Array is the CPU storage primitive: a reference-counted, copy-on-write buffer.
type Array[E any] = internalcpu.Array[E]

// Backend is the CPU backend for numeric element type E.
type Backend[E tensor.Element] = internalcpu.Backend[E]

// Float is the CPU backend for floating-point element type E.
// It adds PowF, Erf and a fused in-place Gelu.
type Float[E tensor.Float] = internalcpu.Float[E]

// Bool is the CPU backend for boolean tensors.
type Bool = internalcpu.Bool

// Tensor is a CPU tensor of element type E and static rank len(D).
type Tensor[E tensor.Element, D tensor.Dims] = internalcpu.Tensor[E, D]

// FloatTensor is a CPU tensor with real-number operations.
type FloatTensor[E tensor.Float, D tensor.Dims] = internalcpu.FloatTensor[E, D]

// BoolTensor is a CPU boolean tensor.
type BoolTensor[D tensor.Dims] = internalcpu.BoolTensor[D]

// Compile-time checks that the backends satisfy the contracts.
var (
	_ tensor.Numeric[float32, *Array[float32], *Device] = Backend[float32]{}
	_ tensor.Real[float64, *Array[float64], *Device]    = Float[float64]{}
	_ tensor.BoolOps[*Array[bool], *Device]             = Bool{}
)

// NewDevice creates a CPU device with the given parallel settings.
//
// Example:
//
//	dev := cpu.NewDevice(cpu.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 4096})
//	x, err := cpu.FromSliceOn(dev, []float32{1, 2, 3}, tensor.NewShape([1]int{3}))
func NewDevice(cfg Config) *Device {
	return internalcpu.NewDevice(cfg)
}

// ConfigFromEnv reads TENSORKIT_PARALLEL, TENSORKIT_NUM_THREADS and
// TENSORKIT_MIN_CHUNK into a Config.
func ConfigFromEnv() Config {
	return internalcpu.ConfigFromEnv()
}

// CurrentDevice returns the CPU device from the default registry, creating it on first use.
func CurrentDevice() *Device {
	return internalcpu.CurrentDevice()
}

// FromSlice creates a tensor on the current device from a copy of data.
//
// Example:
//
//	x, err := cpu.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.NewShape([2]int{2, 3}))
//	if err != nil {
//	    return err
//	}
//	y := x.MulScalar(2)
func FromSlice[E tensor.Element, D tensor.Dims](data []E, shape tensor.Shape[D]) (*Tensor[E, D], error) {
	return internalcpu.FromSlice(data, shape)
}

// FromSliceOn is FromSlice on an explicit device.
func FromSliceOn[E tensor.Element, D tensor.Dims](dev *Device, data []E, shape tensor.Shape[D]) (*Tensor[E, D], error) {
	return internalcpu.FromSliceOn(dev, data, shape)
}

// MustFromSlice is like FromSlice but panics on error.
func MustFromSlice[E tensor.Element, D tensor.Dims](data []E, shape tensor.Shape[D]) *Tensor[E, D] {
	return internalcpu.MustFromSlice(data, shape)
}

// FromSeq collects seq into a rank-1 tensor on the current device.
func FromSeq[E tensor.Element](seq iter.Seq[E]) *Tensor[E, [1]int] {
	return internalcpu.FromSeq(seq)
}

// Full creates a tensor with every element set to value.
func Full[E tensor.Element, D tensor.Dims](shape tensor.Shape[D], value E) *Tensor[E, D] {
	return internalcpu.Full(shape, value)
}

// FullOn is Full on an explicit device.
func FullOn[E tensor.Element, D tensor.Dims](dev *Device, shape tensor.Shape[D], value E) *Tensor[E, D] {
	return internalcpu.FullOn(dev, shape, value)
}

// Zeros creates a zero-filled tensor.
func Zeros[E tensor.Element, D tensor.Dims](shape tensor.Shape[D]) *Tensor[E, D] {
	return internalcpu.Zeros[E](shape)
}

// ZerosOn is Zeros on an explicit device.
func ZerosOn[E tensor.Element, D tensor.Dims](dev *Device, shape tensor.Shape[D]) *Tensor[E, D] {
	return internalcpu.ZerosOn[E](dev, shape)
}

// Ones creates a tensor filled with ones.
func Ones[E tensor.Element, D tensor.Dims](shape tensor.Shape[D]) *Tensor[E, D] {
	return internalcpu.Ones[E](shape)
}

// OnesOn is Ones on an explicit device.
func OnesOn[E tensor.Element, D tensor.Dims](dev *Device, shape tensor.Shape[D]) *Tensor[E, D] {
	return internalcpu.OnesOn[E](dev, shape)
}

// FloatFromSlice creates a float tensor from a copy of data.
func FloatFromSlice[E tensor.Float, D tensor.Dims](data []E, shape tensor.Shape[D]) (*FloatTensor[E, D], error) {
	return internalcpu.FloatFromSlice(data, shape)
}

// FloatFromSliceOn is FloatFromSlice on an explicit device.
func FloatFromSliceOn[E tensor.Float, D tensor.Dims](dev *Device, data []E, shape tensor.Shape[D]) (*FloatTensor[E, D], error) {
	return internalcpu.FloatFromSliceOn(dev, data, shape)
}

// FloatFull creates a float tensor with every element set to value.
func FloatFull[E tensor.Float, D tensor.Dims](shape tensor.Shape[D], value E) *FloatTensor[E, D] {
	return internalcpu.FloatFull(shape, value)
}

// AsFloat rewraps t for the float backend without copying.
//
// Example:
//
//	x := cpu.Ones[float32](tensor.NewShape([1]int{4}))
//	g := tensor.Gelu(cpu.AsFloat(x))
func AsFloat[E tensor.Float, D tensor.Dims](t *Tensor[E, D]) *FloatTensor[E, D] {
	return internalcpu.AsFloat(t)
}

// BoolFromSlice creates a boolean tensor from a copy of data.
func BoolFromSlice[D tensor.Dims](data []bool, shape tensor.Shape[D]) (*BoolTensor[D], error) {
	return internalcpu.BoolFromSlice(data, shape)
}

// BoolFull creates a boolean tensor with every element set to value.
func BoolFull[D tensor.Dims](shape tensor.Shape[D], value bool) *BoolTensor[D] {
	return internalcpu.BoolFull(shape, value)
}
