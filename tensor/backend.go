// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/tensorkit/internal/tensor"
)

// Backend identifies one compute implementation and its device type.
//
// Implementations must:
//   - Be zero-sized markers whose zero value is usable
//   - Construct a fresh device from DefaultDevice (the Registry caches it)
//   - Be safe for concurrent use
type Backend[Dev any] = tensor.Backend[Dev]

// Array is the constraint for a backend's storage primitive.
type Array[A, Dev any] = tensor.Array[A, Dev]

// View pairs an array with its dimensions at the backend boundary.
type View[A any] = tensor.View[A]

// Mut is an exclusive view whose array an in-place operation may replace.
type Mut[A any] = tensor.Mut[A]

// Storage is the construction and readback contract for element type E.
type Storage[E, A, Dev any] = tensor.Storage[E, A, Dev]

// BoolOps is the contract for boolean tensors.
type BoolOps[A, Dev any] = tensor.BoolOps[A, Dev]

// Numeric is the primitive contract for numeric tensors.
type Numeric[E Element, A, Dev any] = tensor.Numeric[E, A, Dev]

// Real extends Numeric with operations that need real-number semantics.
type Real[E Float, A, Dev any] = tensor.Real[E, A, Dev]

// Releaser is implemented by arrays that hold a shared buffer reference.
type Releaser = tensor.Releaser

// Op names an operation for in-place override hooks.
type Op = tensor.Op

// Operations.
const (
	OpAdd  = tensor.OpAdd
	OpSub  = tensor.OpSub
	OpMul  = tensor.OpMul
	OpDiv  = tensor.OpDiv
	OpMin  = tensor.OpMin
	OpMax  = tensor.OpMax
	OpPowU = tensor.OpPowU
	OpPowF = tensor.OpPowF
	OpErf  = tensor.OpErf
	OpNeg  = tensor.OpNeg
	OpGelu = tensor.OpGelu
	OpRelu = tensor.OpRelu
)

// BinaryInPlacer is an optional hook for array-with-array ops in place.
type BinaryInPlacer[A any] = tensor.BinaryInPlacer[A]

// ScalarInPlacer is an optional hook for array-with-scalar ops in place.
type ScalarInPlacer[E, A any] = tensor.ScalarInPlacer[E, A]

// UnaryInPlacer is an optional hook for unary ops in place.
type UnaryInPlacer[A any] = tensor.UnaryInPlacer[A]

// Derived supplies the default operations of a Numeric backend.
type Derived[E Element, Dev, A any, B Numeric[E, A, Dev]] = tensor.Derived[E, Dev, A, B]

// RealDerived adds the derived operations that need real-number semantics.
type RealDerived[E Float, Dev, A any, B Real[E, A, Dev]] = tensor.RealDerived[E, Dev, A, B]

// BoolDerived supplies the default operations of a BoolOps backend.
type BoolDerived[Dev, A any, B BoolOps[A, Dev]] = tensor.BoolDerived[Dev, A, B]

// Registry caches one device per device type.
type Registry = tensor.Registry

// Option configures a Registry.
type Option = tensor.Option

// WithLogger sets the logger used for device lifecycle events.
var WithLogger = tensor.WithLogger

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	return tensor.NewRegistry(opts...)
}

// Default returns the process-wide registry.
func Default() *Registry {
	return tensor.Default()
}

// DeviceOf returns the device for Dev, creating it with b.DefaultDevice on first access.
func DeviceOf[Dev any](r *Registry, b Backend[Dev]) Dev {
	return tensor.DeviceOf(r, b)
}

// SetDevice installs or replaces the device for Dev.
func SetDevice[Dev any](r *Registry, dev Dev) {
	tensor.SetDevice(r, dev)
}

// Reset drops the cached device for Dev.
func Reset[Dev any](r *Registry) {
	tensor.Reset[Dev](r)
}

// CheckRank panics with a *RankError when len(dims) != want.
// Backends use it to guard rank-restricted primitives such as MatMul.
func CheckRank(op string, dims []int, want int) {
	tensor.CheckRank(op, dims, want)
}

// NewDerived returns the derived operations for b.
//
// Example:
//
//	d := tensor.NewDerived[float32, *cpu.Device, *cpu.Array[float32]](cpu.Backend[float32]{})
//	ones := d.Ones(cpu.CurrentDevice(), 4)
func NewDerived[E Element, Dev, A any, B Numeric[E, A, Dev]](b B) Derived[E, Dev, A, B] {
	return tensor.NewDerived[E, Dev, A](b)
}

// NewRealDerived returns the derived real-number operations for b.
func NewRealDerived[E Float, Dev, A any, B Real[E, A, Dev]](b B) RealDerived[E, Dev, A, B] {
	return tensor.NewRealDerived[E, Dev, A](b)
}
