// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public, backend-agnostic tensor API of tensorkit.
//
// # Overview
//
// A tensor is a backend storage array paired with a shape whose rank is part
// of the type. This package provides:
//   - Static-rank shapes (Shape[[2]int] is a matrix, Shape[[0]int] a scalar)
//   - The contracts a compute backend implements (Backend, Storage, Numeric, Real, BoolOps)
//   - Derived operations every backend gets for free (in-place forms, Relu, Gelu)
//   - A registry caching one device per device type
//   - The generic Tensor wrapper with operator-style methods
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/tensorkit/backend/cpu"
//	    "github.com/born-ml/tensorkit/tensor"
//	)
//
//	func main() {
//	    x := cpu.MustFromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.NewShape([2]int{2, 3}))
//	    bias := cpu.MustFromSlice([]float32{1, 1, 1}, tensor.NewShape([2]int{1, 3}))
//
//	    y := x.Add(bias)       // broadcasts [1 3] onto [2 3]
//	    y.MulScalarInPlace(2)  // reuses y's storage
//
//	    w := cpu.Ones[float32](tensor.NewShape([2]int{3, 4}))
//	    z := tensor.MatMul(y, w) // [2 3] @ [3 4] -> [2 4]
//	}
//
// # Ranks
//
// Operands of an elementwise operation must have the same rank; mixing ranks
// is a compile error. Within a rank, an axis of size 1 broadcasts to the
// other operand's size. In-place operations only broadcast the right-hand
// side onto the receiver.
//
// MatMul only accepts rank-2 tensors. Reshape keeps the rank; IntoShape and
// WithShape change it as long as the element count is preserved.
//
// # Errors
//
// Shape and rank errors are programming errors. Operators panic with a
// *ShapeError or *RankError, which wrap ErrShapeMismatch and ErrRankMismatch
// for errors.Is. The Check* helpers return the same errors instead.
//
// # Devices
//
// Each backend declares a device type. The Default registry creates one
// device per device type on first use, even under concurrent first access,
// and SetDevice replaces it:
//
//	dev := cpu.NewDevice(cpu.Config{Enabled: true, NumWorkers: 8, MinChunkSize: 4096})
//	tensor.SetDevice(tensor.Default(), dev)
package tensor
