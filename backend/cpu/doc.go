// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements the reference backend with:
//   - Pure Go implementation (no CGO)
//   - Float32, Float64, Int32, Int64, Uint8 and Bool support
//   - BLAS-backed matrix multiplication via gonum
//   - Goroutine-parallel elementwise kernels
//   - Copy-on-write arrays, so Clone is O(1)
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/tensorkit/backend/cpu"
//	    "github.com/born-ml/tensorkit/tensor"
//	)
//
//	func main() {
//	    x := cpu.Zeros[float32](tensor.NewShape([2]int{2, 3}))
//	    y := cpu.Ones[float32](tensor.NewShape([2]int{2, 3}))
//	    z := x.Add(y)
//	    z.MulScalarInPlace(3)
//	}
//
// # Configuration
//
// The device created on first use reads its settings from the environment:
//   - TENSORKIT_PARALLEL: enable goroutine parallelism (default true)
//   - TENSORKIT_NUM_THREADS: worker count (default GOMAXPROCS)
//   - TENSORKIT_MIN_CHUNK: smallest slice handed to one worker (default 4096)
//
// Install a custom device with tensor.SetDevice(tensor.Default(), cpu.NewDevice(cfg)).
//
// # Thread Safety
//
// Backends and devices are safe for concurrent use. Operations that only
// read a tensor may run concurrently; in-place operations need the
// caller to hold the tensor exclusively.
package cpu
