// Package cpu implements the reference CPU backend with goroutine-parallel
// kernels and BLAS-backed matrix multiplication.
package cpu

import (
	"fmt"
	"sync/atomic"

	"github.com/born-ml/tensorkit/internal/envconfig"
	"github.com/born-ml/tensorkit/internal/parallel"
)

var nextDeviceID atomic.Uint64

// Device is the CPU compute context: the worker configuration every kernel
// launched for arrays on this device runs with.
// Devices are immutable after construction and safe for concurrent use.
type Device struct {
	id  uint64
	cfg parallel.Config
}

// NewDevice creates a device running kernels with cfg.
func NewDevice(cfg parallel.Config) *Device {
	if cfg.NumWorkers < 1 {
		cfg.NumWorkers = 1
	}
	d := &Device{
		id:  nextDeviceID.Add(1) - 1,
		cfg: cfg,
	}
	envconfig.Logger().Debug("created cpu device", "id", d.id, "parallel", cfg.Enabled, "workers", cfg.NumWorkers, "min_chunk", cfg.MinChunkSize)
	return d
}

// ConfigFromEnv builds the worker configuration from TENSORKIT_* variables.
func ConfigFromEnv() parallel.Config {
	n := envconfig.NumThreads()
	return parallel.Config{
		Enabled:      envconfig.Parallel(true) && n > 1,
		NumWorkers:   n,
		MinChunkSize: int(envconfig.MinChunk()),
	}
}

// ID returns the device's process-unique id.
func (d *Device) ID() uint64 {
	return d.id
}

// Config returns the worker configuration.
func (d *Device) Config() parallel.Config {
	return d.cfg
}

func (d *Device) String() string {
	return fmt.Sprintf("cpu:%d", d.id)
}
