package tensor

import (
	"log/slog"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/born-ml/tensorkit/internal/envconfig"
)

// Registry caches one device per device type.
//
// Devices are created lazily by the backend's DefaultDevice factory on first
// access and shared by every tensor and goroutine afterwards. Concurrent
// first accesses for the same device type converge on a single construction.
// Backends sharing a device type (e.g. the float32 and float64 flavours of
// one CPU backend) share the device.
//
// The zero Registry is not usable; create one with NewRegistry or use Default.
type Registry struct {
	mu      sync.RWMutex
	devices map[reflect.Type]any
	flight  singleflight.Group
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for device lifecycle events.
// By default the registry logs through slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		devices: make(map[reflect.Type]any),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRegistry = NewRegistry(WithLogger(envconfig.Logger()))

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Len returns the number of cached devices.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}

func (r *Registry) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}

func (r *Registry) load(key reflect.Type) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dev, ok := r.devices[key]
	return dev, ok
}

// DeviceOf returns the device for Dev, creating it with b.DefaultDevice on
// first access.
//
// Repeated calls without an intervening SetDevice return the identical
// device. At most one default device is constructed per device type, even
// when many goroutines race on the first call.
//
// Example:
//
//	dev := tensor.DeviceOf[*cpu.Device](tensor.Default(), cpu.Backend[float32]{})
func DeviceOf[Dev any](r *Registry, b Backend[Dev]) Dev {
	key := reflect.TypeFor[Dev]()
	for {
		if dev, ok := r.load(key); ok {
			d, _ := dev.(Dev)
			return d
		}

		// Type names are not unique across packages, so a shared flight only
		// means waiting on someone else's construction; the loop re-checks.
		r.flight.Do(key.String(), func() (any, error) {
			if _, ok := r.load(key); ok {
				return nil, nil
			}

			dev := b.DefaultDevice()

			r.mu.Lock()
			_, exists := r.devices[key]
			if !exists {
				r.devices[key] = dev
			}
			r.mu.Unlock()

			if !exists {
				r.log().Debug("created default device", "backend", b.Name(), "device", key.String())
			}
			return nil, nil
		})
	}
}

// SetDevice installs or replaces the device for Dev. Subsequent DeviceOf
// calls return dev. Tensors allocated on the previous device keep it.
func SetDevice[Dev any](r *Registry, dev Dev) {
	key := reflect.TypeFor[Dev]()

	r.mu.Lock()
	_, replaced := r.devices[key]
	r.devices[key] = dev
	r.mu.Unlock()

	r.log().Debug("set device", "device", key.String(), "replaced", replaced)
}

// Reset drops the cached device for Dev; the next DeviceOf creates a new one.
func Reset[Dev any](r *Registry) {
	key := reflect.TypeFor[Dev]()

	r.mu.Lock()
	delete(r.devices, key)
	r.mu.Unlock()
}
