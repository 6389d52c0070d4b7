package cpu

import (
	"fmt"
	"sync/atomic"

	"github.com/born-ml/tensorkit/internal/tensor"
)

// buffer is a reference-counted shared buffer for copy-on-write semantics.
// Clones share one buffer; in-place kernels write into it only while
// refCount == 1.
type buffer[E any] struct {
	data     []E
	refCount atomic.Int32
}

func newBuffer[E any](data []E) *buffer[E] {
	buf := &buffer[E]{data: data}
	buf.refCount.Store(1)
	return buf
}

// Array is the CPU storage primitive: a flat row-major buffer on a Device.
// Arrays carry no shape; the tensor wrapper supplies it.
type Array[E any] struct {
	buf      *buffer[E]
	dev      *Device
	released bool
}

var _ tensor.Releaser = (*Array[float32])(nil)

func newArray[E any](dev *Device, n int) *Array[E] {
	return &Array[E]{buf: newBuffer(make([]E, n)), dev: dev}
}

func wrap[E any](dev *Device, data []E) *Array[E] {
	return &Array[E]{buf: newBuffer(data), dev: dev}
}

// Clone returns a new handle sharing the buffer. The next in-place write to
// either handle copies first.
func (a *Array[E]) Clone() *Array[E] {
	a.buf.refCount.Add(1)
	return &Array[E]{buf: a.buf, dev: a.dev}
}

// Device returns the device the array was allocated on.
func (a *Array[E]) Device() *Device {
	return a.dev
}

// Len returns the number of elements.
func (a *Array[E]) Len() int {
	return len(a.buf.data)
}

// IsUnique reports whether no other handle shares the buffer.
func (a *Array[E]) IsUnique() bool {
	return !a.released && a.buf.refCount.Load() == 1
}

// Release drops this handle's reference to the buffer so that a surviving
// clone may write in place again. The handle stays readable; releasing twice
// is a no-op.
func (a *Array[E]) Release() {
	if a.released {
		return
	}
	a.released = true
	a.buf.refCount.Add(-1)
}

func (a *Array[E]) String() string {
	return fmt.Sprintf("Array[%s](%d) on %s", dataTypeName[E](), len(a.buf.data), a.dev)
}

func (a *Array[E]) data() []E {
	return a.buf.data
}

func dataTypeName[E any]() string {
	var zero E
	switch any(zero).(type) {
	case float32:
		return tensor.Float32.String()
	case float64:
		return tensor.Float64.String()
	case int32:
		return tensor.Int32.String()
	case int64:
		return tensor.Int64.String()
	case uint8:
		return tensor.Uint8.String()
	case bool:
		return tensor.Bool.String()
	}
	return fmt.Sprintf("%T", zero)
}

// writable returns an array safe to overwrite in place of *m.Array: the array
// itself when its buffer is unique, otherwise a fresh one of the same length.
func writable[E any](m tensor.Mut[*Array[E]]) *Array[E] {
	if src := *m.Array; src.IsUnique() {
		return src
	}
	return newArray[E]((*m.Array).dev, (*m.Array).Len())
}

// commit installs dst as the new array of m, releasing the old handle if dst
// is a copy.
func commit[E any](m tensor.Mut[*Array[E]], dst *Array[E]) {
	if old := *m.Array; old != dst {
		old.Release()
		*m.Array = dst
	}
}
