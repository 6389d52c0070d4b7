package tensor

import "fmt"

// Tensor is a backend array paired with a static-rank shape.
//
// Type Parameters:
//   - E: element type (must satisfy Element)
//   - D: dimension array, whose length is the rank (e.g. [2]int)
//   - Dev: the backend's device type
//   - A: the backend's storage primitive
//   - B: the backend (zero-sized marker implementing Numeric)
//
// The shape lives next to the array rather than inside it, so reshaping is a
// metadata change and never reallocates. Backends normally expose a generic
// alias with only E and D left open (see cpu.Tensor).
//
// A *Tensor owns its array and is the mutable handle: in-place operations go
// through it and require that no other goroutine uses the tensor meanwhile.
type Tensor[E Element, D Dims, Dev any, A Array[A, Dev], B Numeric[E, A, Dev]] struct {
	array   A
	shape   Shape[D]
	backend B
}

// Operand is anything a tensor operator accepts on its right-hand side:
// an owned *Tensor or a borrowed Ref of the same rank.
type Operand[A any, D Dims] interface {
	Shape() Shape[D]
	View() View[A]
}

// New wraps array with shape. It fails if the array does not hold exactly
// shape.NumElements() elements.
func New[E Element, D Dims, Dev any, A Array[A, Dev], B Numeric[E, A, Dev]](array A, shape Shape[D]) (*Tensor[E, D, Dev, A, B], error) {
	var b B
	if n := b.Len(array); n != shape.NumElements() {
		return nil, &ShapeError{
			Op:  "new",
			Lhs: []int{n},
			Rhs: shape.Slice(),
			Dim: -1,
			Msg: fmt.Sprintf("array has %d elements, shape requires %d", n, shape.NumElements()),
		}
	}
	return &Tensor[E, D, Dev, A, B]{array: array, shape: shape, backend: b}, nil
}

// Shape returns the tensor's shape.
func (t *Tensor[E, D, Dev, A, B]) Shape() Shape[D] {
	return t.shape
}

// Rank returns the number of dimensions.
func (t *Tensor[E, D, Dev, A, B]) Rank() int {
	return t.shape.Rank()
}

// NumElements returns the total number of elements.
func (t *Tensor[E, D, Dev, A, B]) NumElements() int {
	return t.shape.NumElements()
}

// Array returns the backend storage primitive.
func (t *Tensor[E, D, Dev, A, B]) Array() A {
	return t.array
}

// Device returns the device the tensor's array lives on.
func (t *Tensor[E, D, Dev, A, B]) Device() Dev {
	return t.array.Device()
}

// Backend returns the computation backend.
func (t *Tensor[E, D, Dev, A, B]) Backend() B {
	return t.backend
}

// View returns the contract-level view of the tensor.
func (t *Tensor[E, D, Dev, A, B]) View() View[A] {
	return View[A]{Array: t.array, Dims: t.shape.Slice()}
}

func (t *Tensor[E, D, Dev, A, B]) mut() Mut[A] {
	return Mut[A]{Array: &t.array, Dims: t.shape.Slice()}
}

func (t *Tensor[E, D, Dev, A, B]) ops() Derived[E, Dev, A, B] {
	return Derived[E, Dev, A, B]{Backend: t.backend}
}

// with wraps a result array produced by an operation on t.
func (t *Tensor[E, D, Dev, A, B]) with(array A, shape Shape[D]) *Tensor[E, D, Dev, A, B] {
	return &Tensor[E, D, Dev, A, B]{array: array, shape: shape, backend: t.backend}
}

// Data copies the elements back to host memory in row-major order.
func (t *Tensor[E, D, Dev, A, B]) Data() []E {
	return t.backend.ToSlice(t.array)
}

// Clone returns a tensor with its own handle to the same values.
func (t *Tensor[E, D, Dev, A, B]) Clone() *Tensor[E, D, Dev, A, B] {
	return t.with(t.array.Clone(), t.shape)
}

// String returns a human-readable representation of the tensor.
func (t *Tensor[E, D, Dev, A, B]) String() string {
	return fmt.Sprintf("Tensor[%s]%v on %s", DataTypeOf[E](), t.shape, t.backend.Name())
}

// Reshape changes the shape in place, keeping the rank.
// It panics if the element count would change; t is untouched in that case.
func (t *Tensor[E, D, Dev, A, B]) Reshape(shape Shape[D]) {
	t.shape.AssertReshape(shape)
	t.shape = shape
}

// Ref borrows t as a read-only view.
func (t *Tensor[E, D, Dev, A, B]) Ref() Ref[E, D, Dev, A, B] {
	return Ref[E, D, Dev, A, B]{array: t.array, shape: t.shape, backend: t.backend}
}

// IntoShape consumes t and returns a tensor of rank len(D2) over the same
// array. No data is copied; t must not be used afterwards.
// It panics if the element counts differ.
//
// Example:
//
//	flat := cpu.MustFromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.NewShape([1]int{6}))
//	m := tensor.IntoShape(flat, tensor.NewShape([2]int{2, 3}))
func IntoShape[D2 Dims, E Element, D Dims, Dev any, A Array[A, Dev], B Numeric[E, A, Dev]](t *Tensor[E, D, Dev, A, B], shape Shape[D2]) *Tensor[E, D2, Dev, A, B] {
	t.shape.AssertReshape(shape)
	return &Tensor[E, D2, Dev, A, B]{array: t.array, shape: shape, backend: t.backend}
}

// WithShape borrows t under a different shape of any rank without copying.
// It panics if the element counts differ.
func WithShape[D2 Dims, E Element, D Dims, Dev any, A Array[A, Dev], B Numeric[E, A, Dev]](t *Tensor[E, D, Dev, A, B], shape Shape[D2]) Ref[E, D2, Dev, A, B] {
	t.shape.AssertReshape(shape)
	return Ref[E, D2, Dev, A, B]{array: t.array, shape: shape, backend: t.backend}
}
