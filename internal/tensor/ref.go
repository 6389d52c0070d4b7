package tensor

import "fmt"

// Ref is a borrowed, read-only view of a tensor's array with its own shape.
//
// A Ref shares storage with the tensor it came from and stays valid until
// that tensor is mutated in place. Refs are values; copy them freely.
type Ref[E Element, D Dims, Dev any, A Array[A, Dev], B Numeric[E, A, Dev]] struct {
	array   A
	shape   Shape[D]
	backend B
}

// Shape returns the view's shape.
func (r Ref[E, D, Dev, A, B]) Shape() Shape[D] {
	return r.shape
}

// View returns the contract-level view.
func (r Ref[E, D, Dev, A, B]) View() View[A] {
	return View[A]{Array: r.array, Dims: r.shape.Slice()}
}

// Data copies the elements back to host memory.
func (r Ref[E, D, Dev, A, B]) Data() []E {
	return r.backend.ToSlice(r.array)
}

// Tensor materialises an owned tensor with a cloned array.
func (r Ref[E, D, Dev, A, B]) Tensor() *Tensor[E, D, Dev, A, B] {
	return &Tensor[E, D, Dev, A, B]{array: r.array.Clone(), shape: r.shape, backend: r.backend}
}

// String returns a human-readable representation of the view.
func (r Ref[E, D, Dev, A, B]) String() string {
	return fmt.Sprintf("Ref[%s]%v on %s", DataTypeOf[E](), r.shape, r.backend.Name())
}

func (r Ref[E, D, Dev, A, B]) with(array A, shape Shape[D]) *Tensor[E, D, Dev, A, B] {
	return &Tensor[E, D, Dev, A, B]{array: array, shape: shape, backend: r.backend}
}
