package tensor

import "fmt"

// BoolTensor is the boolean counterpart of Tensor (masks, predicates).
type BoolTensor[D Dims, Dev any, A Array[A, Dev], B BoolOps[A, Dev]] struct {
	array   A
	shape   Shape[D]
	backend B
}

// NewBool wraps array with shape. It fails if the element counts differ.
func NewBool[D Dims, Dev any, A Array[A, Dev], B BoolOps[A, Dev]](array A, shape Shape[D]) (*BoolTensor[D, Dev, A, B], error) {
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
	return &BoolTensor[D, Dev, A, B]{array: array, shape: shape, backend: b}, nil
}

// Shape returns the tensor's shape.
func (t *BoolTensor[D, Dev, A, B]) Shape() Shape[D] {
	return t.shape
}

// Array returns the backend storage primitive.
func (t *BoolTensor[D, Dev, A, B]) Array() A {
	return t.array
}

// Device returns the device the tensor's array lives on.
func (t *BoolTensor[D, Dev, A, B]) Device() Dev {
	return t.array.Device()
}

// View returns the contract-level view of the tensor.
func (t *BoolTensor[D, Dev, A, B]) View() View[A] {
	return View[A]{Array: t.array, Dims: t.shape.Slice()}
}

// Data copies the elements back to host memory.
func (t *BoolTensor[D, Dev, A, B]) Data() []bool {
	return t.backend.ToSlice(t.array)
}

// Reshape changes the shape in place, keeping the rank.
func (t *BoolTensor[D, Dev, A, B]) Reshape(shape Shape[D]) {
	t.shape.AssertReshape(shape)
	t.shape = shape
}

// Neg returns the logical negation of t.
func (t *BoolTensor[D, Dev, A, B]) Neg() *BoolTensor[D, Dev, A, B] {
	return &BoolTensor[D, Dev, A, B]{array: t.backend.Neg(t.View()), shape: t.shape, backend: t.backend}
}

// NegInPlace negates t in place and returns t.
func (t *BoolTensor[D, Dev, A, B]) NegInPlace() *BoolTensor[D, Dev, A, B] {
	BoolDerived[Dev, A, B]{Backend: t.backend}.NegInPlace(Mut[A]{Array: &t.array, Dims: t.shape.Slice()})
	return t
}

// String returns a human-readable representation of the tensor.
func (t *BoolTensor[D, Dev, A, B]) String() string {
	return fmt.Sprintf("Tensor[bool]%v on %s", t.shape, t.backend.Name())
}
