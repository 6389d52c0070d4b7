package tensor

import "fmt"

// Backend identifies one compute implementation (e.g. "CPU", "CUDA").
// Backend types are zero-sized markers: the zero value is the backend,
// and every method is callable on it.
//
// Dev is the backend's runtime compute context (thread pool, GPU context,
// allocator). Dev values are shared handles (usually pointers) and must be
// safe for concurrent use.
type Backend[Dev any] interface {
	// Name returns a human-readable backend name.
	Name() string

	// DefaultDevice constructs a fresh device. It must not cache; the
	// Registry enforces one device per device type.
	DefaultDevice() Dev
}

// Array is the constraint for a backend's storage primitive A.
//
// Arrays must be safe for concurrent reads, cheap (or at least correct) to
// clone, and always tied to exactly one device.
type Array[A any, Dev any] interface {
	fmt.Stringer

	// Clone returns an independent handle to the same values. Whether the
	// buffer is copied or shared copy-on-write is up to the backend.
	Clone() A

	// Device returns the device the array was allocated on.
	Device() Dev
}

// Releaser is implemented by arrays that hold a shared reference to their
// storage (e.g. copy-on-write buffers). Derived in-place operations release
// the array they replace so surviving clones become unique again.
type Releaser interface {
	Release()
}

// View pairs an array with its dimensions at the contract boundary.
// Rank is erased here; the tensor wrapper re-imposes it statically.
type View[A any] struct {
	Array A
	Dims  []int
}

// Mut is an exclusive view whose array may be replaced by an in-place op.
// The caller holds exclusive access for the duration of the call.
type Mut[A any] struct {
	Array *A
	Dims  []int
}

// View returns the read-only view of m.
func (m Mut[A]) View() View[A] {
	return View[A]{Array: *m.Array, Dims: m.Dims}
}

// Storage is the construction and readback contract for element type E.
type Storage[E any, A any, Dev any] interface {
	Backend[Dev]

	// FromSlice copies data into a new array on dev.
	FromSlice(dev Dev, data []E) A

	// Full allocates count elements on dev, all set to value.
	Full(dev Dev, count int, value E) A

	// ToSlice copies the array back to host memory.
	ToSlice(a A) []E

	// Len returns the number of elements in a.
	Len(a A) int
}

// BoolOps is the contract for boolean tensors.
type BoolOps[A any, Dev any] interface {
	Storage[bool, A, Dev]

	// Neg returns the elementwise logical negation.
	Neg(x View[A]) A
}

// Numeric is the primitive contract for numeric tensors.
//
// Every primitive returns a freshly allocated array; it never hands back one
// of its operands.
//
// Binary ops broadcast equal-rank operands: an axis of size 1 on either side
// expands to the other side's size. The in-place forms of every op are derived
// (see AddInPlace and friends); backends only implement what is listed here,
// plus the optional BinaryInPlacer / ScalarInPlacer / UnaryInPlacer hooks.
type Numeric[E Element, A any, Dev any] interface {
	Storage[E, A, Dev]

	Add(lhs, rhs View[A]) A
	AddScalar(lhs View[A], rhs E) A
	Sub(lhs, rhs View[A]) A
	SubScalar(lhs View[A], rhs E) A
	Mul(lhs, rhs View[A]) A
	MulScalar(lhs View[A], rhs E) A
	Div(lhs, rhs View[A]) A
	DivScalar(lhs View[A], rhs E) A
	Min(lhs, rhs View[A]) A
	MinScalar(lhs View[A], rhs E) A
	Max(lhs, rhs View[A]) A
	MaxScalar(lhs View[A], rhs E) A

	// PowUScalar raises every element to the integer power n.
	PowUScalar(x View[A], n uint32) A

	// MatMul multiplies two rank-2 arrays: [M, K] @ [K, N] -> [M, N].
	// There is no broadcasting or scalar form.
	MatMul(lhs, rhs View[A]) A
}

// Real extends Numeric with operations that need real-number semantics.
type Real[E Float, A any, Dev any] interface {
	Numeric[E, A, Dev]

	// PowFScalar raises every element to the real power p.
	PowFScalar(x View[A], p float64) A

	// Erf applies the Gauss error function elementwise.
	Erf(x View[A]) A
}

// Op names an operation for in-place override hooks and error messages.
type Op uint8

// Operations.
const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMin
	OpMax
	OpPowU
	OpPowF
	OpErf
	OpNeg
	OpGelu
	OpRelu
)

var opNames = [...]string{
	OpAdd:  "add",
	OpSub:  "sub",
	OpMul:  "mul",
	OpDiv:  "div",
	OpMin:  "min",
	OpMax:  "max",
	OpPowU: "powu",
	OpPowF: "powf",
	OpErf:  "erf",
	OpNeg:  "neg",
	OpGelu: "gelu",
	OpRelu: "relu",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// BinaryInPlacer is an optional hook a backend implements to run
// array-with-array ops in place. Returning false falls back to the derived
// default (compute out of place, then overwrite).
type BinaryInPlacer[A any] interface {
	BinaryInPlace(op Op, lhs Mut[A], rhs View[A]) bool
}

// ScalarInPlacer is the array-with-scalar counterpart of BinaryInPlacer.
type ScalarInPlacer[E any, A any] interface {
	ScalarInPlace(op Op, lhs Mut[A], rhs E) bool
}

// UnaryInPlacer is the unary counterpart of BinaryInPlacer (erf, neg, gelu, relu).
type UnaryInPlacer[A any] interface {
	UnaryInPlace(op Op, x Mut[A]) bool
}
