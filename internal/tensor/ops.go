package tensor

// Derived supplies the default operations of a Numeric backend.
//
// Every in-place form is written once against the primitive contract:
// compute out of place, then overwrite the left operand's array. A backend
// implementing one of the *InPlacer hooks gets the first chance to do the work
// without the extra allocation. Derived is stateless; construct it with a
// composite literal or NewDerived wherever it is needed.
type Derived[E Element, Dev, A any, B Numeric[E, A, Dev]] struct {
	Backend B
}

// NewDerived returns the derived operations for b.
func NewDerived[E Element, Dev, A any, B Numeric[E, A, Dev]](b B) Derived[E, Dev, A, B] {
	return Derived[E, Dev, A, B]{Backend: b}
}

// replace installs v as the array of x, releasing the array it replaces.
func replace[A any](x Mut[A], v A) {
	if r, ok := any(*x.Array).(Releaser); ok {
		r.Release()
	}
	*x.Array = v
}

func binaryInPlace[A any](b any, op Op, lhs Mut[A], rhs View[A], f func(lhs, rhs View[A]) A) {
	if ip, ok := b.(BinaryInPlacer[A]); ok && ip.BinaryInPlace(op, lhs, rhs) {
		return
	}
	replace(lhs, f(lhs.View(), rhs))
}

func scalarInPlace[E, A any](b any, op Op, lhs Mut[A], rhs E, f func(lhs View[A], rhs E) A) {
	if ip, ok := b.(ScalarInPlacer[E, A]); ok && ip.ScalarInPlace(op, lhs, rhs) {
		return
	}
	replace(lhs, f(lhs.View(), rhs))
}

func unaryInPlace[A any](b any, op Op, x Mut[A], f func(x View[A]) A) {
	if ip, ok := b.(UnaryInPlacer[A]); ok && ip.UnaryInPlace(op, x) {
		return
	}
	replace(x, f(x.View()))
}

// AddInPlace computes lhs += rhs.
func (d Derived[E, Dev, A, B]) AddInPlace(lhs Mut[A], rhs View[A]) {
	binaryInPlace(d.Backend, OpAdd, lhs, rhs, d.Backend.Add)
}

// AddScalarInPlace computes lhs += rhs.
func (d Derived[E, Dev, A, B]) AddScalarInPlace(lhs Mut[A], rhs E) {
	scalarInPlace(d.Backend, OpAdd, lhs, rhs, d.Backend.AddScalar)
}

// SubInPlace computes lhs -= rhs.
func (d Derived[E, Dev, A, B]) SubInPlace(lhs Mut[A], rhs View[A]) {
	binaryInPlace(d.Backend, OpSub, lhs, rhs, d.Backend.Sub)
}

// SubScalarInPlace computes lhs -= rhs.
func (d Derived[E, Dev, A, B]) SubScalarInPlace(lhs Mut[A], rhs E) {
	scalarInPlace(d.Backend, OpSub, lhs, rhs, d.Backend.SubScalar)
}

// MulInPlace computes lhs *= rhs.
func (d Derived[E, Dev, A, B]) MulInPlace(lhs Mut[A], rhs View[A]) {
	binaryInPlace(d.Backend, OpMul, lhs, rhs, d.Backend.Mul)
}

// MulScalarInPlace computes lhs *= rhs.
func (d Derived[E, Dev, A, B]) MulScalarInPlace(lhs Mut[A], rhs E) {
	scalarInPlace(d.Backend, OpMul, lhs, rhs, d.Backend.MulScalar)
}

// DivInPlace computes lhs /= rhs.
func (d Derived[E, Dev, A, B]) DivInPlace(lhs Mut[A], rhs View[A]) {
	binaryInPlace(d.Backend, OpDiv, lhs, rhs, d.Backend.Div)
}

// DivScalarInPlace computes lhs /= rhs.
func (d Derived[E, Dev, A, B]) DivScalarInPlace(lhs Mut[A], rhs E) {
	scalarInPlace(d.Backend, OpDiv, lhs, rhs, d.Backend.DivScalar)
}

// MinInPlace computes lhs = min(lhs, rhs).
func (d Derived[E, Dev, A, B]) MinInPlace(lhs Mut[A], rhs View[A]) {
	binaryInPlace(d.Backend, OpMin, lhs, rhs, d.Backend.Min)
}

// MinScalarInPlace computes lhs = min(lhs, rhs).
func (d Derived[E, Dev, A, B]) MinScalarInPlace(lhs Mut[A], rhs E) {
	scalarInPlace(d.Backend, OpMin, lhs, rhs, d.Backend.MinScalar)
}

// MaxInPlace computes lhs = max(lhs, rhs).
func (d Derived[E, Dev, A, B]) MaxInPlace(lhs Mut[A], rhs View[A]) {
	binaryInPlace(d.Backend, OpMax, lhs, rhs, d.Backend.Max)
}

// MaxScalarInPlace computes lhs = max(lhs, rhs).
func (d Derived[E, Dev, A, B]) MaxScalarInPlace(lhs Mut[A], rhs E) {
	scalarInPlace(d.Backend, OpMax, lhs, rhs, d.Backend.MaxScalar)
}

// PowUScalarInPlace raises every element of x to the integer power n.
func (d Derived[E, Dev, A, B]) PowUScalarInPlace(x Mut[A], n uint32) {
	replace(x, d.Backend.PowUScalar(x.View(), n))
}

// Relu computes max(x, 0).
func (d Derived[E, Dev, A, B]) Relu(x View[A]) A {
	return d.Backend.MaxScalar(x, 0)
}

// ReluInPlace overwrites x with max(x, 0).
func (d Derived[E, Dev, A, B]) ReluInPlace(x Mut[A]) {
	if ip, ok := any(d.Backend).(UnaryInPlacer[A]); ok && ip.UnaryInPlace(OpRelu, x) {
		return
	}
	d.MaxScalarInPlace(x, 0)
}

// Zeros allocates count zeros on dev.
func (d Derived[E, Dev, A, B]) Zeros(dev Dev, count int) A {
	return d.Backend.Full(dev, count, 0)
}

// Ones allocates count ones on dev.
func (d Derived[E, Dev, A, B]) Ones(dev Dev, count int) A {
	return d.Backend.Full(dev, count, 1)
}

// RealDerived adds the derived operations that need real-number semantics.
type RealDerived[E Float, Dev, A any, B Real[E, A, Dev]] struct {
	Derived[E, Dev, A, B]
}

// NewRealDerived returns the derived operations for b.
func NewRealDerived[E Float, Dev, A any, B Real[E, A, Dev]](b B) RealDerived[E, Dev, A, B] {
	return RealDerived[E, Dev, A, B]{Derived: Derived[E, Dev, A, B]{Backend: b}}
}

// PowFScalarInPlace raises every element of x to the real power p.
func (d RealDerived[E, Dev, A, B]) PowFScalarInPlace(x Mut[A], p float64) {
	replace(x, d.Backend.PowFScalar(x.View(), p))
}

// ErfInPlace applies the error function to x in place.
func (d RealDerived[E, Dev, A, B]) ErfInPlace(x Mut[A]) {
	unaryInPlace(d.Backend, OpErf, x, d.Backend.Erf)
}

// BoolDerived supplies the default operations of a BoolOps backend.
type BoolDerived[Dev, A any, B BoolOps[A, Dev]] struct {
	Backend B
}

// NegInPlace negates x in place.
func (d BoolDerived[Dev, A, B]) NegInPlace(x Mut[A]) {
	unaryInPlace(d.Backend, OpNeg, x, d.Backend.Neg)
}

// Falses allocates count false values on dev.
func (d BoolDerived[Dev, A, B]) Falses(dev Dev, count int) A {
	return d.Backend.Full(dev, count, false)
}

// Trues allocates count true values on dev.
func (d BoolDerived[Dev, A, B]) Trues(dev Dev, count int) A {
	return d.Backend.Full(dev, count, true)
}
