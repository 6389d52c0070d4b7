package tensor

import "errors"

// Operator sugar.
//
// Each binary op comes in four call shapes:
//
//	t.Add(u)              new result, broadcasting both sides
//	t.AddScalar(s)        new result
//	t.AddInPlace(u)       t += u, reusing t's storage
//	t.AddScalarInPlace(s) t += s
//
// Operands share the static rank D; only equal-rank broadcasting of size-1
// axes happens at run time. Shape errors panic before anything is mutated.

func relabel(op Op, err error) error {
	var se *ShapeError
	if errors.As(err, &se) {
		se.Op = op.String()
	}
	return err
}

func broadcastOut[D Dims](op Op, lhs, rhs Shape[D]) Shape[D] {
	out, err := BroadcastShape(lhs, rhs)
	if err != nil {
		panic(relabel(op, err))
	}
	return out
}

// assignable checks that rhs broadcasts onto the in-place target shape.
func assignable[D Dims](op Op, lhs, rhs Shape[D]) {
	if err := rhs.CheckBroadcast(lhs); err != nil {
		panic(relabel(op, err))
	}
}

func (t *Tensor[E, D, Dev, A, B]) binary(op Op, rhs Operand[A, D], f func(lhs, rhs View[A]) A) *Tensor[E, D, Dev, A, B] {
	out := broadcastOut(op, t.shape, rhs.Shape())
	return t.with(f(t.View(), rhs.View()), out)
}

func (t *Tensor[E, D, Dev, A, B]) assign(op Op, rhs Operand[A, D], f func(lhs, rhs View[A]) A) *Tensor[E, D, Dev, A, B] {
	assignable(op, t.shape, rhs.Shape())
	binaryInPlace(t.backend, op, t.mut(), rhs.View(), f)
	return t
}

func (t *Tensor[E, D, Dev, A, B]) assignScalar(op Op, rhs E, f func(lhs View[A], rhs E) A) *Tensor[E, D, Dev, A, B] {
	scalarInPlace(t.backend, op, t.mut(), rhs, f)
	return t
}

// Add returns t + rhs with broadcasting.
func (t *Tensor[E, D, Dev, A, B]) Add(rhs Operand[A, D]) *Tensor[E, D, Dev, A, B] {
	return t.binary(OpAdd, rhs, t.backend.Add)
}

// AddScalar returns t + s.
func (t *Tensor[E, D, Dev, A, B]) AddScalar(s E) *Tensor[E, D, Dev, A, B] {
	return t.with(t.backend.AddScalar(t.View(), s), t.shape)
}

// AddInPlace computes t += rhs and returns t.
func (t *Tensor[E, D, Dev, A, B]) AddInPlace(rhs Operand[A, D]) *Tensor[E, D, Dev, A, B] {
	return t.assign(OpAdd, rhs, t.backend.Add)
}

// AddScalarInPlace computes t += s and returns t.
func (t *Tensor[E, D, Dev, A, B]) AddScalarInPlace(s E) *Tensor[E, D, Dev, A, B] {
	return t.assignScalar(OpAdd, s, t.backend.AddScalar)
}

// Sub returns t - rhs with broadcasting.
func (t *Tensor[E, D, Dev, A, B]) Sub(rhs Operand[A, D]) *Tensor[E, D, Dev, A, B] {
	return t.binary(OpSub, rhs, t.backend.Sub)
}

// SubScalar returns t - s.
func (t *Tensor[E, D, Dev, A, B]) SubScalar(s E) *Tensor[E, D, Dev, A, B] {
	return t.with(t.backend.SubScalar(t.View(), s), t.shape)
}

// SubInPlace computes t -= rhs and returns t.
func (t *Tensor[E, D, Dev, A, B]) SubInPlace(rhs Operand[A, D]) *Tensor[E, D, Dev, A, B] {
	return t.assign(OpSub, rhs, t.backend.Sub)
}

// SubScalarInPlace computes t -= s and returns t.
func (t *Tensor[E, D, Dev, A, B]) SubScalarInPlace(s E) *Tensor[E, D, Dev, A, B] {
	return t.assignScalar(OpSub, s, t.backend.SubScalar)
}

// Mul returns t * rhs with broadcasting.
func (t *Tensor[E, D, Dev, A, B]) Mul(rhs Operand[A, D]) *Tensor[E, D, Dev, A, B] {
	return t.binary(OpMul, rhs, t.backend.Mul)
}

// MulScalar returns t * s.
func (t *Tensor[E, D, Dev, A, B]) MulScalar(s E) *Tensor[E, D, Dev, A, B] {
	return t.with(t.backend.MulScalar(t.View(), s), t.shape)
}

// MulInPlace computes t *= rhs and returns t.
func (t *Tensor[E, D, Dev, A, B]) MulInPlace(rhs Operand[A, D]) *Tensor[E, D, Dev, A, B] {
	return t.assign(OpMul, rhs, t.backend.Mul)
}

// MulScalarInPlace computes t *= s and returns t.
func (t *Tensor[E, D, Dev, A, B]) MulScalarInPlace(s E) *Tensor[E, D, Dev, A, B] {
	return t.assignScalar(OpMul, s, t.backend.MulScalar)
}

// Div returns t / rhs with broadcasting.
func (t *Tensor[E, D, Dev, A, B]) Div(rhs Operand[A, D]) *Tensor[E, D, Dev, A, B] {
	return t.binary(OpDiv, rhs, t.backend.Div)
}

// DivScalar returns t / s.
func (t *Tensor[E, D, Dev, A, B]) DivScalar(s E) *Tensor[E, D, Dev, A, B] {
	return t.with(t.backend.DivScalar(t.View(), s), t.shape)
}

// DivInPlace computes t /= rhs and returns t.
func (t *Tensor[E, D, Dev, A, B]) DivInPlace(rhs Operand[A, D]) *Tensor[E, D, Dev, A, B] {
	return t.assign(OpDiv, rhs, t.backend.Div)
}

// DivScalarInPlace computes t /= s and returns t.
func (t *Tensor[E, D, Dev, A, B]) DivScalarInPlace(s E) *Tensor[E, D, Dev, A, B] {
	return t.assignScalar(OpDiv, s, t.backend.DivScalar)
}

// Min returns the elementwise minimum of t and rhs with broadcasting.
func (t *Tensor[E, D, Dev, A, B]) Min(rhs Operand[A, D]) *Tensor[E, D, Dev, A, B] {
	return t.binary(OpMin, rhs, t.backend.Min)
}

// MinScalar returns min(t, s) elementwise.
func (t *Tensor[E, D, Dev, A, B]) MinScalar(s E) *Tensor[E, D, Dev, A, B] {
	return t.with(t.backend.MinScalar(t.View(), s), t.shape)
}

// MinInPlace computes t = min(t, rhs) and returns t.
func (t *Tensor[E, D, Dev, A, B]) MinInPlace(rhs Operand[A, D]) *Tensor[E, D, Dev, A, B] {
	return t.assign(OpMin, rhs, t.backend.Min)
}

// MinScalarInPlace computes t = min(t, s) and returns t.
func (t *Tensor[E, D, Dev, A, B]) MinScalarInPlace(s E) *Tensor[E, D, Dev, A, B] {
	return t.assignScalar(OpMin, s, t.backend.MinScalar)
}

// Max returns the elementwise maximum of t and rhs with broadcasting.
func (t *Tensor[E, D, Dev, A, B]) Max(rhs Operand[A, D]) *Tensor[E, D, Dev, A, B] {
	return t.binary(OpMax, rhs, t.backend.Max)
}

// MaxScalar returns max(t, s) elementwise.
func (t *Tensor[E, D, Dev, A, B]) MaxScalar(s E) *Tensor[E, D, Dev, A, B] {
	return t.with(t.backend.MaxScalar(t.View(), s), t.shape)
}

// MaxInPlace computes t = max(t, rhs) and returns t.
func (t *Tensor[E, D, Dev, A, B]) MaxInPlace(rhs Operand[A, D]) *Tensor[E, D, Dev, A, B] {
	return t.assign(OpMax, rhs, t.backend.Max)
}

// MaxScalarInPlace computes t = max(t, s) and returns t.
func (t *Tensor[E, D, Dev, A, B]) MaxScalarInPlace(s E) *Tensor[E, D, Dev, A, B] {
	return t.assignScalar(OpMax, s, t.backend.MaxScalar)
}

// PowU returns t raised to the integer power n.
func (t *Tensor[E, D, Dev, A, B]) PowU(n uint32) *Tensor[E, D, Dev, A, B] {
	return t.with(t.backend.PowUScalar(t.View(), n), t.shape)
}

// PowUInPlace raises t to the integer power n and returns t.
func (t *Tensor[E, D, Dev, A, B]) PowUInPlace(n uint32) *Tensor[E, D, Dev, A, B] {
	t.ops().PowUScalarInPlace(t.mut(), n)
	return t
}

// Relu returns max(t, 0).
func (t *Tensor[E, D, Dev, A, B]) Relu() *Tensor[E, D, Dev, A, B] {
	return t.with(t.ops().Relu(t.View()), t.shape)
}

// ReluInPlace computes t = max(t, 0) and returns t.
func (t *Tensor[E, D, Dev, A, B]) ReluInPlace() *Tensor[E, D, Dev, A, B] {
	t.ops().ReluInPlace(t.mut())
	return t
}

// Add returns r + rhs with broadcasting.
func (r Ref[E, D, Dev, A, B]) Add(rhs Operand[A, D]) *Tensor[E, D, Dev, A, B] {
	return r.binary(OpAdd, rhs, r.backend.Add)
}

// AddScalar returns r + s.
func (r Ref[E, D, Dev, A, B]) AddScalar(s E) *Tensor[E, D, Dev, A, B] {
	return r.with(r.backend.AddScalar(r.View(), s), r.shape)
}

// Sub returns r - rhs with broadcasting.
func (r Ref[E, D, Dev, A, B]) Sub(rhs Operand[A, D]) *Tensor[E, D, Dev, A, B] {
	return r.binary(OpSub, rhs, r.backend.Sub)
}

// SubScalar returns r - s.
func (r Ref[E, D, Dev, A, B]) SubScalar(s E) *Tensor[E, D, Dev, A, B] {
	return r.with(r.backend.SubScalar(r.View(), s), r.shape)
}

// Mul returns r * rhs with broadcasting.
func (r Ref[E, D, Dev, A, B]) Mul(rhs Operand[A, D]) *Tensor[E, D, Dev, A, B] {
	return r.binary(OpMul, rhs, r.backend.Mul)
}

// MulScalar returns r * s.
func (r Ref[E, D, Dev, A, B]) MulScalar(s E) *Tensor[E, D, Dev, A, B] {
	return r.with(r.backend.MulScalar(r.View(), s), r.shape)
}

// Div returns r / rhs with broadcasting.
func (r Ref[E, D, Dev, A, B]) Div(rhs Operand[A, D]) *Tensor[E, D, Dev, A, B] {
	return r.binary(OpDiv, rhs, r.backend.Div)
}

// DivScalar returns r / s.
func (r Ref[E, D, Dev, A, B]) DivScalar(s E) *Tensor[E, D, Dev, A, B] {
	return r.with(r.backend.DivScalar(r.View(), s), r.shape)
}

// Min returns the elementwise minimum of r and rhs with broadcasting.
func (r Ref[E, D, Dev, A, B]) Min(rhs Operand[A, D]) *Tensor[E, D, Dev, A, B] {
	return r.binary(OpMin, rhs, r.backend.Min)
}

// MinScalar returns min(r, s).
func (r Ref[E, D, Dev, A, B]) MinScalar(s E) *Tensor[E, D, Dev, A, B] {
	return r.with(r.backend.MinScalar(r.View(), s), r.shape)
}

// Max returns the elementwise maximum of r and rhs with broadcasting.
func (r Ref[E, D, Dev, A, B]) Max(rhs Operand[A, D]) *Tensor[E, D, Dev, A, B] {
	return r.binary(OpMax, rhs, r.backend.Max)
}

// MaxScalar returns max(r, s).
func (r Ref[E, D, Dev, A, B]) MaxScalar(s E) *Tensor[E, D, Dev, A, B] {
	return r.with(r.backend.MaxScalar(r.View(), s), r.shape)
}

func (r Ref[E, D, Dev, A, B]) binary(op Op, rhs Operand[A, D], f func(lhs, rhs View[A]) A) *Tensor[E, D, Dev, A, B] {
	out := broadcastOut(op, r.shape, rhs.Shape())
	return r.with(f(r.View(), rhs.View()), out)
}

// MatMul multiplies two matrices: [M, K] @ [K, N] -> [M, N].
//
// Only rank-2 tensors are accepted; passing any other rank does not compile.
// It panics with a *ShapeError when the inner dimensions differ.
func MatMul[E Element, Dev any, A Array[A, Dev], B Numeric[E, A, Dev]](lhs *Tensor[E, [2]int, Dev, A, B], rhs Operand[A, [2]int]) *Tensor[E, [2]int, Dev, A, B] {
	ls, rs := lhs.shape, rhs.Shape()
	if ls.Dim(1) != rs.Dim(0) {
		panic(&ShapeError{
			Op:  "matmul",
			Lhs: ls.Slice(),
			Rhs: rs.Slice(),
			Dim: 1,
			Msg: "inner dimensions differ",
		})
	}
	out := NewShape([2]int{ls.Dim(0), rs.Dim(1)})
	return lhs.with(lhs.backend.MatMul(lhs.View(), rhs.View()), out)
}

// Gelu returns x/2 * (erf(x/2) + 1) elementwise.
func Gelu[E Float, D Dims, Dev any, A Array[A, Dev], B Real[E, A, Dev]](t *Tensor[E, D, Dev, A, B]) *Tensor[E, D, Dev, A, B] {
	return t.with(NewRealDerived[E, Dev, A](t.backend).Gelu(t.View()), t.shape)
}

// GeluInPlace applies Gelu to t in place and returns t.
func GeluInPlace[E Float, D Dims, Dev any, A Array[A, Dev], B Real[E, A, Dev]](t *Tensor[E, D, Dev, A, B]) *Tensor[E, D, Dev, A, B] {
	NewRealDerived[E, Dev, A](t.backend).GeluInPlace(t.mut())
	return t
}

// Erf returns the error function of t elementwise.
func Erf[E Float, D Dims, Dev any, A Array[A, Dev], B Real[E, A, Dev]](t *Tensor[E, D, Dev, A, B]) *Tensor[E, D, Dev, A, B] {
	return t.with(t.backend.Erf(t.View()), t.shape)
}

// ErfInPlace applies the error function to t in place and returns t.
func ErfInPlace[E Float, D Dims, Dev any, A Array[A, Dev], B Real[E, A, Dev]](t *Tensor[E, D, Dev, A, B]) *Tensor[E, D, Dev, A, B] {
	NewRealDerived[E, Dev, A](t.backend).ErfInPlace(t.mut())
	return t
}

// PowF returns t raised to the real power p.
func PowF[E Float, D Dims, Dev any, A Array[A, Dev], B Real[E, A, Dev]](t *Tensor[E, D, Dev, A, B], p float64) *Tensor[E, D, Dev, A, B] {
	return t.with(t.backend.PowFScalar(t.View(), p), t.shape)
}

// PowFInPlace raises t to the real power p in place and returns t.
func PowFInPlace[E Float, D Dims, Dev any, A Array[A, Dev], B Real[E, A, Dev]](t *Tensor[E, D, Dev, A, B], p float64) *Tensor[E, D, Dev, A, B] {
	NewRealDerived[E, Dev, A](t.backend).PowFScalarInPlace(t.mut(), p)
	return t
}
