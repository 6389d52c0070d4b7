package tensor

// Gelu computes x/2 * (erf(x/2) + 1) from primitives only.
//
// One fresh buffer h is allocated (x/2); every later step runs in place on h.
// The original x is read twice (the first division and the multiply) and is
// never mutated, so backends get a correct GELU without a fused kernel.
func (d RealDerived[E, Dev, A, B]) Gelu(x View[A]) A {
	h := d.Backend.DivScalar(x, 2)
	hm := Mut[A]{Array: &h, Dims: x.Dims}

	d.ErfInPlace(hm)
	d.AddScalarInPlace(hm, 1)
	d.MulInPlace(hm, x)
	d.DivScalarInPlace(hm, 2)

	return h
}

// GeluInPlace overwrites x with Gelu(x).
func (d RealDerived[E, Dev, A, B]) GeluInPlace(x Mut[A]) {
	unaryInPlace(d.Backend, OpGelu, x, d.Gelu)
}
