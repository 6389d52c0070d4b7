package tensor

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var approx = cmpopts.EquateApprox(0, 1e-12)

func TestNewValidatesLength(t *testing.T) {
	_, err := New[float64, [2]int, *mockDevice, mockArray, mockBackend](
		mockBackend{}.FromSlice(testDevice, []float64{1, 2, 3}), NewShape([2]int{2, 2}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	x := newMock([2]int{2, 2}, 1, 2, 3, 4)
	assert.Equal(t, 2, x.Rank())
	assert.Equal(t, 4, x.NumElements())
	assert.Same(t, testDevice, x.Device())
	assert.Equal(t, "mock", x.Backend().Name())
	assert.Equal(t, "Tensor[float64][2 2] on mock", x.String())
}

func TestScalarTensor(t *testing.T) {
	x := newMock([0]int{}, 5)
	assert.Equal(t, 1, x.NumElements())
	assert.Equal(t, []float64{10}, x.MulScalar(2).Data())
}

func TestBinaryBroadcast(t *testing.T) {
	a := newMock([2]int{2, 3}, 1, 2, 3, 4, 5, 6)
	row := newMock([2]int{1, 3}, 10, 20, 30)
	col := newMock([2]int{2, 1}, 100, 200)

	got := a.Add(row)
	assert.Equal(t, [2]int{2, 3}, got.Shape().Dims())
	assert.Equal(t, []float64{11, 22, 33, 14, 25, 36}, got.Data())

	// Both sides may expand.
	outer := row.Add(col)
	assert.Equal(t, [2]int{2, 3}, outer.Shape().Dims())
	assert.Equal(t, []float64{110, 120, 130, 210, 220, 230}, outer.Data())

	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, a.Data(), "operands must not be mutated")
}

func TestBinaryShapeMismatchPanics(t *testing.T) {
	a := newMock([2]int{2, 3}, 1, 2, 3, 4, 5, 6)
	b := newMock([2]int{3, 3}, 1, 2, 3, 4, 5, 6, 7, 8, 9)

	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		var se *ShapeError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "mul", se.Op)
		assert.Equal(t, 0, se.Dim)
	}()
	a.Mul(b)
}

func TestInPlaceMatchesOutOfPlace(t *testing.T) {
	lhs := []float64{-3, -1, 0, 2, 4, 7}
	rhsData := []float64{2, -2, 5}
	const scalar = 3

	type binaryCase struct {
		name    string
		out     func(a, b *mockTensor[[2]int]) *mockTensor[[2]int]
		inPlace func(a, b *mockTensor[[2]int]) *mockTensor[[2]int]
		scalar  func(a *mockTensor[[2]int]) *mockTensor[[2]int]
		scalarI func(a *mockTensor[[2]int]) *mockTensor[[2]int]
	}

	cases := []binaryCase{
		{
			"add",
			func(a, b *mockTensor[[2]int]) *mockTensor[[2]int] { return a.Add(b) },
			func(a, b *mockTensor[[2]int]) *mockTensor[[2]int] { return a.AddInPlace(b) },
			func(a *mockTensor[[2]int]) *mockTensor[[2]int] { return a.AddScalar(scalar) },
			func(a *mockTensor[[2]int]) *mockTensor[[2]int] { return a.AddScalarInPlace(scalar) },
		},
		{
			"sub",
			func(a, b *mockTensor[[2]int]) *mockTensor[[2]int] { return a.Sub(b) },
			func(a, b *mockTensor[[2]int]) *mockTensor[[2]int] { return a.SubInPlace(b) },
			func(a *mockTensor[[2]int]) *mockTensor[[2]int] { return a.SubScalar(scalar) },
			func(a *mockTensor[[2]int]) *mockTensor[[2]int] { return a.SubScalarInPlace(scalar) },
		},
		{
			"mul",
			func(a, b *mockTensor[[2]int]) *mockTensor[[2]int] { return a.Mul(b) },
			func(a, b *mockTensor[[2]int]) *mockTensor[[2]int] { return a.MulInPlace(b) },
			func(a *mockTensor[[2]int]) *mockTensor[[2]int] { return a.MulScalar(scalar) },
			func(a *mockTensor[[2]int]) *mockTensor[[2]int] { return a.MulScalarInPlace(scalar) },
		},
		{
			"div",
			func(a, b *mockTensor[[2]int]) *mockTensor[[2]int] { return a.Div(b) },
			func(a, b *mockTensor[[2]int]) *mockTensor[[2]int] { return a.DivInPlace(b) },
			func(a *mockTensor[[2]int]) *mockTensor[[2]int] { return a.DivScalar(scalar) },
			func(a *mockTensor[[2]int]) *mockTensor[[2]int] { return a.DivScalarInPlace(scalar) },
		},
		{
			"min",
			func(a, b *mockTensor[[2]int]) *mockTensor[[2]int] { return a.Min(b) },
			func(a, b *mockTensor[[2]int]) *mockTensor[[2]int] { return a.MinInPlace(b) },
			func(a *mockTensor[[2]int]) *mockTensor[[2]int] { return a.MinScalar(scalar) },
			func(a *mockTensor[[2]int]) *mockTensor[[2]int] { return a.MinScalarInPlace(scalar) },
		},
		{
			"max",
			func(a, b *mockTensor[[2]int]) *mockTensor[[2]int] { return a.Max(b) },
			func(a, b *mockTensor[[2]int]) *mockTensor[[2]int] { return a.MaxInPlace(b) },
			func(a *mockTensor[[2]int]) *mockTensor[[2]int] { return a.MaxScalar(scalar) },
			func(a *mockTensor[[2]int]) *mockTensor[[2]int] { return a.MaxScalarInPlace(scalar) },
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := newMock([2]int{2, 3}, lhs...)
			b := newMock([2]int{1, 3}, rhsData...)

			want := tc.out(a, b).Data()
			got := tc.inPlace(a, b)
			assert.Same(t, a, got)
			assert.Equal(t, [2]int{2, 3}, got.Shape().Dims())
			if diff := cmp.Diff(want, got.Data(), approx); diff != "" {
				t.Errorf("in-place mismatch (-want +got):\n%s", diff)
			}

			s := newMock([2]int{2, 3}, lhs...)
			want = tc.scalar(s).Data()
			if diff := cmp.Diff(want, tc.scalarI(s).Data(), approx); diff != "" {
				t.Errorf("scalar in-place mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInPlaceRejectsExpandingLHS(t *testing.T) {
	a := newMock([2]int{1, 3}, 1, 2, 3)
	b := newMock([2]int{2, 3}, 1, 1, 1, 1, 1, 1)

	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrShapeMismatch))
		assert.Equal(t, []float64{1, 2, 3}, a.Data(), "lhs mutated before the shape check")

		var se *ShapeError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "sub", se.Op)
	}()
	a.SubInPlace(b)
}

func TestInPlaceHooks(t *testing.T) {
	before := mockInPlaceCalls.Load()

	a := newHook([1]int{3}, 1, -2, 3)
	b := newHook([1]int{3}, 10, 20, 30)
	a.AddInPlace(b)
	assert.Equal(t, []float64{11, 18, 33}, a.Data())
	assert.Equal(t, int64(1), mockInPlaceCalls.Load()-before)

	// Declined ops fall back to the derived default.
	a.SubInPlace(b)
	assert.Equal(t, []float64{1, -2, 3}, a.Data())
	assert.Equal(t, int64(1), mockInPlaceCalls.Load()-before)

	a.ReluInPlace()
	assert.Equal(t, []float64{1, 0, 3}, a.Data())
	assert.Equal(t, int64(2), mockInPlaceCalls.Load()-before)
}

func TestRelu(t *testing.T) {
	x := newMock([1]int{5}, -2, -0.5, 0, 0.5, 2)
	want := []float64{0, 0, 0, 0.5, 2}

	assert.Equal(t, want, x.Relu().Data())
	assert.Equal(t, []float64{-2, -0.5, 0, 0.5, 2}, x.Data())

	x.ReluInPlace()
	assert.Equal(t, want, x.Data())
}

func TestPow(t *testing.T) {
	x := newMock([1]int{4}, -2, 0, 1.5, 3)
	if diff := cmp.Diff([]float64{4, 0, 2.25, 9}, x.PowU(2).Data(), approx); diff != "" {
		t.Errorf("PowU mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []float64{1, 1, 1, 1}, x.PowU(0).Data())

	y := newMock([1]int{3}, 1, 4, 9)
	if diff := cmp.Diff([]float64{1, 2, 3}, PowF(y, 0.5).Data(), approx); diff != "" {
		t.Errorf("PowF mismatch (-want +got):\n%s", diff)
	}
	PowFInPlace(y, 0.5)
	if diff := cmp.Diff([]float64{1, 2, 3}, y.Data(), approx); diff != "" {
		t.Errorf("PowFInPlace mismatch (-want +got):\n%s", diff)
	}

	x.PowUInPlace(3)
	if diff := cmp.Diff([]float64{-8, 0, 3.375, 27}, x.Data(), approx); diff != "" {
		t.Errorf("PowUInPlace mismatch (-want +got):\n%s", diff)
	}
}

func TestGelu(t *testing.T) {
	in := []float64{-3, -1, -0.25, 0, 0.25, 1, 3}
	want := make([]float64, len(in))
	for i, v := range in {
		want[i] = v / 2 * (math.Erf(v/2) + 1)
	}

	x := newMock([1]int{len(in)}, in...)

	got := Gelu(x)
	if diff := cmp.Diff(want, got.Data(), approx); diff != "" {
		t.Errorf("Gelu mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, in, x.Data(), "Gelu must not mutate its input")

	GeluInPlace(x)
	if diff := cmp.Diff(got.Data(), x.Data(), approx); diff != "" {
		t.Errorf("GeluInPlace differs from Gelu (-want +got):\n%s", diff)
	}
}

func TestGeluReusesOneBuffer(t *testing.T) {
	in := []float64{-2, -0.5, 0, 0.5, 2}
	x := newRecording([1]int{len(in)}, in...)

	recordedInPlace = nil
	before := mockOutOfPlaceCalls.Load()
	got := Gelu(x)

	assert.Equal(t, int64(1), mockOutOfPlaceCalls.Load()-before, "only the first division allocates")
	assert.Equal(t, []Op{OpErf, OpAdd, OpMul, OpDiv}, recordedInPlace)
	for i, v := range in {
		assert.InDelta(t, v/2*(math.Erf(v/2)+1), got.Data()[i], 1e-12)
	}
	assert.Equal(t, in, x.Data())

	recordedInPlace = nil
	before = mockOutOfPlaceCalls.Load()
	GeluInPlace(x)
	assert.Equal(t, int64(1), mockOutOfPlaceCalls.Load()-before)
	assert.Equal(t, []Op{OpErf, OpAdd, OpMul, OpDiv}, recordedInPlace)
	if diff := cmp.Diff(got.Data(), x.Data(), approx); diff != "" {
		t.Errorf("GeluInPlace differs from Gelu (-want +got):\n%s", diff)
	}
}

func TestErf(t *testing.T) {
	x := newMock([1]int{3}, -1, 0, 1)
	want := []float64{math.Erf(-1), 0, math.Erf(1)}

	if diff := cmp.Diff(want, Erf(x).Data(), approx); diff != "" {
		t.Errorf("Erf mismatch (-want +got):\n%s", diff)
	}
	ErfInPlace(x)
	if diff := cmp.Diff(want, x.Data(), approx); diff != "" {
		t.Errorf("ErfInPlace mismatch (-want +got):\n%s", diff)
	}
}

func TestMatMul(t *testing.T) {
	a := newMock([2]int{2, 3}, 1, 2, 3, 4, 5, 6)
	b := newMock([2]int{3, 2}, 7, 8, 9, 10, 11, 12)

	got := MatMul(a, b)
	assert.Equal(t, [2]int{2, 2}, got.Shape().Dims())
	assert.Equal(t, []float64{58, 64, 139, 154}, got.Data())

	assert.Equal(t, []float64{58, 64, 139, 154}, MatMul(a, b.Ref()).Data())

	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		var se *ShapeError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "matmul", se.Op)
		assert.Equal(t, []int{2, 3}, se.Lhs)
		assert.Equal(t, []int{2, 2}, se.Rhs)
	}()
	MatMul(a, newMock([2]int{2, 2}, 1, 2, 3, 4))
}

func TestMatMulPrimitiveRankGuard(t *testing.T) {
	v := mockBackend{}.FromSlice(testDevice, []float64{1, 2, 3})
	assert.Panics(t, func() {
		mockBackend{}.MatMul(View[mockArray]{Array: v, Dims: []int{3}}, View[mockArray]{Array: v, Dims: []int{3}})
	})
}

func TestReshape(t *testing.T) {
	x := newMock([2]int{2, 3}, 1, 2, 3, 4, 5, 6)

	x.Reshape(NewShape([2]int{3, 2}))
	assert.Equal(t, [2]int{3, 2}, x.Shape().Dims())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, x.Data())

	assert.Panics(t, func() { x.Reshape(NewShape([2]int{3, 3})) })
	assert.Equal(t, [2]int{3, 2}, x.Shape().Dims(), "failed reshape must leave the shape unchanged")
}

func TestIntoShapeAndWithShape(t *testing.T) {
	flat := newMock([1]int{6}, 1, 2, 3, 4, 5, 6)

	view := WithShape(flat, NewShape([3]int{1, 2, 3}))
	assert.Equal(t, [3]int{1, 2, 3}, view.Shape().Dims())
	assert.Equal(t, flat.Data(), view.Data())

	m := IntoShape(flat, NewShape([2]int{2, 3}))
	assert.Equal(t, [2]int{2, 3}, m.Shape().Dims())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, m.Data())

	assert.Panics(t, func() { IntoShape(m, NewShape([1]int{5})) })
	assert.Panics(t, func() { WithShape(m, NewShape([2]int{4, 2})) })
}

func TestRef(t *testing.T) {
	a := newMock([2]int{2, 2}, 1, 2, 3, 4)
	r := a.Ref()

	assert.Equal(t, "Ref[float64][2 2] on mock", r.String())
	assert.Equal(t, []float64{2, 4, 6, 8}, r.Add(a).Data())
	assert.Equal(t, []float64{0, 1, 2, 3}, r.SubScalar(1).Data())
	assert.Equal(t, []float64{1, 4, 9, 16}, a.Mul(r).Data())
	assert.Equal(t, []float64{1, 2, 2, 2}, r.Min(newMock([2]int{1, 1}, 2)).Data())
	assert.Equal(t, []float64{2, 2, 3, 4}, r.Max(newMock([2]int{1, 1}, 2)).Data())
	assert.Equal(t, []float64{1, 2, 2.5, 2.5}, r.MinScalar(2.5).Data())
	assert.Equal(t, []float64{2.5, 2.5, 3, 4}, r.MaxScalar(2.5).Data())
	assert.Equal(t, []float64{1, 2, 3, 4}, a.Data())

	owned := r.Tensor()
	owned.AddScalarInPlace(10)
	assert.Equal(t, []float64{1, 2, 3, 4}, a.Data(), "Tensor() must clone the array")
	assert.Equal(t, []float64{11, 12, 13, 14}, owned.Data())
}

func TestClone(t *testing.T) {
	a := newMock([1]int{3}, 1, 2, 3)
	b := a.Clone()
	b.MulScalarInPlace(2)

	assert.Equal(t, []float64{1, 2, 3}, a.Data())
	assert.Equal(t, []float64{2, 4, 6}, b.Data())
}

func TestDerivedConstructors(t *testing.T) {
	d := NewDerived[float64, *mockDevice, mockArray](mockBackend{})
	assert.Equal(t, []float64{0, 0, 0}, mockBackend{}.ToSlice(d.Zeros(testDevice, 3)))
	assert.Equal(t, []float64{1, 1}, mockBackend{}.ToSlice(d.Ones(testDevice, 2)))

	bd := BoolDerived[*mockDevice, mockBool, mockBoolBackend]{}
	assert.Equal(t, []bool{false, false}, mockBoolBackend{}.ToSlice(bd.Falses(testDevice, 2)))
	assert.Equal(t, []bool{true}, mockBoolBackend{}.ToSlice(bd.Trues(testDevice, 1)))
}

func TestBoolTensor(t *testing.T) {
	arr := mockBoolBackend{}.FromSlice(testDevice, []bool{true, false, false, true})

	_, err := NewBool[[2]int, *mockDevice, mockBool, mockBoolBackend](arr, NewShape([2]int{3, 3}))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	b, err := NewBool[[2]int, *mockDevice, mockBool, mockBoolBackend](arr, NewShape([2]int{2, 2}))
	require.NoError(t, err)
	assert.Equal(t, "Tensor[bool][2 2] on mock", b.String())

	neg := b.Neg()
	assert.Equal(t, []bool{false, true, true, false}, neg.Data())
	assert.Equal(t, []bool{true, false, false, true}, b.Data())

	b.NegInPlace()
	assert.Equal(t, neg.Data(), b.Data())

	b.Reshape(NewShape([2]int{1, 4}))
	assert.Equal(t, [2]int{1, 4}, b.Shape().Dims())
	assert.Same(t, testDevice, b.Device())
}
