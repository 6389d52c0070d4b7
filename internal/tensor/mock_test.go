package tensor

import (
	"fmt"
	"math"
	"sync/atomic"
)

// mockDevice is the device of mockBackend. Each construction gets a new id.
type mockDevice struct {
	id int64
}

var (
	mockDevicesCreated  atomic.Int64
	mockInPlaceCalls    atomic.Int64
	mockOutOfPlaceCalls atomic.Int64
)

// mockArray is a host slice tagged with its device.
type mockArray struct {
	data []float64
	dev  *mockDevice
}

func (a mockArray) Clone() mockArray {
	return mockArray{data: append([]float64(nil), a.data...), dev: a.dev}
}

func (a mockArray) Device() *mockDevice {
	return a.dev
}

func (a mockArray) String() string {
	return fmt.Sprintf("mock%v", a.data)
}

// Verify that mockBackend implements the float contract.
var _ Real[float64, mockArray, *mockDevice] = mockBackend{}

// mockBackend is a simple backend for testing.
// It implements all operations naively for correctness verification.
type mockBackend struct{}

func (mockBackend) Name() string {
	return "mock"
}

func (mockBackend) DefaultDevice() *mockDevice {
	return &mockDevice{id: mockDevicesCreated.Add(1)}
}

func (mockBackend) FromSlice(dev *mockDevice, data []float64) mockArray {
	return mockArray{data: append([]float64(nil), data...), dev: dev}
}

func (mockBackend) Full(dev *mockDevice, count int, value float64) mockArray {
	data := make([]float64, count)
	for i := range data {
		data[i] = value
	}
	return mockArray{data: data, dev: dev}
}

func (mockBackend) ToSlice(a mockArray) []float64 {
	return append([]float64(nil), a.data...)
}

func (mockBackend) Len(a mockArray) int {
	return len(a.data)
}

func (m mockBackend) Add(lhs, rhs View[mockArray]) mockArray {
	return m.elementWise(lhs, rhs, func(x, y float64) float64 { return x + y })
}

func (m mockBackend) Sub(lhs, rhs View[mockArray]) mockArray {
	return m.elementWise(lhs, rhs, func(x, y float64) float64 { return x - y })
}

func (m mockBackend) Mul(lhs, rhs View[mockArray]) mockArray {
	return m.elementWise(lhs, rhs, func(x, y float64) float64 { return x * y })
}

func (m mockBackend) Div(lhs, rhs View[mockArray]) mockArray {
	return m.elementWise(lhs, rhs, func(x, y float64) float64 { return x / y })
}

func (m mockBackend) Min(lhs, rhs View[mockArray]) mockArray {
	return m.elementWise(lhs, rhs, math.Min)
}

func (m mockBackend) Max(lhs, rhs View[mockArray]) mockArray {
	return m.elementWise(lhs, rhs, math.Max)
}

func (m mockBackend) AddScalar(lhs View[mockArray], rhs float64) mockArray {
	return m.unary(lhs, func(x float64) float64 { return x + rhs })
}

func (m mockBackend) SubScalar(lhs View[mockArray], rhs float64) mockArray {
	return m.unary(lhs, func(x float64) float64 { return x - rhs })
}

func (m mockBackend) MulScalar(lhs View[mockArray], rhs float64) mockArray {
	return m.unary(lhs, func(x float64) float64 { return x * rhs })
}

func (m mockBackend) DivScalar(lhs View[mockArray], rhs float64) mockArray {
	return m.unary(lhs, func(x float64) float64 { return x / rhs })
}

func (m mockBackend) MinScalar(lhs View[mockArray], rhs float64) mockArray {
	return m.unary(lhs, func(x float64) float64 { return math.Min(x, rhs) })
}

func (m mockBackend) MaxScalar(lhs View[mockArray], rhs float64) mockArray {
	return m.unary(lhs, func(x float64) float64 { return math.Max(x, rhs) })
}

func (m mockBackend) PowUScalar(x View[mockArray], n uint32) mockArray {
	return m.unary(x, func(v float64) float64 { return math.Pow(v, float64(n)) })
}

func (m mockBackend) PowFScalar(x View[mockArray], p float64) mockArray {
	return m.unary(x, func(v float64) float64 { return math.Pow(v, p) })
}

func (m mockBackend) Erf(x View[mockArray]) mockArray {
	return m.unary(x, math.Erf)
}

func (mockBackend) MatMul(lhs, rhs View[mockArray]) mockArray {
	mockOutOfPlaceCalls.Add(1)
	CheckRank("matmul", lhs.Dims, 2)
	CheckRank("matmul", rhs.Dims, 2)
	m, k, n := lhs.Dims[0], lhs.Dims[1], rhs.Dims[1]
	out := make([]float64, m*n)
	for i := range m {
		for j := range n {
			var sum float64
			for p := range k {
				sum += lhs.Array.data[i*k+p] * rhs.Array.data[p*n+j]
			}
			out[i*n+j] = sum
		}
	}
	return mockArray{data: out, dev: lhs.Array.dev}
}

func (mockBackend) unary(x View[mockArray], f func(float64) float64) mockArray {
	mockOutOfPlaceCalls.Add(1)
	out := make([]float64, len(x.Array.data))
	for i, v := range x.Array.data {
		out[i] = f(v)
	}
	return mockArray{data: out, dev: x.Array.dev}
}

// elementWise performs element-wise operations with broadcasting.
func (mockBackend) elementWise(lhs, rhs View[mockArray], op func(float64, float64) float64) mockArray {
	mockOutOfPlaceCalls.Add(1)
	outDims, err := BroadcastDims(lhs.Dims, rhs.Dims)
	if err != nil {
		panic(err)
	}

	n := 1
	for _, d := range outDims {
		n *= d
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = op(lhs.Array.data[broadcastIndex(i, outDims, lhs.Dims)], rhs.Array.data[broadcastIndex(i, outDims, rhs.Dims)])
	}
	return mockArray{data: out, dev: lhs.Array.dev}
}

// broadcastIndex maps a flat index in outDims to the flat index in dims,
// pinning size-1 axes to 0.
func broadcastIndex(flat int, outDims, dims []int) int {
	idx, stride := 0, 1
	for i := len(outDims) - 1; i >= 0; i-- {
		coord := flat % outDims[i]
		flat /= outDims[i]
		if dims[i] != 1 {
			idx += coord * stride
		}
		stride *= dims[i]
	}
	return idx
}

// inPlaceBackend overrides the in-place hooks for same-shape operands and
// counts how often they fire.
type inPlaceBackend struct {
	mockBackend
}

var _ BinaryInPlacer[mockArray] = inPlaceBackend{}

func (inPlaceBackend) BinaryInPlace(op Op, lhs Mut[mockArray], rhs View[mockArray]) bool {
	if op != OpAdd || len(lhs.Array.data) != len(rhs.Array.data) {
		return false
	}
	mockInPlaceCalls.Add(1)
	for i := range lhs.Array.data {
		lhs.Array.data[i] += rhs.Array.data[i]
	}
	return true
}

func (inPlaceBackend) UnaryInPlace(op Op, x Mut[mockArray]) bool {
	if op != OpRelu {
		return false
	}
	mockInPlaceCalls.Add(1)
	for i, v := range x.Array.data {
		x.Array.data[i] = math.Max(v, 0)
	}
	return true
}

// recordingBackend runs every in-place hook directly on the lhs buffer and
// records the ops it handled, in order.
type recordingBackend struct {
	mockBackend
}

var recordedInPlace []Op

var (
	_ BinaryInPlacer[mockArray]          = recordingBackend{}
	_ ScalarInPlacer[float64, mockArray] = recordingBackend{}
	_ UnaryInPlacer[mockArray]           = recordingBackend{}
)

var recordedFuncs = map[Op]func(x, y float64) float64{
	OpAdd: func(x, y float64) float64 { return x + y },
	OpSub: func(x, y float64) float64 { return x - y },
	OpMul: func(x, y float64) float64 { return x * y },
	OpDiv: func(x, y float64) float64 { return x / y },
	OpMin: math.Min,
	OpMax: math.Max,
}

func (recordingBackend) BinaryInPlace(op Op, lhs Mut[mockArray], rhs View[mockArray]) bool {
	f, ok := recordedFuncs[op]
	if !ok {
		return false
	}
	recordedInPlace = append(recordedInPlace, op)
	data := lhs.Array.data
	for i := range data {
		data[i] = f(data[i], rhs.Array.data[broadcastIndex(i, lhs.Dims, rhs.Dims)])
	}
	return true
}

func (recordingBackend) ScalarInPlace(op Op, lhs Mut[mockArray], rhs float64) bool {
	f, ok := recordedFuncs[op]
	if !ok {
		return false
	}
	recordedInPlace = append(recordedInPlace, op)
	for i, v := range lhs.Array.data {
		lhs.Array.data[i] = f(v, rhs)
	}
	return true
}

func (recordingBackend) UnaryInPlace(op Op, x Mut[mockArray]) bool {
	var f func(float64) float64
	switch op {
	case OpErf:
		f = math.Erf
	case OpRelu:
		f = func(v float64) float64 { return math.Max(v, 0) }
	default:
		return false
	}
	recordedInPlace = append(recordedInPlace, op)
	for i, v := range x.Array.data {
		x.Array.data[i] = f(v)
	}
	return true
}

// mockBool is the boolean counterpart of mockArray.
type mockBool struct {
	data []bool
	dev  *mockDevice
}

func (a mockBool) Clone() mockBool {
	return mockBool{data: append([]bool(nil), a.data...), dev: a.dev}
}

func (a mockBool) Device() *mockDevice {
	return a.dev
}

func (a mockBool) String() string {
	return fmt.Sprintf("mock%v", a.data)
}

type mockBoolBackend struct{}

var _ BoolOps[mockBool, *mockDevice] = mockBoolBackend{}

func (mockBoolBackend) Name() string {
	return "mock"
}

func (mockBoolBackend) DefaultDevice() *mockDevice {
	return &mockDevice{id: mockDevicesCreated.Add(1)}
}

func (mockBoolBackend) FromSlice(dev *mockDevice, data []bool) mockBool {
	return mockBool{data: append([]bool(nil), data...), dev: dev}
}

func (mockBoolBackend) Full(dev *mockDevice, count int, value bool) mockBool {
	data := make([]bool, count)
	for i := range data {
		data[i] = value
	}
	return mockBool{data: data, dev: dev}
}

func (mockBoolBackend) ToSlice(a mockBool) []bool {
	return append([]bool(nil), a.data...)
}

func (mockBoolBackend) Len(a mockBool) int {
	return len(a.data)
}

func (mockBoolBackend) Neg(x View[mockBool]) mockBool {
	out := make([]bool, len(x.Array.data))
	for i, v := range x.Array.data {
		out[i] = !v
	}
	return mockBool{data: out, dev: x.Array.dev}
}

type (
	mockTensor[D Dims]     = Tensor[float64, D, *mockDevice, mockArray, mockBackend]
	hookTensor[D Dims]     = Tensor[float64, D, *mockDevice, mockArray, inPlaceBackend]
	recTensor[D Dims]      = Tensor[float64, D, *mockDevice, mockArray, recordingBackend]
	mockBoolTensor[D Dims] = BoolTensor[D, *mockDevice, mockBool, mockBoolBackend]
)

var testDevice = &mockDevice{id: -1}

func newMock[D Dims](dims D, data ...float64) *mockTensor[D] {
	t, err := New[float64, D, *mockDevice, mockArray, mockBackend](mockBackend{}.FromSlice(testDevice, data), NewShape(dims))
	if err != nil {
		panic(err)
	}
	return t
}

func newHook[D Dims](dims D, data ...float64) *hookTensor[D] {
	t, err := New[float64, D, *mockDevice, mockArray, inPlaceBackend](inPlaceBackend{}.FromSlice(testDevice, data), NewShape(dims))
	if err != nil {
		panic(err)
	}
	return t
}

func newRecording[D Dims](dims D, data ...float64) *recTensor[D] {
	t, err := New[float64, D, *mockDevice, mockArray, recordingBackend](recordingBackend{}.FromSlice(testDevice, data), NewShape(dims))
	if err != nil {
		panic(err)
	}
	return t
}
