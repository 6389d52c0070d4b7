package cpu

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/tensorkit/internal/parallel"
	"github.com/born-ml/tensorkit/internal/tensor"
)

// MatMul performs matrix multiplication: (M, K) @ (K, N) -> (M, N).
// float64 goes through gonum/mat, float32 through blas32 SGEMM, and the
// integer types through a row-parallel naive loop.
// It panics with a *tensor.RankError for operands that are not rank 2 and a
// *tensor.ShapeError when the inner dimensions differ.
func (Backend[E]) MatMul(lhs, rhs tensor.View[*Array[E]]) *Array[E] {
	tensor.CheckRank("matmul", lhs.Dims, 2)
	tensor.CheckRank("matmul", rhs.Dims, 2)

	m, k := lhs.Dims[0], lhs.Dims[1]
	kAlt, n := rhs.Dims[0], rhs.Dims[1]
	if k != kAlt {
		panic(&tensor.ShapeError{
			Op:  "matmul",
			Lhs: []int{m, k},
			Rhs: []int{kAlt, n},
			Dim: 1,
			Msg: "inner dimensions differ",
		})
	}

	dev := lhs.Array.dev
	out := newArray[E](dev, m*n)
	if m == 0 || n == 0 || k == 0 {
		return out
	}

	c, a, b := out.data(), lhs.Array.data(), rhs.Array.data()
	switch c := any(c).(type) {
	case []float64:
		matmulFloat64(c, any(a).([]float64), any(b).([]float64), m, k, n)
	case []float32:
		matmulFloat32(c, any(a).([]float32), any(b).([]float32), m, k, n)
	default:
		matmulNaive(out.data(), a, b, m, k, n, dev.cfg)
	}
	return out
}

func matmulFloat64(c, a, b []float64, m, k, n int) {
	dst := mat.NewDense(m, n, c)
	dst.Mul(mat.NewDense(m, k, a), mat.NewDense(k, n, b))
}

func matmulFloat32(c, a, b []float32, m, k, n int) {
	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1,
		blas32.General{Rows: m, Cols: k, Stride: k, Data: a},
		blas32.General{Rows: k, Cols: n, Stride: n, Data: b},
		0,
		blas32.General{Rows: m, Cols: n, Stride: n, Data: c})
}

// matmulNaive computes C[i,j] = sum_k A[i,k] * B[k,j], one goroutine per chunk of rows.
func matmulNaive[E tensor.Element](c, a, b []E, m, k, n int, cfg parallel.Config) {
	parallel.ForRows(m, k*n, func(i int) {
		row := c[i*n : (i+1)*n]
		for p := range k {
			av := a[i*k+p]
			br := b[p*n : (p+1)*n]
			for j := range n {
				row[j] += av * br[j]
			}
		}
	}, cfg)
}
