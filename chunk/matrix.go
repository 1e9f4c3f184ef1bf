package chunk

import (
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/ddc/utils"
)

// AsDense returns a *mat.Dense sharing storage with a rank-2 host view whose
// second tag has unit stride. Rows follow the first tag.
func AsDense(s ChunkSpan[float64]) *mat.Dense {
	utils.Assert(s.rank == 2, "AsDense needs a rank-2 view, got %v", s.Tags())
	utils.Assert(s.st.onHost(), "AsDense on %s storage", s.st.space.Name())
	rows, cols := s.count[0], s.count[1]
	utils.Assert(rows > 0 && cols > 0, "AsDense on empty view %v", s.sd)
	utils.Assert(s.strides[1] == 1 || cols == 1, "AsDense needs unit column stride, got %d", s.strides[1])
	stride := s.strides[0]
	if rows == 1 {
		stride = cols
	}
	utils.Assert(stride >= cols, "AsDense rows overlap: stride %d < %d columns", stride, cols)
	var m mat.Dense
	m.SetRawMatrix(blas64.General{
		Rows:   rows,
		Cols:   cols,
		Stride: stride,
		Data:   s.st.host[s.base : s.base+(rows-1)*stride+cols],
	})
	return &m
}

// CopyFromMatrix writes m into a rank-2 host view, row i following the first
// tag and column j the second
func CopyFromMatrix(dst ChunkSpan[float64], m mat.Matrix) {
	utils.Assert(dst.rank == 2, "CopyFromMatrix needs a rank-2 view, got %v", dst.Tags())
	utils.Assert(!dst.readOnly, "CopyFromMatrix into a read-only view")
	utils.Assert(dst.st.onHost(), "CopyFromMatrix on %s storage", dst.st.space.Name())
	r, c := m.Dims()
	utils.Assert(r == dst.count[0] && c == dst.count[1], "matrix %dx%d does not fit view %v", r, c, dst.sd)
	for i := 0; i < r; i++ {
		row := dst.base + i*dst.strides[0]
		for j := 0; j < c; j++ {
			dst.st.host[row+j*dst.strides[1]] = m.At(i, j)
		}
	}
}
