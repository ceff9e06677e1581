package crf

import(
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/abworrall/hdr-crf/pkg/emath"
)

// Singular values below this fraction of the largest are treated as zero.
const svdRcond = 1e-12

// A system is the overdetermined linear system A·x = b whose least
// squares solution gives the response curve and log irradiances. The
// unknowns are x = [g(0) .. g(n-1), lE(0) .. lE(N-1)].
//
// Rows are laid out as:
//   N·P data rows       w·g[z] - w·lE[i] = w·B[j]
//   1 anchor row        g[mid] = 0
//   n-2 smoothness rows λ·w(k)·(g[k-1] - 2g[k] + g[k+1]) = 0
type system struct {
	Domain
	n, N      int           // curve length, number of samples
	a         *emath.Triplets
	rhs       []float64

	nData     int           // how many data rows
	nZeroW    int           // how many data rows have zero weight
}

// anchorWeight scales the anchor row. The data and smoothness rows are
// unchanged by adding a constant to every g and lE, so the anchor is
// always met exactly; its scale only affects conditioning.
func anchorWeight(w Weighting, smoothness float64) float64 {
	return math.Max(1, math.Max(1, smoothness)*emath.MaxF64(w.W))
}

func newSystem(z [][]int, b []float64, smoothness float64, w Weighting) *system {
	n, N, P := w.Len(), len(z), len(b)
	nRows := N*P + 1 + (n - 2)

	s := &system{
		Domain: w.Domain,
		n:      n,
		N:      N,
		a:      emath.NewTriplets(nRows, n+N),
		rhs:    make([]float64, nRows),
	}
	s.a.Reserve(2*N*P + 1 + 3*(n-2))

	k := 0
	for i := 0; i < N; i++ {
		for j := 0; j < P; j++ {
			wij := w.At(z[i][j])
			if wij == 0 {
				s.nZeroW++
			}
			s.a.Add(k, w.Index(z[i][j]), wij)
			s.a.Add(k, n+i, -wij)
			s.rhs[k] = wij * b[j]
			k++
		}
	}
	s.nData = k

	s.a.Add(k, w.MidIndex(), anchorWeight(w, smoothness))
	k++

	for i := 1; i < n-1; i++ {
		ls := smoothness * w.W[i]
		s.a.Add(k, i-1, ls)
		s.a.Add(k, i,   -2*ls)
		s.a.Add(k, i+1, ls)
		k++
	}

	return s
}

func (s *system)String() string {
	r, c := s.a.Dims()
	return fmt.Sprintf("system[%dx%d, nnz=%d, domain %s, %d/%d zero-weight observations]",
		r, c, s.a.NNZ(), s.Domain, s.nZeroW, s.nData)
}

// addTo accumulates v into column col of a short sparse row.
func addTo(r *emath.SparseRow, col int, v float64) {
	for i, c := range r.Cols {
		if c == col {
			r.Vals[i] += v
			return
		}
	}
	r.Cols = append(r.Cols, col)
	r.Vals = append(r.Vals, v)
}

// solve finds the least squares solution. Each row touches at most one
// lE column, so the lE block of the normal equations is diagonal and
// can be eliminated up front; that leaves an n×n symmetric system in g
// (the Schur complement), which is solved with a rank revealing SVD.
// lE then follows by back substitution. Memory is O(n² + N·P), never
// O((N·P+n)·(n+N)).
func (s *system)solve() (g, lE []float64, err error) {
	n, N := s.n, s.N
	rows := s.a.CompressRows()

	S   := make([]float64, n*n)       // normal matrix for g, before elimination
	rg  := make([]float64, n)         // Aᵀb restricted to g
	d   := make([]float64, N)         // diagonal of the lE block
	rl  := make([]float64, N)         // Aᵀb restricted to lE
	cr  := make([]emath.SparseRow, N) // the g-lE cross terms, per sample

	for ri, row := range rows {
		local, aLocal := -1, 0.0
		nG := 0
		for p, c := range row.Cols {
			if c < n {
				nG = p + 1
				continue
			}
			if local >= 0 {
				return nil, nil, fmt.Errorf("row %d touches more than one sample: %w", ri, ErrNumericalFailure)
			}
			local, aLocal = c-n, row.Vals[p]
		}

		bi := s.rhs[ri]
		for p := 0; p < nG; p++ {
			cp, vp := row.Cols[p], row.Vals[p]
			for q := 0; q < nG; q++ {
				S[cp*n+row.Cols[q]] += vp * row.Vals[q]
			}
			rg[cp] += vp * bi
		}

		if local >= 0 {
			d[local]  += aLocal * aLocal
			rl[local] += aLocal * bi
			for p := 0; p < nG; p++ {
				addTo(&cr[local], row.Cols[p], aLocal*row.Vals[p])
			}
		}
	}

	for l := 0; l < N; l++ {
		if d[l] == 0 {
			continue
		}
		c := cr[l]
		for p := range c.Cols {
			for q := range c.Cols {
				S[c.Cols[p]*n+c.Cols[q]] -= c.Vals[p] * c.Vals[q] / d[l]
			}
			rg[c.Cols[p]] -= c.Vals[p] * rl[l] / d[l]
		}
	}

	if i := emath.AllFinite(S); i >= 0 {
		return nil, nil, fmt.Errorf("normal matrix entry (%d,%d) not finite: %w", i/n, i%n, ErrNumericalFailure)
	}

	var svd mat.SVD
	if ok := svd.Factorize(mat.NewSymDense(n, S), mat.SVDThin); !ok {
		return nil, nil, fmt.Errorf("SVD did not converge: %w", ErrNumericalFailure)
	}
	rank := svd.Rank(svdRcond)
	if rank == 0 {
		return nil, nil, fmt.Errorf("normal matrix has rank 0: %w", ErrNumericalFailure)
	}

	var gv mat.VecDense
	svd.SolveVecTo(&gv, mat.NewVecDense(n, rg), rank)

	// Pin the offset, so the anchor holds exactly rather than to within
	// solver precision; lE follows along via the back substitution.
	offset := gv.AtVec(s.MidIndex())
	g = make([]float64, n)
	for i := 0; i < n; i++ {
		g[i] = gv.AtVec(i) - offset
	}

	// A sample with no weighted observations is unconstrained; zero is
	// the minimum norm choice.
	lE = make([]float64, N)
	for l := 0; l < N; l++ {
		if d[l] == 0 {
			continue
		}
		v := rl[l]
		c := cr[l]
		for p := range c.Cols {
			v -= c.Vals[p] * g[c.Cols[p]]
		}
		lE[l] = v / d[l]
	}

	return g, lE, nil
}
