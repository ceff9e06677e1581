package emath

// A sparse matrix, built up one (row, col, value) entry at a time. Used
// for least squares systems where each row only touches a handful of
// columns, so a dense matrix would be mostly zeros.

import(
	"fmt"
	"sort"
)

type Triplet struct {
	Row, Col int
	Val      float64
}

// Triplets accumulates entries in any order. Duplicate (row,col)
// entries are summed when the rows are compressed.
type Triplets struct {
	rows, cols int
	entries    []Triplet
}

func NewTriplets(rows, cols int) *Triplets {
	return &Triplets{rows: rows, cols: cols}
}

// Reserve grows the backing store, when the caller knows roughly how
// many entries are coming.
func (t *Triplets)Reserve(n int) {
	if cap(t.entries)-len(t.entries) < n {
		e := make([]Triplet, len(t.entries), len(t.entries)+n)
		copy(e, t.entries)
		t.entries = e
	}
}

func (t *Triplets)Dims() (int, int) { return t.rows, t.cols }
func (t *Triplets)NNZ() int         { return len(t.entries) }

// Add appends an entry; zeros are dropped.
func (t *Triplets)Add(row, col int, val float64) {
	if row < 0 || row >= t.rows || col < 0 || col >= t.cols {
		panic(fmt.Sprintf("emath.Triplets: (%d,%d) outside %dx%d", row, col, t.rows, t.cols))
	}
	if val == 0 {
		return
	}
	t.entries = append(t.entries, Triplet{row, col, val})
}

// A SparseRow is the non-zero entries of a single row, ascending by column.
type SparseRow struct {
	Cols []int
	Vals []float64
}

// CompressRows sorts the entries and returns one SparseRow per matrix
// row (empty rows included), with duplicates summed.
func (t *Triplets)CompressRows() []SparseRow {
	sorted := make([]Triplet, len(t.entries))
	copy(sorted, t.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row < sorted[j].Row
		}
		return sorted[i].Col < sorted[j].Col
	})

	rows := make([]SparseRow, t.rows)
	for _, e := range sorted {
		r := &rows[e.Row]
		if n := len(r.Cols); n > 0 && r.Cols[n-1] == e.Col {
			r.Vals[n-1] += e.Val
			continue
		}
		r.Cols = append(r.Cols, e.Col)
		r.Vals = append(r.Vals, e.Val)
	}
	return rows
}

// MulVec computes A·x into a new slice of length rows.
func (t *Triplets)MulVec(x []float64) []float64 {
	if len(x) != t.cols {
		panic(fmt.Sprintf("emath.Triplets: MulVec len %d, want %d", len(x), t.cols))
	}
	out := make([]float64, t.rows)
	for _, e := range t.entries {
		out[e.Row] += e.Val * x[e.Col]
	}
	return out
}

// Dense expands the matrix into row-major storage. Only sensible for
// small systems, e.g. when cross checking a sparse solver.
func (t *Triplets)Dense() []float64 {
	out := make([]float64, t.rows*t.cols)
	for _, e := range t.entries {
		out[e.Row*t.cols+e.Col] += e.Val
	}
	return out
}
