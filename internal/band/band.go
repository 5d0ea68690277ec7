// Package band maps rows and columns of a dynamic-programming matrix to a
// diagonal band and back.
//
// A band is the pair (L, U) of diagonal offsets such that cell (i, j) is
// in-band iff L <= j-i <= U. Geometry answers, for a given row, which column
// range is valid, and translates (i, j) into an offset inside a rolling
// buffer of width U-L+1.
package band

import "errors"

// ErrBandExcludesEnd is returned when (L, U) does not admit the end cell
// (m, n): the band never reaches the bottom-right corner of the matrix.
var ErrBandExcludesEnd = errors.New("band: (L, U) excludes end cell (m, n)")

// ErrEmptyBand is returned when some row in [0, n] has no valid column,
// i.e. j_lo(i) > j_hi(i).
var ErrEmptyBand = errors.New("band: row has no valid columns")

// Geometry describes a diagonal band over an (m+1) x (n+1) matrix, where m
// is the horizontal sequence length (columns) and n is the vertical
// sequence length (rows).
type Geometry struct {
	m, n int
	l, u int
}

// New builds a Geometry for an m-column, n-row matrix restricted to the
// diagonal band [L, U]. It fails with ErrBandExcludesEnd when the band does
// not reach (m, n), and with ErrEmptyBand when any row in [0, n] would have
// no valid column.
func New(m, n, l, u int) (*Geometry, error) {
	if l > u {
		return nil, ErrEmptyBand
	}
	if d := m - n; d < l || d > u {
		return nil, ErrBandExcludesEnd
	}
	g := &Geometry{m: m, n: n, l: l, u: u}
	for i := 0; i <= n; i++ {
		lo, hi := g.Row(i)
		if lo > hi {
			return nil, ErrEmptyBand
		}
	}
	return g, nil
}

// Row returns the inclusive valid column range [lo, hi] for row i, i.e. the
// intersection of [0, m] with [i+L, i+U].
func (g *Geometry) Row(i int) (lo, hi int) {
	lo = i + g.l
	if lo < 0 {
		lo = 0
	}
	hi = i + g.u
	if hi > g.m {
		hi = g.m
	}
	return lo, hi
}

// Width reports the number of diagonals in the band, U-L+1. This is the
// width of the rolling buffer a driver must allocate per row.
func (g *Geometry) Width() int {
	return g.u - g.l + 1
}

// Local translates absolute column j at row i into its offset within a
// rolling buffer of width Width(). Callers are responsible for checking
// j against Row(i) first; Local does not bounds-check.
func (g *Geometry) Local(i, j int) int {
	return j - (i + g.l)
}

// InBand reports whether (i, j) lies inside the band, independent of the
// matrix bounds.
func (g *Geometry) InBand(i, j int) bool {
	d := j - i
	return d >= g.l && d <= g.u
}

// M returns the horizontal sequence length (column count) this geometry
// was built for.
func (g *Geometry) M() int { return g.m }

// N returns the vertical sequence length (row count) this geometry was
// built for.
func (g *Geometry) N() int { return g.n }

// L returns the lower diagonal offset.
func (g *Geometry) L() int { return g.l }

// U returns the upper diagonal offset.
func (g *Geometry) U() int { return g.u }

// Widen returns a new Geometry over the same matrix with the band relaxed
// by dl on the lower side and du on the upper side (dl, du >= 0). Used by
// the band-monotonicity property tests; the batch driver does not call it,
// since every lane of a batch shares one band.
func (g *Geometry) Widen(dl, du int) (*Geometry, error) {
	return New(g.m, g.n, g.l-dl, g.u+du)
}
