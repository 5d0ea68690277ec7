// Package scoring supplies symbol-pair substitution scores and gap costs to
// the alignment kernel, plus a saturation-aware broadcast into 16-bit SIMD
// lanes.
package scoring

import "fmt"

// Scorer is the capability set the alignment kernel requires from a
// scoring provider: a substitution score for a symbol pair and the gap-open
// and gap-extend penalties. Gap costs are expected to be <= 0.
type Scorer interface {
	Score(a, b byte) int
	GapOpen() int
	GapExtend() int
}

// IsLinear reports whether s charges the same cost to open and extend a
// gap. This predicate governs dispatch between the linear and affine cell
// kernels at the facade.
func IsLinear(s Scorer) bool {
	return s.GapOpen() == s.GapExtend()
}

// Simple is a match/mismatch scorer with independent open and extend gap
// penalties. Set GapOpen == GapExtend for a linear gap model.
type Simple struct {
	Match         int
	Mismatch      int
	GapOpenCost   int
	GapExtendCost int
}

// NewSimple builds a Simple scorer, validating that the match score is
// positive and the mismatch/gap costs are non-positive, matching the
// convention every scoring scheme in this package follows.
func NewSimple(match, mismatch, gapOpen, gapExtend int) (*Simple, error) {
	if match <= 0 {
		return nil, fmt.Errorf("scoring: match score must be positive, got %d", match)
	}
	if mismatch > 0 || gapOpen > 0 || gapExtend > 0 {
		return nil, fmt.Errorf("scoring: mismatch/gap costs must be <= 0, got mismatch=%d gapOpen=%d gapExtend=%d", mismatch, gapOpen, gapExtend)
	}
	return &Simple{Match: match, Mismatch: mismatch, GapOpenCost: gapOpen, GapExtendCost: gapExtend}, nil
}

// NewLinear is NewSimple with a single gap cost used for both open and
// extend.
func NewLinear(match, mismatch, gap int) (*Simple, error) {
	return NewSimple(match, mismatch, gap, gap)
}

func (s *Simple) Score(a, b byte) int {
	if a == b {
		return s.Match
	}
	return s.Mismatch
}

func (s *Simple) GapOpen() int   { return s.GapOpenCost }
func (s *Simple) GapExtend() int { return s.GapExtendCost }

// DenseMatrix is a flat substitution-matrix scorer for a fixed alphabet,
// grounded on a protein-style 20x20 (or smaller) score table addressed
// through a position lookup keyed by symbol byte value. Symbols outside
// the configured alphabet cause Score to panic, mirroring the convention
// that alphabet validation happens once at construction, not per cell in
// the hot loop.
type DenseMatrix struct {
	alphabet      string
	pos           [256]int8
	table         []int
	gapOpenCost   int
	gapExtendCost int
}

// NewDenseMatrix builds a DenseMatrix over alphabet (its symbols become the
// row/column order of table, which must be len(alphabet)^2 long, row-major).
func NewDenseMatrix(alphabet string, table []int, gapOpen, gapExtend int) (*DenseMatrix, error) {
	n := len(alphabet)
	if n == 0 || n*n != len(table) {
		return nil, fmt.Errorf("scoring: table length %d does not match alphabet length %d", len(table), n)
	}
	if gapOpen > 0 || gapExtend > 0 {
		return nil, fmt.Errorf("scoring: gap costs must be <= 0, got open=%d extend=%d", gapOpen, gapExtend)
	}
	m := &DenseMatrix{alphabet: alphabet, table: append([]int(nil), table...), gapOpenCost: gapOpen, gapExtendCost: gapExtend}
	for i := range m.pos {
		m.pos[i] = -1
	}
	for i, r := range alphabet {
		m.pos[byte(r)] = int8(i)
	}
	return m, nil
}

// Score returns the substitution score for a, b. Both must be symbols of
// the alphabet the matrix was built with; any other byte panics.
func (m *DenseMatrix) Score(a, b byte) int {
	pa, pb := m.pos[a], m.pos[b]
	if pa < 0 || pb < 0 {
		panic(fmt.Sprintf("scoring: symbol outside alphabet %q", m.alphabet))
	}
	n := len(m.alphabet)
	return m.table[int(pa)*n+int(pb)]
}

func (m *DenseMatrix) GapOpen() int   { return m.gapOpenCost }
func (m *DenseMatrix) GapExtend() int { return m.gapExtendCost }

// Broadcast16 reports the saturated 16-bit lane values for s's gap costs,
// plus whether either of them already exceeds what an int16 lane can hold.
// Substitution scores are not included. The facade consults Saturates before
// choosing the SIMD driver for a batch: a scorer that already saturates a
// single broadcast has no hope of staying in-range across an accumulating
// sweep.
type Broadcast16 struct {
	GapOpen   int16
	GapExtend int16
	Saturates bool
}

const (
	lane16Max = 1<<15 - 1
	lane16Min = -(1 << 15)
)

// NewBroadcast16 narrows s's gap costs into int16 lanes, flagging
// saturation if either value overflows the lane width.
func NewBroadcast16(s Scorer) Broadcast16 {
	open, sat1 := clampLane(s.GapOpen())
	extend, sat2 := clampLane(s.GapExtend())
	return Broadcast16{GapOpen: open, GapExtend: extend, Saturates: sat1 || sat2}
}

func clampLane(v int) (int16, bool) {
	if v > lane16Max || v < lane16Min {
		if v > lane16Max {
			return lane16Max, true
		}
		return lane16Min, true
	}
	return int16(v), false
}
