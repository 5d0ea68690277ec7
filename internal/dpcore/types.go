// Package dpcore implements the banded dynamic-programming sweep: the
// per-cell recurrences (linear and Gotoh affine) and the scalar driver that
// sweeps a band, applies free-end-gap boundary policies, and records a
// direction matrix when traceback is requested.
package dpcore

import (
	"errors"

	"github.com/genalign/bandkit/internal/band"
	"github.com/genalign/bandkit/internal/scoring"
)

// ErrScoreOverflow is returned when the forward sweep produces a value
// outside the range this driver considers trustworthy for the declared
// score type. On 64-bit platforms this only fires for pathologically large
// caller-supplied scoring schemes; the guard exists because the contract
// requires it, not because ordinary inputs are at risk.
var ErrScoreOverflow = errors.New("dpcore: score overflow detected during sweep")

// ErrCancelled is returned when the caller's context is done before the
// sweep completes.
var ErrCancelled = errors.New("dpcore: sweep cancelled")

// negInf is the out-of-band sentinel. It is far enough from zero that one
// more addition of any realistic gap or substitution cost cannot wrap it
// into a misleadingly high score, but far enough from MinInt that the sum
// itself cannot underflow.
const negInf = -(1 << 40)

const overflowThreshold = 1 << 40

// FreeEndGaps selects which matrix borders carry no gap penalty (top/left)
// and which borders are eligible end cells for traceback/score extraction
// (right/bottom).
type FreeEndGaps struct {
	Top    bool
	Left   bool
	Right  bool
	Bottom bool
}

// Plan bundles the inputs a single sweep needs: the band geometry, the
// scoring provider, and the free-end-gap policy.
type Plan struct {
	Geo    *band.Geometry
	Scorer scoring.Scorer
	Flags  FreeEndGaps
}

// Result is everything a sweep produces. CornerScore is M at (n, m); LastRow
// and LastCol are only populated when Flags.Bottom / Flags.Right requested
// them, since keeping them costs O(m) / O(n) extra memory the sweep
// otherwise avoids.
type Result struct {
	CornerScore int
	LastRow     []int // M(n, ·) over the band, indexed by absolute column j; negInf where out of band.
	LastCol     []int // M(·, m) over the band, indexed by absolute row i; negInf where out of band.
	Dir         *Directions
	Partial     bool
}
