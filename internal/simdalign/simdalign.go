// Package simdalign packs independent alignments into lane-parallel int16
// sweeps, using the go-highway feature probe to size the lane width for the
// current CPU and falling back to a scalar loop wherever the lane-packed
// model does not (yet) cover a request: traceback, the Right/Bottom
// free-end-gap flags, saturated lanes, and any tail group smaller than one
// full lane width.
package simdalign

import (
	"context"

	"github.com/ajroetker/go-highway/hwy"

	"github.com/genalign/bandkit/internal/band"
	"github.com/genalign/bandkit/internal/dpcore"
	"github.com/genalign/bandkit/internal/scoring"
	"github.com/genalign/bandkit/internal/seqview"
)

// W is the detected SIMD lane width for int16, sized once at init from the
// go-highway feature probe. go-highway's own amd64/arm64 dispatch falls
// back to scalar mode when GOEXPERIMENT=simd is not enabled at build time,
// in which case hwy.HasSIMD() is false and W is 1 here, which degenerates
// RunBatch to the sequential per-pair scalar loop spec.md describes for
// platforms without SIMD.
var W int

func init() {
	if hwy.HasSIMD() {
		W = hwy.NumLanes[int16]()
	}
	if W < 1 {
		W = 1
	}
}

// Pair is one independent alignment request within a batch.
type Pair struct {
	SeqH seqview.View
	SeqV seqview.View
}

// Plan bundles the inputs every lane of a batch shares: one scoring
// scheme, one free-end-gap policy, and one band (L, U); only each pair's
// own sequence lengths differ from lane to lane.
type Plan struct {
	Scorer scoring.Scorer
	Flags  dpcore.FreeEndGaps
	L, U   int
}

// LaneResult is one pair's outcome. Geo/EndI/EndJ are populated for every
// lane the scalar driver ran, and Dirs only when the caller requested
// traceback (RunBatch always falls back to the scalar driver per pair in
// that case, so every lane gets its own direction matrix to walk). Lanes
// from the lane-packed sweep carry only Score and Saturated.
type LaneResult struct {
	Score      int
	Saturated  bool
	Geo        *band.Geometry
	Dirs       *dpcore.Directions
	EndI, EndJ int
}

// BatchResult is RunBatch's output: one LaneResult per input pair, in
// input order, plus whether the batch was cut short by cancellation.
type BatchResult struct {
	Lanes   []LaneResult
	Partial bool
}

const padSymbol byte = 0

// padScorer treats padSymbol as a wildcard scoring 0 against anything, so
// a lane padded past its true length accumulates no further score: gap
// costs are always <= 0, so the padded diagonal always ties or beats any
// gap continuation, and the fixed diag-first tie-break keeps choosing it.
// A lane's running score therefore freezes at the value it held at its
// true end cell without any separate masking step.
type padScorer struct {
	scoring.Scorer
}

func (p padScorer) Score(a, b byte) int {
	if a == padSymbol || b == padSymbol {
		return 0
	}
	return p.Scorer.Score(a, b)
}

// RunBatch sweeps pairs in lane-width groups. Traceback requests and the
// Right/Bottom free-end-gap flags fall back to the scalar driver per pair:
// their end-cell selection needs a full per-lane last row/column that the
// lane-packed sweep below does not track (see DESIGN.md). Any group
// smaller than a full lane width (the batch tail) is also dispatched
// through the scalar driver directly, per spec.
func RunBatch(ctx context.Context, pairs []Pair, plan Plan, needTrace bool) (BatchResult, error) {
	if needTrace || plan.Flags.Right || plan.Flags.Bottom || W <= 1 {
		return runScalar(ctx, pairs, plan, needTrace)
	}

	geos := make([]*band.Geometry, len(pairs))
	for i, p := range pairs {
		g, err := band.New(p.SeqH.Len(), p.SeqV.Len(), plan.L, plan.U)
		if err != nil {
			return BatchResult{}, err
		}
		geos[i] = g
	}

	lanes := make([]LaneResult, len(pairs))
	for start := 0; start < len(pairs); start += W {
		select {
		case <-ctx.Done():
			return BatchResult{Lanes: lanes[:start], Partial: true}, dpcore.ErrCancelled
		default:
		}

		end := start + W
		if end > len(pairs) {
			end = len(pairs)
		}
		group := pairs[start:end]
		groupGeos := geos[start:end]

		if len(group) < W {
			tail, err := runScalar(ctx, group, plan, false)
			if err != nil {
				return BatchResult{}, err
			}
			copy(lanes[start:end], tail.Lanes)
			continue
		}

		res, err := runGroup(group, groupGeos, plan)
		if err != nil {
			return BatchResult{}, err
		}
		for k, r := range res {
			if r.Saturated {
				retry, err := runScalarOne(ctx, group[k], groupGeos[k], plan)
				if err != nil {
					return BatchResult{}, err
				}
				r = retry
			}
			lanes[start+k] = r
		}
	}
	return BatchResult{Lanes: lanes}, nil
}

func runScalar(ctx context.Context, pairs []Pair, plan Plan, needTrace bool) (BatchResult, error) {
	lanes := make([]LaneResult, 0, len(pairs))
	for _, p := range pairs {
		select {
		case <-ctx.Done():
			return BatchResult{Lanes: lanes, Partial: true}, dpcore.ErrCancelled
		default:
		}
		geo, err := band.New(p.SeqH.Len(), p.SeqV.Len(), plan.L, plan.U)
		if err != nil {
			return BatchResult{}, err
		}
		r, err := runScalarWith(ctx, p, geo, plan, needTrace)
		if err != nil {
			return BatchResult{}, err
		}
		lanes = append(lanes, r)
	}
	return BatchResult{Lanes: lanes}, nil
}

func runScalarOne(ctx context.Context, p Pair, geo *band.Geometry, plan Plan) (LaneResult, error) {
	return runScalarWith(ctx, p, geo, plan, false)
}

func runScalarWith(ctx context.Context, p Pair, geo *band.Geometry, plan Plan, needTrace bool) (LaneResult, error) {
	dplan := dpcore.Plan{Geo: geo, Scorer: plan.Scorer, Flags: plan.Flags}
	res, err := dpcore.NewDriver().Run(ctx, p.SeqH, p.SeqV, dplan, needTrace)
	if err != nil {
		return LaneResult{}, err
	}
	endI, endJ, score := dpcore.ChooseEnd(res, plan.Flags, geo.M(), geo.N())
	return LaneResult{Score: score, Geo: geo, Dirs: res.Dir, EndI: endI, EndJ: endJ}, nil
}

const (
	negInf16 int16 = -32000
	satHi    int32 = 32000
	satLo    int32 = -32000
)

func newLaneRow(width, lanes int) []int16 {
	r := make([]int16, width*lanes)
	for i := range r {
		r[i] = negInf16
	}
	return r
}

func sat(v int32) (int16, bool) {
	if v > satHi {
		return int16(satHi), true
	}
	if v < satLo {
		return int16(satLo), true
	}
	return int16(v), false
}

func linearCell16(diagM, upM, leftM int16, pairScore, gap int) (int16, bool) {
	best := int32(diagM) + int32(pairScore)
	if v := int32(upM) + int32(gap); v > best {
		best = v
	}
	if v := int32(leftM) + int32(gap); v > best {
		best = v
	}
	return sat(best)
}

func affineCell16(diagM, upM, upH, leftM, leftV int16, pairScore, gapOpen, gapExtend int) (m, h, v int16, satM, satH, satV bool) {
	hOpen := int32(upM) + int32(gapOpen)
	hv := hOpen
	if hExt := int32(upH) + int32(gapExtend); hExt > hOpen {
		hv = hExt
	}
	vOpen := int32(leftM) + int32(gapOpen)
	vv := vOpen
	if vExt := int32(leftV) + int32(gapExtend); vExt > vOpen {
		vv = vExt
	}
	mv := int32(diagM) + int32(pairScore)
	if hv > mv {
		mv = hv
	}
	if vv > mv {
		mv = vv
	}
	m, satM = sat(mv)
	h, satH = sat(hv)
	v, satV = sat(vv)
	return
}

// borderScore mirrors dpcore's unexported helper of the same shape: the
// cost of a k-symbol run of gaps at a matrix border.
func borderScore(free bool, k, gapOpen, gapExtend int) int {
	if free || k == 0 {
		return 0
	}
	return gapOpen + (k-1)*gapExtend
}

// runGroup sweeps exactly len(group) == W lanes in lock-step, one int16
// cell update per lane per (i, j). Shorter lanes are read through the
// zero-scoring pad symbol rather than masked explicitly; each lane's score
// is captured the row its own sequence ends on.
func runGroup(group []Pair, geos []*band.Geometry, plan Plan) ([]LaneResult, error) {
	g := len(group)
	width := plan.U - plan.L + 1
	linear := scoring.IsLinear(plan.Scorer)
	gapOpen, gapExtend := plan.Scorer.GapOpen(), plan.Scorer.GapExtend()
	scorer := padScorer{plan.Scorer}

	nMax, mMax := 0, 0
	for _, geo := range geos {
		if geo.N() > nMax {
			nMax = geo.N()
		}
		if geo.M() > mMax {
			mMax = geo.M()
		}
	}

	idx := func(local, lane int) int { return local*g + lane }
	at := func(seq seqview.View, trueLen, pos int) byte {
		if pos < trueLen {
			return seq.At(pos)
		}
		return padSymbol
	}

	prevM := newLaneRow(width, g)
	currM := newLaneRow(width, g)
	var prevH, currH, currV []int16
	if !linear {
		prevH = newLaneRow(width, g)
		currH = newLaneRow(width, g)
		currV = newLaneRow(width, g)
	}

	captured := make([]bool, g)
	scores := make([]int, g)
	saturated := make([]bool, g)

	for i := 0; i <= nMax; i++ {
		lo := i + plan.L
		if lo < 0 {
			lo = 0
		}
		hi := i + plan.U
		if hi > mMax {
			hi = mMax
		}

		for k := range currM {
			currM[k] = negInf16
		}
		if !linear {
			for k := range currH {
				currH[k] = negInf16
			}
			for k := range currV {
				currV[k] = negInf16
			}
		}

		for j := lo; j <= hi; j++ {
			local := j - (i + plan.L)
			if local < 0 || local >= width {
				continue
			}

			for lane := 0; lane < g; lane++ {
				id := idx(local, lane)
				pair := group[lane]
				geo := geos[lane]

				switch {
				case i == 0 && j == 0:
					currM[id] = 0
					if !linear {
						currH[id] = 0
						currV[id] = 0
					}
				case i == 0:
					currM[id] = int16(borderScore(plan.Flags.Top, j, gapOpen, gapExtend))
					if !linear {
						currV[id] = currM[id]
					}
				case j == 0:
					currM[id] = int16(borderScore(plan.Flags.Left, i, gapOpen, gapExtend))
					if !linear {
						currH[id] = currM[id]
					}
				default:
					a := at(pair.SeqH, geo.M(), j-1)
					b := at(pair.SeqV, geo.N(), i-1)
					pairScore := scorer.Score(a, b)

					var diagM, upM, upH, leftM, leftV int16 = negInf16, negInf16, negInf16, negInf16, negInf16
					diagM = prevM[idx(local+0, lane)]
					if local+1 < width {
						upM = prevM[idx(local+1, lane)]
						if !linear {
							upH = prevH[idx(local+1, lane)]
						}
					}
					if local-1 >= 0 {
						leftM = currM[idx(local-1, lane)]
						if !linear {
							leftV = currV[idx(local-1, lane)]
						}
					}

					if linear {
						v, didSat := linearCell16(diagM, upM, leftM, pairScore, gapOpen)
						currM[id] = v
						saturated[lane] = saturated[lane] || didSat
					} else {
						mv, hv, vv, s1, s2, s3 := affineCell16(diagM, upM, upH, leftM, leftV, pairScore, gapOpen, gapExtend)
						currM[id], currH[id], currV[id] = mv, hv, vv
						saturated[lane] = saturated[lane] || s1 || s2 || s3
					}
				}
			}
		}

		for lane := 0; lane < g; lane++ {
			if captured[lane] || i != geos[lane].N() {
				continue
			}
			local := geos[lane].M() - (i + plan.L)
			if local >= 0 && local < width {
				scores[lane] = int(currM[idx(local, lane)])
			}
			captured[lane] = true
		}

		prevM, currM = currM, prevM
		if !linear {
			prevH, currH = currH, prevH
		}
	}

	out := make([]LaneResult, g)
	for lane := 0; lane < g; lane++ {
		out[lane] = LaneResult{Score: scores[lane], Saturated: saturated[lane]}
	}
	return out, nil
}
