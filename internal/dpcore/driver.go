package dpcore

import (
	"context"
	"fmt"

	"github.com/genalign/bandkit/internal/scoring"
	"github.com/genalign/bandkit/internal/seqview"
)

// Driver sweeps a banded matrix row by row with two rolling M buffers (plus
// two rolling H/V buffers under the affine model), optionally recording a
// full direction matrix for traceback.
type Driver struct{}

// NewDriver returns a ready-to-use Driver. Driver carries no state of its
// own between calls; every Run allocates and releases its own scratch.
func NewDriver() *Driver {
	return &Driver{}
}

func newRow(width int) []int {
	r := make([]int, width)
	for i := range r {
		r[i] = negInf
	}
	return r
}

// Run sweeps the band described by plan.Geo over seqH (columns) and seqV
// (rows), returning the corner score, the last row/column when the
// corresponding free-end-gap flag asked for them, and a direction matrix
// when needTrace is set. The context is checked between rows; on
// cancellation Run returns a partial Result and a wrapped ErrCancelled.
func (d *Driver) Run(ctx context.Context, seqH, seqV seqview.View, plan Plan, needTrace bool) (Result, error) {
	geo := plan.Geo
	scorer := plan.Scorer
	flags := plan.Flags
	m, n := geo.M(), geo.N()
	width := geo.Width()
	linear := scoring.IsLinear(scorer)
	gapOpen, gapExtend := scorer.GapOpen(), scorer.GapExtend()

	var dirs *Directions
	if needTrace {
		dirs = newDirections(geo, !linear)
	}

	prevM, currM := newRow(width), newRow(width)
	var prevH, currH, currV []int
	if !linear {
		prevH, currH = newRow(width), newRow(width)
		currV = newRow(width)
	}

	var lastRow, lastCol []int
	if flags.Bottom {
		lastRow = make([]int, m+1)
		for i := range lastRow {
			lastRow[i] = negInf
		}
	}
	if flags.Right {
		lastCol = make([]int, n+1)
		for i := range lastCol {
			lastCol[i] = negInf
		}
	}

	for i := range currM {
		currM[i] = negInf
	}

	for i := 0; i <= n; i++ {
		select {
		case <-ctx.Done():
			return Result{Partial: true}, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
		default:
		}

		lo, hi := geo.Row(i)
		for idx := range currM {
			currM[idx] = negInf
		}
		if !linear {
			for idx := range currH {
				currH[idx] = negInf
			}
			for idx := range currV {
				currV[idx] = negInf
			}
		}

		for j := lo; j <= hi; j++ {
			idx := geo.Local(i, j)

			switch {
			case i == 0 && j == 0:
				currM[idx] = 0
				if !linear {
					currH[idx] = 0
					currV[idx] = 0
					if needTrace {
						dirs.setAffine(i, j, MFromDiag, GapOpened, GapOpened)
					}
				} else if needTrace {
					dirs.setLinear(i, j, DirDiag)
				}

			case i == 0:
				score := borderScore(flags.Top, j, gapOpen, gapExtend)
				currM[idx] = score
				if !linear {
					currV[idx] = score
					currH[idx] = negInf
					state := GapExtended
					if j == 1 {
						state = GapOpened
					}
					if needTrace {
						dirs.setAffine(i, j, MFromV, GapOpened, state)
					}
				} else if needTrace {
					dirs.setLinear(i, j, DirLeft)
				}

			case j == 0:
				score := borderScore(flags.Left, i, gapOpen, gapExtend)
				currM[idx] = score
				if !linear {
					currH[idx] = score
					state := GapExtended
					if i == 1 {
						state = GapOpened
					}
					if needTrace {
						dirs.setAffine(i, j, MFromH, state, GapOpened)
					}
				} else if needTrace {
					dirs.setLinear(i, j, DirUp)
				}

			default:
				pairScore := scorer.Score(seqH.At(j-1), seqV.At(i-1))
				diagM := prevM[idx]

				var upM, upH int = negInf, negInf
				if idx+1 < width {
					upM = prevM[idx+1]
					if !linear {
						upH = prevH[idx+1]
					}
				}
				var leftM, leftV int = negInf, negInf
				if idx-1 >= 0 {
					leftM = currM[idx-1]
					if !linear {
						leftV = currV[idx-1]
					}
				}

				if linear {
					gap := gapOpen
					score, dir := linearCell(diagM, upM, leftM, pairScore, gap)
					if absInt(score) > overflowThreshold {
						return Result{}, ErrScoreOverflow
					}
					currM[idx] = score
					if needTrace {
						dirs.setLinear(i, j, dir)
					}
				} else {
					mv, hv, vv, mdir, hdir, vdir := affineCell(diagM, upM, upH, leftM, leftV, pairScore, gapOpen, gapExtend)
					// H or V built only from out-of-band predecessors sits just
					// below negInf; pin it back to the sentinel.
					if hv < negInf {
						hv = negInf
					}
					if vv < negInf {
						vv = negInf
					}
					if absInt(mv) > overflowThreshold || absInt(hv) > overflowThreshold || absInt(vv) > overflowThreshold {
						return Result{}, ErrScoreOverflow
					}
					currM[idx] = mv
					currH[idx] = hv
					currV[idx] = vv
					if needTrace {
						dirs.setAffine(i, j, mdir, hdir, vdir)
					}
				}
			}

			if flags.Bottom && i == n {
				lastRow[j] = currM[idx]
			}
			if flags.Right && j == m {
				lastCol[i] = currM[idx]
			}
		}

		prevM, currM = currM, prevM
		if !linear {
			prevH, currH = currH, prevH
		}
	}

	return Result{
		CornerScore: prevM[geo.Local(n, m)],
		LastRow:     lastRow,
		LastCol:     lastCol,
		Dir:         dirs,
	}, nil
}
