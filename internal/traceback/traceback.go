// Package traceback walks a direction matrix produced by a banded sweep
// back to an origin (or to a free-end-gap border), emitting the ordered
// trace-segment sequence that encodes one optimal alignment path.
package traceback

import (
	"github.com/genalign/bandkit/internal/dpcore"
)

// Kind classifies a trace segment by which sequence, if either, carries a
// gap over its span.
type Kind uint8

const (
	// Match is a run of diagonal steps: both sequences advance together.
	// Individual columns may still be mismatches; Kind only encodes the
	// movement shape, not per-column identity.
	Match Kind = iota
	// GapInH is a run where seqH shows a gap and only seqV advances.
	GapInH
	// GapInV is a run where seqV shows a gap and only seqH advances.
	GapInV
)

// Segment is one maximal run of same-kind steps. SeqHPos/SeqVPos are the
// 0-based positions in each sequence where the segment begins (forward
// order); Length is how many steps the run spans.
type Segment struct {
	SeqHPos int
	SeqVPos int
	Length  int
	Kind    Kind
}

const (
	stateM = iota
	stateH
	stateV
)

// Walk follows dir from (startI, startJ) back toward the origin, applying
// flags' early-termination rule at a free top/left border, and returns the
// trace segments in forward order (from the origin toward the start cell).
func Walk(dir *dpcore.Directions, flags dpcore.FreeEndGaps, startI, startJ int) []Segment {
	var rev []Segment // accumulated start -> origin; reversed before return

	push := func(k Kind, h, v int) {
		if n := len(rev); n > 0 && rev[n-1].Kind == k {
			rev[n-1].Length++
			rev[n-1].SeqHPos = h
			rev[n-1].SeqVPos = v
			return
		}
		rev = append(rev, Segment{SeqHPos: h, SeqVPos: v, Length: 1, Kind: k})
	}

	i, j := startI, startJ
	state := stateM

	if dir.Affine() {
		for {
			if (i == 0 && j == 0) || (flags.Top && i == 0) || (flags.Left && j == 0) {
				break
			}
			mdir, hdir, vdir := dir.GetAffine(i, j)
			switch state {
			case stateH:
				i--
				push(GapInH, j, i)
				if hdir == dpcore.GapOpened {
					state = stateM
				}
			case stateV:
				j--
				push(GapInV, j, i)
				if vdir == dpcore.GapOpened {
					state = stateM
				}
			default:
				switch mdir {
				case dpcore.MFromDiag:
					i--
					j--
					push(Match, j, i)
				case dpcore.MFromH:
					i--
					push(GapInH, j, i)
					if hdir != dpcore.GapOpened {
						state = stateH
					}
				case dpcore.MFromV:
					j--
					push(GapInV, j, i)
					if vdir != dpcore.GapOpened {
						state = stateV
					}
				}
			}
		}
	} else {
		for {
			if (i == 0 && j == 0) || (flags.Top && i == 0) || (flags.Left && j == 0) {
				break
			}
			switch dir.GetLinear(i, j) {
			case dpcore.DirDiag:
				i--
				j--
				push(Match, j, i)
			case dpcore.DirUp:
				i--
				push(GapInH, j, i)
			case dpcore.DirLeft:
				j--
				push(GapInV, j, i)
			}
		}
	}

	out := make([]Segment, len(rev))
	for k, s := range rev {
		out[len(rev)-1-k] = s
	}
	return out
}
