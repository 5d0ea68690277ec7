// Package adapter implements the alignment-consumer side of the facade:
// it turns a kernel trace-segment sequence into one of three caller-facing
// containers. The kernel never imports this package and never produces
// anything richer than []align.TraceSegment; these adapters are the only
// place that walks a trace into a specific shape.
package adapter

import (
	"fmt"
	"strings"

	"github.com/genalign/bandkit/pkg/align"
)

// GappedPair is two gap-annotated sequence rows, the classic two-string
// alignment-tool output, grounded on the teacher's
// Alignment.Format/ToCIGAR/calculateIdentity trio generalized to operate
// on trace segments directly instead of pre-built aligned strings.
type GappedPair struct {
	SeqH string
	SeqV string
}

// Emit renders segs against seqH and seqV into a GappedPair.
func Emit(segs []align.TraceSegment, seqH, seqV align.SequenceView) GappedPair {
	var h, v strings.Builder
	for _, s := range segs {
		switch s.Kind {
		case align.Match:
			for k := 0; k < s.Length; k++ {
				h.WriteByte(seqH.At(s.SeqHPos + k))
				v.WriteByte(seqV.At(s.SeqVPos + k))
			}
		case align.GapInH:
			for k := 0; k < s.Length; k++ {
				h.WriteByte('-')
				v.WriteByte(seqV.At(s.SeqVPos + k))
			}
		case align.GapInV:
			for k := 0; k < s.Length; k++ {
				h.WriteByte(seqH.At(s.SeqHPos + k))
				v.WriteByte('-')
			}
		}
	}
	return GappedPair{SeqH: h.String(), SeqV: v.String()}
}

// CIGAR renders g as a CIGAR string. Since the kernel's TraceSegment only
// encodes movement shape (Match/GapInH/GapInV), not per-column identity,
// matches and mismatches both collapse to 'M', a narrower op set than the
// teacher's M/I/D/X, which classified mismatches from already-built aligned
// strings the kernel does not materialize here.
func (g GappedPair) CIGAR() string {
	if len(g.SeqH) == 0 {
		return ""
	}
	var out strings.Builder
	var op byte
	count := 0
	flush := func() {
		if count > 0 {
			fmt.Fprintf(&out, "%d%c", count, op)
		}
	}
	for i := 0; i < len(g.SeqH); i++ {
		var cur byte
		switch {
		case g.SeqH[i] == '-':
			cur = 'I'
		case g.SeqV[i] == '-':
			cur = 'D'
		default:
			cur = 'M'
		}
		if cur == op {
			count++
		} else {
			flush()
			op, count = cur, 1
		}
	}
	flush()
	return out.String()
}

// Identity returns the number of columns where SeqH and SeqV carry the same
// non-gap symbol, divided by the total column count (gap columns included).
func (g GappedPair) Identity() float64 {
	if len(g.SeqH) == 0 {
		return 0
	}
	matches := 0
	for i := 0; i < len(g.SeqH); i++ {
		if g.SeqH[i] == g.SeqV[i] && g.SeqH[i] != '-' {
			matches++
		}
	}
	return float64(matches) / float64(len(g.SeqH))
}

// Format renders a three-line match-bar view: SeqH, a bar of '|' on
// matches and '.' on mismatches, then SeqV.
func (g GappedPair) Format() string {
	var bar strings.Builder
	for i := 0; i < len(g.SeqH); i++ {
		switch {
		case g.SeqH[i] == g.SeqV[i] && g.SeqH[i] != '-':
			bar.WriteByte('|')
		case g.SeqH[i] == '-' || g.SeqV[i] == '-':
			bar.WriteByte(' ')
		default:
			bar.WriteByte('.')
		}
	}
	return fmt.Sprintf("%s\n%s\n%s", g.SeqH, bar.String(), g.SeqV)
}
