package adapter

import "github.com/genalign/bandkit/pkg/align"

// Fragment is one co-linear matched interval: [HStart, HEnd) in seqH lines
// up with [VStart, VEnd) in seqV. Gap segments are the space between
// fragments, not fragments themselves; grounded on the (r, c) coordinate
// style of soniakeys-bio's alignment-matrix Pair, generalized from single
// cell coordinates to spans.
type Fragment struct {
	HStart, HEnd int
	VStart, VEnd int
}

// FragmentList is the trace rendered as co-linear fragment intervals.
type FragmentList []Fragment

// EmitFragments collects every Match-kind segment of segs into a
// FragmentList.
func EmitFragments(segs []align.TraceSegment) FragmentList {
	var out FragmentList
	for _, s := range segs {
		if s.Kind != align.Match {
			continue
		}
		out = append(out, Fragment{
			HStart: s.SeqHPos, HEnd: s.SeqHPos + s.Length,
			VStart: s.SeqVPos, VEnd: s.SeqVPos + s.Length,
		})
	}
	return out
}
