package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/genalign/bandkit/pkg/align"
)

func TestEmitFragmentsCollectsOnlyMatchSegments(t *testing.T) {
	segs := []align.TraceSegment{
		{SeqHPos: 0, SeqVPos: 0, Length: 2, Kind: align.Match},
		{SeqHPos: 2, SeqVPos: 2, Length: 1, Kind: align.GapInH},
		{SeqHPos: 2, SeqVPos: 3, Length: 3, Kind: align.Match},
	}
	frags := EmitFragments(segs)
	assert.Equal(t, FragmentList{
		{HStart: 0, HEnd: 2, VStart: 0, VEnd: 2},
		{HStart: 2, HEnd: 5, VStart: 3, VEnd: 6},
	}, frags)
}

func TestEmitFragmentsEmptyWhenNoMatches(t *testing.T) {
	segs := []align.TraceSegment{{SeqHPos: 0, SeqVPos: 0, Length: 4, Kind: align.GapInV}}
	assert.Empty(t, EmitFragments(segs))
}
