package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genalign/bandkit/internal/scoring"
	"github.com/genalign/bandkit/internal/seqview"
	"github.com/genalign/bandkit/pkg/align"
)

func alignStrings(t *testing.T, h, v string, match, mismatch, gap int, b align.Band) (align.SequenceView, align.SequenceView, []align.TraceSegment) {
	t.Helper()
	scorer, err := scoring.NewLinear(match, mismatch, gap)
	require.NoError(t, err)
	seqH, seqV := seqview.OfString(h), seqview.OfString(v)
	_, segs, err := align.GlobalAlignment(seqH, seqV, scorer, align.FreeEndGaps{}, b)
	require.NoError(t, err)
	return seqH, seqV, segs
}

func TestEmitIdenticalSequences(t *testing.T) {
	seqH, seqV, segs := alignStrings(t, "ACGT", "ACGT", 1, -1, -1, align.Band{L: -1, U: 1})
	pair := Emit(segs, seqH, seqV)
	assert.Equal(t, "ACGT", pair.SeqH)
	assert.Equal(t, "ACGT", pair.SeqV)
	assert.Equal(t, 1.0, pair.Identity())
	assert.Equal(t, "4M", pair.CIGAR())
}

func TestEmitWithGap(t *testing.T) {
	seqH, seqV, segs := alignStrings(t, "ACGT", "AGT", 2, -1, -3, align.Band{L: -1, U: 1})
	pair := Emit(segs, seqH, seqV)
	require.Len(t, pair.SeqH, len(pair.SeqV))
	assert.Contains(t, pair.SeqV, "-")
	assert.Less(t, pair.Identity(), 1.0)
}

func TestCIGARCollapsesRuns(t *testing.T) {
	pair := GappedPair{SeqH: "AC--GT", SeqV: "ACTTGT"}
	assert.Equal(t, "2M2I2M", pair.CIGAR())
}

func TestCIGAREmptyPair(t *testing.T) {
	pair := GappedPair{}
	assert.Equal(t, "", pair.CIGAR())
}

func TestIdentityCountsOnlyNonGapAgreement(t *testing.T) {
	pair := GappedPair{SeqH: "ACGT", SeqV: "AC-T"}
	assert.InDelta(t, 0.75, pair.Identity(), 1e-9)
}

func TestFormatProducesThreeLines(t *testing.T) {
	pair := GappedPair{SeqH: "ACGT", SeqV: "AGGT"}
	out := pair.Format()
	assert.Contains(t, out, "ACGT\n")
	assert.Contains(t, out, "|")
	assert.Contains(t, out, ".")
}
