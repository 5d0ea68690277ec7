// Package align is the public facade over the banded alignment kernel: it
// resolves a caller's scoring/band/free-end-gap options into a DP plan,
// dispatches to the scalar or SIMD driver, and, for the traceback
// entry points, decodes the direction matrix into an ordered trace.
package align

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/genalign/bandkit/internal/band"
	"github.com/genalign/bandkit/internal/dpcore"
	"github.com/genalign/bandkit/internal/scoring"
	"github.com/genalign/bandkit/internal/seqview"
	"github.com/genalign/bandkit/internal/simdalign"
	"github.com/genalign/bandkit/internal/traceback"
)

// SequenceView is the read-only random-access surface the kernel requires
// of a sequence.
type SequenceView = seqview.View

// Scorer supplies symbol-pair substitution scores and gap costs.
type Scorer = scoring.Scorer

// FreeEndGaps selects which matrix borders carry no gap penalty (Top/Left)
// and which borders are eligible end cells for score/traceback extraction
// (Right/Bottom).
type FreeEndGaps = dpcore.FreeEndGaps

// TraceSegment is one maximal run of same-kind edit steps.
type TraceSegment = traceback.Segment

// Kind classifies a TraceSegment by which sequence, if either, carries a
// gap over its span.
type Kind = traceback.Kind

// The three Kind values a TraceSegment can carry.
const (
	Match  = traceback.Match
	GapInH = traceback.GapInH
	GapInV = traceback.GapInV
)

// Band is the diagonal offset pair (L, U) restricting the DP matrix to
// cells where L <= j-i <= U.
type Band struct {
	L, U int
}

// Sentinel errors for the five error kinds the kernel can surface. The
// first four are the same values internal/band and internal/dpcore return,
// re-exported here so callers can errors.Is against pkg/align regardless of
// which internal package actually detected the condition; ErrMismatchedBatch
// is defined in this package.
var (
	ErrBandExcludesEnd = band.ErrBandExcludesEnd
	ErrEmptyBand       = band.ErrEmptyBand
	ErrScoreOverflow   = dpcore.ErrScoreOverflow
	ErrCancelled       = dpcore.ErrCancelled
	ErrMismatchedBatch = errors.New("align: seqH and seqV lists differ in length")
)

// Pair is one independent alignment request within a batch.
type Pair struct {
	SeqH SequenceView
	SeqV SequenceView
}

// NewPairs builds a batch's []Pair from two sequence lists, supporting
// both equal-length paired lists and one seqH broadcast against many seqV.
func NewPairs(seqHs, seqVs []SequenceView) ([]Pair, error) {
	if len(seqHs) == 1 && len(seqVs) > 1 {
		return BroadcastPairs(seqHs[0], seqVs), nil
	}
	if len(seqHs) != len(seqVs) {
		return nil, ErrMismatchedBatch
	}
	pairs := make([]Pair, len(seqHs))
	for i := range seqHs {
		pairs[i] = Pair{SeqH: seqHs[i], SeqV: seqVs[i]}
	}
	return pairs, nil
}

// BroadcastPairs aligns one seqH against every seqV in seqVs.
func BroadcastPairs(seqH SequenceView, seqVs []SequenceView) []Pair {
	pairs := make([]Pair, len(seqVs))
	for i, v := range seqVs {
		pairs[i] = Pair{SeqH: seqH, SeqV: v}
	}
	return pairs
}

// BatchResult is the score-only batch outcome, scores in input order.
type BatchResult struct {
	Scores  []int
	Partial bool
}

// BatchTraceResult is the score+traceback batch outcome.
type BatchTraceResult struct {
	Scores  []int
	Traces  [][]TraceSegment
	Partial bool
}

// GlobalAlignmentScore returns the optimal banded global-alignment score
// between seqH and seqV under scorer, flags, and b. FreeEndGaps's zero
// value is all-false, i.e. pure Needleman-Wunsch.
func GlobalAlignmentScore(seqH, seqV SequenceView, scorer Scorer, flags FreeEndGaps, b Band) (int, error) {
	geo, err := band.New(seqH.Len(), seqV.Len(), b.L, b.U)
	if err != nil {
		return 0, err
	}
	plan := dpcore.Plan{Geo: geo, Scorer: scorer, Flags: flags}
	res, err := dpcore.NewDriver().Run(context.Background(), seqH, seqV, plan, false)
	if err != nil {
		return 0, err
	}
	_, _, score := dpcore.ChooseEnd(res, flags, geo.M(), geo.N())
	return score, nil
}

// GlobalAlignment returns the optimal score and one canonical optimal
// trace-segment sequence, ordered from the start of seqH/seqV forward.
func GlobalAlignment(seqH, seqV SequenceView, scorer Scorer, flags FreeEndGaps, b Band) (int, []TraceSegment, error) {
	geo, err := band.New(seqH.Len(), seqV.Len(), b.L, b.U)
	if err != nil {
		return 0, nil, err
	}
	plan := dpcore.Plan{Geo: geo, Scorer: scorer, Flags: flags}
	res, err := dpcore.NewDriver().Run(context.Background(), seqH, seqV, plan, true)
	if err != nil {
		return 0, nil, err
	}
	endI, endJ, score := dpcore.ChooseEnd(res, flags, geo.M(), geo.N())
	segs := traceback.Walk(res.Dir, flags, endI, endJ)
	return score, segs, nil
}

// batchFanoutThreshold is the batch size at or above which BatchGlobalAlignmentScore
// splits pairs across a bounded worker pool instead of running them (or one
// SIMD sweep) on the calling goroutine. Below it, fan-out overhead would
// dwarf the work itself.
const batchFanoutThreshold = 64

// BatchGlobalAlignmentScore scores every pair independently. Pairs are
// split into GOMAXPROCS chunks and run concurrently once the batch is large
// enough to be worth it (see splitChunks); each chunk is, in turn, sized
// for SIMD per scoreChunk's dispatch rule.
func BatchGlobalAlignmentScore(ctx context.Context, pairs []Pair, scorer Scorer, flags FreeEndGaps, b Band) (BatchResult, error) {
	if len(pairs) == 0 {
		return BatchResult{}, nil
	}

	chunks := splitChunks(pairs)
	if len(chunks) == 1 {
		return scoreChunk(ctx, chunks[0], scorer, flags, b)
	}

	results := make([]BatchResult, len(chunks))
	errs := make([]error, len(chunks))
	var wg sync.WaitGroup
	for i, c := range chunks {
		wg.Add(1)
		go func(i int, c []Pair) {
			defer wg.Done()
			results[i], errs[i] = scoreChunk(ctx, c, scorer, flags, b)
		}(i, c)
	}
	wg.Wait()

	for _, e := range errs {
		if e != nil {
			return BatchResult{}, e
		}
	}
	return mergeScoreResults(results), nil
}

// BatchGlobalAlignment scores and tracebacks every pair independently.
// Traceback always runs the scalar driver per pair (see internal/simdalign),
// so this entry point does not fan out across a worker pool; the SIMD
// speedup BatchGlobalAlignmentScore gets from vectorizing the sweep itself
// does not apply here.
func BatchGlobalAlignment(ctx context.Context, pairs []Pair, scorer Scorer, flags FreeEndGaps, b Band) (BatchTraceResult, error) {
	if len(pairs) == 0 {
		return BatchTraceResult{}, nil
	}
	plan := simdalign.Plan{Scorer: scorer, Flags: flags, L: b.L, U: b.U}
	br, err := simdalign.RunBatch(ctx, toSimdPairs(pairs), plan, true)
	if err != nil {
		return BatchTraceResult{}, err
	}
	scores := make([]int, len(br.Lanes))
	traces := make([][]TraceSegment, len(br.Lanes))
	for i, l := range br.Lanes {
		scores[i] = l.Score
		traces[i] = traceback.Walk(l.Dirs, flags, l.EndI, l.EndJ)
	}
	return BatchTraceResult{Scores: scores, Traces: traces, Partial: br.Partial}, nil
}

// FindBestBatchScore returns the index and score of the best-scoring pair
// in a BatchResult.
func FindBestBatchScore(res BatchResult) (index, score int, ok bool) {
	if len(res.Scores) == 0 {
		return 0, 0, false
	}
	bestIdx, best := 0, res.Scores[0]
	for i, s := range res.Scores[1:] {
		if s > best {
			best, bestIdx = s, i+1
		}
	}
	return bestIdx, best, true
}

func splitChunks(pairs []Pair) [][]Pair {
	if len(pairs) < batchFanoutThreshold {
		return [][]Pair{pairs}
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > len(pairs) {
		workers = len(pairs)
	}
	if workers < 1 {
		workers = 1
	}
	chunkSize := (len(pairs) + workers - 1) / workers

	chunks := make([][]Pair, 0, workers)
	for start := 0; start < len(pairs); start += chunkSize {
		end := start + chunkSize
		if end > len(pairs) {
			end = len(pairs)
		}
		chunks = append(chunks, pairs[start:end])
	}
	return chunks
}

func mergeScoreResults(results []BatchResult) BatchResult {
	var out BatchResult
	for _, r := range results {
		out.Scores = append(out.Scores, r.Scores...)
		out.Partial = out.Partial || r.Partial
	}
	return out
}

// scoreChunk dispatches one chunk to the SIMD driver when the batch is at
// least one lane wide, SIMD hardware is available, and scorer's gap costs
// fit a 16-bit lane without saturating; otherwise it runs the chunk through
// the scalar driver directly.
func scoreChunk(ctx context.Context, pairs []Pair, scorer Scorer, flags FreeEndGaps, b Band) (BatchResult, error) {
	useSIMD := simdalign.W > 1 && len(pairs) >= simdalign.W && !scoring.NewBroadcast16(scorer).Saturates
	if !useSIMD {
		return scalarScoreChunk(ctx, pairs, scorer, flags, b)
	}

	plan := simdalign.Plan{Scorer: scorer, Flags: flags, L: b.L, U: b.U}
	br, err := simdalign.RunBatch(ctx, toSimdPairs(pairs), plan, false)
	if err != nil {
		return BatchResult{}, err
	}
	scores := make([]int, len(br.Lanes))
	for i, l := range br.Lanes {
		scores[i] = l.Score
	}
	return BatchResult{Scores: scores, Partial: br.Partial}, nil
}

func scalarScoreChunk(ctx context.Context, pairs []Pair, scorer Scorer, flags FreeEndGaps, b Band) (BatchResult, error) {
	scores := make([]int, 0, len(pairs))
	for _, p := range pairs {
		select {
		case <-ctx.Done():
			return BatchResult{Scores: scores, Partial: true}, ErrCancelled
		default:
		}
		s, err := GlobalAlignmentScore(p.SeqH, p.SeqV, scorer, flags, b)
		if err != nil {
			return BatchResult{}, err
		}
		scores = append(scores, s)
	}
	return BatchResult{Scores: scores}, nil
}

func toSimdPairs(pairs []Pair) []simdalign.Pair {
	out := make([]simdalign.Pair, len(pairs))
	for i, p := range pairs {
		out[i] = simdalign.Pair{SeqH: p.SeqH, SeqV: p.SeqV}
	}
	return out
}
