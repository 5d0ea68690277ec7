// Package handlers provides thin HTTP request/response shells over
// pkg/align. Handlers decode JSON, call the facade, and encode the result;
// they hold no alignment logic of their own.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/genalign/bandkit/internal/scoring"
	"github.com/genalign/bandkit/internal/seqview"
	"github.com/genalign/bandkit/pkg/align"
	"github.com/genalign/bandkit/pkg/align/adapter"
)

// ScoringRequest is the scoring/band/flags portion shared by every
// alignment endpoint.
type ScoringRequest struct {
	Match      int  `json:"match"`
	Mismatch   int  `json:"mismatch"`
	GapOpen    int  `json:"gap_open"`
	GapExtend  int  `json:"gap_extend"`
	BandLower  int  `json:"band_lower"`
	BandUpper  int  `json:"band_upper"`
	FreeTop    bool `json:"free_top"`
	FreeLeft   bool `json:"free_left"`
	FreeRight  bool `json:"free_right"`
	FreeBottom bool `json:"free_bottom"`
}

func (s ScoringRequest) scorer() (align.Scorer, error) {
	gapExtend := s.GapExtend
	if gapExtend == 0 && s.GapOpen != 0 {
		gapExtend = s.GapOpen
	}
	return scoring.NewSimple(s.Match, s.Mismatch, s.GapOpen, gapExtend)
}

func (s ScoringRequest) flags() align.FreeEndGaps {
	return align.FreeEndGaps{Top: s.FreeTop, Left: s.FreeLeft, Right: s.FreeRight, Bottom: s.FreeBottom}
}

func (s ScoringRequest) band() align.Band {
	return align.Band{L: s.BandLower, U: s.BandUpper}
}

// AlignmentRequest is the score+traceback endpoint's request body.
type AlignmentRequest struct {
	ScoringRequest
	SeqH string `json:"seq_h"`
	SeqV string `json:"seq_v"`
}

// AlignmentResponse is the score+traceback endpoint's response body.
type AlignmentResponse struct {
	Score    int     `json:"score"`
	AlignedH string  `json:"aligned_h"`
	AlignedV string  `json:"aligned_v"`
	Identity float64 `json:"identity"`
	CIGAR    string  `json:"cigar"`
}

// GlobalAlignHandler performs score+traceback global alignment and
// returns the result rendered as a gapped sequence pair.
func GlobalAlignHandler(w http.ResponseWriter, r *http.Request) {
	var req AlignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	scorer, err := req.scorer()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	seqH, seqV := seqview.OfString(req.SeqH), seqview.OfString(req.SeqV)
	score, segs, err := align.GlobalAlignment(seqH, seqV, scorer, req.flags(), req.band())
	if err != nil {
		writeAlignError(w, err)
		return
	}

	pair := adapter.Emit(segs, seqH, seqV)
	writeJSON(w, AlignmentResponse{
		Score:    score,
		AlignedH: pair.SeqH,
		AlignedV: pair.SeqV,
		Identity: pair.Identity(),
		CIGAR:    pair.CIGAR(),
	})
}

// ScoreResponse is the score-only endpoint's response body.
type ScoreResponse struct {
	Score int `json:"score"`
}

// AlignmentScoreHandler performs score-only global alignment.
func AlignmentScoreHandler(w http.ResponseWriter, r *http.Request) {
	var req AlignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	scorer, err := req.scorer()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	seqH, seqV := seqview.OfString(req.SeqH), seqview.OfString(req.SeqV)
	score, err := align.GlobalAlignmentScore(seqH, seqV, scorer, req.flags(), req.band())
	if err != nil {
		writeAlignError(w, err)
		return
	}

	writeJSON(w, ScoreResponse{Score: score})
}

// BatchScoreRequest is the batch score-only endpoint's request body: one
// seqH aligned against every entry of SeqVs.
type BatchScoreRequest struct {
	ScoringRequest
	SeqH  string   `json:"seq_h"`
	SeqVs []string `json:"seq_vs"`
}

// BatchScoreResponse is the batch score-only endpoint's response body.
type BatchScoreResponse struct {
	Scores    []int `json:"scores"`
	BestIndex int   `json:"best_index"`
	BestScore int   `json:"best_score"`
	Partial   bool  `json:"partial"`
}

// BatchAlignmentScoreHandler scores seq_h against every entry of seq_vs,
// exercising pkg/align's batch/SIMD dispatch path.
func BatchAlignmentScoreHandler(w http.ResponseWriter, r *http.Request) {
	var req BatchScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	scorer, err := req.scorer()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	seqH := seqview.OfString(req.SeqH)
	seqVs := make([]align.SequenceView, len(req.SeqVs))
	for i, s := range req.SeqVs {
		seqVs[i] = seqview.OfString(s)
	}
	pairs := align.BroadcastPairs(seqH, seqVs)

	res, err := align.BatchGlobalAlignmentScore(r.Context(), pairs, scorer, req.flags(), req.band())
	if err != nil {
		writeAlignError(w, err)
		return
	}

	resp := BatchScoreResponse{Scores: res.Scores, Partial: res.Partial}
	if idx, score, ok := align.FindBestBatchScore(res); ok {
		resp.BestIndex, resp.BestScore = idx, score
	}
	writeJSON(w, resp)
}

func writeAlignError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, context.Canceled) || errors.Is(err, align.ErrCancelled) {
		status = http.StatusRequestTimeout
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
