package embedding

import (
	"context"
	"math"
	"sort"
	"time"

	"todozi/internal/todozierr"
)

// significantDriftThreshold is the resolved value for the spec's open
// question on drift sensitivity: a re-embedding that moves an entity's
// vector by more than this (1 - cosine similarity) is flagged significant.
const significantDriftThreshold = 0.25

// DriftReport compares one entity's currently indexed vector against a
// freshly generated embedding of newText, without persisting the new
// vector.
type DriftReport struct {
	ID                     string
	CurrentSimilarityToOriginal float64
	DriftPercentage        float64
	SignificantDrift       bool
}

// TrackEmbeddingDrift re-embeds newText and reports how far it has moved
// from id's currently indexed vector. Useful after editing an entity's text
// or swapping embedding providers, before deciding whether to call
// EmbedEntity to actually persist the refresh.
func (s *Service) TrackEmbeddingDrift(ctx context.Context, id, newText string) (*DriftReport, error) {
	existing, ok := s.index.Get(id)
	if !ok {
		return nil, todozierr.Storage(nil, "entity %s not indexed", id)
	}
	fresh, err := s.embedOne(ctx, newText, existing.ContentType)
	if err != nil {
		return nil, err
	}
	sim, err := CosineSimilarity(existing.Vector, fresh)
	if err != nil {
		return nil, err
	}
	drift := 1 - sim
	return &DriftReport{
		ID:                          id,
		CurrentSimilarityToOriginal: sim,
		DriftPercentage:             drift,
		SignificantDrift:            drift > significantDriftThreshold,
	}, nil
}

// ValidationIssue flags a structural problem with one indexed vector.
type ValidationIssue struct {
	ID     string
	Reason string
}

// ValidationReport tallies, per category, how many indexed vectors are
// structurally unsound.
type ValidationReport struct {
	NaNCount               int
	InfinityCount          int
	ZeroVectorCount        int
	DimensionMismatchCount int
	Issues                 []ValidationIssue
}

// ValidateEmbeddings checks every indexed vector for NaN or infinite
// components, all-zero vectors (a hash-collision or empty-text artifact),
// and dimension mismatches against the engine's declared dimensionality.
func (s *Service) ValidateEmbeddings() ValidationReport {
	expected := s.engine.Dimensions()
	var report ValidationReport
	for _, e := range s.index.All() {
		if len(e.Vector) != expected {
			report.DimensionMismatchCount++
			report.Issues = append(report.Issues, ValidationIssue{ID: e.ID, Reason: "dimension mismatch"})
			continue
		}
		var nonZero, bad bool
		for _, v := range e.Vector {
			f := float64(v)
			if math.IsNaN(f) {
				report.NaNCount++
				bad = true
				break
			}
			if math.IsInf(f, 0) {
				report.InfinityCount++
				bad = true
				break
			}
			if v != 0 {
				nonZero = true
			}
		}
		if bad {
			report.Issues = append(report.Issues, ValidationIssue{ID: e.ID, Reason: "non-finite component"})
			continue
		}
		if !nonZero {
			report.ZeroVectorCount++
			report.Issues = append(report.Issues, ValidationIssue{ID: e.ID, Reason: "zero vector"})
		}
	}
	return report
}

// SearchPerformanceProfile summarizes the latency and result count of one
// SemanticSearch call.
type SearchPerformanceProfile struct {
	Query       string
	Duration    time.Duration
	ResultCount int
}

// ProfileSearchPerformance runs SemanticSearch for query and reports how
// long it took and how many results it returned.
func (s *Service) ProfileSearchPerformance(ctx context.Context, query string, limit int) (*SearchPerformanceProfile, error) {
	start := time.Now()
	results, err := s.SemanticSearch(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return &SearchPerformanceProfile{Query: query, Duration: time.Since(start), ResultCount: len(results)}, nil
}

// SimilarPair is one entry pair surfaced in a Diagnostics snapshot.
type SimilarPair struct {
	AID        string
	BID        string
	Similarity float64
}

// Diagnostics bundles the whole-index health picture for export.
type Diagnostics struct {
	EntryCount            int
	ByContentType         map[ContentType]int
	CacheSize             int
	AvgPairwiseSimilarity float64
	TopSimilarPairs       []SimilarPair
	Validation            ValidationReport
	GeneratedAt           time.Time
}

// topKSimilarPairsCount bounds how many pairs ExportDiagnostics reports.
const topKSimilarPairsCount = 10

// ExportDiagnostics produces a snapshot of index health: entry counts per
// content type, cache occupancy, average pairwise similarity, the most
// similar entry pairs, and any validation issues — the payload for a
// `todozi diagnostics` style command.
func (s *Service) ExportDiagnostics() Diagnostics {
	all := s.index.All()
	byType := make(map[ContentType]int)
	for _, e := range all {
		byType[e.ContentType]++
	}
	return Diagnostics{
		EntryCount:            len(all),
		ByContentType:         byType,
		CacheSize:             s.cache.Len(),
		AvgPairwiseSimilarity: 1 - s.CalculateDiversity(allIDs(all)),
		TopSimilarPairs:       topSimilarPairs(all, topKSimilarPairsCount),
		Validation:            s.ValidateEmbeddings(),
		GeneratedAt:           time.Now().UTC(),
	}
}

func allIDs(entries []*IndexEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func topSimilarPairs(entries []*IndexEntry, k int) []SimilarPair {
	var pairs []SimilarPair
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			sim, err := CosineSimilarity(entries[i].Vector, entries[j].Vector)
			if err != nil {
				continue
			}
			pairs = append(pairs, SimilarPair{AID: entries[i].ID, BID: entries[j].ID, Similarity: sim})
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Similarity > pairs[j].Similarity })
	if k > 0 && len(pairs) > k {
		pairs = pairs[:k]
	}
	return pairs
}
