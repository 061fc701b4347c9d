package embedding

import (
	"context"
	"sort"
	"strings"
	"time"
)

// SearchResult pairs an indexed entry with its score against a query.
type SearchResult struct {
	Entry *IndexEntry
	Score float64
}

// SemanticSearch embeds the query and ranks every indexed entry by cosine
// similarity, keeping only entries at or above the configured similarity
// threshold. Once the index has grown past Config.ANNThreshold and an ANN
// store has been enabled (see EnableANN), the ranking is served from that
// store's persisted vectors instead of the in-memory linear scan.
func (s *Service) SemanticSearch(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	qv, err := s.Generate(ctx, query)
	if err != nil {
		return nil, err
	}
	if s.ShouldAccelerate() && s.ann != nil {
		return s.searchViaANN(qv, limit)
	}
	return s.rankAgainst(qv, s.index.All(), limit), nil
}

func (s *Service) searchViaANN(query []float32, limit int) ([]SearchResult, error) {
	k := limit
	if k <= 0 {
		k = s.cfg.MaxResults
	}
	matches, err := s.ann.Search(query, k)
	if err != nil {
		return nil, err
	}
	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		if m.Similarity < s.cfg.SimilarityThreshold {
			continue
		}
		entry, ok := s.index.Get(m.ID)
		if !ok {
			continue
		}
		results = append(results, SearchResult{Entry: entry, Score: m.Similarity})
	}
	sortResultsDesc(results)
	return truncate(results, limit), nil
}

// SearchFilters narrows FilteredSemanticSearch's candidate pool before the
// similarity cut: Types restricts by content type, Tags/Priorities/Statuses
// require at least one case-insensitive match against the entry's tags or
// "priority"/"status" metadata, and After/Before bound CreatedAt (zero
// values leave that bound open).
type SearchFilters struct {
	Types      []ContentType
	Tags       []string
	Priorities []string
	Statuses   []string
	After      time.Time
	Before     time.Time
}

// FilteredSemanticSearch restricts SemanticSearch's candidate pool to
// entries matching every non-empty field of filters before applying the
// similarity threshold cut.
func (s *Service) FilteredSemanticSearch(ctx context.Context, query string, filters SearchFilters, limit int) ([]SearchResult, error) {
	qv, err := s.Generate(ctx, query)
	if err != nil {
		return nil, err
	}
	pool := applyFilters(s.poolForTypes(filters.Types), filters)
	return s.rankAgainst(qv, pool, limit), nil
}

func (s *Service) poolForTypes(types []ContentType) []*IndexEntry {
	if len(types) == 0 {
		return s.index.All()
	}
	var pool []*IndexEntry
	for _, ct := range types {
		pool = append(pool, s.index.ByContentType(ct)...)
	}
	return pool
}

func applyFilters(pool []*IndexEntry, f SearchFilters) []*IndexEntry {
	if len(f.Tags) == 0 && len(f.Priorities) == 0 && len(f.Statuses) == 0 && f.After.IsZero() && f.Before.IsZero() {
		return pool
	}
	out := make([]*IndexEntry, 0, len(pool))
	for _, e := range pool {
		if len(f.Tags) > 0 && !anyMatch(e.Tags, f.Tags) {
			continue
		}
		if len(f.Priorities) > 0 && !metadataMatches(e.Metadata, "priority", f.Priorities) {
			continue
		}
		if len(f.Statuses) > 0 && !metadataMatches(e.Metadata, "status", f.Statuses) {
			continue
		}
		if !f.After.IsZero() && e.CreatedAt.Before(f.After) {
			continue
		}
		if !f.Before.IsZero() && e.CreatedAt.After(f.Before) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func anyMatch(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

func metadataMatches(metadata map[string]string, key string, want []string) bool {
	v, ok := metadata[key]
	if !ok {
		return false
	}
	for _, w := range want {
		if strings.EqualFold(v, w) {
			return true
		}
	}
	return false
}

// HybridSearch blends semantic similarity with a keyword-match score:
// score = alpha*cosine + (1-alpha)*keywordScore, where keywordScore is the
// fraction of keywords appearing (case-insensitively) in an entry's text or
// tags. alpha is clamped to [0,1]; types restricts the candidate pool.
func (s *Service) HybridSearch(ctx context.Context, query string, keywords []string, types []ContentType, alpha float64, limit int) ([]SearchResult, error) {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	qv, err := s.Generate(ctx, query)
	if err != nil {
		return nil, err
	}
	pool := s.poolForTypes(types)
	results := make([]SearchResult, 0, len(pool))
	for _, e := range pool {
		sim, err := CosineSimilarity(qv, e.Vector)
		if err != nil {
			continue
		}
		kw := keywordScore(keywords, e.Text, e.Tags)
		score := alpha*sim + (1-alpha)*kw
		results = append(results, SearchResult{Entry: e, Score: score})
	}
	sortResultsDesc(results)
	return truncate(results, limit), nil
}

// keywordScore is the fraction of keywords that appear, case-insensitively,
// in text or tags. An empty keyword list scores 0, matching the spec's
// "fraction of provided keywords" contract (nothing was provided to match).
func keywordScore(keywords []string, text string, tags []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	lowerText := strings.ToLower(text)
	tagSet := make(map[string]bool, len(tags))
	for _, t := range tags {
		tagSet[strings.ToLower(t)] = true
	}
	var matched int
	for _, kw := range keywords {
		lk := strings.ToLower(strings.TrimSpace(kw))
		if lk == "" {
			continue
		}
		if strings.Contains(lowerText, lk) || tagSet[lk] {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

// Aggregation names how MultiQuerySearch combines an entry's per-query
// similarity scores into one ranking score.
type Aggregation int

const (
	AggregationAverage Aggregation = iota
	AggregationMax
	AggregationMin
	AggregationWeightedSum
)

// MultiQuerySearch embeds each of queries and ranks entries by their
// per-query similarity scores aggregated per aggregation (WeightedSum uses
// weights, one per query, defaulting to 1 past the end of weights). Only
// entries meeting Config.SimilarityThreshold for a given query contribute a
// score for that query, so entries differ in how many queries they
// appeared in; ties are broken in favor of the entry that matched more
// queries.
func (s *Service) MultiQuerySearch(ctx context.Context, queries []string, aggregation Aggregation, weights []float64, types []ContentType, limit int) ([]SearchResult, error) {
	pool := s.poolForTypes(types)
	scores := make(map[string][]float64, len(pool))
	scoreWeights := make(map[string][]float64, len(pool))
	entryByID := make(map[string]*IndexEntry, len(pool))
	for _, e := range pool {
		entryByID[e.ID] = e
	}

	for qi, q := range queries {
		w := 1.0
		if qi < len(weights) {
			w = weights[qi]
		}
		qv, err := s.Generate(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, e := range pool {
			sim, err := CosineSimilarity(qv, e.Vector)
			if err != nil || sim < s.cfg.SimilarityThreshold {
				continue
			}
			scores[e.ID] = append(scores[e.ID], sim)
			scoreWeights[e.ID] = append(scoreWeights[e.ID], w)
		}
	}

	out := make([]SearchResult, 0, len(scores))
	for id, perQuery := range scores {
		out = append(out, SearchResult{Entry: entryByID[id], Score: aggregateScores(aggregation, perQuery, scoreWeights[id])})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return len(scores[out[i].Entry.ID]) > len(scores[out[j].Entry.ID])
	})
	return truncate(out, limit), nil
}

func aggregateScores(agg Aggregation, scores []float64, weights []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	switch agg {
	case AggregationMax:
		best := scores[0]
		for _, v := range scores[1:] {
			if v > best {
				best = v
			}
		}
		return best
	case AggregationMin:
		worst := scores[0]
		for _, v := range scores[1:] {
			if v < worst {
				worst = v
			}
		}
		return worst
	case AggregationWeightedSum:
		var sum, wsum float64
		for i, v := range scores {
			w := 1.0
			if i < len(weights) {
				w = weights[i]
			}
			sum += v * w
			wsum += w
		}
		if wsum == 0 {
			return 0
		}
		return sum / wsum
	default: // AggregationAverage
		var sum float64
		for _, v := range scores {
			sum += v
		}
		return sum / float64(len(scores))
	}
}

// CrossContentRelationship links two entities whose vectors are similar
// enough to be worth surfacing to the caller, typically across content
// types (a task and the memory that motivated it).
type CrossContentRelationship struct {
	FromID     string
	ToID       string
	Similarity float64
}

// FindCrossContentRelationships reports, for the entity at id (of
// anchorType), every other entry of a *different* content type at or above
// minSim, grouped by that entry's content type and sorted descending within
// each group.
func (s *Service) FindCrossContentRelationships(id string, anchorType ContentType, minSim float64) map[ContentType][]CrossContentRelationship {
	anchor, ok := s.index.Get(id)
	if !ok {
		return nil
	}
	groups := make(map[ContentType][]CrossContentRelationship)
	for _, e := range s.index.All() {
		if e.ID == id || e.ContentType == anchorType {
			continue
		}
		sim, err := CosineSimilarity(anchor.Vector, e.Vector)
		if err != nil || sim < minSim {
			continue
		}
		groups[e.ContentType] = append(groups[e.ContentType], CrossContentRelationship{FromID: id, ToID: e.ID, Similarity: sim})
	}
	for ct, matches := range groups {
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Similarity > matches[j].Similarity })
		groups[ct] = matches
	}
	return groups
}

// SimilarityGraph is an adjacency-list view over the index: an edge exists
// between two entries whose cosine similarity meets the threshold.
type SimilarityGraph struct {
	Nodes []string
	Edges map[string][]Edge
}

type Edge struct {
	To     string
	Weight float64
}

// BuildSimilarityGraph constructs the full pairwise similarity graph over
// the index at the given threshold. O(n^2) in the index size, which is
// acceptable for the corpus sizes this module targets (hundreds to low
// thousands of entities).
func (s *Service) BuildSimilarityGraph(threshold float64) *SimilarityGraph {
	all := s.index.All()
	g := &SimilarityGraph{Edges: make(map[string][]Edge, len(all))}
	for _, e := range all {
		g.Nodes = append(g.Nodes, e.ID)
	}
	for i, a := range all {
		for j := i + 1; j < len(all); j++ {
			b := all[j]
			sim, err := CosineSimilarity(a.Vector, b.Vector)
			if err != nil || sim < threshold {
				continue
			}
			g.Edges[a.ID] = append(g.Edges[a.ID], Edge{To: b.ID, Weight: sim})
			g.Edges[b.ID] = append(g.Edges[b.ID], Edge{To: a.ID, Weight: sim})
		}
	}
	return g
}

func (s *Service) rankAgainst(query []float32, pool []*IndexEntry, limit int) []SearchResult {
	results := make([]SearchResult, 0, len(pool))
	for _, e := range pool {
		sim, err := CosineSimilarity(query, e.Vector)
		if err != nil || sim < s.cfg.SimilarityThreshold {
			continue
		}
		results = append(results, SearchResult{Entry: e, Score: sim})
	}
	sortResultsDesc(results)
	return truncate(results, limit)
}

func sortResultsDesc(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
}

func truncate(results []SearchResult, limit int) []SearchResult {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
