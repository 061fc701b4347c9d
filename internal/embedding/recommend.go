package embedding

import "sort"

// RecommendSimilar ranks the index against the mean vector of basedOnIDs
// (entries not found are skipped), excluding both basedOnIDs and excludeIDs
// themselves from the results — an entity never recommends itself or one of
// its own anchors.
func (s *Service) RecommendSimilar(basedOnIDs, excludeIDs []string, k int) []SearchResult {
	var vectors [][]float32
	for _, id := range basedOnIDs {
		if e, ok := s.index.Get(id); ok {
			vectors = append(vectors, e.Vector)
		}
	}
	if len(vectors) == 0 {
		return nil
	}
	centroid := centroidOf(vectors)

	skip := make(map[string]bool, len(basedOnIDs)+len(excludeIDs))
	for _, id := range basedOnIDs {
		skip[id] = true
	}
	for _, id := range excludeIDs {
		skip[id] = true
	}

	var results []SearchResult
	for _, e := range s.index.All() {
		if skip[e.ID] {
			continue
		}
		sim, err := CosineSimilarity(centroid, e.Vector)
		if err != nil {
			continue
		}
		results = append(results, SearchResult{Entry: e, Score: sim})
	}
	sortResultsDesc(results)
	return truncate(results, k)
}

// SuggestTags proposes tags for the entity at id by borrowing the most
// common tags from its nearest neighbors in the index, excluding tags it
// already carries.
func (s *Service) SuggestTags(id string, neighbors, maxSuggestions int) []string {
	target, ok := s.index.Get(id)
	if !ok {
		return nil
	}
	existing := make(map[string]bool)
	for _, t := range target.Tags {
		existing[t] = true
	}
	similar := s.RecommendSimilar([]string{id}, nil, neighbors)
	counts := make(map[string]int)
	for _, r := range similar {
		for _, t := range r.Entry.Tags {
			if !existing[t] {
				counts[t]++
			}
		}
	}
	type tagCount struct {
		tag   string
		count int
	}
	tcs := make([]tagCount, 0, len(counts))
	for t, c := range counts {
		tcs = append(tcs, tagCount{t, c})
	}
	sort.Slice(tcs, func(i, j int) bool {
		if tcs[i].count != tcs[j].count {
			return tcs[i].count > tcs[j].count
		}
		return tcs[i].tag < tcs[j].tag
	})
	if maxSuggestions <= 0 || maxSuggestions > len(tcs) {
		maxSuggestions = len(tcs)
	}
	out := make([]string, maxSuggestions)
	for i := 0; i < maxSuggestions; i++ {
		out[i] = tcs[i].tag
	}
	return out
}
