package embedding

import (
	"math"
	"sort"
	"strings"
)

// Cluster groups a set of index entries that are mutually similar, carrying
// the summary statistics the spec requires alongside membership.
type Cluster struct {
	ID            int
	Members       []string
	Centroid      []float32
	Size          int
	AvgSimilarity float64
	Label         string
}

// ClusterContent runs agglomerative clustering with cosine linkage over
// every indexed entry: at each step the two clusters with the highest
// single-linkage similarity (the maximum cosine similarity between any pair
// of their members) are merged, stopping once the best available linkage
// falls below Config.ClusteringThreshold.
func (s *Service) ClusterContent() []Cluster {
	return agglomerativeCluster(s.index.All(), s.cfg.ClusteringThreshold)
}

// group is one working cluster during agglomeration: its member ids plus
// their vectors, kept alongside each other so linkage and centroid
// computation never have to re-resolve ids through the index.
type group struct {
	ids     []string
	vectors [][]float32
}

// agglomerativeCluster merges entries into clusters while the best
// available single-linkage similarity between any two clusters meets
// threshold. Starting from singleton clusters and always merging the
// closest pair is the textbook agglomerative algorithm; with threshold <= -1
// it merges every entry into one cluster.
func agglomerativeCluster(entries []*IndexEntry, threshold float64) []Cluster {
	if len(entries) == 0 {
		return nil
	}
	groups := make([]*group, len(entries))
	for i, e := range entries {
		groups[i] = &group{ids: []string{e.ID}, vectors: [][]float32{e.Vector}}
	}

	for len(groups) > 1 {
		bestI, bestJ, bestLinkage := -1, -1, math.Inf(-1)
		for i := 0; i < len(groups); i++ {
			for j := i + 1; j < len(groups); j++ {
				link := maxLinkage(groups[i].vectors, groups[j].vectors)
				if link > bestLinkage {
					bestLinkage, bestI, bestJ = link, i, j
				}
			}
		}
		if bestLinkage < threshold {
			break
		}
		merged := &group{
			ids:     append(append([]string{}, groups[bestI].ids...), groups[bestJ].ids...),
			vectors: append(append([][]float32{}, groups[bestI].vectors...), groups[bestJ].vectors...),
		}
		next := make([]*group, 0, len(groups)-1)
		for i, g := range groups {
			if i != bestI && i != bestJ {
				next = append(next, g)
			}
		}
		groups = append(next, merged)
	}

	clusters := make([]Cluster, len(groups))
	for i, g := range groups {
		clusters[i] = Cluster{
			ID:            i,
			Members:       g.ids,
			Centroid:      centroidOf(g.vectors),
			Size:          len(g.ids),
			AvgSimilarity: intraClusterSimilarity(g.vectors),
		}
	}
	return clusters
}

// maxLinkage is the single-linkage similarity between two clusters: the
// highest cosine similarity between any member of a and any member of b.
func maxLinkage(a, b [][]float32) float64 {
	best := math.Inf(-1)
	for _, va := range a {
		for _, vb := range b {
			sim, err := CosineSimilarity(va, vb)
			if err == nil && sim > best {
				best = sim
			}
		}
	}
	return best
}

// intraClusterSimilarity is the mean pairwise cosine similarity among a
// cluster's own members. A singleton cluster has no pair to average, so it
// reports perfect coherence (1.0) rather than an undefined value.
func intraClusterSimilarity(vectors [][]float32) float64 {
	if len(vectors) < 2 {
		return 1
	}
	var sum float64
	var count int
	for i := 0; i < len(vectors); i++ {
		for j := i + 1; j < len(vectors); j++ {
			sim, err := CosineSimilarity(vectors[i], vectors[j])
			if err == nil {
				sum += sim
				count++
			}
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func centroidOf(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	dim := len(vectors[0])
	sum := make([]float64, dim)
	for _, v := range vectors {
		for d, x := range v {
			if d < dim {
				sum[d] += float64(x)
			}
		}
	}
	out := make([]float32, dim)
	for d := range out {
		out[d] = float32(sum[d] / float64(len(vectors)))
	}
	return out
}

// HierarchicalLevel is one depth of a hierarchical clustering run: the
// threshold used to produce it and the resulting clusters.
type HierarchicalLevel struct {
	Depth     int
	Threshold float64
	Clusters  []Cluster
}

// HierarchicalClustering runs repeated agglomerative clustering passes over
// entries of the given content types (all types if empty), one per level up
// to maxDepth. Each level re-clusters the previous level's clusters
// (represented by their centroids) at a lower, more permissive threshold
// than the level before it, so the tree coarsens as depth increases;
// clustering stops early if a level collapses to a single cluster.
func (s *Service) HierarchicalClustering(types []ContentType, maxDepth int) []HierarchicalLevel {
	if maxDepth <= 0 {
		maxDepth = 1
	}
	var entries []*IndexEntry
	if len(types) == 0 {
		entries = s.index.All()
	} else {
		for _, ct := range types {
			entries = append(entries, s.index.ByContentType(ct)...)
		}
	}
	if len(entries) == 0 {
		return nil
	}

	base := s.cfg.ClusteringThreshold
	if base <= 0 {
		base = 0.8
	}
	decay := base / float64(maxDepth+1)

	levels := make([]HierarchicalLevel, 0, maxDepth)
	threshold := base
	current := entries
	for depth := 1; depth <= maxDepth; depth++ {
		clusters := agglomerativeCluster(current, threshold)
		levels = append(levels, HierarchicalLevel{Depth: depth, Threshold: threshold, Clusters: clusters})
		if len(clusters) <= 1 {
			break
		}
		current = clusterCentroidsAsEntries(clusters)
		threshold -= decay
		if threshold < 0 {
			threshold = 0
		}
	}
	return levels
}

// clusterCentroidsAsEntries lets the next hierarchy level re-cluster over
// the previous level's cluster centroids, reusing agglomerativeCluster
// unchanged.
func clusterCentroidsAsEntries(clusters []Cluster) []*IndexEntry {
	out := make([]*IndexEntry, len(clusters))
	for i, c := range clusters {
		out[i] = &IndexEntry{ID: strings.Join(c.Members, ","), Vector: c.Centroid}
	}
	return out
}

// AutoLabelClusters derives a human-readable label for each cluster from
// its members' most frequent tags, falling back to the dominant content
// type when no tags are present.
func (s *Service) AutoLabelClusters(clusters []Cluster) []Cluster {
	labeled := make([]Cluster, len(clusters))
	copy(labeled, clusters)
	for i := range labeled {
		tagCounts := make(map[string]int)
		typeCounts := make(map[ContentType]int)
		for _, id := range labeled[i].Members {
			e, ok := s.index.Get(id)
			if !ok {
				continue
			}
			typeCounts[e.ContentType]++
			for _, t := range e.Tags {
				tagCounts[strings.ToLower(t)]++
			}
		}
		if label := topKey(tagCounts); label != "" {
			labeled[i].Label = label
			continue
		}
		labeled[i].Label = string(topContentType(typeCounts))
	}
	return labeled
}

func topKey(counts map[string]int) string {
	best, bestCount := "", 0
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}

func topContentType(counts map[ContentType]int) ContentType {
	var best ContentType
	bestCount := 0
	for ct, c := range counts {
		if c > bestCount {
			best, bestCount = ct, c
		}
	}
	return best
}

// FindOutliers returns entries of contentType whose maximum similarity to
// any other entry of the *same* content type falls below threshold —
// candidates for review since they don't cluster with any same-type peer.
// An entry with no same-type peer at all is trivially an outlier.
func (s *Service) FindOutliers(contentType ContentType, threshold float64) []*IndexEntry {
	sameType := s.index.ByContentType(contentType)
	var outliers []*IndexEntry
	for i, a := range sameType {
		best := math.Inf(-1)
		for j, b := range sameType {
			if i == j {
				continue
			}
			sim, err := CosineSimilarity(a.Vector, b.Vector)
			if err == nil && sim > best {
				best = sim
			}
		}
		if best < threshold {
			outliers = append(outliers, a)
		}
	}
	return outliers
}

// CalculateDiversity returns 1 minus the mean pairwise cosine similarity
// among the entries named by ids (entries not found in the index are
// skipped). Fewer than two resolvable entries yields 0.
func (s *Service) CalculateDiversity(ids []string) float64 {
	var vectors [][]float32
	for _, id := range ids {
		if e, ok := s.index.Get(id); ok {
			vectors = append(vectors, e.Vector)
		}
	}
	if len(vectors) < 2 {
		return 0
	}
	var sum float64
	var count int
	for i := 0; i < len(vectors); i++ {
		for j := i + 1; j < len(vectors); j++ {
			sim, err := CosineSimilarity(vectors[i], vectors[j])
			if err == nil {
				sum += sim
				count++
			}
		}
	}
	if count == 0 {
		return 0
	}
	return 1 - sum/float64(count)
}

// Point2D is a 2-dimensional projection of one indexed entry.
type Point2D struct {
	ID   string
	X, Y float64
}

// GetTSNECoordinates projects every indexed vector to two dimensions via
// PCA computed by power iteration (deterministic, no randomness — the
// resolved design choice for reproducible coordinates across runs).
func (s *Service) GetTSNECoordinates() []Point2D {
	all := s.index.All()
	if len(all) == 0 {
		return nil
	}
	dim := len(all[0].Vector)
	mean := make([]float64, dim)
	for _, e := range all {
		for d, v := range e.Vector {
			mean[d] += float64(v)
		}
	}
	for d := range mean {
		mean[d] /= float64(len(all))
	}

	centered := make([][]float64, len(all))
	for i, e := range all {
		row := make([]float64, dim)
		for d, v := range e.Vector {
			row[d] = float64(v) - mean[d]
		}
		centered[i] = row
	}

	pc1 := powerIterationComponent(centered, dim, nil)
	pc2 := powerIterationComponent(centered, dim, pc1)

	points := make([]Point2D, len(all))
	for i, row := range centered {
		points[i] = Point2D{ID: all[i].ID, X: dotProduct(row, pc1), Y: dotProduct(row, pc2)}
	}
	return points
}

// powerIterationComponent finds the dominant eigenvector of the covariance
// matrix implied by rows, deflating out a previously found component when
// given (to produce an orthogonal second principal axis).
func powerIterationComponent(rows [][]float64, dim int, deflate []float64) []float64 {
	v := make([]float64, dim)
	for d := range v {
		v[d] = 1.0 / float64(dim+1) * float64(d+1)
	}
	const iterations = 50
	for iter := 0; iter < iterations; iter++ {
		next := make([]float64, dim)
		for _, row := range rows {
			proj := dotProduct(row, v)
			for d := range next {
				next[d] += proj * row[d]
			}
		}
		if deflate != nil {
			proj := dotProduct(next, deflate)
			for d := range next {
				next[d] -= proj * deflate[d]
			}
		}
		norm := math.Sqrt(dotProduct(next, next))
		if norm < 1e-12 {
			break
		}
		for d := range next {
			next[d] /= norm
		}
		v = next
	}
	return v
}

func dotProduct(a, b []float64) float64 {
	var sum float64
	for i := range a {
		if i >= len(b) {
			break
		}
		sum += a[i] * b[i]
	}
	return sum
}
