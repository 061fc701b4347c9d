// Package embedding implements the Embedding Service (component F): a
// cache-aware vector generator plus the similarity-search, clustering,
// drift, and diagnostics operations layered atop a single in-memory index.
// Backends are pluggable — Ollama (local) or Google GenAI (cloud) — behind
// a dependency-free deterministic backend used by default and by tests.
package embedding

import (
	"context"
	"math"

	"todozi/internal/todozierr"
)

// EmbeddingEngine generates vector embeddings for text. Kept under this
// name (rather than the shorter Engine) to match the convention the rest
// of the corpus uses for this interface.
type EmbeddingEngine interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Name() string
}

// HealthChecker is an optional capability a backend may implement so
// callers can probe liveness before relying on it.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// TaskTypeAware is an optional capability a backend may implement to bias
// the embedding toward a specific retrieval role — e.g. a live search query
// vs. an entity being indexed for later retrieval — instead of using one
// fixed task type for the engine's whole lifetime. The Service derives the
// task type per call from the content type being embedded via
// SelectTaskType.
type TaskTypeAware interface {
	EmbedWithTaskType(ctx context.Context, text, taskType string) ([]float32, error)
	EmbedBatchWithTaskType(ctx context.Context, texts []string, taskType string) ([][]float32, error)
}

// Config holds embedding engine configuration plus the index/cache/
// clustering behavior built on top of it (§4.5).
type Config struct {
	// Provider selects the backend: "ollama", "genai", or "deterministic".
	Provider string `yaml:"provider" json:"provider"`

	OllamaEndpoint string `yaml:"ollama_endpoint" json:"ollama_endpoint"`
	OllamaModel    string `yaml:"ollama_model" json:"ollama_model"`

	GenAIAPIKey string `yaml:"genai_api_key" json:"genai_api_key"`
	GenAIModel  string `yaml:"genai_model" json:"genai_model"`
	TaskType    string `yaml:"task_type" json:"task_type"`

	Dimensions           int     `yaml:"dimensions" json:"dimensions"`
	SimilarityThreshold  float64 `yaml:"similarity_threshold" json:"similarity_threshold"`
	MaxResults           int     `yaml:"max_results" json:"max_results"`
	CacheTTLSeconds      int     `yaml:"cache_ttl_seconds" json:"cache_ttl_seconds"`
	CacheMaxEntries      int     `yaml:"cache_max_entries" json:"cache_max_entries"`
	EnableClustering     bool    `yaml:"enable_clustering" json:"enable_clustering"`
	ClusteringThreshold  float64 `yaml:"clustering_threshold" json:"clustering_threshold"`
	VersionHistoryLength int     `yaml:"version_history_length" json:"version_history_length"`
	BatchConcurrency     int     `yaml:"batch_concurrency" json:"batch_concurrency"`

	// PersistentANN turns on the optional SQLite-backed acceleration
	// layer described in SPEC_FULL.md's domain expansion.
	PersistentANN   bool   `yaml:"persistent_ann" json:"persistent_ann"`
	ANNDatabasePath string `yaml:"ann_database_path" json:"ann_database_path"`
	ANNThreshold    int    `yaml:"ann_threshold" json:"ann_threshold"`
}

func DefaultConfig() Config {
	return Config{
		Provider:             "deterministic",
		OllamaEndpoint:       "http://localhost:11434",
		OllamaModel:          "embeddinggemma",
		GenAIModel:           "gemini-embedding-001",
		TaskType:             "SEMANTIC_SIMILARITY",
		Dimensions:           384,
		SimilarityThreshold:  0.7,
		MaxResults:           10,
		CacheTTLSeconds:      300,
		CacheMaxEntries:      4096,
		EnableClustering:     true,
		ClusteringThreshold:  0.8,
		VersionHistoryLength: 10,
		BatchConcurrency:     8,
		ANNThreshold:         2000,
	}
}

// NewEngine creates an embedding engine based on configuration.
func NewEngine(cfg Config) (EmbeddingEngine, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaEngine(cfg.OllamaEndpoint, cfg.OllamaModel)
	case "genai":
		return NewGenAIEngine(cfg.GenAIAPIKey, cfg.GenAIModel, cfg.TaskType)
	case "deterministic", "":
		return newDeterministicEngine(cfg), nil
	default:
		return nil, todozierr.Config("unsupported embedding provider %q (use ollama, genai, or deterministic)", cfg.Provider)
	}
}

// CosineSimilarity calculates the cosine similarity between two vectors.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, todozierr.Embedding(nil, "vectors must have the same length: %d != %d", len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Normalize returns v scaled to unit L2 norm. A zero vector passes through
// unchanged (ValidateEmbeddings flags zero-vector entries separately).
func Normalize(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return v
	}
	norm := math.Sqrt(sumSq)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// SimilarityResult pairs a corpus index with its similarity to a query.
type SimilarityResult struct {
	Index      int
	Similarity float64
}

// FindTopK returns the top k most-similar corpus vectors to query.
func FindTopK(query []float32, corpus [][]float32, k int) ([]SimilarityResult, error) {
	if k <= 0 {
		k = 10
	}
	results := make([]SimilarityResult, 0, len(corpus))
	for i, vec := range corpus {
		sim, err := CosineSimilarity(query, vec)
		if err != nil {
			continue
		}
		results = append(results, SimilarityResult{Index: i, Similarity: sim})
	}
	for i := 0; i < len(results) && i < k; i++ {
		best := i
		for j := i + 1; j < len(results); j++ {
			if results[j].Similarity > results[best].Similarity {
				best = j
			}
		}
		results[i], results[best] = results[best], results[i]
	}
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}
