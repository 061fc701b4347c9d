package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// maxBatchSize is the maximum number of texts allowed in a single GenAI
// batch request; the API rejects batches over 100 items.
const maxBatchSize = 100

func int32Ptr(i int32) *int32 { return &i }

// GenAIEngine generates embeddings using Google's Gemini API.
type GenAIEngine struct {
	client   *genai.Client
	model    string
	taskType string
}

// NewGenAIEngine creates a new GenAI embedding engine.
func NewGenAIEngine(apiKey, model, taskType string) (*GenAIEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-embedding-001"
	}
	if taskType == "" {
		taskType = "SEMANTIC_SIMILARITY"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIEngine{client: client, model: model, taskType: taskType}, nil
}

// Embed generates an embedding for a single text, using the engine's
// default task type (set at construction).
func (e *GenAIEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedWithTaskType(ctx, text, e.taskType)
}

// EmbedWithTaskType generates an embedding for a single text using the
// given GenAI task type, satisfying TaskTypeAware so the Service can bias
// embeddings toward RETRIEVAL_QUERY vs. RETRIEVAL_DOCUMENT per content type
// (see task_selector.go).
func (e *GenAIEngine) EmbedWithTaskType(ctx context.Context, text, taskType string) ([]float32, error) {
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: int32Ptr(int32(e.Dimensions())),
		TaskType:             taskType,
	})
	if err != nil {
		return nil, fmt.Errorf("GenAI embed failed: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return result.Embeddings[0].Values, nil
}

// EmbedBatch generates embeddings for multiple texts, chunking into
// maxBatchSize-sized requests and concatenating the results, using the
// engine's default task type.
func (e *GenAIEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedBatchWithTaskType(ctx, texts, e.taskType)
}

// EmbedBatchWithTaskType is the TaskTypeAware batch counterpart of
// EmbedWithTaskType.
func (e *GenAIEngine) EmbedBatchWithTaskType(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if len(texts) <= maxBatchSize {
		return e.embedBatchChunk(ctx, texts, taskType)
	}

	numBatches := (len(texts) + maxBatchSize - 1) / maxBatchSize
	all := make([][]float32, 0, len(texts))
	for batchIdx := 0; batchIdx < numBatches; batchIdx++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		start := batchIdx * maxBatchSize
		end := start + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		chunk, err := e.embedBatchChunk(ctx, texts[start:end], taskType)
		if err != nil {
			return nil, fmt.Errorf("batch %d/%d failed: %w", batchIdx+1, numBatches, err)
		}
		all = append(all, chunk...)
	}
	return all, nil
}

func (e *GenAIEngine) embedBatchChunk(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}
	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: int32Ptr(int32(e.Dimensions())),
		TaskType:             taskType,
	})
	if err != nil {
		return nil, fmt.Errorf("GenAI batch embed failed: %w", err)
	}
	embeddings := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		embeddings[i] = emb.Values
	}
	return embeddings, nil
}

// Dimensions returns the dimensionality of embeddings produced by
// gemini-embedding-001.
func (e *GenAIEngine) Dimensions() int { return 3072 }

func (e *GenAIEngine) Name() string { return fmt.Sprintf("genai:%s", e.model) }

// HealthCheck issues a tiny embed call to confirm the API key and model are
// reachable, satisfying the optional HealthChecker interface.
func (e *GenAIEngine) HealthCheck(ctx context.Context) error {
	_, err := e.Embed(ctx, "health check")
	return err
}
