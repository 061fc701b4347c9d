package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
)

// deterministicEngine produces reproducible, dependency-free embeddings by
// hashing n-grams of the input text into a fixed-width vector. It needs no
// network access and no API key, so it is the default provider and the
// backbone of every test in this module.
type deterministicEngine struct {
	dimensions int
}

func newDeterministicEngine(cfg Config) *deterministicEngine {
	dim := cfg.Dimensions
	if dim <= 0 {
		dim = 384
	}
	return &deterministicEngine{dimensions: dim}
}

func (e *deterministicEngine) Embed(_ context.Context, text string) ([]float32, error) {
	return hashEmbed(text, e.dimensions), nil
}

func (e *deterministicEngine) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = hashEmbed(t, e.dimensions)
	}
	return out, nil
}

func (e *deterministicEngine) Dimensions() int { return e.dimensions }

func (e *deterministicEngine) Name() string { return fmt.Sprintf("deterministic:%d", e.dimensions) }

func (e *deterministicEngine) HealthCheck(_ context.Context) error { return nil }

// hashEmbed folds SHA-256 hashes of every token from tokenize (whole words
// plus their overlapping trigrams) into a dim-length vector, then
// normalizes it to unit length so CosineSimilarity behaves the same way it
// would for a model-backed embedding.
func hashEmbed(text string, dim int) []float32 {
	v := make([]float32, dim)
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return v
	}
	for _, tok := range tokens {
		sum := sha256.Sum256([]byte(tok))
		for i := 0; i < dim; i++ {
			byteIdx := (i * 4) % (len(sum) - 4)
			bits := binary.BigEndian.Uint32(sum[byteIdx : byteIdx+4])
			sign := float32(1)
			if bits&1 == 1 {
				sign = -1
			}
			v[i] += sign * float32(bits%1000) / 1000.0
		}
	}
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return v
	}
	norm := float32(math.Sqrt(sumSq))
	for i := range v {
		v[i] /= norm
	}
	return v
}

// tokenize splits text into lowercase word tokens plus their trigrams,
// giving the hash embedding some sensitivity to substrings, not just whole
// words.
func tokenize(text string) []string {
	var words []string
	var cur []rune
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			cur = append(cur, toLower(r))
		} else if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}
	if len(cur) > 0 {
		words = append(words, string(cur))
	}
	tokens := make([]string, 0, len(words)*2)
	tokens = append(tokens, words...)
	for _, w := range words {
		runes := []rune(w)
		for i := 0; i+3 <= len(runes); i++ {
			tokens = append(tokens, string(runes[i:i+3]))
		}
	}
	return tokens
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
