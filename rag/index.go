package rag

import (
	"fmt"
	"sort"
	"sync"

	"github.com/viterin/vek/vek32"
)

// Index is a flat in-memory vector index. Vectors are normalized on insert,
// so cosine similarity reduces to a dot product at query time.
type Index struct {
	mu     sync.RWMutex
	dim    int
	chunks []Chunk
}

// NewIndex creates an empty index. The dimension is fixed by the first
// vector added.
func NewIndex() *Index {
	return &Index{}
}

// normalize scales v to unit length in place. A zero vector is left alone.
func normalize(v []float32) {
	norm := vek32.Norm(v)
	if norm == 0 {
		return
	}
	vek32.DivNumber_Inplace(v, norm)
}

// Add stores chunks with their embeddings. Every embedding must have the
// same dimension as the first one added.
func (idx *Index) Add(chunks ...Chunk) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("chunk %s has no embedding", chunk.ID)
		}
		if idx.dim == 0 {
			idx.dim = len(chunk.Embedding)
		}
		if len(chunk.Embedding) != idx.dim {
			return fmt.Errorf("chunk %s has dimension %d, index has %d", chunk.ID, len(chunk.Embedding), idx.dim)
		}

		normalize(chunk.Embedding)
		idx.chunks = append(idx.chunks, chunk)
	}
	return nil
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.chunks)
}

// Search returns the k chunks most similar to the query vector, ordered by
// descending cosine similarity. Ties keep insertion order.
func (idx *Index) Search(query []float32, k int) ([]SearchResult, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.chunks) == 0 {
		return nil, nil
	}
	if len(query) != idx.dim {
		return nil, fmt.Errorf("query has dimension %d, index has %d", len(query), idx.dim)
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	q := make([]float32, len(query))
	copy(q, query)
	normalize(q)

	results := make([]SearchResult, len(idx.chunks))
	for i, chunk := range idx.chunks {
		results[i] = SearchResult{
			Chunk: chunk,
			Score: float64(vek32.Dot(q, chunk.Embedding)),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}
