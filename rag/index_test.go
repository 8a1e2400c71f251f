package rag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndexAdd(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty embedding", func(t *testing.T) {
		t.Parallel()
		idx := NewIndex()
		err := idx.Add(Chunk{ID: "a"})
		require.ErrorContains(t, err, "no embedding")
	})

	t.Run("rejects dimension mismatch", func(t *testing.T) {
		t.Parallel()
		idx := NewIndex()
		require.NoError(t, idx.Add(Chunk{ID: "a", Embedding: []float32{1, 0, 0}}))
		err := idx.Add(Chunk{ID: "b", Embedding: []float32{1, 0}})
		require.ErrorContains(t, err, "dimension")
		require.Equal(t, 1, idx.Len())
	})
}

func TestIndexSearch(t *testing.T) {
	t.Parallel()

	t.Run("empty index", func(t *testing.T) {
		t.Parallel()
		results, err := NewIndex().Search([]float32{1, 0}, 3)
		require.NoError(t, err)
		require.Empty(t, results)
	})

	t.Run("orders by cosine similarity", func(t *testing.T) {
		t.Parallel()
		idx := NewIndex()
		require.NoError(t, idx.Add(
			Chunk{ID: "x", Embedding: []float32{1, 0, 0}},
			Chunk{ID: "y", Embedding: []float32{0, 1, 0}},
			Chunk{ID: "xy", Embedding: []float32{1, 1, 0}},
		))

		results, err := idx.Search([]float32{1, 0, 0}, 3)
		require.NoError(t, err)
		require.Len(t, results, 3)
		require.Equal(t, "x", results[0].Chunk.ID)
		require.InDelta(t, 1.0, results[0].Score, 1e-5)
		require.Equal(t, "xy", results[1].Chunk.ID)
		require.InDelta(t, 0.7071, results[1].Score, 1e-3)
		require.Equal(t, "y", results[2].Chunk.ID)
		require.InDelta(t, 0.0, results[2].Score, 1e-5)
	})

	t.Run("scale does not change ranking", func(t *testing.T) {
		t.Parallel()
		idx := NewIndex()
		require.NoError(t, idx.Add(
			Chunk{ID: "big", Embedding: []float32{100, 0}},
			Chunk{ID: "small", Embedding: []float32{0, 0.01}},
		))

		results, err := idx.Search([]float32{0, 5}, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.Equal(t, "small", results[0].Chunk.ID)
		require.InDelta(t, 1.0, results[0].Score, 1e-5)
	})

	t.Run("clamps k to index size", func(t *testing.T) {
		t.Parallel()
		idx := NewIndex()
		require.NoError(t, idx.Add(Chunk{ID: "a", Embedding: []float32{1, 0}}))

		results, err := idx.Search([]float32{1, 0}, 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
	})

	t.Run("rejects bad k and dimension", func(t *testing.T) {
		t.Parallel()
		idx := NewIndex()
		require.NoError(t, idx.Add(Chunk{ID: "a", Embedding: []float32{1, 0}}))

		_, err := idx.Search([]float32{1, 0}, 0)
		require.ErrorContains(t, err, "k must be positive")

		_, err = idx.Search([]float32{1, 0, 0}, 1)
		require.ErrorContains(t, err, "dimension")
	})
}
