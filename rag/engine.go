package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/promptfoundry/bedrocklab"
)

// MinScore is the similarity floor below which retrieved chunks are treated
// as irrelevant.
const MinScore = 0.25

// NoContextAnswer is returned when nothing relevant was retrieved, instead
// of asking the model to answer unsupported.
const NoContextAnswer = "I don't have any indexed material relevant to that question."

// Answer is a grounded response with the chunks it was grounded on.
type Answer struct {
	Text    string
	Sources []SearchResult
	Usage   bedrocklab.Usage
}

// Engine ties an embedding model, a vector index, and a language model into
// retrieve-then-generate.
type Engine struct {
	embedder bedrocklab.EmbeddingModel
	model    bedrocklab.LanguageModel
	index    *Index
	chunker  Chunker
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithChunker overrides the default chunker.
func WithChunker(chunker Chunker) EngineOption {
	return func(e *Engine) {
		e.chunker = chunker
	}
}

// NewEngine creates a RAG engine with an empty index.
func NewEngine(embedder bedrocklab.EmbeddingModel, model bedrocklab.LanguageModel, opts ...EngineOption) *Engine {
	e := &Engine{
		embedder: embedder,
		model:    model,
		index:    NewIndex(),
		chunker:  DefaultChunker(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Index exposes the underlying vector index.
func (e *Engine) Index() *Index {
	return e.index
}

// IndexDocuments chunks, embeds, and indexes the documents. Embeddings for
// all chunks of a batch go through one embedding call.
func (e *Engine) IndexDocuments(ctx context.Context, docs ...Document) (int, error) {
	var chunks []Chunk
	for _, doc := range docs {
		split, err := e.chunker.Split(doc)
		if err != nil {
			return 0, fmt.Errorf("failed to chunk document %s: %w", doc.ID, err)
		}
		chunks = append(chunks, split...)
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	inputs := make([]string, len(chunks))
	for i, chunk := range chunks {
		inputs[i] = chunk.Content
	}

	response, err := e.embedder.Embed(ctx, bedrocklab.EmbeddingCall{Inputs: inputs})
	if err != nil {
		return 0, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(response.Embeddings) != len(chunks) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(response.Embeddings), len(chunks))
	}

	for i := range chunks {
		chunks[i].Embedding = response.Embeddings[i].Vector
	}
	if err := e.index.Add(chunks...); err != nil {
		return 0, err
	}

	log.Debug().Int("chunks", len(chunks)).Int("documents", len(docs)).Msg("indexed documents")
	return len(chunks), nil
}

// Retrieve embeds the query and returns the top-k relevant chunks, dropping
// anything below MinScore.
func (e *Engine) Retrieve(ctx context.Context, query string, k int) ([]SearchResult, error) {
	response, err := e.embedder.Embed(ctx, bedrocklab.EmbeddingCall{Input: bedrocklab.Opt(query)})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(response.Embeddings) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}

	results, err := e.index.Search(response.Embeddings[0].Vector, k)
	if err != nil {
		return nil, err
	}

	relevant := results[:0]
	for _, result := range results {
		if result.Score >= MinScore {
			relevant = append(relevant, result)
		}
	}
	return relevant, nil
}

// Query answers a question from the indexed material. With no relevant
// context, the model is not called and the answer declines.
func (e *Engine) Query(ctx context.Context, question string, k int) (*Answer, error) {
	results, err := e.Retrieve(ctx, question, k)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &Answer{Text: NoContextAnswer}, nil
	}

	response, err := e.model.Generate(ctx, bedrocklab.Call{
		Prompt: bedrocklab.Prompt{
			bedrocklab.NewSystemMessage(groundingSystemPrompt),
			bedrocklab.NewUserMessage(buildGroundedPrompt(question, results)),
		},
	})
	if err != nil {
		return nil, err
	}

	return &Answer{
		Text:    response.Content.Text(),
		Sources: results,
		Usage:   response.Usage,
	}, nil
}

const groundingSystemPrompt = "You answer questions using only the provided context. " +
	"If the context does not contain the answer, say so. " +
	"Cite context blocks by their number, like [1]."

// buildGroundedPrompt renders the retrieved chunks as numbered context
// blocks ahead of the question.
func buildGroundedPrompt(question string, results []SearchResult) string {
	var sb strings.Builder
	sb.WriteString("Context:\n")
	for i, result := range results {
		fmt.Fprintf(&sb, "[%d] (%s)\n%s\n\n", i+1, result.Chunk.Source, result.Chunk.Content)
	}
	sb.WriteString("Question: ")
	sb.WriteString(question)
	return sb.String()
}
