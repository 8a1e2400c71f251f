package bedrock

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/require"

	"github.com/promptfoundry/bedrocklab"
)

// fakeInvokeAPI returns a canned Titan embeddings body per invocation.
type fakeInvokeAPI struct {
	requests []titanEmbedRequest
	vector   []float32
	tokens   int64
	err      error
}

func (f *fakeInvokeAPI) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	if f.err != nil {
		return nil, f.err
	}

	var req titanEmbedRequest
	if err := json.Unmarshal(params.Body, &req); err != nil {
		return nil, err
	}
	f.requests = append(f.requests, req)

	body, err := json.Marshal(titanEmbedResponse{
		Embedding:           f.vector,
		InputTextTokenCount: f.tokens,
	})
	if err != nil {
		return nil, err
	}
	return &bedrockruntime.InvokeModelOutput{Body: body}, nil
}

func TestEmbed_SingleInput(t *testing.T) {
	t.Parallel()

	fake := &fakeInvokeAPI{vector: []float32{0.1, 0.2, 0.3}, tokens: 7}
	model := &embeddingModel{
		modelID:  DefaultEmbeddingModelID,
		provider: Name,
		client:   fake,
	}

	response, err := model.Embed(context.Background(), bedrocklab.EmbeddingCall{
		Input: bedrocklab.Opt("hello world"),
	})
	require.NoError(t, err)

	require.Len(t, response.Embeddings, 1)
	require.Equal(t, []float32{0.1, 0.2, 0.3}, response.Embeddings[0].Vector)
	require.Equal(t, int64(7), response.Usage.InputTokens)

	require.Len(t, fake.requests, 1)
	require.Equal(t, "hello world", fake.requests[0].InputText)
	require.NotNil(t, fake.requests[0].Normalize)
	require.True(t, *fake.requests[0].Normalize)
}

func TestEmbed_BatchInputs(t *testing.T) {
	t.Parallel()

	fake := &fakeInvokeAPI{vector: []float32{1, 0}, tokens: 3}
	model := &embeddingModel{
		modelID:  DefaultEmbeddingModelID,
		provider: Name,
		client:   fake,
	}

	response, err := model.Embed(context.Background(), bedrocklab.EmbeddingCall{
		Inputs: []string{"first", "second", "third"},
	})
	require.NoError(t, err)

	require.Len(t, response.Embeddings, 3)
	for i, embedding := range response.Embeddings {
		require.Equal(t, i, embedding.Index)
	}
	require.Equal(t, int64(9), response.Usage.InputTokens)
	require.Len(t, fake.requests, 3)
}

func TestEmbed_Dimensions(t *testing.T) {
	t.Parallel()

	fake := &fakeInvokeAPI{vector: []float32{1}, tokens: 1}
	model := &embeddingModel{
		modelID:  DefaultEmbeddingModelID,
		provider: Name,
		client:   fake,
	}

	_, err := model.Embed(context.Background(), bedrocklab.EmbeddingCall{
		Input:      bedrocklab.Opt("x"),
		Dimensions: bedrocklab.Opt(int64(512)),
	})
	require.NoError(t, err)
	require.NotNil(t, fake.requests[0].Dimensions)
	require.Equal(t, int64(512), *fake.requests[0].Dimensions)
}

func TestEmbed_InvalidCall(t *testing.T) {
	t.Parallel()

	model := &embeddingModel{modelID: DefaultEmbeddingModelID, provider: Name}

	_, err := model.Embed(context.Background(), bedrocklab.EmbeddingCall{})
	require.Error(t, err)

	_, err = model.Embed(context.Background(), bedrocklab.EmbeddingCall{
		Input:  bedrocklab.Opt("x"),
		Inputs: []string{"y"},
	})
	require.Error(t, err)
}

func TestEmbed_APIError(t *testing.T) {
	t.Parallel()

	fake := &fakeInvokeAPI{err: &mockAPIError{code: "ValidationException", message: "bad input"}}
	model := &embeddingModel{
		modelID:  DefaultEmbeddingModelID,
		provider: Name,
		client:   fake,
	}

	_, err := model.Embed(context.Background(), bedrocklab.EmbeddingCall{
		Input: bedrocklab.Opt("x"),
	})
	require.Error(t, err)
}
