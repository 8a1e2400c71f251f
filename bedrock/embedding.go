package bedrock

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/promptfoundry/bedrocklab"
)

// titanEmbedRequest is the InvokeModel body for Titan Text Embeddings V2.
type titanEmbedRequest struct {
	InputText  string `json:"inputText"`
	Dimensions *int64 `json:"dimensions,omitempty"`
	Normalize  *bool  `json:"normalize,omitempty"`
}

// titanEmbedResponse is the InvokeModel response body for Titan Text
// Embeddings V2.
type titanEmbedResponse struct {
	Embedding           []float32 `json:"embedding"`
	InputTextTokenCount int64     `json:"inputTextTokenCount"`
}

// embeddingModel implements bedrocklab.EmbeddingModel on the Bedrock Runtime
// InvokeModel API, using the Titan embeddings request format. Titan accepts
// one input per invocation, so batch calls fan out sequentially.
type embeddingModel struct {
	modelID  string
	provider string
	client   InvokeAPI
}

// Model returns the model ID.
func (m *embeddingModel) Model() string {
	return m.modelID
}

// Provider returns the provider name.
func (m *embeddingModel) Provider() string {
	return m.provider
}

// Embed generates embeddings for the call's input or inputs.
func (m *embeddingModel) Embed(ctx context.Context, call bedrocklab.EmbeddingCall) (*bedrocklab.EmbeddingResponse, error) {
	if err := bedrocklab.ValidateEmbeddingCall(call); err != nil {
		return nil, err
	}

	inputs := call.Inputs
	if call.Input != nil {
		inputs = []string{*call.Input}
	}

	response := &bedrocklab.EmbeddingResponse{
		Model:      m.modelID,
		Embeddings: make([]bedrocklab.Embedding, 0, len(inputs)),
	}

	for i, input := range inputs {
		vector, tokens, err := m.embedOne(ctx, input, call.Dimensions)
		if err != nil {
			return nil, fmt.Errorf("failed to embed input %d: %w", i, err)
		}

		response.Embeddings = append(response.Embeddings, bedrocklab.Embedding{
			Index:  i,
			Vector: vector,
		})
		response.Usage.Add(bedrocklab.Usage{
			InputTokens: tokens,
			TotalTokens: tokens,
		})
	}

	return response, nil
}

// embedOne invokes the embeddings model for a single input.
func (m *embeddingModel) embedOne(ctx context.Context, input string, dimensions *int64) ([]float32, int64, error) {
	body, err := json.Marshal(titanEmbedRequest{
		InputText:  input,
		Dimensions: dimensions,
		Normalize:  aws.Bool(true),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal embed request: %w", err)
	}

	output, err := m.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(m.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, 0, ConvertAWSError(err)
	}

	var parsed titanEmbedResponse
	if err := json.Unmarshal(output.Body, &parsed); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal embed response: %w", err)
	}
	if len(parsed.Embedding) == 0 {
		return nil, 0, fmt.Errorf("embed response contained no vector")
	}

	return parsed.Embedding, parsed.InputTextTokenCount, nil
}
