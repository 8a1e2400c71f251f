// Package knowledgebase queries a managed Bedrock knowledge base through
// the Agent Runtime Retrieve and RetrieveAndGenerate APIs.
package knowledgebase

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/rs/zerolog/log"

	"github.com/promptfoundry/bedrocklab/bedrock"
)

// AgentRuntimeAPI is the subset of the Bedrock Agent Runtime client used by
// this package. Satisfied by *bedrockagentruntime.Client.
type AgentRuntimeAPI interface {
	Retrieve(ctx context.Context, params *bedrockagentruntime.RetrieveInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveOutput, error)
	RetrieveAndGenerate(ctx context.Context, params *bedrockagentruntime.RetrieveAndGenerateInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveAndGenerateOutput, error)
}

// Result is one retrieved passage from the knowledge base.
type Result struct {
	Content   string
	Score     float64
	SourceURI string
}

// Citation links a span of generated text to its retrieved sources.
type Citation struct {
	Text       string
	SourceURIs []string
}

// GeneratedAnswer is the output of RetrieveAndGenerate.
type GeneratedAnswer struct {
	Text      string
	Citations []Citation
	SessionID string
}

type options struct {
	region  string
	profile string
	client  AgentRuntimeAPI
}

// Option configures the knowledge base client.
type Option = func(*options)

// WithRegion overrides the region resolved from the AWS credential chain.
func WithRegion(region string) Option {
	return func(o *options) {
		o.region = region
	}
}

// WithProfile selects a shared-config profile.
func WithProfile(profile string) Option {
	return func(o *options) {
		o.profile = profile
	}
}

// WithClient supplies a preconstructed Agent Runtime client, bypassing the
// AWS credential chain. Mainly useful in tests.
func WithClient(client AgentRuntimeAPI) Option {
	return func(o *options) {
		o.client = client
	}
}

// Client queries one knowledge base. Follow-up RetrieveAndGenerate calls
// reuse the server-side session so the model keeps conversational context.
type Client struct {
	knowledgeBaseID string
	client          AgentRuntimeAPI
	sessionID       string
}

// New creates a client bound to a knowledge base ID.
func New(ctx context.Context, knowledgeBaseID string, opts ...Option) (*Client, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	client := o.client
	if client == nil {
		var loadOpts []func(*awsconfig.LoadOptions) error
		if o.region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(o.region))
		}
		if o.profile != "" {
			loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(o.profile))
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = bedrockagentruntime.NewFromConfig(cfg)
	}

	return &Client{
		knowledgeBaseID: knowledgeBaseID,
		client:          client,
	}, nil
}

// SessionID returns the RetrieveAndGenerate session ID, empty before the
// first call.
func (c *Client) SessionID() string {
	return c.sessionID
}

// ResetSession starts the next RetrieveAndGenerate call on a fresh session.
func (c *Client) ResetSession() {
	c.sessionID = ""
}

// Retrieve returns the topK passages most relevant to the query.
func (c *Client) Retrieve(ctx context.Context, query string, topK int32) ([]Result, error) {
	output, err := c.client.Retrieve(ctx, &bedrockagentruntime.RetrieveInput{
		KnowledgeBaseId: aws.String(c.knowledgeBaseID),
		RetrievalQuery: &types.KnowledgeBaseQuery{
			Text: aws.String(query),
		},
		RetrievalConfiguration: &types.KnowledgeBaseRetrievalConfiguration{
			VectorSearchConfiguration: &types.KnowledgeBaseVectorSearchConfiguration{
				NumberOfResults: aws.Int32(topK),
			},
		},
	})
	if err != nil {
		return nil, bedrock.ConvertAWSError(err)
	}

	results := make([]Result, 0, len(output.RetrievalResults))
	for _, r := range output.RetrievalResults {
		result := Result{SourceURI: sourceURI(r.Location)}
		if r.Content != nil && r.Content.Text != nil {
			result.Content = *r.Content.Text
		}
		if r.Score != nil {
			result.Score = *r.Score
		}
		results = append(results, result)
	}

	log.Debug().
		Str("knowledge_base_id", c.knowledgeBaseID).
		Int("results", len(results)).
		Msg("knowledge base retrieval")
	return results, nil
}

// Ask runs RetrieveAndGenerate against the knowledge base with the given
// model ARN. The first call sends no session ID; the service mints one and
// later calls carry it forward. Sending a made-up ID on the first call is a
// ValidationException.
func (c *Client) Ask(ctx context.Context, query, modelARN string) (*GeneratedAnswer, error) {
	input := &bedrockagentruntime.RetrieveAndGenerateInput{
		Input: &types.RetrieveAndGenerateInput{
			Text: aws.String(query),
		},
		RetrieveAndGenerateConfiguration: &types.RetrieveAndGenerateConfiguration{
			Type: types.RetrieveAndGenerateTypeKnowledgeBase,
			KnowledgeBaseConfiguration: &types.KnowledgeBaseRetrieveAndGenerateConfiguration{
				KnowledgeBaseId: aws.String(c.knowledgeBaseID),
				ModelArn:        aws.String(modelARN),
			},
		},
	}
	if c.sessionID != "" {
		input.SessionId = aws.String(c.sessionID)
	}

	output, err := c.client.RetrieveAndGenerate(ctx, input)
	if err != nil {
		return nil, bedrock.ConvertAWSError(err)
	}

	if output.SessionId != nil {
		c.sessionID = *output.SessionId
	}

	answer := &GeneratedAnswer{SessionID: c.sessionID}
	if output.Output != nil && output.Output.Text != nil {
		answer.Text = *output.Output.Text
	}
	for _, citation := range output.Citations {
		answer.Citations = append(answer.Citations, convertCitation(citation))
	}
	return answer, nil
}

func convertCitation(citation types.Citation) Citation {
	var converted Citation
	if part := citation.GeneratedResponsePart; part != nil &&
		part.TextResponsePart != nil && part.TextResponsePart.Text != nil {
		converted.Text = *part.TextResponsePart.Text
	}
	for _, ref := range citation.RetrievedReferences {
		if uri := sourceURI(ref.Location); uri != "" {
			converted.SourceURIs = append(converted.SourceURIs, uri)
		}
	}
	return converted
}

func sourceURI(location *types.RetrievalResultLocation) string {
	if location == nil || location.S3Location == nil || location.S3Location.Uri == nil {
		return ""
	}
	return *location.S3Location.Uri
}
