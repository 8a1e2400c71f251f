// Package guardrail applies Bedrock guardrails to text standalone and as a
// language model wrapper.
package guardrail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/promptfoundry/bedrocklab/bedrock"
)

// ApplyAPI is the subset of the Bedrock Runtime client used by this package.
// Satisfied by *bedrockruntime.Client.
type ApplyAPI interface {
	ApplyGuardrail(ctx context.Context, params *bedrockruntime.ApplyGuardrailInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ApplyGuardrailOutput, error)
}

// Action is the guardrail's verdict on a piece of text.
type Action string

const (
	// ActionNone means the text passed unchanged.
	ActionNone Action = "NONE"
	// ActionIntervened means the guardrail blocked or rewrote the text.
	ActionIntervened Action = "GUARDRAIL_INTERVENED"
)

// Assessment is the flattened result of applying a guardrail.
type Assessment struct {
	Action Action
	// Reasons lists the policies that fired, one string per topic, content
	// filter, word, or PII entity.
	Reasons []string
	// MaskedText is the guardrail's replacement output when it intervened,
	// empty otherwise.
	MaskedText string
}

// Intervened reports whether the guardrail blocked or rewrote the text.
func (a Assessment) Intervened() bool {
	return a.Action == ActionIntervened
}

type options struct {
	region  string
	profile string
	client  ApplyAPI
}

// Option configures the assessor.
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

// WithClient supplies a preconstructed Bedrock Runtime client, bypassing the
// AWS credential chain. Mainly useful in tests.
func WithClient(client ApplyAPI) Option {
	return func(o *options) {
		o.client = client
	}
}

// Assessor applies one guardrail, by ID and version, to text.
type Assessor struct {
	guardrailID string
	version     string
	client      ApplyAPI
}

// NewAssessor creates an assessor bound to a guardrail ID and version.
func NewAssessor(ctx context.Context, guardrailID, version string, opts ...Option) (*Assessor, error) {
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
		client = bedrockruntime.NewFromConfig(cfg)
	}

	return &Assessor{
		guardrailID: guardrailID,
		version:     version,
		client:      client,
	}, nil
}

// AssessInput applies the guardrail to user input.
func (a *Assessor) AssessInput(ctx context.Context, text string) (*Assessment, error) {
	return a.assess(ctx, text, types.GuardrailContentSourceInput)
}

// AssessOutput applies the guardrail to model output.
func (a *Assessor) AssessOutput(ctx context.Context, text string) (*Assessment, error) {
	return a.assess(ctx, text, types.GuardrailContentSourceOutput)
}

func (a *Assessor) assess(ctx context.Context, text string, source types.GuardrailContentSource) (*Assessment, error) {
	output, err := a.client.ApplyGuardrail(ctx, &bedrockruntime.ApplyGuardrailInput{
		GuardrailIdentifier: aws.String(a.guardrailID),
		GuardrailVersion:    aws.String(a.version),
		Source:              source,
		Content: []types.GuardrailContentBlock{
			&types.GuardrailContentBlockMemberText{
				Value: types.GuardrailTextBlock{Text: aws.String(text)},
			},
		},
	})
	if err != nil {
		return nil, bedrock.ConvertAWSError(err)
	}

	assessment := &Assessment{Action: Action(output.Action)}
	for _, out := range output.Outputs {
		if out.Text != nil && assessment.MaskedText == "" {
			assessment.MaskedText = *out.Text
		}
	}
	for _, entry := range output.Assessments {
		assessment.Reasons = append(assessment.Reasons, flattenReasons(entry)...)
	}
	return assessment, nil
}

// flattenReasons turns policy assessments into one string per finding.
func flattenReasons(entry types.GuardrailAssessment) []string {
	var reasons []string

	if entry.TopicPolicy != nil {
		for _, topic := range entry.TopicPolicy.Topics {
			reasons = append(reasons, fmt.Sprintf("topic: %s (%s)", aws.ToString(topic.Name), topic.Action))
		}
	}
	if entry.ContentPolicy != nil {
		for _, filter := range entry.ContentPolicy.Filters {
			reasons = append(reasons, fmt.Sprintf("content: %s confidence=%s (%s)", filter.Type, filter.Confidence, filter.Action))
		}
	}
	if entry.WordPolicy != nil {
		for _, word := range entry.WordPolicy.CustomWords {
			reasons = append(reasons, fmt.Sprintf("word: %s (%s)", aws.ToString(word.Match), word.Action))
		}
		for _, word := range entry.WordPolicy.ManagedWordLists {
			reasons = append(reasons, fmt.Sprintf("managed word: %s (%s)", aws.ToString(word.Match), word.Action))
		}
	}
	if entry.SensitiveInformationPolicy != nil {
		for _, entity := range entry.SensitiveInformationPolicy.PiiEntities {
			reasons = append(reasons, fmt.Sprintf("pii: %s (%s)", entity.Type, entity.Action))
		}
		for _, regex := range entry.SensitiveInformationPolicy.Regexes {
			reasons = append(reasons, fmt.Sprintf("regex: %s (%s)", aws.ToString(regex.Name), regex.Action))
		}
	}

	return reasons
}
