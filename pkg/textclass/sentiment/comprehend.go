package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/comprehend/types"

	"github.com/cognicore/textclass/pkg/textclass/internalerr"
)

// DefaultLanguage is used when Analyze is called without a language code.
const DefaultLanguage = "pt"

// ComprehendAPI is the subset of the Comprehend client used here.
type ComprehendAPI interface {
	DetectSentiment(ctx context.Context, in *comprehend.DetectSentimentInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectSentimentOutput, error)
}

// ComprehendConfig selects the AWS region and, for local stacks, an
// endpoint override. Credentials come from the default AWS chain.
type ComprehendConfig struct {
	Region   string
	Endpoint string
}

// Comprehend analyzes text with AWS Comprehend DetectSentiment.
type Comprehend struct {
	api ComprehendAPI
}

func NewComprehend(ctx context.Context, cfg ComprehendConfig) (*Comprehend, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: aws region is required", internalerr.ErrInvalidConfig)
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := comprehend.NewFromConfig(awsCfg, func(o *comprehend.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	slog.Debug("comprehend client ready", "region", cfg.Region, "endpoint", cfg.Endpoint)
	return &Comprehend{api: client}, nil
}

// NewComprehendWithClient wraps an existing client.
func NewComprehendWithClient(api ComprehendAPI) *Comprehend {
	return &Comprehend{api: api}
}

func (c *Comprehend) Analyze(ctx context.Context, text, lang string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, fmt.Errorf("%w: empty text", internalerr.ErrInvalidInput)
	}
	if lang == "" {
		lang = DefaultLanguage
	}
	out, err := c.api.DetectSentiment(ctx, &comprehend.DetectSentimentInput{
		Text:         aws.String(text),
		LanguageCode: types.LanguageCode(lang),
	})
	if err != nil {
		return Result{}, fmt.Errorf("detect sentiment: %w", err)
	}

	res := Result{
		Label:  strings.ToLower(string(out.Sentiment)),
		Scores: map[string]float64{},
	}
	if s := out.SentimentScore; s != nil {
		res.Scores[Positive] = float64(aws.ToFloat32(s.Positive))
		res.Scores[Negative] = float64(aws.ToFloat32(s.Negative))
		res.Scores[Neutral] = float64(aws.ToFloat32(s.Neutral))
		res.Scores[Mixed] = float64(aws.ToFloat32(s.Mixed))
	}
	res.Score = res.Scores[res.Label]
	return res, nil
}
