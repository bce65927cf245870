package sentiment

import (
	"context"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/cognicore/textclass/pkg/textclass/corpus"
)

// VADER compound thresholds.
const (
	PositiveThreshold = 0.20
	NegativeThreshold = -0.20
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?://[^\s)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// Vader is a local, lexicon based analyzer. The lexicon is English, so
// Portuguese text only scores on shared vocabulary and emoticons.
type Vader struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVader() *Vader {
	return &Vader{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *Vader) Analyze(ctx context.Context, text, _ string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	s := v.analyzer.PolarityScores(PlainText(text))
	return Result{
		Label: labelFor(s.Compound),
		Score: s.Compound,
		Scores: map[string]float64{
			Positive:   s.Positive,
			Negative:   s.Negative,
			Neutral:    s.Neutral,
			"compound": s.Compound,
		},
	}, nil
}

func labelFor(compound float64) string {
	switch {
	case compound >= PositiveThreshold:
		return Positive
	case compound <= NegativeThreshold:
		return Negative
	}
	return Neutral
}

// PlainText renders markdown, strips the resulting markup and drops links,
// keeping the link text.
func PlainText(text string) string {
	text = linkPattern.ReplaceAllString(text, "$1")
	html := blackfriday.Run([]byte(text), blackfriday.WithNoExtensions())
	plain := corpus.StripHTML(string(html))
	plain = urlPattern.ReplaceAllString(plain, "")
	return strings.Join(strings.Fields(plain), " ")
}
