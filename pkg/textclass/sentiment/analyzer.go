// Package sentiment scores the polarity of free text. Analyzers are
// optional collaborators of the classification pipeline: the local VADER
// analyzer needs no network, AWS Comprehend is used for long transcripts,
// and either can sit behind a Valkey result cache.
package sentiment

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Sentiment labels shared by every analyzer.
const (
	Positive = "positive"
	Negative = "negative"
	Neutral  = "neutral"
	Mixed    = "mixed"
)

// Analyzer scores one piece of text. lang is a language code such as "pt";
// analyzers that only handle one language ignore it.
type Analyzer interface {
	Analyze(ctx context.Context, text, lang string) (Result, error)
}

// Result is the outcome of one analysis. Score is the analyzer's headline
// number for Label (VADER compound, Comprehend confidence) and Scores holds
// the full breakdown.
type Result struct {
	Label  string             `json:"label"`
	Score  float64            `json:"score"`
	Scores map[string]float64 `json:"scores,omitempty"`
}

func (r Result) String() string {
	if len(r.Scores) == 0 {
		return fmt.Sprintf("%s (%.4f)", strings.ToUpper(r.Label), r.Score)
	}
	keys := make([]string, 0, len(r.Scores))
	for k := range r.Scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%.4f", k, r.Scores[k])
	}
	return fmt.Sprintf("%s (%s)", strings.ToUpper(r.Label), strings.Join(parts, " "))
}
