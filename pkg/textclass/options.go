package textclass

import (
	"fmt"

	"github.com/cognicore/textclass/pkg/textclass/classify"
	"github.com/cognicore/textclass/pkg/textclass/corpus"
	"github.com/cognicore/textclass/pkg/textclass/internalerr"
	"github.com/cognicore/textclass/pkg/textclass/split"
	"github.com/cognicore/textclass/pkg/textclass/stoplist"
)

// Config enumerates everything a training run depends on.
type Config struct {
	CorpusPath string
	Corpus     corpus.Options

	TestSize float64
	Stratify bool
	// Fallback retries with a plain split when stratification is infeasible.
	Fallback bool
	Seed     int64

	Classifier string
	Normalize  bool
	// Stopwords are the base stop-words used when Normalize is set; nil
	// selects the Portuguese list.
	Stopwords []string

	// Artifacts is a directory, or a .db/.sqlite file, receiving the pair.
	Artifacts string
}

// DefaultConfig mirrors the review-polarity training script.
func DefaultConfig() Config {
	return Config{
		Corpus:     corpus.DefaultOptions(),
		TestSize:   0.2,
		Stratify:   true,
		Fallback:   true,
		Seed:       split.DefaultSeed,
		Classifier: classify.Logistic,
		Normalize:  true,
		Artifacts:  "model",
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	if c.TestSize <= 0 || c.TestSize >= 1 {
		return fmt.Errorf("%w: test size %v outside (0,1)", internalerr.ErrInvalidConfig, c.TestSize)
	}
	known := false
	for _, k := range classify.Kinds() {
		if k == c.Classifier {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("%w: unknown classifier %q (want one of %v)", internalerr.ErrInvalidConfig, c.Classifier, classify.Kinds())
	}
	if c.Corpus.TextColumn == "" || c.Corpus.LabelColumn == "" {
		return fmt.Errorf("%w: text and label columns are required", internalerr.ErrInvalidConfig)
	}
	return nil
}

// StopwordList returns the configured stop-words, or the Portuguese list when none are set.
func (c Config) StopwordList() []string {
	if c.Stopwords == nil {
		return stoplist.Portuguese
	}
	return c.Stopwords
}
