package vectorize

import (
	"fmt"

	"github.com/cognicore/textclass/pkg/textclass/internalerr"
)

// Vectorizer builds a Vocabulary from a corpus and maps texts to count vectors.
type Vectorizer struct {
	vocab *Vocabulary
}

// New creates an unfitted vectorizer.
func New() *Vectorizer {
	return &Vectorizer{}
}

// FromVocabulary creates a vectorizer over an already fitted (or loaded) vocabulary.
func FromVocabulary(vocab *Vocabulary) *Vectorizer {
	return &Vectorizer{vocab: vocab}
}

// Vocabulary returns the fitted vocabulary, nil before fit.
func (v *Vectorizer) Vocabulary() *Vocabulary {
	return v.vocab
}

// Fit builds a new vocabulary from corpus.
func Fit(corpus []string) (*Vocabulary, error) {
	if len(corpus) == 0 {
		return nil, fmt.Errorf("%w: empty corpus", internalerr.ErrInvalidInput)
	}
	seen := make(map[string]struct{})
	var terms []string
	for _, doc := range corpus {
		for _, term := range Analyze(doc) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			terms = append(terms, term)
		}
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary, every document is empty", internalerr.ErrInvalidInput)
	}
	return newVocabulary(terms), nil
}

// FitTransform fits a fresh vocabulary on corpus, replaces the current one and
// returns one vector per document, documents without terms included.
func (v *Vectorizer) FitTransform(corpus []string) (*Vocabulary, []Vector, error) {
	vocab, err := Fit(corpus)
	if err != nil {
		return nil, nil, err
	}
	vectors, err := vocab.TransformAll(corpus)
	if err != nil {
		return nil, nil, err
	}
	v.vocab = vocab
	return vocab, vectors, nil
}

// Transform maps text onto the fitted vocabulary.
func (v *Vectorizer) Transform(text string) (Vector, error) {
	return v.vocab.Transform(text)
}

// TransformAll maps every text, keeping input order.
func (v *Vectorizer) TransformAll(texts []string) ([]Vector, error) {
	return v.vocab.TransformAll(texts)
}

// TransformAll maps every text, keeping input order.
func (v *Vocabulary) TransformAll(texts []string) ([]Vector, error) {
	if v == nil {
		return nil, internalerr.ErrNotFitted
	}
	out := make([]Vector, len(texts))
	for i, t := range texts {
		vec, err := v.Transform(t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}
