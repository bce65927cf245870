package textclass

import (
	"context"
	"fmt"

	"github.com/cognicore/textclass/pkg/textclass/artifact"
	"github.com/cognicore/textclass/pkg/textclass/classify"
	"github.com/cognicore/textclass/pkg/textclass/internalerr"
	"github.com/cognicore/textclass/pkg/textclass/normalize"
	"github.com/cognicore/textclass/pkg/textclass/vectorize"
)

// Engine is a frozen, trained pipeline: optional normalizer, vocabulary and
// model. It is safe for concurrent use.
type Engine struct {
	norm   *normalize.Normalizer // nil when text is vectorized as is
	vocab  *vectorize.Vocabulary
	model  classify.Model
	bundle artifact.Bundle
}

// FromBundle rebuilds an engine from a persisted pair.
func FromBundle(b artifact.Bundle) (*Engine, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{vocab: b.Vocabulary, model: b.Model, bundle: b}
	if b.Preprocess.Normalize {
		e.norm = normalize.New(b.Preprocess.Stopwords)
	}
	return e, nil
}

// Load reads the active pair from store.
func Load(ctx context.Context, store artifact.Store) (*Engine, error) {
	b, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return FromBundle(b)
}

// Bundle returns the pair backing this engine.
func (e *Engine) Bundle() artifact.Bundle {
	return e.bundle
}

// Classes returns the labels the model can predict, sorted.
func (e *Engine) Classes() []string {
	return e.model.Classes()
}

// Prepare applies the training-time preprocessing to raw text.
func (e *Engine) Prepare(raw string) string {
	if e.norm == nil {
		return raw
	}
	return e.norm.Text(raw)
}

// Transform maps raw text into the model's feature space.
func (e *Engine) Transform(raw string) (vectorize.Vector, error) {
	if e == nil || e.vocab == nil {
		return vectorize.Vector{}, internalerr.ErrNotFitted
	}
	return e.vocab.Transform(e.Prepare(raw))
}

// PredictOne returns the label for a single text.
func (e *Engine) PredictOne(raw string) (string, error) {
	x, err := e.Transform(raw)
	if err != nil {
		return "", err
	}
	return classify.Predict(e.model, x)
}

// Predict returns one label per input text, in input order.
func (e *Engine) Predict(texts []string) ([]string, error) {
	out := make([]string, len(texts))
	for i, t := range texts {
		label, err := e.PredictOne(t)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		out[i] = label
	}
	return out, nil
}

// Score returns the accuracy of the engine on labelled texts.
func (e *Engine) Score(texts, labels []string) (float64, error) {
	if len(texts) != len(labels) {
		return 0, fmt.Errorf("%w: %d texts, %d labels", internalerr.ErrInvalidInput, len(texts), len(labels))
	}
	if len(texts) == 0 {
		return 0, fmt.Errorf("%w: nothing to score", internalerr.ErrInvalidInput)
	}
	pred, err := e.Predict(texts)
	if err != nil {
		return 0, err
	}
	return classify.Accuracy(pred, labels), nil
}
