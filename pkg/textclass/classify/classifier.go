package classify

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cognicore/textclass/pkg/textclass/internalerr"
	"github.com/cognicore/textclass/pkg/textclass/vectorize"
)

// Classifier kinds
const (
	NaiveBayes = "naive_bayes"
	Logistic   = "logistic"
)

// Model is a trained classifier. It is immutable; retraining replaces it.
type Model interface {
	// Kind names the algorithm, used as the serialisation key.
	Kind() string
	// Classes returns the labels in sorted order.
	Classes() []string
	// Features returns the expected vector length.
	Features() int
	// Decision returns one score per class; the highest wins. It does not
	// check x: callers go through Predict, or pass a vector of length
	// Features() that passes Validate.
	Decision(x vectorize.Vector) []float64
}

type fitter func(X []vectorize.Vector, classes []string, y []int, features int) (Model, error)

type decoder func(data []byte) (Model, error)

var fitters = map[string]fitter{
	NaiveBayes: fitNaiveBayes,
	Logistic:   fitLogistic,
}

var decoders = map[string]decoder{
	NaiveBayes: decodeNaiveBayes,
	Logistic:   decodeLogistic,
}

// Kinds returns the registered classifier kinds.
func Kinds() []string {
	out := make([]string, 0, len(fitters))
	for k := range fitters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Fit trains a model of the given kind on (X, y). The label set is exactly
// the distinct labels in y.
func Fit(kind string, X []vectorize.Vector, y []string) (Model, error) {
	fit, ok := fitters[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown classifier %q", internalerr.ErrInvalidInput, kind)
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("%w: %d feature vectors but %d labels", internalerr.ErrInvalidInput, len(X), len(y))
	}
	if len(X) == 0 {
		return nil, fmt.Errorf("%w: empty training set", internalerr.ErrInvalidInput)
	}
	features := X[0].Len()
	for i, x := range X {
		if x.Len() != features {
			return nil, fmt.Errorf("%w: vector %d has length %d, want %d", internalerr.ErrInvalidInput, i, x.Len(), features)
		}
		if err := x.Validate(); err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
	}

	classes, encoded := encodeLabels(y)
	if len(classes) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 distinct labels, got %d", internalerr.ErrInvalidInput, len(classes))
	}
	return fit(X, classes, encoded, features)
}

// Predict returns the class maximising the model's decision function.
// Ties go to the class that sorts first.
func Predict(m Model, x vectorize.Vector) (string, error) {
	if m == nil {
		return "", internalerr.ErrNotFitted
	}
	if x.Len() != m.Features() {
		return "", fmt.Errorf("%w: vector length %d, model expects %d", internalerr.ErrInvalidInput, x.Len(), m.Features())
	}
	if err := x.Validate(); err != nil {
		return "", err
	}
	scores := m.Decision(x)
	best := 0
	for c := 1; c < len(scores); c++ {
		if scores[c] > scores[best] {
			best = c
		}
	}
	return m.Classes()[best], nil
}

// PredictAll returns one label per vector, in input order.
func PredictAll(m Model, X []vectorize.Vector) ([]string, error) {
	out := make([]string, len(X))
	for i, x := range X {
		label, err := Predict(m, x)
		if err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
		out[i] = label
	}
	return out, nil
}

// Score returns the fraction of vectors whose prediction equals the gold label.
func Score(m Model, X []vectorize.Vector, y []string) (float64, error) {
	if len(X) != len(y) {
		return 0, fmt.Errorf("%w: %d feature vectors but %d labels", internalerr.ErrInvalidInput, len(X), len(y))
	}
	if len(X) == 0 {
		return 0, fmt.Errorf("%w: nothing to score", internalerr.ErrInvalidInput)
	}
	pred, err := PredictAll(m, X)
	if err != nil {
		return 0, err
	}
	return Accuracy(pred, y), nil
}

// Accuracy compares predictions to gold labels of the same length.
func Accuracy(pred, gold []string) float64 {
	if len(gold) == 0 {
		return 0
	}
	correct := 0
	for i := range gold {
		if pred[i] == gold[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(gold))
}

type envelope struct {
	Kind  string          `json:"kind"`
	Model json.RawMessage `json:"model"`
}

// Marshal serialises a model with its kind so Unmarshal can pick the decoder.
func Marshal(m Model) ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Kind: m.Kind(), Model: body})
}

// Unmarshal restores a model written by Marshal.
func Unmarshal(data []byte) (Model, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	dec, ok := decoders[env.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown classifier %q", internalerr.ErrInvalidInput, env.Kind)
	}
	return dec(env.Model)
}

func encodeLabels(y []string) ([]string, []int) {
	seen := make(map[string]struct{})
	for _, label := range y {
		seen[label] = struct{}{}
	}
	classes := make([]string, 0, len(seen))
	for label := range seen {
		classes = append(classes, label)
	}
	sort.Strings(classes)

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	encoded := make([]int, len(y))
	for i, label := range y {
		encoded[i] = index[label]
	}
	return classes, encoded
}

func checkShape(classes []string, rows int, features int, width func(i int) int) error {
	if len(classes) < 2 {
		return fmt.Errorf("%w: model has %d classes", internalerr.ErrInvalidInput, len(classes))
	}
	if rows != len(classes) {
		return fmt.Errorf("%w: %d parameter rows for %d classes", internalerr.ErrInvalidInput, rows, len(classes))
	}
	for i := 0; i < rows; i++ {
		if width(i) != features {
			return fmt.Errorf("%w: row %d has %d weights, want %d", internalerr.ErrInvalidInput, i, width(i), features)
		}
	}
	return nil
}

func errShape(field string, got, want int) error {
	return fmt.Errorf("%w: %s has %d entries, want %d", internalerr.ErrInvalidInput, field, got, want)
}
