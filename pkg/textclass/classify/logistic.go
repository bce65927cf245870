package classify

import (
	"encoding/json"
	"math"

	"github.com/cognicore/textclass/pkg/textclass/vectorize"
)

// Logistic regression training parameters.
const (
	// DefaultC is the inverse L2 regularisation strength.
	DefaultC = 1.0
	// MaxIterations bounds full-batch gradient descent.
	MaxIterations = 1000
	// Tolerance stops descent once the largest gradient component is this small.
	Tolerance = 1e-5
)

// LogisticModel is a multinomial (softmax) logistic regression over count features.
type LogisticModel struct {
	Labels     []string    `json:"classes"`
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
	C          float64     `json:"c"`
	Iterations int         `json:"iterations"`
}

// fitLogistic runs full-batch gradient descent from zero weights, so the same
// training set always yields the same model. The step size is 1/L with L an
// upper bound on the loss curvature derived from the largest squared row norm.
func fitLogistic(X []vectorize.Vector, classes []string, y []int, features int) (Model, error) {
	nc := len(classes)
	n := float64(len(X))

	m := &LogisticModel{
		Labels:  classes,
		Weights: make([][]float64, nc),
		Bias:    make([]float64, nc),
		C:       DefaultC,
	}
	for c := range m.Weights {
		m.Weights[c] = make([]float64, features)
	}

	maxNorm := 1.0
	for _, x := range X {
		norm := 1.0 // bias term
		for _, e := range x.Entries {
			norm += float64(e.Count) * float64(e.Count)
		}
		if norm > maxNorm {
			maxNorm = norm
		}
	}
	lambda := 1.0 / (m.C * n)
	step := 1.0 / (maxNorm + lambda)

	gradW := make([][]float64, nc)
	for c := range gradW {
		gradW[c] = make([]float64, features)
	}
	gradB := make([]float64, nc)
	probs := make([]float64, nc)

	for iter := 1; iter <= MaxIterations; iter++ {
		for c := 0; c < nc; c++ {
			for j := range gradW[c] {
				gradW[c][j] = 0
			}
			gradB[c] = 0
		}

		for i, x := range X {
			m.softmax(x, probs)
			for c := 0; c < nc; c++ {
				g := probs[c]
				if y[i] == c {
					g -= 1
				}
				gradB[c] += g
				for _, e := range x.Entries {
					gradW[c][e.Index] += g * float64(e.Count)
				}
			}
		}

		largest := 0.0
		for c := 0; c < nc; c++ {
			gradB[c] /= n
			largest = math.Max(largest, math.Abs(gradB[c]))
			m.Bias[c] -= step * gradB[c]
			for j := range gradW[c] {
				g := gradW[c][j]/n + lambda*m.Weights[c][j]
				largest = math.Max(largest, math.Abs(g))
				m.Weights[c][j] -= step * g
			}
		}
		m.Iterations = iter
		if largest < Tolerance {
			break
		}
	}
	return m, nil
}

// Kind implements Model.
func (m *LogisticModel) Kind() string { return Logistic }

// Classes implements Model.
func (m *LogisticModel) Classes() []string { return m.Labels }

// Features implements Model.
func (m *LogisticModel) Features() int {
	if len(m.Weights) == 0 {
		return 0
	}
	return len(m.Weights[0])
}

// Decision returns the linear score per class.
func (m *LogisticModel) Decision(x vectorize.Vector) []float64 {
	scores := make([]float64, len(m.Labels))
	for c := range m.Labels {
		s := m.Bias[c]
		row := m.Weights[c]
		for _, e := range x.Entries {
			s += float64(e.Count) * row[e.Index]
		}
		scores[c] = s
	}
	return scores
}

// Probabilities returns the softmax of the decision function.
func (m *LogisticModel) Probabilities(x vectorize.Vector) []float64 {
	out := make([]float64, len(m.Labels))
	m.softmax(x, out)
	return out
}

func (m *LogisticModel) softmax(x vectorize.Vector, out []float64) {
	scores := m.Decision(x)
	maxScore := math.Inf(-1)
	for _, s := range scores {
		maxScore = math.Max(maxScore, s)
	}
	var sum float64
	for c, s := range scores {
		out[c] = math.Exp(s - maxScore)
		sum += out[c]
	}
	for c := range out {
		out[c] /= sum
	}
}

func decodeLogistic(data []byte) (Model, error) {
	var m LogisticModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	features := 0
	if len(m.Weights) > 0 {
		features = len(m.Weights[0])
	}
	if err := checkShape(m.Labels, len(m.Weights), features, func(i int) int { return len(m.Weights[i]) }); err != nil {
		return nil, err
	}
	if len(m.Bias) != len(m.Labels) {
		return nil, errShape("bias", len(m.Bias), len(m.Labels))
	}
	return &m, nil
}
