package classify

import (
	"encoding/json"
	"math"

	"github.com/cognicore/textclass/pkg/textclass/vectorize"
)

// DefaultAlpha is the additive (Laplace) smoothing used by naive Bayes.
const DefaultAlpha = 1.0

// NaiveBayesModel is a multinomial naive Bayes model over count features,
// kept in log space.
type NaiveBayesModel struct {
	Labels         []string    `json:"classes"`
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
	Alpha          float64     `json:"alpha"`
}

func fitNaiveBayes(X []vectorize.Vector, classes []string, y []int, features int) (Model, error) {
	nc := len(classes)
	classDocs := make([]int, nc)
	featureCounts := make([][]float64, nc)
	for c := range featureCounts {
		featureCounts[c] = make([]float64, features)
	}

	for i, x := range X {
		c := y[i]
		classDocs[c]++
		for _, e := range x.Entries {
			featureCounts[c][e.Index] += float64(e.Count)
		}
	}

	m := &NaiveBayesModel{
		Labels:         classes,
		ClassLogPrior:  make([]float64, nc),
		FeatureLogProb: make([][]float64, nc),
		Alpha:          DefaultAlpha,
	}
	total := float64(len(X))
	for c := 0; c < nc; c++ {
		m.ClassLogPrior[c] = math.Log(float64(classDocs[c]) / total)

		var words float64
		for _, n := range featureCounts[c] {
			words += n
		}
		denom := math.Log(words + m.Alpha*float64(features))
		row := make([]float64, features)
		for j, n := range featureCounts[c] {
			row[j] = math.Log(n+m.Alpha) - denom
		}
		m.FeatureLogProb[c] = row
	}
	return m, nil
}

// Kind implements Model.
func (m *NaiveBayesModel) Kind() string { return NaiveBayes }

// Classes implements Model.
func (m *NaiveBayesModel) Classes() []string { return m.Labels }

// Features implements Model.
func (m *NaiveBayesModel) Features() int {
	if len(m.FeatureLogProb) == 0 {
		return 0
	}
	return len(m.FeatureLogProb[0])
}

// Decision returns the joint log likelihood per class.
func (m *NaiveBayesModel) Decision(x vectorize.Vector) []float64 {
	scores := make([]float64, len(m.Labels))
	for c := range m.Labels {
		s := m.ClassLogPrior[c]
		row := m.FeatureLogProb[c]
		for _, e := range x.Entries {
			s += float64(e.Count) * row[e.Index]
		}
		scores[c] = s
	}
	return scores
}

func decodeNaiveBayes(data []byte) (Model, error) {
	var m NaiveBayesModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	features := 0
	if len(m.FeatureLogProb) > 0 {
		features = len(m.FeatureLogProb[0])
	}
	if err := checkShape(m.Labels, len(m.FeatureLogProb), features, func(i int) int { return len(m.FeatureLogProb[i]) }); err != nil {
		return nil, err
	}
	if len(m.ClassLogPrior) != len(m.Labels) {
		return nil, errShape("class_log_prior", len(m.ClassLogPrior), len(m.Labels))
	}
	return &m, nil
}
