package vectorize

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/cognicore/textclass/pkg/textclass/internalerr"
)

// Vocabulary maps distinct terms to dense indices in [0, Len()).
// Terms are indexed in sorted order, so fitting the same corpus twice
// yields the same mapping. A Vocabulary is never mutated after it is built.
type Vocabulary struct {
	terms []string
	index map[string]int
}

func newVocabulary(terms []string) *Vocabulary {
	sorted := make([]string, len(terms))
	copy(sorted, terms)
	sort.Strings(sorted)

	index := make(map[string]int, len(sorted))
	for i, term := range sorted {
		index[term] = i
	}
	return &Vocabulary{terms: sorted, index: index}
}

// Len returns the number of terms (and the length of every vector).
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.terms)
}

// Index returns the index assigned to term.
func (v *Vocabulary) Index(term string) (int, bool) {
	if v == nil {
		return 0, false
	}
	i, ok := v.index[term]
	return i, ok
}

// Term returns the term at index i, or false when i is outside [0, Len()).
func (v *Vocabulary) Term(i int) (string, bool) {
	if i < 0 || i >= v.Len() {
		return "", false
	}
	return v.terms[i], true
}

// Terms returns a copy of all terms in index order.
func (v *Vocabulary) Terms() []string {
	if v == nil {
		return nil
	}
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Transform maps text onto the vocabulary. Terms absent from the vocabulary
// are ignored; they never error and never change the vector length.
func (v *Vocabulary) Transform(text string) (Vector, error) {
	if v == nil {
		return Vector{}, internalerr.ErrNotFitted
	}
	counts := make(map[int]int)
	for _, term := range Analyze(text) {
		if i, ok := v.index[term]; ok {
			counts[i]++
		}
	}
	return newVector(len(v.terms), counts), nil
}

type vocabularyJSON struct {
	Terms []string `json:"terms"`
}

// MarshalJSON implements json.Marshaler.
func (v *Vocabulary) MarshalJSON() ([]byte, error) {
	return json.Marshal(vocabularyJSON{Terms: v.terms})
}

// UnmarshalJSON implements json.Unmarshaler. Terms must be sorted and unique.
func (v *Vocabulary) UnmarshalJSON(data []byte) error {
	var raw vocabularyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for i := 1; i < len(raw.Terms); i++ {
		if raw.Terms[i-1] >= raw.Terms[i] {
			return fmt.Errorf("%w: vocabulary terms not sorted/unique at %d", internalerr.ErrInvalidInput, i)
		}
	}
	*v = *newVocabulary(raw.Terms)
	return nil
}

// Analyze splits text into counting terms: whitespace split, lowercase,
// leading and trailing non letter/digit runes trimmed, empty terms dropped.
func Analyze(text string) []string {
	fields := strings.Fields(text)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(strings.ToLower(f), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if f != "" {
			terms = append(terms, f)
		}
	}
	return terms
}
