package stoplist

import (
	"sort"
	"strings"
)

// Origin records why a token is in the stop set.
type Origin uint8

const (
	// Word is a base stop-word as listed.
	Word Origin = 1 << iota
	// Folded is the accent-stripped form of a base stop-word.
	Folded
	// Punct is a single punctuation character.
	Punct
)

// FoldFunc maps a token to its accent-stripped form.
type FoldFunc func(string) string

// Manager holds the combined stop set: base words, their folded forms and punctuation.
// The folded forms are kept so a stop-word matches whether or not its accent survived.
type Manager struct {
	stops map[string]Origin
	words []string
	fold  FoldFunc
}

// NewManager builds the combined stop set from base words. fold may be nil.
func NewManager(words []string, fold FoldFunc) *Manager {
	m := &Manager{
		stops: make(map[string]Origin, 2*len(words)+len(Punctuation)),
		fold:  fold,
	}
	for _, r := range Punctuation {
		m.stops[string(r)] |= Punct
	}
	for _, w := range words {
		m.Add(w)
	}
	return m
}

// IsStop checks if a token is in the combined stop set
func (m *Manager) IsStop(token string) bool {
	_, ok := m.stops[token]
	return ok
}

// OriginOf returns the origin bits for a token, zero when absent.
func (m *Manager) OriginOf(token string) Origin {
	return m.stops[token]
}

// Add adds a base word and its folded form
func (m *Manager) Add(word string) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return
	}
	if m.stops[word]&Word == 0 {
		m.words = append(m.words, word)
	}
	m.stops[word] |= Word
	if m.fold != nil {
		if f := m.fold(word); f != "" {
			m.stops[f] |= Folded
		}
	}
}

// Remove drops a base word and its folded form. Punctuation is never removed.
func (m *Manager) Remove(word string) {
	word = strings.ToLower(strings.TrimSpace(word))
	for i, w := range m.words {
		if w == word {
			m.words = append(m.words[:i], m.words[i+1:]...)
			break
		}
	}
	m.clear(word, Word)
	if m.fold == nil {
		return
	}
	f := m.fold(word)
	m.clear(f, Folded)
	// another base word may fold to the same form
	for _, w := range m.words {
		if m.fold(w) == f {
			m.stops[f] |= Folded
		}
	}
}

func (m *Manager) clear(token string, bit Origin) {
	o, ok := m.stops[token]
	if !ok {
		return
	}
	o &^= bit
	if o == 0 {
		delete(m.stops, token)
		return
	}
	m.stops[token] = o
}

// Words returns the base words in insertion order.
func (m *Manager) Words() []string {
	out := make([]string, len(m.words))
	copy(out, m.words)
	return out
}

// All returns every token of the combined set, sorted.
func (m *Manager) All() []string {
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

// Stats holds per-token corpus statistics for candidate evaluation
type Stats struct {
	Token     string
	DF        int64
	DFPercent float64
	// LabelEntropy is the normalised entropy of the token's label distribution, in [0,1].
	LabelEntropy float64
}

// Candidate represents a suggested stopword
type Candidate struct {
	Token string
	Score float64
}

// Thresholds defines criteria for stopword suggestions
type Thresholds struct {
	DFPercent    float64 // e.g., 50% - appears in half of the documents
	LabelEntropy float64 // e.g., 0.9 - spread evenly across labels
}

// DefaultThresholds returns sensible default thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DFPercent:    50.0,
		LabelEntropy: 0.9,
	}
}

// SuggestCandidates suggests tokens that carry no label signal: frequent across
// documents and evenly spread over labels. Results are sorted by descending score.
func (m *Manager) SuggestCandidates(stats []Stats, th Thresholds) []Candidate {
	var candidates []Candidate
	for _, s := range stats {
		if m.IsStop(s.Token) {
			continue
		}
		if s.DFPercent <= th.DFPercent || s.LabelEntropy < th.LabelEntropy {
			continue
		}
		candidates = append(candidates, Candidate{
			Token: s.Token,
			Score: (s.DFPercent/100.0 + s.LabelEntropy) / 2.0,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Token < candidates[j].Token
	})
	return candidates
}
