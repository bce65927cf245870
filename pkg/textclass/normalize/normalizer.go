package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/textclass/pkg/textclass/stoplist"
)

// Normalizer turns raw review or headline text into canonical tokens:
// lowercase, accent-stripped, without punctuation and stop-words.
type Normalizer struct {
	stops *stoplist.Manager
}

// New creates a normalizer over the given base stop-words.
// Folded forms and the punctuation set are added automatically.
func New(stopwords []string) *Normalizer {
	return &Normalizer{stops: stoplist.NewManager(stopwords, Fold)}
}

// Default creates a normalizer over the Portuguese stop-word list.
func Default() *Normalizer {
	return New(stoplist.Portuguese)
}

// Stopwords returns the base stop-words this normalizer was built with.
func (n *Normalizer) Stopwords() []string {
	return n.stops.Words()
}

// AddStopword adds a word (and its folded form) to the stop set
func (n *Normalizer) AddStopword(word string) {
	n.stops.Add(word)
}

// RemoveStopword removes a word (and its folded form) from the stop set
func (n *Normalizer) RemoveStopword(word string) {
	n.stops.Remove(word)
}

// Tokens splits text on whitespace, splits each piece again on word/punctuation
// boundaries, then lowercases, folds accents and filters. Relative order is kept.
// A text with nothing left yields an empty, non-nil slice.
func (n *Normalizer) Tokens(raw string) []string {
	tokens := []string{}
	for _, piece := range strings.Fields(raw) {
		for _, run := range splitWordPunct(piece) {
			tok := Fold(strings.ToLower(run))
			if tok == "" || !isWord(tok) {
				continue
			}
			if n.stops.IsStop(tok) {
				continue
			}
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Text returns Tokens rejoined with single spaces.
func (n *Normalizer) Text(raw string) string {
	return strings.Join(n.Tokens(raw), " ")
}

// TextAll normalizes every text, keeping empty results in place.
func (n *Normalizer) TextAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = n.Text(t)
	}
	return out
}

// Fold decomposes s and strips combining marks, so "ação" becomes "acao".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// splitWordPunct cuts a whitespace-free piece into alternating runs of word
// characters and non-word characters: "bom!!" -> ["bom", "!!"].
func splitWordPunct(piece string) []string {
	var runs []string
	start := 0
	prev := false
	for i, r := range piece {
		w := isWordRune(r)
		if i > 0 && w != prev {
			runs = append(runs, piece[start:i])
			start = i
		}
		prev = w
	}
	if start < len(piece) {
		runs = append(runs, piece[start:])
	}
	return runs
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || unicode.Is(unicode.Mn, r)
}

func isWord(s string) bool {
	for _, r := range s {
		if !isWordRune(r) {
			return false
		}
	}
	return true
}
