package analytics

import (
	"math"
	"sort"

	"github.com/cognicore/textclass/pkg/textclass/stoplist"
)

// Analyzer aggregates document-level token and label stats over a labelled corpus.
type Analyzer struct {
	totalDocs    int64
	emptyDocs    int64
	labelCounts  map[string]int64
	tokenDF      map[string]int64
	tokenFreq    map[string]int64
	tokenLabels  map[string]map[string]int64
	pairCounts   map[pair]int64 // document-level co-occurrence
	bigramCounts map[pair]int64 // adjacent token pairs only
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		labelCounts:  make(map[string]int64),
		tokenDF:      make(map[string]int64),
		tokenFreq:    make(map[string]int64),
		tokenLabels:  make(map[string]map[string]int64),
		pairCounts:   make(map[pair]int64),
		bigramCounts: make(map[pair]int64),
	}
}

// Process consumes one document's tokens and label.
func (a *Analyzer) Process(tokens []string, label string) {
	a.totalDocs++
	if label != "" {
		a.labelCounts[label]++
	}

	seen := make(map[string]struct{})
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		a.tokenFreq[tok]++
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		a.tokenDF[tok]++
		if label == "" {
			continue
		}
		if a.tokenLabels[tok] == nil {
			a.tokenLabels[tok] = make(map[string]int64)
		}
		a.tokenLabels[tok][label]++
	}
	if len(seen) == 0 {
		a.emptyDocs++
		return
	}

	unique := make([]string, 0, len(seen))
	for tok := range seen {
		unique = append(unique, tok)
	}
	sort.Strings(unique)
	for i := 0; i < len(unique); i++ {
		for j := i + 1; j < len(unique); j++ {
			a.pairCounts[newPair(unique[i], unique[j])]++
		}
	}

	// Ordered: "boa noite" and "noite boa" are different bigrams.
	for i := 0; i < len(tokens)-1; i++ {
		if tokens[i] == "" || tokens[i+1] == "" {
			continue
		}
		a.bigramCounts[pair{A: tokens[i], B: tokens[i+1]}]++
	}
}

// Stats exposes the aggregated counts.
type Stats struct {
	TotalDocs    int64
	EmptyDocs    int64
	LabelCounts  map[string]int64
	TokenDF      map[string]int64
	TokenFreq    map[string]int64
	TokenLabels  map[string]map[string]int64
	PairCounts   map[pair]int64
	BigramCounts map[pair]int64
}

// Snapshot returns a copy of the accumulated statistics.
func (a *Analyzer) Snapshot() Stats {
	copyLabels := make(map[string]map[string]int64, len(a.tokenLabels))
	for tok, labels := range a.tokenLabels {
		copyLabels[tok] = copyCounts(labels)
	}
	copyPairs := make(map[pair]int64, len(a.pairCounts))
	for p, count := range a.pairCounts {
		copyPairs[p] = count
	}
	copyBigrams := make(map[pair]int64, len(a.bigramCounts))
	for p, count := range a.bigramCounts {
		copyBigrams[p] = count
	}
	return Stats{
		TotalDocs:    a.totalDocs,
		EmptyDocs:    a.emptyDocs,
		LabelCounts:  copyCounts(a.labelCounts),
		TokenDF:      copyCounts(a.tokenDF),
		TokenFreq:    copyCounts(a.tokenFreq),
		TokenLabels:  copyLabels,
		PairCounts:   copyPairs,
		BigramCounts: copyBigrams,
	}
}

func copyCounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Labels returns the labels seen, sorted.
func (s Stats) Labels() []string {
	out := make([]string, 0, len(s.LabelCounts))
	for label := range s.LabelCounts {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// TokenCount pairs a token with a count.
type TokenCount struct {
	Token string
	Count int64
}

// TopTokens returns the k tokens found in the most documents of label,
// ties broken alphabetically. An empty label ranks over the whole corpus.
func (s Stats) TopTokens(label string, k int) []TokenCount {
	var out []TokenCount
	for tok, df := range s.TokenDF {
		count := df
		if label != "" {
			count = s.TokenLabels[tok][label]
		}
		if count == 0 {
			continue
		}
		out = append(out, TokenCount{Token: tok, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Token < out[j].Token
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// StopwordStats converts corpus stats into the format expected by
// stoplist.Manager.SuggestCandidates. A token that occurs in every label in
// the same proportion as the labels themselves carries no class signal.
func (s Stats) StopwordStats() []stoplist.Stats {
	var out []stoplist.Stats
	if s.TotalDocs == 0 {
		return out
	}
	for tok, df := range s.TokenDF {
		out = append(out, stoplist.Stats{
			Token:        tok,
			DF:           df,
			DFPercent:    100 * (float64(df) / float64(s.TotalDocs)),
			LabelEntropy: entropy(s.TokenLabels[tok], len(s.LabelCounts)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out
}

// entropy is the Shannon entropy of counts normalised by the maximum
// possible for labels classes, so it lies in [0,1].
func entropy(counts map[string]int64, labels int) float64 {
	if len(counts) == 0 || labels < 2 {
		return 0
	}
	var total float64
	for _, c := range counts {
		total += float64(c)
	}
	if total == 0 {
		return 0
	}
	var h float64
	for _, c := range counts {
		p := float64(c) / total
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h / math.Log2(float64(labels))
}

// PairStat describes combined metrics for a token pair.
type PairStat struct {
	A           string
	B           string
	PMI         float64 // document-level association
	BigramFreq  int64   // how often A is immediately followed by B
	Support     int64   // documents containing both
	PhraseScore float64 // BigramFreq * PMI
}

// TopPairs returns phrase candidates ranked by bigram frequency weighted by
// document PMI. Pairs below minPMI are dropped.
func (s Stats) TopPairs(limit int, minPMI float64) []PairStat {
	if s.TotalDocs == 0 {
		return nil
	}
	var stats []PairStat
	for p, bigramCount := range s.BigramCounts {
		if p.A == p.B {
			continue
		}
		dfA, dfB := s.TokenDF[p.A], s.TokenDF[p.B]
		docPairCount := s.PairCounts[newPair(p.A, p.B)]
		if dfA == 0 || dfB == 0 || docPairCount == 0 {
			continue
		}
		pmi := computePMI(docPairCount, dfA, dfB, s.TotalDocs)
		if pmi < minPMI {
			continue
		}
		stats = append(stats, PairStat{
			A:           p.A,
			B:           p.B,
			PMI:         pmi,
			BigramFreq:  bigramCount,
			Support:     docPairCount,
			PhraseScore: float64(bigramCount) * pmi,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].PhraseScore != stats[j].PhraseScore {
			return stats[i].PhraseScore > stats[j].PhraseScore
		}
		if stats[i].BigramFreq != stats[j].BigramFreq {
			return stats[i].BigramFreq > stats[j].BigramFreq
		}
		if stats[i].A != stats[j].A {
			return stats[i].A < stats[j].A
		}
		return stats[i].B < stats[j].B
	})
	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

func computePMI(pairCount, dfA, dfB, totalDocs int64) float64 {
	if dfA == 0 || dfB == 0 || totalDocs == 0 {
		return 0
	}
	smooth := 1.0
	numerator := (float64(pairCount) + smooth) / float64(totalDocs)
	denominator := ((float64(dfA) + smooth) / float64(totalDocs)) * ((float64(dfB) + smooth) / float64(totalDocs))
	return math.Log(numerator / denominator)
}

type pair struct {
	A string
	B string
}

func newPair(a, b string) pair {
	if a > b {
		a, b = b, a
	}
	return pair{A: a, B: b}
}
