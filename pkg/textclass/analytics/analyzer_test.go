package analytics

import (
	"math"
	"testing"

	"github.com/cognicore/textclass/pkg/textclass/stoplist"
)

func sample() Stats {
	a := NewAnalyzer()
	a.Process([]string{"produto", "bom", "adorei", "produto"}, "pos")
	a.Process([]string{"produto", "excelente"}, "pos")
	a.Process([]string{"produto", "ruim", "quebrado"}, "neg")
	a.Process([]string{"produto", "ruim"}, "neg")
	a.Process(nil, "neg")
	return a.Snapshot()
}

func TestAnalyzerCounts(t *testing.T) {
	stats := sample()

	if stats.TotalDocs != 5 {
		t.Fatalf("expected 5 docs, got %d", stats.TotalDocs)
	}
	if stats.EmptyDocs != 1 {
		t.Errorf("expected 1 empty doc, got %d", stats.EmptyDocs)
	}
	if stats.LabelCounts["pos"] != 2 || stats.LabelCounts["neg"] != 3 {
		t.Errorf("label counts = %v", stats.LabelCounts)
	}
	if stats.TokenDF["produto"] != 4 {
		t.Errorf("DF(produto) = %d, want 4", stats.TokenDF["produto"])
	}
	if stats.TokenFreq["produto"] != 5 {
		t.Errorf("freq(produto) = %d, want 5", stats.TokenFreq["produto"])
	}
	if got := stats.Labels(); len(got) != 2 || got[0] != "neg" {
		t.Errorf("Labels() = %v", got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	a := NewAnalyzer()
	a.Process([]string{"x"}, "l")
	stats := a.Snapshot()
	a.Process([]string{"x"}, "l")

	if stats.TokenDF["x"] != 1 || stats.TokenLabels["x"]["l"] != 1 {
		t.Errorf("snapshot changed after further processing: %v", stats.TokenDF)
	}
}

func TestTopTokens(t *testing.T) {
	stats := sample()

	top := stats.TopTokens("neg", 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 tokens, got %v", top)
	}
	if top[0].Token != "produto" || top[1].Token != "ruim" {
		t.Errorf("TopTokens(neg) = %v, want produto, ruim", top)
	}

	all := stats.TopTokens("", 0)
	if len(all) != len(stats.TokenDF) {
		t.Errorf("unlimited TopTokens returned %d of %d", len(all), len(stats.TokenDF))
	}
}

func TestStopwordStats(t *testing.T) {
	stats := sample()
	sw := stats.StopwordStats()

	byToken := make(map[string]stoplist.Stats)
	for _, s := range sw {
		byToken[s.Token] = s
	}
	produto := byToken["produto"]
	if produto.DFPercent != 80 {
		t.Errorf("DFPercent(produto) = %v, want 80", produto.DFPercent)
	}
	if math.Abs(produto.LabelEntropy-1) > 1e-9 {
		t.Errorf("LabelEntropy(produto) = %v, want 1", produto.LabelEntropy)
	}
	if byToken["ruim"].LabelEntropy != 0 {
		t.Errorf("LabelEntropy(ruim) = %v, want 0", byToken["ruim"].LabelEntropy)
	}

	m := stoplist.NewManager(nil, nil)
	cands := m.SuggestCandidates(sw, stoplist.DefaultThresholds())
	if len(cands) != 1 || cands[0].Token != "produto" {
		t.Errorf("candidates = %v, want [produto]", cands)
	}
}

func TestTopPairs(t *testing.T) {
	a := NewAnalyzer()
	a.Process([]string{"entrega", "rapida", "produto"}, "pos")
	a.Process([]string{"entrega", "rapida"}, "pos")
	a.Process([]string{"produto", "quebrado"}, "neg")
	a.Process([]string{"atendimento", "ruim"}, "neg")
	stats := a.Snapshot()

	pairs := stats.TopPairs(0, 0)
	var found bool
	for i, p := range pairs {
		if i > 0 && p.PhraseScore > pairs[i-1].PhraseScore {
			t.Errorf("pairs not sorted by phrase score: %v", pairs)
		}
		if p.A == "rapida" && p.B == "produto" {
			t.Errorf("negative-PMI pair should be filtered: %+v", p)
		}
		if p.A == "entrega" && p.B == "rapida" {
			found = true
			if p.BigramFreq != 2 || p.Support != 2 {
				t.Errorf("entrega rapida = %+v, want freq 2 support 2", p)
			}
		}
	}
	if !found {
		t.Errorf("entrega rapida missing from %v", pairs)
	}
	if got := stats.TopPairs(1, 0); len(got) != 1 {
		t.Errorf("limit ignored: %v", got)
	}
	if NewAnalyzer().Snapshot().TopPairs(5, 0) != nil {
		t.Error("empty corpus should have no pairs")
	}
}
