package stoplist

import (
	"strings"
	"testing"
)

// stripAcute is a tiny fold used to keep these tests independent of the normalizer.
func stripAcute(s string) string {
	return strings.NewReplacer("á", "a", "é", "e", "ã", "a", "í", "i").Replace(s)
}

func TestManagerBasic(t *testing.T) {
	mgr := NewManager([]string{"the", "a", "and"}, nil)

	if !mgr.IsStop("the") {
		t.Error("'the' should be a stopword")
	}

	if mgr.IsStop("hello") {
		t.Error("'hello' should not be a stopword")
	}
}

func TestManagerPunctuation(t *testing.T) {
	mgr := NewManager(nil, nil)

	for _, r := range Punctuation {
		if !mgr.IsStop(string(r)) {
			t.Errorf("%q should be a stop token", r)
		}
	}
	if mgr.OriginOf(",") != Punct {
		t.Errorf("',' origin = %v, want Punct", mgr.OriginOf(","))
	}
}

func TestManagerFoldedForms(t *testing.T) {
	mgr := NewManager([]string{"não", "É"}, stripAcute)

	for _, tok := range []string{"não", "nao", "é", "e"} {
		if !mgr.IsStop(tok) {
			t.Errorf("%q should be a stopword", tok)
		}
	}
	if mgr.OriginOf("nao") != Folded {
		t.Errorf("'nao' origin = %v, want Folded", mgr.OriginOf("nao"))
	}
	if got := mgr.Words(); len(got) != 2 || got[1] != "é" {
		t.Errorf("Words() = %v, want lowercased base words", got)
	}
}

func TestManagerAddRemove(t *testing.T) {
	mgr := NewManager([]string{"the"}, stripAcute)

	mgr.Add("até")
	if !mgr.IsStop("ate") {
		t.Error("'ate' should be stopword after adding 'até'")
	}

	mgr.Remove("até")
	if mgr.IsStop("até") || mgr.IsStop("ate") {
		t.Error("'até' and its folded form should be gone after removing")
	}
	if !mgr.IsStop("the") {
		t.Error("'the' should survive an unrelated removal")
	}
}

func TestManagerRemoveKeepsSharedFold(t *testing.T) {
	mgr := NewManager([]string{"é", "e"}, stripAcute)

	mgr.Remove("é")
	if !mgr.IsStop("e") {
		t.Error("'e' is still a base word and must stay")
	}
	if mgr.IsStop("é") {
		t.Error("'é' should be removed")
	}
}

func TestManagerAllSorted(t *testing.T) {
	mgr := NewManager([]string{"b", "a"}, nil)

	all := mgr.All()
	if len(all) != 2+len(Punctuation) {
		t.Fatalf("Expected %d tokens, got %d", 2+len(Punctuation), len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1] > all[i] {
			t.Fatalf("All() not sorted at %d: %q > %q", i, all[i-1], all[i])
		}
	}
}

func TestPortugueseListHasAccentedEntries(t *testing.T) {
	accented := 0
	for _, w := range Portuguese {
		if strings.ContainsAny(w, "áàâãéêíóôõúç") {
			accented++
		}
	}
	if accented == 0 {
		t.Error("Portuguese list should contain accented stop-words")
	}
}

func TestSuggestCandidates(t *testing.T) {
	mgr := NewManager([]string{"de"}, nil)

	stats := []Stats{
		{Token: "produto", DFPercent: 90, LabelEntropy: 0.98}, // Should be candidate
		{Token: "ótimo", DFPercent: 20, LabelEntropy: 0.1},    // Should NOT
		{Token: "comprei", DFPercent: 70, LabelEntropy: 0.95}, // Should be candidate
		{Token: "de", DFPercent: 99, LabelEntropy: 1.0},       // already a stopword
	}

	candidates := mgr.SuggestCandidates(stats, DefaultThresholds())

	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d: %+v", len(candidates), candidates)
	}
	if candidates[0].Token != "produto" {
		t.Errorf("Highest score should be 'produto', got %q", candidates[0].Token)
	}
}
