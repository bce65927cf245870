package vectorize

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/cognicore/textclass/pkg/textclass/internalerr"
)

var headlines = []string{
	"O novo lançamento da Apple",
	"Resultado do jogo de ontem",
	"Eleições presidenciais",
	"Atualização no mundo da tecnologia",
	"Campeonato de futebol",
	"Política internacional",
	"Lançamento de bombas intensificam guerra, um verdadeiro campeonato de poder",
	"Disputas por território fazem países se questionarem",
	"Acompanhe no brasileirão, a classificação dos novos jogos",
}

func TestFitTransformShape(t *testing.T) {
	v := New()
	vocab, vectors, err := v.FitTransform(headlines)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	if len(vectors) != len(headlines) {
		t.Fatalf("Expected %d vectors, got %d", len(headlines), len(vectors))
	}
	for i, vec := range vectors {
		if vec.Len() != vocab.Len() {
			t.Errorf("vector %d has length %d, want %d", i, vec.Len(), vocab.Len())
		}
	}

	// "de" appears twice in the seventh headline
	idx, ok := vocab.Index("de")
	if !ok {
		t.Fatal("'de' should be in the vocabulary")
	}
	if got := vectors[6].At(idx); got != 2 {
		t.Errorf("count of 'de' in headline 7 = %d, want 2", got)
	}
	if v.Vocabulary() != vocab {
		t.Error("FitTransform should install the fitted vocabulary")
	}
}

func TestVocabularySortedAndDense(t *testing.T) {
	vocab, err := Fit([]string{"b a c", "a d"})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(vocab.Terms(), want) {
		t.Errorf("Terms() = %v, want %v", vocab.Terms(), want)
	}
	for i, term := range want {
		got, ok := vocab.Index(term)
		if !ok || got != i {
			t.Errorf("Index(%q) = %d,%v want %d", term, got, ok, i)
		}
	}
}

func TestVocabularyDeterministic(t *testing.T) {
	a, err := Fit(headlines)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	b, err := Fit(headlines)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	if !reflect.DeepEqual(a.Terms(), b.Terms()) {
		t.Fatal("re-fitting the same corpus changed the vocabulary")
	}
	for _, term := range a.Terms() {
		ia, _ := a.Index(term)
		ib, _ := b.Index(term)
		if ia != ib {
			t.Errorf("Index(%q) differs: %d vs %d", term, ia, ib)
		}
	}
}

func TestTransformOutOfVocabulary(t *testing.T) {
	v := New()
	vocab, _, err := v.FitTransform(headlines)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}
	before := vocab.Len()

	vec, err := v.Transform("Política mundial")
	if err != nil {
		t.Fatalf("Transform should not fail on OOV tokens: %v", err)
	}
	if vec.Len() != before || vocab.Len() != before {
		t.Errorf("OOV changed sizes: vector %d, vocab %d, want %d", vec.Len(), vocab.Len(), before)
	}
	if _, ok := vocab.Index("mundial"); ok {
		t.Error("'mundial' must not be added to a frozen vocabulary")
	}

	idx, ok := vocab.Index("política")
	if !ok {
		t.Fatal("'política' should be in the vocabulary")
	}
	if vec.At(idx) != 1 {
		t.Errorf("count at 'política' = %d, want 1", vec.At(idx))
	}
	if vec.Total() != 1 {
		t.Errorf("only 'política' should be counted, total = %d", vec.Total())
	}

	empty, err := v.Transform("totalmente desconhecido")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(empty.Entries) != 0 || empty.Len() != before {
		t.Errorf("all-OOV text should give an empty vector of length %d, got %+v", before, empty)
	}
}

func TestTransformSameMultiset(t *testing.T) {
	v := New()
	if _, _, err := v.FitTransform(headlines); err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	a, _ := v.Transform("jogo de futebol ontem futebol")
	b, _ := v.Transform("Futebol, ontem futebol! de JOGO")
	if !a.Equal(b) {
		t.Errorf("same multiset, different vectors: %+v vs %+v", a, b)
	}
}

func TestFitEmptyCorpus(t *testing.T) {
	_, _, err := New().FitTransform(nil)
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("empty corpus: got %v, want ErrInvalidInput", err)
	}

	_, err = Fit([]string{"", "  ", "!!"})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("corpus without terms: got %v, want ErrInvalidInput", err)
	}
}

func TestFitKeepsEmptyDocuments(t *testing.T) {
	_, vectors, err := New().FitTransform([]string{"bom produto", "", "ruim"})
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("Expected 3 vectors, got %d", len(vectors))
	}
	if len(vectors[1].Entries) != 0 || vectors[1].Len() != 3 {
		t.Errorf("empty document vector = %+v", vectors[1])
	}
}

func TestTransformBeforeFit(t *testing.T) {
	_, err := New().Transform("qualquer coisa")
	if !errors.Is(err, internalerr.ErrNotFitted) {
		t.Errorf("got %v, want ErrNotFitted", err)
	}
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("ErrNotFitted should match ErrInvalidInput, got %v", err)
	}
}

func TestVocabularyJSON(t *testing.T) {
	vocab, err := Fit(headlines)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	data, err := json.Marshal(vocab)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var loaded Vocabulary
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	a, _ := vocab.Transform("Campeonato de futebol no brasileirão")
	b, _ := loaded.Transform("Campeonato de futebol no brasileirão")
	if !a.Equal(b) {
		t.Errorf("loaded vocabulary transforms differently: %+v vs %+v", a, b)
	}
}

func TestVocabularyJSONRejectsUnsorted(t *testing.T) {
	var v Vocabulary
	err := json.Unmarshal([]byte(`{"terms":["b","a"]}`), &v)
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestAnalyze(t *testing.T) {
	got := Analyze("  Guerra, um \"verdadeiro\" campeonato... ")
	want := []string{"guerra", "um", "verdadeiro", "campeonato"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Analyze() = %v, want %v", got, want)
	}
}

func TestVectorDense(t *testing.T) {
	v := Vector{Size: 4, Entries: []Entry{{Index: 1, Count: 2}, {Index: 3, Count: 1}}}
	if !reflect.DeepEqual(v.Dense(), []int{0, 2, 0, 1}) {
		t.Errorf("Dense() = %v", v.Dense())
	}
	if v.At(2) != 0 || v.At(1) != 2 {
		t.Errorf("At() wrong: %d %d", v.At(2), v.At(1))
	}
}

func TestVectorValidate(t *testing.T) {
	vocab, err := Fit([]string{"b a c", "a d"})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	x, _ := vocab.Transform("a a d zz")
	if err := x.Validate(); err != nil {
		t.Errorf("Transform output rejected: %v", err)
	}

	bad := []Vector{
		{Size: 4, Entries: []Entry{{Index: 4, Count: 1}}},
		{Size: 4, Entries: []Entry{{Index: -1, Count: 1}}},
		{Size: 4, Entries: []Entry{{Index: 1, Count: 0}}},
		{Size: 4, Entries: []Entry{{Index: 2, Count: 1}, {Index: 1, Count: 1}}},
	}
	for _, v := range bad {
		if err := v.Validate(); !errors.Is(err, internalerr.ErrInvalidInput) {
			t.Errorf("Validate(%+v) = %v, want ErrInvalidInput", v.Entries, err)
		}
	}
}

func TestVocabularyTermRange(t *testing.T) {
	vocab, err := Fit([]string{"b a"})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if term, ok := vocab.Term(1); !ok || term != "b" {
		t.Errorf("Term(1) = %q,%v", term, ok)
	}
	for _, i := range []int{-1, 2} {
		if _, ok := vocab.Term(i); ok {
			t.Errorf("Term(%d) should be out of range", i)
		}
	}
	var empty *Vocabulary
	if _, ok := empty.Term(0); ok {
		t.Error("nil vocabulary has no terms")
	}
}
