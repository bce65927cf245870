package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/textclass/pkg/textclass/internalerr"
)

const reviewsCSV = `id,review_text,polarity
10,"Que produto bom! Eu adorei, super recomendo.",1
11,"Chegou quebrado, péssimo.",0
12,,1
13,"Entrega rápida",
14,"Ótimo custo benefício",1
`

func TestLoadCSV(t *testing.T) {
	opts := Options{TextColumn: "review_text", LabelColumn: "polarity", IDColumn: "id"}

	docs, stats, err := LoadCSV(strings.NewReader(reviewsCSV), opts)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	if docs[0].ID != 10 || docs[0].Label != "1" || !strings.HasPrefix(docs[0].Text, "Que produto") {
		t.Errorf("first document = %+v", docs[0])
	}
	if docs[2].ID != 14 {
		t.Errorf("third document id = %d, want 14", docs[2].ID)
	}
	want := LoadStats{Rows: 5, Kept: 3, EmptyText: 1, EmptyLabel: 1}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestLoadCSVMissingColumn(t *testing.T) {
	_, _, err := LoadCSV(strings.NewReader(reviewsCSV), Options{TextColumn: "body", LabelColumn: "polarity"})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestLoadCSVByteOrderMark(t *testing.T) {
	data := "\ufefftext,label\nbom produto,pos\n"
	docs, _, err := LoadCSV(strings.NewReader(data), DefaultOptions())
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(docs) != 1 || docs[0].Text != "bom produto" {
		t.Errorf("docs = %+v", docs)
	}
}

func TestLoadJSONL(t *testing.T) {
	data := `{"text": "Apple lança novo iPhone", "label": "tecnologia"}
{"text": "Flamengo vence o clássico", "label": "esportes"}
not json at all

{"text": "", "label": "política"}
{"text": "Placar do jogo", "label": 3}
`
	docs, stats, err := LoadJSONL(strings.NewReader(data), DefaultOptions())
	if err != nil {
		t.Fatalf("LoadJSONL: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d: %+v", len(docs), docs)
	}
	if docs[2].Label != "3" {
		t.Errorf("numeric label = %q, want \"3\"", docs[2].Label)
	}
	if stats.Malformed != 1 || stats.EmptyText != 1 || stats.Rows != 5 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "reviews.csv")
	if err := os.WriteFile(csvPath, []byte(reviewsCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	docs, _, err := LoadFile(csvPath, Options{TextColumn: "review_text", LabelColumn: "polarity"})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(docs) != 3 {
		t.Errorf("expected 3 documents, got %d", len(docs))
	}
	// Without an id column the row number is used.
	if docs[1].ID != 1 {
		t.Errorf("row id = %d, want 1", docs[1].ID)
	}

	txtPath := filepath.Join(dir, "reviews.txt")
	if err := os.WriteFile(txtPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadFile(txtPath, DefaultOptions()); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("unsupported extension: got %v, want ErrInvalidInput", err)
	}
}

func TestLoadStripHTML(t *testing.T) {
	data := "text,label\n\"<p>Produto <b>bom</b></p><script>x()</script>\",pos\n\"<br/>\",neg\n"
	opts := DefaultOptions()
	opts.StripHTML = true

	docs, stats, err := LoadCSV(strings.NewReader(data), opts)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(docs) != 1 || docs[0].Text != "Produto bom" {
		t.Errorf("docs = %+v", docs)
	}
	if stats.EmptyText != 1 {
		t.Errorf("markup-only row should count as empty, stats = %+v", stats)
	}
}

func TestStripHTML(t *testing.T) {
	tests := map[string]string{
		"plain text":                   "plain text",
		"<p>um</p><p>dois</p>":         "um dois",
		"a &amp; b":                    "a & b",
		"<style>p{}</style>texto":      "texto",
		"<div>linha<br>quebrada</div>": "linha quebrada",
		"<a href=\"x\">link</a> solto": "link solto",
	}
	for in, want := range tests {
		if got := StripHTML(in); got != want {
			t.Errorf("StripHTML(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTextsLabels(t *testing.T) {
	docs := []Document{{Text: "a", Label: "x"}, {Text: "b", Label: "y"}}
	if got := Texts(docs); got[0] != "a" || got[1] != "b" {
		t.Errorf("Texts = %v", got)
	}
	if got := Labels(docs); got[0] != "x" || got[1] != "y" {
		t.Errorf("Labels = %v", got)
	}
}
