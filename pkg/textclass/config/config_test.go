package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/textclass/pkg/textclass/classify"
	"github.com/cognicore/textclass/pkg/textclass/internalerr"
	"github.com/cognicore/textclass/pkg/textclass/stoplist"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadStoplist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stoplist.yaml")
	writeFile(t, path, `base: none
terms:
  - produto
  - Loja
  - produto
remove:
  - loja
`)

	sl, err := LoadStoplist(path)
	if err != nil {
		t.Fatalf("Failed to load stoplist: %v", err)
	}
	if len(sl.Terms) != 3 {
		t.Errorf("Expected 3 terms, got %d", len(sl.Terms))
	}

	words, err := sl.Words()
	if err != nil {
		t.Fatalf("Words: %v", err)
	}
	if len(words) != 1 || words[0] != "produto" {
		t.Errorf("Words() = %v, want [produto]", words)
	}
}

func TestStoplistDefaultBase(t *testing.T) {
	sl := &Stoplist{Terms: []string{"produto"}, Remove: []string{"não"}}
	words, err := sl.Words()
	if err != nil {
		t.Fatalf("Words: %v", err)
	}
	if len(words) != len(stoplist.Portuguese) {
		t.Errorf("expected %d words (one added, one removed), got %d", len(stoplist.Portuguese), len(words))
	}
	for _, w := range words {
		if w == "não" {
			t.Error("removed word still present")
		}
	}

	if _, err := (&Stoplist{Base: "klingon"}).Words(); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("unknown base: got %v, want ErrInvalidConfig", err)
	}
}

func TestLoadPipeline(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "stoplist.yaml"), "base: none\nterms: [produto]\n")
	path := filepath.Join(dir, "pipeline.yaml")
	writeFile(t, path, `corpus:
  path: data/reviews.csv
  text_column: review_text
  label_column: polarity
  strip_html: true
split:
  test_size: 0.3
  stratify: false
  seed: 7
model:
  classifier: naive_bayes
preprocess:
  normalize: false
  stoplist: stoplist.yaml
artifacts: out/model.db
`)

	loader := Loader{PipelinePath: path}
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CorpusPath != filepath.Join(dir, "data", "reviews.csv") {
		t.Errorf("CorpusPath = %q", cfg.CorpusPath)
	}
	if cfg.Corpus.TextColumn != "review_text" || cfg.Corpus.LabelColumn != "polarity" || !cfg.Corpus.StripHTML {
		t.Errorf("Corpus = %+v", cfg.Corpus)
	}
	if cfg.TestSize != 0.3 || cfg.Stratify || cfg.Seed != 7 {
		t.Errorf("split settings = %v %v %v", cfg.TestSize, cfg.Stratify, cfg.Seed)
	}
	if !cfg.Fallback {
		t.Error("unset fallback should keep its default")
	}
	if cfg.Classifier != classify.NaiveBayes || cfg.Normalize {
		t.Errorf("Classifier = %q, Normalize = %v", cfg.Classifier, cfg.Normalize)
	}
	if len(cfg.Stopwords) != 1 || cfg.Stopwords[0] != "produto" {
		t.Errorf("Stopwords = %v", cfg.Stopwords)
	}
	if cfg.Artifacts != filepath.Join(dir, "out", "model.db") {
		t.Errorf("Artifacts = %q", cfg.Artifacts)
	}
}

func TestLoaderAllEmpty(t *testing.T) {
	loader := Loader{}
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Empty loader should succeed: %v", err)
	}
	if cfg.Stopwords != nil {
		t.Errorf("Stopwords should default to nil, got %d", len(cfg.Stopwords))
	}
	if cfg.TestSize != 0.2 || !cfg.Stratify {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoaderInvalid(t *testing.T) {
	dir := t.TempDir()

	if _, err := (&Loader{PipelinePath: filepath.Join(dir, "missing.yaml")}).Load(); err == nil {
		t.Error("Should error on nonexistent pipeline")
	}
	if _, err := (&Loader{StoplistPath: "/nonexistent/stoplist.yaml"}).Load(); err == nil {
		t.Error("Should error on nonexistent stoplist")
	}

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "split: [not, a, map")
	if _, err := (&Loader{PipelinePath: bad}).Load(); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("malformed yaml: got %v, want ErrInvalidConfig", err)
	}

	svm := filepath.Join(dir, "svm.yaml")
	writeFile(t, svm, "model:\n  classifier: svm\n")
	if _, err := (&Loader{PipelinePath: svm}).Load(); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("unknown classifier: got %v, want ErrInvalidConfig", err)
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env.test"), "TEXTCLASS_TEST_VALUE=from-file\nVALKEY_INIT_ADDRESS=cache:6379\n")
	t.Setenv("VALKEY_INIT_ADDRESS", "preset:6379")
	t.Setenv("TEXTCLASS_TEST_VALUE", "")
	os.Unsetenv("TEXTCLASS_TEST_VALUE")

	if err := LoadEnv(dir, "test"); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if got := os.Getenv("TEXTCLASS_TEST_VALUE"); got != "from-file" {
		t.Errorf("TEXTCLASS_TEST_VALUE = %q, want from-file", got)
	}
	if got := os.Getenv("VALKEY_INIT_ADDRESS"); got != "preset:6379" {
		t.Errorf("existing variable overridden: %q", got)
	}

	if err := LoadEnv(dir, "production"); err != nil {
		t.Errorf("missing env file should not fail: %v", err)
	}
}

func TestServicesFromEnv(t *testing.T) {
	env := map[string]string{
		"AWS_REGION":          "sa-east-1",
		"VALKEY_INIT_ADDRESS": "localhost:6379",
		"OPENAI_API_KEY":      "sk-test",
		"SENTIMENT_CACHE_TTL": "90",
	}
	s := ServicesFromEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if s.AWSRegion != "sa-east-1" || s.ValkeyAddr != "localhost:6379" || s.OpenAIKey != "sk-test" {
		t.Errorf("Services = %+v", s)
	}
	if s.OpenAIModel == "" {
		t.Error("OpenAIModel should have a default")
	}
	if s.CacheTTL != 90*time.Second {
		t.Errorf("CacheTTL = %v, want 90s", s.CacheTTL)
	}

	env["SENTIMENT_CACHE_TTL"] = "2h"
	s = ServicesFromEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if s.CacheTTL != 2*time.Hour {
		t.Errorf("CacheTTL = %v, want 2h", s.CacheTTL)
	}
}
