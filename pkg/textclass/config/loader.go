package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cognicore/textclass/pkg/textclass"
	"github.com/cognicore/textclass/pkg/textclass/internalerr"
	"github.com/cognicore/textclass/pkg/textclass/stoplist"
)

// Loader loads configuration files and builds a training configuration
type Loader struct {
	PipelinePath string
	StoplistPath string // overrides preprocess.stoplist of the pipeline file
}

// Load starts from textclass.DefaultConfig and applies every file that is set.
// Relative paths inside the pipeline file resolve against its directory.
func (l *Loader) Load() (textclass.Config, error) {
	cfg := textclass.DefaultConfig()

	stoplistPath := l.StoplistPath
	if l.PipelinePath != "" {
		p, err := LoadPipeline(l.PipelinePath)
		if err != nil {
			return cfg, fmt.Errorf("load pipeline: %w", err)
		}
		base := filepath.Dir(l.PipelinePath)
		p.apply(&cfg, base)
		if stoplistPath == "" && p.Preprocess.Stoplist != "" {
			stoplistPath = resolve(base, p.Preprocess.Stoplist)
		}
	}

	if stoplistPath != "" {
		sl, err := LoadStoplist(stoplistPath)
		if err != nil {
			return cfg, fmt.Errorf("load stoplist: %w", err)
		}
		words, err := sl.Words()
		if err != nil {
			return cfg, err
		}
		cfg.Stopwords = words
	}

	return cfg, cfg.Validate()
}

func (p *Pipeline) apply(cfg *textclass.Config, base string) {
	if p.Corpus.Path != "" {
		cfg.CorpusPath = resolve(base, p.Corpus.Path)
	}
	setString(&cfg.Corpus.TextColumn, p.Corpus.TextColumn)
	setString(&cfg.Corpus.LabelColumn, p.Corpus.LabelColumn)
	setString(&cfg.Corpus.IDColumn, p.Corpus.IDColumn)
	setBool(&cfg.Corpus.StripHTML, p.Corpus.StripHTML)

	if p.Split.TestSize != nil {
		cfg.TestSize = *p.Split.TestSize
	}
	setBool(&cfg.Stratify, p.Split.Stratify)
	setBool(&cfg.Fallback, p.Split.Fallback)
	if p.Split.Seed != nil {
		cfg.Seed = *p.Split.Seed
	}

	setString(&cfg.Classifier, p.Model.Classifier)
	setBool(&cfg.Normalize, p.Preprocess.Normalize)
	if p.Artifacts != "" {
		cfg.Artifacts = resolve(base, p.Artifacts)
	}
}

// Words resolves the configured list into base stop-words.
func (s *Stoplist) Words() ([]string, error) {
	var words []string
	switch strings.ToLower(s.Base) {
	case "", "portuguese", "pt":
		words = append(words, stoplist.Portuguese...)
	case "none":
	default:
		return nil, fmt.Errorf("%w: unknown stoplist base %q", internalerr.ErrInvalidConfig, s.Base)
	}

	drop := make(map[string]bool, len(s.Remove))
	for _, w := range s.Remove {
		drop[strings.ToLower(strings.TrimSpace(w))] = true
	}
	out := make([]string, 0, len(words)+len(s.Terms))
	seen := make(map[string]bool)
	for _, w := range append(words, s.Terms...) {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || drop[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out, nil
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) || base == "" {
		return path
	}
	return filepath.Join(base, path)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
