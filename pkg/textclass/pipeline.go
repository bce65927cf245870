package textclass

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cognicore/textclass/pkg/textclass/analytics"
	"github.com/cognicore/textclass/pkg/textclass/artifact"
	"github.com/cognicore/textclass/pkg/textclass/classify"
	"github.com/cognicore/textclass/pkg/textclass/corpus"
	"github.com/cognicore/textclass/pkg/textclass/internalerr"
	"github.com/cognicore/textclass/pkg/textclass/normalize"
	"github.com/cognicore/textclass/pkg/textclass/split"
	"github.com/cognicore/textclass/pkg/textclass/vectorize"
)

// Report summarises a training run.
type Report struct {
	PairID     string
	Classifier string
	Load       corpus.LoadStats
	Documents  int
	Dropped    int
	TrainSize  int
	TestSize   int
	Stratified bool
	FellBack   bool
	Vocabulary int
	Accuracy   float64
	Labels     map[string]int
	TopTokens  map[string][]analytics.TokenCount
}

// Train fits a vocabulary and model on docs according to cfg and scores the
// model on the held-out part. Documents with an empty text or label are
// dropped first; documents that normalize to nothing are kept.
func Train(ctx context.Context, docs []corpus.Document, cfg Config) (*Engine, Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Report{}, err
	}
	rep := Report{Classifier: cfg.Classifier, Labels: make(map[string]int)}

	var texts, labels []string
	for _, d := range docs {
		label := strings.TrimSpace(d.Label)
		if strings.TrimSpace(d.Text) == "" || label == "" {
			rep.Dropped++
			continue
		}
		texts = append(texts, d.Text)
		labels = append(labels, label)
		rep.Labels[label]++
	}
	rep.Documents = len(texts)
	if len(texts) == 0 {
		return nil, rep, fmt.Errorf("%w: no labelled documents", internalerr.ErrInvalidInput)
	}

	trainIdx, testIdx, err := splitRows(ctx, labels, cfg, &rep)
	if err != nil {
		return nil, rep, err
	}
	rep.TrainSize, rep.TestSize = len(trainIdx), len(testIdx)

	var norm *normalize.Normalizer
	prepared := texts
	if cfg.Normalize {
		norm = normalize.New(cfg.StopwordList())
		prepared = norm.TextAll(texts)
	}

	trainText, trainLabels := pick(prepared, trainIdx), pick(labels, trainIdx)
	vocab, err := vectorize.Fit(trainText)
	if err != nil {
		return nil, rep, err
	}
	Xtrain, err := vocab.TransformAll(trainText)
	if err != nil {
		return nil, rep, err
	}
	model, err := classify.Fit(cfg.Classifier, Xtrain, trainLabels)
	if err != nil {
		return nil, rep, err
	}
	Xtest, err := vocab.TransformAll(pick(prepared, testIdx))
	if err != nil {
		return nil, rep, err
	}
	rep.Accuracy, err = classify.Score(model, Xtest, pick(labels, testIdx))
	if err != nil {
		return nil, rep, err
	}
	rep.Vocabulary = vocab.Len()
	rep.TopTokens = topTokens(trainText, trainLabels, 5)

	b := artifact.Bundle{
		Vocabulary: vocab,
		Model:      model,
		Training: artifact.TrainingInfo{
			Classifier: cfg.Classifier,
			Accuracy:   rep.Accuracy,
			TrainSize:  rep.TrainSize,
			TestSize:   rep.TestSize,
			Stratified: rep.Stratified,
			Seed:       cfg.Seed,
			Labels:     rep.Labels,
		},
	}
	if norm != nil {
		b.Preprocess = artifact.Preprocess{Normalize: true, Stopwords: norm.Stopwords()}
	}
	b.Stamp()
	rep.PairID = b.ID

	slog.Info("trained classifier",
		"classifier", cfg.Classifier,
		"documents", rep.Documents,
		"train", rep.TrainSize,
		"test", rep.TestSize,
		"vocabulary", rep.Vocabulary,
		"accuracy", rep.Accuracy)

	return &Engine{norm: norm, vocab: vocab, model: model, bundle: b}, rep, nil
}

// Run is the whole training pipeline: load the corpus named by cfg, train,
// and save the resulting pair to store.
func Run(ctx context.Context, cfg Config, store artifact.Store) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	if cfg.CorpusPath == "" {
		return Report{}, fmt.Errorf("%w: corpus path required", internalerr.ErrInvalidConfig)
	}
	docs, stats, err := corpus.LoadFile(cfg.CorpusPath, cfg.Corpus)
	if err != nil {
		return Report{}, err
	}
	slog.Debug("loaded corpus", "path", cfg.CorpusPath, "rows", stats.Rows, "kept", stats.Kept,
		"empty_text", stats.EmptyText, "empty_label", stats.EmptyLabel, "malformed", stats.Malformed)

	engine, rep, err := Train(ctx, docs, cfg)
	rep.Load = stats
	if err != nil {
		return rep, err
	}
	if err := store.Save(ctx, engine.Bundle()); err != nil {
		return rep, fmt.Errorf("save artifacts: %w", err)
	}
	return rep, nil
}

func splitRows(ctx context.Context, labels []string, cfg Config, rep *Report) (train, test []int, err error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	opts := split.Options{TestSize: cfg.TestSize, Stratify: cfg.Stratify, Seed: cfg.Seed}
	train, test, err = split.TrainTest(labels, opts)
	if errors.Is(err, internalerr.ErrStratification) && cfg.Fallback {
		slog.Warn("stratified split infeasible, falling back to a plain split", "err", err)
		opts.Stratify = false
		rep.FellBack = true
		train, test, err = split.TrainTest(labels, opts)
	}
	rep.Stratified = opts.Stratify
	return train, test, err
}

func pick(values []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}

func topTokens(texts, labels []string, k int) map[string][]analytics.TokenCount {
	a := analytics.NewAnalyzer()
	for i, t := range texts {
		a.Process(vectorize.Analyze(t), labels[i])
	}
	stats := a.Snapshot()
	out := make(map[string][]analytics.TokenCount, len(stats.LabelCounts))
	for _, label := range stats.Labels() {
		out[label] = stats.TopTokens(label, k)
	}
	return out
}
