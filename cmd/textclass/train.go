package main

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/textclass/pkg/textclass"
	"github.com/cognicore/textclass/pkg/textclass/artifact"
	"github.com/cognicore/textclass/pkg/textclass/config"
)

// trainFlags are shared by train and stats, which both read a corpus.
type trainFlags struct {
	pipeline   string
	stoplist   string
	corpus     string
	text       string
	label      string
	stripHTML  bool
	testSize   float64
	seed       int64
	noStratify bool
	noFallback bool
	classifier string
	noNorm     bool
	artifacts  string
}

func (f *trainFlags) register(fs *flag.FlagSet) {
	def := textclass.DefaultConfig()
	fs.StringVar(&f.pipeline, "config", "", "Pipeline YAML file")
	fs.StringVar(&f.stoplist, "stoplist", "", "Stoplist YAML file (overrides the pipeline's)")
	fs.StringVar(&f.corpus, "corpus", "", "Corpus file (.csv, .jsonl)")
	fs.StringVar(&f.text, "text-column", def.Corpus.TextColumn, "Text column or field")
	fs.StringVar(&f.label, "label-column", def.Corpus.LabelColumn, "Label column or field")
	fs.BoolVar(&f.stripHTML, "strip-html", false, "Strip HTML markup from texts")
	fs.Float64Var(&f.testSize, "test-size", def.TestSize, "Held-out fraction")
	fs.Int64Var(&f.seed, "seed", def.Seed, "Split seed")
	fs.BoolVar(&f.noStratify, "no-stratify", false, "Plain shuffled split")
	fs.BoolVar(&f.noFallback, "no-fallback", false, "Fail when stratification is infeasible")
	fs.StringVar(&f.classifier, "classifier", def.Classifier, "logistic or naive_bayes")
	fs.BoolVar(&f.noNorm, "no-normalize", false, "Train on raw text")
	fs.StringVar(&f.artifacts, "artifacts", def.Artifacts, "Artifact directory or .db file")
}

// config loads the YAML files, then applies the flags given explicitly.
func (f *trainFlags) config(set func(string) bool) (textclass.Config, error) {
	loader := config.Loader{PipelinePath: f.pipeline, StoplistPath: f.stoplist}
	cfg, err := loader.Load()
	if err != nil {
		return cfg, err
	}
	if set("corpus") {
		cfg.CorpusPath = f.corpus
	}
	if set("text-column") {
		cfg.Corpus.TextColumn = f.text
	}
	if set("label-column") {
		cfg.Corpus.LabelColumn = f.label
	}
	if set("strip-html") {
		cfg.Corpus.StripHTML = f.stripHTML
	}
	if set("test-size") {
		cfg.TestSize = f.testSize
	}
	if set("seed") {
		cfg.Seed = f.seed
	}
	if set("no-stratify") {
		cfg.Stratify = !f.noStratify
	}
	if set("no-fallback") {
		cfg.Fallback = !f.noFallback
	}
	if set("classifier") {
		cfg.Classifier = f.classifier
	}
	if set("no-normalize") {
		cfg.Normalize = !f.noNorm
	}
	if set("artifacts") {
		cfg.Artifacts = f.artifacts
	}
	return cfg, cfg.Validate()
}

func trainCommand(ctx context.Context, args []string, ui UI) error {
	fs := newFlagSet("train", ui)
	var f trainFlags
	f.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := f.config(func(name string) bool { return isSet(fs, name) })
	if err != nil {
		return err
	}

	store, err := artifact.Open(ctx, cfg.Artifacts)
	if err != nil {
		return err
	}
	defer store.Close()

	rep, err := textclass.Run(ctx, cfg, store)
	if err != nil {
		return err
	}
	printReport(ui, rep, cfg.Artifacts)
	return nil
}

func printReport(ui UI, rep textclass.Report, location string) {
	out := ui.Out
	fmt.Fprintf(out, "Pair:        %s\n", rep.PairID)
	fmt.Fprintf(out, "Saved to:    %s\n", location)
	fmt.Fprintf(out, "Classifier:  %s\n", rep.Classifier)
	fmt.Fprintf(out, "Documents:   %d of %d rows\n", rep.Documents, rep.Load.Rows)
	split := "stratified"
	switch {
	case rep.FellBack:
		split = "plain (stratification infeasible)"
	case !rep.Stratified:
		split = "plain"
	}
	fmt.Fprintf(out, "Split:       %d train / %d test, %s\n", rep.TrainSize, rep.TestSize, split)
	fmt.Fprintf(out, "Vocabulary:  %d terms\n", rep.Vocabulary)
	fmt.Fprintf(out, "Accuracy:    %.4f\n", rep.Accuracy)

	labels := make([]string, 0, len(rep.Labels))
	for l := range rep.Labels {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	fmt.Fprintln(out, "\nLabels:")
	for _, l := range labels {
		tokens := make([]string, 0, len(rep.TopTokens[l]))
		for _, tc := range rep.TopTokens[l] {
			tokens = append(tokens, tc.Token)
		}
		fmt.Fprintf(out, "  %-12s %5d  %s\n", l, rep.Labels[l], strings.Join(tokens, ", "))
	}
}
