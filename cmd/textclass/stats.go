package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/cognicore/textclass/pkg/textclass/analytics"
	"github.com/cognicore/textclass/pkg/textclass/corpus"
	"github.com/cognicore/textclass/pkg/textclass/internalerr"
	"github.com/cognicore/textclass/pkg/textclass/normalize"
	"github.com/cognicore/textclass/pkg/textclass/stoplist"
)

func statsCommand(args []string, ui UI) error {
	fs := newFlagSet("stats", ui)
	var f trainFlags
	f.register(fs)
	top := fs.Int("top", 10, "Tokens shown per label")
	pairs := fs.Int("pairs", 10, "Phrase candidates shown")
	dfPct := fs.Float64("stop-df", stoplist.DefaultThresholds().DFPercent, "Stop-word candidate document frequency, in percent")
	entropy := fs.Float64("stop-entropy", stoplist.DefaultThresholds().LabelEntropy, "Stop-word candidate label entropy, 0..1")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := f.config(func(name string) bool { return isSet(fs, name) })
	if err != nil {
		return err
	}
	if cfg.CorpusPath == "" {
		return fmt.Errorf("%w: corpus path required", internalerr.ErrInvalidConfig)
	}
	docs, load, err := corpus.LoadFile(cfg.CorpusPath, cfg.Corpus)
	if err != nil {
		return err
	}

	words := cfg.StopwordList()
	norm := normalize.New(words)
	if !cfg.Normalize {
		norm = normalize.New([]string{})
	}
	an := analytics.NewAnalyzer()
	for _, d := range docs {
		if d.Label == "" {
			continue
		}
		an.Process(norm.Tokens(d.Text), d.Label)
	}
	stats := an.Snapshot()

	out := ui.Out
	fmt.Fprintf(out, "Rows: %d  kept: %d  empty text: %d  empty label: %d  malformed: %d\n\n",
		load.Rows, load.Kept, load.EmptyText, load.EmptyLabel, load.Malformed)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tDOCS\tTOP TOKENS")
	for _, label := range stats.Labels() {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", label, stats.LabelCounts[label], joinCounts(stats.TopTokens(label, *top)))
	}
	fmt.Fprintf(tw, "(all)\t%d\t%s\n", stats.TotalDocs, joinCounts(stats.TopTokens("", *top)))
	if err := tw.Flush(); err != nil {
		return err
	}

	mgr := stoplist.NewManager(words, normalize.Fold)
	candidates := mgr.SuggestCandidates(stats.StopwordStats(), stoplist.Thresholds{DFPercent: *dfPct, LabelEntropy: *entropy})
	fmt.Fprintln(out, "\nStop-word candidates:")
	if len(candidates) == 0 {
		fmt.Fprintln(out, "  none")
	}
	for _, c := range candidates {
		fmt.Fprintf(out, "  %-20s %.3f\n", c.Token, c.Score)
	}

	fmt.Fprintln(out, "\nPhrase candidates:")
	for _, p := range stats.TopPairs(*pairs, 0) {
		fmt.Fprintf(out, "  %s %s  pmi=%.2f bigrams=%d docs=%d\n", p.A, p.B, p.PMI, p.BigramFreq, p.Support)
	}
	return nil
}

func joinCounts(tcs []analytics.TokenCount) string {
	parts := make([]string, len(tcs))
	for i, tc := range tcs {
		parts[i] = fmt.Sprintf("%s(%d)", tc.Token, tc.Count)
	}
	return strings.Join(parts, ", ")
}
