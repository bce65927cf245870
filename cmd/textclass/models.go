package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cognicore/textclass/pkg/textclass/artifact"
	"github.com/cognicore/textclass/pkg/textclass/internalerr"
)

func modelsCommand(ctx context.Context, args []string, ui UI) error {
	fs := newFlagSet("models", ui)
	location := fs.String("artifacts", "model.db", "SQLite artifact store")
	activate := fs.String("activate", "", "Make this pair the one loaded by predict")
	if err := fs.Parse(args); err != nil {
		return err
	}

	lower := strings.ToLower(*location)
	if !strings.HasSuffix(lower, ".db") && !strings.HasSuffix(lower, ".sqlite") {
		return fmt.Errorf("%w: models needs a .db or .sqlite store, got %q", internalerr.ErrInvalidConfig, *location)
	}
	store, err := artifact.OpenSQLite(ctx, *location)
	if err != nil {
		return err
	}
	defer store.Close()

	if *activate != "" {
		if err := store.Activate(ctx, *activate); err != nil {
			return err
		}
		fmt.Fprintf(ui.Out, "active pair: %s\n", *activate)
		return nil
	}

	entries, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(ui.Out, "no pairs stored")
		return nil
	}

	tw := tabwriter.NewWriter(ui.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tPAIR\tCREATED\tCLASSIFIER\tACCURACY")
	for _, e := range entries {
		mark := ""
		if e.Active {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.4f\n", mark, e.PairID, e.CreatedAt.Format(time.DateTime), e.Classifier, e.Accuracy)
	}
	return tw.Flush()
}
