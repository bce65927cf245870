package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cognicore/textclass/pkg/textclass/chunk"
	"github.com/cognicore/textclass/pkg/textclass/config"
	"github.com/cognicore/textclass/pkg/textclass/internalerr"
	"github.com/cognicore/textclass/pkg/textclass/sentiment"
)

func sentimentCommand(ctx context.Context, args []string, ui UI) error {
	fs := newFlagSet("sentiment", ui)
	file := fs.String("file", "", "Transcript to analyse (required)")
	engine := fs.String("engine", "comprehend", "comprehend or vader")
	lang := fs.String("lang", sentiment.DefaultLanguage, "Language code sent to the analyzer")
	size := fs.Int("chunk-size", chunk.DefaultSize, "Characters per request")
	noCache := fs.Bool("no-cache", false, "Skip the Valkey result cache")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("%w: -file is required", internalerr.ErrInvalidConfig)
	}

	text, err := os.ReadFile(*file)
	if err != nil {
		return err
	}

	svc := config.ServicesFromEnv(os.LookupEnv)
	analyzer, closeFn, err := buildAnalyzer(ctx, *engine, svc, !*noCache)
	if err != nil {
		return err
	}
	defer closeFn()

	report := sentiment.AnalyzeDocument(ctx, analyzer, string(text), sentiment.DocumentOptions{
		ChunkSize: *size,
		Language:  *lang,
	})
	if err := sentiment.WriteReport(*file, report); err != nil {
		return err
	}

	for _, c := range report.Chunks {
		if c.Err != nil {
			fmt.Fprintf(ui.Out, "Chunk %d: error: %v\n", c.Index, c.Err)
			continue
		}
		fmt.Fprintf(ui.Out, "Chunk %d: %s\n", c.Index, c.Result)
	}
	_, final := sentiment.ReportPaths(*file, len(report.Chunks))
	fmt.Fprintf(ui.Out, "Report: %s\n", final)

	if n := report.Failed(); n > 0 {
		return fmt.Errorf("%d of %d chunks failed", n, len(report.Chunks))
	}
	return nil
}

func buildAnalyzer(ctx context.Context, engine string, svc config.Services, cache bool) (sentiment.Analyzer, func(), error) {
	var analyzer sentiment.Analyzer
	switch engine {
	case "vader":
		analyzer = sentiment.NewVader()
	case "comprehend":
		c, err := sentiment.NewComprehend(ctx, sentiment.ComprehendConfig{
			Region:   svc.AWSRegion,
			Endpoint: svc.AWSEndpoint,
		})
		if err != nil {
			return nil, nil, err
		}
		analyzer = c
	default:
		return nil, nil, fmt.Errorf("%w: unknown sentiment engine %q", internalerr.ErrInvalidConfig, engine)
	}

	if !cache || svc.ValkeyAddr == "" {
		return analyzer, func() {}, nil
	}
	client, err := sentiment.DialValkey(ctx, svc.ValkeyAddr, svc.ValkeyPassword)
	if err != nil {
		slog.Warn("sentiment cache unavailable", "addr", svc.ValkeyAddr, "err", err)
		return analyzer, func() {}, nil
	}
	vc := sentiment.NewValkeyCache(client)
	return sentiment.NewCached(analyzer, vc, svc.CacheTTL), vc.Close, nil
}
