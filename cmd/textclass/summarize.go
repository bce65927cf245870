package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cognicore/textclass/internal/llm"
	"github.com/cognicore/textclass/pkg/textclass/config"
	"github.com/cognicore/textclass/pkg/textclass/internalerr"
)

func summarizeCommand(ctx context.Context, args []string, ui UI) error {
	fs := newFlagSet("summarize", ui)
	file := fs.String("file", "", "Text file to summarise (- for stdin)")
	model := fs.String("model", "", "Chat model (default OPENAI_MODEL)")
	size := fs.Int("chunk-size", llm.DefaultChunkSize, "Characters per request")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("%w: -file is required", internalerr.ErrInvalidConfig)
	}

	lines, err := readLines(*file, ui.In)
	if err != nil {
		return err
	}

	svc := config.ServicesFromEnv(os.LookupEnv)
	if svc.OpenAIKey == "" && svc.OpenAIBaseURL == "" {
		return fmt.Errorf("%w: set OPENAI_API_KEY or OPENAI_BASE_URL", internalerr.ErrInvalidConfig)
	}
	client := &llm.Client{
		BaseURL:   svc.OpenAIBaseURL,
		APIKey:    svc.OpenAIKey,
		Model:     svc.OpenAIModel,
		ChunkSize: *size,
	}
	if *model != "" {
		client.Model = *model
	}

	var summarizer llm.Summarizer = client
	summary, err := summarizer.Summarize(ctx, strings.Join(lines, "\n"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ui.Out, summary)
	return err
}
