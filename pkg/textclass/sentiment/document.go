package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/textclass/pkg/textclass/chunk"
)

// DocumentOptions controls how a long text is split before analysis.
type DocumentOptions struct {
	ChunkSize int    // characters per request; chunk.DefaultSize when zero
	Language  string // passed through to the analyzer
}

// ChunkResult is the analysis of one chunk. Err is set instead of Result
// when that chunk failed.
type ChunkResult struct {
	Index  int // 1-based
	Text   string
	Result Result
	Err    error
}

type DocumentReport struct {
	Text   string
	Chunks []ChunkResult
}

// Failed counts chunks whose analysis returned an error.
func (r DocumentReport) Failed() int {
	n := 0
	for _, c := range r.Chunks {
		if c.Err != nil {
			n++
		}
	}
	return n
}

// AnalyzeDocument wraps text into chunks and calls the analyzer exactly once
// per chunk, in order. A failing chunk does not stop the others; once ctx is
// done the remaining chunks carry its error without being sent.
func AnalyzeDocument(ctx context.Context, a Analyzer, text string, opts DocumentOptions) DocumentReport {
	report := DocumentReport{Text: text}
	for i, piece := range chunk.Wrap(text, opts.ChunkSize) {
		cr := ChunkResult{Index: i + 1, Text: piece}
		if err := ctx.Err(); err != nil {
			cr.Err = err
		} else {
			cr.Result, cr.Err = a.Analyze(ctx, piece, opts.Language)
		}
		if cr.Err != nil {
			slog.Warn("chunk analysis failed", "chunk", cr.Index, "err", cr.Err)
		}
		report.Chunks = append(report.Chunks, cr)
	}
	return report
}

// ReportPaths returns the per-chunk files and the final output file that
// WriteReport produces for textPath.
func ReportPaths(textPath string, chunks int) ([]string, string) {
	base := strings.TrimSuffix(textPath, filepath.Ext(textPath))
	paths := make([]string, chunks)
	for i := range paths {
		paths[i] = fmt.Sprintf("%s_chunk_%d.sentiment.txt", base, i+1)
	}
	return paths, base + ".final_output.txt"
}

// WriteReport writes one JSON file per chunk next to textPath and a final
// summary holding the original transcript followed by one line per chunk.
func WriteReport(textPath string, report DocumentReport) error {
	chunkPaths, finalPath := ReportPaths(textPath, len(report.Chunks))

	var final strings.Builder
	final.WriteString("Transcrição Original:\n")
	final.WriteString(report.Text)
	final.WriteString("\n\n")

	for i, c := range report.Chunks {
		body, err := chunkBody(c)
		if err != nil {
			return err
		}
		if err := os.WriteFile(chunkPaths[i], body, 0644); err != nil {
			return fmt.Errorf("write chunk %d: %w", c.Index, err)
		}
		if c.Err != nil {
			fmt.Fprintf(&final, "Chunk %d: error: %v\n", c.Index, c.Err)
		} else {
			fmt.Fprintf(&final, "Chunk %d: %s\n", c.Index, c.Result)
		}
	}

	if err := os.WriteFile(finalPath, []byte(final.String()), 0644); err != nil {
		return fmt.Errorf("write final output: %w", err)
	}
	slog.Info("sentiment report written", "chunks", len(report.Chunks), "path", finalPath)
	return nil
}

func chunkBody(c ChunkResult) ([]byte, error) {
	var v any = c.Result
	if c.Err != nil {
		v = map[string]string{"error": c.Err.Error()}
	}
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode chunk %d: %w", c.Index, err)
	}
	return append(body, '\n'), nil
}
