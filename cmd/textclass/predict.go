package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gosuri/uiprogress"
	"github.com/mattn/go-isatty"

	"github.com/cognicore/textclass/pkg/textclass"
	"github.com/cognicore/textclass/pkg/textclass/artifact"
)

func loadEngine(ctx context.Context, location string) (*textclass.Engine, error) {
	store, err := artifact.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return textclass.Load(ctx, store)
}

func predictCommand(ctx context.Context, args []string, ui UI) error {
	fs := newFlagSet("predict", ui)
	location := fs.String("artifacts", textclass.DefaultConfig().Artifacts, "Artifact directory or .db file")
	file := fs.String("file", "", "Read one text per line from this file (- for stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	texts := fs.Args()
	fromArgs := len(texts)
	if *file != "" {
		lines, err := readLines(*file, ui.In)
		if err != nil {
			return err
		}
		texts = append(texts, lines...)
	}
	if len(texts) == 0 {
		return fmt.Errorf("predict: no texts given")
	}

	engine, err := loadEngine(ctx, *location)
	if err != nil {
		return err
	}

	var bar *uiprogress.Bar
	if *file != "" && isTerminal(ui.Err) {
		p := uiprogress.New()
		p.SetOut(ui.Err)
		bar = p.AddBar(len(texts)).AppendCompleted().PrependElapsed()
		p.Start()
		defer p.Stop()
	}

	labels := make([]string, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return err
		}
		labels[i], err = engine.PredictOne(text)
		if err != nil {
			if i >= fromArgs {
				return fmt.Errorf("predict %s line %d: %w", *file, i-fromArgs+1, err)
			}
			return fmt.Errorf("predict argument %d: %w", i+1, err)
		}
		if bar != nil {
			bar.Incr()
		}
	}

	w := bufio.NewWriter(ui.Out)
	for i, text := range texts {
		fmt.Fprintf(w, "%s\t%s\n", labels[i], text)
	}
	return w.Flush()
}

// readLines returns every line of path, or of stdin for "-", trimmed of
// surrounding space. Blank lines are kept so output lines match input lines.
func readLines(path string, stdin io.Reader) ([]string, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	return lines, sc.Err()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
