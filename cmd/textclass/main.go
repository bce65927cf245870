package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cognicore/textclass/internal/logging"
	"github.com/cognicore/textclass/pkg/textclass/config"
)

var version = "dev"

// UI holds the standard streams so tests can substitute buffers.
type UI struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}

	fs := flag.NewFlagSet("textclass", flag.ContinueOnError)
	fs.SetOutput(ui.Err)
	logLevel := fs.String("log-level", "info", "debug, info, warn or error")
	noColor := fs.Bool("no-color", false, "Disable coloured log output")
	envName := fs.String("env", os.Getenv("APP_ENV"), "Load .env.<name> from the working directory (default local)")
	fs.Usage = func() { usage(fs) }
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fprintErr(ui.Err, err)
		os.Exit(2)
	}
	logging.Init(ui.Err, level, *noColor)

	if err := config.LoadEnv(".", *envName); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}

	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runCommand(ctx, fs.Arg(0), fs.Args()[1:], ui); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fprintErr(ui.Err, err)
		stop()
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "textclass: %v\n", err)
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintf(out, "Usage: textclass [global flags] <command> [flags]\n\n")
	fmt.Fprintf(out, "Commands:\n")
	fmt.Fprintf(out, "  train      fit a vectorizer and classifier and save the pair\n")
	fmt.Fprintf(out, "  predict    classify texts with a saved pair\n")
	fmt.Fprintf(out, "  repl       classify texts interactively\n")
	fmt.Fprintf(out, "  models     list or activate pairs in a SQLite store\n")
	fmt.Fprintf(out, "  normalize  print normalized text\n")
	fmt.Fprintf(out, "  stats      corpus statistics and stop-word candidates\n")
	fmt.Fprintf(out, "  sentiment  chunked sentiment analysis of a transcript\n")
	fmt.Fprintf(out, "  summarize  summarise a text file with an LLM\n")
	fmt.Fprintf(out, "  version    print the version\n\n")
	fmt.Fprintf(out, "Global flags:\n")
	fs.PrintDefaults()
}

func runCommand(ctx context.Context, cmd string, args []string, ui UI) error {
	switch cmd {
	case "help":
		if len(args) > 0 {
			return runCommand(ctx, args[0], []string{"-help"}, ui)
		}
		fs := flag.NewFlagSet("textclass", flag.ContinueOnError)
		fs.SetOutput(ui.Out)
		usage(fs)
		return nil
	case "train":
		return trainCommand(ctx, args, ui)
	case "predict":
		return predictCommand(ctx, args, ui)
	case "repl":
		return replCommand(ctx, args, ui)
	case "models":
		return modelsCommand(ctx, args, ui)
	case "normalize":
		return normalizeCommand(args, ui)
	case "stats":
		return statsCommand(args, ui)
	case "sentiment":
		return sentimentCommand(ctx, args, ui)
	case "summarize":
		return summarizeCommand(ctx, args, ui)
	case "version":
		_, err := fmt.Fprintf(ui.Out, "textclass %s\n", version)
		return err
	}
	return fmt.Errorf("unknown command: %s", cmd)
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(name string, ui UI) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(ui.Err)
	return fs
}

// isSet reports whether name was given on the command line.
func isSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
