package main

import (
	"context"
	"fmt"
	"strings"

	prompt "github.com/c-bata/go-prompt"

	"github.com/cognicore/textclass/pkg/textclass"
)

var replCommands = []prompt.Suggest{
	{Text: ":classes", Description: "List the labels the model predicts"},
	{Text: ":tokens", Description: "Show the normalized form of the next text"},
	{Text: ":quit", Description: "Leave"},
}

func replCommand(ctx context.Context, args []string, ui UI) error {
	fs := newFlagSet("repl", ui)
	location := fs.String("artifacts", textclass.DefaultConfig().Artifacts, "Artifact directory or .db file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	engine, err := loadEngine(ctx, *location)
	if err != nil {
		return err
	}

	b := engine.Bundle()
	fmt.Fprintf(ui.Out, "Pair %s (%s, accuracy %.4f). Type a text, or :quit.\n", b.ID, b.Training.Classifier, b.Training.Accuracy)

	var history []string
	showTokens := false
	for ctx.Err() == nil {
		in := strings.TrimSpace(prompt.Input("> ", completer,
			prompt.OptionTitle("textclass repl"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionHistory(history),
		))
		if in == "" {
			continue
		}
		history = append(history, in)

		switch in {
		case ":quit", ":q", "quit", "exit":
			return nil
		case ":classes":
			fmt.Fprintln(ui.Out, strings.Join(engine.Classes(), ", "))
			continue
		case ":tokens":
			showTokens = !showTokens
			fmt.Fprintf(ui.Out, "show tokens: %t\n", showTokens)
			continue
		}

		if showTokens {
			fmt.Fprintf(ui.Out, "  tokens: %s\n", engine.Prepare(in))
		}
		label, err := engine.PredictOne(in)
		if err != nil {
			fmt.Fprintf(ui.Err, "error: %v\n", err)
			continue
		}
		fmt.Fprintf(ui.Out, "  %s\n", label)
	}
	return ctx.Err()
}

func completer(d prompt.Document) []prompt.Suggest {
	word := d.GetWordBeforeCursor()
	if !strings.HasPrefix(word, ":") {
		return nil
	}
	return prompt.FilterHasPrefix(replCommands, word, true)
}
