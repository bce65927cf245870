package main

import (
	"bufio"
	"fmt"

	"github.com/cognicore/textclass/pkg/textclass/config"
	"github.com/cognicore/textclass/pkg/textclass/normalize"
)

func normalizeCommand(args []string, ui UI) error {
	fs := newFlagSet("normalize", ui)
	stoplistPath := fs.String("stoplist", "", "Stoplist YAML file (default: Portuguese list)")
	keep := fs.Bool("keep-stopwords", false, "Do not remove stop-words")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var norm *normalize.Normalizer
	switch {
	case *keep:
		norm = normalize.New([]string{})
	case *stoplistPath != "":
		sl, err := config.LoadStoplist(*stoplistPath)
		if err != nil {
			return err
		}
		words, err := sl.Words()
		if err != nil {
			return err
		}
		norm = normalize.New(words)
	default:
		norm = normalize.Default()
	}

	w := bufio.NewWriter(ui.Out)
	defer w.Flush()

	if fs.NArg() > 0 {
		for _, text := range fs.Args() {
			fmt.Fprintln(w, norm.Text(text))
		}
		return nil
	}

	sc := bufio.NewScanner(ui.In)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		fmt.Fprintln(w, norm.Text(sc.Text()))
	}
	return sc.Err()
}
