package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/cognicore/textclass/pkg/textclass/internalerr"
)

// Document is one labelled example.
type Document struct {
	ID    int64
	Text  string
	Label string
}

// Options selects the columns of a tabular corpus.
type Options struct {
	TextColumn  string
	LabelColumn string
	IDColumn    string // optional; row number when empty
	StripHTML   bool
}

// DefaultOptions matches the column names of the review datasets.
func DefaultOptions() Options {
	return Options{TextColumn: "text", LabelColumn: "label"}
}

// LoadStats counts what happened to the rows of a source.
type LoadStats struct {
	Rows       int
	Kept       int
	EmptyText  int
	EmptyLabel int
	Malformed  int
}

// Texts returns the text of every document.
func Texts(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Text
	}
	return out
}

// Labels returns the label of every document.
func Labels(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Label
	}
	return out
}

// LoadFile reads a corpus, picking the format from the file extension.
func LoadFile(path string, opts Options) ([]Document, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open corpus %s: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return LoadCSV(f, opts)
	case ".jsonl", ".ndjson":
		return LoadJSONL(f, opts)
	default:
		return nil, LoadStats{}, fmt.Errorf("%w: unsupported corpus format %q", internalerr.ErrInvalidInput, ext)
	}
}

// LoadCSV reads a CSV corpus with a header row.
func LoadCSV(r io.Reader, opts Options) ([]Document, LoadStats, error) {
	if err := opts.validate(); err != nil {
		return nil, LoadStats{}, err
	}
	rows, err := gocsv.CSVToMaps(r)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("%w: parse csv: %v", internalerr.ErrInvalidInput, err)
	}
	if len(rows) > 0 {
		header := trimBOM(rows[0])
		for _, col := range opts.columns() {
			if _, ok := header[col]; !ok {
				return nil, LoadStats{}, fmt.Errorf("%w: column %q not in csv header", internalerr.ErrInvalidInput, col)
			}
		}
	}

	var stats LoadStats
	var docs []Document
	for i, row := range rows {
		row = trimBOM(row)
		stats.Rows++
		if d, ok := opts.build(int64(i), row[opts.TextColumn], row[opts.LabelColumn], row[opts.IDColumn], &stats); ok {
			docs = append(docs, d)
		}
	}
	return docs, stats, nil
}

// LoadJSONL reads one JSON object per line. Malformed lines are skipped and
// counted; a line missing the text or label field counts as empty.
func LoadJSONL(r io.Reader, opts Options) ([]Document, LoadStats, error) {
	if err := opts.validate(); err != nil {
		return nil, LoadStats{}, err
	}

	var stats LoadStats
	var docs []Document
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		stats.Rows++

		var obj map[string]any
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			slog.Warn("skipping malformed corpus line", "line", line, "err", err)
			stats.Malformed++
			continue
		}
		id := ""
		if opts.IDColumn != "" {
			id = field(obj, opts.IDColumn)
		}
		if d, ok := opts.build(int64(stats.Rows-1), field(obj, opts.TextColumn), field(obj, opts.LabelColumn), id, &stats); ok {
			docs = append(docs, d)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, stats, fmt.Errorf("read jsonl: %w", err)
	}
	return docs, stats, nil
}

func (o Options) validate() error {
	if o.TextColumn == "" || o.LabelColumn == "" {
		return fmt.Errorf("%w: text and label columns are required", internalerr.ErrInvalidInput)
	}
	return nil
}

func (o Options) columns() []string {
	cols := []string{o.TextColumn, o.LabelColumn}
	if o.IDColumn != "" {
		cols = append(cols, o.IDColumn)
	}
	return cols
}

func (o Options) build(row int64, text, label, id string, stats *LoadStats) (Document, bool) {
	if o.StripHTML {
		text = StripHTML(text)
	}
	label = strings.TrimSpace(label)
	switch {
	case strings.TrimSpace(text) == "":
		stats.EmptyText++
		return Document{}, false
	case label == "":
		stats.EmptyLabel++
		return Document{}, false
	}

	d := Document{ID: row, Text: text, Label: label}
	if id != "" {
		if n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64); err == nil {
			d.ID = n
		}
	}
	stats.Kept++
	return d, true
}

func field(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// trimBOM drops a UTF-8 byte order mark from the first header key.
func trimBOM(row map[string]string) map[string]string {
	for k, v := range row {
		if strings.HasPrefix(k, "\ufeff") {
			row[strings.TrimPrefix(k, "\ufeff")] = v
			delete(row, k)
		}
	}
	return row
}
