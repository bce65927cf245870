package chunk

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		text string
		size int
		want []string
	}{
		{"", 10, nil},
		{"   \n\t ", 10, nil},
		{"um dois tres", 20, []string{"um dois tres"}},
		{"um dois tres", 7, []string{"um dois", "tres"}},
		{"um  dois\n\ntres", 8, []string{"um dois", "tres"}},
		{"abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"ab cdefghij", 5, []string{"ab cd", "efghi", "j"}},
		{"ação ação", 4, []string{"ação", "ação"}},
	}
	for _, tt := range tests {
		if got := Wrap(tt.text, tt.size); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Wrap(%q, %d) = %q, want %q", tt.text, tt.size, got, tt.want)
		}
	}
}

func TestWrapLimits(t *testing.T) {
	text := strings.Repeat("transcrição de áudio com palavras variadas ", 300)

	chunks := Wrap(text, 0)
	if len(chunks) < 3 {
		t.Fatalf("expected several %d-character chunks, got %d", DefaultSize, len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > DefaultSize {
			t.Errorf("chunk %d has %d characters", i, n)
		}
		if strings.HasPrefix(c, " ") || strings.HasSuffix(c, " ") {
			t.Errorf("chunk %d has surrounding whitespace", i)
		}
	}
	if got := strings.Join(chunks, " "); got != strings.Join(strings.Fields(text), " ") {
		t.Error("chunks do not reassemble into the original words")
	}
}
