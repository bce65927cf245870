// Package chunk splits long text into pieces small enough for services
// with a per-request size limit.
package chunk

import (
	"strings"
	"unicode/utf8"
)

// DefaultSize is the chunk size, in characters, used for cloud sentiment calls.
const DefaultSize = 4000

// Wrap breaks text into lines of at most size characters. Runs of whitespace
// collapse to one space and never start or end a chunk. Words longer than
// size are cut. Empty or blank text yields no chunks.
func Wrap(text string, size int) []string {
	if size <= 0 {
		size = DefaultSize
	}
	var chunks []string
	var line strings.Builder
	lineLen := 0

	flush := func() {
		if lineLen > 0 {
			chunks = append(chunks, line.String())
			line.Reset()
			lineLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		n := utf8.RuneCountInString(word)
		for n > size {
			// Fill what is left of the current line, then cut whole lines.
			room := size
			if lineLen > 0 {
				room = size - lineLen - 1
			}
			if room <= 0 {
				flush()
				continue
			}
			head, tail := splitRunes(word, room)
			if lineLen > 0 {
				line.WriteByte(' ')
			}
			line.WriteString(head)
			lineLen += room + boolInt(lineLen > 0)
			flush()
			word, n = tail, n-room
		}

		switch {
		case lineLen == 0:
			line.WriteString(word)
			lineLen = n
		case lineLen+1+n <= size:
			line.WriteByte(' ')
			line.WriteString(word)
			lineLen += 1 + n
		default:
			flush()
			line.WriteString(word)
			lineLen = n
		}
	}
	flush()
	return chunks
}

func splitRunes(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
