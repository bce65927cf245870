package vectorize

import (
	"fmt"
	"sort"

	"github.com/cognicore/textclass/pkg/textclass/internalerr"
)

// Entry is one non-zero component of a Vector.
type Entry struct {
	Index int `json:"i"`
	Count int `json:"c"`
}

// Vector is a sparse bag-of-words count vector. Entries are ascending by
// Index and hold only positive counts; Size is the vocabulary length.
type Vector struct {
	Size    int     `json:"size"`
	Entries []Entry `json:"entries"`
}

func newVector(size int, counts map[int]int) Vector {
	entries := make([]Entry, 0, len(counts))
	for i, c := range counts {
		if c > 0 {
			entries = append(entries, Entry{Index: i, Count: c})
		}
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].Index < entries[b].Index })
	return Vector{Size: size, Entries: entries}
}

// Validate checks the Entries invariant: indices ascending and inside
// [0, Size), counts positive. Vectors from Transform always pass.
func (v Vector) Validate() error {
	for k, e := range v.Entries {
		if e.Index < 0 || e.Index >= v.Size {
			return fmt.Errorf("%w: entry %d index %d outside [0,%d)", internalerr.ErrInvalidInput, k, e.Index, v.Size)
		}
		if e.Count <= 0 {
			return fmt.Errorf("%w: entry %d has count %d", internalerr.ErrInvalidInput, k, e.Count)
		}
		if k > 0 && v.Entries[k-1].Index >= e.Index {
			return fmt.Errorf("%w: entry %d index %d not ascending", internalerr.ErrInvalidInput, k, e.Index)
		}
	}
	return nil
}

// Len returns the vector length.
func (v Vector) Len() int { return v.Size }

// At returns the count at index i.
func (v Vector) At(i int) int {
	k := sort.Search(len(v.Entries), func(j int) bool { return v.Entries[j].Index >= i })
	if k < len(v.Entries) && v.Entries[k].Index == i {
		return v.Entries[k].Count
	}
	return 0
}

// Total returns the sum of all counts.
func (v Vector) Total() int {
	n := 0
	for _, e := range v.Entries {
		n += e.Count
	}
	return n
}

// Dense expands the vector.
func (v Vector) Dense() []int {
	out := make([]int, v.Size)
	for _, e := range v.Entries {
		out[e.Index] = e.Count
	}
	return out
}

// Equal reports whether two vectors have the same length and counts.
func (v Vector) Equal(o Vector) bool {
	if v.Size != o.Size || len(v.Entries) != len(o.Entries) {
		return false
	}
	for i := range v.Entries {
		if v.Entries[i] != o.Entries[i] {
			return false
		}
	}
	return true
}
