package document

import (
	"sort"
	"strconv"
	"strings"
)

// Segment is one step of a Path: either a mapping key or a sequence
// index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Path identifies a location in the document tree. Paths have value
// equality: two paths built independently for the same location compare
// equal via Equal or their String form.
type Path []Segment

// Root returns the empty path, rendered as "root".
func Root() Path {
	return Path{}
}

// Child returns a new path extended by a mapping key. The receiver is
// not modified.
func (p Path) Child(key string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Segment{Key: key})
}

// At returns a new path extended by a sequence index.
func (p Path) At(index int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Segment{Index: index, IsIndex: true})
}

// String renders the path as "root/answers[0]/text".
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("root")
	for _, s := range p {
		if s.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
		} else {
			b.WriteByte('/')
			b.WriteString(s.Key)
		}
	}
	return b.String()
}

// Equal reports whether two paths identify the same location.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// VisitedSet
// ---------------------------------------------------------------------------

// VisitedSet records which paths have already been translated in a
// run. Once a path is added, no component translates it again. The set
// is not synchronized: one run owns one document on one goroutine.
type VisitedSet struct {
	paths map[string]struct{}
}

// NewVisitedSet returns an empty set.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{paths: make(map[string]struct{})}
}

// Add marks a path as visited.
func (v *VisitedSet) Add(p Path) {
	v.paths[p.String()] = struct{}{}
}

// Has reports whether a path has been visited.
func (v *VisitedSet) Has(p Path) bool {
	_, ok := v.paths[p.String()]
	return ok
}

// Len returns the number of visited paths.
func (v *VisitedSet) Len() int {
	return len(v.paths)
}

// Paths returns the visited path strings, sorted for stable output.
func (v *VisitedSet) Paths() []string {
	out := make([]string, 0, len(v.paths))
	for p := range v.paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
