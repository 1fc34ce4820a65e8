// Package listing builds and renders the HTML index of a single directory.
package listing

import (
	"slices"
	"strings"
)

// Listing holds the classified children of one directory, each slice sorted
// by ascending byte order of name.
type Listing struct {
	Dirs  []Entry
	Files []Entry
}

// Build classifies every name once and partitions the survivors into
// directories and files. Names that fail classification are dropped; the
// listing is best effort and one unreadable entry never denies the rest.
func Build(names []string, stat StatFunc) Listing {
	var l Listing
	for _, name := range names {
		c, ok := Classify(name, stat).(Classified)
		if !ok {
			continue
		}
		if c.Kind == KindDirectory {
			l.Dirs = append(l.Dirs, c.Entry)
		} else {
			l.Files = append(l.Files, c.Entry)
		}
	}
	slices.SortFunc(l.Dirs, byName)
	slices.SortFunc(l.Files, byName)
	return l
}

// Len returns the number of listed entries
func (l Listing) Len() int {
	return len(l.Dirs) + len(l.Files)
}

func byName(a, b Entry) int {
	return strings.Compare(a.Name, b.Name)
}
