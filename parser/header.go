package parser

import (
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/text/cases"

	"github.com/robinvdvleuten/csvdialect/dialect"
)

// Header maps column names to positions. It is immutable and shared by
// every record of a parse session.
type Header struct {
	names []string
	index map[string]int // keyed by lookupKey
	fold  bool
}

// Names returns the column names in order.
func (h *Header) Names() []string {
	if h == nil {
		return nil
	}
	return slices.Clone(h.names)
}

// Len returns the number of columns.
func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.names)
}

// Index returns the position of the named column. When a name occurs more
// than once the last occurrence wins.
func (h *Header) Index(name string) (int, bool) {
	if h == nil {
		return 0, false
	}
	i, ok := h.index[h.lookupKey(name)]
	return i, ok
}

// Map returns a copy of the name to position mapping, keyed by the names
// as they appear in the header.
func (h *Header) Map() map[string]int {
	if h == nil {
		return nil
	}
	m := make(map[string]int, len(h.names))
	for i, name := range h.names {
		m[name] = i
	}
	return m
}

func (h *Header) lookupKey(name string) string {
	if h.fold {
		// A Caser carries state, so each lookup gets its own.
		return cases.Fold().String(name)
	}
	return name
}

// newHeader validates names against the format's header rules and builds
// the lookup table.
func newHeader(names []string, f *dialect.Format, interner *Interner) (*Header, error) {
	h := &Header{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
		fold:  f.IgnoreHeaderCase(),
	}

	mode := f.DuplicateHeaderMode()
	observedMissing := false

	for i, name := range names {
		if interner != nil {
			name = interner.Intern(name)
		}
		h.names[i] = name

		blank := strings.TrimSpace(name) == ""
		if blank && !f.AllowMissingColumnNames() {
			return nil, &HeaderError{Names: slices.Clone(names), Err: ErrMissingColumnName}
		}

		key := h.lookupKey(name)
		seen := observedMissing
		if !blank {
			_, seen = h.index[key]
		}
		if seen && mode != dialect.AllowAll && !(blank && mode == dialect.AllowEmpty) {
			return nil, &HeaderError{Names: slices.Clone(names), Name: name, Err: ErrDuplicateHeader}
		}
		if blank {
			observedMissing = true
		}

		h.index[key] = i
	}

	return h, nil
}
