package dialect

import (
	"fmt"
	"strings"
)

// QuoteMode controls which fields the printer wraps in quote characters.
// It has no effect on reading, apart from the null handling of the strict
// modes (QuoteAllNonNull and QuoteNonNumeric).
type QuoteMode int

const (
	// QuoteMinimal quotes only fields that would otherwise not survive a
	// re-read: fields containing the delimiter, quote, escape or a line
	// terminator, and a few positional special cases.
	QuoteMinimal QuoteMode = iota
	// QuoteAll quotes every field, including substituted nulls.
	QuoteAll
	// QuoteAllNonNull quotes every field except nulls.
	QuoteAllNonNull
	// QuoteNonNumeric quotes every field that is not a number.
	QuoteNonNumeric
	// QuoteNone never quotes; special characters are escaped instead.
	QuoteNone
)

var quoteModeNames = map[QuoteMode]string{
	QuoteMinimal:    "minimal",
	QuoteAll:        "all",
	QuoteAllNonNull: "all-non-null",
	QuoteNonNumeric: "non-numeric",
	QuoteNone:       "none",
}

func (m QuoteMode) String() string {
	if name, ok := quoteModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("QuoteMode(%d)", int(m))
}

// IsStrict reports whether the mode distinguishes quoted from unquoted
// values when resolving nulls on read.
func (m QuoteMode) IsStrict() bool {
	return m == QuoteAllNonNull || m == QuoteNonNumeric
}

// MarshalText implements encoding.TextMarshaler.
func (m QuoteMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Both the kebab-case
// names and the upper-case constant style (ALL_NON_NULL) are accepted.
func (m *QuoteMode) UnmarshalText(text []byte) error {
	name := normalizeName(string(text))
	for mode, candidate := range quoteModeNames {
		if candidate == name {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("unknown quote mode %q", string(text))
}

// DuplicateHeaderMode controls how repeated header names are handled.
type DuplicateHeaderMode int

const (
	// AllowAll tolerates any repeated name. Later columns shadow earlier
	// ones in name based lookups.
	AllowAll DuplicateHeaderMode = iota
	// AllowEmpty tolerates repeated empty names only.
	AllowEmpty
	// Disallow rejects any repeated name.
	Disallow
)

var duplicateHeaderModeNames = map[DuplicateHeaderMode]string{
	AllowAll:   "allow-all",
	AllowEmpty: "allow-empty",
	Disallow:   "disallow",
}

func (m DuplicateHeaderMode) String() string {
	if name, ok := duplicateHeaderModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("DuplicateHeaderMode(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m DuplicateHeaderMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *DuplicateHeaderMode) UnmarshalText(text []byte) error {
	name := normalizeName(string(text))
	for mode, candidate := range duplicateHeaderModeNames {
		if candidate == name {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("unknown duplicate header mode %q", string(text))
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "_", "-")
}
