package dialect

import (
	"strings"
)

// validate checks the format as a whole. It runs once, when a Format is
// built, so that parsers and printers never see an inconsistent dialect.
func (f *Format) validate() error {
	if f.delimiter == "" {
		return configErrorf("the delimiter cannot be empty")
	}
	if strings.ContainsAny(f.delimiter, "\r\n") {
		return configErrorf("the delimiter cannot be a line break")
	}

	specials := []struct {
		name string
		r    rune
	}{
		{"quote character", f.quote},
		{"escape character", f.escape},
		{"comment marker", f.commentMarker},
	}
	for _, s := range specials {
		if s.r == 0 {
			continue
		}
		if s.r == '\r' || s.r == '\n' {
			return configErrorf("the %s cannot be a line break", s.name)
		}
		if strings.ContainsRune(f.delimiter, s.r) {
			return configErrorf("the %s and the delimiter cannot be the same (%q)", s.name, s.r)
		}
	}

	if f.quote != 0 && f.quote == f.commentMarker {
		return configErrorf("the comment marker and the quote character cannot be the same (%q)", f.quote)
	}
	if f.escape != 0 && f.escape == f.commentMarker {
		return configErrorf("the comment marker and the escape character cannot be the same (%q)", f.escape)
	}
	// escape == quote is tolerated: it behaves exactly like quote doubling.

	if f.recordSeparator != "" {
		first := []rune(f.delimiter)[0]
		if strings.ContainsRune(f.recordSeparator, first) {
			return configErrorf("the record separator and the delimiter cannot overlap (%q)", f.recordSeparator)
		}
		for _, s := range specials {
			if s.r != 0 && strings.ContainsRune(f.recordSeparator, s.r) {
				return configErrorf("the record separator and the %s cannot overlap (%q)", s.name, f.recordSeparator)
			}
		}
	}

	if f.quoteMode == QuoteNone && f.escape == 0 {
		return configErrorf("quote mode %s requires an escape character", QuoteNone)
	}
	if _, ok := quoteModeNames[f.quoteMode]; !ok {
		return configErrorf("unknown quote mode %d", int(f.quoteMode))
	}
	if _, ok := duplicateHeaderModeNames[f.duplicateHeaderMode]; !ok {
		return configErrorf("unknown duplicate header mode %d", int(f.duplicateHeaderMode))
	}

	if len(f.header) > 0 && f.duplicateHeaderMode != AllowAll {
		seen := make(map[string]bool, len(f.header))
		for _, name := range f.header {
			blank := isBlank(name)
			key := name
			if blank {
				key = ""
			}
			if seen[key] && !(blank && f.duplicateHeaderMode == AllowEmpty) {
				return configErrorf("the header contains a duplicate name %q in %q", name, f.header)
			}
			seen[key] = true
		}
	}

	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
