// Package dialect describes the textual conventions of a delimiter-separated
// file: which character separates fields, how fields are quoted and escaped,
// which lines are comments, how records are terminated and how headers and
// nulls are treated.
//
// A *Format is immutable once built. It is created from functional options
// and validated as a whole, so an invalid combination of settings fails at
// construction and never at parse or print time:
//
//	f, err := dialect.New(
//		dialect.WithDelimiter(";"),
//		dialect.WithQuote('\''),
//		dialect.WithAutoHeader(),
//	)
//
// Predefined dialects (Default, Excel, MySQL, ...) are ordinary *Format
// values. Overriding a setting with With returns a new value and leaves the
// preset untouched:
//
//	tabs, err := dialect.Default.With(dialect.WithDelimiter("\t"))
package dialect

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Format is a validated, immutable dialect descriptor shared by the lexer,
// the parser and the printer. It is safe for concurrent use.
type Format struct {
	name                    string
	delimiter               string
	quote                   rune // 0 disables quoting
	escape                  rune // 0 disables escaping
	commentMarker           rune // 0 disables comments
	recordSeparator         string
	nullStrings             []string
	quoteMode               QuoteMode
	header                  []string
	headerSet               bool
	headerComments          []string
	skipHeaderRecord        bool
	duplicateHeaderMode     DuplicateHeaderMode
	allowMissingColumnNames bool
	ignoreEmptyLines        bool
	ignoreSurroundingSpaces bool
	ignoreHeaderCase        bool
	trim                    bool
	trailingDelimiter       bool
}

// Option configures a Format under construction.
type Option func(*Format)

// New builds a Format from the Default dialect with the given options applied.
func New(opts ...Option) (*Format, error) {
	return Default.With(opts...)
}

// MustNew is like New but panics on an invalid combination of options. It
// is intended for package level dialect variables.
func MustNew(opts ...Option) *Format {
	f, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// With returns a copy of f with the given options applied. The copy is
// validated; f itself is never modified.
func (f *Format) With(opts ...Option) (*Format, error) {
	c := f.clone()
	c.name = ""
	for _, opt := range opts {
		opt(c)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustWith is like With but panics on error.
func (f *Format) MustWith(opts ...Option) *Format {
	c, err := f.With(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (f *Format) clone() *Format {
	c := *f
	c.nullStrings = slices.Clone(f.nullStrings)
	c.header = slices.Clone(f.header)
	c.headerComments = slices.Clone(f.headerComments)
	return &c
}

// Name returns the preset name this format was built as, or "custom".
func (f *Format) Name() string {
	if f.name == "" {
		return "custom"
	}
	return f.name
}

// Delimiter returns the field separator. It may be longer than one character.
func (f *Format) Delimiter() string { return f.delimiter }

// Quote returns the quote character, or 0 when quoting is disabled.
func (f *Format) Quote() rune { return f.quote }

// IsQuoteSet reports whether a quote character is configured.
func (f *Format) IsQuoteSet() bool { return f.quote != 0 }

// Escape returns the escape character, or 0 when escaping is disabled.
func (f *Format) Escape() rune { return f.escape }

// IsEscapeSet reports whether an escape character is configured.
func (f *Format) IsEscapeSet() bool { return f.escape != 0 }

// CommentMarker returns the comment marker, or 0 when comments are disabled.
func (f *Format) CommentMarker() rune { return f.commentMarker }

// IsCommentMarkerSet reports whether a comment marker is configured.
func (f *Format) IsCommentMarkerSet() bool { return f.commentMarker != 0 }

// RecordSeparator returns the string the printer terminates records with.
// Readers always accept "\n", "\r" and "\r\n".
func (f *Format) RecordSeparator() string { return f.recordSeparator }

// NullStrings returns the strings that are read as null.
func (f *Format) NullStrings() []string { return slices.Clone(f.nullStrings) }

// NullString returns the string the printer emits for a null value.
func (f *Format) NullString() (string, bool) {
	if len(f.nullStrings) == 0 {
		return "", false
	}
	return f.nullStrings[0], true
}

// IsNullString reports whether s is read as null.
func (f *Format) IsNullString(s string) bool {
	return slices.Contains(f.nullStrings, s)
}

// QuoteMode returns the printer quoting policy.
func (f *Format) QuoteMode() QuoteMode { return f.quoteMode }

// Header returns the explicit header names. It is empty when no header is
// configured or when the header is read from the first record.
func (f *Format) Header() []string { return slices.Clone(f.header) }

// HasHeader reports whether records are mapped to names at all.
func (f *Format) HasHeader() bool { return f.headerSet }

// IsHeaderAuto reports whether the first record is read as the header.
func (f *Format) IsHeaderAuto() bool { return f.headerSet && len(f.header) == 0 }

// HeaderComments returns the comments the printer writes before the header.
func (f *Format) HeaderComments() []string { return slices.Clone(f.headerComments) }

// SkipHeaderRecord reports whether the first record is consumed as header
// only. An auto header always skips its record.
func (f *Format) SkipHeaderRecord() bool { return f.skipHeaderRecord }

// DuplicateHeaderMode returns how repeated header names are treated.
func (f *Format) DuplicateHeaderMode() DuplicateHeaderMode { return f.duplicateHeaderMode }

// AllowMissingColumnNames reports whether empty header names are accepted.
func (f *Format) AllowMissingColumnNames() bool { return f.allowMissingColumnNames }

// AllowDuplicateHeaderNames is the legacy view of DuplicateHeaderMode.
func (f *Format) AllowDuplicateHeaderNames() bool { return f.duplicateHeaderMode == AllowAll }

// IgnoreEmptyLines reports whether blank lines are skipped instead of being
// read as records with a single empty field.
func (f *Format) IgnoreEmptyLines() bool { return f.ignoreEmptyLines }

// IgnoreSurroundingSpaces reports whether whitespace around unquoted values
// is dropped.
func (f *Format) IgnoreSurroundingSpaces() bool { return f.ignoreSurroundingSpaces }

// IgnoreHeaderCase reports whether header lookups are case-insensitive.
func (f *Format) IgnoreHeaderCase() bool { return f.ignoreHeaderCase }

// Trim reports whether quoted values are trimmed on read and all values on print.
func (f *Format) Trim() bool { return f.trim }

// TrailingDelimiter reports whether records end with a delimiter.
func (f *Format) TrailingDelimiter() bool { return f.trailingDelimiter }

// String describes the format settings.
func (f *Format) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Delimiter=<%s>", f.delimiter)
	if f.IsEscapeSet() {
		fmt.Fprintf(&sb, " Escape=<%c>", f.escape)
	}
	if f.IsQuoteSet() {
		fmt.Fprintf(&sb, " QuoteChar=<%c>", f.quote)
	}
	fmt.Fprintf(&sb, " QuoteMode=<%s>", f.quoteMode)
	if f.IsCommentMarkerSet() {
		fmt.Fprintf(&sb, " CommentStart=<%c>", f.commentMarker)
	}
	if len(f.nullStrings) > 0 {
		fmt.Fprintf(&sb, " NullString=<%s>", strings.Join(f.nullStrings, "|"))
	}
	if f.recordSeparator != "" {
		fmt.Fprintf(&sb, " RecordSeparator=<%q>", f.recordSeparator)
	}
	if f.ignoreEmptyLines {
		sb.WriteString(" EmptyLines:ignored")
	}
	if f.ignoreSurroundingSpaces {
		sb.WriteString(" SurroundingSpaces:ignored")
	}
	if f.ignoreHeaderCase {
		sb.WriteString(" IgnoreHeaderCase:ignored")
	}
	fmt.Fprintf(&sb, " SkipHeaderRecord:%t", f.skipHeaderRecord)
	if f.IsHeaderAuto() {
		sb.WriteString(" Header:auto")
	} else if f.headerSet {
		fmt.Fprintf(&sb, " Header:[%s]", strings.Join(f.header, ", "))
	}
	return sb.String()
}
