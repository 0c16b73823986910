package dialect

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileFormat identifies the syntax of a dialect file.
type FileFormat int

const (
	// FileAuto picks the syntax from the file extension.
	FileAuto FileFormat = iota
	// FileTOML is a TOML dialect file.
	FileTOML
	// FileYAML is a YAML dialect file.
	FileYAML
)

// Spec is the serialized form of a dialect, as found in dialect files. Unset
// fields keep the value of the Base preset.
//
// Example (TOML):
//
//	base = "default"
//	delimiter = ";"
//	comment_marker = "#"
//	null_strings = ["NULL", ""]
//	quote_mode = "all-non-null"
//	header = ["id", "name"]
type Spec struct {
	Base                    string               `toml:"base,omitempty" yaml:"base,omitempty"`
	Delimiter               *string              `toml:"delimiter,omitempty" yaml:"delimiter,omitempty"`
	Quote                   *string              `toml:"quote,omitempty" yaml:"quote,omitempty"`
	Escape                  *string              `toml:"escape,omitempty" yaml:"escape,omitempty"`
	CommentMarker           *string              `toml:"comment_marker,omitempty" yaml:"comment_marker,omitempty"`
	RecordSeparator         *string              `toml:"record_separator,omitempty" yaml:"record_separator,omitempty"`
	NullStrings             *[]string            `toml:"null_strings,omitempty" yaml:"null_strings,omitempty"`
	QuoteMode               *QuoteMode           `toml:"quote_mode,omitempty" yaml:"quote_mode,omitempty"`
	Header                  *[]string            `toml:"header,omitempty" yaml:"header,omitempty"`
	AutoHeader              *bool                `toml:"auto_header,omitempty" yaml:"auto_header,omitempty"`
	HeaderComments          *[]string            `toml:"header_comments,omitempty" yaml:"header_comments,omitempty"`
	SkipHeaderRecord        *bool                `toml:"skip_header_record,omitempty" yaml:"skip_header_record,omitempty"`
	DuplicateHeaderMode     *DuplicateHeaderMode `toml:"duplicate_header_mode,omitempty" yaml:"duplicate_header_mode,omitempty"`
	AllowMissingColumnNames *bool                `toml:"allow_missing_column_names,omitempty" yaml:"allow_missing_column_names,omitempty"`
	IgnoreEmptyLines        *bool                `toml:"ignore_empty_lines,omitempty" yaml:"ignore_empty_lines,omitempty"`
	IgnoreSurroundingSpaces *bool                `toml:"ignore_surrounding_spaces,omitempty" yaml:"ignore_surrounding_spaces,omitempty"`
	IgnoreHeaderCase        *bool                `toml:"ignore_header_case,omitempty" yaml:"ignore_header_case,omitempty"`
	Trim                    *bool                `toml:"trim,omitempty" yaml:"trim,omitempty"`
	TrailingDelimiter       *bool                `toml:"trailing_delimiter,omitempty" yaml:"trailing_delimiter,omitempty"`
}

// LoadFile reads a TOML or YAML dialect file and builds the Format it describes.
func LoadFile(path string) (*Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dialect file: %w", err)
	}
	f, err := Load(data, detectFileFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Load decodes a dialect file and builds the Format it describes.
func Load(data []byte, format FileFormat) (*Format, error) {
	spec, err := DecodeSpec(data, format)
	if err != nil {
		return nil, err
	}
	return spec.Format()
}

// DecodeSpec decodes a dialect file without building the Format.
func DecodeSpec(data []byte, format FileFormat) (*Spec, error) {
	var spec Spec
	switch format {
	case FileYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&spec); err != nil {
			return nil, fmt.Errorf("failed to decode YAML dialect: %w", err)
		}
	default:
		md, err := toml.Decode(string(data), &spec)
		if err != nil {
			return nil, fmt.Errorf("failed to decode TOML dialect: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown dialect setting %q", undecoded[0].String())
		}
	}
	return &spec, nil
}

func detectFileFormat(path string) FileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FileYAML
	default:
		return FileTOML
	}
}

// Format builds the Format described by s on top of its base preset.
func (s *Spec) Format() (*Format, error) {
	base := Default
	if s.Base != "" {
		var ok bool
		if base, ok = Lookup(s.Base); !ok {
			return nil, fmt.Errorf("unknown base dialect %q (known: %s)", s.Base, PresetList())
		}
	}
	opts, err := s.Options()
	if err != nil {
		return nil, err
	}
	return base.With(opts...)
}

// Options converts the set fields of s to format options.
func (s *Spec) Options() ([]Option, error) {
	var opts []Option

	if s.Delimiter != nil {
		opts = append(opts, WithDelimiter(*s.Delimiter))
	}
	chars := []struct {
		name  string
		value *string
		apply func(rune) Option
	}{
		{"quote", s.Quote, WithQuote},
		{"escape", s.Escape, WithEscape},
		{"comment_marker", s.CommentMarker, WithCommentMarker},
	}
	for _, c := range chars {
		if c.value == nil {
			continue
		}
		r, err := ParseChar(*c.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
		opts = append(opts, c.apply(r))
	}
	if s.RecordSeparator != nil {
		opts = append(opts, WithRecordSeparator(*s.RecordSeparator))
	}
	if s.NullStrings != nil {
		opts = append(opts, WithNullStrings(*s.NullStrings...))
	}
	if s.QuoteMode != nil {
		opts = append(opts, WithQuoteMode(*s.QuoteMode))
	}
	if s.AutoHeader != nil && *s.AutoHeader {
		opts = append(opts, WithAutoHeader())
	}
	if s.Header != nil {
		opts = append(opts, WithHeader(*s.Header...))
	}
	if s.HeaderComments != nil {
		opts = append(opts, WithHeaderComments(*s.HeaderComments...))
	}
	if s.DuplicateHeaderMode != nil {
		opts = append(opts, WithDuplicateHeaderMode(*s.DuplicateHeaderMode))
	}

	flags := []struct {
		value *bool
		apply func(bool) Option
	}{
		{s.SkipHeaderRecord, WithSkipHeaderRecord},
		{s.AllowMissingColumnNames, WithAllowMissingColumnNames},
		{s.IgnoreEmptyLines, WithIgnoreEmptyLines},
		{s.IgnoreSurroundingSpaces, WithIgnoreSurroundingSpaces},
		{s.IgnoreHeaderCase, WithIgnoreHeaderCase},
		{s.Trim, WithTrim},
		{s.TrailingDelimiter, WithTrailingDelimiter},
	}
	for _, f := range flags {
		if f.value != nil {
			opts = append(opts, f.apply(*f.value))
		}
	}

	return opts, nil
}

// Spec returns the serialized form of f. Every setting is spelled out, so
// the result does not depend on a base preset.
func (f *Format) Spec() *Spec {
	s := &Spec{
		Delimiter:               ptr(f.delimiter),
		Quote:                   ptr(charString(f.quote)),
		Escape:                  ptr(charString(f.escape)),
		CommentMarker:           ptr(charString(f.commentMarker)),
		RecordSeparator:         ptr(f.recordSeparator),
		QuoteMode:               ptr(f.quoteMode),
		SkipHeaderRecord:        ptr(f.skipHeaderRecord),
		DuplicateHeaderMode:     ptr(f.duplicateHeaderMode),
		AllowMissingColumnNames: ptr(f.allowMissingColumnNames),
		IgnoreEmptyLines:        ptr(f.ignoreEmptyLines),
		IgnoreSurroundingSpaces: ptr(f.ignoreSurroundingSpaces),
		IgnoreHeaderCase:        ptr(f.ignoreHeaderCase),
		Trim:                    ptr(f.trim),
		TrailingDelimiter:       ptr(f.trailingDelimiter),
	}
	if len(f.nullStrings) > 0 {
		s.NullStrings = ptr(f.NullStrings())
	}
	switch {
	case f.IsHeaderAuto():
		s.AutoHeader = ptr(true)
	case f.headerSet:
		s.Header = ptr(f.Header())
	}
	if len(f.headerComments) > 0 {
		s.HeaderComments = ptr(f.HeaderComments())
	}
	return s
}

// Encode writes s as a dialect file.
func (s *Spec) Encode(w io.Writer, format FileFormat) error {
	switch format {
	case FileYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("failed to encode YAML dialect: %w", err)
		}
		return enc.Close()
	default:
		if err := toml.NewEncoder(w).Encode(s); err != nil {
			return fmt.Errorf("failed to encode TOML dialect: %w", err)
		}
		return nil
	}
}

func ptr[T any](v T) *T {
	return &v
}

func charString(r rune) string {
	if r == 0 {
		return ""
	}
	return string(r)
}

// ParseChar converts a one-character setting to a rune. An empty string
// disables the setting and yields 0.
func ParseChar(s string) (rune, error) {
	if s == "" {
		return 0, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("expected a single character, got %q", s)
	}
	return r, nil
}
