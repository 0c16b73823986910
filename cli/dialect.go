package cli

import (
	"fmt"
	"strings"

	"github.com/robinvdvleuten/csvdialect/dialect"
)

// DialectFlags selects the dialect of the input. Overrides apply on top of
// the preset or dialect file.
type DialectFlags struct {
	Dialect     string `help:"Base dialect preset." default:"default" short:"d"`
	DialectFile string `help:"TOML or YAML dialect file, used instead of the preset." type:"existingfile"`

	Delimiter       string   `help:"Field delimiter. Escapes such as \\t are understood."`
	Quote           string   `help:"Quote character."`
	NoQuote         bool     `help:"Disable quoting."`
	Escape          string   `help:"Escape character."`
	NoEscape        bool     `help:"Disable escaping."`
	Comment         string   `help:"Comment marker."`
	RecordSeparator string   `help:"Record separator used when printing."`
	Null            []string `help:"String read as null (repeatable). The first one is printed for nulls." sep:"none"`
	QuoteMode       string   `help:"Quoting policy used when printing." enum:",minimal,all,all-non-null,non-numeric,none" default:""`

	Header              []string `help:"Explicit header names, comma separated."`
	AutoHeader          bool     `help:"Read the header from the first record."`
	SkipHeaderRecord    bool     `help:"Skip the first record when an explicit header is given."`
	DuplicateHeaderMode string   `help:"How repeated header names are treated." enum:",allow-all,allow-empty,disallow" default:""`
	AllowMissingColumns bool     `help:"Accept empty header names."`
	IgnoreHeaderCase    bool     `help:"Look up header names case-insensitively."`

	KeepEmptyLines          bool `help:"Read empty lines as records."`
	IgnoreSurroundingSpaces bool `help:"Strip spaces around unquoted values."`
	Trim                    bool `help:"Trim quoted values and printed values."`
	TrailingDelimiter       bool `help:"Records end with a delimiter."`
}

// flagEscapes turns the escape sequences users type on a command line into
// the characters they stand for.
var flagEscapes = strings.NewReplacer(`\t`, "\t", `\n`, "\n", `\r`, "\r", `\\`, `\`)

// Format builds the dialect the flags describe.
func (d *DialectFlags) Format() (*dialect.Format, error) {
	base, err := d.base()
	if err != nil {
		return nil, err
	}

	spec, err := d.spec()
	if err != nil {
		return nil, err
	}
	opts, err := spec.Options()
	if err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		return base, nil
	}
	return base.With(opts...)
}

func (d *DialectFlags) base() (*dialect.Format, error) {
	if d.DialectFile != "" {
		return dialect.LoadFile(d.DialectFile)
	}
	f, ok := dialect.Lookup(d.Dialect)
	if !ok {
		return nil, fmt.Errorf("unknown dialect %q (known: %s)", d.Dialect, dialect.PresetList())
	}
	return f, nil
}

// spec collects the overrides as a dialect spec, so flags and dialect files
// share one conversion to options.
func (d *DialectFlags) spec() (*dialect.Spec, error) {
	var s dialect.Spec

	set := func(value string) *string {
		if value == "" {
			return nil
		}
		unescaped := flagEscapes.Replace(value)
		return &unescaped
	}
	enable := func(on bool) *bool {
		if !on {
			return nil
		}
		return &on
	}

	s.Delimiter = set(d.Delimiter)
	s.Quote = set(d.Quote)
	if d.NoQuote {
		s.Quote = new(string)
	}
	s.Escape = set(d.Escape)
	if d.NoEscape {
		s.Escape = new(string)
	}
	s.CommentMarker = set(d.Comment)
	s.RecordSeparator = set(d.RecordSeparator)
	if len(d.Null) > 0 {
		nulls := make([]string, len(d.Null))
		for i, null := range d.Null {
			nulls[i] = flagEscapes.Replace(null)
		}
		s.NullStrings = &nulls
	}

	if d.QuoteMode != "" {
		var mode dialect.QuoteMode
		if err := mode.UnmarshalText([]byte(d.QuoteMode)); err != nil {
			return nil, err
		}
		s.QuoteMode = &mode
	}
	if d.DuplicateHeaderMode != "" {
		var mode dialect.DuplicateHeaderMode
		if err := mode.UnmarshalText([]byte(d.DuplicateHeaderMode)); err != nil {
			return nil, err
		}
		s.DuplicateHeaderMode = &mode
	}

	if len(d.Header) > 0 {
		header := append([]string(nil), d.Header...)
		s.Header = &header
	}
	s.AutoHeader = enable(d.AutoHeader)
	s.SkipHeaderRecord = enable(d.SkipHeaderRecord)
	s.AllowMissingColumnNames = enable(d.AllowMissingColumns)
	s.IgnoreHeaderCase = enable(d.IgnoreHeaderCase)
	s.IgnoreSurroundingSpaces = enable(d.IgnoreSurroundingSpaces)
	s.Trim = enable(d.Trim)
	s.TrailingDelimiter = enable(d.TrailingDelimiter)
	if d.KeepEmptyLines {
		keep := false
		s.IgnoreEmptyLines = &keep
	}

	return &s, nil
}
