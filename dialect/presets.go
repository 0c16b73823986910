package dialect

import (
	"fmt"
	"sort"
	"strings"
)

// Predefined dialects. They are plain immutable values; use With to derive a
// variant.
var (
	// Default is comma separated, double-quoted, CRLF terminated and skips
	// empty lines.
	Default = mustValidate(&Format{
		name:                "default",
		delimiter:           ",",
		quote:               '"',
		recordSeparator:     "\r\n",
		ignoreEmptyLines:    true,
		duplicateHeaderMode: AllowAll,
	})

	// Excel matches the CSV files Excel saves. Empty lines are records and
	// empty header names are accepted.
	Excel = preset(Default, "excel",
		WithIgnoreEmptyLines(false),
		WithAllowMissingColumnNames(true),
	)

	// RFC4180 follows RFC 4180: like Default but empty lines are records.
	RFC4180 = preset(Default, "rfc4180",
		WithIgnoreEmptyLines(false),
	)

	// TDF is tab-delimited with surrounding spaces ignored.
	TDF = preset(Default, "tdf",
		WithDelimiter("\t"),
		WithIgnoreSurroundingSpaces(true),
	)

	// MySQL matches SELECT INTO OUTFILE / LOAD DATA INFILE: tabs, backslash
	// escapes, \N for null and no quoting.
	MySQL = preset(Default, "mysql",
		WithDelimiter("\t"),
		WithEscape('\\'),
		WithIgnoreEmptyLines(false),
		WithoutQuote(),
		WithRecordSeparator("\n"),
		WithNullString(`\N`),
		WithQuoteMode(QuoteAllNonNull),
	)

	// PostgreSQLCSV matches COPY ... WITH (FORMAT csv): an unquoted empty
	// value is null.
	PostgreSQLCSV = preset(Default, "postgresql-csv",
		WithDelimiter(","),
		WithoutEscape(),
		WithIgnoreEmptyLines(false),
		WithQuote('"'),
		WithRecordSeparator("\n"),
		WithNullString(""),
		WithQuoteMode(QuoteAllNonNull),
	)

	// PostgreSQLText matches COPY ... WITH (FORMAT text): tabs, backslash
	// escapes and \N for null.
	PostgreSQLText = preset(Default, "postgresql-text",
		WithDelimiter("\t"),
		WithEscape('\\'),
		WithIgnoreEmptyLines(false),
		WithoutQuote(),
		WithRecordSeparator("\n"),
		WithNullString(`\N`),
		WithQuoteMode(QuoteAllNonNull),
	)

	// MongoDBCSV matches mongoexport --type=csv. The quote character doubles
	// as the escape character.
	MongoDBCSV = preset(Default, "mongodb-csv",
		WithDelimiter(","),
		WithEscape('"'),
		WithQuote('"'),
		WithQuoteMode(QuoteMinimal),
		WithSkipHeaderRecord(false),
	)

	// MongoDBTSV matches mongoexport --type=tsv.
	MongoDBTSV = preset(Default, "mongodb-tsv",
		WithDelimiter("\t"),
		WithEscape('"'),
		WithQuote('"'),
		WithQuoteMode(QuoteMinimal),
		WithSkipHeaderRecord(false),
	)

	// InformixUnload matches the Informix UNLOAD TO file format.
	InformixUnload = preset(Default, "informix-unload",
		WithDelimiter("|"),
		WithEscape('\\'),
		WithQuote('"'),
		WithRecordSeparator("\n"),
	)

	// InformixUnloadCSV matches UNLOAD TO with DELIMITER ",".
	InformixUnloadCSV = preset(Default, "informix-unload-csv",
		WithDelimiter(","),
		WithQuote('"'),
		WithRecordSeparator("\n"),
	)

	// Oracle matches SQL*Loader defaults: backslash escapes, \N for null and
	// trimmed values.
	Oracle = preset(Default, "oracle",
		WithDelimiter(","),
		WithEscape('\\'),
		WithIgnoreEmptyLines(false),
		WithQuote('"'),
		WithNullString(`\N`),
		WithTrim(true),
		WithRecordSeparator("\n"),
		WithQuoteMode(QuoteMinimal),
	)
)

var presets = map[string]*Format{}

func mustValidate(f *Format) *Format {
	if err := f.validate(); err != nil {
		panic(fmt.Sprintf("dialect %s: %v", f.name, err))
	}
	presets[f.name] = f
	return f
}

func preset(base *Format, name string, opts ...Option) *Format {
	f := base.MustWith(opts...)
	f.name = name
	presets[name] = f
	return f
}

// Lookup returns the predefined dialect with the given name. Names are
// case-insensitive and underscores may be used in place of dashes.
func Lookup(name string) (*Format, bool) {
	f, ok := presets[normalizeName(name)]
	return f, ok
}

// Presets returns the names of all predefined dialects, sorted.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetList returns a comma separated list of preset names, for help texts.
func PresetList() string {
	return strings.Join(Presets(), ", ")
}
