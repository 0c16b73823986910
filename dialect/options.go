package dialect

// WithDelimiter sets the field separator. Multi-character separators such as
// "~|" or "||" are supported.
func WithDelimiter(delimiter string) Option {
	return func(f *Format) {
		f.delimiter = delimiter
	}
}

// WithQuote sets the quote character. 0 disables quoting.
func WithQuote(quote rune) Option {
	return func(f *Format) {
		f.quote = quote
	}
}

// WithoutQuote disables quoting.
func WithoutQuote() Option {
	return WithQuote(0)
}

// WithEscape sets the escape character. 0 disables escaping.
func WithEscape(escape rune) Option {
	return func(f *Format) {
		f.escape = escape
	}
}

// WithoutEscape disables escaping.
func WithoutEscape() Option {
	return WithEscape(0)
}

// WithCommentMarker sets the character that starts a comment line. 0
// disables comments.
func WithCommentMarker(marker rune) Option {
	return func(f *Format) {
		f.commentMarker = marker
	}
}

// WithRecordSeparator sets the string the printer ends records with.
func WithRecordSeparator(separator string) Option {
	return func(f *Format) {
		f.recordSeparator = separator
	}
}

// WithNullString sets the single string that represents null.
func WithNullString(null string) Option {
	return WithNullStrings(null)
}

// WithNullStrings sets every string that is read as null. The first one is
// the string the printer emits for a null value.
func WithNullStrings(nulls ...string) Option {
	return func(f *Format) {
		f.nullStrings = append([]string(nil), nulls...)
	}
}

// WithoutNullString removes all null strings.
func WithoutNullString() Option {
	return WithNullStrings()
}

// WithQuoteMode sets the printer quoting policy.
func WithQuoteMode(mode QuoteMode) Option {
	return func(f *Format) {
		f.quoteMode = mode
	}
}

// WithHeader sets explicit header names. Without names the header is read
// from the first record instead, as with WithAutoHeader.
func WithHeader(names ...string) Option {
	return func(f *Format) {
		f.header = append([]string(nil), names...)
		f.headerSet = true
	}
}

// WithAutoHeader reads the header from the first record. That record is
// never returned as data.
func WithAutoHeader() Option {
	return WithHeader()
}

// WithoutHeader disables header handling; records are positional only.
func WithoutHeader() Option {
	return func(f *Format) {
		f.header = nil
		f.headerSet = false
	}
}

// WithHeaderComments sets comments the printer writes before the header.
func WithHeaderComments(comments ...string) Option {
	return func(f *Format) {
		f.headerComments = append([]string(nil), comments...)
	}
}

// WithSkipHeaderRecord makes the parser consume the first record as header
// only. It is implied by an auto header.
func WithSkipHeaderRecord(skip bool) Option {
	return func(f *Format) {
		f.skipHeaderRecord = skip
	}
}

// WithDuplicateHeaderMode sets how repeated header names are treated.
func WithDuplicateHeaderMode(mode DuplicateHeaderMode) Option {
	return func(f *Format) {
		f.duplicateHeaderMode = mode
	}
}

// WithAllowDuplicateHeaderNames is the legacy boolean form of
// WithDuplicateHeaderMode: true maps to AllowAll, false to AllowEmpty.
func WithAllowDuplicateHeaderNames(allow bool) Option {
	if allow {
		return WithDuplicateHeaderMode(AllowAll)
	}
	return WithDuplicateHeaderMode(AllowEmpty)
}

// WithAllowMissingColumnNames accepts empty header names.
func WithAllowMissingColumnNames(allow bool) Option {
	return func(f *Format) {
		f.allowMissingColumnNames = allow
	}
}

// WithIgnoreEmptyLines skips blank lines instead of reading them as records.
func WithIgnoreEmptyLines(ignore bool) Option {
	return func(f *Format) {
		f.ignoreEmptyLines = ignore
	}
}

// WithIgnoreSurroundingSpaces drops whitespace around unquoted values.
func WithIgnoreSurroundingSpaces(ignore bool) Option {
	return func(f *Format) {
		f.ignoreSurroundingSpaces = ignore
	}
}

// WithIgnoreHeaderCase makes header lookups case-insensitive.
func WithIgnoreHeaderCase(ignore bool) Option {
	return func(f *Format) {
		f.ignoreHeaderCase = ignore
	}
}

// WithTrim trims quoted values on read and all values on print.
func WithTrim(trim bool) Option {
	return func(f *Format) {
		f.trim = trim
	}
}

// WithTrailingDelimiter ends printed records with a delimiter and drops the
// resulting empty last field on read.
func WithTrailingDelimiter(trailing bool) Option {
	return func(f *Format) {
		f.trailingDelimiter = trailing
	}
}
