package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/csvdialect/dialect"
)

// lexed is a token stripped of its position, for comparisons.
type lexed struct {
	Type    TokenType
	Content string
	Quoted  bool
	Ready   bool
	Comment string
}

func value(content string) lexed { return lexed{Type: VALUE, Content: content} }
func eor(content string) lexed   { return lexed{Type: EOR, Content: content} }
func last(content string) lexed  { return lexed{Type: EOF, Content: content, Ready: true} }

func quoted(l lexed) lexed {
	l.Quoted = true
	return l
}

func commented(l lexed, comment string) lexed {
	l.Comment = comment
	return l
}

var end = lexed{Type: EOF}

func lexAll(t *testing.T, input string, f *dialect.Format) []lexed {
	t.Helper()
	tokens, err := NewLexer(strings.NewReader(input), f, "").ScanAll()
	assert.NoError(t, err)

	out := make([]lexed, len(tokens))
	for i, tok := range tokens {
		out[i] = lexed{Type: tok.Type, Content: tok.Content, Quoted: tok.Quoted, Ready: tok.Ready, Comment: tok.Comment}
	}
	return out
}

func TestLexerSimpleTokens(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format *dialect.Format
		want   []lexed
	}{
		{
			name:   "single record without terminator",
			input:  "a,b,c",
			format: dialect.Default,
			want:   []lexed{value("a"), value("b"), last("c"), end},
		},
		{
			name:   "records with LF",
			input:  "a,b\nc,d\n",
			format: dialect.Default,
			want:   []lexed{value("a"), eor("b"), value("c"), eor("d"), end},
		},
		{
			name:   "records with CRLF",
			input:  "a,b\r\nc,d\r\n",
			format: dialect.Default,
			want:   []lexed{value("a"), eor("b"), value("c"), eor("d"), end},
		},
		{
			name:   "records with lone CR",
			input:  "a\rb\r",
			format: dialect.Default,
			want:   []lexed{eor("a"), eor("b"), end},
		},
		{
			name:   "trailing delimiter at EOF yields empty field",
			input:  "a,",
			format: dialect.Default,
			want:   []lexed{value("a"), last(""), end},
		},
		{
			name:   "trailing delimiter before terminator",
			input:  "a,\n",
			format: dialect.Default,
			want:   []lexed{value("a"), eor(""), end},
		},
		{
			name:   "empty fields",
			input:  ",,\n",
			format: dialect.Default,
			want:   []lexed{value(""), value(""), eor(""), end},
		},
		{
			name:   "empty input",
			input:  "",
			format: dialect.Default,
			want:   []lexed{end},
		},
		{
			name:   "leading whitespace kept by default",
			input:  " a , b\n",
			format: dialect.Default,
			want:   []lexed{value(" a "), eor(" b"), end},
		},
		{
			name:   "surrounding spaces ignored",
			input:  " a , b \n",
			format: dialect.Default.MustWith(dialect.WithIgnoreSurroundingSpaces(true)),
			want:   []lexed{value("a"), eor("b"), end},
		},
		{
			name:   "tab delimiter with ignored spaces",
			input:  " a\t b \n",
			format: dialect.TDF,
			want:   []lexed{value("a"), eor("b"), end},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lexAll(t, tt.input, tt.format))
		})
	}
}

func TestLexerEmptyLines(t *testing.T) {
	t.Run("Skipped", func(t *testing.T) {
		got := lexAll(t, "\n\na\r\n\r\n\nb\n\n", dialect.Default)
		assert.Equal(t, []lexed{eor("a"), eor("b"), end}, got)
	})

	t.Run("Kept", func(t *testing.T) {
		got := lexAll(t, "a\n\nb", dialect.RFC4180)
		assert.Equal(t, []lexed{eor("a"), eor(""), last("b"), end}, got)
	})
}

func TestLexerQuotedTokens(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format *dialect.Format
		want   []lexed
	}{
		{
			name:   "delimiter inside quotes",
			input:  `"a,b",c`,
			format: dialect.Default,
			want:   []lexed{quoted(value("a,b")), last("c"), end},
		},
		{
			name:   "doubled quote",
			input:  `"c""d"` + "\n",
			format: dialect.Default,
			want:   []lexed{quoted(eor(`c"d`)), end},
		},
		{
			name:   "line breaks inside quotes",
			input:  "\"a\r\nb\nc\"\n",
			format: dialect.Default,
			want:   []lexed{quoted(eor("a\r\nb\nc")), end},
		},
		{
			name:   "whitespace after closing quote",
			input:  "\"a\"  ,\"b\" \n",
			format: dialect.Default,
			want:   []lexed{quoted(value("a")), quoted(eor("b")), end},
		},
		{
			name:   "empty quoted field",
			input:  `"",x`,
			format: dialect.Default,
			want:   []lexed{quoted(value("")), last("x"), end},
		},
		{
			name:   "quoted field at EOF",
			input:  `"x"`,
			format: dialect.Default,
			want:   []lexed{quoted(last("x")), end},
		},
		{
			name:   "quote as escape doubles",
			input:  `"a""b","c"`,
			format: dialect.MongoDBCSV,
			want:   []lexed{quoted(value(`a"b`)), quoted(last("c")), end},
		},
		{
			name:   "escaped quote inside quotes",
			input:  `"a\"b"`,
			format: dialect.Default.MustWith(dialect.WithEscape('\\')),
			want:   []lexed{quoted(last(`a"b`)), end},
		},
		{
			name:   "leading whitespace before quote with ignored spaces",
			input:  `  "a" ,b`,
			format: dialect.Default.MustWith(dialect.WithIgnoreSurroundingSpaces(true)),
			want:   []lexed{quoted(value("a")), last("b"), end},
		},
		{
			name:   "quote in the middle of a simple token",
			input:  `a"b,c`,
			format: dialect.Default,
			want:   []lexed{value(`a"b`), last("c"), end},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lexAll(t, tt.input, tt.format))
		})
	}
}

func TestLexerEscapes(t *testing.T) {
	backslash := dialect.Default.MustWith(dialect.WithEscape('\\'))

	tests := []struct {
		name  string
		input string
		want  []lexed
	}{
		{
			name:  "escaped delimiter",
			input: `a\,b,c`,
			want:  []lexed{value("a,b"), last("c"), end},
		},
		{
			name:  "control characters",
			input: `\r\n\t\b\f`,
			want:  []lexed{last("\r\n\t\b\f"), end},
		},
		{
			name:  "escaped escape",
			input: `a\\b`,
			want:  []lexed{last(`a\b`), end},
		},
		{
			name:  "escaped quote in simple token",
			input: `a\"b`,
			want:  []lexed{last(`a"b`), end},
		},
		{
			name:  "unknown sequence keeps both characters",
			input: `\N,x\y`,
			want:  []lexed{value(`\N`), last(`x\y`), end},
		},
		{
			name:  "escaped line feed",
			input: "a\\\nb",
			want:  []lexed{last("a\nb"), end},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lexAll(t, tt.input, backslash))
		})
	}
}

func TestLexerMultiCharDelimiter(t *testing.T) {
	f := dialect.Default.MustWith(dialect.WithDelimiter("~|"))

	tests := []struct {
		name  string
		input string
		want  []lexed
	}{
		{
			name:  "trailing delimiter",
			input: "a~|b~|c~|d~|~|f~|",
			want: []lexed{
				value("a"), value("b"), value("c"), value("d"), value(""), value("f"), last(""), end,
			},
		},
		{
			name:  "partial delimiter is data",
			input: "a~|b~|c~|d~|~|f~~||g",
			want: []lexed{
				value("a"), value("b"), value("c"), value("d"), value(""), value("f~"), last("|g"), end,
			},
		},
		{
			name:  "partial delimiter at EOF",
			input: "a~|f~",
			want:  []lexed{value("a"), last("f~"), end},
		},
		{
			name:  "lone second character",
			input: "a|b~|c|",
			want:  []lexed{value("a|b"), last("c|"), end},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lexAll(t, tt.input, f))
		})
	}

	t.Run("EscapedDelimiter", func(t *testing.T) {
		escaped := f.MustWith(dialect.WithEscape('!'))
		got := lexAll(t, "a!~|b~|c!~d", escaped)
		assert.Equal(t, []lexed{value("a~|b"), last("c~d"), end}, got)
	})
}

func TestLexerComments(t *testing.T) {
	f := dialect.Default.MustWith(dialect.WithCommentMarker('#'))

	tests := []struct {
		name   string
		input  string
		format *dialect.Format
		want   []lexed
	}{
		{
			name:   "comment before record",
			input:  "# hello\na,b\n",
			format: f,
			want:   []lexed{commented(value("a"), "hello"), eor("b"), end},
		},
		{
			name:   "consecutive comments coalesce",
			input:  "# c1\n#c2  \na\n",
			format: f,
			want:   []lexed{commented(eor("a"), "c1\nc2"), end},
		},
		{
			name:   "trailing comment rides on EOF",
			input:  "a\n# bye\n",
			format: f,
			want:   []lexed{eor("a"), commented(end, "bye")},
		},
		{
			name:   "trailing comment without terminator",
			input:  "a\n# bye",
			format: f,
			want:   []lexed{eor("a"), commented(end, "bye")},
		},
		{
			name:   "marker inside a field is data",
			input:  "a,#b\n",
			format: f,
			want:   []lexed{value("a"), eor("#b"), end},
		},
		{
			name:   "blank lines between comments skipped",
			input:  "# c1\n\n# c2\n\na\n",
			format: f,
			want:   []lexed{commented(eor("a"), "c1\nc2"), end},
		},
		{
			name:   "empty line after comment is a record",
			input:  "# c1\n\na\n",
			format: f.MustWith(dialect.WithIgnoreEmptyLines(false)),
			want:   []lexed{commented(eor(""), "c1"), eor("a"), end},
		},
		{
			name:   "indented comment with surrounding spaces ignored",
			input:  "  # note\na\n",
			format: f.MustWith(dialect.WithIgnoreSurroundingSpaces(true)),
			want:   []lexed{commented(eor("a"), "note"), end},
		},
		{
			name:   "indented marker is data when spaces are kept",
			input:  "  # note\n",
			format: f,
			want:   []lexed{eor("  # note"), end},
		},
		{
			name:   "comment marker unset",
			input:  "# c1\n",
			format: dialect.Default,
			want:   []lexed{eor("# c1"), end},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lexAll(t, tt.input, tt.format))
		})
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		format    *dialect.Format
		err       error
		line      int64
		startLine int64
	}{
		{
			name:      "unterminated quote",
			input:     "a,b\n\"c,d\ne",
			format:    dialect.Default,
			err:       ErrUnterminatedQuote,
			line:      3,
			startLine: 2,
		},
		{
			name:      "unterminated single quote",
			input:     "'a,b,c','",
			format:    dialect.Default.MustWith(dialect.WithQuote('\'')),
			err:       ErrUnterminatedQuote,
			line:      1,
			startLine: 1,
		},
		{
			name:      "character after closing quote",
			input:     "\"a\"b,c",
			format:    dialect.Default,
			err:       ErrInvalidCharAfterQuote,
			line:      1,
			startLine: 1,
		},
		{
			name:      "escape at EOF",
			input:     `a\`,
			format:    dialect.Default.MustWith(dialect.WithEscape('\\')),
			err:       ErrUnterminatedEscape,
			line:      1,
			startLine: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLexer(strings.NewReader(tt.input), tt.format, "input.csv").ScanAll()
			assert.Error(t, err)
			assert.IsError(t, err, tt.err)

			var perr *ParseError
			assert.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.line, perr.Pos.Line)
			assert.Equal(t, tt.startLine, perr.StartLine)
			assert.Equal(t, "input.csv", perr.Pos.Filename)
		})
	}
}

func TestLexerPositions(t *testing.T) {
	l := NewLexer(strings.NewReader("a,bc\r\n\r\n# x\nd"), dialect.Default.MustWith(dialect.WithCommentMarker('#')), "")
	tokens, err := l.ScanAll()
	assert.NoError(t, err)

	var got []Position
	for _, tok := range tokens[:3] {
		got = append(got, tok.Pos)
	}
	assert.Equal(t, []Position{
		{Offset: 0, Line: 1, Column: 1},
		{Offset: 2, Line: 1, Column: 3},
		{Offset: 12, Line: 4, Column: 1},
	}, got)
	assert.Equal(t, int64(3), l.CurrentLineNumber())
	assert.Equal(t, int64(13), l.CharacterPosition())
}

func TestLexerCharacterOffset(t *testing.T) {
	l := NewLexer(strings.NewReader("a,b"), dialect.Default, "")
	l.offset = 100

	tok, err := l.Next()
	assert.NoError(t, err)
	assert.Equal(t, int64(100), tok.Pos.Offset)
	assert.Equal(t, int64(102), l.CharacterPosition())
}

func TestLexerPositionsCountRunes(t *testing.T) {
	l := NewLexer(strings.NewReader("é,ü"), dialect.Default, "")
	_, err := l.Next()
	assert.NoError(t, err)

	tok, err := l.Next()
	assert.NoError(t, err)
	assert.Equal(t, "ü", tok.Content)
	assert.Equal(t, int64(2), tok.Pos.Offset)
}

type closeTracker struct {
	*strings.Reader
	closed int
}

func (c *closeTracker) Close() error {
	c.closed++
	return nil
}

func TestLexerClose(t *testing.T) {
	src := &closeTracker{Reader: strings.NewReader("a")}
	l := NewLexer(src, dialect.Default, "")

	assert.NoError(t, l.Close())
	assert.NoError(t, l.Close())
	assert.Equal(t, 1, src.closed)
}

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "EOF", EOF.String())
	assert.Equal(t, "VALUE", VALUE.String())
	assert.Equal(t, "EOR", EOR.String())
	assert.Equal(t, "UNKNOWN", TokenType(42).String())
}
