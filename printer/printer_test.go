package printer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/csvdialect/dialect"
	"github.com/robinvdvleuten/csvdialect/parser"
	"github.com/robinvdvleuten/csvdialect/telemetry"
)

func printString(t *testing.T, f *dialect.Format, fn func(p *Printer) error) string {
	t.Helper()
	var buf bytes.Buffer
	p, err := New(&buf, f)
	assert.NoError(t, err)
	assert.NoError(t, fn(p))
	assert.NoError(t, p.Close(true))
	return buf.String()
}

func TestQuoteModeMatrix(t *testing.T) {
	tests := []struct {
		mode dialect.QuoteMode
		want string
	}{
		{dialect.QuoteAll, "\"N/A\",\"Hello\",\"N/A\",\"World\"\r\n"},
		{dialect.QuoteAllNonNull, "N/A,\"Hello\",N/A,\"World\"\r\n"},
		{dialect.QuoteMinimal, "N/A,Hello,N/A,World\r\n"},
		{dialect.QuoteNonNumeric, "N/A,\"Hello\",N/A,\"World\"\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			f := dialect.Default.MustWith(dialect.WithNullString("N/A"), dialect.WithQuoteMode(tt.mode))
			got := printString(t, f, func(p *Printer) error {
				return p.PrintRecord(nil, "Hello", nil, "World")
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMinimalQuoting(t *testing.T) {
	f := dialect.Default.MustWith(dialect.WithCommentMarker('#'), dialect.WithEscape('\\'))

	tests := []struct {
		name   string
		values []any
		want   string
	}{
		{"plain", []any{"a", "b"}, "a,b\r\n"},
		{"delimiter", []any{"a,b"}, "\"a,b\"\r\n"},
		{"quote is doubled", []any{`say "hi"`}, "\"say \"\"hi\"\"\"\r\n"},
		{"escape is doubled", []any{`C:\tmp`}, "\"C:\\\\tmp\"\r\n"},
		{"line break", []any{"a\nb"}, "\"a\nb\"\r\n"},
		{"carriage return", []any{"a\rb"}, "\"a\rb\"\r\n"},
		{"leading space", []any{" a"}, "\" a\"\r\n"},
		{"trailing space", []any{"a "}, "\"a \"\r\n"},
		{"empty first field", []any{"", "a"}, "\"\",a\r\n"},
		{"empty later field", []any{"a", ""}, "a,\r\n"},
		{"comment marker first", []any{"#a", "#b"}, "\"#a\",#b\r\n"},
		{"unicode", []any{"é", "日本"}, "é,日本\r\n"},
		{"null without null string", []any{"a", nil}, "a,\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := printString(t, f, func(p *Printer) error {
				return p.PrintRecord(tt.values...)
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNonNumericQuoting(t *testing.T) {
	f := dialect.Default.MustWith(dialect.WithQuoteMode(dialect.QuoteNonNumeric))
	got := printString(t, f, func(p *Printer) error {
		return p.PrintRecord(1, 2.5, decimal.RequireFromString("3.25"), "4", "-0.5", "x", "", int64(-7), uint8(8))
	})
	assert.Equal(t, "1,2.5,3.25,4,-0.5,\"x\",\"\",-7,8\r\n", got)

	t.Run("NumberWithDelimiter", func(t *testing.T) {
		dotted := f.MustWith(dialect.WithDelimiter("."))
		got := printString(t, dotted, func(p *Printer) error {
			return p.PrintRecord(1.5, 2)
		})
		assert.Equal(t, "\"1.5\".2\r\n", got)
	})
}

func TestEscapedOutput(t *testing.T) {
	got := printString(t, dialect.MySQL, func(p *Printer) error {
		return p.PrintRecord("a\tb", "c\nd", nil, `e\f`, `"q"`)
	})
	assert.Equal(t, "a\\\tb\tc\\nd\t\\N\te\\\\f\t\"q\"\n", got)

	t.Run("QuoteNone", func(t *testing.T) {
		f := dialect.Default.MustWith(
			dialect.WithQuoteMode(dialect.QuoteNone),
			dialect.WithEscape('!'),
			dialect.WithCommentMarker('#'),
		)
		got := printString(t, f, func(p *Printer) error {
			return p.PrintRecord("#a", "b,c", `d"e`, "f!g", "h\r\ni")
		})
		assert.Equal(t, "!#a,b!,c,d!\"e,f!!g,h!r!ni\r\n", got)
	})

	t.Run("QuoteNoneEmptyRecord", func(t *testing.T) {
		f := dialect.Default.MustWith(dialect.WithEscape('\\'), dialect.WithQuoteMode(dialect.QuoteNone))
		got := printString(t, f, func(p *Printer) error {
			return p.PrintRecord("")
		})
		assert.Equal(t, "\"\"\r\n", got)

		records, err := parser.ParseString(context.Background(), got, f)
		assert.NoError(t, err)
		assert.Equal(t, 1, len(records))
		assert.Equal(t, []string{""}, records[0].Values())
	})

	t.Run("MultiCharDelimiter", func(t *testing.T) {
		f := dialect.Default.MustWith(dialect.WithDelimiter("~|"), dialect.WithoutQuote(), dialect.WithEscape('\\'))
		got := printString(t, f, func(p *Printer) error {
			return p.PrintRecord("a~|b", "c~", "|d")
		})
		assert.Equal(t, "a\\~|b~|c~~||d\r\n", got)
	})
}

func TestHeaderAndComments(t *testing.T) {
	t.Run("HeaderCommentsThenHeader", func(t *testing.T) {
		f := dialect.Default.MustWith(
			dialect.WithCommentMarker('#'),
			dialect.WithHeaderComments("generated", "by test"),
			dialect.WithHeader("a", "b"),
		)
		got := printString(t, f, func(p *Printer) error {
			return p.PrintRecord(1, 2)
		})
		assert.Equal(t, "# generated\r\n# by test\r\na,b\r\n1,2\r\n", got)
	})

	t.Run("SkipHeaderRecord", func(t *testing.T) {
		f := dialect.Default.MustWith(dialect.WithHeader("a", "b"), dialect.WithSkipHeaderRecord(true))
		got := printString(t, f, func(p *Printer) error {
			return p.PrintRecord("x", "y")
		})
		assert.Equal(t, "x,y\r\n", got)
	})

	t.Run("AutoHeaderPrintsNothing", func(t *testing.T) {
		f := dialect.Default.MustWith(dialect.WithAutoHeader())
		got := printString(t, f, func(p *Printer) error { return nil })
		assert.Equal(t, "", got)
	})

	t.Run("MultiLineComment", func(t *testing.T) {
		f := dialect.Default.MustWith(dialect.WithCommentMarker('#'))
		got := printString(t, f, func(p *Printer) error {
			return p.PrintComment("x\r\ny\nz")
		})
		assert.Equal(t, "# x\r\n# y\r\n# z\r\n", got)
	})

	t.Run("CommentEndsRecord", func(t *testing.T) {
		f := dialect.Default.MustWith(dialect.WithCommentMarker('#'))
		got := printString(t, f, func(p *Printer) error {
			if err := p.Print("a"); err != nil {
				return err
			}
			return p.PrintComment("c")
		})
		assert.Equal(t, "a\r\n# c\r\n", got)
	})

	t.Run("CommentWithoutMarker", func(t *testing.T) {
		got := printString(t, dialect.Default, func(p *Printer) error {
			return p.PrintComment("ignored")
		})
		assert.Equal(t, "", got)
	})
}

func TestTrimAndTrailingDelimiter(t *testing.T) {
	f := dialect.Default.MustWith(dialect.WithTrim(true), dialect.WithTrailingDelimiter(true))
	got := printString(t, f, func(p *Printer) error {
		return p.PrintRecords([][]string{{" a ", "b"}, {"c"}})
	})
	assert.Equal(t, "a,b,\r\nc,\r\n", got)
}

func TestFormatRecord(t *testing.T) {
	f := dialect.Default.MustWith(dialect.WithHeader("ignored"))
	got, err := FormatRecord(f, "a", "b c", nil, "d,e")
	assert.NoError(t, err)
	assert.Equal(t, `a,b c,,"d,e"`, got)
}

type closeTracker struct {
	bytes.Buffer
	closed int
}

func (c *closeTracker) Close() error {
	c.closed++
	return nil
}

func TestClose(t *testing.T) {
	sink := &closeTracker{}
	p, err := New(sink, dialect.Default)
	assert.NoError(t, err)

	assert.NoError(t, p.PrintRecord("a"))
	assert.NoError(t, p.Close(true))
	assert.NoError(t, p.Close(true))
	assert.Equal(t, 1, sink.closed)
	assert.Equal(t, "a\r\n", sink.String())

	assert.IsError(t, p.Print("b"), ErrClosed)
	assert.IsError(t, p.Println(), ErrClosed)
}

var errSink = errors.New("sink failed")

type failingSink struct {
	closed int
}

func (s *failingSink) Write([]byte) (int, error) { return 0, errSink }

func (s *failingSink) Close() error {
	s.closed++
	return nil
}

func TestNewClosesSinkOnHeaderError(t *testing.T) {
	sink := &failingSink{}
	p, err := New(sink, dialect.Default.MustWith(dialect.WithHeader("a", "b")), WithAutoFlush(true))
	assert.IsError(t, err, errSink)
	assert.True(t, p == nil)
	assert.Equal(t, 1, sink.closed)
}

func TestAutoFlush(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(&buf, dialect.Default, WithAutoFlush(true))
	assert.NoError(t, err)

	assert.NoError(t, p.PrintRecord("a", "b"))
	assert.Equal(t, "a,b\r\n", buf.String())
}

func TestPrintParsedKeepsComments(t *testing.T) {
	f := dialect.Default.MustWith(dialect.WithCommentMarker('#'), dialect.WithNullString("NULL"))
	input := "# first\r\na,NULL\r\n# second\r\n# more\r\n\"b,c\",d\r\n"

	records, err := parser.ParseString(context.Background(), input, f)
	assert.NoError(t, err)

	collector := telemetry.NewTimingCollector()
	ctx := telemetry.WithCollector(context.Background(), collector)

	var buf bytes.Buffer
	p, err := New(&buf, f)
	assert.NoError(t, err)
	assert.NoError(t, p.PrintParsedRecords(ctx, records))
	assert.Equal(t, "# first\r\na,NULL\r\n# second\r\n# more\r\n\"b,c\",d\r\n", buf.String())

	var report bytes.Buffer
	collector.Report(&report, nil)
	assert.True(t, strings.HasPrefix(report.String(), "print: "))
	assert.Contains(t, report.String(), "2 records")
}
