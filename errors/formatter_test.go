package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/csvdialect/dialect"
	"github.com/robinvdvleuten/csvdialect/parser"
)

const badSource = "id,name\n1,\"ok\"x\n2,b\n"

func parseError(t *testing.T) error {
	t.Helper()
	_, err := parser.ParseString(context.Background(), badSource, dialect.Default, parser.WithFilename("data.csv"))
	assert.Error(t, err)
	return err
}

func TestTextFormatter_Format_WithSourceContext(t *testing.T) {
	err := parseError(t)
	tf := NewTextFormatter(WithSource([]byte(badSource)))

	output := tf.Format(err)
	assert.True(t, strings.HasPrefix(output, "data.csv:2: invalid character between encapsulated token and delimiter"), output)

	want := "\n\n" +
		"   id,name\n" +
		"   1,\"ok\"x\n" +
		"         ^\n" +
		"   2,b\n"
	assert.True(t, strings.HasSuffix(output, want), output)
}

func TestTextFormatter_Format_WithoutSource(t *testing.T) {
	err := parseError(t)
	tf := NewTextFormatter()
	assert.Equal(t, err.Error(), tf.Format(err))
}

func TestTextFormatter_Format_WrappedError(t *testing.T) {
	err := fmt.Errorf("check: %w", parseError(t))
	tf := NewTextFormatter(WithSource([]byte(badSource)))

	output := tf.Format(err)
	assert.True(t, strings.HasPrefix(output, "check: data.csv:2:"), output)
	assert.Contains(t, output, "         ^\n")
}

func TestTextFormatter_Format_PlainErrors(t *testing.T) {
	tf := NewTextFormatter(WithSource([]byte(badSource)))

	_, err := dialect.Default.With(dialect.WithDelimiter(""))
	assert.Error(t, err)
	assert.Equal(t, "invalid format: the delimiter cannot be empty", tf.Format(err))

	_, err = parser.ParseString(context.Background(), "a,b,a\n", dialect.Default.MustWith(
		dialect.WithAutoHeader(),
		dialect.WithDuplicateHeaderMode(dialect.Disallow),
	))
	assert.Error(t, err)
	assert.Equal(t, `the header contains a duplicate name "a" in ["a" "b" "a"]`, tf.Format(err))
}

func TestTextFormatter_FormatAll(t *testing.T) {
	tf := NewTextFormatter()
	assert.Equal(t, "", tf.FormatAll(nil))
	assert.Equal(t, "first\n\nsecond", tf.FormatAll([]error{
		fmt.Errorf("first"),
		fmt.Errorf("second"),
	}))
}

func TestSourceContext(t *testing.T) {
	t.Run("WideCharacters", func(t *testing.T) {
		lines := SourceContext([]byte("名前,x\n"), parser.Position{Line: 1, Column: 3})
		assert.Equal(t, 1, len(lines))
		assert.Equal(t, "    ", lines[0].Caret)
	})

	t.Run("TabsAreKept", func(t *testing.T) {
		lines := SourceContext([]byte("a\tb\tc"), parser.Position{Line: 1, Column: 4})
		assert.Equal(t, " \t ", lines[0].Caret)
	})

	t.Run("LineTerminators", func(t *testing.T) {
		lines := SourceContext([]byte("one\rtwo\r\nthree\nfour\n"), parser.Position{Line: 3, Column: 1})
		assert.Equal(t, []ContextLine{
			{Number: 1, Text: "one"},
			{Number: 2, Text: "two"},
			{Number: 3, Text: "three", HasCaret: true},
			{Number: 4, Text: "four"},
		}, lines)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		assert.Equal(t, 0, len(SourceContext([]byte("a\n"), parser.Position{Line: 2, Column: 1})))
		assert.Equal(t, 0, len(SourceContext([]byte("a\n"), parser.Position{})))
	})
}

func TestJSONFormatter(t *testing.T) {
	jf := NewJSONFormatter()

	t.Run("ParseError", func(t *testing.T) {
		var got ErrorJSON
		assert.NoError(t, json.Unmarshal([]byte(jf.Format(parseError(t))), &got))

		assert.Equal(t, "*parser.ParseError", got.Type)
		assert.Equal(t, &PositionJSON{Filename: "data.csv", Line: 2, Column: 7, Offset: 15}, got.Position)
		assert.Equal[any](t, float64(2), got.Details["start_line"])
		assert.Equal[any](t, parser.ErrInvalidCharAfterQuote.Error(), got.Details["cause"])
	})

	t.Run("HeaderError", func(t *testing.T) {
		errs := jf.FormatAllToSlice([]error{&parser.HeaderError{
			Names: []string{"a", ""},
			Err:   parser.ErrMissingColumnName,
		}})
		assert.Equal(t, 1, len(errs))
		assert.True(t, errs[0].Position == nil)
		assert.Equal(t, map[string]any{
			"names": []string{"a", ""},
			"cause": parser.ErrMissingColumnName.Error(),
		}, errs[0].Details)
	})

	t.Run("ConfigError", func(t *testing.T) {
		_, err := dialect.Default.With(dialect.WithQuoteMode(dialect.QuoteNone))
		assert.Error(t, err)

		errs := jf.FormatAllToSlice([]error{err})
		assert.Equal(t, "quote mode none requires an escape character", errs[0].Details["reason"])
	})

	t.Run("PlainError", func(t *testing.T) {
		assert.Equal(t, `{"type":"*errors.errorString","message":"boom"}`, jf.Format(fmt.Errorf("boom")))
	})

	t.Run("FormatAll", func(t *testing.T) {
		var got []ErrorJSON
		assert.NoError(t, json.Unmarshal([]byte(jf.FormatAll([]error{fmt.Errorf("a"), fmt.Errorf("b")})), &got))
		assert.Equal(t, 2, len(got))
	})
}
