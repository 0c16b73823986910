package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/csvdialect/dialect"
)

func TestDialectFlagsFormat(t *testing.T) {
	t.Run("PresetWithoutOverrides", func(t *testing.T) {
		flags := DialectFlags{Dialect: "mysql"}

		f, err := flags.Format()
		assert.NoError(t, err)
		assert.True(t, f == dialect.MySQL)
	})

	t.Run("Overrides", func(t *testing.T) {
		flags := DialectFlags{
			Dialect:         "default",
			Delimiter:       `\t`,
			NoQuote:         true,
			Escape:          `\\`,
			Comment:         "#",
			RecordSeparator: `\n`,
			Null:            []string{"NULL", ""},
			QuoteMode:       "none",
			KeepEmptyLines:  true,
		}

		f, err := flags.Format()
		assert.NoError(t, err)
		assert.Equal(t, "\t", f.Delimiter())
		assert.False(t, f.IsQuoteSet())
		assert.Equal(t, '\\', f.Escape())
		assert.Equal(t, '#', f.CommentMarker())
		assert.Equal(t, "\n", f.RecordSeparator())
		assert.Equal(t, []string{"NULL", ""}, f.NullStrings())
		assert.Equal(t, dialect.QuoteNone, f.QuoteMode())
		assert.False(t, f.IgnoreEmptyLines())
	})

	t.Run("Header", func(t *testing.T) {
		flags := DialectFlags{
			Dialect:             "default",
			Header:              []string{"id", "name"},
			SkipHeaderRecord:    true,
			DuplicateHeaderMode: "disallow",
			IgnoreHeaderCase:    true,
		}

		f, err := flags.Format()
		assert.NoError(t, err)
		assert.Equal(t, []string{"id", "name"}, f.Header())
		assert.True(t, f.SkipHeaderRecord())
		assert.Equal(t, dialect.Disallow, f.DuplicateHeaderMode())
		assert.True(t, f.IgnoreHeaderCase())
	})

	t.Run("AutoHeader", func(t *testing.T) {
		flags := DialectFlags{Dialect: "excel", AutoHeader: true}

		f, err := flags.Format()
		assert.NoError(t, err)
		assert.True(t, f.IsHeaderAuto())
	})

	t.Run("DialectFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pipes.yaml")
		assert.NoError(t, os.WriteFile(path, []byte("base: tdf\ndelimiter: \"|\"\n"), 0o644))

		flags := DialectFlags{Dialect: "default", DialectFile: path, Trim: true}

		f, err := flags.Format()
		assert.NoError(t, err)
		assert.Equal(t, "|", f.Delimiter())
		assert.True(t, f.Trim())
	})

	t.Run("UnknownPreset", func(t *testing.T) {
		flags := DialectFlags{Dialect: "nope"}

		_, err := flags.Format()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "known: ")
	})

	t.Run("InvalidCombination", func(t *testing.T) {
		flags := DialectFlags{Dialect: "default", Delimiter: `"`}

		_, err := flags.Format()
		assert.Error(t, err)
	})
}

func TestDisplayString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{",", ","},
		{"\t", `\t`},
		{"\r\n", `\r\n`},
		{`\N`, `\\N`},
		{"", `""`},
		{" ", `" "`},
		{"|", "|"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, displayString(tt.in))
		})
	}

	assert.Equal(t, "-", displayChar(0))
	assert.Equal(t, `"`, displayChar('"'))
}
