package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/csvdialect/dialect"
	"github.com/robinvdvleuten/csvdialect/output"
)

type DialectsCmd struct {
	Name   string `help:"Show a single preset." arg:"" optional:""`
	Output string `help:"Output format (table, toml, yaml). toml and yaml print the dialect selected by the global flags when no name is given." enum:"table,toml,yaml" default:"table" short:"o"`
}

var dialectColumns = []string{"NAME", "DELIMITER", "QUOTE", "ESCAPE", "COMMENT", "SEPARATOR", "NULL", "QUOTE MODE", "EMPTY LINES"}

func (cmd *DialectsCmd) Run(ctx *kong.Context, globals *Globals) error {
	switch cmd.Output {
	case "toml", "yaml":
		f, err := cmd.selected(ctx, globals)
		if err != nil {
			return err
		}
		format := dialect.FileTOML
		if cmd.Output == "yaml" {
			format = dialect.FileYAML
		}
		return f.Spec().Encode(ctx.Stdout, format)
	}

	if cmd.Name != "" {
		f, err := cmd.selected(ctx, globals)
		if err != nil {
			return err
		}
		return writeTable(ctx.Stdout, dialectColumns, [][]string{dialectRow(f)})
	}

	var rows [][]string
	for _, name := range dialect.Presets() {
		f, _ := dialect.Lookup(name)
		rows = append(rows, dialectRow(f))
	}
	return writeTable(ctx.Stdout, dialectColumns, rows)
}

// selected returns the named preset, or the dialect of the global flags.
func (cmd *DialectsCmd) selected(ctx *kong.Context, globals *Globals) (*dialect.Format, error) {
	if cmd.Name == "" {
		return resolveFormat(ctx, globals)
	}
	f, ok := dialect.Lookup(cmd.Name)
	if !ok {
		printError(ctx.Stderr, fmt.Sprintf("unknown dialect %q (known: %s)", cmd.Name, dialect.PresetList()))
		return nil, NewCommandError(exitUsage)
	}
	return f, nil
}

func dialectRow(f *dialect.Format) []string {
	nulls := make([]string, 0, len(f.NullStrings()))
	for _, null := range f.NullStrings() {
		nulls = append(nulls, displayString(null))
	}
	emptyLines := "records"
	if f.IgnoreEmptyLines() {
		emptyLines = "skipped"
	}
	return []string{
		f.Name(),
		displayString(f.Delimiter()),
		displayChar(f.Quote()),
		displayChar(f.Escape()),
		displayChar(f.CommentMarker()),
		displayString(f.RecordSeparator()),
		strings.Join(nulls, " "),
		f.QuoteMode().String(),
		emptyLines,
	}
}

// displayString shows control characters as escapes and the empty string
// as "".
func displayString(s string) string {
	quoted := strconv.Quote(s)
	if s == "" || strings.ContainsRune(s, ' ') {
		return quoted
	}
	return quoted[1 : len(quoted)-1]
}

func displayChar(r rune) string {
	if r == 0 {
		return "-"
	}
	return displayString(string(r))
}

// writeTable writes rows aligned on display width. Styling is applied after
// padding so escape sequences do not count towards the width.
func writeTable(w io.Writer, columns []string, rows [][]string) error {
	styles := output.NewStyles(w)

	widths := make([]int, len(columns))
	for i, column := range columns {
		widths[i] = runewidth.StringWidth(column)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	writeRow := func(cells []string, style func(string) string) error {
		var sb strings.Builder
		for i, cell := range cells {
			padded := cell
			if i < len(cells)-1 {
				padded = runewidth.FillRight(cell, widths[i]+2)
			}
			switch {
			case style != nil:
				padded = style(padded)
			case cell == "-":
				padded = styles.Unset(padded)
			}
			sb.WriteString(padded)
		}
		_, err := fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))
		return err
	}

	if err := writeRow(columns, styles.Keyword); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeRow(row, nil); err != nil {
			return err
		}
	}
	return nil
}
