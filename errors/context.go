package errors

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/csvdialect/parser"
)

// Lines of source shown around an error position.
const (
	linesBefore = 2
	linesAfter  = 1
)

// ContextLine is one source line shown around an error.
type ContextLine struct {
	Number int64  // 1-based line number
	Text   string // line content without its terminator
	// Caret is the padding that puts a caret under the error column. It is
	// only set on the error line; tabs are kept so the caret lines up in a
	// terminal.
	Caret    string
	HasCaret bool
}

// SourceContext returns the lines of source around pos. It returns nil when
// pos does not fall inside source.
func SourceContext(source []byte, pos parser.Position) []ContextLine {
	if pos.Line < 1 {
		return nil
	}
	lines := splitLines(string(source))
	if pos.Line > int64(len(lines)) {
		return nil
	}

	first := max(pos.Line-linesBefore, 1)
	last := min(pos.Line+linesAfter, int64(len(lines)))

	result := make([]ContextLine, 0, last-first+1)
	for n := first; n <= last; n++ {
		line := ContextLine{Number: n, Text: lines[n-1]}
		if n == pos.Line && pos.Column > 0 {
			line.Caret = caretPadding(line.Text, pos.Column)
			line.HasCaret = true
		}
		result = append(result, line)
	}
	return result
}

// caretPadding measures the display width of the runes before column.
func caretPadding(text string, column int) string {
	var sb strings.Builder
	i := 1
	for _, r := range text {
		if i >= column {
			break
		}
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
		i++
	}
	return sb.String()
}

// splitLines splits on CRLF, CR and LF, matching how the lexer counts lines.
// A terminator at the very end does not start another line.
func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\r':
			lines = append(lines, s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			start = i + 1
		case '\n':
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
