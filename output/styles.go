// Package output provides styling helpers for terminal output.
package output

import (
	"io"

	"github.com/muesli/termenv"
)

// Styles renders report text for one writer. Styling is dropped
// automatically when the writer is not a terminal.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates a new Styles instance for the given writer.
func NewStyles(w io.Writer) *Styles {
	return &Styles{
		output: termenv.NewOutput(w),
	}
}

// Keyword returns bold text, used for operation names and table headings.
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).
		Bold().
		String()
}

// Count returns a styled record or field count (magenta).
func (s *Styles) Count(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("5")).
		String()
}

// Dim returns dimmed text.
func (s *Styles) Dim(text string) string {
	return s.output.String(text).
		Faint().
		String()
}

// Warning returns a styled warning (yellow + bold).
func (s *Styles) Warning(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("3")).
		Bold().
		String()
}

// Unset returns the marker shown for a disabled dialect setting.
func (s *Styles) Unset(text string) string {
	return s.Dim(text)
}

// IsStyled reports whether escape sequences are emitted.
func (s *Styles) IsStyled() bool {
	return s.output.Profile != termenv.Ascii
}
