// Package errors provides error formatting infrastructure for parse, header
// and dialect errors. It separates error formatting from domain logic,
// allowing errors to be rendered in multiple formats (text, JSON) for
// different consumers (CLI, scripts, editors).
//
// The package defines a Formatter interface and provides two implementations:
//   - TextFormatter: Formats errors for command-line output with source context
//   - JSONFormatter: Formats errors as structured JSON
//
// Domain-specific error types remain in their respective packages (parser,
// dialect), while this package handles the presentation layer.
package errors

import (
	"bytes"
	"encoding/json"
	stdErrors "errors"
	"fmt"

	"github.com/robinvdvleuten/csvdialect/dialect"
	"github.com/robinvdvleuten/csvdialect/parser"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// positioned is implemented by errors that know where in the input they
// were detected.
type positioned interface {
	GetPosition() parser.Position
	Error() string
}

// TextFormatter formats errors for command-line output.
type TextFormatter struct {
	sourceContent []byte // Optional source content for error context
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource sets the source content for error context.
func WithSource(source []byte) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.sourceContent = source
	}
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error. Errors carrying a position are followed by
// the surrounding source lines when source content is available.
func (tf *TextFormatter) Format(err error) string {
	var e positioned
	if stdErrors.As(err, &e) && tf.sourceContent != nil {
		if lines := SourceContext(tf.sourceContent, e.GetPosition()); lines != nil {
			return formatWithSourceContext(err.Error(), lines)
		}
	}

	// Fallback to standard error formatting
	return err.Error()
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(tf.Format(err))

		// Add blank line between errors (but not after the last one)
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

// formatWithSourceContext writes the message followed by the source lines,
// indented, with a caret under the error column.
func formatWithSourceContext(message string, lines []ContextLine) string {
	var buf bytes.Buffer

	buf.WriteString(message)
	buf.WriteString("\n\n")

	for _, line := range lines {
		buf.WriteString("   ")
		buf.WriteString(line.Text)
		buf.WriteByte('\n')

		if line.HasCaret {
			buf.WriteString("   ")
			buf.WriteString(line.Caret)
			buf.WriteString("^\n")
		}
	}

	return buf.String()
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string         `json:"type"`
	Message  string         `json:"message"`
	Position *PositionJSON  `json:"position,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// PositionJSON represents a file position in JSON format.
type PositionJSON struct {
	Filename string `json:"filename,omitempty"`
	Line     int64  `json:"line"`
	Column   int    `json:"column"`
	Offset   int64  `json:"offset"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	return result
}

// toJSON converts an error to ErrorJSON.
func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
		Details: make(map[string]any),
	}

	var pe positioned
	if stdErrors.As(err, &pe) {
		pos := pe.GetPosition()
		errJSON.Position = &PositionJSON{
			Filename: pos.Filename,
			Line:     pos.Line,
			Column:   pos.Column,
			Offset:   pos.Offset,
		}
	}

	var (
		parseErr  *parser.ParseError
		headerErr *parser.HeaderError
		configErr *dialect.ConfigError
	)
	switch {
	case stdErrors.As(err, &parseErr):
		errJSON.Details["start_line"] = parseErr.StartLine
		if parseErr.Err != nil {
			errJSON.Details["cause"] = parseErr.Err.Error()
		}
	case stdErrors.As(err, &headerErr):
		errJSON.Details["names"] = headerErr.Names
		if headerErr.Name != "" {
			errJSON.Details["name"] = headerErr.Name
		}
		if headerErr.Err != nil {
			errJSON.Details["cause"] = headerErr.Err.Error()
		}
	case stdErrors.As(err, &configErr):
		errJSON.Details["reason"] = configErr.Reason
	}

	if len(errJSON.Details) == 0 {
		errJSON.Details = nil
	}
	return errJSON
}
