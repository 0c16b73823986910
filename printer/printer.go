// Package printer writes records as delimiter-separated text according to a
// dialect.Format. Output produced by a Printer reads back unchanged through
// the parser package using the same format.
package printer

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/robinvdvleuten/csvdialect/dialect"
	"github.com/robinvdvleuten/csvdialect/parser"
	"github.com/robinvdvleuten/csvdialect/telemetry"
)

// ErrClosed is returned when printing to a closed Printer.
var ErrClosed = errors.New("printer is closed")

// Option is a functional option for configuring a Printer.
type Option func(*Printer)

// WithAutoFlush flushes the sink after every record.
func WithAutoFlush(flush bool) Option {
	return func(p *Printer) {
		p.autoFlush = flush
	}
}

// Printer writes fields and records to a sink. It is not safe for
// concurrent use.
type Printer struct {
	w      *bufio.Writer
	closer io.Closer
	format *dialect.Format

	delimiter []rune

	newRecord bool // next field starts a record
	autoFlush bool
	closed    bool
}

// New creates a printer writing to w. A nil format means dialect.Default.
// Header comments and an explicit header, unless the format skips it, are
// printed before New returns.
func New(w io.Writer, f *dialect.Format, opts ...Option) (*Printer, error) {
	p := newPrinter(w, f)
	for _, opt := range opts {
		opt(p)
	}

	for _, comment := range p.format.HeaderComments() {
		if err := p.PrintComment(comment); err != nil {
			_ = p.Close(false)
			return nil, err
		}
	}
	if p.format.HasHeader() && !p.format.IsHeaderAuto() && !p.format.SkipHeaderRecord() {
		header := p.format.Header()
		values := make([]any, len(header))
		for i, name := range header {
			values[i] = name
		}
		if err := p.PrintRecord(values...); err != nil {
			_ = p.Close(false)
			return nil, err
		}
	}

	return p, nil
}

func newPrinter(w io.Writer, f *dialect.Format) *Printer {
	if f == nil {
		f = dialect.Default
	}
	p := &Printer{
		format:    f,
		delimiter: []rune(f.Delimiter()),
		newRecord: true,
	}
	if bw, ok := w.(*bufio.Writer); ok {
		p.w = bw
	} else {
		p.w = bufio.NewWriter(w)
	}
	if c, ok := w.(io.Closer); ok {
		p.closer = c
	}
	return p
}

// FormatRecord returns values as a single record without the record
// separator.
func FormatRecord(f *dialect.Format, values ...any) (string, error) {
	var sb strings.Builder
	p := newPrinter(&sb, f)
	for _, v := range values {
		if err := p.Print(v); err != nil {
			return "", err
		}
	}
	if err := p.Flush(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Print prints one field of the current record. A nil value, or a null
// parser.Field, is printed as the format's null string.
func (p *Printer) Print(value any) error {
	if p.closed {
		return ErrClosed
	}

	s, kind := stringify(value)
	if kind != kindNull && p.format.Trim() {
		s = strings.TrimSpace(s)
	}

	if !p.newRecord {
		if _, err := p.w.WriteString(p.format.Delimiter()); err != nil {
			return err
		}
	}
	first := p.newRecord
	p.newRecord = false

	return p.printValue(s, kind, first)
}

// PrintRecord prints values as one record.
func (p *Printer) PrintRecord(values ...any) error {
	for _, v := range values {
		if err := p.Print(v); err != nil {
			return err
		}
	}
	return p.Println()
}

// PrintRecords prints each row as a record.
func (p *Printer) PrintRecords(records [][]string) error {
	for _, record := range records {
		for _, v := range record {
			if err := p.Print(v); err != nil {
				return err
			}
		}
		if err := p.Println(); err != nil {
			return err
		}
	}
	return nil
}

// PrintParsed prints a record read by the parser, preceded by its comment.
func (p *Printer) PrintParsed(rec *parser.Record) error {
	if comment, ok := rec.Comment(); ok {
		if err := p.PrintComment(comment); err != nil {
			return err
		}
	}
	for _, field := range rec.Fields() {
		if err := p.Print(field); err != nil {
			return err
		}
	}
	return p.Println()
}

// PrintParsedRecords prints records read by the parser and flushes.
func (p *Printer) PrintParsedRecords(ctx context.Context, records []*parser.Record) error {
	timer := telemetry.FromContext(ctx).Start("print")
	defer timer.End()

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.PrintParsed(rec); err != nil {
			return err
		}
	}
	timer.Count("records", int64(len(records)))
	return p.Flush()
}

// Println ends the current record.
func (p *Printer) Println() error {
	if p.closed {
		return ErrClosed
	}
	if p.format.TrailingDelimiter() {
		if _, err := p.w.WriteString(p.format.Delimiter()); err != nil {
			return err
		}
	}
	if _, err := p.w.WriteString(p.format.RecordSeparator()); err != nil {
		return err
	}
	p.newRecord = true

	if p.autoFlush {
		return p.w.Flush()
	}
	return nil
}

// PrintComment prints text as comment lines, one per line of text. It does
// nothing when the format has no comment marker. A record in progress is
// ended first.
func (p *Printer) PrintComment(text string) error {
	if p.closed {
		return ErrClosed
	}
	if !p.format.IsCommentMarkerSet() {
		return nil
	}
	if !p.newRecord {
		if err := p.Println(); err != nil {
			return err
		}
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for _, line := range strings.Split(text, "\n") {
		p.w.WriteRune(p.format.CommentMarker())
		p.w.WriteByte(' ')
		p.w.WriteString(line)
		if _, err := p.w.WriteString(p.format.RecordSeparator()); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes buffered output to the sink.
func (p *Printer) Flush() error {
	return p.w.Flush()
}

// Close optionally flushes, then closes the sink if it is an io.Closer. It
// is safe to call more than once.
func (p *Printer) Close(flush bool) error {
	if p.closed {
		return nil
	}
	p.closed = true

	var err error
	if flush {
		err = p.w.Flush()
	}
	if p.closer != nil {
		err = errors.Join(err, p.closer.Close())
	}
	return err
}
