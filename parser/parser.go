// Package parser reads delimiter-separated text into records according to a
// dialect.Format.
//
// Example:
//
//	p, err := parser.New(strings.NewReader(input), dialect.RFC4180.MustWith(dialect.WithAutoHeader()))
//	if err != nil {
//		return err
//	}
//	defer p.Close()
//
//	for rec, err := range p.Records() {
//		if err != nil {
//			return err
//		}
//		name, _ := rec.Get("name")
//		fmt.Println(rec.RecordNumber(), name)
//	}
package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/robinvdvleuten/csvdialect/dialect"
	"github.com/robinvdvleuten/csvdialect/telemetry"
)

// Option configures a Parser.
type Option func(*Parser)

// WithCharacterOffset sets the character offset of the source within a
// larger stream. Record positions include it.
func WithCharacterOffset(offset int64) Option {
	return func(p *Parser) { p.offset = offset }
}

// WithRecordNumber sets the number assigned to the next record. Together
// with WithCharacterOffset it resumes a parse in the middle of a stream.
func WithRecordNumber(n int64) Option {
	return func(p *Parser) { p.recordNumber = n }
}

// WithFilename sets the filename used in error positions.
func WithFilename(filename string) Option {
	return func(p *Parser) { p.filename = filename }
}

// WithInterner interns values and header names through in.
func WithInterner(in *Interner) Option {
	return func(p *Parser) { p.interner = in }
}

// Parser turns tokens into records. It is forward-only and not safe for
// concurrent use.
type Parser struct {
	lexer    *Lexer
	format   *dialect.Format
	interner *Interner
	filename string
	offset   int64

	header         *Header
	headerComment  *string
	trailerComment *string

	recordNumber int64 // number of the next record
	err          error // sticky
	closed       bool
}

// New creates a parser reading from r. A nil format means dialect.Default.
// The header, if the format defines one, is resolved before New returns.
func New(r io.Reader, f *dialect.Format, opts ...Option) (*Parser, error) {
	if f == nil {
		f = dialect.Default
	}

	p := &Parser{
		format:       f,
		recordNumber: 1,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.lexer = NewLexer(r, f, p.filename)
	p.lexer.offset = p.offset

	if err := p.resolveHeader(); err != nil {
		p.err = err
		_ = p.Close()
		return nil, err
	}

	return p, nil
}

// ParseString parses all records of s.
func ParseString(ctx context.Context, s string, f *dialect.Format, opts ...Option) ([]*Record, error) {
	p, err := New(strings.NewReader(s), f, opts...)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.ReadAll(ctx)
}

// ParseBytes parses all records of data.
func ParseBytes(ctx context.Context, data []byte, f *dialect.Format, opts ...Option) ([]*Record, error) {
	return ParseString(ctx, string(data), f, opts...)
}

func (p *Parser) resolveHeader() error {
	var names []string

	switch {
	case p.format.IsHeaderAuto():
		rec, err := p.readRecord()
		if errors.Is(err, io.EOF) {
			p.header = &Header{index: map[string]int{}, fold: p.format.IgnoreHeaderCase()}
			return nil
		}
		if err != nil {
			return err
		}
		if rec.hasComment {
			p.headerComment = &rec.comment
		}
		// Values were interned while reading the record.
		h, err := newHeader(rec.Values(), p.format, nil)
		if err != nil {
			return err
		}
		p.header = h
		return nil

	case p.format.HasHeader():
		if p.format.SkipHeaderRecord() {
			rec, err := p.readRecord()
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			if rec != nil && rec.hasComment {
				p.headerComment = &rec.comment
			}
		}
		names = p.format.Header()

	default:
		return nil
	}

	h, err := newHeader(names, p.format, p.interner)
	if err != nil {
		return err
	}
	p.header = h
	return nil
}

// Next returns the next record, or io.EOF when the input is exhausted. Any
// other error is final: every later call returns it again.
func (p *Parser) Next() (*Record, error) {
	if p.closed {
		return nil, ErrClosed
	}
	if p.err != nil {
		return nil, p.err
	}

	rec, err := p.readRecord()
	if err != nil {
		p.err = err
		return nil, err
	}

	rec.header = p.header
	rec.recordNumber = p.recordNumber
	p.recordNumber++
	return rec, nil
}

// Records returns an iterator over the remaining records. Iteration stops
// after the first error. Iterators share the parser's position.
func (p *Parser) Records() iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		for {
			rec, err := p.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// ReadAll reads the remaining records.
func (p *Parser) ReadAll(ctx context.Context) ([]*Record, error) {
	name := "parse"
	if p.filename != "" {
		name = fmt.Sprintf("parse %s", p.filename)
	}
	timer := telemetry.FromContext(ctx).Start(name)
	defer timer.End()

	var records []*Record
	for rec, err := range p.Records() {
		if err != nil {
			return records, err
		}
		records = append(records, rec)
		if err := ctx.Err(); err != nil {
			return records, err
		}
	}

	timer.Count("records", int64(len(records)))
	return records, nil
}

// readRecord assembles the next record from tokens without numbering it.
func (p *Parser) readRecord() (*Record, error) {
	rec := &Record{position: -1}
	var comments []string

	for {
		tok, err := p.lexer.Next()
		if err != nil {
			return nil, err
		}
		if tok.HasComment {
			comments = append(comments, tok.Comment)
		}
		if !tok.IsField() {
			// End of input without a pending field.
			if len(rec.fields) == 0 {
				if len(comments) > 0 {
					trailer := strings.Join(comments, "\n")
					p.trailerComment = &trailer
				}
				return nil, io.EOF
			}
			break
		}

		if rec.position < 0 {
			rec.position = tok.Pos.Offset
		}

		last := tok.Type != VALUE
		if f, ok := p.resolveField(tok, last); ok {
			rec.fields = append(rec.fields, f)
		}
		if last {
			break
		}
	}

	if len(comments) > 0 {
		rec.comment = strings.Join(comments, "\n")
		rec.hasComment = true
	}
	return rec, nil
}

// resolveField applies trimming and null mapping to a token. The second
// result is false when the field is dropped as a trailing delimiter artifact.
func (p *Parser) resolveField(tok Token, last bool) (Field, bool) {
	value := tok.Content
	if tok.Quoted && p.format.Trim() {
		value = strings.TrimSpace(value)
	}

	if last && value == "" && p.format.TrailingDelimiter() {
		return Field{}, false
	}

	strict := p.format.QuoteMode().IsStrict()
	if p.format.IsNullString(value) {
		if strict && tok.Quoted {
			return p.field(value), true
		}
		return Field{Null: true}, true
	}
	if strict && value == "" && !tok.Quoted && len(p.format.NullStrings()) == 0 {
		return Field{Null: true}, true
	}

	return p.field(value), true
}

func (p *Parser) field(value string) Field {
	if p.interner != nil {
		value = p.interner.Intern(value)
	}
	return Field{Value: value}
}

// Header returns the resolved header, or nil when the format has none.
func (p *Parser) Header() *Header {
	return p.header
}

// HeaderNames returns a copy of the header names.
func (p *Parser) HeaderNames() []string {
	return p.header.Names()
}

// HeaderMap returns a copy of the header name to position mapping.
func (p *Parser) HeaderMap() map[string]int {
	return p.header.Map()
}

// HeaderComment returns the comment that preceded the header record.
func (p *Parser) HeaderComment() (string, bool) {
	if p.headerComment == nil {
		return "", false
	}
	return *p.headerComment, true
}

// TrailerComment returns the comment found after the last record. It is
// only known once the input is exhausted.
func (p *Parser) TrailerComment() (string, bool) {
	if p.trailerComment == nil {
		return "", false
	}
	return *p.trailerComment, true
}

// CurrentLineNumber returns the line number of the lexer.
func (p *Parser) CurrentLineNumber() int64 {
	return p.lexer.CurrentLineNumber()
}

// CurrentRecordNumber returns the number of the last record returned.
func (p *Parser) CurrentRecordNumber() int64 {
	return p.recordNumber - 1
}

// Close closes the source if it is an io.Closer. Later calls to Next
// return ErrClosed.
func (p *Parser) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	return p.lexer.Close()
}
