package printer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/csvdialect/dialect"
	"github.com/robinvdvleuten/csvdialect/parser"
)

// valueKind classifies a printed value for quoting decisions.
type valueKind int

const (
	kindString valueKind = iota
	kindNumber
	kindNull
)

// stringify converts a value to its printed text.
func stringify(value any) (string, valueKind) {
	switch v := value.(type) {
	case nil:
		return "", kindNull
	case string:
		return v, kindString
	case []byte:
		return string(v), kindString
	case parser.Field:
		if v.Null {
			return "", kindNull
		}
		return v.Value, kindString
	case *string:
		if v == nil {
			return "", kindNull
		}
		return *v, kindString
	case decimal.Decimal:
		return v.String(), kindNumber
	case *decimal.Decimal:
		if v == nil {
			return "", kindNull
		}
		return v.String(), kindNumber
	case int:
		return strconv.FormatInt(int64(v), 10), kindNumber
	case int8:
		return strconv.FormatInt(int64(v), 10), kindNumber
	case int16:
		return strconv.FormatInt(int64(v), 10), kindNumber
	case int32:
		return strconv.FormatInt(int64(v), 10), kindNumber
	case int64:
		return strconv.FormatInt(v, 10), kindNumber
	case uint:
		return strconv.FormatUint(uint64(v), 10), kindNumber
	case uint8:
		return strconv.FormatUint(uint64(v), 10), kindNumber
	case uint16:
		return strconv.FormatUint(uint64(v), 10), kindNumber
	case uint32:
		return strconv.FormatUint(uint64(v), 10), kindNumber
	case uint64:
		return strconv.FormatUint(v, 10), kindNumber
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), kindNumber
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), kindNumber
	case bool:
		return strconv.FormatBool(v), kindString
	case fmt.Stringer:
		return v.String(), kindString
	default:
		return fmt.Sprint(v), kindString
	}
}

// printValue writes a single value, quoting or escaping it as the format
// requires. first reports whether the value starts a record.
func (p *Printer) printValue(value string, kind valueKind, first bool) error {
	f := p.format

	if kind == kindNull {
		null, ok := f.NullString()
		switch {
		case !ok:
			value = ""
		case f.QuoteMode() == dialect.QuoteAll && f.IsQuoteSet():
			return p.writeQuoted(null)
		default:
			value = null
		}
		_, err := p.w.WriteString(value)
		return err
	}

	if !f.IsQuoteSet() || f.QuoteMode() == dialect.QuoteNone {
		// An empty value alone on a line would read back as an empty line.
		if value == "" && first && f.IsQuoteSet() {
			return p.writeQuoted(value)
		}
		if f.IsEscapeSet() {
			return p.writeEscaped(value, first)
		}
		_, err := p.w.WriteString(value)
		return err
	}

	var quote bool
	switch f.QuoteMode() {
	case dialect.QuoteAll, dialect.QuoteAllNonNull:
		quote = true
	case dialect.QuoteNonNumeric:
		quote = !(kind == kindNumber || isNumeric(value)) || p.needsQuotes(value, first)
	default:
		quote = p.needsQuotes(value, first)
	}

	if quote {
		return p.writeQuoted(value)
	}
	_, err := p.w.WriteString(value)
	return err
}

// needsQuotes reports whether a value would not read back unchanged when
// printed as is.
func (p *Printer) needsQuotes(value string, first bool) bool {
	f := p.format
	if value == "" {
		// An empty first field would read as an empty line.
		return first
	}

	lead, _ := utf8.DecodeRuneInString(value)
	if first && f.IsCommentMarkerSet() && lead == f.CommentMarker() {
		return true
	}
	trail, _ := utf8.DecodeLastRuneInString(value)
	if unicode.IsSpace(lead) || unicode.IsSpace(trail) {
		return true
	}

	for _, c := range value {
		switch {
		case c == '\r' || c == '\n':
			return true
		case c == p.delimiter[0]:
			return true
		case c == f.Quote():
			return true
		case f.IsEscapeSet() && c == f.Escape():
			return true
		}
	}
	return false
}

// writeQuoted encloses value in quote characters. Embedded quotes are
// doubled, as are escape characters so they are not read as escapes.
func (p *Printer) writeQuoted(value string) error {
	f := p.format
	quote := f.Quote()
	escape := f.Escape()

	p.w.WriteRune(quote)
	for _, c := range value {
		switch {
		case c == quote:
			p.w.WriteRune(quote)
		case f.IsEscapeSet() && c == escape:
			p.w.WriteRune(escape)
		}
		p.w.WriteRune(c)
	}
	_, err := p.w.WriteRune(quote)
	return err
}

// writeEscaped prints value without quotes, escaping every character the
// lexer would otherwise interpret.
func (p *Printer) writeEscaped(value string, first bool) error {
	f := p.format
	escape := f.Escape()
	delimiter := f.Delimiter()

	runes := []rune(value)
	for i := 0; i < len(runes); i++ {
		c := runes[i]

		if c == p.delimiter[0] && strings.HasPrefix(string(runes[i:]), delimiter) {
			p.w.WriteRune(escape)
			p.w.WriteString(delimiter)
			i += len(p.delimiter) - 1
			continue
		}

		switch {
		case c == '\r':
			p.w.WriteRune(escape)
			p.w.WriteByte('r')
		case c == '\n':
			p.w.WriteRune(escape)
			p.w.WriteByte('n')
		case c == escape,
			f.IsQuoteSet() && c == f.Quote(),
			i == 0 && first && f.IsCommentMarkerSet() && c == f.CommentMarker():
			p.w.WriteRune(escape)
			p.w.WriteRune(c)
		default:
			p.w.WriteRune(c)
		}
	}

	// Surface any write error held by the buffer.
	_, err := p.w.Write(nil)
	return err
}

// isNumeric reports whether a string reads as a decimal number.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := decimal.NewFromString(s)
	return err == nil
}
