package parser

// Lexer implements a streaming, pull-based scanner for delimiter-separated text.
//
// The scanning approach:
// - One field per Token; the token type says what ended the field
// - One character of lookahead, widened to the delimiter width only while
//   confirming a multi-character delimiter
// - Comment lines are skipped in a loop and carried on the next token
// - Line and character counters advance as characters are consumed

import (
	"io"
	"strings"
	"unicode"

	"github.com/robinvdvleuten/csvdialect/dialect"
)

// Lexer tokenizes delimiter-separated text according to a dialect.
type Lexer struct {
	r        *charReader
	filename string // Filename for error reporting
	offset   int64  // Character offset of the source within a larger stream

	delimiter     []rune
	quote         rune
	escape        rune
	commentMarker rune

	ignoreSurroundingSpaces bool
	ignoreEmptyLines        bool

	lastWasDelimiter bool // previous token ended on a delimiter
	buf              strings.Builder
}

// NewLexer creates a lexer reading from r. The filename is only used in
// error positions and may be empty.
func NewLexer(r io.Reader, f *dialect.Format, filename string) *Lexer {
	l := &Lexer{
		r:                       newCharReader(r),
		filename:                filename,
		delimiter:               []rune(f.Delimiter()),
		quote:                   f.Quote(),
		escape:                  f.Escape(),
		commentMarker:           f.CommentMarker(),
		ignoreSurroundingSpaces: f.IgnoreSurroundingSpaces(),
		ignoreEmptyLines:        f.IgnoreEmptyLines(),
	}
	return l
}

// CurrentLineNumber returns the line being scanned. At a line boundary it
// is the number of completed lines.
func (l *Lexer) CurrentLineNumber() int64 {
	return l.r.lineNumber()
}

// CharacterPosition returns the offset of the next character, including the
// starting offset of the source.
func (l *Lexer) CharacterPosition() int64 {
	return l.offset + l.r.pos
}

// Close releases the source if it is an io.Closer. It is safe to call more
// than once.
func (l *Lexer) Close() error {
	return l.r.close()
}

// ScanAll lexes the remaining input and returns all tokens, ending with EOF.
func (l *Lexer) ScanAll() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// Next scans the next token.
func (l *Lexer) Next() (Token, error) {
	var tok Token
	var comments []string

	lastChar := l.r.last
	pos := l.mark()
	c, eol, err := l.readChar()
	if err != nil {
		return tok, err
	}

	for {
		// Skip blank lines: a line terminator right after another one (or
		// at the start of the input).
		if l.ignoreEmptyLines {
			for eol && isStartOfLine(lastChar) {
				lastChar = l.r.last
				pos = l.mark()
				if c, eol, err = l.readChar(); err != nil {
					return tok, err
				}
				if c == eof {
					return l.finish(tok, EOF, pos, comments), nil
				}
			}
		}

		if lastChar == eof || (!l.lastWasDelimiter && c == eof) {
			return l.finish(tok, EOF, pos, comments), nil
		}

		lineStart := isStartOfLine(lastChar)
		if l.ignoreSurroundingSpaces {
			if c, eol, err = l.skipSpaces(c, eol); err != nil {
				return tok, err
			}
		}

		if l.commentMarker != 0 && c == l.commentMarker && lineStart {
			line, err := l.readLine()
			if err != nil {
				return tok, err
			}
			comments = append(comments, strings.TrimSpace(line))

			lastChar = l.r.last
			pos = l.mark()
			if c, eol, err = l.readChar(); err != nil {
				return tok, err
			}
			continue
		}

		break
	}

	isDelim, err := l.matchDelimiter(c)
	if err != nil {
		return tok, err
	}

	switch {
	case isDelim:
		if err := l.skipDelimiterTail(); err != nil {
			return tok, err
		}
		return l.finish(tok, VALUE, pos, comments), nil

	case eol:
		return l.finish(tok, EOR, pos, comments), nil

	case l.quote != 0 && c == l.quote:
		typ, err := l.scanEncapsulated(&tok)
		if err != nil {
			return tok, err
		}
		tok.Ready = typ == EOF
		return l.finish(tok, typ, pos, comments), nil

	case c == eof:
		tok.Ready = true
		return l.finish(tok, EOF, pos, comments), nil

	default:
		typ, err := l.scanSimple(&tok, c)
		if err != nil {
			return tok, err
		}
		return l.finish(tok, typ, pos, comments), nil
	}
}

func (l *Lexer) finish(tok Token, typ TokenType, pos Position, comments []string) Token {
	tok.Type = typ
	tok.Pos = pos
	if len(comments) > 0 {
		tok.Comment = strings.Join(comments, "\n")
		tok.HasComment = true
	}
	l.lastWasDelimiter = typ == VALUE
	return tok
}

// scanSimple scans an unquoted field whose first character c has already
// been read.
func (l *Lexer) scanSimple(tok *Token, c rune) (TokenType, error) {
	l.buf.Reset()

	var typ TokenType
	for {
		if l.isEscape(c) {
			if err := l.appendEscaped(); err != nil {
				return EOF, err
			}
		} else {
			l.buf.WriteRune(c)
		}

		var eol bool
		var err error
		if c, eol, err = l.readChar(); err != nil {
			return EOF, err
		}
		if eol {
			typ = EOR
			break
		}
		if c == eof {
			typ = EOF
			tok.Ready = true
			break
		}
		isDelim, err := l.matchDelimiter(c)
		if err != nil {
			return EOF, err
		}
		if isDelim {
			if err := l.skipDelimiterTail(); err != nil {
				return EOF, err
			}
			typ = VALUE
			break
		}
	}

	tok.Content = l.buf.String()
	if l.ignoreSurroundingSpaces {
		tok.Content = strings.TrimRightFunc(tok.Content, unicode.IsSpace)
	}
	return typ, nil
}

// scanEncapsulated scans a quoted field. The opening quote has been read.
func (l *Lexer) scanEncapsulated(tok *Token) (TokenType, error) {
	tok.Quoted = true
	startLine := l.r.lineNumber()
	l.buf.Reset()

	for {
		c, err := l.r.read()
		if err != nil {
			return EOF, err
		}

		switch {
		case c == l.quote:
			next, err := l.r.peek()
			if err != nil {
				return EOF, err
			}
			if next == l.quote {
				// Doubled (or self-escaped) quote.
				if err := l.r.skip(1); err != nil {
					return EOF, err
				}
				l.buf.WriteRune(l.quote)
				continue
			}
			tok.Content = l.buf.String()
			return l.scanAfterQuote(startLine)

		case l.isEscape(c):
			if err := l.appendEscaped(); err != nil {
				return EOF, err
			}

		case c == eof:
			return EOF, newParseError(l.errorPos(), startLine, ErrUnterminatedQuote,
				"(field started at line %d)", startLine)

		default:
			l.buf.WriteRune(c)
		}
	}
}

// scanAfterQuote skips whitespace between a closing quote and whatever ends
// the field. Anything else there is malformed.
func (l *Lexer) scanAfterQuote(startLine int64) (TokenType, error) {
	for {
		c, eol, err := l.readChar()
		if err != nil {
			return EOF, err
		}
		isDelim, err := l.matchDelimiter(c)
		if err != nil {
			return EOF, err
		}
		switch {
		case isDelim:
			return VALUE, l.skipDelimiterTail()
		case c == eof:
			return EOF, nil
		case eol:
			return EOR, nil
		case !isWhitespace(c):
			return EOF, newParseError(l.errorPos(), startLine, ErrInvalidCharAfterQuote,
				"%q at line %d, position %d", c, l.r.lineNumber(), l.CharacterPosition())
		}
	}
}

// appendEscaped resolves the character sequence following an escape
// character and appends the result to the token buffer.
func (l *Lexer) appendEscaped() error {
	// An escaped delimiter is literal data, whatever its width.
	if ok, err := l.peekDelimiter(); err != nil {
		return err
	} else if ok {
		if err := l.r.skip(len(l.delimiter)); err != nil {
			return err
		}
		l.buf.WriteString(string(l.delimiter))
		return nil
	}

	startLine := l.r.lineNumber()
	c, err := l.r.read()
	if err != nil {
		return err
	}
	switch c {
	case 'r':
		l.buf.WriteByte('\r')
	case 'n':
		l.buf.WriteByte('\n')
	case 't':
		l.buf.WriteByte('\t')
	case 'b':
		l.buf.WriteByte('\b')
	case 'f':
		l.buf.WriteByte('\f')
	case '\r', '\n', '\t', '\b', '\f':
		l.buf.WriteRune(c)
	case eof:
		return newParseError(l.errorPos(), startLine, ErrUnterminatedEscape, "")
	default:
		if l.isMetaChar(c) {
			l.buf.WriteRune(c)
		} else {
			// Not an escape sequence: keep both characters.
			l.buf.WriteRune(l.escape)
			l.buf.WriteRune(c)
		}
	}
	return nil
}

// readLine consumes the rest of the physical line including its terminator
// and returns it without the terminator.
func (l *Lexer) readLine() (string, error) {
	l.buf.Reset()
	for {
		c, eol, err := l.readChar()
		if err != nil {
			return "", err
		}
		if eol || c == eof {
			return l.buf.String(), nil
		}
		l.buf.WriteRune(c)
	}
}

// readChar reads one character and reports whether it is a line terminator.
// "\r\n" is consumed as a single terminator.
func (l *Lexer) readChar() (rune, bool, error) {
	c, err := l.r.read()
	if err != nil {
		return eof, false, err
	}
	if c == '\r' {
		next, err := l.r.peek()
		if err != nil {
			return eof, false, err
		}
		if next == '\n' {
			if _, err := l.r.read(); err != nil {
				return eof, false, err
			}
		}
		return c, true, nil
	}
	return c, c == '\n', nil
}

// skipSpaces consumes leading whitespace up to the next delimiter, line
// end or other character, and returns the first one kept.
func (l *Lexer) skipSpaces(c rune, eol bool) (rune, bool, error) {
	for !eol && isWhitespace(c) {
		isDelim, err := l.matchDelimiter(c)
		if err != nil || isDelim {
			return c, eol, err
		}
		if c, eol, err = l.readChar(); err != nil {
			return c, eol, err
		}
	}
	return c, eol, nil
}

// matchDelimiter reports whether c, which has been read, starts a full
// delimiter. Nothing beyond c is consumed.
func (l *Lexer) matchDelimiter(c rune) (bool, error) {
	if c != l.delimiter[0] {
		return false, nil
	}
	if len(l.delimiter) == 1 {
		return true, nil
	}
	window, err := l.r.peekN(len(l.delimiter) - 1)
	if err != nil {
		return false, err
	}
	return runesEqual(window, l.delimiter[1:]), nil
}

// skipDelimiterTail consumes the rest of a delimiter confirmed by matchDelimiter.
func (l *Lexer) skipDelimiterTail() error {
	return l.r.skip(len(l.delimiter) - 1)
}

// peekDelimiter reports whether the upcoming characters form a full delimiter.
func (l *Lexer) peekDelimiter() (bool, error) {
	window, err := l.r.peekN(len(l.delimiter))
	if err != nil {
		return false, err
	}
	return runesEqual(window, l.delimiter), nil
}

// isEscape reports whether c starts an escape sequence. A quote character
// that doubles as the escape character is handled as quote doubling instead.
func (l *Lexer) isEscape(c rune) bool {
	return l.escape != 0 && c == l.escape && l.escape != l.quote
}

func (l *Lexer) isMetaChar(c rune) bool {
	return c == l.delimiter[0] ||
		(l.escape != 0 && c == l.escape) ||
		(l.quote != 0 && c == l.quote) ||
		(l.commentMarker != 0 && c == l.commentMarker)
}

// mark returns the position of the next character.
func (l *Lexer) mark() Position {
	return Position{
		Filename: l.filename,
		Offset:   l.CharacterPosition(),
		Line:     l.r.eolCount + 1,
		Column:   l.r.column,
	}
}

// errorPos returns the position of the last consumed character.
func (l *Lexer) errorPos() Position {
	line := l.r.eolCount + 1
	if l.r.last == '\r' || l.r.last == '\n' {
		line = l.r.eolCount
	}
	return Position{
		Filename: l.filename,
		Offset:   l.CharacterPosition(),
		Line:     line,
		Column:   max(l.r.column-1, 1),
	}
}

func isStartOfLine(c rune) bool {
	return c == '\n' || c == '\r' || c == undefined
}

func isWhitespace(c rune) bool {
	return c >= 0 && unicode.IsSpace(c)
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
