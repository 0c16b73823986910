package parser

import (
	"bufio"
	"errors"
	"io"
)

const (
	// eof is returned once the source is exhausted.
	eof rune = -1
	// undefined is the "last character" before anything was read.
	undefined rune = -2
)

// charReader reads characters from a source one at a time with a small
// lookahead window. It counts characters and line terminators as they are
// consumed; peeked characters are not counted until read.
type charReader struct {
	src    *bufio.Reader
	closer io.Closer

	ahead []rune // peeked, not yet consumed
	last  rune   // last consumed character

	pos      int64 // characters consumed
	eolCount int64 // line terminators consumed; "\r\n" counts once
	column   int   // 1-indexed column of the next character
}

func newCharReader(r io.Reader) *charReader {
	cr := &charReader{
		last:   undefined,
		column: 1,
	}
	if br, ok := r.(*bufio.Reader); ok {
		cr.src = br
	} else {
		cr.src = bufio.NewReader(r)
	}
	if c, ok := r.(io.Closer); ok {
		cr.closer = c
	}
	return cr
}

// fill makes sure at least n characters are buffered, unless the source ends
// first. The end of the source is recorded as a trailing eof.
func (r *charReader) fill(n int) error {
	for len(r.ahead) < n {
		if len(r.ahead) > 0 && r.ahead[len(r.ahead)-1] == eof {
			return nil
		}
		ch, _, err := r.src.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.ahead = append(r.ahead, eof)
				return nil
			}
			return err
		}
		// Invalid UTF-8 surfaces as utf8.RuneError in field content.
		r.ahead = append(r.ahead, ch)
	}
	return nil
}

// read consumes and returns the next character, or eof.
func (r *charReader) read() (rune, error) {
	if err := r.fill(1); err != nil {
		return eof, err
	}
	ch := r.ahead[0]
	if ch != eof {
		r.ahead = r.ahead[1:]
		r.pos++
		if ch == '\r' || (ch == '\n' && r.last != '\r') {
			r.eolCount++
		}
		if ch == '\r' || ch == '\n' {
			r.column = 1
		} else {
			r.column++
		}
	}
	r.last = ch
	return ch, nil
}

// peek returns the next character without consuming it.
func (r *charReader) peek() (rune, error) {
	if err := r.fill(1); err != nil {
		return eof, err
	}
	return r.ahead[0], nil
}

// peekN returns up to n upcoming characters without consuming them. Fewer
// are returned when the source ends; the trailing eof is not included.
func (r *charReader) peekN(n int) ([]rune, error) {
	if err := r.fill(n); err != nil {
		return nil, err
	}
	window := r.ahead
	if len(window) > n {
		window = window[:n]
	}
	if len(window) > 0 && window[len(window)-1] == eof {
		window = window[:len(window)-1]
	}
	return window, nil
}

// skip consumes n characters that were already peeked.
func (r *charReader) skip(n int) error {
	for i := 0; i < n; i++ {
		if _, err := r.read(); err != nil {
			return err
		}
	}
	return nil
}

// lineNumber returns the number of the line being read. At a line boundary
// it is the number of completed lines.
func (r *charReader) lineNumber() int64 {
	switch r.last {
	case '\r', '\n', undefined, eof:
		return r.eolCount
	}
	return r.eolCount + 1
}

func (r *charReader) close() error {
	if r.closer == nil {
		return nil
	}
	c := r.closer
	r.closer = nil
	return c.Close()
}
