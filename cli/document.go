package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/csvdialect/dialect"
	"github.com/robinvdvleuten/csvdialect/parser"
)

// document is a fully parsed input.
type document struct {
	header  []string
	records []*parser.Record

	headerComment     string
	hasHeaderComment  bool
	trailerComment    string
	hasTrailerComment bool
}

// readDocument parses source completely.
func readDocument(ctx context.Context, f *dialect.Format, filename string, source []byte) (*document, error) {
	p, err := parser.New(bytes.NewReader(source), f, parser.WithFilename(filename))
	if err != nil {
		return nil, err
	}
	defer p.Close()

	records, err := p.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	doc := &document{
		header:  p.HeaderNames(),
		records: records,
	}
	doc.headerComment, doc.hasHeaderComment = p.HeaderComment()
	doc.trailerComment, doc.hasTrailerComment = p.TrailerComment()
	return doc, nil
}

// resolveFormat builds the input dialect from the global flags. A bad
// dialect is reported on stderr.
func resolveFormat(ctx *kong.Context, globals *Globals) (*dialect.Format, error) {
	f, err := globals.Format()
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return nil, NewCommandError(exitUsage)
	}
	log.Debugf("input dialect: %s", f)
	return f, nil
}

// reportParseError renders a parse failure with source context on stderr.
func reportParseError(ctx *kong.Context, source []byte, err error) error {
	rendered := NewErrorRenderer(source).Render(err)
	if !strings.HasSuffix(rendered, "\n") {
		rendered += "\n"
	}
	_, _ = fmt.Fprintln(ctx.Stderr, rendered)
	printError(ctx.Stderr, "parse error")
	return NewCommandError(exitInvalid)
}
