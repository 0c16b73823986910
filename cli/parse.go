package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"
)

type ParseCmd struct {
	File   FileOrStdin `help:"Input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Output string      `help:"Output format (values, json, repr)." enum:"values,json,repr" default:"values" short:"o"`
}

// parsedJSON is the document shape printed by --output=json and repr.
type parsedJSON struct {
	Header         []string     `json:"header,omitempty"`
	HeaderComment  *string      `json:"header_comment,omitempty"`
	Records        []recordJSON `json:"records"`
	TrailerComment *string      `json:"trailer_comment,omitempty"`
}

type recordJSON struct {
	Number   int64     `json:"number"`
	Position int64     `json:"position"`
	Comment  *string   `json:"comment,omitempty"`
	Values   []*string `json:"values"` // nil for null
}

func (cmd *ParseCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	f, err := resolveFormat(ctx, globals)
	if err != nil {
		return err
	}

	runCtx, report := startTelemetry(context.Background(), globals, ctx.Stderr, "parse")
	defer report()

	source, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	doc, err := readDocument(runCtx, f, cmd.File.Filename, source)
	if err != nil {
		report()
		return reportParseError(ctx, source, err)
	}

	switch cmd.Output {
	case "json":
		enc := json.NewEncoder(ctx.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(toParsedJSON(doc))
	case "repr":
		repr.New(ctx.Stdout, repr.Indent("  ")).Println(toParsedJSON(doc))
		return nil
	default:
		return writeValues(ctx.Stdout, doc)
	}
}

// writeValues prints one line per record, with the header and comments
// first.
func writeValues(w io.Writer, doc *document) error {
	if doc.hasHeaderComment {
		if _, err := fmt.Fprintf(w, "header comment: %q\n", doc.headerComment); err != nil {
			return err
		}
	}
	if len(doc.header) > 0 {
		if _, err := fmt.Fprintf(w, "header: %q\n", doc.header); err != nil {
			return err
		}
	}
	for _, rec := range doc.records {
		if _, err := fmt.Fprintln(w, rec); err != nil {
			return err
		}
	}
	if doc.hasTrailerComment {
		if _, err := fmt.Fprintf(w, "trailer comment: %q\n", doc.trailerComment); err != nil {
			return err
		}
	}
	return nil
}

func toParsedJSON(doc *document) parsedJSON {
	out := parsedJSON{
		Header:  doc.header,
		Records: make([]recordJSON, 0, len(doc.records)),
	}
	if doc.hasHeaderComment {
		out.HeaderComment = &doc.headerComment
	}
	if doc.hasTrailerComment {
		out.TrailerComment = &doc.trailerComment
	}

	for _, rec := range doc.records {
		r := recordJSON{
			Number:   rec.RecordNumber(),
			Position: rec.CharacterPosition(),
			Values:   make([]*string, rec.Len()),
		}
		if comment, ok := rec.Comment(); ok {
			r.Comment = &comment
		}
		for i, field := range rec.Fields() {
			if !field.Null {
				r.Values[i] = &field.Value
			}
		}
		out.Records = append(out.Records, r)
	}
	return out
}
