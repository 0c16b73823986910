package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/csvdialect/dialect"
	"github.com/robinvdvleuten/csvdialect/printer"
)

type FormatCmd struct {
	File   FileOrStdin `help:"Input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	To     string      `help:"Target dialect preset (defaults to the input dialect)."`
	ToFile string      `help:"TOML or YAML dialect file describing the target dialect." type:"existingfile"`
	Write  bool        `help:"Overwrite the input file instead of printing to stdout." short:"w"`
	Yes    bool        `help:"Overwrite without asking for confirmation." short:"y"`
}

func (cmd *FormatCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}
	if cmd.Write && cmd.File.IsStdin() {
		printError(ctx.Stderr, "--write needs a file, not stdin")
		return NewCommandError(exitUsage)
	}

	input, err := resolveFormat(ctx, globals)
	if err != nil {
		return err
	}
	target, err := cmd.target(input)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(exitUsage)
	}

	runCtx, report := startTelemetry(context.Background(), globals, ctx.Stderr, "format")
	defer report()

	source, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	doc, err := readDocument(runCtx, input, cmd.File.Filename, source)
	if err != nil {
		report()
		return reportParseError(ctx, source, err)
	}

	var buf bytes.Buffer
	if err := printDocument(runCtx, &buf, target, doc); err != nil {
		return err
	}

	if !cmd.Write {
		_, err := ctx.Stdout.Write(buf.Bytes())
		return err
	}

	if bytes.Equal(buf.Bytes(), source) {
		printInfof(ctx.Stdout, "%s is already formatted", pathStyle.Render(cmd.File.Filename))
		return nil
	}

	if !cmd.Yes {
		confirmed, err := promptYesNo(fmt.Sprintf("Overwrite %s?", cmd.File.Filename))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			printError(ctx.Stderr, "not overwriting without confirmation (use --yes)")
			return NewCommandError(exitUsage)
		}
	}

	info, err := os.Stat(cmd.File.Filename)
	if err != nil {
		return fmt.Errorf("failed to access file: %w", err)
	}
	if err := os.WriteFile(cmd.File.Filename, buf.Bytes(), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	log.Infof("rewrote %s (%d records)", cmd.File.Filename, len(doc.records))
	printSuccess(ctx.Stdout, fmt.Sprintf("Formatted %s", pathStyle.Render(cmd.File.Filename)))

	return nil
}

// target resolves the output dialect. Without --to or --to-file the input
// dialect is kept.
func (cmd *FormatCmd) target(input *dialect.Format) (*dialect.Format, error) {
	switch {
	case cmd.ToFile != "":
		return dialect.LoadFile(cmd.ToFile)
	case cmd.To != "":
		f, ok := dialect.Lookup(cmd.To)
		if !ok {
			return nil, fmt.Errorf("unknown dialect %q (known: %s)", cmd.To, dialect.PresetList())
		}
		return f, nil
	default:
		return input, nil
	}
}

// printDocument prints a parsed document in the target dialect. The input
// header is carried over unless the target defines its own, and comments are
// kept when the target has a comment marker.
func printDocument(ctx context.Context, w io.Writer, target *dialect.Format, doc *document) error {
	var opts []dialect.Option
	if len(doc.header) > 0 && (!target.HasHeader() || target.IsHeaderAuto()) {
		opts = append(opts, dialect.WithHeader(doc.header...), dialect.WithSkipHeaderRecord(false))
	}
	if doc.hasHeaderComment && target.IsCommentMarkerSet() && len(target.HeaderComments()) == 0 {
		opts = append(opts, dialect.WithHeaderComments(doc.headerComment))
	}
	if len(opts) > 0 {
		var err error
		if target, err = target.With(opts...); err != nil {
			return err
		}
	}

	p, err := printer.New(w, target)
	if err != nil {
		return err
	}
	defer p.Close(false)

	if err := p.PrintParsedRecords(ctx, doc.records); err != nil {
		return err
	}
	if doc.hasTrailerComment {
		if err := p.PrintComment(doc.trailerComment); err != nil {
			return err
		}
	}
	return p.Close(true)
}
