package cli

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/csvdialect/parser"
)

// DoctorCmd provides doctor utilities for debugging delimited files.
type DoctorCmd struct {
	Lex LexCmd `cmd:"" help:"Show lexical tokens from a delimited file."`
}

// LexCmd shows lexical tokens from a delimited file.
type LexCmd struct {
	File FileOrStdin `help:"Input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

// Run executes the lex command.
func (cmd *LexCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	f, err := resolveFormat(ctx, globals)
	if err != nil {
		return err
	}

	content, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	// Tokens scanned before an error are still shown.
	lexer := parser.NewLexer(bytes.NewReader(content), f, cmd.File.Filename)
	tokens, err := lexer.ScanAll()

	// Format: TYPE line:col flags "content"
	for _, token := range tokens {
		flags := "-"
		switch {
		case token.Quoted && token.Ready:
			flags = "quoted,ready"
		case token.Quoted:
			flags = "quoted"
		case token.Ready:
			flags = "ready"
		}

		_, _ = fmt.Fprintf(ctx.Stdout, "%-6s %d:%d    %-12s %q\n",
			token.Type.String(),
			token.Pos.Line,
			token.Pos.Column,
			flags,
			token.Content)

		if token.HasComment {
			_, _ = fmt.Fprintf(ctx.Stdout, "       comment %q\n", token.Comment)
		}
	}

	if err != nil {
		return reportParseError(ctx, content, err)
	}
	return nil
}
