package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"

	"github.com/robinvdvleuten/csvdialect/dialect"
)

type CheckCmd struct {
	File     FileOrStdin   `help:"Input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Watch    bool          `help:"Check again whenever the file changes." short:"w"`
	Debounce time.Duration `help:"Quiet period before re-checking a changed file." default:"200ms"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}
	if cmd.Watch && cmd.File.IsStdin() {
		printError(ctx.Stderr, "--watch needs a file, not stdin")
		return NewCommandError(exitUsage)
	}

	f, err := resolveFormat(ctx, globals)
	if err != nil {
		return err
	}

	if !cmd.Watch {
		return cmd.check(context.Background(), ctx, globals, f)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_ = cmd.check(runCtx, ctx, globals, f)
	return cmd.watch(runCtx, ctx, globals, f)
}

// check parses the input once and reports the outcome.
func (cmd *CheckCmd) check(runCtx context.Context, ctx *kong.Context, globals *Globals, f *dialect.Format) error {
	runCtx, report := startTelemetry(runCtx, globals, ctx.Stderr, fmt.Sprintf("check %s", cmd.File.DisplayName()))
	defer report()

	source, err := cmd.File.Reload()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	doc, err := readDocument(runCtx, f, cmd.File.Filename, source)
	if err != nil {
		report()
		return reportParseError(ctx, source, err)
	}

	noun := "records"
	if len(doc.records) == 1 {
		noun = "record"
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Check passed: %s %s", humanize.Comma(int64(len(doc.records))), noun))
	return nil
}

// watch re-checks the file after it changes until ctx is done. The parent
// directory is watched because editors often replace files on save.
func (cmd *CheckCmd) watch(runCtx context.Context, ctx *kong.Context, globals *Globals, f *dialect.Format) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	path := cmd.File.GetAbsoluteFilename()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	printInfof(ctx.Stdout, "Watching %s", pathStyle.Render(cmd.File.Filename))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-runCtx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			log.Debugf("change: %s", event)
			if timer == nil {
				timer = time.NewTimer(cmd.Debounce)
			} else {
				timer.Reset(cmd.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			log.Infof("re-checking %s", path)
			_ = cmd.check(runCtx, ctx, globals, f)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watcher: %s", err)
		}
	}
}
