package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"imgsquare/internal/processor"
	"imgsquare/internal/tui"
)

var convertNoTUI bool

var convertCmd = &cobra.Command{
	Use:   "convert [flags] <folder>",
	Short: "Resize, square and convert every image in a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]

		settings, err := resolveSettings(cmd)
		if err != nil {
			return err
		}

		logger, err := newLogger(settings.LogLevel, logFile)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		opts := processor.Options{
			Transform: settings.Transform(),
			Overwrite: settings.Overwrite,
			Logger:    logger,
		}
		logger.Infow("starting run", "dir", dir, "format", settings.Format, "max", settings.MaxDimension,
			"overwrite", settings.Overwrite, "square", settings.Square)

		out := cmd.OutOrStdout()
		var summary processor.Summary
		if convertNoTUI {
			summary, err = processor.Run(ctx, dir, opts, printProgress(out))
		} else {
			summary, err = runWithTUI(ctx, cancel, dir, opts)
		}

		stopped := errors.Is(err, context.Canceled)
		if err != nil && !stopped {
			return err
		}

		if summary.NothingToDo() {
			fmt.Fprintf(out, "No supported images (.jpg, .jpeg, .png, .webp) found in %s\n", dir)
			return nil
		}

		fmt.Fprintln(out, tui.RenderSummary(tui.SummaryRows(summary)))
		if failures := tui.RenderFailures(summary.Failures); failures != "" {
			fmt.Fprintln(out, failures)
		}
		if stopped {
			fmt.Fprintln(out, "Stopped before all files were processed; files already written were kept.")
		}

		if settings.Overwrite {
			fmt.Fprintln(out, "Images converted in place.")
		} else {
			outPath := filepath.Join(dir, processor.OutputDirName)
			if abs, absErr := filepath.Abs(outPath); absErr == nil {
				outPath = abs
			}
			fmt.Fprintf(out, "Converted images written to: %s\n", outPath)
		}

		return nil
	},
}

// runWithTUI runs the batch on the calling goroutine while a bubbletea
// program renders each progress notification.
func runWithTUI(ctx context.Context, cancel func(), dir string, opts processor.Options) (processor.Summary, error) {
	updates := make(chan processor.Progress, 64)
	model := tui.NewModel(updates, cancel)
	program := tea.NewProgram(model)

	uiDone := make(chan struct{})
	go func() {
		defer close(uiDone)
		if _, err := program.Run(); err != nil {
			opts.Logger.Warnw("progress view stopped", "error", err)
		}
		// Keep the batch from blocking if the view exits early.
		for range updates {
		}
	}()

	summary, err := processor.Run(ctx, dir, opts, func(p processor.Progress) {
		updates <- p
	})

	close(updates)
	<-uiDone
	return summary, err
}

func printProgress(w io.Writer) processor.ProgressFunc {
	return func(p processor.Progress) {
		switch p.Task.Outcome {
		case processor.Failed:
			fmt.Fprintf(w, "[%d/%d] %s\n", p.Index, p.Total, tui.FailureLine(p.Task))
		default:
			fmt.Fprintf(w, "[%d/%d] %s -> %s\n", p.Index, p.Total, filepath.Base(p.Task.Source), p.Task.Output)
		}
		if p.Task.Warning != nil {
			fmt.Fprintf(w, "[%d/%d] %s\n", p.Index, p.Total, tui.WarningLine(p.Task))
		}
	}
}

func init() {
	addSettingsFlags(convertCmd)
	convertCmd.Flags().BoolVar(&convertNoTUI, "no-tui", false, "print one line per file instead of the progress view")

	rootCmd.AddCommand(convertCmd)
}
