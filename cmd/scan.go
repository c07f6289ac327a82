package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"imgsquare/internal/processor"
	"imgsquare/internal/transform"
	"imgsquare/internal/tui"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] <folder>",
	Short: "Show what convert would do without writing anything",
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

		entries, err := processor.Plan(context.Background(), dir, processor.Options{
			Transform: settings.Transform(),
			Overwrite: settings.Overwrite,
			Logger:    logger,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintf(out, "No supported images (.jpg, .jpeg, .png, .webp) found in %s\n", dir)
			return nil
		}

		for i, entry := range entries {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s\n", scanFileStyle.Render(filepath.Base(entry.Source)))
			if entry.Err != nil {
				fmt.Fprintf(out, "  %s %s\n", scanBulletStyle.Render("-"), scanErrorStyle.Render(entry.Err.Error()))
				continue
			}

			fmt.Fprintf(out, "  %s %s\n", scanBulletStyle.Render("-"),
				scanValueStyle.Render(fmt.Sprintf("%s %dx%d -> %s %dx%d (%s)",
					entry.Kind, entry.Width, entry.Height,
					settings.Format, entry.OutWidth, entry.OutHeight, describeStrategy(entry.Strategy))))
			fmt.Fprintf(out, "  %s %s\n", scanBulletStyle.Render("-"), scanDimStyle.Render(entry.Output))

			if len(entry.Dropped) == 0 {
				continue
			}
			fmt.Fprintf(out, "  %s\n", scanCategoryStyle.Render("Dropped on save:"))
			for _, value := range entry.Dropped {
				fmt.Fprintf(out, "    %s %s\n", scanBulletStyle.Render("-"), scanValueStyle.Render(value))
			}
		}

		return nil
	},
}

func describeStrategy(mode transform.SquareMode) string {
	switch mode {
	case transform.SquareStretch:
		return "stretched to square"
	case transform.SquarePad:
		return "padded to square"
	default:
		return "no squaring"
	}
}

var (
	scanFileStyle     = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	scanCategoryStyle = lipgloss.NewStyle().Foreground(tui.ColorAccentAlt)
	scanValueStyle    = lipgloss.NewStyle().Foreground(tui.ColorInk)
	scanDimStyle      = lipgloss.NewStyle().Foreground(tui.ColorDim)
	scanBulletStyle   = lipgloss.NewStyle().Foreground(tui.ColorDim)
	scanErrorStyle    = lipgloss.NewStyle().Foreground(tui.ColorError)
)

func init() {
	addSettingsFlags(scanCmd)

	rootCmd.AddCommand(scanCmd)
}
