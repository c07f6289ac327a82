package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "imgsquare",
	Short: "imgsquare - batch resize, square and convert the images in a folder",
	Long: "imgsquare downsizes every JPEG, PNG and WEBP image in a folder to a maximum size, " +
		"makes it square by stretching or padding with white, and writes it as JPG, PNG or WEBP.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML file with default settings")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, off)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
}
