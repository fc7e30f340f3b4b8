package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"screenpilot/internal/output"
	"screenpilot/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "screenpilot",
	Short: "Find and interact with desktop UI elements",
	Long:  "A CLI tool that lets AI agents locate and interact with X11 desktop UI elements via AT-SPI accessibility with OCR fallback.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("display", "", "X display to target (default: the DISPLAY environment variable)")
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().Bool("no-ocr", false, "Disable the OCR fallback")
	rootCmd.PersistentFlags().Bool("no-atspi", false, "Disable the accessibility backend")
	rootCmd.PersistentFlags().Float64("min-confidence", 0, "Minimum OCR confidence 0-100 (default: 30)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		switch format {
		case "yaml":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		pretty, _ := rootCmd.PersistentFlags().GetBool("pretty")
		output.PrettyOutput = pretty
		return nil
	}
}
