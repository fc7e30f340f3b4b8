package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"screenpilot/internal/output"
	"screenpilot/internal/platform"
)

var ocrCmd = &cobra.Command{
	Use:   "ocr",
	Short: "Read all text on screen via OCR",
	RunE:  runOCR,
}

func init() {
	rootCmd.AddCommand(ocrCmd)
	ocrCmd.Flags().String("text", "", "Only report occurrences of this text")
	ocrCmd.Flags().String("regex", "", "Only report words matching this regular expression (case-insensitive)")
	ocrCmd.Flags().Bool("exact", false, "Require an exact match for --text")
	ocrCmd.Flags().Bool("case-sensitive", false, "Match --text case-sensitively")
}

type ocrResult struct {
	Count int             `yaml:"count" json:"count"`
	Words []platform.Word `yaml:"words" json:"words"`
}

func runOCR(cmd *cobra.Command, args []string) error {
	finder, _, err := newFinder(cmd)
	if err != nil {
		return err
	}

	text, _ := cmd.Flags().GetString("text")
	pattern, _ := cmd.Flags().GetString("regex")
	if pattern != "" {
		if text != "" {
			return fmt.Errorf("--regex cannot be combined with --text")
		}
		elements, err := finder.FindAllTextRegex(pattern, 0)
		if err != nil {
			return err
		}
		result := output.FindResult{
			Query:    fmt.Sprintf("regex=%q", pattern),
			Count:    len(elements),
			Elements: elements,
		}
		if err := output.Print(result); err != nil {
			return err
		}
		if result.Count == 0 {
			return fmt.Errorf("no text matching %q on screen", pattern)
		}
		return nil
	}
	if text != "" {
		exact, _ := cmd.Flags().GetBool("exact")
		caseSensitive, _ := cmd.Flags().GetBool("case-sensitive")
		elements := finder.FindAllText(text, exact, caseSensitive, 0)
		result := output.FindResult{
			Query:    fmt.Sprintf("text=%q", text),
			Count:    len(elements),
			Elements: elements,
		}
		if err := output.Print(result); err != nil {
			return err
		}
		if result.Count == 0 {
			return fmt.Errorf("text %q not found on screen", text)
		}
		return nil
	}

	words := finder.ReadWords()
	return output.Print(ocrResult{Count: len(words), Words: words})
}
