package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"screenpilot/internal/locator"
	"screenpilot/internal/model"
	"screenpilot/internal/output"
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Find UI elements matching a query",
	Long:  "Search the accessibility tree (with OCR fallback for --name) for elements matching the given criteria.",
	RunE:  runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
	addQueryFlags(findCmd)
	findCmd.Flags().String("text", "", "Find text on screen via OCR only, skipping the accessibility tree")
	findCmd.Flags().String("regex", "", "Find text matching this regular expression via OCR (case-insensitive, word-level)")
	findCmd.Flags().Bool("exact", false, "Require an exact match for --text")
	findCmd.Flags().Bool("case-sensitive", false, "Match --text case-sensitively")
	findCmd.Flags().Bool("all", false, "Return all matches instead of the first")
	findCmd.Flags().Bool("visible-only", true, "Only visible elements")
	findCmd.Flags().Bool("clickable-only", false, "Only elements exposing a click action")
	findCmd.Flags().Int("max-results", 0, "Cap the number of results (default: 50)")
	findCmd.Flags().Bool("interactive", false, "List interactive elements (buttons, links, inputs)")
}

func runFind(cmd *cobra.Command, args []string) error {
	finder, _, err := newFinder(cmd)
	if err != nil {
		return err
	}

	q := queryFromFlags(cmd)
	all, _ := cmd.Flags().GetBool("all")
	visibleOnly, _ := cmd.Flags().GetBool("visible-only")
	clickableOnly, _ := cmd.Flags().GetBool("clickable-only")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	interactive, _ := cmd.Flags().GetBool("interactive")

	if interactive {
		elements := finder.ListInteractive(q.App, visibleOnly)
		return output.Print(output.FindResult{
			Query:    "interactive elements",
			Count:    len(elements),
			Elements: elements,
		})
	}

	if pattern, _ := cmd.Flags().GetString("regex"); pattern != "" {
		if text, _ := cmd.Flags().GetString("text"); text != "" {
			return fmt.Errorf("--regex cannot be combined with --text")
		}
		result := output.FindResult{Query: fmt.Sprintf("regex=%q", pattern)}
		if all || maxResults > 0 {
			result.Elements, err = finder.FindAllTextRegex(pattern, maxResults)
		} else {
			var el *model.Element
			el, err = finder.FindTextRegex(pattern)
			if el != nil {
				result.Elements = append(result.Elements, *el)
			}
		}
		if err != nil {
			return err
		}
		result.Count = len(result.Elements)
		if err := output.Print(result); err != nil {
			return err
		}
		if result.Count == 0 {
			return fmt.Errorf("no text matching %q on screen", pattern)
		}
		return nil
	}

	if text, _ := cmd.Flags().GetString("text"); text != "" {
		exact, _ := cmd.Flags().GetBool("exact")
		caseSensitive, _ := cmd.Flags().GetBool("case-sensitive")
		result := output.FindResult{Query: fmt.Sprintf("text=%q", text)}
		if all || maxResults > 0 {
			result.Elements = finder.FindAllText(text, exact, caseSensitive, maxResults)
		} else if el := finder.FindText(text, exact, caseSensitive); el != nil {
			result.Elements = append(result.Elements, *el)
		}
		result.Count = len(result.Elements)
		if err := output.Print(result); err != nil {
			return err
		}
		if result.Count == 0 {
			return fmt.Errorf("text %q not found on screen", text)
		}
		return nil
	}

	if q.Name == "" && q.Role == "" && q.App == "" {
		return fmt.Errorf("specify at least one of --name, --role, --app, or --text")
	}

	result := output.FindResult{Query: q.Describe()}
	if all || clickableOnly || maxResults > 0 {
		result.Elements = finder.FindAll(q, locator.FindAllOptions{
			VisibleOnly:   visibleOnly,
			ClickableOnly: clickableOnly,
			MaxResults:    maxResults,
		})
	} else if el := finder.Find(q, visibleOnly); el != nil {
		result.Elements = append(result.Elements, *el)
	}
	result.Count = len(result.Elements)

	if err := output.Print(result); err != nil {
		return err
	}
	if result.Count == 0 {
		return fmt.Errorf("no element matching %s", q.Describe())
	}
	return nil
}
