package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"screenpilot/internal/output"
)

var windowsCmd = &cobra.Command{
	Use:   "windows [pattern]",
	Short: "List windows, optionally filtered by title pattern",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWindows,
}

var focusCmd = &cobra.Command{
	Use:   "focus <pattern>",
	Short: "Focus the first window whose title matches a pattern",
	Args:  cobra.ExactArgs(1),
	RunE:  runFocus,
}

var activeCmd = &cobra.Command{
	Use:   "active",
	Short: "Show the currently focused window",
	RunE:  runActive,
}

func init() {
	rootCmd.AddCommand(windowsCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(activeCmd)
}

func runWindows(cmd *cobra.Command, args []string) error {
	provider, err := newProvider(cmd)
	if err != nil {
		return err
	}
	var result output.WindowsResult
	if len(args) == 1 {
		result.Windows, err = provider.Windows.FindWindows(args[0])
	} else {
		result.Windows, err = provider.Windows.ListWindows()
	}
	if err != nil {
		return err
	}
	result.Count = len(result.Windows)
	return output.Print(result)
}

func runFocus(cmd *cobra.Command, args []string) error {
	provider, err := newProvider(cmd)
	if err != nil {
		return err
	}
	id, err := provider.Windows.FocusWindow(args[0])
	if err != nil {
		return err
	}
	return output.Print(output.ActionResult{Action: fmt.Sprintf("focus window %s", id), OK: true})
}

func runActive(cmd *cobra.Command, args []string) error {
	provider, err := newProvider(cmd)
	if err != nil {
		return err
	}
	win, err := provider.Windows.ActiveWindow()
	if err != nil {
		return err
	}
	return output.Print(win)
}
