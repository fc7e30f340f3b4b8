package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"screenpilot/internal/output"
)

var typeCmd = &cobra.Command{
	Use:   "type <text>",
	Short: "Type text into the focused element",
	Args:  cobra.ExactArgs(1),
	RunE:  runType,
}

var keyCmd = &cobra.Command{
	Use:   "key <combo>",
	Short: "Press a key or key combination",
	Long:  "Press a key chord in xdotool syntax, e.g. 'Return', 'ctrl+s', 'ctrl+shift+t'.",
	Args:  cobra.ExactArgs(1),
	RunE:  runKey,
}

func init() {
	rootCmd.AddCommand(typeCmd)
	rootCmd.AddCommand(keyCmd)
	typeCmd.Flags().Int("delay", 12, "Per-character delay in milliseconds")
	typeCmd.Flags().Bool("enter", false, "Press Return after typing")
}

func runType(cmd *cobra.Command, args []string) error {
	provider, err := newProvider(cmd)
	if err != nil {
		return err
	}
	text := args[0]
	if text == "" {
		return fmt.Errorf("nothing to type")
	}
	delay, _ := cmd.Flags().GetInt("delay")
	if err := provider.Inputter.TypeText(text, delay); err != nil {
		return err
	}
	if enter, _ := cmd.Flags().GetBool("enter"); enter {
		if err := provider.Inputter.KeyCombo("Return"); err != nil {
			return err
		}
	}
	return output.Print(output.ActionResult{Action: "type", OK: true})
}

func runKey(cmd *cobra.Command, args []string) error {
	provider, err := newProvider(cmd)
	if err != nil {
		return err
	}
	if err := provider.Inputter.KeyCombo(args[0]); err != nil {
		return err
	}
	return output.Print(output.ActionResult{Action: "key", OK: true})
}
