package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"screenpilot/internal/output"
	"screenpilot/internal/platform"
)

var moveCmd = &cobra.Command{
	Use:   "move <x> <y>",
	Short: "Move the mouse pointer",
	Args:  cobra.ExactArgs(2),
	RunE:  runMove,
}

var dragCmd = &cobra.Command{
	Use:   "drag <from-x> <from-y> <to-x> <to-y>",
	Short: "Drag from one point to another",
	Args:  cobra.ExactArgs(4),
	RunE:  runDrag,
}

var scrollCmd = &cobra.Command{
	Use:   "scroll",
	Short: "Scroll at a position",
	Long:  "Scroll at the given position (or the current pointer position). Positive --dy scrolls down, positive --dx scrolls right.",
	RunE:  runScroll,
}

func init() {
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(dragCmd)
	rootCmd.AddCommand(scrollCmd)
	dragCmd.Flags().String("button", "left", "Mouse button to hold: left, right, middle")
	scrollCmd.Flags().Int("x", -1, "X position (default: current pointer)")
	scrollCmd.Flags().Int("y", -1, "Y position (default: current pointer)")
	scrollCmd.Flags().Int("dx", 0, "Horizontal scroll amount")
	scrollCmd.Flags().Int("dy", 0, "Vertical scroll amount")
}

func intArgs(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("expected integer, got %q", a)
		}
		out[i] = n
	}
	return out, nil
}

func runMove(cmd *cobra.Command, args []string) error {
	provider, err := newProvider(cmd)
	if err != nil {
		return err
	}
	coords, err := intArgs(args)
	if err != nil {
		return err
	}
	if err := provider.Inputter.MoveMouse(coords[0], coords[1]); err != nil {
		return err
	}
	return output.Print(output.ActionResult{Action: "move", X: coords[0], Y: coords[1], OK: true})
}

func runDrag(cmd *cobra.Command, args []string) error {
	provider, err := newProvider(cmd)
	if err != nil {
		return err
	}
	coords, err := intArgs(args)
	if err != nil {
		return err
	}
	buttonStr, _ := cmd.Flags().GetString("button")
	button, err := platform.ParseMouseButton(buttonStr)
	if err != nil {
		return err
	}
	if err := provider.Inputter.Drag(coords[0], coords[1], coords[2], coords[3], button); err != nil {
		return err
	}
	return output.Print(output.ActionResult{Action: "drag", X: coords[2], Y: coords[3], OK: true})
}

func runScroll(cmd *cobra.Command, args []string) error {
	provider, err := newProvider(cmd)
	if err != nil {
		return err
	}
	x, _ := cmd.Flags().GetInt("x")
	y, _ := cmd.Flags().GetInt("y")
	dx, _ := cmd.Flags().GetInt("dx")
	dy, _ := cmd.Flags().GetInt("dy")
	if dx == 0 && dy == 0 {
		return fmt.Errorf("specify --dx or --dy")
	}
	if x < 0 || y < 0 {
		cx, cy, err := provider.Windows.MousePosition()
		if err != nil {
			return fmt.Errorf("resolve pointer position: %w", err)
		}
		x, y = cx, cy
	}
	if err := provider.Inputter.Scroll(x, y, dx, dy); err != nil {
		return err
	}
	return output.Print(output.ActionResult{Action: "scroll", X: x, Y: y, OK: true})
}
