package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"screenpilot/internal/locator"
	"screenpilot/internal/output"
	"screenpilot/internal/platform"
)

// elementCache holds the IDs assigned by the most recent enumeration
// (screenshot --annotate, MCP tools). Process-local: IDs are only valid
// within a serve session.
var elementCache = locator.NewCache(0)

var clickCmd = &cobra.Command{
	Use:   "click [x y]",
	Short: "Click at coordinates, on a cached element ID, or on a found element",
	Long:  "Click at explicit coordinates, at the center of a cached element (--id), or at the center of the first element matching a query.",
	Args:  cobra.MaximumNArgs(2),
	RunE:  runClick,
}

func init() {
	rootCmd.AddCommand(clickCmd)
	addQueryFlags(clickCmd)
	clickCmd.Flags().Int("id", 0, "Click the element with this cached ID")
	clickCmd.Flags().String("button", "left", "Mouse button: left, right, middle")
	clickCmd.Flags().Bool("double", false, "Double-click")
	clickCmd.Flags().Bool("visible-only", true, "Only consider visible elements")
}

func runClick(cmd *cobra.Command, args []string) error {
	finder, provider, err := newFinder(cmd)
	if err != nil {
		return err
	}

	buttonStr, _ := cmd.Flags().GetString("button")
	button, err := platform.ParseMouseButton(buttonStr)
	if err != nil {
		return err
	}
	double, _ := cmd.Flags().GetBool("double")

	x, y, via, err := resolveClickTarget(cmd, args, finder, provider)
	if err != nil {
		return err
	}

	if err := provider.Inputter.Click(x, y, button, double); err != nil {
		return err
	}
	return output.Print(output.ActionResult{Action: "click", X: x, Y: y, Via: via, OK: true})
}

// resolveClickTarget picks the click point: explicit coordinates win, then
// a cached ID, then a fresh element query.
func resolveClickTarget(cmd *cobra.Command, args []string, finder *locator.Finder, provider *platform.Provider) (int, int, string, error) {
	if len(args) == 2 {
		x, err1 := strconv.Atoi(args[0])
		y, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil {
			return 0, 0, "", fmt.Errorf("coordinates must be integers: %s %s", args[0], args[1])
		}
		return x, y, "coordinates", nil
	}
	if len(args) == 1 {
		return 0, 0, "", fmt.Errorf("click needs both x and y coordinates")
	}

	if id, _ := cmd.Flags().GetInt("id"); id > 0 {
		// Cached geometry is untrustworthy after a resolution change.
		if w, h, err := provider.Screen.Size(); err == nil {
			elementCache.CheckScreenSize(w, h)
		}
		el, ok := elementCache.Get(id)
		if !ok {
			return 0, 0, "", fmt.Errorf("no cached element with id %d (cache expires after %s; re-run screenshot --annotate)", id, locator.DefaultCacheTTL)
		}
		x, y := el.Center()
		return x, y, fmt.Sprintf("cached id %d", id), nil
	}

	q := queryFromFlags(cmd)
	if q.Name == "" && q.Role == "" && q.App == "" {
		return 0, 0, "", fmt.Errorf("specify coordinates, --id, or a query (--name/--role/--app)")
	}
	visibleOnly, _ := cmd.Flags().GetBool("visible-only")
	el := finder.Find(q, visibleOnly)
	if el == nil {
		return 0, 0, "", fmt.Errorf("no element matching %s", q.Describe())
	}
	x, y := el.Center()
	return x, y, q.Describe(), nil
}
