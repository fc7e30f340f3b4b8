package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"screenpilot/internal/locator"
	"screenpilot/internal/output"
	"screenpilot/internal/platform"
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for a UI condition to be met",
	Long:  "Poll the screen until an element appears, disappears, or stabilizes, or the timeout is reached.",
	RunE:  runWait,
}

func init() {
	rootCmd.AddCommand(waitCmd)
	addQueryFlags(waitCmd)
	waitCmd.Flags().String("text", "", "Wait for this text to appear on screen (OCR)")
	waitCmd.Flags().Bool("exact", false, "Require an exact text match instead of substring")
	waitCmd.Flags().Bool("case-sensitive", false, "Match text case-sensitively")
	waitCmd.Flags().Bool("gone", false, "Invert: wait until no element matches")
	waitCmd.Flags().StringSlice("any", nil, "Wait until any of these element names appears; reports which one")
	waitCmd.Flags().Bool("stable", false, "Wait until the element's bounds stop moving")
	waitCmd.Flags().Duration("stable-for", time.Second, "How long bounds must hold still with --stable")
	waitCmd.Flags().Bool("visible-only", true, "Only count visible elements as matches")
	waitCmd.Flags().Duration("timeout", locator.DefaultWaitTimeout, "Max time to wait")
	waitCmd.Flags().Duration("interval", locator.DefaultInitialPoll, "Initial polling interval (backs off to 2s)")
}

// validateWaitCondition rejects flag combinations with no single meaning:
// --text runs a pure-OCR wait, so pairing it with an element query would
// silently drop the query half.
func validateWaitCondition(q platform.Query, text string, anyNames []string) error {
	if text != "" && (q.Name != "" || q.Role != "" || q.App != "") {
		return fmt.Errorf("--text cannot be combined with --name, --role, or --app; use one or the other")
	}
	if text == "" && len(anyNames) == 0 && q.Name == "" && q.Role == "" && q.App == "" {
		return fmt.Errorf("specify a condition: --text, --any, --name, --role, or --app")
	}
	return nil
}

func runWait(cmd *cobra.Command, args []string) error {
	q := queryFromFlags(cmd)
	text, _ := cmd.Flags().GetString("text")
	exact, _ := cmd.Flags().GetBool("exact")
	caseSensitive, _ := cmd.Flags().GetBool("case-sensitive")
	gone, _ := cmd.Flags().GetBool("gone")
	stable, _ := cmd.Flags().GetBool("stable")
	stableFor, _ := cmd.Flags().GetDuration("stable-for")
	visibleOnly, _ := cmd.Flags().GetBool("visible-only")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	interval, _ := cmd.Flags().GetDuration("interval")
	anyNames, _ := cmd.Flags().GetStringSlice("any")

	if err := validateWaitCondition(q, text, anyNames); err != nil {
		return err
	}

	finder, _, err := newFinder(cmd)
	if err != nil {
		return err
	}

	waiter := locator.NewWaiter(finder, locator.WaiterConfig{
		Timeout:         timeout,
		InitialInterval: interval,
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var res *locator.WaitResult
	matched := -1
	switch {
	case gone && text != "":
		res, err = waiter.WaitUntilTextGone(ctx, text, exact, caseSensitive)
	case gone:
		res, err = waiter.WaitUntilGone(ctx, q)
	case stable:
		res, err = waiter.WaitForStable(ctx, q, stableFor)
	case len(anyNames) > 0:
		queries := make([]platform.Query, len(anyNames))
		for i, name := range anyNames {
			queries[i] = platform.Query{Name: name, Role: q.Role, App: q.App}
		}
		matched, res, err = waiter.WaitForAny(ctx, queries, visibleOnly)
	case text != "":
		res, err = waiter.WaitForText(ctx, text, exact, caseSensitive)
	default:
		res, err = waiter.WaitForElement(ctx, q, visibleOnly)
	}

	var timeoutErr *locator.TimeoutError
	if errors.As(err, &timeoutErr) {
		// Print the outcome, then return the error for a non-zero exit code.
		_ = output.Print(output.WaitOutcome{
			Found:     false,
			ElapsedMs: timeout.Milliseconds(),
			Error:     timeoutErr.Error(),
		})
		return err
	}
	if err != nil {
		return err
	}

	outcome := output.WaitOutcome{
		Found:     true,
		ElapsedMs: res.Elapsed.Milliseconds(),
		Polls:     res.Polls,
		Element:   res.Element,
	}
	if matched >= 0 {
		outcome.Matched = anyNames[matched]
	}
	return output.Print(outcome)
}
