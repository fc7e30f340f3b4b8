package cmd

import (
	"github.com/spf13/cobra"

	"screenpilot/internal/locator"
	"screenpilot/internal/platform"
)

// newProvider builds the platform provider honoring the root --display flag.
func newProvider(cmd *cobra.Command) (*platform.Provider, error) {
	display, _ := cmd.Root().PersistentFlags().GetString("display")
	return platform.NewProvider(display)
}

// newFinder builds a Finder over the provider honoring the backend flags.
func newFinder(cmd *cobra.Command) (*locator.Finder, *platform.Provider, error) {
	provider, err := newProvider(cmd)
	if err != nil {
		return nil, nil, err
	}
	cfg := locator.DefaultFinderConfig()
	if noOCR, _ := cmd.Root().PersistentFlags().GetBool("no-ocr"); noOCR {
		cfg.UseOCR = false
	}
	if noAX, _ := cmd.Root().PersistentFlags().GetBool("no-atspi"); noAX {
		cfg.UseAccessibility = false
	}
	if minConf, _ := cmd.Root().PersistentFlags().GetFloat64("min-confidence"); minConf > 0 {
		cfg.MinConfidence = minConf
	}
	return locator.NewFinder(provider, cfg), provider, nil
}

// queryFromFlags assembles a Query from the shared --name/--role/--app flags.
func queryFromFlags(cmd *cobra.Command) platform.Query {
	name, _ := cmd.Flags().GetString("name")
	role, _ := cmd.Flags().GetString("role")
	app, _ := cmd.Flags().GetString("app")
	return platform.Query{Name: name, Role: role, App: app}
}

// addQueryFlags registers the shared element-query flags on a command.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Match element name or description (partial, case-insensitive)")
	cmd.Flags().String("role", "", "Match element role, e.g. 'button', 'entry' (partial)")
	cmd.Flags().String("app", "", "Match owning application name (partial)")
}
