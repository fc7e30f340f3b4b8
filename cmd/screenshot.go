package cmd

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"screenpilot/internal/annotate"
	"screenpilot/internal/locator"
	"screenpilot/internal/output"
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot [file]",
	Short: "Capture the screen to a PNG file",
	Long:  "Capture the screen, optionally downsampled and annotated with numbered element markers whose IDs are usable with 'click --id'.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScreenshot,
}

func init() {
	rootCmd.AddCommand(screenshotCmd)
	screenshotCmd.Flags().String("output", "screenshot.png", "Output file path")
	screenshotCmd.Flags().Bool("annotate", false, "Overlay numbered markers on interactive elements")
	screenshotCmd.Flags().Bool("full", false, "Keep the original resolution instead of downsampling")
	screenshotCmd.Flags().String("app", "", "With --annotate, only mark elements of this application")
}

type screenshotResult struct {
	File     string `yaml:"file"               json:"file"`
	Width    int    `yaml:"width"              json:"width"`
	Height   int    `yaml:"height"             json:"height"`
	Marked   int    `yaml:"marked,omitempty"   json:"marked,omitempty"`
	CacheTTL string `yaml:"cache_ttl,omitempty" json:"cache_ttl,omitempty"`
}

func runScreenshot(cmd *cobra.Command, args []string) error {
	finder, provider, err := newFinder(cmd)
	if err != nil {
		return err
	}

	img, err := provider.Screen.Capture()
	if err != nil {
		return err
	}

	annotateFlag, _ := cmd.Flags().GetBool("annotate")
	full, _ := cmd.Flags().GetBool("full")
	app, _ := cmd.Flags().GetString("app")
	file, _ := cmd.Flags().GetString("output")
	if len(args) == 1 {
		file = args[0]
	}

	result := screenshotResult{File: file}

	out := img
	scale := 1.0
	if !full {
		out, scale = annotate.Downsample(img)
	}

	if annotateFlag {
		elements := finder.ListInteractive(app, true)
		out = annotate.Annotate(out, elements, scale)

		// Remember the numbered elements so click --id can use them.
		if w, h, err := provider.Screen.Size(); err == nil {
			elementCache.Store(elements, w, h)
		}
		result.Marked = len(elements)
		result.CacheTTL = locator.DefaultCacheTTL.String()
	}

	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("create %s: %w", file, err)
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", file, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	b := out.Bounds()
	result.Width = b.Dx()
	result.Height = b.Dy()
	return output.Print(result)
}
