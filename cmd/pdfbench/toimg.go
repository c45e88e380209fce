package main

import (
	"github.com/spf13/cobra"

	"github.com/kpauljoseph/pdfbench/pkg/models"
)

var (
	toimgDPI    int
	toimgFormat string
	toimgPages  string
	toimgDir    string
)

var toimgCmd = &cobra.Command{
	Use:   "toimg [<input.pdf>...]",
	Short: "Render PDF pages to image files",
	Long: `Toimg renders each page of every input at the configured DPI, one image
file per page, named <source>-<page>.<ext>. Formats: png, jpeg, tiff.
--pages restricts rendering to a page-range expression like "1-3,5".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := collectInputs(cmd.Context(), args, toimgDir)
		if err != nil {
			return err
		}
		outDir := resolveOutputDir()

		dpi := toimgDPI
		if dpi == 0 {
			dpi = cfg.DPI
		}
		format := toimgFormat
		if format == "" {
			format = cfg.ImageFormat
		}

		items := make([]models.JobItem, 0, len(inputs))
		for _, input := range inputs {
			items = append(items, models.NewImageJob(input, outDir, dpi, format, toimgPages))
		}
		return runBatch(items)
	},
}

func init() {
	toimgCmd.Flags().IntVar(&toimgDPI, "dpi", 0, "render resolution in dots per inch (default from config, 200)")
	toimgCmd.Flags().StringVar(&toimgFormat, "format", "", "image format: png, jpeg or tiff (default from config, png)")
	toimgCmd.Flags().StringVar(&toimgPages, "pages", "", `render only these pages, e.g. "1-3,5" (default all)`)
	toimgCmd.Flags().StringVar(&toimgDir, "dir", "", "render every PDF found under this directory")

	rootCmd.AddCommand(toimgCmd)
}
