package main

import (
	"github.com/spf13/cobra"

	"github.com/kpauljoseph/pdfbench/pkg/models"
)

var splitPages string

var splitCmd = &cobra.Command{
	Use:   "split <input.pdf>...",
	Short: "Extract page ranges into new PDF files",
	Long: `Split extracts the pages selected by --pages from each input. Every
contiguous run of pages becomes its own output file: --pages "1-3,5,7-9"
produces three PDFs. The page numbers are validated against the actual
document, and the input file is never modified.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir := resolveOutputDir()

		items := make([]models.JobItem, 0, len(args))
		for _, input := range args {
			items = append(items, models.NewSplitJob(input, splitPages, outDir))
		}
		return runBatch(items)
	},
}

func init() {
	splitCmd.Flags().StringVar(&splitPages, "pages", "", `page ranges to extract, e.g. "1-3,5,7-9"`)
	splitCmd.MarkFlagRequired("pages")

	rootCmd.AddCommand(splitCmd)
}
