package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/pdfbench/pkg/models"
)

var mergeOut string

var mergeCmd = &cobra.Command{
	Use:   "merge --out <merged.pdf> <input.pdf>...",
	Short: "Concatenate PDFs into a single file",
	Long: `Merge concatenates all inputs' pages, in the order given on the command
line, into one output PDF.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := mergeOut
		if !filepath.IsAbs(out) && filepath.Dir(out) == "." {
			out = filepath.Join(resolveOutputDir(), out)
		}

		return runBatch([]models.JobItem{models.NewMergeJob(args, out)})
	},
}

func init() {
	mergeCmd.Flags().StringVar(&mergeOut, "out", "", "path of the merged PDF")
	mergeCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(mergeCmd)
}
