package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/pdfbench/internal/scanner"
	"github.com/kpauljoseph/pdfbench/pkg/models"
	"github.com/kpauljoseph/pdfbench/pkg/utils"
)

var todocDir string

var todocCmd = &cobra.Command{
	Use:   "todoc [<input.pdf>...]",
	Short: "Convert PDFs into editable HTML documents",
	Long: `Todoc converts each input PDF into one editable HTML document carrying
the text of every page. With --dir, every PDF under the directory is
converted in one batch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := collectInputs(cmd.Context(), args, todocDir)
		if err != nil {
			return err
		}
		outDir := resolveOutputDir()

		items := make([]models.JobItem, 0, len(inputs))
		for _, input := range inputs {
			outPath := filepath.Join(outDir, utils.DocumentFileName(utils.BaseName(input)))
			items = append(items, models.NewDocumentJob(input, outPath))
		}
		return runBatch(items)
	},
}

// collectInputs merges explicit arguments with a scanned directory.
// An empty batch is not an error; the runner treats it as a no-op.
func collectInputs(ctx context.Context, args []string, dir string) ([]string, error) {
	inputs := args
	if dir != "" {
		if ctx == nil {
			ctx = context.Background()
		}
		found, err := scanner.New(log).FindPDFs(ctx, dir)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, found...)
	}
	return inputs, nil
}

func init() {
	todocCmd.Flags().StringVar(&todocDir, "dir", "", "convert every PDF found under this directory")

	rootCmd.AddCommand(todocCmd)
}
