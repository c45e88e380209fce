// Package main is the entry point for the pdfbench CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/pdfbench/internal/batch"
	"github.com/kpauljoseph/pdfbench/internal/config"
	"github.com/kpauljoseph/pdfbench/internal/pdf"
	"github.com/kpauljoseph/pdfbench/pkg/logger"
	"github.com/kpauljoseph/pdfbench/pkg/models"
	"github.com/kpauljoseph/pdfbench/pkg/utils"
)

var (
	cfgFile   string
	outputDir string
	verbose   bool
	debug     bool

	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pdfbench",
	Short: "Split, merge and convert PDF files",
	Long: `pdfbench is a desktop PDF toolbox. It splits PDFs by page range, merges
multiple PDFs into one, converts PDFs into editable HTML documents, and
renders PDF pages to PNG, JPEG or TIFF images.

Operations run as a batch: every input gets its own result, a failing
file never aborts the rest, and failures are listed at the end.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log = logger.New(logger.WithPrefix("[pdfbench] "))
		log.SetVerbose(verbose)
		if debug {
			log.SetVerbose(true)
			log.SetLevel(logger.LevelTrace)
		}

		if cfgFile != "" {
			loaded, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("loading config %s: %w", cfgFile, err)
			}
			cfg = loaded
			if cfg.Verbose {
				log.SetVerbose(true)
			}
		} else {
			cfg = config.Default()
		}

		if outputDir != "" {
			cfg.OutputDir = outputDir
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (optional)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "directory for output files (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug mode with trace logging")
}

// resolveOutputDir falls back to a fresh temporary directory so every
// command works without configuration.
func resolveOutputDir() string {
	if cfg.OutputDir != "" {
		return cfg.OutputDir
	}
	dir := utils.GetDefaultOutputDir()
	log.Info("No output directory configured, using %s", dir)
	return dir
}

// runBatch executes items, streams progress to the logger, and reports
// failed items. Ctrl-C cancels between items; queued work is skipped.
func runBatch(items []models.JobItem) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := batch.NewRunner(pdf.NewConverter(log), log)

	progress := make(chan models.Progress, len(items))
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for p := range progress {
			log.Info("[%d/%d] %s %s: %s", p.Completed, p.Total, p.Last.Kind, p.Last.Input, p.Last.Status)
		}
	}()

	results, err := runner.Run(ctx, items, progress)
	close(progress)
	<-drained
	if err != nil {
		return err
	}

	var failed, skipped int
	for _, res := range results {
		switch res.Status {
		case models.StatusFailed:
			failed++
			log.Info("FAILED %s %s: %s", res.Kind, res.Input, res.ErrorMessage)
		case models.StatusSkipped:
			skipped++
		default:
			for _, out := range res.OutputPaths {
				log.Debug("Wrote %s", out)
			}
		}
	}

	log.Info("Batch complete: %d succeeded, %d failed, %d skipped", len(results)-failed-skipped, failed, skipped)
	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(results))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
