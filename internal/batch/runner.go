// Package batch executes ordered conversion jobs one at a time under
// partial-failure semantics: a failed item is recorded and the batch
// moves on.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/kpauljoseph/pdfbench/internal/pdf"
	"github.com/kpauljoseph/pdfbench/pkg/logger"
	"github.com/kpauljoseph/pdfbench/pkg/models"
)

// Runner consumes JobItems sequentially. At most one conversion is in
// flight per Runner instance.
type Runner struct {
	engine pdf.Engine
	log    *logger.Logger
}

func NewRunner(engine pdf.Engine, log *logger.Logger) *Runner {
	return &Runner{
		engine: engine,
		log:    log,
	}
}

// Run executes items in order and returns one JobResult per item, in the
// same order. Item failures do not abort the batch. A cancelled context is
// honored between items: remaining items come back as skipped. An empty
// batch is a no-op success.
//
// A non-nil progress channel receives one Progress per finished item. The
// send never blocks: if the receiver is behind, the tick is dropped.
// Counts are cumulative, so a later tick carries everything a dropped one
// did. The channel is not closed by Run.
func (r *Runner) Run(ctx context.Context, items []models.JobItem, progress chan<- models.Progress) ([]models.JobResult, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	results := make([]models.JobResult, 0, len(items))

	for i, item := range items {
		var res models.JobResult
		if ctx.Err() != nil {
			res = skippedResult(item)
			r.log.Debug("Skipping job %s (%s): batch cancelled", item.ID, item.Kind)
		} else {
			res = r.runItem(ctx, item)
		}
		results = append(results, res)

		if progress != nil {
			select {
			case progress <- models.Progress{Completed: i + 1, Total: len(items), Last: res}:
			default:
			}
		}
	}

	return results, nil
}

// validateItems rejects misconfigured batches before any item runs.
// This is the only fatal condition; everything else is per-item.
func validateItems(items []models.JobItem) error {
	for _, item := range items {
		if len(item.InputPaths) == 0 {
			return fmt.Errorf("job %s (%s): no input files", item.ID, item.Kind)
		}
		switch item.Kind {
		case models.KindSplit, models.KindToImages:
			if item.OutputDir == "" {
				return fmt.Errorf("job %s (%s): no output directory", item.ID, item.Kind)
			}
		case models.KindMerge, models.KindToDocument:
			if item.OutputPath == "" {
				return fmt.Errorf("job %s (%s): no output path", item.ID, item.Kind)
			}
		default:
			return fmt.Errorf("job %s: unknown operation %q", item.ID, item.Kind)
		}
	}
	return nil
}

func (r *Runner) runItem(ctx context.Context, item models.JobItem) models.JobResult {
	res := models.JobResult{
		ItemID:    item.ID,
		Kind:      item.Kind,
		Input:     item.Source(),
		StartedAt: time.Now(),
	}

	r.log.Info("Running %s job for %s", item.Kind, res.Input)

	outputs, err := r.dispatch(ctx, item)
	res.CompletedAt = time.Now()

	if err != nil {
		res.Status = models.StatusFailed
		res.ErrorMessage = err.Error()
		res.OutputPaths = outputs
		r.log.Warn("Job %s failed: %v", item.ID, err)
		return res
	}

	res.Status = models.StatusCompleted
	res.OutputPaths = outputs
	r.log.Info("Job %s completed: %d output file(s)", item.ID, len(outputs))
	return res
}

func (r *Runner) dispatch(ctx context.Context, item models.JobItem) ([]string, error) {
	switch item.Kind {
	case models.KindSplit:
		return r.engine.Split(ctx, item.InputPaths[0], item.PageRange, item.OutputDir)
	case models.KindMerge:
		out, err := r.engine.Merge(ctx, item.InputPaths, item.OutputPath)
		if err != nil {
			return nil, err
		}
		return []string{out}, nil
	case models.KindToDocument:
		out, err := r.engine.ToDocument(ctx, item.InputPaths[0], item.OutputPath)
		if err != nil {
			return nil, err
		}
		return []string{out}, nil
	case models.KindToImages:
		return r.engine.ToImages(ctx, item.InputPaths[0], item.OutputDir, pdf.ImageOptions{
			DPI:    item.DPI,
			Format: item.ImageFormat,
			Pages:  item.PageRange,
		})
	default:
		return nil, fmt.Errorf("unknown operation %q", item.Kind)
	}
}

func skippedResult(item models.JobItem) models.JobResult {
	now := time.Now()
	return models.JobResult{
		ItemID:       item.ID,
		Kind:         item.Kind,
		Input:        item.Source(),
		Status:       models.StatusSkipped,
		ErrorMessage: "batch cancelled before this item ran",
		StartedAt:    now,
		CompletedAt:  now,
	}
}
