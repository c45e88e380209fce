package batch_test

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/pdfbench/internal/batch"
	"github.com/kpauljoseph/pdfbench/internal/pdf"
	"github.com/kpauljoseph/pdfbench/pkg/logger"
	"github.com/kpauljoseph/pdfbench/pkg/models"
)

// fakeEngine satisfies pdf.Engine without touching real documents.
type fakeEngine struct {
	calls   []string
	failOn  map[string]error
	onSplit func(inputPath string)
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{failOn: make(map[string]error)}
}

func (f *fakeEngine) Split(_ context.Context, inputPath, rangeExpr, outputDir string) ([]string, error) {
	f.calls = append(f.calls, inputPath)
	if f.onSplit != nil {
		f.onSplit(inputPath)
	}
	if err := f.failOn[inputPath]; err != nil {
		return nil, err
	}
	return []string{outputDir + "/out.pdf"}, nil
}

func (f *fakeEngine) Merge(_ context.Context, inputPaths []string, outputPath string) (string, error) {
	f.calls = append(f.calls, fmt.Sprintf("merge:%d", len(inputPaths)))
	return outputPath, nil
}

func (f *fakeEngine) ToDocument(_ context.Context, inputPath, outputPath string) (string, error) {
	f.calls = append(f.calls, inputPath)
	if err := f.failOn[inputPath]; err != nil {
		return "", err
	}
	return outputPath, nil
}

func (f *fakeEngine) ToImages(_ context.Context, inputPath, outputDir string, _ pdf.ImageOptions) ([]string, error) {
	f.calls = append(f.calls, inputPath)
	if err := f.failOn[inputPath]; err != nil {
		return nil, err
	}
	return []string{outputDir + "/page-1.png"}, nil
}

func testLogger() *logger.Logger {
	return logger.New(
		logger.WithOutput(GinkgoWriter),
		logger.WithPrefix("[batch-test] "),
		logger.WithFlags(0),
	)
}

var _ = Describe("Runner", func() {
	var (
		engine *fakeEngine
		runner *batch.Runner
		ctx    context.Context
	)

	BeforeEach(func() {
		engine = newFakeEngine()
		runner = batch.NewRunner(engine, testLogger())
		ctx = context.Background()
	})

	Context("partial failure", func() {
		It("records the failure and keeps going", func() {
			engine.failOn["b.pdf"] = fmt.Errorf("%w: b.pdf: damaged xref", pdf.ErrConversionFailure)

			items := []models.JobItem{
				models.NewSplitJob("a.pdf", "1-2", "/out"),
				models.NewSplitJob("b.pdf", "1-2", "/out"),
				models.NewSplitJob("c.pdf", "1-2", "/out"),
			}

			results, err := runner.Run(ctx, items, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))

			Expect(results[0].Status).To(Equal(models.StatusCompleted))
			Expect(results[1].Status).To(Equal(models.StatusFailed))
			Expect(results[1].ErrorMessage).To(ContainSubstring("damaged xref"))
			Expect(results[2].Status).To(Equal(models.StatusCompleted))

			// Results stay in input order and every item ran.
			Expect(results[0].Input).To(Equal("a.pdf"))
			Expect(results[1].Input).To(Equal("b.pdf"))
			Expect(results[2].Input).To(Equal("c.pdf"))
			Expect(engine.calls).To(Equal([]string{"a.pdf", "b.pdf", "c.pdf"}))
		})
	})

	Context("empty batch", func() {
		It("is a no-op success", func() {
			results, err := runner.Run(ctx, nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
			Expect(engine.calls).To(BeEmpty())
		})
	})

	Context("invalid configuration", func() {
		It("aborts before any item runs", func() {
			items := []models.JobItem{
				models.NewSplitJob("a.pdf", "1-2", "/out"),
				models.NewSplitJob("b.pdf", "1-2", ""),
			}

			results, err := runner.Run(ctx, items, nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("no output directory"))
			Expect(results).To(BeNil())
			Expect(engine.calls).To(BeEmpty())
		})

		It("rejects items without inputs", func() {
			_, err := runner.Run(ctx, []models.JobItem{models.NewMergeJob(nil, "/out/merged.pdf")}, nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("no input files"))
		})
	})

	Context("cancellation between items", func() {
		It("skips the remaining queued items", func() {
			cancelCtx, cancel := context.WithCancel(ctx)
			engine.onSplit = func(inputPath string) {
				if inputPath == "a.pdf" {
					cancel()
				}
			}

			items := []models.JobItem{
				models.NewSplitJob("a.pdf", "1", "/out"),
				models.NewSplitJob("b.pdf", "1", "/out"),
				models.NewSplitJob("c.pdf", "1", "/out"),
			}

			results, err := runner.Run(cancelCtx, items, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))

			Expect(results[0].Status).To(Equal(models.StatusCompleted))
			Expect(results[1].Status).To(Equal(models.StatusSkipped))
			Expect(results[2].Status).To(Equal(models.StatusSkipped))

			// The in-flight item finishes; nothing after it starts.
			Expect(engine.calls).To(Equal([]string{"a.pdf"}))
		})
	})

	Context("progress reporting", func() {
		It("emits one tick per item with cumulative counts", func() {
			engine.failOn["b.pdf"] = fmt.Errorf("%w: boom", pdf.ErrConversionFailure)

			items := []models.JobItem{
				models.NewDocumentJob("a.pdf", "/out/a.html"),
				models.NewDocumentJob("b.pdf", "/out/b.html"),
			}

			progress := make(chan models.Progress, len(items))
			results, err := runner.Run(ctx, items, progress)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))

			close(progress)
			var ticks []models.Progress
			for p := range progress {
				ticks = append(ticks, p)
			}

			Expect(ticks).To(HaveLen(2))
			Expect(ticks[0].Completed).To(Equal(1))
			Expect(ticks[0].Total).To(Equal(2))
			Expect(ticks[0].Last.Status).To(Equal(models.StatusCompleted))
			Expect(ticks[1].Completed).To(Equal(2))
			Expect(ticks[1].Last.Status).To(Equal(models.StatusFailed))
		})

		It("never blocks on a full channel", func() {
			items := []models.JobItem{
				models.NewDocumentJob("a.pdf", "/out/a.html"),
				models.NewDocumentJob("b.pdf", "/out/b.html"),
				models.NewDocumentJob("c.pdf", "/out/c.html"),
			}

			// Capacity one and nobody draining: later ticks are dropped,
			// the run still finishes.
			progress := make(chan models.Progress, 1)
			results, err := runner.Run(ctx, items, progress)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))

			tick := <-progress
			Expect(tick.Completed).To(Equal(1))
		})
	})
})
