package pdf_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/image/tiff"

	"github.com/kpauljoseph/pdfbench/internal/pagerange"
	"github.com/kpauljoseph/pdfbench/internal/pdf"
	"github.com/kpauljoseph/pdfbench/internal/testutil"
	"github.com/kpauljoseph/pdfbench/pkg/logger"
)

func engineTestLogger() *logger.Logger {
	log := logger.New(
		logger.WithOutput(GinkgoWriter),
		logger.WithPrefix("[pdf-test] "),
		logger.WithFlags(0),
	)
	log.SetVerbose(true)
	return log
}

var _ = Describe("Converter", func() {
	var (
		converter *pdf.Converter
		workDir   string
		outputDir string
		ctx       context.Context
	)

	makePDF := func(name string, pages int) string {
		path := filepath.Join(workDir, name)
		Expect(testutil.WriteSamplePDF(path, pages)).To(Succeed())
		return path
	}

	BeforeEach(func() {
		var err error
		workDir, err = os.MkdirTemp("", "pdfbench-test-*")
		Expect(err).NotTo(HaveOccurred())

		outputDir, err = os.MkdirTemp("", "pdfbench-output-*")
		Expect(err).NotTo(HaveOccurred())

		converter = pdf.NewConverter(engineTestLogger())
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(os.RemoveAll(workDir)).To(Succeed())
		Expect(os.RemoveAll(outputDir)).To(Succeed())
	})

	Describe("Split", func() {
		It("writes one output per contiguous page run", func() {
			input := makePDF("report.pdf", 10)

			outputs, err := converter.Split(ctx, input, "1-3,5,7-9", outputDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(outputs).To(HaveLen(3))

			Expect(filepath.Base(outputs[0])).To(Equal("report_pages_1-3.pdf"))
			Expect(filepath.Base(outputs[1])).To(Equal("report_page_5.pdf"))
			Expect(filepath.Base(outputs[2])).To(Equal("report_pages_7-9.pdf"))

			for i, wantPages := range []int{3, 1, 3} {
				count, err := api.PageCountFile(outputs[i])
				Expect(err).NotTo(HaveOccurred())
				Expect(count).To(Equal(wantPages))
			}
		})

		It("merges overlapping ranges before extracting", func() {
			input := makePDF("overlap.pdf", 10)

			outputs, err := converter.Split(ctx, input, "1-3,2-4", outputDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(outputs).To(HaveLen(1))
			Expect(filepath.Base(outputs[0])).To(Equal("overlap_pages_1-4.pdf"))

			count, err := api.PageCountFile(outputs[0])
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(4))
		})

		It("does not modify the input file", func() {
			input := makePDF("pristine.pdf", 4)
			before, err := os.ReadFile(input)
			Expect(err).NotTo(HaveOccurred())

			_, err = converter.Split(ctx, input, "2-3", outputDir)
			Expect(err).NotTo(HaveOccurred())

			after, err := os.ReadFile(input)
			Expect(err).NotTo(HaveOccurred())
			Expect(after).To(Equal(before))
		})

		It("rejects pages beyond the document", func() {
			input := makePDF("short.pdf", 10)
			_, err := converter.Split(ctx, input, "1-20", outputDir)
			Expect(err).To(MatchError(pagerange.ErrPageOutOfBounds))
		})

		It("rejects malformed range expressions", func() {
			input := makePDF("short.pdf", 10)
			_, err := converter.Split(ctx, input, "5-3", outputDir)
			Expect(err).To(MatchError(pagerange.ErrInvalidFormat))
		})

		It("rejects an empty range expression", func() {
			input := makePDF("short.pdf", 10)
			_, err := converter.Split(ctx, input, "", outputDir)
			Expect(err).To(MatchError(pagerange.ErrEmptyRange))
		})

		It("reports a missing input as unreadable", func() {
			_, err := converter.Split(ctx, filepath.Join(workDir, "nope.pdf"), "1", outputDir)
			Expect(err).To(MatchError(pdf.ErrUnreadableInput))
		})

		It("reports a corrupt input as unreadable", func() {
			input := filepath.Join(workDir, "broken.pdf")
			Expect(testutil.WriteCorruptPDF(input)).To(Succeed())

			_, err := converter.Split(ctx, input, "1", outputDir)
			Expect(err).To(MatchError(pdf.ErrUnreadableInput))
		})
	})

	Describe("Merge", func() {
		It("concatenates all pages in input order", func() {
			a := makePDF("a.pdf", 3)
			b := makePDF("b.pdf", 2)
			outPath := filepath.Join(outputDir, "merged.pdf")

			out, err := converter.Merge(ctx, []string{a, b}, outPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(outPath))

			count, err := api.PageCountFile(outPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(5))
		})

		It("fails when any input is missing", func() {
			a := makePDF("a.pdf", 3)
			_, err := converter.Merge(ctx, []string{a, filepath.Join(workDir, "gone.pdf")}, filepath.Join(outputDir, "merged.pdf"))
			Expect(err).To(MatchError(pdf.ErrUnreadableInput))
		})

		It("fails without input files", func() {
			_, err := converter.Merge(ctx, nil, filepath.Join(outputDir, "merged.pdf"))
			Expect(err).To(MatchError(pdf.ErrConversionFailure))
		})
	})

	Describe("ToImages", func() {
		It("renders tiff output that decodes", func() {
			input := makePDF("doc.pdf", 2)

			outputs, err := converter.ToImages(ctx, input, outputDir, pdf.ImageOptions{DPI: 72, Format: "tiff"})
			Expect(err).NotTo(HaveOccurred())
			Expect(outputs).To(HaveLen(2))
			Expect(filepath.Base(outputs[0])).To(Equal("doc-1.tiff"))

			f, err := os.Open(outputs[0])
			Expect(err).NotTo(HaveOccurred())
			img, err := tiff.Decode(f)
			f.Close()
			Expect(err).NotTo(HaveOccurred())

			// Letter page at 72 DPI renders at its native point size.
			Expect(img.Bounds().Dx()).To(BeNumerically("~", 612, 2))
			Expect(img.Bounds().Dy()).To(BeNumerically("~", 792, 2))
		})

		It("rejects unsupported image formats", func() {
			input := makePDF("doc.pdf", 2)
			_, err := converter.ToImages(ctx, input, outputDir, pdf.ImageOptions{Format: "bmp"})
			Expect(err).To(MatchError(pdf.ErrConversionFailure))
			Expect(err.Error()).To(ContainSubstring("bmp"))
		})

		It("rejects a negative DPI", func() {
			input := makePDF("doc.pdf", 2)
			_, err := converter.ToImages(ctx, input, outputDir, pdf.ImageOptions{DPI: -72})
			Expect(err).To(MatchError(pdf.ErrConversionFailure))
		})
	})

	Describe("unwritable destinations", func() {
		var blockedDir string

		BeforeEach(func() {
			// A regular file where a directory is needed: creating any
			// path beneath it fails regardless of permissions.
			blocked := filepath.Join(workDir, "blocked")
			Expect(os.WriteFile(blocked, []byte("not a directory"), 0644)).To(Succeed())
			blockedDir = filepath.Join(blocked, "out")
		})

		It("reports a write failure from Split", func() {
			input := makePDF("doc.pdf", 4)
			_, err := converter.Split(ctx, input, "1-2", blockedDir)
			Expect(err).To(MatchError(pdf.ErrWriteFailure))
		})

		It("reports a write failure from Merge", func() {
			input := makePDF("doc.pdf", 4)
			_, err := converter.Merge(ctx, []string{input}, filepath.Join(blockedDir, "merged.pdf"))
			Expect(err).To(MatchError(pdf.ErrWriteFailure))
		})

		It("reports a write failure from ToDocument", func() {
			input := makePDF("doc.pdf", 4)
			_, err := converter.ToDocument(ctx, input, filepath.Join(blockedDir, "doc.html"))
			Expect(err).To(MatchError(pdf.ErrWriteFailure))
		})

		It("reports a write failure from ToImages", func() {
			input := makePDF("doc.pdf", 4)
			_, err := converter.ToImages(ctx, input, blockedDir, pdf.ImageOptions{})
			Expect(err).To(MatchError(pdf.ErrWriteFailure))
		})
	})
})
