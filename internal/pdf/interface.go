package pdf

import "context"

// Engine exposes the four conversion primitives. The batch runner depends
// on this interface so it can be exercised without real documents.
type Engine interface {
	// Split extracts the pages selected by rangeExpr into one output PDF
	// per contiguous sub-range, written to outputDir.
	Split(ctx context.Context, inputPath, rangeExpr, outputDir string) ([]string, error)

	// Merge concatenates all inputs' pages, in input order, into outputPath.
	Merge(ctx context.Context, inputPaths []string, outputPath string) (string, error)

	// ToDocument converts the whole input into one editable document.
	ToDocument(ctx context.Context, inputPath, outputPath string) (string, error)

	// ToImages renders pages at the configured DPI, one file per page.
	ToImages(ctx context.Context, inputPath, outputDir string, opts ImageOptions) ([]string, error)
}

// ImageOptions configures page rendering for ToImages.
type ImageOptions struct {
	// DPI is the render resolution. Zero means DefaultDPI.
	DPI int
	// Format is png, jpg/jpeg or tiff. Empty means png.
	Format string
	// Pages optionally restricts rendering to a page-range expression.
	// Empty renders every page.
	Pages string
}
