package pdf

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/image/tiff"

	"github.com/kpauljoseph/pdfbench/internal/pagerange"
	"github.com/kpauljoseph/pdfbench/pkg/logger"
	"github.com/kpauljoseph/pdfbench/pkg/utils"
)

const (
	// DefaultDPI is the render resolution used when none is configured.
	DefaultDPI = 200

	jpegQuality = 95
)

var (
	// ErrUnreadableInput marks a missing, corrupt or encrypted source file.
	ErrUnreadableInput = errors.New("unreadable input")

	// ErrWriteFailure marks an unwritable destination.
	ErrWriteFailure = errors.New("write failure")

	// ErrConversionFailure wraps errors reported by the underlying
	// PDF libraries, message passed through.
	ErrConversionFailure = errors.New("conversion failed")
)

// Converter implements Engine on top of pdfcpu (page surgery) and
// go-fitz/MuPDF (rasterizing and text extraction). Input files are only
// ever opened for reading.
type Converter struct {
	conf *model.Configuration
	log  *logger.Logger
}

func NewConverter(log *logger.Logger) *Converter {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Converter{
		conf: conf,
		log:  log,
	}
}

// pageCount validates the source and returns its page count.
func (c *Converter) pageCount(inputPath string) (int, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreadableInput, err)
	}
	count, err := api.PageCountFile(inputPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrUnreadableInput, filepath.Base(inputPath), err)
	}
	return count, nil
}

func ensureDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("%w: no output directory", ErrWriteFailure)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return nil
}

func (c *Converter) Split(ctx context.Context, inputPath, rangeExpr, outputDir string) ([]string, error) {
	count, err := c.pageCount(inputPath)
	if err != nil {
		return nil, err
	}

	pages, err := pagerange.Parse(rangeExpr, count)
	if err != nil {
		return nil, err
	}

	if err := ensureDir(outputDir); err != nil {
		return nil, err
	}

	base := utils.BaseName(inputPath)
	var outputs []string

	for _, run := range pages.Runs() {
		outPath := filepath.Join(outputDir, utils.SplitFileName(base, run.Start, run.End))
		selection := []string{fmt.Sprintf("%d-%d", run.Start, run.End)}

		c.log.Debug("Extracting pages %d-%d of %s into %s", run.Start, run.End, filepath.Base(inputPath), outPath)
		if err := api.TrimFile(inputPath, outPath, selection, c.conf); err != nil {
			return outputs, fmt.Errorf("%w: pages %d-%d of %s: %v", ErrConversionFailure, run.Start, run.End, filepath.Base(inputPath), err)
		}
		outputs = append(outputs, outPath)
	}

	return outputs, nil
}

func (c *Converter) Merge(ctx context.Context, inputPaths []string, outputPath string) (string, error) {
	if len(inputPaths) == 0 {
		return "", fmt.Errorf("%w: no input files", ErrConversionFailure)
	}

	for _, in := range inputPaths {
		if _, err := c.pageCount(in); err != nil {
			return "", err
		}
	}

	if err := ensureDir(filepath.Dir(outputPath)); err != nil {
		return "", err
	}

	c.log.Debug("Merging %d files into %s", len(inputPaths), outputPath)
	if err := api.MergeCreateFile(inputPaths, outputPath, false, c.conf); err != nil {
		return "", fmt.Errorf("%w: merging into %s: %v", ErrConversionFailure, filepath.Base(outputPath), err)
	}

	return outputPath, nil
}

func (c *Converter) ToDocument(ctx context.Context, inputPath, outputPath string) (string, error) {
	doc, err := fitz.New(inputPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnreadableInput, filepath.Base(inputPath), err)
	}
	defer doc.Close()

	if err := ensureDir(filepath.Dir(outputPath)); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n</head>\n<body>\n", utils.BaseName(inputPath))

	// Page numbers are zero indexed in the fitz package.
	for pageNum := 0; pageNum < doc.NumPage(); pageNum++ {
		pageHTML, err := doc.HTML(pageNum, false)
		if err != nil {
			return "", fmt.Errorf("%w: page %d of %s: %v", ErrConversionFailure, pageNum+1, filepath.Base(inputPath), err)
		}
		sb.WriteString(pageHTML)
		sb.WriteString("\n")
	}

	sb.WriteString("</body>\n</html>\n")

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	return outputPath, nil
}

func (c *Converter) ToImages(ctx context.Context, inputPath, outputDir string, opts ImageOptions) ([]string, error) {
	format, ext, err := normalizeImageFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	dpi := opts.DPI
	if dpi == 0 {
		dpi = DefaultDPI
	}
	if dpi < 0 {
		return nil, fmt.Errorf("%w: dpi must be positive, got %d", ErrConversionFailure, dpi)
	}

	doc, err := fitz.New(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableInput, filepath.Base(inputPath), err)
	}
	defer doc.Close()

	pages := make([]int, 0, doc.NumPage())
	if opts.Pages != "" {
		selected, err := pagerange.Parse(opts.Pages, doc.NumPage())
		if err != nil {
			return nil, err
		}
		pages = selected.Pages()
	} else {
		for p := 1; p <= doc.NumPage(); p++ {
			pages = append(pages, p)
		}
	}

	if err := ensureDir(outputDir); err != nil {
		return nil, err
	}

	base := utils.BaseName(inputPath)
	var outputs []string

	for _, page := range pages {
		img, err := doc.ImageDPI(page-1, float64(dpi))
		if err != nil {
			return outputs, fmt.Errorf("%w: rendering page %d of %s: %v", ErrConversionFailure, page, filepath.Base(inputPath), err)
		}

		outPath := filepath.Join(outputDir, utils.ImageFileName(base, page, ext))
		c.log.Trace("Rendered page %d at %d DPI: %s", page, dpi, outPath)

		if err := saveImage(img, outPath, format); err != nil {
			return outputs, err
		}
		outputs = append(outputs, outPath)
	}

	return outputs, nil
}

func normalizeImageFormat(format string) (normalized, ext string, err error) {
	switch strings.ToLower(format) {
	case "", "png":
		return "png", "png", nil
	case "jpg", "jpeg":
		return "jpeg", "jpg", nil
	case "tiff", "tif":
		return "tiff", "tiff", nil
	default:
		return "", "", fmt.Errorf("%w: image format must be png, jpeg or tiff, got %q", ErrConversionFailure, format)
	}
}

func saveImage(img *image.RGBA, path, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	defer f.Close()

	switch format {
	case "jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	case "tiff":
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.LZW, Predictor: true})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", ErrConversionFailure, filepath.Base(path), err)
	}
	return nil
}
