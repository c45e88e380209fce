package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func GetDefaultOutputDir() string {
	tmpDir, err := os.MkdirTemp("", "pdfbench-output-*")
	if err != nil {
		// If we can't create a temp directory, fall back to local directory
		return "pdfbench-output"
	}
	return tmpDir
}

// BaseName strips directory and extension: /a/b/report.pdf -> report.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// SplitFileName names one split output for a contiguous page run.
func SplitFileName(base string, start, end int) string {
	if start == end {
		return fmt.Sprintf("%s_page_%d.pdf", base, start)
	}
	return fmt.Sprintf("%s_pages_%d-%d.pdf", base, start, end)
}

// ImageFileName names one rendered page: <source>-<page>.<ext>.
func ImageFileName(base string, page int, ext string) string {
	return fmt.Sprintf("%s-%d.%s", base, page, ext)
}

// DocumentFileName names the editable-document output for a source PDF.
func DocumentFileName(base string) string {
	return base + ".html"
}
