// Package testutil builds small PDF fixtures so suites do not depend on
// checked-in binaries.
package testutil

import (
	"bytes"
	"fmt"
	"os"
)

// WriteSamplePDF writes a minimal but valid PDF with pageCount blank
// letter-sized pages, using a classic xref table with exact offsets.
func WriteSamplePDF(path string, pageCount int) error {
	if pageCount < 1 {
		return fmt.Errorf("pageCount must be at least 1, got %d", pageCount)
	}

	var buf bytes.Buffer
	var offsets []int

	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	buf.WriteString("%PDF-1.4\n")

	var kids bytes.Buffer
	for i := 0; i < pageCount; i++ {
		fmt.Fprintf(&kids, "%d 0 R ", 4+i)
	}

	writeObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	writeObj(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [ %s] /Count %d >>\nendobj\n", kids.String(), pageCount))

	content := "q Q\n"
	writeObj(fmt.Sprintf("3 0 obj\n<< /Length %d >>\nstream\n%sendstream\nendobj\n", len(content), content))

	for i := 0; i < pageCount; i++ {
		writeObj(fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> /Contents 3 0 R >>\nendobj\n", 4+i))
	}

	xrefOffset := buf.Len()
	size := len(offsets) + 1
	fmt.Fprintf(&buf, "xref\n0 %d\n", size)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", size, xrefOffset)

	return os.WriteFile(path, buf.Bytes(), 0644)
}

// WriteCorruptPDF writes a file that claims to be a PDF but is not
// parsable.
func WriteCorruptPDF(path string) error {
	return os.WriteFile(path, []byte("%PDF-1.4\nnot an actual pdf body"), 0644)
}
