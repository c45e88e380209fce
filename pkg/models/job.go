package models

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobKind selects which conversion primitive a JobItem invokes.
type JobKind string

const (
	KindSplit      JobKind = "split"
	KindMerge      JobKind = "merge"
	KindToDocument JobKind = "to-document"
	KindToImages   JobKind = "to-images"
)

// JobStatus represents the state of a job within a batch.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusSkipped   JobStatus = "skipped"
)

// JobItem is one unit of work. It is created from user input, consumed
// exactly once by the batch runner, and discarded after completion.
type JobItem struct {
	ID          string
	Kind        JobKind
	InputPaths  []string
	OutputDir   string
	OutputPath  string
	PageRange   string
	DPI         int
	ImageFormat string
	CreatedAt   time.Time
}

// JobResult is the outcome of one JobItem. Immutable once produced.
type JobResult struct {
	ItemID       string
	Kind         JobKind
	Input        string
	Status       JobStatus
	OutputPaths  []string
	ErrorMessage string
	StartedAt    time.Time
	CompletedAt  time.Time
}

// Progress is emitted after each item finishes. Completed counts both
// successful and failed items so the display layer can show X of Y.
type Progress struct {
	Completed int
	Total     int
	Last      JobResult
}

func newItem(kind JobKind, inputs []string) JobItem {
	return JobItem{
		ID:         uuid.New().String(),
		Kind:       kind,
		InputPaths: inputs,
		CreatedAt:  time.Now(),
	}
}

// NewSplitJob extracts the pages selected by rangeExpr from input into
// one output PDF per contiguous sub-range, written to outputDir.
func NewSplitJob(input, rangeExpr, outputDir string) JobItem {
	item := newItem(KindSplit, []string{input})
	item.PageRange = rangeExpr
	item.OutputDir = outputDir
	return item
}

// NewMergeJob concatenates all inputs' pages, in order, into outputPath.
func NewMergeJob(inputs []string, outputPath string) JobItem {
	item := newItem(KindMerge, inputs)
	item.OutputPath = outputPath
	item.OutputDir = filepath.Dir(outputPath)
	return item
}

// NewDocumentJob converts input into one editable document at outputPath.
func NewDocumentJob(input, outputPath string) JobItem {
	item := newItem(KindToDocument, []string{input})
	item.OutputPath = outputPath
	item.OutputDir = filepath.Dir(outputPath)
	return item
}

// NewImageJob renders input's pages (all of them, or the subset selected
// by rangeExpr) into outputDir at the given DPI and image format.
func NewImageJob(input, outputDir string, dpi int, format, rangeExpr string) JobItem {
	item := newItem(KindToImages, []string{input})
	item.OutputDir = outputDir
	item.DPI = dpi
	item.ImageFormat = format
	item.PageRange = rangeExpr
	return item
}

// Source names the item in logs and results: the single input for most
// kinds, a count for merges.
func (item JobItem) Source() string {
	if len(item.InputPaths) == 1 {
		return item.InputPaths[0]
	}
	return strings.Join(item.InputPaths, ", ")
}
