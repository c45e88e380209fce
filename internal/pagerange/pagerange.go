// Package pagerange parses user-supplied page-range expressions such as
// "1-3,5,7-9" into validated, de-duplicated page numbers.
package pagerange

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrEmptyRange is returned for an empty or blank expression.
	ErrEmptyRange = errors.New("empty page range")

	// ErrInvalidFormat is returned when a token does not match the
	// grammar: comma-separated integers or A-B spans with A <= B.
	ErrInvalidFormat = errors.New("invalid page range format")

	// ErrPageOutOfBounds is returned when a resolved page number falls
	// outside [1, pageCount] of the actual document.
	ErrPageOutOfBounds = errors.New("page out of bounds")
)

// PageRange is an ordered, de-duplicated sequence of 1-based page numbers.
type PageRange struct {
	pages []int
}

// Run is a maximal contiguous span of pages, 1-based and inclusive.
type Run struct {
	Start int
	End   int
}

// Parse resolves expr against a document of pageCount pages. The result is
// sorted and de-duplicated; overlapping spans are accepted.
func Parse(expr string, pageCount int) (PageRange, error) {
	if strings.TrimSpace(expr) == "" {
		return PageRange{}, ErrEmptyRange
	}

	seen := make(map[int]bool)
	var pages []int

	for _, token := range strings.Split(expr, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		start, end, err := parseToken(token)
		if err != nil {
			return PageRange{}, err
		}
		if start < 1 || end > pageCount {
			return PageRange{}, fmt.Errorf("%w: %q is outside pages 1-%d", ErrPageOutOfBounds, token, pageCount)
		}

		for p := start; p <= end; p++ {
			if !seen[p] {
				seen[p] = true
				pages = append(pages, p)
			}
		}
	}

	if len(pages) == 0 {
		return PageRange{}, ErrEmptyRange
	}

	sort.Ints(pages)
	return PageRange{pages: pages}, nil
}

func parseToken(token string) (int, int, error) {
	if before, after, found := strings.Cut(token, "-"); found {
		start, err1 := parsePageNumber(before)
		end, err2 := parsePageNumber(after)
		if err1 != nil || err2 != nil {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidFormat, token)
		}
		if start > end {
			return 0, 0, fmt.Errorf("%w: %q is descending", ErrInvalidFormat, token)
		}
		return start, end, nil
	}

	page, err := parsePageNumber(token)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidFormat, token)
	}
	return page, page, nil
}

func parsePageNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("missing page number")
	}
	// strconv.Atoi would accept a sign; the grammar only allows digits.
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not a page number: %q", s)
		}
	}
	return strconv.Atoi(s)
}

// Pages returns the selected page numbers in ascending order.
func (r PageRange) Pages() []int {
	out := make([]int, len(r.pages))
	copy(out, r.pages)
	return out
}

// Len returns the number of selected pages.
func (r PageRange) Len() int {
	return len(r.pages)
}

// Runs collapses the selection into maximal contiguous spans, in order.
// "1-3,5,7-9" yields [1-3] [5-5] [7-9].
func (r PageRange) Runs() []Run {
	var runs []Run
	for _, p := range r.pages {
		if n := len(runs); n > 0 && runs[n-1].End == p-1 {
			runs[n-1].End = p
			continue
		}
		runs = append(runs, Run{Start: p, End: p})
	}
	return runs
}

// String renders the selection back into its canonical expression form.
func (r PageRange) String() string {
	var parts []string
	for _, run := range r.Runs() {
		if run.Start == run.End {
			parts = append(parts, strconv.Itoa(run.Start))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", run.Start, run.End))
		}
	}
	return strings.Join(parts, ",")
}
