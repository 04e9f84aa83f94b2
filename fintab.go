// Package fintab extracts financial-statement tables from PDF annual and
// interim reports and writes them out as CSV files.
//
// Basic usage:
//
//	result, err := fintab.Open("annual-report.pdf").
//	    OutputRoot("out").
//	    ExtractTables(context.Background())
//	if err != nil {
//	    // handle error
//	}
//	for _, t := range result.Selected {
//	    fmt.Println(t.Title)
//	}
//
// Every page runs through four locator strategies, duplicate findings are
// collapsed, the survivors are rebuilt into structured tables, filtered for
// quality, scored for financial-statement layout, and the best few per page
// are promoted into a selected output set.
package fintab

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"fintab/model"
)

// Open prepares an extractor for a PDF file. Configuration methods return
// new instances, so a partially configured extractor can be reused.
//
// Example:
//
//	result, err := fintab.Open("report.pdf").Pages(10, 11).ExtractTables(ctx)
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		docName:  docNameFromPath(filename),
		options:  defaultOptions(),
	}
}

// FromPages prepares an extractor over pages that were already loaded or
// synthesized elsewhere. No PDF is read; page selection options are ignored.
//
// Example:
//
//	result, err := fintab.FromPages("report", pages).ExtractTables(ctx)
func FromPages(docName string, pages []*model.Page) *Extractor {
	return &Extractor{
		docName: docName,
		pages:   pages,
		options: defaultOptions(),
	}
}

// Format identifies an output encoding.
type Format int

// Supported output formats.
const (
	FormatCSV Format = iota
)

// String returns the format's file extension.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	default:
		return "unknown"
	}
}

// ParsePageRanges parses a page selection like "1-3,7,10-12" into 1-based
// page numbers.
func ParsePageRanges(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, ok := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, errors.Wrapf(err, "page range %q", part)
		}
		end := start
		if ok {
			end, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, errors.Wrapf(err, "page range %q", part)
			}
		}
		if start < 1 || end < start {
			return nil, errors.Errorf("invalid page range %q", part)
		}
		for p := start; p <= end; p++ {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("empty page selection")
	}
	return out, nil
}

// docNameFromPath derives the document name from the file path, without
// directory or extension.
func docNameFromPath(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}
