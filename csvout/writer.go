// Package csvout writes structured tables to disk as Excel-friendly CSV
// files: UTF-8 with a byte order mark, a header row, and the detected title
// as a leading data row.
package csvout

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pkg/errors"

	"fintab/model"
)

// utf8BOM is prepended to every file so spreadsheet tools decode multibyte
// text correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// unsafeFilename matches everything but letters, digits, underscore, dash,
// and dot in any script, so CJK document names survive sanitization.
var unsafeFilename = regexp.MustCompile(`[^\p{L}\p{N}_\-.]`)

// SanitizeFilename replaces filesystem-hostile characters with underscores.
func SanitizeFilename(name string) string {
	return unsafeFilename.ReplaceAllString(name, "_")
}

// Dirs holds the output directories for one document.
type Dirs struct {
	Full     string
	Selected string
}

// DocumentDirs creates (idempotently) and returns the per-document output
// directories: <root>/<doc>/full and <root>/<doc>/selected.
func DocumentDirs(root, doc string) (Dirs, error) {
	base := filepath.Join(root, SanitizeFilename(doc))
	d := Dirs{
		Full:     filepath.Join(base, "full"),
		Selected: filepath.Join(base, "selected"),
	}
	for _, dir := range []string{d.Full, d.Selected} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Dirs{}, errors.Wrapf(err, "creating output dir %s", dir)
		}
	}
	return d, nil
}

// FileName builds the canonical per-table file name,
// <doc>_page<N>_table<M>.csv.
func FileName(doc string, page, index int) string {
	return fmt.Sprintf("%s_page%d_table%d.csv", SanitizeFilename(doc), page, index)
}

// Writer writes tables into a document's output directories.
type Writer struct {
	dirs Dirs
	doc  string
}

// NewWriter prepares the output directories for a document.
func NewWriter(root, doc string) (*Writer, error) {
	dirs, err := DocumentDirs(root, doc)
	if err != nil {
		return nil, err
	}
	return &Writer{dirs: dirs, doc: doc}, nil
}

// Dirs returns the writer's output directories.
func (w *Writer) Dirs() Dirs {
	return w.dirs
}

// WriteFull writes a table into the full set and returns the file path.
func (w *Writer) WriteFull(t *model.StructuredTable) (string, error) {
	path := filepath.Join(w.dirs.Full, FileName(w.doc, t.Page, t.Index))
	if err := writeFile(path, t); err != nil {
		return "", err
	}
	return path, nil
}

// CopySelected copies an already written full-set file into the selected
// set. The original stays in place.
func (w *Writer) CopySelected(fullPath string) (string, error) {
	dst := filepath.Join(w.dirs.Selected, filepath.Base(fullPath))

	src, err := os.Open(fullPath)
	if err != nil {
		return "", errors.Wrapf(err, "opening %s", fullPath)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", errors.Wrapf(err, "creating %s", dst)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return "", errors.Wrapf(err, "copying to %s", dst)
	}
	if err := out.Close(); err != nil {
		return "", errors.Wrapf(err, "closing %s", dst)
	}
	return dst, nil
}

func writeFile(path string, t *model.StructuredTable) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}

	if _, err := f.Write(utf8BOM); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing BOM to %s", path)
	}

	cw := csv.NewWriter(f)

	if err := cw.Write(t.Columns); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing header to %s", path)
	}

	// The detected title rides along as the first data row, first field
	// only, without touching the table structure.
	if t.Title != "" {
		titleRow := make([]string, len(t.Columns))
		titleRow[0] = t.Title
		if err := cw.Write(titleRow); err != nil {
			f.Close()
			return errors.Wrapf(err, "writing title to %s", path)
		}
	}

	for _, row := range t.Rows {
		record := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			record[j] = row[col]
		}
		if err := cw.Write(record); err != nil {
			f.Close()
			return errors.Wrapf(err, "writing row to %s", path)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return errors.Wrapf(err, "flushing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}
