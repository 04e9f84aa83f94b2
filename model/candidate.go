package model

import (
	"regexp"
	"strings"
)

// CandidateCell is one cell of a raw candidate grid: its clustered text and
// the source fragments that produced it. Fragments are kept in reading order
// so the builder can later redistribute multi-line cells by line.
type CandidateCell struct {
	Text      string
	Fragments []TextFragment
}

// Candidate is a raw table candidate emitted by a locator strategy. It has
// not yet been shaped into a header/rows structure.
type Candidate struct {
	Page       *Page
	Strategy   string
	Grid       [][]CandidateCell
	BBox       BBox
	Confidence float64
	// Order is the discovery index on the page, used as a stable tiebreak.
	Order int
}

// Rows returns the number of grid rows.
func (c *Candidate) Rows() int {
	return len(c.Grid)
}

// Cols returns the widest row length in the grid.
func (c *Candidate) Cols() int {
	n := 0
	for _, row := range c.Grid {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// TextGrid returns the grid flattened to cell text.
func (c *Candidate) TextGrid() [][]string {
	out := make([][]string, len(c.Grid))
	for i, row := range c.Grid {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = cell.Text
		}
		out[i] = cells
	}
	return out
}

// EmptyCells counts the blank cells in the grid, padding ragged rows out to
// the widest row.
func (c *Candidate) EmptyCells() int {
	cols := c.Cols()
	n := 0
	for _, row := range c.Grid {
		for j := 0; j < cols; j++ {
			if j >= len(row) || IsBlankCell(row[j].Text) {
				n++
			}
		}
	}
	return n
}

// IsFullyEmpty reports whether every cell of the grid is blank.
func (c *Candidate) IsFullyEmpty() bool {
	for _, row := range c.Grid {
		for _, cell := range row {
			if !IsBlankCell(cell.Text) {
				return false
			}
		}
	}
	return true
}

// Signature is a content fingerprint used to recognize the same underlying
// table found by different strategies.
type Signature string

var (
	numericOnlyCell = regexp.MustCompile(`^[\d,，\(（\)）\s\-–—\.]+$`)
	digitRun        = regexp.MustCompile(`\d+`)
)

const (
	signatureRowLimit      = 15
	signatureCellRunes     = 50
	signatureRowTokenLimit = 8
)

// ComputeSignature fingerprints a candidate from its first rows. Per row it
// takes the first meaningfully textual cell, plus up to 8 of the row's digit
// runs with adjacent short runs joined, so that "1,234" split across
// fragments and "1234" hash alike. Every non-blank row contributes its own
// tokens, so two candidates sharing header rows but holding different bodies
// still fingerprint apart. Two candidates covering the same region of the
// page produce the same signature regardless of locator strategy.
func (c *Candidate) ComputeSignature() Signature {
	var rowSigs []string

	rows := c.Grid
	if len(rows) > signatureRowLimit {
		rows = rows[:signatureRowLimit]
	}

	for _, row := range rows {
		var rowTexts []string
		textual := ""
		for _, cell := range row {
			t := strings.TrimSpace(cell.Text)
			if t == "" {
				continue
			}
			rowTexts = append(rowTexts, t)
			if textual == "" && RuneLen(t) > 2 && !numericOnlyCell.MatchString(t) {
				textual = TruncateRunes(t, signatureCellRunes)
			}
		}
		if len(rowTexts) == 0 {
			continue
		}

		joined := NormalizeWidth(strings.Join(rowTexts, " "))
		runs := joinShortRuns(digitRun.FindAllString(joined, -1))
		if len(runs) > signatureRowTokenLimit {
			runs = runs[:signatureRowTokenLimit]
		}

		rowSigs = append(rowSigs, strings.Join(append([]string{textual}, runs...), "|"))
	}

	return Signature(strings.Join(rowSigs, ";"))
}

// joinShortRuns merges adjacent pairs of digit runs of up to 3 digits each
// when their combined length reaches 4. This collapses the two groups of a
// thousands-separated number that arrived as separate runs, without welding
// unrelated small numbers across the whole row.
func joinShortRuns(runs []string) []string {
	var out []string
	for i := 0; i < len(runs); i++ {
		if i+1 < len(runs) &&
			len(runs[i]) <= 3 && len(runs[i+1]) <= 3 &&
			len(runs[i])+len(runs[i+1]) >= 4 {
			out = append(out, runs[i]+runs[i+1])
			i++
			continue
		}
		out = append(out, runs[i])
	}
	return out
}
