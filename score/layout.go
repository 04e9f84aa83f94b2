// Package score ranks surviving tables by how much they look like a
// financial statement's main table, and selects the best few per page.
package score

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"fintab/model"
)

var (
	numericValue  = regexp.MustCompile(`^[\(（]?[-+]?\d[\d,，]*[\)）]?$`)
	strongColName = regexp.MustCompile(`20\d{2}|港幣|百萬元|%`)
	noteValue     = regexp.MustCompile(`^[一二三四五六七八九十百千〇零]{1,3}$|^\d{1,3}$`)
	statementName = regexp.MustCompile(`綜合(全面)?收益表|財務狀況表|現金流量表|權益變動表|財務表現概要|財務表現概覽`)
)

// Config holds scorer configuration.
type Config struct {
	// LongTextCellRunes marks a cell as long text (CJK count over this, or
	// raw length over LongTextCellLen).
	LongTextCellRunes int `json:"long_text_cell_runes" yaml:"long_text_cell_runes"`
	LongTextCellLen   int `json:"long_text_cell_len" yaml:"long_text_cell_len"`

	// ExtremeCellRunes / ExtremeCellLen mark a cell as extreme narrative.
	ExtremeCellRunes int `json:"extreme_cell_runes" yaml:"extreme_cell_runes"`
	ExtremeCellLen   int `json:"extreme_cell_len" yaml:"extreme_cell_len"`

	// MergedFirstRunes / MergedFirstLen mark a first cell long enough to
	// suggest a merged row.
	MergedFirstRunes int `json:"merged_first_runes" yaml:"merged_first_runes"`
	MergedFirstLen   int `json:"merged_first_len" yaml:"merged_first_len"`

	// HeadRows is how many leading rows to scan for statement keywords.
	HeadRows int `json:"head_rows" yaml:"head_rows"`
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		LongTextCellRunes: 20,
		LongTextCellLen:   40,
		ExtremeCellRunes:  60,
		ExtremeCellLen:    120,
		MergedFirstRunes:  40,
		MergedFirstLen:    80,
		HeadRows:          3,
	}
}

// Scorer rates table layouts.
type Scorer struct {
	config Config
}

// New creates a scorer with default configuration.
func New() *Scorer {
	return &Scorer{config: DefaultConfig()}
}

// NewWithConfig creates a scorer with the given configuration.
func NewWithConfig(config Config) *Scorer {
	return &Scorer{config: config}
}

// Score rates a table. Higher is more statement-like. The base is the grid
// structure score; bonuses favor a label first column, two strong numeric
// columns, a note column, statement keywords near the top, and balanced
// column fill; penalties hit long-text and merged-looking rows.
func (s *Scorer) Score(t *model.StructuredTable) float64 {
	grid := t.Grid()
	rows := len(grid)
	cols := len(t.Columns)
	if rows == 0 || cols == 0 {
		return math.Inf(-1)
	}

	score := model.GridScore(grid)

	// Column count preference.
	switch {
	case cols >= 4 && cols <= 8:
		score += 12
	case cols >= 3 && cols <= 10:
		score += 6
	default:
		score -= 4
	}

	numericRatio := make([]float64, cols)
	textRatio := make([]float64, cols)
	nonEmptyByCol := make([]float64, cols)
	longText := 0

	for j := 0; j < cols; j++ {
		total, num, txt := 0, 0, 0
		for i := 0; i < rows; i++ {
			cell := strings.TrimSpace(grid[i][j])
			if cell == "" {
				continue
			}
			total++
			if numericValue.MatchString(cell) {
				num++
			} else if model.HanCount(cell) > 0 {
				txt++
			}
			if model.HanCount(cell) > s.config.LongTextCellRunes ||
				model.RuneLen(cell) > s.config.LongTextCellLen {
				longText++
			}
		}
		if total > 0 {
			numericRatio[j] = float64(num) / float64(total)
			textRatio[j] = float64(txt) / float64(total)
		}
		nonEmptyByCol[j] = float64(total)
	}

	// Long-text share.
	longRatio := float64(longText) / float64(rows*cols)
	switch {
	case longRatio > 0.25:
		score -= 15
	case longRatio > 0.15:
		score -= 8
	default:
		score += 5
	}

	// Rows carrying extreme narrative cells.
	extremeRows := 0
	for _, row := range grid {
		for _, cell := range row {
			if model.HanCount(cell) >= s.config.ExtremeCellRunes ||
				model.RuneLen(cell) >= s.config.ExtremeCellLen {
				extremeRows++
				break
			}
		}
	}
	if extremeRows >= 1 {
		score -= 18
	}
	if extremeRows >= 3 {
		score -= 10
	}

	// Merged-looking rows: a very long first cell with almost nothing else.
	mergedLimit := int(math.Max(2, float64(cols)*0.4))
	mergedRows := 0
	for _, row := range grid {
		first := strings.TrimSpace(row[0])
		if model.HanCount(first) < s.config.MergedFirstRunes &&
			model.RuneLen(first) < s.config.MergedFirstLen {
			continue
		}
		nonEmpty := 0
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				nonEmpty++
			}
		}
		if nonEmpty <= mergedLimit {
			mergedRows++
		}
	}
	mergedRatio := float64(mergedRows) / float64(rows)
	switch {
	case mergedRatio > 0.20:
		score -= 28
	case mergedRatio > 0.10:
		score -= 16
	case mergedRatio > 0.05:
		score -= 8
	}

	// Row density: median, then mean, of non-empty cells per row.
	perRow := make([]float64, rows)
	sum := 0.0
	for i, row := range grid {
		n := 0
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				n++
			}
		}
		perRow[i] = float64(n)
		sum += float64(n)
	}
	sort.Float64s(perRow)
	median := perRow[rows/2]
	if rows%2 == 0 {
		median = (perRow[rows/2-1] + perRow[rows/2]) / 2
	}
	if median < 2 {
		score -= 12
	} else if sum/float64(rows) < 2.2 {
		score -= 6
	}

	// Label first column.
	switch {
	case textRatio[0] >= 0.60 && numericRatio[0] <= 0.20:
		score += 14
	case textRatio[0] >= 0.45 && numericRatio[0] <= 0.30:
		score += 6
	default:
		score -= 4
	}

	// Strong year/value columns: top two by numeric ratio.
	idx := make([]int, cols)
	for j := range idx {
		idx[j] = j
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return numericRatio[idx[a]] > numericRatio[idx[b]]
	})
	strong := 0
	for _, j := range idx[:min(2, cols)] {
		if strongColName.MatchString(t.Columns[j]) || numericRatio[j] >= 0.70 {
			strong++
		}
	}
	switch strong {
	case 2:
		score += 18
	case 1:
		score += 8
	}

	// Note column, by header or by short-numeral dominance.
	if s.hasNoteColumn(t, grid) {
		score += 10
	}

	// Statement keywords in the title, header, or leading rows.
	if s.hasStatementKeyword(t, grid) {
		score += 20
	}

	// Column-wise non-empty balance.
	if cv := fillCV(nonEmptyByCol); cv >= 0 {
		switch {
		case cv < 0.30:
			score += 8
		case cv < 0.50:
			score += 4
		default:
			score -= 2
		}
	}

	return score
}

func (s *Scorer) hasNoteColumn(t *model.StructuredTable, grid [][]string) bool {
	for j, name := range t.Columns {
		if strings.Contains(name, "附註") || strings.Contains(name, "附注") {
			return true
		}
		total, short := 0, 0
		for i := range grid {
			cell := strings.TrimSpace(grid[i][j])
			if cell == "" {
				continue
			}
			total++
			if noteValue.MatchString(cell) {
				short++
			}
		}
		if total > 0 && float64(short)/float64(total) >= 0.5 {
			return true
		}
	}
	return false
}

func (s *Scorer) hasStatementKeyword(t *model.StructuredTable, grid [][]string) bool {
	if statementName.MatchString(t.Title) {
		return true
	}
	for _, name := range t.Columns {
		if statementName.MatchString(name) {
			return true
		}
	}
	head := s.config.HeadRows
	if head > len(grid) {
		head = len(grid)
	}
	for i := 0; i < head; i++ {
		if statementName.MatchString(strings.Join(grid[i], " ")) {
			return true
		}
	}
	return false
}

// fillCV returns the coefficient of variation of per-column non-empty
// counts, or -1 when undefined.
func fillCV(counts []float64) float64 {
	if len(counts) == 0 {
		return -1
	}
	avg := 0.0
	for _, c := range counts {
		avg += c
	}
	avg /= float64(len(counts))
	if avg == 0 {
		return -1
	}

	v := 0.0
	for _, c := range counts {
		d := c - avg
		v += d * d
	}
	v /= float64(len(counts))

	return math.Sqrt(v) / avg
}
