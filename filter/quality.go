// Package filter prunes structured tables that are too small, too sparse, or
// too prose-like to be worth keeping. Every rule is individually
// configurable; tables never mutate, they are only kept or dropped with a
// reason.
package filter

import (
	"strings"

	"fintab/model"
)

// Drop reasons reported in verdicts.
const (
	ReasonTooFewColumns  = "too_few_columns"
	ReasonTooFewRows     = "too_few_rows"
	ReasonTextHeavy      = "text_heavy"
	ReasonLongCell       = "long_cell"
	ReasonStrictLongCell = "strict_long_cell"
	ReasonEmptyRatio     = "empty_ratio"
	ReasonEmptyRun       = "empty_run"
	ReasonScriptHeavy    = "script_heavy"
)

// Config holds the quality thresholds.
type Config struct {
	// MinColumns drops tables with fewer columns.
	MinColumns int `json:"min_columns" yaml:"min_columns"`

	// MinRows drops tables with fewer data rows.
	MinRows int `json:"min_rows" yaml:"min_rows"`

	// TextHeavyCellRunes marks a cell as long text when its CJK count
	// exceeds it; TextHeavyMaxCells is how many such cells a table
	// tolerates.
	TextHeavyCellRunes int `json:"text_heavy_cell_runes" yaml:"text_heavy_cell_runes"`
	TextHeavyMaxCells  int `json:"text_heavy_max_cells" yaml:"text_heavy_max_cells"`

	// LongCellRunes drops the table on any cell whose whitespace-stripped
	// CJK count reaches it.
	LongCellRunes int `json:"long_cell_runes" yaml:"long_cell_runes"`

	// StrictLongCellRunes is the independent stricter variant of the same
	// rule.
	StrictLongCellRunes int `json:"strict_long_cell_runes" yaml:"strict_long_cell_runes"`

	// MaxEmptyRatio drops tables whose empty-cell share exceeds it. A table
	// at exactly the ratio is kept.
	MaxEmptyRatio float64 `json:"max_empty_ratio" yaml:"max_empty_ratio"`

	// EmptyRunLength drops tables holding that many consecutive empty cells
	// along a row or column, but only when the table has fewer than
	// EmptyRunMinColumns columns.
	EmptyRunLength     int `json:"empty_run_length" yaml:"empty_run_length"`
	EmptyRunMinColumns int `json:"empty_run_min_columns" yaml:"empty_run_min_columns"`

	// MaxScriptRatio drops tables whose overall CJK character share exceeds
	// it, a strong sign of wrapped narrative text.
	MaxScriptRatio float64 `json:"max_script_ratio" yaml:"max_script_ratio"`
}

// DefaultConfig returns default thresholds.
func DefaultConfig() Config {
	return Config{
		MinColumns:          3,
		MinRows:             7,
		TextHeavyCellRunes:  20,
		TextHeavyMaxCells:   8,
		LongCellRunes:       30,
		StrictLongCellRunes: 40,
		MaxEmptyRatio:       0.30,
		EmptyRunLength:      6,
		EmptyRunMinColumns:  4,
		MaxScriptRatio:      0.90,
	}
}

// Verdict is the outcome of evaluating one table.
type Verdict struct {
	Keep   bool
	Reason string
}

// Filter applies the quality rules.
type Filter struct {
	config Config
}

// New creates a filter with default thresholds.
func New() *Filter {
	return &Filter{config: DefaultConfig()}
}

// NewWithConfig creates a filter with the given thresholds.
func NewWithConfig(config Config) *Filter {
	return &Filter{config: config}
}

// Evaluate runs the rules in order and returns on the first violation.
func (f *Filter) Evaluate(t *model.StructuredTable) Verdict {
	cfg := f.config
	grid := t.Grid()
	cols := len(t.Columns)
	rows := len(grid)

	if cols < cfg.MinColumns {
		return Verdict{Reason: ReasonTooFewColumns}
	}
	if rows < cfg.MinRows {
		return Verdict{Reason: ReasonTooFewRows}
	}

	textHeavy := 0
	for _, row := range grid {
		for _, cell := range row {
			if model.HanCount(cell) > cfg.TextHeavyCellRunes {
				textHeavy++
			}
		}
	}
	if textHeavy > cfg.TextHeavyMaxCells {
		return Verdict{Reason: ReasonTextHeavy}
	}

	for _, row := range grid {
		for _, cell := range row {
			if model.HanCount(stripSpace(cell)) >= cfg.LongCellRunes {
				return Verdict{Reason: ReasonLongCell}
			}
		}
	}
	// Kept as an independent rule so the two thresholds can be tuned apart.
	for _, row := range grid {
		for _, cell := range row {
			if model.HanCount(stripSpace(cell)) >= cfg.StrictLongCellRunes {
				return Verdict{Reason: ReasonStrictLongCell}
			}
		}
	}

	total := rows * cols
	if total > 0 {
		empty := 0
		for _, row := range grid {
			for _, cell := range row {
				if strings.TrimSpace(cell) == "" {
					empty++
				}
			}
		}
		if float64(empty)/float64(total) > cfg.MaxEmptyRatio {
			return Verdict{Reason: ReasonEmptyRatio}
		}
	}

	if cols < cfg.EmptyRunMinColumns && hasEmptyRun(grid, cols, cfg.EmptyRunLength) {
		return Verdict{Reason: ReasonEmptyRun}
	}

	if scriptRatio(grid) > cfg.MaxScriptRatio {
		return Verdict{Reason: ReasonScriptHeavy}
	}

	return Verdict{Keep: true}
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// hasEmptyRun scans rows then columns for a run of consecutive empty cells
// of at least the given length.
func hasEmptyRun(grid [][]string, cols, length int) bool {
	for _, row := range grid {
		run := 0
		for _, cell := range row {
			if strings.TrimSpace(cell) == "" {
				run++
				if run >= length {
					return true
				}
			} else {
				run = 0
			}
		}
	}

	for j := 0; j < cols; j++ {
		run := 0
		for _, row := range grid {
			empty := j >= len(row) || strings.TrimSpace(row[j]) == ""
			if empty {
				run++
				if run >= length {
					return true
				}
			} else {
				run = 0
			}
		}
	}

	return false
}

// scriptRatio returns the share of CJK characters among all non-space
// characters in the table.
func scriptRatio(grid [][]string) float64 {
	han, total := 0, 0
	for _, row := range grid {
		for _, cell := range row {
			for _, r := range cell {
				if r == ' ' || r == '\t' || r == '\n' {
					continue
				}
				total++
			}
			han += model.HanCount(cell)
		}
	}
	if total == 0 {
		return 0
	}
	return float64(han) / float64(total)
}
