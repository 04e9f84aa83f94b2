// Package builder shapes raw table candidates into structured tables. It
// reconstructs multi-row headers, explodes multi-line cells into proper rows,
// re-merges numbers split across columns, and finalizes the column set.
package builder

import (
	"strings"

	"fintab/model"
)

// HeaderHints are substrings that mark a cell as header-like in bilingual
// Hong Kong financial statements.
var HeaderHints = []string{
	"IFRS", "港幣", "百萬元", "變動", "%", "年度", "年", "每股", "附註", "附注", "以常地貨幣",
}

// RowKeywords are line items expected in the body of a financial statement.
var RowKeywords = []string{
	"收入", "收益", "收益總額", "EBITDA", "EBIT", "除稅前溢利", "稅前溢利", "稅項", "本期",
	"綜合收益表", "綜合全面收益表", "綜合財務狀況表", "綜合權益變動表", "綜合現金流量表",
	"普通股東應佔溢利", "非控股權益", "投資收益", "折舊及攤銷", "金融資產負債",
}

// Config holds builder configuration.
type Config struct {
	// HeaderHints marks header-like cells during reconstruction.
	HeaderHints []string `json:"header_hints" yaml:"header_hints"`

	// RowKeywords marks financial line items for the pre-build gate.
	RowKeywords []string `json:"row_keywords" yaml:"row_keywords"`

	// ItemColumn is the canonical name forced onto the first column.
	ItemColumn string `json:"item_column" yaml:"item_column"`

	// HeaderScanRows is how many top rows to scan for header rows.
	HeaderScanRows int `json:"header_scan_rows" yaml:"header_scan_rows"`

	// MaxHeaderRows caps how many consecutive rows can merge into the header.
	MaxHeaderRows int `json:"max_header_rows" yaml:"max_header_rows"`

	// ReconMargin is how much better a reconstructed header's structure
	// score must be before it replaces the simple first-row header.
	ReconMargin float64 `json:"recon_margin" yaml:"recon_margin"`

	// GateMinDigits passes the pre-build gate on digit count alone.
	GateMinDigits int `json:"gate_min_digits" yaml:"gate_min_digits"`

	// TitleMaxRunes truncates detected titles.
	TitleMaxRunes int `json:"title_max_runes" yaml:"title_max_runes"`
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		HeaderHints:    HeaderHints,
		RowKeywords:    RowKeywords,
		ItemColumn:     "Item",
		HeaderScanRows: 8,
		MaxHeaderRows:  3,
		ReconMargin:    8,
		GateMinDigits:  20,
		TitleMaxRunes:  20,
	}
}

// Builder turns candidates into structured tables.
type Builder struct {
	config Config
}

// New creates a builder with default configuration.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// NewWithConfig creates a builder with the given configuration.
func NewWithConfig(config Config) *Builder {
	return &Builder{config: config}
}

// Drop reasons returned by Build when a candidate does not survive shaping.
const (
	ReasonEmptyCandidate = "empty_candidate"
	ReasonGatedOut       = "gated_out"
	ReasonCollapsed      = "collapsed"
)

// Build shapes a candidate into a structured table. A nil table with a
// non-empty reason means the candidate was dropped as a normal outcome, not
// an error; the reason names which check rejected it.
func (b *Builder) Build(c *model.Candidate) (*model.StructuredTable, string, error) {
	rows := nonEmptyRows(c.Grid)
	if len(rows) == 0 {
		return nil, ReasonEmptyCandidate, nil
	}
	rows = padRows(rows)

	if !b.passesGate(rows) && !hasDigit(rows) {
		return nil, ReasonGatedOut, nil
	}

	columns, dataRows := b.chooseHeader(rows)
	columns = b.finalizeNames(columns)

	grid := b.explode(dataRows)
	grid = b.mergeSplitNumbers(columns, grid)

	columns, grid = dropEmptyColumns(columns, grid)

	if len(columns) <= 1 || len(grid) < 2 {
		return nil, ReasonCollapsed, nil
	}

	tableRows := make([]model.Row, len(grid))
	for i, cells := range grid {
		row := make(model.Row, len(columns))
		for j, col := range columns {
			if j < len(cells) {
				row[col] = cells[j]
			} else {
				row[col] = ""
			}
		}
		tableRows[i] = row
	}

	table, err := model.NewStructuredTable(pageNumber(c), "", columns, tableRows)
	if err != nil {
		return nil, "", err
	}
	table.Source = c.Strategy
	return table, "", nil
}

// passesGate is the quick financial-layout heuristic: the candidate must
// mention both a line-item keyword and a header hint, or carry enough digits
// to plainly be a numeric table.
func (b *Builder) passesGate(rows [][]model.CandidateCell) bool {
	if len(rows) < 2 {
		return false
	}

	var sb strings.Builder
	for _, row := range rows {
		for _, cell := range row {
			sb.WriteString(cell.Text)
			sb.WriteString("\t")
		}
		sb.WriteString("\n")
	}
	text := sb.String()

	hasKeyword := containsAny(text, b.config.RowKeywords)
	hasHint := containsAny(text, b.config.HeaderHints)
	if hasKeyword && hasHint {
		return true
	}

	return model.DigitCount(text) >= b.config.GateMinDigits
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasDigit(rows [][]model.CandidateCell) bool {
	for _, row := range rows {
		for _, cell := range row {
			if model.DigitCount(cell.Text) > 0 {
				return true
			}
		}
	}
	return false
}

// nonEmptyRows drops rows whose cells are all blank.
func nonEmptyRows(grid [][]model.CandidateCell) [][]model.CandidateCell {
	var out [][]model.CandidateCell
	for _, row := range grid {
		keep := false
		for _, cell := range row {
			if strings.TrimSpace(cell.Text) != "" {
				keep = true
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out
}

// padRows pads ragged rows out to the widest row.
func padRows(rows [][]model.CandidateCell) [][]model.CandidateCell {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	out := make([][]model.CandidateCell, len(rows))
	for i, row := range rows {
		padded := make([]model.CandidateCell, width)
		copy(padded, row)
		out[i] = padded
	}
	return out
}

func pageNumber(c *model.Candidate) int {
	if c.Page != nil {
		return c.Page.Number
	}
	return 0
}
