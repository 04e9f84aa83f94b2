package builder

import (
	"regexp"
	"strings"

	"fintab/model"
)

var (
	yearHeader  = regexp.MustCompile(`20\d{2}\s*年`)
	numericCell = regexp.MustCompile(`^[\(（]?[-+]?\d[\d,，]*[\)）]?$`)
)

// chooseHeader picks between two header plans: the simple one (first row
// becomes the header) and a reconstructed one merging consecutive header-like
// rows from the top. The reconstructed plan wins only when it carries a
// header hint and its body structure score beats the simple plan by the
// configured margin.
func (b *Builder) chooseHeader(rows [][]model.CandidateCell) ([]string, [][]model.CandidateCell) {
	simpleCols := cellTexts(rows[0])
	simpleData := rows[1:]

	reconCols, reconData := b.reconstructHeader(rows)
	if reconCols == nil || len(reconData) == 0 {
		return simpleCols, simpleData
	}

	if !b.headerHasHint(reconCols) {
		return simpleCols, simpleData
	}

	simpleScore := model.GridScore(textGrid(simpleData))
	reconScore := model.GridScore(textGrid(reconData))
	if reconScore >= simpleScore+b.config.ReconMargin {
		return reconCols, reconData
	}
	return simpleCols, simpleData
}

// reconstructHeader scans the top rows for a consecutive run of header-like
// rows and merges them columnwise into a single header. Returns nil columns
// when no header-like run exists.
func (b *Builder) reconstructHeader(rows [][]model.CandidateCell) ([]string, [][]model.CandidateCell) {
	top := b.config.HeaderScanRows
	if top > len(rows) {
		top = len(rows)
	}

	var headerIdxs []int
	for i := 0; i < top; i++ {
		if b.looksLikeHeader(cellTexts(rows[i])) {
			headerIdxs = append(headerIdxs, i)
		} else if len(headerIdxs) > 0 {
			break
		}
	}
	if len(headerIdxs) == 0 {
		return nil, nil
	}
	if len(headerIdxs) > b.config.MaxHeaderRows {
		headerIdxs = headerIdxs[:b.config.MaxHeaderRows]
	}

	width := len(rows[0])
	parts := make([][]string, width)
	for _, hi := range headerIdxs {
		for j, cell := range rows[hi] {
			v := strings.TrimSpace(cell.Text)
			if v != "" {
				parts[j] = append(parts[j], v)
			}
		}
	}

	cols := make([]string, width)
	for j, p := range parts {
		cols[j] = strings.Join(p, " ")
	}

	return cols, rows[headerIdxs[len(headerIdxs)-1]+1:]
}

// looksLikeHeader scores a row for header-likeness: hint cells weigh double,
// year cells and short cells add, number-like cells subtract.
func (b *Builder) looksLikeHeader(cells []string) bool {
	any := false
	for _, c := range cells {
		if c != "" {
			any = true
			break
		}
	}
	if !any {
		return false
	}

	hints, years, shorts, numLike := 0, 0, 0, 0
	for _, c := range cells {
		if containsAny(c, b.config.HeaderHints) {
			hints++
		}
		if yearHeader.MatchString(c) {
			years++
		}
		if n := model.RuneLen(c); n > 0 && n <= 6 {
			shorts++
		}
		if numericCell.MatchString(c) {
			numLike++
		}
	}

	score := float64(hints)*2 + float64(years) + float64(shorts)*0.2 - float64(numLike)*0.5
	return score >= 2
}

func (b *Builder) headerHasHint(cols []string) bool {
	for _, c := range cols {
		if containsAny(c, b.config.HeaderHints) {
			return true
		}
	}
	return false
}

func cellTexts(row []model.CandidateCell) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell.Text)
	}
	return out
}

func textGrid(rows [][]model.CandidateCell) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = cellTexts(row)
	}
	return out
}
