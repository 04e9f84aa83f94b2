package tables

import (
	"math"
	"sort"

	"fintab/model"
)

// LooseStrategy is the permissive fallback locator. It buckets fragments into
// visual rows by baseline, then splits each row into cells wherever the
// horizontal gap between fragments exceeds a word-space multiple of the font
// size. It finds tables the aligned strategies miss, at the cost of more
// false positives, which the quality filter downstream absorbs.
type LooseStrategy struct {
	config Config

	// RowTolerance is the baseline distance within which fragments share a row.
	RowTolerance float64

	// GapMultiplier scales font size into the cell-break gap threshold.
	GapMultiplier float64
}

// NewLooseStrategy creates a new loose strategy with default configuration.
func NewLooseStrategy() *LooseStrategy {
	return &LooseStrategy{
		config:        DefaultConfig(),
		RowTolerance:  3.0,
		GapMultiplier: 1.5,
	}
}

// Name returns the strategy's identifier ("loose").
func (s *LooseStrategy) Name() string {
	return "loose"
}

// Configure sets the strategy configuration.
func (s *LooseStrategy) Configure(config Config) error {
	s.config = config
	return nil
}

// Locate finds table candidates by visual row bucketing and gap splitting.
func (s *LooseStrategy) Locate(page *model.Page) ([]*model.Candidate, error) {
	if len(page.Fragments) == 0 {
		return nil, nil
	}

	clusters := clusterByVerticalGap(page.Fragments, s.config.ClusterGap)

	var candidates []*model.Candidate
	for _, cluster := range clusters {
		if c := s.candidateFromCluster(page, cluster); c != nil {
			candidates = append(candidates, c)
		}
	}

	return candidates, nil
}

func (s *LooseStrategy) candidateFromCluster(page *model.Page, fragments []model.TextFragment) *model.Candidate {
	rows := s.bucketIntoRows(fragments)
	if len(rows) < s.config.MinRows {
		return nil
	}

	// Split each visual row into cells at large horizontal gaps, tracking
	// the widest row to size the grid.
	cols := 0
	rowCells := make([][]model.CandidateCell, len(rows))
	for i, row := range rows {
		rowCells[i] = s.splitRowIntoCells(row)
		if len(rowCells[i]) > cols {
			cols = len(rowCells[i])
		}
	}
	if cols < s.config.MinCols {
		return nil
	}

	// A table needs most rows to break into more than one cell; otherwise
	// this is prose.
	multi := 0
	for _, cells := range rowCells {
		if len(cells) >= 2 {
			multi++
		}
	}
	ratio := float64(multi) / float64(len(rowCells))
	if ratio < 0.5 {
		return nil
	}

	grid := make([][]model.CandidateCell, len(rowCells))
	bbox := model.BBox{}
	for i, cells := range rowCells {
		grid[i] = make([]model.CandidateCell, cols)
		copy(grid[i], cells)
		for _, cell := range cells {
			for _, frag := range cell.Fragments {
				if bbox.IsEmpty() {
					bbox = frag.BBox
				} else {
					bbox = bbox.Union(frag.BBox)
				}
			}
		}
	}

	confidence := ratio * 0.6
	if confidence < s.config.MinConfidence {
		return nil
	}

	return &model.Candidate{
		Page:       page,
		Strategy:   s.Name(),
		Grid:       grid,
		BBox:       bbox,
		Confidence: confidence,
	}
}

// bucketIntoRows groups fragments sharing a baseline within RowTolerance,
// sorted top to bottom, each row left to right.
func (s *LooseStrategy) bucketIntoRows(fragments []model.TextFragment) [][]model.TextFragment {
	sorted := make([]model.TextFragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.Y > sorted[j].BBox.Y
	})

	var rows [][]model.TextFragment
	for _, frag := range sorted {
		placed := false
		for i := range rows {
			if math.Abs(rows[i][0].BBox.Y-frag.BBox.Y) <= s.RowTolerance {
				rows[i] = append(rows[i], frag)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, []model.TextFragment{frag})
		}
	}

	for i := range rows {
		sort.SliceStable(rows[i], func(a, b int) bool {
			return rows[i][a].BBox.Left() < rows[i][b].BBox.Left()
		})
	}

	return rows
}

// splitRowIntoCells breaks a visual row into cells at horizontal gaps wider
// than GapMultiplier times the font size.
func (s *LooseStrategy) splitRowIntoCells(row []model.TextFragment) []model.CandidateCell {
	if len(row) == 0 {
		return nil
	}

	var cells []model.CandidateCell
	current := model.CandidateCell{
		Text:      row[0].Text,
		Fragments: []model.TextFragment{row[0]},
	}

	for i := 1; i < len(row); i++ {
		prev := row[i-1]
		gap := row[i].BBox.Left() - prev.BBox.Right()

		threshold := prev.FontSize * s.GapMultiplier
		if threshold <= 0 {
			threshold = s.config.MaxCellGap
		}

		if gap > threshold {
			cells = append(cells, current)
			current = model.CandidateCell{
				Text:      row[i].Text,
				Fragments: []model.TextFragment{row[i]},
			}
		} else {
			current.Text += " " + row[i].Text
			current.Fragments = append(current.Fragments, row[i])
		}
	}
	cells = append(cells, current)

	return cells
}
