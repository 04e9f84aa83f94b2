package tables

import (
	"sort"

	"fintab/model"
)

// HybridStrategy combines the two signal types: row boundaries come from
// drawn horizontal rules when the page has them, column boundaries come from
// text alignment. Financial statements very often rule only the rows, so
// neither pure strategy sees the full grid.
type HybridStrategy struct {
	config Config
}

// NewHybridStrategy creates a new hybrid strategy with default configuration.
func NewHybridStrategy() *HybridStrategy {
	return &HybridStrategy{
		config: DefaultConfig(),
	}
}

// Name returns the strategy's identifier ("hybrid").
func (s *HybridStrategy) Name() string {
	return "hybrid"
}

// Configure sets the strategy configuration.
func (s *HybridStrategy) Configure(config Config) error {
	s.config = config
	return nil
}

// Locate finds tables using horizontal rules for rows and text edges for
// columns.
func (s *HybridStrategy) Locate(page *model.Page) ([]*model.Candidate, error) {
	if len(page.Fragments) == 0 {
		return nil, nil
	}

	rows := s.rowBoundariesFromRules(page)
	if len(rows) < s.config.MinRows+1 {
		return nil, nil
	}

	// Only fragments between the outermost rules belong to the table.
	top := rows[0] + s.config.AlignmentTolerance
	bottom := rows[len(rows)-1] - s.config.AlignmentTolerance
	var fragments []model.TextFragment
	for _, f := range page.Fragments {
		c := f.BBox.Center()
		if c.Y <= top && c.Y >= bottom {
			fragments = append(fragments, f)
		}
	}
	if len(fragments) < s.config.MinRows*s.config.MinCols {
		return nil, nil
	}

	cols := colBoundariesFromText(fragments, s.config.AlignmentTolerance)
	if len(cols) < s.config.MinCols+1 {
		return nil, nil
	}

	frame := &gridFrame{Rows: rows, Cols: cols}
	confidence := s.confidence(frame, fragments)
	if confidence < s.config.MinConfidence {
		return nil, nil
	}

	candidate := &model.Candidate{
		Page:       page,
		Strategy:   s.Name(),
		Grid:       frame.assignFragments(fragments),
		BBox:       frame.BBox(),
		Confidence: confidence,
	}

	return []*model.Candidate{candidate}, nil
}

// rowBoundariesFromRules clusters horizontal rule positions into row
// boundaries, sorted descending.
func (s *HybridStrategy) rowBoundariesFromRules(page *model.Page) []float64 {
	var positions []float64
	for _, r := range page.HorizontalRules() {
		if r.Length() >= s.config.MinRuleLength {
			positions = append(positions, (r.Start.Y+r.End.Y)/2)
		}
	}
	if len(positions) == 0 {
		return nil
	}

	sort.Float64s(positions)
	clustered := clusterValues(positions, s.config.AlignmentTolerance)
	sort.Sort(sort.Reverse(sort.Float64Slice(clustered)))
	return clustered
}

// confidence weights the drawn row structure (40%), text alignment to the
// derived columns (30%), and occupancy (30%).
func (s *HybridStrategy) confidence(frame *gridFrame, fragments []model.TextFragment) float64 {
	score := 0.4 // rows are backed by drawn rules
	score += frameAlignment(frame, fragments, s.config.AlignmentTolerance) * 0.3
	score += frameOccupancy(frame, fragments) * 0.3
	return score
}
