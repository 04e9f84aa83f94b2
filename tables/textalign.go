package tables

import (
	"fintab/model"
)

// TextAlignStrategy locates tables from text alignment alone. It clusters
// fragments by vertical proximity, derives row and column boundaries from the
// fragment edges in each cluster, and keeps clusters whose alignment pattern
// looks tabular. This catches the borderless tables common in financial
// reports.
type TextAlignStrategy struct {
	config Config
}

// NewTextAlignStrategy creates a new text-alignment strategy with default configuration.
func NewTextAlignStrategy() *TextAlignStrategy {
	return &TextAlignStrategy{
		config: DefaultConfig(),
	}
}

// Name returns the strategy's identifier ("textalign").
func (s *TextAlignStrategy) Name() string {
	return "textalign"
}

// Configure sets the strategy configuration.
func (s *TextAlignStrategy) Configure(config Config) error {
	s.config = config
	return nil
}

// Locate finds tables on a page by clustering fragments and analyzing each
// cluster for tabular alignment.
func (s *TextAlignStrategy) Locate(page *model.Page) ([]*model.Candidate, error) {
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

// candidateFromCluster attempts to read a table out of one fragment cluster.
func (s *TextAlignStrategy) candidateFromCluster(page *model.Page, fragments []model.TextFragment) *model.Candidate {
	if len(fragments) < s.config.MinRows*s.config.MinCols {
		return nil
	}

	frame := s.buildFrame(fragments)
	if frame == nil || frame.RowCount() < s.config.MinRows || frame.ColCount() < s.config.MinCols {
		return nil
	}

	confidence := s.confidence(frame, fragments)
	if confidence < s.config.MinConfidence {
		return nil
	}

	return &model.Candidate{
		Page:       page,
		Strategy:   s.Name(),
		Grid:       frame.assignFragments(fragments),
		BBox:       frame.BBox(),
		Confidence: confidence,
	}
}

// buildFrame derives row and column boundaries from fragment edges.
func (s *TextAlignStrategy) buildFrame(fragments []model.TextFragment) *gridFrame {
	rows := rowBoundariesFromText(fragments, s.config.AlignmentTolerance)
	if len(rows) < s.config.MinRows+1 {
		return nil
	}

	cols := colBoundariesFromText(fragments, s.config.AlignmentTolerance)
	if len(cols) < s.config.MinCols+1 {
		return nil
	}

	return &gridFrame{Rows: rows, Cols: cols}
}

// confidence combines spacing regularity (30%), edge alignment quality (40%),
// and cell occupancy (30%). With no drawn rules to lean on, alignment carries
// the most weight.
func (s *TextAlignStrategy) confidence(frame *gridFrame, fragments []model.TextFragment) float64 {
	score := frameRegularity(frame) * 0.3
	score += frameAlignment(frame, fragments, s.config.AlignmentTolerance) * 0.4
	score += frameOccupancy(frame, fragments) * 0.3
	return score
}
