package tables

import (
	"math"
	"sort"

	"fintab/model"
)

// RuledStrategy locates tables from drawn rules. It groups aligned horizontal
// and vertical rules into frame boundaries and keeps frames where enough
// rules intersect to form a grid. This is the highest-precision strategy:
// candidates backed by a drawn grid rarely turn out to be prose.
type RuledStrategy struct {
	config Config
}

// NewRuledStrategy creates a new ruled-line strategy with default configuration.
func NewRuledStrategy() *RuledStrategy {
	return &RuledStrategy{
		config: DefaultConfig(),
	}
}

// Name returns the strategy's identifier ("ruled").
func (s *RuledStrategy) Name() string {
	return "ruled"
}

// Configure sets the strategy configuration.
func (s *RuledStrategy) Configure(config Config) error {
	s.config = config
	return nil
}

// alignedRuleGroup represents rules aligned on an axis.
type alignedRuleGroup struct {
	// Position on the alignment axis (X for vertical rules, Y for horizontal)
	Position float64

	Rules []model.Rule

	// Span of the rules on the perpendicular axis
	MinExtent float64
	MaxExtent float64
}

// Locate finds ruled tables on a page.
func (s *RuledStrategy) Locate(page *model.Page) ([]*model.Candidate, error) {
	horizontals := s.filterByLength(page.HorizontalRules())
	verticals := s.filterByLength(page.VerticalRules())

	if len(horizontals) < s.config.MinRows+1 || len(verticals) < s.config.MinCols+1 {
		return nil, nil
	}

	hGroups := s.groupAlignedRules(horizontals, true)
	vGroups := s.groupAlignedRules(verticals, false)

	if len(hGroups) < s.config.MinRows+1 || len(vGroups) < s.config.MinCols+1 {
		return nil, nil
	}

	frame := s.buildFrame(hGroups, vGroups)
	if frame == nil {
		return nil, nil
	}

	confidence := s.confidence(frame, hGroups, vGroups)
	if confidence < s.config.MinConfidence {
		return nil, nil
	}

	fragments := page.FragmentsIn(frame.BBox())
	candidate := &model.Candidate{
		Page:       page,
		Strategy:   s.Name(),
		Grid:       frame.assignFragments(fragments),
		BBox:       frame.BBox(),
		Confidence: confidence,
	}

	return []*model.Candidate{candidate}, nil
}

// filterByLength drops rules shorter than the minimum length.
func (s *RuledStrategy) filterByLength(rules []model.Rule) []model.Rule {
	result := make([]model.Rule, 0, len(rules))
	for _, r := range rules {
		if r.Length() >= s.config.MinRuleLength {
			result = append(result, r)
		}
	}
	return result
}

// groupAlignedRules groups rules that are aligned on the same axis.
func (s *RuledStrategy) groupAlignedRules(rules []model.Rule, isHorizontal bool) []alignedRuleGroup {
	if len(rules) == 0 {
		return nil
	}

	position := func(r model.Rule) float64 {
		if isHorizontal {
			return (r.Start.Y + r.End.Y) / 2
		}
		return (r.Start.X + r.End.X) / 2
	}

	sorted := make([]model.Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return position(sorted[i]) < position(sorted[j])
	})

	var groups []alignedRuleGroup
	current := alignedRuleGroup{
		Position: position(sorted[0]),
		Rules:    []model.Rule{sorted[0]},
	}

	for i := 1; i < len(sorted); i++ {
		pos := position(sorted[i])
		if pos-current.Position <= s.config.AlignmentTolerance {
			current.Rules = append(current.Rules, sorted[i])
			current.Position = (current.Position*float64(len(current.Rules)-1) + pos) / float64(len(current.Rules))
		} else {
			s.finalizeGroup(&current, isHorizontal)
			groups = append(groups, current)
			current = alignedRuleGroup{
				Position: pos,
				Rules:    []model.Rule{sorted[i]},
			}
		}
	}
	s.finalizeGroup(&current, isHorizontal)
	groups = append(groups, current)

	return groups
}

// finalizeGroup calculates the perpendicular extent of an aligned group.
func (s *RuledStrategy) finalizeGroup(group *alignedRuleGroup, isHorizontal bool) {
	group.MinExtent = math.MaxFloat64
	group.MaxExtent = -math.MaxFloat64

	for _, r := range group.Rules {
		var minVal, maxVal float64
		if isHorizontal {
			minVal = math.Min(r.Start.X, r.End.X)
			maxVal = math.Max(r.Start.X, r.End.X)
		} else {
			minVal = math.Min(r.Start.Y, r.End.Y)
			maxVal = math.Max(r.Start.Y, r.End.Y)
		}
		if minVal < group.MinExtent {
			group.MinExtent = minVal
		}
		if maxVal > group.MaxExtent {
			group.MaxExtent = maxVal
		}
	}
}

// buildFrame keeps the aligned groups that actually span the grid region and
// turns them into a frame.
func (s *RuledStrategy) buildFrame(hGroups, vGroups []alignedRuleGroup) *gridFrame {
	gridLeft := minPosition(vGroups)
	gridRight := maxPosition(vGroups)
	gridBottom := minPosition(hGroups)
	gridTop := maxPosition(hGroups)

	if gridRight <= gridLeft || gridTop <= gridBottom {
		return nil
	}

	// Horizontal rules should span most of the grid width, vertical rules
	// most of its height.
	relevantH := filterGroupsByExtent(hGroups, gridLeft, gridRight)
	relevantV := filterGroupsByExtent(vGroups, gridBottom, gridTop)

	if len(relevantH) < s.config.MinRows+1 || len(relevantV) < s.config.MinCols+1 {
		return nil
	}

	sort.Slice(relevantH, func(i, j int) bool {
		return relevantH[i].Position > relevantH[j].Position
	})
	sort.Slice(relevantV, func(i, j int) bool {
		return relevantV[i].Position < relevantV[j].Position
	})

	frame := &gridFrame{
		Rows: make([]float64, len(relevantH)),
		Cols: make([]float64, len(relevantV)),
	}
	for i, g := range relevantH {
		frame.Rows[i] = g.Position
	}
	for i, g := range relevantV {
		frame.Cols[i] = g.Position
	}

	return frame
}

// confidence scores a ruled frame from cell count, spacing regularity, and
// border completeness.
func (s *RuledStrategy) confidence(frame *gridFrame, hGroups, vGroups []alignedRuleGroup) float64 {
	score := 0.0

	cellCount := frame.RowCount() * frame.ColCount()
	if cellCount >= 4 {
		score += 0.2
	}
	if cellCount >= 9 {
		score += 0.1
	}

	score += frameRegularity(frame) * 0.3

	borders := 0.0
	top := frame.Rows[0]
	bottom := frame.Rows[len(frame.Rows)-1]
	left := frame.Cols[0]
	right := frame.Cols[len(frame.Cols)-1]
	if math.Abs(maxPosition(hGroups)-top) < s.config.AlignmentTolerance {
		borders += 0.25
	}
	if math.Abs(minPosition(hGroups)-bottom) < s.config.AlignmentTolerance {
		borders += 0.25
	}
	if math.Abs(minPosition(vGroups)-left) < s.config.AlignmentTolerance {
		borders += 0.25
	}
	if math.Abs(maxPosition(vGroups)-right) < s.config.AlignmentTolerance {
		borders += 0.25
	}
	score += borders * 0.2

	// Drawn grids earn a base boost; the frame only exists because the rules
	// do.
	score += 0.2

	return math.Min(1.0, score)
}

// minPosition returns the minimum position across all groups.
func minPosition(groups []alignedRuleGroup) float64 {
	if len(groups) == 0 {
		return 0
	}
	min := groups[0].Position
	for _, g := range groups[1:] {
		if g.Position < min {
			min = g.Position
		}
	}
	return min
}

// maxPosition returns the maximum position across all groups.
func maxPosition(groups []alignedRuleGroup) float64 {
	if len(groups) == 0 {
		return 0
	}
	max := groups[0].Position
	for _, g := range groups[1:] {
		if g.Position > max {
			max = g.Position
		}
	}
	return max
}

// filterGroupsByExtent keeps groups whose rules span at least half the given
// extent and overlap it.
func filterGroupsByExtent(groups []alignedRuleGroup, minExtent, maxExtent float64) []alignedRuleGroup {
	var result []alignedRuleGroup
	required := (maxExtent - minExtent) * 0.5

	for _, g := range groups {
		coverage := g.MaxExtent - g.MinExtent
		if coverage < required {
			continue
		}
		overlapMin := math.Max(g.MinExtent, minExtent)
		overlapMax := math.Min(g.MaxExtent, maxExtent)
		if overlapMax > overlapMin {
			result = append(result, g)
		}
	}

	return result
}
