package tables

import (
	"math"
	"sort"

	"fintab/model"
)

// gridFrame describes the row and column boundaries a strategy has settled
// on. Rows are Y coordinates sorted descending (PDF coordinates: top is
// larger); Cols are X coordinates sorted ascending.
type gridFrame struct {
	Rows []float64
	Cols []float64
}

// RowCount returns the number of cell rows.
func (f *gridFrame) RowCount() int {
	if len(f.Rows) < 2 {
		return 0
	}
	return len(f.Rows) - 1
}

// ColCount returns the number of cell columns.
func (f *gridFrame) ColCount() int {
	if len(f.Cols) < 2 {
		return 0
	}
	return len(f.Cols) - 1
}

// BBox returns the frame's overall bounding box.
func (f *gridFrame) BBox() model.BBox {
	if f.RowCount() == 0 || f.ColCount() == 0 {
		return model.BBox{}
	}
	return model.BBox{
		X:      f.Cols[0],
		Y:      f.Rows[len(f.Rows)-1],
		Width:  f.Cols[len(f.Cols)-1] - f.Cols[0],
		Height: f.Rows[0] - f.Rows[len(f.Rows)-1],
	}
}

// findCell returns the cell indices containing the point, or (-1, -1).
func (f *gridFrame) findCell(p model.Point) (row, col int) {
	row, col = -1, -1

	for i := 0; i < f.RowCount(); i++ {
		if p.Y <= f.Rows[i] && p.Y >= f.Rows[i+1] {
			row = i
			break
		}
	}
	for i := 0; i < f.ColCount(); i++ {
		if p.X >= f.Cols[i] && p.X <= f.Cols[i+1] {
			col = i
			break
		}
	}
	return row, col
}

// assignFragments places fragments into the frame's cells by center position.
// Fragments landing in the same cell are kept in reading order and their text
// is joined with a single space.
func (f *gridFrame) assignFragments(fragments []model.TextFragment) [][]model.CandidateCell {
	rows := f.RowCount()
	cols := f.ColCount()
	grid := make([][]model.CandidateCell, rows)
	for i := range grid {
		grid[i] = make([]model.CandidateCell, cols)
	}

	for _, frag := range fragments {
		r, c := f.findCell(frag.BBox.Center())
		if r < 0 || c < 0 {
			continue
		}
		grid[r][c].Fragments = append(grid[r][c].Fragments, frag)
	}

	for i := range grid {
		for j := range grid[i] {
			cell := &grid[i][j]
			sort.SliceStable(cell.Fragments, func(a, b int) bool {
				fa, fb := cell.Fragments[a], cell.Fragments[b]
				if math.Abs(fa.BBox.Top()-fb.BBox.Top()) > 2.0 {
					return fa.BBox.Top() > fb.BBox.Top()
				}
				return fa.BBox.Left() < fb.BBox.Left()
			})
			for _, frag := range cell.Fragments {
				if cell.Text != "" {
					cell.Text += " "
				}
				cell.Text += frag.Text
			}
		}
	}

	return grid
}

// clusterValues clusters nearby sorted values within the given tolerance,
// averaging values that fall within the tolerance of the cluster center.
func clusterValues(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	clustered := []float64{values[0]}

	for i := 1; i < len(values); i++ {
		diff := values[i] - clustered[len(clustered)-1]
		if diff > tolerance {
			clustered = append(clustered, values[i])
		} else {
			clustered[len(clustered)-1] = (clustered[len(clustered)-1] + values[i]) / 2
		}
	}

	return clustered
}

// rowBoundariesFromText extracts row boundaries by clustering the top and
// bottom edges of the fragments. Returned descending.
func rowBoundariesFromText(fragments []model.TextFragment, tolerance float64) []float64 {
	if len(fragments) == 0 {
		return nil
	}

	yValues := make([]float64, 0, len(fragments)*2)
	for _, frag := range fragments {
		yValues = append(yValues, frag.BBox.Top(), frag.BBox.Bottom())
	}
	sort.Float64s(yValues)

	clustered := clusterValues(yValues, tolerance)
	sort.Sort(sort.Reverse(sort.Float64Slice(clustered)))
	return clustered
}

// colBoundariesFromText extracts column boundaries by clustering the left and
// right edges of the fragments. Returned ascending.
func colBoundariesFromText(fragments []model.TextFragment, tolerance float64) []float64 {
	if len(fragments) == 0 {
		return nil
	}

	xValues := make([]float64, 0, len(fragments)*2)
	for _, frag := range fragments {
		xValues = append(xValues, frag.BBox.Left(), frag.BBox.Right())
	}
	sort.Float64s(xValues)

	return clusterValues(xValues, tolerance)
}

// clusterByVerticalGap splits fragments into blocks separated by large
// vertical whitespace. Fragments are sorted top to bottom first.
func clusterByVerticalGap(fragments []model.TextFragment, gap float64) [][]model.TextFragment {
	if len(fragments) == 0 {
		return nil
	}

	sorted := make([]model.TextFragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.Y > sorted[j].BBox.Y
	})

	var clusters [][]model.TextFragment
	current := []model.TextFragment{sorted[0]}

	for i := 1; i < len(sorted); i++ {
		last := current[len(current)-1].BBox
		next := sorted[i].BBox

		verticalGap := last.Y - (next.Y + next.Height)
		if verticalGap > gap {
			clusters = append(clusters, current)
			current = []model.TextFragment{sorted[i]}
		} else {
			current = append(current, sorted[i])
		}
	}
	clusters = append(clusters, current)

	return clusters
}

// frameRegularity measures how regular the frame spacing is via the
// coefficient of variation of row heights and column widths.
func frameRegularity(f *gridFrame) float64 {
	rowScore := 1.0
	if f.RowCount() > 1 {
		heights := make([]float64, f.RowCount())
		for i := 0; i < f.RowCount(); i++ {
			heights[i] = f.Rows[i] - f.Rows[i+1]
		}
		rowScore = math.Max(0, 1-coefficientOfVariation(heights))
	}

	colScore := 1.0
	if f.ColCount() > 1 {
		widths := make([]float64, f.ColCount())
		for i := 0; i < f.ColCount(); i++ {
			widths[i] = f.Cols[i+1] - f.Cols[i]
		}
		colScore = math.Max(0, 1-coefficientOfVariation(widths))
	}

	return (rowScore + colScore) / 2
}

// frameOccupancy measures the fraction of frame cells that contain at least
// one fragment.
func frameOccupancy(f *gridFrame, fragments []model.TextFragment) float64 {
	total := f.RowCount() * f.ColCount()
	if total == 0 {
		return 0
	}

	occupied := make(map[[2]int]bool)
	for _, frag := range fragments {
		r, c := f.findCell(frag.BBox.Center())
		if r >= 0 && c >= 0 {
			occupied[[2]int{r, c}] = true
		}
	}

	return float64(len(occupied)) / float64(total)
}

// frameAlignment measures the fraction of fragments with at least 2 of their
// 4 edges aligned to frame boundaries within tolerance.
func frameAlignment(f *gridFrame, fragments []model.TextFragment, tolerance float64) float64 {
	if len(fragments) == 0 {
		return 0
	}

	near := func(value float64, lines []float64) bool {
		for _, l := range lines {
			if math.Abs(value-l) < tolerance*2 {
				return true
			}
		}
		return false
	}

	aligned := 0
	for _, frag := range fragments {
		count := 0
		if near(frag.BBox.Left(), f.Cols) {
			count++
		}
		if near(frag.BBox.Right(), f.Cols) {
			count++
		}
		if near(frag.BBox.Top(), f.Rows) {
			count++
		}
		if near(frag.BBox.Bottom(), f.Rows) {
			count++
		}
		if count >= 2 {
			aligned++
		}
	}

	return float64(aligned) / float64(len(fragments))
}

// coefficientOfVariation calculates CV (std dev / mean)
func coefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	m := 0.0
	for _, v := range values {
		m += v
	}
	m /= float64(len(values))

	if m == 0 {
		return 0
	}

	v := 0.0
	for _, val := range values {
		diff := val - m
		v += diff * diff
	}
	v /= float64(len(values))

	return math.Sqrt(v) / m
}
