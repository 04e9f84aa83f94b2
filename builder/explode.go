package builder

import (
	"math"
	"sort"
	"strings"

	"fintab/model"
)

// explodeLineTolerance is the baseline distance within which two fragments
// belong to the same visual line.
const explodeLineTolerance = 2.5

// explode splits rows whose cells hold multiple visual lines into one output
// row per line. Each fragment lands in the output row matching its own
// baseline, so a two-line label next to two stacked numbers becomes two
// properly paired rows. Cells without position data fall back to splitting
// on embedded newlines, distributed top to bottom.
func (b *Builder) explode(rows [][]model.CandidateCell) [][]string {
	var out [][]string
	for _, row := range rows {
		out = append(out, explodeRow(row)...)
	}
	return out
}

func explodeRow(row []model.CandidateCell) [][]string {
	baselines := rowBaselines(row)

	lineCount := len(baselines)
	for _, cell := range row {
		if len(cell.Fragments) == 0 {
			if n := len(cellSegments(cell.Text)); n > lineCount {
				lineCount = n
			}
		}
	}
	if lineCount <= 1 {
		return [][]string{cellTexts(row)}
	}

	grid := make([][]string, lineCount)
	for i := range grid {
		grid[i] = make([]string, len(row))
	}

	for j, cell := range row {
		if len(cell.Fragments) > 0 {
			for _, frag := range cell.Fragments {
				slot := baselineSlot(baselines, frag.BBox.Top())
				if grid[slot][j] != "" {
					grid[slot][j] += " "
				}
				grid[slot][j] += frag.Text
			}
			continue
		}
		// No position data: distribute newline segments top to bottom.
		for i, seg := range cellSegments(cell.Text) {
			if i >= lineCount {
				break
			}
			grid[i][j] = seg
		}
	}

	var out [][]string
	for _, cells := range grid {
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		for _, c := range cells {
			if c != "" {
				out = append(out, cells)
				break
			}
		}
	}
	if len(out) == 0 {
		return [][]string{cellTexts(row)}
	}
	return out
}

// rowBaselines collects the distinct fragment baselines across a row's
// cells, sorted top to bottom.
func rowBaselines(row []model.CandidateCell) []float64 {
	var tops []float64
	for _, cell := range row {
		for _, frag := range cell.Fragments {
			tops = append(tops, frag.BBox.Top())
		}
	}
	if len(tops) == 0 {
		return nil
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(tops)))

	var lines []float64
	for _, t := range tops {
		if len(lines) == 0 || lines[len(lines)-1]-t > explodeLineTolerance {
			lines = append(lines, t)
		}
	}
	return lines
}

// baselineSlot returns the index of the line nearest the given baseline.
func baselineSlot(baselines []float64, top float64) int {
	best := 0
	bestDist := math.MaxFloat64
	for i, b := range baselines {
		if d := math.Abs(b - top); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// cellSegments splits cell text on newlines, dropping blank and
// placeholder-only segments.
func cellSegments(text string) []string {
	s := strings.ReplaceAll(text, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var out []string
	for _, part := range strings.Split(s, "\n") {
		part = strings.TrimSpace(part)
		if part == "" || part == "-" || part == "—" || part == "–" {
			continue
		}
		out = append(out, part)
	}
	return out
}
