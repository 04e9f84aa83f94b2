package model

// GridScore rates how table-like a rectangular grid of cells is. Higher is
// better. The score rewards a healthy fill ratio and broad row/column
// coverage and penalizes grids that are nearly solid text or nearly empty.
// Both the table builder (to choose between header layouts) and the layout
// scorer build on this base.
func GridScore(grid [][]string) float64 {
	rows := len(grid)
	if rows == 0 {
		return 0
	}
	cols := 0
	for _, row := range grid {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return 0
	}

	total := rows * cols
	nonEmpty := 0
	rowHasContent := make([]bool, rows)
	colHasContent := make([]bool, cols)
	firstColNonEmpty := 0

	for i, row := range grid {
		for j := 0; j < cols; j++ {
			var cell string
			if j < len(row) {
				cell = row[j]
			}
			if IsBlankCell(cell) {
				continue
			}
			nonEmpty++
			rowHasContent[i] = true
			colHasContent[j] = true
			if j == 0 {
				firstColNonEmpty++
			}
		}
	}

	score := 0.0

	fill := float64(nonEmpty) / float64(total)
	switch {
	case fill >= 0.25 && fill <= 0.95:
		score += 30
	case fill > 0.95:
		score -= 10
	default:
		score -= 15
	}

	covered := 0
	for _, ok := range colHasContent {
		if ok {
			covered++
		}
	}
	colCoverage := float64(covered) / float64(cols)
	switch {
	case colCoverage >= 0.8:
		score += 20
	case colCoverage >= 0.6:
		score += 10
	default:
		score -= 8
	}

	covered = 0
	for _, ok := range rowHasContent {
		if ok {
			covered++
		}
	}
	rowCoverage := float64(covered) / float64(rows)
	switch {
	case rowCoverage >= 0.8:
		score += 20
	case rowCoverage >= 0.6:
		score += 10
	default:
		score -= 8
	}

	firstColRatio := float64(firstColNonEmpty) / float64(rows)
	switch {
	case firstColRatio >= 0.6:
		score += 10
	case firstColRatio < 0.2:
		score -= 5
	}

	return score
}
