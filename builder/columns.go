package builder

import (
	"fmt"
	"strings"
)

// finalizeNames cleans up the chosen header: blank names become positional
// ones, duplicates get a numeric suffix ("Amount", "Amount_2"), and the first
// column is forced to the canonical item name.
func (b *Builder) finalizeNames(columns []string) []string {
	out := make([]string, len(columns))
	counts := make(map[string]int, len(columns))
	used := make(map[string]bool, len(columns))

	for i, c := range columns {
		base := strings.TrimSpace(c)
		if i == 0 {
			base = b.config.ItemColumn
		} else if base == "" {
			base = fmt.Sprintf("Column_%d", i+1)
		}

		counts[base]++
		name := base
		if counts[base] > 1 {
			name = fmt.Sprintf("%s_%d", base, counts[base])
		}
		for used[name] {
			counts[base]++
			name = fmt.Sprintf("%s_%d", base, counts[base])
		}
		used[name] = true
		out[i] = name
	}

	return out
}

// dropEmptyColumns removes columns whose data cells are all empty.
func dropEmptyColumns(columns []string, grid [][]string) ([]string, [][]string) {
	keep := make([]bool, len(columns))
	kept := 0
	for j := range columns {
		for _, row := range grid {
			if j < len(row) && strings.TrimSpace(row[j]) != "" {
				keep[j] = true
				kept++
				break
			}
		}
	}
	if kept == len(columns) {
		return columns, grid
	}

	newCols := make([]string, 0, kept)
	for j, k := range keep {
		if k {
			newCols = append(newCols, columns[j])
		}
	}

	newGrid := make([][]string, len(grid))
	for i, row := range grid {
		cells := make([]string, 0, kept)
		for j, k := range keep {
			if !k {
				continue
			}
			if j < len(row) {
				cells = append(cells, row[j])
			} else {
				cells = append(cells, "")
			}
		}
		newGrid[i] = cells
	}

	return newCols, newGrid
}
