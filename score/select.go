package score

import "fintab/model"

// DefaultTopPerPage is how many tables the selector keeps per page.
const DefaultTopPerPage = 2

// SelectTopPerPage picks the k highest-scoring tables on each page. Ties keep
// the earlier table. The input order is preserved in the result, and the
// input itself is never modified: selection marks copies, it does not delete.
func SelectTopPerPage(tables []*model.StructuredTable, k int) []*model.StructuredTable {
	if k <= 0 || len(tables) == 0 {
		return nil
	}

	type ranked struct {
		table *model.StructuredTable
		pos   int
	}
	byPage := make(map[int][]ranked)
	for i, t := range tables {
		byPage[t.Page] = append(byPage[t.Page], ranked{table: t, pos: i})
	}

	chosen := make(map[int]bool)
	for _, list := range byPage {
		// Insertion-sort by score descending; stable, so equal scores keep
		// their original order.
		for i := 1; i < len(list); i++ {
			for j := i; j > 0 && list[j].table.Score > list[j-1].table.Score; j-- {
				list[j], list[j-1] = list[j-1], list[j]
			}
		}
		limit := k
		if limit > len(list) {
			limit = len(list)
		}
		for _, r := range list[:limit] {
			chosen[r.pos] = true
		}
	}

	out := make([]*model.StructuredTable, 0, len(chosen))
	for i, t := range tables {
		if chosen[i] {
			out = append(out, t)
		}
	}
	return out
}
