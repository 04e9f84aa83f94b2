package tables

import (
	"sort"

	"fintab/model"
)

// Deduplicate collapses candidates that fingerprint to the same underlying
// table. For each signature group the representative is the candidate with
// the fewest blank cells, ties going to the earliest-discovered candidate.
// Fully empty candidates are dropped outright. The survivors come back in
// their original discovery order.
func Deduplicate(candidates []*model.Candidate) []*model.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	type group struct {
		best      *model.Candidate
		bestEmpty int
		bestOrder int
	}

	groups := make(map[model.Signature]*group)
	var sigOrder []model.Signature

	for i, c := range candidates {
		if c.IsFullyEmpty() {
			continue
		}

		sig := c.ComputeSignature()
		empty := c.EmptyCells()

		g, ok := groups[sig]
		if !ok {
			groups[sig] = &group{best: c, bestEmpty: empty, bestOrder: i}
			sigOrder = append(sigOrder, sig)
			continue
		}
		if empty < g.bestEmpty {
			g.best = c
			g.bestEmpty = empty
			g.bestOrder = i
		}
	}

	kept := make([]*group, 0, len(sigOrder))
	for _, sig := range sigOrder {
		kept = append(kept, groups[sig])
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].bestOrder < kept[j].bestOrder
	})

	out := make([]*model.Candidate, len(kept))
	for i, g := range kept {
		out[i] = g.best
	}
	return out
}
