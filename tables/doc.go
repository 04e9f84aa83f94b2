// Package tables locates table candidates on PDF pages and reconciles
// overlapping findings.
//
// # Strategies
//
// Location is performed by types implementing the [Strategy] interface. The
// package provides four built-in strategies, run in order:
//
//   - [RuledStrategy] - builds grids from drawn rules
//   - [TextAlignStrategy] - builds grids from text edge alignment
//   - [HybridStrategy] - drawn rules for rows, text alignment for columns
//   - [LooseStrategy] - permissive baseline bucketing with gap splitting
//
// Strategies are registered globally and can be retrieved by name:
//
//	strategy := tables.GetStrategy("ruled")
//	candidates, err := strategy.Locate(page)
//
// # Deduplication
//
// Multiple strategies routinely find the same table. [Deduplicate] groups
// candidates by content signature and keeps, per group, the candidate with
// the fewest blank cells; survivors retain their discovery order.
//
// # Configuration
//
// Strategy behavior is controlled by [Config]:
//
//	config := tables.DefaultConfig()
//	config.MinRows = 3
//	config.MinConfidence = 0.5
//	strategy.Configure(config)
package tables
