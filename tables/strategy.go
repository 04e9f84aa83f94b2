package tables

import (
	"fintab/model"
)

// Strategy is the interface for table locator algorithms. Each strategy scans
// a page independently and emits raw candidates; overlapping findings are
// reconciled later by the deduplicator.
type Strategy interface {
	// Locate finds table candidates on a page
	Locate(page *model.Page) ([]*model.Candidate, error)

	// Name returns the strategy name
	Name() string

	// Configure sets strategy parameters
	Configure(config Config) error
}

// Config holds locator configuration
type Config struct {
	// Minimum rows for a valid candidate
	MinRows int `json:"min_rows" yaml:"min_rows"`

	// Minimum columns for a valid candidate
	MinCols int `json:"min_cols" yaml:"min_cols"`

	// Minimum confidence threshold (0-1)
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"`

	// Tolerance for row/column alignment (points)
	AlignmentTolerance float64 `json:"alignment_tolerance" yaml:"alignment_tolerance"`

	// Maximum gap between text fragments to consider them in the same cell (points)
	MaxCellGap float64 `json:"max_cell_gap" yaml:"max_cell_gap"`

	// Minimum ruled-line length to consider (points)
	MinRuleLength float64 `json:"min_rule_length" yaml:"min_rule_length"`

	// Vertical gap that splits text into separate clusters (points)
	ClusterGap float64 `json:"cluster_gap" yaml:"cluster_gap"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinRows:            2,
		MinCols:            2,
		MinConfidence:      0.3,
		AlignmentTolerance: 3.0,
		MaxCellGap:         5.0,
		MinRuleLength:      10.0,
		ClusterGap:         50.0,
	}
}

// StrategyRegistry holds registered locator strategies
type StrategyRegistry struct {
	strategies map[string]Strategy
	order      []string
}

// NewRegistry creates a new strategy registry
func NewRegistry() *StrategyRegistry {
	return &StrategyRegistry{
		strategies: make(map[string]Strategy),
	}
}

// Register registers a strategy. Registration order is preserved so locator
// output stays deterministic across runs.
func (r *StrategyRegistry) Register(strategy Strategy) {
	name := strategy.Name()
	if _, ok := r.strategies[name]; !ok {
		r.order = append(r.order, name)
	}
	r.strategies[name] = strategy
}

// Get retrieves a strategy by name
func (r *StrategyRegistry) Get(name string) Strategy {
	return r.strategies[name]
}

// List returns all registered strategy names in registration order
func (r *StrategyRegistry) List() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Global registry
var globalRegistry = NewRegistry()

// RegisterStrategy registers a strategy globally
func RegisterStrategy(strategy Strategy) {
	globalRegistry.Register(strategy)
}

// GetStrategy retrieves a strategy by name
func GetStrategy(name string) Strategy {
	return globalRegistry.Get(name)
}

// ListStrategies returns all registered strategy names
func ListStrategies() []string {
	return globalRegistry.List()
}

// DefaultStrategies returns fresh instances of the built-in strategies in
// their canonical run order.
func DefaultStrategies() []Strategy {
	return []Strategy{
		NewRuledStrategy(),
		NewTextAlignStrategy(),
		NewHybridStrategy(),
		NewLooseStrategy(),
	}
}

func init() {
	// Register default strategies
	for _, s := range DefaultStrategies() {
		RegisterStrategy(s)
	}
}
