package fintab

import (
	"go.uber.org/zap"

	"fintab/config"
	"fintab/score"
)

// ExtractOptions holds configuration for a table extraction run.
type ExtractOptions struct {
	// Page selection (1-indexed); nil means all pages.
	pages []int

	// Output
	outputRoot string
	format     Format

	// Pipeline tuning
	cfg        *config.GlobalConfig
	topPerPage int
	workers    int

	// Logging
	logger *zap.Logger
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		pages:      nil,
		outputRoot: "",
		format:     FormatCSV,
		cfg:        config.NewDefaultGlobalConfig(),
		topPerPage: score.DefaultTopPerPage,
		workers:    0,
		logger:     zap.NewNop(),
	}
}

// clone creates a deep copy of ExtractOptions. The config pointer is shared;
// callers treat loaded configs as immutable.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}
	return newOpts
}
