// Package config loads pipeline settings from a YAML or JSON file, with
// environment-variable overrides, and falls back to built-in defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"fintab/builder"
	"fintab/filter"
	"fintab/score"
	"fintab/tables"
)

// GlobalConfig aggregates the settings of every pipeline stage.
type GlobalConfig struct {
	Tables  tables.Config  `json:"tables" yaml:"tables"`
	Builder builder.Config `json:"builder" yaml:"builder"`
	Filter  filter.Config  `json:"filter" yaml:"filter"`
	Score   score.Config   `json:"score" yaml:"score"`

	// TopPerPage caps how many tables per page are promoted to the
	// selected output set.
	TopPerPage int `json:"top_per_page" yaml:"top_per_page"`

	// Workers bounds concurrent page processing. Zero means one worker
	// per CPU.
	Workers int `json:"workers" yaml:"workers"`
}

// NewDefaultGlobalConfig returns the defaults every stage ships with.
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Tables:     tables.DefaultConfig(),
		Builder:    builder.DefaultConfig(),
		Filter:     filter.DefaultConfig(),
		Score:      score.DefaultConfig(),
		TopPerPage: score.DefaultTopPerPage,
		Workers:    0,
	}
}

// Validate reports every invalid setting rather than stopping at the first.
func (g *GlobalConfig) Validate() []error {
	var errs = make([]error, 0)
	if g.TopPerPage < 1 {
		errs = append(errs, errors.Errorf("top_per_page must be at least 1, got %d", g.TopPerPage))
	}
	if g.Workers < 0 {
		errs = append(errs, errors.Errorf("workers must not be negative, got %d", g.Workers))
	}
	if g.Filter.MinColumns < 1 {
		errs = append(errs, errors.Errorf("filter.min_columns must be at least 1, got %d", g.Filter.MinColumns))
	}
	if g.Filter.MinRows < 1 {
		errs = append(errs, errors.Errorf("filter.min_rows must be at least 1, got %d", g.Filter.MinRows))
	}
	if g.Filter.MaxEmptyRatio < 0 || g.Filter.MaxEmptyRatio > 1 {
		errs = append(errs, errors.Errorf("filter.max_empty_ratio must be within [0,1], got %v", g.Filter.MaxEmptyRatio))
	}
	if g.Tables.MinRows < 1 || g.Tables.MinCols < 1 {
		errs = append(errs, errors.Errorf("tables.min_rows and tables.min_cols must be at least 1"))
	}
	if g.Builder.ItemColumn == "" {
		errs = append(errs, errors.New("builder.item_column must not be empty"))
	}
	return errs
}

// TryLoadFromDisk reads a config file, layering it over the defaults. The
// file extension picks both the format and the struct tag set.
func TryLoadFromDisk(configFilePath string) (*GlobalConfig, error) {
	_, err := os.Stat(configFilePath)
	if err != nil {
		return nil, err
	}
	dir, file := filepath.Split(configFilePath)
	fileType := filepath.Ext(file)
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(strings.TrimSuffix(file, fileType))
	v.SetConfigType(strings.TrimPrefix(fileType, "."))
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading config %s", configFilePath)
	}
	cfg := NewDefaultGlobalConfig()
	if err := v.Unmarshal(cfg, func(config *mapstructure.DecoderConfig) {
		config.TagName = strings.TrimPrefix(fileType, ".")
	}); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	return cfg, nil
}
