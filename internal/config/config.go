// Package config loads the optional YAML settings file that maps source CSV
// column headers to the fields the ingestion adapter needs. Exports from
// different ERP setups rename columns; the mapping keeps the adapter free of
// per-customer header knowledge.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Columns names the CSV headers carrying each field.
type Columns struct {
	ItemNo        string `yaml:"item_no"`
	ComponentNo   string `yaml:"component_no"`
	QuantityPer   string `yaml:"quantity_per"`
	Replenishment string `yaml:"replenishment_system"`
	UnitCost      string `yaml:"unit_cost"`
}

// Config is the full settings file.
type Config struct {
	Columns Columns `yaml:"columns"`
}

// Default returns the column headers of the standard export:
//
//	Item No., No., Quantity per, Item Replenishment System,
//	Current Unit Cost (LCY)
func Default() *Config {
	return &Config{
		Columns: Columns{
			ItemNo:        "Item No.",
			ComponentNo:   "No.",
			QuantityPer:   "Quantity per",
			Replenishment: "Item Replenishment System",
			UnitCost:      "Current Unit Cost (LCY)",
		},
	}
}

// Load reads a YAML settings file. Columns left unset fall back to the
// defaults, so a file only needs to name the headers that differ.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %q: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config %q: %w", path, err)
	}

	def := Default()
	if cfg.Columns.ItemNo == "" {
		cfg.Columns.ItemNo = def.Columns.ItemNo
	}
	if cfg.Columns.ComponentNo == "" {
		cfg.Columns.ComponentNo = def.Columns.ComponentNo
	}
	if cfg.Columns.QuantityPer == "" {
		cfg.Columns.QuantityPer = def.Columns.QuantityPer
	}
	if cfg.Columns.Replenishment == "" {
		cfg.Columns.Replenishment = def.Columns.Replenishment
	}
	if cfg.Columns.UnitCost == "" {
		cfg.Columns.UnitCost = def.Columns.UnitCost
	}
	return cfg, nil
}
