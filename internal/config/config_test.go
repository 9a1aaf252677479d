package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "columns.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Columns.ItemNo != "Item No." {
		t.Errorf("ItemNo = %q", cfg.Columns.ItemNo)
	}
	if cfg.Columns.UnitCost != "Current Unit Cost (LCY)" {
		t.Errorf("UnitCost = %q", cfg.Columns.UnitCost)
	}
}

func TestLoad_PartialFileFallsBackToDefaults(t *testing.T) {
	path := writeFile(t, "columns:\n  item_no: Parent Item\n  component_no: Child Item\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Columns.ItemNo != "Parent Item" {
		t.Errorf("ItemNo = %q, want %q", cfg.Columns.ItemNo, "Parent Item")
	}
	if cfg.Columns.ComponentNo != "Child Item" {
		t.Errorf("ComponentNo = %q, want %q", cfg.Columns.ComponentNo, "Child Item")
	}
	if cfg.Columns.QuantityPer != "Quantity per" {
		t.Errorf("unset column must fall back to default, got %q", cfg.Columns.QuantityPer)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeFile(t, "columns: [not a mapping")
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}
