// Package bom defines the internal data structures for the product analysis
// engine: canonical item identifiers, the product catalogue, and the
// component references that form the bill-of-materials relation.
package bom

import (
	"strconv"
	"strings"
)

// InvalidItemLabel is the sentinel identifier assigned to rows whose
// Item No. could not be normalized to a number. All such rows collapse
// into one catalogue entry so their diagnostics have somewhere to live.
const InvalidItemLabel = "NAN"

// ItemNo is a canonical product identifier. Source data carries item numbers
// in mixed shapes ("1000", "1000.0", free text); normalization happens once
// at ingestion so that every catalogue lookup uses the same canonical form.
// The zero value is the invalid sentinel.
type ItemNo struct {
	value string
	valid bool
}

// NormalizeItemNo builds the canonical identifier for a raw item number.
// Numeric strings — including float-formatted ones like "1000.0" — normalize
// to their integer decimal form. Anything else yields the invalid sentinel,
// reported through Valid().
func NormalizeItemNo(raw string) ItemNo {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ItemNo{}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ItemNo{value: strconv.FormatInt(n, 10), valid: true}
	}
	// Exports often render integer item numbers as floats ("1000.0").
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return ItemNo{value: strconv.FormatInt(int64(f), 10), valid: true}
	}
	return ItemNo{}
}

// Valid reports whether the identifier normalized to a number.
func (n ItemNo) Valid() bool { return n.valid }

// String returns the canonical form, or the NAN sentinel label when invalid.
func (n ItemNo) String() string {
	if !n.valid {
		return InvalidItemLabel
	}
	return n.value
}

// ReplenishmentSystem describes how a product is obtained.
type ReplenishmentSystem int

const (
	// ReplenishmentUnknown covers any replenishment text the source data
	// carries beyond the two meaningful values.
	ReplenishmentUnknown ReplenishmentSystem = iota
	// ReplenishmentPurchase marks a product bought externally; its unit cost
	// participates in rolled-up costing.
	ReplenishmentPurchase
	// ReplenishmentProdOrder marks a product manufactured internally from its
	// own components.
	ReplenishmentProdOrder
)

// ParseReplenishmentSystem maps the free-text source column to the enum.
// Only "Purchase" and "Prod. Order" are meaningful; everything else is Unknown.
func ParseReplenishmentSystem(s string) ReplenishmentSystem {
	switch strings.TrimSpace(s) {
	case "Purchase":
		return ReplenishmentPurchase
	case "Prod. Order":
		return ReplenishmentProdOrder
	default:
		return ReplenishmentUnknown
	}
}

func (r ReplenishmentSystem) String() string {
	switch r {
	case ReplenishmentPurchase:
		return "Purchase"
	case ReplenishmentProdOrder:
		return "Prod. Order"
	default:
		return "Unknown"
	}
}
