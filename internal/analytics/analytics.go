// Package analytics is the read-only reporting query layer: parameterized
// aggregate queries over the relational store, shaped for charting. Every
// operation is a pure read; identical store contents and parameters always
// produce identical results.
package analytics

import (
	"math"

	"gorm.io/gorm"
)

// Service executes the reporting query catalog against the store.
type Service struct {
	db *gorm.DB
}

// New returns a reporting service bound to the given store handle.
func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// revenueExpr is the canonical line-item revenue expression. Revenue is
// always derived, never stored.
const revenueExpr = "p.price * (1 - p.discount) * (1 + p.tax) * pd.quantity"

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
