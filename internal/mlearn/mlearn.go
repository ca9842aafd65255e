// Package mlearn holds the descriptive analytics routines: customer
// segmentation, review topic extraction, the cart-abandonment risk score and
// product recommendations. All routines are stateless functions of the
// current store contents; fitted artifacts are persisted as JSON so scoring
// stays consistent until retraining.
package mlearn

import (
	"time"

	"gorm.io/gorm"
)

// Seed fixes every randomized routine so reruns over identical data yield
// identical output.
const Seed int64 = 42

// Artifact filenames, one fixed name per model type, overwritten on retrain.
const (
	segmentationArtifact = "customer_segmentation.json"
	abandonmentArtifact  = "cart_abandonment_model.json"
)

// Engine runs the descriptive analytics routines against the store.
type Engine struct {
	db        *gorm.DB
	modelsDir string
	now       func() time.Time
}

// New returns an engine bound to the store and an artifacts directory.
func New(db *gorm.DB, modelsDir string) *Engine {
	return &Engine{db: db, modelsDir: modelsDir, now: time.Now}
}
