package mlearn

// Risk band thresholds over the clipped probability.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"

	mediumThreshold = 0.3
	highThreshold   = 0.6
)

// Linear heuristic weights. This is a transparent placeholder scoring
// function, not a trained classifier; the linear form and thresholds are
// part of the behavioral contract.
const (
	baseProbability    = 0.5
	weightAbandonments = 0.1
	weightCartValue    = -0.005
	weightAvgDiscount  = -0.2
	weightItemCount    = 0.05
)

// RiskFactors are the inputs that fed the score.
type RiskFactors struct {
	PreviousAbandonments int64   `json:"previous_abandonments"`
	CartValue            float64 `json:"cart_value"`
	AvgDiscount          float64 `json:"avg_discount"`
	NumItems             int64   `json:"num_items"`
}

// RiskAssessment is the scored abandonment risk for a session.
type RiskAssessment struct {
	SessionID   string      `json:"session_id"`
	Probability float64     `json:"probability"`
	RiskLevel   string      `json:"risk_level"`
	Factors     RiskFactors `json:"factors"`
}

// abandonmentModel is the persisted placeholder artifact.
type abandonmentModel struct {
	ModelType   string             `json:"model_type"`
	Features    []string           `json:"features"`
	Weights     map[string]float64 `json:"weights"`
	TrainedDate string             `json:"trained_date"`
}

// AbandonmentRisk scores a session's cart-abandonment risk with the linear
// heuristic, clipped to [0,1] and mapped to a risk band. Returns nil when
// the session does not exist.
func (e *Engine) AbandonmentRisk(sessionID string) (*RiskAssessment, error) {
	var session struct {
		SessionID  string
		CustomerID string
	}
	err := e.db.Raw(`
		SELECT session_id, customer_id FROM sessions WHERE session_id = ?
	`, sessionID).Scan(&session).Error
	if err != nil {
		return nil, err
	}
	if session.SessionID == "" {
		return nil, nil
	}

	var history struct {
		PreviousAbandonments int64
	}
	err = e.db.Raw(`
		SELECT COUNT(*) AS previous_abandonments
		FROM cart_abandonment ca
		JOIN sessions s ON ca.session_id = s.session_id
		WHERE s.customer_id = ?
	`, session.CustomerID).Scan(&history).Error
	if err != nil {
		return nil, err
	}

	var cart struct {
		CartValue   float64
		AvgDiscount float64
		NumItems    int64
	}
	err = e.db.Raw(`
		SELECT COALESCE(SUM(p.price), 0) AS cart_value,
			COALESCE(AVG(p.discount), 0) AS avg_discount,
			COUNT(DISTINCT p.product_id) AS num_items
		FROM cart_abandonment ca
		JOIN products p ON ca.product_id = p.product_id
		WHERE ca.session_id = ?
	`, sessionID).Scan(&cart).Error
	if err != nil {
		return nil, err
	}

	factors := RiskFactors{
		PreviousAbandonments: history.PreviousAbandonments,
		CartValue:            cart.CartValue,
		AvgDiscount:          cart.AvgDiscount,
		NumItems:             cart.NumItems,
	}
	probability := baseProbability +
		weightAbandonments*float64(factors.PreviousAbandonments) +
		weightCartValue*factors.CartValue +
		weightAvgDiscount*factors.AvgDiscount +
		weightItemCount*float64(factors.NumItems)
	if probability < 0 {
		probability = 0
	}
	if probability > 1 {
		probability = 1
	}

	return &RiskAssessment{
		SessionID:   sessionID,
		Probability: round2(probability),
		RiskLevel:   riskBand(probability),
		Factors:     factors,
	}, nil
}

func riskBand(probability float64) string {
	switch {
	case probability < mediumThreshold:
		return RiskLow
	case probability < highThreshold:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// TrainAbandonmentModel persists the placeholder scoring artifact. The
// heuristic has no fitted parameters; the artifact records its form so
// scoring stays auditable.
func (e *Engine) TrainAbandonmentModel() error {
	return e.saveArtifact(abandonmentArtifact, &abandonmentModel{
		ModelType: "linear_heuristic",
		Features:  []string{"previous_abandonments", "cart_value", "avg_discount", "num_items"},
		Weights: map[string]float64{
			"base":                  baseProbability,
			"previous_abandonments": weightAbandonments,
			"cart_value":            weightCartValue,
			"avg_discount":          weightAvgDiscount,
			"num_items":             weightItemCount,
		},
		TrainedDate: e.now().Format("2006-01-02"),
	})
}
