package mlearn

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/stat"
)

// DefaultSegmentCount is the fixed cluster count for customer segmentation.
const DefaultSegmentCount = 4

// missingRecencyDays stands in for customers who never purchased: treated as
// long-lapsed.
const missingRecencyDays = 365

// segmentFeatures is the fixed feature list, in vector order.
var segmentFeatures = []string{"age", "purchase_count", "total_spent", "avg_price", "days_since_last_purchase"}

// Segment labels assigned post-hoc from cluster means.
const (
	LabelLoyal            = "loyal"
	LabelHighValueLapsed  = "high-value inactive"
	LabelFrequentLowValue = "frequent low-value"
	LabelNewCustomers     = "new customers"
)

// SegmentStat summarizes one customer cluster.
type SegmentStat struct {
	Segment              int     `json:"segment"`
	Count                int     `json:"count"`
	AvgAge               float64 `json:"avg_age"`
	AvgPurchases         float64 `json:"avg_purchases"`
	AvgSpent             float64 `json:"avg_spent"`
	AvgPrice             float64 `json:"avg_price"`
	AvgDaysSincePurchase float64 `json:"avg_days_since_purchase"`
	Label                string  `json:"label"`
}

// segmentationModel is the persisted artifact: centroids plus the scaling
// parameters and feature list, enough to score new customers consistently.
type segmentationModel struct {
	Centroids [][]float64 `json:"centroids"`
	Scaler    scaler      `json:"scaler"`
	Features  []string    `json:"features"`
	TrainedAt string      `json:"trained_at"`
}

type customerFeatureRow struct {
	CustomerID       string
	Age              float64
	PurchaseCount    float64
	TotalSpent       float64
	AvgPrice         float64
	LastPurchaseDate string
}

// Segments clusters customers on behavioral features and labels each cluster
// against the population means. The fitted model is written to a fixed
// artifact filename, overwriting any previous fit.
func (e *Engine) Segments(k int) ([]SegmentStat, error) {
	if k <= 0 {
		k = DefaultSegmentCount
	}

	var rows []customerFeatureRow
	err := e.db.Raw(`
		SELECT c.customer_id, c.age,
			COUNT(DISTINCT pur.purchase_id) AS purchase_count,
			COALESCE(SUM(p.price * (1 - p.discount) * pd.quantity), 0) AS total_spent,
			COALESCE(AVG(p.price), 0) AS avg_price,
			COALESCE(MAX(pur.date), '') AS last_purchase_date
		FROM customers c
		LEFT JOIN purchases pur ON c.customer_id = pur.customer_id
		LEFT JOIN purchase_details pd ON pur.purchase_id = pd.purchase_id
		LEFT JOIN products p ON pd.product_id = p.product_id
		GROUP BY c.customer_id, c.age
		ORDER BY c.customer_id
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []SegmentStat{}, nil
	}

	features := make([][]float64, len(rows))
	for i, row := range rows {
		features[i] = []float64{
			row.Age,
			row.PurchaseCount,
			row.TotalSpent,
			row.AvgPrice,
			e.daysSincePurchase(row.LastPurchaseDate),
		}
	}

	sc := fitScaler(features)
	assignments, centroids := kMeans(sc.transform(features), k, Seed)

	if err := e.saveArtifact(segmentationArtifact, &segmentationModel{
		Centroids: centroids,
		Scaler:    *sc,
		Features:  segmentFeatures,
		TrainedAt: e.now().Format("2006-01-02 15:04:05"),
	}); err != nil {
		return nil, err
	}

	stats := clusterStats(features, assignments, len(centroids))
	labelSegments(stats)
	return stats, nil
}

// daysSincePurchase converts the last purchase date to a recency in days;
// customers with no purchase history get the long-lapsed default.
func (e *Engine) daysSincePurchase(lastDate string) float64 {
	if lastDate == "" {
		return missingRecencyDays
	}
	t, err := time.Parse("2006-01-02", lastDate)
	if err != nil {
		return missingRecencyDays
	}
	days := e.now().Sub(t).Hours() / 24
	if days < 0 {
		days = 0
	}
	return math.Floor(days)
}

// clusterStats computes per-cluster means over the raw (unscaled) features.
func clusterStats(features [][]float64, assignments []int, k int) []SegmentStat {
	stats := make([]SegmentStat, 0, k)
	for c := 0; c < k; c++ {
		var members [][]float64
		for i, a := range assignments {
			if a == c {
				members = append(members, features[i])
			}
		}
		if len(members) == 0 {
			continue
		}
		col := func(d int) []float64 {
			vals := make([]float64, len(members))
			for i, m := range members {
				vals[i] = m[d]
			}
			return vals
		}
		stats = append(stats, SegmentStat{
			Segment:              c,
			Count:                len(members),
			AvgAge:               round2(stat.Mean(col(0), nil)),
			AvgPurchases:         round2(stat.Mean(col(1), nil)),
			AvgSpent:             round2(stat.Mean(col(2), nil)),
			AvgPrice:             round2(stat.Mean(col(3), nil)),
			AvgDaysSincePurchase: round2(stat.Mean(col(4), nil)),
		})
	}
	return stats
}

// labelSegments names each cluster by comparing its means against the means
// across clusters: spend, frequency and recency decide the label.
func labelSegments(stats []SegmentStat) {
	if len(stats) == 0 {
		return
	}
	var spentSum, freqSum, recencySum float64
	for _, s := range stats {
		spentSum += s.AvgSpent
		freqSum += s.AvgPurchases
		recencySum += s.AvgDaysSincePurchase
	}
	n := float64(len(stats))
	meanSpent, meanFreq, meanRecency := spentSum/n, freqSum/n, recencySum/n

	for i := range stats {
		s := &stats[i]
		switch {
		case s.AvgSpent > meanSpent && s.AvgPurchases > meanFreq && s.AvgDaysSincePurchase < meanRecency:
			s.Label = LabelLoyal
		case s.AvgSpent > meanSpent && s.AvgDaysSincePurchase > meanRecency:
			s.Label = LabelHighValueLapsed
		case s.AvgPurchases > meanFreq && s.AvgSpent < meanSpent:
			s.Label = LabelFrequentLowValue
		case s.AvgDaysSincePurchase < meanRecency && s.AvgSpent < meanSpent:
			s.Label = LabelNewCustomers
		default:
			s.Label = fmt.Sprintf("segment %d", s.Segment)
		}
	}
}

// saveArtifact writes a model artifact as JSON under the models directory.
func (e *Engine) saveArtifact(filename string, artifact interface{}) error {
	if err := os.MkdirAll(e.modelsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create models directory: %w", err)
	}
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(e.modelsDir, filename), data, 0o644)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
