package mlearn

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics-service/internal/model"
)

func seedSegmentCustomers(t *testing.T, e *Engine) {
	t.Helper()

	require.NoError(t, e.db.Create(&model.Product{
		ProductID: "P001", Name: "Widget", Category: "Tools", Price: 100,
	}).Error)

	// Half the customers buy recently and often, half never buy.
	var customers []model.Customer
	var purchases []model.Purchase
	var details []model.PurchaseDetail
	for i := 1; i <= 10; i++ {
		id := fmt.Sprintf("C%03d", i)
		customers = append(customers, model.Customer{CustomerID: id, Age: 20 + i})
		if i <= 5 {
			for n := 0; n < 3; n++ {
				pid := fmt.Sprintf("PUR%d-%d", i, n)
				purchases = append(purchases, model.Purchase{
					PurchaseID: pid, CustomerID: id,
					SessionID: fmt.Sprintf("SES%d-%d", i, n), Date: "2024-03-20",
				})
				details = append(details, model.PurchaseDetail{
					PurchaseID: pid, ProductID: "P001", Quantity: 2,
				})
			}
		}
	}
	require.NoError(t, e.db.Create(&customers).Error)
	require.NoError(t, e.db.Create(&purchases).Error)
	require.NoError(t, e.db.Create(&details).Error)
}

func TestSegments(t *testing.T) {
	e := testEngine(t)
	seedSegmentCustomers(t, e)

	t.Run("counts cover every customer", func(t *testing.T) {
		stats, err := e.Segments(2)
		require.NoError(t, err)
		require.NotEmpty(t, stats)

		total := 0
		for _, s := range stats {
			total += s.Count
		}
		assert.Equal(t, 10, total)
	})

	t.Run("buyers and non-buyers separate", func(t *testing.T) {
		stats, err := e.Segments(2)
		require.NoError(t, err)
		require.Len(t, stats, 2)

		var buyers, lapsed *SegmentStat
		for i := range stats {
			if stats[i].AvgPurchases > 0 {
				buyers = &stats[i]
			} else {
				lapsed = &stats[i]
			}
		}
		require.NotNil(t, buyers)
		require.NotNil(t, lapsed)
		assert.InDelta(t, 3.0, buyers.AvgPurchases, 0.001)
		assert.InDelta(t, 600.0, buyers.AvgSpent, 0.001)
		// 2024-03-20 to the fixed clock 2024-04-01 12:00 is 12 full days.
		assert.InDelta(t, 12.0, buyers.AvgDaysSincePurchase, 0.001)
		assert.InDelta(t, 365.0, lapsed.AvgDaysSincePurchase, 0.001)
	})

	t.Run("repeat runs are identical", func(t *testing.T) {
		first, err := e.Segments(3)
		require.NoError(t, err)
		second, err := e.Segments(3)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("artifact persists centroids and scaler", func(t *testing.T) {
		_, err := e.Segments(2)
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(e.modelsDir, segmentationArtifact))
		require.NoError(t, err)

		var artifact segmentationModel
		require.NoError(t, json.Unmarshal(data, &artifact))
		assert.Len(t, artifact.Centroids, 2)
		assert.Equal(t, segmentFeatures, artifact.Features)
		assert.Len(t, artifact.Scaler.Means, len(segmentFeatures))
	})

	t.Run("empty store yields empty result", func(t *testing.T) {
		empty := testEngine(t)
		stats, err := empty.Segments(4)
		require.NoError(t, err)
		assert.Empty(t, stats)
	})
}

func TestDaysSincePurchase(t *testing.T) {
	e := testEngine(t)

	assert.Equal(t, float64(missingRecencyDays), e.daysSincePurchase(""))
	assert.Equal(t, float64(missingRecencyDays), e.daysSincePurchase("not-a-date"))
	assert.Equal(t, 0.0, e.daysSincePurchase("2024-05-01"))
	assert.Equal(t, 31.0, e.daysSincePurchase("2024-03-01"))
}
