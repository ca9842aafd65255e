package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics-service/internal/model"
)

func TestLocationHeatmap(t *testing.T) {
	db := testDB(t)
	seedSales(t, db)
	svc := New(db)

	rows, err := svc.LocationHeatmap()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Seattle", rows[0].Location)
	assert.Equal(t, int64(2), rows[0].SessionCount)
	assert.Equal(t, "Denver", rows[1].Location)
	assert.Equal(t, int64(1), rows[1].SessionCount)
}

func TestCartAbandonmentAnalysis(t *testing.T) {
	db := testDB(t)
	seedSales(t, db)

	abandonments := []model.CartAbandonment{
		{SessionID: "SES3", ProductID: "P001", Quantity: 1, AbandonmentTime: 100, Date: "2024-03-03"},
		{SessionID: "SES3", ProductID: "P003", Quantity: 2, AbandonmentTime: 400, Date: "2024-03-03"},
		{SessionID: "SES2", ProductID: "P003", Quantity: 1, AbandonmentTime: 200, Date: "2024-03-02"},
	}
	require.NoError(t, db.Create(&abandonments).Error)

	analysis, err := New(db).CartAbandonmentAnalysis()
	require.NoError(t, err)

	t.Run("averages descend", func(t *testing.T) {
		require.Len(t, analysis.AvgTime, 2)
		assert.Equal(t, "P003", analysis.AvgTime[0].ProductID)
		assert.InDelta(t, 300.0, analysis.AvgTime[0].AvgAbandonmentTime, 0.001)
		assert.Equal(t, "P001", analysis.AvgTime[1].ProductID)
	})

	t.Run("counts descend", func(t *testing.T) {
		require.Len(t, analysis.TopAbandoned, 2)
		assert.Equal(t, "P003", analysis.TopAbandoned[0].ProductID)
		assert.Equal(t, int64(2), analysis.TopAbandoned[0].AbandonmentCount)
	})
}

func TestCustomerDemographics(t *testing.T) {
	db := testDB(t)
	seedSales(t, db)

	demographics, err := New(db).CustomerDemographics()
	require.NoError(t, err)

	t.Run("by gender", func(t *testing.T) {
		byGroup := map[string]DemographicRow{}
		for _, row := range demographics.ByGender {
			byGroup[row.Group] = row
		}
		assert.Equal(t, int64(1), byGroup["female"].PurchaseCount)
		assert.InDelta(t, 258.80, byGroup["female"].TotalSpent, 0.001)
		assert.Equal(t, int64(1), byGroup["male"].PurchaseCount)
		assert.InDelta(t, 150.0, byGroup["male"].TotalSpent, 0.001)
	})

	t.Run("by age group", func(t *testing.T) {
		byGroup := map[string]DemographicRow{}
		for _, row := range demographics.ByAge {
			byGroup[row.Group] = row
		}
		assert.Contains(t, byGroup, "26-35")
		assert.Contains(t, byGroup, "56+")
	})

	t.Run("by location", func(t *testing.T) {
		byGroup := map[string]DemographicRow{}
		for _, row := range demographics.ByLocation {
			byGroup[row.Group] = row
		}
		assert.InDelta(t, 258.80, byGroup["Seattle"].TotalSpent, 0.001)
	})
}

func TestPurchasePatterns(t *testing.T) {
	db := testDB(t)
	seedSales(t, db)

	// A second purchase for C001 makes the customer recurrent and repeats
	// the P001+P002 pair.
	require.NoError(t, db.Create(&model.Purchase{
		PurchaseID: "PUR3", CustomerID: "C001", SessionID: "SES3", Date: "2024-03-03",
	}).Error)
	details := []model.PurchaseDetail{
		{PurchaseID: "PUR3", ProductID: "P001", Quantity: 1},
		{PurchaseID: "PUR3", ProductID: "P002", Quantity: 1},
	}
	require.NoError(t, db.Create(&details).Error)

	patterns, err := New(db).PurchasePatterns()
	require.NoError(t, err)

	t.Run("pairs counted once per purchase", func(t *testing.T) {
		require.Len(t, patterns.ProductPairs, 1)
		pair := patterns.ProductPairs[0]
		assert.Equal(t, "P001", pair.Product1ID)
		assert.Equal(t, "P002", pair.Product2ID)
		assert.Equal(t, int64(2), pair.Frequency)
	})

	t.Run("recurrent customers need more than one purchase", func(t *testing.T) {
		require.Len(t, patterns.RecurrentCustomers, 1)
		assert.Equal(t, "C001", patterns.RecurrentCustomers[0].CustomerID)
		assert.Equal(t, int64(2), patterns.RecurrentCustomers[0].PurchaseCount)
	})
}
