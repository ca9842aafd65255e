package inventory

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"analytics-service/internal/model"
	"analytics-service/pkg/database"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return New(db)
}

func seedInventory(t *testing.T, m *Manager) {
	t.Helper()

	suppliers := []model.Supplier{
		{SupplierID: "S001", Name: "Acme", Contact: "acme@example.com", PerformanceScore: 4.5},
		{SupplierID: "S002", Name: "Globex", Contact: "globex@example.com", PerformanceScore: 2.0},
	}
	require.NoError(t, m.db.Create(&suppliers).Error)

	products := []model.Product{
		{ProductID: "P001", Name: "Scarce", Category: "Tools", Price: 10, StockLevel: 5, SupplierID: "S001"},
		{ProductID: "P002", Name: "Okay", Category: "Tools", Price: 20, StockLevel: 25, SupplierID: "S001"},
		{ProductID: "P003", Name: "Plenty", Category: "Toys", Price: 5, StockLevel: 80, SupplierID: "S002"},
		{ProductID: "P004", Name: "Idle", Category: "Toys", Price: 8, StockLevel: 3, SupplierID: "S002"},
	}
	require.NoError(t, m.db.Create(&products).Error)
}

func TestTotalStock(t *testing.T) {
	m := testManager(t)

	total, err := m.TotalStock()
	require.NoError(t, err)
	assert.Zero(t, total)

	seedInventory(t, m)
	total, err = m.TotalStock()
	require.NoError(t, err)
	assert.Equal(t, int64(113), total)
}

func TestStock(t *testing.T) {
	m := testManager(t)
	seedInventory(t, m)

	t.Run("status bands", func(t *testing.T) {
		rows, err := m.Stock("")
		require.NoError(t, err)
		require.Len(t, rows, 4)

		statuses := map[string]string{}
		for _, row := range rows {
			statuses[row.ProductID] = row.StockStatus
		}
		assert.Equal(t, "low", statuses["P001"])
		assert.Equal(t, "medium", statuses["P002"])
		assert.Equal(t, "high", statuses["P003"])
		assert.Equal(t, "low", statuses["P004"])
	})

	t.Run("category filter", func(t *testing.T) {
		rows, err := m.Stock("Toys")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "P004", rows[0].ProductID)
	})
}

func TestLowStockAlerts(t *testing.T) {
	m := testManager(t)
	seedInventory(t, m)

	// 15 units of the scarce product sold within the trailing window.
	recentDate := time.Now().AddDate(0, 0, -5).Format("2006-01-02")
	require.NoError(t, m.db.Create(&model.Purchase{
		PurchaseID: "PUR1", CustomerID: "C001", SessionID: "SES1", Date: recentDate,
	}).Error)
	require.NoError(t, m.db.Create(&model.PurchaseDetail{
		PurchaseID: "PUR1", ProductID: "P001", Quantity: 15,
	}).Error)

	alerts, err := m.LowStockAlerts(10)
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	byID := map[string]LowStockAlert{}
	for _, a := range alerts {
		byID[a.ProductID] = a
	}

	t.Run("projects depletion from the sale rate", func(t *testing.T) {
		alert := byID["P001"]
		assert.Equal(t, int64(15), alert.QuantitySold30d)
		assert.InDelta(t, 0.5, alert.DailySalesRate, 0.001)
		assert.Equal(t, 10, alert.DaysUntilDepleted)
		assert.Equal(t, "Acme", alert.SupplierName)
	})

	t.Run("no sales reports the sentinel", func(t *testing.T) {
		alert := byID["P004"]
		assert.Zero(t, alert.QuantitySold30d)
		assert.InDelta(t, 0.1, alert.DailySalesRate, 0.001)
		assert.Equal(t, DepletionSentinel, alert.DaysUntilDepleted)
	})

	t.Run("healthy stock is not flagged", func(t *testing.T) {
		assert.NotContains(t, byID, "P002")
		assert.NotContains(t, byID, "P003")
	})
}

func TestSupplierPerformances(t *testing.T) {
	m := testManager(t)
	seedInventory(t, m)

	t.Run("best score first with derived metrics", func(t *testing.T) {
		rows, err := m.SupplierPerformances("")
		require.NoError(t, err)
		require.Len(t, rows, 2)

		acme := rows[0]
		assert.Equal(t, "S001", acme.SupplierID)
		assert.Equal(t, int64(2), acme.ProductsSupplied)
		assert.InDelta(t, 15.0, acme.AvgStockLevel, 0.001)
		assert.InDelta(t, 3.5, acme.AvgDeliveryTime, 0.001)
		assert.Equal(t, 90, acme.OnTimeDeliveryRate)
		assert.Equal(t, 1, acme.QualityIssues)

		globex := rows[1]
		assert.Equal(t, 40, globex.OnTimeDeliveryRate)
		assert.Equal(t, 6, globex.QualityIssues)
	})

	t.Run("single supplier filter", func(t *testing.T) {
		rows, err := m.SupplierPerformances("S002")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "S002", rows[0].SupplierID)
	})
}

func TestUpdateStock(t *testing.T) {
	m := testManager(t)
	seedInventory(t, m)

	t.Run("updates the level", func(t *testing.T) {
		result, err := m.UpdateStock("P001", 42)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 42, result.NewStock)

		var product model.Product
		require.NoError(t, m.db.First(&product, "product_id = ?", "P001").Error)
		assert.Equal(t, 42, product.StockLevel)
	})

	t.Run("rejects negative levels", func(t *testing.T) {
		result, err := m.UpdateStock("P001", -1)
		require.NoError(t, err)
		assert.False(t, result.Success)
	})

	t.Run("unknown product", func(t *testing.T) {
		result, err := m.UpdateStock("P999", 10)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "product not found", result.Message)
	})
}

func TestCreateRestockOrder(t *testing.T) {
	m := testManager(t)
	seedInventory(t, m)

	t.Run("builds an order against the supplier", func(t *testing.T) {
		order, err := m.CreateRestockOrder("P001", 100)
		require.NoError(t, err)
		require.True(t, order.Success)
		assert.Equal(t, "S001", order.SupplierID)
		assert.Equal(t, 100, order.Quantity)
		assert.Contains(t, order.OrderID, "P001")
		assert.Equal(t, time.Now().AddDate(0, 0, 7).Format("2006-01-02"), order.EstimatedArrival)
	})

	t.Run("unknown product", func(t *testing.T) {
		order, err := m.CreateRestockOrder("P999", 10)
		require.NoError(t, err)
		assert.False(t, order.Success)
	})
}
