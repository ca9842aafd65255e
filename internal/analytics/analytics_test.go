package analytics

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"analytics-service/internal/model"
	"analytics-service/pkg/database"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// seedSales loads a small fixed dataset: two customers, three products with
// known price/discount/tax, three sessions of which two convert.
func seedSales(t *testing.T, db *gorm.DB) {
	t.Helper()

	require.NoError(t, db.Create(&model.Supplier{
		SupplierID: "S001", Name: "Acme", PerformanceScore: 4.0,
	}).Error)

	products := []model.Product{
		{ProductID: "P001", Name: "Widget", Category: "Tools", Price: 100, Discount: 0.1, Tax: 0.16, StockLevel: 50, SupplierID: "S001"},
		{ProductID: "P002", Name: "Gadget", Category: "Tools", Price: 50, Discount: 0, Tax: 0, StockLevel: 5, SupplierID: "S001"},
		{ProductID: "P003", Name: "Gizmo", Category: "Toys", Price: 20, Discount: 0.3, Tax: 0.1, StockLevel: 80, SupplierID: "S001"},
	}
	require.NoError(t, db.Create(&products).Error)

	customers := []model.Customer{
		{CustomerID: "C001", Age: 30, AgeGroup: "26-35", Location: "Seattle", Gender: "female"},
		{CustomerID: "C002", Age: 60, AgeGroup: "56+", Location: "Denver", Gender: "male"},
	}
	require.NoError(t, db.Create(&customers).Error)

	sessions := []model.Session{
		{SessionID: "SES1", Date: "2024-03-01", CustomerID: "C001", DeviceType: "desktop", OS: "windows"},
		{SessionID: "SES2", Date: "2024-03-02", CustomerID: "C002", DeviceType: "mobile", OS: "android"},
		{SessionID: "SES3", Date: "2024-03-03", CustomerID: "C001", DeviceType: "mobile", OS: "ios"},
	}
	require.NoError(t, db.Create(&sessions).Error)

	purchases := []model.Purchase{
		{PurchaseID: "PUR1", CustomerID: "C001", SessionID: "SES1", Date: "2024-03-01"},
		{PurchaseID: "PUR2", CustomerID: "C002", SessionID: "SES2", Date: "2024-03-02"},
	}
	require.NoError(t, db.Create(&purchases).Error)

	details := []model.PurchaseDetail{
		{PurchaseID: "PUR1", ProductID: "P001", Quantity: 2},
		{PurchaseID: "PUR1", ProductID: "P002", Quantity: 1},
		{PurchaseID: "PUR2", ProductID: "P002", Quantity: 3},
	}
	require.NoError(t, db.Create(&details).Error)
}
