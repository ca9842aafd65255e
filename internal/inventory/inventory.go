// Package inventory answers stock questions: levels, low-stock alerts with
// depletion projections, supplier performance, and the stock mutations.
package inventory

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
)

// Stock status thresholds. Threshold for "low" doubles as the default alert
// threshold.
const (
	DefaultLowStockThreshold = 10
	mediumStockCeiling       = 30
)

// DepletionSentinel is reported as days_until_depleted when a flagged
// product had no sales in the trailing window.
const DepletionSentinel = 999

// Manager executes inventory reports and stock mutations.
type Manager struct {
	db *gorm.DB
}

// New returns an inventory manager bound to the given store handle.
func New(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// StockRow is one product's stock position.
type StockRow struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	StockLevel  int     `json:"stock_level"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount"`
	SupplierID  string  `json:"supplier_id"`
	StockStatus string  `json:"stock_status"`
}

// LowStockAlert flags a product below the threshold, with a projected
// depletion horizon from the trailing 30-day sale rate.
type LowStockAlert struct {
	ProductID         string  `json:"product_id"`
	ProductName       string  `json:"product_name"`
	Category          string  `json:"category"`
	StockLevel        int     `json:"stock_level"`
	SupplierName      string  `json:"supplier_name"`
	SupplierContact   string  `json:"supplier_contact"`
	QuantitySold30d   int64   `json:"quantity_sold_30d" gorm:"column:quantity_sold_30d"`
	DailySalesRate    float64 `json:"daily_sales_rate"`
	DaysUntilDepleted int     `json:"days_until_depleted"`
}

// SupplierPerformance combines the stored score with stock coverage and
// score-derived delivery metrics.
type SupplierPerformance struct {
	SupplierID         string  `json:"supplier_id"`
	SupplierName       string  `json:"supplier_name"`
	PerformanceScore   float64 `json:"performance_score"`
	ProductsSupplied   int64   `json:"products_supplied"`
	AvgStockLevel      float64 `json:"avg_stock_level"`
	AvgDeliveryTime    float64 `json:"avg_delivery_time"`
	OnTimeDeliveryRate int     `json:"on_time_delivery_rate"`
	QualityIssues      int     `json:"quality_issues"`
}

// MutationResult is the envelope returned by stock mutations.
type MutationResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	NewStock int    `json:"new_stock,omitempty"`
}

// RestockOrder is the simulated restock order envelope.
type RestockOrder struct {
	Success          bool   `json:"success"`
	Message          string `json:"message,omitempty"`
	OrderID          string `json:"order_id,omitempty"`
	ProductID        string `json:"product_id,omitempty"`
	ProductName      string `json:"product_name,omitempty"`
	Quantity         int    `json:"quantity,omitempty"`
	SupplierID       string `json:"supplier_id,omitempty"`
	SupplierName     string `json:"supplier_name,omitempty"`
	SupplierContact  string `json:"supplier_contact,omitempty"`
	EstimatedArrival string `json:"estimated_arrival,omitempty"`
}

// TotalStock sums stock across the whole catalog.
func (m *Manager) TotalStock() (int64, error) {
	var row struct {
		TotalStock int64
	}
	err := m.db.Raw(`SELECT COALESCE(SUM(stock_level), 0) AS total_stock FROM products`).Scan(&row).Error
	if err != nil {
		return 0, err
	}
	return row.TotalStock, nil
}

// Stock lists stock positions, optionally filtered by category, with a
// low/medium/high status derived from the default threshold.
func (m *Manager) Stock(category string) ([]StockRow, error) {
	rows := make([]StockRow, 0)
	query := `
		SELECT product_id, product_name, category, stock_level, price, discount, supplier_id
		FROM products
	`
	args := []interface{}{}
	if category != "" {
		query += " WHERE category = ? ORDER BY stock_level"
		args = append(args, category)
	} else {
		query += " ORDER BY category, stock_level"
	}
	if err := m.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].StockStatus = stockStatus(rows[i].StockLevel)
	}
	return rows, nil
}

func stockStatus(level int) string {
	switch {
	case level <= DefaultLowStockThreshold:
		return "low"
	case level <= mediumStockCeiling:
		return "medium"
	default:
		return "high"
	}
}

// LowStockAlerts flags products at or below threshold and projects the days
// until depletion from the trailing 30-day sale rate. One joined query
// batches the sale rates instead of a follow-up query per flagged product.
// A zero daily rate is floored at 0.1; when nothing sold in the window the
// projection is the DepletionSentinel.
func (m *Manager) LowStockAlerts(threshold int) ([]LowStockAlert, error) {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	cutoff := time.Now().AddDate(0, 0, -30).Format("2006-01-02")

	rows := make([]LowStockAlert, 0)
	err := m.db.Raw(`
		SELECT p.product_id, p.product_name, p.category, p.stock_level,
			s.name AS supplier_name, s.contact AS supplier_contact,
			COALESCE(sold.quantity_sold, 0) AS quantity_sold_30d
		FROM products p
		JOIN suppliers s ON p.supplier_id = s.supplier_id
		LEFT JOIN (
			SELECT pd.product_id, SUM(pd.quantity) AS quantity_sold
			FROM purchase_details pd
			JOIN purchases pur ON pd.purchase_id = pur.purchase_id
			WHERE pur.date >= ?
			GROUP BY pd.product_id
		) sold ON sold.product_id = p.product_id
		WHERE p.stock_level <= ?
		ORDER BY p.stock_level
	`, cutoff, threshold).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		sold := rows[i].QuantitySold30d
		if sold == 0 {
			rows[i].DailySalesRate = 0.1
			rows[i].DaysUntilDepleted = DepletionSentinel
			continue
		}
		rate := float64(sold) / 30
		if rate < 0.1 {
			rate = 0.1
		}
		rows[i].DailySalesRate = math.Round(rate*100) / 100
		rows[i].DaysUntilDepleted = int(float64(rows[i].StockLevel) / rate)
	}
	return rows, nil
}

// SupplierPerformances evaluates suppliers, best score first. A non-empty
// supplierID restricts the report to one supplier.
func (m *Manager) SupplierPerformances(supplierID string) ([]SupplierPerformance, error) {
	query := `
		SELECT s.supplier_id, s.name AS supplier_name, s.performance_score,
			COUNT(DISTINCT p.product_id) AS products_supplied,
			COALESCE(AVG(p.stock_level), 0) AS avg_stock_level
		FROM suppliers s
		LEFT JOIN products p ON s.supplier_id = p.supplier_id
	`
	args := []interface{}{}
	if supplierID != "" {
		query += " WHERE s.supplier_id = ?"
		args = append(args, supplierID)
	}
	query += " GROUP BY s.supplier_id, s.name, s.performance_score"
	if supplierID == "" {
		query += " ORDER BY s.performance_score DESC"
	}

	rows := make([]SupplierPerformance, 0)
	if err := m.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	// Delivery metrics are derived from the stored score until real
	// delivery history is tracked.
	for i := range rows {
		score := rows[i].PerformanceScore
		rows[i].AvgDeliveryTime = math.Round((5-(score-3))*10) / 10
		rows[i].OnTimeDeliveryRate = int(math.Min(100, score*20))
		rows[i].QualityIssues = int(math.Max(0, 10-score*2))
	}
	return rows, nil
}

// UpdateStock sets a product's stock level. Last writer wins; the update is
// a single statement, so no partial state is possible.
func (m *Manager) UpdateStock(productID string, newStock int) (*MutationResult, error) {
	if newStock < 0 {
		return &MutationResult{Success: false, Message: "stock level cannot be negative"}, nil
	}
	result := m.db.Exec(`UPDATE products SET stock_level = ? WHERE product_id = ?`, newStock, productID)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return &MutationResult{Success: false, Message: "product not found"}, nil
	}
	return &MutationResult{Success: true, Message: "stock updated successfully", NewStock: newStock}, nil
}

// CreateRestockOrder simulates a restock order against the product's
// supplier, with a one-week estimated arrival.
func (m *Manager) CreateRestockOrder(productID string, quantity int) (*RestockOrder, error) {
	var row struct {
		ProductID       string
		ProductName     string
		StockLevel      int
		SupplierID      string
		SupplierName    string
		SupplierContact string
	}
	err := m.db.Raw(`
		SELECT p.product_id, p.product_name, p.stock_level,
			s.supplier_id, s.name AS supplier_name, s.contact AS supplier_contact
		FROM products p
		JOIN suppliers s ON p.supplier_id = s.supplier_id
		WHERE p.product_id = ?
	`, productID).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ProductID == "" {
		return &RestockOrder{Success: false, Message: "product not found"}, nil
	}

	now := time.Now()
	return &RestockOrder{
		Success:          true,
		OrderID:          fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), productID),
		ProductID:        row.ProductID,
		ProductName:      row.ProductName,
		Quantity:         quantity,
		SupplierID:       row.SupplierID,
		SupplierName:     row.SupplierName,
		SupplierContact:  row.SupplierContact,
		EstimatedArrival: now.AddDate(0, 0, 7).Format("2006-01-02"),
	}, nil
}
