package model

// Product represents the product catalog master data. Price, discount and
// tax combine multiplicatively for revenue: price*(1-discount)*(1+tax)*qty.
type Product struct {
	ProductID   string  `json:"product_id" gorm:"column:product_id;primaryKey;type:varchar(64)"`
	Name        string  `json:"product_name" gorm:"column:product_name;type:varchar(255);not null"`
	Category    string  `json:"category" gorm:"type:varchar(100);index"`
	Price       float64 `json:"price" gorm:"not null"`
	Discount    float64 `json:"discount" gorm:"default:0"`
	Tax         float64 `json:"tax" gorm:"default:0"`
	StockLevel  int     `json:"stock_level" gorm:"default:0"`
	SupplierID  string  `json:"supplier_id" gorm:"type:varchar(64);index"`
	Seasonality string  `json:"seasonality" gorm:"type:varchar(50)"`
	Popularity  int     `json:"popularity" gorm:"default:0"`
}

// Supplier represents a product supplier with an aggregate performance score
// in the 0-5 range.
type Supplier struct {
	SupplierID       string  `json:"supplier_id" gorm:"column:supplier_id;primaryKey;type:varchar(64)"`
	Name             string  `json:"name" gorm:"type:varchar(255)"`
	Contact          string  `json:"contact" gorm:"type:varchar(255)"`
	PerformanceScore float64 `json:"performance_score" gorm:"default:0"`
}
