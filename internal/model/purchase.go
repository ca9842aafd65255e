package model

// Purchase is the header for one or more line items bought in a session.
// Dates are stored as ISO YYYY-MM-DD strings so range filters compare
// lexicographically on every backend.
type Purchase struct {
	PurchaseID string `json:"purchase_id" gorm:"column:purchase_id;primaryKey;type:varchar(64)"`
	CustomerID string `json:"customer_id" gorm:"type:varchar(64);index"`
	SessionID  string `json:"session_id" gorm:"type:varchar(64);index"`
	Date       string `json:"date" gorm:"type:varchar(10);index"`
	Time       string `json:"time" gorm:"type:varchar(8)"`
}

// PurchaseDetail is one product-quantity line item within a purchase.
type PurchaseDetail struct {
	ID             uint    `json:"id" gorm:"primaryKey"`
	PurchaseID     string  `json:"purchase_id" gorm:"type:varchar(64);index"`
	ProductID      string  `json:"product_id" gorm:"type:varchar(64);index"`
	Quantity       int     `json:"quantity" gorm:"default:1"`
	ShippingCost   float64 `json:"shipping_cost"`
	ShippingMethod string  `json:"shipping_method" gorm:"type:varchar(50)"`
}

// CartAbandonment records a product left in a cart by a session that did not
// convert to a purchase. AbandonmentTime is seconds spent before leaving.
type CartAbandonment struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	SessionID       string `json:"session_id" gorm:"type:varchar(64);index"`
	ProductID       string `json:"product_id" gorm:"type:varchar(64);index"`
	Quantity        int    `json:"quantity" gorm:"default:1"`
	AbandonmentTime int    `json:"abandonment_time"`
	Date            string `json:"date" gorm:"type:varchar(10);index"`
}

// TableName keeps the historical singular table name.
func (CartAbandonment) TableName() string { return "cart_abandonment" }
