package model

// Customer represents a shopper. AgeGroup is derived from Age at load time.
type Customer struct {
	CustomerID string `json:"customer_id" gorm:"column:customer_id;primaryKey;type:varchar(64)"`
	Age        int    `json:"age"`
	AgeGroup   string `json:"age_group" gorm:"type:varchar(20);index"`
	Location   string `json:"location" gorm:"type:varchar(100);index"`
	Gender     string `json:"gender" gorm:"type:varchar(20)"`
}

// Session represents one browsing session. A session yields zero or one
// purchase.
type Session struct {
	SessionID  string `json:"session_id" gorm:"column:session_id;primaryKey;type:varchar(64)"`
	Date       string `json:"date" gorm:"type:varchar(10);index"`
	Time       string `json:"time" gorm:"type:varchar(8)"`
	DeviceID   string `json:"device_id" gorm:"type:varchar(64)"`
	DeviceType string `json:"device_type" gorm:"type:varchar(50)"`
	OS         string `json:"os" gorm:"column:os;type:varchar(50)"`
	CustomerID string `json:"customer_id" gorm:"type:varchar(64);index"`
}
