package model

// Review is a customer review of a product with a 1-5 score.
type Review struct {
	ReviewID      string `json:"review_id" gorm:"column:review_id;primaryKey;type:varchar(64)"`
	ProductID     string `json:"product_id" gorm:"type:varchar(64);index"`
	CustomerID    string `json:"customer_id" gorm:"type:varchar(64);index"`
	Content       string `json:"content" gorm:"type:text"`
	Score         int    `json:"score"`
	ThumbsUpCount int    `json:"thumbs_up_count" gorm:"default:0"`
	ReviewedAt    string `json:"reviewed_at" gorm:"type:varchar(19)"`
}

// ReviewReply is a merchant reply to a review. Zero or one per review in
// practice.
type ReviewReply struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ReviewID  string `json:"review_id" gorm:"type:varchar(64);index"`
	Content   string `json:"content" gorm:"type:text"`
	RepliedAt string `json:"replied_at" gorm:"type:varchar(19)"`
}
