package mlearn

// DefaultRecommendationLimit caps a recommendation list when no limit is
// given.
const DefaultRecommendationLimit = 5

// Recommendation is one recommended product with its effective price.
type Recommendation struct {
	ProductID       string  `json:"product_id"`
	ProductName     string  `json:"product_name"`
	Category        string  `json:"category"`
	Price           float64 `json:"price"`
	Discount        float64 `json:"discount"`
	Popularity      int     `json:"popularity"`
	DiscountedPrice float64 `json:"discounted_price"`
}

// Recommendations suggests products for a customer. With purchase history it
// recommends same-category products the customer has not bought, by
// popularity; without history it falls back to the globally most popular.
// Ties always break by product id ascending so results are reproducible.
func (e *Engine) Recommendations(customerID string, limit int) ([]Recommendation, error) {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	var purchased []string
	err := e.db.Raw(`
		SELECT DISTINCT pd.product_id
		FROM purchases pur
		JOIN purchase_details pd ON pur.purchase_id = pd.purchase_id
		WHERE pur.customer_id = ?
	`, customerID).Scan(&purchased).Error
	if err != nil {
		return nil, err
	}

	rows := make([]Recommendation, 0, limit)
	if len(purchased) > 0 {
		err = e.db.Raw(`
			SELECT p.product_id, p.product_name, p.category, p.price, p.discount, p.popularity
			FROM products p
			WHERE p.category IN (
				SELECT DISTINCT category FROM products WHERE product_id IN ?
			)
			AND p.product_id NOT IN ?
			ORDER BY p.popularity DESC, p.product_id
			LIMIT ?
		`, purchased, purchased, limit).Scan(&rows).Error
	} else {
		err = e.db.Raw(`
			SELECT p.product_id, p.product_name, p.category, p.price, p.discount, p.popularity
			FROM products p
			ORDER BY p.popularity DESC, p.product_id
			LIMIT ?
		`, limit).Scan(&rows).Error
	}
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].DiscountedPrice = round2(rows[i].Price * (1 - rows[i].Discount))
	}
	return rows, nil
}
