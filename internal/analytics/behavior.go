package analytics

// LocationCount is one row of the session-per-location heatmap.
type LocationCount struct {
	Location     string `json:"location"`
	SessionCount int64  `json:"session_count"`
}

// DemographicRow aggregates purchases and spend for one demographic group.
type DemographicRow struct {
	Group         string  `json:"group"`
	PurchaseCount int64   `json:"purchase_count"`
	TotalSpent    float64 `json:"total_spent"`
}

// Demographics groups purchase activity by age group, gender and location.
type Demographics struct {
	ByAge      []DemographicRow `json:"by_age"`
	ByGender   []DemographicRow `json:"by_gender"`
	ByLocation []DemographicRow `json:"by_location"`
}

// AbandonTimeRow reports the average cart-abandonment time for a product.
type AbandonTimeRow struct {
	ProductID          string  `json:"product_id"`
	ProductName        string  `json:"product_name"`
	AvgAbandonmentTime float64 `json:"avg_abandonment_time"`
}

// AbandonCountRow reports how often a product is left in carts.
type AbandonCountRow struct {
	ProductID        string `json:"product_id"`
	ProductName      string `json:"product_name"`
	AbandonmentCount int64  `json:"abandonment_count"`
}

// AbandonmentAnalysis is the cart-abandonment report.
type AbandonmentAnalysis struct {
	AvgTime      []AbandonTimeRow  `json:"avg_time"`
	TopAbandoned []AbandonCountRow `json:"top_abandoned"`
}

// ProductPair is an unordered pair of products bought together. The
// product1_id < product2_id constraint counts each pair exactly once.
type ProductPair struct {
	Product1ID   string `json:"product1_id"`
	Product1Name string `json:"product1_name"`
	Product2ID   string `json:"product2_id"`
	Product2Name string `json:"product2_name"`
	Frequency    int64  `json:"frequency"`
}

// RecurrentCustomer is a customer with more than one purchase.
type RecurrentCustomer struct {
	CustomerID    string `json:"customer_id"`
	PurchaseCount int64  `json:"purchase_count"`
}

// PurchasePatterns combines the pair and recurrence reports.
type PurchasePatterns struct {
	ProductPairs       []ProductPair       `json:"product_pairs"`
	RecurrentCustomers []RecurrentCustomer `json:"recurrent_customers"`
}

// LocationHeatmap counts sessions per customer location, busiest first.
func (s *Service) LocationHeatmap() ([]LocationCount, error) {
	rows := make([]LocationCount, 0)
	err := s.db.Raw(`
		SELECT c.location, COUNT(DISTINCT se.session_id) AS session_count
		FROM sessions se
		JOIN customers c ON se.customer_id = c.customer_id
		GROUP BY c.location
		ORDER BY session_count DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CartAbandonmentAnalysis reports the slowest-abandoned and most-abandoned
// products, top 10 each.
func (s *Service) CartAbandonmentAnalysis() (*AbandonmentAnalysis, error) {
	avgTimes := make([]AbandonTimeRow, 0, 10)
	err := s.db.Raw(`
		SELECT p.product_id, p.product_name,
			AVG(ca.abandonment_time) AS avg_abandonment_time
		FROM cart_abandonment ca
		JOIN products p ON ca.product_id = p.product_id
		GROUP BY p.product_id, p.product_name
		ORDER BY avg_abandonment_time DESC
		LIMIT 10
	`).Scan(&avgTimes).Error
	if err != nil {
		return nil, err
	}

	counts := make([]AbandonCountRow, 0, 10)
	err = s.db.Raw(`
		SELECT p.product_id, p.product_name, COUNT(*) AS abandonment_count
		FROM cart_abandonment ca
		JOIN products p ON ca.product_id = p.product_id
		GROUP BY p.product_id, p.product_name
		ORDER BY abandonment_count DESC
		LIMIT 10
	`).Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	return &AbandonmentAnalysis{AvgTime: avgTimes, TopAbandoned: counts}, nil
}

// CustomerDemographics aggregates purchase count and spend per age group,
// gender and location.
func (s *Service) CustomerDemographics() (*Demographics, error) {
	demographicQuery := func(column, orderBy string) ([]DemographicRow, error) {
		// column and orderBy are fixed identifiers chosen below, never
		// caller input.
		rows := make([]DemographicRow, 0)
		err := s.db.Raw(`
			SELECT c.` + column + ` AS ` + "\"group\"" + `,
				COUNT(DISTINCT pur.purchase_id) AS purchase_count,
				COALESCE(SUM(` + revenueExpr + `), 0) AS total_spent
			FROM purchases pur
			JOIN customers c ON pur.customer_id = c.customer_id
			JOIN purchase_details pd ON pur.purchase_id = pd.purchase_id
			JOIN products p ON pd.product_id = p.product_id
			GROUP BY c.` + column + `
			ORDER BY ` + orderBy,
		).Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for i := range rows {
			rows[i].TotalSpent = round2(rows[i].TotalSpent)
		}
		return rows, nil
	}

	byAge, err := demographicQuery("age_group", "c.age_group")
	if err != nil {
		return nil, err
	}
	byGender, err := demographicQuery("gender", "c.gender")
	if err != nil {
		return nil, err
	}
	byLocation, err := demographicQuery("location", "purchase_count DESC")
	if err != nil {
		return nil, err
	}

	return &Demographics{ByAge: byAge, ByGender: byGender, ByLocation: byLocation}, nil
}

// PurchasePatterns reports the top 10 product pairs bought together and the
// top 10 customers with repeat purchases.
func (s *Service) PurchasePatterns() (*PurchasePatterns, error) {
	pairs := make([]ProductPair, 0, 10)
	err := s.db.Raw(`
		SELECT p1.product_id AS product1_id, p1.product_name AS product1_name,
			p2.product_id AS product2_id, p2.product_name AS product2_name,
			COUNT(*) AS frequency
		FROM purchase_details pd1
		JOIN purchase_details pd2
			ON pd1.purchase_id = pd2.purchase_id
			AND pd1.product_id < pd2.product_id
		JOIN products p1 ON pd1.product_id = p1.product_id
		JOIN products p2 ON pd2.product_id = p2.product_id
		GROUP BY p1.product_id, p1.product_name, p2.product_id, p2.product_name
		ORDER BY frequency DESC
		LIMIT 10
	`).Scan(&pairs).Error
	if err != nil {
		return nil, err
	}

	recurrent := make([]RecurrentCustomer, 0, 10)
	err = s.db.Raw(`
		SELECT c.customer_id, COUNT(DISTINCT pur.purchase_id) AS purchase_count
		FROM purchases pur
		JOIN customers c ON pur.customer_id = c.customer_id
		GROUP BY c.customer_id
		HAVING COUNT(DISTINCT pur.purchase_id) > 1
		ORDER BY purchase_count DESC
		LIMIT 10
	`).Scan(&recurrent).Error
	if err != nil {
		return nil, err
	}

	return &PurchasePatterns{ProductPairs: pairs, RecurrentCustomers: recurrent}, nil
}
