package analytics

import "sort"

// Discount band labels. Bands are assigned first-match-wins in this order,
// so every line item lands in exactly one band. The band set is the single
// consistent one; the historical "11-20%" ordering label was a mismatch and
// is not reproduced.
const (
	BandNoDiscount = "no discount"
	BandUpTo5      = "0-5%"
	Band6To15      = "6-15%"
	Band16To25     = "16-25%"
	BandOver25     = ">25%"
)

// bandRank fixes the presentation order of the bands.
var bandRank = map[string]int{
	BandNoDiscount: 1,
	BandUpTo5:      2,
	Band6To15:      3,
	Band16To25:     4,
	BandOver25:     5,
}

// DiscountBand aggregates sales for one discount band.
type DiscountBand struct {
	DiscountRange string  `json:"discount_range"`
	SalesCount    int64   `json:"sales_count"`
	UnitsSold     int64   `json:"units_sold"`
	Revenue       float64 `json:"revenue"`
}

// discountCase buckets the discount fraction into its band. First match wins.
const discountCase = `
	CASE
		WHEN p.discount = 0 THEN 'no discount'
		WHEN p.discount <= 0.05 THEN '0-5%'
		WHEN p.discount <= 0.15 THEN '6-15%'
		WHEN p.discount <= 0.25 THEN '16-25%'
		ELSE '>25%'
	END`

// DiscountImpact partitions line items into discount bands and aggregates
// count, units and discounted revenue per band. A non-empty productID
// restricts the report to that product's rows.
func (s *Service) DiscountImpact(productID string) ([]DiscountBand, error) {
	query := `
		SELECT ` + discountCase + ` AS discount_range,
			COUNT(DISTINCT pd.purchase_id) AS sales_count,
			SUM(pd.quantity) AS units_sold,
			SUM(p.price * (1 - p.discount) * pd.quantity) AS revenue
		FROM purchase_details pd
		JOIN products p ON pd.product_id = p.product_id
	`
	args := []interface{}{}
	if productID != "" {
		query += " WHERE p.product_id = ?"
		args = append(args, productID)
	}
	query += " GROUP BY 1"

	rows := make([]DiscountBand, 0, 5)
	if err := s.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Revenue = round2(rows[i].Revenue)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return bandRank[rows[i].DiscountRange] < bandRank[rows[j].DiscountRange]
	})
	return rows, nil
}
