package analytics

import (
	"fmt"
	"sort"
	"time"
)

// TopProduct is one row of the best-seller report.
type TopProduct struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	TotalSold   int64  `json:"total_sold"`
}

// Trends holds three aligned sequences bucketed by period, ordered by period
// ascending, ready for a line chart.
type Trends struct {
	Labels  []string  `json:"labels"`
	Sales   []int64   `json:"sales"`
	Revenue []float64 `json:"revenue"`
}

// TotalSales counts distinct purchases within the inclusive date range.
func (s *Service) TotalSales(startDate, endDate string) (int64, error) {
	var row struct {
		TotalSales int64
	}
	err := s.db.Raw(`
		SELECT COUNT(DISTINCT purchase_id) AS total_sales
		FROM purchases
		WHERE date BETWEEN ? AND ?
	`, startDate, endDate).Scan(&row).Error
	if err != nil {
		return 0, err
	}
	return row.TotalSales, nil
}

// TotalRevenue sums derived line-item revenue within the inclusive date
// range, rounded to two decimals.
func (s *Service) TotalRevenue(startDate, endDate string) (float64, error) {
	var row struct {
		TotalRevenue float64
	}
	err := s.db.Raw(`
		SELECT COALESCE(SUM(`+revenueExpr+`), 0) AS total_revenue
		FROM purchase_details pd
		JOIN purchases pur ON pd.purchase_id = pur.purchase_id
		JOIN products p ON pd.product_id = p.product_id
		WHERE pur.date BETWEEN ? AND ?
	`, startDate, endDate).Scan(&row).Error
	if err != nil {
		return 0, err
	}
	return round2(row.TotalRevenue), nil
}

// ConversionRate returns sessions_with_purchase / total_sessions * 100,
// rounded to two decimals. Defined as 0 when there are no sessions.
func (s *Service) ConversionRate(startDate, endDate string) (float64, error) {
	var sessions struct {
		TotalSessions int64
	}
	err := s.db.Raw(`
		SELECT COUNT(DISTINCT session_id) AS total_sessions
		FROM sessions
		WHERE date BETWEEN ? AND ?
	`, startDate, endDate).Scan(&sessions).Error
	if err != nil {
		return 0, err
	}
	if sessions.TotalSessions == 0 {
		return 0, nil
	}

	var purchases struct {
		SessionsWithPurchase int64
	}
	err = s.db.Raw(`
		SELECT COUNT(DISTINCT session_id) AS sessions_with_purchase
		FROM purchases
		WHERE date BETWEEN ? AND ?
	`, startDate, endDate).Scan(&purchases).Error
	if err != nil {
		return 0, err
	}

	return round2(float64(purchases.SessionsWithPurchase) / float64(sessions.TotalSessions) * 100), nil
}

// TopProducts returns the best sellers by summed quantity, descending,
// truncated to limit.
func (s *Service) TopProducts(startDate, endDate string, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 5
	}
	rows := make([]TopProduct, 0, limit)
	err := s.db.Raw(`
		SELECT p.product_id, p.product_name, SUM(pd.quantity) AS total_sold
		FROM purchase_details pd
		JOIN purchases pur ON pd.purchase_id = pur.purchase_id
		JOIN products p ON pd.product_id = p.product_id
		WHERE pur.date BETWEEN ? AND ?
		GROUP BY p.product_id, p.product_name
		ORDER BY total_sold DESC, p.product_id
		LIMIT ?
	`, startDate, endDate, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SalesTrends buckets purchases by day, week or month. The store is hit once
// with a single grouped-by-date query; bucketing into coarser intervals
// happens here so the SQL stays identical across backends.
func (s *Service) SalesTrends(startDate, endDate, interval string) (*Trends, error) {
	var daily []struct {
		Day     string
		Sales   int64
		Revenue float64
	}
	err := s.db.Raw(`
		SELECT pur.date AS day,
			COUNT(DISTINCT pur.purchase_id) AS sales,
			COALESCE(SUM(`+revenueExpr+`), 0) AS revenue
		FROM purchases pur
		JOIN purchase_details pd ON pur.purchase_id = pd.purchase_id
		JOIN products p ON pd.product_id = p.product_id
		WHERE pur.date BETWEEN ? AND ?
		GROUP BY pur.date
		ORDER BY pur.date
	`, startDate, endDate).Scan(&daily).Error
	if err != nil {
		return nil, err
	}

	type bucket struct {
		sales   int64
		revenue float64
	}
	buckets := make(map[string]*bucket)
	for _, d := range daily {
		label := periodLabel(d.Day, interval)
		b, ok := buckets[label]
		if !ok {
			b = &bucket{}
			buckets[label] = b
		}
		// A purchase belongs to exactly one date, so summing per-day
		// distinct counts into the bucket never double-counts.
		b.sales += d.Sales
		b.revenue += d.Revenue
	}

	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	trends := &Trends{
		Labels:  labels,
		Sales:   make([]int64, 0, len(labels)),
		Revenue: make([]float64, 0, len(labels)),
	}
	for _, label := range labels {
		trends.Sales = append(trends.Sales, buckets[label].sales)
		trends.Revenue = append(trends.Revenue, round2(buckets[label].revenue))
	}
	return trends, nil
}

// periodLabel maps an ISO date to its bucket label. Unknown intervals fall
// back to daily, matching the lenient historical behavior.
func periodLabel(isoDate, interval string) string {
	switch interval {
	case "week":
		t, err := time.Parse("2006-01-02", isoDate)
		if err != nil {
			return isoDate
		}
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case "month":
		if len(isoDate) >= 7 {
			return isoDate[:7]
		}
		return isoDate
	default:
		return isoDate
	}
}
