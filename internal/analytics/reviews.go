package analytics

import "sort"

// SentimentSummary buckets review scores into positive (4-5), neutral (3)
// and negative (1-2).
type SentimentSummary struct {
	Positive     int     `json:"positive"`
	Neutral      int     `json:"neutral"`
	Negative     int     `json:"negative"`
	AverageScore float64 `json:"average_score"`
	ReviewCount  int     `json:"review_count"`
}

// ReviewSentiment aggregates review scores, optionally filtered by product
// or category.
func (s *Service) ReviewSentiment(productID, category string) (*SentimentSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN r.score >= 4 THEN 1 ELSE 0 END), 0) AS positive,
			COALESCE(SUM(CASE WHEN r.score = 3 THEN 1 ELSE 0 END), 0) AS neutral,
			COALESCE(SUM(CASE WHEN r.score <= 2 THEN 1 ELSE 0 END), 0) AS negative,
			COALESCE(AVG(r.score), 0) AS average_score,
			COUNT(r.review_id) AS review_count
		FROM reviews r
		JOIN products p ON r.product_id = p.product_id
		WHERE 1=1`
	args := []interface{}{}
	if productID != "" {
		query += " AND r.product_id = ?"
		args = append(args, productID)
	}
	if category != "" {
		query += " AND p.category = ?"
		args = append(args, category)
	}

	var out SentimentSummary
	if err := s.db.Raw(query, args...).Scan(&out).Error; err != nil {
		return nil, err
	}
	out.AverageScore = round2(out.AverageScore)
	return &out, nil
}

// ProductScore is the review-score aggregate of one product.
type ProductScore struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Category     string  `json:"category"`
	AverageScore float64 `json:"average_score"`
	ReviewCount  int     `json:"review_count"`
}

// CategoryScore averages the per-product scores of one category.
type CategoryScore struct {
	Category     string  `json:"category"`
	AverageScore float64 `json:"average_score"`
	ProductCount int     `json:"product_count"`
}

// ScoreBucket is the review count at one score value.
type ScoreBucket struct {
	Score int `json:"score"`
	Count int `json:"count"`
}

// ScoreReport is the full review-score breakdown.
type ScoreReport struct {
	ByProduct    []ProductScore  `json:"by_product"`
	ByCategory   []CategoryScore `json:"by_category"`
	Distribution []ScoreBucket   `json:"distribution"`
}

// ReviewScores reports per-product averages, per-category averages derived
// from them, and the overall score histogram. Category averages weight each
// product equally rather than each review.
func (s *Service) ReviewScores() (*ScoreReport, error) {
	var products []ProductScore
	err := s.db.Raw(`
		SELECT p.product_id, p.product_name, p.category,
		       AVG(r.score) AS average_score,
		       COUNT(r.review_id) AS review_count
		FROM products p
		JOIN reviews r ON r.product_id = p.product_id
		GROUP BY p.product_id, p.product_name, p.category
		HAVING COUNT(r.review_id) > 0
		ORDER BY average_score DESC, p.product_id`).Scan(&products).Error
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].AverageScore = round2(products[i].AverageScore)
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, p := range products {
		sums[p.Category] += p.AverageScore
		counts[p.Category]++
	}
	categories := make([]CategoryScore, 0, len(sums))
	for cat, sum := range sums {
		categories = append(categories, CategoryScore{
			Category:     cat,
			AverageScore: round2(sum / float64(counts[cat])),
			ProductCount: counts[cat],
		})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].AverageScore != categories[j].AverageScore {
			return categories[i].AverageScore > categories[j].AverageScore
		}
		return categories[i].Category < categories[j].Category
	})

	var buckets []ScoreBucket
	err = s.db.Raw(`
		SELECT score, COUNT(*) AS count
		FROM reviews
		GROUP BY score
		ORDER BY score`).Scan(&buckets).Error
	if err != nil {
		return nil, err
	}

	if products == nil {
		products = []ProductScore{}
	}
	if buckets == nil {
		buckets = []ScoreBucket{}
	}
	return &ScoreReport{
		ByProduct:    products,
		ByCategory:   categories,
		Distribution: buckets,
	}, nil
}

// ResponseImpact measures how merchant replies relate to review engagement.
type ResponseImpact struct {
	NegativeReviews       int     `json:"negative_reviews"`
	RespondedNegative     int     `json:"responded_negative"`
	ResponseRate          float64 `json:"response_rate"`
	AvgThumbsWithReply    float64 `json:"avg_thumbs_with_reply"`
	AvgThumbsWithoutReply float64 `json:"avg_thumbs_without_reply"`
}

// ReviewResponseImpact reports the reply rate on low-score reviews (3 and
// under) and the thumbs-up averages of replied versus unreplied reviews.
func (s *Service) ReviewResponseImpact() (*ResponseImpact, error) {
	var out ResponseImpact
	err := s.db.Raw(`
		SELECT
			COALESCE(SUM(CASE WHEN r.score <= 3 THEN 1 ELSE 0 END), 0) AS negative_reviews,
			COALESCE(SUM(CASE WHEN r.score <= 3 AND rr.review_id IS NOT NULL THEN 1 ELSE 0 END), 0) AS responded_negative,
			COALESCE(AVG(CASE WHEN rr.review_id IS NOT NULL THEN r.thumbs_up_count END), 0) AS avg_thumbs_with_reply,
			COALESCE(AVG(CASE WHEN rr.review_id IS NULL THEN r.thumbs_up_count END), 0) AS avg_thumbs_without_reply
		FROM reviews r
		LEFT JOIN (SELECT DISTINCT review_id FROM review_replies) rr
			ON rr.review_id = r.review_id`).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	if out.NegativeReviews > 0 {
		out.ResponseRate = round2(float64(out.RespondedNegative) / float64(out.NegativeReviews) * 100)
	}
	out.AvgThumbsWithReply = round2(out.AvgThumbsWithReply)
	out.AvgThumbsWithoutReply = round2(out.AvgThumbsWithoutReply)
	return &out, nil
}
