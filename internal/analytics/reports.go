package analytics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ExportReport writes a CSV snapshot of the named report into dir and
// returns the generated filename. Files are timestamped, so a retrained
// export never overwrites an earlier one.
func (s *Service) ExportReport(dir, reportType, startDate, endDate string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.csv", reportType, time.Now().Format("20060102_150405"))
	f, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	switch reportType {
	case "sales":
		trends, err := s.SalesTrends(startDate, endDate, "day")
		if err != nil {
			return "", err
		}
		if err := w.Write([]string{"period", "sales", "revenue"}); err != nil {
			return "", err
		}
		for i, label := range trends.Labels {
			record := []string{
				label,
				strconv.FormatInt(trends.Sales[i], 10),
				strconv.FormatFloat(trends.Revenue[i], 'f', 2, 64),
			}
			if err := w.Write(record); err != nil {
				return "", err
			}
		}
	case "summary":
		totalSales, err := s.TotalSales(startDate, endDate)
		if err != nil {
			return "", err
		}
		totalRevenue, err := s.TotalRevenue(startDate, endDate)
		if err != nil {
			return "", err
		}
		conversion, err := s.ConversionRate(startDate, endDate)
		if err != nil {
			return "", err
		}
		if err := w.Write([]string{"metric", "value"}); err != nil {
			return "", err
		}
		records := [][]string{
			{"total_sales", strconv.FormatInt(totalSales, 10)},
			{"total_revenue", strconv.FormatFloat(totalRevenue, 'f', 2, 64)},
			{"conversion_rate", strconv.FormatFloat(conversion, 'f', 2, 64)},
		}
		for _, record := range records {
			if err := w.Write(record); err != nil {
				return "", err
			}
		}
	default:
		return "", fmt.Errorf("unknown report type %q", reportType)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return filename, nil
}
