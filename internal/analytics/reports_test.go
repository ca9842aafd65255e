package analytics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportReport(t *testing.T) {
	db := testDB(t)
	seedSales(t, db)
	svc := New(db)
	dir := t.TempDir()

	t.Run("summary report", func(t *testing.T) {
		filename, err := svc.ExportReport(dir, "summary", "2024-03-01", "2024-03-31")
		require.NoError(t, err)
		assert.Contains(t, filename, "summary")

		f, err := os.Open(filepath.Join(dir, filename))
		require.NoError(t, err)
		defer f.Close()

		records, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		require.NotEmpty(t, records)
		assert.Equal(t, []string{"metric", "value"}, records[0])
	})

	t.Run("sales report carries the trend rows", func(t *testing.T) {
		filename, err := svc.ExportReport(dir, "sales", "2024-03-01", "2024-03-31")
		require.NoError(t, err)

		f, err := os.Open(filepath.Join(dir, filename))
		require.NoError(t, err)
		defer f.Close()

		records, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		// Header plus one row per active day.
		require.Len(t, records, 3)
		assert.Equal(t, "2024-03-01", records[1][0])
	})

	t.Run("unknown report type", func(t *testing.T) {
		_, err := svc.ExportReport(dir, "audit", "2024-03-01", "2024-03-31")
		assert.Error(t, err)
	})
}
