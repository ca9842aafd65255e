package mlearn

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics-service/internal/model"
)

func TestAbandonmentRisk(t *testing.T) {
	e := testEngine(t)

	require.NoError(t, e.db.Create(&model.Customer{CustomerID: "C001", Age: 30}).Error)
	sessions := []model.Session{
		{SessionID: "SES1", CustomerID: "C001", Date: "2024-03-01"},
		{SessionID: "SES2", CustomerID: "C001", Date: "2024-03-02"},
	}
	require.NoError(t, e.db.Create(&sessions).Error)
	products := []model.Product{
		{ProductID: "P001", Name: "Cheap", Price: 2, Discount: 0},
		{ProductID: "P002", Name: "Mid", Price: 4, Discount: 0},
		{ProductID: "P003", Name: "Pricey", Price: 200, Discount: 0},
	}
	require.NoError(t, e.db.Create(&products).Error)

	t.Run("missing session returns nil", func(t *testing.T) {
		assessment, err := e.AbandonmentRisk("SES999")
		require.NoError(t, err)
		assert.Nil(t, assessment)
	})

	t.Run("empty cart scores the base probability", func(t *testing.T) {
		assessment, err := e.AbandonmentRisk("SES1")
		require.NoError(t, err)
		require.NotNil(t, assessment)
		assert.InDelta(t, 0.5, assessment.Probability, 0.001)
		assert.Equal(t, RiskMedium, assessment.RiskLevel)
		assert.Zero(t, assessment.Factors.NumItems)
	})

	t.Run("cheap multi-item cart raises risk", func(t *testing.T) {
		abandonments := []model.CartAbandonment{
			{SessionID: "SES1", ProductID: "P001", Quantity: 1, AbandonmentTime: 60, Date: "2024-03-01"},
			{SessionID: "SES1", ProductID: "P002", Quantity: 1, AbandonmentTime: 90, Date: "2024-03-01"},
		}
		require.NoError(t, e.db.Create(&abandonments).Error)

		assessment, err := e.AbandonmentRisk("SES1")
		require.NoError(t, err)
		// 0.5 + 0.1*2 - 0.005*6 - 0.2*0 + 0.05*2 = 0.77
		assert.InDelta(t, 0.77, assessment.Probability, 0.001)
		assert.Equal(t, RiskHigh, assessment.RiskLevel)
		assert.Equal(t, int64(2), assessment.Factors.PreviousAbandonments)
		assert.InDelta(t, 6.0, assessment.Factors.CartValue, 0.001)
		assert.Equal(t, int64(2), assessment.Factors.NumItems)
	})

	t.Run("expensive cart clips to zero", func(t *testing.T) {
		require.NoError(t, e.db.Create(&model.CartAbandonment{
			SessionID: "SES2", ProductID: "P003", Quantity: 1, AbandonmentTime: 30, Date: "2024-03-02",
		}).Error)

		assessment, err := e.AbandonmentRisk("SES2")
		require.NoError(t, err)
		// 0.5 + 0.1*3 - 0.005*200 + 0.05*1 = -0.15, clipped to 0.
		assert.Zero(t, assessment.Probability)
		assert.Equal(t, RiskLow, assessment.RiskLevel)
	})
}

func TestRiskBand(t *testing.T) {
	cases := []struct {
		probability float64
		want        string
	}{
		{0, RiskLow},
		{0.29, RiskLow},
		{0.3, RiskMedium},
		{0.59, RiskMedium},
		{0.6, RiskHigh},
		{1, RiskHigh},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, riskBand(tc.probability), "probability %v", tc.probability)
	}
}

func TestTrainAbandonmentModel(t *testing.T) {
	e := testEngine(t)

	require.NoError(t, e.TrainAbandonmentModel())

	data, err := os.ReadFile(filepath.Join(e.modelsDir, abandonmentArtifact))
	require.NoError(t, err)

	var artifact abandonmentModel
	require.NoError(t, json.Unmarshal(data, &artifact))
	assert.Equal(t, "linear_heuristic", artifact.ModelType)
	assert.Equal(t, "2024-04-01", artifact.TrainedDate)
	assert.InDelta(t, 0.5, artifact.Weights["base"], 0.001)
}
