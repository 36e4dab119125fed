package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/finance_etl/models"
	"github.com/LilVoxy/finance_etl/utils"
)

func pctOf(v float64) *float64 { return &v }

func requireMetric(t *testing.T, snapshot *Snapshot, name string) Value {
	t.Helper()
	value, ok := snapshot.Get(name)
	require.True(t, ok, "метрика %q отсутствует в снимке", name)
	return value
}

func TestCalculateBasicSums(t *testing.T) {
	facts := []models.FactTransaction{
		{CustomerID: "C001", Revenue: 1000, Cost: 400, Profit: 600, BudgetAmount: 500, ActualAmount: 450, Variance: -50, VariancePct: pctOf(-0.1), OrdersCount: 3},
		{CustomerID: "C002", Revenue: 2000, Cost: 600, Profit: 1400, BudgetAmount: 1000, ActualAmount: 1100, Variance: 100, VariancePct: pctOf(0.1), OrdersCount: 5},
	}
	customers := []models.CustomerDimension{
		{CustomerID: "C001", Region: "Gauteng"},
		{CustomerID: "C002", Region: "Western Cape"},
	}

	calculator := NewCalculator(utils.NewSilentLogger())
	snapshot := calculator.Calculate(facts, customers)

	assert.InDelta(t, 3000, requireMetric(t, snapshot, "Total Revenue").Value, 1e-9)
	assert.InDelta(t, 1000, requireMetric(t, snapshot, "Total Cost").Value, 1e-9)
	assert.InDelta(t, 2000, requireMetric(t, snapshot, "Total Profit").Value, 1e-9)
	assert.InDelta(t, 1500, requireMetric(t, snapshot, "Total Budget").Value, 1e-9)
	assert.InDelta(t, 1550, requireMetric(t, snapshot, "Total Actual Spend").Value, 1e-9)

	variance := requireMetric(t, snapshot, "Avg Budget Variance")
	assert.Equal(t, StatusComputed, variance.Status)
	assert.InDelta(t, 25, variance.Value, 1e-9)

	pct := requireMetric(t, snapshot, "Avg Budget Variance %")
	assert.Equal(t, StatusComputed, pct.Status)
	assert.InDelta(t, 0, pct.Value, 1e-9)

	customersMetric := requireMetric(t, snapshot, "Total Customers")
	assert.InDelta(t, 2, customersMetric.Value, 1e-9)

	orders := requireMetric(t, snapshot, "Avg Orders per Customer")
	assert.InDelta(t, 4, orders.Value, 1e-9)
}

func TestCalculateLossRatio(t *testing.T) {
	facts := []models.FactTransaction{
		{CustomerID: "C001", ProductCategory: "Insurance", Revenue: 1000, ClaimAmount: 300},
		{CustomerID: "C002", ProductCategory: "Insurance", Revenue: 1000, ClaimAmount: 100},
		{CustomerID: "C003", ProductCategory: "Electronics", Revenue: 5000, ClaimAmount: 999},
	}

	calculator := NewCalculator(utils.NewSilentLogger())
	snapshot := calculator.Calculate(facts, nil)

	// Только страховые транзакции участвуют в Loss Ratio
	lossRatio := requireMetric(t, snapshot, "Loss Ratio")
	assert.Equal(t, StatusComputed, lossRatio.Status)
	assert.InDelta(t, 0.2, lossRatio.Value, 1e-9)
	assert.NotEmpty(t, lossRatio.Formula)
}

func TestCalculateLossRatioZeroDenominator(t *testing.T) {
	facts := []models.FactTransaction{
		{CustomerID: "C001", ProductCategory: "Electronics", Revenue: 5000},
		// Страховые выплаты при нулевой страховой выручке
		{CustomerID: "C002", ProductCategory: "Insurance", Revenue: 0, ClaimFlag: 1, ClaimAmount: 750},
	}

	calculator := NewCalculator(utils.NewSilentLogger())
	snapshot := calculator.Calculate(facts, nil)

	// Нулевая страховая выручка дает 0 независимо от сумм выплат
	lossRatio := requireMetric(t, snapshot, "Loss Ratio")
	assert.Equal(t, StatusUndefined, lossRatio.Status)
	assert.InDelta(t, 0, lossRatio.Value, 1e-9)
}

func TestCalculateRetention(t *testing.T) {
	facts := []models.FactTransaction{
		{CustomerID: "C001", ChurnFlag: 1},
		{CustomerID: "C002"},
		{CustomerID: "C003"},
		{CustomerID: "C004"},
	}
	customers := []models.CustomerDimension{
		{CustomerID: "C001"}, {CustomerID: "C002"}, {CustomerID: "C003"}, {CustomerID: "C004"},
	}

	calculator := NewCalculator(utils.NewSilentLogger())
	snapshot := calculator.Calculate(facts, customers)

	retention := requireMetric(t, snapshot, "Customer Retention Rate")
	assert.Equal(t, StatusComputed, retention.Status)
	assert.InDelta(t, 0.75, retention.Value, 1e-9)
}

func TestCalculateEmptyFacts(t *testing.T) {
	calculator := NewCalculator(utils.NewSilentLogger())
	snapshot := calculator.Calculate([]models.FactTransaction{}, nil)

	// Пустой вход безопасен: суммы нулевые, средние не определены
	assert.InDelta(t, 0, requireMetric(t, snapshot, "Total Revenue").Value, 1e-9)
	assert.Equal(t, StatusUndefined, requireMetric(t, snapshot, "Avg Budget Variance").Status)
	assert.Equal(t, StatusUndefined, requireMetric(t, snapshot, "Avg Budget Variance %").Status)
	assert.Equal(t, StatusUndefined, requireMetric(t, snapshot, "Regional Risk Exposure").Status)

	// Количество клиентов не опускается ниже 1
	assert.InDelta(t, 1, requireMetric(t, snapshot, "Total Customers").Value, 1e-9)
	assert.InDelta(t, 1, requireMetric(t, snapshot, "Customer Retention Rate").Value, 1e-9)
}

func TestCalculateNilFacts(t *testing.T) {
	calculator := NewCalculator(utils.NewSilentLogger())
	snapshot := calculator.Calculate(nil, nil)

	require.Len(t, snapshot.Metrics, len(metricNames))
	for _, metric := range snapshot.Metrics {
		assert.Equal(t, StatusFailed, metric.Status, "метрика %q", metric.Name)
	}
}

func TestRegionalRiskExposure(t *testing.T) {
	customers := []models.CustomerDimension{
		{CustomerID: "C001", Region: "Gauteng"},
		{CustomerID: "C002", Region: "Gauteng"},
		{CustomerID: "C003", Region: "Western Cape"},
	}
	facts := []models.FactTransaction{
		{CustomerID: "C001", Variance: 10},
		{CustomerID: "C002", Variance: 30},
		// Единственная транзакция региона не дает выборочного отклонения
		{CustomerID: "C003", Variance: 100},
	}

	calculator := NewCalculator(utils.NewSilentLogger())
	exposure, ok := calculator.regionalRiskExposure(facts, customers)
	require.True(t, ok)

	// Выборочное отклонение [10, 30] с n-1 в знаменателе
	assert.InDelta(t, 14.142135623730951, exposure, 1e-9)
}

func TestSampleStdDev(t *testing.T) {
	_, ok := sampleStdDev(nil)
	assert.False(t, ok)

	_, ok = sampleStdDev([]float64{5})
	assert.False(t, ok)

	std, ok := sampleStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.True(t, ok)
	assert.InDelta(t, 2.138089935299395, std, 1e-9)
}

func TestSnapshotGet(t *testing.T) {
	snapshot := &Snapshot{}
	snapshot.add("Total Revenue", 42, StatusComputed)

	value, ok := snapshot.Get("Total Revenue")
	require.True(t, ok)
	assert.InDelta(t, 42, value.Value, 1e-9)

	_, ok = snapshot.Get("No Such Metric")
	assert.False(t, ok)
}
