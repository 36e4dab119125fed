package load

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/finance_etl/clean"
	"github.com/LilVoxy/finance_etl/extractors"
	"github.com/LilVoxy/finance_etl/metrics"
	"github.com/LilVoxy/finance_etl/models"
	"github.com/LilVoxy/finance_etl/utils"
)

func TestWriteTableCSV(t *testing.T) {
	table := &models.Table{
		Columns: []string{"transaction_id", "region"},
		Rows:    [][]string{{"T1", "Gauteng"}, {"T2", "Western Cape"}},
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteTableCSV(table, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "transaction_id,region\nT1,Gauteng\nT2,Western Cape\n", string(data))

	// Временный файл не остается после успешной записи
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

// Запись фактов и обратное чтение не теряют значений
func TestFactRoundTrip(t *testing.T) {
	pct := -0.123456789
	facts := []models.FactTransaction{
		{
			TransactionID:   "T1",
			Date:            time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			CustomerID:      "C001",
			ProductCategory: "Insurance",
			BudgetAmount:    1234.5678,
			ActualAmount:    1082.111,
			Cost:            400.25,
			Revenue:         1200.75,
			ClaimFlag:       1,
			ClaimAmount:     99.99,
			OrdersCount:     3,
			Profit:          800.5,
			Variance:        -152.4568,
			VariancePct:     &pct,
		},
		{
			TransactionID: "T2",
			CustomerID:    "ANONYMOUS",
			ChurnFlag:     1,
		},
	}

	path := filepath.Join(t.TempDir(), "facts.csv")
	require.NoError(t, WriteRecordsCSV(facts, path))

	restored, err := extractors.ReadTransactions(path)
	require.NoError(t, err)
	require.Len(t, restored, 2)

	first := restored[0]
	assert.Equal(t, "T1", first.TransactionID)
	assert.True(t, facts[0].Date.Equal(first.Date))
	assert.InDelta(t, 1234.5678, first.BudgetAmount, 1e-9)
	assert.InDelta(t, 1200.75, first.Revenue, 1e-9)
	assert.InDelta(t, 99.99, first.ClaimAmount, 1e-9)
	assert.Equal(t, 1, first.ClaimFlag)

	// Нулевая дата сериализуется пустым значением и читается обратно нулевой
	assert.True(t, restored[1].Date.IsZero())
	assert.Equal(t, 1, restored[1].ChurnFlag)
}

func TestMarshalDate(t *testing.T) {
	data, err := marshalDate(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", string(data))

	data, err = marshalDate(time.Time{})
	require.NoError(t, err)
	assert.Empty(t, string(data))
}

// Значение в display-версии нормализуется обратно в то же число
func TestWriteDisplayCSV(t *testing.T) {
	table := &models.Table{
		Columns: []string{"region", "budget_amount"},
		Rows:    [][]string{{"Gauteng", "1234.5"}, {"Western Cape", "not numeric"}},
	}

	writer, err := NewDisplayWriter("en-ZA", utils.NewSilentLogger())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "display.csv")
	require.NoError(t, writer.WriteDisplayCSV(table, []string{"budget_amount"}, path))

	extractor := extractors.NewCSVExtractor(utils.NewSilentLogger())
	display, err := extractor.ExtractTable(path)
	require.NoError(t, err)
	require.Equal(t, 2, display.RowCount())

	// Локализованная запись содержит ровно два знака после запятой
	// и разбирается обратно в исходное значение
	formatted := display.Rows[0][1]
	assert.NotEqual(t, "1234.5", formatted)
	value, ok := clean.NormalizeNumeric(formatted)
	require.True(t, ok, "display-значение %q должно нормализоваться", formatted)
	assert.InDelta(t, 1234.5, value, 1e-9)

	// Нечисловые значения остаются как есть
	assert.Equal(t, "not numeric", display.Rows[1][1])

	// Канонические значения исходной таблицы не изменяются
	assert.Equal(t, "1234.5", table.Rows[0][1])
}

func TestWriteDisplayCSVBadLocale(t *testing.T) {
	_, err := NewDisplayWriter("no such locale", utils.NewSilentLogger())
	require.Error(t, err)
}

func TestWriteMetricsJSON(t *testing.T) {
	snapshot := &metrics.Snapshot{
		RunID:       "7da7f36a-0000-0000-0000-000000000001",
		GeneratedAt: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
		Metrics: []metrics.Value{
			{Name: "Total Revenue", Value: 3000, Status: metrics.StatusComputed},
			{Name: "Loss Ratio", Value: 0, Status: metrics.StatusUndefined},
		},
	}

	path := filepath.Join(t.TempDir(), "metrics.json")
	require.NoError(t, WriteMetricsJSON(snapshot, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var restored metrics.Snapshot
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, snapshot.RunID, restored.RunID)
	require.Len(t, restored.Metrics, 2)
	assert.Equal(t, "Total Revenue", restored.Metrics[0].Name)
	assert.Equal(t, metrics.StatusUndefined, restored.Metrics[1].Status)
}

func TestWriteFileAtomicFailureLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	err := writeFileAtomic(path, func(f *os.File) error {
		return assert.AnError
	})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(statErr))
}
