package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/finance_etl/models"
	"github.com/LilVoxy/finance_etl/utils"
)

func testDate(day int) time.Time {
	return time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC)
}

func TestProcessFacts(t *testing.T) {
	transactions := []models.CleanedTransaction{
		{
			TransactionID: "T1",
			Date:          testDate(15),
			CustomerID:    "C001",
			BudgetAmount:  1000,
			ActualAmount:  900,
			Cost:          400,
			Revenue:       1200,
		},
		{
			TransactionID: "T2",
			CustomerID:    "C002",
			BudgetAmount:  0,
			ActualAmount:  500,
			Cost:          100,
			Revenue:       300,
		},
	}

	processor := NewTransactionFactsProcessor(utils.NewSilentLogger())
	facts := processor.ProcessFacts(transactions)
	require.Len(t, facts, 2)

	first := facts[0]
	assert.InDelta(t, 800, first.Profit, 1e-9)
	assert.InDelta(t, -100, first.Variance, 1e-9)
	require.NotNil(t, first.VariancePct)
	assert.InDelta(t, -0.1, *first.VariancePct, 1e-9)

	// При нулевом бюджете относительное отклонение не определено
	second := facts[1]
	assert.InDelta(t, 200, second.Profit, 1e-9)
	assert.InDelta(t, 500, second.Variance, 1e-9)
	assert.Nil(t, second.VariancePct)
}

func TestProcessCustomerDimension(t *testing.T) {
	transactions := []models.CleanedTransaction{
		{CustomerID: "C001", Segment: "Retail", Region: "Gauteng", Country: "South Africa"},
		{CustomerID: "C001", Segment: "Retail", Region: "Gauteng", Country: "South Africa"},
		{CustomerID: "C001", Segment: "Corporate", Region: "Gauteng", Country: "South Africa"},
		{CustomerID: "C002", Segment: "Retail", Region: "Western Cape", Country: "South Africa"},
	}

	processor := NewCustomerDimensionProcessor(utils.NewSilentLogger())
	customers := processor.ProcessCustomerDimension(transactions)

	// Дедупликация по полному кортежу атрибутов с сохранением порядка ввода
	require.Len(t, customers, 3)
	assert.Equal(t, "C001", customers[0].CustomerID)
	assert.Equal(t, "Retail", customers[0].Segment)
	assert.Equal(t, "Corporate", customers[1].Segment)
	assert.Equal(t, "C002", customers[2].CustomerID)
}

func TestProcessDateDimension(t *testing.T) {
	transactions := []models.CleanedTransaction{
		{Date: time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)},
	}

	processor := NewDateDimensionProcessor(utils.NewSilentLogger())
	dates := processor.ProcessDateDimension(transactions)
	require.Len(t, dates, 2)

	first := dates[0]
	assert.Equal(t, 5, first.Day)
	assert.Equal(t, 11, first.Month)
	assert.Equal(t, 2024, first.Year)
	assert.Equal(t, 4, first.Quarter)
	assert.Equal(t, "2024-11", first.MonthYear)

	second := dates[1]
	assert.Equal(t, 1, second.Quarter)
	assert.Equal(t, "2023-02", second.MonthYear)
}

func TestClassifyProduct(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     string
	}{
		{name: "страхование - рисковый продукт", category: "Insurance", want: RiskProducts},
		{name: "кредиты - рисковый продукт", category: "Loans", want: RiskProducts},
		{name: "электроника - транзакционный продукт", category: "Electronics", want: TransactionalProducts},
		{name: "пустая категория", category: "", want: TransactionalProducts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyProduct(tt.category))
		})
	}
}

func TestProcessProductDimension(t *testing.T) {
	transactions := []models.CleanedTransaction{
		{ProductCategory: "Insurance"},
		{ProductCategory: "Electronics"},
		{ProductCategory: "Insurance"},
	}

	processor := NewProductDimensionProcessor(utils.NewSilentLogger())
	products := processor.ProcessProductDimension(transactions)

	require.Len(t, products, 2)
	assert.Equal(t, models.ProductDimension{ProductCategory: "Insurance", ProductType: RiskProducts}, products[0])
	assert.Equal(t, models.ProductDimension{ProductCategory: "Electronics", ProductType: TransactionalProducts}, products[1])
}

func TestTransform(t *testing.T) {
	transactions := []models.CleanedTransaction{
		{
			TransactionID:   "T1",
			CustomerID:      "C001",
			Date:            testDate(1),
			Segment:         "Retail",
			Region:          "Gauteng",
			Country:         "South Africa",
			ProductCategory: "Insurance",
			Revenue:         100,
		},
		{
			TransactionID:   "T2",
			CustomerID:      "C002",
			Date:            testDate(2),
			Segment:         "Corporate",
			Region:          "Western Cape",
			Country:         "South Africa",
			ProductCategory: "Electronics",
			Revenue:         200,
		},
	}

	transformer := NewTransformer(utils.NewSilentLogger())
	data, err := transformer.Transform(transactions)
	require.NoError(t, err)

	assert.Len(t, data.Facts, 2)
	assert.Len(t, data.Customers, 2)
	assert.Len(t, data.Dates, 2)
	assert.Len(t, data.Products, 2)
	assert.Equal(t, 6, data.DimensionRows())
}

func TestTransformSales(t *testing.T) {
	date := time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []models.SalesRecord{
		{
			Segment: "Government", Country: "Canada", Product: "Carretera", DiscountBand: "None",
			UnitsSold: 1618.5, SalePrice: 20, GrossSales: 32370, Profit: 16185,
			Date: date, MonthNumber: 1, MonthName: "January", Year: 2014,
		},
		{
			Segment: "Government", Country: "Germany", Product: "Carretera", DiscountBand: "None",
			UnitsSold: 1321, SalePrice: 20, GrossSales: 26420, Profit: 13210,
			Date: date, MonthNumber: 1, MonthName: "January", Year: 2014,
		},
	}

	transformer := NewTransformer(utils.NewSilentLogger())
	star, err := transformer.TransformSales(records)
	require.NoError(t, err)

	// Измерения дедуплицируются в порядке появления
	assert.Equal(t, []string{"Carretera"}, star.Products)
	assert.Equal(t, []string{"Government"}, star.Segments)
	assert.Equal(t, []string{"Canada", "Germany"}, star.Countries)
	assert.Equal(t, []string{"None"}, star.DiscountBands)
	require.Len(t, star.Dates, 1)
	assert.Equal(t, "January", star.Dates[0].MonthName)
	require.Len(t, star.Facts, 2)
	assert.Equal(t, "Canada", star.Facts[0].Country)
	assert.InDelta(t, 16185, star.Facts[0].Profit, 1e-9)
}
