package models

import (
	"time"
)

// FactTransaction представляет факт транзакции в звездной схеме
// VariancePct равен nil, когда budget_amount равен нулю (деление не определено)
type FactTransaction struct {
	TransactionID   string    `csv:"transaction_id"`
	Date            time.Time `csv:"date"`
	CustomerID      string    `csv:"customer_id"`
	ProductCategory string    `csv:"product_category"`
	BudgetAmount    float64   `csv:"budget_amount"`
	ActualAmount    float64   `csv:"actual_amount"`
	Cost            float64   `csv:"cost"`
	Revenue         float64   `csv:"revenue"`
	ClaimFlag       int       `csv:"claim_flag"`
	ClaimAmount     float64   `csv:"claim_amount"`
	ChurnFlag       int       `csv:"churn_flag"`
	OrdersCount     float64   `csv:"orders_count"`
	Profit          float64   `csv:"profit"`
	Variance        float64   `csv:"variance"`
	VariancePct     *float64  `csv:"variance_pct"`
}

// CustomerDimension представляет измерение клиентов
// Дедуплицируется по полному кортежу атрибутов, натуральный ключ - customer_id
type CustomerDimension struct {
	CustomerID string `csv:"customer_id"`
	Segment    string `csv:"segment"`
	Region     string `csv:"region"`
	Country    string `csv:"country"`
}

// DateDimension представляет измерение дат с производными календарными атрибутами
type DateDimension struct {
	Date      time.Time `csv:"date"`
	Day       int       `csv:"day"`
	Month     int       `csv:"month"`
	Year      int       `csv:"year"`
	Quarter   int       `csv:"quarter"`
	MonthYear string    `csv:"month_year"`
}

// ProductDimension представляет измерение продуктовых категорий
// ProductType - производная классификация: "Risk Products" или "Transactional Products"
type ProductDimension struct {
	ProductCategory string `csv:"product_category"`
	ProductType     string `csv:"product_type"`
}

// TransformedData содержит результат построения звездной схемы
// для датасета финансового здоровья
type TransformedData struct {
	Facts     []FactTransaction
	Customers []CustomerDimension
	Dates     []DateDimension
	Products  []ProductDimension
}

// DimensionRows возвращает общее количество записей во всех измерениях
func (d *TransformedData) DimensionRows() int {
	return len(d.Customers) + len(d.Dates) + len(d.Products)
}

// SalesDateDimension представляет измерение дат для звездной схемы продаж
type SalesDateDimension struct {
	Date        time.Time `csv:"date"`
	MonthNumber int       `csv:"month_number"`
	MonthName   string    `csv:"month_name"`
	Year        int       `csv:"year"`
}

// FactSales представляет факт продажи
// Ссылки на измерения хранятся по натуральным ключам; суррогатные ключи
// разрешаются при загрузке в реляционное хранилище
type FactSales struct {
	Product            string    `csv:"product"`
	Segment            string    `csv:"segment"`
	Country            string    `csv:"country"`
	DiscountBand       string    `csv:"discount_band"`
	Date               time.Time `csv:"date"`
	UnitsSold          float64   `csv:"units_sold"`
	ManufacturingPrice float64   `csv:"manufacturing_price"`
	SalePrice          float64   `csv:"sale_price"`
	GrossSales         float64   `csv:"gross_sales"`
	Discounts          float64   `csv:"discounts"`
	Sales              float64   `csv:"sales"`
	COGS               float64   `csv:"cogs"`
	Profit             float64   `csv:"profit"`
}

// SalesStar содержит звездную схему датасета продаж
type SalesStar struct {
	Products      []string
	Segments      []string
	Countries     []string
	DiscountBands []string
	Dates         []SalesDateDimension
	Facts         []FactSales
}

// DimensionRows возвращает общее количество записей во всех измерениях
func (s *SalesStar) DimensionRows() int {
	return len(s.Products) + len(s.Segments) + len(s.Countries) + len(s.DiscountBands) + len(s.Dates)
}
