package models

import (
	"time"
)

// CleanedTransaction представляет одну очищенную запись финансовой транзакции
// Структура соответствует колонкам очищенного CSV-файла, который является
// контрактом между фазами Clean и Transform
type CleanedTransaction struct {
	Region          string    `csv:"region"`
	CustomerID      string    `csv:"customer_id"`
	Date            time.Time `csv:"date"`
	Segment         string    `csv:"segment"`
	ProductCategory string    `csv:"product_category"`
	Country         string    `csv:"country"`
	BudgetAmount    float64   `csv:"budget_amount"`
	ActualAmount    float64   `csv:"actual_amount"`
	Cost            float64   `csv:"cost"`
	Revenue         float64   `csv:"revenue"`
	ClaimAmount     float64   `csv:"claim_amount"`
	ClaimFlag       int       `csv:"claim_flag"`
	ChurnFlag       int       `csv:"churn_flag"`
	OrdersCount     float64   `csv:"orders_count"`
	TransactionID   string    `csv:"transaction_id"`
	Location        string    `csv:"location"`
}

// SalesRecord представляет одну очищенную запись датасета продаж (FinancialSample)
type SalesRecord struct {
	Segment            string    `csv:"segment"`
	Country            string    `csv:"country"`
	Product            string    `csv:"product"`
	DiscountBand       string    `csv:"discount_band"`
	UnitsSold          float64   `csv:"units_sold"`
	ManufacturingPrice float64   `csv:"manufacturing_price"`
	SalePrice          float64   `csv:"sale_price"`
	GrossSales         float64   `csv:"gross_sales"`
	Discounts          float64   `csv:"discounts"`
	Sales              float64   `csv:"sales"`
	COGS               float64   `csv:"cogs"`
	Profit             float64   `csv:"profit"`
	Date               time.Time `csv:"date"`
	MonthNumber        int       `csv:"month_number"`
	MonthName          string    `csv:"month_name"`
	Year               int       `csv:"year"`
}
