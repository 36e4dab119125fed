package extractors

import (
	"strings"
)

// columnSynonyms - декларативная таблица соответствия исторических
// написаний заголовков каноническим именам колонок.
// Ключи сравниваются без учета регистра после обрезки пробелов
var columnSynonyms = map[string]string{
	"discount band":       "discount_band",
	"units sold":          "units_sold",
	"manufacturing price": "manufacturing_price",
	"sale price":          "sale_price",
	"gross sales":         "gross_sales",
	"month number":        "month_number",
	"month name":          "month_name",
	"cogs":                "cogs",
	"product category":    "product_category",
	"customer id":         "customer_id",
	"transaction id":      "transaction_id",
	"budget":              "budget_amount",
	"actual":              "actual_amount",
	"orders count":        "orders_count",
}

// CanonicalColumn приводит заголовок колонки к каноническому имени:
// сначала поиск в таблице синонимов, затем общее правило
// (нижний регистр, пробелы заменяются подчеркиваниями)
func CanonicalColumn(header string) string {
	h := strings.TrimSpace(strings.TrimPrefix(header, "\uFEFF"))

	if canonical, ok := columnSynonyms[strings.ToLower(h)]; ok {
		return canonical
	}

	h = strings.ToLower(h)
	h = strings.Join(strings.Fields(h), "_")
	return h
}
