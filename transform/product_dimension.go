package transform

import (
	"github.com/LilVoxy/finance_etl/models"
	"github.com/LilVoxy/finance_etl/utils"
)

// Категории, классифицируемые как рисковые продукты
var riskCategories = map[string]bool{
	"Insurance": true,
	"Loans":     true,
}

// Значения производной классификации продуктов
const (
	RiskProducts          = "Risk Products"
	TransactionalProducts = "Transactional Products"
)

// ProductDimensionProcessor отвечает за построение измерения продуктов
type ProductDimensionProcessor struct {
	logger *utils.ETLLogger
}

// NewProductDimensionProcessor создает новый экземпляр ProductDimensionProcessor
func NewProductDimensionProcessor(logger *utils.ETLLogger) *ProductDimensionProcessor {
	return &ProductDimensionProcessor{
		logger: logger,
	}
}

// ProcessProductDimension строит измерение продуктовых категорий
// с производной двухзначной классификацией по принадлежности категории
func (p *ProductDimensionProcessor) ProcessProductDimension(transactions []models.CleanedTransaction) []models.ProductDimension {
	seen := make(map[string]bool, len(transactions))
	products := make([]models.ProductDimension, 0, len(transactions))

	for _, tx := range transactions {
		if seen[tx.ProductCategory] {
			continue
		}
		seen[tx.ProductCategory] = true

		products = append(products, models.ProductDimension{
			ProductCategory: tx.ProductCategory,
			ProductType:     ClassifyProduct(tx.ProductCategory),
		})
	}

	return products
}

// ClassifyProduct возвращает классификацию категории продукта
func ClassifyProduct(category string) string {
	if riskCategories[category] {
		return RiskProducts
	}
	return TransactionalProducts
}
