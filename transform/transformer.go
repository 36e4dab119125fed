package transform

import (
	"time"

	"github.com/LilVoxy/finance_etl/models"
	"github.com/LilVoxy/finance_etl/utils"
)

// Transformer координирует процесс построения звездной схемы
// из очищенных записей
type Transformer struct {
	logger            *utils.ETLLogger
	factsProcessor    *TransactionFactsProcessor
	customerProcessor *CustomerDimensionProcessor
	dateProcessor     *DateDimensionProcessor
	productProcessor  *ProductDimensionProcessor
	salesProcessor    *SalesStarProcessor
}

// NewTransformer создает новый экземпляр Transformer
func NewTransformer(logger *utils.ETLLogger) *Transformer {
	return &Transformer{
		logger:            logger,
		factsProcessor:    NewTransactionFactsProcessor(logger),
		customerProcessor: NewCustomerDimensionProcessor(logger),
		dateProcessor:     NewDateDimensionProcessor(logger),
		productProcessor:  NewProductDimensionProcessor(logger),
		salesProcessor:    NewSalesStarProcessor(logger),
	}
}

// Transform строит звездную схему датасета финансового здоровья:
// одна таблица фактов и измерения клиентов, дат и продуктов
func (t *Transformer) Transform(transactions []models.CleanedTransaction) (*models.TransformedData, error) {
	startTime := time.Now()
	t.logger.Info("Начало фазы Transform (Построение звездной схемы)")

	transformedData := &models.TransformedData{}

	// 1. Таблица фактов с производными мерами
	t.logger.Info("Построение фактов транзакций...")
	transformedData.Facts = t.factsProcessor.ProcessFacts(transactions)

	// 2. Измерение клиентов
	t.logger.Info("Построение измерения клиентов...")
	transformedData.Customers = t.customerProcessor.ProcessCustomerDimension(transactions)

	// 3. Измерение дат
	t.logger.Info("Построение измерения дат...")
	transformedData.Dates = t.dateProcessor.ProcessDateDimension(transactions)

	// 4. Измерение продуктов
	t.logger.Info("Построение измерения продуктов...")
	transformedData.Products = t.productProcessor.ProcessProductDimension(transactions)

	t.logger.LogTransformComplete(
		len(transformedData.Facts),
		transformedData.DimensionRows(),
		time.Since(startTime),
	)

	return transformedData, nil
}

// TransformSales строит звездную схему датасета продаж
func (t *Transformer) TransformSales(records []models.SalesRecord) (*models.SalesStar, error) {
	startTime := time.Now()
	t.logger.Info("Начало фазы Transform (Построение звездной схемы продаж)")

	star := t.salesProcessor.ProcessSalesStar(records)

	t.logger.LogTransformComplete(len(star.Facts), star.DimensionRows(), time.Since(startTime))
	return star, nil
}
