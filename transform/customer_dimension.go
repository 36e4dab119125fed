package transform

import (
	"github.com/LilVoxy/finance_etl/models"
	"github.com/LilVoxy/finance_etl/utils"
)

// CustomerDimensionProcessor отвечает за построение измерения клиентов
type CustomerDimensionProcessor struct {
	logger *utils.ETLLogger
}

// NewCustomerDimensionProcessor создает новый экземпляр CustomerDimensionProcessor
func NewCustomerDimensionProcessor(logger *utils.ETLLogger) *CustomerDimensionProcessor {
	return &CustomerDimensionProcessor{
		logger: logger,
	}
}

// ProcessCustomerDimension строит измерение клиентов: чистая проекция
// с дедупликацией по полному кортежу атрибутов, порядок ввода сохраняется
func (p *CustomerDimensionProcessor) ProcessCustomerDimension(transactions []models.CleanedTransaction) []models.CustomerDimension {
	type customerKey struct {
		customerID string
		segment    string
		region     string
		country    string
	}

	seen := make(map[customerKey]bool, len(transactions))
	customers := make([]models.CustomerDimension, 0, len(transactions))

	for _, tx := range transactions {
		key := customerKey{
			customerID: tx.CustomerID,
			segment:    tx.Segment,
			region:     tx.Region,
			country:    tx.Country,
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		customers = append(customers, models.CustomerDimension{
			CustomerID: tx.CustomerID,
			Segment:    tx.Segment,
			Region:     tx.Region,
			Country:    tx.Country,
		})
	}

	return customers
}
