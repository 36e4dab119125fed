package transform

import (
	"time"

	"github.com/LilVoxy/finance_etl/models"
	"github.com/LilVoxy/finance_etl/utils"
)

// DateDimensionProcessor отвечает за построение измерения дат
type DateDimensionProcessor struct {
	logger *utils.ETLLogger
}

// NewDateDimensionProcessor создает новый экземпляр DateDimensionProcessor
func NewDateDimensionProcessor(logger *utils.ETLLogger) *DateDimensionProcessor {
	return &DateDimensionProcessor{
		logger: logger,
	}
}

// ProcessDateDimension строит измерение дат из уникальных дат транзакций
// и вычисляет производные календарные атрибуты
func (p *DateDimensionProcessor) ProcessDateDimension(transactions []models.CleanedTransaction) []models.DateDimension {
	seen := make(map[time.Time]bool, len(transactions))
	dates := make([]models.DateDimension, 0, len(transactions))

	for _, tx := range transactions {
		if seen[tx.Date] {
			continue
		}
		seen[tx.Date] = true

		dates = append(dates, models.DateDimension{
			Date:      tx.Date,
			Day:       tx.Date.Day(),
			Month:     int(tx.Date.Month()),
			Year:      tx.Date.Year(),
			Quarter:   (int(tx.Date.Month())-1)/3 + 1,
			MonthYear: tx.Date.Format("2006-01"),
		})
	}

	return dates
}
