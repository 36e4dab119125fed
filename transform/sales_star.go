package transform

import (
	"time"

	"github.com/LilVoxy/finance_etl/models"
	"github.com/LilVoxy/finance_etl/utils"
)

// SalesStarProcessor отвечает за построение звездной схемы датасета продаж
type SalesStarProcessor struct {
	logger *utils.ETLLogger
}

// NewSalesStarProcessor создает новый экземпляр SalesStarProcessor
func NewSalesStarProcessor(logger *utils.ETLLogger) *SalesStarProcessor {
	return &SalesStarProcessor{
		logger: logger,
	}
}

// ProcessSalesStar строит измерения и факты продаж.
// Измерения - чистые проекции с дедупликацией по натуральному ключу,
// факты ссылаются на измерения по натуральным ключам
func (p *SalesStarProcessor) ProcessSalesStar(records []models.SalesRecord) *models.SalesStar {
	star := &models.SalesStar{}

	seenProducts := make(map[string]bool)
	seenSegments := make(map[string]bool)
	seenCountries := make(map[string]bool)
	seenBands := make(map[string]bool)
	seenDates := make(map[time.Time]bool)

	for _, record := range records {
		if !seenProducts[record.Product] {
			seenProducts[record.Product] = true
			star.Products = append(star.Products, record.Product)
		}
		if !seenSegments[record.Segment] {
			seenSegments[record.Segment] = true
			star.Segments = append(star.Segments, record.Segment)
		}
		if !seenCountries[record.Country] {
			seenCountries[record.Country] = true
			star.Countries = append(star.Countries, record.Country)
		}
		if !seenBands[record.DiscountBand] {
			seenBands[record.DiscountBand] = true
			star.DiscountBands = append(star.DiscountBands, record.DiscountBand)
		}
		if !seenDates[record.Date] {
			seenDates[record.Date] = true
			star.Dates = append(star.Dates, models.SalesDateDimension{
				Date:        record.Date,
				MonthNumber: record.MonthNumber,
				MonthName:   record.MonthName,
				Year:        record.Year,
			})
		}

		star.Facts = append(star.Facts, models.FactSales{
			Product:            record.Product,
			Segment:            record.Segment,
			Country:            record.Country,
			DiscountBand:       record.DiscountBand,
			Date:               record.Date,
			UnitsSold:          record.UnitsSold,
			ManufacturingPrice: record.ManufacturingPrice,
			SalePrice:          record.SalePrice,
			GrossSales:         record.GrossSales,
			Discounts:          record.Discounts,
			Sales:              record.Sales,
			COGS:               record.COGS,
			Profit:             record.Profit,
		})
	}

	return star
}
