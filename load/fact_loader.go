package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/finance_etl/models"
	"github.com/LilVoxy/finance_etl/utils"
)

// FactLoader отвечает за загрузку фактов продаж
type FactLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger
}

// NewFactLoader создает новый экземпляр FactLoader
func NewFactLoader(db *sql.DB, logger *utils.ETLLogger) *FactLoader {
	return &FactLoader{
		db:     db,
		logger: logger,
	}
}

// Load загружает факты продаж, разрешая суррогатные ключи измерений
// через карты в памяти, без запросов на каждую строку
func (l *FactLoader) Load(facts []models.FactSales, keys *SalesKeys) (int, error) {
	if len(facts) == 0 {
		l.logger.Debug("Нет фактов продаж для загрузки")
		return 0, nil
	}

	startTime := time.Now()
	l.logger.Info("Начало загрузки фактов продаж (всего: %d)", len(facts))

	stmt, err := l.db.Prepare(`
		INSERT INTO FactSales
		(product_id, segment_id, country_id, discount_band_id, date_id,
		units_sold, manufacturing_price, sale_price, gross_sales,
		discounts, sales, cogs, profit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("ошибка при подготовке запроса: %w", err)
	}
	defer stmt.Close()

	tx, err := l.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("ошибка при начале транзакции: %w", err)
	}

	txStmt := tx.Stmt(stmt)
	defer txStmt.Close()

	processed := 0
	errors := 0

	for _, fact := range facts {
		productID, ok := keys.Products[fact.Product]
		if !ok {
			l.logger.Error("Суррогатный ключ продукта %q не найден", fact.Product)
			errors++
			continue
		}
		segmentID, ok := keys.Segments[fact.Segment]
		if !ok {
			l.logger.Error("Суррогатный ключ сегмента %q не найден", fact.Segment)
			errors++
			continue
		}
		countryID, ok := keys.Countries[fact.Country]
		if !ok {
			l.logger.Error("Суррогатный ключ страны %q не найден", fact.Country)
			errors++
			continue
		}
		bandID, ok := keys.DiscountBands[fact.DiscountBand]
		if !ok {
			l.logger.Error("Суррогатный ключ скидочной группы %q не найден", fact.DiscountBand)
			errors++
			continue
		}
		dateID, ok := keys.Dates[fact.Date.Format(dateLayout)]
		if !ok {
			l.logger.Error("Суррогатный ключ даты %s не найден", fact.Date.Format(dateLayout))
			errors++
			continue
		}

		_, err := txStmt.Exec(
			productID,
			segmentID,
			countryID,
			bandID,
			dateID,
			fact.UnitsSold,
			fact.ManufacturingPrice,
			fact.SalePrice,
			fact.GrossSales,
			fact.Discounts,
			fact.Sales,
			fact.COGS,
			fact.Profit,
		)
		if err != nil {
			l.logger.Error("Ошибка при вставке факта продажи: %v", err)
			errors++
			continue
		}

		processed++

		// Логируем прогресс каждые 100 фактов
		if processed%100 == 0 {
			l.logger.Debug("Загружено %d из %d фактов...", processed, len(facts))
		}
	}

	// Если были ошибки, откатываем транзакцию
	if errors > 0 {
		tx.Rollback()
		return 0, fmt.Errorf("произошло %d ошибок при загрузке фактов продаж", errors)
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	duration := time.Since(startTime)
	l.logger.Info("Загрузка фактов продаж завершена. Загружено записей: %d. Длительность: %v", processed, duration)

	return processed, nil
}
