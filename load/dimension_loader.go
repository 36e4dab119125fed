package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LilVoxy/finance_etl/models"
	"github.com/LilVoxy/finance_etl/utils"
)

// SalesKeys содержит карты натуральный ключ -> суррогатный ключ
// для всех измерений звездной схемы продаж.
// Карты строятся один раз после upsert-а измерений, чтобы все факты
// разрешались в памяти без запросов на каждую строку
type SalesKeys struct {
	Products      map[string]int
	Segments      map[string]int
	Countries     map[string]int
	DiscountBands map[string]int
	Dates         map[string]int
}

// DimensionLoader отвечает за загрузку измерений звездной схемы продаж
type DimensionLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger
}

// NewDimensionLoader создает новый экземпляр DimensionLoader
func NewDimensionLoader(db *sql.DB, logger *utils.ETLLogger) *DimensionLoader {
	return &DimensionLoader{
		db:     db,
		logger: logger,
	}
}

// LoadDimensions выполняет upsert всех измерений (insert-if-absent по
// натуральному ключу) и возвращает карты суррогатных ключей.
// Измерения загружаются до фактов: факты без ключей измерений невалидны
func (l *DimensionLoader) LoadDimensions(star *models.SalesStar) (*SalesKeys, error) {
	startTime := time.Now()
	l.logger.Info("Начало загрузки измерений звездной схемы продаж")

	if err := l.upsertSimpleDimension("DimProduct", "product", star.Products); err != nil {
		return nil, err
	}
	if err := l.upsertSimpleDimension("DimSegment", "segment", star.Segments); err != nil {
		return nil, err
	}
	if err := l.upsertSimpleDimension("DimCountry", "country", star.Countries); err != nil {
		return nil, err
	}
	if err := l.upsertSimpleDimension("DimDiscountBand", "discount_band", star.DiscountBands); err != nil {
		return nil, err
	}
	if err := l.upsertDateDimension(star.Dates); err != nil {
		return nil, err
	}

	keys, err := l.buildKeyMaps()
	if err != nil {
		return nil, err
	}

	l.logger.Info("Загрузка измерений завершена. Длительность: %v", time.Since(startTime))
	return keys, nil
}

// upsertSimpleDimension загружает одноатрибутное измерение
func (l *DimensionLoader) upsertSimpleDimension(table, column string, values []string) error {
	if len(values) == 0 {
		l.logger.Debug("Нет данных для измерения %s", table)
		return nil
	}

	// Пустой update сохраняет существующий суррогатный ключ
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (?) ON DUPLICATE KEY UPDATE %s = %s",
		table, column, column, column,
	)

	stmt, err := l.db.Prepare(query)
	if err != nil {
		return fmt.Errorf("ошибка при подготовке запроса для %s: %w", table, err)
	}
	defer stmt.Close()

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции для %s: %w", table, err)
	}

	txStmt := tx.Stmt(stmt)
	defer txStmt.Close()

	for _, value := range values {
		if _, err := txStmt.Exec(value); err != nil {
			tx.Rollback()
			return fmt.Errorf("ошибка при загрузке значения %q в %s: %w", value, table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при фиксации транзакции для %s: %w", table, err)
	}

	l.logger.Debug("Измерение %s загружено (%d записей)", table, len(values))
	return nil
}

// upsertDateDimension загружает измерение дат с календарными атрибутами
func (l *DimensionLoader) upsertDateDimension(dates []models.SalesDateDimension) error {
	if len(dates) == 0 {
		l.logger.Debug("Нет данных для измерения DimDate")
		return nil
	}

	stmt, err := l.db.Prepare(`
		INSERT INTO DimDate (full_date, month_number, month_name, year)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		month_number = VALUES(month_number),
		month_name = VALUES(month_name),
		year = VALUES(year)
	`)
	if err != nil {
		return fmt.Errorf("ошибка при подготовке запроса для DimDate: %w", err)
	}
	defer stmt.Close()

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции для DimDate: %w", err)
	}

	txStmt := tx.Stmt(stmt)
	defer txStmt.Close()

	for _, date := range dates {
		_, err := txStmt.Exec(
			date.Date.Format(dateLayout),
			date.MonthNumber,
			date.MonthName,
			date.Year,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("ошибка при загрузке даты %s в DimDate: %w", date.Date.Format(dateLayout), err)
		}
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при фиксации транзакции для DimDate: %w", err)
	}

	l.logger.Debug("Измерение DimDate загружено (%d записей)", len(dates))
	return nil
}

// buildKeyMaps строит карты натуральный ключ -> суррогатный ключ,
// по одному запросу на измерение
func (l *DimensionLoader) buildKeyMaps() (*SalesKeys, error) {
	keys := &SalesKeys{}
	var err error

	if keys.Products, err = l.selectKeyMap("DimProduct", "product_id", "product"); err != nil {
		return nil, err
	}
	if keys.Segments, err = l.selectKeyMap("DimSegment", "segment_id", "segment"); err != nil {
		return nil, err
	}
	if keys.Countries, err = l.selectKeyMap("DimCountry", "country_id", "country"); err != nil {
		return nil, err
	}
	if keys.DiscountBands, err = l.selectKeyMap("DimDiscountBand", "discount_band_id", "discount_band"); err != nil {
		return nil, err
	}

	keys.Dates = make(map[string]int)
	rows, err := l.db.Query("SELECT date_id, full_date FROM DimDate")
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении ключей DimDate: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var fullDate time.Time
		if err := rows.Scan(&id, &fullDate); err != nil {
			return nil, fmt.Errorf("ошибка при разборе ключа DimDate: %w", err)
		}
		keys.Dates[fullDate.Format(dateLayout)] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении ключей DimDate: %w", err)
	}

	return keys, nil
}

// selectKeyMap читает карту суррогатных ключей одноатрибутного измерения
func (l *DimensionLoader) selectKeyMap(table, idColumn, keyColumn string) (map[string]int, error) {
	query := fmt.Sprintf("SELECT %s, %s FROM %s", idColumn, keyColumn, table)

	rows, err := l.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении ключей %s: %w", table, err)
	}
	defer rows.Close()

	keyMap := make(map[string]int)
	for rows.Next() {
		var id int
		var key string
		if err := rows.Scan(&id, &key); err != nil {
			return nil, fmt.Errorf("ошибка при разборе ключа %s: %w", table, err)
		}
		keyMap[key] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении ключей %s: %w", table, err)
	}

	return keyMap, nil
}
