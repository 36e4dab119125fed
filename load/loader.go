package load

import (
	"database/sql"
	"fmt"

	"github.com/LilVoxy/finance_etl/models"
	"github.com/LilVoxy/finance_etl/utils"
)

// Loader интерфейс для загрузки звездной схемы в реляционное хранилище
type Loader interface {
	// LoadSalesStar загружает звездную схему продаж: сначала измерения,
	// затем факты. Возвращает количество загруженных фактов
	LoadSalesStar(star *models.SalesStar) (int, error)
}

// MySQLLoader реализация Loader для MySQL
type MySQLLoader struct {
	db     *sql.DB
	logger *utils.ETLLogger

	dimensionLoader *DimensionLoader
	factLoader      *FactLoader
}

// NewMySQLLoader создает новый экземпляр MySQLLoader
func NewMySQLLoader(db *sql.DB, logger *utils.ETLLogger) *MySQLLoader {
	return &MySQLLoader{
		db:              db,
		logger:          logger,
		dimensionLoader: NewDimensionLoader(db, logger),
		factLoader:      NewFactLoader(db, logger),
	}
}

// LoadSalesStar загружает звездную схему продаж в MySQL.
// Порядок строго: таблицы измерений, затем таблица фактов,
// потому что факты ссылаются на суррогатные ключи измерений
func (l *MySQLLoader) LoadSalesStar(star *models.SalesStar) (int, error) {
	// Создаем таблицы при первом запуске
	if err := EnsureSalesSchema(l.db); err != nil {
		return 0, fmt.Errorf("ошибка при подготовке схемы: %w", err)
	}

	// 1. Измерения и карты суррогатных ключей
	keys, err := l.dimensionLoader.LoadDimensions(star)
	if err != nil {
		return 0, fmt.Errorf("ошибка при загрузке измерений: %w", err)
	}

	// 2. Факты с разрешением ключей в памяти
	loaded, err := l.factLoader.Load(star.Facts, keys)
	if err != nil {
		return 0, fmt.Errorf("ошибка при загрузке фактов: %w", err)
	}

	return loaded, nil
}
