package load

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/LilVoxy/finance_etl/metrics"
	"github.com/LilVoxy/finance_etl/models"
	"github.com/LilVoxy/finance_etl/utils"
)

// HealthStarPaths содержит пути выходных файлов звездной схемы
// датасета финансового здоровья
type HealthStarPaths struct {
	Facts     string
	Customers string
	Dates     string
	Products  string
}

// LoadManager отвечает за управление процессом загрузки данных:
// запись файловых выходов и загрузку в реляционное хранилище
type LoadManager struct {
	db            *sql.DB // nil в файловом режиме
	logger        *utils.ETLLogger
	loader        Loader
	displayWriter *DisplayWriter
}

// NewLoadManager создает новый экземпляр LoadManager.
// db может быть nil: в этом случае реляционная загрузка заменяется
// записью звездной схемы в файлы
func NewLoadManager(db *sql.DB, locale string, logger *utils.ETLLogger) (*LoadManager, error) {
	displayWriter, err := NewDisplayWriter(locale, logger)
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании display-писателя: %w", err)
	}

	manager := &LoadManager{
		db:            db,
		logger:        logger,
		displayWriter: displayWriter,
	}
	if db != nil {
		manager.loader = NewMySQLLoader(db, logger)
	}

	return manager, nil
}

// WriteCleanedCSV записывает очищенную таблицу.
// Очищенный файл - контракт между фазами Clean и Transform
func (m *LoadManager) WriteCleanedCSV(table *models.Table, path string) error {
	if err := WriteTableCSV(table, path); err != nil {
		m.logger.Error("Ошибка при записи очищенной таблицы: %v", err)
		return fmt.Errorf("ошибка при записи очищенной таблицы: %w", err)
	}
	m.logger.Info("Очищенная таблица записана в %s (%d записей)", path, table.RowCount())
	return nil
}

// WriteDisplayCSV записывает display-версию очищенной таблицы
func (m *LoadManager) WriteDisplayCSV(table *models.Table, numericColumns []string, path string) error {
	if err := m.displayWriter.WriteDisplayCSV(table, numericColumns, path); err != nil {
		m.logger.Error("Ошибка при записи display-версии: %v", err)
		return fmt.Errorf("ошибка при записи display-версии: %w", err)
	}
	m.logger.Info("Display-версия записана в %s", path)
	return nil
}

// WriteHealthStar записывает звездную схему датасета финансового здоровья в CSV
func (m *LoadManager) WriteHealthStar(data *models.TransformedData, paths HealthStarPaths) error {
	startTime := time.Now()
	m.logger.Info("Начало фазы Load (Запись звездной схемы)")

	if err := WriteRecordsCSV(data.Facts, paths.Facts); err != nil {
		return fmt.Errorf("ошибка при записи фактов транзакций: %w", err)
	}
	if err := WriteRecordsCSV(data.Customers, paths.Customers); err != nil {
		return fmt.Errorf("ошибка при записи измерения клиентов: %w", err)
	}
	if err := WriteRecordsCSV(data.Dates, paths.Dates); err != nil {
		return fmt.Errorf("ошибка при записи измерения дат: %w", err)
	}
	if err := WriteRecordsCSV(data.Products, paths.Products); err != nil {
		return fmt.Errorf("ошибка при записи измерения продуктов: %w", err)
	}

	m.logger.LogLoadComplete(len(data.Facts), time.Since(startTime))
	return nil
}

// WriteMetricsReport записывает снимок метрик в JSON-отчет
func (m *LoadManager) WriteMetricsReport(snapshot *metrics.Snapshot, path string) error {
	if err := WriteMetricsJSON(snapshot, path); err != nil {
		m.logger.Error("Ошибка при записи отчета метрик: %v", err)
		return fmt.Errorf("ошибка при записи отчета метрик: %w", err)
	}
	m.logger.Info("Отчет метрик записан в %s (%d метрик)", path, len(snapshot.Metrics))
	return nil
}

// LoadSalesStar загружает звездную схему продаж в реляционное хранилище.
// При недоступности базы данных звездная схема сохраняется в резервные
// CSV-файлы, чтобы результат очистки не был потерян
func (m *LoadManager) LoadSalesStar(star *models.SalesStar, fallbackDir string) (int, error) {
	startTime := time.Now()
	m.logger.Info("Начало фазы Load (Загрузка звездной схемы продаж)")

	if m.loader == nil {
		m.logger.Info("База данных не настроена, звездная схема продаж записывается в файлы")
		if err := m.writeSalesFallback(star, fallbackDir); err != nil {
			return 0, err
		}
		m.logger.LogLoadComplete(len(star.Facts), time.Since(startTime))
		return len(star.Facts), nil
	}

	loaded, err := m.loader.LoadSalesStar(star)
	if err != nil {
		m.logger.Error("Ошибка при загрузке в базу данных: %v", err)

		// Сохраняем уже очищенные данные, чтобы работа не пропала
		if fbErr := m.writeSalesFallback(star, fallbackDir); fbErr != nil {
			m.logger.Error("Ошибка при записи резервных файлов: %v", fbErr)
			return 0, fmt.Errorf("ошибка при загрузке в базу данных (%v) и при записи резервных файлов: %w", err, fbErr)
		}

		return 0, fmt.Errorf(
			"ошибка при загрузке в базу данных: %w; проверьте доступность MySQL и параметры подключения; звездная схема сохранена в резервные файлы в %s",
			err, fallbackDir)
	}

	m.logger.LogLoadComplete(loaded, time.Since(startTime))
	return loaded, nil
}

// writeSalesFallback записывает звездную схему продаж в CSV-файлы
func (m *LoadManager) writeSalesFallback(star *models.SalesStar, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("ошибка при создании каталога %s: %w", dir, err)
	}

	if err := WriteRecordsCSV(star.Facts, filepath.Join(dir, "fact_sales.csv")); err != nil {
		return err
	}
	if err := WriteRecordsCSV(star.Dates, filepath.Join(dir, "dim_date.csv")); err != nil {
		return err
	}

	simple := []struct {
		column string
		values []string
		path   string
	}{
		{"product", star.Products, filepath.Join(dir, "dim_product.csv")},
		{"segment", star.Segments, filepath.Join(dir, "dim_segment.csv")},
		{"country", star.Countries, filepath.Join(dir, "dim_country.csv")},
		{"discount_band", star.DiscountBands, filepath.Join(dir, "dim_discount_band.csv")},
	}

	for _, dim := range simple {
		table := models.NewTable([]string{dim.column})
		for _, value := range dim.values {
			table.AppendRow([]string{value})
		}
		if err := WriteTableCSV(table, dim.path); err != nil {
			return err
		}
	}

	return nil
}
