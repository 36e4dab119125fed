package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/LilVoxy/finance_etl/clean"
	"github.com/LilVoxy/finance_etl/config"
	"github.com/LilVoxy/finance_etl/extractors"
	"github.com/LilVoxy/finance_etl/load"
	"github.com/LilVoxy/finance_etl/metrics"
	"github.com/LilVoxy/finance_etl/models"
	"github.com/LilVoxy/finance_etl/transform"
	"github.com/LilVoxy/finance_etl/utils"
)

// Денежные колонки датасета финансового здоровья
var healthNumericColumns = []string{
	"budget_amount", "actual_amount", "cost", "revenue", "claim_amount",
}

// Денежные колонки датасета продаж
var salesNumericColumns = []string{
	"units_sold", "manufacturing_price", "sale_price", "gross_sales",
	"discounts", "sales", "cogs", "profit",
}

type ETLRunner struct {
	config      config.ETLConfig
	db          *sql.DB
	logger      *utils.ETLLogger
	extractor   *extractors.Extractor
	transformer *transform.Transformer
	calculator  *metrics.Calculator
	loadManager *load.LoadManager
	etlLogRepo  models.ETLLogRepository
}

// NewETLRunner создает новый экземпляр ETLRunner
func NewETLRunner(etlConfig config.ETLConfig) (*ETLRunner, error) {
	// Инициализируем логгер
	logger := utils.NewETLLogger(etlConfig.EnableDetailedLogging)
	logger.Info("Инициализация ETL Runner")

	runner := &ETLRunner{
		config:      etlConfig,
		logger:      logger,
		extractor:   extractors.NewExtractor(logger),
		transformer: transform.NewTransformer(logger),
		calculator:  metrics.NewCalculator(logger),
	}

	// Подключаемся к базе данных, если она настроена.
	// Недоступность базы не прерывает запуск: файловые выходы остаются доступны
	if etlConfig.Database.Enabled {
		db, err := config.ConnectDatabase(etlConfig.Database)
		if err != nil {
			logger.Error("Ошибка подключения к базе данных: %v. Запуск продолжается в файловом режиме", err)
		} else {
			runner.db = db

			// Инициализируем репозиторий логов ETL
			etlLogRepo := models.NewMySQLETLLogRepository(db)
			if err := etlLogRepo.CreateETLLogTable(); err != nil {
				logger.Error("Ошибка при создании таблицы логов ETL: %v", err)
			} else {
				runner.etlLogRepo = etlLogRepo
			}
		}
	}

	// Создаем загрузчик
	loadManager, err := load.NewLoadManager(runner.db, etlConfig.Locale, logger)
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании загрузчика: %w", err)
	}
	runner.loadManager = loadManager

	return runner, nil
}

// Close закрывает соединение с базой данных
func (r *ETLRunner) Close() {
	r.logger.Info("Завершение работы ETL Runner")
	config.CloseDatabase(r.db)
}

// RunHealth выполняет конвейер датасета финансового здоровья:
// извлечение, очистка, звездная схема, метрики, файловые выходы
func (r *ETLRunner) RunHealth() error {
	startTime := time.Now()
	r.logger.LogETLStart("health")
	r.logPreviousRun("health")

	cfg := r.config.Health
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("ошибка при создании каталога %s: %w", cfg.OutputDir, err)
	}

	runID, logID := r.startRunLog("health", startTime)

	// 1. Фаза извлечения данных (Extract)
	table, err := r.extractor.Extract(cfg.InputPath)
	if err != nil {
		return r.failRun(logID, fmt.Errorf("ошибка в фазе Extract: %w", err))
	}

	// 2. Фаза очистки данных (Clean)
	cleaner := clean.NewCleaner(r.healthRules(), r.logger)
	cleaned, stats, err := cleaner.Clean(table)
	if err != nil {
		var schemaErr *clean.SchemaError
		if errors.As(err, &schemaErr) {
			r.logger.Error("Ошибка схемы входных данных: %v", schemaErr)
		}
		return r.failRun(logID, fmt.Errorf("ошибка в фазе Clean: %w", err))
	}

	// 3. Запись очищенной таблицы и display-версии
	cleanedPath := cfg.OutPath(config.CleanedHealthFile)
	if err := r.loadManager.WriteCleanedCSV(cleaned, cleanedPath); err != nil {
		return r.failRun(logID, err)
	}
	if err := r.loadManager.WriteDisplayCSV(cleaned, healthNumericColumns, cfg.OutPath(config.DisplayHealthFile)); err != nil {
		return r.failRun(logID, err)
	}

	// 4. Очищенный CSV - контракт между фазами: читаем его в типизированные записи
	transactions, err := extractors.ReadTransactions(cleanedPath)
	if err != nil {
		return r.failRun(logID, fmt.Errorf("ошибка при чтении очищенных данных: %w", err))
	}

	// 5. Фаза построения звездной схемы (Transform)
	transformedData, err := r.transformer.Transform(transactions)
	if err != nil {
		return r.failRun(logID, fmt.Errorf("ошибка в фазе Transform: %w", err))
	}

	// 6. Запись звездной схемы
	starPaths := load.HealthStarPaths{
		Facts:     cfg.OutPath(config.FactTransactions),
		Customers: cfg.OutPath(config.DimCustomersFile),
		Dates:     cfg.OutPath(config.DimDateFile),
		Products:  cfg.OutPath(config.DimProductsFile),
	}
	if err := r.loadManager.WriteHealthStar(transformedData, starPaths); err != nil {
		return r.failRun(logID, fmt.Errorf("ошибка в фазе Load: %w", err))
	}

	// 7. Вычисление и запись бизнес-метрик
	snapshot := r.calculator.Calculate(transformedData.Facts, transformedData.Customers)
	snapshot.RunID = runID
	if err := r.loadManager.WriteMetricsReport(snapshot, cfg.OutPath(config.MetricsReportFile)); err != nil {
		return r.failRun(logID, err)
	}

	r.succeedRun(logID, table.RowCount(), stats.RowsOut, stats.DuplicatesDropped, len(transformedData.Facts))
	r.logger.LogETLComplete(startTime, stats.RowsOut, len(transformedData.Facts))
	return nil
}

// RunSales выполняет конвейер датасета продаж:
// извлечение, очистка, звездная схема, загрузка в реляционное хранилище
func (r *ETLRunner) RunSales() error {
	startTime := time.Now()
	r.logger.LogETLStart("sales")
	r.logPreviousRun("sales")

	cfg := r.config.Sales
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("ошибка при создании каталога %s: %w", cfg.OutputDir, err)
	}

	_, logID := r.startRunLog("sales", startTime)

	// 1. Фаза извлечения данных (Extract)
	table, err := r.extractor.Extract(cfg.InputPath)
	if err != nil {
		return r.failRun(logID, fmt.Errorf("ошибка в фазе Extract: %w", err))
	}

	// 2. Фаза очистки данных (Clean)
	cleaner := clean.NewCleaner(r.salesRules(), r.logger)
	cleaned, stats, err := cleaner.Clean(table)
	if err != nil {
		var schemaErr *clean.SchemaError
		if errors.As(err, &schemaErr) {
			r.logger.Error("Ошибка схемы входных данных: %v", schemaErr)
		}
		return r.failRun(logID, fmt.Errorf("ошибка в фазе Clean: %w", err))
	}

	// 3. Запись очищенной таблицы
	cleanedPath := cfg.OutPath(config.CleanedSalesFile)
	if err := r.loadManager.WriteCleanedCSV(cleaned, cleanedPath); err != nil {
		return r.failRun(logID, err)
	}

	// 4. Читаем очищенный CSV в типизированные записи
	records, err := extractors.ReadSalesRecords(cleanedPath)
	if err != nil {
		return r.failRun(logID, fmt.Errorf("ошибка при чтении очищенных данных: %w", err))
	}

	// 5. Фаза построения звездной схемы (Transform)
	star, err := r.transformer.TransformSales(records)
	if err != nil {
		return r.failRun(logID, fmt.Errorf("ошибка в фазе Transform: %w", err))
	}

	// 6. Загрузка в базу данных с резервной записью в файлы
	loaded, err := r.loadManager.LoadSalesStar(star, cfg.OutPath(config.SalesFallbackDir))
	if err != nil {
		return r.failRun(logID, fmt.Errorf("ошибка в фазе Load: %w", err))
	}

	r.succeedRun(logID, table.RowCount(), stats.RowsOut, stats.DuplicatesDropped, loaded)
	r.logger.LogETLComplete(startTime, stats.RowsOut, loaded)
	return nil
}

// healthRules возвращает правила очистки датасета финансового здоровья
func (r *ETLRunner) healthRules() clean.Rules {
	cfg := r.config.Health
	return clean.Rules{
		Required:    cfg.RequiredColumns,
		TextColumns: []string{"segment", "product_category", "country"},
		Corrections: cfg.Corrections,
		NumericColumns: []string{
			"budget_amount", "actual_amount", "cost", "revenue",
			"claim_amount", "orders_count",
		},
		AbsoluteColumns: []string{"budget_amount", "actual_amount", "cost", "revenue"},
		DateColumns:     []string{"date"},
		DayFirst:        cfg.DayFirst,
		IDColumns:       map[string]string{"customer_id": "ANONYMOUS"},
		FlagColumns:     []string{"claim_flag", "churn_flag"},
		Derived: []clean.DerivedColumn{
			{Name: "location", From: []string{"region", "country"}, Separator: ", "},
		},
		DedupeKey: "transaction_id",
	}
}

// salesRules возвращает правила очистки датасета продаж.
// Текстовые категории не нормализуются: названия продуктов
// и сегментов сохраняются как в источнике
func (r *ETLRunner) salesRules() clean.Rules {
	cfg := r.config.Sales
	return clean.Rules{
		Required:       cfg.RequiredColumns,
		Corrections:    cfg.Corrections,
		NumericColumns: salesNumericColumns,
		DateColumns:    []string{"date"},
		DayFirst:       cfg.DayFirst,
	}
}

// logPreviousRun выводит сведения о последнем успешном запуске режима
// из журнала ETL перед началом нового запуска
func (r *ETLRunner) logPreviousRun(mode string) {
	if r.etlLogRepo == nil {
		return
	}

	last, err := r.etlLogRepo.GetLastSuccessfulRun(mode)
	if err != nil {
		r.logger.Error("Ошибка при чтении журнала ETL: %v", err)
		return
	}
	if last == nil {
		r.logger.Info("Предыдущих успешных запусков в режиме %s не найдено", mode)
		return
	}

	r.logger.Info("Последний успешный запуск в режиме %s: %s (записей: %d, фактов: %d, длительность: %.2f сек)",
		mode,
		last.EndTime.Format("2006-01-02 15:04:05"),
		last.RecordsCleaned,
		last.FactsLoaded,
		last.ExecutionTimeSeconds,
	)
}

// startRunLog создает запись о запуске в журнале ETL
func (r *ETLRunner) startRunLog(mode string, startTime time.Time) (string, int) {
	runID := uuid.New().String()

	if r.etlLogRepo == nil {
		return runID, 0
	}

	logID, err := r.etlLogRepo.CreateLogEntry(runID, mode, startTime)
	if err != nil {
		r.logger.Error("Ошибка при создании записи в журнале ETL: %v", err)
		return runID, 0
	}
	return runID, logID
}

// succeedRun обновляет запись в журнале ETL при успешном завершении
func (r *ETLRunner) succeedRun(logID, extracted, cleaned, duplicates, facts int) {
	if r.etlLogRepo == nil || logID == 0 {
		return
	}

	if err := r.etlLogRepo.UpdateLogEntrySuccess(logID, time.Now(), extracted, cleaned, duplicates, facts); err != nil {
		r.logger.Error("Ошибка при обновлении записи в журнале ETL: %v", err)
	}
}

// failRun обновляет запись в журнале ETL при ошибке и возвращает ее
func (r *ETLRunner) failRun(logID int, runErr error) error {
	r.logger.Error("%v", runErr)

	if r.etlLogRepo != nil && logID != 0 {
		if err := r.etlLogRepo.UpdateLogEntryFailure(logID, time.Now(), runErr.Error()); err != nil {
			r.logger.Error("Ошибка при обновлении записи в журнале ETL: %v", err)
		}
	}
	return runErr
}

func main() {
	// Параметры командной строки
	modePtr := flag.String("mode", "all", "Режим работы: health, sales или all")
	configPtr := flag.String("config", "", "Путь к YAML-файлу конфигурации")

	flag.Parse()

	// Загружаем конфигурацию
	etlConfig := config.GetConfig()
	if *configPtr != "" {
		var err error
		etlConfig, err = config.LoadConfig(*configPtr)
		if err != nil {
			log.Fatalf("Ошибка при загрузке конфигурации: %v", err)
		}
	}

	log.Println("Запуск ETL Runner в режиме:", *modePtr)

	runner, err := NewETLRunner(etlConfig)
	if err != nil {
		log.Fatalf("Ошибка при создании ETL Runner: %v", err)
	}
	defer runner.Close()

	switch *modePtr {
	case "health":
		if err := runner.RunHealth(); err != nil {
			log.Fatalf("Ошибка при выполнении ETL: %v", err)
		}
	case "sales":
		if err := runner.RunSales(); err != nil {
			log.Fatalf("Ошибка при выполнении ETL: %v", err)
		}
	case "all":
		if err := runner.RunHealth(); err != nil {
			log.Fatalf("Ошибка при выполнении ETL: %v", err)
		}
		if err := runner.RunSales(); err != nil {
			log.Fatalf("Ошибка при выполнении ETL: %v", err)
		}
	default:
		log.Println("Неизвестный режим работы:", *modePtr)
		log.Println("Доступные режимы: health, sales, all")
		os.Exit(1)
	}

	log.Println("ETL Runner завершил работу")
}
