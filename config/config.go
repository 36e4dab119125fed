package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Имена выходных файлов датасета финансового здоровья
const (
	CleanedHealthFile  = "cleaned_financial_data.csv"
	DisplayHealthFile  = "display_financial_data.csv"
	FactTransactions   = "powerbi_fact_transactions.csv"
	DimCustomersFile   = "powerbi_dim_customers.csv"
	DimDateFile        = "powerbi_dim_date.csv"
	DimProductsFile    = "powerbi_dim_products.csv"
	MetricsReportFile  = "powerbi_metrics.json"
	CleanedSalesFile   = "cleaned_sales_data.csv"
	SalesFallbackDir   = "sales_star_fallback"
)

// PipelineConfig содержит настройки одного конвейера очистки
type PipelineConfig struct {
	// Путь к исходному файлу
	InputPath string `yaml:"input_path"`

	// Каталог для выходных файлов
	OutputDir string `yaml:"output_dir"`

	// Конвенция разбора дат: день впереди (true) или месяц впереди (false)
	DayFirst bool `yaml:"day_first"`

	// Обязательные колонки: при отсутствии любой из них запуск прерывается
	RequiredColumns []string `yaml:"required_columns"`

	// Исправления известных опечаток: колонка -> (опечатка -> исправление)
	Corrections map[string]map[string]string `yaml:"corrections"`
}

// OutPath возвращает путь выходного файла в каталоге конвейера
func (c PipelineConfig) OutPath(name string) string {
	return filepath.Join(c.OutputDir, name)
}

// DatabaseConfig содержит настройки подключения к базе данных.
// Учетные данные берутся из окружения, а не из конфигурационного файла
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"-"`
	Password string `yaml:"-"`
	DBName   string `yaml:"dbname"`
}

// ETLConfig содержит конфигурацию для ETL-процесса
type ETLConfig struct {
	// Конвейер датасета финансового здоровья
	Health PipelineConfig `yaml:"health"`

	// Конвейер датасета продаж
	Sales PipelineConfig `yaml:"sales"`

	// Подключение к целевой базе данных
	Database DatabaseConfig `yaml:"database"`

	// Локаль для display-форматирования чисел
	Locale string `yaml:"locale"`

	// Включение/отключение подробного логирования
	EnableDetailedLogging bool `yaml:"enable_detailed_logging"`
}

// Значения конфигурации по умолчанию
var DefaultETLConfig = ETLConfig{
	Health: PipelineConfig{
		InputPath: "financial_health_unclean.csv",
		OutputDir: ".",
		DayFirst:  false,
		RequiredColumns: []string{
			"region", "customer_id", "date", "segment", "product_category",
			"country", "budget_amount", "actual_amount", "cost", "revenue",
			"claim_amount", "claim_flag", "churn_flag", "orders_count",
			"transaction_id",
		},
		Corrections: map[string]map[string]string{
			"region": {"Westrn Cape": "Western Cape"},
		},
	},
	Sales: PipelineConfig{
		InputPath: "FinancialSample.csv",
		OutputDir: ".",
		DayFirst:  false,
		RequiredColumns: []string{
			"segment", "country", "product", "discount_band", "units_sold",
			"manufacturing_price", "sale_price", "gross_sales", "discounts",
			"sales", "cogs", "profit", "date", "month_number", "month_name",
			"year",
		},
	},
	Database: DatabaseConfig{
		Enabled: false,
		Driver:  "mysql",
		Host:    "localhost",
		Port:    3306,
		DBName:  "finance_analytics",
	},
	Locale:                "en-ZA",
	EnableDetailedLogging: true,
}

// GetConfig возвращает конфигурацию ETL по умолчанию
// с учетными данными из окружения
func GetConfig() ETLConfig {
	config := DefaultETLConfig
	applyEnvironment(&config)
	return config
}

// LoadConfig читает конфигурацию из YAML-файла поверх значений по умолчанию
func LoadConfig(path string) (ETLConfig, error) {
	config := DefaultETLConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("ошибка при чтении конфигурационного файла %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("ошибка при разборе конфигурационного файла %s: %w", path, err)
	}

	applyEnvironment(&config)
	return config, nil
}

// applyEnvironment подставляет учетные данные базы данных из окружения.
// Файл .env загружается, если присутствует; его отсутствие не ошибка
func applyEnvironment(config *ETLConfig) {
	godotenv.Load()

	if user := os.Getenv("FINANCE_ETL_DB_USER"); user != "" {
		config.Database.User = user
	}
	if password := os.Getenv("FINANCE_ETL_DB_PASSWORD"); password != "" {
		config.Database.Password = password
	}
	if host := os.Getenv("FINANCE_ETL_DB_HOST"); host != "" {
		config.Database.Host = host
	}
	if name := os.Getenv("FINANCE_ETL_DB_NAME"); name != "" {
		config.Database.DBName = name
	}
}
