package config

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// ConnectDatabase устанавливает подключение к целевой базе данных
func ConnectDatabase(config DatabaseConfig) (*sql.DB, error) {
	if config.User == "" || config.Password == "" {
		return nil, fmt.Errorf(
			"учетные данные базы данных не заданы: установите переменные окружения FINANCE_ETL_DB_USER и FINANCE_ETL_DB_PASSWORD")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		config.User,
		config.Password,
		config.Host,
		config.Port,
		config.DBName,
	)

	db, err := sql.Open(config.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	// Настройка параметров подключения
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Проверка подключения
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось установить соединение с базой данных: %w", err)
	}

	log.Println("Успешное подключение к базе данных", config.DBName)
	return db, nil
}

// CloseDatabase закрывает подключение к базе данных
func CloseDatabase(db *sql.DB) {
	if db == nil {
		return
	}

	if err := db.Close(); err != nil {
		log.Printf("Ошибка при закрытии соединения с базой данных: %v", err)
		return
	}

	log.Println("Соединение с базой данных закрыто")
}
