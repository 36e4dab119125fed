package load

import (
	"database/sql"
	"fmt"
)

// DDL звездной схемы продаж. Суррогатные ключи генерируются хранилищем,
// натуральные ключи защищены уникальными индексами для идемпотентных upsert-ов
var salesSchemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS DimProduct (
		product_id INT AUTO_INCREMENT PRIMARY KEY,
		product VARCHAR(255) NOT NULL,
		UNIQUE KEY uq_product (product)
	)`,
	`CREATE TABLE IF NOT EXISTS DimSegment (
		segment_id INT AUTO_INCREMENT PRIMARY KEY,
		segment VARCHAR(255) NOT NULL,
		UNIQUE KEY uq_segment (segment)
	)`,
	`CREATE TABLE IF NOT EXISTS DimCountry (
		country_id INT AUTO_INCREMENT PRIMARY KEY,
		country VARCHAR(255) NOT NULL,
		UNIQUE KEY uq_country (country)
	)`,
	`CREATE TABLE IF NOT EXISTS DimDiscountBand (
		discount_band_id INT AUTO_INCREMENT PRIMARY KEY,
		discount_band VARCHAR(255) NOT NULL,
		UNIQUE KEY uq_discount_band (discount_band)
	)`,
	`CREATE TABLE IF NOT EXISTS DimDate (
		date_id INT AUTO_INCREMENT PRIMARY KEY,
		full_date DATE NOT NULL,
		month_number INT NOT NULL,
		month_name VARCHAR(16) NOT NULL,
		year INT NOT NULL,
		UNIQUE KEY uq_full_date (full_date)
	)`,
	`CREATE TABLE IF NOT EXISTS FactSales (
		fact_id INT AUTO_INCREMENT PRIMARY KEY,
		product_id INT NOT NULL,
		segment_id INT NOT NULL,
		country_id INT NOT NULL,
		discount_band_id INT NOT NULL,
		date_id INT NOT NULL,
		units_sold DOUBLE,
		manufacturing_price DOUBLE,
		sale_price DOUBLE,
		gross_sales DOUBLE,
		discounts DOUBLE,
		sales DOUBLE,
		cogs DOUBLE,
		profit DOUBLE,
		FOREIGN KEY (product_id) REFERENCES DimProduct (product_id),
		FOREIGN KEY (segment_id) REFERENCES DimSegment (segment_id),
		FOREIGN KEY (country_id) REFERENCES DimCountry (country_id),
		FOREIGN KEY (discount_band_id) REFERENCES DimDiscountBand (discount_band_id),
		FOREIGN KEY (date_id) REFERENCES DimDate (date_id)
	)`,
}

// EnsureSalesSchema создает таблицы звездной схемы продаж, если они не существуют.
// Порядок DDL важен: таблица фактов ссылается на измерения
func EnsureSalesSchema(db *sql.DB) error {
	for _, ddl := range salesSchemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("ошибка при создании таблиц звездной схемы: %w", err)
		}
	}
	return nil
}
