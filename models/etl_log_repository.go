package models

import (
	"database/sql"
	"fmt"
	"time"
)

// MySQLETLLogRepository реализация ETLLogRepository для MySQL
type MySQLETLLogRepository struct {
	db *sql.DB
}

// NewMySQLETLLogRepository создает новый экземпляр MySQLETLLogRepository
func NewMySQLETLLogRepository(db *sql.DB) *MySQLETLLogRepository {
	return &MySQLETLLogRepository{
		db: db,
	}
}

// CreateETLLogTable создает таблицу для логирования ETL процесса, если она не существует
func (r *MySQLETLLogRepository) CreateETLLogTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS etl_run_log (
		id INT AUTO_INCREMENT PRIMARY KEY,
		run_id CHAR(36) NOT NULL,
		mode VARCHAR(16) NOT NULL,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NULL,
		status ENUM('success', 'failed', 'in_progress') NOT NULL DEFAULT 'in_progress',
		records_extracted INT DEFAULT 0,
		records_cleaned INT DEFAULT 0,
		duplicates_dropped INT DEFAULT 0,
		facts_loaded INT DEFAULT 0,
		error_message TEXT,
		execution_time_seconds FLOAT
	);
	`

	_, err := r.db.Exec(query)
	if err != nil {
		return fmt.Errorf("ошибка при создании таблицы etl_run_log: %w", err)
	}

	return nil
}

// CreateLogEntry создает новую запись о запуске ETL
func (r *MySQLETLLogRepository) CreateLogEntry(runID, mode string, startTime time.Time) (int, error) {
	query := `
	INSERT INTO etl_run_log (run_id, mode, start_time, status)
	VALUES (?, ?, ?, 'in_progress')
	`

	result, err := r.db.Exec(query, runID, mode, startTime)
	if err != nil {
		return 0, fmt.Errorf("ошибка при создании записи о запуске ETL: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ошибка при получении ID созданной записи: %w", err)
	}

	return int(id), nil
}

// UpdateLogEntrySuccess обновляет запись при успешном завершении ETL
func (r *MySQLETLLogRepository) UpdateLogEntrySuccess(
	id int,
	endTime time.Time,
	recordsExtracted,
	recordsCleaned,
	duplicatesDropped,
	factsLoaded int) error {

	// Рассчитываем время выполнения в секундах
	var startTime time.Time
	err := r.db.QueryRow("SELECT start_time FROM etl_run_log WHERE id = ?", id).Scan(&startTime)
	if err != nil {
		return fmt.Errorf("ошибка при получении времени начала ETL: %w", err)
	}

	executionTime := endTime.Sub(startTime).Seconds()

	// Обновляем запись
	query := `
	UPDATE etl_run_log
	SET
		end_time = ?,
		status = 'success',
		records_extracted = ?,
		records_cleaned = ?,
		duplicates_dropped = ?,
		facts_loaded = ?,
		execution_time_seconds = ?
	WHERE id = ?
	`

	_, err = r.db.Exec(query,
		endTime,
		recordsExtracted,
		recordsCleaned,
		duplicatesDropped,
		factsLoaded,
		executionTime,
		id,
	)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске ETL: %w", err)
	}

	return nil
}

// UpdateLogEntryFailure обновляет запись при неудачном завершении ETL
func (r *MySQLETLLogRepository) UpdateLogEntryFailure(id int, endTime time.Time, errorMessage string) error {
	query := `
	UPDATE etl_run_log
	SET
		end_time = ?,
		status = 'failed',
		error_message = ?
	WHERE id = ?
	`

	_, err := r.db.Exec(query, endTime, errorMessage, id)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи о неудачном запуске ETL: %w", err)
	}

	return nil
}

// GetLastSuccessfulRun получает информацию о последнем успешном запуске ETL
func (r *MySQLETLLogRepository) GetLastSuccessfulRun(mode string) (*ETLRunLog, error) {
	query := `
	SELECT id, run_id, mode, start_time, end_time, status,
		records_extracted, records_cleaned, duplicates_dropped, facts_loaded,
		IFNULL(error_message, ''), IFNULL(execution_time_seconds, 0)
	FROM etl_run_log
	WHERE status = 'success' AND mode = ?
	ORDER BY end_time DESC
	LIMIT 1
	`

	var runLog ETLRunLog
	err := r.db.QueryRow(query, mode).Scan(
		&runLog.ID,
		&runLog.RunID,
		&runLog.Mode,
		&runLog.StartTime,
		&runLog.EndTime,
		&runLog.Status,
		&runLog.RecordsExtracted,
		&runLog.RecordsCleaned,
		&runLog.DuplicatesDropped,
		&runLog.FactsLoaded,
		&runLog.ErrorMessage,
		&runLog.ExecutionTimeSeconds,
	)

	if err == sql.ErrNoRows {
		// Успешных запусков еще не было
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении последнего успешного запуска: %w", err)
	}

	return &runLog, nil
}
