package models

import (
	"time"
)

// ETLRunLog представляет запись о запуске ETL процесса
type ETLRunLog struct {
	ID                   int       `json:"id"`
	RunID                string    `json:"run_id"`
	Mode                 string    `json:"mode"` // "health" или "sales"
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
	Status               string    `json:"status"` // "success", "failed", "in_progress"
	RecordsExtracted     int       `json:"records_extracted"`
	RecordsCleaned       int       `json:"records_cleaned"`
	DuplicatesDropped    int       `json:"duplicates_dropped"`
	FactsLoaded          int       `json:"facts_loaded"`
	ErrorMessage         string    `json:"error_message,omitempty"`
	ExecutionTimeSeconds float64   `json:"execution_time_seconds"`
}

// ETLLogRepository представляет репозиторий для работы с логами ETL
type ETLLogRepository interface {
	// CreateLogEntry создает новую запись о запуске ETL
	CreateLogEntry(runID, mode string, startTime time.Time) (int, error)

	// UpdateLogEntrySuccess обновляет запись при успешном завершении ETL
	UpdateLogEntrySuccess(
		id int,
		endTime time.Time,
		recordsExtracted,
		recordsCleaned,
		duplicatesDropped,
		factsLoaded int) error

	// UpdateLogEntryFailure обновляет запись при неудачном завершении ETL
	UpdateLogEntryFailure(id int, endTime time.Time, errorMessage string) error

	// GetLastSuccessfulRun получает информацию о последнем успешном запуске ETL
	GetLastSuccessfulRun(mode string) (*ETLRunLog, error)
}
