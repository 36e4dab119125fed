package extractors

import (
	"fmt"
	"time"

	"github.com/LilVoxy/finance_etl/models"
	"github.com/LilVoxy/finance_etl/utils"
)

// Extractor координирует процесс извлечения данных из исходных файлов
type Extractor struct {
	logger       *utils.ETLLogger
	csvExtractor *CSVExtractor
}

// NewExtractor создает новый экземпляр Extractor
func NewExtractor(logger *utils.ETLLogger) *Extractor {
	return &Extractor{
		logger:       logger,
		csvExtractor: NewCSVExtractor(logger),
	}
}

// Extract выполняет извлечение таблицы сырых записей из файла
func (e *Extractor) Extract(path string) (*models.Table, error) {
	startTime := time.Now()
	e.logger.LogExtractStart(path)

	table, err := e.csvExtractor.ExtractTable(path)
	if err != nil {
		e.logger.Error("Ошибка при извлечении данных: %v", err)
		return nil, fmt.Errorf("ошибка извлечения данных: %w", err)
	}

	if table.RowCount() == 0 {
		e.logger.Error("Файл %s не содержит ни одной записи", path)
		return nil, fmt.Errorf("файл %s не содержит ни одной записи", path)
	}

	e.logger.LogExtractComplete(table.RowCount(), len(table.Columns), time.Since(startTime))
	return table, nil
}
