package extractors

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/LilVoxy/finance_etl/models"
	"github.com/LilVoxy/finance_etl/utils"
)

// CSVExtractor читает таблицу сырых записей из текстового файла с разделителями
type CSVExtractor struct {
	logger *utils.ETLLogger
}

// NewCSVExtractor создает новый экземпляр CSVExtractor
func NewCSVExtractor(logger *utils.ETLLogger) *CSVExtractor {
	return &CSVExtractor{
		logger: logger,
	}
}

// ExtractTable читает файл целиком и возвращает таблицу со строковыми значениями.
// Разделитель (запятая или точка с запятой) определяется по первой строке файла,
// маркер порядка байтов (BOM) отбрасывается, заголовки приводятся к каноническим именам
func (e *CSVExtractor) ExtractTable(path string) (*models.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении файла %s: %w", path, err)
	}

	// Отбрасываем BOM в начале файла
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	delimiter := detectDelimiter(data)
	e.logger.Debug("Определен разделитель %q для файла %s", delimiter, path)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ошибка при разборе CSV из файла %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("файл %s не содержит данных", path)
	}

	// Приводим заголовки к каноническим именам колонок
	header := records[0]
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = CanonicalColumn(h)
	}

	table := models.NewTable(columns)
	for _, record := range records[1:] {
		// Выравниваем длину строки под количество колонок
		row := make([]string, len(columns))
		for i := range row {
			if i < len(record) {
				row[i] = strings.TrimSpace(record[i])
			}
		}
		table.AppendRow(row)
	}

	return table, nil
}

// detectDelimiter определяет разделитель по первой строке файла
func detectDelimiter(data []byte) rune {
	firstLine := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		firstLine = data[:idx]
	}

	if bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		return ';'
	}
	return ','
}
