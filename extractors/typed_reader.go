package extractors

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jszwec/csvutil"

	"github.com/LilVoxy/finance_etl/models"
)

// Каноническое представление дат в очищенном CSV
const cleanedDateLayout = "2006-01-02"

// unmarshalDate разбирает дату из очищенного CSV.
// Пустое значение дает нулевое время
func unmarshalDate(data []byte, t *time.Time) error {
	if len(data) == 0 {
		*t = time.Time{}
		return nil
	}

	parsed, err := time.Parse(cleanedDateLayout, string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// newDecoder создает csvutil-декодер с зарегистрированным разбором дат
func newDecoder(r io.Reader) (*csvutil.Decoder, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return nil, err
	}
	dec.Register(unmarshalDate)
	return dec, nil
}

// ReadTransactions читает очищенный CSV финансовых транзакций в типизированные записи.
// Очищенный файл является контрактом между фазами Clean и Transform
func ReadTransactions(path string) ([]models.CleanedTransaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка при открытии очищенного файла %s: %w", path, err)
	}
	defer file.Close()

	dec, err := newDecoder(file)
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании декодера для %s: %w", path, err)
	}

	var transactions []models.CleanedTransaction
	for {
		var tx models.CleanedTransaction
		if err := dec.Decode(&tx); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("ошибка при разборе очищенной записи из %s: %w", path, err)
		}
		transactions = append(transactions, tx)
	}

	return transactions, nil
}

// ReadSalesRecords читает очищенный CSV датасета продаж в типизированные записи
func ReadSalesRecords(path string) ([]models.SalesRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка при открытии очищенного файла %s: %w", path, err)
	}
	defer file.Close()

	dec, err := newDecoder(file)
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании декодера для %s: %w", path, err)
	}

	var records []models.SalesRecord
	for {
		var record models.SalesRecord
		if err := dec.Decode(&record); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("ошибка при разборе очищенной записи из %s: %w", path, err)
		}
		records = append(records, record)
	}

	return records, nil
}
