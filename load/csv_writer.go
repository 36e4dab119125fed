package load

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/jszwec/csvutil"

	"github.com/LilVoxy/finance_etl/models"
)

// Каноническое представление дат в выходных CSV
const dateLayout = "2006-01-02"

// marshalDate сериализует дату в каноническом формате.
// Нулевое время дает пустое значение
func marshalDate(t time.Time) ([]byte, error) {
	if t.IsZero() {
		return []byte(""), nil
	}
	return []byte(t.Format(dateLayout)), nil
}

// writeFileAtomic записывает данные во временный файл и переименовывает его,
// чтобы фатальная ошибка не оставляла частично записанный файл
func writeFileAtomic(path string, write func(f *os.File) error) error {
	tmpPath := path + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("ошибка при создании файла %s: %w", tmpPath, err)
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка при закрытии файла %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка при переименовании файла %s: %w", tmpPath, err)
	}

	return nil
}

// WriteTableCSV записывает таблицу строковых значений в CSV-файл
func WriteTableCSV(table *models.Table, path string) error {
	return writeFileAtomic(path, func(f *os.File) error {
		w := csv.NewWriter(f)

		if err := w.Write(table.Columns); err != nil {
			return fmt.Errorf("ошибка при записи заголовка в %s: %w", path, err)
		}
		for _, row := range table.Rows {
			if err := w.Write(row); err != nil {
				return fmt.Errorf("ошибка при записи строки в %s: %w", path, err)
			}
		}

		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("ошибка при записи CSV в %s: %w", path, err)
		}
		return nil
	})
}

// WriteRecordsCSV записывает срез типизированных записей в CSV-файл
// по их csv-тегам
func WriteRecordsCSV[T any](records []T, path string) error {
	return writeFileAtomic(path, func(f *os.File) error {
		w := csv.NewWriter(f)
		enc := csvutil.NewEncoder(w)
		enc.Register(marshalDate)

		for _, record := range records {
			if err := enc.Encode(record); err != nil {
				return fmt.Errorf("ошибка при сериализации записи в %s: %w", path, err)
			}
		}

		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("ошибка при записи CSV в %s: %w", path, err)
		}
		return nil
	})
}
