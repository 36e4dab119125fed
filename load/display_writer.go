package load

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/LilVoxy/finance_etl/clean"
	"github.com/LilVoxy/finance_etl/models"
	"github.com/LilVoxy/finance_etl/utils"
)

// DisplayWriter записывает display-версию очищенной таблицы:
// денежные колонки форматируются по локали (группировка тысяч, два знака
// после запятой). Форматирование применяется к копии таблицы и никогда
// не затрагивает канонические значения
type DisplayWriter struct {
	logger  *utils.ETLLogger
	printer *message.Printer
}

// NewDisplayWriter создает новый экземпляр DisplayWriter для указанной локали
func NewDisplayWriter(locale string, logger *utils.ETLLogger) (*DisplayWriter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("ошибка при разборе локали %q: %w", locale, err)
	}

	return &DisplayWriter{
		logger:  logger,
		printer: message.NewPrinter(tag),
	}, nil
}

// WriteDisplayCSV записывает копию таблицы с локализованными числами
func (w *DisplayWriter) WriteDisplayCSV(table *models.Table, numericColumns []string, path string) error {
	display := table.Copy()

	for _, column := range numericColumns {
		values, err := display.Column(column)
		if err != nil {
			w.logger.Error("Колонка %q не найдена при форматировании display-версии", column)
			continue
		}

		for i, v := range values {
			value, ok := clean.NormalizeNumeric(v)
			if !ok {
				continue
			}
			values[i] = w.printer.Sprintf("%v", number.Decimal(value,
				number.MinFractionDigits(2),
				number.MaxFractionDigits(2)))
		}
		display.SetColumn(column, values)
	}

	return WriteTableCSV(display, path)
}
