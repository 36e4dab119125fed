package clean

import (
	"strings"
	"time"
)

// dateLayout - каноническое представление дат в очищенных данных
const dateLayout = "2006-01-02"

// Форматы дат, общие для обеих конвенций
var commonLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"2 January 2006",
}

// Форматы с днем впереди
var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"02.01.2006",
}

// Форматы с месяцем впереди
var monthFirstLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"01.02.2006",
}

// ParseDate разбирает строковое значение даты по настроенной конвенции.
// Возвращает (нулевое время, false) для пустых и неразборчивых значений
func ParseDate(raw string, dayFirst bool) (time.Time, bool) {
	s := strings.TrimSpace(strings.TrimPrefix(raw, "\uFEFF"))
	if isMissingLiteral(s) {
		return time.Time{}, false
	}

	layouts := make([]string, 0, len(commonLayouts)+len(dayFirstLayouts))
	if dayFirst {
		layouts = append(layouts, dayFirstLayouts...)
	} else {
		layouts = append(layouts, monthFirstLayouts...)
	}
	layouts = append(layouts, commonLayouts...)

	for _, layout := range layouts {
		if date, err := time.Parse(layout, s); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}
