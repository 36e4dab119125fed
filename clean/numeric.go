package clean

import (
	"strconv"
	"strings"
)

// Литералы, которые трактуются как отсутствующее значение
var missingLiterals = map[string]struct{}{
	"":     {},
	"-":    {},
	"$-":   {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
}

// Валютные символы, удаляемые при нормализации
const currencySymbols = "R$€£"

// NormalizeNumeric преобразует сырое строковое значение в число с плавающей точкой.
// Возвращает (0, false), если значение отсутствует или не может быть разобрано.
// Правила разбора:
//   - пробелы, BOM и валютные символы удаляются;
//   - скобки обозначают отрицательное значение: (1500) -> -1500;
//   - если присутствуют и точка, и запятая, правый разделитель считается
//     десятичной точкой, а второй удаляется как разделитель тысяч;
//   - одиночная запятая считается десятичной запятой: "2,00" -> 2.0;
//   - повторяющиеся запятые считаются разделителями тысяч;
//   - ошибка разбора после очистки дает отсутствующее значение, не ошибку
func NormalizeNumeric(raw string) (float64, bool) {
	s := strings.TrimPrefix(raw, "\uFEFF")
	s = strings.TrimSpace(s)

	if isMissingLiteral(s) {
		return 0, false
	}

	// Скобочная запись отрицательных значений: (1500.00)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) > 2 {
		negative = true
		s = s[1 : len(s)-1]
	}

	// Префикс "NA " встречается в исходных данных как валютная пометка
	s = strings.TrimPrefix(s, "NA ")

	// Удаляем валютные символы и пробелы-разделители тысяч
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' || r == '\u202f' || strings.ContainsRune(currencySymbols, r) {
			return -1
		}
		return r
	}, s)

	if isMissingLiteral(s) {
		return 0, false
	}

	// Знак минус учитывается только в начале строки
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = s[1:]
	}

	s = normalizeSeparators(s)

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	if negative {
		value = -value
	}
	return value, true
}

// normalizeSeparators приводит десятичные разделители и разделители тысяч
// к каноническому виду с точкой в роли десятичного разделителя
func normalizeSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		// Оба разделителя: правый - десятичная точка, второй удаляется
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			// Несколько запятых - разделители тысяч
			s = strings.ReplaceAll(s, ",", "")
		} else {
			// Одиночная запятая - десятичная запятая
			s = strings.Replace(s, ",", ".", 1)
		}
	case strings.Count(s, ".") > 1:
		// Несколько точек: последняя остается десятичной
		first := strings.Count(s, ".") - 1
		s = strings.Replace(s, ".", "", first)
	}

	return s
}

// FormatNumeric возвращает каноническое строковое представление числа,
// пригодное для повторной нормализации без потери значения
func FormatNumeric(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// isMissingLiteral проверяет, обозначает ли строка отсутствующее значение
func isMissingLiteral(s string) bool {
	_, ok := missingLiterals[strings.ToLower(strings.TrimSpace(s))]
	return ok
}
