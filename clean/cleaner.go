package clean

import (
	"sort"
	"strings"
	"time"

	"github.com/LilVoxy/finance_etl/models"
	"github.com/LilVoxy/finance_etl/utils"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DerivedColumn описывает производную текстовую колонку,
// склеиваемую из значений других колонок
type DerivedColumn struct {
	Name      string
	From      []string
	Separator string
}

// Rules содержит правила очистки для конкретного датасета
type Rules struct {
	// Обязательные колонки: при отсутствии любой из них очистка прерывается
	Required []string

	// Колонки с текстовыми категориями: trim, title-case, заполнение модой
	TextColumns []string

	// Исправления известных опечаток: колонка -> (опечатка -> исправление)
	Corrections map[string]map[string]string

	// Числовые колонки: нормализация и заполнение медианой
	NumericColumns []string

	// Подмножество числовых колонок, берущихся по модулю после очистки
	AbsoluteColumns []string

	// Колонки с датами: разбор и заполнение максимальной валидной датой
	DateColumns []string

	// Конвенция разбора дат: день впереди (true) или месяц впереди (false)
	DayFirst bool

	// Колонки-идентификаторы: колонка -> значение-заглушка для пропусков
	IDColumns map[string]string

	// Колонки-флаги, приводимые к 0/1
	FlagColumns []string

	// Производные колонки
	Derived []DerivedColumn

	// Натуральный ключ дедупликации; пустая строка отключает дедупликацию
	DedupeKey string
}

// Stats содержит статистику одного прогона очистки
type Stats struct {
	RowsIn            int
	RowsOut           int
	DuplicatesDropped int
	ValuesFilled      int
}

// Cleaner применяет правила очистки к таблице сырых записей
type Cleaner struct {
	rules  Rules
	logger *utils.ETLLogger
	titler cases.Caser
}

// NewCleaner создает новый экземпляр Cleaner
func NewCleaner(rules Rules, logger *utils.ETLLogger) *Cleaner {
	return &Cleaner{
		rules:  rules,
		logger: logger,
		titler: cases.Title(language.English),
	}
}

// Clean выполняет полную очистку таблицы по настроенным правилам.
// Возвращает новую таблицу; исходная таблица не изменяется
func (c *Cleaner) Clean(raw *models.Table) (*models.Table, *Stats, error) {
	startTime := time.Now()

	// Проверяем наличие обязательных колонок до любых преобразований
	if err := c.checkRequired(raw); err != nil {
		return nil, nil, err
	}

	t := raw.Copy()
	stats := &Stats{RowsIn: t.RowCount()}

	// 1. Исправление известных опечаток
	c.applyCorrections(t)

	// 2. Заполнение пропущенных идентификаторов заглушками
	stats.ValuesFilled += c.fillIdentifiers(t)

	// 3. Нормализация числовых колонок и заполнение медианой
	stats.ValuesFilled += c.cleanNumericColumns(t)

	// 4. Разбор дат и заполнение максимальной валидной датой
	stats.ValuesFilled += c.cleanDateColumns(t)

	// 5. Текстовые категории: trim, title-case, заполнение модой
	stats.ValuesFilled += c.cleanTextColumns(t)

	// 6. Производные колонки
	c.buildDerivedColumns(t)

	// 7. Приведение флагов к 0/1
	c.coerceFlags(t)

	// 8. Дедупликация по натуральному ключу (первое вхождение выигрывает)
	stats.DuplicatesDropped = c.deduplicate(t)

	// 9. Модуль для денежных колонок, которые не бывают отрицательными
	c.applyAbsolute(t)

	stats.RowsOut = t.RowCount()
	c.logger.LogCleanComplete(stats.RowsOut, stats.DuplicatesDropped, time.Since(startTime))

	return t, stats, nil
}

// checkRequired проверяет наличие всех обязательных колонок
func (c *Cleaner) checkRequired(t *models.Table) error {
	var missing []string
	for _, col := range c.rules.Required {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return &SchemaError{Missing: missing, Available: t.Columns}
	}
	return nil
}

// applyCorrections заменяет известные опечатки в настроенных колонках
func (c *Cleaner) applyCorrections(t *models.Table) {
	for column, replacements := range c.rules.Corrections {
		values, err := t.Column(column)
		if err != nil {
			continue
		}

		for i, v := range values {
			v = strings.TrimSpace(v)
			for from, to := range replacements {
				v = strings.ReplaceAll(v, from, to)
			}
			values[i] = v
		}
		t.SetColumn(column, values)
	}
}

// fillIdentifiers заполняет пропущенные идентификаторы значениями-заглушками
func (c *Cleaner) fillIdentifiers(t *models.Table) int {
	filled := 0
	for column, sentinel := range c.rules.IDColumns {
		values, err := t.Column(column)
		if err != nil {
			continue
		}

		for i, v := range values {
			if isMissingLiteral(v) {
				values[i] = sentinel
				filled++
			}
		}
		t.SetColumn(column, values)
	}
	return filled
}

// cleanNumericColumns нормализует числовые колонки и заполняет пропуски медианой
func (c *Cleaner) cleanNumericColumns(t *models.Table) int {
	filled := 0
	for _, column := range c.rules.NumericColumns {
		values, err := t.Column(column)
		if err != nil {
			continue
		}

		parsed := make([]float64, len(values))
		missing := make([]bool, len(values))
		present := make([]float64, 0, len(values))

		for i, v := range values {
			number, ok := NormalizeNumeric(v)
			parsed[i] = number
			missing[i] = !ok
			if ok {
				present = append(present, number)
			}
		}

		median := medianOf(present)
		for i := range parsed {
			if missing[i] {
				parsed[i] = median
				filled++
			}
			values[i] = FormatNumeric(parsed[i])
		}
		t.SetColumn(column, values)
	}
	return filled
}

// cleanDateColumns разбирает даты и заполняет пропуски максимальной валидной датой
func (c *Cleaner) cleanDateColumns(t *models.Table) int {
	filled := 0
	for _, column := range c.rules.DateColumns {
		values, err := t.Column(column)
		if err != nil {
			continue
		}

		parsed := make([]time.Time, len(values))
		valid := make([]bool, len(values))
		var maxDate time.Time

		for i, v := range values {
			date, ok := ParseDate(v, c.rules.DayFirst)
			parsed[i] = date
			valid[i] = ok
			if ok && date.After(maxDate) {
				maxDate = date
			}
		}

		for i := range parsed {
			if !valid[i] {
				if maxDate.IsZero() {
					// В колонке нет ни одной валидной даты, заполнять нечем
					values[i] = ""
					continue
				}
				parsed[i] = maxDate
				filled++
			}
			values[i] = parsed[i].Format(dateLayout)
		}
		t.SetColumn(column, values)
	}
	return filled
}

// cleanTextColumns нормализует текстовые категории и заполняет пропуски модой
func (c *Cleaner) cleanTextColumns(t *models.Table) int {
	filled := 0
	for _, column := range c.rules.TextColumns {
		values, err := t.Column(column)
		if err != nil {
			continue
		}

		present := make([]string, 0, len(values))
		for i, v := range values {
			v = strings.TrimSpace(v)
			if isMissingLiteral(v) {
				values[i] = ""
				continue
			}
			v = c.titler.String(strings.ToLower(v))
			values[i] = v
			present = append(present, v)
		}

		mode := modeOf(present)
		for i, v := range values {
			if v == "" && mode != "" {
				values[i] = mode
				filled++
			}
		}
		t.SetColumn(column, values)
	}
	return filled
}

// buildDerivedColumns добавляет производные текстовые колонки
func (c *Cleaner) buildDerivedColumns(t *models.Table) {
	for _, derived := range c.rules.Derived {
		values := make([]string, t.RowCount())
		ok := true

		for _, source := range derived.From {
			column, err := t.Column(source)
			if err != nil {
				c.logger.Error("Колонка %q для производной колонки %q не найдена", source, derived.Name)
				ok = false
				break
			}
			for i, v := range column {
				if values[i] == "" {
					values[i] = v
				} else {
					values[i] = values[i] + derived.Separator + v
				}
			}
		}

		if ok {
			t.AddColumn(derived.Name, values)
		}
	}
}

// coerceFlags приводит колонки-флаги к значениям 0/1
func (c *Cleaner) coerceFlags(t *models.Table) {
	for _, column := range c.rules.FlagColumns {
		values, err := t.Column(column)
		if err != nil {
			continue
		}

		for i, v := range values {
			number, ok := NormalizeNumeric(v)
			if ok && number != 0 {
				values[i] = "1"
			} else {
				values[i] = "0"
			}
		}
		t.SetColumn(column, values)
	}
}

// deduplicate удаляет строки с повторяющимся натуральным ключом,
// сохраняя первое вхождение в порядке ввода
func (c *Cleaner) deduplicate(t *models.Table) int {
	if c.rules.DedupeKey == "" {
		return 0
	}

	idx := t.ColumnIndex(c.rules.DedupeKey)
	if idx < 0 {
		return 0
	}

	seen := make(map[string]bool, len(t.Rows))
	kept := make([][]string, 0, len(t.Rows))
	dropped := 0

	for _, row := range t.Rows {
		key := row[idx]
		if seen[key] {
			dropped++
			continue
		}
		seen[key] = true
		kept = append(kept, row)
	}

	t.Rows = kept
	return dropped
}

// applyAbsolute берет настроенные денежные колонки по модулю
func (c *Cleaner) applyAbsolute(t *models.Table) {
	for _, column := range c.rules.AbsoluteColumns {
		values, err := t.Column(column)
		if err != nil {
			continue
		}

		for i, v := range values {
			number, ok := NormalizeNumeric(v)
			if !ok {
				continue
			}
			if number < 0 {
				number = -number
			}
			values[i] = FormatNumeric(number)
		}
		t.SetColumn(column, values)
	}
}

// medianOf возвращает медиану значений; для четного количества -
// среднее двух центральных. Для пустого среза возвращает 0
func medianOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// modeOf возвращает самое частое значение; при нескольких модах -
// лексикографически меньшую. Для пустого среза возвращает пустую строку
func modeOf(values []string) string {
	if len(values) == 0 {
		return ""
	}

	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	best := ""
	bestCount := 0
	for v, count := range counts {
		if count > bestCount || (count == bestCount && v < best) {
			best = v
			bestCount = count
		}
	}
	return best
}
