package models

import (
	"fmt"
)

// Table представляет плоскую таблицу строковых значений с упорядоченными колонками.
// Используется на фазах Extract и Clean, пока данные еще не типизированы
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable создает новую таблицу с заданными колонками
func NewTable(columns []string) *Table {
	return &Table{
		Columns: columns,
		Rows:    make([][]string, 0),
	}
}

// ColumnIndex возвращает индекс колонки по имени
// Возвращает -1, если колонка не найдена
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// HasColumn проверяет наличие колонки в таблице
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Column возвращает все значения указанной колонки
func (t *Table) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("колонка %q не найдена в таблице", name)
	}

	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

// SetColumn заменяет все значения указанной колонки
func (t *Table) SetColumn(name string, values []string) error {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return fmt.Errorf("колонка %q не найдена в таблице", name)
	}
	if len(values) != len(t.Rows) {
		return fmt.Errorf("количество значений (%d) не совпадает с количеством строк (%d)", len(values), len(t.Rows))
	}

	for i := range t.Rows {
		t.Rows[i][idx] = values[i]
	}
	return nil
}

// AddColumn добавляет новую колонку со значениями в конец таблицы
func (t *Table) AddColumn(name string, values []string) error {
	if t.HasColumn(name) {
		return fmt.Errorf("колонка %q уже существует в таблице", name)
	}
	if len(values) != len(t.Rows) {
		return fmt.Errorf("количество значений (%d) не совпадает с количеством строк (%d)", len(values), len(t.Rows))
	}

	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}

// AppendRow добавляет строку в таблицу
func (t *Table) AppendRow(row []string) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("длина строки (%d) не совпадает с количеством колонок (%d)", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Copy возвращает глубокую копию таблицы
// Используется для display-версии данных, чтобы не изменять канонические значения
func (t *Table) Copy() *Table {
	columns := make([]string, len(t.Columns))
	copy(columns, t.Columns)

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = make([]string, len(row))
		copy(rows[i], row)
	}

	return &Table{Columns: columns, Rows: rows}
}

// RowCount возвращает количество строк в таблице
func (t *Table) RowCount() int {
	return len(t.Rows)
}
