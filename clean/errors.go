package clean

import (
	"fmt"
	"strings"
)

// SchemaError возникает, когда в исходной таблице отсутствуют обязательные колонки.
// Ошибка фатальна для всего запуска: очистка не подбирает значения по умолчанию
type SchemaError struct {
	Missing   []string
	Available []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf(
		"отсутствуют обязательные колонки: [%s]; доступные колонки: [%s]",
		strings.Join(e.Missing, ", "),
		strings.Join(e.Available, ", "),
	)
}
