package load

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/LilVoxy/finance_etl/metrics"
)

// WriteMetricsJSON записывает снимок метрик в структурированный JSON-отчет
func WriteMetricsJSON(snapshot *metrics.Snapshot, path string) error {
	return writeFileAtomic(path, func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")

		if err := enc.Encode(snapshot); err != nil {
			return fmt.Errorf("ошибка при сериализации метрик в %s: %w", path, err)
		}
		return nil
	})
}
