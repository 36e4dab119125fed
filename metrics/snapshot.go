package metrics

import (
	"time"
)

// Status описывает исход вычисления метрики.
// Явный статус заменяет молчаливое обнуление при ошибках вычислений:
// вызывающий код сам решает, прерывать запуск или подставлять значение
type Status string

const (
	// StatusComputed - метрика вычислена
	StatusComputed Status = "computed"

	// StatusUndefined - метрика не определена (нулевой знаменатель или нет данных)
	StatusUndefined Status = "undefined"

	// StatusFailed - метрика не вычислена из-за отсутствия входных данных
	StatusFailed Status = "failed"
)

// Value представляет одну вычисленную метрику
type Value struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Status  Status  `json:"status"`
	Formula string  `json:"formula,omitempty"`
}

// Snapshot представляет снимок бизнес-метрик, вычисленный один раз
// по паре таблиц фактов и измерения клиентов
type Snapshot struct {
	RunID       string    `json:"run_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Metrics     []Value   `json:"metrics"`
}

// Get возвращает метрику по имени
func (s *Snapshot) Get(name string) (Value, bool) {
	for _, m := range s.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return Value{}, false
}
