package clean

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		dayFirst bool
		want     time.Time
		ok       bool
	}{
		{
			name: "каноническая ISO-дата",
			raw:  "2024-03-15",
			want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name:     "день впереди",
			raw:      "15/03/2024",
			dayFirst: true,
			want:     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name: "месяц впереди",
			raw:  "03/15/2024",
			want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name:     "неоднозначная дата по конвенции день-месяц",
			raw:      "02/01/2024",
			dayFirst: true,
			want:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name: "текстовый формат",
			raw:  "January 2, 2024",
			want: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{name: "пустое значение", raw: "", ok: false},
		{name: "литерал NA", raw: "NA", ok: false},
		{name: "мусор", raw: "not-a-date", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.raw, tt.dayFirst)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "ожидалось %v, получено %v", tt.want, got)
			}
		})
	}
}
