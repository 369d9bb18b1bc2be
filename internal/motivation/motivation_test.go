package motivation

import (
	"testing"

	"github.com/julianstephens/betteryou/internal/date"
)

func TestForDay(t *testing.T) {
	tests := []struct {
		day  string
		want Quote
	}{
		{"2025-01-01", Quotes[1]},
		{"2025-01-05", Quotes[0]},
		{"2025-12-31", Quotes[365%len(Quotes)]},
		{"2024-12-31", Quotes[366%len(Quotes)]},
	}
	for _, tt := range tests {
		if got := ForDay(date.MustParse(tt.day)); got != tt.want {
			t.Errorf("ForDay(%s) = %q, want %q", tt.day, got.Author, tt.want.Author)
		}
	}
}

func TestForDayRotatesDaily(t *testing.T) {
	day := date.MustParse("2025-03-10")
	if ForDay(day) == ForDay(day.AddDays(1)) {
		t.Error("consecutive days should show different quotes")
	}
	if ForDay(day) != ForDay(day) {
		t.Error("same day should show the same quote")
	}
}
