package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPeriod(t *testing.T) {
	tests := []struct {
		name    string
		month   int
		year    int
		wantErr bool
	}{
		{name: "january", month: 1, year: 2024},
		{name: "december", month: 12, year: 2024},
		{name: "month zero", month: 0, year: 2024, wantErr: true},
		{name: "month thirteen", month: 13, year: 2024, wantErr: true},
		{name: "year zero", month: 5, year: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPeriod(tt.month, tt.year)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPeriod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Period{Month: tt.month, Year: tt.year}, p)
		})
	}
}

func TestPeriodBounds(t *testing.T) {
	tests := []struct {
		period Period
		start  string
		end    string
		days   int
	}{
		{period: Period{Month: 2, Year: 2024}, start: "2024-02-01", end: "2024-02-29", days: 29},
		{period: Period{Month: 2, Year: 2023}, start: "2023-02-01", end: "2023-02-28", days: 28},
		{period: Period{Month: 2, Year: 1900}, start: "1900-02-01", end: "1900-02-28", days: 28},
		{period: Period{Month: 2, Year: 2000}, start: "2000-02-01", end: "2000-02-29", days: 29},
		{period: Period{Month: 4, Year: 2024}, start: "2024-04-01", end: "2024-04-30", days: 30},
		{period: Period{Month: 12, Year: 2024}, start: "2024-12-01", end: "2024-12-31", days: 31},
	}

	for _, tt := range tests {
		t.Run(tt.period.String(), func(t *testing.T) {
			assert.Equal(t, tt.start, tt.period.Start())
			assert.Equal(t, tt.end, tt.period.End())
			assert.Equal(t, tt.days, tt.period.DaysInMonth())
		})
	}
}

func TestPeriodContains(t *testing.T) {
	p := Period{Month: 3, Year: 2024}

	assert.True(t, p.Contains("2024-03-01"))
	assert.True(t, p.Contains("2024-03-31"))
	assert.False(t, p.Contains("2024-02-29"))
	assert.False(t, p.Contains("2024-04-01"))
}

func TestPeriodNavigation(t *testing.T) {
	assert.Equal(t, Period{Month: 12, Year: 2023}, Period{Month: 1, Year: 2024}.Previous())
	assert.Equal(t, Period{Month: 1, Year: 2025}, Period{Month: 12, Year: 2024}.Next())
	assert.Equal(t, Period{Month: 6, Year: 2024}, Period{Month: 5, Year: 2024}.Next())
	assert.Equal(t, "March 2024", Period{Month: 3, Year: 2024}.String())
	assert.Equal(t, "2024-03-09", Period{Month: 3, Year: 2024}.Day(9))
}

func TestPeriodOf(t *testing.T) {
	ts := time.Date(2024, time.March, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, Period{Month: 3, Year: 2024}, PeriodOf(ts))
}
