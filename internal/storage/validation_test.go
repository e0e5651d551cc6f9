package storage

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Veraticus/sprout/internal/common"
	"github.com/Veraticus/sprout/internal/model"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name      string
		str       string
		paramName string
		wantErr   bool
	}{
		{
			name:      "valid string",
			str:       "test",
			paramName: "param",
			wantErr:   false,
		},
		{
			name:      "empty string",
			str:       "",
			paramName: "param",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			str:       "   ",
			paramName: "param",
			wantErr:   true,
		},
		{
			name:      "string with spaces",
			str:       "  test  ",
			paramName: "param",
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, tt.paramName)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.paramName) {
				t.Errorf("validateString() error should contain param name %s, got %v", tt.paramName, err)
			}
		})
	}
}

func TestValidatePeriod(t *testing.T) {
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
		{name: "year zero", month: 6, year: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := validatePeriod(tt.month, tt.year)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validatePeriod() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPeriod) || !errors.Is(err, common.ErrInvalidInput) {
					t.Errorf("validatePeriod() error = %v, want ErrInvalidPeriod", err)
				}
				return
			}
			if p != (model.Period{Month: tt.month, Year: tt.year}) {
				t.Errorf("validatePeriod() = %v", p)
			}
		})
	}
}

func TestValidateDateRange(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{name: "month", start: "2024-01-01", end: "2024-01-31"},
		{name: "single day", start: "2024-02-29", end: "2024-02-29"},
		{name: "reversed", start: "2024-02-01", end: "2024-01-01", wantErr: true},
		{name: "not a date", start: "yesterday", end: "2024-01-01", wantErr: true},
		{name: "impossible day", start: "2023-02-29", end: "2023-03-01", wantErr: true},
		{name: "timestamp", start: "2024-01-01T00:00:00Z", end: "2024-01-02", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateDateRange(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateDateRange() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidDate) {
				t.Errorf("validateDateRange() error = %v, want ErrInvalidDate", err)
			}
		})
	}
}

func TestValidateType(t *testing.T) {
	if err := validateType(model.TransactionTypeIncome); err != nil {
		t.Errorf("validateType(income) = %v", err)
	}
	if err := validateType(model.TransactionTypeExpense); err != nil {
		t.Errorf("validateType(expense) = %v", err)
	}
	if err := validateType("transfer"); !errors.Is(err, ErrInvalidType) {
		t.Errorf("validateType(transfer) = %v, want ErrInvalidType", err)
	}
}

func TestValidateAmount(t *testing.T) {
	for _, amount := range []float64{0.01, 42.5, -3, 0} {
		if err := validateAmount(amount); err != nil {
			t.Errorf("validateAmount(%v) = %v", amount, err)
		}
	}
	for _, amount := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := validateAmount(amount); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("validateAmount(%v) = %v, want ErrInvalidAmount", amount, err)
		}
	}
}
