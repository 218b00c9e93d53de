package services

import (
	"errors"
	"testing"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
)

func TestDefaultInitialBidPrice(t *testing.T) {
	tests := []struct {
		name      string
		listPrice string
		makeFlag  bool
		expected  string
	}{
		{"manufactured gets half", "100", true, "50"},
		{"purchased gets three quarters", "100", false, "75"},
		{"rounded to four places", "33.99", false, "25.4925"},
		{"sub-cent rounding", "0.12345", true, "0.0617"},
		{"zero list price", "0", false, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultInitialBidPrice(decimal.RequireFromString(tt.listPrice), tt.makeFlag)
			check.True(t, got.Equal(decimal.RequireFromString(tt.expected)))
		})
	}
}

func TestCheckBidAmount(t *testing.T) {
	minBid := decimal.RequireFromString("0.05")
	maxBid := decimal.RequireFromString("60")

	tests := []struct {
		name   string
		amount string
		valid  bool
	}{
		{"at minimum", "0.05", true},
		{"between bounds", "12.34", true},
		{"at maximum", "60", true},
		{"below minimum", "0.0499", false},
		{"above maximum", "60.0001", false},
		{"zero", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckBidAmount(decimal.RequireFromString(tt.amount), minBid, maxBid)
			if tt.valid {
				check.NoError(t, err)
				return
			}
			check.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestNextCurrentPrice(t *testing.T) {
	got := NextCurrentPrice(decimal.RequireFromString("50"), decimal.RequireFromString("10.125"))
	check.Equal(t, "60.125", got.String())

	got = NextCurrentPrice(decimal.RequireFromString("0.1"), decimal.RequireFromString("0.2"))
	check.Equal(t, "0.3", got.String())
}
