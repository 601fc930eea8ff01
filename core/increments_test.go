package core

import (
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestIncrementFor(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name     string
		price    float64
		expected float64
	}{
		{"low band", 0.5, 0.25},
		{"low band upper edge", 3.99, 0.25},
		{"mid band lower edge", 4.0, 0.40},
		{"mid band", 6.5, 0.40},
		{"mid band upper edge", 7.99, 0.40},
		{"top band lower edge", 8.0, 0.50},
		{"top band", 15.0, 0.50},
		{"zero price", 0.0, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check.Equal(t, tt.expected, rules.IncrementFor(tt.price))
		})
	}
}

func TestAdvancePrice(t *testing.T) {
	tests := []struct {
		name      string
		price     float64
		increment float64
		expected  float64
	}{
		{"low band step", 3.00, 0.25, 3.25},
		{"mid band step", 4.00, 0.40, 4.40},
		{"top band step", 8.00, 0.50, 8.50},
		{"crosses band boundary", 3.90, 0.25, 4.15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check.Equal(t, tt.expected, AdvancePrice(tt.price, tt.increment))
		})
	}
}

func TestAdvancePrice_NoFloatDrift(t *testing.T) {
	// A long run of 0.25 steps must stay on exact 2-decimal values; naive
	// float addition drifts within a few hundred iterations.
	price := 2.0
	for i := 0; i < 500; i++ {
		price = AdvancePrice(price, 0.25)
	}
	check.Equal(t, 127.0, price)
}

func TestBudgetCovers(t *testing.T) {
	tests := []struct {
		name     string
		budget   float64
		required float64
		expected bool
	}{
		{"budget above price", 10.0, 5.0, true},
		{"budget at price", 5.0, 5.0, true},
		{"budget below price", 4.99, 5.0, false},
		{"sub-precision shortfall rounds up", 4.999, 5.0, true},
		{"zero budget zero price", 0.0, 0.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check.Equal(t, tt.expected, BudgetCovers(tt.budget, tt.required))
		})
	}
}

func TestIncrementFor_CustomTiers(t *testing.T) {
	rules := Rules{
		Tiers: []Tier{
			{Below: 2, Increment: 0.1},
			{Below: 0, Increment: 1.0},
		},
		RosterCap: 10,
	}

	check.Equal(t, 0.1, rules.IncrementFor(1.5))
	check.Equal(t, 1.0, rules.IncrementFor(2.0))
	check.Equal(t, 1.0, rules.IncrementFor(50.0))
}
