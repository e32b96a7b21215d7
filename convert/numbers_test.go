package convert

import "testing"

func TestOre(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{input: 0.123456, expected: "12,35"},
		{input: 1.0, expected: "100,00"},
		{input: 0, expected: "0,00"},
		{input: -0.0512, expected: "-5,12"},
		{input: 0.00125, expected: "0,12"}, // half to even
		{input: 0.00135, expected: "0,14"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := Ore(tt.input); got != tt.expected {
				t.Errorf("Ore(%v) expected %q, got %q", tt.input, tt.expected, got)
			}
		})
	}
}

func TestRoundFloat64(t *testing.T) {
	if got := RoundFloat64(1.23456, 4); got != 1.2346 {
		t.Errorf("RoundFloat64() expected 1.2346, got %v", got)
	}
}
