package converter

import (
	"encoding/json"
	"math"
	"testing"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{0, 0},
		{1.234, 1.23},
		{1.236, 1.24},
		{2.5, 2.5},
		{-1.236, -1.24},
		{0.125, 0.13},
		{-0.125, -0.13},
		{100, 100},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
	}

	for _, tt := range tests {
		result := Round2(tt.input)
		if result != tt.expected {
			t.Errorf("Round2(%v) = %v, expected %v", tt.input, result, tt.expected)
		}
	}
}

func TestToNumber_Numeric(t *testing.T) {
	tests := []struct {
		input    interface{}
		expected float64
	}{
		{float64(150), 150},
		{float64(0.9), 0.9},
		{float64(31.456), 31.46},
		{float32(2.5), 2.5},
		{int(18), 18},
		{int64(250), 250},
		{uint8(7), 7},
		{json.Number("12.347"), 12.35},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		result := ToNumber(tt.input)
		if result != tt.expected {
			t.Errorf("ToNumber(%#v) = %v, expected %v", tt.input, result, tt.expected)
		}
	}
}

func TestToNumber_Text(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"150", 150},
		{"0.9", 0.9},
		{" 14.678 ", 14.68},
		{"-3.2", -3.2},
		{"1e2", 100},
		{"N/A", 0},
		{"", 0},
		{"abc", 0},
		{"12g", 12},
		{"3.5 mg", 3.5},
		{".25", 0.25},
		{"1e3kcal", 1000},
		{"7.", 7},
		{"g12", 0},
		{"-", 0},
		{"NaN", 0},
		{"Infinity", 0},
		{"-Inf", 0},
	}

	for _, tt := range tests {
		result := ToNumber(tt.input)
		if result != tt.expected {
			t.Errorf("ToNumber(%q) = %v, expected %v", tt.input, result, tt.expected)
		}
	}
}

func TestToNumber_UnsupportedShapes(t *testing.T) {
	inputs := []interface{}{nil, true, []int{1}, map[string]interface{}{"v": 1}}

	for _, in := range inputs {
		if result := ToNumber(in); result != 0 {
			t.Errorf("ToNumber(%#v) = %v, expected 0", in, result)
		}
	}
}

func TestToNumber_TwoDecimalPlaces(t *testing.T) {
	inputs := []interface{}{1.23456, "9.87654", 0.004, "0.006", 123456.789}

	for _, in := range inputs {
		result := ToNumber(in)
		scaled := result * 100
		if math.Abs(scaled-math.Round(scaled)) > 1e-6 {
			t.Errorf("ToNumber(%v) = %v has more than two decimal places", in, result)
		}
	}
}
