package domain

import (
	"errors"
	"testing"
)

func TestParseIncome(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"1000", "1000", false},
		{"100.50", "100.5", false},
		{"2,500.75", "2500.75", false},
		{"  300 ", "300", false},
		{"0", "", true},
		{"-100", "", true},
		{"abc", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseIncome(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidIncome) {
					t.Errorf("ParseIncome(%q) error = %v, want ErrInvalidIncome", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseIncome(%q) unexpected error: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseIncome(%q) = %s, want %s", tt.input, got.String(), tt.want)
			}
		})
	}
}

func TestParseBucketType(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"Needs", true},
		{"Wants", true},
		{"Savings", true},
		{"needs", false},
		{"WANTS", false},
		{" Needs", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, ok := ParseBucketType(tt.input)
			if ok != tt.ok {
				t.Errorf("ParseBucketType(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
		})
	}
}

func TestDiagnosticString(t *testing.T) {
	if got := (Diagnostic{Row: 0, Message: "Missing required columns."}).String(); got != "Missing required columns." {
		t.Errorf("table-level diagnostic = %q", got)
	}
	if got := (Diagnostic{Row: 3, Message: "Invalid name."}).String(); got != "Row 3: Invalid name." {
		t.Errorf("row diagnostic = %q", got)
	}
}
