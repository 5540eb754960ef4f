package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{"plain digits", "50000", 50000, false},
		{"currency prefix and dots", "Rp50.000", 50000, false},
		{"comma separators", "1,000,000", 1000000, false},
		{"letters only", "abc", 0, true},
		{"empty", "", 0, true},
		{"zero", "0", 0, true},
		{"digits mixed with letters", "5rb", 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) expected error, got %s", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.in, err)
			}
			if !got.Equal(decimal.NewFromInt(tt.want)) {
				t.Errorf("ParseAmount(%q) = %s, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{500, "500"},
		{50000, "50.000"},
		{1000000, "1.000.000"},
		{-50000, "-50.000"},
		{950000, "950.000"},
	}

	for _, tt := range tests {
		if got := FormatRupiah(decimal.NewFromInt(tt.in)); got != tt.want {
			t.Errorf("FormatRupiah(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
