package core

import "testing"

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		desc string
		want Category
	}{
		{"makan siang", CategoryFood},
		{"ngopi di cafe", CategoryFood},
		{"bensin motor", CategoryTransport},
		{"gojek ke kantor", CategoryTransport},
		{"belanja bulanan", CategoryShopping},
		{"transfer tabungan", CategorySavings},
		{"nonton bioskop", CategoryEntertainment},
		{"bayar listrik", CategoryBills},
		{"gaji bulan ini", CategorySalary},
		{"bonus tahunan", CategorySalary},
		{"random stuff", CategoryOther},
		{"", CategoryOther},
		// first match wins: "beli makan" hits Makanan before Belanja
		{"beli makan malam", CategoryFood},
		// matching is case-insensitive on the description
		{"GAJI THR", CategorySalary},
	}

	for _, tt := range tests {
		if got := DetectCategory(tt.desc); got != tt.want {
			t.Errorf("DetectCategory(%q) = %q, want %q", tt.desc, got, tt.want)
		}
	}
}
