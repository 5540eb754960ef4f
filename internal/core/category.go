package core

import "strings"

// Category labels match what the companion app shows, hence the Indonesian
// names.
type Category string

const (
	CategoryFood          Category = "Makanan"
	CategoryTransport     Category = "Transport"
	CategoryShopping      Category = "Belanja"
	CategorySavings       Category = "Tabungan"
	CategoryEntertainment Category = "Hiburan"
	CategoryBills         Category = "Tagihan"
	CategorySalary        Category = "Gaji"
	CategoryOther         Category = "Lainnya"
)

// categoryKeywords is scanned in order; the first category with a matching
// keyword wins, so Makanan outranks everything and Gaji only catches what the
// earlier sets did not claim.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryFood, []string{"makan", "makanan", "cafe"}},
	{CategoryTransport, []string{"transport", "bensin", "grab", "gojek"}},
	{CategoryShopping, []string{"belanja", "shopping", "beli"}},
	{CategorySavings, []string{"tabung", "saving"}},
	{CategoryEntertainment, []string{"hiburan", "nonton", "game"}},
	{CategoryBills, []string{"tagihan", "listrik", "air"}},
	{CategorySalary, []string{"gaji", "salary", "bonus"}},
}

// DetectCategory infers a category from a transaction description by substring
// keyword matching. Deterministic; falls back to Lainnya.
func DetectCategory(description string) Category {
	desc := strings.ToLower(description)
	for _, set := range categoryKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(desc, kw) {
				return set.category
			}
		}
	}
	return CategoryOther
}
