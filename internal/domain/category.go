package domain

type Category string

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryBills         Category = "bills"
	CategoryEntertainment Category = "entertainment"
	CategoryIncome        Category = "income"
	CategoryOther         Category = "other"
)

// Categories lists every category in canonical order. The order is stable and
// used as the tie-breaker when sorting aggregation results.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryBills,
	CategoryEntertainment,
	CategoryIncome,
	CategoryOther,
}

var categoryDisplayNames = map[Category]string{
	CategoryFood:          "Food",
	CategoryTransport:     "Transport",
	CategoryBills:         "Bills",
	CategoryEntertainment: "Entertainment",
	CategoryIncome:        "Income",
	CategoryOther:         "Other",
}

// DisplayName returns the user-facing label for the category.
func (c Category) DisplayName() string {
	if name, ok := categoryDisplayNames[c]; ok {
		return name
	}
	return string(c)
}

// IsValid reports whether c is one of the closed category set.
func (c Category) IsValid() bool {
	_, ok := categoryDisplayNames[c]
	return ok
}

// Rank returns the category's position in the canonical order. Unknown
// categories sort last.
func (c Category) Rank() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return len(Categories)
}
