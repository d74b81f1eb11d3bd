package core

// The closed set of transaction categories. New transactions are validated
// against this list at the boundary; the server enforces the same set.
const (
	CategoryFood          = "Food & Dining"
	CategoryHousing       = "Housing"
	CategoryTransport     = "Transport"
	CategoryEntertainment = "Entertainment"
	CategorySalary        = "Salary"
	CategorySavings       = "Savings/Transfer"
	CategoryPocketMoney   = "PocketMoney"
	CategoryShopping      = "Shopping"
	CategoryGifts         = "Gifts & Donations"
	CategoryTravel        = "Travel"
	CategoryPersonalCare  = "Personal Care"
	CategoryEMI           = "EMI"
	CategoryOther         = "Other"
)

var categories = []string{
	CategoryFood,
	CategoryHousing,
	CategoryTransport,
	CategoryEntertainment,
	CategorySalary,
	CategorySavings,
	CategoryPocketMoney,
	CategoryShopping,
	CategoryGifts,
	CategoryTravel,
	CategoryPersonalCare,
	CategoryEMI,
	CategoryOther,
}

var categorySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		m[c] = struct{}{}
	}
	return m
}()

// Categories returns the supported categories in display order.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// ValidCategory reports whether name is a supported category.
func ValidCategory(name string) bool {
	_, ok := categorySet[name]
	return ok
}
