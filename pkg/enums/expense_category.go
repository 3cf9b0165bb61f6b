package enums

import "fmt"

// ExpenseCategory buckets business expenses for reporting.
type ExpenseCategory string

const (
	ExpenseCategorySupplies     ExpenseCategory = "supplies"
	ExpenseCategoryShipping     ExpenseCategory = "shipping"
	ExpenseCategoryStorage      ExpenseCategory = "storage"
	ExpenseCategorySubscription ExpenseCategory = "subscription"
	ExpenseCategoryTravel       ExpenseCategory = "travel"
	ExpenseCategoryFees         ExpenseCategory = "fees"
	ExpenseCategoryOther        ExpenseCategory = "other"
)

var validExpenseCategories = []ExpenseCategory{
	ExpenseCategorySupplies,
	ExpenseCategoryShipping,
	ExpenseCategoryStorage,
	ExpenseCategorySubscription,
	ExpenseCategoryTravel,
	ExpenseCategoryFees,
	ExpenseCategoryOther,
}

// String implements fmt.Stringer.
func (e ExpenseCategory) String() string {
	return string(e)
}

// IsValid reports whether the value is a known ExpenseCategory.
func (e ExpenseCategory) IsValid() bool {
	for _, candidate := range validExpenseCategories {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseExpenseCategory converts raw input into an ExpenseCategory.
func ParseExpenseCategory(value string) (ExpenseCategory, error) {
	for _, candidate := range validExpenseCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid expense category %q", value)
}
