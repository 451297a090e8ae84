package models

// ExpenseCategories is the fixed set of valid expense categories.
var ExpenseCategories = []string{
	"housing", "transportation", "utilities", "food", "clothing",
	"medical", "insurance", "personal", "debt", "savings",
	"retirement", "entertainment", "other",
}

// IsValidCategory reports whether category is one of the fixed set.
func IsValidCategory(category string) bool {
	for _, c := range ExpenseCategories {
		if c == category {
			return true
		}
	}
	return false
}

// DefaultExpenseNote is used when a submitted expense has no note.
const DefaultExpenseNote = "expense"

// Expense represents a single labeled monetary line item within a budget.
// Amount holds the ciphertext token produced by the field cipher.
type Expense struct {
	Base
	BudgetID uint    `gorm:"not null;index" json:"budget_id"`
	Category string  `gorm:"size:32;not null" json:"category"`
	Note     string  `gorm:"size:100;not null;default:expense" json:"note"`
	Amount   *string `gorm:"column:amount" json:"-"`
}
