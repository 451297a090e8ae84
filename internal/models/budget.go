package models

// Budget represents a named budget plan owned by one user. Total and
// Result hold ciphertext tokens produced by the field cipher; plaintext
// amounts never reach the database.
type Budget struct {
	Base
	UserID   uint      `gorm:"not null;index" json:"user_id"`
	Name     string    `gorm:"size:100;not null" json:"name"`
	Total    *string   `gorm:"column:budget" json:"-"`
	Result   *string   `gorm:"column:result" json:"-"`
	Expenses []Expense `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"expenses,omitempty"`
}
