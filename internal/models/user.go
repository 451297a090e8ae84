package models

// User represents the user model in the database. Username is stored
// case-preserved alongside a lowercased shadow column used for
// case-insensitive lookup; email is stored lowercased.
type User struct {
	Base
	Username      string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	UsernameLower string    `gorm:"size:100;uniqueIndex;not null" json:"-"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	Password      string    `gorm:"not null" json:"-"`
	Budgets       []Budget  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"budgets,omitempty"`
	Sessions      []Session `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
