package services

import (
	"time"

	"pennywise/internal/models"
	"pennywise/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(username, email, password, confirmPassword string) (*models.User, error)
	Authenticate(identifier, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	ChangePassword(userID uint, oldPassword, newPassword, confirmPassword string) error
	DeleteAccount(userID uint, password string) error
}

// SessionServicer defines the contract for server-side session management.
type SessionServicer interface {
	Create(userID uint) (*models.Session, error)
	Lookup(id string) (*models.Session, error)
	Delete(id string) error
	DeleteForUser(userID uint) error
}

// BudgetInfo carries the budget metadata portion of a submitted payload.
type BudgetInfo struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Total  *int64 `json:"total"`
	Result *int64 `json:"result"`
}

// BudgetPayload is the submitted budget+expenses payload for create and
// update. Categories maps category -> expense note -> amount. Collisions
// is set by an earlier layer when the submitted expense notes contain
// duplicates; collision detection itself is not this service's concern.
type BudgetPayload struct {
	Info       BudgetInfo                   `json:"info" binding:"required"`
	Categories map[string]map[string]*int64 `json:"categories" binding:"required"`
	Collisions bool                         `json:"collisions"`
}

// BudgetSummary is a single row in the budget list.
type BudgetSummary struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// BudgetDetail is a fully decrypted budget: metadata plus
// category -> expense note -> plaintext amount.
type BudgetDetail struct {
	ID         uint                        `json:"id"`
	Name       string                      `json:"name"`
	Total      *int64                      `json:"total"`
	Result     *int64                      `json:"result"`
	CreatedAt  time.Time                   `json:"created_at"`
	Categories map[string]map[string]int64 `json:"categories"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID uint, payload BudgetPayload) (*models.Budget, error)
	ListBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[BudgetSummary], error)
	ReadBudget(userID, budgetID uint) (*BudgetDetail, error)
	UpdateBudget(userID uint, payload BudgetPayload) (*models.Budget, error)
	DeleteBudget(userID, budgetID uint) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
