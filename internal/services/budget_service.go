package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"pennywise/internal/crypto"
	apperrors "pennywise/internal/errors"
	"pennywise/internal/models"
	"pennywise/internal/pagination"
)

// maxNameLength bounds both the budget name and expense notes.
const maxNameLength = 100

// budgetService handles budget-related business logic. Every monetary
// value passes through the field cipher on its way to or from the
// database.
type budgetService struct {
	db     *gorm.DB
	cipher *crypto.FieldCipher
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, cipher *crypto.FieldCipher) BudgetServicer {
	return &budgetService{db: db, cipher: cipher}
}

// validatePayload applies the payload rules shared by create and update.
// Checks run in a fixed order and the first failing rule wins.
func validatePayload(p BudgetPayload) error {
	name := strings.TrimSpace(p.Info.Name)
	if name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Budget name is missing")
	}
	if p.Collisions {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Duplicate expense names are not allowed")
	}
	if len(p.Categories) == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "At least one category is required")
	}
	if len(name) > maxNameLength {
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("Budget name is too long (max %d characters)", maxNameLength))
	}

	for category, expenses := range p.Categories {
		if !models.IsValidCategory(category) {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid category: "+category)
		}
		if len(expenses) == 0 {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid or missing input for category: "+category)
		}
		for note, amount := range expenses {
			if len(note) > maxNameLength {
				return apperrors.WithMessage(apperrors.ErrInvalidInput,
					fmt.Sprintf("Expense name is too long (max %d characters)", maxNameLength))
			}
			if amount == nil || *amount == 0 {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "Expense is missing a cost value")
			}
		}
	}
	return nil
}

// buildExpenses encrypts the payload's expense amounts into Expense rows
// for the given budget.
func (s *budgetService) buildExpenses(budgetID uint, categories map[string]map[string]*int64) ([]models.Expense, error) {
	var expenses []models.Expense
	for category, entries := range categories {
		for note, amount := range entries {
			tok, err := s.cipher.Encrypt(amount)
			if err != nil {
				return nil, err
			}
			if strings.TrimSpace(note) == "" {
				note = models.DefaultExpenseNote
			}
			expenses = append(expenses, models.Expense{
				BudgetID: budgetID,
				Category: category,
				Note:     note,
				Amount:   tok,
			})
		}
	}
	return expenses, nil
}

// CreateBudget validates the payload and inserts the budget together with
// all of its expenses in one transaction. Any insert failure rolls the
// whole batch back.
func (s *budgetService) CreateBudget(userID uint, payload BudgetPayload) (*models.Budget, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	total, err := s.cipher.Encrypt(payload.Info.Total)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBudgetSave, err)
	}
	result, err := s.cipher.Encrypt(payload.Info.Result)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBudgetSave, err)
	}

	budget := &models.Budget{
		UserID: userID,
		Name:   strings.TrimSpace(payload.Info.Name),
		Total:  total,
		Result: result,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(budget).Error; err != nil {
			return err
		}

		expenses, err := s.buildExpenses(budget.ID, payload.Categories)
		if err != nil {
			return err
		}
		if len(expenses) > 0 {
			if err := tx.Create(&expenses).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBudgetSave, err)
	}

	return budget, nil
}

// ListBudgets returns the user's budgets, newest first.
func (s *budgetService) ListBudgets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[BudgetSummary], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Order("created_at DESC, id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summaries := make([]BudgetSummary, 0, len(budgets))
	for _, b := range budgets {
		summaries = append(summaries, BudgetSummary{
			ID:        b.ID,
			Name:      b.Name,
			CreatedAt: b.CreatedAt,
		})
	}

	result := pagination.NewPageResponse(summaries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ReadBudget fetches and decrypts a budget and its expenses. A budget
// owned by someone else is never returned. If any stored ciphertext fails
// to decrypt, the whole read fails rather than surfacing a default value.
func (s *budgetService) ReadBudget(userID, budgetID uint) (*BudgetDetail, error) {
	var budget models.Budget
	if err := s.db.Preload("Expenses").First(&budget, budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if budget.UserID != userID {
		return nil, apperrors.ErrNotOwner
	}

	total, err := s.decryptOptional(budget.Total)
	if err != nil {
		return nil, err
	}
	result, err := s.decryptOptional(budget.Result)
	if err != nil {
		return nil, err
	}

	detail := &BudgetDetail{
		ID:         budget.ID,
		Name:       budget.Name,
		Total:      total,
		Result:     result,
		CreatedAt:  budget.CreatedAt,
		Categories: make(map[string]map[string]int64),
	}

	for _, expense := range budget.Expenses {
		amount := s.cipher.Decrypt(expense.Amount)
		if amount == nil {
			return nil, apperrors.ErrBudgetLoad
		}
		if detail.Categories[expense.Category] == nil {
			detail.Categories[expense.Category] = make(map[string]int64)
		}
		detail.Categories[expense.Category][expense.Note] = *amount
	}

	return detail, nil
}

// decryptOptional decrypts a nullable monetary column. A nil token means
// no value was stored; a non-nil token that fails to decrypt aborts the read.
func (s *budgetService) decryptOptional(tok *string) (*int64, error) {
	if tok == nil {
		return nil, nil
	}
	amount := s.cipher.Decrypt(tok)
	if amount == nil {
		return nil, apperrors.ErrBudgetLoad
	}
	return amount, nil
}

// UpdateBudget validates the payload and replaces the budget's expense
// set, updating name/total/result only where they differ from the stored
// (decrypted) values. Everything runs in one transaction.
func (s *budgetService) UpdateBudget(userID uint, payload BudgetPayload) (*models.Budget, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", payload.Info.ID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := make(map[string]interface{})

	name := strings.TrimSpace(payload.Info.Name)
	if name != budget.Name {
		updates["name"] = name
	}

	// Skip re-encryption for unchanged amounts; the nonce would otherwise
	// churn the ciphertext on every save.
	if !equalAmounts(s.cipher.Decrypt(budget.Total), payload.Info.Total) {
		tok, err := s.cipher.Encrypt(payload.Info.Total)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrBudgetSave, err)
		}
		updates["budget"] = tok
	}
	if !equalAmounts(s.cipher.Decrypt(budget.Result), payload.Info.Result) {
		tok, err := s.cipher.Encrypt(payload.Info.Result)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrBudgetSave, err)
		}
		updates["result"] = tok
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&budget).Updates(updates).Error; err != nil {
				return err
			}
		}

		// Replace-all strategy: drop the previous expense set and insert
		// the submitted one.
		if err := tx.Delete(&models.Expense{}, "budget_id = ?", budget.ID).Error; err != nil {
			return err
		}

		expenses, err := s.buildExpenses(budget.ID, payload.Categories)
		if err != nil {
			return err
		}
		if len(expenses) > 0 {
			if err := tx.Create(&expenses).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrBudgetSave, err)
	}

	return &budget, nil
}

// DeleteBudget deletes the user's budget; expenses cascade with it.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBudgetNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Select("Expenses").Delete(&budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// equalAmounts compares two optional amounts.
func equalAmounts(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
