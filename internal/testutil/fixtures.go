package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"pennywise/internal/crypto"
	"pennywise/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword satisfies the complexity policy and is shared by fixtures.
const TestPassword = "Abc12345!"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewTestCipher creates a field cipher with a fixed test secret.
func NewTestCipher(t *testing.T) *crypto.FieldCipher {
	t.Helper()

	fc, err := crypto.New("test-secret-key")
	if err != nil {
		t.Fatalf("failed to create field cipher: %v", err)
	}
	return fc
}

// CreateTestUser creates a user with a hashed password and unique
// username/email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserNamed(t, db, fmt.Sprintf("user%d", nextID()))
}

// CreateTestUserNamed creates a user with the given username.
func CreateTestUserNamed(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:      username,
		UsernameLower: strings.ToLower(username),
		Email:         strings.ToLower(username) + "@test.com",
		Password:      string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBudget creates a budget with encrypted total/result and one
// encrypted food expense.
func CreateTestBudget(t *testing.T, db *gorm.DB, fc *crypto.FieldCipher, userID uint) *models.Budget {
	t.Helper()

	total, result := int64(1000), int64(200)
	totalTok, err := fc.Encrypt(&total)
	if err != nil {
		t.Fatalf("failed to encrypt total: %v", err)
	}
	resultTok, err := fc.Encrypt(&result)
	if err != nil {
		t.Fatalf("failed to encrypt result: %v", err)
	}

	budget := &models.Budget{
		UserID: userID,
		Name:   fmt.Sprintf("Test Budget %d", nextID()),
		Total:  totalTok,
		Result: resultTok,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}

	amount := int64(50)
	amountTok, err := fc.Encrypt(&amount)
	if err != nil {
		t.Fatalf("failed to encrypt amount: %v", err)
	}
	expense := &models.Expense{
		BudgetID: budget.ID,
		Category: "food",
		Note:     "lunch",
		Amount:   amountTok,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}

	return budget
}

// Amount returns a pointer to the given amount for payload literals.
func Amount(v int64) *int64 {
	return &v
}
