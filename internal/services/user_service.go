package services

import (
	"errors"
	"net/mail"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "pennywise/internal/errors"
	"pennywise/internal/models"
)

// passwordSymbols is the punctuation set accepted by the complexity policy.
const passwordSymbols = "!@#$%^&*()-_=+[]{};:'\",.<>/?\\|`~"

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// Register validates credentials and creates a new user. The username is
// stored case-preserved next to a lowercased shadow column; the email is
// stored lowercased. A unique-constraint violation surfaces as a
// duplicate-account error with nothing persisted.
func (s *userService) Register(username, email, password, confirmPassword string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Username is required")
	}
	if password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Password is required")
	}
	if password != confirmPassword {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Passwords do not match")
	}
	if msg := checkPasswordPolicy(password); msg != "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, msg)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Email address is not valid")
	}
	// The parse accepts name-addr forms; only the bare address is stored.
	email = addr.Address

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Username:      username,
		UsernameLower: strings.ToLower(username),
		Email:         strings.ToLower(email),
		Password:      string(hashedPassword),
	}

	if err := s.db.Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateAccount
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// Authenticate looks up a user by case-insensitive username or exact
// lowercased email and verifies the password. When a username of one row
// equals the email of another, the row with the lowest ID wins; the
// ordering makes the lookup deterministic.
func (s *userService) Authenticate(identifier, password string) (*models.User, error) {
	ident := strings.ToLower(strings.TrimSpace(identifier))

	var user models.User
	err := s.db.Where("username_lower = ? OR email = ?", ident, ident).
		Order("id").
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// ChangePassword overwrites the stored hash after verifying the old
// password and applying the complexity policy to the new one.
func (s *userService) ChangePassword(userID uint, oldPassword, newPassword, confirmPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return apperrors.ErrWrongPassword
	}
	if newPassword != confirmPassword {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Passwords do not match")
	}
	if msg := checkPasswordPolicy(newPassword); msg != "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, msg)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(user).Update("password", string(hashed)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// DeleteAccount deletes the user row after verifying the password.
// Budgets, expenses, and sessions go with it through the cascade.
func (s *userService) DeleteAccount(userID uint, password string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return apperrors.ErrWrongPassword
	}

	if err := s.db.Delete(user).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// checkPasswordPolicy returns an empty string when the password satisfies
// the complexity policy, or the first failing rule's message.
func checkPasswordPolicy(password string) string {
	if len(password) < 8 {
		return "Password must be at least 8 characters long"
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	switch {
	case !hasLower:
		return "Password must contain a lowercase letter"
	case !hasUpper:
		return "Password must contain an uppercase letter"
	case !hasDigit:
		return "Password must contain a digit"
	case !hasSymbol:
		return "Password must contain a symbol"
	}
	return ""
}

// isUniqueConstraintError checks if a GORM error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // SQLite
		strings.Contains(msg, "duplicate key value violates unique constraint") // PostgreSQL
}
