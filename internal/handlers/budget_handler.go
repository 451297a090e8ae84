package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "pennywise/internal/errors"
	"pennywise/internal/models"
	"pennywise/internal/pagination"
	"pennywise/internal/services"
)

// BudgetHandler handles budget CRUD requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// Index lists the caller's budgets, newest first.
// @Summary     List budgets
// @Description Get a paginated list of the caller's budgets, newest first
// @Tags        budgets
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[services.BudgetSummary] "Paginated budgets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      / [get]
func (h *BudgetHandler) Index(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, bindingMessage(err)))
		return
	}

	result, err := h.budgetService.ListBudgets(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudget returns the decrypted budget detail.
// @Summary     Get budget by ID
// @Description Get a budget with its decrypted amounts and expenses
// @Tags        budgets
// @Produce     json
// @Param       id path int true "Budget ID"
// @Success     200 {object} services.BudgetDetail "Budget detail"
// @Failure     401 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Budget could not be loaded"
// @Router      /budget/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondWithError(c, apperrors.ErrBudgetNotFound)
		return
	}

	detail, err := h.budgetService.ReadBudget(userID, uint(budgetID))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": detail})
}

// NewBudgetForm serves the empty create form: the category enumeration.
// @Summary     Create form
// @Tags        budgets
// @Produce     json
// @Success     200 {object} map[string]interface{} "Category enumeration"
// @Router      /create [get]
func (h *BudgetHandler) NewBudgetForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": models.ExpenseCategories})
}

// CreateBudget validates and persists a new budget with its expenses.
// @Summary     Create budget
// @Description Create a budget and all of its expenses in one transaction
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       request body services.BudgetPayload true "Budget payload"
// @Success     200 {object} map[string]string "URL of the new budget"
// @Failure     400 {object} map[string]string "Validation failure"
// @Failure     500 {object} map[string]string "Budget could not be saved"
// @Router      /create [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var payload services.BudgetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondWithResponse(c, apperrors.WithMessage(apperrors.ErrInvalidInput, bindingMessage(err)))
		return
	}

	budget, err := h.budgetService.CreateBudget(userID, payload)
	if err != nil {
		respondWithResponse(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"name": budget.Name})

	c.JSON(http.StatusOK, gin.H{"url": fmt.Sprintf("/budget/%d", budget.ID)})
}

// UpdateBudget replaces a budget's expense set and updates changed fields.
// @Summary     Update budget
// @Description Replace the budget's expenses with the submitted set
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       request body services.BudgetPayload true "Budget payload with id"
// @Success     200 {object} map[string]string "URL of the budget"
// @Failure     400 {object} map[string]string "Validation failure"
// @Failure     404 {object} map[string]string "Budget not found"
// @Router      /update [post]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var payload services.BudgetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondWithResponse(c, apperrors.WithMessage(apperrors.ErrInvalidInput, bindingMessage(err)))
		return
	}

	budget, err := h.budgetService.UpdateBudget(userID, payload)
	if err != nil {
		respondWithResponse(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"name": budget.Name})

	c.JSON(http.StatusOK, gin.H{"url": fmt.Sprintf("/budget/%d", budget.ID)})
}

// DeleteBudget deletes a budget from the submitted form id and redirects
// to the budget list. A missing budget is not a hard failure.
// @Summary     Delete budget
// @Tags        budgets
// @Accept      x-www-form-urlencoded
// @Param       id formData int true "Budget ID"
// @Success     303 "Redirect to the budget list"
// @Router      /delete [post]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := strconv.ParseUint(c.PostForm("id"), 10, 32)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	if err := h.budgetService.DeleteBudget(userID, uint(budgetID)); err != nil {
		if errors.Is(err, apperrors.ErrBudgetNotFound) {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BUDGET", "budget", uint(budgetID), c.ClientIP(), nil)

	c.Redirect(http.StatusSeeOther, "/")
}
