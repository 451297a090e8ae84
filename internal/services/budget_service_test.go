package services

import (
	"strings"
	"testing"

	"pennywise/internal/models"
	"pennywise/internal/pagination"
	"pennywise/internal/testutil"
)

func validPayload() BudgetPayload {
	return BudgetPayload{
		Info: BudgetInfo{
			Name:   "March",
			Total:  testutil.Amount(1000),
			Result: testutil.Amount(200),
		},
		Categories: map[string]map[string]*int64{
			"food": {"lunch": testutil.Amount(50)},
		},
	}
}

func TestCreateBudget(t *testing.T) {
	t.Run("round_trip", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fc := testutil.NewTestCipher(t)
		svc := NewBudgetService(db, fc)
		user := testutil.CreateTestUser(t, db)

		budget, err := svc.CreateBudget(user.ID, validPayload())
		testutil.AssertNoError(t, err)
		if budget.ID == 0 {
			t.Fatal("expected non-zero budget ID")
		}

		detail, err := svc.ReadBudget(user.ID, budget.ID)
		testutil.AssertNoError(t, err)
		if detail.Name != "March" {
			t.Errorf("expected name March, got %s", detail.Name)
		}
		if detail.Total == nil || *detail.Total != 1000 {
			t.Errorf("expected total 1000, got %v", detail.Total)
		}
		if detail.Result == nil || *detail.Result != 200 {
			t.Errorf("expected result 200, got %v", detail.Result)
		}
		if got := detail.Categories["food"]["lunch"]; got != 50 {
			t.Errorf("expected food/lunch 50, got %d", got)
		}
	})

	t.Run("stores_ciphertext", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fc := testutil.NewTestCipher(t)
		svc := NewBudgetService(db, fc)
		user := testutil.CreateTestUser(t, db)

		budget, err := svc.CreateBudget(user.ID, validPayload())
		testutil.AssertNoError(t, err)

		var stored models.Budget
		if err := db.Preload("Expenses").First(&stored, budget.ID).Error; err != nil {
			t.Fatalf("load budget: %v", err)
		}
		if stored.Total == nil || *stored.Total == "1000" {
			t.Errorf("total stored as plaintext: %v", stored.Total)
		}
		if len(stored.Expenses) != 1 {
			t.Fatalf("expected 1 expense row, got %d", len(stored.Expenses))
		}
		if stored.Expenses[0].Amount == nil || *stored.Expenses[0].Amount == "50" {
			t.Errorf("expense amount stored as plaintext: %v", stored.Expenses[0].Amount)
		}
	})

	t.Run("nil_totals_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fc := testutil.NewTestCipher(t)
		svc := NewBudgetService(db, fc)
		user := testutil.CreateTestUser(t, db)

		payload := validPayload()
		payload.Info.Total = nil
		payload.Info.Result = nil

		budget, err := svc.CreateBudget(user.ID, payload)
		testutil.AssertNoError(t, err)

		detail, err := svc.ReadBudget(user.ID, budget.ID)
		testutil.AssertNoError(t, err)
		if detail.Total != nil || detail.Result != nil {
			t.Errorf("expected nil total and result, got %v %v", detail.Total, detail.Result)
		}
	})

	t.Run("blank_note_gets_default", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fc := testutil.NewTestCipher(t)
		svc := NewBudgetService(db, fc)
		user := testutil.CreateTestUser(t, db)

		payload := validPayload()
		payload.Categories = map[string]map[string]*int64{
			"other": {"": testutil.Amount(10)},
		}

		budget, err := svc.CreateBudget(user.ID, payload)
		testutil.AssertNoError(t, err)

		detail, err := svc.ReadBudget(user.ID, budget.ID)
		testutil.AssertNoError(t, err)
		if got := detail.Categories["other"][models.DefaultExpenseNote]; got != 10 {
			t.Errorf("expected default note %q with amount 10, got %v", models.DefaultExpenseNote, detail.Categories["other"])
		}
	})

	t.Run("validation_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fc := testutil.NewTestCipher(t)
		svc := NewBudgetService(db, fc)
		user := testutil.CreateTestUser(t, db)

		cases := []struct {
			name   string
			mutate func(*BudgetPayload)
		}{
			{"missing_name", func(p *BudgetPayload) { p.Info.Name = "  " }},
			{"collisions", func(p *BudgetPayload) { p.Collisions = true }},
			{"no_categories", func(p *BudgetPayload) { p.Categories = nil }},
			{"name_too_long", func(p *BudgetPayload) { p.Info.Name = strings.Repeat("x", 101) }},
			{"invalid_category", func(p *BudgetPayload) {
				p.Categories["vacation"] = map[string]*int64{"flight": testutil.Amount(300)}
			}},
			{"empty_category", func(p *BudgetPayload) {
				p.Categories["food"] = map[string]*int64{}
			}},
			{"note_too_long", func(p *BudgetPayload) {
				p.Categories["food"] = map[string]*int64{strings.Repeat("x", 101): testutil.Amount(5)}
			}},
			{"nil_amount", func(p *BudgetPayload) {
				p.Categories["food"] = map[string]*int64{"lunch": nil}
			}},
			{"zero_amount", func(p *BudgetPayload) {
				p.Categories["food"] = map[string]*int64{"lunch": testutil.Amount(0)}
			}},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				payload := validPayload()
				tc.mutate(&payload)
				_, err := svc.CreateBudget(user.ID, payload)
				testutil.AssertAppError(t, err, "INVALID_INPUT")
			})
		}

		// Nothing may be written by a rejected payload.
		var budgets, expenses int64
		if err := db.Model(&models.Budget{}).Count(&budgets).Error; err != nil {
			t.Fatalf("count budgets: %v", err)
		}
		if err := db.Model(&models.Expense{}).Count(&expenses).Error; err != nil {
			t.Fatalf("count expenses: %v", err)
		}
		if budgets != 0 || expenses != 0 {
			t.Errorf("expected no rows after rejected payloads, got budgets=%d expenses=%d", budgets, expenses)
		}
	})
}

func TestReadBudget(t *testing.T) {
	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fc := testutil.NewTestCipher(t)
		svc := NewBudgetService(db, fc)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.ReadBudget(user.ID, 9999)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})

	t.Run("not_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fc := testutil.NewTestCipher(t)
		svc := NewBudgetService(db, fc)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, fc, owner.ID)

		_, err := svc.ReadBudget(other.ID, budget.ID)
		testutil.AssertAppError(t, err, "NOT_OWNER")
	})

	t.Run("tampered_ciphertext", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fc := testutil.NewTestCipher(t)
		svc := NewBudgetService(db, fc)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, fc, user.ID)

		err := db.Model(&models.Expense{}).
			Where("budget_id = ?", budget.ID).
			Update("amount", "bm90LWEtdG9rZW4").Error
		if err != nil {
			t.Fatalf("tamper expense: %v", err)
		}

		_, err = svc.ReadBudget(user.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_LOAD_FAILED")
	})
}

func TestUpdateBudget(t *testing.T) {
	t.Run("replaces_expense_set", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fc := testutil.NewTestCipher(t)
		svc := NewBudgetService(db, fc)
		user := testutil.CreateTestUser(t, db)

		budget, err := svc.CreateBudget(user.ID, validPayload())
		testutil.AssertNoError(t, err)

		payload := validPayload()
		payload.Info.ID = budget.ID
		payload.Info.Name = "March revised"
		payload.Categories = map[string]map[string]*int64{
			"housing": {"rent": testutil.Amount(700)},
			"savings": {"emergency": testutil.Amount(100)},
		}

		_, err = svc.UpdateBudget(user.ID, payload)
		testutil.AssertNoError(t, err)

		detail, err := svc.ReadBudget(user.ID, budget.ID)
		testutil.AssertNoError(t, err)
		if detail.Name != "March revised" {
			t.Errorf("expected renamed budget, got %s", detail.Name)
		}
		if _, ok := detail.Categories["food"]; ok {
			t.Error("old expense set should have been replaced")
		}
		if detail.Categories["housing"]["rent"] != 700 || detail.Categories["savings"]["emergency"] != 100 {
			t.Errorf("unexpected categories after update: %v", detail.Categories)
		}

		var count int64
		if err := db.Model(&models.Expense{}).Where("budget_id = ?", budget.ID).Count(&count).Error; err != nil {
			t.Fatalf("count expenses: %v", err)
		}
		if count != 2 {
			t.Errorf("expected 2 expense rows, got %d", count)
		}
	})

	t.Run("unchanged_total_keeps_ciphertext", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fc := testutil.NewTestCipher(t)
		svc := NewBudgetService(db, fc)
		user := testutil.CreateTestUser(t, db)

		budget, err := svc.CreateBudget(user.ID, validPayload())
		testutil.AssertNoError(t, err)

		var before models.Budget
		if err := db.First(&before, budget.ID).Error; err != nil {
			t.Fatalf("load budget: %v", err)
		}

		payload := validPayload()
		payload.Info.ID = budget.ID
		_, err = svc.UpdateBudget(user.ID, payload)
		testutil.AssertNoError(t, err)

		var after models.Budget
		if err := db.First(&after, budget.ID).Error; err != nil {
			t.Fatalf("reload budget: %v", err)
		}
		if *before.Total != *after.Total {
			t.Error("unchanged total was re-encrypted")
		}
		if *before.Result != *after.Result {
			t.Error("unchanged result was re-encrypted")
		}
	})

	t.Run("changed_total_rotates_ciphertext", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fc := testutil.NewTestCipher(t)
		svc := NewBudgetService(db, fc)
		user := testutil.CreateTestUser(t, db)

		budget, err := svc.CreateBudget(user.ID, validPayload())
		testutil.AssertNoError(t, err)

		var before models.Budget
		if err := db.First(&before, budget.ID).Error; err != nil {
			t.Fatalf("load budget: %v", err)
		}

		payload := validPayload()
		payload.Info.ID = budget.ID
		payload.Info.Total = testutil.Amount(1500)
		_, err = svc.UpdateBudget(user.ID, payload)
		testutil.AssertNoError(t, err)

		var after models.Budget
		if err := db.First(&after, budget.ID).Error; err != nil {
			t.Fatalf("reload budget: %v", err)
		}
		if *before.Total == *after.Total {
			t.Error("changed total kept its old ciphertext")
		}

		detail, err := svc.ReadBudget(user.ID, budget.ID)
		testutil.AssertNoError(t, err)
		if detail.Total == nil || *detail.Total != 1500 {
			t.Errorf("expected total 1500 after update, got %v", detail.Total)
		}
	})

	t.Run("other_users_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fc := testutil.NewTestCipher(t)
		svc := NewBudgetService(db, fc)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, fc, owner.ID)

		payload := validPayload()
		payload.Info.ID = budget.ID
		_, err := svc.UpdateBudget(other.ID, payload)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestDeleteBudget(t *testing.T) {
	t.Run("cascades_to_expenses", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fc := testutil.NewTestCipher(t)
		svc := NewBudgetService(db, fc)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, fc, user.ID)

		err := svc.DeleteBudget(user.ID, budget.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.ReadBudget(user.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")

		var expenses int64
		if err := db.Model(&models.Expense{}).Where("budget_id = ?", budget.ID).Count(&expenses).Error; err != nil {
			t.Fatalf("count expenses: %v", err)
		}
		if expenses != 0 {
			t.Errorf("expected orphaned expenses to be deleted, got %d", expenses)
		}
	})

	t.Run("other_users_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fc := testutil.NewTestCipher(t)
		svc := NewBudgetService(db, fc)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, fc, owner.ID)

		err := svc.DeleteBudget(other.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")

		// The owner's budget must be untouched.
		_, err = svc.ReadBudget(owner.ID, budget.ID)
		testutil.AssertNoError(t, err)
	})

	t.Run("missing_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fc := testutil.NewTestCipher(t)
		svc := NewBudgetService(db, fc)
		user := testutil.CreateTestUser(t, db)

		err := svc.DeleteBudget(user.ID, 9999)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestListBudgets(t *testing.T) {
	t.Run("newest_first_and_scoped_to_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fc := testutil.NewTestCipher(t)
		svc := NewBudgetService(db, fc)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)

		first, err := svc.CreateBudget(user.ID, validPayload())
		testutil.AssertNoError(t, err)
		second, err := svc.CreateBudget(user.ID, validPayload())
		testutil.AssertNoError(t, err)
		_, err = svc.CreateBudget(other.ID, validPayload())
		testutil.AssertNoError(t, err)

		page, err := svc.ListBudgets(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Fatalf("expected 2 budgets for owner, got %d", page.TotalItems)
		}
		if page.Data[0].ID != second.ID || page.Data[1].ID != first.ID {
			t.Errorf("expected newest first, got %d then %d", page.Data[0].ID, page.Data[1].ID)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		fc := testutil.NewTestCipher(t)
		svc := NewBudgetService(db, fc)
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < 5; i++ {
			_, err := svc.CreateBudget(user.ID, validPayload())
			testutil.AssertNoError(t, err)
		}

		page, err := svc.ListBudgets(user.ID, pagination.PageRequest{Page: 2, PageSize: 2})
		testutil.AssertNoError(t, err)
		if len(page.Data) != 2 {
			t.Errorf("expected 2 items on page 2, got %d", len(page.Data))
		}
		if page.TotalItems != 5 || page.TotalPages != 3 {
			t.Errorf("expected 5 items over 3 pages, got %d over %d", page.TotalItems, page.TotalPages)
		}
	})
}
