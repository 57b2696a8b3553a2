package wedding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wedding-planner/internal/access"
	"wedding-planner/internal/apperr"
	"wedding-planner/internal/auth"
	"wedding-planner/internal/db"
	"wedding-planner/internal/models"
	"wedding-planner/internal/patch"
	"wedding-planner/internal/validate"
)

type ExpenseRequest struct {
	CategoryID string           `json:"categoryId"`
	Amount     *decimal.Decimal `json:"amount"`
	Remarks    *string          `json:"remarks"`
	Date       string           `json:"date"`
}

type UpdateExpenseRequest struct {
	CategoryID patch.Field[string]          `json:"categoryId"`
	Amount     patch.Field[decimal.Decimal] `json:"amount"`
	Remarks    patch.Field[string]          `json:"remarks"`
	Date       patch.Field[string]          `json:"date"`
}

func expenseRule(store *db.DB, id string, policy access.Policy) access.Rule[*models.Expense] {
	return access.Rule[*models.Expense]{
		Load:     func(ctx context.Context) (*models.Expense, error) { return store.GetExpense(ctx, id) },
		Owner:    func(e *models.Expense) string { return access.WeddingOwner(e.Wedding) },
		Policy:   policy,
		NotFound: "Expense not found",
		Denied:   "You can only manage expenses of your own wedding",
	}
}

func (s *Service) checkCategory(ctx context.Context, id string) error {
	ok, err := s.DB.CategoryExists(ctx, id)
	if err != nil {
		return fmt.Errorf("check category %s: %w", id, err)
	}
	if !ok {
		return apperr.Validation("Invalid category")
	}
	return nil
}

// ListExpenses returns the caller's expenses, newest first.
func (s *Service) ListExpenses(ctx context.Context, user *auth.ActingUser, categoryID string) ([]*models.Expense, error) {
	w, err := s.callerWedding(ctx, user)
	if err != nil || w == nil {
		return []*models.Expense{}, err
	}
	expenses, err := s.DB.ListExpenses(ctx, w.ID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

func (s *Service) CreateExpense(ctx context.Context, user *auth.ActingUser, req ExpenseRequest) (*models.Expense, error) {
	w, err := s.requireWedding(ctx, user)
	if err != nil {
		return nil, err
	}
	if validate.Blank(req.CategoryID) || req.Amount == nil {
		return nil, apperr.Validation("Category and amount are required")
	}
	if !validate.Positive(*req.Amount) {
		return nil, apperr.Validation("Amount must be greater than 0")
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := now
	if req.Date != "" {
		if date, err = validate.ParseDate(req.Date); err != nil {
			return nil, err
		}
	}

	e := &models.Expense{
		ID:         uuid.NewString(),
		CategoryID: req.CategoryID,
		Amount:     *req.Amount,
		Remarks:    validate.Trimmed(req.Remarks),
		Date:       date,
		WeddingID:  w.ID,
		CreatedAt:  now,
	}
	if err := s.DB.CreateExpense(ctx, e); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return s.DB.GetExpense(ctx, e.ID)
}

func (s *Service) GetExpense(ctx context.Context, user *auth.ActingUser, id string) (*models.Expense, error) {
	return access.Authorize(ctx, user, expenseRule(s.DB, id, access.OwnerOrAdmin))
}

func (s *Service) UpdateExpense(ctx context.Context, user *auth.ActingUser, id string, req UpdateExpenseRequest) (*models.Expense, error) {
	e, err := access.Authorize(ctx, user, expenseRule(s.DB, id, access.OwnerOnly))
	if err != nil {
		return nil, err
	}
	if req.CategoryID.IsCleared() || req.Amount.IsCleared() {
		return nil, apperr.Validation("Category and amount are required")
	}

	var columns []string
	if req.CategoryID.IsSet() && req.CategoryID.Value != e.CategoryID {
		if err := s.checkCategory(ctx, req.CategoryID.Value); err != nil {
			return nil, err
		}
		e.CategoryID = req.CategoryID.Value
		columns = append(columns, "category_id")
	}
	if req.Amount.IsSet() {
		if !validate.Positive(req.Amount.Value) {
			return nil, apperr.Validation("Amount must be greater than 0")
		}
		e.Amount = req.Amount.Value
		columns = append(columns, "amount")
	}
	if req.Remarks.ApplyNullable(&e.Remarks) {
		columns = append(columns, "remarks")
	}
	if req.Date.IsSet() {
		date, err := validate.ParseDate(req.Date.Value)
		if err != nil {
			return nil, err
		}
		e.Date = date
		columns = append(columns, "date")
	}

	if len(columns) > 0 {
		if err := s.DB.UpdateExpense(ctx, e, columns...); err != nil {
			return nil, fmt.Errorf("update expense %s: %w", id, err)
		}
	}
	return s.DB.GetExpense(ctx, id)
}

func (s *Service) DeleteExpense(ctx context.Context, user *auth.ActingUser, id string) error {
	if _, err := access.Authorize(ctx, user, expenseRule(s.DB, id, access.OwnerOrAdmin)); err != nil {
		return err
	}
	if err := s.DB.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	return nil
}
