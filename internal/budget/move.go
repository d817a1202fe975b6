package budget

import (
	"context"
	"fmt"

	apperrors "github.com/louisbranch/ynab-mcp/internal/platform/errors"
	"github.com/louisbranch/ynab-mcp/internal/ynab"
)

// Step identifies a stage of the move-money operation. The step log on a
// failed result tells the caller exactly how far the operation progressed,
// which matters because the two category writes are not atomic.
type Step string

const (
	StepInit      Step = "init"
	StepFetchFrom Step = "fetch_from"
	StepFetchTo   Step = "fetch_to"
	StepValidate  Step = "validate"
	StepApplyFrom Step = "apply_from"
	StepApplyTo   Step = "apply_to"
	StepDone      Step = "done"
)

// MoveRequest describes one move of budgeted money between two categories
// within a budget. Amount is in milliunits and must be positive. An empty
// Month means the current calendar month.
type MoveRequest struct {
	BudgetID       string
	FromCategoryID string
	ToCategoryID   string
	Amount         ynab.Milliunits
	Month          string
}

// CategorySnapshot captures a category's budgeted amount before and after a
// move.
type CategorySnapshot struct {
	ID     string
	Name   string
	Before ynab.Milliunits
	After  ynab.Milliunits
}

// MoveResult is the outcome of a fully applied move. The snapshots satisfy
// From.After + To.After == From.Before + To.Before.
type MoveResult struct {
	From   CategorySnapshot
	To     CategorySnapshot
	Amount ynab.Milliunits
	Month  string
	Steps  []Step
}

// MoveMoney moves Amount of budgeted money from one category to another for
// the given month. The operation is two remote writes with no transaction
// around them: the source category is debited first, then the destination is
// credited. A failure before the first write aborts with nothing changed. A
// failure after the source write succeeded returns a partial mutation error
// carrying the source category id, amount, and month so the caller can
// compensate or retry the credit.
func (s *Service) MoveMoney(ctx context.Context, req MoveRequest) (*MoveResult, error) {
	if req.Amount <= 0 {
		return nil, apperrors.New(apperrors.CodeUnknown, "amount to move must be positive")
	}

	month := req.Month
	if month == "" {
		month = CurrentMonth()
	}
	steps := []Step{StepInit}

	from, err := s.client.GetCategory(ctx, req.BudgetID, req.FromCategoryID)
	if err != nil {
		return nil, err
	}
	steps = append(steps, StepFetchFrom)

	to, err := s.client.GetCategory(ctx, req.BudgetID, req.ToCategoryID)
	if err != nil {
		return nil, err
	}
	steps = append(steps, StepFetchTo)

	if req.Amount > from.Budgeted {
		shortfall := req.Amount - from.Budgeted
		return nil, apperrors.WithMetadata(apperrors.CodeInsufficientFunds,
			fmt.Sprintf("%s only has %s budgeted; cannot move %s", from.Name, from.Budgeted.Format(), req.Amount.Format()),
			map[string]string{
				"from_category_id": from.ID,
				"budgeted":         from.Budgeted.String(),
				"requested":        req.Amount.String(),
				"shortfall":        shortfall.String(),
			})
	}
	steps = append(steps, StepValidate)

	newFrom := from.Budgeted - req.Amount
	newTo := to.Budgeted + req.Amount

	if _, err := s.client.UpdateCategoryBudgeted(ctx, req.BudgetID, req.FromCategoryID, month, newFrom); err != nil {
		return nil, err
	}
	steps = append(steps, StepApplyFrom)

	if _, err := s.client.UpdateCategoryBudgeted(ctx, req.BudgetID, req.ToCategoryID, month, newTo); err != nil {
		s.log.Error().
			Str("budget_id", req.BudgetID).
			Str("from_category_id", from.ID).
			Str("to_category_id", to.ID).
			Str("month", month).
			Int64("amount", int64(req.Amount)).
			Msg("move money partially applied: source debited, destination credit failed")
		return nil, apperrors.WrapWithMetadata(apperrors.CodePartialMutation,
			fmt.Sprintf("%s was debited %s but crediting %s failed; re-add %s to %s or retry the credit",
				from.Name, req.Amount.Format(), to.Name, req.Amount.Format(), from.Name),
			map[string]string{
				"from_category_id": from.ID,
				"to_category_id":   to.ID,
				"amount":           req.Amount.String(),
				"month":            month,
			}, err)
	}
	steps = append(steps, StepApplyTo, StepDone)

	return &MoveResult{
		From:   CategorySnapshot{ID: from.ID, Name: from.Name, Before: from.Budgeted, After: newFrom},
		To:     CategorySnapshot{ID: to.ID, Name: to.Name, Before: to.Budgeted, After: newTo},
		Amount: req.Amount,
		Month:  month,
		Steps:  steps,
	}, nil
}
