package budget

import (
	"context"

	apperrors "github.com/louisbranch/ynab-mcp/internal/platform/errors"
	"github.com/louisbranch/ynab-mcp/internal/ynab"
)

// CreateRequest describes a new transaction in display units. Amount is
// negative for outflows. Optional fields left empty are omitted from the
// payload entirely.
type CreateRequest struct {
	BudgetID   string
	AccountID  string
	Date       string
	Amount     float64
	PayeeName  string
	PayeeID    string
	CategoryID string
	Memo       string
	Cleared    string
	Approved   bool
}

// CreateTransaction records a new transaction. Not idempotent: every call
// creates a new remote transaction.
func (s *Service) CreateTransaction(ctx context.Context, req CreateRequest) (*ynab.Transaction, error) {
	if !ynab.IsFinite(req.Amount) {
		return nil, apperrors.New(apperrors.CodeUnknown, "amount must be a finite number")
	}
	cleared := req.Cleared
	if cleared == "" {
		cleared = ynab.ClearedUncleared
	}
	tx := ynab.NewTransaction{
		AccountID:  req.AccountID,
		Date:       req.Date,
		Amount:     ynab.MilliunitsFromAmount(req.Amount),
		Cleared:    cleared,
		Approved:   req.Approved,
		PayeeID:    req.PayeeID,
		PayeeName:  req.PayeeName,
		CategoryID: req.CategoryID,
		Memo:       req.Memo,
	}
	return s.client.CreateTransaction(ctx, req.BudgetID, tx)
}

// UpdateRequest describes a sparse transaction update. A nil field is left
// untouched on the remote transaction; presence is explicit per field.
type UpdateRequest struct {
	BudgetID      string
	TransactionID string
	Amount        *float64
	Date          *string
	PayeeName     *string
	CategoryID    *string
	Memo          *string
	Cleared       *string
	Approved      *bool
}

// UpdateTransaction patches only the fields the caller set. An update with
// zero fields is rejected locally before any network call. Re-applying the
// same patch yields the same end state.
func (s *Service) UpdateTransaction(ctx context.Context, req UpdateRequest) (*ynab.Transaction, error) {
	patch := ynab.TransactionPatch{
		Date:       req.Date,
		PayeeName:  req.PayeeName,
		CategoryID: req.CategoryID,
		Memo:       req.Memo,
		Cleared:    req.Cleared,
		Approved:   req.Approved,
	}
	if req.Amount != nil {
		if !ynab.IsFinite(*req.Amount) {
			return nil, apperrors.New(apperrors.CodeUnknown, "amount must be a finite number")
		}
		amount := ynab.MilliunitsFromAmount(*req.Amount)
		patch.Amount = &amount
	}
	if patch.IsEmpty() {
		return nil, apperrors.New(apperrors.CodeNoOpUpdate, "no fields to update; set at least one field")
	}
	return s.client.UpdateTransaction(ctx, req.BudgetID, req.TransactionID, patch)
}
