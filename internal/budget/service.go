// Package budget orchestrates the multi-step mutations against the YNAB
// API: moving money between categories, creating transactions, and applying
// sparse transaction updates. Reads and writes inside a single operation are
// strictly ordered; the package performs no internal parallelism and no
// retries.
package budget

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/louisbranch/ynab-mcp/internal/ynab"
)

// Client is the subset of the API client the orchestrator depends on.
type Client interface {
	GetCategory(ctx context.Context, budgetID, categoryID string) (*ynab.Category, error)
	UpdateCategoryBudgeted(ctx context.Context, budgetID, categoryID, month string, budgeted ynab.Milliunits) (*ynab.Category, error)
	CreateTransaction(ctx context.Context, budgetID string, tx ynab.NewTransaction) (*ynab.Transaction, error)
	UpdateTransaction(ctx context.Context, budgetID, transactionID string, patch ynab.TransactionPatch) (*ynab.Transaction, error)
}

// Service coordinates budget mutations over a single API client. It holds no
// state between operations; every entity is fetched fresh per call.
type Service struct {
	client Client
	log    zerolog.Logger
}

func NewService(client Client, log zerolog.Logger) *Service {
	return &Service{client: client, log: log}
}

// CurrentMonth returns the first day of the current calendar month in the
// YYYY-MM-01 form the months endpoints expect.
func CurrentMonth() string {
	return time.Now().Format("2006-01") + "-01"
}
