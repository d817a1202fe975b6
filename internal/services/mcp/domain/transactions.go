package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/ynab-mcp/internal/budget"
	"github.com/louisbranch/ynab-mcp/internal/ynab"
)

const (
	defaultTransactionLimit = 50
	maxTransactionLimit     = 500
)

// TransactionLister is the client surface needed by the transaction listing
// tool.
type TransactionLister interface {
	GetTransactions(ctx context.Context, budgetID string, filter ynab.TransactionFilter) ([]ynab.Transaction, error)
}

// TransactionWriter is the orchestrator surface needed by the transaction
// mutation tools.
type TransactionWriter interface {
	CreateTransaction(ctx context.Context, req budget.CreateRequest) (*ynab.Transaction, error)
	UpdateTransaction(ctx context.Context, req budget.UpdateRequest) (*ynab.Transaction, error)
}

// GetTransactionsInput represents the MCP tool input for listing
// transactions.
type GetTransactionsInput struct {
	BudgetID   string `json:"budget_id,omitempty" jsonschema:"budget ID or 'last-used' for the most recently accessed budget"`
	SinceDate  string `json:"since_date,omitempty" jsonschema:"only return transactions on or after this date (YYYY-MM-DD)"`
	AccountID  string `json:"account_id,omitempty" jsonschema:"filter by account ID"`
	CategoryID string `json:"category_id,omitempty" jsonschema:"filter by category ID"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of transactions to return, default 50, max 500"`
}

// GetTransactionsResult represents the MCP tool output for listing
// transactions.
type GetTransactionsResult struct {
	Transactions []TransactionEntry `json:"transactions,omitempty" jsonschema:"matching transactions"`
	Total        float64            `json:"total" jsonschema:"sum of listed transaction amounts in display units"`
}

// TransactionEntry is one transaction in a listing.
type TransactionEntry struct {
	ID       string  `json:"id" jsonschema:"transaction identifier"`
	Date     string  `json:"date" jsonschema:"transaction date"`
	Payee    string  `json:"payee,omitempty" jsonschema:"payee name"`
	Category string  `json:"category,omitempty" jsonschema:"category name"`
	Amount   float64 `json:"amount" jsonschema:"amount in display units, negative for outflows"`
	Cleared  string  `json:"cleared" jsonschema:"cleared status"`
	Approved bool    `json:"approved" jsonschema:"whether the transaction is approved"`
}

// CreateTransactionInput represents the MCP tool input for creating a
// transaction.
type CreateTransactionInput struct {
	BudgetID   string  `json:"budget_id,omitempty" jsonschema:"budget ID or 'last-used' for the most recently accessed budget"`
	AccountID  string  `json:"account_id" jsonschema:"the account ID for the transaction"`
	Amount     float64 `json:"amount" jsonschema:"amount in dollars, negative for spending, positive for income (e.g. -45.67)"`
	Date       string  `json:"date" jsonschema:"transaction date (YYYY-MM-DD)"`
	PayeeName  string  `json:"payee_name,omitempty" jsonschema:"payee name, created if it does not exist"`
	CategoryID string  `json:"category_id,omitempty" jsonschema:"category ID for the transaction"`
	Memo       string  `json:"memo,omitempty" jsonschema:"optional memo"`
	Cleared    string  `json:"cleared,omitempty" jsonschema:"cleared status (cleared, uncleared, reconciled), defaults to uncleared"`
	Approved   bool    `json:"approved,omitempty" jsonschema:"whether the transaction is approved"`
}

// TransactionResult represents the MCP tool output for a created or updated
// transaction.
type TransactionResult struct {
	ID       string  `json:"id" jsonschema:"transaction identifier"`
	Date     string  `json:"date" jsonschema:"transaction date"`
	Amount   float64 `json:"amount" jsonschema:"amount in display units"`
	Payee    string  `json:"payee,omitempty" jsonschema:"payee name"`
	Category string  `json:"category,omitempty" jsonschema:"category name"`
	Memo     string  `json:"memo,omitempty" jsonschema:"memo"`
}

// UpdateTransactionInput represents the MCP tool input for updating a
// transaction. Only the fields present in the call are changed.
type UpdateTransactionInput struct {
	BudgetID      string   `json:"budget_id,omitempty" jsonschema:"budget ID or 'last-used' for the most recently accessed budget"`
	TransactionID string   `json:"transaction_id" jsonschema:"the transaction ID to update"`
	Amount        *float64 `json:"amount,omitempty" jsonschema:"new amount in dollars"`
	Date          *string  `json:"date,omitempty" jsonschema:"new date (YYYY-MM-DD)"`
	PayeeName     *string  `json:"payee_name,omitempty" jsonschema:"new payee name"`
	CategoryID    *string  `json:"category_id,omitempty" jsonschema:"new category ID"`
	Memo          *string  `json:"memo,omitempty" jsonschema:"new memo"`
	Cleared       *string  `json:"cleared,omitempty" jsonschema:"new cleared status (cleared, uncleared, reconciled)"`
	Approved      *bool    `json:"approved,omitempty" jsonschema:"new approved state"`
}

// TransactionsTool defines the MCP tool schema for listing transactions.
func TransactionsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ynab_get_transactions",
		Description: "List recent transactions, optionally filtered by date, account, or category",
	}
}

// CreateTransactionTool defines the MCP tool schema for creating a
// transaction.
func CreateTransactionTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ynab_create_transaction",
		Description: "Create a new transaction; use negative amounts for spending, positive for income",
	}
}

// UpdateTransactionTool defines the MCP tool schema for updating a
// transaction.
func UpdateTransactionTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ynab_update_transaction",
		Description: "Update an existing transaction; only specified fields are changed",
	}
}

// TransactionsHandler lists transactions as a markdown table.
func TransactionsHandler(client TransactionLister) mcp.ToolHandlerFor[GetTransactionsInput, GetTransactionsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetTransactionsInput) (*mcp.CallToolResult, GetTransactionsResult, error) {
		limit := input.Limit
		if limit <= 0 {
			limit = defaultTransactionLimit
		}
		if limit > maxTransactionLimit {
			limit = maxTransactionLimit
		}

		transactions, err := client.GetTransactions(ctx, budgetOrDefault(input.BudgetID), ynab.TransactionFilter{
			SinceDate:  input.SinceDate,
			AccountID:  input.AccountID,
			CategoryID: input.CategoryID,
		})
		if err != nil {
			return errorResult(err), GetTransactionsResult{}, nil
		}
		if len(transactions) > limit {
			transactions = transactions[:limit]
		}
		if len(transactions) == 0 {
			return textResult("No transactions found matching the criteria."), GetTransactionsResult{}, nil
		}

		result := GetTransactionsResult{Transactions: make([]TransactionEntry, 0, len(transactions))}
		var total ynab.Milliunits
		var md strings.Builder
		md.WriteString("## Transactions\n\n")
		md.WriteString("| Date | Payee | Category | Amount | Status |\n")
		md.WriteString("|------|-------|----------|--------|--------|\n")
		for _, t := range transactions {
			total += t.Amount
			status := "○"
			if t.Cleared == ynab.ClearedCleared {
				status = "✓"
			}
			if t.Approved {
				status += "✓"
			}
			result.Transactions = append(result.Transactions, TransactionEntry{
				ID:       t.ID,
				Date:     t.Date,
				Payee:    t.PayeeName,
				Category: t.CategoryName,
				Amount:   t.Amount.Amount(),
				Cleared:  t.Cleared,
				Approved: t.Approved,
			})
			fmt.Fprintf(&md, "| %s | %s | %s | %s | %s |\n",
				orFallback(t.Date, "N/A"),
				truncate(orFallback(t.PayeeName, "Unknown"), 30),
				truncate(orFallback(t.CategoryName, "Uncategorized"), 25),
				formatCurrency(t.Amount), status)
		}
		result.Total = total.Amount()
		fmt.Fprintf(&md, "\n**Total: %s** (%d transactions)\n", formatCurrency(total), len(transactions))

		return textResult(md.String()), result, nil
	}
}

// CreateTransactionHandler records a new transaction.
func CreateTransactionHandler(writer TransactionWriter) mcp.ToolHandlerFor[CreateTransactionInput, TransactionResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CreateTransactionInput) (*mcp.CallToolResult, TransactionResult, error) {
		created, err := writer.CreateTransaction(ctx, budget.CreateRequest{
			BudgetID:   budgetOrDefault(input.BudgetID),
			AccountID:  input.AccountID,
			Date:       input.Date,
			Amount:     input.Amount,
			PayeeName:  input.PayeeName,
			CategoryID: input.CategoryID,
			Memo:       input.Memo,
			Cleared:    input.Cleared,
			Approved:   input.Approved,
		})
		if err != nil {
			return errorResult(err), TransactionResult{}, nil
		}

		result := transactionResult(created)
		var md strings.Builder
		md.WriteString("## Transaction Created\n\n")
		fmt.Fprintf(&md, "- **ID**: `%s`\n", created.ID)
		fmt.Fprintf(&md, "- **Date**: %s\n", created.Date)
		fmt.Fprintf(&md, "- **Amount**: %s\n", formatCurrency(created.Amount))
		fmt.Fprintf(&md, "- **Payee**: %s\n", orFallback(created.PayeeName, "N/A"))
		fmt.Fprintf(&md, "- **Category**: %s\n", orFallback(created.CategoryName, "Uncategorized"))
		if input.Memo != "" {
			fmt.Fprintf(&md, "- **Memo**: %s\n", input.Memo)
		}

		return textResult(md.String()), result, nil
	}
}

// UpdateTransactionHandler applies a sparse patch to a transaction.
func UpdateTransactionHandler(writer TransactionWriter) mcp.ToolHandlerFor[UpdateTransactionInput, TransactionResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UpdateTransactionInput) (*mcp.CallToolResult, TransactionResult, error) {
		updated, err := writer.UpdateTransaction(ctx, budget.UpdateRequest{
			BudgetID:      budgetOrDefault(input.BudgetID),
			TransactionID: input.TransactionID,
			Amount:        input.Amount,
			Date:          input.Date,
			PayeeName:     input.PayeeName,
			CategoryID:    input.CategoryID,
			Memo:          input.Memo,
			Cleared:       input.Cleared,
			Approved:      input.Approved,
		})
		if err != nil {
			return errorResult(err), TransactionResult{}, nil
		}

		result := transactionResult(updated)
		var md strings.Builder
		md.WriteString("## Transaction Updated\n\n")
		fmt.Fprintf(&md, "- **ID**: `%s`\n", updated.ID)
		fmt.Fprintf(&md, "- **Date**: %s\n", updated.Date)
		fmt.Fprintf(&md, "- **Amount**: %s\n", formatCurrency(updated.Amount))
		fmt.Fprintf(&md, "- **Payee**: %s\n", orFallback(updated.PayeeName, "N/A"))

		return textResult(md.String()), result, nil
	}
}

func transactionResult(tx *ynab.Transaction) TransactionResult {
	return TransactionResult{
		ID:       tx.ID,
		Date:     tx.Date,
		Amount:   tx.Amount.Amount(),
		Payee:    tx.PayeeName,
		Category: tx.CategoryName,
		Memo:     tx.Memo,
	}
}
