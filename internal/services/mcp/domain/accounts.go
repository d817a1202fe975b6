package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/ynab-mcp/internal/ynab"
)

// AccountLister is the client surface needed by the account listing tool.
type AccountLister interface {
	GetAccounts(ctx context.Context, budgetID string) ([]ynab.Account, error)
}

// GetAccountsInput represents the MCP tool input for listing accounts.
type GetAccountsInput struct {
	BudgetID string `json:"budget_id,omitempty" jsonschema:"budget ID or 'last-used' for the most recently accessed budget"`
}

// GetAccountsResult represents the MCP tool output for listing accounts.
type GetAccountsResult struct {
	Accounts     []AccountEntry `json:"accounts,omitempty" jsonschema:"open accounts grouped by type"`
	TotalBalance float64        `json:"total_balance" jsonschema:"sum of all open account balances"`
}

// AccountEntry is one account in a listing.
type AccountEntry struct {
	ID      string  `json:"id" jsonschema:"account identifier"`
	Name    string  `json:"name" jsonschema:"account name"`
	Type    string  `json:"type" jsonschema:"account type"`
	Balance float64 `json:"balance" jsonschema:"current balance in display units"`
}

// AccountsTool defines the MCP tool schema for listing accounts.
func AccountsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ynab_get_accounts",
		Description: "List all accounts in a budget with their current balances",
	}
}

// AccountsHandler lists open accounts grouped by type, with a running total.
func AccountsHandler(client AccountLister) mcp.ToolHandlerFor[GetAccountsInput, GetAccountsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetAccountsInput) (*mcp.CallToolResult, GetAccountsResult, error) {
		accounts, err := client.GetAccounts(ctx, budgetOrDefault(input.BudgetID))
		if err != nil {
			return errorResult(err), GetAccountsResult{}, nil
		}

		byType := make(map[string][]ynab.Account)
		var typeOrder []string
		for _, a := range accounts {
			if a.Deleted || a.Closed {
				continue
			}
			accountType := orFallback(a.Type, "other")
			if _, seen := byType[accountType]; !seen {
				typeOrder = append(typeOrder, accountType)
			}
			byType[accountType] = append(byType[accountType], a)
		}

		result := GetAccountsResult{}
		var total ynab.Milliunits
		var md strings.Builder
		md.WriteString("## Accounts\n\n")
		for _, accountType := range typeOrder {
			fmt.Fprintf(&md, "### %s\n\n", accountTypeHeading(accountType))
			for _, a := range byType[accountType] {
				total += a.Balance
				result.Accounts = append(result.Accounts, AccountEntry{
					ID:      a.ID,
					Name:    a.Name,
					Type:    accountType,
					Balance: a.Balance.Amount(),
				})
				fmt.Fprintf(&md, "- **%s**: %s\n", a.Name, formatCurrency(a.Balance))
				fmt.Fprintf(&md, "  - ID: `%s`\n", a.ID)
			}
			md.WriteString("\n")
		}
		result.TotalBalance = total.Amount()
		fmt.Fprintf(&md, "**Total Balance: %s**\n", formatCurrency(total))

		return textResult(md.String()), result, nil
	}
}
