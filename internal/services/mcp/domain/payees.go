package domain

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/ynab-mcp/internal/ynab"
)

// payeeDisplayCap bounds the rendered list; the full count is still
// reported.
const payeeDisplayCap = 100

// PayeeLister is the client surface needed by the payee listing tool.
type PayeeLister interface {
	GetPayees(ctx context.Context, budgetID string) ([]ynab.Payee, error)
}

// GetPayeesInput represents the MCP tool input for listing payees.
type GetPayeesInput struct {
	BudgetID string `json:"budget_id,omitempty" jsonschema:"budget ID or 'last-used' for the most recently accessed budget"`
}

// GetPayeesResult represents the MCP tool output for listing payees.
type GetPayeesResult struct {
	Payees []PayeeEntry `json:"payees,omitempty" jsonschema:"payees sorted by name"`
	Total  int          `json:"total" jsonschema:"total payee count after filtering"`
}

// PayeeEntry is one payee in a listing.
type PayeeEntry struct {
	ID   string `json:"id" jsonschema:"payee identifier"`
	Name string `json:"name" jsonschema:"payee name"`
}

// PayeesTool defines the MCP tool schema for listing payees.
func PayeesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ynab_get_payees",
		Description: "List all payees in the budget",
	}
}

// PayeesHandler lists payees sorted by name, hiding deleted payees and
// transfer placeholders.
func PayeesHandler(client PayeeLister) mcp.ToolHandlerFor[GetPayeesInput, GetPayeesResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetPayeesInput) (*mcp.CallToolResult, GetPayeesResult, error) {
		payees, err := client.GetPayees(ctx, budgetOrDefault(input.BudgetID))
		if err != nil {
			return errorResult(err), GetPayeesResult{}, nil
		}

		visible := payees[:0:0]
		for _, p := range payees {
			if p.Deleted || strings.HasPrefix(p.Name, "Transfer") {
				continue
			}
			visible = append(visible, p)
		}
		sort.Slice(visible, func(i, j int) bool {
			return strings.ToLower(visible[i].Name) < strings.ToLower(visible[j].Name)
		})

		result := GetPayeesResult{Total: len(visible)}
		var md strings.Builder
		fmt.Fprintf(&md, "## Payees (%d total)\n\n", len(visible))
		for i, p := range visible {
			if i >= payeeDisplayCap {
				break
			}
			result.Payees = append(result.Payees, PayeeEntry{ID: p.ID, Name: p.Name})
			fmt.Fprintf(&md, "- %s (`%s`)\n", p.Name, p.ID)
		}
		if len(visible) > payeeDisplayCap {
			fmt.Fprintf(&md, "\n*...and %d more*\n", len(visible)-payeeDisplayCap)
		}

		return textResult(md.String()), result, nil
	}
}
