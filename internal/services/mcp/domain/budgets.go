package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/ynab-mcp/internal/ynab"
)

// BudgetLister is the client surface needed by the budget listing tool.
type BudgetLister interface {
	GetBudgets(ctx context.Context) ([]ynab.Budget, error)
}

// GetBudgetsInput represents the MCP tool input for listing budgets.
type GetBudgetsInput struct{}

// GetBudgetsResult represents the MCP tool output for listing budgets.
type GetBudgetsResult struct {
	Budgets []BudgetEntry `json:"budgets,omitempty" jsonschema:"budgets available to the authenticated user"`
}

// BudgetEntry is one budget in a listing.
type BudgetEntry struct {
	ID             string `json:"id" jsonschema:"budget identifier"`
	Name           string `json:"name" jsonschema:"budget name"`
	LastModifiedOn string `json:"last_modified_on,omitempty" jsonschema:"last modification timestamp"`
}

// BudgetsTool defines the MCP tool schema for listing budgets.
func BudgetsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ynab_get_budgets",
		Description: "List all budgets available to the authenticated user",
	}
}

// BudgetsHandler lists budgets and renders them as markdown.
func BudgetsHandler(client BudgetLister) mcp.ToolHandlerFor[GetBudgetsInput, GetBudgetsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ GetBudgetsInput) (*mcp.CallToolResult, GetBudgetsResult, error) {
		budgets, err := client.GetBudgets(ctx)
		if err != nil {
			return errorResult(err), GetBudgetsResult{}, nil
		}

		result := GetBudgetsResult{Budgets: make([]BudgetEntry, 0, len(budgets))}
		var md strings.Builder
		md.WriteString("## Your YNAB Budgets\n\n")
		for _, b := range budgets {
			result.Budgets = append(result.Budgets, BudgetEntry{
				ID:             b.ID,
				Name:           b.Name,
				LastModifiedOn: b.LastModifiedOn,
			})
			fmt.Fprintf(&md, "- **%s**\n", b.Name)
			fmt.Fprintf(&md, "  - ID: `%s`\n", b.ID)
			fmt.Fprintf(&md, "  - Last modified: %s\n\n", orFallback(b.LastModifiedOn, "N/A"))
		}

		return textResult(md.String()), result, nil
	}
}
