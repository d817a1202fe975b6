package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/ynab-mcp/internal/ynab"
)

// MonthReader is the client surface needed by the month summary tool.
type MonthReader interface {
	GetMonth(ctx context.Context, budgetID, month string) (*ynab.Month, error)
}

// GetMonthSummaryInput represents the MCP tool input for a month summary.
type GetMonthSummaryInput struct {
	BudgetID string `json:"budget_id,omitempty" jsonschema:"budget ID or 'last-used' for the most recently accessed budget"`
	Month    string `json:"month,omitempty" jsonschema:"month in YYYY-MM-01 format or 'current', defaults to current"`
}

// GetMonthSummaryResult represents the MCP tool output for a month summary.
type GetMonthSummaryResult struct {
	Month        string           `json:"month" jsonschema:"the summarized month"`
	Income       float64          `json:"income" jsonschema:"income in display units"`
	Budgeted     float64          `json:"budgeted" jsonschema:"budgeted amount in display units"`
	Activity     float64          `json:"activity" jsonschema:"spending activity in display units"`
	ToBeBudgeted float64          `json:"to_be_budgeted" jsonschema:"unassigned amount in display units"`
	Overspent    []OverspentEntry `json:"overspent,omitempty" jsonschema:"categories with a negative balance"`
}

// OverspentEntry is a category that spent past its available balance.
type OverspentEntry struct {
	ID      string  `json:"id" jsonschema:"category identifier"`
	Name    string  `json:"name" jsonschema:"category name"`
	Balance float64 `json:"balance" jsonschema:"negative balance in display units"`
}

// MonthSummaryTool defines the MCP tool schema for a month summary.
func MonthSummaryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ynab_get_month_summary",
		Description: "Get a summary of a budget month including income, budgeted amounts, and spending",
	}
}

// MonthSummaryHandler summarizes a budget month and flags overspent
// categories.
func MonthSummaryHandler(client MonthReader) mcp.ToolHandlerFor[GetMonthSummaryInput, GetMonthSummaryResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetMonthSummaryInput) (*mcp.CallToolResult, GetMonthSummaryResult, error) {
		month := orFallback(input.Month, "current")

		data, err := client.GetMonth(ctx, budgetOrDefault(input.BudgetID), month)
		if err != nil {
			return errorResult(err), GetMonthSummaryResult{}, nil
		}

		result := GetMonthSummaryResult{
			Month:        orFallback(data.Month, month),
			Income:       data.Income.Amount(),
			Budgeted:     data.Budgeted.Amount(),
			Activity:     data.Activity.Amount(),
			ToBeBudgeted: data.ToBeBudgeted.Amount(),
		}

		var md strings.Builder
		fmt.Fprintf(&md, "## Budget Summary for %s\n\n", result.Month)
		fmt.Fprintf(&md, "- **Income**: %s\n", formatCurrency(data.Income))
		fmt.Fprintf(&md, "- **Budgeted**: %s\n", formatCurrency(data.Budgeted))
		fmt.Fprintf(&md, "- **Spending (Activity)**: %s\n", formatCurrency(data.Activity))
		fmt.Fprintf(&md, "- **To Be Budgeted**: %s\n\n", formatCurrency(data.ToBeBudgeted))

		var overspent []ynab.Category
		for _, c := range data.Categories {
			if c.Balance < 0 {
				overspent = append(overspent, c)
			}
		}
		if len(overspent) > 0 {
			md.WriteString("### ⚠️ Overspent Categories\n\n")
			for _, c := range overspent {
				result.Overspent = append(result.Overspent, OverspentEntry{
					ID:      c.ID,
					Name:    c.Name,
					Balance: c.Balance.Amount(),
				})
				fmt.Fprintf(&md, "- **%s**: %s\n", c.Name, formatCurrency(c.Balance))
			}
			md.WriteString("\n")
		}

		return textResult(md.String()), result, nil
	}
}
