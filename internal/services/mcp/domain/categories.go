package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/ynab-mcp/internal/budget"
	"github.com/louisbranch/ynab-mcp/internal/ynab"
)

// Category groups the YNAB API manages internally; they clutter listings
// without being actionable.
var internalCategoryGroups = map[string]bool{
	"Internal Master Category": true,
	"Credit Card Payments":     true,
}

// CategoryLister is the client surface needed by the category listing tool.
type CategoryLister interface {
	GetCategoryGroups(ctx context.Context, budgetID string) ([]ynab.CategoryGroup, error)
}

// MoneyMover is the orchestrator surface needed by the move-money tool.
type MoneyMover interface {
	MoveMoney(ctx context.Context, req budget.MoveRequest) (*budget.MoveResult, error)
}

// CategoryBudgeter is the client surface needed by the set-budget tool.
type CategoryBudgeter interface {
	GetCategory(ctx context.Context, budgetID, categoryID string) (*ynab.Category, error)
	UpdateCategoryBudgeted(ctx context.Context, budgetID, categoryID, month string, budgeted ynab.Milliunits) (*ynab.Category, error)
}

// GetCategoriesInput represents the MCP tool input for listing categories.
type GetCategoriesInput struct {
	BudgetID string `json:"budget_id,omitempty" jsonschema:"budget ID or 'last-used' for the most recently accessed budget"`
}

// GetCategoriesResult represents the MCP tool output for listing categories.
type GetCategoriesResult struct {
	Groups []CategoryGroupEntry `json:"groups,omitempty" jsonschema:"visible category groups"`
}

// CategoryGroupEntry is one category group in a listing.
type CategoryGroupEntry struct {
	Name       string          `json:"name" jsonschema:"group name"`
	Categories []CategoryEntry `json:"categories,omitempty" jsonschema:"visible categories in the group"`
}

// CategoryEntry is one category in a listing.
type CategoryEntry struct {
	ID        string  `json:"id" jsonschema:"category identifier"`
	Name      string  `json:"name" jsonschema:"category name"`
	Budgeted  float64 `json:"budgeted" jsonschema:"budgeted amount in display units"`
	Activity  float64 `json:"activity" jsonschema:"spending activity in display units"`
	Available float64 `json:"available" jsonschema:"available balance in display units"`
}

// MoveMoneyInput represents the MCP tool input for moving money between
// categories.
type MoveMoneyInput struct {
	BudgetID       string  `json:"budget_id,omitempty" jsonschema:"budget ID or 'last-used' for the most recently accessed budget"`
	FromCategoryID string  `json:"from_category_id" jsonschema:"category ID to move money FROM"`
	ToCategoryID   string  `json:"to_category_id" jsonschema:"category ID to move money TO"`
	Amount         float64 `json:"amount" jsonschema:"amount in dollars to move (e.g. 50.00), must be positive"`
	Month          string  `json:"month,omitempty" jsonschema:"month in YYYY-MM-01 format, defaults to the current month"`
}

// MoveMoneyResult represents the MCP tool output for a completed move.
type MoveMoneyResult struct {
	FromCategory CategoryChange `json:"from_category" jsonschema:"source category before and after"`
	ToCategory   CategoryChange `json:"to_category" jsonschema:"destination category before and after"`
	Amount       float64        `json:"amount" jsonschema:"amount moved in display units"`
	Month        string         `json:"month" jsonschema:"month the move applied to"`
}

// CategoryChange captures one category's budgeted amount around a mutation.
type CategoryChange struct {
	ID     string  `json:"id" jsonschema:"category identifier"`
	Name   string  `json:"name" jsonschema:"category name"`
	Before float64 `json:"before" jsonschema:"budgeted amount before, display units"`
	After  float64 `json:"after" jsonschema:"budgeted amount after, display units"`
}

// SetCategoryBudgetInput represents the MCP tool input for setting a
// category's budgeted amount.
type SetCategoryBudgetInput struct {
	BudgetID   string  `json:"budget_id,omitempty" jsonschema:"budget ID or 'last-used' for the most recently accessed budget"`
	CategoryID string  `json:"category_id" jsonschema:"the category ID"`
	Amount     float64 `json:"amount" jsonschema:"new budgeted amount in dollars (e.g. 500.00), must not be negative"`
	Month      string  `json:"month,omitempty" jsonschema:"month in YYYY-MM-01 format, defaults to the current month"`
}

// SetCategoryBudgetResult represents the MCP tool output for setting a
// category's budgeted amount.
type SetCategoryBudgetResult struct {
	Category CategoryChange `json:"category" jsonschema:"category before and after"`
	Month    string         `json:"month" jsonschema:"month the change applied to"`
}

// CategoriesTool defines the MCP tool schema for listing categories.
func CategoriesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ynab_get_categories",
		Description: "List all category groups and categories with budgeted amounts and balances",
	}
}

// MoveMoneyTool defines the MCP tool schema for moving money between
// categories.
func MoveMoneyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ynab_move_money",
		Description: "Move money from one category to another",
	}
}

// SetCategoryBudgetTool defines the MCP tool schema for setting a category's
// budgeted amount.
func SetCategoryBudgetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ynab_set_category_budget",
		Description: "Set the budgeted amount for a category in a month",
	}
}

// CategoriesHandler lists visible category groups as markdown tables.
func CategoriesHandler(client CategoryLister) mcp.ToolHandlerFor[GetCategoriesInput, GetCategoriesResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetCategoriesInput) (*mcp.CallToolResult, GetCategoriesResult, error) {
		groups, err := client.GetCategoryGroups(ctx, budgetOrDefault(input.BudgetID))
		if err != nil {
			return errorResult(err), GetCategoriesResult{}, nil
		}

		result := GetCategoriesResult{}
		var md strings.Builder
		md.WriteString("## Budget Categories\n\n")
		for _, group := range groups {
			if group.Hidden || group.Deleted || internalCategoryGroups[group.Name] {
				continue
			}
			entry := CategoryGroupEntry{Name: group.Name}
			fmt.Fprintf(&md, "### %s\n\n", group.Name)
			md.WriteString("| Category | Budgeted | Spent | Available |\n")
			md.WriteString("|----------|----------|-------|----------|\n")
			for _, cat := range group.Categories {
				if cat.Hidden || cat.Deleted {
					continue
				}
				entry.Categories = append(entry.Categories, CategoryEntry{
					ID:        cat.ID,
					Name:      cat.Name,
					Budgeted:  cat.Budgeted.Amount(),
					Activity:  cat.Activity.Amount(),
					Available: cat.Balance.Amount(),
				})
				fmt.Fprintf(&md, "| %s | %s | %s | %s |\n",
					cat.Name, formatCurrency(cat.Budgeted), formatCurrency(cat.Activity), formatCurrency(cat.Balance))
				fmt.Fprintf(&md, "| ↳ ID: `%s` | | | |\n", cat.ID)
			}
			md.WriteString("\n")
			result.Groups = append(result.Groups, entry)
		}

		return textResult(md.String()), result, nil
	}
}

// MoveMoneyHandler moves budgeted money between two categories.
func MoveMoneyHandler(mover MoneyMover) mcp.ToolHandlerFor[MoveMoneyInput, MoveMoneyResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MoveMoneyInput) (*mcp.CallToolResult, MoveMoneyResult, error) {
		if !ynab.IsFinite(input.Amount) || input.Amount <= 0 {
			return errorResult(fmt.Errorf("amount must be a positive number")), MoveMoneyResult{}, nil
		}

		move, err := mover.MoveMoney(ctx, budget.MoveRequest{
			BudgetID:       budgetOrDefault(input.BudgetID),
			FromCategoryID: input.FromCategoryID,
			ToCategoryID:   input.ToCategoryID,
			Amount:         ynab.MilliunitsFromAmount(input.Amount),
			Month:          input.Month,
		})
		if err != nil {
			return errorResult(err), MoveMoneyResult{}, nil
		}

		result := MoveMoneyResult{
			FromCategory: CategoryChange{
				ID:     move.From.ID,
				Name:   move.From.Name,
				Before: move.From.Before.Amount(),
				After:  move.From.After.Amount(),
			},
			ToCategory: CategoryChange{
				ID:     move.To.ID,
				Name:   move.To.Name,
				Before: move.To.Before.Amount(),
				After:  move.To.After.Amount(),
			},
			Amount: move.Amount.Amount(),
			Month:  move.Month,
		}

		var md strings.Builder
		md.WriteString("## Money Moved Successfully\n\n")
		fmt.Fprintf(&md, "**Moved %s** from %s to %s\n\n", formatCurrency(move.Amount), move.From.Name, move.To.Name)
		md.WriteString("| Category | Before | After |\n")
		md.WriteString("|----------|--------|-------|\n")
		fmt.Fprintf(&md, "| %s | %s | %s |\n", move.From.Name, formatCurrency(move.From.Before), formatCurrency(move.From.After))
		fmt.Fprintf(&md, "| %s | %s | %s |\n", move.To.Name, formatCurrency(move.To.Before), formatCurrency(move.To.After))

		return textResult(md.String()), result, nil
	}
}

// SetCategoryBudgetHandler sets the budgeted amount for a category in a
// month.
func SetCategoryBudgetHandler(client CategoryBudgeter) mcp.ToolHandlerFor[SetCategoryBudgetInput, SetCategoryBudgetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SetCategoryBudgetInput) (*mcp.CallToolResult, SetCategoryBudgetResult, error) {
		if !ynab.IsFinite(input.Amount) || input.Amount < 0 {
			return errorResult(fmt.Errorf("amount must be zero or a positive number")), SetCategoryBudgetResult{}, nil
		}

		budgetID := budgetOrDefault(input.BudgetID)
		month := input.Month
		if month == "" {
			month = budget.CurrentMonth()
		}

		before, err := client.GetCategory(ctx, budgetID, input.CategoryID)
		if err != nil {
			return errorResult(err), SetCategoryBudgetResult{}, nil
		}

		budgeted := ynab.MilliunitsFromAmount(input.Amount)
		after, err := client.UpdateCategoryBudgeted(ctx, budgetID, input.CategoryID, month, budgeted)
		if err != nil {
			return errorResult(err), SetCategoryBudgetResult{}, nil
		}

		result := SetCategoryBudgetResult{
			Category: CategoryChange{
				ID:     after.ID,
				Name:   after.Name,
				Before: before.Budgeted.Amount(),
				After:  after.Budgeted.Amount(),
			},
			Month: month,
		}

		var md strings.Builder
		md.WriteString("## Category Budget Updated\n\n")
		fmt.Fprintf(&md, "- **Category**: %s\n", after.Name)
		fmt.Fprintf(&md, "- **Month**: %s\n", month)
		fmt.Fprintf(&md, "- **Before**: %s\n", formatCurrency(before.Budgeted))
		fmt.Fprintf(&md, "- **After**: %s\n", formatCurrency(after.Budgeted))

		return textResult(md.String()), result, nil
	}
}
