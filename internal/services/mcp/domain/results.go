package domain

import (
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apperrors "github.com/louisbranch/ynab-mcp/internal/platform/errors"
)

// lastUsedBudget is the alias the YNAB API accepts for the most recently
// accessed budget.
const lastUsedBudget = "last-used"

func budgetOrDefault(id string) string {
	if strings.TrimSpace(id) == "" {
		return lastUsedBudget
	}
	return strings.TrimSpace(id)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult renders a failure as tool output text rather than a protocol
// error, so the calling agent sees the message and can react to it.
func errorResult(err error) *mcp.CallToolResult {
	message := "Error: " + err.Error()
	if code := apperrors.GetCode(err); code == apperrors.CodeUnknown {
		message = "Error: unexpected error: " + err.Error()
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: message}},
	}
}
