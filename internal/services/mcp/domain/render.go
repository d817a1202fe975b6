package domain

import (
	"strings"

	"github.com/louisbranch/ynab-mcp/internal/ynab"
)

func formatCurrency(m ynab.Milliunits) string {
	return m.Format()
}

// accountTypeHeading turns an API account type like "credit_card" into a
// section heading like "Credit Card".
func accountTypeHeading(accountType string) string {
	words := strings.Split(accountType, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func orFallback(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
