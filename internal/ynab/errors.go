package ynab

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	apperrors "github.com/louisbranch/ynab-mcp/internal/platform/errors"
)

// mapStatus converts a YNAB API error response into a domain error. It is a
// pure function of the status code and body; body decoding is best-effort
// and a malformed body only yields an empty detail, never a mapper failure.
func mapStatus(status int, body []byte) *apperrors.Error {
	detail := errorDetail(body)

	switch status {
	case http.StatusUnauthorized:
		return apperrors.New(apperrors.CodeUnauthorized,
			"invalid or expired API token; update the stored token and try again")
	case http.StatusForbidden:
		return apperrors.WithMetadata(apperrors.CodeForbidden,
			withDetail("permission denied", detail), detailMetadata(detail))
	case http.StatusNotFound:
		return apperrors.WithMetadata(apperrors.CodeNotFound,
			withDetail("resource not found", detail), detailMetadata(detail))
	case http.StatusTooManyRequests:
		return apperrors.New(apperrors.CodeRateLimited,
			"rate limit exceeded; wait before making more requests")
	default:
		meta := detailMetadata(detail)
		if meta == nil {
			meta = map[string]string{}
		}
		meta["status"] = strconv.Itoa(status)
		return apperrors.WithMetadata(apperrors.CodeAPIError,
			withDetail(fmt.Sprintf("API error %d", status), detail), meta)
	}
}

// errorDetail extracts the nested detail field from a YNAB error body,
// shaped {"error": {"detail": "..."}}. Returns "" when the body cannot be
// decoded or lacks that shape.
func errorDetail(body []byte) string {
	var payload struct {
		Error struct {
			Detail string `json:"detail"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Error.Detail
}

func withDetail(message, detail string) string {
	if detail == "" {
		return message
	}
	return message + ": " + detail
}

func detailMetadata(detail string) map[string]string {
	if detail == "" {
		return nil
	}
	return map[string]string{"detail": detail}
}
