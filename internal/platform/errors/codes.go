// Package errors provides structured error handling with a closed set of
// machine-readable codes. Every error that crosses an operation boundary in
// this codebase carries one of these codes so the MCP adapter can render it
// without inspecting error strings.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Credential errors
	CodeCredentialMissing Code = "CREDENTIAL_MISSING"

	// Transport errors mapped from YNAB API responses
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeRateLimited  Code = "RATE_LIMITED"
	CodeAPIError     Code = "API_ERROR"

	// Transport errors that never reached a response
	CodeNetwork Code = "NETWORK"
	CodeTimeout Code = "TIMEOUT"

	// Mutation errors
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"
	CodePartialMutation   Code = "PARTIAL_MUTATION"
	CodeNoOpUpdate        Code = "NO_OP_UPDATE"
)

// Retryable reports whether an operation that failed with this code may
// succeed if simply attempted again. The transport performs no retries
// itself; this classification exists for callers and for rendered advice.
func (c Code) Retryable() bool {
	switch c {
	case CodeRateLimited, CodeNetwork, CodeTimeout:
		return true
	default:
		return false
	}
}
