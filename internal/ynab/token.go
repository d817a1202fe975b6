package ynab

import (
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	apperrors "github.com/louisbranch/ynab-mcp/internal/platform/errors"
)

// EnvToken is the environment variable consulted for the API token before
// the OS keyring.
const EnvToken = "YNAB_API_TOKEN"

// Keyring entry used for the stored token. The pair is fixed so store-token
// and resolution always address the same entry.
const (
	keyringService = "ynab-mcp-server"
	keyringAccount = "api_token"
)

// Keyring access is indirected so tests can run without an OS keyring
// backend.
var (
	keyringGet = keyring.Get
	keyringSet = keyring.Set
)

// ResolveToken returns the API token from the first source that yields a
// non-empty value: the explicit override, the YNAB_API_TOKEN environment
// variable, then the OS keyring. Keyring failures of any kind (no backend,
// locked, missing entry) are treated as "no value", not errors; the only
// failure is exhausting all sources.
//
// The token value must never appear in logs or error messages; MaskToken is
// the only permitted diagnostic form.
func ResolveToken(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if token := os.Getenv(EnvToken); token != "" {
		return token, nil
	}
	if token, err := keyringGet(keyringService, keyringAccount); err == nil && token != "" {
		return token, nil
	}
	return "", apperrors.New(apperrors.CodeCredentialMissing,
		"YNAB API token not found; set the "+EnvToken+" environment variable or run 'ynab-mcp store-token' to save one securely")
}

// StoreToken persists the token in the OS keyring. A missing backend or any
// keyring failure is returned as an error value for the CLI to report; it
// never panics.
func StoreToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return apperrors.New(apperrors.CodeCredentialMissing, "token is empty")
	}
	if err := keyringSet(keyringService, keyringAccount, token); err != nil {
		return apperrors.Wrap(apperrors.CodeUnknown, "store token in OS keyring", err)
	}
	return nil
}

// MaskToken returns a form of the token safe for diagnostics: the first four
// characters followed by an ellipsis.
func MaskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return token[:4] + "..."
}
