package ynab

import (
	"fmt"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/ynab-mcp/internal/platform/errors"
)

func stubKeyring(t *testing.T, value string, err error) {
	t.Helper()
	origGet := keyringGet
	keyringGet = func(service, account string) (string, error) {
		if service != "ynab-mcp-server" || account != "api_token" {
			t.Fatalf("unexpected keyring entry %s/%s", service, account)
		}
		return value, err
	}
	t.Cleanup(func() { keyringGet = origGet })
}

func TestResolveTokenOverrideWins(t *testing.T) {
	t.Setenv(EnvToken, "env-token")
	stubKeyring(t, "keyring-token", nil)

	token, err := ResolveToken("explicit-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "explicit-token" {
		t.Fatalf("expected override token, got %q", token)
	}
}

func TestResolveTokenEnvBeatsKeyring(t *testing.T) {
	t.Setenv(EnvToken, "env-token")
	stubKeyring(t, "keyring-token", nil)

	token, err := ResolveToken("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "env-token" {
		t.Fatalf("expected env token, got %q", token)
	}
}

func TestResolveTokenFallsBackToKeyring(t *testing.T) {
	t.Setenv(EnvToken, "")
	stubKeyring(t, "keyring-token", nil)

	token, err := ResolveToken("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "keyring-token" {
		t.Fatalf("expected keyring token, got %q", token)
	}
}

func TestResolveTokenKeyringFailureIsNotFatal(t *testing.T) {
	t.Setenv(EnvToken, "")
	stubKeyring(t, "", fmt.Errorf("no keyring backend available"))

	_, err := ResolveToken("")
	if !apperrors.IsCode(err, apperrors.CodeCredentialMissing) {
		t.Fatalf("expected %s, got %v", apperrors.CodeCredentialMissing, err)
	}
	if strings.Contains(err.Error(), "backend") {
		t.Fatalf("keyring failure detail leaked into resolution error: %v", err)
	}
}

func TestResolveTokenExhaustedMessageNamesSources(t *testing.T) {
	t.Setenv(EnvToken, "")
	stubKeyring(t, "", nil)

	_, err := ResolveToken("")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), EnvToken) || !strings.Contains(err.Error(), "store-token") {
		t.Fatalf("expected message to name both remaining sources, got %q", err.Error())
	}
}

func TestStoreTokenRejectsEmpty(t *testing.T) {
	if err := StoreToken("  "); err == nil {
		t.Fatal("expected error for blank token")
	}
}

func TestStoreTokenWrapsKeyringError(t *testing.T) {
	origSet := keyringSet
	keyringSet = func(service, account, token string) error {
		return fmt.Errorf("keyring locked")
	}
	t.Cleanup(func() { keyringSet = origSet })

	err := StoreToken("a-token")
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(err.Error(), "a-token") {
		t.Fatalf("token value leaked into error: %v", err)
	}
}

func TestMaskToken(t *testing.T) {
	if got := MaskToken("abcdefgh"); got != "abcd..." {
		t.Fatalf("expected %q, got %q", "abcd...", got)
	}
	if got := MaskToken("abc"); got != "****" {
		t.Fatalf("short tokens must be fully masked, got %q", got)
	}
	if got := MaskToken(""); got != "****" {
		t.Fatalf("empty token must be fully masked, got %q", got)
	}
}
