// Package ynab provides the client for the YNAB REST API.
//
// All requests go only to the configured API base (api.ynab.com by default).
// The token is resolved once at construction, attached as a bearer header on
// every call, and never logged or echoed in any error.
package ynab

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"

	"github.com/rs/zerolog"

	apperrors "github.com/louisbranch/ynab-mcp/internal/platform/errors"
	"github.com/louisbranch/ynab-mcp/internal/platform/timeouts"
)

// APIBase is the only external endpoint this client contacts by default.
const APIBase = "https://api.ynab.com/v1"

// Client is the YNAB API client. One instance owns one credential and one
// lazily created HTTP session for its whole lifetime. It is safe to reuse
// across sequential operations but provides no locking for concurrent
// operations; callers needing parallelism use one Client per flow.
type Client struct {
	baseURL string
	token   string
	log     zerolog.Logger

	mu         sync.Mutex
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests to point the client
// at a local fake.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// New creates a client with an explicit token.
func New(token string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: APIBase,
		token:   token,
		log:     log.With().Str("component", "ynab-client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromEnvironment creates a client with a token resolved from the
// environment or OS keyring.
func NewFromEnvironment(log zerolog.Logger, opts ...Option) (*Client, error) {
	token, err := ResolveToken("")
	if err != nil {
		return nil, err
	}
	return New(token, log, opts...), nil
}

// session returns the HTTP client, creating it on first use and after Close.
func (c *Client) session() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	return c.httpClient
}

// Close releases the underlying connections. The client remains usable: the
// next call transparently re-establishes a session.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
		c.httpClient = nil
	}
}

// do executes one API call and returns the raw response body. Each call is
// bounded by timeouts.APIRequest; there are no retries at this layer.
func (c *Client) do(ctx context.Context, method, endpoint string, body any, query url.Values) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeouts.APIRequest)
	defer cancel()

	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeUnknown, "encode request body", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(callCtx, method, target, reader)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnknown, "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.session().Do(req)
	if err != nil {
		if isTimeout(callCtx, err) {
			return nil, apperrors.Wrap(apperrors.CodeTimeout, "request timed out; try again", err)
		}
		return nil, apperrors.Wrap(apperrors.CodeNetwork, "network error contacting the YNAB API", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeNetwork, "read response body", err)
	}

	c.log.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Msg("api call")

	if resp.StatusCode >= 400 {
		return nil, mapStatus(resp.StatusCode, payload)
	}
	return payload, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// get performs a GET and unwraps data.<key> into out.
func (c *Client) get(ctx context.Context, endpoint, key string, query url.Values, out any) error {
	payload, err := c.do(ctx, http.MethodGet, endpoint, nil, query)
	if err != nil {
		return err
	}
	return unwrap(payload, key, out)
}

// write performs a POST or PATCH and unwraps data.<key> into out.
func (c *Client) write(ctx context.Context, method, endpoint, key string, body, out any) error {
	payload, err := c.do(ctx, method, endpoint, body, nil)
	if err != nil {
		return err
	}
	return unwrap(payload, key, out)
}

// unwrap decodes the standard response envelope: every payload nests under a
// "data" key whose inner key names the resource.
func unwrap(payload []byte, key string, out any) error {
	var envelope struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return apperrors.Wrap(apperrors.CodeAPIError, "decode response envelope", err)
	}
	inner, ok := envelope.Data[key]
	if !ok {
		return apperrors.New(apperrors.CodeAPIError, fmt.Sprintf("response envelope missing %q", key))
	}
	if err := json.Unmarshal(inner, out); err != nil {
		return apperrors.Wrap(apperrors.CodeAPIError, fmt.Sprintf("decode %q payload", key), err)
	}
	return nil
}

// GetBudgets lists all budgets for the authenticated user.
func (c *Client) GetBudgets(ctx context.Context) ([]Budget, error) {
	var budgets []Budget
	if err := c.get(ctx, "/budgets", "budgets", nil, &budgets); err != nil {
		return nil, err
	}
	return budgets, nil
}

// GetBudget fetches a single budget by id.
func (c *Client) GetBudget(ctx context.Context, budgetID string) (*Budget, error) {
	var budget Budget
	if err := c.get(ctx, "/budgets/"+budgetID, "budget", nil, &budget); err != nil {
		return nil, err
	}
	return &budget, nil
}

// GetAccounts lists all accounts in a budget.
func (c *Client) GetAccounts(ctx context.Context, budgetID string) ([]Account, error) {
	var accounts []Account
	if err := c.get(ctx, "/budgets/"+budgetID+"/accounts", "accounts", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetAccount fetches a single account by id.
func (c *Client) GetAccount(ctx context.Context, budgetID, accountID string) (*Account, error) {
	var account Account
	if err := c.get(ctx, "/budgets/"+budgetID+"/accounts/"+accountID, "account", nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetCategoryGroups lists all category groups with their categories.
func (c *Client) GetCategoryGroups(ctx context.Context, budgetID string) ([]CategoryGroup, error) {
	var groups []CategoryGroup
	if err := c.get(ctx, "/budgets/"+budgetID+"/categories", "category_groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GetCategory fetches a single category by id for the current month.
func (c *Client) GetCategory(ctx context.Context, budgetID, categoryID string) (*Category, error) {
	var category Category
	if err := c.get(ctx, "/budgets/"+budgetID+"/categories/"+categoryID, "category", nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategoryBudgeted sets the budgeted amount for a category in a
// specific month.
func (c *Client) UpdateCategoryBudgeted(ctx context.Context, budgetID, categoryID, month string, budgeted Milliunits) (*Category, error) {
	body := map[string]any{
		"category": map[string]any{"budgeted": budgeted},
	}
	endpoint := "/budgets/" + budgetID + "/months/" + month + "/categories/" + categoryID
	var category Category
	if err := c.write(ctx, http.MethodPatch, endpoint, "category", body, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// GetTransactions lists transactions for a budget, optionally narrowed by
// the filter.
func (c *Client) GetTransactions(ctx context.Context, budgetID string, filter TransactionFilter) ([]Transaction, error) {
	var query url.Values
	if filter.SinceDate != "" {
		query = url.Values{"since_date": {filter.SinceDate}}
	}

	endpoint := "/budgets/" + budgetID + "/transactions"
	switch {
	case filter.AccountID != "":
		endpoint = "/budgets/" + budgetID + "/accounts/" + filter.AccountID + "/transactions"
	case filter.CategoryID != "":
		endpoint = "/budgets/" + budgetID + "/categories/" + filter.CategoryID + "/transactions"
	}

	var transactions []Transaction
	if err := c.get(ctx, endpoint, "transactions", query, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// CreateTransaction creates a new transaction. Every call creates a new
// remote transaction; no deduplication is performed here.
func (c *Client) CreateTransaction(ctx context.Context, budgetID string, tx NewTransaction) (*Transaction, error) {
	body := map[string]any{"transaction": tx}
	var created Transaction
	if err := c.write(ctx, http.MethodPost, "/budgets/"+budgetID+"/transactions", "transaction", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTransaction applies a sparse patch to an existing transaction.
func (c *Client) UpdateTransaction(ctx context.Context, budgetID, transactionID string, patch TransactionPatch) (*Transaction, error) {
	body := map[string]any{"transaction": patch}
	var updated Transaction
	if err := c.write(ctx, http.MethodPatch, "/budgets/"+budgetID+"/transactions/"+transactionID, "transaction", body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// GetPayees lists all payees for a budget.
func (c *Client) GetPayees(ctx context.Context, budgetID string) ([]Payee, error) {
	var payees []Payee
	if err := c.get(ctx, "/budgets/"+budgetID+"/payees", "payees", nil, &payees); err != nil {
		return nil, err
	}
	return payees, nil
}

// GetMonth fetches a budget month with all category balances. The month may
// be a YYYY-MM-01 date or the literal "current".
func (c *Client) GetMonth(ctx context.Context, budgetID, month string) (*Month, error) {
	var result Month
	if err := c.get(ctx, "/budgets/"+budgetID+"/months/"+month, "month", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
