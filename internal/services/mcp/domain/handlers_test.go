package domain

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/louisbranch/ynab-mcp/internal/budget"
	apperrors "github.com/louisbranch/ynab-mcp/internal/platform/errors"
	"github.com/louisbranch/ynab-mcp/internal/ynab"
)

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("expected content on tool result")
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

type stubAPI struct {
	budgets      []ynab.Budget
	accounts     []ynab.Account
	groups       []ynab.CategoryGroup
	transactions []ynab.Transaction
	payees       []ynab.Payee
	month        *ynab.Month
	err          error

	gotBudgetID string
	gotFilter   ynab.TransactionFilter
}

func (s *stubAPI) GetBudgets(ctx context.Context) ([]ynab.Budget, error) {
	return s.budgets, s.err
}

func (s *stubAPI) GetAccounts(ctx context.Context, budgetID string) ([]ynab.Account, error) {
	s.gotBudgetID = budgetID
	return s.accounts, s.err
}

func (s *stubAPI) GetCategoryGroups(ctx context.Context, budgetID string) ([]ynab.CategoryGroup, error) {
	s.gotBudgetID = budgetID
	return s.groups, s.err
}

func (s *stubAPI) GetTransactions(ctx context.Context, budgetID string, filter ynab.TransactionFilter) ([]ynab.Transaction, error) {
	s.gotBudgetID = budgetID
	s.gotFilter = filter
	return s.transactions, s.err
}

func (s *stubAPI) GetPayees(ctx context.Context, budgetID string) ([]ynab.Payee, error) {
	s.gotBudgetID = budgetID
	return s.payees, s.err
}

func (s *stubAPI) GetMonth(ctx context.Context, budgetID, month string) (*ynab.Month, error) {
	s.gotBudgetID = budgetID
	return s.month, s.err
}

func TestBudgetsHandlerRendersListing(t *testing.T) {
	stub := &stubAPI{budgets: []ynab.Budget{
		{ID: "b1", Name: "Household", LastModifiedOn: "2024-03-01T10:00:00Z"},
		{ID: "b2", Name: "Side Business"},
	}}
	handler := BudgetsHandler(stub)

	res, out, err := handler(context.Background(), nil, GetBudgetsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Budgets) != 2 {
		t.Fatalf("expected 2 budgets, got %d", len(out.Budgets))
	}
	text := resultText(t, res)
	for _, want := range []string{"Household", "`b1`", "Side Business", "Last modified: N/A"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected rendering to contain %q, got:\n%s", want, text)
		}
	}
}

func TestBudgetsHandlerRendersError(t *testing.T) {
	stub := &stubAPI{err: apperrors.New(apperrors.CodeUnauthorized, "invalid or expired API token; update the stored token and try again")}
	handler := BudgetsHandler(stub)

	res, _, err := handler(context.Background(), nil, GetBudgetsInput{})
	if err != nil {
		t.Fatalf("failures must render as error results, got protocol error %v", err)
	}
	if !res.IsError {
		t.Fatal("expected IsError result")
	}
	text := resultText(t, res)
	if !strings.HasPrefix(text, "Error: ") {
		t.Errorf("expected Error prefix, got %q", text)
	}
	if !strings.Contains(text, "token") {
		t.Errorf("expected guidance about the token, got %q", text)
	}
}

func TestAccountsHandlerGroupsAndTotals(t *testing.T) {
	stub := &stubAPI{accounts: []ynab.Account{
		{ID: "a1", Name: "Checking", Type: "checking", Balance: 1500000},
		{ID: "a2", Name: "Visa", Type: "credit_card", Balance: -250000},
		{ID: "a3", Name: "Old Savings", Type: "savings", Closed: true, Balance: 99000},
	}}
	handler := AccountsHandler(stub)

	res, out, err := handler(context.Background(), nil, GetAccountsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.gotBudgetID != "last-used" {
		t.Errorf("expected empty budget_id to default to last-used, got %q", stub.gotBudgetID)
	}
	if len(out.Accounts) != 2 {
		t.Fatalf("closed account must be excluded, got %d accounts", len(out.Accounts))
	}
	if out.TotalBalance != 1250 {
		t.Errorf("expected total 1250.00, got %v", out.TotalBalance)
	}
	text := resultText(t, res)
	for _, want := range []string{"### Checking", "### Credit Card", "$1,250.00"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected rendering to contain %q, got:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Old Savings") {
		t.Error("closed account must not be rendered")
	}
}

func TestCategoriesHandlerSkipsInternalGroups(t *testing.T) {
	stub := &stubAPI{groups: []ynab.CategoryGroup{
		{Name: "Internal Master Category", Categories: []ynab.Category{{ID: "x", Name: "Inflow"}}},
		{Name: "Immediate Obligations", Categories: []ynab.Category{
			{ID: "c1", Name: "Rent", Budgeted: 1200000, Activity: -1200000, Balance: 0},
			{ID: "c2", Name: "Hidden One", Hidden: true},
		}},
	}}
	handler := CategoriesHandler(stub)

	res, out, err := handler(context.Background(), nil, GetCategoriesInput{BudgetID: "b1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Groups) != 1 || out.Groups[0].Name != "Immediate Obligations" {
		t.Fatalf("expected only the visible group, got %+v", out.Groups)
	}
	if len(out.Groups[0].Categories) != 1 {
		t.Fatalf("hidden category must be excluded, got %+v", out.Groups[0].Categories)
	}
	text := resultText(t, res)
	if strings.Contains(text, "Internal Master Category") {
		t.Error("internal group must not be rendered")
	}
	if !strings.Contains(text, "| Rent | $1,200.00 |") {
		t.Errorf("expected category table row, got:\n%s", text)
	}
}

type stubMover struct {
	result *budget.MoveResult
	err    error
	got    budget.MoveRequest
	calls  int
}

func (s *stubMover) MoveMoney(ctx context.Context, req budget.MoveRequest) (*budget.MoveResult, error) {
	s.calls++
	s.got = req
	return s.result, s.err
}

func TestMoveMoneyHandlerRendersBeforeAfter(t *testing.T) {
	mover := &stubMover{result: &budget.MoveResult{
		From:   budget.CategorySnapshot{ID: "cat-a", Name: "Groceries", Before: 200000, After: 150000},
		To:     budget.CategorySnapshot{ID: "cat-b", Name: "Dining Out", Before: 30000, After: 80000},
		Amount: 50000,
		Month:  "2024-03-01",
	}}
	handler := MoveMoneyHandler(mover)

	res, out, err := handler(context.Background(), nil, MoveMoneyInput{
		FromCategoryID: "cat-a",
		ToCategoryID:   "cat-b",
		Amount:         50,
		Month:          "2024-03-01",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mover.got.Amount != 50000 {
		t.Errorf("expected amount converted to 50000 milliunits, got %d", mover.got.Amount)
	}
	if mover.got.BudgetID != "last-used" {
		t.Errorf("expected default budget id, got %q", mover.got.BudgetID)
	}
	if out.FromCategory.After != 150 || out.ToCategory.After != 80 {
		t.Errorf("unexpected structured result: %+v", out)
	}
	text := resultText(t, res)
	for _, want := range []string{"Money Moved Successfully", "**Moved $50.00**", "| Groceries | $200.00 | $150.00 |", "| Dining Out | $30.00 | $80.00 |"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected rendering to contain %q, got:\n%s", want, text)
		}
	}
}

func TestMoveMoneyHandlerRejectsNonPositiveAmount(t *testing.T) {
	mover := &stubMover{}
	handler := MoveMoneyHandler(mover)

	for _, amount := range []float64{0, -25} {
		res, _, err := handler(context.Background(), nil, MoveMoneyInput{
			FromCategoryID: "cat-a",
			ToCategoryID:   "cat-b",
			Amount:         amount,
		})
		if err != nil {
			t.Fatalf("unexpected protocol error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected error result for amount %v", amount)
		}
	}
	if mover.calls != 0 {
		t.Fatalf("invalid amounts must not reach the orchestrator, got %d calls", mover.calls)
	}
}

func TestMoveMoneyHandlerSurfacesPartialMutation(t *testing.T) {
	mover := &stubMover{err: apperrors.WithMetadata(apperrors.CodePartialMutation,
		"Groceries was debited $50.00 but crediting Dining Out failed",
		map[string]string{"from_category_id": "cat-a", "amount": "50000", "month": "2024-03-01"})}
	handler := MoveMoneyHandler(mover)

	res, _, err := handler(context.Background(), nil, MoveMoneyInput{
		FromCategoryID: "cat-a",
		ToCategoryID:   "cat-b",
		Amount:         50,
	})
	if err != nil {
		t.Fatalf("unexpected protocol error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected error result")
	}
	text := resultText(t, res)
	if !strings.Contains(text, "debited") {
		t.Errorf("partial mutation message must reach the caller, got %q", text)
	}
}

type stubCategoryBudgeter struct {
	before   *ynab.Category
	after    *ynab.Category
	getErr   error
	patchErr error
	gotMonth string
}

func (s *stubCategoryBudgeter) GetCategory(ctx context.Context, budgetID, categoryID string) (*ynab.Category, error) {
	return s.before, s.getErr
}

func (s *stubCategoryBudgeter) UpdateCategoryBudgeted(ctx context.Context, budgetID, categoryID, month string, budgeted ynab.Milliunits) (*ynab.Category, error) {
	s.gotMonth = month
	if s.patchErr != nil {
		return nil, s.patchErr
	}
	updated := *s.after
	updated.Budgeted = budgeted
	return &updated, nil
}

func TestSetCategoryBudgetHandler(t *testing.T) {
	stub := &stubCategoryBudgeter{
		before: &ynab.Category{ID: "c1", Name: "Groceries", Budgeted: 200000},
		after:  &ynab.Category{ID: "c1", Name: "Groceries"},
	}
	handler := SetCategoryBudgetHandler(stub)

	res, out, err := handler(context.Background(), nil, SetCategoryBudgetInput{
		CategoryID: "c1",
		Amount:     500,
		Month:      "2024-03-01",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.gotMonth != "2024-03-01" {
		t.Errorf("expected month passthrough, got %q", stub.gotMonth)
	}
	if out.Category.Before != 200 || out.Category.After != 500 {
		t.Errorf("unexpected change: %+v", out.Category)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "Category Budget Updated") {
		t.Errorf("unexpected rendering:\n%s", text)
	}
}

func TestSetCategoryBudgetHandlerDefaultsMonth(t *testing.T) {
	stub := &stubCategoryBudgeter{
		before: &ynab.Category{ID: "c1", Name: "Groceries"},
		after:  &ynab.Category{ID: "c1", Name: "Groceries"},
	}
	handler := SetCategoryBudgetHandler(stub)

	_, out, err := handler(context.Background(), nil, SetCategoryBudgetInput{CategoryID: "c1", Amount: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Month != budget.CurrentMonth() {
		t.Errorf("expected current month default, got %q", out.Month)
	}
}

func TestTransactionsHandlerLimitsAndTotals(t *testing.T) {
	var transactions []ynab.Transaction
	for i := 0; i < 60; i++ {
		transactions = append(transactions, ynab.Transaction{
			ID: "t", Date: "2024-03-05", PayeeName: "Store", Amount: -1000, Cleared: ynab.ClearedCleared, Approved: true,
		})
	}
	stub := &stubAPI{transactions: transactions}
	handler := TransactionsHandler(stub)

	res, out, err := handler(context.Background(), nil, GetTransactionsInput{SinceDate: "2024-03-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.gotFilter.SinceDate != "2024-03-01" {
		t.Errorf("expected since_date passthrough, got %q", stub.gotFilter.SinceDate)
	}
	if len(out.Transactions) != defaultTransactionLimit {
		t.Fatalf("expected default limit %d, got %d", defaultTransactionLimit, len(out.Transactions))
	}
	if out.Total != -50 {
		t.Errorf("expected total -50.00 over the limited set, got %v", out.Total)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "(50 transactions)") {
		t.Errorf("expected transaction count in summary, got:\n%s", text)
	}
	if !strings.Contains(text, "✓✓") {
		t.Errorf("expected cleared and approved markers, got:\n%s", text)
	}
}

func TestTransactionsHandlerEmpty(t *testing.T) {
	stub := &stubAPI{}
	handler := TransactionsHandler(stub)

	res, _, err := handler(context.Background(), nil, GetTransactionsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resultText(t, res); got != "No transactions found matching the criteria." {
		t.Errorf("unexpected empty rendering: %q", got)
	}
}

func TestCreateTransactionHandler(t *testing.T) {
	fake := &fakeWriter{}
	handler := CreateTransactionHandler(fake)

	res, out, err := handler(context.Background(), nil, CreateTransactionInput{
		AccountID: "a1",
		Amount:    -45.67,
		Date:      "2024-03-05",
		PayeeName: "Corner Store",
		Memo:      "weekly run",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.created.Amount != -45.67 {
		t.Errorf("expected display amount passed through, got %v", fake.created.Amount)
	}
	if out.ID == "" {
		t.Error("expected created transaction id in result")
	}
	text := resultText(t, res)
	for _, want := range []string{"Transaction Created", "$-45.67", "Corner Store", "weekly run"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected rendering to contain %q, got:\n%s", want, text)
		}
	}
}

func TestUpdateTransactionHandlerNoFields(t *testing.T) {
	svc := budget.NewService(&noCallClient{t: t}, zerolog.Nop())
	handler := UpdateTransactionHandler(svc)

	res, _, err := handler(context.Background(), nil, UpdateTransactionInput{TransactionID: "t1"})
	if err != nil {
		t.Fatalf("unexpected protocol error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected error result for empty update")
	}
	if !strings.Contains(resultText(t, res), "no fields to update") {
		t.Errorf("unexpected message: %q", resultText(t, res))
	}
}

func TestPayeesHandlerFiltersAndSorts(t *testing.T) {
	stub := &stubAPI{payees: []ynab.Payee{
		{ID: "p1", Name: "Zeta Market"},
		{ID: "p2", Name: "Transfer : Checking"},
		{ID: "p3", Name: "alpha bakery"},
		{ID: "p4", Name: "Gone", Deleted: true},
	}}
	handler := PayeesHandler(stub)

	res, out, err := handler(context.Background(), nil, GetPayeesInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Total != 2 {
		t.Fatalf("expected 2 payees after filtering, got %d", out.Total)
	}
	if out.Payees[0].Name != "alpha bakery" {
		t.Errorf("expected case-insensitive sort, got %+v", out.Payees)
	}
	text := resultText(t, res)
	if strings.Contains(text, "Transfer") || strings.Contains(text, "Gone") {
		t.Errorf("filtered payees must not render, got:\n%s", text)
	}
}

func TestMonthSummaryHandlerFlagsOverspent(t *testing.T) {
	stub := &stubAPI{month: &ynab.Month{
		Month:        "2024-03-01",
		Income:       5000000,
		Budgeted:     4500000,
		Activity:     -3000000,
		ToBeBudgeted: 500000,
		Categories: []ynab.Category{
			{ID: "c1", Name: "Groceries", Balance: 100000},
			{ID: "c2", Name: "Dining Out", Balance: -45000},
		},
	}}
	handler := MonthSummaryHandler(stub)

	res, out, err := handler(context.Background(), nil, GetMonthSummaryInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Overspent) != 1 || out.Overspent[0].ID != "c2" {
		t.Fatalf("expected one overspent category, got %+v", out.Overspent)
	}
	text := resultText(t, res)
	for _, want := range []string{"Budget Summary for 2024-03-01", "Overspent Categories", "Dining Out", "$-45.00"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected rendering to contain %q, got:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Groceries") {
		t.Error("positive-balance category must not be listed as overspent")
	}
}

// fakeWriter implements TransactionWriter for handler tests.
type fakeWriter struct {
	created budget.CreateRequest
	updated budget.UpdateRequest
}

func (f *fakeWriter) CreateTransaction(ctx context.Context, req budget.CreateRequest) (*ynab.Transaction, error) {
	f.created = req
	return &ynab.Transaction{
		ID:        "t-new",
		AccountID: req.AccountID,
		Date:      req.Date,
		Amount:    ynab.MilliunitsFromAmount(req.Amount),
		PayeeName: req.PayeeName,
		Memo:      req.Memo,
		Cleared:   ynab.ClearedUncleared,
	}, nil
}

func (f *fakeWriter) UpdateTransaction(ctx context.Context, req budget.UpdateRequest) (*ynab.Transaction, error) {
	f.updated = req
	return &ynab.Transaction{ID: req.TransactionID}, nil
}

// noCallClient fails the test if any remote call is attempted.
type noCallClient struct {
	t *testing.T
}

func (c *noCallClient) GetCategory(ctx context.Context, budgetID, categoryID string) (*ynab.Category, error) {
	c.t.Fatal("unexpected GetCategory call")
	return nil, nil
}

func (c *noCallClient) UpdateCategoryBudgeted(ctx context.Context, budgetID, categoryID, month string, budgeted ynab.Milliunits) (*ynab.Category, error) {
	c.t.Fatal("unexpected UpdateCategoryBudgeted call")
	return nil, nil
}

func (c *noCallClient) CreateTransaction(ctx context.Context, budgetID string, tx ynab.NewTransaction) (*ynab.Transaction, error) {
	c.t.Fatal("unexpected CreateTransaction call")
	return nil, nil
}

func (c *noCallClient) UpdateTransaction(ctx context.Context, budgetID, transactionID string, patch ynab.TransactionPatch) (*ynab.Transaction, error) {
	c.t.Fatal("unexpected UpdateTransaction call")
	return nil, nil
}
