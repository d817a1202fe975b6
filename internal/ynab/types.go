package ynab

// Transaction cleared statuses accepted by the YNAB API.
const (
	ClearedCleared    = "cleared"
	ClearedUncleared  = "uncleared"
	ClearedReconciled = "reconciled"
)

// Budget is a budget summary as returned by the YNAB API.
type Budget struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	LastModifiedOn string `json:"last_modified_on,omitempty"`
	FirstMonth     string `json:"first_month,omitempty"`
	LastMonth      string `json:"last_month,omitempty"`
}

// Account is a budget account with its current balance.
type Account struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Type     string     `json:"type"`
	OnBudget bool       `json:"on_budget"`
	Closed   bool       `json:"closed"`
	Deleted  bool       `json:"deleted"`
	Balance  Milliunits `json:"balance"`
}

// CategoryGroup is a named group of categories.
type CategoryGroup struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Hidden     bool       `json:"hidden"`
	Deleted    bool       `json:"deleted"`
	Categories []Category `json:"categories,omitempty"`
}

// Category is a budget category scoped to a (budget, month) pair. Budgeted
// is mutable through UpdateCategoryBudgeted; Balance is read-only here.
type Category struct {
	ID              string     `json:"id"`
	CategoryGroupID string     `json:"category_group_id,omitempty"`
	Name            string     `json:"name"`
	Hidden          bool       `json:"hidden"`
	Deleted         bool       `json:"deleted"`
	Budgeted        Milliunits `json:"budgeted"`
	Activity        Milliunits `json:"activity"`
	Balance         Milliunits `json:"balance"`
}

// Transaction is a transaction as returned by the YNAB API.
type Transaction struct {
	ID           string     `json:"id"`
	AccountID    string     `json:"account_id"`
	AccountName  string     `json:"account_name,omitempty"`
	Date         string     `json:"date"`
	Amount       Milliunits `json:"amount"`
	PayeeID      string     `json:"payee_id,omitempty"`
	PayeeName    string     `json:"payee_name,omitempty"`
	CategoryID   string     `json:"category_id,omitempty"`
	CategoryName string     `json:"category_name,omitempty"`
	Memo         string     `json:"memo,omitempty"`
	Cleared      string     `json:"cleared"`
	Approved     bool       `json:"approved"`
	Deleted      bool       `json:"deleted"`
}

// NewTransaction is the sparse creation payload. Required fields are always
// present; optional fields are omitted entirely when unset, never sent as
// null or empty placeholders.
type NewTransaction struct {
	AccountID  string     `json:"account_id"`
	Date       string     `json:"date"`
	Amount     Milliunits `json:"amount"`
	Cleared    string     `json:"cleared"`
	Approved   bool       `json:"approved"`
	PayeeID    string     `json:"payee_id,omitempty"`
	PayeeName  string     `json:"payee_name,omitempty"`
	CategoryID string     `json:"category_id,omitempty"`
	Memo       string     `json:"memo,omitempty"`
}

// TransactionPatch is the sparse update payload. A nil field is absent from
// the PATCH body; per-field presence is explicit rather than inferred from
// zero values.
type TransactionPatch struct {
	Amount     *Milliunits `json:"amount,omitempty"`
	Date       *string     `json:"date,omitempty"`
	PayeeName  *string     `json:"payee_name,omitempty"`
	CategoryID *string     `json:"category_id,omitempty"`
	Memo       *string     `json:"memo,omitempty"`
	Cleared    *string     `json:"cleared,omitempty"`
	Approved   *bool       `json:"approved,omitempty"`
}

// IsEmpty reports whether the patch sets no fields at all.
func (p TransactionPatch) IsEmpty() bool {
	return p.Amount == nil &&
		p.Date == nil &&
		p.PayeeName == nil &&
		p.CategoryID == nil &&
		p.Memo == nil &&
		p.Cleared == nil &&
		p.Approved == nil
}

// Payee is a payee as returned by the YNAB API.
type Payee struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Deleted bool   `json:"deleted"`
}

// Month is a single budget month with per-category detail.
type Month struct {
	Month        string     `json:"month"`
	Income       Milliunits `json:"income"`
	Budgeted     Milliunits `json:"budgeted"`
	Activity     Milliunits `json:"activity"`
	ToBeBudgeted Milliunits `json:"to_be_budgeted"`
	Categories   []Category `json:"categories,omitempty"`
}

// TransactionFilter narrows a transaction listing. AccountID takes
// precedence over CategoryID when both are set.
type TransactionFilter struct {
	SinceDate  string
	AccountID  string
	CategoryID string
}
