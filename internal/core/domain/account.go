package domain

// AccountClass defines the fundamental accounting class of an account.
type AccountClass string

const (
	Asset     AccountClass = "asset"
	Liability AccountClass = "liability"
	Equity    AccountClass = "equity"
	Revenue   AccountClass = "revenue"
	Expense   AccountClass = "expense"
)

// Valid reports whether c is a known account class.
func (c AccountClass) Valid() bool {
	switch c {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account is a ledger account. Balances are never stored on the account;
// they are projected from journal entry lines on demand.
type Account struct {
	AccountID string       `json:"account_id"`
	Code      string       `json:"code"` // unique, e.g. "1000"
	Name      string       `json:"name"`
	Class     AccountClass `json:"class"`
	IsActive  bool         `json:"is_active"`
	AuditFields
}

// Bootstrap chart codes. The chart is created once if absent, idempotently;
// expense-category accounts beyond GeneralExpense are created on first use.
const (
	CodeCash           = "1000"
	CodeBank           = "1010"
	CodeReceivables    = "1100"
	CodeInventory      = "1200"
	CodePayables       = "2000"
	CodeCapital        = "3000"
	CodeSales          = "4000"
	CodeCOGS           = "5000"
	CodeGeneralExpense = "6000"
)
