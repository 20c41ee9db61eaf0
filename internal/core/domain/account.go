package domain

// AccountType classifies who owns an account and how it may be posted to.
type AccountType string

const (
	// UserAccount is a real-world account the household tracks (checking, credit card, brokerage).
	UserAccount AccountType = "USER"
	// SystemAccount is owned by the engine ("Opening Balances", "Checkpoint Adjustment").
	SystemAccount AccountType = "SYSTEM"
	// CategoryAccount classifies income and expenses and accepts postings in any currency.
	CategoryAccount AccountType = "CATEGORY"
)

// AccountSubtype determines the sign convention of every line that touches the account.
type AccountSubtype string

const (
	Asset     AccountSubtype = "ASSET"
	Liability AccountSubtype = "LIABILITY"
)

// Names of the accounts the engine creates on demand.
const (
	OpeningBalancesAccountName      = "Opening Balances"
	CheckpointAdjustmentAccountName = "Checkpoint Adjustment"
	ReinvestedDividendsAccountName  = "Reinvested Dividends"
	InvestmentExpensesAccountName   = "Investment Expenses"
	RealizedGainsAccountName        = "Realized Gains/Losses"
	DividendIncomeAccountName       = "Dividend Income"
	InterestIncomeAccountName       = "Interest Income"
)

// Account represents a ledger account within the core domain.
type Account struct {
	AccountID    string         `json:"accountID"`
	Name         string         `json:"name"`
	AccountType  AccountType    `json:"accountType"`
	Subtype      AccountSubtype `json:"subtype"`
	CurrencyCode string         `json:"currencyCode"`
	IsArchived   bool           `json:"isArchived"`
	GroupID      *string        `json:"groupID,omitempty"`
	AuditFields
}

func (a Account) IsUser() bool     { return a.AccountType == UserAccount }
func (a Account) IsCategory() bool { return a.AccountType == CategoryAccount }

// AccountGroup is a named, ordered collection of accounts of one type.
type AccountGroup struct {
	GroupID      string      `json:"groupID"`
	Name         string      `json:"name"`
	AccountType  AccountType `json:"accountType"`
	DisplayOrder int         `json:"displayOrder"`
	AuditFields
}
