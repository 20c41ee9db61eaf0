package models

// Account represents a row of the accounts table.
type Account struct {
	AccountID    string  `db:"account_id"`
	Name         string  `db:"name"`
	AccountType  string  `db:"account_type"`
	Subtype      string  `db:"subtype"`
	CurrencyCode string  `db:"currency_code"`
	IsArchived   bool    `db:"is_archived"`
	GroupID      *string `db:"group_id"` // Nullable
	AuditFields
}

// AccountGroup represents a row of the account_groups table.
type AccountGroup struct {
	GroupID      string `db:"group_id"`
	Name         string `db:"name"`
	AccountType  string `db:"account_type"`
	DisplayOrder int    `db:"display_order"`
	AuditFields
}
