package domain

import "github.com/shopspring/decimal"

// Checkpoint is a user-asserted balance of an account at a date. Its effect on the ledger is
// the correcting entry referenced by EntryID.
type Checkpoint struct {
	CheckpointID   string          `json:"checkpointID"`
	AccountID      string          `json:"accountID"`
	CheckpointDate Date            `json:"date"`
	Balance        decimal.Decimal `json:"balance"`
	Description    string          `json:"description"`
	EntryID        string          `json:"entryID,omitempty"`
	AuditFields
}
