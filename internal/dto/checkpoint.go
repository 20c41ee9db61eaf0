package dto

import "github.com/shopspring/decimal"

// CreateCheckpointRequest asserts the balance of an account at the end of a date.
type CreateCheckpointRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Date        string          `json:"date" binding:"required"`
	Balance     decimal.Decimal `json:"balance"`
	Description string          `json:"description"`
}

// SetOpeningBalanceRequest declares an account's baseline. Amount is positive for money
// held on an asset and for money owed on a liability.
type SetOpeningBalanceRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date" binding:"required"`
}
