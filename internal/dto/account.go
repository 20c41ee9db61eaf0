package dto

import (
	"time"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name         string                `json:"name" binding:"required"`
	AccountType  domain.AccountType    `json:"accountType" binding:"required,oneof=USER SYSTEM CATEGORY"`
	Subtype      domain.AccountSubtype `json:"subtype" binding:"omitempty,oneof=ASSET LIABILITY"` // Defaults to ASSET
	CurrencyCode string                `json:"currencyCode" binding:"required,iso4217"`
	GroupID      *string               `json:"groupID"` // Optional
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name       *string `json:"name"`
	IsArchived *bool   `json:"isArchived"`
	GroupID    *string `json:"groupID"` // An empty string removes the account from its group
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string                `json:"accountID"`
	Name          string                `json:"name"`
	AccountType   domain.AccountType    `json:"accountType"`
	Subtype       domain.AccountSubtype `json:"subtype"`
	CurrencyCode  string                `json:"currencyCode"`
	IsArchived    bool                  `json:"isArchived"`
	GroupID       *string               `json:"groupID,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	LastUpdatedAt time.Time             `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		Subtype:       acc.Subtype,
		CurrencyCode:  acc.CurrencyCode,
		IsArchived:    acc.IsArchived,
		GroupID:       acc.GroupID,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}

// CreateGroupRequest defines the data needed to create an account group.
type CreateGroupRequest struct {
	Name        string             `json:"name" binding:"required"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=USER SYSTEM CATEGORY"`
}

// AccountBalanceResponse is the balance of a single account at a date.
type AccountBalanceResponse struct {
	AccountID    string          `json:"accountID"`
	Date         domain.Date     `json:"date"`
	Balance      decimal.Decimal `json:"balance"`
	CurrencyCode string          `json:"currencyCode"`
}
