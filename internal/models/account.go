package models

import (
	"time"
)

type AccountType string

const (
	// Classic is a plain current account
	Classic AccountType = "classic"

	// Savings accrues interest and supports savings withdrawals
	Savings AccountType = "savings"

	// Business carries a member role matrix with per-role limits
	Business AccountType = "business"
)

type BusinessRole string

const (
	RoleOwner    BusinessRole = "owner"
	RoleManager  BusinessRole = "manager"
	RoleEmployee BusinessRole = "employee"
)

// Account represents a bank account. Cards are owned here by number;
// a card only carries the IBAN back-reference, never a pointer.
type Account struct {
	IBAN       string           `json:"iban"`
	Currency   string           `json:"currency"`
	Balance    float64          `json:"balance"`
	MinBalance float64          `json:"min_balance"`
	Type       AccountType      `json:"type"`
	OwnerEmail string           `json:"owner"`
	Alias      string           `json:"alias,omitempty"`
	Cards      map[string]*Card `json:"-"`
	CreatedAt  time.Time        `json:"created_at"`

	// savings only
	InterestRate float64 `json:"interest_rate,omitempty"`

	// business only: member email -> role, plus employee limit overrides
	Roles         map[string]BusinessRole `json:"-"`
	SpendingLimit float64                 `json:"-"`
	DepositLimit  float64                 `json:"-"`
}

// HasCard reports whether the account links the given card number.
func (a *Account) HasCard(number string) bool {
	_, ok := a.Cards[number]
	return ok
}

// RoleOf returns the business role of a member, if any.
func (a *Account) RoleOf(email string) (BusinessRole, bool) {
	if a.Type != Business {
		return "", false
	}
	role, ok := a.Roles[email]
	return role, ok
}

type CreateAccountRequest struct {
	OwnerEmail   string  `json:"owner" validate:"required"`
	Currency     string  `json:"currency" validate:"required"`
	Type         string  `json:"type" validate:"required,oneof=classic savings business"`
	InterestRate float64 `json:"interest_rate,omitempty"`
}

type AccountResponse struct {
	IBAN       string    `json:"iban"`
	Currency   string    `json:"currency"`
	Balance    float64   `json:"balance"`
	MinBalance float64   `json:"min_balance"`
	Type       string    `json:"type"`
	Owner      string    `json:"owner"`
	Alias      string    `json:"alias,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
