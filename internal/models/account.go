package models

import "github.com/shopspring/decimal"

// Account is a row of the accounts table. Name is its identity key.
type Account struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	IsActive       bool            `json:"is_active"`
}

// AccountSpec describes the account an institution's rows are booked to.
type AccountSpec struct {
	Name           string          `yaml:"name" json:"name"`
	Type           string          `yaml:"type" json:"type"`
	InitialBalance decimal.Decimal `yaml:"initial_balance" json:"initial_balance"`
}
