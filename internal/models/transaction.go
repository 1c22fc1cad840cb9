package models

import "github.com/shopspring/decimal"

// Transaction is a persisted ledger row. Positive amounts are inflows.
type Transaction struct {
	ID                   int64           `json:"id"`
	Date                 string          `json:"date"`
	Description          string          `json:"description"`
	Amount               decimal.Decimal `json:"amount"`
	AccountID            int64           `json:"account_id"`
	CategoryID           int64           `json:"category_id"`
	PartyID              *int64          `json:"party_id,omitempty"`
	IsCleared            bool            `json:"is_cleared"`
	RelatedTransactionID *int64          `json:"related_transaction_id,omitempty"`
}

// CategorySource records which stage chose a candidate's category.
type CategorySource int

const (
	// CategorySourceDefault means no stage matched; the store may still
	// apply the party's default category.
	CategorySourceDefault CategorySource = iota
	// CategorySourceBankMapping means the bank category mapped directly.
	CategorySourceBankMapping
	// CategorySourceRule means a classification rule overrode the category.
	CategorySourceRule
)

func (s CategorySource) String() string {
	switch s {
	case CategorySourceBankMapping:
		return "bank_mapping"
	case CategorySourceRule:
		return "rule"
	default:
		return "default"
	}
}

// Explicit reports whether the category was chosen by mapping or rule.
func (s CategorySource) Explicit() bool {
	return s != CategorySourceDefault
}

// Candidate is a normalized row awaiting persistence.
type Candidate struct {
	Date           string
	Amount         decimal.Decimal
	Description    string
	PartyName      string
	AccountID      int64
	CategoryID     int64
	CategorySource CategorySource
}
