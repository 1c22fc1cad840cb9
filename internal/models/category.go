// Package models provides the entities persisted by the importer and the
// in-memory records that flow between the import stages.
package models

import (
	"fmt"
	"strings"
)

// CategoryType classifies a category for reporting.
type CategoryType string

const (
	CategoryTypeIncome   CategoryType = "INCOME"
	CategoryTypeExpense  CategoryType = "EXPENSE"
	CategoryTypeTransfer CategoryType = "TRANSFER"
)

// ParseCategoryType accepts INCOME, EXPENSE or TRANSFER in any case.
func ParseCategoryType(s string) (CategoryType, error) {
	switch t := CategoryType(strings.ToUpper(strings.TrimSpace(s))); t {
	case CategoryTypeIncome, CategoryTypeExpense, CategoryTypeTransfer:
		return t, nil
	default:
		return "", fmt.Errorf("unknown category type %q", s)
	}
}

// Well-known category names.
const (
	CategoryUncategorized = "Uncategorized"
	CategoryTransfers     = "Transfers"
)

// Category is a row of the categories table.
type Category struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	ParentID *int64       `json:"parent_id,omitempty"`
	Type     CategoryType `json:"type"`
}

// CategorySeed is an entry of the canonical category list.
type CategorySeed struct {
	Name string
	Type CategoryType
}

// CanonicalCategories is seeded into every store, in this order.
var CanonicalCategories = []CategorySeed{
	{"Paycheck", CategoryTypeIncome},
	{"Other Income", CategoryTypeIncome},
	{"Utilities", CategoryTypeExpense},
	{"Groceries", CategoryTypeExpense},
	{"Dining", CategoryTypeExpense},
	{"Travel", CategoryTypeExpense},
	{"Fuel", CategoryTypeExpense},
	{"Health", CategoryTypeExpense},
	{"Entertainment", CategoryTypeExpense},
	{"Hobbies", CategoryTypeExpense},
	{"Shopping", CategoryTypeExpense},
	{"Home Supplies", CategoryTypeExpense},
	{"Child Health and Education", CategoryTypeExpense},
	{"Shared Expenses", CategoryTypeExpense},
	{"Taxes", CategoryTypeExpense},
	{"Insurance", CategoryTypeExpense},
	{CategoryTransfers, CategoryTypeTransfer},
	{CategoryUncategorized, CategoryTypeExpense},
}
