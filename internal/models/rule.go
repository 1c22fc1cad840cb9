package models

import "regexp"

// ClassificationRule overrides category and/or party when Pattern matches
// the lower-cased description. Empty Category or Party leaves that field
// alone.
type ClassificationRule struct {
	Match    string
	Pattern  *regexp.Regexp
	Category string
	Party    string
}

// CategoryMapping maps a bank-provided category label to an internal name.
type CategoryMapping struct {
	BankCategory     string `yaml:"bank_cat" json:"bank_cat"`
	InternalCategory string `yaml:"internal_cat" json:"internal_cat"`
}
