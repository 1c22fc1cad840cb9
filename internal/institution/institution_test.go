package institution

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/bank-import/internal/logging"
	"fjacquet/bank-import/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mapsJSON = `{
	"visa": {
		"dateFormat": "MM/dd/yyyy",
		"Date": "Date",
		"Amount": "Amount",
		"Payee": "Payee",
		"BankCategory": "Category",
		"account": {"name": "Visa", "type": "CREDIT", "initial_balance": 0},
		"category_mappings": [{"bank_cat": "RESTAURANTS", "internal_cat": "Dining"}],
		"rules": [
			{"match": "amazon|amzn", "category": "Shopping"},
			{"match": "([", "category": "Broken"},
			{"match": "netflix", "party": "Netflix"}
		]
	},
	"checking": {
		"dateFormat": "yyyy-MM-dd",
		"Date": "Posted",
		"Amount": "Value",
		"Payee": "Description",
		"account": {"name": "Checking", "type": "BANK", "initial_balance": "1500.25"},
		"delimiter": ";",
		"encoding": "windows-1252"
	},
	"savings": {
		"dateFormat": "yyyy-MM-dd",
		"Date": "Date",
		"Amount": "Amount",
		"Payee": "Payee",
		"account": {"name": "Checking", "type": "BANK"}
	},
	"broken": {
		"dateFormat": "YYYY-MM-DD",
		"Date": "Date",
		"Amount": "Amount",
		"Payee": "Payee",
		"account": {"name": "Broken"}
	},
	"noaccount": {
		"dateFormat": "yyyy-MM-dd",
		"Date": "Date",
		"Amount": "Amount",
		"Payee": "Payee"
	}
}`

func writeMaps(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_JSON(t *testing.T) {
	logger := logging.NewMockLogger()
	reg, err := Load(writeMaps(t, "maps.json", mapsJSON), logger)
	require.NoError(t, err)

	assert.Equal(t, []string{"broken", "checking", "noaccount", "savings", "visa"}, reg.Keys())

	visa, err := reg.Lookup("visa")
	require.NoError(t, err)
	assert.Equal(t, "Visa", visa.Account.Name)
	assert.Equal(t, "Category", visa.Columns.BankCategory)
	require.Len(t, visa.CategoryMappings, 1)
	assert.Equal(t, "Dining", visa.CategoryMappings[0].InternalCategory)

	require.Len(t, visa.Rules, 2, "invalid pattern is dropped")
	assert.Equal(t, "Shopping", visa.Rules[0].Category)
	assert.True(t, visa.Rules[0].Pattern.MatchString("AMZN Mktp"), "rules are case-insensitive")
	assert.Equal(t, "Netflix", visa.Rules[1].Party)
	assert.True(t, logger.HasEntry("WARN", "Dropping rule with invalid pattern"))

	checking, err := reg.Lookup("checking")
	require.NoError(t, err)
	assert.Equal(t, ';', checking.CSV.Delimiter)
	assert.Equal(t, "windows-1252", checking.CSV.Encoding)
	assert.True(t, decimal.RequireFromString("1500.25").Equal(checking.Account.InitialBalance))

	assert.True(t, logger.HasEntry("WARN", "Account is shared with another institution; rows will be merged"))
}

func TestLookup_Errors(t *testing.T) {
	reg, err := Load(writeMaps(t, "maps.json", mapsJSON), logging.NewMockLogger())
	require.NoError(t, err)

	tests := []struct {
		key    string
		reason string
	}{
		{"amex", "unknown institution key"},
		{"broken", "invalid dateFormat"},
		{"noaccount", "missing account descriptor"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, err := reg.Lookup(tt.key)
			var cfgErr *parsererror.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.key, cfgErr.Key)
			assert.Equal(t, tt.reason, cfgErr.Reason)
		})
	}
}

func TestLoad_YAML(t *testing.T) {
	content := `
chase:
  dateFormat: MM/dd/yyyy
  Date: Transaction Date
  Amount: Amount
  Payee: Description
  account:
    name: Chase Checking
    type: BANK
    initial_balance: 250.50
  rules:
    - match: "^payroll"
      category: Paycheck
      party: Employer
`
	reg, err := Load(writeMaps(t, "institutions.yaml", content), logging.NewMockLogger())
	require.NoError(t, err)

	chase, err := reg.Lookup("chase")
	require.NoError(t, err)
	assert.Equal(t, "Transaction Date", chase.Columns.Date)
	assert.True(t, decimal.RequireFromString("250.5").Equal(chase.Account.InitialBalance))
	require.Len(t, chase.Rules, 1)
	assert.Equal(t, "Employer", chase.Rules[0].Party)
	assert.Equal(t, []string{"01/02/2006", "1/2/2006"}, chase.DateFormat.Layouts())
}

func TestLoad_FatalErrors(t *testing.T) {
	logger := logging.NewMockLogger()

	_, err := Load(filepath.Join(t.TempDir(), "maps.json"), logger)
	assert.Error(t, err, "missing file")

	_, err = Load(writeMaps(t, "maps.json", `{"visa": `), logger)
	assert.Error(t, err, "malformed json")

	_, err = Load(writeMaps(t, "maps.yaml", "visa: [unclosed"), logger)
	assert.Error(t, err, "malformed yaml")

	_, err = Load(writeMaps(t, "maps.json", `{}`), logger)
	assert.Error(t, err, "empty mapping")
}

func TestLoad_InvalidDelimiter(t *testing.T) {
	content := `{"x": {"dateFormat": "yyyy-MM-dd", "Date": "D", "Amount": "A", "Payee": "P",
		"account": {"name": "X"}, "delimiter": ";;"}}`
	reg, err := Load(writeMaps(t, "maps.json", content), logging.NewMockLogger())
	require.NoError(t, err)

	_, err = reg.Lookup("x")
	var cfgErr *parsererror.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Reason, "delimiter")
}
