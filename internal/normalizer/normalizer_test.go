package normalizer

import (
	"testing"

	"fjacquet/bank-import/internal/common"
	"fjacquet/bank-import/internal/dateutils"
	"fjacquet/bank-import/internal/institution"
	"fjacquet/bank-import/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapLookup map[string]int64

func (m mapLookup) Lookup(label string) (int64, bool) {
	id, ok := m[label]
	return id, ok
}

func testIndex(t *testing.T) *models.CategoryIndex {
	t.Helper()
	idx, err := models.NewCategoryIndex([]models.Category{
		{ID: 5, Name: "Dining", Type: models.CategoryTypeExpense},
		{ID: 18, Name: models.CategoryUncategorized, Type: models.CategoryTypeExpense},
	})
	require.NoError(t, err)
	return idx
}

func testInstitution(t *testing.T) *institution.Institution {
	t.Helper()
	format, err := dateutils.Compile("MM/dd/yyyy")
	require.NoError(t, err)
	return &institution.Institution{
		Key:        "visa",
		Columns:    institution.Columns{Date: "Date", Amount: "Amount", Payee: "Payee", BankCategory: "Category"},
		DateFormat: format,
		Account:    models.AccountSpec{Name: "Visa"},
	}
}

func row(date, amount, payee, category string) common.Record {
	return common.Record{Values: map[string]string{
		"Date": date, "Amount": amount, "Payee": payee, "Category": category,
	}}
}

func TestNormalize(t *testing.T) {
	n := New(testInstitution(t), 3, mapLookup{"RESTAURANTS": 5}, testIndex(t))

	tests := []struct {
		name       string
		rec        common.Record
		outcome    Outcome
		date       string
		amount     string
		categoryID int64
		source     models.CategorySource
	}{
		{
			name: "mapped bank category", rec: row("01/15/2024", "-5.75", "STARBUCKS #123", "RESTAURANTS"),
			outcome: Accepted, date: "2024-01-15", amount: "-5.75", categoryID: 5, source: models.CategorySourceBankMapping,
		},
		{
			name: "currency formatting stripped", rec: row("1/2/2024", "$1,234.56", "PAYROLL", ""),
			outcome: Accepted, date: "2024-01-02", amount: "1234.56", categoryID: 18, source: models.CategorySourceDefault,
		},
		{
			name: "unknown bank category falls back", rec: row("01/15/2024", "-1", "X", "GAMES"),
			outcome: Accepted, date: "2024-01-15", amount: "-1", categoryID: 18, source: models.CategorySourceDefault,
		},
		{name: "missing payee", rec: row("01/15/2024", "-1", "   ", ""), outcome: SkippedMissingField},
		{name: "missing date", rec: row("", "-1", "X", ""), outcome: SkippedMissingField},
		{name: "missing amount", rec: row("01/15/2024", "", "X", ""), outcome: SkippedMissingField},
		{name: "day 32", rec: row("01/32/2024", "-1", "X", ""), outcome: SkippedUnparseableDate},
		{name: "no digits in amount", rec: row("01/15/2024", "N/A", "X", ""), outcome: SkippedUnparseableAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := n.Normalize(tt.rec)
			require.Equal(t, tt.outcome, res.Outcome, res.Reason)
			if tt.outcome != Accepted {
				assert.NotEmpty(t, res.Reason)
				return
			}
			c := res.Candidate
			assert.Equal(t, tt.date, c.Date)
			assert.True(t, decimal.RequireFromString(tt.amount).Equal(c.Amount), "amount %s", c.Amount)
			assert.Equal(t, tt.categoryID, c.CategoryID)
			assert.Equal(t, tt.source, c.CategorySource)
			assert.Equal(t, int64(3), c.AccountID)
			assert.Equal(t, c.Description, c.PartyName)
		})
	}
}

func TestNormalize_NoMappingConfigured(t *testing.T) {
	inst := testInstitution(t)
	inst.Columns.BankCategory = ""
	n := New(inst, 1, nil, testIndex(t))

	res := n.Normalize(row("01/15/2024", "-5.75", "STARBUCKS", "RESTAURANTS"))
	require.Equal(t, Accepted, res.Outcome)
	assert.Equal(t, int64(18), res.Candidate.CategoryID)
}

func TestStats(t *testing.T) {
	var s Stats
	s.Add(Accepted)
	s.Add(Accepted)
	s.Add(SkippedUnparseableDate)
	s.Add(Outcome(99))

	assert.Equal(t, 2, s.Count(Accepted))
	assert.Equal(t, 1, s.Count(SkippedUnparseableDate))
	assert.Equal(t, 3, s.Total())
	assert.Equal(t, 1, s.Skipped())
	assert.Equal(t, "skipped_unparseable_amount", SkippedUnparseableAmount.String())
	assert.Len(t, Outcomes(), 4)
}
