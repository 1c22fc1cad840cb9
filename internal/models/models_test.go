package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalCategories(t *testing.T) {
	require.Len(t, CanonicalCategories, 18)

	names := make(map[string]CategoryType, len(CanonicalCategories))
	for _, c := range CanonicalCategories {
		_, dup := names[c.Name]
		assert.False(t, dup, "duplicate %s", c.Name)
		names[c.Name] = c.Type
	}
	assert.Equal(t, CategoryTypeExpense, names[CategoryUncategorized])
	assert.Equal(t, CategoryTypeTransfer, names[CategoryTransfers])
	assert.Equal(t, CategoryTypeIncome, names["Paycheck"])
}

func TestNewCategoryIndex(t *testing.T) {
	idx, err := NewCategoryIndex([]Category{
		{ID: 1, Name: "Dining", Type: CategoryTypeExpense},
		{ID: 7, Name: CategoryUncategorized, Type: CategoryTypeExpense},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), idx.UncategorizedID())
	id, ok := idx.ID("Dining")
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)
	_, ok = idx.ID("dining")
	assert.False(t, ok, "names are case-sensitive")
	assert.Equal(t, "Dining", idx.Name(1))
	assert.Equal(t, 2, idx.Len())

	_, err = NewCategoryIndex([]Category{{ID: 1, Name: "Dining"}})
	assert.Error(t, err)
}

func TestParseCategoryType(t *testing.T) {
	got, err := ParseCategoryType(" expense ")
	require.NoError(t, err)
	assert.Equal(t, CategoryTypeExpense, got)

	_, err = ParseCategoryType("SAVINGS")
	assert.Error(t, err)
}

func TestCategorySource(t *testing.T) {
	assert.False(t, CategorySourceDefault.Explicit())
	assert.True(t, CategorySourceBankMapping.Explicit())
	assert.True(t, CategorySourceRule.Explicit())
	assert.Equal(t, "rule", CategorySourceRule.String())
	assert.Equal(t, "default", CategorySource(42).String())
}
