package models

import "fmt"

// CategoryIndex resolves category names to store ids. It is built once
// after the store is initialized and passed to every stage that needs it.
type CategoryIndex struct {
	byName          map[string]int64
	byID            map[int64]Category
	uncategorizedID int64
}

// NewCategoryIndex builds an index from the stored categories. It fails if
// the Uncategorized fallback is absent.
func NewCategoryIndex(categories []Category) (*CategoryIndex, error) {
	idx := &CategoryIndex{
		byName: make(map[string]int64, len(categories)),
		byID:   make(map[int64]Category, len(categories)),
	}
	for _, c := range categories {
		idx.byName[c.Name] = c.ID
		idx.byID[c.ID] = c
	}
	id, ok := idx.byName[CategoryUncategorized]
	if !ok {
		return nil, fmt.Errorf("fallback category %q is missing", CategoryUncategorized)
	}
	idx.uncategorizedID = id
	return idx, nil
}

// ID returns the id of the category with the exact given name.
func (i *CategoryIndex) ID(name string) (int64, bool) {
	id, ok := i.byName[name]
	return id, ok
}

// Name returns the name of category id, or "" when unknown.
func (i *CategoryIndex) Name(id int64) string {
	return i.byID[id].Name
}

// Category returns the full category for id.
func (i *CategoryIndex) Category(id int64) (Category, bool) {
	c, ok := i.byID[id]
	return c, ok
}

// UncategorizedID is the id of the global fallback category.
func (i *CategoryIndex) UncategorizedID() int64 {
	return i.uncategorizedID
}

// Len returns the number of indexed categories.
func (i *CategoryIndex) Len() int {
	return len(i.byName)
}
