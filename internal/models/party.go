package models

// Party is a counterparty, keyed by its unique name. DefaultCategoryID is
// fixed when the party is first created.
type Party struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	IsPerson          bool   `json:"is_person"`
	DefaultCategoryID *int64 `json:"default_category_id,omitempty"`
}
