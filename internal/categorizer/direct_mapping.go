package categorizer

import (
	"strings"

	"fjacquet/bank-import/internal/logging"
	"fjacquet/bank-import/internal/models"
)

// DirectMappingStrategy maps bank category labels to internal category ids.
// Labels are compared upper-cased and trimmed.
type DirectMappingStrategy struct {
	mappings map[string]int64
}

// NewDirectMappingStrategy resolves each mapping's internal category name
// through index. Mappings naming an unknown category are skipped with a
// warning.
func NewDirectMappingStrategy(mappings []models.CategoryMapping, index *models.CategoryIndex, logger logging.Logger) *DirectMappingStrategy {
	s := &DirectMappingStrategy{mappings: make(map[string]int64, len(mappings))}
	for _, m := range mappings {
		label := normalizeLabel(m.BankCategory)
		if label == "" {
			continue
		}
		id, ok := index.ID(m.InternalCategory)
		if !ok {
			logger.Warn("Skipping category mapping to unknown category",
				logging.F("bank_category", m.BankCategory),
				logging.F(logging.FieldCategory, m.InternalCategory))
			continue
		}
		s.mappings[label] = id
	}
	return s
}

func normalizeLabel(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}

// Name returns the name of this strategy for logging.
func (s *DirectMappingStrategy) Name() string {
	return "DirectMapping"
}

// Lookup returns the internal category id for a bank label.
func (s *DirectMappingStrategy) Lookup(bankCategory string) (int64, bool) {
	label := normalizeLabel(bankCategory)
	if label == "" {
		return 0, false
	}
	id, ok := s.mappings[label]
	return id, ok
}

// Len is the number of usable mappings.
func (s *DirectMappingStrategy) Len() int {
	return len(s.mappings)
}

// MapBankCategory returns the internal category name configured for a bank
// label without resolving it to an id. A later mapping for the same label
// replaces an earlier one, as in NewDirectMappingStrategy.
func MapBankCategory(mappings []models.CategoryMapping, bankCategory string) (string, bool) {
	label := normalizeLabel(bankCategory)
	if label == "" {
		return "", false
	}
	name, found := "", false
	for _, m := range mappings {
		if normalizeLabel(m.BankCategory) == label {
			name, found = m.InternalCategory, true
		}
	}
	return name, found
}
