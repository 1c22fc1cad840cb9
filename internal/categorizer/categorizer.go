// Package categorizer assigns categories and parties to normalized rows.
//
// Two strategies run for every file. DirectMappingStrategy translates the
// bank's own category label through the institution's mapping table while
// the row is normalized. RuleStrategy then scans the institution's ordered
// description rules and lets the first match override the category and
// the party. Whatever neither strategy decides is left to the store,
// which falls back to the party's default category and finally to
// Uncategorized.
package categorizer

import (
	"fjacquet/bank-import/internal/logging"
	"fjacquet/bank-import/internal/models"
)

// Stats counts how candidates of one file were classified.
type Stats struct {
	Total       int
	BankMapped  int
	RuleMatched int
	Unresolved  int
}

// LogSummary writes the counts at info level.
func (s Stats) LogSummary(logger logging.Logger) {
	logger.Info("Classification summary",
		logging.F(logging.FieldCount, s.Total),
		logging.F("bank_mapped", s.BankMapped),
		logging.F("rule_matched", s.RuleMatched),
		logging.F("unresolved", s.Unresolved))
}

// Categorizer runs the strategies configured for one institution file.
type Categorizer struct {
	Mapping *DirectMappingStrategy
	Rules   *RuleStrategy
	stats   Stats
}

// New builds the strategies for one file from the institution's mappings
// and rules.
func New(mappings []models.CategoryMapping, rules []models.ClassificationRule, index *models.CategoryIndex, logger logging.Logger) *Categorizer {
	return &Categorizer{
		Mapping: NewDirectMappingStrategy(mappings, index, logger),
		Rules:   NewRuleStrategy(rules, index, logger),
	}
}

// Classify applies the rule strategy to a candidate whose bank category
// was already looked up, and records the result.
func (c *Categorizer) Classify(cand *models.Candidate) {
	c.stats.Total++
	if c.Rules.Apply(cand) && cand.CategorySource == models.CategorySourceRule {
		c.stats.RuleMatched++
		return
	}
	switch cand.CategorySource {
	case models.CategorySourceBankMapping:
		c.stats.BankMapped++
	case models.CategorySourceDefault:
		c.stats.Unresolved++
	}
}

// Stats returns the counts accumulated so far.
func (c *Categorizer) Stats() Stats {
	return c.stats
}
