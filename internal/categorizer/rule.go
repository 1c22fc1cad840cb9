package categorizer

import (
	"strings"

	"fjacquet/bank-import/internal/logging"
	"fjacquet/bank-import/internal/models"
)

// MatchRule returns the index of the first rule whose pattern matches the
// lower-cased description.
func MatchRule(rules []models.ClassificationRule, description string) (int, bool) {
	desc := strings.ToLower(description)
	for i, r := range rules {
		if r.Pattern != nil && r.Pattern.MatchString(desc) {
			return i, true
		}
	}
	return -1, false
}

type resolvedRule struct {
	models.ClassificationRule
	categoryID int64
	hasID      bool
}

// RuleStrategy applies an institution's ordered rules. The first matching
// rule wins even when it overrides nothing.
type RuleStrategy struct {
	rules  []resolvedRule
	plain  []models.ClassificationRule
	logger logging.Logger
}

// NewRuleStrategy resolves rule category names through index. A rule
// naming an unknown category keeps only its party override.
func NewRuleStrategy(rules []models.ClassificationRule, index *models.CategoryIndex, logger logging.Logger) *RuleStrategy {
	s := &RuleStrategy{
		rules:  make([]resolvedRule, len(rules)),
		plain:  rules,
		logger: logger,
	}
	for i, r := range rules {
		s.rules[i].ClassificationRule = r
		if r.Category == "" {
			continue
		}
		id, ok := index.ID(r.Category)
		if !ok {
			logger.Warn("Rule names an unknown category; only its party override applies",
				logging.F(logging.FieldRule, r.Match),
				logging.F(logging.FieldCategory, r.Category))
			continue
		}
		s.rules[i].categoryID = id
		s.rules[i].hasID = true
	}
	return s
}

// Name returns the name of this strategy for logging.
func (s *RuleStrategy) Name() string {
	return "Rule"
}

// Apply overrides the category and/or party of c from the first matching
// rule. It reports whether any rule matched.
func (s *RuleStrategy) Apply(c *models.Candidate) bool {
	i, ok := MatchRule(s.plain, c.Description)
	if !ok {
		return false
	}
	r := s.rules[i]
	if r.hasID {
		c.CategoryID = r.categoryID
		c.CategorySource = models.CategorySourceRule
	}
	if r.Party != "" {
		c.PartyName = r.Party
	}
	s.logger.Debug("Rule matched",
		logging.F(logging.FieldRule, r.Match),
		logging.F(logging.FieldCategory, r.Category),
		logging.F(logging.FieldParty, c.PartyName))
	return true
}
