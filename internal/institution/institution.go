// Package institution loads the per-institution import configuration: the
// column names of each bank's CSV export, its date pattern, the target
// account, the bank-category mapping table and the ordered description
// rules.
//
// The file is read once per run. JSON files (the historical maps.json) and
// YAML files are both accepted. A missing or malformed file fails the whole
// run, while a single invalid entry only fails the imports that use it.
package institution

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"fjacquet/bank-import/internal/common"
	"fjacquet/bank-import/internal/dateutils"
	"fjacquet/bank-import/internal/logging"
	"fjacquet/bank-import/internal/models"
	"fjacquet/bank-import/internal/parsererror"
)

// Columns names the CSV headers holding each canonical field.
type Columns struct {
	Date         string
	Amount       string
	Payee        string
	BankCategory string
}

// Institution is a validated configuration entry.
type Institution struct {
	Key              string
	Columns          Columns
	DateFormat       *dateutils.Format
	Account          models.AccountSpec
	CategoryMappings []models.CategoryMapping
	Rules            []models.ClassificationRule
	CSV              common.Options
}

type rawRule struct {
	Match    string `yaml:"match" json:"match"`
	Category string `yaml:"category" json:"category"`
	Party    string `yaml:"party" json:"party"`
}

type rawInstitution struct {
	DateFormat       string                   `yaml:"dateFormat" json:"dateFormat"`
	Date             string                   `yaml:"Date" json:"Date"`
	Amount           string                   `yaml:"Amount" json:"Amount"`
	Payee            string                   `yaml:"Payee" json:"Payee"`
	BankCategory     string                   `yaml:"BankCategory" json:"BankCategory"`
	Account          *models.AccountSpec      `yaml:"account" json:"account"`
	CategoryMappings []models.CategoryMapping `yaml:"category_mappings" json:"category_mappings"`
	Rules            []rawRule                `yaml:"rules" json:"rules"`
	Encoding         string                   `yaml:"encoding" json:"encoding"`
	Delimiter        string                   `yaml:"delimiter" json:"delimiter"`
}

type entry struct {
	inst *Institution
	err  error
}

// Registry answers institution lookups for one run.
type Registry struct {
	source  string
	entries map[string]entry
}

// Load reads and validates the institution file at path.
func Load(path string, logger logging.Logger) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read institution file %s: %w", path, err)
	}
	format := "json"
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
		format = "yaml"
	}
	return Parse(data, format, path, logger)
}

// Parse decodes data in the given format ("json" or "yaml"). source is
// only used in messages.
func Parse(data []byte, format, source string, logger logging.Logger) (*Registry, error) {
	raw := map[string]rawInstitution{}
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("malformed institution file %s: %w", source, err)
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("malformed institution file %s: %w", source, err)
		}
	default:
		return nil, fmt.Errorf("unsupported institution file format %q", format)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("institution file %s defines no institutions", source)
	}

	reg := &Registry{source: source, entries: make(map[string]entry, len(raw))}
	accountOwners := map[string]string{}

	for _, key := range sortedKeys(raw) {
		log := logger.WithField(logging.FieldInstitution, key)
		inst, err := build(key, raw[key], log)
		if err != nil {
			log.WithError(err).Warn("Institution entry is invalid; imports using it will fail")
			reg.entries[key] = entry{err: err}
			continue
		}
		if owner, shared := accountOwners[inst.Account.Name]; shared {
			log.Warn("Account is shared with another institution; rows will be merged",
				logging.F(logging.FieldAccount, inst.Account.Name),
				logging.F("shared_with", owner))
		} else {
			accountOwners[inst.Account.Name] = key
		}
		reg.entries[key] = entry{inst: inst}
	}

	logger.Info("Loaded institution configuration",
		logging.F(logging.FieldFile, source),
		logging.F(logging.FieldCount, len(reg.entries)))
	return reg, nil
}

func build(key string, r rawInstitution, log logging.Logger) (*Institution, error) {
	invalid := func(reason string, err error) error {
		return &parsererror.ConfigError{Key: key, Reason: reason, Err: err}
	}

	cols := Columns{
		Date:         strings.TrimSpace(r.Date),
		Amount:       strings.TrimSpace(r.Amount),
		Payee:        strings.TrimSpace(r.Payee),
		BankCategory: strings.TrimSpace(r.BankCategory),
	}
	switch {
	case cols.Date == "":
		return nil, invalid("missing Date column name", nil)
	case cols.Amount == "":
		return nil, invalid("missing Amount column name", nil)
	case cols.Payee == "":
		return nil, invalid("missing Payee column name", nil)
	}

	format, err := dateutils.Compile(r.DateFormat)
	if err != nil {
		return nil, invalid("invalid dateFormat", err)
	}

	if r.Account == nil || strings.TrimSpace(r.Account.Name) == "" {
		return nil, invalid("missing account descriptor", nil)
	}
	account := *r.Account
	account.Name = strings.TrimSpace(account.Name)

	opts := common.Options{Encoding: r.Encoding}
	if _, err := common.LookupEncoding(r.Encoding); err != nil {
		return nil, invalid("invalid encoding", err)
	}
	if r.Delimiter != "" {
		if utf8.RuneCountInString(r.Delimiter) != 1 {
			return nil, invalid(fmt.Sprintf("delimiter must be a single character, got %q", r.Delimiter), nil)
		}
		opts.Delimiter, _ = utf8.DecodeRuneInString(r.Delimiter)
	}

	return &Institution{
		Key:              key,
		Columns:          cols,
		DateFormat:       format,
		Account:          account,
		CategoryMappings: r.CategoryMappings,
		Rules:            compileRules(r.Rules, log),
		CSV:              opts,
	}, nil
}

// compileRules compiles rule patterns case-insensitively, keeping their
// order. Invalid patterns are dropped with a warning.
func compileRules(raw []rawRule, log logging.Logger) []models.ClassificationRule {
	rules := make([]models.ClassificationRule, 0, len(raw))
	for i, r := range raw {
		fields := []logging.Field{logging.F(logging.FieldRule, i), logging.F("match", r.Match)}
		if r.Match == "" {
			log.Warn("Dropping rule without match pattern", fields...)
			continue
		}
		re, err := regexp.Compile("(?i)" + r.Match)
		if err != nil {
			log.WithError(err).Warn("Dropping rule with invalid pattern", fields...)
			continue
		}
		if r.Category == "" && r.Party == "" {
			log.Warn("Rule sets neither category nor party; matches will only stop rule evaluation", fields...)
		}
		rules = append(rules, models.ClassificationRule{
			Match:    r.Match,
			Pattern:  re,
			Category: strings.TrimSpace(r.Category),
			Party:    strings.TrimSpace(r.Party),
		})
	}
	return rules
}

// Lookup returns the institution for key. Unknown keys and invalid entries
// yield a *parsererror.ConfigError.
func (r *Registry) Lookup(key string) (*Institution, error) {
	e, ok := r.entries[key]
	if !ok {
		return nil, &parsererror.ConfigError{Key: key, Reason: "unknown institution key"}
	}
	if e.err != nil {
		return nil, e.err
	}
	return e.inst, nil
}

// Keys lists every configured key, valid or not, sorted.
func (r *Registry) Keys() []string {
	return sortedKeys(r.entries)
}

// Source is the file the registry was loaded from.
func (r *Registry) Source() string {
	return r.source
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
