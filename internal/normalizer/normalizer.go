// Package normalizer turns raw statement rows into canonical transaction
// candidates.
package normalizer

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/bank-import/internal/common"
	"fjacquet/bank-import/internal/currencyutils"
	"fjacquet/bank-import/internal/institution"
	"fjacquet/bank-import/internal/models"
)

// Outcome is the result of normalizing one row.
type Outcome int

const (
	Accepted Outcome = iota
	SkippedMissingField
	SkippedUnparseableDate
	SkippedUnparseableAmount
)

var outcomeNames = [...]string{
	Accepted:                 "accepted",
	SkippedMissingField:      "skipped_missing_field",
	SkippedUnparseableDate:   "skipped_unparseable_date",
	SkippedUnparseableAmount: "skipped_unparseable_amount",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// Outcomes lists every outcome, for exhaustive reporting.
func Outcomes() []Outcome {
	return []Outcome{Accepted, SkippedMissingField, SkippedUnparseableDate, SkippedUnparseableAmount}
}

// BankCategoryLookup resolves a bank category label to an internal
// category id. Implementations normalize the label themselves.
type BankCategoryLookup interface {
	Lookup(bankCategory string) (int64, bool)
}

// Normalizer converts rows of one file. It is safe to reuse across rows
// but holds per-file configuration.
type Normalizer struct {
	inst      *institution.Institution
	accountID int64
	mapping   BankCategoryLookup
	index     *models.CategoryIndex
}

// New returns a Normalizer for rows of inst booked to accountID. mapping may
// be nil when the institution has no category mappings.
func New(inst *institution.Institution, accountID int64, mapping BankCategoryLookup, index *models.CategoryIndex) *Normalizer {
	return &Normalizer{inst: inst, accountID: accountID, mapping: mapping, index: index}
}

// Result carries the outcome and, when it is Accepted, the candidate.
// Reason explains skips for debug logging.
type Result struct {
	Outcome   Outcome
	Candidate models.Candidate
	Reason    string
}

// Normalize maps one record. It never fails: rows that cannot be used are
// reported through Result.Outcome.
func (n *Normalizer) Normalize(rec common.Record) Result {
	cols := n.inst.Columns

	payee := strings.TrimSpace(rec.Get(cols.Payee))
	if payee == "" {
		return Result{Outcome: SkippedMissingField, Reason: "empty payee"}
	}

	rawDate := rec.Get(cols.Date)
	if strings.TrimSpace(rawDate) == "" {
		return Result{Outcome: SkippedMissingField, Reason: "empty date"}
	}
	date, err := n.inst.DateFormat.ParseISO(rawDate)
	if err != nil {
		return Result{Outcome: SkippedUnparseableDate, Reason: err.Error()}
	}

	rawAmount := rec.Get(cols.Amount)
	if strings.TrimSpace(rawAmount) == "" {
		return Result{Outcome: SkippedMissingField, Reason: "empty amount"}
	}
	amount, err := currencyutils.ParseAmount(rawAmount)
	if err != nil {
		reason := err.Error()
		if errors.Is(err, currencyutils.ErrNoDigits) {
			reason = "amount has no digits"
		}
		return Result{Outcome: SkippedUnparseableAmount, Reason: reason}
	}

	c := models.Candidate{
		Date:           date,
		Amount:         amount,
		Description:    payee,
		PartyName:      payee,
		AccountID:      n.accountID,
		CategoryID:     n.index.UncategorizedID(),
		CategorySource: models.CategorySourceDefault,
	}

	if cols.BankCategory != "" && n.mapping != nil {
		if id, ok := n.mapping.Lookup(rec.Get(cols.BankCategory)); ok {
			c.CategoryID = id
			c.CategorySource = models.CategorySourceBankMapping
		}
	}

	return Result{Outcome: Accepted, Candidate: c}
}

// Stats counts row outcomes for one file.
type Stats struct {
	counts [len(outcomeNames)]int
}

// Add records one outcome.
func (s *Stats) Add(o Outcome) {
	if o >= 0 && int(o) < len(s.counts) {
		s.counts[o]++
	}
}

// Count returns how many rows ended with o.
func (s Stats) Count(o Outcome) int {
	if o < 0 || int(o) >= len(s.counts) {
		return 0
	}
	return s.counts[o]
}

// Total is the number of rows seen.
func (s Stats) Total() int {
	total := 0
	for _, c := range s.counts {
		total += c
	}
	return total
}

// Skipped is the number of rows not accepted.
func (s Stats) Skipped() int {
	return s.Total() - s.counts[Accepted]
}
