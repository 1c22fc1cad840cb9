package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"fjacquet/bank-import/internal/dateutils"
	"fjacquet/bank-import/internal/models"
)

// Query names accepted by Dispatch.
const (
	QueryAllTransactions            = "all-transactions"
	QueryMonthlyCashFlow            = "monthly-cash-flow"
	QueryTransactionsByMonthAndType = "transactions-by-month"
	QueryCategoryBreakdown          = "category-breakdown"
	QueryCategoryBreakdownAllTime   = "category-breakdown-all-time"
	QueryAllTransactionsDetailed    = "all-transactions-detailed"
	QueryCategoryNames              = "category-names"
)

var (
	// ErrUnknownQuery is returned by Dispatch for an unsupported name.
	ErrUnknownQuery = errors.New("unknown query")
	// ErrInvalidParams is returned when month or type are malformed.
	ErrInvalidParams = errors.New("invalid query parameters")
)

// Params carries the month (YYYY-MM) and flow type of filtered queries.
type Params struct {
	Month string
	Type  models.CategoryType
}

// NewParams parses raw month and type values; empty values stay empty.
func NewParams(month, typ string) (Params, error) {
	p := Params{Month: strings.TrimSpace(month)}
	if strings.TrimSpace(typ) != "" {
		t, err := models.ParseCategoryType(typ)
		if err != nil {
			return Params{}, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		p.Type = t
	}
	return p, nil
}

func (p Params) validate(required bool) error {
	if !required {
		return nil
	}
	if !dateutils.IsISOMonth(p.Month) {
		return fmt.Errorf("%w: month must be YYYY-MM, got %q", ErrInvalidParams, p.Month)
	}
	if p.Type != models.CategoryTypeIncome && p.Type != models.CategoryTypeExpense {
		return fmt.Errorf("%w: type must be INCOME or EXPENSE, got %q", ErrInvalidParams, p.Type)
	}
	return nil
}

type handler struct {
	needsParams bool
	run         func(ctx context.Context, s *Service, p Params) (any, error)
}

var handlers = map[string]handler{
	QueryAllTransactions: {run: func(ctx context.Context, s *Service, _ Params) (any, error) {
		return s.AllTransactions(ctx)
	}},
	QueryMonthlyCashFlow: {run: func(ctx context.Context, s *Service, _ Params) (any, error) {
		return s.MonthlyCashFlow(ctx)
	}},
	QueryTransactionsByMonthAndType: {needsParams: true, run: func(ctx context.Context, s *Service, p Params) (any, error) {
		return s.TransactionsByMonthAndType(ctx, p)
	}},
	QueryCategoryBreakdown: {needsParams: true, run: func(ctx context.Context, s *Service, p Params) (any, error) {
		return s.CategoryBreakdown(ctx, p)
	}},
	QueryCategoryBreakdownAllTime: {run: func(ctx context.Context, s *Service, _ Params) (any, error) {
		return s.CategoryBreakdownAllTime(ctx)
	}},
	QueryAllTransactionsDetailed: {run: func(ctx context.Context, s *Service, _ Params) (any, error) {
		return s.AllTransactionsDetailed(ctx)
	}},
	QueryCategoryNames: {run: func(ctx context.Context, s *Service, _ Params) (any, error) {
		return s.CategoryNames(ctx)
	}},
}

// QueryNames lists the names accepted by Dispatch, sorted.
func QueryNames() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NeedsParams reports whether the named query requires month and type.
func NeedsParams(name string) bool {
	return handlers[name].needsParams
}

// Dispatch runs the query called name. The result is a slice of the
// query's row type.
func (s *Service) Dispatch(ctx context.Context, name string, p Params) (any, error) {
	h, ok := handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownQuery, name, strings.Join(QueryNames(), ", "))
	}
	if err := p.validate(h.needsParams); err != nil {
		return nil, err
	}
	return h.run(ctx, s, p)
}
