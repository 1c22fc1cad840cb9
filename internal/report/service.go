// Package report runs the read-only aggregation queries over the imported
// ledger.
package report

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"fjacquet/bank-import/internal/logging"
)

// TransactionRow is a transaction joined with its account, category and
// party names.
type TransactionRow struct {
	ID           int64           `json:"id" csv:"id"`
	Date         string          `json:"date" csv:"date"`
	Amount       decimal.Decimal `json:"amount" csv:"amount"`
	Description  string          `json:"description" csv:"description"`
	AccountName  string          `json:"account_name" csv:"account_name"`
	CategoryName string          `json:"category_name" csv:"category_name"`
	PartyName    *string         `json:"party_name" csv:"party_name"`
}

// DetailedRow is a transaction with its category type, as listed by month
// and type or across all time.
type DetailedRow struct {
	Date         string          `json:"date" csv:"date"`
	Amount       decimal.Decimal `json:"amount" csv:"amount"`
	Description  string          `json:"description" csv:"description"`
	CategoryName string          `json:"category_name" csv:"category_name"`
	CategoryType string          `json:"category_type" csv:"category_type"`
	PartyName    *string         `json:"party_name" csv:"party_name"`
}

// MonthlyCashFlow aggregates one month, transfers excluded.
type MonthlyCashFlow struct {
	Month        string          `json:"month" csv:"month"`
	TotalIncome  decimal.Decimal `json:"total_income" csv:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense" csv:"total_expense"`
	NetChange    decimal.Decimal `json:"net_change" csv:"net_change"`
}

// CategoryTotal is the absolute sum of one category.
type CategoryTotal struct {
	Name  string          `json:"name" csv:"name"`
	Total decimal.Decimal `json:"total" csv:"total"`
}

// Service runs queries against an open database.
type Service struct {
	db     *sql.DB
	logger logging.Logger
}

// NewService returns a Service over db.
func NewService(db *sql.DB, logger logging.Logger) *Service {
	return &Service{db: db, logger: logger}
}

func (s *Service) query(ctx context.Context, name, stmt string, args []any, scan func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("query %s: scan: %w", name, err)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	s.logger.Debug("Query executed", logging.F(logging.FieldQuery, name), logging.F(logging.FieldCount, n))
	return nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

// AllTransactions lists every transaction, newest first.
func (s *Service) AllTransactions(ctx context.Context) ([]TransactionRow, error) {
	out := []TransactionRow{}
	err := s.query(ctx, QueryAllTransactions, sqlAllTransactions, nil, func(rows *sql.Rows) error {
		var r TransactionRow
		var desc, party sql.NullString
		if err := rows.Scan(&r.ID, &r.Date, &r.Amount, &desc, &r.AccountName, &r.CategoryName, &party); err != nil {
			return err
		}
		r.Description = desc.String
		r.PartyName = nullableString(party)
		out = append(out, r)
		return nil
	})
	return out, err
}

// MonthlyCashFlow aggregates income, expense and net change per month.
func (s *Service) MonthlyCashFlow(ctx context.Context) ([]MonthlyCashFlow, error) {
	out := []MonthlyCashFlow{}
	err := s.query(ctx, QueryMonthlyCashFlow, sqlMonthlyCashFlow, nil, func(rows *sql.Rows) error {
		var m MonthlyCashFlow
		if err := rows.Scan(&m.Month, &m.TotalIncome, &m.TotalExpense, &m.NetChange); err != nil {
			return err
		}
		out = append(out, m)
		return nil
	})
	return out, err
}

func (s *Service) detailed(ctx context.Context, name, stmt string, args []any) ([]DetailedRow, error) {
	out := []DetailedRow{}
	err := s.query(ctx, name, stmt, args, func(rows *sql.Rows) error {
		var r DetailedRow
		var desc, party sql.NullString
		if err := rows.Scan(&r.Date, &r.Amount, &desc, &r.CategoryName, &r.CategoryType, &party); err != nil {
			return err
		}
		r.Description = desc.String
		r.PartyName = nullableString(party)
		out = append(out, r)
		return nil
	})
	return out, err
}

func (s *Service) totals(ctx context.Context, name, stmt string, args []any) ([]CategoryTotal, error) {
	out := []CategoryTotal{}
	err := s.query(ctx, name, stmt, args, func(rows *sql.Rows) error {
		var c CategoryTotal
		if err := rows.Scan(&c.Name, &c.Total); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

// TransactionsByMonthAndType lists the inflows (INCOME) or outflows
// (EXPENSE) of a month. Transfers are included.
func (s *Service) TransactionsByMonthAndType(ctx context.Context, p Params) ([]DetailedRow, error) {
	if err := p.validate(true); err != nil {
		return nil, err
	}
	return s.detailed(ctx, QueryTransactionsByMonthAndType, sqlTransactionsByMonthAndType,
		[]any{p.Month, string(p.Type), string(p.Type)})
}

// CategoryBreakdown totals a month's inflows or outflows per category,
// transfers excluded.
func (s *Service) CategoryBreakdown(ctx context.Context, p Params) ([]CategoryTotal, error) {
	if err := p.validate(true); err != nil {
		return nil, err
	}
	return s.totals(ctx, QueryCategoryBreakdown, sqlCategoryBreakdown,
		[]any{p.Month, string(p.Type), string(p.Type)})
}

// CategoryBreakdownAllTime totals expenses per category across all time,
// transfers excluded.
func (s *Service) CategoryBreakdownAllTime(ctx context.Context) ([]CategoryTotal, error) {
	return s.totals(ctx, QueryCategoryBreakdownAllTime, sqlCategoryBreakdownAllTime, nil)
}

// AllTransactionsDetailed lists every transaction with category type.
func (s *Service) AllTransactionsDetailed(ctx context.Context) ([]DetailedRow, error) {
	return s.detailed(ctx, QueryAllTransactionsDetailed, sqlAllTransactionsDetailed, nil)
}

// CategoryNames lists category names alphabetically.
func (s *Service) CategoryNames(ctx context.Context) ([]string, error) {
	out := []string{}
	err := s.query(ctx, QueryCategoryNames, sqlCategoryNames, nil, func(rows *sql.Rows) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		out = append(out, name)
		return nil
	})
	return out, err
}
