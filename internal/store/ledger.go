package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fjacquet/bank-import/internal/logging"
	"fjacquet/bank-import/internal/models"
	"fjacquet/bank-import/internal/parsererror"
)

// EnsureAccount returns the id of the account named spec.Name, creating it
// with spec's type and initial balance when absent. created reports whether
// a row was inserted.
func (s *SQLiteStore) EnsureAccount(ctx context.Context, spec models.AccountSpec) (id int64, created bool, err error) {
	if s.db == nil {
		return 0, false, ErrNotOpen
	}
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return 0, false, &parsererror.StorageError{Op: "ensure account", Err: errors.New("account name is empty")}
	}

	err = s.db.QueryRowContext(ctx, `SELECT id FROM accounts WHERE name = ?`, name).Scan(&id)
	switch {
	case err == nil:
		return id, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, false, &parsererror.StorageError{Op: "ensure account", Err: err}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (name, type, initial_balance) VALUES (?, ?, ?)`,
		name, spec.Type, spec.InitialBalance.InexactFloat64())
	if err != nil {
		return 0, false, &parsererror.StorageError{Op: "ensure account", Err: err}
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, false, &parsererror.StorageError{Op: "ensure account", Err: err}
	}
	s.logger.Info("Created account",
		logging.F(logging.FieldAccount, name),
		logging.F("type", spec.Type))
	return id, true, nil
}

// Accounts lists every account ordered by id.
func (s *SQLiteStore) Accounts(ctx context.Context) ([]models.Account, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, type, initial_balance, is_active FROM accounts ORDER BY id`)
	if err != nil {
		return nil, &parsererror.StorageError{Op: "list accounts", Err: err}
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		var a models.Account
		var active sql.NullBool
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.InitialBalance, &active); err != nil {
			return nil, &parsererror.StorageError{Op: "list accounts", Err: err}
		}
		a.IsActive = !active.Valid || active.Bool
		out = append(out, a)
	}
	return out, rows.Err()
}

type partyRef struct {
	id        int64
	defaultID sql.NullInt64
}

// partyResolver gets or creates parties inside one SQL transaction.
type partyResolver struct {
	tx            *sql.Tx
	uncategorized int64
	cache         map[string]partyRef
}

func (r *partyResolver) resolve(ctx context.Context, name string) (partyRef, error) {
	if ref, ok := r.cache[name]; ok {
		return ref, nil
	}
	var ref partyRef
	err := r.tx.QueryRowContext(ctx, `SELECT id, default_category_id FROM party WHERE name = ?`, name).
		Scan(&ref.id, &ref.defaultID)
	switch {
	case err == nil:
	case errors.Is(err, sql.ErrNoRows):
		res, err := r.tx.ExecContext(ctx,
			`INSERT INTO party (name, default_category_id) VALUES (?, ?)`, name, r.uncategorized)
		if err != nil {
			return partyRef{}, fmt.Errorf("failed to create party %q: %w", name, err)
		}
		if ref.id, err = res.LastInsertId(); err != nil {
			return partyRef{}, err
		}
		ref.defaultID = sql.NullInt64{Int64: r.uncategorized, Valid: true}
	default:
		return partyRef{}, fmt.Errorf("failed to look up party %q: %w", name, err)
	}
	r.cache[name] = ref
	return ref, nil
}

// finalCategory applies the fallback chain: an explicit mapping or rule
// decision, then the party default, then Uncategorized.
func finalCategory(c models.Candidate, party *partyRef, index *models.CategoryIndex) int64 {
	if c.CategorySource.Explicit() && c.CategoryID != 0 {
		return c.CategoryID
	}
	if party != nil && party.defaultID.Valid {
		return party.defaultID.Int64
	}
	return index.UncategorizedID()
}

// ImportBatch inserts all candidates of one file in a single SQL
// transaction. On any failure nothing is persisted and the returned count
// is zero.
func (s *SQLiteStore) ImportBatch(ctx context.Context, candidates []models.Candidate, index *models.CategoryIndex) (int, error) {
	if s.db == nil {
		return 0, ErrNotOpen
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &parsererror.StorageError{Op: "import batch", Err: fmt.Errorf("failed to begin transaction: %w", err)}
	}
	defer func() { _ = tx.Rollback() }()

	insert, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (date, description, amount, account_id, category_id, party_id)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, &parsererror.StorageError{Op: "import batch", Err: err}
	}
	defer insert.Close()

	parties := &partyResolver{tx: tx, uncategorized: index.UncategorizedID(), cache: map[string]partyRef{}}

	for i, c := range candidates {
		var (
			partyID sql.NullInt64
			party   *partyRef
		)
		if name := strings.TrimSpace(c.PartyName); name != "" {
			ref, err := parties.resolve(ctx, name)
			if err != nil {
				return 0, &parsererror.StorageError{Op: fmt.Sprintf("import batch row %d", i+1), Err: err}
			}
			party = &ref
			partyID = sql.NullInt64{Int64: ref.id, Valid: true}
		}

		categoryID := finalCategory(c, party, index)
		if _, err := insert.ExecContext(ctx, c.Date, c.Description, c.Amount.InexactFloat64(), c.AccountID, categoryID, partyID); err != nil {
			return 0, &parsererror.StorageError{Op: fmt.Sprintf("import batch row %d", i+1), Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, &parsererror.StorageError{Op: "import batch", Err: fmt.Errorf("failed to commit: %w", err)}
	}
	return len(candidates), nil
}

// SetPartyDefaultCategory sets the default category of the named party,
// creating the party if needed.
func (s *SQLiteStore) SetPartyDefaultCategory(ctx context.Context, partyName, categoryName string, index *models.CategoryIndex) error {
	if s.db == nil {
		return ErrNotOpen
	}
	partyName = strings.TrimSpace(partyName)
	if partyName == "" {
		return &parsererror.StorageError{Op: "set party default", Err: errors.New("party name is empty")}
	}
	categoryID, ok := index.ID(categoryName)
	if !ok {
		return &parsererror.StorageError{Op: "set party default", Err: fmt.Errorf("unknown category %q", categoryName)}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO party (name, default_category_id) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET default_category_id = excluded.default_category_id`,
		partyName, categoryID)
	if err != nil {
		return &parsererror.StorageError{Op: "set party default", Err: err}
	}
	return nil
}

// Party returns the named party.
func (s *SQLiteStore) Party(ctx context.Context, name string) (models.Party, error) {
	if s.db == nil {
		return models.Party{}, ErrNotOpen
	}
	var (
		p        models.Party
		isPerson sql.NullBool
		def      sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, is_person, default_category_id FROM party WHERE name = ?`, name).
		Scan(&p.ID, &p.Name, &isPerson, &def)
	if err != nil {
		return models.Party{}, &parsererror.StorageError{Op: "get party", Err: err}
	}
	p.IsPerson = isPerson.Valid && isPerson.Bool
	if def.Valid {
		p.DefaultCategoryID = &def.Int64
	}
	return p, nil
}

// TransactionCount returns the number of stored transactions.
func (s *SQLiteStore) TransactionCount(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, ErrNotOpen
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, &parsererror.StorageError{Op: "count transactions", Err: err}
	}
	return n, nil
}
