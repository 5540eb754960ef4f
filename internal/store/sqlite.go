// Package store persists user links and ledger entries in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"duitbot/internal/core"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateLink inserts a link seeded by the companion app's registration flow.
func (s *SQLiteStore) CreateLink(ctx context.Context, link core.UserLink) error {
	code := sql.NullString{String: link.VerificationCode, Valid: link.VerificationCode != ""}
	createdAt := link.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wa_links (phone_key, account_id, is_verified, verification_code, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		link.PhoneKey, link.AccountID, link.IsVerified, code, createdAt)
	if err != nil {
		return fmt.Errorf("insert link: %w", err)
	}
	return nil
}

// FindByPhone implements bot.UserDirectory.
func (s *SQLiteStore) FindByPhone(ctx context.Context, phoneKey string) (*core.UserLink, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT phone_key, account_id, is_verified, verification_code, verified_at, created_at
		FROM wa_links WHERE phone_key = ?`, phoneKey)
	return scanLink(row)
}

// FindByPhoneAndCode implements bot.UserDirectory. An empty code never
// matches; cleared codes are NULL, not empty strings.
func (s *SQLiteStore) FindByPhoneAndCode(ctx context.Context, phoneKey, code string) (*core.UserLink, error) {
	if code == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT phone_key, account_id, is_verified, verification_code, verified_at, created_at
		FROM wa_links WHERE phone_key = ? AND verification_code = ?`, phoneKey, code)
	return scanLink(row)
}

// MarkVerified implements bot.UserDirectory. The single UPDATE flips the flag,
// stamps the time and consumes the code in one statement, which is as atomic
// as SQLite's row write.
func (s *SQLiteStore) MarkVerified(ctx context.Context, phoneKey string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE wa_links
		SET is_verified = 1, verified_at = ?, verification_code = NULL
		WHERE phone_key = ?`, at.UTC(), phoneKey)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("mark verified: no link for phone key %s", phoneKey)
	}
	return nil
}

func scanLink(row *sql.Row) (*core.UserLink, error) {
	var (
		link       core.UserLink
		code       sql.NullString
		verifiedAt sql.NullTime
	)
	err := row.Scan(&link.PhoneKey, &link.AccountID, &link.IsVerified, &code, &verifiedAt, &link.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan link: %w", err)
	}
	link.VerificationCode = code.String
	if verifiedAt.Valid {
		t := verifiedAt.Time
		link.VerifiedAt = &t
	}
	return &link, nil
}

// Append implements bot.TransactionLedger. Amounts are stored as exact
// decimal strings.
func (s *SQLiteStore) Append(ctx context.Context, e core.Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (id, account_id, occurred_at, description, category, kind, amount, last_modified, sync_status, sync_attempts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.AccountID, e.OccurredAt.UTC(), e.Description, string(e.Category), string(e.Kind),
		e.Amount.String(), e.LastModified.UTC(), string(e.SyncStatus), e.SyncAttempts)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// ListByAccount implements bot.TransactionLedger.
func (s *SQLiteStore) ListByAccount(ctx context.Context, accountID string) ([]core.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, occurred_at, description, category, kind, amount, last_modified, sync_status, sync_attempts
		FROM entries WHERE account_id = ? ORDER BY occurred_at`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// GetEntry fetches a single entry by ID for the sync worker.
func (s *SQLiteStore) GetEntry(ctx context.Context, id string) (*core.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, occurred_at, description, category, kind, amount, last_modified, sync_status, sync_attempts
		FROM entries WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get entry: %w", err)
		}
		return nil, nil
	}
	e, err := scanEntry(rows)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListPendingSync returns entries not yet pushed to the companion app, oldest
// first, capped at limit.
func (s *SQLiteStore) ListPendingSync(ctx context.Context, limit int) ([]core.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, occurred_at, description, category, kind, amount, last_modified, sync_status, sync_attempts
		FROM entries WHERE sync_status IN (?, ?) ORDER BY occurred_at LIMIT ?`,
		string(core.SyncPending), string(core.SyncError), limit)
	if err != nil {
		return nil, fmt.Errorf("list pending entries: %w", err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending entries: %w", err)
	}
	return entries, nil
}

// MarkSynced records a successful push to the companion app.
func (s *SQLiteStore) MarkSynced(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE entries SET sync_status = ?, last_modified = ? WHERE id = ?`,
		string(core.SyncDone), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark entry synced: %w", err)
	}
	return nil
}

// MarkSyncError flags a failed push; the entry stays eligible for the
// periodic pending scan.
func (s *SQLiteStore) MarkSyncError(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE entries SET sync_status = ?, sync_attempts = sync_attempts + 1, last_modified = ? WHERE id = ?`,
		string(core.SyncError), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark entry sync error: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (core.Entry, error) {
	var (
		e          core.Entry
		category   string
		kind       string
		amount     string
		syncStatus string
	)
	err := row.Scan(&e.ID, &e.AccountID, &e.OccurredAt, &e.Description, &category, &kind,
		&amount, &e.LastModified, &syncStatus, &e.SyncAttempts)
	if err != nil {
		return core.Entry{}, fmt.Errorf("scan entry: %w", err)
	}
	e.Category = core.Category(category)
	e.Kind = core.Kind(kind)
	e.SyncStatus = core.SyncStatus(syncStatus)
	e.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return core.Entry{}, fmt.Errorf("parse stored amount %q: %w", amount, err)
	}
	return e, nil
}
