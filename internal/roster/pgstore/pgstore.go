// Package pgstore implements the roster store on Postgres for deployments
// where many conversations are served concurrently; the database replaces
// the file store's single in-process critical section.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/panelbot/internal/roster"
)

const columns = "user_id, username, first_name, last_name, status, first_seen, last_seen, interaction_count, imported"

// Store is a Postgres-backed roster.Store. Listing order follows the seq
// serial column, which preserves insertion order like the file document.
type Store struct {
	db *sqlx.DB

	// Now supplies timestamps; tests override it.
	Now func() time.Time
}

// New wraps an open connection pool. The schema is managed by the
// migrations in the repository's migrations directory.
func New(db *sqlx.DB) *Store {
	return &Store{db: db, Now: time.Now}
}

func (s *Store) RecordInteraction(ctx context.Context, id int64, username, firstName, lastName string) error {
	now := s.Now().UTC()
	const q = `
		INSERT INTO users (user_id, username, first_name, last_name, status, first_seen, last_seen, interaction_count, imported)
		VALUES ($1, $2, $3, $4, $5, $6, $6, 1, FALSE)
		ON CONFLICT (user_id) DO UPDATE SET
			last_seen         = EXCLUDED.last_seen,
			interaction_count = users.interaction_count + 1,
			username          = CASE WHEN EXCLUDED.username   <> '' THEN EXCLUDED.username   ELSE users.username   END,
			first_name        = CASE WHEN EXCLUDED.first_name <> '' THEN EXCLUDED.first_name ELSE users.first_name END,
			last_name         = CASE WHEN EXCLUDED.last_name  <> '' THEN EXCLUDED.last_name  ELSE users.last_name  END`
	if _, err := s.db.ExecContext(ctx, q, id, username, firstName, lastName, roster.StatusActive, now); err != nil {
		return fmt.Errorf("record interaction %d: %w", id, err)
	}
	return nil
}

func (s *Store) SetStatus(ctx context.Context, id int64, status roster.Status) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET status = $1 WHERE user_id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("set status %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set status %d: %w", id, err)
	}
	if n == 0 {
		return roster.ErrNotFound
	}
	return nil
}

func (s *Store) All(ctx context.Context) ([]roster.UserRecord, error) {
	var recs []roster.UserRecord
	if err := s.db.SelectContext(ctx, &recs, `SELECT `+columns+` FROM users ORDER BY seq`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return recs, nil
}

func (s *Store) ByStatus(ctx context.Context, status roster.Status) ([]roster.UserRecord, error) {
	var recs []roster.UserRecord
	if err := s.db.SelectContext(ctx, &recs, `SELECT `+columns+` FROM users WHERE status = $1 ORDER BY seq`, status); err != nil {
		return nil, fmt.Errorf("list users by status %s: %w", status, err)
	}
	return recs, nil
}

func (s *Store) Counts(ctx context.Context) (roster.Counts, error) {
	rows, err := s.db.QueryxContext(ctx, `SELECT status, COUNT(*) FROM users GROUP BY status`)
	if err != nil {
		return roster.Counts{}, fmt.Errorf("count users: %w", err)
	}
	defer rows.Close()

	counts := roster.Counts{ByStatus: make(map[roster.Status]int, len(roster.Statuses))}
	for _, st := range roster.Statuses {
		counts.ByStatus[st] = 0
	}
	for rows.Next() {
		var status roster.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return roster.Counts{}, fmt.Errorf("count users: %w", err)
		}
		counts.ByStatus[status] = n
		counts.Total += n
	}
	if err := rows.Err(); err != nil {
		return roster.Counts{}, fmt.Errorf("count users: %w", err)
	}
	return counts, nil
}

func (s *Store) Add(ctx context.Context, id int64, username, firstName, lastName string) (bool, error) {
	now := s.Now().UTC()
	const q = `
		INSERT INTO users (user_id, username, first_name, last_name, status, first_seen, last_seen, interaction_count, imported)
		VALUES ($1, $2, $3, $4, $5, $6, $6, 0, TRUE)
		ON CONFLICT (user_id) DO NOTHING`
	res, err := s.db.ExecContext(ctx, q, id, username, firstName, lastName, roster.StatusActive, now)
	if err != nil {
		return false, fmt.Errorf("add user %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add user %d: %w", id, err)
	}
	return n > 0, nil
}

func (s *Store) ImportIDs(ctx context.Context, ids []int64) (roster.ImportReport, error) {
	rep := roster.ImportReport{Total: len(ids)}
	if len(ids) == 0 {
		return rep, nil
	}

	now := s.Now().UTC()
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		const q = `
			INSERT INTO users (user_id, status, first_seen, last_seen, interaction_count, imported)
			VALUES ($1, $2, $3, $3, 0, TRUE)
			ON CONFLICT (user_id) DO NOTHING`
		seen := make(map[int64]struct{}, len(ids))
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				rep.Skipped++
				continue
			}
			seen[id] = struct{}{}
			res, err := tx.ExecContext(ctx, q, id, roster.StatusActive, now)
			if err != nil {
				return fmt.Errorf("import user %d: %w", id, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("import user %d: %w", id, err)
			}
			if n > 0 {
				rep.Added++
			} else {
				rep.Skipped++
			}
		}
		return nil
	})
	if err != nil {
		return roster.ImportReport{Total: len(ids)}, err
	}
	return rep, nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

var _ roster.Store = (*Store)(nil)
