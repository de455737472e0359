// Package roster tracks the users known to the bot: profile fields, status,
// and activity metrics. The store is keyed by the external Telegram user id
// and never physically deletes a record; "deleted" is a status value.
package roster

import (
	"context"
	"errors"
	"time"
)

// Status classifies a roster member. Any status may follow any other; there
// is no transition table.
type Status string

const (
	// StatusActive marks a user that may receive broadcasts.
	StatusActive Status = "active"
	// StatusMuted marks a user excluded from broadcasts by an admin.
	StatusMuted Status = "muted"
	// StatusDeleted marks a user soft-removed by an admin.
	StatusDeleted Status = "deleted"
	// StatusBlocked marks a user banned by an admin.
	StatusBlocked Status = "blocked"
)

// Statuses lists all known status values in presentation order.
var Statuses = []Status{StatusActive, StatusMuted, StatusDeleted, StatusBlocked}

// Valid reports whether s is one of the known status values.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusMuted, StatusDeleted, StatusBlocked:
		return true
	}
	return false
}

// ErrNotFound is returned when an operation targets an id absent from the store.
var ErrNotFound = errors.New("roster: user not found")

// UserRecord is one roster entry. JSON field names match the on-disk
// document format.
type UserRecord struct {
	ID           int64     `json:"user_id" db:"user_id"`
	Username     string    `json:"username,omitempty" db:"username"`
	FirstName    string    `json:"first_name,omitempty" db:"first_name"`
	LastName     string    `json:"last_name,omitempty" db:"last_name"`
	Status       Status    `json:"status" db:"status"`
	FirstSeen    time.Time `json:"first_seen" db:"first_seen"`
	LastSeen     time.Time `json:"last_seen" db:"last_seen"`
	Interactions int64     `json:"interaction_count" db:"interaction_count"`
	Imported     bool      `json:"imported,omitempty" db:"imported"`
}

// Counts aggregates roster totals per status. Total always equals the sum of
// the per-status buckets.
type Counts struct {
	Total    int
	ByStatus map[Status]int
}

// ImportReport summarizes a bulk import run.
type ImportReport struct {
	Added   int
	Skipped int
	Total   int
}

// Store is the persistent roster. Implementations must serialize concurrent
// mutations internally; every mutating call persists before returning.
type Store interface {
	// RecordInteraction creates the record on first contact (count=1) or
	// bumps lastSeen and the interaction counter. Non-empty display fields
	// overwrite stored values; empty ones never erase.
	RecordInteraction(ctx context.Context, id int64, username, firstName, lastName string) error

	// SetStatus overwrites the status of an existing record. Returns
	// ErrNotFound when the id is absent; any status may follow any other.
	SetStatus(ctx context.Context, id int64, status Status) error

	// All returns a snapshot of every record in insertion order.
	All(ctx context.Context) ([]UserRecord, error)

	// ByStatus returns a snapshot of records with the given status.
	ByStatus(ctx context.Context, status Status) ([]UserRecord, error)

	// Counts returns the total and per-status tallies.
	Counts(ctx context.Context) (Counts, error)

	// Add creates an imported record (count=0) unless the id already exists.
	// Reports whether a record was created; existing records are untouched.
	Add(ctx context.Context, id int64, username, firstName, lastName string) (bool, error)

	// ImportIDs applies Add-equivalent logic in bulk, persisting once at the
	// end. Duplicate ids are skipped and tallied.
	ImportIDs(ctx context.Context, ids []int64) (ImportReport, error)
}
