package roster

import (
	"context"
	"sync"
	"time"
)

// MemStore is an in-memory Store implementation for tests and development.
type MemStore struct {
	mu    sync.Mutex
	recs  []UserRecord
	index map[int64]int

	// Now supplies timestamps; defaults to time.Now. Tests may override it
	// before first use.
	Now func() time.Time
}

// NewMemStore constructs an empty in-memory roster.
func NewMemStore() *MemStore {
	return &MemStore{
		index: make(map[int64]int),
		Now:   time.Now,
	}
}

func (m *MemStore) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// RecordInteraction creates or updates a record for a live interaction.
func (m *MemStore) RecordInteraction(_ context.Context, id int64, username, firstName, lastName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if i, ok := m.index[id]; ok {
		rec := &m.recs[i]
		rec.LastSeen = now
		rec.Interactions++
		applyDisplayFields(rec, username, firstName, lastName)
		return nil
	}

	rec := UserRecord{
		ID:           id,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		Status:       StatusActive,
		FirstSeen:    now,
		LastSeen:     now,
		Interactions: 1,
	}
	m.index[id] = len(m.recs)
	m.recs = append(m.recs, rec)
	return nil
}

// SetStatus overwrites the status of an existing record.
func (m *MemStore) SetStatus(_ context.Context, id int64, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[id]
	if !ok {
		return ErrNotFound
	}
	m.recs[i].Status = status
	return nil
}

// All returns a snapshot of every record in insertion order.
func (m *MemStore) All(_ context.Context) ([]UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]UserRecord, len(m.recs))
	copy(out, m.recs)
	return out, nil
}

// ByStatus returns a snapshot of records with the given status.
func (m *MemStore) ByStatus(_ context.Context, status Status) ([]UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []UserRecord
	for _, rec := range m.recs {
		if rec.Status == status {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Counts returns the total and per-status tallies.
func (m *MemStore) Counts(_ context.Context) (Counts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return tally(m.recs), nil
}

// Add creates an imported record unless the id already exists.
func (m *MemStore) Add(_ context.Context, id int64, username, firstName, lastName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.addLocked(id, username, firstName, lastName), nil
}

// ImportIDs applies Add-equivalent logic in bulk.
func (m *MemStore) ImportIDs(_ context.Context, ids []int64) (ImportReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	report := ImportReport{Total: len(ids)}
	for _, id := range ids {
		if m.addLocked(id, "", "", "") {
			report.Added++
		} else {
			report.Skipped++
		}
	}
	return report, nil
}

func (m *MemStore) addLocked(id int64, username, firstName, lastName string) bool {
	if _, ok := m.index[id]; ok {
		return false
	}
	now := m.now()
	rec := UserRecord{
		ID:        id,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Status:    StatusActive,
		FirstSeen: now,
		LastSeen:  now,
		Imported:  true,
	}
	m.index[id] = len(m.recs)
	m.recs = append(m.recs, rec)
	return true
}

func applyDisplayFields(rec *UserRecord, username, firstName, lastName string) {
	if username != "" {
		rec.Username = username
	}
	if firstName != "" {
		rec.FirstName = firstName
	}
	if lastName != "" {
		rec.LastName = lastName
	}
}

func tally(recs []UserRecord) Counts {
	counts := Counts{
		Total:    len(recs),
		ByStatus: make(map[Status]int, len(Statuses)),
	}
	for _, s := range Statuses {
		counts.ByStatus[s] = 0
	}
	for _, rec := range recs {
		counts.ByStatus[rec.Status]++
	}
	return counts
}
