package roster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/m3rciful/panelbot/internal/logger"
)

// FileStore persists the roster as a single pretty-printed JSON document,
// one entry per user id. Keys are strings because the external id may exceed
// safe numeric ranges in other consumers of the file. The whole document is
// read once at open and rewritten on every mutating call; a mutex makes that
// read-modify-write the single critical section.
type FileStore struct {
	path string

	mu    sync.Mutex
	recs  []UserRecord
	index map[int64]int

	// Now supplies timestamps; defaults to time.Now.
	Now func() time.Time
}

// OpenFileStore loads the roster document at path, creating an empty store
// when the file does not exist yet.
func OpenFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		path:  path,
		index: make(map[int64]int),
		Now:   time.Now,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Info(context.Background(), "roster", "store.open",
			slog.String("path", path),
		)
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("roster: read %s: %w", path, err)
	}

	if err := fs.decode(data); err != nil {
		return nil, fmt.Errorf("roster: parse %s: %w", path, err)
	}
	logger.Info(context.Background(), "roster", "store.open",
		slog.String("path", path),
		slog.Int("count", len(fs.recs)),
	)
	return fs, nil
}

// decode reads the keyed document with a token stream so that the insertion
// order of entries in the file is preserved.
func (f *FileStore) decode(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected top-level object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var rec UserRecord
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("entry %q: %w", key, err)
		}
		if rec.ID == 0 {
			if id, perr := strconv.ParseInt(key, 10, 64); perr == nil {
				rec.ID = id
			}
		}
		if rec.Status == "" {
			rec.Status = StatusActive
		}
		if _, dup := f.index[rec.ID]; dup {
			continue
		}
		f.index[rec.ID] = len(f.recs)
		f.recs = append(f.recs, rec)
	}
	return nil
}

func (f *FileStore) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// persistLocked rewrites the whole document. Callers must hold the mutex.
// Entries are written in insertion order; non-ASCII display names stay
// unescaped.
func (f *FileStore) persistLocked(ctx context.Context) error {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i := range f.recs {
		rec := f.recs[i]

		var rb bytes.Buffer
		enc := json.NewEncoder(&rb)
		enc.SetEscapeHTML(false)
		enc.SetIndent("  ", "  ")
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("roster: encode %d: %w", rec.ID, err)
		}

		buf.WriteString("  \"")
		buf.WriteString(strconv.FormatInt(rec.ID, 10))
		buf.WriteString("\": ")
		buf.WriteString(strings.TrimRight(rb.String(), "\n"))
		if i < len(f.recs)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")

	tmp := f.path + ".tmp"
	if dir := filepath.Dir(f.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("roster: mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("roster: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("roster: rename %s: %w", tmp, err)
	}

	logger.Debug(ctx, "roster", "store.save",
		slog.String("status", "ok"),
		slog.Int("count", len(f.recs)),
	)
	return nil
}

// RecordInteraction creates or updates a record for a live interaction and
// persists the document before returning.
func (f *FileStore) RecordInteraction(ctx context.Context, id int64, username, firstName, lastName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	if i, ok := f.index[id]; ok {
		rec := &f.recs[i]
		rec.LastSeen = now
		rec.Interactions++
		applyDisplayFields(rec, username, firstName, lastName)
	} else {
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
		f.index[id] = len(f.recs)
		f.recs = append(f.recs, rec)
	}
	return f.persistLocked(ctx)
}

// SetStatus overwrites the status of an existing record and persists.
func (f *FileStore) SetStatus(ctx context.Context, id int64, status Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	i, ok := f.index[id]
	if !ok {
		return ErrNotFound
	}
	f.recs[i].Status = status
	return f.persistLocked(ctx)
}

// All returns a snapshot of every record in insertion order.
func (f *FileStore) All(_ context.Context) ([]UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]UserRecord, len(f.recs))
	copy(out, f.recs)
	return out, nil
}

// ByStatus returns a snapshot of records with the given status.
func (f *FileStore) ByStatus(_ context.Context, status Status) ([]UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []UserRecord
	for _, rec := range f.recs {
		if rec.Status == status {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Counts returns the total and per-status tallies.
func (f *FileStore) Counts(_ context.Context) (Counts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return tally(f.recs), nil
}

// Add creates an imported record unless the id already exists. The document
// is persisted only when a record was created.
func (f *FileStore) Add(ctx context.Context, id int64, username, firstName, lastName string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.index[id]; ok {
		return false, nil
	}
	now := f.now()
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
	f.index[id] = len(f.recs)
	f.recs = append(f.recs, rec)
	return true, f.persistLocked(ctx)
}

// ImportIDs applies Add-equivalent logic in bulk and persists once at the
// end. A crash mid-batch can therefore lose the whole batch, never part of
// the document.
func (f *FileStore) ImportIDs(ctx context.Context, ids []int64) (ImportReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	report := ImportReport{Total: len(ids)}
	now := f.now()
	for _, id := range ids {
		if _, ok := f.index[id]; ok {
			report.Skipped++
			continue
		}
		rec := UserRecord{
			ID:        id,
			Status:    StatusActive,
			FirstSeen: now,
			LastSeen:  now,
			Imported:  true,
		}
		f.index[id] = len(f.recs)
		f.recs = append(f.recs, rec)
		report.Added++
	}

	if report.Added == 0 {
		return report, nil
	}
	return report, f.persistLocked(ctx)
}
