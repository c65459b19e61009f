package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Tiliavir/remylog/internal/model"
	"github.com/Tiliavir/remylog/internal/timecalc"
)

// Store is the event collection consumed by the server and the CLI.
// Remove of an absent id is not an error.
type Store interface {
	List(ctx context.Context) ([]model.Event, error)
	Append(ctx context.Context, ev model.NewEvent) (model.Event, error)
	Remove(ctx context.Context, id int64) error
}

// BaseDir returns the root data directory (~/.remylog).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".remylog"), nil
}

// DefaultPath returns ~/.remylog/log.json.
func DefaultPath() (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "log.json"), nil
}

// FileStore keeps all events in a single JSON array, newest-appended first.
// The file is re-read on every call so edits by other tools are picked up.
type FileStore struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created lazily.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// List returns all stored events with times normalised to UTC.
func (s *FileStore) List(ctx context.Context) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Append stores ev in front of the existing events and returns it with its id.
func (s *FileStore) Append(ctx context.Context, ev model.NewEvent) (model.Event, error) {
	if err := ev.Validate(); err != nil {
		return model.Event{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.load()
	if err != nil {
		return model.Event{}, err
	}

	id := timecalc.NewID(s.now())
	for _, e := range events {
		if e.ID >= id {
			id = e.ID + 1
		}
	}

	stored := model.Event{
		Type:  ev.Type,
		Time:  ev.Time.UTC(),
		Notes: ev.Notes,
		ID:    id,
	}
	events = append([]model.Event{stored}, events...)
	if err := s.save(events); err != nil {
		return model.Event{}, err
	}
	return stored, nil
}

// Remove deletes every event with the given id.
func (s *FileStore) Remove(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.load()
	if err != nil {
		return err
	}
	kept := events[:0]
	for _, e := range events {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(events) {
		return nil
	}
	return s.save(kept)
}

// load reads the file, initialising it with an empty array when missing.
func (s *FileStore) load() ([]model.Event, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		if err := s.save([]model.Event{}); err != nil {
			return nil, err
		}
		return []model.Event{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", s.path, err)
	}

	var events []model.Event
	if err := json.Unmarshal(data, &events); err != nil {
		// Back up corrupt file and abort.
		backupPath := s.path + ".corrupt"
		_ = os.Rename(s.path, backupPath)
		return nil, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", s.path, backupPath, err)
	}
	for i := range events {
		events[i].Time = events[i].Time.UTC()
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

// save atomically replaces the file with events.
func (s *FileStore) save(events []model.Event) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}
