package storage

import "time"

// SetClock replaces the id clock in tests.
func (s *FileStore) SetClock(now func() time.Time) { s.now = now }
