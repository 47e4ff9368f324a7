// Package priority stores client-only task priorities.
//
// The task API has no priority field, so priorities live in a local blob
// keyed by task id and are merged into tasks at read time. A task without an
// entry is medium priority. Storage failures never reach the caller: a failed
// read behaves as an empty mapping and a failed write is dropped. The last
// failure is available from Degraded.
package priority

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"taskboard/internal/service"
)

// Store maps task ids to priorities on top of a Blob.
type Store struct {
	blob   Blob
	logger *slog.Logger

	mu       sync.Mutex
	degraded error
}

// NewStore returns a Store over blob. A nil logger discards output.
func NewStore(blob Blob, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{blob: blob, logger: logger}
}

// Get returns the priority of id, or medium if none is recorded.
func (s *Store) Get(id service.ID) service.Priority {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lookup(s.load(), id)
}

// Set records p for id.
func (s *Store) Set(id service.ID, p service.Priority) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.load()
	m[id] = p
	s.save(m)
}

// Remove deletes the entry for id. Later Gets return medium.
func (s *Store) Remove(id service.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.load()
	if _, ok := m[id]; !ok {
		return
	}
	delete(m, id)
	s.save(m)
}

// AttachAll returns one DisplayedTask per task, in order. The store is not
// modified.
func (s *Store) AttachAll(tasks []service.Task) []service.DisplayedTask {
	s.mu.Lock()
	m := s.load()
	s.mu.Unlock()

	out := make([]service.DisplayedTask, len(tasks))
	for i, t := range tasks {
		out[i] = service.DisplayedTask{Task: t, Priority: lookup(m, t.ID)}
	}
	return out
}

// Degraded returns the most recent storage failure, wrapped in
// service.ErrStorageDegraded, or nil if the last operation was clean.
func (s *Store) Degraded() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

func lookup(m map[service.ID]service.Priority, id service.ID) service.Priority {
	if p, ok := m[id]; ok && p.Valid() {
		return p
	}
	return service.DefaultPriority
}

// load returns the stored mapping, or an empty one if it can't be read.
func (s *Store) load() map[service.ID]service.Priority {
	s.degraded = nil
	m := make(map[service.ID]service.Priority)

	data, err := s.blob.Load()
	if err != nil {
		s.degrade("load", err)
		return m
	}
	if len(data) == 0 {
		return m
	}
	if err := json.Unmarshal(data, &m); err != nil {
		s.degrade("decode", err)
		return make(map[service.ID]service.Priority)
	}
	return m
}

func (s *Store) save(m map[service.ID]service.Priority) {
	data, err := json.Marshal(m)
	if err != nil {
		s.degrade("encode", err)
		return
	}
	if err := s.blob.Save(data); err != nil {
		s.degrade("save", err)
	}
}

func (s *Store) degrade(op string, err error) {
	s.degraded = fmt.Errorf("%w: %s: %v", service.ErrStorageDegraded, op, err)
	s.logger.Warn("priority storage degraded", "op", op, "error", err)
}
