// Package memory is an in-memory store used by tests and local development.
// It mirrors the sqlite store's lookup semantics, including the rule that an
// empty verification code never matches.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"duitbot/internal/core"
)

type Store struct {
	mu      sync.Mutex
	links   map[string]*core.UserLink // keyed by phone key
	entries []core.Entry
}

func New() *Store {
	return &Store{links: make(map[string]*core.UserLink)}
}

func (s *Store) CreateLink(_ context.Context, link core.UserLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[link.PhoneKey]; ok {
		return fmt.Errorf("link already exists for %s", link.PhoneKey)
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	cp := link
	s.links[link.PhoneKey] = &cp
	return nil
}

func (s *Store) FindByPhone(_ context.Context, phoneKey string) (*core.UserLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[phoneKey]
	if !ok {
		return nil, nil
	}
	cp := *link
	return &cp, nil
}

func (s *Store) FindByPhoneAndCode(_ context.Context, phoneKey, code string) (*core.UserLink, error) {
	if code == "" {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[phoneKey]
	if !ok || link.VerificationCode != code {
		return nil, nil
	}
	cp := *link
	return &cp, nil
}

func (s *Store) MarkVerified(_ context.Context, phoneKey string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[phoneKey]
	if !ok {
		return fmt.Errorf("no link for phone key %s", phoneKey)
	}
	link.IsVerified = true
	link.VerificationCode = ""
	t := at
	link.VerifiedAt = &t
	return nil
}

func (s *Store) Append(_ context.Context, e core.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func (s *Store) ListByAccount(_ context.Context, accountID string) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Entry
	for _, e := range s.entries {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) GetEntry(_ context.Context, id string) (*core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			cp := s.entries[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) ListPendingSync(_ context.Context, limit int) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Entry
	for _, e := range s.entries {
		if e.SyncStatus == core.SyncDone {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) MarkSynced(_ context.Context, id string) error {
	return s.setSyncStatus(id, core.SyncDone, false)
}

func (s *Store) MarkSyncError(_ context.Context, id string) error {
	return s.setSyncStatus(id, core.SyncError, true)
}

func (s *Store) setSyncStatus(id string, status core.SyncStatus, countAttempt bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].SyncStatus = status
			if countAttempt {
				s.entries[i].SyncAttempts++
			}
			s.entries[i].LastModified = time.Now()
			return nil
		}
	}
	return fmt.Errorf("no entry with id %s", id)
}
