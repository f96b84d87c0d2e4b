package store

import (
	"sync"
	"time"

	wizarderrors "studiobook/internal/wizard/errors"
	"studiobook/pkg/model"
)

// DraftStore holds in-flight wizard drafts keyed by session id. Drafts are
// single-writer by contract (one client per session), so Update serializes
// mutations under the store lock rather than per-session locks.
type DraftStore interface {
	Create(draft *model.BookingDraft) error
	Get(sessionID string) (*model.BookingDraft, error)
	Update(sessionID string, mutate func(*model.BookingDraft) error) (*model.BookingDraft, error)
	Delete(sessionID string)
	Stop()
}

type entry struct {
	draft     *model.BookingDraft
	expiresAt time.Time
}

type InMemoryDraftStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	done    chan struct{}
	closed  bool
}

func NewInMemoryDraftStore(ttl time.Duration) *InMemoryDraftStore {
	s := &InMemoryDraftStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go s.cleanup()
	return s
}

func (s *InMemoryDraftStore) Create(draft *model.BookingDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return wizarderrors.ErrStoreClosed
	}
	s.entries[draft.SessionID] = &entry{
		draft:     draft,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Get returns a snapshot copy of the draft. Callers never see later
// mutations through the returned pointer.
func (s *InMemoryDraftStore) Get(sessionID string) (*model.BookingDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[sessionID]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, wizarderrors.ErrSessionNotFound
	}
	return cloneDraft(e.draft), nil
}

// Update applies mutate to the stored draft under the write lock, refreshes
// the TTL and returns a snapshot copy of the result. A mutate error leaves
// the stored draft unchanged.
func (s *InMemoryDraftStore) Update(sessionID string, mutate func(*model.BookingDraft) error) (*model.BookingDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, wizarderrors.ErrSessionNotFound
	}

	working := cloneDraft(e.draft)
	if err := mutate(working); err != nil {
		return nil, err
	}
	working.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	e.draft = working
	e.expiresAt = time.Now().Add(s.ttl)
	return cloneDraft(working), nil
}

func (s *InMemoryDraftStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
}

func (s *InMemoryDraftStore) cleanup() {
	interval := s.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for id, e := range s.entries {
				if now.After(e.expiresAt) {
					delete(s.entries, id)
				}
			}
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

func (s *InMemoryDraftStore) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
}

func cloneDraft(d *model.BookingDraft) *model.BookingDraft {
	c := *d

	c.Functions = append([]model.SelectedFunction(nil), d.Functions...)
	c.VideoAddons = append([]string(nil), d.VideoAddons...)

	if d.Breakdown != nil {
		b := *d.Breakdown
		b.Functions = append([]model.FunctionPricing(nil), d.Breakdown.Functions...)
		b.VideoAddons = append([]model.AddonPricing(nil), d.Breakdown.VideoAddons...)
		c.Breakdown = &b
	}
	return &c
}
