package client

import (
	"context"
	"io"
	"sync"

	"github.com/vytor/flashdeck/internal/aggregate"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
)

// Backend is the subset of the API the Store needs.
type Backend interface {
	ListCards(ctx context.Context, query string) ([]models.Card, error)
	UpdateCard(ctx context.Context, id int64, in models.CardInput) (*models.Card, error)
	DeleteCard(ctx context.Context, id int64) error
	Upload(ctx context.Context, name string, r io.Reader) (int, error)
}

// Store caches the full card list. Every mutation is sent to the server
// and followed by a full re-fetch; the list is never patched locally.
// Concurrent refreshes overwrite each other and the last one to finish wins.
type Store struct {
	api Backend

	mu    sync.RWMutex
	cards []models.Card
}

func NewStore(api Backend) *Store {
	return &Store{api: api}
}

// Cards returns a copy of the cached list.
func (s *Store) Cards() []models.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Card(nil), s.cards...)
}

// Refresh replaces the cached list with the server's. On failure the
// cache is left as it was.
func (s *Store) Refresh(ctx context.Context) error {
	cards, err := s.api.ListCards(ctx, "")
	if err != nil {
		logger.FromContext(ctx).WithPrefix("store").Warn("failed to refresh cards: %v", err)
		return err
	}
	s.mu.Lock()
	s.cards = cards
	s.mu.Unlock()
	return nil
}

// afterMutation re-fetches and reports the mutation error first.
func (s *Store) afterMutation(ctx context.Context, err error) error {
	refreshErr := s.Refresh(ctx)
	if err != nil {
		return err
	}
	return refreshErr
}

func (s *Store) Import(ctx context.Context, name string, r io.Reader) (int, error) {
	n, err := s.api.Upload(ctx, name, r)
	return n, s.afterMutation(ctx, err)
}

func (s *Store) Update(ctx context.Context, id int64, in models.CardInput) error {
	_, err := s.api.UpdateCard(ctx, id, in)
	return s.afterMutation(ctx, err)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	return s.afterMutation(ctx, s.api.DeleteCard(ctx, id))
}

// Hierarchy groups the cached cards.
func (s *Store) Hierarchy() models.Hierarchy {
	return aggregate.BuildHierarchy(s.Cards())
}

// Dashboard computes per-course statistics over the cached cards.
func (s *Store) Dashboard() models.Dashboard {
	return aggregate.BuildDashboard(s.Cards())
}

// Filter returns the cached cards matching text.
func (s *Store) Filter(text string) []models.Card {
	return aggregate.Filter(s.Cards(), text)
}
