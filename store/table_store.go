package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sagebistro/reservation-app/client"
	"github.com/sagebistro/reservation-app/models"
	"github.com/sagebistro/reservation-app/utils"
)

// TableStore caches the upstream table list. Same polling and staleness rules
// as BookingStore, without a date dimension.
type TableStore struct {
	api    *client.Client
	poller *poller

	gen atomic.Uint64

	mu      sync.RWMutex
	tables  []models.Table
	lastErr error

	OnError func(error)
}

func NewTableStore(api *client.Client, interval time.Duration) *TableStore {
	s := &TableStore{api: api}
	s.poller = newPoller(interval, s.refresh)
	return s
}

func (s *TableStore) Start(ctx context.Context) {
	s.poller.start(ctx)
}

func (s *TableStore) Stop() {
	s.poller.stop()
}

func (s *TableStore) Pause() {
	s.poller.pause()
}

func (s *TableStore) Resume(ctx context.Context) {
	s.poller.resume(ctx)
}

func (s *TableStore) SetInterval(d time.Duration) {
	s.poller.setInterval(d)
}

func (s *TableStore) Tables() []models.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Table, len(s.tables))
	copy(out, s.tables)
	return out
}

// TableByID looks a table up in the cache.
func (s *TableStore) TableByID(id string) (models.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tables {
		if t.ID == id {
			return t, true
		}
	}
	return models.Table{}, false
}

func (s *TableStore) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *TableStore) Refresh(ctx context.Context) {
	s.refresh(ctx)
}

func (s *TableStore) refresh(ctx context.Context) {
	gen := s.gen.Add(1)

	tables, err := s.api.ListTables(ctx)

	if gen != s.gen.Load() {
		// Obsolete in-flight fetch, whatever its outcome.
		return
	}

	if err != nil {
		if client.IsUnauthorized(err) {
			utils.InfoLogger.Printf("table poll unauthorized, stopping poller")
			s.poller.stop()
			return
		}
		utils.ErrorLogger.Printf("failed to fetch tables: %v", err)
		s.mu.Lock()
		if gen != s.gen.Load() {
			s.mu.Unlock()
			return
		}
		s.lastErr = err
		s.mu.Unlock()
		if s.OnError != nil {
			s.OnError(err)
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen.Load() {
		return
	}
	s.tables = tables
	s.lastErr = nil
}

// Create adds a table upstream and refetches.
func (s *TableStore) Create(ctx context.Context, tableNumber string, capacity int) (models.Table, error) {
	created, err := s.api.CreateTable(ctx, tableNumber, capacity)
	if err != nil {
		return models.Table{}, err
	}
	s.refresh(ctx)
	return created, nil
}

// Delete removes a table upstream and refetches.
func (s *TableStore) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteTable(ctx, id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}
