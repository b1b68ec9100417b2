// Package memstate is the reference single-process alert state store.
// Entries are never physically pruned; anything outside the caller's window
// simply stops matching, and daily counters are keyed by calendar day so old
// days become dead keys. The map is bounded by campaigns x metrics, which is
// small.
package memstate

import (
	"context"
	"sync"
	"time"

	"adpulse/domain"
)

const dayFormat = "2006-01-02"

// Store implements ports.AlertStateStore with mutex-guarded maps.
type Store struct {
	mu       sync.RWMutex
	lastSent map[string]time.Time
	daily    map[string]int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		lastSent: make(map[string]time.Time),
		daily:    make(map[string]int),
	}
}

// LastAlertedAt returns the last delivery time for (campaign, metric).
func (s *Store) LastAlertedAt(_ context.Context, campaignID string, metric domain.Metric) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.lastSent[dedupKey(campaignID, metric)]
	return t, ok, nil
}

// SentCount returns the number of alerts sent for the campaign on day.
func (s *Store) SentCount(_ context.Context, campaignID string, day time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.daily[dayKey(campaignID, day)], nil
}

// RecordSent appends one delivery to both the dedup and rate-limit views.
func (s *Store) RecordSent(_ context.Context, campaignID string, metric domain.Metric, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSent[dedupKey(campaignID, metric)] = at
	s.daily[dayKey(campaignID, at)]++
	return nil
}

// Clear wipes all history.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSent = make(map[string]time.Time)
	s.daily = make(map[string]int)
	return nil
}

func dedupKey(campaignID string, metric domain.Metric) string {
	return campaignID + "|" + string(metric)
}

func dayKey(campaignID string, day time.Time) string {
	return campaignID + "|" + day.Format(dayFormat)
}
