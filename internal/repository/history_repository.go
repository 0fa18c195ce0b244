package repository

import (
	"context"
	"sync"

	"github.com/docudetect/docu-detect/internal/models"
)

// HistoryStore keeps each user's analysis records in insertion order.
// Implementations must be safe for concurrent appends from different
// requests.
type HistoryStore interface {
	Append(ctx context.Context, email string, record *models.AnalysisRecord) error
	List(ctx context.Context, email string) ([]*models.AnalysisRecord, error)
}

// MemoryHistoryStore is the transient in-process implementation, suitable for
// single-instance deployments and tests.
type MemoryHistoryStore struct {
	mu      sync.RWMutex
	records map[string][]*models.AnalysisRecord
}

func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{
		records: make(map[string][]*models.AnalysisRecord),
	}
}

func (s *MemoryHistoryStore) Append(ctx context.Context, email string, record *models.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[email] = append(s.records[email], record)
	return nil
}

func (s *MemoryHistoryStore) List(ctx context.Context, email string) ([]*models.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.records[email]
	out := make([]*models.AnalysisRecord, len(records))
	copy(out, records)
	return out, nil
}
