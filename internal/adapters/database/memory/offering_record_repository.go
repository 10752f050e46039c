// Package memory holds an in-process ledger store for single-node deployments and tests.
package memory

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/offering_reconciliation/internal/apperrors"
	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
	portsrepo "github.com/SscSPs/offering_reconciliation/internal/core/ports/repositories"
	"github.com/SscSPs/offering_reconciliation/internal/utils/pagination"
)

const defaultListLimit = 20

// OfferingRecordRepository is an append-only store kept in memory. Records are lost on
// restart.
type OfferingRecordRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.CommittedRecord
	ordered []*domain.CommittedRecord // newest first
	now     func() time.Time
}

// Option configures an OfferingRecordRepository.
type Option func(*OfferingRecordRepository)

// WithClock overrides the time source used to stamp committed_at.
func WithClock(now func() time.Time) Option {
	return func(r *OfferingRecordRepository) {
		r.now = now
	}
}

// NewOfferingRecordRepository creates an empty store.
func NewOfferingRecordRepository(opts ...Option) *OfferingRecordRepository {
	r := &OfferingRecordRepository{
		byID: make(map[string]*domain.CommittedRecord),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewRepositoryProvider wires the in-memory repositories.
func NewRepositoryProvider(opts ...Option) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		OfferingRecordRepo: NewOfferingRecordRepository(opts...),
	}
}

var _ portsrepo.OfferingRecordRepositoryFacade = (*OfferingRecordRepository)(nil)

// AppendRecord stores record once. A second append with the same ID returns the
// stored record and created=false.
func (r *OfferingRecordRepository) AppendRecord(ctx context.Context, record *domain.CommittedRecord) (*domain.CommittedRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, apperrors.NewAppError(http.StatusServiceUnavailable, "append cancelled", err)
	}
	if record == nil {
		return nil, false, errors.New("record cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byID[record.ID()]; ok {
		return existing, false, nil
	}
	stored := record.Stamped(r.now())
	r.byID[stored.ID()] = stored

	idx := sort.Search(len(r.ordered), func(i int) bool {
		o := r.ordered[i]
		return pagination.Before(o.CommittedAt(), o.ID(), stored.CommittedAt(), stored.ID())
	})
	r.ordered = append(r.ordered, nil)
	copy(r.ordered[idx+1:], r.ordered[idx:])
	r.ordered[idx] = stored
	return stored, true, nil
}

// FindRecordByID retrieves a committed record by ID.
func (r *OfferingRecordRepository) FindRecordByID(ctx context.Context, recordID string) (*domain.CommittedRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[recordID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return rec, nil
}

// ListRecords returns records newest first using the same cursor format as the pgsql store.
func (r *OfferingRecordRepository) ListRecords(ctx context.Context, limit int, nextToken *string) ([]*domain.CommittedRecord, *string, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	start := 0
	if nextToken != nil && *nextToken != "" {
		lastAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(http.StatusBadRequest, "invalid nextToken", errors.Join(apperrors.ErrValidation, err))
		}
		start = sort.Search(len(r.ordered), func(i int) bool {
			o := r.ordered[i]
			return pagination.Before(o.CommittedAt(), o.ID(), lastAt, lastID)
		})
	}

	end := start + limit
	if end > len(r.ordered) {
		end = len(r.ordered)
	}
	page := make([]*domain.CommittedRecord, end-start)
	copy(page, r.ordered[start:end])

	var next *string
	if end < len(r.ordered) && len(page) > 0 {
		last := page[len(page)-1]
		token := pagination.EncodeToken(last.CommittedAt(), last.ID())
		next = &token
	}
	return page, next, nil
}
