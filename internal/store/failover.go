package store

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"profverify/internal/domain"
)

// FailoverStore prefers a primary store and degrades to a fallback
// when the primary errors. Either side may be nil. A not-found result
// from the primary is authoritative for that location and does not
// trigger the fallback; only infrastructure errors do.
type FailoverStore struct {
	primary  storeBackend
	fallback storeBackend
	logger   *zap.Logger
}

type storeBackend interface {
	domain.ProfileStore
	domain.HistoryStore
}

// Backend bundles the per-entity Postgres stores into one failover
// participant.
type Backend struct {
	*ProfileStore
	*HistoryStore
}

func NewFailoverStore(primary *Backend, fallback *SQLiteStore, logger *zap.Logger) *FailoverStore {
	s := &FailoverStore{logger: logger}
	if primary != nil {
		s.primary = primary
	}
	if fallback != nil {
		s.fallback = fallback
	}
	return s
}

func (s *FailoverStore) FindProfile(ctx context.Context, name, university string) (*domain.ProfileRecord, error) {
	return s.findProfile(ctx, name, university, func(b storeBackend) (*domain.ProfileRecord, error) {
		return b.FindProfile(ctx, name, university)
	})
}

func (s *FailoverStore) FindLegacyProfile(ctx context.Context, name, university string) (*domain.ProfileRecord, error) {
	return s.findProfile(ctx, name, university, func(b storeBackend) (*domain.ProfileRecord, error) {
		return b.FindLegacyProfile(ctx, name, university)
	})
}

func (s *FailoverStore) FindDirectoryProfessor(ctx context.Context, name, university string) (*domain.ProfileRecord, error) {
	return s.findProfile(ctx, name, university, func(b storeBackend) (*domain.ProfileRecord, error) {
		return b.FindDirectoryProfessor(ctx, name, university)
	})
}

func (s *FailoverStore) findProfile(ctx context.Context, name, university string, find func(storeBackend) (*domain.ProfileRecord, error)) (*domain.ProfileRecord, error) {
	if s.primary != nil {
		p, err := find(s.primary)
		if err == nil || errors.Is(err, ErrNotFound) {
			return p, err
		}
		s.logger.Warn("primary profile lookup failed, trying fallback", zap.Error(err))
	}
	if s.fallback != nil {
		return find(s.fallback)
	}
	return nil, ErrNotFound
}

func (s *FailoverStore) Append(ctx context.Context, rec *domain.HistoryRecord) error {
	if s.primary != nil {
		err := s.primary.Append(ctx, rec)
		if err == nil {
			return nil
		}
		s.logger.Warn("primary history append failed, trying fallback", zap.Error(err))
	}
	if s.fallback != nil {
		return s.fallback.Append(ctx, rec)
	}
	return errors.New("no store configured")
}

func (s *FailoverStore) ListByPerson(ctx context.Context, name, university string, limit int) ([]domain.HistoryRecord, error) {
	if s.primary != nil {
		records, err := s.primary.ListByPerson(ctx, name, university, limit)
		if err == nil {
			return records, nil
		}
		s.logger.Warn("primary history list failed, trying fallback", zap.Error(err))
	}
	if s.fallback != nil {
		return s.fallback.ListByPerson(ctx, name, university, limit)
	}
	return nil, nil
}
