package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"profverify/internal/domain"
	"profverify/internal/store"
)

// ProfileLookupStrategy is one known place a professor profile may
// live. Strategies are tried in order; the first match wins and no
// location is considered authoritative over the others.
type ProfileLookupStrategy struct {
	Name string
	Find func(ctx context.Context, name, university string) (*domain.ProfileRecord, error)
}

// DefaultLookupStrategies returns the strategies for the storage
// layouts profiles have lived in over time, highest priority first.
func DefaultLookupStrategies(ps domain.ProfileStore) []ProfileLookupStrategy {
	return []ProfileLookupStrategy{
		{Name: "profile_table", Find: ps.FindProfile},
		{Name: "legacy_profiles", Find: ps.FindLegacyProfile},
		{Name: "user_directory", Find: ps.FindDirectoryProfessor},
	}
}

// ProfileResolver tries each lookup strategy in priority order.
// Resolution is best-effort enrichment: storage failures degrade to
// "not found" and never reach the verification pipeline as errors.
type ProfileResolver struct {
	strategies []ProfileLookupStrategy
	logger     *zap.Logger
}

func NewProfileResolver(strategies []ProfileLookupStrategy, logger *zap.Logger) *ProfileResolver {
	return &ProfileResolver{strategies: strategies, logger: logger}
}

// Resolve returns the first matching profile, or nil when no strategy
// matches or storage is unavailable. Matching is exact and
// case-sensitive on both name and university.
func (r *ProfileResolver) Resolve(ctx context.Context, name, university string) *domain.ProfileRecord {
	for _, strategy := range r.strategies {
		rec, err := strategy.Find(ctx, name, university)
		if err == nil {
			return rec
		}
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		r.logger.Warn("profile lookup strategy failed",
			zap.String("strategy", strategy.Name),
			zap.Error(err),
		)
	}
	return nil
}
