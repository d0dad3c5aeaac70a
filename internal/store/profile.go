package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"profverify/internal/domain"
)

// ProfileStore reads professor profiles from the Postgres primary
// store. Profiles accumulated across three layouts over time: the
// current professor_profiles table, the pre-migration legacy_profiles
// table, and the shared user_directory where professors are flagged
// by role. Each layout gets its own lookup; priority is decided by
// the caller.
type ProfileStore struct {
	db *pgxpool.Pool
}

func NewProfileStore(db *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{db: db}
}

func (s *ProfileStore) FindProfile(ctx context.Context, name, university string) (*domain.ProfileRecord, error) {
	return s.findOne(ctx,
		`SELECT id, name, university, COALESCE(department, ''), COALESCE(research_area, ''), COALESCE(title, '')
		 FROM professor_profiles
		 WHERE name = $1 AND university = $2
		 LIMIT 1`,
		name, university,
	)
}

func (s *ProfileStore) FindLegacyProfile(ctx context.Context, name, university string) (*domain.ProfileRecord, error) {
	return s.findOne(ctx,
		`SELECT id, name, university, COALESCE(department, ''), COALESCE(research_area, ''), COALESCE(title, '')
		 FROM legacy_profiles
		 WHERE name = $1 AND university = $2
		 LIMIT 1`,
		name, university,
	)
}

func (s *ProfileStore) FindDirectoryProfessor(ctx context.Context, name, university string) (*domain.ProfileRecord, error) {
	return s.findOne(ctx,
		`SELECT id, name, university, COALESCE(department, ''), COALESCE(research_area, ''), COALESCE(title, '')
		 FROM user_directory
		 WHERE name = $1 AND university = $2 AND role = 'professor'
		 LIMIT 1`,
		name, university,
	)
}

func (s *ProfileStore) findOne(ctx context.Context, query, name, university string) (*domain.ProfileRecord, error) {
	p := &domain.ProfileRecord{}
	err := s.db.QueryRow(ctx, query, name, university).
		Scan(&p.ID, &p.Name, &p.University, &p.Department, &p.ResearchArea, &p.Title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}
