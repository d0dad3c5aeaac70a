package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"profverify/internal/domain"
)

// SQLiteStore is the embedded fallback store. It mirrors the Postgres
// layouts in a single local file so the service keeps profile lookup
// and history persistence when the primary database is unreachable or
// not configured.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed initializes) the fallback database
// at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS professor_profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			university TEXT NOT NULL,
			department TEXT,
			research_area TEXT,
			title TEXT
		);
		CREATE TABLE IF NOT EXISTS legacy_profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			university TEXT NOT NULL,
			department TEXT,
			research_area TEXT,
			title TEXT
		);
		CREATE TABLE IF NOT EXISTS user_directory (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			university TEXT NOT NULL,
			role TEXT NOT NULL,
			department TEXT,
			research_area TEXT,
			title TEXT
		);
		CREATE TABLE IF NOT EXISTS verification_history (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			university TEXT NOT NULL,
			verified INTEGER NOT NULL,
			score INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
	`)
	return err
}

func (s *SQLiteStore) FindProfile(ctx context.Context, name, university string) (*domain.ProfileRecord, error) {
	return s.findOne(ctx,
		`SELECT id, name, university, COALESCE(department, ''), COALESCE(research_area, ''), COALESCE(title, '')
		 FROM professor_profiles
		 WHERE name = ? AND university = ?
		 LIMIT 1`,
		name, university,
	)
}

func (s *SQLiteStore) FindLegacyProfile(ctx context.Context, name, university string) (*domain.ProfileRecord, error) {
	return s.findOne(ctx,
		`SELECT id, name, university, COALESCE(department, ''), COALESCE(research_area, ''), COALESCE(title, '')
		 FROM legacy_profiles
		 WHERE name = ? AND university = ?
		 LIMIT 1`,
		name, university,
	)
}

func (s *SQLiteStore) FindDirectoryProfessor(ctx context.Context, name, university string) (*domain.ProfileRecord, error) {
	return s.findOne(ctx,
		`SELECT id, name, university, COALESCE(department, ''), COALESCE(research_area, ''), COALESCE(title, '')
		 FROM user_directory
		 WHERE name = ? AND university = ? AND role = 'professor'
		 LIMIT 1`,
		name, university,
	)
}

func (s *SQLiteStore) findOne(ctx context.Context, query, name, university string) (*domain.ProfileRecord, error) {
	p := &domain.ProfileRecord{}
	err := s.db.QueryRowContext(ctx, query, name, university).
		Scan(&p.ID, &p.Name, &p.University, &p.Department, &p.ResearchArea, &p.Title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *SQLiteStore) Append(ctx context.Context, rec *domain.HistoryRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO verification_history (id, name, university, verified, score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.Name, rec.University, rec.Verified, rec.Score, rec.CreatedAt,
	)
	return err
}

func (s *SQLiteStore) ListByPerson(ctx context.Context, name, university string, limit int) ([]domain.HistoryRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, university, verified, score, created_at
		 FROM verification_history
		 WHERE name = ? AND university = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		name, university, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var id string
		if err := rows.Scan(&id, &rec.Name, &rec.University, &rec.Verified, &rec.Score, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.ID, _ = uuid.Parse(id)
		records = append(records, rec)
	}
	return records, rows.Err()
}
