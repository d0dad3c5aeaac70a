package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"profverify/internal/domain"
)

// HistoryStore appends verification outcomes to the Postgres primary
// store. The log is append-only; there is no update or delete path.
type HistoryStore struct {
	db *pgxpool.Pool
}

func NewHistoryStore(db *pgxpool.Pool) *HistoryStore {
	return &HistoryStore{db: db}
}

func (s *HistoryStore) Append(ctx context.Context, rec *domain.HistoryRecord) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO verification_history (name, university, verified, score)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		rec.Name, rec.University, rec.Verified, rec.Score,
	).Scan(&rec.ID, &rec.CreatedAt)
}

func (s *HistoryStore) ListByPerson(ctx context.Context, name, university string, limit int) ([]domain.HistoryRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, name, university, verified, score, created_at
		 FROM verification_history
		 WHERE name = $1 AND university = $2
		 ORDER BY created_at DESC
		 LIMIT $3`,
		name, university, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.University, &rec.Verified, &rec.Score, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
