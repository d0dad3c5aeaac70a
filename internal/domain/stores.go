package domain

import (
	"context"
)

// ProfileStore exposes the known record locations for professor
// profiles. Profiles may live in more than one historical layout, so
// the store surfaces each location separately and the lookup layer
// decides priority.
type ProfileStore interface {
	// FindProfile matches the current profile table, exact on name
	// and university.
	FindProfile(ctx context.Context, name, university string) (*ProfileRecord, error)
	// FindLegacyProfile matches the pre-migration profile table.
	FindLegacyProfile(ctx context.Context, name, university string) (*ProfileRecord, error)
	// FindDirectoryProfessor matches the user directory, restricted
	// to rows flagged with the professor role.
	FindDirectoryProfessor(ctx context.Context, name, university string) (*ProfileRecord, error)
}

// HistoryStore persists verification outcomes append-only.
type HistoryStore interface {
	Append(ctx context.Context, rec *HistoryRecord) error
	ListByPerson(ctx context.Context, name, university string, limit int) ([]HistoryRecord, error)
}

// EvidenceSource wraps one external lookup into the normalized
// EvidenceItem shape. Implementations bound their own latency and
// never retry; the caller treats any error as "this source
// contributed nothing".
type EvidenceSource interface {
	Lookup(ctx context.Context, name, university string) (EvidenceItem, error)
}

// LLMClient is the reasoning-service collaborator. A nil client means
// the service is not configured and the judge must use its heuristic.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
