package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxEvidenceLinks caps the links carried through the pipeline and
// returned in a verdict.
const MaxEvidenceLinks = 10

// EvidenceItem is the normalized contribution of one evidence source:
// free text, supporting links, or both.
type EvidenceItem struct {
	Text  string
	Links []string
}

// EvidenceBundle is what the judge sees: the compiled context blob and
// the deduplicated, capped link list.
type EvidenceBundle struct {
	CompiledContext string
	EvidenceLinks   []string
}

// Verdict is the final verification outcome.
type Verdict struct {
	Verified        bool     `json:"verified"`
	ConfidenceScore int      `json:"confidence_score"`
	EvidenceLinks   []string `json:"evidence_links"`
	Summary         string   `json:"summary"`
}

// ProfileRecord is a professor profile as stored in any of the known
// storage layouts.
type ProfileRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	University   string `json:"university"`
	Department   string `json:"department,omitempty"`
	ResearchArea string `json:"research_area,omitempty"`
	Title        string `json:"title,omitempty"`
}

// HistoryRecord is one append-only entry in the verification log.
type HistoryRecord struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	University string    `json:"university"`
	Verified   bool      `json:"verified"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}
