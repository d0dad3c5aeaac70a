package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"profverify/internal/domain"
	"profverify/internal/llm"
)

// stubSource returns a fixed item or error.
type stubSource struct {
	item domain.EvidenceItem
	err  error
}

func (s *stubSource) Lookup(ctx context.Context, name, university string) (domain.EvidenceItem, error) {
	return s.item, s.err
}

// mockHistoryStore records appends in memory.
type mockHistoryStore struct {
	mu      sync.Mutex
	records []domain.HistoryRecord
	err     error
}

func (m *mockHistoryStore) Append(ctx context.Context, rec *domain.HistoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, *rec)
	return nil
}

func (m *mockHistoryStore) ListByPerson(ctx context.Context, name, university string, limit int) ([]domain.HistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.HistoryRecord
	for _, rec := range m.records {
		if rec.Name == name && rec.University == university {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockHistoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

type verifyTestDeps struct {
	wiki    *stubSource
	scholar *stubSource
	web     *stubSource
	profile *mockProfileStore
	history *mockHistoryStore
	llm     *llm.MockClient
}

func newTestVerifier(deps verifyTestDeps) *VerificationService {
	logger := zap.NewNop()

	if deps.wiki == nil {
		deps.wiki = &stubSource{}
	}
	if deps.scholar == nil {
		deps.scholar = &stubSource{}
	}
	if deps.web == nil {
		deps.web = &stubSource{}
	}
	if deps.profile == nil {
		deps.profile = &mockProfileStore{}
	}

	resolver := NewProfileResolver(DefaultLookupStrategies(deps.profile), logger)

	var client domain.LLMClient
	if deps.llm != nil {
		client = deps.llm
	}
	judge := NewJudge(client, logger)

	var history domain.HistoryStore
	if deps.history != nil {
		history = deps.history
	}

	return NewVerificationService(deps.wiki, deps.scholar, deps.web, resolver, judge, history, logger)
}

func TestVerify_AllSourcesContribute(t *testing.T) {
	history := &mockHistoryStore{}
	svc := newTestVerifier(verifyTestDeps{
		wiki:    &stubSource{item: domain.EvidenceItem{Text: "Jane Doe is a professor.", Links: []string{"https://wiki.example/jane"}}},
		scholar: &stubSource{item: domain.EvidenceItem{Text: "Author: Jane Doe | Affiliations: MIT", Links: []string{"https://s2.example/1"}}},
		web:     &stubSource{item: domain.EvidenceItem{Links: []string{"https://mit.edu/~jdoe", "https://wiki.example/jane"}}},
		history: history,
	})

	verdict := svc.Verify(context.Background(), "Jane Doe", "MIT")

	// Heuristic: two text sources plus three deduped links.
	if !verdict.Verified || verdict.ConfidenceScore != 100 {
		t.Fatalf("unexpected verdict: %+v", verdict)
	}

	want := []string{"https://wiki.example/jane", "https://s2.example/1", "https://mit.edu/~jdoe"}
	if len(verdict.EvidenceLinks) != len(want) {
		t.Fatalf("expected %v, got %v", want, verdict.EvidenceLinks)
	}
	for i := range want {
		if verdict.EvidenceLinks[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, verdict.EvidenceLinks)
		}
	}
}

func TestVerify_NeverFailsWhenAllSourcesError(t *testing.T) {
	boom := errors.New("network down")
	svc := newTestVerifier(verifyTestDeps{
		wiki:    &stubSource{err: boom},
		scholar: &stubSource{err: boom},
		web:     &stubSource{err: boom},
	})

	verdict := svc.Verify(context.Background(), "Jane Doe", "MIT")

	if verdict.Verified {
		t.Fatal("expected unverified with no evidence")
	}
	if verdict.ConfidenceScore != 0 {
		t.Fatalf("expected score 0, got %d", verdict.ConfidenceScore)
	}
	if verdict.EvidenceLinks == nil || len(verdict.EvidenceLinks) != 0 {
		t.Fatalf("expected empty links slice, got %v", verdict.EvidenceLinks)
	}
}

func TestVerify_ProfileEnrichesContextOnly(t *testing.T) {
	client := llm.NewMockClient()

	withProfile := newTestVerifier(verifyTestDeps{
		wiki: &stubSource{item: domain.EvidenceItem{Text: "text", Links: []string{"https://a.example"}}},
		profile: &mockProfileStore{
			profile: &domain.ProfileRecord{Name: "Jane Doe", University: "MIT", Department: "CS", Title: "Professor"},
		},
		llm: client,
	})

	verdict := withProfile.Verify(context.Background(), "Jane Doe", "MIT")

	if len(client.GenerateCalls) != 1 {
		t.Fatalf("expected 1 generate call, got %d", len(client.GenerateCalls))
	}
	prompt := client.GenerateCalls[0]

	if !strings.Contains(prompt, "Existing Profile in Database:") {
		t.Fatalf("expected profile block in prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Department: CS") {
		t.Fatalf("expected department in prompt:\n%s", prompt)
	}
	// Missing profile fields render as N/A.
	if !strings.Contains(prompt, "Research Area: N/A") {
		t.Fatalf("expected N/A for missing research area:\n%s", prompt)
	}

	// The profile never adds evidence links.
	if len(verdict.EvidenceLinks) != 1 || verdict.EvidenceLinks[0] != "https://a.example" {
		t.Fatalf("profile must not contribute links, got %v", verdict.EvidenceLinks)
	}
}

func TestVerify_NoProfileOmitsBlock(t *testing.T) {
	client := llm.NewMockClient()
	svc := newTestVerifier(verifyTestDeps{llm: client})

	svc.Verify(context.Background(), "Jane Doe", "MIT")

	prompt := client.GenerateCalls[0]
	if strings.Contains(prompt, "Existing Profile in Database:") {
		t.Fatalf("unexpected profile block in prompt:\n%s", prompt)
	}
	// Empty sources render as placeholders, not as absent sections.
	if !strings.Contains(prompt, "Wikipedia:\n[none]") {
		t.Fatalf("expected wikipedia placeholder:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Semantic Scholar:\n[none]") {
		t.Fatalf("expected semantic scholar placeholder:\n%s", prompt)
	}
}

func TestVerify_RecordsHistory(t *testing.T) {
	history := &mockHistoryStore{}
	svc := newTestVerifier(verifyTestDeps{
		wiki:    &stubSource{item: domain.EvidenceItem{Text: "text"}},
		scholar: &stubSource{item: domain.EvidenceItem{Text: "text"}},
		history: history,
	})

	verdict := svc.Verify(context.Background(), "Jane Doe", "MIT")
	svc.Flush()

	if history.count() != 1 {
		t.Fatalf("expected 1 history record, got %d", history.count())
	}
	rec := history.records[0]
	if rec.Name != "Jane Doe" || rec.University != "MIT" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Verified != verdict.Verified || rec.Score != verdict.ConfidenceScore {
		t.Fatalf("record does not match verdict: %+v vs %+v", rec, verdict)
	}
}

func TestVerify_HistoryFailureDoesNotAffectVerdict(t *testing.T) {
	history := &mockHistoryStore{err: errors.New("disk full")}
	svc := newTestVerifier(verifyTestDeps{
		wiki:    &stubSource{item: domain.EvidenceItem{Text: "text"}},
		scholar: &stubSource{item: domain.EvidenceItem{Text: "text"}},
		history: history,
	})

	verdict := svc.Verify(context.Background(), "Jane Doe", "MIT")
	svc.Flush()

	if !verdict.Verified || verdict.ConfidenceScore != 80 {
		t.Fatalf("unexpected verdict: %+v", verdict)
	}
}

func TestVerify_NoHistoryStoreConfigured(t *testing.T) {
	svc := newTestVerifier(verifyTestDeps{})

	verdict := svc.Verify(context.Background(), "Jane Doe", "MIT")
	svc.Flush()

	if verdict.Verified {
		t.Fatalf("unexpected verdict: %+v", verdict)
	}
}

func TestVerify_Idempotent(t *testing.T) {
	svc := newTestVerifier(verifyTestDeps{
		wiki: &stubSource{item: domain.EvidenceItem{Text: "text", Links: []string{"https://a.example"}}},
		web:  &stubSource{item: domain.EvidenceItem{Links: []string{"https://b.example"}}},
	})

	first := svc.Verify(context.Background(), "Jane Doe", "MIT")
	second := svc.Verify(context.Background(), "Jane Doe", "MIT")

	if first.Verified != second.Verified || first.ConfidenceScore != second.ConfidenceScore || first.Summary != second.Summary {
		t.Fatalf("expected identical verdicts, got %+v and %+v", first, second)
	}
}

func TestVerify_CapsLinksBeforeJudging(t *testing.T) {
	links := make([]string, 20)
	for i := range links {
		links[i] = "https://example.com/" + string(rune('a'+i))
	}
	client := llm.NewMockClient()
	svc := newTestVerifier(verifyTestDeps{
		web: &stubSource{item: domain.EvidenceItem{Links: links}},
		llm: client,
	})

	verdict := svc.Verify(context.Background(), "Jane Doe", "MIT")

	if len(verdict.EvidenceLinks) != domain.MaxEvidenceLinks {
		t.Fatalf("expected %d links, got %d", domain.MaxEvidenceLinks, len(verdict.EvidenceLinks))
	}

	// The compiled context carries only the capped list.
	prompt := client.GenerateCalls[0]
	if strings.Contains(prompt, links[domain.MaxEvidenceLinks]) {
		t.Fatalf("context should not carry links beyond the cap:\n%s", prompt)
	}
}
