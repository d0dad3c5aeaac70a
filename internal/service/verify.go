package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"profverify/internal/domain"
	"profverify/internal/evidence"
)

const historyWriteTimeout = 10 * time.Second

// VerificationService runs the verification pipeline: gather evidence
// from the independent sources, deduplicate links, enrich with any
// known profile, compile one context blob, judge, and persist the
// outcome. Verify never fails; total source failure still yields a
// valid low-confidence verdict.
type VerificationService struct {
	wiki    domain.EvidenceSource
	scholar domain.EvidenceSource
	web     domain.EvidenceSource

	profiles *ProfileResolver
	judge    *Judge
	history  domain.HistoryStore
	logger   *zap.Logger

	// tracks in-flight history writes so tests can wait for them
	historyWG sync.WaitGroup
}

func NewVerificationService(
	wiki, scholar, web domain.EvidenceSource,
	profiles *ProfileResolver,
	judge *Judge,
	history domain.HistoryStore,
	logger *zap.Logger,
) *VerificationService {
	return &VerificationService{
		wiki:     wiki,
		scholar:  scholar,
		web:      web,
		profiles: profiles,
		judge:    judge,
		history:  history,
		logger:   logger,
	}
}

// Verify checks whether the named person is plausibly a genuine,
// active professor at the given university. The three evidence
// sources and the profile lookup are independent, so they run
// concurrently; each degrades to an empty contribution on failure.
func (s *VerificationService) Verify(ctx context.Context, name, university string) domain.Verdict {
	var (
		wiki    domain.EvidenceItem
		scholar domain.EvidenceItem
		web     domain.EvidenceItem
		profile *domain.ProfileRecord
	)

	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); wiki = s.gather(ctx, "wikipedia", s.wiki, name, university) }()
	go func() { defer wg.Done(); scholar = s.gather(ctx, "semantic_scholar", s.scholar, name, university) }()
	go func() { defer wg.Done(); web = s.gather(ctx, "web_search", s.web, name, university) }()
	go func() { defer wg.Done(); profile = s.profiles.Resolve(ctx, name, university) }()
	wg.Wait()

	links := capLinks(evidence.DedupeLinks(wiki.Links, scholar.Links, web.Links), domain.MaxEvidenceLinks)

	bundle := domain.EvidenceBundle{
		CompiledContext: compileContext(name, university, profile, wiki.Text, scholar.Text, links),
		EvidenceLinks:   links,
	}

	verdict := s.judge.Decide(ctx, bundle, wiki.Text, scholar.Text)

	// Fire-and-forget: the caller gets the verdict regardless of
	// whether the write lands.
	s.historyWG.Add(1)
	go func() {
		defer s.historyWG.Done()
		s.recordHistory(name, university, verdict)
	}()

	return verdict
}

// Flush blocks until in-flight history writes have finished. Called
// on shutdown so accepted verdicts are not lost.
func (s *VerificationService) Flush() {
	s.historyWG.Wait()
}

func (s *VerificationService) gather(ctx context.Context, sourceName string, src domain.EvidenceSource, name, university string) domain.EvidenceItem {
	item, err := src.Lookup(ctx, name, university)
	if err != nil {
		s.logger.Warn("evidence source unavailable",
			zap.String("source", sourceName),
			zap.Error(err),
		)
		return domain.EvidenceItem{}
	}
	return item
}

func (s *VerificationService) recordHistory(name, university string, v domain.Verdict) {
	if s.history == nil {
		s.logger.Warn("history store not configured, dropping record",
			zap.String("name", name),
			zap.String("university", university),
		)
		return
	}

	// The request context is gone by the time this runs.
	ctx, cancel := context.WithTimeout(context.Background(), historyWriteTimeout)
	defer cancel()

	rec := &domain.HistoryRecord{
		Name:       name,
		University: university,
		Verified:   v.Verified,
		Score:      v.ConfidenceScore,
	}
	if err := s.history.Append(ctx, rec); err != nil {
		s.logger.Warn("history append failed",
			zap.String("name", name),
			zap.Error(err),
		)
	}
}

// compileContext renders the evidence bundle into the single text
// blob the judge consumes. Empty source texts render as a literal
// [none]; missing profile fields render as N/A.
func compileContext(name, university string, profile *domain.ProfileRecord, wikiText, scholarText string, links []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\nUniversity: %s\n", name, university)

	if profile != nil {
		fmt.Fprintf(&sb, "\nExisting Profile in Database:\nName: %s\nUniversity: %s\nDepartment: %s\nResearch Area: %s\nTitle: %s\n\n",
			profile.Name, profile.University, orNA(profile.Department), orNA(profile.ResearchArea), orNA(profile.Title))
	}

	fmt.Fprintf(&sb, "Wikipedia:\n%s\n\n", orPlaceholder(wikiText))
	fmt.Fprintf(&sb, "Semantic Scholar:\n%s\n\n", orPlaceholder(scholarText))

	sb.WriteString("Top Links:\n")
	sb.WriteString(strings.Join(links, "\n"))
	return sb.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orPlaceholder(s string) string {
	if s == "" {
		return "[none]"
	}
	return s
}
