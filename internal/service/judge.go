package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"profverify/internal/domain"
	"profverify/internal/llm"
)

// Heuristic scoring: each text-bearing source is worth 40 points, a
// healthy link count 20, verified at 60 or above.
const (
	heuristicSourceScore = 40
	heuristicLinkScore   = 20
	heuristicMinLinks    = 3
	verifiedThreshold    = 60
)

// Judge decides verified/unverified for an evidence bundle. With a
// configured reasoning service it asks for a strict-JSON judgment;
// without one, or when the reply is unusable, it falls back to the
// deterministic heuristic. Decide never fails.
type Judge struct {
	llm    domain.LLMClient
	logger *zap.Logger
}

// NewJudge creates a judge. A nil client pins the judge to the
// heuristic path.
func NewJudge(client domain.LLMClient, logger *zap.Logger) *Judge {
	return &Judge{llm: client, logger: logger}
}

// rawJudgment is the unvalidated output of either judge path. Fields
// are any-typed because model replies routinely get the types wrong;
// normalizeVerdict coerces them into the Verdict contract.
type rawJudgment struct {
	Verified        any `json:"verified"`
	ConfidenceScore any `json:"confidence_score"`
	Summary         any `json:"summary"`
}

func (j *Judge) Decide(ctx context.Context, bundle domain.EvidenceBundle, wikiText, scholarText string) domain.Verdict {
	if j.llm != nil {
		if raw, ok := j.modelJudgment(ctx, bundle.CompiledContext); ok {
			return normalizeVerdict(raw, bundle.EvidenceLinks)
		}
	}
	return normalizeVerdict(heuristicJudgment(wikiText, scholarText, bundle.EvidenceLinks), bundle.EvidenceLinks)
}

func (j *Judge) modelJudgment(ctx context.Context, compiledContext string) (rawJudgment, bool) {
	reply, err := j.llm.Generate(ctx, llm.VerifyPrompt(compiledContext))
	if err != nil {
		j.logger.Warn("reasoning service unavailable, falling back to heuristic", zap.Error(err))
		return rawJudgment{}, false
	}

	raw, ok := parseJudgeReply(reply)
	if !ok {
		j.logger.Warn("unparseable reasoning reply, falling back to heuristic",
			zap.String("reply", truncate(reply, 200)),
		)
	}
	return raw, ok
}

// parseJudgeReply parses the raw model reply as JSON. When direct
// parsing fails it retries on the span between the first '{' and the
// last '}'. Best-effort: a reply holding several JSON objects can
// still mis-parse, and then the heuristic takes over.
func parseJudgeReply(reply string) (rawJudgment, bool) {
	reply = strings.TrimSpace(reply)

	var raw rawJudgment
	if err := json.Unmarshal([]byte(reply), &raw); err == nil {
		return raw, true
	}

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end <= start {
		return rawJudgment{}, false
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return rawJudgment{}, false
	}
	return raw, true
}

func heuristicJudgment(wikiText, scholarText string, links []string) rawJudgment {
	score := 0
	if wikiText != "" {
		score += heuristicSourceScore
	}
	if scholarText != "" {
		score += heuristicSourceScore
	}
	if len(links) >= heuristicMinLinks {
		score += heuristicLinkScore
	}
	score = clampScore(score)

	verified := score >= verifiedThreshold
	summary := "Heuristic result (no AI key). "
	if verified {
		summary += "Likely professor based on sources."
	} else {
		summary += "Insufficient evidence."
	}

	return rawJudgment{
		Verified:        verified,
		ConfidenceScore: score,
		Summary:         summary,
	}
}

// normalizeVerdict coerces a raw judgment into the Verdict contract.
// It is applied identically to the model and heuristic paths, so the
// caller sees one output shape no matter which path ran.
func normalizeVerdict(raw rawJudgment, links []string) domain.Verdict {
	return domain.Verdict{
		Verified:        coerceBool(raw.Verified),
		ConfidenceScore: clampScore(coerceInt(raw.ConfidenceScore)),
		Summary:         coerceString(raw.Summary),
		EvidenceLinks:   capLinks(links, domain.MaxEvidenceLinks),
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func coerceBool(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func coerceInt(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case float64:
		return int(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(x); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return int(f)
		}
	}
	return 0
}

func coerceString(v any) string {
	s, _ := v.(string)
	return s
}

func capLinks(links []string, limit int) []string {
	if len(links) > limit {
		links = links[:limit]
	}
	out := make([]string, len(links))
	copy(out, links)
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
