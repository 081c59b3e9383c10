package wcag

import (
	"math"
	"sort"
	"time"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

// principleWeights reflects how reliably each principle can be judged
// from static HTML: perceivable and operable carry 70% combined,
// understandable and robust the remaining 30%.
var principleWeights = map[domain.Principle]float64{
	domain.PrinciplePerceivable:    0.35,
	domain.PrincipleOperable:       0.35,
	domain.PrincipleUnderstandable: 0.15,
	domain.PrincipleRobust:         0.15,
}

// Weight exposes the fixed aggregation weight for a principle.
func Weight(p domain.Principle) float64 { return principleWeights[p] }

// Aggregate combines the four principle scores into the overall score
// and grade. Deterministic: same inputs, same output, no hidden state.
func Aggregate(scores map[domain.Principle]domain.PrincipleScore) (float64, domain.Grade) {
	var weighted float64
	for p, w := range principleWeights {
		weighted += w * scores[p].Score
	}
	overall := math.Round(weighted)
	return overall, GradeFor(overall)
}

// GradeFor maps an overall score to its compliance grade. Inclusive
// lower bounds, no hysteresis.
func GradeFor(score float64) domain.Grade {
	switch {
	case score >= 90:
		return domain.GradeAAA
	case score >= 70:
		return domain.GradeAA
	case score >= 50:
		return domain.GradeA
	default:
		return domain.GradeNonCompliant
	}
}

// BuildResult assembles the immutable analysis result: overall score,
// grade, and the failed checks sorted by severity then principle.
func BuildResult(url string, scores map[domain.Principle]domain.PrincipleScore, analysedAt time.Time, duration time.Duration) *domain.AnalysisResult {
	overall, grade := Aggregate(scores)
	return &domain.AnalysisResult{
		URL:             url,
		OverallScore:    overall,
		Grade:           grade,
		PrincipleScores: scores,
		Issues:          collectIssues(scores),
		AnalysedAt:      analysedAt.UTC(),
		DurationSeconds: duration.Seconds(),
	}
}

// FailureResult is the terminal descriptor for an analysis that never
// produced a score. Grade Error is not a compliance judgement and is
// never cached.
func FailureResult(url, reason string, analysedAt time.Time) *domain.AnalysisResult {
	scores := make(map[domain.Principle]domain.PrincipleScore, 4)
	for _, p := range domain.Principles() {
		scores[p] = ZeroScore(p, reason)
	}
	return &domain.AnalysisResult{
		URL:             url,
		OverallScore:    0,
		Grade:           domain.GradeError,
		PrincipleScores: scores,
		Issues:          collectIssues(scores),
		AnalysedAt:      analysedAt.UTC(),
	}
}

var severityRank = map[domain.Severity]int{
	domain.SeverityCritical: 0,
	domain.SeverityMajor:    1,
	domain.SeverityMinor:    2,
}

var principleRank = map[domain.Principle]int{
	domain.PrinciplePerceivable:    0,
	domain.PrincipleOperable:       1,
	domain.PrincipleUnderstandable: 2,
	domain.PrincipleRobust:         3,
}

func collectIssues(scores map[domain.Principle]domain.PrincipleScore) []domain.CheckResult {
	issues := make([]domain.CheckResult, 0)
	for _, p := range domain.Principles() {
		for _, c := range scores[p].Checks {
			if !c.Passed {
				issues = append(issues, c)
			}
		}
	}
	sort.SliceStable(issues, func(i, j int) bool {
		if severityRank[issues[i].Severity] != severityRank[issues[j].Severity] {
			return severityRank[issues[i].Severity] < severityRank[issues[j].Severity]
		}
		if principleRank[issues[i].Principle] != principleRank[issues[j].Principle] {
			return principleRank[issues[i].Principle] < principleRank[issues[j].Principle]
		}
		return issues[i].CheckID < issues[j].CheckID
	})
	return issues
}
