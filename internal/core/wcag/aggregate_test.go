package wcag

import (
	"testing"
	"time"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

func fixedScores(p, o, u, r float64) map[domain.Principle]domain.PrincipleScore {
	return map[domain.Principle]domain.PrincipleScore{
		domain.PrinciplePerceivable:    {Principle: domain.PrinciplePerceivable, Score: p},
		domain.PrincipleOperable:       {Principle: domain.PrincipleOperable, Score: o},
		domain.PrincipleUnderstandable: {Principle: domain.PrincipleUnderstandable, Score: u},
		domain.PrincipleRobust:         {Principle: domain.PrincipleRobust, Score: r},
	}
}

func TestAggregateWeighting(t *testing.T) {
	overall, grade := Aggregate(fixedScores(100, 100, 0, 0))
	if overall != 70 {
		t.Fatalf("overall = %.2f, want 70", overall)
	}
	if grade != domain.GradeAA {
		t.Fatalf("grade = %s, want AA", grade)
	}
}

func TestAggregateRounds(t *testing.T) {
	// 0.35*90 + 0.35*90 + 0.15*90 + 0.15*91 = 90.15
	overall, _ := Aggregate(fixedScores(90, 90, 90, 91))
	if overall != 90 {
		t.Fatalf("overall = %.2f, want 90", overall)
	}
}

func TestGradeBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  domain.Grade
	}{
		{100, domain.GradeAAA},
		{90, domain.GradeAAA},
		{89, domain.GradeAA},
		{70, domain.GradeAA},
		{69, domain.GradeA},
		{50, domain.GradeA},
		{49, domain.GradeNonCompliant},
		{0, domain.GradeNonCompliant},
	}
	for _, tc := range cases {
		if got := GradeFor(tc.score); got != tc.want {
			t.Errorf("GradeFor(%.0f) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, p := range domain.Principles() {
		sum += Weight(p)
	}
	if sum < 0.999 || sum > 1.001 {
		t.Fatalf("principle weights sum to %.4f, want 1", sum)
	}
}

func TestBuildResultSortsIssues(t *testing.T) {
	scores := fixedScores(50, 50, 50, 50)
	scores[domain.PrincipleRobust] = domain.PrincipleScore{
		Principle: domain.PrincipleRobust,
		Score:     50,
		Checks: []domain.CheckResult{
			{CheckID: "minor-one", Principle: domain.PrincipleRobust, Severity: domain.SeverityMinor, TotalInstances: 1},
			{CheckID: "critical-one", Principle: domain.PrincipleRobust, Severity: domain.SeverityCritical, TotalInstances: 1},
		},
	}
	scores[domain.PrinciplePerceivable] = domain.PrincipleScore{
		Principle: domain.PrinciplePerceivable,
		Score:     50,
		Checks: []domain.CheckResult{
			{CheckID: "major-one", Principle: domain.PrinciplePerceivable, Severity: domain.SeverityMajor, TotalInstances: 1},
		},
	}

	result := BuildResult("https://example.com", scores, time.Now(), 2*time.Second)
	if len(result.Issues) != 3 {
		t.Fatalf("issues = %d, want 3", len(result.Issues))
	}
	order := []string{"critical-one", "major-one", "minor-one"}
	for i, want := range order {
		if result.Issues[i].CheckID != want {
			t.Fatalf("issues[%d] = %s, want %s", i, result.Issues[i].CheckID, want)
		}
	}
}

func TestFailureResult(t *testing.T) {
	result := FailureResult("https://example.com", "fetch failed after retries", time.Now())
	if !result.Failed() {
		t.Fatalf("failure result should report Failed()")
	}
	if result.Grade != domain.GradeError {
		t.Fatalf("grade = %s, want %s", result.Grade, domain.GradeError)
	}
	if result.OverallScore != 0 {
		t.Fatalf("overall = %.2f, want 0", result.OverallScore)
	}
	for _, p := range domain.Principles() {
		if s := result.PrincipleScores[p]; s.Score != 0 {
			t.Fatalf("%s score = %.2f, want 0", p, s.Score)
		}
	}
	if len(result.Issues) != 4 {
		t.Fatalf("issues = %d, want one per principle", len(result.Issues))
	}
}
