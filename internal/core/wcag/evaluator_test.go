package wcag

import (
	"testing"
	"time"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

const cleanPage = `<html lang="en">
<head><title>Welcome</title></head>
<body>
	<h1>Welcome</h1>
	<img src="logo.png" alt="Company logo">
	<p>A short page with nothing to object to.</p>
</body>
</html>`

const degradedPage = `<html>
<head></head>
<body>
	<h1>Top</h1>
	<h3>Skipped a level</h3>
	<img src="a.png">
	<img src="b.png">
	<img src="c.png">
</body>
</html>`

func evaluateAll(t *testing.T, markup string) map[domain.Principle]domain.PrincipleScore {
	t.Helper()
	doc := mustParse(t, markup)
	scores := make(map[domain.Principle]domain.PrincipleScore, 4)
	for _, e := range Evaluators() {
		scores[e.Principle()] = e.Evaluate(doc)
	}
	return scores
}

func TestCleanPageScoresAAA(t *testing.T) {
	scores := evaluateAll(t, cleanPage)
	for _, p := range domain.Principles() {
		if s := scores[p]; s.Score != 100 {
			t.Fatalf("%s score = %.2f, want 100; checks %+v", p, s.Score, s.Checks)
		}
	}

	result := BuildResult("https://example.com", scores, time.Now(), time.Second)
	if result.Grade != domain.GradeAAA {
		t.Fatalf("grade = %s, want AAA", result.Grade)
	}
	if len(result.Issues) != 0 {
		t.Fatalf("issues = %+v, want none", result.Issues)
	}
}

func TestDegradedPageScoresLow(t *testing.T) {
	scores := evaluateAll(t, degradedPage)

	if s := scores[domain.PrincipleUnderstandable]; s.Score != 0 {
		t.Fatalf("understandable = %.2f, want 0 (missing lang)", s.Score)
	}
	if s := scores[domain.PrincipleOperable]; s.Score != 0 {
		t.Fatalf("operable = %.2f, want 0 (missing title)", s.Score)
	}
	if s := scores[domain.PrinciplePerceivable]; s.Score >= 50 {
		t.Fatalf("perceivable = %.2f, want well below 50", s.Score)
	}

	result := BuildResult("https://example.com", scores, time.Now(), time.Second)
	if result.Grade != domain.GradeNonCompliant {
		t.Fatalf("grade = %s, want %s", result.Grade, domain.GradeNonCompliant)
	}
}

func TestEvaluationIsDeterministic(t *testing.T) {
	doc := mustParse(t, degradedPage)
	for _, e := range Evaluators() {
		first := e.Evaluate(doc)
		second := e.Evaluate(doc)
		if first.Score != second.Score {
			t.Fatalf("%s evaluation not deterministic: %.2f vs %.2f",
				e.Principle(), first.Score, second.Score)
		}
		if len(first.Checks) != len(second.Checks) {
			t.Fatalf("%s check count changed between runs", e.Principle())
		}
	}
}

func TestEvaluatorsCoverAllPrinciples(t *testing.T) {
	seen := make(map[domain.Principle]bool)
	for _, e := range Evaluators() {
		seen[e.Principle()] = true
	}
	for _, p := range domain.Principles() {
		if !seen[p] {
			t.Fatalf("no evaluator registered for %s", p)
		}
	}
}
