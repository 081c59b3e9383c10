package wcag

import (
	"github.com/a11yrank/a11yrank/internal/core/domain"
)

// Evaluator is a rule engine for one WCAG principle. Evaluate is a pure
// function of the document: no I/O, no mutation of input, safe to run
// concurrently with the other evaluators and across documents.
type Evaluator struct {
	principle domain.Principle
	checks    []check
}

func (e Evaluator) Principle() domain.Principle { return e.principle }

func (e Evaluator) Evaluate(doc *Document) domain.PrincipleScore {
	results := make([]domain.CheckResult, 0, len(e.checks))
	for _, c := range e.checks {
		results = append(results, c.evaluate(e.principle, doc))
	}
	return scoreChecks(e.principle, results)
}

// Evaluators returns the fixed, versioned union of checks across the
// four principles, in canonical principle order.
func Evaluators() []Evaluator {
	return []Evaluator{
		{principle: domain.PrinciplePerceivable, checks: perceivableChecks},
		{principle: domain.PrincipleOperable, checks: operableChecks},
		{principle: domain.PrincipleUnderstandable, checks: understandableChecks},
		{principle: domain.PrincipleRobust, checks: robustChecks},
	}
}

// ZeroScore is the degraded result for a principle that could not
// evaluate at all (unparseable markup, evaluator crash). It is a hard
// zero, not the neutral 100 used for "no applicable elements".
func ZeroScore(principle domain.Principle, reason string) domain.PrincipleScore {
	return domain.PrincipleScore{
		Principle: principle,
		Score:     0,
		Checks: []domain.CheckResult{{
			CheckID:        string(principle) + "-evaluation",
			Description:    "Principle evaluation did not run",
			WCAGReference:  "-",
			Principle:      principle,
			Severity:       domain.SeverityCritical,
			Passed:         false,
			TotalInstances: 1,
			Detail:         reason,
		}},
	}
}
