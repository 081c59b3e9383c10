package wcag

import (
	"fmt"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

// check is one atomic accessibility rule. Every check is a pure
// function of the document: it counts the instances it applies to and
// how many of them pass, supporting partial credit. The union of all
// registered checks is fixed at construction time; adding or removing
// one changes scoring semantics and is treated as a versioned change.
type check struct {
	id          string
	description string
	wcagRef     string
	severity    domain.Severity
	run         func(*Document) (passed, total int, detail string)
}

func (c check) evaluate(principle domain.Principle, doc *Document) domain.CheckResult {
	passed, total, detail := c.run(doc)
	if passed < 0 {
		passed = 0
	}
	if passed > total {
		passed = total
	}
	return domain.CheckResult{
		CheckID:         c.id,
		Description:     c.description,
		WCAGReference:   c.wcagRef,
		Principle:       principle,
		Severity:        c.severity,
		Passed:          total == 0 || passed == total,
		TotalInstances:  total,
		PassedInstances: passed,
		Detail:          detail,
	}
}

// scoreChecks folds check results into a principle score. Instances are
// weighted by severity; checks with zero applicable instances are
// excluded from the denominator, and a principle with nothing to
// evaluate defaults to a neutral 100 rather than penalizing pages that
// simply lack the relevant elements.
func scoreChecks(principle domain.Principle, results []domain.CheckResult) domain.PrincipleScore {
	var passed, total float64
	for _, r := range results {
		w := r.Severity.Weight()
		passed += float64(r.PassedInstances) * w
		total += float64(r.TotalInstances) * w
	}

	score := 100.0
	if total > 0 {
		score = 100 * passed / total
	}
	return domain.PrincipleScore{
		Principle: principle,
		Score:     score,
		Checks:    results,
	}
}

func ratioDetail(passed, total int, what string) string {
	return fmt.Sprintf("%d/%d %s", passed, total, what)
}
