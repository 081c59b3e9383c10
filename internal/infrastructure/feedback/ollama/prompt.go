package ollama

import (
	"fmt"
	"strings"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

const maxPromptIssues = 15

func buildFeedbackPrompt(result *domain.AnalysisResult) string {
	var issues strings.Builder
	for idx, issue := range result.Issues {
		if idx >= maxPromptIssues {
			issues.WriteString(fmt.Sprintf("... and %d more issues\n", len(result.Issues)-maxPromptIssues))
			break
		}
		issues.WriteString(fmt.Sprintf(
			"[%d] severity=%s wcag=%s elements=%d/%d %s\n",
			idx+1,
			issue.Severity,
			issue.WCAGReference,
			issue.PassedInstances,
			issue.TotalInstances,
			issue.Description,
		))
	}

	var scores strings.Builder
	for _, p := range domain.Principles() {
		scores.WriteString(fmt.Sprintf("%s: %.0f\n", p, result.PrincipleScores[p].Score))
	}

	return fmt.Sprintf(`You are a web accessibility consultant.
The page below was checked against WCAG 2.2 and scored %0.f/100 (grade %s).
Write practical remediation advice for the site owner: what to fix first
and how, in order of impact. Plain text, no markdown headers.

URL: %s

Principle scores:
%s
Failed checks:
%s`,
		result.OverallScore,
		result.Grade,
		result.URL,
		scores.String(),
		issues.String(),
	)
}
