package domain

import "time"

type Principle string

const (
	PrinciplePerceivable    Principle = "perceivable"
	PrincipleOperable       Principle = "operable"
	PrincipleUnderstandable Principle = "understandable"
	PrincipleRobust         Principle = "robust"
)

// Principles lists the four WCAG principles in canonical order.
func Principles() []Principle {
	return []Principle{
		PrinciplePerceivable,
		PrincipleOperable,
		PrincipleUnderstandable,
		PrincipleRobust,
	}
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// Weight returns the scoring weight used by the evaluators and the
// aggregation formula. Critical failures count three times as much as
// minor ones so a page with few critical defects never scores the same
// as one with many cosmetic defects.
func (s Severity) Weight() float64 {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityMajor:
		return 2
	default:
		return 1
	}
}

type Grade string

const (
	GradeAAA          Grade = "AAA"
	GradeAA           Grade = "AA"
	GradeA            Grade = "A"
	GradeNonCompliant Grade = "Not WCAG compliant"

	// GradeError marks an analysis that failed to run (fetch error,
	// unparseable input). It is never produced by scoring and must not
	// be conflated with GradeNonCompliant, which is a real low score.
	GradeError Grade = "Error"
)

// CheckResult is the outcome of one atomic accessibility rule.
// Instances are counted per element, not per page, so a partially
// compliant page earns partial credit. Immutable once created.
type CheckResult struct {
	CheckID         string    `json:"check_id"`
	Description     string    `json:"description"`
	WCAGReference   string    `json:"wcag_reference"`
	Principle       Principle `json:"principle"`
	Severity        Severity  `json:"severity"`
	Passed          bool      `json:"passed"`
	TotalInstances  int       `json:"total_instances"`
	PassedInstances int       `json:"passed_instances"`
	Detail          string    `json:"detail,omitempty"`
}

// Applicable reports whether the check found any element it applies to.
// Inapplicable checks are excluded from the scoring denominator.
func (c CheckResult) Applicable() bool {
	return c.TotalInstances > 0
}

type PrincipleScore struct {
	Principle Principle     `json:"principle"`
	Score     float64       `json:"score"`
	Checks    []CheckResult `json:"checks"`
}

type AnalysisStatus string

const (
	StatusPending     AnalysisStatus = "pending"
	StatusFetching    AnalysisStatus = "fetching"
	StatusEvaluating  AnalysisStatus = "evaluating"
	StatusAggregating AnalysisStatus = "aggregating"
	StatusCached      AnalysisStatus = "cached"
	StatusFailed      AnalysisStatus = "failed"
)

// AnalysisResult is the aggregated outcome for one URL. It is immutable
// after creation: re-analysing a URL produces a new result, never a
// mutation of a stored one. The JSON field names are a stable contract
// read by reporting tools and UI badges.
type AnalysisResult struct {
	URL             string                       `json:"url"`
	OverallScore    float64                      `json:"overall_score"`
	Grade           Grade                        `json:"grade"`
	PrincipleScores map[Principle]PrincipleScore `json:"principle_scores"`
	Issues          []CheckResult                `json:"issues"`
	AnalysedAt      time.Time                    `json:"analysed_at"`
	DurationSeconds float64                      `json:"analysis_duration_seconds"`
}

// Failed reports whether the result represents a terminal analysis
// failure rather than a computed score. Failed results are never cached.
func (r *AnalysisResult) Failed() bool {
	return r.Grade == GradeError
}

// BatchItem pairs one requested URL with either its result or the
// terminal error that stopped its analysis. A batch response contains
// exactly one item per requested URL.
type BatchItem struct {
	URL    string          `json:"url"`
	Result *AnalysisResult `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// AnalysisRecord is the journal row tracking one analysis run through
// its state machine. Best-effort bookkeeping, separate from the cache.
type AnalysisRecord struct {
	ID           string         `json:"id"`
	URL          string         `json:"url"`
	Status       AnalysisStatus `json:"status"`
	Grade        Grade          `json:"grade,omitempty"`
	OverallScore float64        `json:"overall_score"`
	IssueCount   int            `json:"issue_count"`
	Error        string         `json:"error,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// CacheStats summarises the persisted result cache.
type CacheStats struct {
	Entries   int    `json:"entries"`
	SizeBytes int64  `json:"size_bytes"`
	Backend   string `json:"backend"`
}
