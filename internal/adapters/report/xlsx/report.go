package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

const (
	summarySheet = "Summary"
	issuesSheet  = "Issues"
)

// Writer renders a batch outcome as an XLSX workbook: one summary row
// per URL plus a flat issue list for remediation tracking.
type Writer struct{}

func NewWriter() *Writer { return &Writer{} }

func (Writer) WriteBatchReport(w io.Writer, items []domain.BatchItem) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(issuesSheet); err != nil {
		return fmt.Errorf("create issues sheet: %w", err)
	}

	if err := writeSummary(f, items); err != nil {
		return err
	}
	if err := writeIssues(f, items); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, items []domain.BatchItem) error {
	header := []any{"URL", "Overall score", "Grade", "Perceivable", "Operable", "Understandable", "Robust", "Issues", "Error"}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}

	for i, item := range items {
		row := summaryRow(item)
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+2, err)
		}
	}
	return nil
}

func summaryRow(item domain.BatchItem) []any {
	if item.Result == nil {
		return []any{item.URL, nil, "", nil, nil, nil, nil, nil, item.Error}
	}
	r := item.Result
	return []any{
		item.URL,
		r.OverallScore,
		string(r.Grade),
		principleScore(r, domain.PrinciplePerceivable),
		principleScore(r, domain.PrincipleOperable),
		principleScore(r, domain.PrincipleUnderstandable),
		principleScore(r, domain.PrincipleRobust),
		len(r.Issues),
		item.Error,
	}
}

func principleScore(r *domain.AnalysisResult, p domain.Principle) float64 {
	return r.PrincipleScores[p].Score
}

func writeIssues(f *excelize.File, items []domain.BatchItem) error {
	header := []any{"URL", "Check", "WCAG", "Principle", "Severity", "Failing elements", "Description", "Detail"}
	if err := f.SetSheetRow(issuesSheet, "A1", &header); err != nil {
		return fmt.Errorf("write issues header: %w", err)
	}

	rowNum := 2
	for _, item := range items {
		if item.Result == nil {
			continue
		}
		for _, issue := range item.Result.Issues {
			row := []any{
				item.URL,
				issue.CheckID,
				issue.WCAGReference,
				string(issue.Principle),
				string(issue.Severity),
				issue.TotalInstances - issue.PassedInstances,
				issue.Description,
				issue.Detail,
			}
			cell := fmt.Sprintf("A%d", rowNum)
			if err := f.SetSheetRow(issuesSheet, cell, &row); err != nil {
				return fmt.Errorf("write issue row %d: %w", rowNum, err)
			}
			rowNum++
		}
	}
	return nil
}
