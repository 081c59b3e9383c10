package httpadapter

import (
	"io"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

// ReportWriter renders a batch outcome as a downloadable document.
type ReportWriter interface {
	WriteBatchReport(w io.Writer, items []domain.BatchItem) error
}
