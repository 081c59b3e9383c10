package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

func newJournalWithMock(t *testing.T) (*AnalysisJournal, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &AnalysisJournal{db: db}, mock, func() { _ = db.Close() }
}

func TestCreateInsertsRecord(t *testing.T) {
	journal, mock, done := newJournalWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectExec("INSERT INTO analyses").
		WithArgs("id-1", "https://example.com", string(domain.StatusPending), "",
			0.0, 0, "", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := journal.Create(context.Background(), &domain.AnalysisRecord{
		ID:        "id-1",
		URL:       "https://example.com",
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateStatusReturnsNotFoundWhenNoRowsAffected(t *testing.T) {
	journal, mock, done := newJournalWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE analyses").
		WithArgs("missing", string(domain.StatusFetching), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := journal.UpdateStatus(context.Background(), "missing", domain.StatusFetching, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveResultMarksFailedRuns(t *testing.T) {
	journal, mock, done := newJournalWithMock(t)
	defer done()

	result := &domain.AnalysisResult{
		URL:   "https://example.com",
		Grade: domain.GradeError,
	}

	mock.ExpectExec("UPDATE analyses").
		WithArgs("id-1", string(domain.StatusFailed), string(domain.GradeError),
			0.0, 0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := journal.SaveResult(context.Background(), "id-1", result); err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetLatestByURLReturnsNotFound(t *testing.T) {
	journal, mock, done := newJournalWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, url, status, grade").
		WithArgs("https://missing.example").
		WillReturnError(sql.ErrNoRows)

	_, err := journal.GetLatestByURL(context.Background(), "https://missing.example")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetLatestByURLScansRecord(t *testing.T) {
	journal, mock, done := newJournalWithMock(t)
	defer done()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "url", "status", "grade", "overall_score", "issue_count",
		"error_message", "created_at", "updated_at",
	}).AddRow("id-1", "https://example.com", "cached", "AA", 85.0, 3, nil, now, now)

	mock.ExpectQuery("SELECT id, url, status, grade").
		WithArgs("https://example.com").
		WillReturnRows(rows)

	rec, err := journal.GetLatestByURL(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("GetLatestByURL() error = %v", err)
	}
	if rec.Status != domain.StatusCached || rec.Grade != domain.GradeAA || rec.IssueCount != 3 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
