package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

// AnalysisJournal records every analysis run and its state transitions.
// The journal is an audit trail, not the source of truth for results:
// the cache serves reads, the journal answers "what happened to this
// URL and when".
type AnalysisJournal struct {
	db *sql.DB
}

func NewAnalysisJournal(db *sql.DB) *AnalysisJournal {
	return &AnalysisJournal{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *AnalysisJournal) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082201)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS analyses (
	id TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	status TEXT NOT NULL,
	grade TEXT,
	overall_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	issue_count INTEGER NOT NULL DEFAULT 0,
	result JSONB,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_url ON analyses(url);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *AnalysisJournal) Create(ctx context.Context, rec *domain.AnalysisRecord) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO analyses (id, url, status, grade, overall_score, issue_count, error_message, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		rec.ID, rec.URL, string(rec.Status), string(rec.Grade), rec.OverallScore,
		rec.IssueCount, rec.Error, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (r *AnalysisJournal) UpdateStatus(ctx context.Context, id string, status domain.AnalysisStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE analyses SET status = $2, error_message = $3, updated_at = $4 WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update analysis status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, "update analysis status", fmt.Errorf("analysis %s", id))
	}
	return nil
}

func (r *AnalysisJournal) SaveResult(ctx context.Context, id string, result *domain.AnalysisResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	status := domain.StatusCached
	if result.Failed() {
		status = domain.StatusFailed
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE analyses
SET status = $2, grade = $3, overall_score = $4, issue_count = $5, result = $6, updated_at = $7
WHERE id = $1
`, id, string(status), string(result.Grade), result.OverallScore, len(result.Issues), resultJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save analysis result: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, "save analysis result", fmt.Errorf("analysis %s", id))
	}
	return nil
}

func (r *AnalysisJournal) GetLatestByURL(ctx context.Context, url string) (*domain.AnalysisRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, url, status, grade, overall_score, issue_count, error_message, created_at, updated_at
FROM analyses
WHERE url = $1
ORDER BY created_at DESC
LIMIT 1
`, url)

	var rec domain.AnalysisRecord
	var status, grade string
	var errMessage sql.NullString

	err := row.Scan(&rec.ID, &rec.URL, &status, &grade, &rec.OverallScore,
		&rec.IssueCount, &errMessage, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get analysis", fmt.Errorf("url %s", url))
		}
		return nil, fmt.Errorf("scan analysis: %w", err)
	}

	rec.Status = domain.AnalysisStatus(status)
	rec.Grade = domain.Grade(grade)
	rec.Error = errMessage.String
	return &rec, nil
}
