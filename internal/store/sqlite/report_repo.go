package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"zanonyme_go/internal/domain"
)

type ReportRepo struct {
	db *sql.DB
}

func NewReportRepo(db *sql.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

var _ domain.ReportRepository = (*ReportRepo)(nil)

const reportColumns = `id, message_id, reporter_id, reason, note, status, created_at`

// Create inserts the report and bumps the reported count on the flagged
// message in the same transaction.
func (r *ReportRepo) Create(ctx context.Context, rep *domain.Report) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin report tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO reports (` + reportColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query,
		rep.ID, rep.MessageID, rep.ReporterID, rep.Reason, rep.Note,
		string(rep.Status), rep.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE messages SET reported_count = reported_count + 1 WHERE id = ?`,
		rep.MessageID,
	); err != nil {
		return fmt.Errorf("increment reported count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit report tx: %w", err)
	}
	return nil
}

func (r *ReportRepo) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = ?`
	return r.scanReport(r.db.QueryRowContext(ctx, query, id))
}

func (r *ReportRepo) List(ctx context.Context, status domain.ReportStatus) ([]*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.Report
	for rows.Next() {
		rep, err := r.scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

func (r *ReportRepo) Resolve(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE reports SET status = ? WHERE id = ?`,
		string(domain.ReportResolved), id,
	); err != nil {
		return fmt.Errorf("resolve report: %w", err)
	}
	return nil
}

func (r *ReportRepo) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reports WHERE status = ?`, string(domain.ReportOpen),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count open reports: %w", err)
	}
	return n, nil
}

func (r *ReportRepo) scanReport(row rowScanner) (*domain.Report, error) {
	rep := &domain.Report{}
	var status string
	err := row.Scan(
		&rep.ID,
		&rep.MessageID,
		&rep.ReporterID,
		&rep.Reason,
		&rep.Note,
		&status,
		&rep.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan report: %w", err)
	}
	rep.Status = domain.ReportStatus(status)
	return rep, nil
}
