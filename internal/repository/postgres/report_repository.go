package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/studybuddy/backend/internal/domain"
	"github.com/studybuddy/backend/internal/repository"
)

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	query := `
		INSERT INTO user_reports (reporter_id, reported_user_id, reason, context)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(
		ctx, query,
		report.ReporterID, report.ReportedUserID, report.Reason, report.Context,
	).Scan(&report.ID, &report.CreatedAt)
}
