package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/studybuddy/backend/internal/domain"
	"github.com/studybuddy/backend/internal/repository"
)

type approvalRepository struct {
	db *sqlx.DB
}

func NewApprovalRepository(db *sqlx.DB) repository.ApprovalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) Upsert(ctx context.Context, approval *domain.Approval) (bool, error) {
	query := `
		INSERT INTO user_approvals (approver_id, approved_user_id, is_approved)
		VALUES ($1, $2, $3)
		ON CONFLICT (approver_id, approved_user_id)
		DO UPDATE SET is_approved = EXCLUDED.is_approved
		RETURNING id, created_at, (xmax = 0) AS inserted
	`
	var inserted bool
	err := r.db.QueryRowContext(
		ctx, query,
		approval.ApproverID, approval.ApprovedUserID, approval.IsApproved,
	).Scan(&approval.ID, &approval.CreatedAt, &inserted)
	return inserted, err
}

func (r *approvalRepository) GetByUsers(ctx context.Context, approverID, approvedUserID int) (*domain.Approval, error) {
	var approval domain.Approval
	query := `SELECT * FROM user_approvals WHERE approver_id = $1 AND approved_user_id = $2`
	if err := r.db.GetContext(ctx, &approval, query, approverID, approvedUserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &approval, nil
}

func (r *approvalRepository) ListMutualMatches(ctx context.Context, userID int) ([]*domain.User, error) {
	query := `
		SELECT u.* FROM users u
		WHERE u.id <> $1
		  AND u.id IN (
			SELECT approved_user_id FROM user_approvals
			WHERE approver_id = $1 AND is_approved = TRUE
		  )
		  AND u.id IN (
			SELECT approver_id FROM user_approvals
			WHERE approved_user_id = $1 AND is_approved = TRUE
		  )
		ORDER BY u.id ASC
	`
	var users []*domain.User
	if err := r.db.SelectContext(ctx, &users, query, userID); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *approvalRepository) LatestApprovalBetween(ctx context.Context, userID, otherID int) (*domain.Approval, error) {
	var approval domain.Approval
	query := `
		SELECT * FROM user_approvals
		WHERE is_approved = TRUE
		  AND ((approver_id = $1 AND approved_user_id = $2)
		    OR (approver_id = $2 AND approved_user_id = $1))
		ORDER BY created_at DESC
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &approval, query, userID, otherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &approval, nil
}

func (r *approvalRepository) DeleteStaleNonMutual(ctx context.Context, cutoff time.Time) (int, error) {
	// An approval survives cleanup only while a reciprocal positive
	// approval exists.
	query := `
		DELETE FROM user_approvals a
		WHERE a.created_at < $1
		  AND NOT EXISTS (
			SELECT 1 FROM user_approvals b
			WHERE b.approver_id = a.approved_user_id
			  AND b.approved_user_id = a.approver_id
			  AND b.is_approved = TRUE
		  )
	`
	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}
