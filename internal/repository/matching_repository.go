package repository

import (
	"context"
	"time"

	"github.com/studybuddy/backend/internal/domain"
)

type ApprovalRepository interface {
	// Upsert records an approve/reject decision, overwriting a prior
	// decision by the same approver about the same user. Returns true
	// when a new row was created rather than updated.
	Upsert(ctx context.Context, approval *domain.Approval) (created bool, err error)

	// GetByUsers returns the approver's decision about the given user,
	// or nil when no decision was recorded.
	GetByUsers(ctx context.Context, approverID, approvedUserID int) (*domain.Approval, error)

	// ListMutualMatches returns users who approved userID and were
	// approved by userID in return.
	ListMutualMatches(ctx context.Context, userID int) ([]*domain.User, error)

	// LatestApprovalBetween returns the most recent positive approval in
	// either direction between the two users, or nil when none exists.
	LatestApprovalBetween(ctx context.Context, userID, otherID int) (*domain.Approval, error)

	// DeleteStaleNonMutual removes approvals created before cutoff that
	// have no reciprocal positive approval.
	DeleteStaleNonMutual(ctx context.Context, cutoff time.Time) (int, error)
}

type SelectionRepository interface {
	// Create records a buddy selection; repeating an existing
	// (selector, selected) pair is a no-op.
	Create(ctx context.Context, selection *domain.Selection) error
}

type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
}

type SurveyRepository interface {
	Upsert(ctx context.Context, response *domain.SurveyResponse) error
	GetByUser(ctx context.Context, userID int) (*domain.SurveyResponse, error)
}
