package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/studybuddy/backend/internal/domain"
	"github.com/studybuddy/backend/internal/repository"
)

// ApprovalWindow is how long a one-sided approval waits for the other
// side before the cleanup sweep drops it.
const ApprovalWindow = 7 * 24 * time.Hour

// Match is one mutual match entry: the matched user and when the match
// formed (the later of the two approvals).
type Match struct {
	User      *domain.User
	MatchedAt time.Time
}

type MatchingUseCase struct {
	userRepo     repository.UserRepository
	approvalRepo repository.ApprovalRepository
}

func NewMatchingUseCase(
	userRepo repository.UserRepository,
	approvalRepo repository.ApprovalRepository,
) *MatchingUseCase {
	return &MatchingUseCase{
		userRepo:     userRepo,
		approvalRepo: approvalRepo,
	}
}

// requireMutualDesign loads the user and rejects anyone outside the
// mutual matching bucket.
func (uc *MatchingUseCase) requireMutualDesign(ctx context.Context, userID int) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.FrontendDesign == nil || *user.FrontendDesign != domain.DesignMutual {
		return nil, domain.ErrWrongDesign
	}
	return user, nil
}

// Approve records an approve/reject decision about another user. A
// repeated decision overwrites the earlier one. Returns the approval
// and whether it completed a mutual match.
func (uc *MatchingUseCase) Approve(ctx context.Context, approverID, approvedUserID int, isApproved bool) (*domain.Approval, bool, error) {
	if _, err := uc.requireMutualDesign(ctx, approverID); err != nil {
		return nil, false, err
	}
	if approverID == approvedUserID {
		return nil, false, domain.ErrSelfTarget
	}
	if _, err := uc.userRepo.GetByID(ctx, approvedUserID); err != nil {
		return nil, false, err
	}

	approval := &domain.Approval{
		ApproverID:     approverID,
		ApprovedUserID: approvedUserID,
		IsApproved:     isApproved,
	}
	if _, err := uc.approvalRepo.Upsert(ctx, approval); err != nil {
		return nil, false, fmt.Errorf("failed to record approval: %w", err)
	}

	mutual := false
	if isApproved {
		reverse, err := uc.approvalRepo.GetByUsers(ctx, approvedUserID, approverID)
		if err != nil {
			return nil, false, err
		}
		mutual = reverse != nil && reverse.IsApproved
	}
	return approval, mutual, nil
}

// MutualMatches lists users the caller has mutually matched with.
func (uc *MatchingUseCase) MutualMatches(ctx context.Context, userID int) ([]Match, error) {
	if _, err := uc.requireMutualDesign(ctx, userID); err != nil {
		return nil, err
	}

	users, err := uc.approvalRepo.ListMutualMatches(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mutual matches: %w", err)
	}

	matches := make([]Match, 0, len(users))
	for _, matched := range users {
		matchedAt := matched.CreatedAt
		latest, err := uc.approvalRepo.LatestApprovalBetween(ctx, userID, matched.ID)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			matchedAt = latest.CreatedAt
		}
		matches = append(matches, Match{User: matched, MatchedAt: matchedAt})
	}
	return matches, nil
}

// PotentialMatches lists completed profiles the caller hasn't approved
// or rejected yet.
func (uc *MatchingUseCase) PotentialMatches(ctx context.Context, userID int) ([]*domain.User, error) {
	if _, err := uc.requireMutualDesign(ctx, userID); err != nil {
		return nil, err
	}
	users, err := uc.userRepo.ListUnactedUsers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list potential matches: %w", err)
	}
	return users, nil
}

// CleanupOldApprovals drops approvals older than the approval window
// that never became mutual, and returns the number removed.
func (uc *MatchingUseCase) CleanupOldApprovals(ctx context.Context, userID int) (int, error) {
	if _, err := uc.requireMutualDesign(ctx, userID); err != nil {
		return 0, err
	}
	return uc.CleanupStale(ctx)
}

// CleanupStale is the unauthenticated sweep used by the maintenance
// loop.
func (uc *MatchingUseCase) CleanupStale(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-ApprovalWindow)
	deleted, err := uc.approvalRepo.DeleteStaleNonMutual(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up approvals: %w", err)
	}
	return deleted, nil
}
