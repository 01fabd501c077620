package buddylist

import (
	"context"
	"fmt"

	"github.com/studybuddy/backend/internal/domain"
	"github.com/studybuddy/backend/internal/ranking"
	"github.com/studybuddy/backend/internal/repository"
)

// Candidate is one list-view entry: the user plus the similarity score
// computed for the requester and the candidate's average peer rating
// (nil when nobody rated them yet).
type Candidate struct {
	User            *domain.User
	SimilarityScore float64
	AverageRating   *float64
}

// Page is one page of the ranked list view.
type Page struct {
	Candidates []Candidate
	NextCursor *int
	HasMore    bool
}

type BuddyListUseCase struct {
	userRepo      repository.UserRepository
	ratingRepo    repository.RatingRepository
	selectionRepo repository.SelectionRepository
	poolCap       int
}

func NewBuddyListUseCase(
	userRepo repository.UserRepository,
	ratingRepo repository.RatingRepository,
	selectionRepo repository.SelectionRepository,
	poolCap int,
) *BuddyListUseCase {
	return &BuddyListUseCase{
		userRepo:      userRepo,
		ratingRepo:    ratingRepo,
		selectionRepo: selectionRepo,
		poolCap:       poolCap,
	}
}

// ListUsers returns one page of candidates ranked by similarity to the
// requester. The cursor is the id of the last user on the previous page;
// an unknown or nil cursor starts from the top of the ranking.
func (uc *BuddyListUseCase) ListUsers(ctx context.Context, requesterID int, cursor *int, limit int) (*Page, error) {
	requester, err := uc.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if requester.FrontendDesign == nil || *requester.FrontendDesign != domain.DesignListView {
		return nil, domain.ErrWrongDesign
	}
	if !requester.ProfileCompleted {
		return nil, domain.ErrProfileIncomplete
	}

	candidates, err := uc.userRepo.ListCandidates(ctx, requester, uc.poolCap)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	ranked, err := ranking.Rank(requester, candidates)
	if err != nil {
		return nil, err
	}

	page, nextCursor, hasMore := ranking.PageAfter(ranked, cursor, limit)

	ids := make([]int, len(page))
	for i, scored := range page {
		ids[i] = scored.User.ID
	}
	averages, err := uc.ratingRepo.AverageForUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating averages: %w", err)
	}

	result := &Page{
		Candidates: make([]Candidate, len(page)),
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}
	for i, scored := range page {
		entry := Candidate{User: scored.User, SimilarityScore: scored.Score}
		if avg, ok := averages[scored.User.ID]; ok {
			entry.AverageRating = &avg
		}
		result.Candidates[i] = entry
	}
	return result, nil
}

// Select records the requester picking a buddy from the list. Repeating
// a selection is a no-op.
func (uc *BuddyListUseCase) Select(ctx context.Context, selectorID, selectedUserID int) error {
	if selectorID == selectedUserID {
		return domain.ErrSelfTarget
	}
	if _, err := uc.userRepo.GetByID(ctx, selectedUserID); err != nil {
		return err
	}

	selection := &domain.Selection{
		SelectorID:     selectorID,
		SelectedUserID: selectedUserID,
	}
	if err := uc.selectionRepo.Create(ctx, selection); err != nil {
		return fmt.Errorf("failed to record selection: %w", err)
	}
	return nil
}
