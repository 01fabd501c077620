package repository

import (
	"context"

	"github.com/studybuddy/backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int) error

	// ListCandidates returns the bounded candidate pool for the list
	// view with every hard eligibility rule already applied: not the
	// requester, profile completed, same design bucket, and the
	// candidates' own preference toggles satisfied by the requester.
	// Soft similarity ordering is the ranker's job, not this query's.
	ListCandidates(ctx context.Context, requester *domain.User, limit int) ([]*domain.User, error)

	// ListUnactedUsers returns completed profiles the given user has not
	// approved or rejected yet (mutual matching flow).
	ListUnactedUsers(ctx context.Context, userID int) ([]*domain.User, error)

	CountByDesign(ctx context.Context, design string) (int, error)
	DistinctFilterOptions(ctx context.Context) (genders, majors []string, err error)

	UpdateReputation(ctx context.Context, userID, score int, badge bool) error

	// ApplyReputationDecay decrements every positive reputation score by
	// one, floored at zero, and returns the number of affected users.
	ApplyReputationDecay(ctx context.Context) (int, error)
}
