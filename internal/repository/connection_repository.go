package repository

import (
	"context"
	"time"

	"github.com/studybuddy/backend/internal/domain"
)

type ReachOutRepository interface {
	Create(ctx context.Context, reachOut *domain.ReachOut) error
	GetByID(ctx context.Context, id int) (*domain.ReachOut, error)
	CountSentSince(ctx context.Context, senderID int, since time.Time) (int, error)
	ListBySender(ctx context.Context, senderID int) ([]*domain.ReachOut, error)
	ListByRecipient(ctx context.Context, recipientID int) ([]*domain.ReachOut, error)
	SetMet(ctx context.Context, id int, met bool) error
}

type RatingRepository interface {
	Create(ctx context.Context, rating *domain.Rating) error

	// GetByReachOutAndRater returns the rater's rating for the
	// connection, or nil when they haven't rated it.
	GetByReachOutAndRater(ctx context.Context, reachOutID, raterID int) (*domain.Rating, error)

	// ListForUserSince returns all ratings received by a user created at
	// or after since, for badge recomputation.
	ListForUserSince(ctx context.Context, userID int, since time.Time) ([]domain.Rating, error)

	// AverageForUsers returns avg((r1+r2+r3)/3) per user for the given
	// ids; users with no ratings are absent from the map.
	AverageForUsers(ctx context.Context, userIDs []int) (map[int]float64, error)

	// RatedReachOutIDs returns the set of reach-out ids the given rater
	// has already rated.
	RatedReachOutIDs(ctx context.Context, raterID int) (map[int]bool, error)
}

type NoteRepository interface {
	Create(ctx context.Context, note *domain.UserNote) error
	ListByUser(ctx context.Context, userID int) ([]*domain.UserNote, error)
}
