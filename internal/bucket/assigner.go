// Package bucket assigns newly registered users to one of the two
// frontend experiences so the study keeps both groups the same size.
package bucket

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/studybuddy/backend/internal/domain"
	"github.com/studybuddy/backend/internal/repository"
)

// Assigner picks a frontend design for a new user.
type Assigner interface {
	Assign(ctx context.Context) (string, error)
}

type countBalancingAssigner struct {
	userRepo repository.UserRepository
	rng      *rand.Rand
}

// NewCountBalancingAssigner returns an assigner that places each new
// user in the design bucket with fewer members, breaking ties randomly.
func NewCountBalancingAssigner(userRepo repository.UserRepository, rng *rand.Rand) Assigner {
	return &countBalancingAssigner{userRepo: userRepo, rng: rng}
}

func (a *countBalancingAssigner) Assign(ctx context.Context) (string, error) {
	listCount, err := a.userRepo.CountByDesign(ctx, domain.DesignListView)
	if err != nil {
		return "", fmt.Errorf("failed to count list view users: %w", err)
	}
	mutualCount, err := a.userRepo.CountByDesign(ctx, domain.DesignMutual)
	if err != nil {
		return "", fmt.Errorf("failed to count mutual matching users: %w", err)
	}

	switch {
	case listCount < mutualCount:
		return domain.DesignListView, nil
	case mutualCount < listCount:
		return domain.DesignMutual, nil
	}
	if a.rng.Intn(2) == 0 {
		return domain.DesignListView, nil
	}
	return domain.DesignMutual, nil
}
