package user

import (
	"context"
	"errors"
	"testing"

	"github.com/studybuddy/backend/internal/domain"
	"github.com/studybuddy/backend/internal/moderation"
	"github.com/studybuddy/backend/internal/repository"
)

type fakeUserRepo struct {
	repository.UserRepository
	users map[int]*domain.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func strPtr(s string) *string { return &s }

func newGetUseCase(users ...*domain.User) *UserUseCase {
	repo := &fakeUserRepo{users: make(map[int]*domain.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return NewUserUseCase(repo, nil, nil, nil, moderation.NewChecker())
}

func TestGetUserReturnsProfile(t *testing.T) {
	uc := newGetUseCase(&domain.User{
		ID:               7,
		SchoolEmail:      "buddy@school.edu",
		Name:             strPtr("Buddy"),
		Major:            strPtr("CS"),
		ProfileCompleted: true,
	})

	got, err := uc.GetUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.ID != 7 || got.Name == nil || *got.Name != "Buddy" {
		t.Errorf("GetUser() = %+v, want user 7 named Buddy", got)
	}
}

func TestGetUserNotFound(t *testing.T) {
	uc := newGetUseCase()

	if _, err := uc.GetUser(context.Background(), 404); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("GetUser(unknown) error = %v, want ErrUserNotFound", err)
	}
}
