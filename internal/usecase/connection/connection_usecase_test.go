package connection

import (
	"context"
	"errors"
	"testing"
	"time"

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

func (f *fakeUserRepo) UpdateReputation(_ context.Context, userID, score int, badge bool) error {
	user, ok := f.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.ReputationScore = score
	user.TrustedBadgeThisWeek = badge
	return nil
}

type fakeReachOutRepo struct {
	nextID    int
	reachOuts []*domain.ReachOut
}

func (f *fakeReachOutRepo) Create(_ context.Context, reachOut *domain.ReachOut) error {
	f.nextID++
	reachOut.ID = f.nextID
	reachOut.CreatedAt = time.Now()
	f.reachOuts = append(f.reachOuts, reachOut)
	return nil
}

func (f *fakeReachOutRepo) GetByID(_ context.Context, id int) (*domain.ReachOut, error) {
	for _, r := range f.reachOuts {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrReachOutNotFound
}

func (f *fakeReachOutRepo) CountSentSince(_ context.Context, senderID int, since time.Time) (int, error) {
	count := 0
	for _, r := range f.reachOuts {
		if r.SenderID == senderID && !r.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeReachOutRepo) ListBySender(_ context.Context, senderID int) ([]*domain.ReachOut, error) {
	var out []*domain.ReachOut
	for _, r := range f.reachOuts {
		if r.SenderID == senderID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReachOutRepo) ListByRecipient(_ context.Context, recipientID int) ([]*domain.ReachOut, error) {
	var out []*domain.ReachOut
	for _, r := range f.reachOuts {
		if r.RecipientID == recipientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReachOutRepo) SetMet(_ context.Context, id int, met bool) error {
	for _, r := range f.reachOuts {
		if r.ID == id {
			r.Met = &met
			return nil
		}
	}
	return domain.ErrReachOutNotFound
}

type fakeRatingRepo struct {
	nextID  int
	ratings []*domain.Rating
}

func (f *fakeRatingRepo) Create(_ context.Context, rating *domain.Rating) error {
	for _, existing := range f.ratings {
		if existing.RaterID == rating.RaterID && existing.ReachOutID == rating.ReachOutID {
			return domain.ErrAlreadyRated
		}
	}
	f.nextID++
	rating.ID = f.nextID
	rating.CreatedAt = time.Now()
	f.ratings = append(f.ratings, rating)
	return nil
}

func (f *fakeRatingRepo) GetByReachOutAndRater(_ context.Context, reachOutID, raterID int) (*domain.Rating, error) {
	for _, r := range f.ratings {
		if r.ReachOutID == reachOutID && r.RaterID == raterID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRatingRepo) ListForUserSince(_ context.Context, userID int, since time.Time) ([]domain.Rating, error) {
	var out []domain.Rating
	for _, r := range f.ratings {
		if r.RatedUserID == userID && !r.CreatedAt.Before(since) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRatingRepo) AverageForUsers(_ context.Context, _ []int) (map[int]float64, error) {
	return map[int]float64{}, nil
}

func (f *fakeRatingRepo) RatedReachOutIDs(_ context.Context, raterID int) (map[int]bool, error) {
	out := map[int]bool{}
	for _, r := range f.ratings {
		if r.RaterID == raterID {
			out[r.ReachOutID] = true
		}
	}
	return out, nil
}

type fakeNoteRepo struct {
	notes []*domain.UserNote
}

func (f *fakeNoteRepo) Create(_ context.Context, note *domain.UserNote) error {
	note.ID = len(f.notes) + 1
	note.CreatedAt = time.Now()
	f.notes = append(f.notes, note)
	return nil
}

func (f *fakeNoteRepo) ListByUser(_ context.Context, userID int) ([]*domain.UserNote, error) {
	var out []*domain.UserNote
	for _, n := range f.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeMailer struct {
	sent int
	fail error
}

func (f *fakeMailer) SendReachOut(_, _ *domain.User, _ *string) error {
	if f.fail != nil {
		return f.fail
	}
	f.sent++
	return nil
}

type fixture struct {
	uc        *ConnectionUseCase
	users     *fakeUserRepo
	reachOuts *fakeReachOutRepo
	ratings   *fakeRatingRepo
	notes     *fakeNoteRepo
	mailer    *fakeMailer
}

func verifiedUser(id int) *domain.User {
	verified := true
	return &domain.User{ID: id, SchoolEmail: "u@school.edu", EmailVerified: &verified}
}

func newFixture(dailyLimit int, users ...*domain.User) *fixture {
	userRepo := &fakeUserRepo{users: map[int]*domain.User{}}
	for _, u := range users {
		userRepo.users[u.ID] = u
	}
	f := &fixture{
		users:     userRepo,
		reachOuts: &fakeReachOutRepo{},
		ratings:   &fakeRatingRepo{},
		notes:     &fakeNoteRepo{},
		mailer:    &fakeMailer{},
	}
	f.uc = NewConnectionUseCase(
		userRepo, f.reachOuts, f.ratings, f.notes,
		f.mailer, moderation.NewChecker(), dailyLimit,
	)
	return f
}

func TestReachOutHappyPath(t *testing.T) {
	f := newFixture(5, verifiedUser(1), verifiedUser(2))

	remaining, err := f.uc.ReachOut(context.Background(), 1, 2, nil)
	if err != nil {
		t.Fatalf("ReachOut: %v", err)
	}
	if remaining != 4 {
		t.Errorf("remaining = %d, want 4", remaining)
	}
	if f.mailer.sent != 1 {
		t.Errorf("emails sent = %d, want 1", f.mailer.sent)
	}
	if len(f.reachOuts.reachOuts) != 1 {
		t.Errorf("reach outs recorded = %d, want 1", len(f.reachOuts.reachOuts))
	}
}

func TestReachOutDailyLimitBoundary(t *testing.T) {
	f := newFixture(2, verifiedUser(1), verifiedUser(2), verifiedUser(3))
	ctx := context.Background()

	if _, err := f.uc.ReachOut(ctx, 1, 2, nil); err != nil {
		t.Fatalf("first reach out: %v", err)
	}
	remaining, err := f.uc.ReachOut(ctx, 1, 3, nil)
	if err != nil {
		t.Fatalf("second reach out: %v", err)
	}
	if remaining != 0 {
		t.Errorf("remaining = %d, want 0", remaining)
	}

	if _, err := f.uc.ReachOut(ctx, 1, 2, nil); !errors.Is(err, domain.ErrReachOutLimit) {
		t.Fatalf("over-limit err = %v, want ErrReachOutLimit", err)
	}
	if f.mailer.sent != 2 {
		t.Errorf("emails sent = %d, want 2", f.mailer.sent)
	}
}

func TestReachOutGuards(t *testing.T) {
	unverified := verifiedUser(3)
	unverified.EmailVerified = nil
	f := newFixture(5, verifiedUser(1), verifiedUser(2), unverified)
	ctx := context.Background()

	if _, err := f.uc.ReachOut(ctx, 1, 1, nil); !errors.Is(err, domain.ErrSelfTarget) {
		t.Errorf("self reach out err = %v, want ErrSelfTarget", err)
	}
	if _, err := f.uc.ReachOut(ctx, 1, 3, nil); !errors.Is(err, domain.ErrEmailNotVerified) {
		t.Errorf("unverified recipient err = %v, want ErrEmailNotVerified", err)
	}

	msg := "what the fuck"
	if _, err := f.uc.ReachOut(ctx, 1, 2, &msg); !errors.Is(err, domain.ErrInappropriateText) {
		t.Errorf("profane message err = %v, want ErrInappropriateText", err)
	}
	if f.mailer.sent != 0 {
		t.Errorf("emails sent = %d, want 0", f.mailer.sent)
	}
}

func TestReachOutNotRecordedWhenMailFails(t *testing.T) {
	f := newFixture(5, verifiedUser(1), verifiedUser(2))
	f.mailer.fail = errors.New("smtp down")

	if _, err := f.uc.ReachOut(context.Background(), 1, 2, nil); err == nil {
		t.Fatal("expected error from mail failure")
	}
	if len(f.reachOuts.reachOuts) != 0 {
		t.Errorf("reach out recorded despite mail failure")
	}
}

func TestConnectionsListsBothDirections(t *testing.T) {
	f := newFixture(5, verifiedUser(1), verifiedUser(2), verifiedUser(3))
	ctx := context.Background()

	if _, err := f.uc.ReachOut(ctx, 1, 2, nil); err != nil {
		t.Fatalf("reach out: %v", err)
	}
	if _, err := f.uc.ReachOut(ctx, 3, 1, nil); err != nil {
		t.Fatalf("reach out: %v", err)
	}

	infos, err := f.uc.Connections(ctx, 1)
	if err != nil {
		t.Fatalf("Connections: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("got %d connections, want 2", len(infos))
	}
	if !infos[0].IsSender || infos[0].OtherUser.ID != 2 {
		t.Errorf("first connection: IsSender=%v other=%d", infos[0].IsSender, infos[0].OtherUser.ID)
	}
	if infos[1].IsSender || infos[1].OtherUser.ID != 3 {
		t.Errorf("second connection: IsSender=%v other=%d", infos[1].IsSender, infos[1].OtherUser.ID)
	}
}

func TestMarkMetRequiresParticipant(t *testing.T) {
	f := newFixture(5, verifiedUser(1), verifiedUser(2), verifiedUser(3))
	ctx := context.Background()

	if _, err := f.uc.ReachOut(ctx, 1, 2, nil); err != nil {
		t.Fatalf("reach out: %v", err)
	}

	if err := f.uc.MarkMet(ctx, 3, 1, true); !errors.Is(err, domain.ErrNotParticipant) {
		t.Errorf("outsider err = %v, want ErrNotParticipant", err)
	}
	if err := f.uc.MarkMet(ctx, 2, 1, true); err != nil {
		t.Fatalf("MarkMet: %v", err)
	}
	if met := f.reachOuts.reachOuts[0].Met; met == nil || !*met {
		t.Error("met flag not recorded")
	}
}

func submission(reachOutID int, scores [3]int) RatingSubmission {
	return RatingSubmission{
		ReachOutID: reachOutID,
		Criterion1: "timeliness", Rating1: scores[0],
		Criterion2: "focus", Rating2: scores[1],
		Criterion3: "attitude", Rating3: scores[2],
	}
}

func TestRateUpdatesReputation(t *testing.T) {
	f := newFixture(5, verifiedUser(1), verifiedUser(2))
	ctx := context.Background()

	if _, err := f.uc.ReachOut(ctx, 1, 2, nil); err != nil {
		t.Fatalf("reach out: %v", err)
	}

	// Recipient rates the sender all fives: +3 reputation.
	if _, err := f.uc.Rate(ctx, 2, submission(1, [3]int{5, 5, 5})); err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if got := f.users.users[1].ReputationScore; got != 3 {
		t.Errorf("sender reputation = %d, want 3", got)
	}
	if f.users.users[1].TrustedBadgeThisWeek {
		t.Error("badge granted with only two fives and no four")
	}
}

func TestRateBadgeRecompute(t *testing.T) {
	f := newFixture(10, verifiedUser(1), verifiedUser(2), verifiedUser(3))
	ctx := context.Background()

	if _, err := f.uc.ReachOut(ctx, 2, 1, nil); err != nil {
		t.Fatalf("reach out: %v", err)
	}
	if _, err := f.uc.ReachOut(ctx, 3, 1, nil); err != nil {
		t.Fatalf("reach out: %v", err)
	}

	// Two fives but no four yet: no badge.
	if _, err := f.uc.Rate(ctx, 2, submission(1, [3]int{5, 5, 3})); err != nil {
		t.Fatalf("first rating: %v", err)
	}
	if f.users.users[1].TrustedBadgeThisWeek {
		t.Fatal("badge granted before a four was received")
	}

	// A five and a four more: window holds three fives and a four.
	if _, err := f.uc.Rate(ctx, 3, submission(2, [3]int{5, 4, 3})); err != nil {
		t.Fatalf("second rating: %v", err)
	}
	if !f.users.users[1].TrustedBadgeThisWeek {
		t.Error("badge not granted with enough fives and a four in window")
	}
}

func TestRateImmutable(t *testing.T) {
	f := newFixture(5, verifiedUser(1), verifiedUser(2))
	ctx := context.Background()

	if _, err := f.uc.ReachOut(ctx, 1, 2, nil); err != nil {
		t.Fatalf("reach out: %v", err)
	}
	if _, err := f.uc.Rate(ctx, 2, submission(1, [3]int{4, 4, 4})); err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if _, err := f.uc.Rate(ctx, 2, submission(1, [3]int{1, 1, 1})); !errors.Is(err, domain.ErrAlreadyRated) {
		t.Fatalf("repeat rate err = %v, want ErrAlreadyRated", err)
	}
	// Both sides may rate the same connection.
	if _, err := f.uc.Rate(ctx, 1, submission(1, [3]int{3, 3, 3})); err != nil {
		t.Fatalf("other side rate: %v", err)
	}
}

func TestRateValidatesScores(t *testing.T) {
	f := newFixture(5, verifiedUser(1), verifiedUser(2))
	ctx := context.Background()

	if _, err := f.uc.ReachOut(ctx, 1, 2, nil); err != nil {
		t.Fatalf("reach out: %v", err)
	}
	if _, err := f.uc.Rate(ctx, 2, submission(1, [3]int{6, 1, 1})); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("out-of-range err = %v, want ErrInvalidInput", err)
	}
	if _, err := f.uc.Rate(ctx, 2, submission(99, [3]int{3, 3, 3})); !errors.Is(err, domain.ErrReachOutNotFound) {
		t.Errorf("missing connection err = %v, want ErrReachOutNotFound", err)
	}
}

func TestRateSavesReflectionNote(t *testing.T) {
	f := newFixture(5, verifiedUser(1), verifiedUser(2))
	ctx := context.Background()

	if _, err := f.uc.ReachOut(ctx, 1, 2, nil); err != nil {
		t.Fatalf("reach out: %v", err)
	}

	note := "we covered two problem sets"
	sub := submission(1, [3]int{4, 4, 4})
	sub.ReflectionNote = &note
	if _, err := f.uc.Rate(ctx, 2, sub); err != nil {
		t.Fatalf("Rate: %v", err)
	}

	notes, err := f.uc.Notes(ctx, 2)
	if err != nil {
		t.Fatalf("Notes: %v", err)
	}
	if len(notes) != 1 || notes[0].NoteText != note {
		t.Errorf("notes = %+v, want the reflection note", notes)
	}
}

func TestRatingCriteriaStableOnceRated(t *testing.T) {
	f := newFixture(5, verifiedUser(1), verifiedUser(2))
	ctx := context.Background()

	if _, err := f.uc.ReachOut(ctx, 1, 2, nil); err != nil {
		t.Fatalf("reach out: %v", err)
	}

	before, err := f.uc.RatingCriteria(ctx, 2, 1)
	if err != nil {
		t.Fatalf("RatingCriteria: %v", err)
	}
	if len(before) != 3 {
		t.Fatalf("got %d criteria, want 3", len(before))
	}

	if _, err := f.uc.Rate(ctx, 2, submission(1, [3]int{4, 4, 4})); err != nil {
		t.Fatalf("Rate: %v", err)
	}

	after, err := f.uc.RatingCriteria(ctx, 2, 1)
	if err != nil {
		t.Fatalf("RatingCriteria after rating: %v", err)
	}
	want := []string{"timeliness", "focus", "attitude"}
	for i, criterion := range want {
		if after[i] != criterion {
			t.Errorf("criteria[%d] = %q, want %q", i, after[i], criterion)
		}
	}
}
