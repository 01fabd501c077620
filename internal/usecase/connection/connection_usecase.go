package connection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/studybuddy/backend/internal/domain"
	"github.com/studybuddy/backend/internal/moderation"
	"github.com/studybuddy/backend/internal/reputation"
	"github.com/studybuddy/backend/internal/repository"
)

// Mailer is the slice of the mail surface this usecase needs.
type Mailer interface {
	SendReachOut(sender, recipient *domain.User, personalMessage *string) error
}

// Status reports the caller's reach-out allowance for today.
type Status struct {
	UsedToday  int
	Remaining  int
	DailyLimit int
}

// Info is one entry in the caller's connection list.
type Info struct {
	ReachOut  *domain.ReachOut
	OtherUser *domain.User
	IsSender  bool
	HasRating bool
}

// RatingSubmission is the payload for rating a study session.
type RatingSubmission struct {
	ReachOutID     int
	Criterion1     string
	Rating1        int
	Criterion2     string
	Rating2        int
	Criterion3     string
	Rating3        int
	ReflectionNote *string
}

type ConnectionUseCase struct {
	userRepo     repository.UserRepository
	reachOutRepo repository.ReachOutRepository
	ratingRepo   repository.RatingRepository
	noteRepo     repository.NoteRepository
	mailer       Mailer
	checker      *moderation.Checker
	dailyLimit   int

	// ratingLocks serializes rating inserts and the reputation
	// read-modify-write per rated user.
	ratingLocks sync.Map // int -> *sync.Mutex
}

func NewConnectionUseCase(
	userRepo repository.UserRepository,
	reachOutRepo repository.ReachOutRepository,
	ratingRepo repository.RatingRepository,
	noteRepo repository.NoteRepository,
	mailer Mailer,
	checker *moderation.Checker,
	dailyLimit int,
) *ConnectionUseCase {
	return &ConnectionUseCase{
		userRepo:     userRepo,
		reachOutRepo: reachOutRepo,
		ratingRepo:   ratingRepo,
		noteRepo:     noteRepo,
		mailer:       mailer,
		checker:      checker,
		dailyLimit:   dailyLimit,
	}
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// ReachOut emails a study invitation and records it against the daily
// limit. Returns the sender's remaining allowance for today.
func (uc *ConnectionUseCase) ReachOut(ctx context.Context, senderID, recipientID int, personalMessage *string) (int, error) {
	if senderID == recipientID {
		return 0, domain.ErrSelfTarget
	}

	sender, err := uc.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return 0, err
	}
	recipient, err := uc.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		return 0, err
	}

	if sender.EmailVerified == nil || !*sender.EmailVerified {
		return 0, domain.ErrEmailNotVerified
	}
	if recipient.EmailVerified == nil || !*recipient.EmailVerified {
		return 0, domain.ErrEmailNotVerified
	}

	used, err := uc.reachOutRepo.CountSentSince(ctx, senderID, startOfToday())
	if err != nil {
		return 0, fmt.Errorf("failed to count reach outs: %w", err)
	}
	if used >= uc.dailyLimit {
		return 0, domain.ErrReachOutLimit
	}

	if personalMessage != nil {
		if err := uc.checker.ValidateField("message", *personalMessage); err != nil {
			return 0, err
		}
	}

	if err := uc.mailer.SendReachOut(sender, recipient, personalMessage); err != nil {
		return 0, err
	}

	reachOut := &domain.ReachOut{
		SenderID:        senderID,
		RecipientID:     recipientID,
		PersonalMessage: personalMessage,
	}
	if err := uc.reachOutRepo.Create(ctx, reachOut); err != nil {
		return 0, fmt.Errorf("failed to record reach out: %w", err)
	}

	return uc.dailyLimit - used - 1, nil
}

func (uc *ConnectionUseCase) ReachOutStatus(ctx context.Context, userID int) (*Status, error) {
	used, err := uc.reachOutRepo.CountSentSince(ctx, userID, startOfToday())
	if err != nil {
		return nil, fmt.Errorf("failed to count reach outs: %w", err)
	}
	remaining := uc.dailyLimit - used
	if remaining < 0 {
		remaining = 0
	}
	return &Status{UsedToday: used, Remaining: remaining, DailyLimit: uc.dailyLimit}, nil
}

// Connections lists the caller's reach-outs in both directions, with
// the other participant and whether the caller already rated each one.
func (uc *ConnectionUseCase) Connections(ctx context.Context, userID int) ([]Info, error) {
	sent, err := uc.reachOutRepo.ListBySender(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent reach outs: %w", err)
	}
	received, err := uc.reachOutRepo.ListByRecipient(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list received reach outs: %w", err)
	}

	rated, err := uc.ratingRepo.RatedReachOutIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rated connections: %w", err)
	}

	infos := make([]Info, 0, len(sent)+len(received))
	for _, reachOut := range append(sent, received...) {
		otherID, _ := reachOut.OtherParticipant(userID)
		other, err := uc.userRepo.GetByID(ctx, otherID)
		if err != nil {
			return nil, err
		}
		infos = append(infos, Info{
			ReachOut:  reachOut,
			OtherUser: other,
			IsSender:  reachOut.SenderID == userID,
			HasRating: rated[reachOut.ID],
		})
	}
	return infos, nil
}

// MarkMet records whether the two users actually met up.
func (uc *ConnectionUseCase) MarkMet(ctx context.Context, userID, reachOutID int, met bool) error {
	reachOut, err := uc.reachOutRepo.GetByID(ctx, reachOutID)
	if err != nil {
		return err
	}
	if !reachOut.HasParticipant(userID) {
		return domain.ErrNotParticipant
	}
	return uc.reachOutRepo.SetMet(ctx, reachOutID, met)
}

// RatingCriteria returns the three criteria to rate a connection on.
// Once a rating exists the same criteria come back on every call.
func (uc *ConnectionUseCase) RatingCriteria(ctx context.Context, userID, reachOutID int) ([]string, error) {
	reachOut, err := uc.reachOutRepo.GetByID(ctx, reachOutID)
	if err != nil {
		return nil, err
	}
	if !reachOut.HasParticipant(userID) {
		return nil, domain.ErrNotParticipant
	}

	existing, err := uc.ratingRepo.GetByReachOutAndRater(ctx, reachOutID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return []string{existing.Criterion1, existing.Criterion2, existing.Criterion3}, nil
	}
	return reputation.RandomCriteria(3), nil
}

// Rate stores a study session rating and folds it into the rated user's
// reputation. One rating per (rater, connection); ratings are immutable.
func (uc *ConnectionUseCase) Rate(ctx context.Context, raterID int, submission RatingSubmission) (*domain.Rating, error) {
	reachOut, err := uc.reachOutRepo.GetByID(ctx, submission.ReachOutID)
	if err != nil {
		return nil, err
	}
	if !reachOut.HasParticipant(raterID) {
		return nil, domain.ErrNotParticipant
	}
	ratedUserID, _ := reachOut.OtherParticipant(raterID)

	scores := [3]int{submission.Rating1, submission.Rating2, submission.Rating3}
	if _, err := reputation.Delta(scores); err != nil {
		return nil, err
	}

	if submission.ReflectionNote != nil {
		if err := uc.checker.ValidateField("reflection note", *submission.ReflectionNote); err != nil {
			return nil, err
		}
	}

	lock := uc.lockFor(ratedUserID)
	lock.Lock()
	defer lock.Unlock()

	rating := &domain.Rating{
		RaterID:        raterID,
		RatedUserID:    ratedUserID,
		ReachOutID:     submission.ReachOutID,
		Criterion1:     submission.Criterion1,
		Rating1:        submission.Rating1,
		Criterion2:     submission.Criterion2,
		Rating2:        submission.Rating2,
		Criterion3:     submission.Criterion3,
		Rating3:        submission.Rating3,
		ReflectionNote: submission.ReflectionNote,
	}
	if err := uc.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}

	if err := uc.recomputeReputation(ctx, ratedUserID, scores); err != nil {
		return nil, err
	}

	if submission.ReflectionNote != nil && *submission.ReflectionNote != "" {
		note := &domain.UserNote{UserID: raterID, NoteText: *submission.ReflectionNote}
		if err := uc.noteRepo.Create(ctx, note); err != nil {
			fmt.Printf("Warning: failed to save reflection note for user %d: %v\n", raterID, err)
		}
	}

	return rating, nil
}

func (uc *ConnectionUseCase) recomputeReputation(ctx context.Context, ratedUserID int, scores [3]int) error {
	rated, err := uc.userRepo.GetByID(ctx, ratedUserID)
	if err != nil {
		return err
	}

	now := time.Now()
	history, err := uc.ratingRepo.ListForUserSince(ctx, ratedUserID, now.Add(-reputation.BadgeWindow))
	if err != nil {
		return fmt.Errorf("failed to load rating history: %w", err)
	}

	newScore, badge, err := reputation.ApplyRatingAndRecompute(rated.ReputationScore, scores, history, now)
	if err != nil {
		return err
	}
	if err := uc.userRepo.UpdateReputation(ctx, ratedUserID, newScore, badge); err != nil {
		return fmt.Errorf("failed to update reputation: %w", err)
	}
	return nil
}

func (uc *ConnectionUseCase) lockFor(userID int) *sync.Mutex {
	lock, _ := uc.ratingLocks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// Notes lists the caller's private reflection notes, newest first.
func (uc *ConnectionUseCase) Notes(ctx context.Context, userID int) ([]*domain.UserNote, error) {
	notes, err := uc.noteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}
