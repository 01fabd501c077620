package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/studybuddy/backend/internal/bucket"
	"github.com/studybuddy/backend/internal/domain"
	"github.com/studybuddy/backend/internal/moderation"
	"github.com/studybuddy/backend/internal/repository"
)

// Mailer is the slice of the mail surface this usecase needs.
type Mailer interface {
	SendVerification(toEmail, name, verifyCode, rejectCode string) error
}

type AuthUseCase struct {
	userRepo     repository.UserRepository
	codes        repository.VerificationStore
	mailer       Mailer
	assigner     bucket.Assigner
	checker      *moderation.Checker
	jwtSecret    string
	accessExpiry time.Duration
	codeTTL      time.Duration
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	codes repository.VerificationStore,
	mailer Mailer,
	assigner bucket.Assigner,
	checker *moderation.Checker,
	jwtSecret string,
	accessExpiry time.Duration,
	codeTTL time.Duration,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		codes:        codes,
		mailer:       mailer,
		assigner:     assigner,
		checker:      checker,
		jwtSecret:    jwtSecret,
		accessExpiry: accessExpiry,
		codeTTL:      codeTTL,
	}
}

// RequestVerification starts signup: creates a bare user record for the
// email and sends the verification mail. An email that already has an
// account gets ErrEmailTaken; unfinished signups should use
// ResendVerification instead.
func (uc *AuthUseCase) RequestVerification(ctx context.Context, email string) error {
	user := &domain.User{SchoolEmail: email}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return err
	}

	if err := uc.sendVerification(ctx, user); err != nil {
		// Roll back the bare record so the email can retry signup.
		if delErr := uc.userRepo.Delete(ctx, user.ID); delErr != nil {
			fmt.Printf("Warning: failed to delete user %d after mail failure: %v\n", user.ID, delErr)
		}
		return err
	}
	return nil
}

// ResendVerification re-sends the verification mail for an account that
// has not finished setup (no password yet). Verified-but-unfinished
// accounts may resend too.
func (uc *AuthUseCase) ResendVerification(ctx context.Context, email string) error {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.PasswordHash != nil {
		return domain.ErrSetupComplete
	}
	return uc.sendVerification(ctx, user)
}

func (uc *AuthUseCase) sendVerification(ctx context.Context, user *domain.User) error {
	verifyCode := uuid.New().String()
	rejectCode := uuid.New().String()

	if err := uc.codes.Save(ctx, verifyCode, user.ID, repository.VerifyActionVerify, uc.codeTTL); err != nil {
		return err
	}
	if err := uc.codes.Save(ctx, rejectCode, user.ID, repository.VerifyActionReject, uc.codeTTL); err != nil {
		return err
	}

	if err := uc.mailer.SendVerification(user.SchoolEmail, user.DisplayName(), verifyCode, rejectCode); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// Verify consumes a code from an email link. A verify code marks the
// account's email verified and returns the user; a reject code deletes
// the pending account and returns a nil user.
func (uc *AuthUseCase) Verify(ctx context.Context, code string) (*domain.User, string, error) {
	userID, action, err := uc.codes.Consume(ctx, code)
	if err != nil {
		return nil, "", err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	switch action {
	case repository.VerifyActionVerify:
		verified := true
		user.EmailVerified = &verified
		if err := uc.userRepo.Update(ctx, user); err != nil {
			return nil, "", err
		}
		return user, action, nil
	case repository.VerifyActionReject:
		if err := uc.userRepo.Delete(ctx, user.ID); err != nil {
			return nil, "", err
		}
		return nil, action, nil
	}
	return nil, "", domain.ErrInvalidToken
}

// SetupPassword sets the account password after email verification and
// logs the user in.
func (uc *AuthUseCase) SetupPassword(ctx context.Context, userID int, password string) (string, *domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	if user.EmailVerified == nil || !*user.EmailVerified {
		return "", nil, domain.ErrEmailNotVerified
	}
	if user.PasswordHash != nil {
		return "", nil, domain.ErrSetupComplete
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hashStr := string(hash)
	user.PasswordHash = &hashStr

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := uc.CreateAccessToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ProfileSetup carries the initial profile fields submitted after
// password setup.
type ProfileSetup struct {
	Name              string
	Gender            *string
	Major             *string
	AcademicYear      *string
	ProfilePicture    *string
	ClassesTaking     []string
	ClassesTaken      []string
	LearnBestWhen     *string
	StudySnack        *string
	FavoriteStudySpot *string
	MBTI              *string
	YapToStudyRatio   *string
}

// SetupProfile completes signup: screens the free-text fields, fills in
// the profile, and assigns the user to a design bucket.
func (uc *AuthUseCase) SetupProfile(ctx context.Context, userID int, setup ProfileSetup) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.CanLogIn() {
		return nil, domain.ErrSetupIncomplete
	}
	if user.ProfileCompleted {
		return nil, domain.ErrSetupComplete
	}

	if err := uc.screenProfileText(setup); err != nil {
		return nil, err
	}

	design, err := uc.assigner.Assign(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to assign design bucket: %w", err)
	}

	user.Name = &setup.Name
	user.Gender = setup.Gender
	user.Major = setup.Major
	user.AcademicYear = setup.AcademicYear
	user.ProfilePicture = setup.ProfilePicture
	user.ClassesTaking = setup.ClassesTaking
	user.ClassesTaken = setup.ClassesTaken
	user.LearnBestWhen = setup.LearnBestWhen
	user.StudySnack = setup.StudySnack
	user.FavoriteStudySpot = setup.FavoriteStudySpot
	user.MBTI = setup.MBTI
	user.YapToStudyRatio = setup.YapToStudyRatio
	user.FrontendDesign = &design
	user.ProfileCompleted = true

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *AuthUseCase) screenProfileText(setup ProfileSetup) error {
	fields := map[string]string{
		"name":                derefOrEmpty(&setup.Name),
		"major":               derefOrEmpty(setup.Major),
		"learn best when":     derefOrEmpty(setup.LearnBestWhen),
		"study snack":         derefOrEmpty(setup.StudySnack),
		"favorite study spot": derefOrEmpty(setup.FavoriteStudySpot),
		"mbti":                derefOrEmpty(setup.MBTI),
	}
	if err := uc.checker.ValidateFields(fields); err != nil {
		return err
	}
	for _, class := range setup.ClassesTaking {
		if err := uc.checker.ValidateField("class name", class); err != nil {
			return err
		}
	}
	for _, class := range setup.ClassesTaken {
		if err := uc.checker.ValidateField("class name", class); err != nil {
			return err
		}
	}
	return nil
}

// Login authenticates with email and password. Lookup failures and
// wrong passwords both surface as ErrWrongPassword so the response
// doesn't reveal which emails have accounts.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrWrongPassword
		}
		return "", nil, err
	}
	if user.EmailVerified == nil || !*user.EmailVerified {
		return "", nil, domain.ErrEmailNotVerified
	}
	if user.PasswordHash == nil {
		return "", nil, domain.ErrSetupIncomplete
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrWrongPassword
	}

	token, err := uc.CreateAccessToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (uc *AuthUseCase) Me(ctx context.Context, userID int) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// CreateAccessToken issues an HS256 JWT for the user.
func (uc *AuthUseCase) CreateAccessToken(userID int) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(uc.accessExpiry).Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString([]byte(uc.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken validates an access token and returns the user id.
func (uc *AuthUseCase) VerifyToken(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return []byte(uc.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, domain.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, domain.ErrInvalidToken
	}
	return int(userID), nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
