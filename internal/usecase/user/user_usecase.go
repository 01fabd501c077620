package user

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/studybuddy/backend/internal/domain"
	"github.com/studybuddy/backend/internal/infrastructure/storage"
	"github.com/studybuddy/backend/internal/moderation"
	"github.com/studybuddy/backend/internal/repository"
)

type UserUseCase struct {
	userRepo   repository.UserRepository
	surveyRepo repository.SurveyRepository
	reportRepo repository.ReportRepository
	store      storage.ObjectStore
	checker    *moderation.Checker
}

func NewUserUseCase(
	userRepo repository.UserRepository,
	surveyRepo repository.SurveyRepository,
	reportRepo repository.ReportRepository,
	store storage.ObjectStore,
	checker *moderation.Checker,
) *UserUseCase {
	return &UserUseCase{
		userRepo:   userRepo,
		surveyRepo: surveyRepo,
		reportRepo: reportRepo,
		store:      store,
		checker:    checker,
	}
}

// GetUser returns another user's profile for the profile detail view.
func (uc *UserUseCase) GetUser(ctx context.Context, userID int) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// ProfileUpdate carries the editable profile fields. Nil pointers mean
// "leave unchanged"; class slices replace the stored lists when non-nil.
type ProfileUpdate struct {
	Name              *string
	Gender            *string
	Major             *string
	AcademicYear      *string
	ClassesTaking     []string
	ClassesTaken      []string
	LearnBestWhen     *string
	StudySnack        *string
	FavoriteStudySpot *string
	MBTI              *string
	YapToStudyRatio   *string
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID int, update ProfileUpdate) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := uc.screenUpdate(update); err != nil {
		return nil, err
	}

	applyIfSet(&user.Name, update.Name)
	applyIfSet(&user.Gender, update.Gender)
	applyIfSet(&user.Major, update.Major)
	applyIfSet(&user.AcademicYear, update.AcademicYear)
	applyIfSet(&user.LearnBestWhen, update.LearnBestWhen)
	applyIfSet(&user.StudySnack, update.StudySnack)
	applyIfSet(&user.FavoriteStudySpot, update.FavoriteStudySpot)
	applyIfSet(&user.MBTI, update.MBTI)
	applyIfSet(&user.YapToStudyRatio, update.YapToStudyRatio)
	if update.ClassesTaking != nil {
		user.ClassesTaking = update.ClassesTaking
	}
	if update.ClassesTaken != nil {
		user.ClassesTaken = update.ClassesTaken
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *UserUseCase) screenUpdate(update ProfileUpdate) error {
	fields := map[string]*string{
		"name":                update.Name,
		"major":               update.Major,
		"learn best when":     update.LearnBestWhen,
		"study snack":         update.StudySnack,
		"favorite study spot": update.FavoriteStudySpot,
		"mbti":                update.MBTI,
	}
	for name, value := range fields {
		if value == nil {
			continue
		}
		if err := uc.checker.ValidateField(name, *value); err != nil {
			return err
		}
	}
	for _, class := range append(update.ClassesTaking, update.ClassesTaken...) {
		if err := uc.checker.ValidateField("class name", class); err != nil {
			return err
		}
	}
	return nil
}

// Preferences carries the five match_by_* toggles.
type Preferences struct {
	MatchByGender           bool
	MatchByMajor            bool
	MatchByAcademicYear     bool
	MatchByClasses          bool
	MatchByStudyPreferences bool
}

func (uc *UserUseCase) UpdatePreferences(ctx context.Context, userID int, prefs Preferences) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.MatchByGender = prefs.MatchByGender
	user.MatchByMajor = prefs.MatchByMajor
	user.MatchByAcademicYear = prefs.MatchByAcademicYear
	user.MatchByClasses = prefs.MatchByClasses
	user.MatchByStudyPreferences = prefs.MatchByStudyPreferences

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *UserUseCase) CompleteOnboarding(ctx context.Context, userID int) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.OnboardingDone = true
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SubmitSurvey stores the research survey and marks it completed on the
// user. Re-submission overwrites the previous answers.
func (uc *UserUseCase) SubmitSurvey(ctx context.Context, userID int, response *domain.SurveyResponse) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := uc.checker.ValidateFields(map[string]string{
		"hardest part answer":   response.Q15HardestPart,
		"bad experience answer": response.Q16BadExperience,
	}); err != nil {
		return err
	}

	response.UserID = userID
	if err := uc.surveyRepo.Upsert(ctx, response); err != nil {
		return fmt.Errorf("failed to save survey: %w", err)
	}

	if !user.SurveyCompleted {
		user.SurveyCompleted = true
		if err := uc.userRepo.Update(ctx, user); err != nil {
			return err
		}
	}
	return nil
}

// FilterOptions returns the distinct genders and majors present across
// completed profiles, for populating the list view's filter dropdowns.
func (uc *UserUseCase) FilterOptions(ctx context.Context) (genders, majors []string, err error) {
	return uc.userRepo.DistinctFilterOptions(ctx)
}

var allowedImageExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// UploadProfilePicture stores the image in S3 and records its URL,
// removing the previous picture if one exists.
func (uc *UserUseCase) UploadProfilePicture(ctx context.Context, userID int, filename string, data []byte) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedImageExts[ext]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported image type %q", domain.ErrInvalidInput, ext)
	}

	url, err := uc.store.UploadProfilePicture(ctx, userID, data, contentType, ext)
	if err != nil {
		return nil, err
	}

	if user.ProfilePicture != nil {
		if err := uc.store.DeleteByURL(ctx, *user.ProfilePicture); err != nil {
			fmt.Printf("Warning: failed to delete old profile picture for user %d: %v\n", userID, err)
		}
	}

	user.ProfilePicture = &url
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *UserUseCase) DeleteProfilePicture(ctx context.Context, userID int) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.ProfilePicture != nil {
		if err := uc.store.DeleteByURL(ctx, *user.ProfilePicture); err != nil {
			fmt.Printf("Warning: failed to delete profile picture for user %d: %v\n", userID, err)
		}
		user.ProfilePicture = nil
		if err := uc.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// Report files an abuse report against another user.
func (uc *UserUseCase) Report(ctx context.Context, reporterID, reportedUserID int, reason, details *string) (*domain.Report, error) {
	if reporterID == reportedUserID {
		return nil, domain.ErrSelfTarget
	}
	if _, err := uc.userRepo.GetByID(ctx, reportedUserID); err != nil {
		return nil, err
	}

	report := &domain.Report{
		ReporterID:     reporterID,
		ReportedUserID: reportedUserID,
		Reason:         reason,
		Context:        details,
	}
	if err := uc.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return report, nil
}

func applyIfSet(dst **string, src *string) {
	if src != nil {
		*dst = src
	}
}
