package domain

import (
	"time"

	"github.com/lib/pq"
)

// Design bucket values for the A/B split between the two matching UX flows.
const (
	DesignListView = "design1" // ranked/filtered list view
	DesignMutual   = "design2" // mutual double-opt-in approval flow
)

type User struct {
	ID             int     `json:"id" db:"id"`
	SchoolEmail    string  `json:"school_email" db:"school_email"`
	PasswordHash   *string `json:"-" db:"password_hash"`
	Name           *string `json:"name" db:"name"`
	Gender         *string `json:"gender" db:"gender"`
	Major          *string `json:"major" db:"major"`
	AcademicYear   *string `json:"academic_year" db:"academic_year"`
	ProfilePicture *string `json:"profile_picture" db:"profile_picture"`
	FrontendDesign *string `json:"frontend_design" db:"frontend_design"`

	// nil = verification pending, true = verified, false = rejected
	EmailVerified    *bool `json:"email_verified" db:"email_verified"`
	ProfileCompleted bool  `json:"profile_completed" db:"profile_completed"`
	SurveyCompleted  bool  `json:"survey_completed" db:"survey_completed"`
	OnboardingDone   bool  `json:"onboarding_completed" db:"onboarding_completed"`

	ClassesTaking pq.StringArray `json:"classes_taking" db:"classes_taking"`
	ClassesTaken  pq.StringArray `json:"classes_taken" db:"classes_taken"`

	LearnBestWhen     *string `json:"learn_best_when" db:"learn_best_when"`
	StudySnack        *string `json:"study_snack" db:"study_snack"`
	FavoriteStudySpot *string `json:"favorite_study_spot" db:"favorite_study_spot"`
	MBTI              *string `json:"mbti" db:"mbti"`
	YapToStudyRatio   *string `json:"yap_to_study_ratio" db:"yap_to_study_ratio"`

	// Preference toggles. A toggle belongs to the user who set it: in the
	// list view it gates which factors count toward that user's own
	// ranking, and the query layer enforces the candidate's toggles as
	// hard filters.
	MatchByGender           bool `json:"match_by_gender" db:"match_by_gender"`
	MatchByMajor            bool `json:"match_by_major" db:"match_by_major"`
	MatchByAcademicYear     bool `json:"match_by_academic_year" db:"match_by_academic_year"`
	MatchByClasses          bool `json:"match_by_classes" db:"match_by_classes"`
	MatchByStudyPreferences bool `json:"match_by_study_preferences" db:"match_by_study_preferences"`

	ReputationScore      int  `json:"reputation_score" db:"reputation_score"`
	TrustedBadgeThisWeek bool `json:"trusted_badge_this_week" db:"trusted_badge_this_week"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// CanLogIn reports whether the user finished the verification flow far
// enough to authenticate with a password.
func (u *User) CanLogIn() bool {
	return u.EmailVerified != nil && *u.EmailVerified && u.PasswordHash != nil
}

func (u *User) HasToggles() bool {
	return u.MatchByGender || u.MatchByMajor || u.MatchByAcademicYear ||
		u.MatchByClasses || u.MatchByStudyPreferences
}

// DisplayName returns the user's name, falling back to the school email
// for accounts that have not completed profile setup.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.SchoolEmail
}
