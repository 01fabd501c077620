package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/studybuddy/backend/internal/domain"
	"github.com/studybuddy/backend/internal/repository"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			school_email, password_hash, name, gender, major, academic_year,
			profile_picture, frontend_design, email_verified,
			profile_completed, survey_completed, onboarding_completed,
			classes_taking, classes_taken,
			learn_best_when, study_snack, favorite_study_spot, mbti, yap_to_study_ratio,
			match_by_gender, match_by_major, match_by_academic_year,
			match_by_classes, match_by_study_preferences
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		user.SchoolEmail, user.PasswordHash, user.Name, user.Gender, user.Major,
		user.AcademicYear, user.ProfilePicture, user.FrontendDesign, user.EmailVerified,
		user.ProfileCompleted, user.SurveyCompleted, user.OnboardingDone,
		pq.Array([]string(user.ClassesTaking)), pq.Array([]string(user.ClassesTaken)),
		user.LearnBestWhen, user.StudySnack, user.FavoriteStudySpot, user.MBTI, user.YapToStudyRatio,
		user.MatchByGender, user.MatchByMajor, user.MatchByAcademicYear,
		user.MatchByClasses, user.MatchByStudyPreferences,
	).Scan(&user.ID, &user.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE school_email = $1`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET school_email = $1, password_hash = $2, name = $3, gender = $4,
		    major = $5, academic_year = $6, profile_picture = $7,
		    frontend_design = $8, email_verified = $9,
		    profile_completed = $10, survey_completed = $11, onboarding_completed = $12,
		    classes_taking = $13, classes_taken = $14,
		    learn_best_when = $15, study_snack = $16, favorite_study_spot = $17,
		    mbti = $18, yap_to_study_ratio = $19,
		    match_by_gender = $20, match_by_major = $21, match_by_academic_year = $22,
		    match_by_classes = $23, match_by_study_preferences = $24,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $25
		RETURNING updated_at
	`
	return r.db.QueryRowContext(
		ctx, query,
		user.SchoolEmail, user.PasswordHash, user.Name, user.Gender,
		user.Major, user.AcademicYear, user.ProfilePicture,
		user.FrontendDesign, user.EmailVerified,
		user.ProfileCompleted, user.SurveyCompleted, user.OnboardingDone,
		pq.Array([]string(user.ClassesTaking)), pq.Array([]string(user.ClassesTaken)),
		user.LearnBestWhen, user.StudySnack, user.FavoriteStudySpot,
		user.MBTI, user.YapToStudyRatio,
		user.MatchByGender, user.MatchByMajor, user.MatchByAcademicYear,
		user.MatchByClasses, user.MatchByStudyPreferences,
		user.ID,
	).Scan(&user.UpdatedAt)
}

func (r *userRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) ListCandidates(ctx context.Context, requester *domain.User, limit int) ([]*domain.User, error) {
	query := `SELECT * FROM users WHERE id <> $1 AND profile_completed = TRUE AND frontend_design = $2`
	args := []interface{}{requester.ID, requester.FrontendDesign}
	argCount := 3

	// Candidates' own toggles are hard constraints: a candidate that
	// toggled a filter requires the requester to match on it. A
	// requester missing the field can never satisfy such a candidate.
	hardFilters := []struct {
		column string
		toggle string
		value  *string
	}{
		{"gender", "match_by_gender", requester.Gender},
		{"major", "match_by_major", requester.Major},
		{"academic_year", "match_by_academic_year", requester.AcademicYear},
	}
	for _, f := range hardFilters {
		if f.value != nil && *f.value != "" {
			query += fmt.Sprintf(" AND (%s = FALSE OR LOWER(%s) = LOWER($%d))", f.toggle, f.column, argCount)
			args = append(args, *f.value)
			argCount++
		} else {
			query += fmt.Sprintf(" AND %s = FALSE", f.toggle)
		}
	}

	query += fmt.Sprintf(" ORDER BY id ASC LIMIT $%d", argCount)
	args = append(args, limit)

	var users []*domain.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ListUnactedUsers(ctx context.Context, userID int) ([]*domain.User, error) {
	query := `
		SELECT * FROM users
		WHERE id <> $1
		  AND profile_completed = TRUE
		  AND id NOT IN (
			SELECT approved_user_id FROM user_approvals WHERE approver_id = $1
		  )
		ORDER BY id ASC
	`
	var users []*domain.User
	if err := r.db.SelectContext(ctx, &users, query, userID); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) CountByDesign(ctx context.Context, design string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE frontend_design = $1`
	if err := r.db.GetContext(ctx, &count, query, design); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) DistinctFilterOptions(ctx context.Context) ([]string, []string, error) {
	var genders []string
	query := `
		SELECT DISTINCT gender FROM users
		WHERE profile_completed = TRUE AND gender IS NOT NULL AND gender <> ''
		ORDER BY gender ASC
	`
	if err := r.db.SelectContext(ctx, &genders, query); err != nil {
		return nil, nil, err
	}

	var majors []string
	query = `
		SELECT DISTINCT major FROM users
		WHERE profile_completed = TRUE AND major IS NOT NULL AND major <> ''
		ORDER BY major ASC
	`
	if err := r.db.SelectContext(ctx, &majors, query); err != nil {
		return nil, nil, err
	}

	return genders, majors, nil
}

func (r *userRepository) UpdateReputation(ctx context.Context, userID, score int, badge bool) error {
	query := `
		UPDATE users
		SET reputation_score = $1, trusted_badge_this_week = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, score, badge, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) ApplyReputationDecay(ctx context.Context) (int, error) {
	query := `UPDATE users SET reputation_score = reputation_score - 1 WHERE reputation_score > 0`
	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
