package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/studybuddy/backend/internal/domain"
	"github.com/studybuddy/backend/internal/repository"
)

type surveyRepository struct {
	db *sqlx.DB
}

func NewSurveyRepository(db *sqlx.DB) repository.SurveyRepository {
	return &surveyRepository{db: db}
}

func (r *surveyRepository) Upsert(ctx context.Context, response *domain.SurveyResponse) error {
	query := `
		INSERT INTO survey_responses (
			user_id,
			q1_study_alone, q2_enjoy_studying_with_others, q3_easily_find_study_buddy,
			q4_wish_more_people, q5_coordinating_barrier, q6_worry_awkward,
			q7_comfortable_approaching, q8_comfortable_online_platforms,
			q9_avoid_asking_afraid_no, q10_feel_at_ease, q11_pressure_keep_studying,
			q12_feel_belong, q13_core_group_peers, q14_students_open_collaborating,
			q15_hardest_part, q16_bad_experience
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)
		ON CONFLICT (user_id) DO UPDATE SET
			q1_study_alone = EXCLUDED.q1_study_alone,
			q2_enjoy_studying_with_others = EXCLUDED.q2_enjoy_studying_with_others,
			q3_easily_find_study_buddy = EXCLUDED.q3_easily_find_study_buddy,
			q4_wish_more_people = EXCLUDED.q4_wish_more_people,
			q5_coordinating_barrier = EXCLUDED.q5_coordinating_barrier,
			q6_worry_awkward = EXCLUDED.q6_worry_awkward,
			q7_comfortable_approaching = EXCLUDED.q7_comfortable_approaching,
			q8_comfortable_online_platforms = EXCLUDED.q8_comfortable_online_platforms,
			q9_avoid_asking_afraid_no = EXCLUDED.q9_avoid_asking_afraid_no,
			q10_feel_at_ease = EXCLUDED.q10_feel_at_ease,
			q11_pressure_keep_studying = EXCLUDED.q11_pressure_keep_studying,
			q12_feel_belong = EXCLUDED.q12_feel_belong,
			q13_core_group_peers = EXCLUDED.q13_core_group_peers,
			q14_students_open_collaborating = EXCLUDED.q14_students_open_collaborating,
			q15_hardest_part = EXCLUDED.q15_hardest_part,
			q16_bad_experience = EXCLUDED.q16_bad_experience,
			updated_at = NOW()
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(
		ctx, query,
		response.UserID,
		response.Q1StudyAlone, response.Q2EnjoyStudyingWithOthers, response.Q3EasilyFindStudyBuddy,
		response.Q4WishMorePeople, response.Q5CoordinatingBarrier, response.Q6WorryAwkward,
		response.Q7ComfortableApproaching, response.Q8ComfortableOnline,
		response.Q9AvoidAskingAfraidNo, response.Q10FeelAtEase, response.Q11PressureKeepStudying,
		response.Q12FeelBelong, response.Q13CoreGroupPeers, response.Q14StudentsOpenCollab,
		response.Q15HardestPart, response.Q16BadExperience,
	).Scan(&response.ID, &response.CreatedAt)
}

func (r *surveyRepository) GetByUser(ctx context.Context, userID int) (*domain.SurveyResponse, error) {
	var response domain.SurveyResponse
	query := `SELECT * FROM survey_responses WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &response, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &response, nil
}
