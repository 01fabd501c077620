package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/studybuddy/backend/internal/domain"
	"github.com/studybuddy/backend/internal/repository"
)

type ratingRepository struct {
	db *sqlx.DB
}

func NewRatingRepository(db *sqlx.DB) repository.RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	query := `
		INSERT INTO study_session_ratings (
			rater_id, rated_user_id, reach_out_id,
			criterion_1, rating_1, criterion_2, rating_2, criterion_3, rating_3,
			reflection_note
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		rating.RaterID, rating.RatedUserID, rating.ReachOutID,
		rating.Criterion1, rating.Rating1,
		rating.Criterion2, rating.Rating2,
		rating.Criterion3, rating.Rating3,
		rating.ReflectionNote,
	).Scan(&rating.ID, &rating.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyRated
	}
	return err
}

func (r *ratingRepository) GetByReachOutAndRater(ctx context.Context, reachOutID, raterID int) (*domain.Rating, error) {
	var rating domain.Rating
	query := `SELECT * FROM study_session_ratings WHERE reach_out_id = $1 AND rater_id = $2`
	if err := r.db.GetContext(ctx, &rating, query, reachOutID, raterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) ListForUserSince(ctx context.Context, userID int, since time.Time) ([]domain.Rating, error) {
	var ratings []domain.Rating
	query := `
		SELECT * FROM study_session_ratings
		WHERE rated_user_id = $1 AND created_at >= $2
		ORDER BY created_at ASC
	`
	if err := r.db.SelectContext(ctx, &ratings, query, userID, since); err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *ratingRepository) AverageForUsers(ctx context.Context, userIDs []int) (map[int]float64, error) {
	averages := make(map[int]float64, len(userIDs))
	if len(userIDs) == 0 {
		return averages, nil
	}

	query := `
		SELECT rated_user_id, AVG((rating_1 + rating_2 + rating_3) / 3.0) AS avg_rating
		FROM study_session_ratings
		WHERE rated_user_id = ANY($1)
		GROUP BY rated_user_id
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var userID int
		var avg float64
		if err := rows.Scan(&userID, &avg); err != nil {
			return nil, err
		}
		averages[userID] = avg
	}
	return averages, rows.Err()
}

func (r *ratingRepository) RatedReachOutIDs(ctx context.Context, raterID int) (map[int]bool, error) {
	var ids []int
	query := `SELECT reach_out_id FROM study_session_ratings WHERE rater_id = $1`
	if err := r.db.SelectContext(ctx, &ids, query, raterID); err != nil {
		return nil, err
	}

	rated := make(map[int]bool, len(ids))
	for _, id := range ids {
		rated[id] = true
	}
	return rated, nil
}
