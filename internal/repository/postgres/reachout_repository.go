package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/studybuddy/backend/internal/domain"
	"github.com/studybuddy/backend/internal/repository"
)

type reachOutRepository struct {
	db *sqlx.DB
}

func NewReachOutRepository(db *sqlx.DB) repository.ReachOutRepository {
	return &reachOutRepository{db: db}
}

func (r *reachOutRepository) Create(ctx context.Context, reachOut *domain.ReachOut) error {
	query := `
		INSERT INTO reach_outs (sender_id, recipient_id, personal_message)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(
		ctx, query,
		reachOut.SenderID, reachOut.RecipientID, reachOut.PersonalMessage,
	).Scan(&reachOut.ID, &reachOut.CreatedAt)
}

func (r *reachOutRepository) GetByID(ctx context.Context, id int) (*domain.ReachOut, error) {
	var reachOut domain.ReachOut
	query := `SELECT * FROM reach_outs WHERE id = $1`
	if err := r.db.GetContext(ctx, &reachOut, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReachOutNotFound
		}
		return nil, err
	}
	return &reachOut, nil
}

func (r *reachOutRepository) CountSentSince(ctx context.Context, senderID int, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM reach_outs WHERE sender_id = $1 AND created_at >= $2`
	if err := r.db.GetContext(ctx, &count, query, senderID, since); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *reachOutRepository) ListBySender(ctx context.Context, senderID int) ([]*domain.ReachOut, error) {
	var reachOuts []*domain.ReachOut
	query := `SELECT * FROM reach_outs WHERE sender_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &reachOuts, query, senderID); err != nil {
		return nil, err
	}
	return reachOuts, nil
}

func (r *reachOutRepository) ListByRecipient(ctx context.Context, recipientID int) ([]*domain.ReachOut, error) {
	var reachOuts []*domain.ReachOut
	query := `SELECT * FROM reach_outs WHERE recipient_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &reachOuts, query, recipientID); err != nil {
		return nil, err
	}
	return reachOuts, nil
}

func (r *reachOutRepository) SetMet(ctx context.Context, id int, met bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE reach_outs SET met = $1 WHERE id = $2`, met, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrReachOutNotFound
	}
	return nil
}
