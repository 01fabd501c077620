package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/studybuddy/backend/internal/domain"
	"github.com/studybuddy/backend/internal/repository"
)

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) repository.NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *domain.UserNote) error {
	query := `
		INSERT INTO user_notes (user_id, note_text)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, note.UserID, note.NoteText).
		Scan(&note.ID, &note.CreatedAt)
}

func (r *noteRepository) ListByUser(ctx context.Context, userID int) ([]*domain.UserNote, error) {
	var notes []*domain.UserNote
	query := `SELECT * FROM user_notes WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &notes, query, userID); err != nil {
		return nil, err
	}
	return notes, nil
}
