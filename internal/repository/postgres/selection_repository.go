package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/studybuddy/backend/internal/domain"
	"github.com/studybuddy/backend/internal/repository"
)

type selectionRepository struct {
	db *sqlx.DB
}

func NewSelectionRepository(db *sqlx.DB) repository.SelectionRepository {
	return &selectionRepository{db: db}
}

func (r *selectionRepository) Create(ctx context.Context, selection *domain.Selection) error {
	query := `
		INSERT INTO user_selections (selector_id, selected_user_id)
		VALUES ($1, $2)
		ON CONFLICT (selector_id, selected_user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, selection.SelectorID, selection.SelectedUserID)
	return err
}
