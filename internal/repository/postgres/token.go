package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type tokenRepository struct {
	BaseRepository
}

func NewTokenRepository(base BaseRepository) repository.TokenRepository {
	return &tokenRepository{base}
}

func (r *tokenRepository) GetOrCreate(ctx context.Context, userID int64, candidate string) (*model.AuthToken, error) {
	var token model.AuthToken
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		insert := `
			INSERT INTO auth_tokens (key, user_id, created_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (user_id) DO NOTHING
		`
		if _, err := tx.ExecContext(ctx, insert, candidate, userID); err != nil {
			return mapError(err)
		}
		return mapError(tx.GetContext(ctx, &token,
			`SELECT key, user_id, created_at FROM auth_tokens WHERE user_id = $1`, userID))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get or create token: %w", err)
	}
	return &token, nil
}

func (r *tokenRepository) GetByKey(ctx context.Context, key string) (*model.AuthToken, error) {
	var token model.AuthToken
	err := r.db.GetContext(ctx, &token, `SELECT key, user_id, created_at FROM auth_tokens WHERE key = $1`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", mapError(err))
	}
	return &token, nil
}

func (r *tokenRepository) DeleteByUser(ctx context.Context, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return expectAffected(result)
}
