package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrAPIKeyNotFound signals that the key is not present in the store, either
// because it was never issued or because it has already been revoked.
var ErrAPIKeyNotFound = errors.New("api key not found")

const apiKeyQueryTimeout = 3 * time.Second

// APIKeyRepository defines the data access contract for API keys. Keys are
// stored in their base64 transport form.
type APIKeyRepository interface {
	Save(ctx context.Context, key string) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

type apiKeyRepository struct {
	db *pgxpool.Pool
}

// NewAPIKeyRepository returns a pgx-backed APIKeyRepository.
func NewAPIKeyRepository(db *pgxpool.Pool) APIKeyRepository {
	return &apiKeyRepository{db: db}
}

func (r *apiKeyRepository) Save(ctx context.Context, key string) error {
	dbctx, cancel := context.WithTimeout(ctx, apiKeyQueryTimeout)
	defer cancel()

	_, err := r.db.Exec(dbctx, `INSERT INTO api_keys (key) VALUES ($1)`, key)
	return err
}

func (r *apiKeyRepository) Delete(ctx context.Context, key string) error {
	dbctx, cancel := context.WithTimeout(ctx, apiKeyQueryTimeout)
	defer cancel()

	cmd, err := r.db.Exec(dbctx, `DELETE FROM api_keys WHERE key = $1`, key)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAPIKeyNotFound
	}
	return nil
}

func (r *apiKeyRepository) Exists(ctx context.Context, key string) (bool, error) {
	dbctx, cancel := context.WithTimeout(ctx, apiKeyQueryTimeout)
	defer cancel()

	var found string
	err := r.db.QueryRow(dbctx, `SELECT key FROM api_keys WHERE key = $1 LIMIT 1`, key).Scan(&found)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
