package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/sifan077/ClipStash/internal/app/repository"
)

// apiKeyBytes is the length of the raw credential. The base64 transport form
// is what gets persisted and what callers present in the x-api-key header.
const apiKeyBytes = 16

// APIKeyService issues, validates, and revokes opaque bearer credentials.
type APIKeyService interface {
	// Generate mints and persists a new key, returning its transport form.
	// The value is only ever returned here; afterwards it can be validated
	// but not retrieved.
	Generate(ctx context.Context) (string, error)
	Validate(ctx context.Context, key string) (bool, error)
	// Revoke deletes the key. Revoking an absent or already-revoked key
	// returns repository.ErrAPIKeyNotFound.
	Revoke(ctx context.Context, key string) error
}

type apiKeyService struct {
	repo repository.APIKeyRepository
}

// NewAPIKeyService returns a service implementation backed by the given repository.
func NewAPIKeyService(repo repository.APIKeyRepository) APIKeyService {
	return &apiKeyService{repo: repo}
}

func (s *apiKeyService) Generate(ctx context.Context) (string, error) {
	raw := make([]byte, apiKeyBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}

	key := base64.StdEncoding.EncodeToString(raw)
	if err := s.repo.Save(ctx, key); err != nil {
		return "", fmt.Errorf("save api key: %w", err)
	}
	return key, nil
}

func (s *apiKeyService) Validate(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, nil
	}
	ok, err := s.repo.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("validate api key: %w", err)
	}
	return ok, nil
}

func (s *apiKeyService) Revoke(ctx context.Context, key string) error {
	if err := s.repo.Delete(ctx, key); err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	return nil
}
