package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/sifan077/ClipStash/internal/app/repository"
)

// mockAPIKeyRepository backs the service with a plain map so the full
// lifecycle can be exercised.
type mockAPIKeyRepository struct {
	keys    map[string]bool
	saveErr error
}

func newMockAPIKeyRepository() *mockAPIKeyRepository {
	return &mockAPIKeyRepository{keys: make(map[string]bool)}
}

func (m *mockAPIKeyRepository) Save(ctx context.Context, key string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.keys[key] = true
	return nil
}

func (m *mockAPIKeyRepository) Delete(ctx context.Context, key string) error {
	if !m.keys[key] {
		return repository.ErrAPIKeyNotFound
	}
	delete(m.keys, key)
	return nil
}

func (m *mockAPIKeyRepository) Exists(ctx context.Context, key string) (bool, error) {
	return m.keys[key], nil
}

func TestAPIKeyLifecycle(t *testing.T) {
	repo := newMockAPIKeyRepository()
	svc := NewAPIKeyService(repo)
	ctx := context.Background()

	key, err := svc.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		t.Fatalf("key is not valid base64: %v", err)
	}
	if len(raw) != apiKeyBytes {
		t.Fatalf("expected %d raw bytes, got %d", apiKeyBytes, len(raw))
	}

	ok, err := svc.Validate(ctx, key)
	if err != nil || !ok {
		t.Fatalf("freshly generated key must validate, got %v / %v", ok, err)
	}

	if err := svc.Revoke(ctx, key); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}

	ok, err = svc.Validate(ctx, key)
	if err != nil || ok {
		t.Fatalf("revoked key must not validate, got %v / %v", ok, err)
	}
}

func TestAPIKeyRevokeAbsent(t *testing.T) {
	svc := NewAPIKeyService(newMockAPIKeyRepository())

	err := svc.Revoke(context.Background(), "bm90LWEta2V5")
	if !errors.Is(err, repository.ErrAPIKeyNotFound) {
		t.Fatalf("expected ErrAPIKeyNotFound, got %v", err)
	}
}

func TestAPIKeyValidateEmpty(t *testing.T) {
	svc := NewAPIKeyService(newMockAPIKeyRepository())

	ok, err := svc.Validate(context.Background(), "")
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if ok {
		t.Fatal("empty key must never validate")
	}
}

func TestAPIKeyGenerateUnique(t *testing.T) {
	repo := newMockAPIKeyRepository()
	svc := NewAPIKeyService(repo)
	ctx := context.Background()

	a, err := svc.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	b, err := svc.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if a == b {
		t.Fatal("two generated keys must differ")
	}
}
