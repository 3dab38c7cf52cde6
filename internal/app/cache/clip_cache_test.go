package cache

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sifan077/ClipStash/internal/app/model"
	"github.com/sifan077/ClipStash/internal/app/repository"
)

func TestCachedClipRoundTripKeepsPassword(t *testing.T) {
	title := "notes"
	password := "s3cret"
	expiresAt := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	clip := &model.Clip{
		ID:        "id-1",
		Title:     &title,
		Content:   "hello",
		ShortCode: "abcdef1234",
		CreatedAt: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		ExpiresAt: &expiresAt,
		Password:  &password,
		Hits:      7,
	}

	data, err := encodeCachedClip(clip)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := decodeCachedClip(string(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Password == nil || *got.Password != password {
		t.Fatalf("expected password to survive the round trip, got %v", got.Password)
	}
	if got.ExpiresAt == nil || !got.ExpiresAt.Equal(expiresAt) {
		t.Fatalf("expected expiry to survive the round trip, got %v", got.ExpiresAt)
	}
	if got.ID != clip.ID || got.Content != clip.Content || got.ShortCode != clip.ShortCode || got.Hits != clip.Hits {
		t.Fatalf("round trip mutated the clip: %+v", got)
	}
	if got.Title == nil || *got.Title != title {
		t.Fatalf("expected title to survive the round trip, got %v", got.Title)
	}
}

func TestCachedClipDoesNotUseModelMarshaling(t *testing.T) {
	password := "s3cret"
	clip := &model.Clip{ID: "id-1", Content: "hello", ShortCode: "abcdef1234", Password: &password}

	// The model strips the password from its own JSON form. A cached row
	// built that way would wave every password-gated read through.
	modelJSON, err := json.Marshal(clip)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fromModel, err := decodeCachedClip(string(modelJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromModel.Password != nil {
		t.Fatalf("model JSON unexpectedly carries a password")
	}

	data, err := encodeCachedClip(clip)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fromEntry, err := decodeCachedClip(string(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromEntry.Password == nil || *fromEntry.Password != password {
		t.Fatalf("expected cached payload to carry the password, got %v", fromEntry.Password)
	}
}

func TestDecodeCachedClipNegativeSentinel(t *testing.T) {
	_, err := decodeCachedClip(notFoundSentinel)
	if !errors.Is(err, repository.ErrClipNotFound) {
		t.Fatalf("expected ErrClipNotFound, got %v", err)
	}
}

func TestDecodeCachedClipCorruptPayload(t *testing.T) {
	_, err := decodeCachedClip("{not json")
	if err == nil {
		t.Fatal("expected an error for a corrupt payload")
	}
	if errors.Is(err, repository.ErrClipNotFound) {
		t.Fatal("corrupt payload must not read as not-found")
	}
}
