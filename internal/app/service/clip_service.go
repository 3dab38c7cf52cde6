package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sifan077/ClipStash/internal/app/domain"
	"github.com/sifan077/ClipStash/internal/app/model"
	"github.com/sifan077/ClipStash/internal/app/repository"
	"github.com/sifan077/ClipStash/internal/infra/metrics"
)

// ErrPermissionDenied signals that the clip exists but the supplied password
// does not match. It is deliberately distinct from repository.ErrClipNotFound.
var ErrPermissionDenied = errors.New("invalid password")

// shortCodeAttempts bounds retries when a freshly generated code collides
// with an existing row.
const shortCodeAttempts = 3

// ClipService defines behaviour-level operations on clips.
type ClipService interface {
	CreateClip(ctx context.Context, input CreateClipInput) (*model.Clip, error)
	GetClip(ctx context.Context, shortCode string, password domain.Password) (*model.Clip, error)
	UpdateClip(ctx context.Context, shortCode string, input UpdateClipInput) (*model.Clip, error)
	IncreaseHitCount(ctx context.Context, shortCode string, delta int64) error
}

type clipService struct {
	repo repository.ClipRepository
	now  func() time.Time
}

// NewClipService returns a service implementation backed by the given repository.
func NewClipService(repo repository.ClipRepository) ClipService {
	return &clipService{repo: repo, now: time.Now}
}

// CreateClipInput captures data required to create a clip. ShortCode is
// optional; when empty a random code is generated.
type CreateClipInput struct {
	Title     domain.Title
	Content   domain.Content
	Password  domain.Password
	ExpiresAt *time.Time
	ShortCode string
}

// UpdateClipInput captures the fields overwritten by an update. Content is
// mandatory; the remaining fields replace the stored values as given.
type UpdateClipInput struct {
	Title     domain.Title
	Content   domain.Content
	Password  domain.Password
	ExpiresAt *time.Time
}

func (s *clipService) CreateClip(ctx context.Context, input CreateClipInput) (*model.Clip, error) {
	clip := &model.Clip{
		ID:        uuid.New().String(),
		Title:     optional(input.Title.String()),
		Content:   input.Content.String(),
		Password:  optional(input.Password.String()),
		ExpiresAt: input.ExpiresAt,
		CreatedAt: s.now().UTC(),
	}

	generated := input.ShortCode == ""
	attempts := 1
	if generated {
		attempts = shortCodeAttempts
	}

	var err error
	for i := 0; i < attempts; i++ {
		if generated {
			clip.ShortCode = domain.GenerateShortCode()
		} else {
			clip.ShortCode = input.ShortCode
		}

		err = s.repo.Create(ctx, clip)
		if err == nil {
			metrics.ClipsCreated.Inc()
			return clip, nil
		}
		if !errors.Is(err, repository.ErrShortCodeTaken) {
			break
		}
	}
	return nil, fmt.Errorf("create clip: %w", err)
}

func (s *clipService) GetClip(ctx context.Context, shortCode string, password domain.Password) (*model.Clip, error) {
	clip, err := s.repo.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("get clip: %w", err)
	}

	// Expired clips are invisible even before the sweeper removes them.
	if domain.Expired(clip.ExpiresAt, s.now()) {
		return nil, fmt.Errorf("get clip: %w", repository.ErrClipNotFound)
	}

	stored := domain.NewPassword(deref(clip.Password))
	if !stored.Matches(password) {
		return nil, ErrPermissionDenied
	}
	return clip, nil
}

func (s *clipService) UpdateClip(ctx context.Context, shortCode string, input UpdateClipInput) (*model.Clip, error) {
	clip := &model.Clip{
		ShortCode: shortCode,
		Title:     optional(input.Title.String()),
		Content:   input.Content.String(),
		Password:  optional(input.Password.String()),
		ExpiresAt: input.ExpiresAt,
	}

	if err := s.repo.Update(ctx, clip); err != nil {
		return nil, fmt.Errorf("update clip: %w", err)
	}
	return clip, nil
}

func (s *clipService) IncreaseHitCount(ctx context.Context, shortCode string, delta int64) error {
	return s.repo.IncrementHits(ctx, shortCode, delta)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
