package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sifan077/ClipStash/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrClipNotFound signals that the requested short code does not exist.
	ErrClipNotFound = errors.New("clip not found")
	// ErrShortCodeTaken signals a uniqueness-constraint conflict on insert.
	ErrShortCodeTaken = errors.New("short code already taken")
)

// ClipRepository defines the data access contract for clips.
type ClipRepository interface {
	Create(ctx context.Context, clip *model.Clip) error
	GetByShortCode(ctx context.Context, shortCode string) (*model.Clip, error)
	Update(ctx context.Context, clip *model.Clip) error
	IncrementHits(ctx context.Context, shortCode string, delta int64) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	ShortCodes(ctx context.Context) ([]string, error)
}

type clipRepository struct {
	db *gorm.DB
}

// NewClipRepository returns a GORM-backed ClipRepository.
func NewClipRepository(db *gorm.DB) ClipRepository {
	return &clipRepository{db: db}
}

func (r *clipRepository) Create(ctx context.Context, clip *model.Clip) error {
	if err := r.db.WithContext(ctx).Create(clip).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrShortCodeTaken
		}
		return err
	}
	return nil
}

func (r *clipRepository) GetByShortCode(ctx context.Context, shortCode string) (*model.Clip, error) {
	var clip model.Clip
	if err := r.db.WithContext(ctx).Where("short_code = ?", shortCode).First(&clip).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClipNotFound
		}
		return nil, err
	}
	return &clip, nil
}

func (r *clipRepository) Update(ctx context.Context, clip *model.Clip) error {
	result := r.db.WithContext(ctx).
		Model(&model.Clip{}).
		Where("short_code = ?", clip.ShortCode).
		Updates(map[string]interface{}{
			"title":      clip.Title,
			"content":    clip.Content,
			"password":   clip.Password,
			"expires_at": clip.ExpiresAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClipNotFound
	}

	return r.db.WithContext(ctx).Where("short_code = ?", clip.ShortCode).First(clip).Error
}

func (r *clipRepository) IncrementHits(ctx context.Context, shortCode string, delta int64) error {
	result := r.db.WithContext(ctx).
		Model(&model.Clip{}).
		Where("short_code = ?", shortCode).
		Update("hits", gorm.Expr("hits + ?", delta))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClipNotFound
	}
	return nil
}

func (r *clipRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Delete(&model.Clip{})
	return result.RowsAffected, result.Error
}

// ShortCodes lists every stored short code, used to warm the lookup filter at
// startup.
func (r *clipRepository) ShortCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).Model(&model.Clip{}).Pluck("short_code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// isUniqueViolation matches Postgres duplicate-key failures without tying the
// repository to a specific driver error type.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "SQLSTATE 23505")
}
