package repository

import (
	"context"

	"github.com/sifan077/ClipStash/internal/app/model"
	"gorm.io/gorm"
)

// ViewEventRepository defines the data access contract for view audit rows.
type ViewEventRepository interface {
	Create(ctx context.Context, event *model.ViewEvent) error
}

type viewEventRepository struct {
	db *gorm.DB
}

// NewViewEventRepository returns a GORM-backed ViewEventRepository.
func NewViewEventRepository(db *gorm.DB) ViewEventRepository {
	return &viewEventRepository{db: db}
}

func (r *viewEventRepository) Create(ctx context.Context, event *model.ViewEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}
