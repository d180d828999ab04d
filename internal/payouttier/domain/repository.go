package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tier *PayoutTier) error
	List(ctx context.Context, db *gorm.DB) ([]PayoutTier, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
