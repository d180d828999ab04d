package repository

import (
	"context"

	payouttierdomain "github.com/smallbiznis/skycover/internal/payouttier/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() payouttierdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tier *payouttierdomain.PayoutTier) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payout_tiers (id, min_delay_minutes, max_delay_minutes, multiplier, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		tier.ID,
		tier.MinDelayMinutes,
		tier.MaxDelayMinutes,
		tier.Multiplier,
		tier.CreatedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]payouttierdomain.PayoutTier, error) {
	var items []payouttierdomain.PayoutTier
	err := db.WithContext(ctx).Raw(
		`SELECT id, min_delay_minutes, max_delay_minutes, multiplier, created_at
		 FROM payout_tiers ORDER BY id ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(`SELECT COUNT(1) FROM payout_tiers`).Scan(&count).Error
	return count, err
}
