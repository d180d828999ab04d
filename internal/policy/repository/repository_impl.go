package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	policydomain "github.com/smallbiznis/skycover/internal/policy/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() policydomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, policy *policydomain.Policy) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO policies (
			id, holder, flight_number, scheduled_departure, premium_cents, max_payout_cents,
			status, flight_status, actual_departure, delay_minutes, payout_processed,
			payout_amount_cents, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		policy.ID,
		policy.Holder,
		policy.FlightNumber,
		policy.ScheduledDeparture,
		policy.PremiumCents,
		policy.MaxPayoutCents,
		string(policy.Status),
		string(policy.FlightStatus),
		policy.ActualDeparture,
		policy.DelayMinutes,
		policy.PayoutProcessed,
		policy.PayoutAmountCents,
		policy.CreatedAt,
		policy.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*policydomain.Policy, error) {
	var policy policydomain.Policy
	err := db.WithContext(ctx).Raw(
		`SELECT id, holder, flight_number, scheduled_departure, premium_cents, max_payout_cents,
		 status, flight_status, actual_departure, delay_minutes, payout_processed,
		 payout_amount_cents, created_at, updated_at
		 FROM policies WHERE id = ?`,
		id,
	).Scan(&policy).Error
	if err != nil {
		return nil, err
	}
	if policy.ID == 0 {
		return nil, nil
	}
	return &policy, nil
}

func (r *repo) UpdateFlightState(ctx context.Context, db *gorm.DB, id snowflake.ID, status policydomain.FlightStatus, actualDeparture *time.Time, delayMinutes int64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE policies
		 SET flight_status = ?, actual_departure = ?, delay_minutes = ?, updated_at = ?
		 WHERE id = ?`,
		string(status),
		actualDeparture,
		delayMinutes,
		time.Now().UTC(),
		id,
	).Error
}

func (r *repo) MarkClaimed(ctx context.Context, db *gorm.DB, id snowflake.ID, payoutAmountCents int64) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE policies
		 SET status = ?, payout_processed = ?, payout_amount_cents = ?, updated_at = ?
		 WHERE id = ? AND status = ? AND payout_processed = ?`,
		string(policydomain.PolicyStatusClaimed),
		true,
		payoutAmountCents,
		time.Now().UTC(),
		id,
		string(policydomain.PolicyStatusActive),
		false,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) MarkCancelled(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE policies
		 SET status = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		string(policydomain.PolicyStatusCancelled),
		time.Now().UTC(),
		id,
		string(policydomain.PolicyStatusActive),
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) ListIDsByHolder(ctx context.Context, db *gorm.DB, holder string) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).Raw(
		`SELECT id FROM policies WHERE holder = ? ORDER BY id ASC`,
		holder,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repo) ListIDsByFlight(ctx context.Context, db *gorm.DB, flightNumber string) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).Raw(
		`SELECT id FROM policies WHERE flight_number = ? ORDER BY id ASC`,
		flightNumber,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
