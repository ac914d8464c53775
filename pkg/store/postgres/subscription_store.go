package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/gantapp/gant/pkg/models"
)

type SubscriptionStore struct {
	db *bun.DB
}

var _ models.SubscriptionStore = &SubscriptionStore{}

func NewSubscriptionStore(db *bun.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

func (s *SubscriptionStore) CreateSubscription(
	ctx context.Context,
	subscription *models.UserSubscription,
) (*models.UserSubscription, error) {
	if subscription == nil {
		return nil, errors.New("subscription cannot be nil")
	}
	row := subscriptionToSchema(subscription)
	if row.UUID == uuid.Nil {
		row.UUID = uuid.New()
	}
	if row.PurchaseDate.IsZero() {
		row.PurchaseDate = time.Now()
	}
	_, err := s.db.NewInsert().Model(row).Returning("*").Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return schemaToSubscription(row), nil
}

func (s *SubscriptionStore) ListSubscriptions(
	ctx context.Context,
	userID uuid.UUID,
) ([]models.UserSubscription, error) {
	var rows []UserSubscriptionSchema
	err := s.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("purchase_date DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	subscriptions := make([]models.UserSubscription, len(rows))
	for i := range rows {
		subscriptions[i] = *schemaToSubscription(&rows[i])
	}
	return subscriptions, nil
}

// HasActiveSubscription reports whether the user holds an active,
// unexpired subscription for the auction.
func (s *SubscriptionStore) HasActiveSubscription(
	ctx context.Context,
	userID uuid.UUID,
	auctionID string,
) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*UserSubscriptionSchema)(nil)).
		Where("user_id = ?", userID).
		Where("auction_id = ?", auctionID).
		Where("is_active = true").
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("expires_at IS NULL").
				WhereOr("expires_at > ?", time.Now())
		}).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return exists, nil
}

func (s *SubscriptionStore) DeactivateSubscription(
	ctx context.Context,
	userID, subscriptionID uuid.UUID,
) error {
	result, err := s.db.NewUpdate().
		Model((*UserSubscriptionSchema)(nil)).
		Set("is_active = false").
		Set("updated_at = ?", time.Now()).
		Where("uuid = ?", subscriptionID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to deactivate subscription: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err == nil && rowsAffected == 0 {
		return models.NewNotFoundError("subscription " + subscriptionID.String())
	}
	return nil
}
