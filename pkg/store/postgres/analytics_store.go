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

type AnalyticsStore struct {
	db *bun.DB
}

var _ models.AnalyticsStore = &AnalyticsStore{}

func NewAnalyticsStore(db *bun.DB) *AnalyticsStore {
	return &AnalyticsStore{db: db}
}

func (s *AnalyticsStore) RecordView(
	ctx context.Context,
	view *models.AuctionViewEvent,
) error {
	if view == nil {
		return errors.New("view cannot be nil")
	}
	row := &AuctionViewSchema{
		UUID:      view.UUID,
		AuctionID: view.AuctionID,
		UserID:    view.UserID,
		SessionID: view.SessionID,
		ViewType:  string(view.ViewType),
		ViewedAt:  view.ViewedAt,
	}
	if row.UUID == uuid.Nil {
		row.UUID = uuid.New()
	}
	if row.ViewedAt.IsZero() {
		row.ViewedAt = time.Now()
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("failed to record view: %w", err)
	}
	return nil
}

// AuctionViewStats aggregates every recorded view for one auction in a
// single pass over auction_views.
func (s *AnalyticsStore) AuctionViewStats(
	ctx context.Context,
	auctionID string,
) (*models.ViewStats, error) {
	var result struct {
		TotalViews     int        `bun:"total_views"`
		UniqueUsers    int        `bun:"unique_users"`
		AnonymousViews int        `bun:"anonymous_views"`
		ListViews      int        `bun:"list_views"`
		DetailViews    int        `bun:"detail_views"`
		MapViews       int        `bun:"map_views"`
		LastViewed     *time.Time `bun:"last_viewed"`
	}
	err := s.db.NewSelect().
		Model((*AuctionViewSchema)(nil)).
		ColumnExpr("count(*) AS total_views").
		ColumnExpr("count(DISTINCT user_id) AS unique_users").
		ColumnExpr("count(*) FILTER (WHERE user_id IS NULL) AS anonymous_views").
		ColumnExpr("count(*) FILTER (WHERE view_type = 'list') AS list_views").
		ColumnExpr("count(*) FILTER (WHERE view_type = 'detail') AS detail_views").
		ColumnExpr("count(*) FILTER (WHERE view_type = 'map') AS map_views").
		ColumnExpr("max(viewed_at) AS last_viewed").
		Where("auction_id = ?", auctionID).
		Scan(ctx, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate view stats: %w", err)
	}
	return &models.ViewStats{
		AuctionID:      auctionID,
		TotalViews:     result.TotalViews,
		UniqueUsers:    result.UniqueUsers,
		AnonymousViews: result.AnonymousViews,
		ListViews:      result.ListViews,
		DetailViews:    result.DetailViews,
		MapViews:       result.MapViews,
		LastViewed:     result.LastViewed,
	}, nil
}
