package models

import (
	"time"

	"github.com/google/uuid"
)

type ViewType string

const (
	ViewTypeList   ViewType = "list"
	ViewTypeDetail ViewType = "detail"
	ViewTypeMap    ViewType = "map"
)

// AuctionViewEvent is one recorded view of an auction. UserID is nil for
// anonymous visitors; SessionID groups anonymous views.
type AuctionViewEvent struct {
	UUID      uuid.UUID  `json:"uuid"`
	AuctionID string     `json:"auction_id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	SessionID string     `json:"session_id,omitempty"`
	ViewType  ViewType   `json:"view_type"`
	ViewedAt  time.Time  `json:"viewed_at"`
}

// RecordViewRequest is the payload for the view tracking endpoint.
type RecordViewRequest struct {
	AuctionID string   `json:"auction_id" validate:"required"`
	SessionID string   `json:"session_id"`
	ViewType  ViewType `json:"view_type"  validate:"required,oneof=list detail map"`
}

// ViewStats aggregates the recorded views for one auction.
type ViewStats struct {
	AuctionID      string     `json:"auction_id"`
	TotalViews     int        `json:"total_views"`
	UniqueUsers    int        `json:"unique_users"`
	AnonymousViews int        `json:"anonymous_views"`
	ListViews      int        `json:"list_views"`
	DetailViews    int        `json:"detail_views"`
	MapViews       int        `json:"map_views"`
	LastViewed     *time.Time `json:"last_viewed,omitempty"`
}
