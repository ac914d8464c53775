package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PublicationFilter narrows publication listings. Zero values mean "no
// filter". Page is 1-based.
type PublicationFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Canton   string
	Language string
	Search   string
	Page     int
	Size     int
}

// AuctionFilter narrows auction listings.
type AuctionFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Canton   string
	Location string
	Search   string
	Page     int
	Size     int
}

// ObjectFilter narrows cross-auction object searches.
type ObjectFilter struct {
	Canton       string
	PropertyType string
	MinValue     string
	MaxValue     string
	Page         int
	Size         int
}

// Paging describes one page of a listing response.
type Paging struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}

type PublicationList struct {
	Items []Publication `json:"items"`
	Paging
}

type AuctionList struct {
	Items []AuctionSummary `json:"items"`
	Paging
}

// AuctionSummary is the free-tier projection of an auction: enough to list
// and locate it, without the premium detail fields.
type AuctionSummary struct {
	ID              string     `json:"id"`
	Date            time.Time  `json:"date"`
	Time            string     `json:"time,omitempty"`
	Location        string     `json:"location"`
	Canton          string     `json:"canton,omitempty"`
	PublicationID   string     `json:"publication_id"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	ObjectCount     int        `json:"object_count"`
}

// AuctionDetail is the premium projection: the full auction plus its
// publication context.
type AuctionDetail struct {
	Auction
	Canton        string    `json:"canton,omitempty"`
	PublicationID string    `json:"publication_id"`
	Debtors       []Debtor  `json:"debtors"`
	Contacts      []Contact `json:"contacts"`
}

type ObjectList struct {
	Items []AuctionObject `json:"items"`
	Paging
}

// PublicationStore is the persistence collaborator for extracted records.
type PublicationStore interface {
	// SavePublication persists one publication with its nested records.
	// It is idempotent on (title, publication date): a publication already
	// stored under the same key is left untouched.
	SavePublication(ctx context.Context, publication *Publication) error
	ListPublications(ctx context.Context, filter PublicationFilter) (*PublicationList, error)
	GetPublication(ctx context.Context, publicationID string) (*Publication, error)
	ListAuctions(ctx context.Context, filter AuctionFilter) (*AuctionList, error)
	GetAuctionSummary(ctx context.Context, auctionID string) (*AuctionSummary, error)
	GetAuctionDetail(ctx context.Context, auctionID string) (*AuctionDetail, error)
	GetAuctionObjects(ctx context.Context, auctionID string) ([]AuctionObject, error)
	ListObjects(ctx context.Context, filter ObjectFilter) (*ObjectList, error)
	// PurgeExpired removes auctions whose date is before cutoff, with their
	// dependent rows, and returns the number of auctions removed.
	PurgeExpired(ctx context.Context, cutoff time.Time) (int, error)
	Close() error
}

// SubscriptionStore keeps the tiered-access bookkeeping.
type SubscriptionStore interface {
	CreateSubscription(ctx context.Context, subscription *UserSubscription) (*UserSubscription, error)
	ListSubscriptions(ctx context.Context, userID uuid.UUID) ([]UserSubscription, error)
	HasActiveSubscription(ctx context.Context, userID uuid.UUID, auctionID string) (bool, error)
	DeactivateSubscription(ctx context.Context, userID, subscriptionID uuid.UUID) error
}

// AnalyticsStore records and aggregates auction views.
type AnalyticsStore interface {
	RecordView(ctx context.Context, view *AuctionViewEvent) error
	AuctionViewStats(ctx context.Context, auctionID string) (*ViewStats, error)
}
