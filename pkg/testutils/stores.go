package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gantapp/gant/pkg/models"
)

// FakePublicationStore serves a fixed set of publications from memory.
// List filtering is not reproduced; listings return everything.
type FakePublicationStore struct {
	mu           sync.Mutex
	Publications []models.Publication
	PurgedCount  int
}

var _ models.PublicationStore = &FakePublicationStore{}

func (s *FakePublicationStore) SavePublication(_ context.Context, publication *models.Publication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Publications = append(s.Publications, *publication)
	return nil
}

func (s *FakePublicationStore) ListPublications(_ context.Context, _ models.PublicationFilter) (*models.PublicationList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &models.PublicationList{
		Items:  append([]models.Publication{}, s.Publications...),
		Paging: models.Paging{Total: len(s.Publications), Page: 1, Size: 20, Pages: 1},
	}, nil
}

func (s *FakePublicationStore) GetPublication(_ context.Context, publicationID string) (*models.Publication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Publications {
		if s.Publications[i].ID == publicationID {
			return &s.Publications[i], nil
		}
	}
	return nil, models.NewNotFoundError("publication " + publicationID)
}

func (s *FakePublicationStore) ListAuctions(_ context.Context, _ models.AuctionFilter) (*models.AuctionList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []models.AuctionSummary
	for i := range s.Publications {
		for j := range s.Publications[i].Auctions {
			items = append(items, summaryOf(&s.Publications[i], &s.Publications[i].Auctions[j]))
		}
	}
	return &models.AuctionList{
		Items:  items,
		Paging: models.Paging{Total: len(items), Page: 1, Size: 20, Pages: 1},
	}, nil
}

func (s *FakePublicationStore) GetAuctionSummary(_ context.Context, auctionID string) (*models.AuctionSummary, error) {
	publication, auction, err := s.findAuction(auctionID)
	if err != nil {
		return nil, err
	}
	summary := summaryOf(publication, auction)
	return &summary, nil
}

func (s *FakePublicationStore) GetAuctionDetail(_ context.Context, auctionID string) (*models.AuctionDetail, error) {
	publication, auction, err := s.findAuction(auctionID)
	if err != nil {
		return nil, err
	}
	return &models.AuctionDetail{
		Auction:       *auction,
		Canton:        publication.Canton,
		PublicationID: publication.ID,
		Debtors:       publication.Debtors,
		Contacts:      publication.Contacts,
	}, nil
}

func (s *FakePublicationStore) GetAuctionObjects(_ context.Context, auctionID string) ([]models.AuctionObject, error) {
	_, auction, err := s.findAuction(auctionID)
	if err != nil {
		return nil, err
	}
	return auction.AuctionObjects, nil
}

func (s *FakePublicationStore) ListObjects(_ context.Context, _ models.ObjectFilter) (*models.ObjectList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []models.AuctionObject
	for i := range s.Publications {
		for j := range s.Publications[i].Auctions {
			items = append(items, s.Publications[i].Auctions[j].AuctionObjects...)
		}
	}
	return &models.ObjectList{
		Items:  items,
		Paging: models.Paging{Total: len(items), Page: 1, Size: 20, Pages: 1},
	}, nil
}

func (s *FakePublicationStore) PurgeExpired(_ context.Context, _ time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.PurgedCount, nil
}

func (s *FakePublicationStore) Close() error { return nil }

func (s *FakePublicationStore) findAuction(auctionID string) (*models.Publication, *models.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Publications {
		for j := range s.Publications[i].Auctions {
			if s.Publications[i].Auctions[j].ID == auctionID {
				return &s.Publications[i], &s.Publications[i].Auctions[j], nil
			}
		}
	}
	return nil, nil, models.NewNotFoundError("auction " + auctionID)
}

func summaryOf(publication *models.Publication, auction *models.Auction) models.AuctionSummary {
	return models.AuctionSummary{
		ID:              auction.ID,
		Date:            auction.Date,
		Time:            auction.Time,
		Location:        auction.Location,
		Canton:          publication.Canton,
		PublicationID:   publication.ID,
		PublicationDate: publication.PublicationDate,
		ObjectCount:     len(auction.AuctionObjects),
	}
}

// FakeSubscriptionStore keeps subscriptions in a map keyed by user and
// auction.
type FakeSubscriptionStore struct {
	mu            sync.Mutex
	Subscriptions []models.UserSubscription
}

var _ models.SubscriptionStore = &FakeSubscriptionStore{}

func (s *FakeSubscriptionStore) CreateSubscription(_ context.Context, subscription *models.UserSubscription) (*models.UserSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := *subscription
	if created.UUID == uuid.Nil {
		created.UUID = uuid.New()
	}
	s.Subscriptions = append(s.Subscriptions, created)
	return &created, nil
}

func (s *FakeSubscriptionStore) ListSubscriptions(_ context.Context, userID uuid.UUID) ([]models.UserSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var subscriptions []models.UserSubscription
	for _, subscription := range s.Subscriptions {
		if subscription.UserID == userID {
			subscriptions = append(subscriptions, subscription)
		}
	}
	return subscriptions, nil
}

func (s *FakeSubscriptionStore) HasActiveSubscription(_ context.Context, userID uuid.UUID, auctionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, subscription := range s.Subscriptions {
		if subscription.UserID == userID && subscription.AuctionID == auctionID && subscription.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (s *FakeSubscriptionStore) DeactivateSubscription(_ context.Context, userID, subscriptionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Subscriptions {
		if s.Subscriptions[i].UUID == subscriptionID && s.Subscriptions[i].UserID == userID {
			s.Subscriptions[i].IsActive = false
			return nil
		}
	}
	return models.NewNotFoundError("subscription " + subscriptionID.String())
}

// FakeAnalyticsStore counts views in memory.
type FakeAnalyticsStore struct {
	mu    sync.Mutex
	Views []models.AuctionViewEvent
}

var _ models.AnalyticsStore = &FakeAnalyticsStore{}

func (s *FakeAnalyticsStore) RecordView(_ context.Context, view *models.AuctionViewEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Views = append(s.Views, *view)
	return nil
}

func (s *FakeAnalyticsStore) AuctionViewStats(_ context.Context, auctionID string) (*models.ViewStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &models.ViewStats{AuctionID: auctionID}
	users := make(map[uuid.UUID]struct{})
	for _, view := range s.Views {
		if view.AuctionID != auctionID {
			continue
		}
		stats.TotalViews++
		if view.UserID == nil {
			stats.AnonymousViews++
		} else {
			users[*view.UserID] = struct{}{}
		}
		switch view.ViewType {
		case models.ViewTypeList:
			stats.ListViews++
		case models.ViewTypeDetail:
			stats.DetailViews++
		case models.ViewTypeMap:
			stats.MapViews++
		}
	}
	stats.UniqueUsers = len(users)
	return stats, nil
}
