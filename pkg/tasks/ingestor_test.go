package tasks

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gantapp/gant/config"
	"github.com/gantapp/gant/pkg/models"
	"github.com/gantapp/gant/pkg/testutils"
)

// fakePublicationStore records saves in memory; only SavePublication is
// exercised by the ingestor.
type fakePublicationStore struct {
	mu     sync.Mutex
	saved  []models.Publication
	errIDs map[string]struct{}
}

func newFakePublicationStore() *fakePublicationStore {
	return &fakePublicationStore{errIDs: make(map[string]struct{})}
}

func (s *fakePublicationStore) SavePublication(_ context.Context, publication *models.Publication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.errIDs[publication.ID]; ok {
		return fmt.Errorf("save rejected")
	}
	s.saved = append(s.saved, *publication)
	return nil
}

func (s *fakePublicationStore) savedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func (s *fakePublicationStore) ListPublications(context.Context, models.PublicationFilter) (*models.PublicationList, error) {
	return &models.PublicationList{}, nil
}

func (s *fakePublicationStore) GetPublication(context.Context, string) (*models.Publication, error) {
	return nil, models.ErrNotFound
}

func (s *fakePublicationStore) ListAuctions(context.Context, models.AuctionFilter) (*models.AuctionList, error) {
	return &models.AuctionList{}, nil
}

func (s *fakePublicationStore) GetAuctionSummary(context.Context, string) (*models.AuctionSummary, error) {
	return nil, models.ErrNotFound
}

func (s *fakePublicationStore) GetAuctionDetail(context.Context, string) (*models.AuctionDetail, error) {
	return nil, models.ErrNotFound
}

func (s *fakePublicationStore) GetAuctionObjects(context.Context, string) ([]models.AuctionObject, error) {
	return nil, nil
}

func (s *fakePublicationStore) ListObjects(context.Context, models.ObjectFilter) (*models.ObjectList, error) {
	return &models.ObjectList{}, nil
}

func (s *fakePublicationStore) PurgeExpired(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (s *fakePublicationStore) Close() error { return nil }

func testAppState(store models.PublicationStore, fetcher models.Fetcher) *models.AppState {
	return &models.AppState{
		PublicationStore: store,
		Fetcher:          fetcher,
		Config: &config.Config{
			SHAB: config.SHABConfig{
				BaseURL: "https://amtsblattportal.ch/api/v1",
			},
			Ingest: config.IngestConfig{
				DaysBack:    7,
				Concurrency: 2,
			},
		},
	}
}

func refExport(ids ...string) string {
	export := "<export>"
	for _, id := range ids {
		export += "<publicationRef><id>" + id + "</id></publicationRef>"
	}
	return export + "</export>"
}

func TestRunOnceIngestsReferencedDocuments(t *testing.T) {
	store := newFakePublicationStore()
	fetcher := testutils.NewFakeFetcher()
	fetcher.Default = refExport("doc-1", "doc-2")
	fetcher.Add(
		"https://amtsblattportal.ch/api/v1/publications/doc-1/xml",
		testutils.NamespacedPublicationXML,
	)
	fetcher.Add(
		"https://amtsblattportal.ch/api/v1/publications/doc-2/xml",
		testutils.FlatFallbackXML,
	)

	ingestor := NewIngestor(testAppState(store, fetcher))
	report, err := ingestor.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Documents)
	assert.Equal(t, 2, report.Saved)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 2, store.savedCount())
}

func TestRunOnceCountsFailedDocuments(t *testing.T) {
	store := newFakePublicationStore()
	fetcher := testutils.NewFakeFetcher()
	fetcher.Default = refExport("doc-1", "doc-2")
	fetcher.Add(
		"https://amtsblattportal.ch/api/v1/publications/doc-1/xml",
		testutils.NamespacedPublicationXML,
	)
	// doc-2 yields nothing parseable.
	fetcher.Add(
		"https://amtsblattportal.ch/api/v1/publications/doc-2/xml",
		"<empty><nothing/></empty>",
	)

	ingestor := NewIngestor(testAppState(store, fetcher))
	report, err := ingestor.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Saved)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, store.savedCount())
}

func TestRunOnceInlinePublications(t *testing.T) {
	// No refs in the export: the body itself is parsed as a publication
	// document.
	store := newFakePublicationStore()
	fetcher := testutils.NewFakeFetcher()
	fetcher.Default = testutils.NamespacedPublicationXML

	ingestor := NewIngestor(testAppState(store, fetcher))
	report, err := ingestor.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Saved)
	assert.Equal(t, 1, store.savedCount())
}

func TestRunOnceExportFetchFails(t *testing.T) {
	store := newFakePublicationStore()
	// No responses and no default: the export fetch itself errors.
	ingestor := NewIngestor(testAppState(store, testutils.NewFakeFetcher()))

	_, err := ingestor.RunOnce(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, store.savedCount())
}

func TestRunOnceSaveFailureCounted(t *testing.T) {
	store := newFakePublicationStore()
	store.errIDs["3f2f1d5e-6a7b-4c8d-9e0f-1a2b3c4d5e6f"] = struct{}{}

	fetcher := testutils.NewFakeFetcher()
	fetcher.Default = refExport("doc-1")
	fetcher.Add(
		"https://amtsblattportal.ch/api/v1/publications/doc-1/xml",
		testutils.NamespacedPublicationXML,
	)

	ingestor := NewIngestor(testAppState(store, fetcher))
	report, err := ingestor.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Saved)
	assert.Equal(t, 1, report.Failed)
}
