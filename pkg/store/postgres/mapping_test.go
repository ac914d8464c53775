package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gantapp/gant/pkg/models"
)

func TestAuctionMappingRoundTrip(t *testing.T) {
	entryDeadline := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)
	auction := &models.Auction{
		ID:       uuid.NewString(),
		Date:     time.Date(2025, 9, 4, 0, 0, 0, 0, time.UTC),
		Time:     "14:30",
		Location: "Salle de conférence, Courtelary",
		Circulation: &models.DeadlineBlock{
			EntryDeadline: &entryDeadline,
			Comment:       "Délai pour les productions",
		},
		Registration: &models.DeadlineBlock{
			Comment: "Inscription au greffe",
		},
	}

	row := auctionToSchema(auction, "pub-1")
	assert.Equal(t, "pub-1", row.PublicationID)
	require.NotNil(t, row.CirculationEntryDeadline)
	assert.Equal(t, entryDeadline, *row.CirculationEntryDeadline)

	back := schemaToAuction(row)
	assert.Equal(t, auction.ID, back.ID)
	assert.Equal(t, auction.Time, back.Time)
	require.NotNil(t, back.Circulation)
	assert.Equal(t, auction.Circulation.Comment, back.Circulation.Comment)
	// A comment-only deadline block survives without an entry date.
	require.NotNil(t, back.Registration)
	assert.Nil(t, back.Registration.EntryDeadline)
	assert.Equal(t, "Inscription au greffe", back.Registration.Comment)
}

func TestAuctionMappingOmitsEmptyDeadlines(t *testing.T) {
	auction := &models.Auction{ID: uuid.NewString(), Date: time.Now()}
	back := schemaToAuction(auctionToSchema(auction, "pub-1"))
	assert.Nil(t, back.Circulation)
	assert.Nil(t, back.Registration)
}

func TestObjectMappingRoundTrip(t *testing.T) {
	value := decimal.RequireFromString("650000.5")
	surface := decimal.RequireFromString("182")
	object := &models.AuctionObject{
		ID:             uuid.NewString(),
		Description:    "Feuillet no 1097",
		ParcelNumber:   "1097",
		EstimatedValue: &value,
		SurfaceArea:    &surface,
		PropertyType:   "Bâtiment",
		Municipality:   "Courtelary",
		Canton:         "BE",
	}

	row := objectToSchema(object, "auction-1")
	require.NotNil(t, row.EstimatedValue)
	assert.Equal(t, "650000.5", *row.EstimatedValue)

	back := schemaToObject(row)
	require.NotNil(t, back.EstimatedValue)
	assert.True(t, value.Equal(*back.EstimatedValue))
	require.NotNil(t, back.SurfaceArea)
	assert.True(t, surface.Equal(*back.SurfaceArea))
	assert.Equal(t, object.ParcelNumber, back.ParcelNumber)
}

func TestObjectMappingNilDecimals(t *testing.T) {
	object := &models.AuctionObject{ID: uuid.NewString(), Description: "Parcelle"}
	row := objectToSchema(object, "auction-1")
	assert.Nil(t, row.EstimatedValue)

	back := schemaToObject(row)
	assert.Nil(t, back.EstimatedValue)
	assert.Nil(t, back.SurfaceArea)
}

func TestDebtorMappingRoundTrip(t *testing.T) {
	debtor := &models.Debtor{
		ID:                         uuid.NewString(),
		DebtorType:                 models.DebtorTypeCompany,
		Name:                       "Immobilien Muster AG",
		UID:                        "CHE-123.456.789",
		UIDOrganisationID:          "123456789",
		UIDOrganisationIDCategorie: "CHE",
		LegalForm:                  "AG",
		Canton:                     "BE",
	}

	back := schemaToDebtor(debtorToSchema(debtor, "pub-1"))
	assert.Equal(t, debtor, back)
}

func TestSubscriptionMappingRoundTrip(t *testing.T) {
	expires := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	subscription := &models.UserSubscription{
		UUID:             uuid.New(),
		UserID:           uuid.New(),
		AuctionID:        "auction-1",
		SubscriptionType: models.SubscriptionPremium,
		PurchaseDate:     time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC),
		ExpiresAt:        &expires,
		IsActive:         true,
		PaymentID:        "pay-1",
		AmountPaid:       "9.90",
	}

	back := schemaToSubscription(subscriptionToSchema(subscription))
	assert.Equal(t, subscription, back)
}

func TestJSONBParam(t *testing.T) {
	assert.Equal(t, `{"fr":"Vente"}`, jsonbParam(map[string]string{"fr": "Vente"}))
	assert.Equal(t, "{}", jsonbParam(func() {}))
}
