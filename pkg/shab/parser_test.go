package shab

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gantapp/gant/pkg/models"
	"github.com/gantapp/gant/pkg/testutils"
)

func TestParseNamespacedPublication(t *testing.T) {
	parser := NewParser(nil)
	publications := parser.Parse(context.Background(), testutils.NamespacedPublicationXML, "")

	require.Len(t, publications, 1)
	publication := publications[0]

	assert.Equal(t, "3f2f1d5e-6a7b-4c8d-9e0f-1a2b3c4d5e6f", publication.ID)
	assert.Equal(t, "BE", publication.Canton)
	assert.Equal(t, "fr", publication.Language)
	require.NotNil(t, publication.PublicationDate)
	assert.Equal(t, "2025-08-15", publication.PublicationDate.Format("2006-01-02"))

	require.NotNil(t, publication.Title)
	assert.Equal(t, "Vente aux enchères d'immeubles dans la poursuite", publication.Title["fr"])
	assert.Equal(t, "Betreibungsamtliche Grundstücksteigerung", publication.Title["de"])

	require.NotNil(t, publication.RegistrationOffice)
	assert.Equal(t, "Office des poursuites du Jura bernois", publication.RegistrationOffice.DisplayName)
	assert.Equal(t, "Courtelary", publication.RegistrationOffice.Town)

	require.Len(t, publication.Auctions, 1)
	auction := publication.Auctions[0]
	assert.Equal(t, "2025-09-04", auction.Date.Format("2006-01-02"))
	assert.Equal(t, "14:30", auction.Time)
	assert.Equal(t, "Salle de conférence, Rue de la Préfecture 2, Courtelary", auction.Location)

	require.NotNil(t, auction.Circulation)
	require.NotNil(t, auction.Circulation.EntryDeadline)
	assert.Equal(t, "2025-08-25", auction.Circulation.EntryDeadline.Format("2006-01-02"))
	assert.Equal(t, "Délai pour les productions", auction.Circulation.Comment)
	require.NotNil(t, auction.Registration)
	require.NotNil(t, auction.Registration.EntryDeadline)

	require.Len(t, auction.AuctionObjects, 1)
	assert.Contains(t, auction.AuctionObjects[0].Description, "Valeur vénale : CHF 650'000.00")

	require.Len(t, publication.Debtors, 2)
	person := publication.Debtors[0]
	assert.Equal(t, models.DebtorTypePerson, person.DebtorType)
	assert.Equal(t, "Muster", person.Name)
	assert.Equal(t, "Hans", person.Prename)
	assert.Equal(t, "Bahnhofstrasse 12", person.Address)
	assert.Equal(t, "Courtelary", person.City)
	require.NotNil(t, person.CountryOfOrigin)
	assert.Equal(t, "CH", person.CountryOfOrigin.ISOCode)

	company := publication.Debtors[1]
	assert.Equal(t, models.DebtorTypeCompany, company.DebtorType)
	assert.Equal(t, "Immobilien Muster AG", company.Name)
	assert.Equal(t, "CHE-123.456.789", company.UID)
	assert.Equal(t, "Bern", company.City)
}

// The structured scenario's object fragment must also survive the pattern
// extractors on its own.
func TestStructuredObjectFragmentExtractable(t *testing.T) {
	parser := NewParser(nil)
	publications := parser.Parse(context.Background(), testutils.NamespacedPublicationXML, "")
	require.Len(t, publications, 1)
	require.Len(t, publications[0].Auctions, 1)
	require.Len(t, publications[0].Auctions[0].AuctionObjects, 1)

	obj := ExtractObjectFields(publications[0].Auctions[0].AuctionObjects[0].Description)
	require.NotNil(t, obj.EstimatedValue)
	assert.Equal(t, "650000", obj.EstimatedValue.Truncate(0).String())
	require.NotNil(t, obj.SurfaceArea)
	assert.Equal(t, "182", obj.SurfaceArea.String())
	assert.Equal(t, "1097", obj.ParcelNumber)
}

func TestParseStrategyOrdering(t *testing.T) {
	// The decoy ISO date precedes the structured publicationDate in the
	// raw text; only the flat path would pick it up.
	doc := `<?xml version="1.0"?>
<SB01:publication xmlns:SB01="https://shab.ch/shab/SB01-export">
  <exported>2020-01-01</exported>
  <id>11111111-2222-4333-8444-555555555555</id>
  <publicationDate>2025-08-15</publicationDate>
  <title><fr>Vente structurée</fr></title>
  <cantons>VD</cantons>
</SB01:publication>`

	parser := NewParser(nil)
	publications := parser.Parse(context.Background(), doc, "")

	require.Len(t, publications, 1)
	require.NotNil(t, publications[0].PublicationDate)
	assert.Equal(t, "2025-08-15", publications[0].PublicationDate.Format("2006-01-02"))
	assert.Equal(t, "VD", publications[0].Canton)
}

func TestParseRootAsPublicationWithoutNamespace(t *testing.T) {
	doc := `<?xml version="1.0"?>
<publication>
  <id>22222222-3333-4444-8555-666666666666</id>
  <publicationDate>2025-07-01</publicationDate>
  <title><de>Steigerung</de></title>
  <canton>ZH</canton>
</publication>`

	parser := NewParser(nil)
	publications := parser.Parse(context.Background(), doc, "")

	require.Len(t, publications, 1)
	assert.Equal(t, "22222222-3333-4444-8555-666666666666", publications[0].ID)
	assert.Equal(t, "ZH", publications[0].Canton)
	assert.Equal(t, "Steigerung", publications[0].Title["de"])
	// Language falls back to the gazette default.
	assert.Equal(t, "de", publications[0].Language)
}

func TestParseFlatFallback(t *testing.T) {
	parser := NewParser(nil)
	publications := parser.Parse(context.Background(), testutils.FlatFallbackXML, "")

	require.Len(t, publications, 1)
	publication := publications[0]

	assert.Equal(t, "8c9d0e1f-2a3b-4c5d-6e7f-8a9b0c1d2e3f", publication.ID)
	assert.Equal(t, "NE", publication.Canton)
	assert.Equal(t, "Vente aux enchères publiques", publication.Title["fr"])
	require.NotNil(t, publication.PublicationDate)
	assert.Equal(t, "2025-10-02", publication.PublicationDate.Format("2006-01-02"))

	require.NotNil(t, publication.RegistrationOffice)
	assert.Equal(t, "Office des poursuites du Littoral", publication.RegistrationOffice.DisplayName)

	require.Len(t, publication.Debtors, 1)
	assert.Equal(t, "Immobilier Exemple SA", publication.Debtors[0].Name)
	assert.Equal(t, "CHE-987.654.321", publication.Debtors[0].UID)

	require.Len(t, publication.Auctions, 1)
	auction := publication.Auctions[0]
	assert.Equal(t, "2025-10-02", auction.Date.Format("2006-01-02"))
	assert.Equal(t, "10:00", auction.Time)
	assert.Equal(t, "Salle de la Justice de paix, Neuchâtel NE", auction.Location)

	require.Len(t, auction.AuctionObjects, 1)
	obj := auction.AuctionObjects[0]
	assert.Equal(t, "2044", obj.ParcelNumber)
	require.NotNil(t, obj.EstimatedValue)
	assert.Equal(t, "820000", obj.EstimatedValue.Truncate(0).String())
	require.NotNil(t, obj.SurfaceArea)
	assert.Equal(t, "254", obj.SurfaceArea.String())
	assert.Equal(t, "NE", obj.Canton)
}

func TestParseNoCrash(t *testing.T) {
	parser := NewParser(nil)
	inputs := []string{
		"",
		"   ",
		"this is not xml at all <<<>>>",
		"<unclosed><tag>",
		`<?xml version="1.0"?><somethingElse><value>42</value></somethingElse>`,
	}
	for _, input := range inputs {
		assert.Empty(t, parser.Parse(context.Background(), input, ""), "%q", input)
	}
}

func TestParseDiscardsNamelessDebtor(t *testing.T) {
	doc := `<?xml version="1.0"?>
<publication>
  <id>33333333-4444-4555-8666-777777777777</id>
  <publicationDate>2025-07-01</publicationDate>
  <title><de>Steigerung</de></title>
  <debtor>
    <selectType>person</selectType>
    <person>
      <prename>Hans</prename>
    </person>
  </debtor>
  <debtor>
    <selectType>company</selectType>
    <company>
      <name>Valide AG</name>
    </company>
  </debtor>
</publication>`

	parser := NewParser(nil)
	publications := parser.Parse(context.Background(), doc, "")

	require.Len(t, publications, 1)
	require.Len(t, publications[0].Debtors, 1)
	assert.Equal(t, "Valide AG", publications[0].Debtors[0].Name)
}

func TestParseFirstAuctionBlockWins(t *testing.T) {
	doc := `<?xml version="1.0"?>
<publication>
  <id>44444444-5555-4666-8777-888888888888</id>
  <publicationDate>2025-07-01</publicationDate>
  <title><de>Steigerung</de></title>
  <auction>
    <date>2025-09-04</date>
    <time>14:30</time>
  </auction>
  <auction>
    <date>2025-10-20</date>
    <time>09:00</time>
  </auction>
</publication>`

	parser := NewParser(nil)
	publications := parser.Parse(context.Background(), doc, "")

	require.Len(t, publications, 1)
	require.Len(t, publications[0].Auctions, 1)
	auction := publications[0].Auctions[0]
	assert.Equal(t, "2025-09-04", auction.Date.Format("2006-01-02"))
	// No location in the block: the placeholder applies.
	assert.Equal(t, "Nicht angegeben", auction.Location)
}

func TestParseContactEnrichment(t *testing.T) {
	fetcher := testutils.NewFakeFetcher().
		Add("https://amtsblattportal.ch/api/v1/publications/abc", testutils.OfficeMetadataJSON)

	parser := NewParser(fetcher)
	publications := parser.Parse(
		context.Background(),
		testutils.NamespacedPublicationXML,
		"https://amtsblattportal.ch/api/v1/publications/abc/xml",
	)

	require.Len(t, publications, 1)
	require.Len(t, publications[0].Contacts, 1)
	contact := publications[0].Contacts[0]
	assert.Equal(t, "Office des poursuites du Jura bernois", contact.Name)
	assert.Equal(t, "Rue de la Préfecture 2", contact.Address)
	assert.Equal(t, "office", contact.ContactType)
	require.NotNil(t, contact.PostOfficeBox)
	assert.Equal(t, "14", contact.PostOfficeBox.Number)
}

func TestParseEnrichmentFailureDoesNotBlock(t *testing.T) {
	// The fetcher has no response for the metadata URL; the publication
	// must still come through, just without contacts.
	parser := NewParser(testutils.NewFakeFetcher())
	publications := parser.Parse(
		context.Background(),
		testutils.NamespacedPublicationXML,
		"https://amtsblattportal.ch/api/v1/publications/abc/xml",
	)

	require.Len(t, publications, 1)
	assert.Empty(t, publications[0].Contacts)
}
