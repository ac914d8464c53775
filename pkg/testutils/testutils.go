package testutils

import (
	"context"
	"fmt"
	"sync"
)

// FakeFetcher serves canned responses keyed by URL. Unknown URLs fall
// back to Default when set, otherwise they return an error, mimicking a
// failed upstream fetch.
type FakeFetcher struct {
	mu        sync.Mutex
	Responses map[string]string
	Requested []string
	Default   string
}

func NewFakeFetcher() *FakeFetcher {
	return &FakeFetcher{Responses: make(map[string]string)}
}

func (f *FakeFetcher) Add(url, body string) *FakeFetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Responses[url] = body
	return f
}

func (f *FakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requested = append(f.Requested, url)
	body, ok := f.Responses[url]
	if !ok {
		if f.Default != "" {
			return f.Default, nil
		}
		return "", fmt.Errorf("fetch %s: unexpected status 404", url)
	}
	return body, nil
}

// RequestCount reports how many fetches were made.
func (f *FakeFetcher) RequestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requested)
}

// NamespacedPublicationXML is a structurally faithful SB01 export
// document with one publication, one auction, one object and two debtors.
const NamespacedPublicationXML = `<?xml version="1.0" encoding="UTF-8"?>
<SB01:publication xmlns:SB01="https://shab.ch/shab/SB01-export" xmlns:ns="http://www.ech.ch/xmlns/eCH-0090/1">
  <meta>
    <id>3f2f1d5e-6a7b-4c8d-9e0f-1a2b3c4d5e6f</id>
    <publicationDate>2025-08-15</publicationDate>
    <expirationDate>2026-08-15</expirationDate>
    <title>
      <de>Betreibungsamtliche Grundstücksteigerung</de>
      <fr>Vente aux enchères d'immeubles dans la poursuite</fr>
    </title>
    <language>fr</language>
    <cantons>BE</cantons>
    <registrationOffice>
      <id>office-77</id>
      <displayName>Office des poursuites du Jura bernois</displayName>
      <street>Rue de la Préfecture</street>
      <streetNumber>2</streetNumber>
      <swissZipCode>2608</swissZipCode>
      <town>Courtelary</town>
      <containsPostOfficeBox>false</containsPostOfficeBox>
    </registrationOffice>
  </meta>
  <content>
    <debtor>
      <selectType>person</selectType>
      <person>
        <name>Muster</name>
        <prename>Hans</prename>
        <dateOfBirth>1970-04-12</dateOfBirth>
        <countryOfOrigin>
          <name>
            <de>Schweiz</de>
            <fr>Suisse</fr>
          </name>
          <isoCode>CH</isoCode>
        </countryOfOrigin>
        <residence>
          <selectType>switzerland</selectType>
        </residence>
        <addressSwitzerland>
          <street>Bahnhofstrasse</street>
          <houseNumber>12</houseNumber>
          <swissZipCode>2608</swissZipCode>
          <town>Courtelary</town>
        </addressSwitzerland>
      </person>
    </debtor>
    <debtor>
      <selectType>company</selectType>
      <company>
        <name>Immobilien Muster AG</name>
        <uid>CHE-123.456.789</uid>
        <legalForm>0106</legalForm>
        <address>
          <street>Marktgasse</street>
          <houseNumber>5</houseNumber>
          <swissZipCode>3011</swissZipCode>
          <town>Bern</town>
        </address>
      </company>
    </debtor>
    <auction>
      <date>2025-09-04</date>
      <time>14:30</time>
      <location>Salle de conférence, Rue de la Préfecture 2, Courtelary</location>
    </auction>
    <auctionObjects>Feuillet no 1097 du ban de Courtelary. Bâtiment, habitation. Valeur vénale : CHF 650'000.00. Surface totale 182 m²</auctionObjects>
    <circulation>
      <entryDeadline>2025-08-25</entryDeadline>
      <commentEntryDeadline>Délai pour les productions</commentEntryDeadline>
    </circulation>
    <registration>
      <entryDeadline>2025-08-30</entryDeadline>
    </registration>
  </content>
</SB01:publication>
`

// FlatFallbackXML is well-formed XML whose root tag names no publication
// and whose elements carry none of the expected structure; only the flat
// regex path can recover anything from it.
const FlatFallbackXML = `<?xml version="1.0"?>
<export>
  <entry>ref 8c9d0e1f-2a3b-4c5d-6e7f-8a9b0c1d2e3f</entry>
  <body>Vente aux enchères du 2025-10-02 10:00 <venue>Salle de la Justice de paix, Neuchâtel NE</venue>
    <office>Office des poursuites du Littoral</office>
    <partie>Immobilier Exemple SA CHE-987.654.321</partie>
    <fr>Vente aux enchères publiques</fr>
    <p><b>Parcelle no 2044, Valeur vénale : CHF 820'000.00, 254 m2 </b></p>
  </body>
</export>
`

// OfficeMetadataJSON is a metadata API response carrying the registration
// office contact block.
const OfficeMetadataJSON = `{
  "meta": {
    "registrationOffice": {
      "id": "office-77",
      "displayName": "Office des poursuites du Jura bernois",
      "street": "Rue de la Préfecture",
      "streetNumber": "2",
      "swissZipCode": "2608",
      "town": "Courtelary",
      "containsPostOfficeBox": true,
      "postOfficeBox": {
        "number": "14",
        "zipCode": "2608",
        "town": "Courtelary"
      }
    }
  }
}`
