package shab

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/gantapp/gant/pkg/models"
)

// Contact enrichment: the primary XML export does not carry the
// registration office's full contact block, but the portal's metadata API
// does. Given the publication's detail or XML URL we derive the metadata
// URL, fetch it, and mine meta.registrationOffice. Any failure on this
// side channel yields no contacts; it never blocks publication assembly.

const metadataAPIBase = "https://www.shab.ch/api/v1/publications"

var detailPathPattern = regexp.MustCompile(`/publications/(?:detail/)?([^/]+)`)

type officeMetadata struct {
	Meta struct {
		RegistrationOffice *struct {
			ID                    string `json:"id"`
			DisplayName           string `json:"displayName"`
			Street                string `json:"street"`
			StreetNumber          string `json:"streetNumber"`
			SwissZipCode          string `json:"swissZipCode"`
			Town                  string `json:"town"`
			ContainsPostOfficeBox bool   `json:"containsPostOfficeBox"`
			PostOfficeBox         *struct {
				Number  string `json:"number"`
				ZipCode string `json:"zipCode"`
				Town    string `json:"town"`
			} `json:"postOfficeBox"`
		} `json:"registrationOffice"`
	} `json:"meta"`
}

// fetchContacts derives the metadata URL from a publication page URL,
// fetches it and extracts the registration office contact. Failures are
// logged and yield an empty list.
func (p *Parser) fetchContacts(ctx context.Context, pageURL string) []models.Contact {
	if p.fetcher == nil {
		return nil
	}

	metaURL := deriveMetadataURL(pageURL)
	if metaURL == "" {
		log.Debugf("no metadata URL derivable from %q", pageURL)
		return nil
	}

	body, err := p.fetcher.Fetch(ctx, metaURL)
	if err != nil {
		log.Warnf("contact enrichment fetch failed for %s: %v", metaURL, err)
		return nil
	}

	contacts, err := extractContactsFromMetadata(body)
	if err != nil {
		log.Warnf("contact enrichment parse failed for %s: %v", metaURL, err)
		return nil
	}
	return contacts
}

// deriveMetadataURL strips a trailing /xml segment, or rebuilds the
// metadata URL from the publication id in a detail path. Returns "" when
// neither form applies.
func deriveMetadataURL(pageURL string) string {
	if strings.Contains(pageURL, "/xml") {
		return strings.Replace(pageURL, "/xml", "", 1)
	}
	if m := detailPathPattern.FindStringSubmatch(pageURL); m != nil {
		return fmt.Sprintf("%s/%s", metadataAPIBase, m[1])
	}
	return ""
}

// extractContactsFromMetadata mines the office block out of the metadata
// JSON. An office without a display name is discarded.
func extractContactsFromMetadata(body string) ([]models.Contact, error) {
	var metadata officeMetadata
	if err := json.Unmarshal([]byte(body), &metadata); err != nil {
		return nil, fmt.Errorf("unmarshal publication metadata: %w", err)
	}

	office := metadata.Meta.RegistrationOffice
	if office == nil {
		return nil, nil
	}

	contact := models.Contact{
		ID:                    uuid.NewString(),
		Name:                  office.DisplayName,
		Address:               strings.TrimSpace(office.Street + " " + office.StreetNumber),
		PostalCode:            office.SwissZipCode,
		City:                  office.Town,
		ContactType:           "office",
		OfficeID:              office.ID,
		ContainsPostOfficeBox: office.ContainsPostOfficeBox,
	}
	if office.PostOfficeBox != nil {
		contact.PostOfficeBox = &models.PostOfficeBox{
			Number:  office.PostOfficeBox.Number,
			ZipCode: office.PostOfficeBox.ZipCode,
			Town:    office.PostOfficeBox.Town,
		}
	}
	if contact.Name == "" {
		return nil, nil
	}

	return []models.Contact{contact}, nil
}
