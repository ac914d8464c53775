package shab

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/gantapp/gant/pkg/models"
)

// Flat-structure fallback: last-resort regex recovery for documents that
// deviate entirely from the expected schema. It trades precision for
// availability and yields a single, minimally populated record.

const flatContentLimit = 500

var (
	flatUUIDPattern     = regexp.MustCompile(`\b[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}\b`)
	flatTitlePattern    = regexp.MustCompile(`(?s)<fr>(.*?)</fr>`)
	flatDatePattern     = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	flatLanguagePattern = regexp.MustCompile(`\b(fr|de|it|en)\b`)
	flatOfficePattern   = regexp.MustCompile(`Office des poursuites[^<]*`)
	flatDebtorPattern   = regexp.MustCompile(`([A-Za-zÀ-ÿ][A-Za-zÀ-ÿ\s]+(?:SA|AG|Sàrl|GmbH))\s+([A-Z]{3}-\d{3}\.\d{3}\.\d{3}|[A-Z0-9-]{6,})`)
	flatAuctionPattern  = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s+(\d{2}:\d{2})`)
	flatLocationPattern = regexp.MustCompile(`Salle de[^<]*`)
	flatHTMLPattern     = regexp.MustCompile(`(?s)<p><b>.*?</b></p>`)
)

// flatCantonPattern only accepts real canton codes. A bare two-uppercase
// match would collide with company suffixes and UID prefixes in the same
// text.
var flatCantonPattern = regexp.MustCompile(
	`\b(AG|AI|AR|BE|BL|BS|FR|GE|GL|GR|JU|LU|NE|NW|OW|SG|SH|SO|SZ|TG|TI|UR|VD|VS|ZG|ZH)\b`,
)

// parseFlat scans unstructured text for whatever publication signals it
// can find. It returns nil when none of the identifying signals (UUID,
// ISO date, French title) are present, so arbitrary garbage does not
// produce a record.
func (p *Parser) parseFlat(raw string) *models.Publication {
	idMatch := flatUUIDPattern.FindString(raw)
	titleMatch := flatTitlePattern.FindStringSubmatch(raw)
	dateMatch := flatDatePattern.FindString(raw)

	if idMatch == "" && titleMatch == nil && dateMatch == "" {
		return nil
	}

	publication := &models.Publication{
		ID:       idMatch,
		Language: "fr",
		Content:  truncate(raw, flatContentLimit),
		Auctions: []models.Auction{},
		Debtors:  []models.Debtor{},
		Contacts: []models.Contact{},
	}
	if publication.ID == "" {
		publication.ID = uuid.NewString()
	}
	if titleMatch != nil {
		if title := strings.TrimSpace(titleMatch[1]); title != "" {
			publication.Title = map[string]string{"fr": title}
		}
	}
	publication.PublicationDate = ParseDate(dateMatch)
	publication.Canton = flatCantonPattern.FindString(raw)
	if lang := flatLanguagePattern.FindString(raw); lang != "" {
		publication.Language = lang
	}
	if office := flatOfficePattern.FindString(raw); office != "" {
		publication.RegistrationOffice = &models.RegistrationOffice{
			DisplayName: strings.TrimSpace(office),
		}
	}

	if m := flatDebtorPattern.FindStringSubmatch(raw); m != nil {
		publication.Debtors = append(publication.Debtors, models.Debtor{
			ID:         uuid.NewString(),
			DebtorType: models.DebtorTypeCompany,
			Name:       strings.TrimSpace(m[1]),
			UID:        strings.TrimSpace(m[2]),
		})
	}

	if m := flatAuctionPattern.FindStringSubmatch(raw); m != nil {
		if date := ParseDate(m[1]); date != nil {
			auction := models.Auction{
				ID:       uuid.NewString(),
				Date:     *date,
				Time:     ParseTime(m[2]),
				Location: locationNotSpecified,
			}
			if location := flatLocationPattern.FindString(raw); location != "" {
				auction.Location = strings.TrimSpace(location)
			}
			// The embedded HTML fragment is the only auction object source
			// on this path; it goes through the full pattern extraction.
			if fragment := flatHTMLPattern.FindString(raw); fragment != "" {
				obj := ExtractObjectFields(fragment)
				obj.ID = uuid.NewString()
				obj.Canton = publication.Canton
				auction.AuctionObjects = append(auction.AuctionObjects, obj)
			}
			publication.Auctions = append(publication.Auctions, auction)
		}
	}

	return publication
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
