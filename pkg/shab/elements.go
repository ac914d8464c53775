package shab

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/gantapp/gant/pkg/models"
)

// Structured readers over etree subtrees. The gazette mixes namespaced
// wrapper elements with unnamespaced content elements, so all descendant
// lookups match on the local tag name; only the publication wrapper itself
// is checked against the registered namespace URIs (see parser.go).

var titleLanguages = []string{"de", "en", "it", "fr"}

// findAll returns the descendants of el (excluding el itself) whose local
// tag equals name, in document order.
func findAll(el *etree.Element, name string) []*etree.Element {
	var found []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == name {
			found = append(found, child)
		}
		found = append(found, findAll(child, name)...)
	}
	return found
}

// findFirst returns the first descendant with the given local tag, or nil.
func findFirst(el *etree.Element, name string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == name {
			return child
		}
		if found := findFirst(child, name); found != nil {
			return found
		}
	}
	return nil
}

// textOf returns the trimmed character data directly under el.
func textOf(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

// deepText concatenates every text node under el, in document order. This
// keeps content that embeds HTML elements readable without losing any of it.
func deepText(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, node := range e.Child {
			switch t := node.(type) {
			case *etree.CharData:
				sb.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return strings.TrimSpace(sb.String())
}

// descendantTexts collects the direct text of every descendant with the
// given local tag. Used with GetText to mirror the "first non-empty
// candidate" contract.
func descendantTexts(el *etree.Element, name string) []string {
	var texts []string
	for _, found := range findAll(el, name) {
		texts = append(texts, textOf(found))
	}
	return texts
}

func firstText(el *etree.Element, name string) string {
	return GetText(descendantTexts(el, name)...)
}

// parseMultilingualTitle reads the per-language sub-elements of the first
// title node. Only languages actually present appear in the result; an
// empty map is returned as nil.
func parseMultilingualTitle(el *etree.Element) map[string]string {
	titleEl := findFirst(el, "title")
	if titleEl == nil {
		return nil
	}
	title := make(map[string]string)
	for _, lang := range titleLanguages {
		if text := firstText(titleEl, lang); text != "" {
			title[lang] = text
		}
	}
	if len(title) == 0 {
		return nil
	}
	return title
}

// parseRegistrationOffice reads the registrationOffice block with its
// optional nested post office box.
func parseRegistrationOffice(el *etree.Element) *models.RegistrationOffice {
	officeEl := findFirst(el, "registrationOffice")
	if officeEl == nil {
		return nil
	}
	office := &models.RegistrationOffice{
		ID:                    firstText(officeEl, "id"),
		DisplayName:           firstText(officeEl, "displayName"),
		Street:                firstText(officeEl, "street"),
		StreetNumber:          firstText(officeEl, "streetNumber"),
		SwissZipCode:          firstText(officeEl, "swissZipCode"),
		Town:                  firstText(officeEl, "town"),
		ContainsPostOfficeBox: firstText(officeEl, "containsPostOfficeBox") == "true",
	}
	if boxEl := findFirst(officeEl, "postOfficeBox"); boxEl != nil {
		office.PostOfficeBox = &models.PostOfficeBox{
			Number:  firstText(boxEl, "number"),
			ZipCode: firstText(boxEl, "zipCode"),
			Town:    firstText(boxEl, "town"),
		}
	}
	return office
}

// parseAuctionObjects keeps the full text content of every auctionObjects
// node verbatim as the object description. No field decomposition happens
// here; the pattern extractors only run on the flat fallback path.
func parseAuctionObjects(el *etree.Element) []models.AuctionObject {
	var objects []models.AuctionObject
	for _, objEl := range findAll(el, "auctionObjects") {
		description := deepText(objEl)
		if description == "" {
			continue
		}
		objects = append(objects, models.AuctionObject{
			ID:          uuid.NewString(),
			Description: description,
		})
	}
	return objects
}

// parseAuction reads the single auction block of a publication. The schema
// allows at most one auction; the first block in document order wins and
// any further one is ignored. Returns nil when no auction date parses.
func parseAuction(el *etree.Element, objects []models.AuctionObject) *models.Auction {
	auctionEl := findFirst(el, "auction")
	if auctionEl == nil {
		return nil
	}
	date := ParseDate(firstText(auctionEl, "date"))
	if date == nil {
		return nil
	}
	return &models.Auction{
		ID:             uuid.NewString(),
		Date:           *date,
		Time:           ParseTime(firstText(auctionEl, "time")),
		Location:       GetTextDefault(locationNotSpecified, firstText(auctionEl, "location")),
		Circulation:    parseDeadlineBlock(findFirst(el, "circulation")),
		Registration:   parseDeadlineBlock(findFirst(el, "registration")),
		AuctionObjects: objects,
	}
}

// parseDeadlineBlock reads an entry deadline and its free-text comment.
func parseDeadlineBlock(el *etree.Element) *models.DeadlineBlock {
	if el == nil {
		return nil
	}
	return &models.DeadlineBlock{
		EntryDeadline: ParseDate(firstText(el, "entryDeadline")),
		Comment:       firstText(el, "commentEntryDeadline"),
	}
}

// parseDebtors walks every debtor block, dispatching on the first
// selectType marker. Blocks without a name are discarded.
func parseDebtors(el *etree.Element) []models.Debtor {
	var debtors []models.Debtor
	for _, debtorEl := range findAll(el, "debtor") {
		var debtor *models.Debtor
		// The residence block carries its own selectType; only the first
		// marker in document order is the debtor type.
		switch firstText(debtorEl, "selectType") {
		case models.DebtorTypeCompany:
			debtor = parseCompanyDebtor(debtorEl)
		case models.DebtorTypePerson:
			debtor = parsePersonDebtor(debtorEl)
		default:
			debtor = parseGenericDebtor(debtorEl)
		}
		if debtor == nil || debtor.Name == "" {
			continue
		}
		debtors = append(debtors, *debtor)
	}
	return debtors
}

func parsePersonDebtor(debtorEl *etree.Element) *models.Debtor {
	personEl := findFirst(debtorEl, "person")
	if personEl == nil {
		return nil
	}
	debtor := &models.Debtor{
		ID:          uuid.NewString(),
		DebtorType:  models.DebtorTypePerson,
		Name:        firstText(personEl, "name"),
		Prename:     firstText(personEl, "prename"),
		DateOfBirth: ParseDate(firstText(personEl, "dateOfBirth")),
	}

	if countryEl := findFirst(personEl, "countryOfOrigin"); countryEl != nil {
		country := &models.CountryOfOrigin{
			ISOCode: firstText(countryEl, "isoCode"),
		}
		if nameEl := findFirst(countryEl, "name"); nameEl != nil {
			names := make(map[string]string)
			for _, lang := range titleLanguages {
				if text := firstText(nameEl, lang); text != "" {
					names[lang] = text
				}
			}
			if len(names) > 0 {
				country.Name = names
			}
		}
		debtor.CountryOfOrigin = country
	}

	if residenceEl := findFirst(personEl, "residence"); residenceEl != nil {
		debtor.ResidenceType = firstText(residenceEl, "selectType")
	}

	if addressEl := findFirst(personEl, "addressSwitzerland"); addressEl != nil {
		detail := &models.DebtorAddress{
			Street:       firstText(addressEl, "street"),
			HouseNumber:  firstText(addressEl, "houseNumber"),
			SwissZipCode: firstText(addressEl, "swissZipCode"),
			Town:         firstText(addressEl, "town"),
		}
		debtor.AddressDetail = detail
		debtor.Address = strings.TrimSpace(detail.Street + " " + detail.HouseNumber)
		debtor.City = detail.Town
		debtor.PostalCode = detail.SwissZipCode
	}

	return debtor
}

func parseCompanyDebtor(debtorEl *etree.Element) *models.Debtor {
	companyEl := findFirst(debtorEl, "company")
	if companyEl == nil {
		return nil
	}
	debtor := &models.Debtor{
		ID:                         uuid.NewString(),
		DebtorType:                 models.DebtorTypeCompany,
		Name:                       firstText(companyEl, "name"),
		UID:                        firstText(companyEl, "uid"),
		UIDOrganisationID:          firstText(companyEl, "uidOrganisationId"),
		UIDOrganisationIDCategorie: firstText(companyEl, "uidOrganisationIdCategorie"),
		LegalForm:                  firstText(companyEl, "legalForm"),
		Canton:                     firstText(companyEl, "canton"),
	}

	if addressEl := findFirst(companyEl, "address"); addressEl != nil {
		detail := &models.DebtorAddress{
			AddressLine1: firstText(addressEl, "addressLine1"),
			Street:       firstText(addressEl, "street"),
			HouseNumber:  firstText(addressEl, "houseNumber"),
			SwissZipCode: firstText(addressEl, "swissZipCode"),
			Town:         firstText(addressEl, "town"),
		}
		debtor.AddressDetail = detail
		debtor.Address = strings.TrimSpace(detail.Street + " " + detail.HouseNumber)
		debtor.City = detail.Town
		debtor.PostalCode = detail.SwissZipCode
	}

	return debtor
}

// parseGenericDebtor is the permissive fallback for debtor blocks whose
// selectType is missing or unknown: a flat field set, no type-specific
// nesting.
func parseGenericDebtor(debtorEl *etree.Element) *models.Debtor {
	return &models.Debtor{
		ID:          uuid.NewString(),
		DebtorType:  firstText(debtorEl, "selectType"),
		Name:        firstText(debtorEl, "name"),
		Prename:     firstText(debtorEl, "prename"),
		DateOfBirth: ParseDate(firstText(debtorEl, "dateOfBirth")),
		Address:     firstText(debtorEl, "address"),
		City:        firstText(debtorEl, "city"),
		PostalCode:  firstText(debtorEl, "postalCode"),
		LegalForm:   firstText(debtorEl, "legalForm"),
	}
}
