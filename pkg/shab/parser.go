package shab

import (
	"context"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/gantapp/gant/internal"
	"github.com/gantapp/gant/pkg/models"
)

var log = internal.GetLogger()

// Namespace URIs under which the gazette publishes the publication wrapper
// element. The table is immutable; a Parser can be shared across
// goroutines as long as each call works on its own document.
const (
	NamespaceSB01 = "https://shab.ch/shab/SB01-export"
	NamespaceECH  = "http://www.ech.ch/xmlns/eCH-0090/1"
)

// locationNotSpecified is the placeholder used when an auction block
// carries no location.
const locationNotSpecified = "Nicht angegeben"

const publicationTag = "publication"

// Skip records one publication element that could not be parsed. Siblings
// of a skipped element are unaffected.
type Skip struct {
	Index  int
	Reason error
}

// Parser converts raw gazette XML into publication records. The optional
// fetcher is only used for contact enrichment; a nil fetcher disables it.
type Parser struct {
	namespaces map[string]struct{}
	fetcher    models.Fetcher
}

func NewParser(fetcher models.Fetcher) *Parser {
	return &Parser{
		namespaces: map[string]struct{}{
			NamespaceSB01: {},
			NamespaceECH:  {},
		},
		fetcher: fetcher,
	}
}

// Parse extracts zero or more publications from rawXML. contactURL, when
// non-empty, points at the publication's detail page and triggers contact
// enrichment over the fetcher. Parse never panics and never returns an
// error: any top-level failure yields an empty result.
func (p *Parser) Parse(ctx context.Context, rawXML, contactURL string) []models.Publication {
	publications, _ := p.ParseWithReport(ctx, rawXML, contactURL)
	return publications
}

// ParseWithReport is Parse plus an audit trail of the publication elements
// that were skipped and why.
func (p *Parser) ParseWithReport(
	ctx context.Context,
	rawXML, contactURL string,
) (publications []models.Publication, skipped []Skip) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("publication parse panicked: %v", r)
			publications = nil
		}
	}()

	if strings.TrimSpace(rawXML) == "" {
		return nil, nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(rawXML); err != nil {
		log.Warnf("document is not well-formed XML: %v", err)
		return nil, nil
	}

	// Strategy 1: namespaced publication elements.
	publications, skipped = p.parseNamespacedPublications(doc)

	// Strategy 2: the root itself is the publication.
	if len(publications) == 0 {
		if root := doc.Root(); root != nil &&
			strings.Contains(strings.ToLower(root.FullTag()), publicationTag) {
			publication, err := p.parsePublicationElement(root)
			if err != nil {
				log.Warnf("root publication element skipped: %v", err)
				skipped = append(skipped, Skip{Index: 0, Reason: err})
			} else {
				publications = append(publications, *publication)
			}
		}
	}

	// Strategy 3: flat regex recovery, trading precision for availability.
	if len(publications) == 0 {
		if publication := p.parseFlat(rawXML); publication != nil {
			publications = append(publications, *publication)
		}
	}

	return p.enrich(ctx, publications, contactURL), skipped
}

// parseNamespacedPublications finds every publication element carried in
// one of the registered namespaces and parses each independently. One bad
// element does not abort its siblings.
func (p *Parser) parseNamespacedPublications(
	doc *etree.Document,
) ([]models.Publication, []Skip) {
	root := doc.Root()
	if root == nil {
		return nil, nil
	}

	var elements []*etree.Element
	for _, el := range findAll(root, publicationTag) {
		if p.inRegisteredNamespace(el) {
			elements = append(elements, el)
		}
	}
	if root.Tag == publicationTag && p.inRegisteredNamespace(root) {
		elements = append([]*etree.Element{root}, elements...)
	}

	var publications []models.Publication
	var skipped []Skip
	for i, el := range elements {
		publication, err := p.parsePublicationElement(el)
		if err != nil {
			log.Warnf("publication element %d skipped: %v", i, err)
			skipped = append(skipped, Skip{Index: i, Reason: err})
			continue
		}
		publications = append(publications, *publication)
	}
	return publications, skipped
}

// inRegisteredNamespace resolves el's namespace prefix against the xmlns
// declarations in scope and checks the URI against the namespace table.
func (p *Parser) inRegisteredNamespace(el *etree.Element) bool {
	uri := resolveNamespace(el)
	_, ok := p.namespaces[uri]
	return ok
}

// resolveNamespace walks up from el looking for the xmlns declaration
// binding el's prefix (or the default namespace for unprefixed tags).
func resolveNamespace(el *etree.Element) string {
	prefix := el.Space
	for current := el; current != nil; current = current.Parent() {
		for _, attr := range current.Attr {
			if prefix == "" {
				if attr.Space == "" && attr.Key == "xmlns" {
					return attr.Value
				}
			} else if attr.Space == "xmlns" && attr.Key == prefix {
				return attr.Value
			}
		}
	}
	return ""
}

// parsePublicationElement assembles one publication record from a
// structured subtree: identity and dates first, then title and office,
// then the nested auction, debtor and object records.
func (p *Parser) parsePublicationElement(el *etree.Element) (publication *models.Publication, err error) {
	defer func() {
		if r := recover(); r != nil {
			publication = nil
			err = fmt.Errorf("publication element panicked: %v", r)
		}
	}()

	id := firstText(el, "id")
	if id == "" {
		id = uuid.NewString()
	}

	publication = &models.Publication{
		ID:              id,
		PublicationDate: ParseDate(firstText(el, "publicationDate")),
		ExpirationDate:  ParseDate(firstText(el, "expirationDate")),
		Title:           parseMultilingualTitle(el),
		// The gazette publishes the canton list under "cantons"; single
		// publication exports use the singular form.
		Canton:             GetText(firstText(el, "cantons"), firstText(el, "canton")),
		Language:           GetTextDefault("de", firstText(el, "language")),
		RegistrationOffice: parseRegistrationOffice(el),
		Auctions:           []models.Auction{},
		Debtors:            []models.Debtor{},
		Contacts:           []models.Contact{},
	}

	objects := parseAuctionObjects(el)
	if auction := parseAuction(el, objects); auction != nil {
		publication.Auctions = append(publication.Auctions, *auction)
	}
	publication.Debtors = parseDebtors(el)

	return publication, nil
}

// enrich attaches contact records mined from the side-channel metadata API
// to every parsed publication. Enrichment failure never blocks assembly.
func (p *Parser) enrich(
	ctx context.Context,
	publications []models.Publication,
	contactURL string,
) []models.Publication {
	if contactURL == "" || len(publications) == 0 {
		return publications
	}
	contacts := p.fetchContacts(ctx, contactURL)
	for i := range publications {
		publications[i].Contacts = append(publications[i].Contacts, contacts...)
	}
	return publications
}
