package shab

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/gantapp/gant/pkg/models"
)

// Pattern extraction over the free-form HTML fragments embedded in auction
// object descriptions. Each field has an ordered chain of language-specific
// matchers; the first one that matches (and coerces) wins. A fragment that
// matches nothing still yields a usable record: the raw text is always kept
// verbatim as the description.

var parcelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Feuillet\s*no\s*(\d+)`),
	regexp.MustCompile(`(?i)Grundstück\s*Nr\.?\s*(\d+)`),
	regexp.MustCompile(`(?i)Parcelle\s*no\s*(\d+)`),
}

var valuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Valeur\s*vénale\s*[:\s]*CHF\s*([\d\s'.]+)`),
	regexp.MustCompile(`(?i)Valeur\s*officielle\s*[:\s]*CHF\s*([\d\s'.]+)`),
	regexp.MustCompile(`(?i)Schätzwert[:\s]*([\d\s'.]+)\s*CHF`),
	regexp.MustCompile(`(?i)CHF\s*([\d\s'.]+)`),
}

var surfacePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*m²`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*m2\b`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*m<sup>2</sup>`),
	regexp.MustCompile(`(?i)Surface\s*totale\s*(\d+(?:\.\d+)?)\s*m²`),
	regexp.MustCompile(`(?i)Surface\s*totale\s*(\d+(?:\.\d+)?)\s*m<sup>2</sup>`),
}

var (
	frenchStreetPattern = regexp.MustCompile(`(?i)Rue\s+([^,]+),\s*(\d+)\s+([^,<\n]+)`)
	addressPatterns     = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Adresse[:\s]*([^<>\n]+)`),
		regexp.MustCompile(`(?i)Lage[:\s]*([^<>\n]+)`),
		regexp.MustCompile(`(?i)Standort[:\s]*([^<>\n]+)`),
	}
)

var (
	zipTownPattern      = regexp.MustCompile(`(\d{4})\s+([A-Za-zÀ-ÿ' -]+)`)
	municipalityPattern = regexp.MustCompile(`(?i)Gemeinde[:\s]*([^<>\n]+)`)
)

// propertyTypeKeywords is ordered: the first keyword found in the fragment
// decides the type. Mapping normalizes the two French phrasings.
var propertyTypeKeywords = []struct {
	pattern *regexp.Regexp
	label   string
}{
	{regexp.MustCompile(`(?i)Bâtiment,\s*habitation`), "Bâtiment habitation"},
	{regexp.MustCompile(`(?i)Einzelhaus`), "Einzelhaus"},
	{regexp.MustCompile(`(?i)Eigentumswohnung`), "Eigentumswohnung"},
	{regexp.MustCompile(`(?i)Gewerbeimmobilie`), "Gewerbeimmobilie"},
	{regexp.MustCompile(`(?i)Landwirtschaftsbetrieb`), "Landwirtschaftsbetrieb"},
	{regexp.MustCompile(`(?i)Grundstück`), "Grundstück"},
	{regexp.MustCompile(`(?i)Jardin`), "Jardin"},
}

// ExtractObjectFields mines one HTML or plain-text fragment for the typed
// auction object fields. The fragment itself is retained verbatim as the
// description. Never fails; unmatched fields stay empty.
func ExtractObjectFields(fragment string) models.AuctionObject {
	obj := models.AuctionObject{
		Description: strings.TrimSpace(fragment),
	}

	// Patterns run against the raw fragment first so markup-aware variants
	// (m<sup>2</sup>) can hit, then against a tag-stripped view for text
	// broken up by inline markup.
	views := []string{fragment}
	if plain := htmlTextView(fragment); plain != "" && plain != fragment {
		views = append(views, plain)
	}

	obj.ParcelNumber = firstGroup(parcelPatterns, views)

	obj.EstimatedValue = firstAmount(valuePatterns, views)
	obj.SurfaceArea = firstAmount(surfacePatterns, views)

	obj.Address, obj.Municipality = extractAddress(views)
	if obj.Municipality == "" {
		obj.Municipality = extractMunicipality(views)
	}

	for _, keyword := range propertyTypeKeywords {
		if matchAny(keyword.pattern, views) {
			obj.PropertyType = keyword.label
			break
		}
	}

	return obj
}

// htmlTextView renders the fragment as plain text, dropping markup. An
// unparsable fragment yields the empty string and the raw view is used alone.
func htmlTextView(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Text())
}

func matchAny(pattern *regexp.Regexp, views []string) bool {
	for _, view := range views {
		if pattern.MatchString(view) {
			return true
		}
	}
	return false
}

// firstGroup returns the first capture of the first pattern matching any view.
func firstGroup(patterns []*regexp.Regexp, views []string) string {
	for _, pattern := range patterns {
		for _, view := range views {
			if m := pattern.FindStringSubmatch(view); m != nil {
				return strings.TrimSpace(m[1])
			}
		}
	}
	return ""
}

// firstAmount walks the pattern chain and returns the first capture that
// also coerces to a decimal. A match that fails coercion does not stop the
// chain: the next pattern is tried.
func firstAmount(patterns []*regexp.Regexp, views []string) *decimal.Decimal {
	for _, pattern := range patterns {
		for _, view := range views {
			m := pattern.FindStringSubmatch(view)
			if m == nil {
				continue
			}
			if value := ParseAmount(m[1]); value != nil {
				return value
			}
		}
	}
	return nil
}

// extractAddress tries the French street pattern first, which also yields
// the municipality from its zip-prefixed tail, then the German labelled
// address lines.
func extractAddress(views []string) (address, municipality string) {
	for _, view := range views {
		if m := frenchStreetPattern.FindStringSubmatch(view); m != nil {
			street := strings.TrimSpace(m[1])
			town := strings.TrimSpace(m[3])
			return fmt.Sprintf("Rue %s, %s %s", street, m[2], town), town
		}
	}
	for _, pattern := range addressPatterns {
		for _, view := range views {
			if m := pattern.FindStringSubmatch(view); m != nil {
				return strings.TrimSpace(m[1]), ""
			}
		}
	}
	return "", ""
}

func extractMunicipality(views []string) string {
	for _, view := range views {
		if m := municipalityPattern.FindStringSubmatch(view); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	for _, view := range views {
		if m := zipTownPattern.FindStringSubmatch(view); m != nil {
			return strings.TrimSpace(m[2])
		}
	}
	return ""
}
