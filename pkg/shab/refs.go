package shab

import (
	"strings"

	"github.com/beevik/etree"
)

// ExtractPublicationRefs pulls the publication ids out of a bulk export
// document. The export lists one ref element per notice; each carries the
// id under which the standalone XML can be fetched. Returns nil when the
// document is not well-formed or carries no refs.
func ExtractPublicationRefs(rawXML string) []string {
	if strings.TrimSpace(rawXML) == "" {
		return nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(rawXML); err != nil {
		return nil
	}
	root := doc.Root()
	if root == nil {
		return nil
	}

	var ids []string
	seen := make(map[string]struct{})
	for _, el := range refElements(root) {
		id := firstText(el, "id")
		if id == "" {
			id = strings.TrimSpace(el.SelectAttrValue("id", ""))
		}
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// refElements finds every element whose local tag names a publication,
// excluding the root: a bulk export wraps its refs in a container.
func refElements(root *etree.Element) []*etree.Element {
	var refs []*etree.Element
	var walk func(*etree.Element)
	walk = func(el *etree.Element) {
		for _, child := range el.ChildElements() {
			if strings.Contains(strings.ToLower(child.Tag), publicationTag) {
				refs = append(refs, child)
				continue
			}
			walk(child)
		}
	}
	walk(root)
	return refs
}
