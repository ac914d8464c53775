package shab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPublicationRefs(t *testing.T) {
	export := `<?xml version="1.0"?>
<bulk:export xmlns:bulk="https://shab.ch/shab/SB01-export">
  <publicationRef>
    <id>aaaa-1</id>
  </publicationRef>
  <publicationRef>
    <id>bbbb-2</id>
  </publicationRef>
  <publicationRef>
    <id>aaaa-1</id>
  </publicationRef>
</bulk:export>`

	refs := ExtractPublicationRefs(export)
	assert.Equal(t, []string{"aaaa-1", "bbbb-2"}, refs)
}

func TestExtractPublicationRefsIDAttribute(t *testing.T) {
	export := `<export><publication id="cccc-3"/></export>`
	assert.Equal(t, []string{"cccc-3"}, ExtractPublicationRefs(export))
}

func TestExtractPublicationRefsNone(t *testing.T) {
	assert.Empty(t, ExtractPublicationRefs(""))
	assert.Empty(t, ExtractPublicationRefs("not xml"))
	assert.Empty(t, ExtractPublicationRefs("<export><other/></export>"))
}
