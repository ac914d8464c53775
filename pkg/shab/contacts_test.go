package shab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveMetadataURL(t *testing.T) {
	testCases := []struct {
		name     string
		pageURL  string
		expected string
	}{
		{
			name:     "xml export url",
			pageURL:  "https://amtsblattportal.ch/api/v1/publications/abc-123/xml",
			expected: "https://amtsblattportal.ch/api/v1/publications/abc-123",
		},
		{
			name:     "detail page url",
			pageURL:  "https://www.shab.ch/publications/detail/abc-123",
			expected: "https://www.shab.ch/api/v1/publications/abc-123",
		},
		{
			name:     "plain publications path",
			pageURL:  "https://example.ch/publications/abc-123",
			expected: "https://www.shab.ch/api/v1/publications/abc-123",
		},
		{
			name:     "unrelated url",
			pageURL:  "https://example.ch/something-else",
			expected: "",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, deriveMetadataURL(tc.pageURL))
		})
	}
}

func TestExtractContactsFromMetadata(t *testing.T) {
	body := `{
		"meta": {
			"registrationOffice": {
				"id": "office-1",
				"displayName": "Betreibungsamt Bern-Mittelland",
				"street": "Poststrasse",
				"streetNumber": "25",
				"swissZipCode": "3071",
				"town": "Ostermundigen"
			}
		}
	}`

	contacts, err := extractContactsFromMetadata(body)
	require.NoError(t, err)
	require.Len(t, contacts, 1)

	contact := contacts[0]
	assert.Equal(t, "Betreibungsamt Bern-Mittelland", contact.Name)
	assert.Equal(t, "Poststrasse 25", contact.Address)
	assert.Equal(t, "3071", contact.PostalCode)
	assert.Equal(t, "Ostermundigen", contact.City)
	assert.Equal(t, "office", contact.ContactType)
	assert.Equal(t, "office-1", contact.OfficeID)
	assert.NotEmpty(t, contact.ID)
}

func TestExtractContactsDiscardsNamelessOffice(t *testing.T) {
	body := `{"meta": {"registrationOffice": {"street": "Poststrasse", "town": "Bern"}}}`

	contacts, err := extractContactsFromMetadata(body)
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestExtractContactsNoOfficeBlock(t *testing.T) {
	contacts, err := extractContactsFromMetadata(`{"meta": {}}`)
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestExtractContactsMalformedJSON(t *testing.T) {
	_, err := extractContactsFromMetadata(`{not json`)
	assert.Error(t, err)
}
