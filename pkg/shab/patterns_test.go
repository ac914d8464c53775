package shab

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractObjectFieldsFrench(t *testing.T) {
	fragment := `<p><b>Feuillet no 1097 du ban de Courtelary</b></p>` +
		`<p>Bâtiment, habitation, Rue de la Gare, 2608 Courtelary</p>` +
		`<p>Valeur vénale : CHF 650'000.00</p>` +
		`<p>Surface totale 182 m<sup>2</sup></p>`

	obj := ExtractObjectFields(fragment)

	assert.Equal(t, fragment, obj.Description)
	assert.Equal(t, "1097", obj.ParcelNumber)

	require.NotNil(t, obj.EstimatedValue)
	assert.True(t, obj.EstimatedValue.Equal(decimal.RequireFromString("650000.00")))

	require.NotNil(t, obj.SurfaceArea)
	assert.True(t, obj.SurfaceArea.Equal(decimal.NewFromInt(182)))

	assert.Equal(t, "Bâtiment habitation", obj.PropertyType)
	assert.Equal(t, "Rue de la Gare, 2608 Courtelary", obj.Address)
	assert.Equal(t, "Courtelary", obj.Municipality)
}

func TestExtractObjectFieldsGerman(t *testing.T) {
	fragment := `Grundstück Nr. 2044, Einzelhaus mit Garten.` + "\n" +
		`Schätzwert: 1'250'000 CHF` + "\n" +
		`Gemeinde: Thun` + "\n" +
		`Fläche 254 m²`

	obj := ExtractObjectFields(fragment)

	assert.Equal(t, "2044", obj.ParcelNumber)

	require.NotNil(t, obj.EstimatedValue)
	assert.True(t, obj.EstimatedValue.Equal(decimal.NewFromInt(1250000)))

	require.NotNil(t, obj.SurfaceArea)
	assert.True(t, obj.SurfaceArea.Equal(decimal.NewFromInt(254)))

	assert.Equal(t, "Einzelhaus", obj.PropertyType)
	assert.Equal(t, "Thun", obj.Municipality)
}

func TestExtractObjectFieldsMarkupBrokenSurface(t *testing.T) {
	// The superscript variant only exists in the raw view; the unit must
	// still be recovered.
	obj := ExtractObjectFields(`Wohnung, 96 m<sup>2</sup>, CHF 480'000`)
	require.NotNil(t, obj.SurfaceArea)
	assert.True(t, obj.SurfaceArea.Equal(decimal.NewFromInt(96)))
	require.NotNil(t, obj.EstimatedValue)
	assert.True(t, obj.EstimatedValue.Equal(decimal.NewFromInt(480000)))
}

func TestExtractObjectFieldsNoMatches(t *testing.T) {
	fragment := "Una descrizione senza campi estraibili."
	obj := ExtractObjectFields(fragment)

	assert.Equal(t, fragment, obj.Description)
	assert.Empty(t, obj.ParcelNumber)
	assert.Nil(t, obj.EstimatedValue)
	assert.Nil(t, obj.SurfaceArea)
	assert.Empty(t, obj.PropertyType)
	assert.Empty(t, obj.Address)
	assert.Empty(t, obj.Municipality)
}

func TestExtractObjectFieldsValueChainOrder(t *testing.T) {
	// The labelled value patterns outrank the generic CHF match.
	obj := ExtractObjectFields(`Mise à prix CHF 1.00, Valeur vénale : CHF 650'000.00`)
	require.NotNil(t, obj.EstimatedValue)
	assert.True(t, obj.EstimatedValue.Equal(decimal.RequireFromString("650000.00")))
}
