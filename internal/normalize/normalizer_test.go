package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AirportSentiment/internal/domain"
)

func testAirports() []domain.Airport {
	return []domain.Airport{
		{Ident: "EGLL", ICAOCode: "EGLL", IATACode: "LHR", Name: "London Heathrow Airport", ISOCountry: "GB", Municipality: "London"},
		{Ident: "LIRF", ICAOCode: "LIRF", IATACode: "FCO", Name: "Rome Fiumicino", ISOCountry: "IT", Municipality: "Rome"},
		{Ident: "LXGB", ICAOCode: "LXGB", IATACode: "", Name: "Gibraltar Airport", ISOCountry: "GI", Municipality: "Gibraltar"},
		{Ident: "XX01", ICAOCode: "", IATACode: "", Name: "Private strip"},
	}
}

func TestRegistryICAOToIATA(t *testing.T) {
	t.Parallel()

	mapping := NewRegistry(testAirports()).ICAOToIATA()

	assert.Equal(t, "LHR", mapping["EGLL"])
	assert.Equal(t, "FCO", mapping["LIRF"])
	assert.Equal(t, "LXGB", mapping["LXGB"], "airports without IATA fall back to ICAO")
	assert.NotContains(t, mapping, "XX01")
	assert.Len(t, mapping, 3)
}

func TestRegistryLookup(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(testAirports())

	for _, code := range []string{"LHR", "egll", " EGLL "} {
		ap, ok := reg.Lookup(code)
		require.True(t, ok, code)
		assert.Equal(t, "London Heathrow Airport", ap.Name)
	}

	ap, ok := reg.Lookup("XX01")
	require.True(t, ok)
	assert.Equal(t, "XX01", ap.Code())

	_, ok = reg.Lookup("ZZZ")
	assert.False(t, ok)
}

func TestNormalizerMapsAndPassesThrough(t *testing.T) {
	t.Parallel()

	n := FromRegistry(NewRegistry(testAirports()))
	in := []domain.TextRecord{
		{AirportCode: "EGLL", Source: "Google News", Text: "a"},
		{AirportCode: "LHR", Source: "Reddit", Text: "b"},
		{AirportCode: "LXGB", Source: "Skytrax", Text: "c"},
		{AirportCode: "???", Source: "blog", Text: "d"},
		{AirportCode: "", Text: "e"},
	}

	out := n.Normalize(in)

	require.Len(t, out, len(in))
	assert.Equal(t, "LHR", out[0].AirportCode)
	assert.Equal(t, domain.SourceGoogleNews, out[0].Source)
	assert.Equal(t, "LHR", out[1].AirportCode)
	assert.Equal(t, "LXGB", out[2].AirportCode)
	assert.Equal(t, "???", out[3].AirportCode)
	assert.Equal(t, domain.Source("blog"), out[3].Source)
	assert.Equal(t, "", out[4].AirportCode)

	assert.Equal(t, "EGLL", in[0].AirportCode, "input must not be mutated")
}

func TestNilNormalizerIsIdentity(t *testing.T) {
	t.Parallel()

	var n *Normalizer
	assert.Equal(t, "EGLL", n.Code("EGLL"))
	assert.Equal(t, "EGLL", NewNormalizer(nil).Code("EGLL"))
}
