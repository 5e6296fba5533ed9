package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseZone(t *testing.T) {
	testCases := []struct {
		name        string
		preferences string
		expected    string
	}{
		{name: "Empty", preferences: "", expected: ""},
		{name: "Spanish terrace", preferences: "Mesa en la terraza por favor", expected: ZoneTerrace},
		{name: "English terrace", preferences: "somewhere OUTSIDE", expected: ZoneTerrace},
		{name: "Salon with accent", preferences: "en el salón", expected: ZoneIndoor},
		{name: "Salon without accent", preferences: "SALON", expected: ZoneIndoor},
		{name: "Interior", preferences: "interior, lejos de la puerta", expected: ZoneIndoor},
		{name: "Terrace wins", preferences: "terraza, o salón si llueve", expected: ZoneTerrace},
		{name: "No zone", preferences: "trona para bebé", expected: ""},
		{name: "Substring is not a word", preferences: "saloncito", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseZone(tc.preferences))
		})
	}
}

func TestNormalizeZone(t *testing.T) {
	assert.Equal(t, ZoneIndoor, NormalizeZone(" Indoor "))
	assert.Equal(t, ZoneTerrace, NormalizeZone("terraza"))
	assert.Equal(t, "", NormalizeZone(""))
	assert.Equal(t, "", NormalizeZone("rooftop"))
}

func TestNormalizePhone(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  string
		expectErr bool
	}{
		{name: "Plain digits", raw: "34600111222", expected: "34600111222"},
		{name: "Formatted", raw: "+34 600-111 222", expected: "34600111222"},
		{name: "Parentheses", raw: "(600) 111.222", expected: "600111222"},
		{name: "Too short", raw: "12345", expectErr: true},
		{name: "Too long", raw: "1234567890123456", expectErr: true},
		{name: "Letters", raw: "600ABC222", expectErr: true},
		{name: "Empty", raw: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizePhone(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
