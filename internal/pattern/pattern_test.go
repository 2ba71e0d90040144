package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nordkyc/internal/domain"
)

func TestMatchesSE(t *testing.T) {
	valid := []string{
		"19800101-1230",
		"198001011230",
		"800101-1230",
		"8001011230",
		"19950715-8899",
	}
	for _, id := range valid {
		t.Run(id, func(t *testing.T) {
			assert.True(t, Matches(domain.CountrySE, id))
		})
	}

	invalid := []string{
		"1980010-1230",   // 7 leading digits
		"19800101-123",   // short suffix
		"19800101--1230", // double hyphen
		"abc",
		"",
	}
	for _, id := range invalid {
		t.Run("invalid_"+id, func(t *testing.T) {
			assert.False(t, Matches(domain.CountrySE, id))
		})
	}
}

func TestMatchesDK(t *testing.T) {
	assert.True(t, Matches(domain.CountryDK, "123456-7890"))
	assert.True(t, Matches(domain.CountryDK, "1234567890"))
	// Hyphen in the wrong position breaks the 6+4 shape.
	assert.False(t, Matches(domain.CountryDK, "12345-67890"))
	assert.False(t, Matches(domain.CountryDK, "12345678901"))
}

func TestMatchesNO(t *testing.T) {
	assert.True(t, Matches(domain.CountryNO, "47010112345"))
	assert.False(t, Matches(domain.CountryNO, "4701011234"))   // 10 digits
	assert.False(t, Matches(domain.CountryNO, "470101-12345")) // no separator allowed
}

func TestMatchesFI(t *testing.T) {
	assert.True(t, Matches(domain.CountryFI, "120394-123X"))
	assert.True(t, Matches(domain.CountryFI, "120394+123X"))
	assert.True(t, Matches(domain.CountryFI, "120394A123X"))
	assert.True(t, Matches(domain.CountryFI, "120394a123x")) // separator is case-insensitive
	assert.False(t, Matches(domain.CountryFI, "120394*123X"))
	assert.False(t, Matches(domain.CountryFI, "120394-123"))
}

func TestUnknownCountryMatchesNothing(t *testing.T) {
	assert.False(t, Matches(domain.CountryCode("XX"), "123456-7890"))
	assert.Equal(t, "", Find(domain.CountryCode("XX"), "123456-7890"))
}

func TestFind(t *testing.T) {
	t.Run("embedded candidate", func(t *testing.T) {
		got := Find(domain.CountrySE, "random text 19800101-1230 noise")
		assert.Equal(t, "19800101-1230", got)
	})

	t.Run("upper-cases the match", func(t *testing.T) {
		got := Find(domain.CountryFI, "hetu: 120394a123x")
		assert.Equal(t, "120394A123X", got)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Equal(t, "", Find(domain.CountryNO, "nothing here"))
	})

	t.Run("first match wins", func(t *testing.T) {
		got := Find(domain.CountryDK, "123456-7890 and 160778-1234")
		assert.Equal(t, "123456-7890", got)
	})
}
