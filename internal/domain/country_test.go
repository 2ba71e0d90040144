package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCountry(t *testing.T) {
	tests := []struct {
		in   string
		want CountryCode
	}{
		{"dk", CountryDK},
		{"Danmark", CountryDK},
		{"DENMARK", CountryDK},
		{"se", CountrySE},
		{"Sverige", CountrySE},
		{"SWEDEN", CountrySE},
		{"no", CountryNO},
		{"Norge", CountryNO},
		{"fi", CountryFI},
		{"Suomi", CountryFI},
		{"Finland", CountryFI},
		// Total mapping: anything unrecognized lands on DK.
		{"", CountryDK},
		{"atlantis", CountryDK},
		{"123", CountryDK},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCountry(tt.in))
		})
	}
}

func TestNormalizeCountryIsDeterministic(t *testing.T) {
	for _, in := range []string{"dk", "Danmark", "DENMARK", "nonsense"} {
		first := NormalizeCountry(in)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, NormalizeCountry(in))
		}
	}
}

func TestCountryFromSource(t *testing.T) {
	assert.Equal(t, CountrySE, CountryFromSource("sweden"))
	assert.Equal(t, CountryNO, CountryFromSource("norway"))
	assert.Equal(t, CountryFI, CountryFromSource("finland"))
	assert.Equal(t, CountryDK, CountryFromSource("denmark"))
	assert.Equal(t, CountryDK, CountryFromSource("unknown"))
}

func TestRegistryName(t *testing.T) {
	assert.Equal(t, "denmark", CountryDK.RegistryName())
	assert.Equal(t, "sweden", CountrySE.RegistryName())
	assert.Equal(t, "norway", CountryNO.RegistryName())
	assert.Equal(t, "finland", CountryFI.RegistryName())
}

func TestIdentityClaimLast4(t *testing.T) {
	assert.Equal(t, "1230", IdentityClaim{NationalID: "19800101-1230"}.Last4())
	assert.Equal(t, "123", IdentityClaim{NationalID: "123"}.Last4())
	assert.Equal(t, "", IdentityClaim{}.Last4())
}
