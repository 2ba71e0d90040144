package registry

import "nordkyc/internal/domain"

// DefaultClients returns the bundled static registries: CPR for Denmark, SPAR
// for Sweden, the Norwegian folkeregister, and the Finnish population
// registry.
func DefaultClients() Clients {
	return Clients{
		domain.CountryDK: NewStaticClient(danishRecords),
		domain.CountrySE: NewStaticClient(swedishRecords),
		domain.CountryNO: NewStaticClient(norwegianRecords),
		domain.CountryFI: NewStaticClient(finnishRecords),
	}
}

var danishRecords = []domain.RegistryRecord{
	{
		NationalID:    "123456-7890",
		FirstName:     "John",
		LastName:      "Doe",
		DateOfBirth:   "1985-04-12",
		Gender:        "male",
		Address:       "POC Street 1, 2100 Copenhagen",
		MaritalStatus: "married",
		Citizenship:   []string{"Denmark"},
	},
	{
		NationalID:    "160778-1234",
		FirstName:     "Maria",
		LastName:      "Larsen",
		DateOfBirth:   "1978-07-16",
		Gender:        "female",
		Address:       "Hovedgaden 10, 8000 Aarhus",
		MaritalStatus: "single",
		Citizenship:   []string{"Denmark"},
	},
}

var swedishRecords = []domain.RegistryRecord{
	{
		NationalID:    "19800101-1230",
		FirstName:     "Anna",
		LastName:      "Svensson",
		DateOfBirth:   "1980-01-01",
		Gender:        "female",
		Address:       "Storgatan 1, 111 22 Stockholm",
		MaritalStatus: "married",
		Citizenship:   []string{"Sweden"},
	},
	{
		NationalID:    "19950715-8899",
		FirstName:     "Erik",
		LastName:      "Johansson",
		DateOfBirth:   "1995-07-15",
		Gender:        "male",
		Address:       "Västra Hamngatan 5, 411 17 Göteborg",
		MaritalStatus: "single",
		Citizenship:   []string{"Sweden"},
	},
	{
		NationalID:    "860714-1556",
		FirstName:     "Juan Pablo Rafael",
		LastName:      "Zúñiga Hidalgo",
		DateOfBirth:   "1986-07-14",
		Gender:        "male",
		Address:       "Molnvadersgatan 8",
		MaritalStatus: "single",
		Citizenship:   []string{"Sweden"},
	},
}

var norwegianRecords = []domain.RegistryRecord{
	{
		NationalID:    "47010112345",
		FirstName:     "Ola",
		LastName:      "Nordmann",
		DateOfBirth:   "2001-01-01",
		Gender:        "male",
		Address:       "Karl Johans gate 1, 0154 Oslo",
		MaritalStatus: "single",
		Citizenship:   []string{"Norway"},
	},
	{
		NationalID:    "47020254321",
		FirstName:     "Kari",
		LastName:      "Nordmann",
		DateOfBirth:   "2002-02-02",
		Gender:        "female",
		Address:       "Bygdøy allé 20, 0262 Oslo",
		MaritalStatus: "married",
		Citizenship:   []string{"Norway"},
	},
}

var finnishRecords = []domain.RegistryRecord{
	{
		NationalID:    "FI-120394-123X",
		FirstName:     "Matti",
		LastName:      "Korhonen",
		DateOfBirth:   "1994-03-12",
		Gender:        "male",
		Address:       "Mannerheimintie 10, 00100 Helsinki",
		MaritalStatus: "married",
		Citizenship:   []string{"Finland"},
	},
	{
		NationalID:    "FI-010180-999Y",
		FirstName:     "Liisa",
		LastName:      "Virtanen",
		DateOfBirth:   "1980-01-01",
		Gender:        "female",
		Address:       "Hämeenkatu 5, 33100 Tampere",
		MaritalStatus: "single",
		Citizenship:   []string{"Finland"},
	},
}
