package seed

import (
	"github.com/shopspring/decimal"
)

// Base valuation rates per area unit. They are a placeholder for a real
// valuation model: the capital is priced higher than everywhere else.
const (
	CapitalBaseRate  = 50000
	RegionalBaseRate = 20000
)

// Location is one gazetteer entry. Every parcel drawn at a location is
// centred on its reference coordinate.
type Location struct {
	District  string
	Sector    string
	Cell      string
	Village   string
	Amenities []string
	Latitude  float64
	Longitude float64
	Capital   bool
}

// BaseRate returns the valuation rate for the location tier.
func (l Location) BaseRate() decimal.Decimal {
	if l.Capital {
		return decimal.NewFromInt(CapitalBaseRate)
	}
	return decimal.NewFromInt(RegionalBaseRate)
}

// DefaultGazetteer returns the six Rwandan reference locations. The three
// Kigali districts are the capital tier.
func DefaultGazetteer() []Location {
	return []Location{
		{
			District: "Gasabo", Sector: "Kimironko", Cell: "Bibare", Village: "Nyagatovu",
			Latitude: -1.9496, Longitude: 30.1262, Capital: true,
			Amenities: []string{"school", "market", "health_center"},
		},
		{
			District: "Nyarugenge", Sector: "Nyarugenge", Cell: "Kiyovu", Village: "Ubumwe",
			Latitude: -1.9441, Longitude: 30.0619, Capital: true,
			Amenities: []string{"school", "hospital", "bus_terminal"},
		},
		{
			District: "Kicukiro", Sector: "Niboye", Cell: "Nyakabanda", Village: "Isangano",
			Latitude: -1.9706, Longitude: 30.1044, Capital: true,
			Amenities: []string{"school", "market"},
		},
		{
			District: "Musanze", Sector: "Muhoza", Cell: "Mpenge", Village: "Bukane",
			Latitude: -1.4996, Longitude: 29.6344,
			Amenities: []string{"market", "health_center"},
		},
		{
			District: "Huye", Sector: "Ngoma", Cell: "Butare", Village: "Taba",
			Latitude: -2.5967, Longitude: 29.7394,
			Amenities: []string{"university", "market"},
		},
		{
			District: "Rubavu", Sector: "Gisenyi", Cell: "Umuganda", Village: "Bugoyi",
			Latitude: -1.6794, Longitude: 29.2594,
			Amenities: []string{"school"},
		},
	}
}

// EstimateValue prices a parcel as area times the location base rate times
// multiplier, rounded to two decimals. For a fixed tier and multiplier it
// grows strictly with area.
func EstimateValue(area float64, loc Location, multiplier float64) decimal.Decimal {
	return decimal.NewFromFloat(area).
		Mul(loc.BaseRate()).
		Mul(decimal.NewFromFloat(multiplier)).
		Round(2)
}
