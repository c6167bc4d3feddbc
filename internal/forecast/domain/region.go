package domain

// Region is the closed set of geographic regions a forecast row belongs to.
// Values are case-sensitive.
type Region string

const (
	RegionNorth Region = "North"
	RegionSouth Region = "South"
	RegionEast  Region = "East"
	RegionWest  Region = "West"
)

// Regions returns all known regions in a stable order.
func Regions() []Region {
	return []Region{RegionNorth, RegionSouth, RegionEast, RegionWest}
}

// Valid reports whether the value is one of the known regions.
func (r Region) Valid() bool {
	switch r {
	case RegionNorth, RegionSouth, RegionEast, RegionWest:
		return true
	default:
		return false
	}
}

func (r Region) String() string { return string(r) }
