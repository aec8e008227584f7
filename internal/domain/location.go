package domain

// Fallback display names used when reverse geocoding is unavailable.
// The coordinate pair alone keeps the flow usable.
const (
	FallbackPinnedName = "Pinned Location"
	FallbackGPSName    = "Current GPS Location"
)

// Location is a delivery destination. A Location value always carries a
// resolved coordinate pair; an unselected destination is represented as a
// nil *Location.
type Location struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name,omitempty"`
}

func (l Location) Coordinate() Coordinate {
	return Coordinate{Lat: l.Lat, Lng: l.Lng}
}
