// Package geo holds the named-zone table and distance helpers used by discovery.
package geo

import "math"

const earthRadiusKM = 6371.0

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Addis Ababa sub-cities with representative coordinates.
var zones = map[string]Coordinates{
	"Bole":       {8.9806, 38.7990},
	"Kazanchis":  {9.0227, 38.7469},
	"Piassa":     {9.0300, 38.7500},
	"Megenagna":  {9.0400, 38.7800},
	"Saris":      {9.0500, 38.8100},
	"Kirkos":     {9.0100, 38.7600},
	"Arada":      {9.0300, 38.7400},
	"Yeka":       {9.0600, 38.8200},
	"Lideta":     {9.0200, 38.7300},
	"Nifas Silk": {9.0700, 38.7700},
	"Gullele":    {9.0800, 38.7900},
}

// zoneOrder keeps the keyboard layout stable.
var zoneOrder = []string{
	"Bole", "Kazanchis", "Piassa", "Megenagna", "Saris", "Kirkos",
	"Arada", "Yeka", "Lideta", "Nifas Silk", "Gullele",
}

// Zones returns zone names in display order.
func Zones() []string {
	out := make([]string, len(zoneOrder))
	copy(out, zoneOrder)
	return out
}

// ZoneCoordinates resolves a zone name. ok is false for unknown zones.
func ZoneCoordinates(name string) (Coordinates, bool) {
	c, ok := zones[name]
	return c, ok
}

// IsZone reports whether name is in the fixed table.
func IsZone(name string) bool {
	_, ok := zones[name]
	return ok
}

// Valid reports whether c is a plausible point on earth.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180 &&
		!math.IsNaN(c.Lat) && !math.IsNaN(c.Lon)
}

// DistanceKM is the haversine great-circle distance between a and b.
func DistanceKM(a, b Coordinates) float64 {
	lat1, lon1 := radians(a.Lat), radians(a.Lon)
	lat2, lon2 := radians(b.Lat), radians(b.Lon)
	dlat := lat2 - lat1
	dlon := lon2 - lon1
	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// Box is a latitude/longitude rectangle. A zero MinLon/MaxLon pair with
// AllLon set means every longitude.
type Box struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
	AllLon         bool
}

// BoundingBox returns a rectangle that contains every point within
// radiusKM of c. It over-covers the circle; callers still check DistanceKM.
func BoundingBox(c Coordinates, radiusKM float64) Box {
	dLat := radiusKM / earthRadiusKM * 180 / math.Pi
	b := Box{
		MinLat: math.Max(c.Lat-dLat, -90),
		MaxLat: math.Min(c.Lat+dLat, 90),
	}
	cos := math.Cos(radians(c.Lat))
	if b.MinLat <= -90 || b.MaxLat >= 90 || cos < 1e-6 {
		b.AllLon = true
		return b
	}
	dLon := dLat / cos
	b.MinLon, b.MaxLon = c.Lon-dLon, c.Lon+dLon
	if b.MinLon < -180 || b.MaxLon > 180 {
		// wraps the antimeridian; keep the latitude band only
		b.AllLon, b.MinLon, b.MaxLon = true, 0, 0
	}
	return b
}
