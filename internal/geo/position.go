package geo

import "fmt"

// PositionKind tags which source a Position came from.
type PositionKind string

const (
	KindNone PositionKind = ""
	KindRaw  PositionKind = "raw"
	KindZone PositionKind = "zone"
)

// Position is either raw coordinates from a live share or a named zone.
// A zone is resolved through the table at read time.
type Position struct {
	Kind   PositionKind `json:"kind"`
	Raw    Coordinates  `json:"raw,omitempty"`
	ZoneID string       `json:"zone,omitempty"`
}

// RawPosition builds a position from a live location share.
func RawPosition(lat, lon float64) (Position, error) {
	c := Coordinates{Lat: lat, Lon: lon}
	if !c.Valid() {
		return Position{}, fmt.Errorf("coordinates out of range: %f,%f", lat, lon)
	}
	return Position{Kind: KindRaw, Raw: c}, nil
}

// ZonePosition builds a position from the fixed zone table.
func ZonePosition(name string) (Position, error) {
	if !IsZone(name) {
		return Position{}, fmt.Errorf("unknown zone %q", name)
	}
	return Position{Kind: KindZone, ZoneID: name}, nil
}

// IsSet reports whether the position carries a location at all.
func (p Position) IsSet() bool { return p.Kind == KindRaw || p.Kind == KindZone }

// Coordinates resolves the position to a coordinate pair.
func (p Position) Coordinates() (Coordinates, bool) {
	switch p.Kind {
	case KindRaw:
		return p.Raw, true
	case KindZone:
		return ZoneCoordinates(p.ZoneID)
	default:
		return Coordinates{}, false
	}
}

// Zone returns the zone label, empty for raw positions.
func (p Position) Zone() string {
	if p.Kind == KindZone {
		return p.ZoneID
	}
	return ""
}
