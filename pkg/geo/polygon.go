// Package geo holds the GeoJSON Polygon shape stored on claims.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Position is a GeoJSON [lng, lat] pair.
type Position [2]float64

type Polygon struct {
	Type        string       `json:"type"`
	Coordinates [][]Position `json:"coordinates"`
}

var (
	ErrNotPolygon = errors.New("geometry is not a Polygon")
	ErrShortRing  = errors.New("polygon ring needs at least 4 positions")
	ErrBadCoord   = errors.New("polygon coordinate out of range")
)

// DefaultCenter is used when an import row has no usable centre point.
var DefaultCenter = Position{78.9629, 22.5937}

const (
	sqMetersPerAcre = 4046.86
	metersPerDegree = 111320.0
	defaultAcres    = 0.1
	vertices        = 5
)

// Parse accepts a GeoJSON Polygon geometry, a Feature wrapping one, or a bare
// coordinates array. Unclosed rings are closed; the result is validated.
func Parse(raw string) (*Polygon, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty geometry")
	}
	var p Polygon
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &p.Coordinates); err != nil {
			return nil, fmt.Errorf("parse coordinates: %w", err)
		}
		p.Type = "Polygon"
	} else {
		var envelope struct {
			Type     string          `json:"type"`
			Geometry json.RawMessage `json:"geometry"`
		}
		if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
			return nil, fmt.Errorf("parse geometry: %w", err)
		}
		if envelope.Type == "Feature" {
			if len(envelope.Geometry) == 0 {
				return nil, ErrNotPolygon
			}
			return Parse(string(envelope.Geometry))
		}
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("parse geometry: %w", err)
		}
	}
	if p.Type != "Polygon" {
		return nil, ErrNotPolygon
	}
	p.Close()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Close appends the first position to any ring whose ends differ.
func (p *Polygon) Close() {
	for i, ring := range p.Coordinates {
		if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
			p.Coordinates[i] = append(ring, ring[0])
		}
	}
}

func (p *Polygon) Validate() error {
	if p.Type != "Polygon" {
		return ErrNotPolygon
	}
	if len(p.Coordinates) == 0 {
		return ErrShortRing
	}
	for _, ring := range p.Coordinates {
		if len(ring) < 4 {
			return ErrShortRing
		}
		if ring[0] != ring[len(ring)-1] {
			return errors.New("polygon ring is not closed")
		}
		for _, pos := range ring {
			if !validLngLat(pos[0], pos[1]) {
				return ErrBadCoord
			}
		}
	}
	return nil
}

// Closed reports whether every ring starts and ends on the same position.
func (p *Polygon) Closed() bool {
	for _, ring := range p.Coordinates {
		if len(ring) == 0 || ring[0] != ring[len(ring)-1] {
			return false
		}
	}
	return len(p.Coordinates) > 0
}

func (p *Polygon) JSON() []byte {
	b, _ := json.Marshal(p)
	return b
}

// RadiusDegrees converts an area in acres to the drawing radius used for
// synthesised parcels: sqrt(m²) in degrees, halved twice.
func RadiusDegrees(acres float64) float64 {
	return math.Sqrt(acres*sqMetersPerAcre) / metersPerDegree / 2 / 2
}

// Pentagon builds a closed five-vertex ring around (lat, lng). jitter is
// called once per vertex and must return values in [0,1); each radius is
// scaled by 0.75 + 0.5*jitter(). An invalid or zero centre falls back to
// DefaultCenter with a 0.1 acre footprint. Vertices are clamped to valid
// coordinates, so parcels near a pole or the antimeridian stay parseable.
func Pentagon(lat, lng, acres float64, jitter func() float64) *Polygon {
	if !validLngLat(lng, lat) || (lat == 0 && lng == 0) {
		lng, lat = DefaultCenter[0], DefaultCenter[1]
		acres = defaultAcres
	}
	if acres <= 0 || math.IsNaN(acres) || math.IsInf(acres, 0) {
		acres = defaultAcres
	}
	r := RadiusDegrees(acres)
	ring := make([]Position, 0, vertices+1)
	for i := 0; i < vertices; i++ {
		angle := 2 * math.Pi * float64(i) / vertices
		k := r * (0.75 + 0.5*jitter())
		ring = append(ring, Position{
			clamp(lng+k*math.Cos(angle), -180, 180),
			clamp(lat+k*math.Sin(angle), -90, 90),
		})
	}
	ring = append(ring, ring[0])
	return &Polygon{Type: "Polygon", Coordinates: [][]Position{ring}}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func validLngLat(lng, lat float64) bool {
	if math.IsNaN(lng) || math.IsNaN(lat) || math.IsInf(lng, 0) || math.IsInf(lat, 0) {
		return false
	}
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}
