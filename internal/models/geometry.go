package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// DefaultSRID is WGS84, the only reference system the registry stores.
const DefaultSRID = 4326

// geometryDataType is the GORM data type shared by every GeoJSON column.
const geometryDataType = "geometry_json"

// Point represents a GeoJSON Point geometry.
// Coordinates are stored in GeoJSON order: [lon, lat].
type Point struct {
	Coordinates [2]float64 // [lon, lat]
	SRID        int
}

// NewPoint builds a Point from latitude and longitude in degrees.
func NewPoint(lat, lng float64) Point {
	return Point{Coordinates: [2]float64{lng, lat}, SRID: DefaultSRID}
}

// Lat returns the latitude component.
func (p Point) Lat() float64 { return p.Coordinates[1] }

// Lng returns the longitude component.
func (p Point) Lng() float64 { return p.Coordinates[0] }

// Scan implements sql.Scanner. Geometry columns hold GeoJSON text, which
// postgres returns as []byte and sqlite as string.
func (p *Point) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	raw, err := geometryBytes(value, "Point")
	if err != nil {
		return err
	}

	var geom struct {
		Type        string     `json:"type"`
		Coordinates [2]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(raw, &geom); err != nil {
		return fmt.Errorf("failed to unmarshal point geometry: %w", err)
	}
	if geom.Type != "Point" {
		return fmt.Errorf("expected Point type, got %s", geom.Type)
	}

	p.Coordinates = geom.Coordinates
	p.SRID = DefaultSRID
	return nil
}

// Value implements driver.Valuer and writes the point as GeoJSON text.
func (p Point) Value() (driver.Value, error) {
	data, err := p.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal point to GeoJSON: %w", err)
	}
	return string(data), nil
}

// MarshalJSON returns the GeoJSON representation of the point.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type        string     `json:"type"`
		Coordinates [2]float64 `json:"coordinates"`
	}{
		Type:        "Point",
		Coordinates: p.Coordinates,
	})
}

// UnmarshalJSON parses a GeoJSON Point.
func (p *Point) UnmarshalJSON(data []byte) error {
	var geom struct {
		Type        string     `json:"type"`
		Coordinates [2]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &geom); err != nil {
		return fmt.Errorf("failed to unmarshal point: %w", err)
	}
	if geom.Type != "" && geom.Type != "Point" {
		return fmt.Errorf("expected Point type, got %s", geom.Type)
	}
	p.Coordinates = geom.Coordinates
	p.SRID = DefaultSRID
	return nil
}

// GormDataType keeps schema parsing from treating Point as an embedded struct.
func (Point) GormDataType() string { return geometryDataType }

// GormDBDataType stores geometry as JSONB on postgres and TEXT elsewhere.
func (Point) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return geometryColumnType(db)
}

// Polygon represents a GeoJSON Polygon geometry.
// It stores coordinates in GeoJSON format: [rings][points][lon,lat]
type Polygon struct {
	Coordinates [][][2]float64
	SRID        int
}

// SquareAround builds a closed square ring whose corners sit offset degrees
// from center on both axes. The first vertex is repeated as the fifth.
func SquareAround(center Point, offset float64) Polygon {
	lng, lat := center.Lng(), center.Lat()
	ring := [][2]float64{
		{lng - offset, lat - offset},
		{lng + offset, lat - offset},
		{lng + offset, lat + offset},
		{lng - offset, lat + offset},
		{lng - offset, lat - offset},
	}
	return Polygon{Coordinates: [][][2]float64{ring}, SRID: DefaultSRID}
}

// OuterRing returns the exterior ring, or nil for an empty polygon.
func (p Polygon) OuterRing() [][2]float64 {
	if len(p.Coordinates) == 0 {
		return nil
	}
	return p.Coordinates[0]
}

// IsClosed reports whether every ring has at least four points and ends
// where it starts.
func (p Polygon) IsClosed() bool {
	if len(p.Coordinates) == 0 {
		return false
	}
	for _, ring := range p.Coordinates {
		if len(ring) < 4 || ring[0] != ring[len(ring)-1] {
			return false
		}
	}
	return true
}

// Scan implements sql.Scanner for reading polygon geometry from the database.
func (p *Polygon) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	raw, err := geometryBytes(value, "Polygon")
	if err != nil {
		return err
	}

	var geom struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(raw, &geom); err != nil {
		return fmt.Errorf("failed to unmarshal polygon geometry: %w", err)
	}
	if geom.Type != "Polygon" {
		return fmt.Errorf("expected Polygon type, got %s", geom.Type)
	}

	p.Coordinates = geom.Coordinates
	p.SRID = DefaultSRID
	return nil
}

// Value implements driver.Valuer for writing polygon geometry to the database.
func (p Polygon) Value() (driver.Value, error) {
	if len(p.Coordinates) == 0 {
		return nil, nil
	}

	data, err := p.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal polygon to GeoJSON: %w", err)
	}
	return string(data), nil
}

// MarshalJSON implements json.Marshaler for API responses.
func (p Polygon) MarshalJSON() ([]byte, error) {
	geom := struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}{
		Type:        "Polygon",
		Coordinates: p.Coordinates,
	}
	return json.Marshal(geom)
}

// UnmarshalJSON implements json.Unmarshaler for parsing GeoJSON input.
func (p *Polygon) UnmarshalJSON(data []byte) error {
	var geom struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}

	if err := json.Unmarshal(data, &geom); err != nil {
		return fmt.Errorf("failed to unmarshal polygon: %w", err)
	}

	if geom.Type != "" && geom.Type != "Polygon" {
		return fmt.Errorf("expected Polygon type, got %s", geom.Type)
	}

	p.Coordinates = geom.Coordinates
	p.SRID = DefaultSRID

	return nil
}

// GormDataType keeps schema parsing from treating Polygon as an embedded struct.
func (Polygon) GormDataType() string { return geometryDataType }

// GormDBDataType stores geometry as JSONB on postgres and TEXT elsewhere.
func (Polygon) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return geometryColumnType(db)
}

func geometryBytes(value interface{}, kind string) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("failed to scan %s: expected []byte or string, got %T", kind, value)
	}
}

func geometryColumnType(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "TEXT"
}
