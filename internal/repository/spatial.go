package repository

import (
	"math"

	"github.com/golang/geo/s2"

	"github.com/stwalsh4118/landregistry/internal/models"
)

// earthRadiusMeters is the mean earth radius used for angle to distance
// conversion.
const earthRadiusMeters = 6371008.8

// metersPerDegreeLat approximates the length of one degree of latitude.
const metersPerDegreeLat = 111320.0

// pointSearchMargin bounds the candidate query for point containment. A
// parcel whose boundary reaches farther than this from its location is not
// found by FindByPoint.
const pointSearchMargin = 0.01

// boundingBox is a lat/lng rectangle in degrees used to prefilter rows
// before exact s2 checks.
type boundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

func boxAround(lat, lng, latDelta, lngDelta float64) boundingBox {
	return boundingBox{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLng: lng - lngDelta,
		MaxLng: lng + lngDelta,
	}
}

// boxForRadius returns a rectangle enclosing the circle of radiusMeters
// around the point.
func boxForRadius(lat, lng float64, radiusMeters int) boundingBox {
	latDelta := float64(radiusMeters) / metersPerDegreeLat
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	return boxAround(lat, lng, latDelta, latDelta/cosLat)
}

// distanceMeters is the great-circle distance between two points.
func distanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lng1)
	b := s2.LatLngFromDegrees(lat2, lng2)
	return a.Distance(b).Radians() * earthRadiusMeters
}

// loopFromPolygon converts the outer ring of a polygon to an s2 loop. The
// closing vertex is dropped and the loop is inverted if the ring was wound
// clockwise.
func loopFromPolygon(p models.Polygon) *s2.Loop {
	ring := p.OuterRing()
	if len(ring) < 4 {
		return nil
	}

	points := make([]s2.Point, 0, len(ring)-1)
	for _, c := range ring[:len(ring)-1] {
		// GeoJSON order is [lon, lat]
		points = append(points, s2.PointFromLatLng(s2.LatLngFromDegrees(c[1], c[0])))
	}

	loop := s2.LoopFromPoints(points)
	if loop.Area() > 2*math.Pi {
		loop.Invert()
	}
	return loop
}

// polygonContains reports whether the boundary contains the lat/lng point.
func polygonContains(p models.Polygon, lat, lng float64) bool {
	loop := loopFromPolygon(p)
	if loop == nil {
		return false
	}
	return loop.ContainsPoint(s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lng)))
}
