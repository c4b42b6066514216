// Package geo derives deterministic identifiers from coordinates. Geohash
// prefix truncation is the one trick that replaces a matchmaking/lobby
// service: nearby points share prefixes, so independent clients converge on
// the same room or region id without coordination.
package geo

import (
	"fmt"
	"math"

	"github.com/mmcloughlin/geohash"

	"nearmeet-server/internal/config"
	"nearmeet-server/internal/models"
)

// FullPrecision is the geohash length stored alongside coordinates.
const FullPrecision = 10

// RoomMeta is the per-kind tuning for geo rooms: larger cells for parks,
// smaller for homes. Not user-configurable.
type RoomMeta struct {
	Label     string
	Precision int
	RadiusM   int
}

var roomMeta = map[models.RoomKind]RoomMeta{
	models.RoomWork: {Label: "Work", Precision: 7, RadiusM: 250},
	models.RoomBar:  {Label: "Bar", Precision: 7, RadiusM: 350},
	models.RoomCafe: {Label: "Cafe", Precision: 7, RadiusM: 250},
	models.RoomGym:  {Label: "Gym", Precision: 7, RadiusM: 300},
	models.RoomPark: {Label: "Park", Precision: 6, RadiusM: 900},
	models.RoomHome: {Label: "Home", Precision: 8, RadiusM: 80},
}

// MetaFor returns the tuning for a room kind and whether the kind is known.
func MetaFor(kind models.RoomKind) (RoomMeta, bool) {
	m, ok := roomMeta[kind]
	return m, ok
}

// ValidCoords reports whether lat/lng form a usable coordinate pair.
func ValidCoords(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Encode returns the full-precision geohash of a coordinate.
func Encode(lat, lng float64) string {
	return geohash.EncodeWithPrecision(lat, lng, FullPrecision)
}

// RoomID derives the deterministic room id for a kind at a location:
// the kind joined with the geohash truncated to the kind's precision.
func RoomID(kind models.RoomKind, lat, lng float64) string {
	meta := roomMeta[kind]
	return fmt.Sprintf("%s_%s", kind, geohash.EncodeWithPrecision(lat, lng, uint(meta.Precision)))
}

// Region buckets a coordinate into the coarse cell used to scope now-posts.
func Region(lat, lng float64) string {
	return geohash.EncodeWithPrecision(lat, lng, uint(config.RegionPrecision))
}

// DistanceBonus is the proximity component of candidate scoring:
// max(0, 5 - d*100) where d is plain Euclidean distance over raw lat/lng
// degrees. Not geodesic; fine at city scale where the bonus matters.
func DistanceBonus(lat1, lng1, lat2, lng2 float64) float64 {
	d := math.Hypot(lat1-lat2, lng1-lng2)
	if bonus := 5 - d*100; bonus > 0 {
		return bonus
	}
	return 0
}
