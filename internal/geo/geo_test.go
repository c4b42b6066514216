package geo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nearmeet-server/internal/models"
)

func TestRoomIDDeterministic(t *testing.T) {
	a := RoomID(models.RoomBar, 45.8150, 15.9819)
	b := RoomID(models.RoomBar, 45.8150, 15.9819)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "bar_"))

	// Same cell, different kind: distinct rooms.
	c := RoomID(models.RoomCafe, 45.8150, 15.9819)
	assert.NotEqual(t, a, c)
}

func TestRoomIDPrecisionPerKind(t *testing.T) {
	park := RoomID(models.RoomPark, 45.8150, 15.9819)
	home := RoomID(models.RoomHome, 45.8150, 15.9819)

	assert.Len(t, strings.TrimPrefix(park, "park_"), 6)
	assert.Len(t, strings.TrimPrefix(home, "home_"), 8)

	// The shorter cell is a prefix of the longer one at the same point.
	assert.True(t, strings.HasPrefix(
		strings.TrimPrefix(home, "home_"),
		strings.TrimPrefix(park, "park_"),
	))
}

func TestMetaFor(t *testing.T) {
	meta, ok := MetaFor(models.RoomGym)
	require.True(t, ok)
	assert.Equal(t, 7, meta.Precision)
	assert.Equal(t, 300, meta.RadiusM)

	_, ok = MetaFor(models.RoomKind("spaceship"))
	assert.False(t, ok)
}

func TestRegionBucketsNearbyPoints(t *testing.T) {
	assert.Equal(t, Region(45.8150, 15.9819), Region(45.8160, 15.9830))
	assert.NotEqual(t, Region(45.8150, 15.9819), Region(59.3293, 18.0686))
	assert.Len(t, Region(45.8150, 15.9819), 3)
}

func TestValidCoords(t *testing.T) {
	assert.True(t, ValidCoords(0, 0))
	assert.True(t, ValidCoords(-90, 180))
	assert.False(t, ValidCoords(90.1, 0))
	assert.False(t, ValidCoords(0, -180.5))
}

func TestEncodeFullPrecision(t *testing.T) {
	h := Encode(45.8150, 15.9819)
	assert.Len(t, h, FullPrecision)
	assert.Equal(t, h, Encode(45.8150, 15.9819))
}

func TestDistanceBonus(t *testing.T) {
	// Same point: full bonus.
	assert.InDelta(t, 5.0, DistanceBonus(45.0, 15.0, 45.0, 15.0), 1e-9)

	// 0.01 degrees away: 5 - 1 = 4.
	assert.InDelta(t, 4.0, DistanceBonus(45.00, 15.0, 45.01, 15.0), 1e-9)

	// Beyond 0.05 degrees the bonus floors at zero.
	assert.Zero(t, DistanceBonus(45.0, 15.0, 45.1, 15.0))
	assert.Zero(t, DistanceBonus(45.0, 15.0, 46.0, 16.0))

	// Symmetric in its arguments.
	assert.Equal(t,
		DistanceBonus(45.00, 15.00, 45.02, 15.01),
		DistanceBonus(45.02, 15.01, 45.00, 15.00))
}

func TestNicknameStable(t *testing.T) {
	a := Nickname("user-123")
	assert.Equal(t, a, Nickname("user-123"))

	parts := strings.Fields(a)
	require.Len(t, parts, 3)
	assert.Contains(t, nicknameColors, parts[0])
	assert.Contains(t, nicknameAnimals, parts[1])
}
