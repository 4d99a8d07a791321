package gmaps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteURL(t *testing.T) {
	u := RouteURL("Stow Lake", "Cliff House")
	assert.Contains(t, u, "https://www.google.com/maps/dir/?")
	assert.Contains(t, u, "api=1")
	assert.Contains(t, u, "travelmode=walking")
	assert.Contains(t, u, "origin=Stow+Lake")
	assert.Contains(t, u, "destination=Cliff+House")
	assert.NotContains(t, u, "waypoints")
}

func TestRouteURLWithWaypoints(t *testing.T) {
	u := RouteURL("A", "C", "B1", "B2")
	assert.Contains(t, u, "waypoints=B1%7CB2")
}

func TestRouteURLFromPath(t *testing.T) {
	path := []LatLng{
		{Lat: 37.77, Lng: -122.47},
		{Lat: 37.78, Lng: -122.48},
		{Lat: 37.79, Lng: -122.49},
	}

	u, err := RouteURLFromPath(path)
	require.NoError(t, err)
	assert.Contains(t, u, "travelmode=walking")
	assert.Contains(t, u, "waypoints=")

	_, err = RouteURLFromPath(nil)
	require.Error(t, err)
	_, err = RouteURLFromPath(path[:1])
	require.Error(t, err)
}

func TestMarkerURL(t *testing.T) {
	u := MarkerURL(LatLng{Lat: 37.7694, Lng: -122.4862})
	assert.Contains(t, u, "https://www.google.com/maps/search/?api=1&query=")
	assert.Contains(t, u, "37.76")
	assert.Contains(t, u, "-122.48")
}
