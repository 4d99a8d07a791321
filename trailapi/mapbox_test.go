package trailapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutrun/routescout/gmaps"
)

func TestWalkingRoutes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/directions/v5/mapbox/walking/"))
		assert.Equal(t, "tok", r.URL.Query().Get("access_token"))
		assert.Equal(t, "polyline", r.URL.Query().Get("geometries"))

		fmt.Fprint(w, `{
			"code": "Ok",
			"routes": [
				{"distance": 4200.5, "duration": 3300.0, "geometry": "poly1"},
				{"distance": 4700.0, "duration": 3600.0, "geometry": "poly2"}
			]
		}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewMapbox("tok", WithMapboxBaseURL(server.URL), WithMapboxHTTPClient(server.Client()))
	require.NoError(t, err)

	routes, err := client.WalkingRoutes(context.Background(), []gmaps.LatLng{
		{Lat: 37.77, Lng: -122.47},
		{Lat: 37.79, Lng: -122.51},
	})
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.InDelta(t, 4200.5, routes[0].DistanceMeters, 0.001)
	assert.Equal(t, "poly1", routes[0].Geometry)
}

func TestWalkingRoutesNotOk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code": "NoRoute", "routes": []}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewMapbox("tok", WithMapboxBaseURL(server.URL), WithMapboxHTTPClient(server.Client()))
	require.NoError(t, err)

	_, err = client.WalkingRoutes(context.Background(), []gmaps.LatLng{
		{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoRoute")
}

func TestWalkingRoutesTooFewPoints(t *testing.T) {
	client, err := NewMapbox("tok")
	require.NoError(t, err)

	_, err = client.WalkingRoutes(context.Background(), []gmaps.LatLng{{Lat: 1, Lng: 2}})
	require.Error(t, err)
}
