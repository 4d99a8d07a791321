package gmaps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New("test-key", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return client
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
}

func TestGeocode(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "golden gate park", r.URL.Query().Get("address"))

		fmt.Fprint(w, `{
			"status": "OK",
			"results": [{
				"formatted_address": "Golden Gate Park, San Francisco, CA, USA",
				"place_id": "ChIJY_dFYHKHhYAR",
				"geometry": {"location": {"lat": 37.7694, "lng": -122.4862}}
			}]
		}`)
	})

	result, err := client.Geocode(context.Background(), "golden gate park")
	require.NoError(t, err)
	assert.Equal(t, "Golden Gate Park, San Francisco, CA, USA", result.FormattedAddress)
	assert.InDelta(t, 37.7694, result.Location.Lat, 0.0001)
	assert.InDelta(t, -122.4862, result.Location.Lng, 0.0001)
}

func TestGeocodeZeroResults(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "ZERO_RESULTS", "results": []}`)
	})

	_, err := client.Geocode(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestGeocodeDeniedStatus(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "REQUEST_DENIED", "error_message": "bad key"}`)
	})

	_, err := client.Geocode(context.Background(), "anywhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
	assert.Contains(t, err.Error(), "bad key")
}

func TestNearbySearchDefaultsRadius(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/place/nearbysearch/json", r.URL.Path)
		assert.Equal(t, "2000", r.URL.Query().Get("radius"))
		assert.Equal(t, "cafe", r.URL.Query().Get("type"))

		fmt.Fprint(w, `{
			"status": "OK",
			"results": [{
				"name": "Trailhead Cafe",
				"vicinity": "123 Park Ave",
				"place_id": "abc",
				"rating": 4.5,
				"user_ratings_total": 120,
				"geometry": {"location": {"lat": 37.77, "lng": -122.48}},
				"opening_hours": {"open_now": true}
			}]
		}`)
	})

	places, err := client.NearbySearch(context.Background(), NearbyQuery{
		Location: LatLng{Lat: 37.77, Lng: -122.48},
		Type:     "cafe",
	})
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "Trailhead Cafe", places[0].Name)
	assert.InDelta(t, 4.5, places[0].Rating, 0.001)
	require.NotNil(t, places[0].OpenNow)
	assert.True(t, *places[0].OpenNow)
}

func TestWalkingDirections(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/directions/json", r.URL.Path)
		assert.Equal(t, "walking", r.URL.Query().Get("mode"))
		assert.Equal(t, "highways", r.URL.Query().Get("avoid"))
		assert.Equal(t, "true", r.URL.Query().Get("alternatives"))

		fmt.Fprint(w, `{
			"status": "OK",
			"routes": [{
				"summary": "JFK Dr",
				"legs": [
					{
						"distance": {"value": 2500},
						"duration": {"value": 1800},
						"start_address": "Stow Lake",
						"end_address": "Ocean Beach",
						"start_location": {"lat": 37.77, "lng": -122.47},
						"end_location": {"lat": 37.76, "lng": -122.51}
					},
					{
						"distance": {"value": 1500},
						"duration": {"value": 1100},
						"start_address": "Ocean Beach",
						"end_address": "Cliff House",
						"start_location": {"lat": 37.76, "lng": -122.51},
						"end_location": {"lat": 37.78, "lng": -122.51}
					}
				],
				"overview_polyline": {"points": "abc123"},
				"warnings": ["use caution"]
			}]
		}`)
	})

	routes, err := client.WalkingDirections(context.Background(), DirectionsQuery{
		Origin:      "Stow Lake",
		Destination: "Cliff House",
	})
	require.NoError(t, err)
	require.Len(t, routes, 1)

	route := routes[0]
	assert.Equal(t, 4000, route.DistanceMeters)
	assert.Equal(t, 2900, route.DurationSeconds)
	assert.InDelta(t, 4.0, route.DistanceKm(), 0.001)
	assert.Equal(t, "Stow Lake", route.StartAddress)
	assert.Equal(t, "Cliff House", route.EndAddress)
	assert.Equal(t, "abc123", route.Polyline)
}

func TestElevationAlongPath(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/elevation/json", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("samples"))
		assert.Contains(t, r.URL.Query().Get("path"), "|")

		fmt.Fprint(w, `{
			"status": "OK",
			"results": [
				{"elevation": 10.0, "location": {"lat": 37.77, "lng": -122.47}, "resolution": 9.5},
				{"elevation": 45.5, "location": {"lat": 37.78, "lng": -122.48}, "resolution": 9.5},
				{"elevation": 30.0, "location": {"lat": 37.79, "lng": -122.49}, "resolution": 9.5}
			]
		}`)
	})

	points, err := client.ElevationAlongPath(context.Background(), []LatLng{
		{Lat: 37.77, Lng: -122.47},
		{Lat: 37.79, Lng: -122.49},
	}, 0)
	require.NoError(t, err)
	require.Len(t, points, 3)

	gain, loss := GainLoss(points)
	assert.InDelta(t, 35.5, gain, 0.001)
	assert.InDelta(t, 15.5, loss, 0.001)
}

func TestElevationAlongPathTooFewPoints(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.ElevationAlongPath(context.Background(), []LatLng{{Lat: 1, Lng: 2}}, 0)
	require.Error(t, err)
}
