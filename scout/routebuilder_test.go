package scout

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutrun/routescout/config"
	"github.com/scoutrun/routescout/gmaps"
	"github.com/scoutrun/routescout/trailapi"
)

func TestPlanRouteFallsBackToMapbox(t *testing.T) {
	mapsServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/directions/json":
			fmt.Fprint(w, `{"status": "ZERO_RESULTS", "routes": []}`)
		case "/geocode/json":
			fmt.Fprint(w, `{
				"status": "OK",
				"results": [{
					"formatted_address": "Crissy Field, San Francisco, CA, USA",
					"place_id": "crissy",
					"geometry": {"location": {"lat": 37.8039, "lng": -122.4640}}
				}]
			}`)
		default:
			t.Errorf("unexpected maps path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(mapsServer.Close)

	mapboxServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code": "Ok", "routes": [
			{"distance": 4200, "duration": 3000, "geometry": "abc"}
		]}`)
	}))
	t.Cleanup(mapboxServer.Close)

	maps, err := gmaps.New("test", gmaps.WithBaseURL(mapsServer.URL), gmaps.WithHTTPClient(mapsServer.Client()))
	require.NoError(t, err)
	mapbox, err := trailapi.NewMapbox("tok",
		trailapi.WithMapboxBaseURL(mapboxServer.URL),
		trailapi.WithMapboxHTTPClient(mapboxServer.Client()),
	)
	require.NoError(t, err)

	s, err := New(config.Settings{GoogleMapsAPIKey: "test"},
		WithMapsClient(maps), WithMapboxClient(mapbox))
	require.NoError(t, err)

	result := s.planRoute("Crissy Field", "Baker Beach")
	require.Equal(t, statusSuccess, result.Status, result.ErrorMessage)
	require.Len(t, result.Routes, 1)

	route := result.Routes[0]
	assert.Equal(t, "mapbox", route.Source)
	assert.InDelta(t, 4.2, route.DistanceKm, 0.001)
	assert.InDelta(t, 50.0, route.DurationMinutes, 0.001)
	assert.Equal(t, "Crissy Field, San Francisco, CA, USA", route.StartAddress)
	// The share link is built from the geocoded coordinates.
	assert.Contains(t, route.MapsURL, "37.803900")
	assert.Contains(t, route.MapsURL, "travelmode=walking")
}

func TestEstimateTime(t *testing.T) {
	s := &Scout{}

	result := s.estimateTime(10, "easy")
	require.Equal(t, statusSuccess, result.Status)
	assert.Equal(t, "6:30 min/km", result.PacePerKm)
	assert.Equal(t, "1:05:00", result.EstimatedTime)

	result = s.estimateTime(5, "fast")
	require.Equal(t, statusSuccess, result.Status)
	assert.Equal(t, "4:30 min/km", result.PacePerKm)
	assert.Equal(t, "0:22:30", result.EstimatedTime)
}

func TestEstimateTimeRejectsUnknownPace(t *testing.T) {
	s := &Scout{}

	result := s.estimateTime(10, "tempo")
	assert.Equal(t, statusError, result.Status)
	assert.Contains(t, result.ErrorMessage, "tempo")
}

func TestEstimateTimeRejectsNonPositiveDistance(t *testing.T) {
	s := &Scout{}

	result := s.estimateTime(0, "easy")
	assert.Equal(t, statusError, result.Status)
}
