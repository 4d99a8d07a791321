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
	"github.com/scoutrun/routescout/weather"
)

// mapsHandler fakes the maps endpoints the tools hit.
func mapsHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/geocode/json":
			fmt.Fprint(w, `{
				"status": "OK",
				"results": [{
					"formatted_address": "Presidio, San Francisco, CA, USA",
					"place_id": "presidio",
					"geometry": {"location": {"lat": 37.7989, "lng": -122.4662}}
				}]
			}`)
		case "/place/nearbysearch/json":
			fmt.Fprint(w, `{
				"status": "OK",
				"results": [
					{"name": "Crissy Field", "vicinity": "Marina Blvd", "place_id": "p1",
					 "geometry": {"location": {"lat": 37.8039, "lng": -122.4640}}},
					{"name": "Mountain Lake Park", "vicinity": "Lake St", "place_id": "p2",
					 "geometry": {"location": {"lat": 37.7866, "lng": -122.4684}}}
				]
			}`)
		case "/directions/json":
			fmt.Fprint(w, `{
				"status": "OK",
				"routes": [{
					"summary": "Battery to Bluffs",
					"legs": [{
						"distance": {"value": 5000},
						"duration": {"value": 3600},
						"start_address": "Crissy Field",
						"end_address": "Baker Beach",
						"start_location": {"lat": 37.8039, "lng": -122.4640},
						"end_location": {"lat": 37.7936, "lng": -122.4833}
					}],
					"overview_polyline": {"points": "xyz"},
					"warnings": []
				}]
			}`)
		case "/elevation/json":
			fmt.Fprint(w, `{
				"status": "OK",
				"results": [
					{"elevation": 5.0, "location": {"lat": 37.80, "lng": -122.46}, "resolution": 9.5},
					{"elevation": 65.0, "location": {"lat": 37.80, "lng": -122.47}, "resolution": 9.5},
					{"elevation": 40.0, "location": {"lat": 37.79, "lng": -122.48}, "resolution": 9.5}
				]
			}`)
		default:
			t.Errorf("unexpected maps path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}
}

func testScout(t *testing.T, options ...func(*Scout)) *Scout {
	t.Helper()
	server := httptest.NewServer(mapsHandler(t))
	t.Cleanup(server.Close)

	maps, err := gmaps.New("test", gmaps.WithBaseURL(server.URL), gmaps.WithHTTPClient(server.Client()))
	require.NoError(t, err)

	s, err := New(config.Settings{GoogleMapsAPIKey: "test"}, WithMapsClient(maps))
	require.NoError(t, err)
	for _, opt := range options {
		opt(s)
	}
	return s
}

func TestFindTrailheads(t *testing.T) {
	s := testScout(t)

	result := s.findTrailheads("presidio")
	require.Equal(t, statusSuccess, result.Status, result.ErrorMessage)
	assert.Equal(t, "Presidio, San Francisco, CA, USA", result.Area)
	require.Len(t, result.Trailheads, 2)
	assert.Equal(t, "Crissy Field", result.Trailheads[0].Name)
}

func TestFindAmenitiesMapsKnownTypes(t *testing.T) {
	s := testScout(t)

	result := s.findAmenities("presidio", "restroom")
	require.Equal(t, statusSuccess, result.Status, result.ErrorMessage)
	assert.Equal(t, "restroom", result.Amenity)
	assert.NotEmpty(t, result.Amenities)
}

func TestExploreSegmentsWithoutStrava(t *testing.T) {
	s := testScout(t)

	result := s.exploreSegments("presidio", 5)
	assert.Equal(t, statusError, result.Status)
	assert.Contains(t, result.ErrorMessage, "strava")
}

func TestListTrailsWithoutHikingProject(t *testing.T) {
	s := testScout(t)

	result := s.listTrails("presidio")
	assert.Equal(t, statusError, result.Status)
	assert.Contains(t, result.ErrorMessage, "hiking project")
}

func TestPlanRoute(t *testing.T) {
	s := testScout(t)

	result := s.planRoute("Crissy Field", "Baker Beach")
	require.Equal(t, statusSuccess, result.Status, result.ErrorMessage)
	require.Len(t, result.Routes, 1)

	route := result.Routes[0]
	assert.InDelta(t, 5.0, route.DistanceKm, 0.001)
	assert.InDelta(t, 60.0, route.DurationMinutes, 0.001)
	assert.Equal(t, "google", route.Source)
	assert.Contains(t, route.MapsURL, "travelmode=walking")
}

func TestElevationProfile(t *testing.T) {
	s := testScout(t)

	result := s.elevationProfile(37.80, -122.46, 37.79, -122.48)
	require.Equal(t, statusSuccess, result.Status, result.ErrorMessage)
	assert.InDelta(t, 60.0, result.GainMeters, 0.001)
	assert.InDelta(t, 25.0, result.LossMeters, 0.001)
	assert.InDelta(t, 5.0, result.MinMeters, 0.001)
	assert.InDelta(t, 65.0, result.MaxMeters, 0.001)
	assert.Equal(t, "rolling - moderate effort", result.Difficulty)
}

func TestCurrentConditions(t *testing.T) {
	weatherServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"weather": [{"main": "Clear", "description": "clear sky"}],
			"main": {"temp": 16.0, "feels_like": 15.5, "humidity": 60},
			"wind": {"speed": 3.0},
			"sys": {"sunrise": 1717240000, "sunset": 1717292000}
		}`)
	}))
	t.Cleanup(weatherServer.Close)

	wthr, err := weather.New("ow", weather.WithBaseURL(weatherServer.URL), weather.WithHTTPClient(weatherServer.Client()))
	require.NoError(t, err)

	s := testScout(t, func(s *Scout) { s.weather = wthr })

	result := s.currentConditions("presidio")
	require.Equal(t, statusSuccess, result.Status, result.ErrorMessage)
	require.NotNil(t, result.Conditions)
	assert.Equal(t, "Clear", result.Conditions.Summary)
}

func TestCurrentConditionsWithoutWeather(t *testing.T) {
	s := testScout(t)

	result := s.currentConditions("presidio")
	assert.Equal(t, statusError, result.Status)
	assert.Contains(t, result.ErrorMessage, "openweather")
}

func TestExploreSegmentsTruncatesToTen(t *testing.T) {
	stravaServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"segments": [
			{"id":1,"name":"a","distance":1,"start_latlng":[1,2],"end_latlng":[1,2]},
			{"id":2,"name":"b","distance":1,"start_latlng":[1,2],"end_latlng":[1,2]},
			{"id":3,"name":"c","distance":1,"start_latlng":[1,2],"end_latlng":[1,2]},
			{"id":4,"name":"d","distance":1,"start_latlng":[1,2],"end_latlng":[1,2]},
			{"id":5,"name":"e","distance":1,"start_latlng":[1,2],"end_latlng":[1,2]},
			{"id":6,"name":"f","distance":1,"start_latlng":[1,2],"end_latlng":[1,2]},
			{"id":7,"name":"g","distance":1,"start_latlng":[1,2],"end_latlng":[1,2]},
			{"id":8,"name":"h","distance":1,"start_latlng":[1,2],"end_latlng":[1,2]},
			{"id":9,"name":"i","distance":1,"start_latlng":[1,2],"end_latlng":[1,2]},
			{"id":10,"name":"j","distance":1,"start_latlng":[1,2],"end_latlng":[1,2]},
			{"id":11,"name":"k","distance":1,"start_latlng":[1,2],"end_latlng":[1,2]}
		]}`)
	}))
	t.Cleanup(stravaServer.Close)

	strava, err := trailapi.NewStrava("tok",
		trailapi.WithStravaBaseURL(stravaServer.URL),
		trailapi.WithStravaHTTPClient(stravaServer.Client()),
	)
	require.NoError(t, err)

	s := testScout(t, func(s *Scout) { s.strava = strava })

	result := s.exploreSegments("presidio", 5)
	require.Equal(t, statusSuccess, result.Status, result.ErrorMessage)
	assert.Len(t, result.Segments, 10)
}
