package trailapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get-trails", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("maxDistance"))
		assert.Equal(t, "10", r.URL.Query().Get("maxResults"))
		assert.Equal(t, "hp-key", r.URL.Query().Get("key"))

		fmt.Fprint(w, `{
			"trails": [{
				"id": 7001,
				"name": "Lands End Trail",
				"summary": "Coastal singletrack with ocean views.",
				"difficulty": "greenBlue",
				"stars": 4.6,
				"location": "San Francisco, California",
				"length": 3.4,
				"ascent": 120,
				"descent": 118,
				"latitude": 37.7799,
				"longitude": -122.5117,
				"url": "https://www.hikingproject.com/trail/7001"
			}]
		}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewHiking("hp-key", WithHikingBaseURL(server.URL), WithHikingHTTPClient(server.Client()))
	require.NoError(t, err)

	trails, err := client.Trails(context.Background(), 37.78, -122.51, 0)
	require.NoError(t, err)
	require.Len(t, trails, 1)

	trail := trails[0]
	assert.Equal(t, "Lands End Trail", trail.Name)
	assert.InDelta(t, 3.4*1.609, trail.LengthKm, 0.001, "lengths arrive in miles")
	assert.Equal(t, 120, trail.AscentM)
}

func TestNewHikingRequiresKey(t *testing.T) {
	_, err := NewHiking("")
	require.Error(t, err)
}
