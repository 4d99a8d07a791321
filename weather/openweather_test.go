package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "ow-key", r.URL.Query().Get("appid"))

		fmt.Fprint(w, `{
			"weather": [{"main": "Clouds", "description": "scattered clouds"}],
			"main": {"temp": 14.2, "feels_like": 13.1, "humidity": 78},
			"wind": {"speed": 6.2, "gust": 10.5},
			"visibility": 10000,
			"sys": {"sunrise": 1717240000, "sunset": 1717292000}
		}`)
	}))
	t.Cleanup(server.Close)

	client, err := New("ow-key", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	require.NoError(t, err)

	conditions, err := client.Current(context.Background(), 37.77, -122.48)
	require.NoError(t, err)

	assert.Equal(t, "Clouds", conditions.Summary)
	assert.Equal(t, "scattered clouds", conditions.Description)
	assert.InDelta(t, 14.2, conditions.TempC, 0.001)
	assert.Equal(t, 78, conditions.Humidity)
	assert.InDelta(t, 6.2, conditions.WindSpeedMS, 0.001)
	assert.False(t, conditions.Sunrise.IsZero())
	assert.True(t, conditions.Sunset.After(conditions.Sunrise))
}

func TestCurrentHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":401}`, http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client, err := New("bad", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	require.NoError(t, err)

	_, err = client.Current(context.Background(), 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
}
