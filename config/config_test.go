package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvRequiresMapsKey(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_MAPS_API_KEY")
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "maps-key")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("ROUTESCOUT_MODEL", "")
	t.Setenv("OPENWEATHER_API_KEY", "")
	t.Setenv("STRAVA_ACCESS_TOKEN", "")

	settings, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "maps-key", settings.GoogleMapsAPIKey)
	assert.Equal(t, "gemini-2.0-flash", settings.CoordinatorModel)
	assert.Equal(t, zerolog.InfoLevel, settings.LogLevel)
	assert.False(t, settings.HasWeather())
	assert.False(t, settings.HasStrava())
}

func TestFromEnvFullStack(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "maps-key")
	t.Setenv("OPENWEATHER_API_KEY", "ow")
	t.Setenv("STRAVA_ACCESS_TOKEN", "st")
	t.Setenv("HIKING_PROJECT_API_KEY", "hp")
	t.Setenv("MAPBOX_ACCESS_TOKEN", "mb")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ROUTESCOUT_MODEL", "gemini-2.5-pro")

	settings, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, settings.HasWeather())
	assert.True(t, settings.HasStrava())
	assert.True(t, settings.HasHikingProject())
	assert.True(t, settings.HasMapbox())
	assert.Equal(t, zerolog.DebugLevel, settings.LogLevel)
	assert.Equal(t, "gemini-2.5-pro", settings.CoordinatorModel)
}

func TestFromEnvBadLogLevel(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "maps-key")
	t.Setenv("LOG_LEVEL", "shouting")

	_, err := FromEnv()
	require.Error(t, err)
}
