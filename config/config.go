// Package config loads the route scout settings from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// Settings holds every credential and knob the scouts use. Only the Google
// Maps key is mandatory, the other data sources degrade to being skipped.
type Settings struct {
	GoogleMapsAPIKey    string
	OpenWeatherAPIKey   string
	StravaAccessToken   string
	HikingProjectAPIKey string
	MapboxAccessToken   string
	GeminiAPIKey        string
	OpenAIAPIKey        string
	CoordinatorModel    string
	LogLevel            zerolog.Level
}

const defaultCoordinatorModel = "gemini-2.0-flash"

// FromEnv reads settings from environment variables. Load a .env file
// first (godotenv's autoload import does this) if you keep credentials
// there.
func FromEnv() (Settings, error) {
	settings := Settings{
		GoogleMapsAPIKey:    os.Getenv("GOOGLE_MAPS_API_KEY"),
		OpenWeatherAPIKey:   os.Getenv("OPENWEATHER_API_KEY"),
		StravaAccessToken:   os.Getenv("STRAVA_ACCESS_TOKEN"),
		HikingProjectAPIKey: os.Getenv("HIKING_PROJECT_API_KEY"),
		MapboxAccessToken:   os.Getenv("MAPBOX_ACCESS_TOKEN"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		CoordinatorModel:    os.Getenv("ROUTESCOUT_MODEL"),
		LogLevel:            zerolog.InfoLevel,
	}

	if settings.GoogleMapsAPIKey == "" {
		return Settings{}, fmt.Errorf("config: GOOGLE_MAPS_API_KEY is required")
	}
	if settings.CoordinatorModel == "" {
		settings.CoordinatorModel = defaultCoordinatorModel
	}

	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		level, err := zerolog.ParseLevel(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("config: invalid LOG_LEVEL %q: %w", raw, err)
		}
		settings.LogLevel = level
	}

	return settings, nil
}

// HasWeather reports whether the conditions scout can run.
func (s Settings) HasWeather() bool { return s.OpenWeatherAPIKey != "" }

// HasStrava reports whether segment exploration is available.
func (s Settings) HasStrava() bool { return s.StravaAccessToken != "" }

// HasHikingProject reports whether trail listings are available.
func (s Settings) HasHikingProject() bool { return s.HikingProjectAPIKey != "" }

// HasMapbox reports whether the fallback route engine is available.
func (s Settings) HasMapbox() bool { return s.MapboxAccessToken != "" }
