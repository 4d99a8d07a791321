// Package scout assembles the route scouting crew: agents that find
// trailheads, check conditions, build walking routes, grade their
// elevation, and synthesize a briefing for the runner.
package scout

import (
	"context"

	"github.com/fogfish/opts"

	"github.com/scoutrun/routescout/api"
	"github.com/scoutrun/routescout/config"
	"github.com/scoutrun/routescout/gmaps"
	"github.com/scoutrun/routescout/provider/gemini"
	"github.com/scoutrun/routescout/trailapi"
	"github.com/scoutrun/routescout/weather"
)

// Scout owns the data source clients and builds the agents on top of them.
// Optional sources (strava, hiking project, mapbox, weather) stay nil when
// their credentials are missing; their tools then answer with an error
// status the model can relay.
type Scout struct {
	maps    *gmaps.Client
	strava  *trailapi.StravaClient
	hiking  *trailapi.HikingClient
	mapbox  *trailapi.MapboxClient
	weather *weather.Client
	model   api.Model
}

var (
	WithMapsClient    = opts.ForName[Scout, *gmaps.Client]("maps")
	WithStravaClient  = opts.ForName[Scout, *trailapi.StravaClient]("strava")
	WithHikingClient  = opts.ForName[Scout, *trailapi.HikingClient]("hiking")
	WithMapboxClient  = opts.ForName[Scout, *trailapi.MapboxClient]("mapbox")
	WithWeatherClient = opts.ForName[Scout, *weather.Client]("weather")
	WithModel         = opts.ForName[Scout, api.Model]("model")
)

// New builds a scout from settings. Options override individual clients,
// which the tests use to point at local servers.
func New(settings config.Settings, options ...opts.Option[Scout]) (*Scout, error) {
	scout := &Scout{}
	if err := opts.Apply(scout, options); err != nil {
		return nil, err
	}

	if scout.maps == nil {
		maps, err := gmaps.New(settings.GoogleMapsAPIKey)
		if err != nil {
			return nil, err
		}
		scout.maps = maps
	}

	if scout.strava == nil && settings.HasStrava() {
		strava, err := trailapi.NewStrava(settings.StravaAccessToken)
		if err != nil {
			return nil, err
		}
		scout.strava = strava
	}

	if scout.hiking == nil && settings.HasHikingProject() {
		hiking, err := trailapi.NewHiking(settings.HikingProjectAPIKey)
		if err != nil {
			return nil, err
		}
		scout.hiking = hiking
	}

	if scout.mapbox == nil && settings.HasMapbox() {
		mapbox, err := trailapi.NewMapbox(settings.MapboxAccessToken)
		if err != nil {
			return nil, err
		}
		scout.mapbox = mapbox
	}

	if scout.weather == nil && settings.HasWeather() {
		wthr, err := weather.New(settings.OpenWeatherAPIKey)
		if err != nil {
			return nil, err
		}
		scout.weather = wthr
	}

	if scout.model == nil {
		scout.model = gemini.ModelWithKey(settings.CoordinatorModel, settings.GeminiAPIKey)
	}

	return scout, nil
}

func (s *Scout) resolve(area string) (gmaps.GeocodeResult, error) {
	return s.maps.Geocode(context.Background(), area)
}
