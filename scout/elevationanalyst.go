package scout

import (
	"context"
	"math"

	"github.com/scoutrun/routescout/agent"
	"github.com/scoutrun/routescout/api"
	"github.com/scoutrun/routescout/gmaps"
	"github.com/scoutrun/routescout/tool"
)

type elevationResult struct {
	status
	Samples    int     `json:"samples,omitempty"`
	MinMeters  float64 `json:"min_m,omitempty"`
	MaxMeters  float64 `json:"max_m,omitempty"`
	GainMeters float64 `json:"gain_m"`
	LossMeters float64 `json:"loss_m"`
	Difficulty string  `json:"difficulty,omitempty"`
}

// difficultyFor grades a route by its total climb.
func difficultyFor(gainMeters float64) string {
	switch {
	case gainMeters < 50:
		return "flat - good for speed work"
	case gainMeters < 150:
		return "rolling - moderate effort"
	case gainMeters < 300:
		return "hilly - strong effort"
	default:
		return "very hilly - hill training territory"
	}
}

func (s *Scout) elevationProfile(startLat, startLng, endLat, endLng float64) elevationResult {
	points, err := s.maps.ElevationAlongPath(context.Background(), []gmaps.LatLng{
		{Lat: startLat, Lng: startLng},
		{Lat: endLat, Lng: endLng},
	}, 0)
	if err != nil {
		return elevationResult{status: errStatus(err)}
	}
	if len(points) == 0 {
		return elevationResult{status: errMessage("no elevation data for this path")}
	}

	minEl, maxEl := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minEl = math.Min(minEl, p.Elevation)
		maxEl = math.Max(maxEl, p.Elevation)
	}
	gain, loss := gmaps.GainLoss(points)

	return elevationResult{
		status:     okStatus(),
		Samples:    len(points),
		MinMeters:  minEl,
		MaxMeters:  maxEl,
		GainMeters: gain,
		LossMeters: loss,
		Difficulty: difficultyFor(gain),
	}
}

// ElevationAnalyst builds the agent that grades planned routes by their
// climbing profile.
func (s *Scout) ElevationAnalyst() api.Agent {
	return agent.New(
		agent.Name("elevation_analyst"),
		agent.Model(s.model),
		agent.Instructions(elevationAnalystPrompt),
		agent.Tools(
			tool.Must(s.elevationProfile,
				tool.Name("elevation_profile"),
				tool.Description("Sample the elevation profile between a start and end coordinate and grade the climb."),
				tool.Parameters("start_lat", "start_lng", "end_lat", "end_lng"),
			),
		),
	)
}
