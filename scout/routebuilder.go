package scout

import (
	"context"
	"errors"
	"fmt"

	"github.com/scoutrun/routescout/agent"
	"github.com/scoutrun/routescout/api"
	"github.com/scoutrun/routescout/gmaps"
	"github.com/scoutrun/routescout/tool"
)

type routeOption struct {
	Summary         string   `json:"summary,omitempty"`
	DistanceKm      float64  `json:"distance_km"`
	DurationMinutes float64  `json:"duration_minutes"`
	StartAddress    string   `json:"start_address,omitempty"`
	EndAddress      string   `json:"end_address,omitempty"`
	MapsURL         string   `json:"maps_url,omitempty"`
	Source          string   `json:"source"`
	Warnings        []string `json:"warnings,omitempty"`
}

type routesResult struct {
	status
	Origin      string        `json:"origin,omitempty"`
	Destination string        `json:"destination,omitempty"`
	Routes      []routeOption `json:"routes,omitempty"`
}

// planRoute asks for walking route alternatives between two points. When
// google directions come up empty the mapbox engine gets a shot, since it
// sometimes knows paths google does not.
func (s *Scout) planRoute(origin, destination string) routesResult {
	routes, err := s.maps.WalkingDirections(context.Background(), gmaps.DirectionsQuery{
		Origin:      origin,
		Destination: destination,
	})
	if err == nil {
		options := make([]routeOption, len(routes))
		for i, r := range routes {
			options[i] = routeOption{
				Summary:         r.Summary,
				DistanceKm:      r.DistanceKm(),
				DurationMinutes: float64(r.DurationSeconds) / 60,
				StartAddress:    r.StartAddress,
				EndAddress:      r.EndAddress,
				MapsURL:         gmaps.RouteURL(origin, destination),
				Source:          "google",
				Warnings:        r.Warnings,
			}
		}
		return routesResult{
			status:      okStatus(),
			Origin:      origin,
			Destination: destination,
			Routes:      options,
		}
	}
	if !errors.Is(err, gmaps.ErrNoResults) || s.mapbox == nil {
		return routesResult{status: errStatus(err)}
	}

	from, rerr := s.resolve(origin)
	if rerr != nil {
		return routesResult{status: errStatus(rerr)}
	}
	to, rerr := s.resolve(destination)
	if rerr != nil {
		return routesResult{status: errStatus(rerr)}
	}

	alternates, rerr := s.mapbox.WalkingRoutes(context.Background(), []gmaps.LatLng{from.Location, to.Location})
	if rerr != nil {
		return routesResult{status: errStatus(rerr)}
	}

	// The mapbox route came from coordinates, so the share link does too.
	shareURL, rerr := gmaps.RouteURLFromPath([]gmaps.LatLng{from.Location, to.Location})
	if rerr != nil {
		return routesResult{status: errStatus(rerr)}
	}

	options := make([]routeOption, len(alternates))
	for i, r := range alternates {
		options[i] = routeOption{
			DistanceKm:      r.DistanceMeters / 1000,
			DurationMinutes: r.DurationSeconds / 60,
			StartAddress:    from.FormattedAddress,
			EndAddress:      to.FormattedAddress,
			MapsURL:         shareURL,
			Source:          "mapbox",
		}
	}
	return routesResult{
		status:      okStatus(),
		Origin:      origin,
		Destination: destination,
		Routes:      options,
	}
}

// paceSecondsPerKm holds the pace table used for time estimates.
var paceSecondsPerKm = map[string]int{
	"easy":     390, // 6:30 min/km
	"moderate": 330, // 5:30 min/km
	"fast":     270, // 4:30 min/km
}

type timeEstimate struct {
	status
	DistanceKm    float64 `json:"distance_km"`
	Pace          string  `json:"pace,omitempty"`
	PacePerKm     string  `json:"pace_per_km,omitempty"`
	EstimatedTime string  `json:"estimated_time,omitempty"`
}

func (s *Scout) estimateTime(distanceKm float64, pace string) timeEstimate {
	secondsPerKm, ok := paceSecondsPerKm[pace]
	if !ok {
		return timeEstimate{status: errMessage(fmt.Sprintf("unknown pace %q, use easy, moderate, or fast", pace))}
	}
	if distanceKm <= 0 {
		return timeEstimate{status: errMessage("distance must be positive")}
	}

	total := int(distanceKm * float64(secondsPerKm))
	return timeEstimate{
		status:        okStatus(),
		DistanceKm:    distanceKm,
		Pace:          pace,
		PacePerKm:     fmt.Sprintf("%d:%02d min/km", secondsPerKm/60, secondsPerKm%60),
		EstimatedTime: fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60),
	}
}

// RouteBuilder builds the agent that turns scouted locations into concrete
// route options with distances and time estimates.
func (s *Scout) RouteBuilder() api.Agent {
	return agent.New(
		agent.Name("route_builder"),
		agent.Model(s.model),
		agent.Instructions(routeBuilderPrompt),
		agent.Tools(
			tool.Must(s.planRoute,
				tool.Name("plan_route"),
				tool.Description("Plan walking route alternatives between two addresses or lat,lng points, avoiding highways."),
				tool.Parameters("origin", "destination"),
			),
			tool.Must(s.estimateTime,
				tool.Name("estimate_time"),
				tool.Description("Estimate the running time for a distance in kilometers at an easy, moderate, or fast pace."),
				tool.Parameters("distance_km", "pace"),
			),
		),
	)
}
