package scout

import (
	"context"

	"github.com/scoutrun/routescout/agent"
	"github.com/scoutrun/routescout/api"
	"github.com/scoutrun/routescout/tool"
	"github.com/scoutrun/routescout/weather"
)

type conditionsResult struct {
	status
	Area       string              `json:"area,omitempty"`
	Conditions *weather.Conditions `json:"conditions,omitempty"`
}

func (s *Scout) currentConditions(area string) conditionsResult {
	if s.weather == nil {
		return conditionsResult{status: errMessage("openweather api key not configured")}
	}

	resolved, err := s.resolve(area)
	if err != nil {
		return conditionsResult{status: errStatus(err)}
	}

	conditions, err := s.weather.Current(context.Background(), resolved.Location.Lat, resolved.Location.Lng)
	if err != nil {
		return conditionsResult{status: errStatus(err)}
	}

	return conditionsResult{
		status:     okStatus(),
		Area:       resolved.FormattedAddress,
		Conditions: &conditions,
	}
}

// ConditionsScout builds the agent that reports current running weather
// for the area.
func (s *Scout) ConditionsScout() api.Agent {
	return agent.New(
		agent.Name("conditions_scout"),
		agent.Model(s.model),
		agent.Instructions(conditionsScoutPrompt),
		agent.Tools(
			tool.Must(s.currentConditions,
				tool.Name("current_conditions"),
				tool.Description("Get current weather conditions for an area, in metric units."),
				tool.Parameters("area"),
			),
		),
	)
}
