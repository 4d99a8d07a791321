package scout

import (
	"context"

	"github.com/fogfish/opts"

	routescout "github.com/scoutrun/routescout"
	"github.com/scoutrun/routescout/types"
)

// Context variable keys the steps publish their reports under.
const (
	KeyLocationReport   = "location_report"
	KeyConditionsReport = "conditions_report"
	KeyRoutePlan        = "route_plan"
	KeyElevationReport  = "elevation_report"
)

// Workflow builds the full scouting run for a query: location and
// conditions scouts fan out first, then the route builder and elevation
// analyst run in sequence, and the coordinator synthesizes the briefing.
func (s *Scout) Workflow(query string) *routescout.Workflow {
	location := s.LocationScout()
	conditions := s.ConditionsScout()
	builder := s.RouteBuilder()
	analyst := s.ElevationAnalyst()
	coordinator := s.Coordinator()

	return routescout.New(
		routescout.Name("Runner"),
		routescout.Agents(location, conditions, builder, analyst, coordinator),
		routescout.Steps(
			routescout.ParallelStep(
				routescout.Step(location.Name(), query).WithOutputKey(KeyLocationReport),
				routescout.Step(conditions.Name(), query).WithOutputKey(KeyConditionsReport),
			),
			routescout.Step(builder.Name(), query).WithOutputKey(KeyRoutePlan),
			routescout.Step(analyst.Name(), query).WithOutputKey(KeyElevationReport),
			routescout.Step(coordinator.Name(), query),
		),
	)
}

// Run executes the scouting workflow for a query. The reports are seeded
// empty so instruction templates render even when an upstream step had
// nothing to say.
func (s *Scout) Run(ctx context.Context, query string, hook routescout.Hook[string], options ...opts.Option[routescout.ExecutionContext]) error {
	cv := types.ContextVars{
		KeyLocationReport:   "",
		KeyConditionsReport: "",
		KeyRoutePlan:        "",
		KeyElevationReport:  "",
	}

	execOpts := append([]opts.Option[routescout.ExecutionContext]{
		routescout.WithContextVars(cv),
	}, options...)

	return s.Workflow(query).Run(ctx, routescout.Local(hook, execOpts...))
}
