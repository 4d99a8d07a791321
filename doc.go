/*
Package routescout orchestrates the agents that plan running routes.

The package wires a small crew of specialist agents into a workflow: scouts
fan out in parallel to gather trailheads and conditions, a route builder
turns the findings into concrete walking routes, an elevation analyst
grades them, and a coordinator synthesizes the final briefing.

# Basic Usage

A workflow names its agents and the steps that connect them:

	builder := agent.New(
		agent.Name("route_builder"),
		agent.Model(gemini.Flash()),
		agent.Instructions(buildPrompt),
		agent.Tools(directionsTool),
	)

	wf := routescout.New(
		routescout.Agents(builder, analyst),
		routescout.Steps(
			routescout.Step(builder.Name(), "5k near Golden Gate Park").WithOutputKey("route_plan"),
			routescout.Step(analyst.Name(), "grade the planned routes"),
		),
	)

	if err := wf.Run(ctx, routescout.Local(hook)); err != nil {
		// handle error
	}

Steps run on fresh threads; results travel between them through context
variables. A step's WithOutputKey stores its answer under that key, and
later agents pull it into their instructions with text/template actions.
ParallelStep runs several scouts concurrently and joins before the next
step.

# Components

  - execution.go: execution context, local executor wiring, run options
  - hook.go: typed result hook on top of the event hook
  - promise.go: promises that capture and forward step results
  - task.go: the prompt types a step accepts
  - routescout.go: the workflow itself

The agent, tool, provider, and events packages hold the building blocks;
the scout package assembles the route scouting crew on top of them.
*/
package routescout
