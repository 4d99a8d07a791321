package scout

import (
	"github.com/scoutrun/routescout/agent"
	"github.com/scoutrun/routescout/api"
)

// Coordinator builds the synthesis agent. It carries no tools: everything
// it needs arrives through its instruction template, which keeps the final
// step from re-fetching data the scouts already gathered.
func (s *Scout) Coordinator() api.Agent {
	return agent.New(
		agent.Name("coordinator"),
		agent.Model(s.model),
		agent.Instructions(coordinatorPrompt),
	)
}
