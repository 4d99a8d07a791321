package routescout

import (
	"context"

	"github.com/scoutrun/routescout/events"
)

// Hook extends the event hook with the typed final result of a run and a
// close notification once the run is over.
type Hook[T any] interface {
	events.Hook
	OnResult(context.Context, T)
	OnClose(context.Context)
}
