package routescout

import "github.com/scoutrun/routescout/messages"

// Task is anything a step can hand to an agent: a plain prompt string or a
// prebuilt user message.
type Task interface {
	~string | messages.Message[messages.UserMessage]
}

type task interface {
	task()
}

type stringTask string

func (s stringTask) task() {}

type messageTask messages.Message[messages.UserMessage]

func (m messageTask) task() {}
