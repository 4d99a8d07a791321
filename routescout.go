package routescout

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/alphadose/haxmap"
	"github.com/fogfish/opts"
	json "github.com/goccy/go-json"

	"github.com/scoutrun/routescout/api"
	"github.com/scoutrun/routescout/internal/executor"
	"github.com/scoutrun/routescout/internal/memory"
	"github.com/scoutrun/routescout/messages"
	"github.com/scoutrun/routescout/provider"
	"github.com/scoutrun/routescout/types"
)

// ConversationStep is one stage of a workflow: a task handed to an agent,
// or a fan-out of the same stage across several agents.
type ConversationStep struct {
	agentName string
	task      task
	outputKey string
	parallel  []ConversationStep
}

// Step creates a sequential step that sends tsk to the named agent.
func Step[T Task](agentName string, tsk T) ConversationStep {
	var t task
	switch xt := any(tsk).(type) {
	case string:
		t = stringTask(xt)
	case messages.Message[messages.UserMessage]:
		t = messageTask(xt)
	default:
		panic(fmt.Sprintf("invalid task type: %T", xt))
	}
	return ConversationStep{
		agentName: agentName,
		task:      t,
	}
}

// WithOutputKey stores the step's final answer in the context variables
// under key, where later agents can reference it from their instruction
// templates.
func (s ConversationStep) WithOutputKey(key string) ConversationStep {
	s.outputKey = key
	return s
}

// ParallelStep runs the given steps concurrently and waits for all of them
// before the workflow advances. Branch results land in the context
// variables via their output keys.
func ParallelStep(step ConversationStep, extraSteps ...ConversationStep) ConversationStep {
	return ConversationStep{
		parallel: append([]ConversationStep{step}, extraSteps...),
	}
}

// Workflow wires agents and steps together. Each step starts from a fresh
// thread; state flows between steps through context variables only, so an
// agent sees exactly what the step's task and its instructions give it.
type Workflow struct {
	name   string
	agents *haxmap.Map[string, api.Agent]
	steps  []ConversationStep
}

func Agents(agent api.Agent, extraAgents ...api.Agent) opts.Option[Workflow] {
	return opts.Type[Workflow](func(o *Workflow) error {
		o.agents.Set(agent.Name(), agent)
		for elem := range slices.Values(extraAgents) {
			o.agents.Set(elem.Name(), elem)
		}
		return nil
	})
}

func Steps(step ConversationStep, extraSteps ...ConversationStep) opts.Option[Workflow] {
	return opts.Type[Workflow](func(o *Workflow) error {
		o.steps = append(o.steps, step)
		o.steps = append(o.steps, extraSteps...)
		return nil
	})
}

var Name = opts.ForName[Workflow, string]("name")

func New(options ...opts.Option[Workflow]) *Workflow {
	p := &Workflow{
		name:   "User",
		agents: haxmap.New[string, api.Agent](),
	}
	if err := opts.Apply(p, options); err != nil {
		panic(err)
	}
	return p
}

func (p *Workflow) Run(ctx context.Context, rc ExecutionContext) error {
	defer rc.onClose(ctx)

	if rc.contextVars == nil {
		rc.contextVars = make(types.ContextVars)
	}
	var cvMu sync.Mutex

	maxItems := len(p.steps) - 1

	for i, step := range p.steps {
		last := i == maxItems

		if len(step.parallel) > 0 {
			if err := p.runParallel(ctx, step, last, &cvMu, rc); err != nil {
				return err
			}
			continue
		}

		var promise executor.Promise = noopPromise{}
		var schema *provider.StructuredOutput
		if last {
			promise = rc.promise
			schema = rc.responseSchema
		}
		promise = capturePromise{
			key:  step.outputKey,
			cv:   rc.contextVars,
			mu:   &cvMu,
			next: promise,
		}

		if err := p.runStep(ctx, step.agentName, step.task, ExecutionContext{
			executor:       rc.executor,
			hook:           rc.hook,
			promise:        promise,
			contextVars:    rc.contextVars,
			onClose:        rc.onClose,
			responseSchema: schema,
			stream:         rc.stream,
			maxTurns:       rc.maxTurns,
		}); err != nil {
			return err
		}
	}

	return nil
}

func (p *Workflow) runParallel(ctx context.Context, step ConversationStep, last bool, cvMu *sync.Mutex, rc ExecutionContext) error {
	// Each branch reads a private snapshot of the context variables and
	// writes its answer into a private map, so no goroutine touches the
	// shared map while siblings run. Output keys merge back after the join.
	cvMu.Lock()
	snapshot := maps.Clone(rc.contextVars)
	cvMu.Unlock()

	var wg sync.WaitGroup
	errs := make([]error, len(step.parallel))
	outputs := make([]types.ContextVars, len(step.parallel))
	var outMu sync.Mutex

	for i, branch := range step.parallel {
		outputs[i] = make(types.ContextVars, 1)
		wg.Add(1)
		go func(i int, branch ConversationStep) {
			defer wg.Done()
			errs[i] = p.runStep(ctx, branch.agentName, branch.task, ExecutionContext{
				executor: rc.executor,
				hook:     rc.hook,
				promise: capturePromise{
					key:  branch.outputKey,
					cv:   outputs[i],
					mu:   &outMu,
					next: noopPromise{},
				},
				contextVars: snapshot,
				onClose:     rc.onClose,
				stream:      rc.stream,
				maxTurns:    rc.maxTurns,
			})
		}(i, branch)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return err
	}

	cvMu.Lock()
	for i, branch := range step.parallel {
		if branch.outputKey == "" {
			continue
		}
		if v, ok := outputs[i][branch.outputKey]; ok {
			rc.contextVars[branch.outputKey] = v
		}
	}
	cvMu.Unlock()

	// A workflow normally ends on a single synthesis step. When a fan-out is
	// last anyway, hand the collected branch results to the caller as JSON.
	if last {
		results := make(map[string]any, len(step.parallel))
		for i, branch := range step.parallel {
			if branch.outputKey != "" {
				results[branch.outputKey] = outputs[i][branch.outputKey]
			}
		}

		b, err := json.Marshal(results)
		if err != nil {
			rc.promise.Error(err)
			return err
		}
		rc.promise.Complete(string(b))
	}

	return nil
}

func (p *Workflow) runStep(ctx context.Context, agentName string, prompt task, rc ExecutionContext) error {
	agent, found := p.agents.Get(agentName)
	if !found {
		return fmt.Errorf("agent %s not found", agentName)
	}

	state := memory.New()

	var message messages.Message[messages.UserMessage]
	switch tsk := prompt.(type) {
	case stringTask:
		message = messages.New().WithSender(p.name).UserPrompt(string(tsk))
	case messageTask:
		message = messages.Message[messages.UserMessage](tsk)
	default:
		return fmt.Errorf("unknown task type %T", tsk)
	}
	state.AddUserPrompt(message)
	rc.hook.OnUserPrompt(ctx, message)

	cmd, err := rc.createCommand(agent, state)
	if err != nil {
		return err
	}

	return rc.executor.Run(ctx, cmd, rc.promise)
}
