// Package repl is the interactive console for the route scout: it reads
// queries, runs the scouting workflow, and renders the event stream as it
// happens.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/k0kubun/pp/v3"

	routescout "github.com/scoutrun/routescout"
	"github.com/scoutrun/routescout/events"
	"github.com/scoutrun/routescout/messages"
	"github.com/scoutrun/routescout/scout"
)

var glam *glamour.TermRenderer

func init() {
	var err error
	glam, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		panic(err)
	}
}

// Run starts the console loop. Each input line becomes one full scouting
// run; "exit" quits and "/debug" toggles raw event dumps.
func Run(ctx context.Context, s *scout.Scout) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Split(bufio.ScanLines)
	var debug bool

	for {
		fmt.Printf("%s: ", color.CyanString("Runner"))
		if !scanner.Scan() {
			fmt.Println("Exiting...")
			break
		}

		input := strings.TrimSpace(scanner.Text())
		switch {
		case input == "":
			continue
		case strings.EqualFold(input, "exit"):
			return nil
		case input == "/debug":
			debug = !debug
			fmt.Printf("debug %v\n", debug)
			continue
		}

		finished, hook := newConsoleHook[string]()
		done := make(chan error, 1)
		go func() {
			done <- s.Run(ctx, input, hook, routescout.Streaming(true))
		}()

		render(finished, debug)

		if err := <-done; err != nil {
			fmt.Fprintf(os.Stdout, "Error: %v\n", err)
		}
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

func render(finished <-chan events.Event, debug bool) {
	var content string
	var streaming bool
	var lastSender string

	for msg := range finished {
		if debug {
			fmt.Fprintln(os.Stdout, pp.Sprint(msg))
			continue
		}

		switch m := msg.(type) {
		case events.Request[messages.UserMessage]:
			fmt.Fprintln(os.Stdout)
		case events.Chunk[messages.AssistantMessage]:
			if !streaming {
				streaming = true
				fmt.Fprintln(os.Stdout)
			}
			if m.Sender != "" {
				lastSender = m.Sender
			}

			if m.Chunk.Content.Content != "" {
				if content == "" && lastSender != "" {
					fmt.Fprint(os.Stdout, color.MagentaString(lastSender)+": ")
					lastSender = ""
				}

				fmt.Fprint(os.Stdout, m.Chunk.Content.Content)
				content += m.Chunk.Content.Content
			}
		case events.Chunk[messages.ToolCallMessage]:
			if !streaming {
				streaming = true
			}
			if m.Sender != "" {
				lastSender = m.Sender
			}

			for _, tc := range m.Chunk.ToolCalls {
				if tc.Name == "" {
					continue
				}
				args := strings.ReplaceAll(tc.Arguments, ": ", "=")
				fmt.Fprintf(os.Stdout, "%s%s\n", color.YellowString(tc.Name), args)
			}
		case events.Response[messages.ToolCallMessage]:
			if streaming || len(content) > 0 {
				content = ""
				fmt.Fprintln(os.Stdout)
				streaming = false
				continue
			}
			if m.Sender == "" {
				fmt.Fprint(os.Stdout, color.YellowString("Tool")+": ")
			} else {
				fmt.Fprint(os.Stdout, color.YellowString(m.Sender)+": ")
			}
			if len(m.Response.ToolCalls) > 1 {
				fmt.Fprintln(os.Stdout)
			}

			for tc := range slices.Values(m.Response.ToolCalls) {
				args := strings.ReplaceAll(tc.Arguments, ": ", "=")
				fmt.Fprintf(os.Stdout, "%s%s\n", color.YellowString(tc.Name), args)
			}
		case events.Response[messages.AssistantMessage]:
			if streaming || len(content) > 0 {
				content = ""
				fmt.Fprintln(os.Stdout)
				streaming = false
				continue
			}
			if m.Sender == "" {
				fmt.Fprint(os.Stdout, color.MagentaString("Scout")+": ")
			} else {
				fmt.Fprint(os.Stdout, color.MagentaString(m.Sender)+": ")
			}
			out, _ := glam.Render(m.Response.Content.Content)
			fmt.Fprintln(os.Stdout, out)
		case events.Request[messages.ToolResponse]:
			if m.Sender == "" {
				fmt.Fprint(os.Stdout, color.YellowString("Tool")+": ")
			} else {
				fmt.Fprint(os.Stdout, color.YellowString(m.Sender)+": ")
			}
			fmt.Fprintln(os.Stdout, m.Message.Content)
		case events.Result[string]:
			out, _ := glam.Render(m.Result)
			fmt.Fprintln(os.Stdout, out)
		case events.Error:
			fmt.Fprintf(os.Stdout, "Error: %v\n", m.Err)
		default:
			fmt.Fprintf(os.Stdout, "unknown message type: %T\n", m)
		}
	}
}

func newConsoleHook[T any]() (chan events.Event, routescout.Hook[T]) {
	ch := make(chan events.Event, 100)
	return ch, &consoleHook[T]{ch: ch}
}

type consoleHook[T any] struct {
	ch chan<- events.Event
}

func (c *consoleHook[T]) OnUserPrompt(ctx context.Context, msg messages.Message[messages.UserMessage]) {
	c.ch <- events.Request[messages.UserMessage]{
		RunID:     msg.RunID,
		TurnID:    msg.TurnID,
		Message:   msg.Payload,
		Sender:    msg.Sender,
		Timestamp: msg.Timestamp,
		Meta:      msg.Meta,
	}
}

func (c *consoleHook[T]) OnAssistantChunk(ctx context.Context, msg messages.Message[messages.AssistantMessage]) {
	c.ch <- events.Chunk[messages.AssistantMessage]{
		RunID:     msg.RunID,
		TurnID:    msg.TurnID,
		Chunk:     msg.Payload,
		Sender:    msg.Sender,
		Timestamp: msg.Timestamp,
		Meta:      msg.Meta,
	}
}

func (c *consoleHook[T]) OnToolCallChunk(ctx context.Context, msg messages.Message[messages.ToolCallMessage]) {
	c.ch <- events.Chunk[messages.ToolCallMessage]{
		RunID:     msg.RunID,
		TurnID:    msg.TurnID,
		Chunk:     msg.Payload,
		Sender:    msg.Sender,
		Timestamp: msg.Timestamp,
		Meta:      msg.Meta,
	}
}

func (c *consoleHook[T]) OnAssistantMessage(ctx context.Context, msg messages.Message[messages.AssistantMessage]) {
	c.ch <- events.Response[messages.AssistantMessage]{
		RunID:     msg.RunID,
		TurnID:    msg.TurnID,
		Response:  msg.Payload,
		Sender:    msg.Sender,
		Timestamp: msg.Timestamp,
		Meta:      msg.Meta,
	}
}

func (c *consoleHook[T]) OnToolCallMessage(ctx context.Context, msg messages.Message[messages.ToolCallMessage]) {
	c.ch <- events.Response[messages.ToolCallMessage]{
		RunID:     msg.RunID,
		TurnID:    msg.TurnID,
		Response:  msg.Payload,
		Sender:    msg.Sender,
		Timestamp: msg.Timestamp,
		Meta:      msg.Meta,
	}
}

func (c *consoleHook[T]) OnToolCallResponse(ctx context.Context, msg messages.Message[messages.ToolResponse]) {
	c.ch <- events.Request[messages.ToolResponse]{
		RunID:     msg.RunID,
		TurnID:    msg.TurnID,
		Message:   msg.Payload,
		Sender:    msg.Sender,
		Timestamp: msg.Timestamp,
		Meta:      msg.Meta,
	}
}

func (c *consoleHook[T]) OnResult(ctx context.Context, result T) {
	c.ch <- events.Result[T]{Result: result}
}

func (c *consoleHook[T]) OnError(ctx context.Context, err error) {
	c.ch <- events.Error{Err: err}
}

func (c *consoleHook[T]) OnClose(ctx context.Context) {
	close(c.ch)
}
