package inference

import (
	"context"
	"sync"
	"time"
)

// ScriptedClient replays a fixed sequence of completions or errors, with a
// configurable latency to mimic real-world calls. Once the script runs out it
// keeps returning the final step.
type ScriptedClient struct {
	Latency time.Duration

	mu       sync.Mutex
	steps    []scriptStep
	calls    []Request
	position int
}

type scriptStep struct {
	completion Completion
	err        error
}

// Respond appends a successful completion to the script.
func (c *ScriptedClient) Respond(completion Completion) *ScriptedClient {
	c.steps = append(c.steps, scriptStep{completion: completion})
	return c
}

// Fail appends an error step to the script.
func (c *ScriptedClient) Fail(err error) *ScriptedClient {
	c.steps = append(c.steps, scriptStep{err: err})
	return c
}

// Complete returns the next scripted step.
func (c *ScriptedClient) Complete(_ context.Context, req Request) (Completion, error) {
	time.Sleep(c.Latency)
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, req)
	if len(c.steps) == 0 {
		return Completion{}, nil
	}
	step := c.steps[c.position]
	if c.position < len(c.steps)-1 {
		c.position++
	}
	return step.completion, step.err
}

// Calls returns the requests observed so far.
func (c *ScriptedClient) Calls() []Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Request, len(c.calls))
	copy(out, c.calls)
	return out
}
