package explore_test

import (
	"context"
	"sync"
	"time"

	"github.com/belnav/belnav/internal/explore"
	"github.com/belnav/belnav/internal/models"
)

// fakeProvider answers provider calls through swappable funcs and records
// every call.
type fakeProvider struct {
	mu sync.Mutex

	subgraphCalls   []models.QueryArgs
	pathsCalls      int
	centralityCalls int

	subgraphFn   func(ctx context.Context, args models.QueryArgs) (*models.NodeLinkGraph, error)
	pathsFn      func(ctx context.Context, args models.QueryArgs, source, target, method string, undirected bool) ([][]string, error)
	centralityFn func(ctx context.Context, args models.QueryArgs, k int) ([]string, error)
}

func (f *fakeProvider) Subgraph(ctx context.Context, args models.QueryArgs) (*models.NodeLinkGraph, error) {
	f.mu.Lock()
	f.subgraphCalls = append(f.subgraphCalls, args.Copy())
	fn := f.subgraphFn
	f.mu.Unlock()

	if fn == nil {
		return &models.NodeLinkGraph{}, nil
	}
	return fn(ctx, args)
}

func (f *fakeProvider) Paths(ctx context.Context, args models.QueryArgs, source, target, method string, undirected bool) ([][]string, error) {
	f.mu.Lock()
	f.pathsCalls++
	fn := f.pathsFn
	f.mu.Unlock()

	if fn == nil {
		return nil, nil
	}
	return fn(ctx, args, source, target, method, undirected)
}

func (f *fakeProvider) TopCentrality(ctx context.Context, args models.QueryArgs, k int) ([]string, error) {
	f.mu.Lock()
	f.centralityCalls++
	fn := f.centralityFn
	f.mu.Unlock()

	if fn == nil {
		return nil, nil
	}
	return fn(ctx, args, k)
}

func (f *fakeProvider) subgraphCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subgraphCalls)
}

func (f *fakeProvider) lastSubgraphArgs() (models.QueryArgs, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.subgraphCalls) == 0 {
		return models.QueryArgs{}, false
	}
	return f.subgraphCalls[len(f.subgraphCalls)-1], true
}

type recordedEvent struct {
	SessionID string
	Type      string
	Data      any
}

// recordEmitter captures emitted frames and events for assertions.
type recordEmitter struct {
	mu     sync.Mutex
	frames []explore.Frame
	events []recordedEvent
}

func (e *recordEmitter) EmitFrame(sessionID string, frame explore.Frame) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frames = append(e.frames, frame)
}

func (e *recordEmitter) EmitEvent(sessionID, eventType string, data any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, recordedEvent{SessionID: sessionID, Type: eventType, Data: data})
}

func (e *recordEmitter) frameCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.frames)
}

func (e *recordEmitter) lastFrame() (explore.Frame, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.frames) == 0 {
		return explore.Frame{}, false
	}
	return e.frames[len(e.frames)-1], true
}

func (e *recordEmitter) eventsOfType(eventType string) []recordedEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []recordedEvent
	for _, ev := range e.events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}
