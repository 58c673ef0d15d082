package lesson

import (
	"context"
	"errors"
	"sync"
)

// ErrBusy is returned when a generation is already running.
var ErrBusy = errors.New("a lesson is already being generated")

// ResolveFunc produces the input text, typically by reading a file or
// fetching a page.
type ResolveFunc func(ctx context.Context) (Input, error)

// Result is one completed generation.
type Result struct {
	Seq    uint64
	Input  Input
	Bundle Bundle
}

// Generator serializes lesson generation for one session. Generate fails
// with ErrBusy while another call is in flight unless AllowConcurrent is set;
// in that mode every call is tagged and Latest only ever moves forward to the
// newest started call that has completed.
type Generator struct {
	Pipeline        *Pipeline
	AllowConcurrent bool

	mu       sync.Mutex
	inFlight int
	seq      uint64
	latest   *Result
}

// NewGenerator returns a Generator over p.
func NewGenerator(p *Pipeline) *Generator {
	return &Generator{Pipeline: p}
}

// Busy reports whether a generation is running.
func (g *Generator) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight > 0
}

// Latest returns the newest completed result.
func (g *Generator) Latest() (Result, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.latest == nil {
		return Result{}, false
	}
	return *g.latest, true
}

// Generate resolves the input and runs the pipeline on it.
func (g *Generator) Generate(ctx context.Context, resolve ResolveFunc) (Result, error) {
	g.mu.Lock()
	if g.inFlight > 0 && !g.AllowConcurrent {
		g.mu.Unlock()
		return Result{}, ErrBusy
	}
	g.inFlight++
	g.seq++
	seq := g.seq
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.inFlight--
		g.mu.Unlock()
	}()

	in, err := resolve(ctx)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	b, err := g.Pipeline.RunLevel(in.Text, in.Level)
	if err != nil {
		return Result{}, err
	}
	res := Result{Seq: seq, Input: in, Bundle: b}

	g.mu.Lock()
	if g.latest == nil || seq > g.latest.Seq {
		g.latest = &res
	}
	g.mu.Unlock()
	return res, nil
}
