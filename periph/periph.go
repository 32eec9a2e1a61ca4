// Package periph is a small peripheral supervisor. A Set owns running
// peripherals, gives each an Emitter, and delivers their events to one
// registered callback from a single dispatch goroutine.
package periph

import (
	"context"
	"sync"

	"audioboard-go/bus"
	"audioboard-go/errcode"
	"audioboard-go/x/logx"
)

var log = logx.New("PERIPH")

// ID names a peripheral within a set.
type ID string

// Event is one notification from a peripheral.
type Event struct {
	Source ID
	Kind   string
	Data   any
}

// Emitter is handed to a peripheral at Init.
type Emitter interface {
	Emit(kind string, data any)
}

// Callback receives every event of the set on the dispatch goroutine.
type Callback func(ev Event, arg any)

// Periph is implemented by every peripheral driver.
type Periph interface {
	ID() ID
	// Init prepares hardware. It must not block.
	Init(ctx context.Context, emit Emitter) error
	// Run is the peripheral's task. It returns when ctx is done.
	Run(ctx context.Context) error
	// Destroy releases hardware after Run has returned.
	Destroy() error
}

// Config for a Set. Zero values are defaulted.
type Config struct {
	QueueLen int
}

type entry struct {
	p      Periph
	cancel context.CancelFunc
	done   chan struct{}
}

// Set supervises peripherals.
type Set struct {
	bus  *bus.Bus
	conn *bus.Connection

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	periphs map[ID]*entry
	cb      Callback
	cbArg   any
	closed  bool

	dispatched chan struct{}
}

// NewSet creates a set and starts its dispatch goroutine.
func NewSet(cfg Config) *Set {
	if cfg.QueueLen <= 0 {
		cfg.QueueLen = 16
	}
	ctx, cancel := context.WithCancel(context.Background())
	b := bus.NewBus(cfg.QueueLen)
	s := &Set{
		bus:        b,
		conn:       b.NewConnection("periph_set"),
		ctx:        ctx,
		cancel:     cancel,
		periphs:    map[ID]*entry{},
		dispatched: make(chan struct{}),
	}
	sub := s.conn.Subscribe(bus.T("periph", bus.Multi))
	go s.dispatch(sub)
	return s
}

func (s *Set) dispatch(sub *bus.Subscription) {
	defer close(s.dispatched)
	for msg := range sub.Channel() {
		ev, ok := msg.Payload.(Event)
		if !ok {
			continue
		}
		s.mu.Lock()
		cb, arg := s.cb, s.cbArg
		s.mu.Unlock()
		if cb != nil {
			cb(ev, arg)
		}
	}
}

// RegisterCallback replaces the set's event callback. arg is passed back on
// every call.
func (s *Set) RegisterCallback(cb Callback, arg any) {
	s.mu.Lock()
	s.cb, s.cbArg = cb, arg
	s.mu.Unlock()
}

type emitter struct {
	conn *bus.Connection
	id   ID
}

func (e emitter) Emit(kind string, data any) {
	e.conn.Publish(&bus.Message{
		Topic:   bus.T("periph", string(e.id), kind),
		Payload: Event{Source: e.id, Kind: kind, Data: data},
	})
}

// Start initialises p and runs it on its own goroutine.
func (s *Set) Start(p Periph) error {
	if p == nil {
		return errcode.InvalidParams
	}
	id := p.ID()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errcode.NotInitialized
	}
	if _, dup := s.periphs[id]; dup {
		s.mu.Unlock()
		return errcode.Busy
	}
	// Reserve the id while Init runs.
	e := &entry{p: p, done: make(chan struct{})}
	s.periphs[id] = e
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(s.ctx)
	if err := p.Init(ctx, emitter{conn: s.conn, id: id}); err != nil {
		cancel()
		s.mu.Lock()
		delete(s.periphs, id)
		s.mu.Unlock()
		log.Errorf("%s init failed: %v", id, err)
		return errcode.Wrap(errcode.Fail, "periph_start", err)
	}
	s.mu.Lock()
	if s.periphs[id] != e {
		// Stopped or destroyed while Init ran; Destroy was already called.
		s.mu.Unlock()
		cancel()
		return errcode.NotInitialized
	}
	e.cancel = cancel
	s.mu.Unlock()

	go func() {
		defer close(e.done)
		if err := p.Run(ctx); err != nil && ctx.Err() == nil {
			log.Errorf("%s stopped: %v", id, err)
		}
	}()
	log.Debugf("%s started", id)
	return nil
}

// Get returns a running peripheral.
func (s *Set) Get(id ID) (Periph, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.periphs[id]
	if !ok {
		return nil, false
	}
	return e.p, true
}

// Stop cancels the peripheral's task, waits for it and destroys it.
func (s *Set) Stop(id ID) error {
	s.mu.Lock()
	e, ok := s.periphs[id]
	if ok {
		delete(s.periphs, id)
	}
	s.mu.Unlock()
	if !ok {
		return errcode.UnknownPeriph
	}
	return e.stop()
}

func (e *entry) stop() error {
	if e.cancel != nil {
		e.cancel()
		<-e.done
	}
	return e.p.Destroy()
}

// Destroy stops every peripheral and the dispatch goroutine. The first
// peripheral error is returned; all peripherals are stopped regardless.
func (s *Set) Destroy() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	entries := make([]*entry, 0, len(s.periphs))
	for id, e := range s.periphs {
		entries = append(entries, e)
		delete(s.periphs, id)
	}
	s.mu.Unlock()

	var first error
	for _, e := range entries {
		if err := e.stop(); err != nil && first == nil {
			first = err
		}
	}
	s.cancel()
	s.conn.Disconnect()
	<-s.dispatched
	return first
}
