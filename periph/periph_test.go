package periph

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"audioboard-go/errcode"
)

type fakePeriph struct {
	id        ID
	initErr   error
	destroyed chan struct{}
	emit      Emitter
	ran       chan struct{}
}

func newFake(id ID) *fakePeriph {
	return &fakePeriph{id: id, destroyed: make(chan struct{}), ran: make(chan struct{})}
}

func (f *fakePeriph) ID() ID { return f.id }
func (f *fakePeriph) Init(_ context.Context, e Emitter) error {
	f.emit = e
	return f.initErr
}
func (f *fakePeriph) Run(ctx context.Context) error {
	close(f.ran)
	<-ctx.Done()
	return nil
}
func (f *fakePeriph) Destroy() error {
	close(f.destroyed)
	return nil
}

func TestCallbackReceivesEvents(t *testing.T) {
	s := NewSet(Config{})
	defer s.Destroy()

	var mu sync.Mutex
	var got []Event
	done := make(chan struct{}, 2)
	s.RegisterCallback(func(ev Event, arg any) {
		if arg.(string) != "ctx" {
			t.Errorf("arg = %v", arg)
		}
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
		done <- struct{}{}
	}, "ctx")

	p := newFake("btn")
	if err := s.Start(p); err != nil {
		t.Fatalf("Start: %v", err)
	}
	p.emit.Emit("pressed", 3)
	p.emit.Emit("released", 3)

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(200 * time.Millisecond):
			t.Fatal("timeout waiting for callback")
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if got[0].Source != "btn" || got[0].Kind != "pressed" || got[0].Data.(int) != 3 {
		t.Fatalf("first event = %+v", got[0])
	}
	if got[1].Kind != "released" {
		t.Fatalf("second event = %+v", got[1])
	}
}

func TestStartDuplicateAndInitFailure(t *testing.T) {
	s := NewSet(Config{})
	defer s.Destroy()

	if err := s.Start(newFake("a")); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(newFake("a")); !errors.Is(err, errcode.Busy) {
		t.Fatalf("duplicate Start = %v, want busy", err)
	}

	bad := newFake("b")
	bad.initErr = errors.New("no adc")
	if err := s.Start(bad); errcode.Of(err) != errcode.Fail {
		t.Fatalf("failing Init = %v", err)
	}
	if _, ok := s.Get("b"); ok {
		t.Fatal("failed peripheral left registered")
	}
	if err := s.Start(nil); !errors.Is(err, errcode.InvalidParams) {
		t.Fatalf("nil periph = %v", err)
	}
}

func TestStopAndDestroy(t *testing.T) {
	s := NewSet(Config{})
	a, b := newFake("a"), newFake("b")
	for _, p := range []*fakePeriph{a, b} {
		if err := s.Start(p); err != nil {
			t.Fatal(err)
		}
		<-p.ran
	}

	if err := s.Stop("a"); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	<-a.destroyed
	if err := s.Stop("a"); !errors.Is(err, errcode.UnknownPeriph) {
		t.Fatalf("second Stop = %v", err)
	}

	if err := s.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	select {
	case <-b.destroyed:
	default:
		t.Fatal("Destroy did not destroy running peripheral")
	}
	if err := s.Start(newFake("c")); !errors.Is(err, errcode.NotInitialized) {
		t.Fatalf("Start after Destroy = %v", err)
	}
	if err := s.Destroy(); err != nil {
		t.Fatalf("second Destroy = %v", err)
	}
}
