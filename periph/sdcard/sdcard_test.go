package sdcard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"audioboard-go/periph"
)

type fakeMounter struct {
	mu       sync.Mutex
	failures int
	mounts   int
	unmounts int
}

func (f *fakeMounter) Mount(string, Mode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("no card")
	}
	f.mounts++
	return nil
}

func (f *fakeMounter) Unmount(string) error {
	f.mu.Lock()
	f.unmounts++
	f.mu.Unlock()
	return nil
}

type pin struct{ in bool }

func (p *pin) Inserted() bool { return p.in }

type recorder struct{ kinds []string }

func (r *recorder) Emit(kind string, _ any) { r.kinds = append(r.kinds, kind) }

func TestNewRequiresMounterAndRoot(t *testing.T) {
	if New(Config{Root: "/sdcard"}, nil, nil) != nil {
		t.Fatal("nil mounter accepted")
	}
	if New(Config{}, &fakeMounter{}, nil) != nil {
		t.Fatal("empty root accepted")
	}
}

func TestCheckFollowsDetectPin(t *testing.T) {
	m, p, rec := &fakeMounter{}, &pin{}, &recorder{}
	c := New(Config{Root: "/sdcard", DetectPin: 4, Mode: Mode1Line}, m, p)
	_ = c.Init(context.Background(), rec)

	c.Check()
	if c.IsMounted() || m.mounts != 0 {
		t.Fatal("mounted with no card present")
	}
	p.in = true
	c.Check()
	if !c.IsMounted() {
		t.Fatal("not mounted after insert")
	}
	p.in = false
	c.Check()
	if c.IsMounted() || m.unmounts != 1 {
		t.Fatal("not unmounted after removal")
	}
	if len(rec.kinds) != 2 || rec.kinds[0] != EventMounted || rec.kinds[1] != EventUnmounted {
		t.Fatalf("events = %v", rec.kinds)
	}
}

func TestNoDetectPinRetriesMount(t *testing.T) {
	m, rec := &fakeMounter{failures: 2}, &recorder{}
	c := New(Config{Root: "/sdcard", DetectPin: NoDetectPin}, m, &pin{in: false})
	_ = c.Init(context.Background(), rec)

	for i := 0; i < 3; i++ {
		c.Check()
	}
	if !c.IsMounted() {
		t.Fatal("not mounted after transient failures")
	}
	if len(rec.kinds) != 3 || rec.kinds[2] != EventMounted {
		t.Fatalf("events = %v", rec.kinds)
	}
	if err := c.Destroy(); err != nil || m.unmounts != 1 || c.IsMounted() {
		t.Fatalf("Destroy: err=%v unmounts=%d", err, m.unmounts)
	}
}

func TestRunInsideSet(t *testing.T) {
	s := periph.NewSet(periph.Config{})
	defer s.Destroy()

	c := New(Config{Root: "/sdcard", DetectPin: NoDetectPin, PollInterval: time.Millisecond}, &fakeMounter{}, nil)
	if err := s.Start(c); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(time.Second)
	for !c.IsMounted() {
		if time.Now().After(deadline) {
			t.Fatal("card never mounted")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestDirMounter(t *testing.T) {
	base := t.TempDir()
	d := &DirMounter{Base: base}
	if err := d.Mount("/sdcard", Mode1Line); err == nil {
		t.Fatal("mounted a missing directory")
	}
	d.Create = true
	if err := d.Mount("/sdcard", Mode1Line); err != nil {
		t.Fatal(err)
	}
	p, ok := d.Path("/sdcard")
	if !ok || p != filepath.Join(base, "sdcard") {
		t.Fatalf("Path = %q, %v", p, ok)
	}
	_ = d.Unmount("/sdcard")
	if _, ok := d.Path("/sdcard"); ok {
		t.Fatal("still mounted")
	}

	file := filepath.Join(base, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := (&DirMounter{Base: base}).Mount("/file", Mode1Line); !errors.Is(err, ErrNotDir) {
		t.Fatalf("file mount = %v", err)
	}
}
