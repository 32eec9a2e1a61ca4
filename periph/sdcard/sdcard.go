// Package sdcard supervises an SD card slot: it mounts the card when it is
// present and unmounts it when it goes away.
package sdcard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"audioboard-go/periph"
	"audioboard-go/x/logx"
	"audioboard-go/x/timex"
)

var log = logx.New("SDCARD")

// ID is the peripheral id within a set.
const ID periph.ID = "sdcard"

// Event kinds.
const (
	EventMounted    = "mounted"
	EventUnmounted  = "unmounted"
	EventMountError = "mount_error"
)

// Mode is the SDMMC bus width.
type Mode uint8

const (
	Mode1Line Mode = iota + 1
	Mode4Line
	ModeSPI
)

func (m Mode) String() string {
	switch m {
	case Mode1Line:
		return "1-line"
	case Mode4Line:
		return "4-line"
	case ModeSPI:
		return "spi"
	default:
		return "unknown"
	}
}

// NoDetectPin means the card is assumed present.
const NoDetectPin = -1

// Config for New.
type Config struct {
	Root      string
	DetectPin int
	Mode      Mode
	// PollInterval is how often the detect line is checked. Default 100 ms.
	PollInterval time.Duration
}

// Mounter attaches a filesystem at root.
type Mounter interface {
	Mount(root string, mode Mode) error
	Unmount(root string) error
}

// Detector reports the card-detect line.
type Detector interface {
	Inserted() bool
}

// Card is the SD card peripheral.
type Card struct {
	cfg     Config
	mounter Mounter
	det     Detector

	mu      sync.Mutex // serialises mount/unmount
	mounted atomic.Bool
	emit    periph.Emitter
}

// New returns nil when there is nothing to mount with.
func New(cfg Config, m Mounter, det Detector) *Card {
	if m == nil || cfg.Root == "" {
		return nil
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 100 * time.Millisecond
	}
	if cfg.DetectPin < 0 {
		det = nil
	}
	return &Card{cfg: cfg, mounter: m, det: det}
}

func (c *Card) ID() periph.ID   { return ID }
func (c *Card) Config() Config  { return c.cfg }
func (c *Card) IsMounted() bool { return c.mounted.Load() }

func (c *Card) Init(_ context.Context, emit periph.Emitter) error {
	c.emit = emit
	return nil
}

func (c *Card) present() bool { return c.det == nil || c.det.Inserted() }

// Run checks the slot immediately and then every PollInterval.
func (c *Card) Run(ctx context.Context) error {
	t := time.NewTimer(0)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			c.Check()
			timex.ResetTimer(t, c.cfg.PollInterval)
		}
	}
}

// Check reconciles the mount state with the slot once.
func (c *Card) Check() {
	c.mu.Lock()
	defer c.mu.Unlock()

	present, mounted := c.present(), c.mounted.Load()
	switch {
	case present && !mounted:
		if err := c.mounter.Mount(c.cfg.Root, c.cfg.Mode); err != nil {
			log.Debugf("mount %s: %v", c.cfg.Root, err)
			c.send(EventMountError, err)
			return
		}
		c.mounted.Store(true)
		log.Infof("mounted %s (%s)", c.cfg.Root, c.cfg.Mode)
		c.send(EventMounted, c.cfg.Root)
	case !present && mounted:
		c.unmount()
		c.send(EventUnmounted, c.cfg.Root)
	}
}

func (c *Card) unmount() error {
	err := c.mounter.Unmount(c.cfg.Root)
	c.mounted.Store(false)
	if err != nil {
		log.Warnf("unmount %s: %v", c.cfg.Root, err)
	}
	return err
}

func (c *Card) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted.Load() {
		return nil
	}
	return c.unmount()
}

func (c *Card) send(kind string, data any) {
	if c.emit != nil {
		c.emit.Emit(kind, data)
	}
}
