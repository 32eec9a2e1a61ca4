// Package audiohal is the generic codec layer the board brings codecs up
// through. A Descriptor names a driver and knows how to construct it; Init
// applies a CodecConfig and returns a Handle that serialises all further calls.
package audiohal

import (
	"errors"
	"sync"

	"audioboard-go/x/mathx"
)

var (
	ErrInvalidConfig = errors.New("audiohal: invalid config")
	ErrNoDriver      = errors.New("audiohal: descriptor has no driver")
	ErrClosed        = errors.New("audiohal: handle deinitialized")
)

// Codec is implemented by every codec driver adaptor.
type Codec interface {
	Initialize(cfg CodecConfig) error
	Deinitialize() error
	Ctrl(mode Mode, state State) error
	ConfigIface(mode Mode, iface Iface) error
	SetMute(mute bool) error
	SetVolume(percent int) error
	Volume() (int, error)
}

// Descriptor is the default handle for a codec: a name and a constructor.
type Descriptor struct {
	Name string
	New  func() (Codec, error)
}

// Handle is an initialised codec.
type Handle struct {
	mu     sync.Mutex
	name   string
	cfg    CodecConfig
	codec  Codec
	closed bool
}

// Init constructs the codec named by desc and applies cfg: initialise, configure
// the interface for cfg.Mode, and set DefaultVolume. On any failure the driver is
// deinitialised again and no handle is returned.
func Init(cfg CodecConfig, desc Descriptor) (*Handle, error) {
	if desc.New == nil {
		return nil, ErrNoDriver
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c, err := desc.New()
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNoDriver
	}
	if err := c.Initialize(cfg); err != nil {
		return nil, err
	}
	err = c.ConfigIface(cfg.Mode, cfg.Iface)
	if err == nil {
		err = c.SetVolume(DefaultVolume)
	}
	if err != nil {
		_ = c.Deinitialize()
		return nil, err
	}
	return &Handle{name: desc.Name, cfg: cfg, codec: c}, nil
}

func (h *Handle) Name() string        { return h.name }
func (h *Handle) Config() CodecConfig { return h.cfg }

// Deinit releases the driver. Calling it twice returns ErrClosed.
func (h *Handle) Deinit() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	h.closed = true
	return h.codec.Deinitialize()
}

// Ctrl starts or stops the codec in the given mode.
func (h *Handle) Ctrl(mode Mode, state State) error {
	return h.do(func(c Codec) error { return c.Ctrl(mode, state) })
}

// SetVolume clamps percent to 0..100.
func (h *Handle) SetVolume(percent int) error {
	percent = mathx.Clamp(percent, 0, 100)
	return h.do(func(c Codec) error { return c.SetVolume(percent) })
}

func (h *Handle) Volume() (int, error) {
	var v int
	err := h.do(func(c Codec) (err error) {
		v, err = c.Volume()
		return err
	})
	return v, err
}

func (h *Handle) SetMute(mute bool) error {
	return h.do(func(c Codec) error { return c.SetMute(mute) })
}

func (h *Handle) do(fn func(Codec) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	return fn(h.codec)
}
