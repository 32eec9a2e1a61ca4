// Package board brings up the Korvo-1 audio board: the ES8311 playback codec,
// the ES7210 microphone codec, the ADC button ladder and the SD card.
//
// A Manager owns at most one live Handle. The package-level Init, GetHandle
// and Deinit act on a default manager for callers that need a process-wide
// board, such as firmware main.
package board

import (
	"context"
	"sync"
	"time"

	"audioboard-go/audiohal"
	"audioboard-go/errcode"
	"audioboard-go/periph"
	"audioboard-go/periph/adcbutton"
	"audioboard-go/periph/sdcard"
	"audioboard-go/x/logx"
	"audioboard-go/x/timex"
)

var log = logx.New("AUDIO_BOARD")

// Button ladder thresholds in millivolts. Seven boundaries give six buttons.
var (
	ButtonSteps      = []int{380, 820, 1100, 1650, 1980, 2410, 3000}
	ButtonTotalSteps = 6
)

// SDRoot is where the card is mounted.
const SDRoot = "/sdcard"

// Handle bundles the two codec handles of an initialised board.
type Handle struct {
	Codec *audiohal.Handle // ES8311 playback
	ADC   *audiohal.Handle // ES7210 capture
}

// SDCard is what InitSDCard needs from the card peripheral.
type SDCard interface {
	periph.Periph
	IsMounted() bool
}

// PeriphSet is the part of *periph.Set the board uses.
type PeriphSet interface {
	RegisterCallback(cb periph.Callback, arg any)
	Start(p periph.Periph) error
}

// Drivers are the collaborators a Manager builds hardware from.
type Drivers struct {
	Codec     audiohal.Descriptor
	ADC       audiohal.Descriptor
	ButtonADC adcbutton.ADC

	// NewButtons returns nil when the peripheral cannot be built.
	NewButtons func(adcbutton.Config) periph.Periph
	// NewSDCard returns nil when the peripheral cannot be built.
	NewSDCard func(sdcard.Config) SDCard
}

// MountPoll bounds the wait for a card to mount.
type MountPoll struct {
	Attempts int
	Interval time.Duration
}

// Config for a Manager. Zero fields take DefaultConfig values.
type Config struct {
	Codec audiohal.CodecConfig
	ADC   audiohal.CodecConfig

	Buttons adcbutton.Config

	SDRoot      string
	SDDetectPin int
	MountPoll   MountPoll

	Sleeper timex.Sleeper
}

// DefaultConfig is the Korvo-1 configuration.
func DefaultConfig() Config {
	return Config{
		Codec:       audiohal.ES8311Config(),
		ADC:         audiohal.ES7210Config(),
		Buttons:     adcbutton.DefaultConfig(),
		SDRoot:      SDRoot,
		SDDetectPin: sdcard.NoDetectPin,
		MountPoll:   MountPoll{Attempts: 5, Interval: 500 * time.Millisecond},
		Sleeper:     timex.Real,
	}
}

// Manager owns the board lifecycle.
type Manager struct {
	cfg Config
	drv Drivers

	mu     sync.Mutex
	handle *Handle
}

// New returns a manager. Missing config fields are defaulted.
func New(cfg Config, drv Drivers) *Manager {
	def := DefaultConfig()
	if cfg.Codec == (audiohal.CodecConfig{}) {
		cfg.Codec = def.Codec
	}
	if cfg.ADC == (audiohal.CodecConfig{}) {
		cfg.ADC = def.ADC
	}
	if cfg.Buttons.SampleInterval <= 0 {
		arrays := cfg.Buttons.Arrays
		cfg.Buttons = def.Buttons
		cfg.Buttons.Arrays = arrays
	}
	if cfg.SDRoot == "" {
		cfg.SDRoot = def.SDRoot
	}
	if cfg.MountPoll.Attempts <= 0 {
		cfg.MountPoll.Attempts = def.MountPoll.Attempts
	}
	if cfg.MountPoll.Interval <= 0 {
		cfg.MountPoll.Interval = def.MountPoll.Interval
	}
	if cfg.Sleeper == nil {
		cfg.Sleeper = def.Sleeper
	}
	return &Manager{cfg: cfg, drv: drv}
}

// Config returns the effective configuration.
func (m *Manager) Config() Config { return m.cfg }

// Init brings up both codecs and stores the handle. A second call returns the
// stored handle without touching the drivers. If the ADC codec fails the
// playback codec is deinitialised again and nothing is stored.
func (m *Manager) Init(ctx context.Context) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle != nil {
		log.Warnf("The board has already been initialized!")
		return m.handle, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	codec, err := m.initCodec()
	if err != nil {
		return nil, err
	}
	adc, err := m.initADC()
	if err != nil {
		if derr := codec.Deinit(); derr != nil {
			log.Errorf("rollback of audio codec failed: %v", derr)
		}
		return nil, err
	}
	m.handle = &Handle{Codec: codec, ADC: adc}
	log.Infof("board initialized")
	return m.handle, nil
}

// InitCodec brings up the ES8311 playback codec on its own.
func (m *Manager) InitCodec(ctx context.Context) (*audiohal.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.initCodec()
}

// InitADC brings up the ES7210 microphone codec on its own.
func (m *Manager) InitADC(ctx context.Context) (*audiohal.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.initADC()
}

func (m *Manager) initCodec() (*audiohal.Handle, error) {
	h, err := audiohal.Init(m.cfg.Codec, m.drv.Codec)
	if err != nil {
		log.Errorf("initialize audio codec failed: %v", err)
		return nil, errcode.Wrap(errcode.DriverInit, "codec_init", err)
	}
	return h, nil
}

func (m *Manager) initADC() (*audiohal.Handle, error) {
	h, err := audiohal.Init(m.cfg.ADC, m.drv.ADC)
	if err != nil {
		log.Errorf("initialize audio adc failed: %v", err)
		return nil, errcode.Wrap(errcode.DriverInit, "adc_init", err)
	}
	return h, nil
}

// Handle returns the live handle, or nil.
func (m *Manager) Handle() *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handle
}

// InitKeys starts the ADC button ladder on set and routes its events to
// ButtonPressHandler.
func (m *Manager) InitKeys(set PeriphSet) error {
	if set == nil {
		return errcode.InvalidParams
	}
	cfg := m.cfg.Buttons
	cfg.Arrays = []adcbutton.Array{{
		Channel:    m.drv.ButtonADC,
		Steps:      append([]int(nil), ButtonSteps...),
		TotalSteps: ButtonTotalSteps,
	}}
	var p periph.Periph
	if m.drv.NewButtons != nil {
		p = m.drv.NewButtons(cfg)
	}
	if p == nil {
		log.Errorf("create adc button peripheral failed")
		return errcode.MemoryLack
	}
	set.RegisterCallback(ButtonPressHandler, nil)
	return set.Start(p)
}

// InitSDCard starts the card peripheral on set and waits for it to mount.
// Only 1-line mode is wired on this board.
func (m *Manager) InitSDCard(ctx context.Context, set PeriphSet, mode sdcard.Mode) error {
	if mode != sdcard.Mode1Line {
		log.Errorf("Current board only support 1-line SD mode!")
		return errcode.Unsupported
	}
	if set == nil {
		return errcode.InvalidParams
	}
	var card SDCard
	if m.drv.NewSDCard != nil {
		card = m.drv.NewSDCard(sdcard.Config{
			Root:      m.cfg.SDRoot,
			DetectPin: m.cfg.SDDetectPin,
			Mode:      mode,
		})
	}
	if card == nil {
		log.Errorf("create sdcard peripheral failed")
		return errcode.MemoryLack
	}
	startErr := set.Start(card)

	poll := m.cfg.MountPoll
	for i := 0; i < poll.Attempts; i++ {
		if card.IsMounted() {
			return startErr
		}
		if err := m.cfg.Sleeper.Sleep(ctx, poll.Interval); err != nil {
			return errcode.Wrap(errcode.Timeout, "sdcard_init", err)
		}
	}
	log.Errorf("Sdcard mount failed")
	return errcode.MountTimeout
}
