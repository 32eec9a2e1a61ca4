// Package adcbutton reads a resistor-ladder button array on an ADC channel.
// Each array is a list of ascending voltage steps; a reading between step i
// and step i+1 means button i is held.
package adcbutton

import (
	"context"
	"time"

	"audioboard-go/periph"
	"audioboard-go/x/mathx"
	"audioboard-go/x/timex"
)

// ID is the peripheral id within a set.
const ID periph.ID = "adc_btn"

// Event kinds.
const (
	EventPressed      = "pressed"
	EventReleased     = "released"
	EventLongPressed  = "long_pressed"
	EventLongReleased = "long_released"
)

// ADC is a single analog input. Get returns the full 0..0xffff span, as
// TinyGo's machine.ADC does.
type ADC interface {
	Get() uint16
}

// ADCFunc adapts a function to ADC.
type ADCFunc func() uint16

func (f ADCFunc) Get() uint16 { return f() }

// Array is one ladder on one channel.
type Array struct {
	Channel ADC
	// Steps are ascending thresholds in millivolts; len(Steps) >= TotalSteps+1.
	Steps      []int
	TotalSteps int
}

// Config for New. Zero durations and counts take DefaultConfig values.
type Config struct {
	Arrays          []Array
	FullScaleMilliV uint32
	SampleInterval  time.Duration
	DebounceSamples int
	LongPress       time.Duration
}

// DefaultConfig has no arrays; callers append theirs.
func DefaultConfig() Config {
	return Config{
		FullScaleMilliV: 3300,
		SampleInterval:  20 * time.Millisecond,
		DebounceSamples: 3,
		LongPress:       2 * time.Second,
	}
}

// ButtonEvent is the Data of every event this peripheral emits.
type ButtonEvent struct {
	Array int // index into Config.Arrays
	ActID int // interval index, i.e. the button
}

type arrayState struct {
	stable    int
	candidate int
	count     int
	heldFor   int
	longSent  bool
}

// Button is the ADC button peripheral.
type Button struct {
	cfg       Config
	longTicks int
	states    []arrayState
	emit      periph.Emitter
}

// New validates cfg and returns nil if it cannot describe a usable ladder.
func New(cfg Config) *Button {
	def := DefaultConfig()
	if cfg.FullScaleMilliV == 0 {
		cfg.FullScaleMilliV = def.FullScaleMilliV
	}
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = def.SampleInterval
	}
	if cfg.DebounceSamples <= 0 {
		cfg.DebounceSamples = def.DebounceSamples
	}
	if cfg.LongPress <= 0 {
		cfg.LongPress = def.LongPress
	}
	if len(cfg.Arrays) == 0 {
		return nil
	}
	for _, a := range cfg.Arrays {
		if !validArray(a) {
			return nil
		}
	}
	b := &Button{
		cfg:       cfg,
		longTicks: int(cfg.LongPress / cfg.SampleInterval),
		states:    make([]arrayState, len(cfg.Arrays)),
	}
	for i := range b.states {
		b.states[i] = arrayState{stable: -1, candidate: -1}
	}
	return b
}

func validArray(a Array) bool {
	if a.Channel == nil || a.TotalSteps <= 0 || len(a.Steps) < a.TotalSteps+1 {
		return false
	}
	for i := 1; i <= a.TotalSteps; i++ {
		if a.Steps[i] <= a.Steps[i-1] {
			return false
		}
	}
	return true
}

// Classify returns the interval index for mV, or -1 when no button is held.
func Classify(steps []int, total int, mV int) int {
	for i := 0; i < total && i+1 < len(steps); i++ {
		if mathx.Between(mV, steps[i], steps[i+1]) {
			return i
		}
	}
	return -1
}

// Config returns the effective configuration.
func (b *Button) Config() Config { return b.cfg }

func (b *Button) ID() periph.ID { return ID }

func (b *Button) Init(_ context.Context, emit periph.Emitter) error {
	b.emit = emit
	return nil
}

func (b *Button) Run(ctx context.Context) error {
	t := time.NewTimer(b.cfg.SampleInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			b.Sample()
			timex.ResetTimer(t, b.cfg.SampleInterval)
		}
	}
}

func (b *Button) Destroy() error { return nil }

// Sample reads every array once and emits any resulting events.
func (b *Button) Sample() {
	for i, a := range b.cfg.Arrays {
		mV := int(mathx.ScaleU16(a.Channel.Get(), b.cfg.FullScaleMilliV))
		b.step(i, Classify(a.Steps, a.TotalSteps, mV))
	}
}

func (b *Button) step(i, idx int) {
	st := &b.states[i]
	if idx == st.candidate {
		st.count++
	} else {
		st.candidate, st.count = idx, 1
	}

	if st.count >= b.cfg.DebounceSamples && idx != st.stable {
		if st.stable >= 0 {
			kind := EventReleased
			if st.longSent {
				kind = EventLongReleased
			}
			b.send(kind, i, st.stable)
		}
		st.stable, st.heldFor, st.longSent = idx, 0, false
		if idx >= 0 {
			b.send(EventPressed, i, idx)
		}
		return
	}

	if st.stable >= 0 && !st.longSent {
		st.heldFor++
		if st.heldFor >= b.longTicks {
			st.longSent = true
			b.send(EventLongPressed, i, st.stable)
		}
	}
}

func (b *Button) send(kind string, array, act int) {
	if b.emit != nil {
		b.emit.Emit(kind, ButtonEvent{Array: array, ActID: act})
	}
}
