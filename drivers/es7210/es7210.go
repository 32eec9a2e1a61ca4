// Package es7210 drives the Everest ES7210 four-channel microphone ADC over I2C.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when both
// w and r are provided, without releasing the bus.
package es7210

import (
	"errors"

	"tinygo.org/x/drivers"
)

// Address is the 7-bit I2C address with AD0/AD1 low.
const Address = 0x40

// Registers.
const (
	RegReset        = 0x00
	RegClockOff     = 0x01
	RegMainClk      = 0x02
	RegMasterClk    = 0x03
	RegLRCKDivH     = 0x04
	RegLRCKDivL     = 0x05
	RegPowerDown    = 0x06
	RegOSR          = 0x07
	RegModeConfig   = 0x08
	RegTimeControl0 = 0x09
	RegTimeControl1 = 0x0A
	RegSDPInterface = 0x11
	RegSDPTDM       = 0x12
	RegADC1Volume   = 0x1B
	RegADC2Volume   = 0x1C
	RegADC3Volume   = 0x1D
	RegADC4Volume   = 0x1E
	RegADC34HPF2    = 0x20
	RegADC34HPF1    = 0x21
	RegADC12HPF1    = 0x22
	RegADC12HPF2    = 0x23
	RegChipID1      = 0x3D
	RegChipID0      = 0x3E
	RegAnalog       = 0x40
	RegMic12Bias    = 0x41
	RegMic34Bias    = 0x42
	RegMic1Gain     = 0x43
	RegMic1Power    = 0x47
	RegMic12Power   = 0x4B
	RegMic34Power   = 0x4C
)

const (
	chipID1 = 0x72
	chipID0 = 0x10

	modeMaster  = 0x01
	gainEnable  = 0x10
	gainMask    = 0x0F
	wordLenMask = 0xE0
	formatMask  = 0x03
	clocksOn    = 0x00
	clocksOff   = 0x7F

	// MaxGain is the 37.5 dB PGA step.
	MaxGain = 14
)

// Errors returned by the driver.
var (
	ErrChipID     = errors.New("es7210: unexpected chip id")
	ErrSampleRate = errors.New("es7210: unsupported sample rate")
	ErrWordLength = errors.New("es7210: unsupported word length")
	ErrGain       = errors.New("es7210: gain out of range")
)

// Format is the serial audio frame format.
type Format uint8

const (
	FormatI2S  Format = 0x00
	FormatLeft Format = 0x01
	FormatDSP  Format = 0x03
)

// Config controls how the ADC is brought up. All fields are optional.
type Config struct {
	// Master selects ES7210 as I2S clock master. Default slave.
	Master bool
	// Mics is a bitmask of enabled microphones (bit0 = MIC1). Default all four.
	Mics uint8
	// Gain is the PGA step 0..MaxGain (0 dB .. 37.5 dB). Default 10 (30 dB).
	Gain uint8
}

// Device wraps an I2C connection to an ES7210.
type Device struct {
	bus     drivers.I2C
	Address uint16
	cfg     Config
	buf     [2]byte
}

// New creates a Device. The chip is not touched.
func New(bus drivers.I2C) *Device {
	return &Device{bus: bus, Address: Address}
}

func (d *Device) write(reg, val uint8) error {
	d.buf[0], d.buf[1] = reg, val
	return d.bus.Tx(d.Address, d.buf[:2], nil)
}

func (d *Device) read(reg uint8) (uint8, error) {
	d.buf[0] = reg
	if err := d.bus.Tx(d.Address, d.buf[:1], d.buf[1:2]); err != nil {
		return 0, err
	}
	return d.buf[1], nil
}

func (d *Device) update(reg, mask, val uint8) error {
	v, err := d.read(reg)
	if err != nil {
		return err
	}
	return d.write(reg, v&^mask|val&mask)
}

// Probe checks the chip id registers.
func (d *Device) Probe() error {
	id1, err := d.read(RegChipID1)
	if err != nil {
		return err
	}
	id0, err := d.read(RegChipID0)
	if err != nil {
		return err
	}
	if id1 != chipID1 || id0 != chipID0 {
		return ErrChipID
	}
	return nil
}

// Configure probes, resets and sets the clock tree for sampleRate at
// MCLK = 256*fs. The ADCs stay powered down until Start.
func (d *Device) Configure(sampleRate uint32, cfgs ...Config) error {
	c := Config{Mics: 0x0F, Gain: 10}
	if len(cfgs) > 0 {
		if cfgs[0].Mics != 0 {
			c.Mics = cfgs[0].Mics & 0x0F
		}
		if cfgs[0].Gain != 0 {
			c.Gain = cfgs[0].Gain
		}
		c.Master = cfgs[0].Master
	}
	if c.Gain > MaxGain {
		return ErrGain
	}
	d.cfg = c

	if err := d.Probe(); err != nil {
		return err
	}
	lrck, ok := lrckDiv(sampleRate)
	if !ok {
		return ErrSampleRate
	}
	mode := uint8(0)
	if c.Master {
		mode = modeMaster
	}
	for _, rv := range [][2]uint8{
		{RegReset, 0xFF},
		{RegReset, 0x41},
		{RegClockOff, 0x1F},
		{RegTimeControl0, 0x30},
		{RegTimeControl1, 0x30},
		{RegADC12HPF2, 0x2A},
		{RegADC12HPF1, 0x0A},
		{RegADC34HPF2, 0x0A},
		{RegADC34HPF1, 0x2A},
		{RegModeConfig, mode},
		{RegAnalog, 0xC3},
		{RegMic12Bias, 0x70},
		{RegMic34Bias, 0x70},
		{RegOSR, 0x20},
		{RegMainClk, 0xC1},
		{RegLRCKDivH, uint8(lrck >> 8)},
		{RegLRCKDivL, uint8(lrck)},
	} {
		if err := d.write(rv[0], rv[1]); err != nil {
			return err
		}
	}
	return nil
}

// lrckDiv returns the MCLK/LRCK divider, which is 256 for every supported rate.
func lrckDiv(hz uint32) (uint16, bool) {
	switch hz {
	case 8000, 16000, 32000, 44100, 48000:
		return 256, true
	}
	return 0, false
}

// SetFormat programs the serial port.
func (d *Device) SetFormat(f Format, bits uint8) error {
	var wl uint8
	switch bits {
	case 16:
		wl = 0x60
	case 24:
		wl = 0x00
	case 32:
		wl = 0x80
	default:
		return ErrWordLength
	}
	return d.update(RegSDPInterface, wordLenMask|formatMask, wl|uint8(f))
}

// SetGain sets the PGA step on every enabled microphone.
func (d *Device) SetGain(step uint8) error {
	if step > MaxGain {
		return ErrGain
	}
	d.cfg.Gain = step
	for i := uint8(0); i < 4; i++ {
		v := uint8(0)
		if d.cfg.Mics&(1<<i) != 0 {
			v = gainEnable | step
		}
		if err := d.update(RegMic1Gain+i, gainEnable|gainMask, v); err != nil {
			return err
		}
	}
	return nil
}

// Gain returns the configured PGA step.
func (d *Device) Gain() uint8 { return d.cfg.Gain }

// Start enables clocks, powers the enabled microphones and applies the gain.
func (d *Device) Start() error {
	var mic12, mic34 uint8 = 0xFF, 0xFF
	if d.cfg.Mics&0x03 != 0 {
		mic12 = 0x00
	}
	if d.cfg.Mics&0x0C != 0 {
		mic34 = 0x00
	}
	for _, rv := range [][2]uint8{
		{RegClockOff, clocksOn},
		{RegPowerDown, 0x00},
		{RegAnalog, 0x43},
		{RegMic1Power, 0x08},
		{RegMic1Power + 1, 0x08},
		{RegMic1Power + 2, 0x08},
		{RegMic1Power + 3, 0x08},
		{RegMic12Power, mic12},
		{RegMic34Power, mic34},
	} {
		if err := d.write(rv[0], rv[1]); err != nil {
			return err
		}
	}
	return d.SetGain(d.cfg.Gain)
}

// Stop powers every microphone and the analog block down and gates the clocks.
func (d *Device) Stop() error {
	for _, rv := range [][2]uint8{
		{RegMic1Power, 0xFF},
		{RegMic1Power + 1, 0xFF},
		{RegMic1Power + 2, 0xFF},
		{RegMic1Power + 3, 0xFF},
		{RegMic12Power, 0xFF},
		{RegMic34Power, 0xFF},
		{RegAnalog, 0xC0},
		{RegClockOff, clocksOff},
		{RegPowerDown, 0x07},
	} {
		if err := d.write(rv[0], rv[1]); err != nil {
			return err
		}
	}
	return nil
}

// SetVolume writes the digital volume of all four ADCs; 0xBF is 0 dB.
func (d *Device) SetVolume(reg uint8) error {
	for r := uint8(RegADC1Volume); r <= RegADC4Volume; r++ {
		if err := d.write(r, reg); err != nil {
			return err
		}
	}
	return nil
}

// Volume reads ADC1's digital volume.
func (d *Device) Volume() (uint8, error) { return d.read(RegADC1Volume) }

// SetMute mutes by dropping the digital volume to its floor.
func (d *Device) SetMute(mute bool) error {
	if mute {
		return d.SetVolume(0)
	}
	return d.SetVolume(0xBF)
}
