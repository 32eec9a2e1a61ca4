// Package es8311 drives the Everest ES8311 mono audio codec over I2C.
//
// Only the register subset the board needs is covered: chip probe, clock and
// serial-port setup for MCLK = 256*fs, DAC/ADC power sequencing, DAC volume
// and mute.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when both
// w and r are provided, without releasing the bus.
package es8311

import (
	"errors"

	"tinygo.org/x/drivers"
)

// Address is the 7-bit I2C address with CE tied low.
const Address = 0x18

// Registers.
const (
	RegReset      = 0x00
	RegClkManager = 0x01
	RegClkPreDiv  = 0x02
	RegClkADCOSR  = 0x03
	RegClkDACOSR  = 0x04
	RegClkDiv     = 0x05
	RegClkBCLK    = 0x06
	RegClkLRCKH   = 0x07
	RegClkLRCKL   = 0x08
	RegSDPIn      = 0x09
	RegSDPOut     = 0x0A
	RegSystem0B   = 0x0B
	RegSystem0C   = 0x0C
	RegSystemPwr  = 0x0D
	RegSystem0E   = 0x0E
	RegSystem10   = 0x10
	RegSystem11   = 0x11
	RegSystemDAC  = 0x12
	RegSystem13   = 0x13
	RegSystemPGA  = 0x14
	RegADCRamp    = 0x15
	RegADCGain    = 0x16
	RegADCVolume  = 0x17
	RegADCALC     = 0x1B
	RegADCEQ      = 0x1C
	RegDACMute    = 0x31
	RegDACVolume  = 0x32
	RegDACRamp    = 0x37
	RegGPIO       = 0x44
	RegGP         = 0x45
	RegChipID1    = 0xFD
	RegChipID2    = 0xFE
)

const (
	chipID1 = 0x83
	chipID2 = 0x11

	sdpMute   = 0x40
	dacMuteOn = 0x60
)

// Errors returned by the driver.
var (
	ErrChipID     = errors.New("es8311: unexpected chip id")
	ErrSampleRate = errors.New("es8311: unsupported sample rate")
	ErrWordLength = errors.New("es8311: unsupported word length")
)

// Format is the serial audio frame format.
type Format uint8

const (
	FormatI2S   Format = 0x00
	FormatLeft  Format = 0x01
	FormatDSP   Format = 0x03
	formatMask         = 0x03
	wordLenMask        = 0x1C
)

// Device wraps an I2C connection to an ES8311.
type Device struct {
	bus     drivers.I2C
	Address uint16
	buf     [2]byte
}

// New creates a Device. The I2C bus must already be configured; the chip is
// not touched.
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

type regVal struct{ reg, val uint8 }

func (d *Device) writeAll(seq []regVal) error {
	for _, rv := range seq {
		if err := d.write(rv.reg, rv.val); err != nil {
			return err
		}
	}
	return nil
}

// Probe checks the chip id registers.
func (d *Device) Probe() error {
	id1, err := d.read(RegChipID1)
	if err != nil {
		return err
	}
	id2, err := d.read(RegChipID2)
	if err != nil {
		return err
	}
	if id1 != chipID1 || id2 != chipID2 {
		return ErrChipID
	}
	return nil
}

// Configure probes the chip and brings it out of reset as an I2S slave with
// the clock tree set up for sampleRate at MCLK = 256*fs.
func (d *Device) Configure(sampleRate uint32) error {
	if err := d.Probe(); err != nil {
		return err
	}
	if !supportedRate(sampleRate) {
		return ErrSampleRate
	}
	return d.writeAll([]regVal{
		{RegClkManager, 0x30},
		{RegClkPreDiv, 0x00},
		{RegClkADCOSR, 0x10},
		{RegADCGain, 0x24},
		{RegClkDACOSR, 0x10},
		{RegClkDiv, 0x00},
		{RegSystem0B, 0x00},
		{RegSystem0C, 0x00},
		{RegSystem10, 0x1F},
		{RegSystem11, 0x7F},
		{RegReset, 0x80},
		{RegClkManager, 0x3F},
		{RegClkBCLK, 0x03},
		{RegClkLRCKH, 0x00},
		{RegClkLRCKL, 0xFF},
		{RegSystem13, 0x10},
		{RegADCALC, 0x0A},
		{RegADCEQ, 0x6A},
		{RegGPIO, 0x08},
	})
}

// supportedRate lists the rates whose 256*fs coefficients share the table row
// written by Configure.
func supportedRate(hz uint32) bool {
	switch hz {
	case 8000, 11025, 16000, 22050, 32000, 44100, 48000:
		return true
	}
	return false
}

// SetFormat programs both serial ports with the frame format and word length.
func (d *Device) SetFormat(f Format, bits uint8) error {
	var wl uint8
	switch bits {
	case 16:
		wl = 0x0C
	case 24:
		wl = 0x00
	case 32:
		wl = 0x10
	default:
		return ErrWordLength
	}
	for _, reg := range []uint8{RegSDPIn, RegSDPOut} {
		if err := d.update(reg, formatMask|wordLenMask, uint8(f)|wl); err != nil {
			return err
		}
	}
	return nil
}

// Start powers the enabled paths up and unmutes their serial ports.
func (d *Device) Start(dac, adc bool) error {
	if dac {
		if err := d.update(RegSDPIn, sdpMute, 0); err != nil {
			return err
		}
	}
	if adc {
		if err := d.update(RegSDPOut, sdpMute, 0); err != nil {
			return err
		}
	}
	return d.writeAll([]regVal{
		{RegADCVolume, 0xBF},
		{RegSystem0E, 0x02},
		{RegSystemDAC, 0x00},
		{RegSystemPGA, 0x1A},
		{RegSystemPwr, 0x01},
		{RegADCRamp, 0x40},
		{RegDACRamp, 0x08},
		{RegGP, 0x00},
	})
}

// Stop mutes and powers every analog block down.
func (d *Device) Stop() error {
	return d.writeAll([]regVal{
		{RegDACVolume, 0x00},
		{RegADCVolume, 0x00},
		{RegSystem0E, 0xFF},
		{RegSystemDAC, 0x02},
		{RegSystemPGA, 0x00},
		{RegSystemPwr, 0xFA},
		{RegADCRamp, 0x00},
		{RegDACRamp, 0x08},
		{RegClkPreDiv, 0x10},
		{RegReset, 0x00},
		{RegReset, 0x1F},
		{RegClkManager, 0x30},
		{RegClkManager, 0x00},
		{RegGP, 0x00},
		{RegSystemPwr, 0xFC},
		{RegClkPreDiv, 0x00},
	})
}

// SetVolume writes the DAC digital volume, 0 (mute) .. 255 (+32 dB); 0xBF is 0 dB.
func (d *Device) SetVolume(reg uint8) error { return d.write(RegDACVolume, reg) }

// Volume reads the DAC digital volume register.
func (d *Device) Volume() (uint8, error) { return d.read(RegDACVolume) }

// SetMute soft-mutes the DAC.
func (d *Device) SetMute(mute bool) error {
	var v uint8
	if mute {
		v = dacMuteOn
	}
	return d.update(RegDACMute, dacMuteOn, v)
}
