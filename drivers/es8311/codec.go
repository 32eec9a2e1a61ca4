package es8311

import (
	"audioboard-go/audiohal"
	"audioboard-go/x/mathx"

	"tinygo.org/x/drivers"
)

// Descriptor is the audiohal default handle for an ES8311 on bus.
func Descriptor(bus drivers.I2C) audiohal.Descriptor {
	return audiohal.Descriptor{
		Name: "es8311",
		New:  func() (audiohal.Codec, error) { return &codec{dev: New(bus)}, nil },
	}
}

type codec struct {
	dev *Device
}

func (c *codec) Initialize(cfg audiohal.CodecConfig) error {
	return c.dev.Configure(cfg.Iface.SampleRate)
}

func (c *codec) Deinitialize() error { return c.dev.Stop() }

func (c *codec) Ctrl(mode audiohal.Mode, state audiohal.State) error {
	if state == audiohal.Stop {
		return c.dev.Stop()
	}
	dac := mode == audiohal.ModeDecode || mode == audiohal.ModeBoth || mode == audiohal.ModeLineIn
	adc := mode == audiohal.ModeEncode || mode == audiohal.ModeBoth || mode == audiohal.ModeLineIn
	return c.dev.Start(dac, adc)
}

func (c *codec) ConfigIface(_ audiohal.Mode, iface audiohal.Iface) error {
	var f Format
	switch iface.Format {
	case audiohal.FormatLeftJustified:
		f = FormatLeft
	case audiohal.FormatDSP:
		f = FormatDSP
	default:
		f = FormatI2S
	}
	return c.dev.SetFormat(f, iface.Bits)
}

func (c *codec) SetMute(mute bool) error { return c.dev.SetMute(mute) }

// Percent maps linearly onto 0x00..0xBF so that 100% is 0 dB.
func (c *codec) SetVolume(percent int) error {
	p := uint32(mathx.Clamp(percent, 0, 100))
	return c.dev.SetVolume(uint8(mathx.RoundDiv(p*0xBF, 100)))
}

func (c *codec) Volume() (int, error) {
	reg, err := c.dev.Volume()
	if err != nil {
		return 0, err
	}
	return int(mathx.Clamp(mathx.RoundDiv(uint32(reg)*100, 0xBF), 0, 100)), nil
}
