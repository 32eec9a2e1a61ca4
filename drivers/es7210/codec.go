package es7210

import (
	"audioboard-go/audiohal"
	"audioboard-go/x/mathx"

	"tinygo.org/x/drivers"
)

// Descriptor is the audiohal default handle for an ES7210 on bus.
func Descriptor(bus drivers.I2C, cfg Config) audiohal.Descriptor {
	return audiohal.Descriptor{
		Name: "es7210",
		New:  func() (audiohal.Codec, error) { return &codec{dev: New(bus), cfg: cfg}, nil },
	}
}

type codec struct {
	dev *Device
	cfg Config
}

func (c *codec) Initialize(hc audiohal.CodecConfig) error {
	cfg := c.cfg
	cfg.Master = hc.Iface.Role == audiohal.RoleMaster
	return c.dev.Configure(hc.Iface.SampleRate, cfg)
}

func (c *codec) Deinitialize() error { return c.dev.Stop() }

// Ctrl ignores mode: the ES7210 only records.
func (c *codec) Ctrl(_ audiohal.Mode, state audiohal.State) error {
	if state == audiohal.Stop {
		return c.dev.Stop()
	}
	return c.dev.Start()
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
