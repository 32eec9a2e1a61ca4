//go:build tinygo && esp32s3

package platform

import (
	"machine"

	"audioboard-go/periph/sdcard"
)

type pinDetector struct{ p machine.Pin }

// Card detect is active low.
func (d pinDetector) Inserted() bool { return !d.p.Get() }

// DefaultResources configures I2C0 and the button ADC. SDMounter is left nil
// until a FAT layer is wired to the SDMMC slot, so InitSDCard reports
// MemoryLack on firmware.
// TODO: mount tinygo.org/x/tinyfs/fatfs over the SDMMC host once it supports the S3.
func DefaultResources() Resources {
	b := Korvo1
	i2c := machine.I2C0
	_ = i2c.Configure(machine.I2CConfig{
		SDA:       machine.Pin(b.I2CSDA),
		SCL:       machine.Pin(b.I2CSCL),
		Frequency: b.I2CFrequency,
	})

	pa := machine.Pin(b.PAEnable)
	pa.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pa.High()

	machine.InitADC()
	adc := machine.ADC{Pin: machine.Pin(b.ButtonADCPin)}
	adc.Configure(machine.ADCConfig{})

	res := Resources{I2C: i2c, ButtonADC: adc}
	if b.SDDetect != sdcard.NoDetectPin {
		p := machine.Pin(b.SDDetect)
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		res.SDDetector = pinDetector{p: p}
	}
	return res
}
