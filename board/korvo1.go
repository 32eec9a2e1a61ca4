package board

import (
	"audioboard-go/drivers/es7210"
	"audioboard-go/drivers/es8311"
	"audioboard-go/periph"
	"audioboard-go/periph/adcbutton"
	"audioboard-go/periph/sdcard"
	"audioboard-go/platform"
)

// Korvo1Drivers builds the board collaborators from platform resources.
func Korvo1Drivers(res platform.Resources) Drivers {
	return Drivers{
		Codec:     es8311.Descriptor(res.I2C),
		ADC:       es7210.Descriptor(res.I2C, es7210.Config{Mics: 0x07}),
		ButtonADC: res.ButtonADC,
		NewButtons: func(cfg adcbutton.Config) periph.Periph {
			// Keep a nil *Button from becoming a non-nil interface.
			if b := adcbutton.New(cfg); b != nil {
				return b
			}
			return nil
		},
		NewSDCard: func(cfg sdcard.Config) SDCard {
			if c := sdcard.New(cfg, res.SDMounter, res.SDDetector); c != nil {
				return c
			}
			return nil
		},
	}
}

// NewKorvo1 is a manager for the Korvo-1 on res.
func NewKorvo1(res platform.Resources) *Manager {
	cfg := DefaultConfig()
	cfg.SDDetectPin = platform.Korvo1.SDDetect
	return New(cfg, Korvo1Drivers(res))
}
