// Package platform describes the Korvo-1 board wiring and supplies the
// hardware resources the board manager drives.
package platform

import (
	"tinygo.org/x/drivers"

	"audioboard-go/periph/adcbutton"
	"audioboard-go/periph/sdcard"
)

// I2SPins is one I2S port. -1 marks an unused line.
type I2SPins struct {
	MCLK, BCLK, WS, DOUT, DIN int
}

// Board is a static pin and address map.
type Board struct {
	Name string

	I2CSDA, I2CSCL int
	I2CFrequency   uint32

	ES8311Addr uint16
	ES7210Addr uint16

	// I2S0 carries playback to the ES8311, I2S1 carries capture from the ES7210.
	I2S0, I2S1 I2SPins

	PAEnable int

	SDDetect int
	SDClk    int
	SDCmd    int
	SDD0     int

	// ButtonADCPin is the GPIO on the button ladder; ButtonADCChannel its ADC1 channel.
	ButtonADCPin     int
	ButtonADCChannel int
}

// Korvo1 is the ESP32-S3-Korvo-1.
var Korvo1 = Board{
	Name: "esp32-s3-korvo-1",

	I2CSDA:       1,
	I2CSCL:       2,
	I2CFrequency: 100_000,

	ES8311Addr: 0x18,
	ES7210Addr: 0x40,

	I2S0: I2SPins{MCLK: 42, BCLK: 40, WS: 41, DOUT: 39, DIN: -1},
	I2S1: I2SPins{MCLK: 20, BCLK: 10, WS: 9, DOUT: -1, DIN: 11},

	PAEnable: 38,

	SDDetect: sdcard.NoDetectPin,
	SDClk:    18,
	SDCmd:    17,
	SDD0:     16,

	ButtonADCPin:     8,
	ButtonADCChannel: 7,
}

// Resources are the live hardware handles for one board.
type Resources struct {
	I2C        drivers.I2C
	ButtonADC  adcbutton.ADC
	SDMounter  sdcard.Mounter
	SDDetector sdcard.Detector
}
