//go:build !tinygo

package platform

import (
	"errors"
	"os"
	"path/filepath"

	"audioboard-go/periph/adcbutton"
	"audioboard-go/periph/sdcard"
)

// ErrNoDevice is returned by the host I2C bus for every transfer.
var ErrNoDevice = errors.New("platform: no i2c device on host")

type hostI2C struct{}

func (hostI2C) Tx(addr uint16, w, r []byte) error { return ErrNoDevice }

// DefaultResources on a host has no codecs, an idle button ladder and a
// directory-backed card under the temp dir.
func DefaultResources() Resources {
	return Resources{
		I2C:       hostI2C{},
		ButtonADC: adcbutton.ADCFunc(func() uint16 { return 0xffff }),
		SDMounter: &sdcard.DirMounter{
			Base:   filepath.Join(os.TempDir(), "audioboard"),
			Create: true,
		},
	}
}
