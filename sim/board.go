package sim

import (
	"audioboard-go/board"
	"audioboard-go/periph/adcbutton"
	"audioboard-go/platform"
)

// Korvo1 is a complete simulated board.
type Korvo1 struct {
	Bus     *Bus
	ES8311  *Chip
	ES7210  *Chip
	Buttons *Ladder
	Card    *SlowMounter
}

// NewKorvo1 builds a simulated board whose card becomes ready after
// cardDelay failed mounts.
func NewKorvo1(cardDelay int) *Korvo1 {
	dac, adc := ES8311(), ES7210()
	return &Korvo1{
		Bus:     NewBus(dac, adc),
		ES8311:  dac,
		ES7210:  adc,
		Buttons: NewLadder(board.ButtonSteps, adcbutton.DefaultConfig().FullScaleMilliV),
		Card:    &SlowMounter{FailFirst: cardDelay},
	}
}

// Resources exposes the simulated hardware to board.NewKorvo1.
func (k *Korvo1) Resources() platform.Resources {
	return platform.Resources{
		I2C:       k.Bus,
		ButtonADC: k.Buttons,
		SDMounter: k.Card,
	}
}
