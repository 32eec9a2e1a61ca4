package sim

import (
	"sync/atomic"

	"audioboard-go/types"
)

// Ladder is a resistor-ladder ADC input. Idle reads as full scale.
type Ladder struct {
	steps    []int
	fullMilV uint32
	mV       atomic.Uint32
}

// NewLadder uses steps (mV, ascending) and the converter's full-scale voltage.
func NewLadder(steps []int, fullScaleMilliV uint32) *Ladder {
	l := &Ladder{steps: append([]int(nil), steps...), fullMilV: fullScaleMilliV}
	l.Release()
	return l
}

// Press holds button id by driving the midpoint of its interval.
// Ids outside the ladder are ignored.
func (l *Ladder) Press(id types.ButtonID) {
	i := int(id)
	if i < 0 || i+1 >= len(l.steps) {
		return
	}
	l.mV.Store(uint32((l.steps[i] + l.steps[i+1]) / 2))
}

// Release returns the ladder to idle.
func (l *Ladder) Release() { l.mV.Store(l.fullMilV) }

// SetMilliV drives an arbitrary voltage.
func (l *Ladder) SetMilliV(mV uint32) { l.mV.Store(mV) }

// Get returns the reading on the 0..0xffff scale.
func (l *Ladder) Get() uint16 {
	mV := l.mV.Load()
	if mV >= l.fullMilV {
		return 0xffff
	}
	return uint16(uint64(mV) * 0xffff / uint64(l.fullMilV))
}
