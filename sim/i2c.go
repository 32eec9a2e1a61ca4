// Package sim emulates Korvo-1 hardware on a host: codec register files
// behind an I2C bus, a button ladder and a slow SD card.
package sim

import (
	"errors"
	"sync"
)

// ErrNack is returned for transfers to an address with no chip.
var ErrNack = errors.New("sim: i2c nack")

// Chip is a byte-addressed register file. Multi-byte transfers auto-increment.
type Chip struct {
	Name string
	Addr uint16

	mu     sync.Mutex
	regs   [256]uint8
	writes []uint8
	fail   error
}

// NewChip returns a chip with the given power-on register values.
func NewChip(name string, addr uint16, defaults map[uint8]uint8) *Chip {
	c := &Chip{Name: name, Addr: addr}
	for r, v := range defaults {
		c.regs[r] = v
	}
	return c
}

// ES8311 at 0x18 reporting chip id 0x8311.
func ES8311() *Chip {
	return NewChip("es8311", 0x18, map[uint8]uint8{0xFD: 0x83, 0xFE: 0x11})
}

// ES7210 at 0x40 reporting chip id 0x7210.
func ES7210() *Chip {
	return NewChip("es7210", 0x40, map[uint8]uint8{0x3D: 0x72, 0x3E: 0x10})
}

// Reg reads a register without going through the bus.
func (c *Chip) Reg(r uint8) uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[r]
}

// Writes returns the register addresses written so far, in order.
func (c *Chip) Writes() []uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]uint8(nil), c.writes...)
}

// Fail makes every later transfer return err. nil restores the chip.
func (c *Chip) Fail(err error) {
	c.mu.Lock()
	c.fail = err
	c.mu.Unlock()
}

func (c *Chip) tx(w, r []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	if len(w) == 0 {
		return nil
	}
	reg := w[0]
	for _, v := range w[1:] {
		c.regs[reg] = v
		c.writes = append(c.writes, reg)
		reg++
	}
	for i := range r {
		r[i] = c.regs[reg]
		reg++
	}
	return nil
}

// Bus is an I2C bus with chips attached. It satisfies tinygo.org/x/drivers.I2C.
type Bus struct {
	mu    sync.Mutex
	chips map[uint16]*Chip
}

// NewBus attaches chips by their address.
func NewBus(chips ...*Chip) *Bus {
	b := &Bus{chips: map[uint16]*Chip{}}
	for _, c := range chips {
		b.chips[c.Addr] = c
	}
	return b
}

// Detach removes the chip at addr; later transfers to it NACK.
func (b *Bus) Detach(addr uint16) {
	b.mu.Lock()
	delete(b.chips, addr)
	b.mu.Unlock()
}

// Chip returns the chip at addr.
func (b *Bus) Chip(addr uint16) (*Chip, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.chips[addr]
	return c, ok
}

// Tx writes w then reads into r, as one transaction with a repeated start.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	c, ok := b.Chip(addr)
	if !ok {
		return ErrNack
	}
	return c.tx(w, r)
}
