package es7210

import (
	"errors"
	"testing"

	"audioboard-go/audiohal"
)

type regBus struct {
	regs [256]uint8
}

func newRegBus() *regBus {
	b := &regBus{}
	b.regs[RegChipID1] = chipID1
	b.regs[RegChipID0] = chipID0
	return b
}

func (b *regBus) Tx(addr uint16, w, r []byte) error {
	if addr != Address || len(w) == 0 {
		return errors.New("nack")
	}
	if len(r) > 0 {
		r[0] = b.regs[w[0]]
		return nil
	}
	if len(w) == 2 {
		b.regs[w[0]] = w[1]
	}
	return nil
}

func TestConfigureChecks(t *testing.T) {
	b := newRegBus()
	if err := New(b).Configure(48000, Config{Gain: MaxGain + 1}); !errors.Is(err, ErrGain) {
		t.Fatalf("gain = %v", err)
	}
	if err := New(b).Configure(11025); !errors.Is(err, ErrSampleRate) {
		t.Fatalf("rate = %v", err)
	}
	b.regs[RegChipID1] = 0x83
	if err := New(b).Configure(48000); !errors.Is(err, ErrChipID) {
		t.Fatalf("chip = %v", err)
	}
}

func TestConfigureWritesDivider(t *testing.T) {
	b := newRegBus()
	if err := New(b).Configure(16000, Config{Master: true}); err != nil {
		t.Fatal(err)
	}
	if b.regs[RegLRCKDivH] != 0x01 || b.regs[RegLRCKDivL] != 0x00 {
		t.Fatalf("lrck div = %#x%02x, want 0x100", b.regs[RegLRCKDivH], b.regs[RegLRCKDivL])
	}
	if b.regs[RegModeConfig]&modeMaster == 0 {
		t.Fatal("master bit not set")
	}
}

func TestStartAppliesGainToEnabledMics(t *testing.T) {
	b := newRegBus()
	d := New(b)
	if err := d.Configure(48000, Config{Mics: 0x03, Gain: 7}); err != nil {
		t.Fatal(err)
	}
	if err := d.Start(); err != nil {
		t.Fatal(err)
	}
	for i := uint8(0); i < 4; i++ {
		want := uint8(0)
		if i < 2 {
			want = gainEnable | 7
		}
		if got := b.regs[RegMic1Gain+i]; got != want {
			t.Fatalf("mic%d gain = %#x, want %#x", i+1, got, want)
		}
	}
	if b.regs[RegMic12Power] != 0x00 || b.regs[RegMic34Power] != 0xFF {
		t.Fatalf("mic power = %#x/%#x", b.regs[RegMic12Power], b.regs[RegMic34Power])
	}
}

func TestCodecThroughHAL(t *testing.T) {
	b := newRegBus()
	h, err := audiohal.Init(audiohal.ES7210Config(), Descriptor(b, Config{}))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := b.regs[RegSDPInterface]; got != 0x60 {
		t.Fatalf("sdp = %#x, want 16-bit I2S", got)
	}
	if err := h.SetMute(true); err != nil {
		t.Fatal(err)
	}
	if v, _ := h.Volume(); v != 0 {
		t.Fatalf("muted volume = %d", v)
	}
	if err := h.Deinit(); err != nil {
		t.Fatal(err)
	}
	if b.regs[RegClockOff] != clocksOff {
		t.Fatalf("clocks still on: %#x", b.regs[RegClockOff])
	}
}
