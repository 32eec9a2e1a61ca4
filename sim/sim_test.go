package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"audioboard-go/board"
	"audioboard-go/drivers/es7210"
	"audioboard-go/drivers/es8311"
	"audioboard-go/errcode"
	"audioboard-go/periph"
	"audioboard-go/periph/adcbutton"
	"audioboard-go/periph/sdcard"
	"audioboard-go/types"
	"audioboard-go/x/mathx"
)

func TestBusAutoIncrementAndNack(t *testing.T) {
	c := NewChip("x", 0x10, nil)
	b := NewBus(c)
	if err := b.Tx(0x10, []byte{0x20, 1, 2, 3}, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := make([]byte, 3)
	if err := b.Tx(0x10, []byte{0x20}, r); err != nil {
		t.Fatalf("read: %v", err)
	}
	if r[0] != 1 || r[1] != 2 || r[2] != 3 {
		t.Fatalf("read back %v", r)
	}
	if w := c.Writes(); len(w) != 3 || w[2] != 0x22 {
		t.Fatalf("writes = %v", w)
	}
	if err := b.Tx(0x11, []byte{0}, nil); !errors.Is(err, ErrNack) {
		t.Fatalf("absent chip err = %v", err)
	}
	b.Detach(0x10)
	if err := b.Tx(0x10, []byte{0}, nil); !errors.Is(err, ErrNack) {
		t.Fatalf("detached chip err = %v", err)
	}
}

func TestCodecsProbeOnSimulatedBus(t *testing.T) {
	k := NewKorvo1(0)
	if err := es8311.New(k.Bus).Configure(48000); err != nil {
		t.Fatalf("es8311: %v", err)
	}
	if err := es7210.New(k.Bus).Configure(48000); err != nil {
		t.Fatalf("es7210: %v", err)
	}
	if len(k.ES8311.Writes()) == 0 || len(k.ES7210.Writes()) == 0 {
		t.Fatal("drivers wrote nothing")
	}
}

func TestLadderHitsEachInterval(t *testing.T) {
	full := adcbutton.DefaultConfig().FullScaleMilliV
	l := NewLadder(board.ButtonSteps, full)
	for id := types.ButtonVolUp; id <= types.ButtonRec; id++ {
		l.Press(id)
		mV := int(mathx.ScaleU16(l.Get(), full))
		if got := adcbutton.Classify(board.ButtonSteps, board.ButtonTotalSteps, mV); got != int(id) {
			t.Fatalf("%v: classified as %d (%d mV)", id, got, mV)
		}
	}
	l.Release()
	if got := adcbutton.Classify(board.ButtonSteps, board.ButtonTotalSteps, int(mathx.ScaleU16(l.Get(), full))); got != -1 {
		t.Fatalf("idle classified as %d", got)
	}
}

func TestSlowMounter(t *testing.T) {
	m := &SlowMounter{FailFirst: 2}
	for i := 0; i < 2; i++ {
		if err := m.Mount("/sdcard", sdcard.Mode1Line); !errors.Is(err, ErrNotReady) {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}
	if err := m.Mount("/sdcard", sdcard.Mode1Line); err != nil {
		t.Fatalf("third attempt: %v", err)
	}
	if m.Attempts() != 3 {
		t.Fatalf("attempts = %d", m.Attempts())
	}
}

func TestBringUpSimulatedBoard(t *testing.T) {
	k := NewKorvo1(1)
	cfg := board.DefaultConfig()
	cfg.MountPoll.Interval = 100 * time.Millisecond
	m := board.New(cfg, board.Korvo1Drivers(k.Resources()))

	h, err := m.Init(context.Background())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if v, err := h.Codec.Volume(); err != nil || v == 0 {
		t.Fatalf("codec volume = %d, %v", v, err)
	}

	set := periph.NewSet(periph.Config{})
	defer set.Destroy()
	if err := m.InitKeys(set); err != nil {
		t.Fatalf("InitKeys: %v", err)
	}
	if err := m.InitSDCard(context.Background(), set, sdcard.Mode1Line); err != nil {
		t.Fatalf("InitSDCard: %v", err)
	}

	if res := m.Deinit(h); !res.OK() {
		t.Fatalf("Deinit: %v", res.Err())
	}
}

func TestBringUpMissingADC(t *testing.T) {
	k := NewKorvo1(0)
	k.Bus.Detach(k.ES7210.Addr)
	m := board.New(board.DefaultConfig(), board.Korvo1Drivers(k.Resources()))
	if _, err := m.Init(context.Background()); !errors.Is(err, errcode.DriverInit) {
		t.Fatalf("Init err = %v, want DriverInit", err)
	}
	if m.Handle() != nil {
		t.Fatal("handle stored")
	}
}
