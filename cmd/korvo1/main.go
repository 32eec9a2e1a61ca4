//go:build tinygo

// Command korvo1 is the ESP32-S3-Korvo-1 firmware: it brings the board up and
// then reports status once a second.
package main

import (
	"context"
	"time"

	"audioboard-go/board"
	"audioboard-go/bus"
	"audioboard-go/periph"
	"audioboard-go/periph/sdcard"
	"audioboard-go/platform"
	"audioboard-go/services/heartbeat"
	"audioboard-go/x/logx"
)

var log = logx.New("MAIN")

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	log.Infof("boot %s", platform.Korvo1.Name)

	ctx := context.Background()
	mgr := board.NewKorvo1(platform.DefaultResources())
	board.SetDefault(mgr)

	if _, err := board.Init(ctx); err != nil {
		log.Errorf("board init: %v", err)
	}

	set := periph.NewSet(periph.Config{})
	if err := mgr.InitKeys(set); err != nil {
		log.Errorf("keys: %v", err)
	}
	if err := mgr.InitSDCard(ctx, set, sdcard.Mode1Line); err != nil {
		log.Errorf("sdcard: %v", err)
	}

	b := bus.NewBus(4)
	hb := &heartbeat.Service{
		Interval: time.Second,
		Probe: func() (bool, bool) {
			p, ok := set.Get(sdcard.ID)
			mounted := false
			if c, isCard := p.(board.SDCard); ok && isCard {
				mounted = c.IsMounted()
			}
			return board.GetHandle() != nil, mounted
		},
	}
	hb.Run(ctx, b.NewConnection("heartbeat"))
}
