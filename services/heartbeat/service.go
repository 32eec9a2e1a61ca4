// Package heartbeat periodically logs and publishes the board status.
package heartbeat

import (
	"context"
	"time"

	"audioboard-go/bus"
	"audioboard-go/x/logx"
	"audioboard-go/x/timex"
)

var log = logx.New("HEARTBEAT")

var (
	// TopicConfig carries a Config; a new interval takes effect on the next tick.
	TopicConfig = bus.T("config", "heartbeat")
	// TopicStatus is the retained Status topic.
	TopicStatus = bus.T("board", "status")
)

// Config is the payload on TopicConfig.
type Config struct {
	Interval time.Duration
}

// Status is published on every tick.
type Status struct {
	UptimeMs    int64
	Board       bool // codecs initialised
	CardMounted bool
}

// Probe reports the live parts of Status.
type Probe func() (board, card bool)

// Service is the heartbeat loop.
type Service struct {
	Interval time.Duration
	Probe    Probe
}

func (s *Service) status(start int64) Status {
	st := Status{UptimeMs: timex.NowMs() - start}
	if s.Probe != nil {
		st.Board, st.CardMounted = s.Probe()
	}
	return st
}

// Run publishes until ctx is done.
func (s *Service) Run(ctx context.Context, conn *bus.Connection) {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Second
	}
	cfgSub := conn.Subscribe(TopicConfig)
	defer conn.Unsubscribe(cfgSub)

	start := timex.NowMs()
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Infof("heartbeat stopping")
			return
		case <-tick.C:
			st := s.status(start)
			log.Infof("up %d ms board=%t sdcard=%t", st.UptimeMs, st.Board, st.CardMounted)
			conn.Publish(&bus.Message{Topic: TopicStatus, Payload: st, Retained: true})
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			if c, ok := msg.Payload.(Config); ok && c.Interval > 0 {
				tick.Reset(c.Interval)
				log.Infof("interval set to %v", c.Interval)
			}
		}
	}
}

// Start runs the service on its own goroutine.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.Run(ctx, conn)
	return nil
}
