package timex

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRealSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	err := Real.Sleep(ctx, time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("cancelled sleep blocked")
	}
}

func TestRealSleepElapses(t *testing.T) {
	if err := Real.Sleep(context.Background(), 2*time.Millisecond); err != nil {
		t.Fatalf("sleep: %v", err)
	}
}
