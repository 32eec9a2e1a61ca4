package sim

import (
	"errors"
	"sync"

	"audioboard-go/periph/sdcard"
)

// ErrNotReady is returned by SlowMounter until the card is ready.
var ErrNotReady = errors.New("sim: card not ready")

// SlowMounter fails the first FailFirst mounts, then delegates to Inner.
// A nil Inner succeeds without touching anything.
type SlowMounter struct {
	Inner     sdcard.Mounter
	FailFirst int

	mu       sync.Mutex
	attempts int
}

func (m *SlowMounter) Mount(root string, mode sdcard.Mode) error {
	m.mu.Lock()
	m.attempts++
	n := m.attempts
	m.mu.Unlock()
	if n <= m.FailFirst {
		return ErrNotReady
	}
	if m.Inner == nil {
		return nil
	}
	return m.Inner.Mount(root, mode)
}

func (m *SlowMounter) Unmount(root string) error {
	if m.Inner == nil {
		return nil
	}
	return m.Inner.Unmount(root)
}

// Attempts is the number of Mount calls so far.
func (m *SlowMounter) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}
