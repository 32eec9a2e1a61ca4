package board

import (
	"context"
	"sync"

	"audioboard-go/errcode"
)

var (
	defaultMu  sync.Mutex
	defaultMgr *Manager
)

// SetDefault installs the manager behind the package-level functions.
func SetDefault(m *Manager) {
	defaultMu.Lock()
	defaultMgr = m
	defaultMu.Unlock()
}

// Default returns the installed manager, or nil.
func Default() *Manager {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultMgr
}

// Init initialises the default manager.
func Init(ctx context.Context) (*Handle, error) {
	m := Default()
	if m == nil {
		return nil, errcode.NotInitialized
	}
	return m.Init(ctx)
}

// GetHandle returns the default manager's handle, or nil.
func GetHandle() *Handle {
	m := Default()
	if m == nil {
		return nil
	}
	return m.Handle()
}

// Deinit releases h through the default manager.
func Deinit(h *Handle) DeinitResult {
	m := Default()
	if m == nil {
		return DeinitResult{Outcomes: []Outcome{{Component: "board", Err: errcode.NotInitialized}}}
	}
	return m.Deinit(h)
}
