//go:build !tinygo

package sdcard

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotDir is returned when the backing path exists but is not a directory.
var ErrNotDir = errors.New("sdcard: backing path is not a directory")

// DirMounter backs a mount root with a host directory under Base, so host
// builds and simulations can "mount" /sdcard.
type DirMounter struct {
	Base   string
	Create bool

	mu     sync.Mutex
	mounts map[string]string
}

func (d *DirMounter) Mount(root string, _ Mode) error {
	p := filepath.Join(d.Base, filepath.FromSlash(root))
	if d.Create {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return err
		}
	}
	fi, err := os.Stat(p)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return ErrNotDir
	}
	d.mu.Lock()
	if d.mounts == nil {
		d.mounts = map[string]string{}
	}
	d.mounts[root] = p
	d.mu.Unlock()
	return nil
}

func (d *DirMounter) Unmount(root string) error {
	d.mu.Lock()
	delete(d.mounts, root)
	d.mu.Unlock()
	return nil
}

// Path returns the host directory behind a mounted root.
func (d *DirMounter) Path(root string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.mounts[root]
	return p, ok
}
