package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audioboard-go/periph/sdcard"
)

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
	assert.Equal(t, 5, p.SDCard.MountAttempts)
	assert.Equal(t, 500*time.Millisecond, p.SDCard.MountInterval)
	assert.Equal(t, "/sdcard", p.SDCard.Root)
}

func TestLoad_File(t *testing.T) {
	path := writeProfile(t, `
logging:
  level: debug
codec:
  sample_rate: 16000
  bits: 24
sdcard:
  mount_attempts: 8
  mount_interval: 250ms
`)
	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", p.Logging.Level)
	assert.Equal(t, uint32(16000), p.Codec.SampleRate)
	assert.Equal(t, uint8(24), p.Codec.Bits)
	assert.Equal(t, 8, p.SDCard.MountAttempts)
	assert.Equal(t, 250*time.Millisecond, p.SDCard.MountInterval)
	// untouched keys keep their defaults
	assert.Equal(t, 20*time.Millisecond, p.Buttons.SampleInterval)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("AUDIOBOARD_SDCARD_MOUNT_ATTEMPTS", "2")
	t.Setenv("AUDIOBOARD_BUTTONS_LONG_PRESS", "3s")
	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, p.SDCard.MountAttempts)
	assert.Equal(t, 3*time.Second, p.Buttons.LongPress)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"rate":     "codec:\n  sample_rate: 12345\n",
		"mode":     "sdcard:\n  mode: 8line\n",
		"attempts": "sdcard:\n  mount_attempts: 0\n",
		"root":     "sdcard:\n  root: sdcard\n",
		"level":    "logging:\n  level: loud\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeProfile(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	p := Default()
	p.SDCard.MountInterval = 750 * time.Millisecond
	p.Logging.File = "/tmp/board.log"
	path := filepath.Join(t.TempDir(), "sub", "board.yaml")
	require.NoError(t, Save(p, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestProfileBoard(t *testing.T) {
	p := Default()
	p.Codec.SampleRate = 16000
	p.SDCard.Mode = "4line"
	p.SDCard.MountAttempts = 3

	cfg, mode, err := p.Board()
	require.NoError(t, err)
	assert.Equal(t, sdcard.Mode4Line, mode)
	assert.Equal(t, uint32(16000), cfg.Codec.Iface.SampleRate)
	assert.Equal(t, uint32(16000), cfg.ADC.Iface.SampleRate)
	assert.Equal(t, 3, cfg.MountPoll.Attempts)
	assert.Equal(t, 500*time.Millisecond, cfg.MountPoll.Interval)

	p.SDCard.Mode = "mmc"
	_, _, err = p.Board()
	assert.Error(t, err)
}
