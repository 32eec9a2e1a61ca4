package logx

import (
	"bytes"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevLevel := GetLevel()
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(nil)
		SetLevel(prevLevel)
	})
	return &buf
}

func TestLineFormat(t *testing.T) {
	buf := capture(t)
	SetLevel(LevelInfo)

	New("AUDIO_BOARD").Warnf("already initialized %d", 1)

	line := buf.String()
	if !strings.HasPrefix(line, "W (") {
		t.Fatalf("line %q missing level prefix", line)
	}
	if !strings.HasSuffix(line, "AUDIO_BOARD: already initialized 1\n") {
		t.Fatalf("line %q missing tag/message", line)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t)
	lg := New("T")

	SetLevel(LevelWarn)
	lg.Debugf("d")
	lg.Infof("i")
	lg.Warnf("w")
	lg.Errorf("e")
	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Fatalf("got %d lines at WARN, want 2: %q", got, buf.String())
	}

	buf.Reset()
	SetLevel(LevelNone)
	lg.Errorf("e")
	if buf.Len() != 0 {
		t.Fatalf("NONE should silence output, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"debug": LevelDebug, "INFO": LevelInfo, "warning": LevelWarn, "Error": LevelError, "none": LevelNone,
	} {
		got, ok := ParseLevel(in)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v,%v want %v", in, got, ok, want)
		}
	}
	if _, ok := ParseLevel("loud"); ok {
		t.Fatal("ParseLevel accepted an unknown level")
	}
}
