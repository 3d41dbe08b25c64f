package logger

import "testing"

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "warn", "off", ""} {
		log, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		log.With("mode", mode).Debug("logger ready", "ok", true)
	}
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Info("discarded", "key", "value")
	log.Sync()
}
