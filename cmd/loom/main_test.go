package main

import (
	"os"
	"syscall"
	"testing"
	"time"
)

func TestWatchSignals(t *testing.T) {
	tests := []struct {
		name     string
		signal   bool
		wantStop bool
	}{
		{"signal stops the view", true, true},
		{"done releases the watcher", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signals := make(chan os.Signal, 1)
			done := make(chan struct{})
			stopped := false
			if tt.signal {
				signals <- syscall.SIGTERM
			} else {
				close(done)
			}

			returned := make(chan struct{})
			go func() {
				watchSignals(signals, func() { stopped = true }, done)
				close(returned)
			}()
			select {
			case <-returned:
			case <-time.After(time.Second):
				t.Fatal("watchSignals did not return")
			}
			if stopped != tt.wantStop {
				t.Errorf("stopped = %v, want %v", stopped, tt.wantStop)
			}
		})
	}
}
