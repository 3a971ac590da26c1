package main

import (
	"testing"
	"time"

	"github.com/milk9111/drivesim/prefabs"
	"github.com/rs/zerolog"
)

func TestGameCloseStopsWatcher(t *testing.T) {
	w, err := prefabs.NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	g := &Game{log: zerolog.Nop(), watcher: w}

	g.Close()
	select {
	case _, ok := <-w.Events:
		if ok {
			t.Fatalf("expected the watcher's event channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatalf("watcher was not closed")
	}

	g.Close()
	var nilGame *Game
	nilGame.Close()
}
