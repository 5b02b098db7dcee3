package replayws

import (
	"testing"
	"time"

	"github.com/levelforge/levelforge/level"
)

func createTestLevel() *level.Definition {
	return &level.Definition{
		Name: "replayws-test-flat",
		Tiles: []level.Tile{
			{ID: "ground", Kind: level.Walkable, Rect: level.Rect{X: 0, Y: 400, W: 800, H: 32}},
		},
		Exit:       level.Point{X: 700, Y: 386},
		Difficulty: level.Band{Min: 0, Max: 10},
	}
}

func TestStreamOnceStartsSingleReplay(t *testing.T) {
	hub := NewHub(nil)
	def := createTestLevel()

	// Two upgrades on the same stream must fork exactly one replay.
	hub.StreamOnce(def.Name, def, nil, 3, false)
	hub.StreamOnce(def.Name, def, nil, 3, false)

	timeout := time.After(2 * time.Second)
	frames := 0
	for done := false; !done; {
		select {
		case f := <-hub.broadcast:
			frames++
			if f.StreamID != def.Name {
				t.Errorf("Unexpected stream id %q", f.StreamID)
			}
			done = f.Done
		case <-timeout:
			t.Fatal("Timed out waiting for replay frames")
		}
	}
	if frames != 3 {
		t.Errorf("Expected 3 frames for a 3-tick replay, got %d", frames)
	}

	// A duplicate replay would keep producing frames.
	select {
	case f := <-hub.broadcast:
		t.Fatalf("Unexpected frame after the replay finished: %+v", f)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStreamOnceSeparateStreams(t *testing.T) {
	hub := NewHub(nil)
	def := createTestLevel()

	hub.StreamOnce("one", def, nil, 1, false)
	hub.StreamOnce("two", def, nil, 1, false)

	seen := make(map[string]bool)
	timeout := time.After(2 * time.Second)
	for len(seen) < 2 {
		select {
		case f := <-hub.broadcast:
			seen[f.StreamID] = true
		case <-timeout:
			t.Fatalf("Timed out, saw streams %v", seen)
		}
	}
}
