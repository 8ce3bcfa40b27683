package engine

import (
	"testing"
	"time"
)

func TestManualScheduler_Order(t *testing.T) {
	s := NewManualScheduler()
	var got []string

	s.AfterFunc(2*time.Second, func() { got = append(got, "b") })
	s.AfterFunc(time.Second, func() { got = append(got, "a") })
	s.AfterFunc(2*time.Second, func() { got = append(got, "c") })

	s.Advance(1500 * time.Millisecond)
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("Expected only a to run, got %v", got)
	}

	s.Advance(time.Second)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if s.Now() != 2500*time.Millisecond {
		t.Errorf("Expected clock at 2.5s, got %s", s.Now())
	}
}

func TestManualScheduler_Stop(t *testing.T) {
	s := NewManualScheduler()
	ran := false

	timer := s.AfterFunc(time.Second, func() { ran = true })
	if !timer.Stop() {
		t.Error("Stop should report true for a pending task")
	}
	if timer.Stop() {
		t.Error("Second Stop should report false")
	}

	s.Advance(2 * time.Second)
	if ran {
		t.Error("Stopped task should not run")
	}
	if s.Pending() != 0 {
		t.Errorf("Expected no pending tasks, got %d", s.Pending())
	}
}

func TestManualScheduler_Rearm(t *testing.T) {
	s := NewManualScheduler()
	count := 0

	var tick func()
	tick = func() {
		count++
		s.AfterFunc(time.Second, tick)
	}
	s.AfterFunc(time.Second, tick)

	s.Advance(5 * time.Second)
	if count != 5 {
		t.Errorf("Expected 5 ticks, got %d", count)
	}
	if s.Pending() != 1 {
		t.Errorf("Expected the next tick to be pending, got %d", s.Pending())
	}
}

func TestRealScheduler(t *testing.T) {
	done := make(chan struct{})
	RealScheduler{}.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RealScheduler callback did not run")
	}
}

func TestMultiRenderer(t *testing.T) {
	a, b := newRecordingRenderer(), newRecordingRenderer()
	m := MultiRenderer{a, b, NopRenderer{}}

	m.DrawBoard(LayoutFor(Easy), make([]string, 12))
	m.SetTileState(3, Revealed)
	m.ShowMoves(2)
	m.ShowTime(7)
	m.ShowMessage("hi")

	for _, r := range []*recordingRenderer{a, b} {
		if len(r.boards) != 1 || r.states[3] != Revealed {
			t.Error("Board commands were not fanned out")
		}
		if r.moves[0] != 2 || r.times[0] != 7 || r.messages[0] != "hi" {
			t.Error("Status commands were not fanned out")
		}
	}
}
