package widget

import "testing"

func TestStoryProgressPhases(t *testing.T) {
	p := NewStoryProgress(4, 2)
	bars := p.Bars()
	if bars[0].Phase != ProgressViewed || bars[0].Fill != 1 {
		t.Fatalf("bar 0 = %+v, want viewed/1", bars[0])
	}
	if bars[1].Phase != ProgressViewed {
		t.Fatalf("bar 1 = %+v, want viewed", bars[1])
	}
	if bars[2].Phase != ProgressActive || bars[2].Fill != 0 {
		t.Fatalf("bar 2 = %+v, want active/0", bars[2])
	}
	if bars[3].Phase != ProgressUpcoming || bars[3].Fill != 0 {
		t.Fatalf("bar 3 = %+v, want upcoming/0", bars[3])
	}
}

func TestStoryProgressTimeUpdate(t *testing.T) {
	p := NewStoryProgress(3, 1)
	p.TimeUpdate(5, 10)
	if got := p.Bars()[1].Fill; got != 0.5 {
		t.Fatalf("fill = %v, want 0.5", got)
	}
	p.TimeUpdate(20, 10)
	if got := p.Bars()[1].Fill; got != 1 {
		t.Fatalf("fill = %v, want clamp to 1", got)
	}
	p.TimeUpdate(-1, 10)
	if got := p.Bars()[1].Fill; got != 0 {
		t.Fatalf("fill = %v, want clamp to 0", got)
	}
	// Zero duration (metadata not loaded yet) must not disturb the fill.
	p.TimeUpdate(3, 6)
	p.TimeUpdate(5, 0)
	if got := p.Bars()[1].Fill; got != 0.5 {
		t.Fatalf("fill = %v, want 0.5 preserved", got)
	}
}

func TestStoryProgressSetIndexResetsActiveFill(t *testing.T) {
	p := NewStoryProgress(3, 0)
	p.TimeUpdate(9, 10)
	p.SetIndex(1)
	bars := p.Bars()
	if bars[0].Phase != ProgressViewed || bars[0].Fill != 1 {
		t.Fatalf("bar 0 = %+v, want viewed/1", bars[0])
	}
	if bars[1].Fill != 0 {
		t.Fatalf("active fill = %v, want reset to 0", bars[1].Fill)
	}
	// Jumping backwards demotes later bars to upcoming again.
	p.SetIndex(0)
	bars = p.Bars()
	if bars[1].Phase != ProgressUpcoming {
		t.Fatalf("bar 1 = %+v, want upcoming after backwards jump", bars[1])
	}
}

func TestStoryProgressEnded(t *testing.T) {
	p := NewStoryProgress(3, 1)
	next, done := p.Ended()
	if done || next != 2 {
		t.Fatalf("Ended = (%d, %v), want (2, false)", next, done)
	}
	p.SetIndex(2)
	if _, done := p.Ended(); !done {
		t.Fatalf("finishing the last story should report done")
	}
}

func TestStoryProgressIndexClamp(t *testing.T) {
	p := NewStoryProgress(3, 99)
	if p.Index() != 2 {
		t.Fatalf("Index = %d, want clamp to 2", p.Index())
	}
	p.SetIndex(-5)
	if p.Index() != 0 {
		t.Fatalf("Index = %d, want clamp to 0", p.Index())
	}
}
