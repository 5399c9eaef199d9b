package widget

// ProgressPhase labels one story progress bar.
type ProgressPhase string

const (
	ProgressViewed   ProgressPhase = "viewed"
	ProgressActive   ProgressPhase = "active"
	ProgressUpcoming ProgressPhase = "upcoming"
)

// ProgressBar is the render state of a single story segment.
type ProgressBar struct {
	Phase ProgressPhase
	// Fill is the 0..1 fill ratio. Viewed bars are always 1, upcoming
	// bars always 0.
	Fill float64
}

// StoryProgress drives the per-video progress strip in story mode: bars
// before the active index are viewed, the active bar fills with playback
// time, bars after are upcoming.
type StoryProgress struct {
	bars  []ProgressBar
	index int
}

// NewStoryProgress builds the strip for count videos starting at index.
func NewStoryProgress(count, index int) *StoryProgress {
	p := &StoryProgress{bars: make([]ProgressBar, count)}
	p.SetIndex(index)
	return p
}

// SetIndex recomputes every bar for the new active video and resets the
// active fill, matching the manual-navigation contract.
func (p *StoryProgress) SetIndex(index int) {
	if index < 0 {
		index = 0
	}
	if index >= len(p.bars) && len(p.bars) > 0 {
		index = len(p.bars) - 1
	}
	p.index = index
	for i := range p.bars {
		switch {
		case i < index:
			p.bars[i] = ProgressBar{Phase: ProgressViewed, Fill: 1}
		case i == index:
			p.bars[i] = ProgressBar{Phase: ProgressActive, Fill: 0}
		default:
			p.bars[i] = ProgressBar{Phase: ProgressUpcoming, Fill: 0}
		}
	}
}

// TimeUpdate syncs the active bar with the player's currentTime/duration
// ratio. Nonsensical durations leave the fill untouched.
func (p *StoryProgress) TimeUpdate(current, duration float64) {
	if duration <= 0 || len(p.bars) == 0 {
		return
	}
	ratio := current / duration
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	p.bars[p.index].Fill = ratio
}

// Ended reports what should happen when the active video finishes: the
// next index to auto-advance to, or done when the last video completed.
func (p *StoryProgress) Ended() (next int, done bool) {
	if p.index >= len(p.bars)-1 {
		return p.index, true
	}
	return p.index + 1, false
}

// Index returns the active bar index.
func (p *StoryProgress) Index() int { return p.index }

// Bars returns a copy of the current bar states.
func (p *StoryProgress) Bars() []ProgressBar {
	return append([]ProgressBar(nil), p.bars...)
}
