package widget

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DisplaySettings captures per-shop presentation tuning: the responsive
// table, slide spacing, feedback timing, and preview behavior.
type DisplaySettings struct {
	Breakpoints      BreakpointTable `json:"breakpoints,omitempty" yaml:"breakpoints,omitempty"`
	SlideGap         int             `json:"slide_gap,omitempty" yaml:"slide_gap,omitempty"`
	FeedbackDelayMS  int             `json:"feedback_delay_ms,omitempty" yaml:"feedback_delay_ms,omitempty"`
	ResizeDelayMS    int             `json:"resize_delay_ms,omitempty" yaml:"resize_delay_ms,omitempty"`
	AutoplayPreviews bool            `json:"autoplay_previews,omitempty" yaml:"autoplay_previews,omitempty"`
	AccentColor      string          `json:"accent_color,omitempty" yaml:"accent_color,omitempty"`
}

// DefaultDisplaySettings mirrors the shipped embed constants.
func DefaultDisplaySettings() DisplaySettings {
	return DisplaySettings{
		Breakpoints:      DefaultBreakpoints,
		SlideGap:         DefaultSlideGap,
		FeedbackDelayMS:  2000,
		ResizeDelayMS:    100,
		AutoplayPreviews: true,
	}
}

// FeedbackDelay returns the transient-message dismissal delay.
func (s DisplaySettings) FeedbackDelay() time.Duration {
	return time.Duration(s.FeedbackDelayMS) * time.Millisecond
}

// ResizeDelay returns the carousel re-layout debounce period.
func (s DisplaySettings) ResizeDelay() time.Duration {
	return time.Duration(s.ResizeDelayMS) * time.Millisecond
}

// SettingsStore persists display settings per shop.
type SettingsStore interface {
	DisplaySettings(ctx context.Context, shop string) (DisplaySettings, error)
	SaveDisplaySettings(ctx context.Context, shop string, settings DisplaySettings) error
}

// InMemorySettingsStore is the concurrency-safe default store.
type InMemorySettingsStore struct {
	mu   sync.RWMutex
	data map[string]DisplaySettings
}

// NewInMemorySettingsStore creates an empty settings store.
func NewInMemorySettingsStore() *InMemorySettingsStore {
	return &InMemorySettingsStore{data: make(map[string]DisplaySettings)}
}

// DisplaySettings returns stored settings or defaults.
func (s *InMemorySettingsStore) DisplaySettings(_ context.Context, shop string) (DisplaySettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if settings, ok := s.data[shop]; ok {
		return settings, nil
	}
	return DefaultDisplaySettings(), nil
}

// SaveDisplaySettings normalizes and persists settings for a shop.
func (s *InMemorySettingsStore) SaveDisplaySettings(_ context.Context, shop string, settings DisplaySettings) error {
	if shop == "" {
		return fmt.Errorf("widget: settings store requires a shop domain")
	}
	normalizeSettings(&settings)
	if err := settings.Breakpoints.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[shop] = settings
	return nil
}

func normalizeSettings(settings *DisplaySettings) {
	if len(settings.Breakpoints) == 0 {
		settings.Breakpoints = DefaultBreakpoints
	}
	if settings.SlideGap <= 0 || settings.SlideGap > 64 {
		settings.SlideGap = DefaultSlideGap
	}
	if settings.FeedbackDelayMS <= 0 || settings.FeedbackDelayMS > 10000 {
		settings.FeedbackDelayMS = 2000
	}
	if settings.ResizeDelayMS <= 0 || settings.ResizeDelayMS > 1000 {
		settings.ResizeDelayMS = 100
	}
}
