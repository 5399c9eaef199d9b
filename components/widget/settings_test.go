package widget

import (
	"context"
	"testing"
)

func TestSettingsStoreDefaults(t *testing.T) {
	store := NewInMemorySettingsStore()
	settings, err := store.DisplaySettings(context.Background(), "unknown.myshopify.com")
	if err != nil {
		t.Fatalf("DisplaySettings returned error: %v", err)
	}
	if settings.FeedbackDelayMS != 2000 || settings.ResizeDelayMS != 100 {
		t.Fatalf("defaults = %+v", settings)
	}
	if settings.Breakpoints.SlidesFor(1440) != 4 {
		t.Fatalf("default breakpoints missing")
	}
}

func TestSettingsStoreNormalizesOnSave(t *testing.T) {
	store := NewInMemorySettingsStore()
	ctx := context.Background()
	err := store.SaveDisplaySettings(ctx, "demo.myshopify.com", DisplaySettings{
		SlideGap:        500,
		FeedbackDelayMS: -1,
		ResizeDelayMS:   100000,
	})
	if err != nil {
		t.Fatalf("SaveDisplaySettings returned error: %v", err)
	}
	saved, _ := store.DisplaySettings(ctx, "demo.myshopify.com")
	if saved.SlideGap != DefaultSlideGap {
		t.Fatalf("SlideGap = %d, want clamp to default", saved.SlideGap)
	}
	if saved.FeedbackDelayMS != 2000 || saved.ResizeDelayMS != 100 {
		t.Fatalf("delays = %+v, want clamps to defaults", saved)
	}
}

func TestSettingsStoreRejectsBadBreakpoints(t *testing.T) {
	store := NewInMemorySettingsStore()
	err := store.SaveDisplaySettings(context.Background(), "demo.myshopify.com", DisplaySettings{
		Breakpoints: BreakpointTable{{MinWidth: -1, Slides: 2}},
	})
	if err == nil {
		t.Fatalf("expected validation error for negative breakpoint width")
	}
	if err := store.SaveDisplaySettings(context.Background(), "", DisplaySettings{}); err == nil {
		t.Fatalf("expected error for missing shop")
	}
}

func TestThemeCSSVariables(t *testing.T) {
	theme := &ThemeSelection{Tokens: map[string]string{
		"sv-accent":  "#ff0000",
		"--sv-badge": "#222",
	}}
	vars := theme.CSSVariables()
	if vars["--sv-accent"] != "#ff0000" || vars["--sv-badge"] != "#222" {
		t.Fatalf("vars = %+v", vars)
	}
	inline := theme.CSSVariablesInline()
	if inline != "--sv-accent: #ff0000; --sv-badge: #222;" {
		t.Fatalf("inline = %q", inline)
	}
	var nilTheme *ThemeSelection
	if nilTheme.CSSVariablesInline() != "" {
		t.Fatalf("nil theme should render nothing")
	}
}
