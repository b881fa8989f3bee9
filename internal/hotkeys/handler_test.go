package hotkeys

import (
	"sort"
	"testing"

	"github.com/1broseidon/coco/internal/config"
)

type counts struct {
	shows, hides, toggles int
}

func (c *counts) actions() Actions {
	return Actions{
		Show:   func() error { c.shows++; return nil },
		Hide:   func() error { c.hides++; return nil },
		Toggle: func() error { c.toggles++; return nil },
	}
}

func TestBindings_SkipsEmptySequences(t *testing.T) {
	actions := &counts{}
	got := Bindings(config.HotkeyConfig{Show: "Mod4-space", Toggle: "Mod4-grave"}, actions.actions())

	if len(got) != 2 {
		t.Fatalf("len(Bindings) = %d, want 2", len(got))
	}
	if got[0].Name != "show" || got[0].Keys != "Mod4-space" {
		t.Fatalf("first binding = %+v", got[0])
	}
	if got[1].Name != "toggle" || got[1].Keys != "Mod4-grave" {
		t.Fatalf("second binding = %+v", got[1])
	}

	for _, b := range got {
		b.Run()
	}
	if actions.shows != 1 || actions.toggles != 1 || actions.hides != 0 {
		t.Fatalf("actions = %+v", actions)
	}
}

func TestIgnoreMasks(t *testing.T) {
	tests := []struct {
		name  string
		locks []uint16
		want  []uint16
	}{
		{"caps only", []uint16{2, 0, 0}, []uint16{0, 2}},
		{"caps and numlock", []uint16{2, 16, 0}, []uint16{0, 2, 16, 18}},
		{"duplicate masks", []uint16{2, 2, 16}, []uint16{0, 2, 16, 18}},
		{"three locks", []uint16{2, 16, 128}, []uint16{0, 2, 16, 18, 128, 130, 144, 146}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ignoreMasks(tt.locks...)
			sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
			if len(got) != len(tt.want) {
				t.Fatalf("ignoreMasks() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("ignoreMasks() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestBindings_SkipsNilActions(t *testing.T) {
	got := Bindings(config.HotkeyConfig{Show: "Mod4-space", Hide: "Escape"}, Actions{Show: func() error { return nil }})
	if len(got) != 1 || got[0].Name != "show" {
		t.Fatalf("Bindings() = %+v", got)
	}
}
