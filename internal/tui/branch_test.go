package tui

import (
	"testing"

	"github.com/shortbar/shortbar/internal/session"
	"github.com/shortbar/shortbar/internal/shortcut"
)

func TestBranchName(t *testing.T) {
	tests := []struct {
		name    string
		mention string
		story   shortcut.Story
		want    string
	}{
		{
			name:    "simple name",
			mention: "jane",
			story:   shortcut.Story{ID: 123, Name: "Fix login flow"},
			want:    "jane/sc-123/fix-login-flow",
		},
		{
			name:    "special characters stripped",
			mention: "jane",
			story:   shortcut.Story{ID: 7, Name: "Add (better!) errors & logs"},
			want:    "jane/sc-7/add-better-errors--logs",
		},
		{
			name:    "uppercase lowered",
			mention: "jane",
			story:   shortcut.Story{ID: 1, Name: "URGENT Fix"},
			want:    "jane/sc-1/urgent-fix",
		},
		{
			name:    "missing mention falls back to user",
			mention: "",
			story:   shortcut.Story{ID: 9, Name: "thing"},
			want:    "user/sc-9/thing",
		},
		{
			name:    "long name truncated to 50",
			mention: "jane",
			story:   shortcut.Story{ID: 5, Name: "this is a very long story name that keeps going and going and going far past the limit"},
			want:    "jane/sc-5/this-is-a-very-long-story-name-that-keeps-going-an",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := branchName(tt.mention, tt.story); got != tt.want {
				t.Errorf("branchName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckoutCommand(t *testing.T) {
	story := shortcut.Story{ID: 42, Name: "Ship it"}
	want := "git checkout -b jane/sc-42/ship-it"
	if got := checkoutCommand("jane", story); got != want {
		t.Errorf("checkoutCommand() = %q, want %q", got, want)
	}
}

func TestClampCursor(t *testing.T) {
	tests := []struct {
		name    string
		cursor  int
		stories int
		want    int
	}{
		{"in range stays", 1, 3, 1},
		{"past end clamps to last", 5, 3, 2},
		{"empty list clamps to zero", 2, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Model{cursor: tt.cursor}
			m.snap = session.Snapshot{Stories: make([]shortcut.Story, tt.stories)}
			m.clampCursor()
			if m.cursor != tt.want {
				t.Errorf("cursor = %d, want %d", m.cursor, tt.want)
			}
		})
	}
}
