package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ptr[T any](v T) *T { return &v }

func TestDiff(t *testing.T) {
	base := Snapshot{
		ID:      "c-1",
		Logical: 0,
		State:   NavigationState{Position: 6, LastCommittedOffset: -1800},
		Offset:  -1800,
	}

	tests := []struct {
		name     string
		old      *Snapshot
		new      *Snapshot
		wantDiff *SnapshotDiff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new:  &base,
			wantDiff: &SnapshotDiff{
				ID:              "c-1",
				Logical:         ptr(0),
				Position:        ptr(6),
				Offset:          ptr(-1800.0),
				Throttled:       ptr(false),
				ThrottleCounter: ptr(0),
				Autoplay:        ptr(AutoplayPhase("")),
				Animating:       ptr(false),
			},
		},
		{
			name:     "No Changes",
			old:      &base,
			new:      &base,
			wantDiff: nil,
		},
		{
			name: "Advance",
			old:  &base,
			new: &Snapshot{
				ID:      "c-1",
				Logical: 1,
				State:   NavigationState{Position: 7, LastCommittedOffset: -2100},
				Offset:  -2100,
			},
			wantDiff: &SnapshotDiff{
				ID:       "c-1",
				Logical:  ptr(1),
				Position: ptr(7),
				Offset:   ptr(-2100.0),
			},
		},
		{
			name: "Throttle Trip",
			old:  &base,
			new: &Snapshot{
				ID:     "c-1",
				State:  NavigationState{Position: 6, LastCommittedOffset: -1800, IsThrottled: true, ThrottleCounter: 3},
				Offset: -1800,
			},
			wantDiff: &SnapshotDiff{
				ID:              "c-1",
				Throttled:       ptr(true),
				ThrottleCounter: ptr(3),
			},
		},
		{
			name: "Closed",
			old:  &base,
			new: func() *Snapshot {
				s := base
				s.Closed = true
				return &s
			}(),
			wantDiff: &SnapshotDiff{ID: "c-1", Closed: ptr(true)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if tt.wantDiff == nil {
				if got != nil {
					t.Errorf("Diff() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Diff() = nil, want %+v", tt.wantDiff)
			}
			if d := cmp.Diff(tt.wantDiff, got); d != "" {
				t.Errorf("Diff() mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestSnapshotDiff_Matches(t *testing.T) {
	d := &SnapshotDiff{ID: "c-1", Throttled: ptr(true)}

	if !d.Matches(nil) {
		t.Error("empty watch list should match everything")
	}
	if !d.Matches([]string{"position", " throttle"}) {
		t.Error("expected throttle group to match")
	}
	if d.Matches([]string{"position", "autoplay"}) {
		t.Error("position/autoplay should not match a throttle-only diff")
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	old := &Snapshot{ID: "c-1", Logical: 1, State: NavigationState{Position: 7}}
	next := &Snapshot{ID: "c-1", Logical: 2, State: NavigationState{Position: 8}}

	diff := Diff(old, next)
	if diff == nil {
		t.Fatal("Expected diff, got nil")
	}
	bytes, err := json.Marshal(diff)
	if err != nil {
		t.Fatal(err)
	}
	out := string(bytes)
	if !strings.Contains(out, `"logical":2`) {
		t.Errorf("JSON should contain logical, got: %s", out)
	}
	if strings.Contains(out, `"throttled"`) {
		t.Errorf("JSON should omit unchanged throttle fields, got: %s", out)
	}
}
