package status

import (
	"errors"
	"testing"
)

func TestRegistryIsTotal(t *testing.T) {
	for _, s := range All() {
		if _, ok := Lookup(s); !ok {
			t.Errorf("status %s missing from registry", s)
		}
	}
	if err := validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestWorkflowSuccessors(t *testing.T) {
	tests := []struct {
		from     Status
		want     Status
		terminal bool
	}{
		{from: Waiting, want: InProgress},
		{from: InProgress, want: Ready},
		{from: Ready, want: Completed},
		{from: Completed, terminal: true},
		{from: Canceled, terminal: true},
	}
	for _, tt := range tests {
		next, ok := Successor(tt.from)
		if tt.terminal {
			if ok {
				t.Errorf("%s: expected no successor, got %s", tt.from, next)
			}
			if !IsTerminal(tt.from) {
				t.Errorf("%s: expected terminal", tt.from)
			}
			continue
		}
		if !ok || next != tt.want {
			t.Errorf("%s: successor got %q, want %q", tt.from, next, tt.want)
		}
	}
}

func TestDerivedViewsAgreeWithRegistry(t *testing.T) {
	active := map[Status]bool{}
	for _, s := range ActiveStatuses() {
		active[s] = true
	}
	tabs := map[Status]bool{}
	for _, s := range TabStatuses() {
		tabs[s] = true
	}
	colors := ColorMap()

	for _, cfg := range Configs() {
		if cfg.Active != active[cfg.Status] {
			t.Errorf("%s: active flag %v but active set says %v", cfg.Status, cfg.Active, active[cfg.Status])
		}
		if cfg.Active != IsActive(cfg.Status) {
			t.Errorf("%s: IsActive disagrees with registry", cfg.Status)
		}
		if cfg.ShowInTabs != tabs[cfg.Status] {
			t.Errorf("%s: tab flag %v but tab set says %v", cfg.Status, cfg.ShowInTabs, tabs[cfg.Status])
		}
		if colors[cfg.Status] != cfg.Color {
			t.Errorf("%s: color map %q, registry %q", cfg.Status, colors[cfg.Status], cfg.Color)
		}
	}

	if active[Canceled] || active[Completed] {
		t.Error("terminal statuses must not be active")
	}
}

func TestDerivedViewsAreCopies(t *testing.T) {
	ActiveStatuses()[0] = Canceled
	if ActiveStatuses()[0] != Waiting {
		t.Error("active statuses mutated through returned slice")
	}
	ColorMap()[Waiting] = "#000000"
	if Color(Waiting) == "#000000" {
		t.Error("color map mutated through returned map")
	}
}

func TestCanCancel(t *testing.T) {
	for _, s := range []Status{Waiting, InProgress, Ready} {
		if !CanCancel(s) {
			t.Errorf("%s should be cancelable", s)
		}
	}
	for _, s := range []Status{Completed, Canceled, Status("BOGUS")} {
		if CanCancel(s) {
			t.Errorf("%s should not be cancelable", s)
		}
	}
}

func TestParse(t *testing.T) {
	s, err := Parse("READY")
	if err != nil || s != Ready {
		t.Errorf("Parse(READY): got %q, %v", s, err)
	}
	if _, err := Parse("ACCEPTED"); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("expected ErrUnknownStatus, got %v", err)
	}
}
