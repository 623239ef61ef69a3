// Package status is the order status registry. Every per-status fact lives in
// one table; the tab, active and color views are derived from it at init.
package status

import (
	"errors"
	"fmt"
)

// Status is an order's position in the fulfillment workflow.
type Status string

const (
	Waiting    Status = "WAITING"
	InProgress Status = "IN_PROGRESS"
	Ready      Status = "READY"
	Completed  Status = "COMPLETED"
	Canceled   Status = "CANCELED"
)

// ErrUnknownStatus is returned by Parse for values outside the registry.
var ErrUnknownStatus = errors.New("unknown order status")

// Config is the registry entry for one status. Color is passed through to
// presentation untouched.
type Config struct {
	Status      Status `json:"status"`
	Label       string `json:"label"`
	LabelTh     string `json:"label_th"`
	Color       string `json:"color"`
	ShowInTabs  bool   `json:"show_in_tabs"`
	Active      bool   `json:"active"`
	Next        Status `json:"next,omitempty"`
	NextAction  string `json:"next_action,omitempty"`
	Description string `json:"description"`
}

// HasNext reports whether the status has a workflow successor.
func (c Config) HasNext() bool {
	return c.Next != ""
}

// order is the workflow order used for All and the derived slices.
var order = []Status{Waiting, InProgress, Ready, Completed, Canceled}

var registry = map[Status]Config{
	Waiting: {
		Status:      Waiting,
		Label:       "Waiting",
		LabelTh:     "รอคิว",
		Color:       "#facc15",
		ShowInTabs:  true,
		Active:      true,
		Next:        InProgress,
		NextAction:  "Start preparing",
		Description: "Order is waiting in queue after payment",
	},
	InProgress: {
		Status:      InProgress,
		Label:       "In Progress",
		LabelTh:     "กำลังทำ",
		Color:       "#3b82f6",
		ShowInTabs:  true,
		Active:      true,
		Next:        Ready,
		NextAction:  "Mark ready",
		Description: "Order is being prepared by a barista",
	},
	Ready: {
		Status:      Ready,
		Label:       "Ready",
		LabelTh:     "พร้อมรับ",
		Color:       "#10b981",
		ShowInTabs:  true,
		Active:      true,
		Next:        Completed,
		NextAction:  "Hand over to customer",
		Description: "Order is ready for pickup",
	},
	Completed: {
		Status:      Completed,
		Label:       "Completed",
		LabelTh:     "เสร็จสิ้น",
		Color:       "#6b7280",
		ShowInTabs:  true,
		Description: "Order has been picked up by the customer",
	},
	Canceled: {
		Status:      Canceled,
		Label:       "Canceled",
		LabelTh:     "ยกเลิก",
		Color:       "#ef4444",
		Description: "Order was canceled",
	},
}

var (
	tabStatuses    []Status
	activeStatuses []Status
	colorMap       map[Status]string
)

func init() {
	if err := validate(); err != nil {
		panic(err)
	}
	tabStatuses, activeStatuses, colorMap = derive()
}

// validate checks the registry is total and its successors are registered.
func validate() error {
	if len(registry) != len(order) {
		return fmt.Errorf("status registry has %d entries, want %d", len(registry), len(order))
	}
	for _, s := range order {
		cfg, ok := registry[s]
		if !ok {
			return fmt.Errorf("status %s missing from registry", s)
		}
		if cfg.Status != s {
			return fmt.Errorf("status %s registered under key %s", cfg.Status, s)
		}
		if cfg.HasNext() {
			if _, ok := registry[cfg.Next]; !ok {
				return fmt.Errorf("status %s has unregistered successor %s", s, cfg.Next)
			}
		}
	}
	return nil
}

func derive() (tabs, active []Status, colors map[Status]string) {
	colors = make(map[Status]string, len(order))
	for _, s := range order {
		cfg := registry[s]
		if cfg.ShowInTabs {
			tabs = append(tabs, s)
		}
		if cfg.Active {
			active = append(active, s)
		}
		colors[s] = cfg.Color
	}
	return tabs, active, colors
}

// All returns every status in workflow order.
func All() []Status {
	return append([]Status(nil), order...)
}

// Configs returns every registry entry in workflow order.
func Configs() []Config {
	out := make([]Config, len(order))
	for i, s := range order {
		out[i] = registry[s]
	}
	return out
}

// Lookup returns the registry entry for s.
func Lookup(s Status) (Config, bool) {
	cfg, ok := registry[s]
	return cfg, ok
}

// Parse converts a raw string into a registered Status.
func Parse(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := registry[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}

// Successor returns the configured next status, if any.
func Successor(s Status) (Status, bool) {
	cfg, ok := registry[s]
	if !ok || !cfg.HasNext() {
		return "", false
	}
	return cfg.Next, true
}

// IsTerminal reports whether s has no successor.
func IsTerminal(s Status) bool {
	_, ok := Successor(s)
	return !ok
}

// IsActive reports whether s counts as unresolved work.
func IsActive(s Status) bool {
	return registry[s].Active
}

// CanCancel reports whether an order in s may move to Canceled.
// Cancellation is allowed from every non-terminal status.
func CanCancel(s Status) bool {
	_, known := registry[s]
	return known && !IsTerminal(s)
}

// TabStatuses returns the statuses that get a dedicated staff tab.
func TabStatuses() []Status {
	return append([]Status(nil), tabStatuses...)
}

// ActiveStatuses returns the statuses that form the active work queue.
func ActiveStatuses() []Status {
	return append([]Status(nil), activeStatuses...)
}

// ColorMap returns status -> color.
func ColorMap() map[Status]string {
	out := make(map[Status]string, len(colorMap))
	for k, v := range colorMap {
		out[k] = v
	}
	return out
}

// Color returns the color hint for s.
func Color(s Status) string {
	return colorMap[s]
}
