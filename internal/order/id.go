package order

import (
	"fmt"
	"sync"
	"time"
)

const idPrefix = "GOGO"

// IDGenerator hands out ticket ids of the form GOGO-YYMMDD-NNN. The sequence
// restarts every day.
type IDGenerator struct {
	mu   sync.Mutex
	day  string
	next int
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns the next id for the day of now.
func (g *IDGenerator) Next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	day := now.Format("060102")
	if day != g.day {
		g.day = day
		g.next = 1
	}
	id := fmt.Sprintf("%s-%s-%03d", idPrefix, day, g.next)
	g.next++
	return id
}

// Observe advances the sequence past an id that already exists, e.g. one
// loaded from storage. Ids from other days or in other formats are ignored.
func (g *IDGenerator) Observe(id string, now time.Time) {
	var day string
	var seq int
	if _, err := fmt.Sscanf(id, idPrefix+"-%6s-%d", &day, &seq); err != nil {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	today := now.Format("060102")
	if day != today {
		return
	}
	if g.day != today {
		g.day = today
		g.next = 1
	}
	if seq >= g.next {
		g.next = seq + 1
	}
}
