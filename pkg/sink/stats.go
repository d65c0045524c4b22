package sink

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/robotalks/dcsbios.go/pkg/dcsbios"
)

// Counters is a snapshot of Stats.
type Counters struct {
	Events      int
	Syncs       int
	Writes      int
	Frames      int
	Broadcasts  int
	Gaps        int
	Trailing    int
	Diagnostics map[dcsbios.DiagnosticKind]int
}

// Stats counts decoded events. The zero value is ready to use.
type Stats struct {
	lock     sync.RWMutex
	counters Counters
}

// NewStats creates a Stats.
func NewStats() *Stats {
	s := &Stats{}
	s.Reset()
	return s
}

// HandleEvent implements dcsbios.EventHandler.
func (s *Stats) HandleEvent(ctx context.Context, ev dcsbios.Event) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	c := &s.counters
	c.Events++
	switch e := ev.(type) {
	case *dcsbios.SyncEvent:
		c.Syncs++
	case *dcsbios.WriteRecord:
		c.Writes++
	case *dcsbios.BusFrame:
		c.Frames++
		if e.IsBroadcast() {
			c.Broadcasts++
		}
	case *dcsbios.GapEvent:
		c.Gaps++
	case *dcsbios.FieldEvent:
		if e.Field == dcsbios.FieldTrailing {
			c.Trailing++
		}
	case *dcsbios.DiagnosticEvent:
		if c.Diagnostics == nil {
			c.Diagnostics = make(map[dcsbios.DiagnosticKind]int)
		}
		c.Diagnostics[e.Kind]++
	}
	return nil
}

// Counters gets a snapshot.
func (s *Stats) Counters() Counters {
	s.lock.RLock()
	defer s.lock.RUnlock()
	c := s.counters
	c.Diagnostics = make(map[dcsbios.DiagnosticKind]int, len(s.counters.Diagnostics))
	for k, v := range s.counters.Diagnostics {
		c.Diagnostics[k] = v
	}
	return c
}

// Reset clears all counters.
func (s *Stats) Reset() {
	s.lock.Lock()
	s.counters = Counters{Diagnostics: make(map[dcsbios.DiagnosticKind]int)}
	s.lock.Unlock()
}

// String renders a one line summary.
func (s *Stats) String() string {
	c := s.Counters()
	parts := []string{
		fmt.Sprintf("events=%d", c.Events),
		fmt.Sprintf("syncs=%d", c.Syncs),
		fmt.Sprintf("writes=%d", c.Writes),
		fmt.Sprintf("frames=%d", c.Frames),
		fmt.Sprintf("broadcasts=%d", c.Broadcasts),
		fmt.Sprintf("gaps=%d", c.Gaps),
		fmt.Sprintf("trailing=%d", c.Trailing),
	}
	var diags []string
	for kind, n := range c.Diagnostics {
		diags = append(diags, fmt.Sprintf("%s=%d", kind, n))
	}
	sort.Strings(diags)
	return strings.Join(append(parts, diags...), " ")
}
