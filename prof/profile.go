package prof

import (
	"sort"
	"sync"
	"time"
)

// Entry represents a single timing measurement.
type Entry struct {
	Label string
	Dur   time.Duration
}

// Collector accumulates timing entries. The zero value is ready to use and
// safe for concurrent Track calls.
type Collector struct {
	mu     sync.Mutex
	record []Entry
}

// Track logs the duration since start with the given name. It is meant to be
// deferred at the top of the measured function.
func (c *Collector) Track(start time.Time, name string) {
	elapsed := time.Since(start)
	c.mu.Lock()
	c.record = append(c.record, Entry{Label: name, Dur: elapsed})
	c.mu.Unlock()
}

// SnapshotAndReset returns the collected timing entries and clears them.
func (c *Collector) SnapshotAndReset() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.record))
	copy(out, c.record)
	c.record = nil
	return out
}

// Summary aggregates all entries sharing a label.
type Summary struct {
	Label string
	Count int
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
}

// Aggregate folds entries into per-label summaries, sorted by descending
// total and then by label.
func Aggregate(entries []Entry) []Summary {
	byLabel := make(map[string]*Summary)
	for _, e := range entries {
		s, ok := byLabel[e.Label]
		if !ok {
			s = &Summary{Label: e.Label, Min: e.Dur, Max: e.Dur}
			byLabel[e.Label] = s
		}
		s.Count++
		s.Total += e.Dur
		if e.Dur < s.Min {
			s.Min = e.Dur
		}
		if e.Dur > s.Max {
			s.Max = e.Dur
		}
	}
	out := make([]Summary, 0, len(byLabel))
	for _, s := range byLabel {
		s.Mean = s.Total / time.Duration(s.Count)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total == out[j].Total {
			return out[i].Label < out[j].Label
		}
		return out[i].Total > out[j].Total
	})
	return out
}
