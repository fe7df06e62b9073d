package analytics

import (
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/theirongolddev/habits/internal/calendar"
	"github.com/theirongolddev/habits/internal/model"
)

const defaultMemoSize = 32

// memoKey covers every input Build reads. Today stands in for now since the
// dashboard only depends on the calendar day.
type memoKey struct {
	Habits   []model.Habit
	Position model.Position
	Today    string
	WeekDays int
}

// Memo caches dashboards per render. Entries are keyed by a structural hash of
// the habit collection and the selected window, so a toggle or a month change
// always misses.
type Memo struct {
	mu      sync.Mutex
	size    int
	entries map[uint64]model.Dashboard
	hits    int
	misses  int
}

// NewMemo creates a cache holding at most size dashboards (0 uses a default).
func NewMemo(size int) *Memo {
	if size <= 0 {
		size = defaultMemoSize
	}
	return &Memo{size: size, entries: make(map[uint64]model.Dashboard, size)}
}

// Dashboard returns the cached dashboard for the inputs, building it on a miss.
// Every call returns its own copy.
func (m *Memo) Dashboard(habits []model.Habit, pos model.Position, now time.Time, weekDays int) model.Dashboard {
	key, err := hashstructure.Hash(memoKey{
		Habits:   habits,
		Position: pos,
		Today:    calendar.FormatISO(now),
		WeekDays: weekDays,
	}, hashstructure.FormatV2, nil)
	if err != nil {
		return Build(habits, pos, now, weekDays)
	}

	m.mu.Lock()
	if d, ok := m.entries[key]; ok {
		m.hits++
		m.mu.Unlock()
		return d.Clone()
	}
	m.misses++
	m.mu.Unlock()

	d := Build(habits, pos, now, weekDays)

	m.mu.Lock()
	if len(m.entries) >= m.size {
		m.entries = make(map[uint64]model.Dashboard, m.size)
	}
	m.entries[key] = d.Clone()
	m.mu.Unlock()
	return d
}

// Stats returns cache hit and miss counts.
func (m *Memo) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}
