package store

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/habits/internal/model"
)

const defaultWriteTimeout = 5 * time.Second

// ChangeKind names a store mutation.
type ChangeKind string

const (
	ChangeLoaded  ChangeKind = "loaded"
	ChangeAdded   ChangeKind = "habit_added"
	ChangeDeleted ChangeKind = "habit_deleted"
	ChangeRenamed ChangeKind = "habit_renamed"
	ChangeToggled ChangeKind = "record_toggled"
)

// Change describes one applied mutation. Persisted is false when the write
// was suppressed or failed.
type Change struct {
	Kind      ChangeKind `json:"kind"`
	HabitID   int64      `json:"habit_id,omitempty"`
	Name      string     `json:"name,omitempty"`
	Date      string     `json:"date,omitempty"`
	Completed bool       `json:"completed,omitempty"`
	Persisted bool       `json:"persisted"`
	At        time.Time  `json:"at"`
}

// Store is the single owner of the habit collection. Mutations are applied
// in memory first and then written through to the backend as a full snapshot.
// Writes are suppressed until Load has completed so an empty collection
// never clobbers stored data.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	logger  *zap.Logger
	now     func() time.Time
	timeout time.Duration

	habits  []model.Habit
	loaded  bool
	lastID  int64
	lastErr error
	saved   time.Time

	subMu sync.RWMutex
	subs  []func(Change)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides the time source used for ids and change timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithWriteTimeout bounds each backend write.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// New creates an empty, unloaded store over backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  zap.NewNop(),
		now:     time.Now,
		timeout: defaultWriteTimeout,
		habits:  []model.Habit{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load reads the stored collection once. Malformed data yields an empty
// collection and invalid entries are dropped. A backend read error leaves
// the store unloaded so nothing is overwritten; Load may then be retried.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.loaded {
		s.mu.Unlock()
		return nil
	}

	data, err := s.backend.Read(ctx)
	if err != nil {
		s.lastErr = err
		s.mu.Unlock()
		s.logger.Error("load failed", zap.Error(err))
		return fmt.Errorf("loading habits: %w", err)
	}

	habits, dropped := decodeCollection(data)
	for _, d := range dropped {
		s.logger.Debug("dropped stored entry", zap.Error(d))
	}
	s.habits = habits
	for _, h := range habits {
		if h.ID > s.lastID {
			s.lastID = h.ID
		}
	}
	s.loaded = true
	n := len(habits)
	s.mu.Unlock()

	s.logger.Info("habits loaded", zap.Int("count", n), zap.Int("dropped", len(dropped)))
	s.notify(Change{Kind: ChangeLoaded, At: s.now()})
	return nil
}

// Loaded reports whether Load has completed.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Habits returns a deep copy of the collection in insertion order.
func (s *Store) Habits() []model.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneAll(s.habits)
}

// Habit returns a copy of the habit with id.
func (s *Store) Habit(id int64) (model.Habit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.habits[i].Clone(), true
	}
	return model.Habit{}, false
}

// Len returns the number of habits.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.habits)
}

// AddHabit appends a habit named name (trimmed). An empty name is a no-op
// and returns false.
func (s *Store) AddHabit(name string) (model.Habit, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Habit{}, false
	}

	s.mu.Lock()
	h := model.Habit{ID: s.nextID(), Name: name, Records: model.Records{}}
	s.habits = append(s.habits, h)
	ok := s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeAdded, HabitID: h.ID, Name: h.Name, Persisted: ok, At: s.now()})
	return h.Clone(), true
}

// DeleteHabit removes the habit and its records. Unknown ids are a no-op.
func (s *Store) DeleteHabit(id int64) bool {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	name := s.habits[i].Name
	s.habits = append(s.habits[:i:i], s.habits[i+1:]...)
	ok := s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeDeleted, HabitID: id, Name: name, Persisted: ok, At: s.now()})
	return true
}

// RenameHabit sets a new (trimmed, non-empty) name.
func (s *Store) RenameHabit(id int64, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.habits[i].Name = name
	ok := s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeRenamed, HabitID: id, Name: name, Persisted: ok, At: s.now()})
	return true
}

// ToggleRecord flips completion of habit id on date. Clearing a date removes
// its key. It returns the new state and whether the habit exists.
func (s *Store) ToggleRecord(id int64, date string) (completed bool, found bool) {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return false, false
	}
	recs := s.habits[i].Records
	if recs == nil {
		recs = model.Records{}
		s.habits[i].Records = recs
	}
	if recs[date] {
		delete(recs, date)
	} else {
		recs[date] = true
		completed = true
	}
	name := s.habits[i].Name
	ok := s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeToggled, HabitID: id, Name: name, Date: date, Completed: completed, Persisted: ok, At: s.now()})
	return completed, true
}

// IsCompleted reports whether habit id was completed on date.
func (s *Store) IsCompleted(id int64, date string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.habits[i].Records[date]
	}
	return false
}

// CompletionCount returns how many habits were completed on date.
func (s *Store) CompletionCount(date string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, h := range s.habits {
		if h.Records[date] {
			n++
		}
	}
	return n
}

// CompletionPercentage returns round(100*completed/len(dates)) for habit id,
// or 0 for an unknown id or no dates.
func (s *Store) CompletionPercentage(id int64, dates []string) int {
	if len(dates) == 0 {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(id)
	if i < 0 {
		return 0
	}
	done := s.habits[i].CountCompleted(dates)
	return int(math.Round(float64(done) / float64(len(dates)) * 100))
}

// LastError returns the most recent persistence error, or nil once a later
// write succeeds.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// LastSaved returns when the collection was last written successfully.
func (s *Store) LastSaved() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saved
}

// StoredAt asks the backend when the stored value was last written, which may
// predate this process. Backends without timestamps report the zero time.
func (s *Store) StoredAt(ctx context.Context) (time.Time, error) {
	b, ok := s.backend.(stampedBackend)
	if !ok {
		return time.Time{}, nil
	}
	return b.UpdatedAt(ctx)
}

// Subscribe registers fn to receive every applied change. fn runs on the
// mutating goroutine after the store lock is released.
func (s *Store) Subscribe(fn func(Change)) {
	s.subMu.Lock()
	s.subs = append(s.subs, fn)
	s.subMu.Unlock()
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) notify(c Change) {
	s.subMu.RLock()
	subs := s.subs
	s.subMu.RUnlock()
	for _, fn := range subs {
		fn(c)
	}
}

func (s *Store) index(id int64) int {
	for i := range s.habits {
		if s.habits[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID returns a creation-time id that is strictly greater than any id
// handed out or loaded before.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// persistLocked writes the full collection. Caller holds s.mu.
func (s *Store) persistLocked() bool {
	if !s.loaded {
		s.logger.Debug("persist suppressed before load")
		return false
	}

	data, err := encodeCollection(s.habits)
	if err != nil {
		s.lastErr = fmt.Errorf("encoding habits: %w", err)
		s.logger.Error("persist failed", zap.Error(s.lastErr))
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.backend.Write(ctx, data); err != nil {
		s.lastErr = err
		s.logger.Warn("persist failed, keeping in-memory state", zap.Error(err), zap.Int("habits", len(s.habits)))
		return false
	}

	s.lastErr = nil
	s.saved = s.now()
	s.logger.Debug("persisted", zap.Int("habits", len(s.habits)), zap.Int("bytes", len(data)))
	return true
}
