// Package server exposes the habit store over a local JSON API with a
// change-event ring buffer, an SSE stream and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/habits/internal/analytics"
	"github.com/theirongolddev/habits/internal/calendar"
	"github.com/theirongolddev/habits/internal/model"
	"github.com/theirongolddev/habits/internal/store"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
	WeekDays     int
}

// Event is emitted for every applied store change.
type Event struct {
	ID        int64                 `json:"id"`
	Type      string                `json:"type"`
	Timestamp time.Time             `json:"timestamp"`
	Change    *store.Change         `json:"change,omitempty"`
	Today     *model.DailyChecklist `json:"today,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	Loaded          bool      `json:"loaded"`
	Habits          int       `json:"habits"`
	LastSavedAt     time.Time `json:"last_saved_at,omitempty"`
	StoredAt        time.Time `json:"stored_at,omitempty"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service serves one store. Create it with New before the store is loaded
// to see the "loaded" event.
type Service struct {
	cfg    Config
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
	memo   *analytics.Memo

	mu          sync.RWMutex
	startedAt   time.Time
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the request and lifecycle logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the time source used for "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a service over st and subscribes to its changes.
func New(st *store.Store, cfg Config, opts ...Option) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.WeekDays < 1 {
		cfg.WeekDays = analytics.DefaultWeekDays
	}

	s := &Service{
		cfg:    cfg,
		store:  st,
		logger: zap.NewNop(),
		now:    time.Now,
		memo:   analytics.NewMemo(0),
		subs:   make(map[int]chan Event),
	}
	for _, o := range opts {
		o(s)
	}
	s.startedAt = s.now()
	st.Subscribe(s.onChange)
	return s
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("serving", zap.String("addr", s.cfg.Addr))
	setHabitCount(s.store.Len())

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.closeSubscribers()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

func (s *Service) today() string {
	return calendar.FormatISO(s.now())
}

func (s *Service) checklist() model.DailyChecklist {
	return analytics.Checklist(s.store.Habits(), s.today())
}

func (s *Service) onChange(c store.Change) {
	recordChange(c, s.store.Len(), s.store.LastSaved())
	if !c.Persisted && c.Kind != store.ChangeLoaded {
		s.logger.Warn("change not persisted",
			zap.String("kind", string(c.Kind)),
			zap.Int64("habit_id", c.HabitID))
	}

	today := s.checklist()
	s.mu.Lock()
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      string(c.Kind),
		Timestamp: c.At,
		Change:    &c,
		Today:     &today,
	}
	s.mu.Unlock()

	s.publishEvent(ev)
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) recentEvents() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

func (s *Service) snapshotStatus(ctx context.Context) Status {
	st := Status{
		StartedAt:   s.startedAt,
		Loaded:      s.store.Loaded(),
		Habits:      s.store.Len(),
		LastSavedAt: s.store.LastSaved(),
	}
	if err := s.store.LastError(); err != nil {
		st.LastError = err.Error()
	}
	if at, err := s.store.StoredAt(ctx); err != nil {
		s.logger.Warn("reading storage timestamp", zap.Error(err))
	} else {
		st.StoredAt = at
	}

	s.mu.RLock()
	st.EventCount = len(s.events)
	st.SubscriberCount = len(s.subs)
	s.mu.RUnlock()
	return st
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Service) closeSubscribers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
