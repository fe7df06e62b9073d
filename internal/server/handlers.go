package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/theirongolddev/habits/internal/calendar"
)

type createHabitRequest struct {
	Name string `json:"name" binding:"required"`
}

type renameHabitRequest struct {
	Name string `json:"name" binding:"required"`
}

type toggleRequest struct {
	Date string `json:"date"`
}

type toggleResponse struct {
	HabitID   int64  `json:"habit_id"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Saved     bool   `json:"saved"`
}

// Handler returns the gin engine serving every route.
func (s *Service) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok\n")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.RegisterRoutes(r.Group("/v1"))
	return r
}

// RegisterRoutes mounts the JSON API under router.
func (s *Service) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", s.handleStatus)
	router.GET("/dashboard", s.handleDashboard)
	router.GET("/events", s.handleEvents)
	router.GET("/stream", s.handleStream)

	habits := router.Group("/habits")
	{
		habits.GET("", s.handleList)
		habits.POST("", s.handleCreate)
		habits.GET("/:id", s.handleGet)
		habits.PATCH("/:id", s.handleRename)
		habits.DELETE("/:id", s.handleDelete)
		habits.POST("/:id/toggle", s.handleToggle)
	}
}

func (s *Service) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		code := c.Writer.Status()
		recordRequest(c.Request.Method, c.FullPath(), code)
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", code),
			zap.Duration("latency", time.Since(start)))
	}
}

// requireLoaded rejects mutations while the store could not load, so the
// API never reports a change that can't be saved.
func (s *Service) requireLoaded(c *gin.Context) bool {
	if s.store.Loaded() {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "habit data not loaded"})
	return false
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit id"})
		return 0, false
	}
	return id, true
}

func (s *Service) saved() bool {
	return s.store.LastError() == nil
}

func (s *Service) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.snapshotStatus(c.Request.Context()))
}

func (s *Service) handleList(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Habits())
}

func (s *Service) handleGet(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h, found := s.store.Habit(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		return
	}
	c.JSON(http.StatusOK, h)
}

func (s *Service) handleCreate(c *gin.Context) {
	if !s.requireLoaded(c) {
		return
	}
	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h, ok := s.store.AddHabit(req.Name)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "habit name is empty"})
		return
	}
	c.Header("X-Habits-Saved", strconv.FormatBool(s.saved()))
	c.JSON(http.StatusCreated, h)
}

func (s *Service) handleRename(c *gin.Context) {
	if !s.requireLoaded(c) {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req renameHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, found := s.store.Habit(id); !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		return
	}
	if !s.store.RenameHabit(id, req.Name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "habit name is empty"})
		return
	}
	h, _ := s.store.Habit(id)
	c.JSON(http.StatusOK, h)
}

func (s *Service) handleDelete(c *gin.Context) {
	if !s.requireLoaded(c) {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if !s.store.DeleteHabit(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Service) handleToggle(c *gin.Context) {
	if !s.requireLoaded(c) {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Chunked bodies report ContentLength -1, so bind whenever a body exists.
	var req toggleRequest
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Date == "" {
		req.Date = c.Query("date")
	}
	if req.Date == "" {
		req.Date = s.today()
	}
	if _, err := calendar.ParseISO(req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	done, found := s.store.ToggleRecord(id, req.Date)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		return
	}
	c.JSON(http.StatusOK, toggleResponse{HabitID: id, Date: req.Date, Completed: done, Saved: s.saved()})
}

func (s *Service) handleDashboard(c *gin.Context) {
	now := s.now()
	pos := calendar.Current(now)
	if m := c.Query("month"); m != "" {
		p, err := calendar.ParseMonth(m)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		pos = p
	}
	weekDays := s.cfg.WeekDays
	if d := c.Query("days"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < 1 || n > 366 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 366"})
			return
		}
		weekDays = n
	}
	c.JSON(http.StatusOK, s.memo.Dashboard(s.store.Habits(), pos, now, weekDays))
}

func (s *Service) handleEvents(c *gin.Context) {
	c.JSON(http.StatusOK, s.recentEvents())
}

func (s *Service) handleStream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	today := s.checklist()
	c.SSEvent("snapshot", Event{Type: "snapshot", Timestamp: s.now(), Today: &today})
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-ch:
			if !open {
				return
			}
			c.SSEvent(ev.Type, ev)
			c.Writer.Flush()
		}
	}
}
