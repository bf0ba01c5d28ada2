package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tinytelemetry/pairs/internal/game"
	"github.com/tinytelemetry/pairs/internal/model"
	"github.com/tinytelemetry/pairs/internal/ranking"
)

const defaultRecentGames = 20

// RankingReader is the narrow leaderboard contract required by the API.
type RankingReader interface {
	Entries() []model.RankingEntry
	Qualifies(d time.Duration) bool
	Len() int
}

var _ RankingReader = (*ranking.Store)(nil)

// Server provides a read-only HTTP API over the leaderboard.
type Server struct {
	addr      string
	rankings  RankingReader
	history   model.GameHistory
	log       *zap.Logger
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server. history may be nil.
func NewServer(addr string, rankings RankingReader, history model.GameHistory, log *zap.Logger) *Server {
	if addr == "" {
		addr = "127.0.0.1:3000"
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:     addr,
		rankings: rankings,
		history:  history,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/rankings", s.handleRankings)
	r.GET("/api/rankings/qualifies", s.handleQualifies)
	r.GET("/api/games/recent", s.handleRecentGames)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.routes(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()
	s.log.Info("api listening", zap.String("addr", listener.Addr().String()))

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("api serve", zap.Error(err))
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

type rankingRow struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	TimeMS int64  `json:"time_ms"`
	Time   string `json:"time"`
	Date   string `json:"date"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"uptime":  time.Since(s.startTime).String(),
		"entries": s.rankings.Len(),
	})
}

func (s *Server) handleRankings(c *gin.Context) {
	entries := s.rankings.Entries()
	rows := make([]rankingRow, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, rankingRow{
			Rank:   i + 1,
			Name:   e.Name,
			TimeMS: e.Time.Milliseconds(),
			Time:   game.FormatTime(e.Time),
			Date:   e.Date.UTC().Format(ranking.DateLayout),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"rankings": rows,
		"count":    len(rows),
	})
}

func (s *Server) handleQualifies(c *gin.Context) {
	var q struct {
		TimeMS *int64 `form:"time_ms" binding:"required,min=0"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "time_ms must be a non-negative integer"})
		return
	}
	d := time.Duration(*q.TimeMS) * time.Millisecond
	c.JSON(http.StatusOK, gin.H{
		"time_ms":   *q.TimeMS,
		"qualifies": s.rankings.Qualifies(d),
	})
}

func (s *Server) handleRecentGames(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game history is not enabled"})
		return
	}
	var q struct {
		Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultRecentGames
	}

	games, err := s.history.RecentGames(c.Request.Context(), q.Limit)
	if err != nil {
		s.log.Error("reading game history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read game history"})
		return
	}

	out := make([]gin.H, 0, len(games))
	for _, g := range games {
		out = append(out, gin.H{
			"game_id":     g.GameID.String(),
			"elapsed_ms":  g.Elapsed.Milliseconds(),
			"elapsed":     game.FormatTime(g.Elapsed),
			"finished_at": g.FinishedAt.UTC().Format(ranking.DateLayout),
		})
	}
	c.JSON(http.StatusOK, gin.H{"games": out, "count": len(out)})
}
