package api

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/saeidalz13/battleship-solo/internal/session"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

const (
	StageProd = "prod"
	StageDev  = "dev"

	defaultPort = 8000
)

// AnalyticsReader exposes the counters of this server.
type AnalyticsReader interface {
	GetFleetsPlacedCount(ctx context.Context) (int64, error)
	GetShotsFiredCount(ctx context.Context) (int64, error)
}

type Server struct {
	port           int
	stage          string
	game           session.Service
	sessionManager mc.SessionManager
	analytics      AnalyticsReader
}

type Option func(*Server) error

func NewServer(optFuncs ...Option) *Server {
	server := Server{port: defaultPort, stage: StageDev}
	for _, opt := range optFuncs {
		if err := opt(&server); err != nil {
			panic(err)
		}
	}

	if server.game == nil {
		panic("server requires a game service")
	}
	if server.sessionManager == nil {
		server.sessionManager = mc.NewBattleshipSessionManager(mc.DefaultSessionCleanupInterval)
	}
	return &server
}

func WithPort(port int) Option {
	return func(s *Server) error {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("invalid port: %d", port)
		}
		s.port = port
		return nil
	}
}

func WithStage(stage string) Option {
	return func(s *Server) error {
		if stage != StageProd && stage != StageDev {
			return fmt.Errorf("invalid type of development stage: %s", stage)
		}
		s.stage = stage
		return nil
	}
}

func WithGameService(game session.Service) Option {
	return func(s *Server) error {
		s.game = game
		return nil
	}
}

func WithSessionManager(sessionManager mc.SessionManager) Option {
	return func(s *Server) error {
		s.sessionManager = sessionManager
		return nil
	}
}

func WithAnalytics(analytics AnalyticsReader) Option {
	return func(s *Server) error {
		s.analytics = analytics
		return nil
	}
}

func (s *Server) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", s.port)
}

func (s *Server) Stage() string {
	return s.stage
}

// Router wires every route of the service. The capitalised paths are the
// ones older clients still call.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests)

	r.HandleFunc("/sessions", s.handleCreateSession).Methods(http.MethodPost)
	r.HandleFunc("/sessions", s.handleForgetSession).Methods(http.MethodDelete)

	r.HandleFunc("/ships/place", s.handlePlaceShips).Methods(http.MethodGet)
	r.HandleFunc("/Ships/PlaceShips", s.handlePlaceShips).Methods(http.MethodGet)

	r.HandleFunc("/shoots/result", s.handleShootResult).Methods(http.MethodGet)
	r.HandleFunc("/Shoots/ShootResult", s.handleShootResult).Methods(http.MethodGet)

	if s.analytics != nil {
		r.HandleFunc("/analytics", s.handleAnalytics).Methods(http.MethodGet)
	}

	r.Handle("/battleship", NewRequestProcessor(s.sessionManager, s.game)).Methods(http.MethodGet)
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// Hijack hands the connection to the websocket upgrader.
func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := sr.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	sr.status = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
