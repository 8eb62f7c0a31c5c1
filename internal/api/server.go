package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/biomech-data/biomech.coach/internal/config"
	"github.com/biomech-data/biomech.coach/internal/db"
	"github.com/biomech-data/biomech.coach/internal/units"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	db     *db.DB
	tuning *config.TuningConfig
	units  string
}

func NewServer(database *db.DB, tuning *config.TuningConfig, angleUnits string) *Server {
	if !units.IsValid(angleUnits) {
		angleUnits = tuning.GetAngleUnits()
	}
	return &Server{
		db:     database,
		tuning: tuning,
		units:  angleUnits,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400 && statusCode < 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /pose/mirror", s.mirrorPose)
	mux.HandleFunc("POST /angles/joint", s.jointAngle)
	mux.HandleFunc("POST /angles/vertical", s.verticalAngle)
	mux.HandleFunc("POST /sessions", s.createSession)
	mux.HandleFunc("POST /sessions/{id}/frames", s.recordFrame)
	mux.HandleFunc("GET /sessions/{id}/summary", s.sessionSummary)
	mux.HandleFunc("GET /config", s.showConfig)
	return mux
}

// requestUnits resolves the angle units for a single request. A units query
// parameter overrides the server default; an unknown value is reported to the
// caller so typos don't silently fall back to degrees.
func (s *Server) requestUnits(r *http.Request) (string, bool) {
	u := r.URL.Query().Get("units")
	if u == "" {
		return s.units, true
	}
	if !units.IsValid(u) {
		return "", false
	}
	return u, true
}
