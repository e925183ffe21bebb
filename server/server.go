// Package server exposes the report renderer over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/flanksource/commons/logger"
	"github.com/flanksource/informe/report"
	"github.com/gorilla/mux"
)

const (
	CreatePDFPath = "/api/create-pdf"
	HealthPath    = "/health"

	// RenderFailed is returned to clients on any server side failure.
	RenderFailed = "Error al generar el PDF"
)

// Renderer turns a validated report into a PDF.
type Renderer interface {
	Render(ctx context.Context, rep *report.Report) (*report.Result, error)
}

type Options struct {
	CORSOrigin   string
	MaxBodyBytes int64
	Version      string
}

type Server struct {
	renderer Renderer
	opts     Options
	started  time.Time
	log      logger.Logger
}

func New(renderer Renderer, opts Options) *Server {
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "*"
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	return &Server{
		renderer: renderer,
		opts:     opts,
		started:  time.Now(),
		log:      logger.GetLogger("http"),
	}
}

// Handler returns the routed handler with logging and CORS applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.withLogging)

	r.HandleFunc(HealthPath, s.handleHealth).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc(CreatePDFPath, s.handleCreatePDF).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, CreatePDFPath, http.StatusFound)
	}).Methods(http.MethodGet)

	return s.withCORS(r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Infof("method=%s path=%s status=%d bytes=%d duration=%s",
			r.Method, r.URL.Path, rec.status, rec.bytes, time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.opts.CORSOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.opts.Version,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleCreatePDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge,
				errorBody{Error: fmt.Sprintf("El cuerpo supera el límite de %d bytes", tooLarge.Limit)})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "No se pudo leer el cuerpo de la solicitud"})
		return
	}

	rep, err := report.Decode(body)
	if err != nil {
		var invalid *report.ValidationError
		if errors.As(err, &invalid) {
			s.log.Debugf("rejected payload: %v", invalid)
			writeJSON(w, http.StatusBadRequest, invalid)
			return
		}
		s.log.Errorf("failed to decode payload: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: RenderFailed})
		return
	}

	result, err := s.renderer.Render(r.Context(), rep)
	if err != nil {
		s.log.Errorf("failed to render %s: %v", rep.Filename(), err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: RenderFailed})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(result.PDF)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.PDF); err != nil {
		s.log.Warnf("failed to write %s: %v", result.Filename, err)
	}
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight requests for at most
// shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readHeaderTimeout, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Infof("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}
