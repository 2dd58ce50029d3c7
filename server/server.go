// Package server provides a local HTTP server for browsing saved action logs
// and watching a running one.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/sonnes/actionlog/core"
	"github.com/sonnes/actionlog/manifest"
	htmlrender "github.com/sonnes/actionlog/render/html"
	jsonrender "github.com/sonnes/actionlog/render/json"
)

const (
	defaultPollTimeout = 25 * time.Second
	idPattern          = `[A-Za-z0-9_-]+`
)

// Config configures a Server. At least one of Store and Live should be set.
type Config struct {
	// Store serves saved runs. Nil serves only the live run.
	Store *manifest.Store
	// Live is the run in progress, if any.
	Live *Live
	// PollTimeout bounds how long a block poll waits for changes.
	PollTimeout time.Duration
	// Redact, when set, is applied to every document before it is served.
	Redact core.Transformer
}

// Server serves action logs over HTTP.
type Server struct {
	cfg      Config
	renderer *htmlrender.Renderer
	router   *mux.Router
}

// New creates a Server and its routes.
func New(cfg Config) *Server {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = defaultPollTimeout
	}
	s := &Server{cfg: cfg, renderer: htmlrender.New()}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods("GET")
	r.HandleFunc("/runs/{id:"+idPattern+"}.html", s.handleRun).Methods("GET")
	r.HandleFunc("/runs/{id:"+idPattern+"}", s.handleRun).Methods("GET")
	r.HandleFunc("/api/runs", s.handleRunList).Methods("GET")
	r.HandleFunc("/api/runs/{id:"+idPattern+"}", s.handleRunJSON).Methods("GET")
	r.HandleFunc("/api/runs/{id:"+idPattern+"}/blocks", s.handleBlocks).Methods("GET")
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK"))
	}).Methods("GET")
	s.router = r
	return s
}

// Handler returns the HTTP handler for all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func liveURL(id string) string {
	return "/api/runs/" + id + "/blocks"
}

// runs lists the live run first, then saved runs.
func (s *Server) runs() ([]core.RunEntry, error) {
	var out []core.RunEntry
	if l := s.cfg.Live; l != nil {
		d, _ := l.Document()
		out = append(out, core.NewRunEntry(d, "/runs/"+d.ID))
	}
	if s.cfg.Store == nil {
		return out, nil
	}
	saved, err := s.cfg.Store.Runs()
	if err != nil {
		return nil, err
	}
	for _, e := range saved {
		if s.cfg.Live != nil && e.ID == s.cfg.Live.ID() {
			continue
		}
		e.Href = "/runs/" + e.ID
		out = append(out, e)
	}
	return out, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	runs, err := s.runs()
	if err != nil {
		log.Error("list runs", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.RenderIndex(w, runs); err != nil {
		log.Error("render index", "error", err)
	}
}

// document resolves id to the live run or a saved run. version is zero for
// saved runs.
func (s *Server) document(id string) (d *core.Document, version uint64, live bool, err error) {
	if l := s.cfg.Live; l != nil && l.ID() == id {
		d, version = l.Document()
		live = true
	} else if s.cfg.Store != nil {
		d, err = s.cfg.Store.Load(id)
	} else {
		err = manifest.ErrNotFound
	}
	if err != nil {
		return nil, 0, false, err
	}
	if s.cfg.Redact != nil {
		if err := core.Chain(d, s.cfg.Redact); err != nil {
			return nil, 0, false, err
		}
	}
	return d, version, live, nil
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*core.Document, uint64, bool, bool) {
	id := mux.Vars(r)["id"]
	d, version, live, err := s.document(id)
	if errors.Is(err, manifest.ErrNotFound) {
		http.NotFound(w, r)
		return nil, 0, false, false
	}
	if err != nil {
		log.Error("load run", "run_id", id, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return nil, 0, false, false
	}
	return d, version, live, true
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	d, version, live, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	var err error
	if live && !s.cfg.Live.finished() {
		err = s.renderer.RenderLive(&buf, d, version, liveURL(d.ID))
	} else {
		err = s.renderer.Render(&buf, d)
	}
	if err != nil {
		log.Error("render run", "run_id", d.ID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleRunJSON(w http.ResponseWriter, r *http.Request) {
	d, _, _, ok := s.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := (&jsonrender.Renderer{}).Render(w, d); err != nil {
		log.Error("encode run", "run_id", d.ID, "error", err)
	}
}

func (s *Server) handleRunList(w http.ResponseWriter, r *http.Request) {
	runs, err := s.runs()
	if err != nil {
		log.Error("list runs", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []core.RunEntry{}
	}
	writeJSON(w, runs)
}

type blocksResponse struct {
	Version uint64 `json:"version"`
	HTML    string `json:"html"`
	Done    bool   `json:"done"`
}

// handleBlocks long-polls the live run: it answers as soon as the console
// version differs from ?since, or after the poll timeout. Saved runs answer
// immediately with done set.
func (s *Server) handleBlocks(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	since, _ := strconv.ParseUint(r.URL.Query().Get("since"), 10, 64)

	l := s.cfg.Live
	if l == nil || l.ID() != id {
		d, _, _, ok := s.lookup(w, r)
		if !ok {
			return
		}
		s.writeBlocks(w, d.Blocks, 0, true)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.PollTimeout)
	defer cancel()
	blocks, version, done := l.Wait(ctx, since)

	if s.cfg.Redact != nil {
		d := &core.Document{Blocks: blocks}
		if err := core.Chain(d, s.cfg.Redact); err != nil {
			log.Error("redact blocks", "run_id", id, "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		blocks = d.Blocks
	}
	s.writeBlocks(w, blocks, version, done)
}

func (s *Server) writeBlocks(w http.ResponseWriter, blocks []core.Block, version uint64, done bool) {
	var buf bytes.Buffer
	if err := s.renderer.RenderBlocks(&buf, blocks); err != nil {
		log.Error("render blocks", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, blocksResponse{Version: version, HTML: buf.String(), Done: done})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("encode response", "error", err)
	}
}
