// Package web serves the portfolio page and a live terminal over WebSocket.
//
// Every connection owns its own session.Session; the read loop is the only
// goroutine that touches it. Sessions share the resume Store that was current
// when they connected. Reloads publish a new Store for later connections and
// leave running sessions alone.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"folio/internal/command"
	"folio/internal/config"
	"folio/internal/logging"
	"folio/internal/resume"
	"folio/internal/session"
	"folio/internal/site"
)

const (
	// WSPath is where the page's terminal connects.
	WSPath = "/ws"

	maxMessageSize = 4096
	readTimeout    = 10 * time.Minute
)

// Options configures a Server.
type Options struct {
	Addr            string
	Prompt          string
	Theme           string
	Scroll          config.ScrollConfig
	Watch           bool
	ReloadDebounce  time.Duration
	ShutdownTimeout time.Duration
	LoadTimeout     time.Duration
	Now             func() time.Time
}

// OptionsFromConfig maps the server-related config sections.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Addr:            cfg.Server.Addr,
		Prompt:          cfg.Terminal.Prompt,
		Theme:           cfg.Preferences.DefaultTheme,
		Scroll:          cfg.Scroll,
		Watch:           cfg.Server.Watch,
		ReloadDebounce:  cfg.GetReloadDebounce(),
		ShutdownTimeout: cfg.GetShutdownTimeout(),
		LoadTimeout:     cfg.GetResumeTimeout(),
	}
}

// Server is the HTTP and WebSocket front end.
type Server struct {
	opts     Options
	source   string
	store    atomic.Pointer[resume.Store]
	builder  *site.Builder
	upgrader websocket.Upgrader
	started  time.Time

	conns   sync.Map // session id -> *SafeConn
	active  atomic.Int64
	reloads atomic.Int64

	mu       sync.Mutex
	listener net.Listener
	http     *http.Server
}

// New creates a server for source. The store is loaded on first use or by
// Run; pass a ready store (resume.NewStaticStore) to skip loading.
func New(source string, store *resume.Store, opts Options) (*Server, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Prompt == "" {
		opts.Prompt = session.DefaultPrompt
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	builder, err := site.NewBuilder(site.Options{
		Theme:  opts.Theme,
		Prompt: opts.Prompt,
		Scroll: opts.Scroll,
		WSPath: WSPath,
		Now:    opts.Now,
	})
	if err != nil {
		return nil, err
	}
	if store == nil {
		store = resume.NewStore(source, resume.WithTimeout(opts.LoadTimeout))
	}

	s := &Server{
		opts:    opts,
		source:  source,
		builder: builder,
		started: opts.Now(),
	}
	s.store.Store(store)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}
	return s, nil
}

// checkOrigin accepts same-host and localhost pages.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if u.Host == r.Host || host == "localhost" || host == "127.0.0.1" || host == "::1" {
		return true
	}
	logging.ServerWarn("rejected websocket origin %q", origin)
	return false
}

// Store returns the store new connections will use.
func (s *Server) Store() *resume.Store {
	return s.store.Load()
}

// Reloads returns how many reloads have been published.
func (s *Server) Reloads() int64 {
	return s.reloads.Load()
}

// ActiveConnections returns the number of open terminals.
func (s *Server) ActiveConnections() int64 {
	return s.active.Load()
}

// Reload loads a fresh store from the source. A failed reload keeps the
// current store.
func (s *Server) Reload(ctx context.Context) error {
	next := resume.NewStore(s.source, resume.WithTimeout(s.opts.LoadTimeout))
	if _, err := next.Load(ctx); err != nil {
		logging.ServerWarn("reload of %s failed, keeping previous document: %v", s.source, err)
		return err
	}
	s.store.Store(next)
	n := s.reloads.Add(1)
	logging.Server("reloaded %s (reload #%d)", s.source, n)
	return nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/"+site.CSSFile, s.handleAsset(site.CSSFile, "text/css; charset=utf-8"))
	mux.HandleFunc("/"+site.ScriptFile, s.handleAsset(site.ScriptFile, "text/javascript; charset=utf-8"))
	mux.HandleFunc("/"+site.JSONFile, s.handleDocument)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc(WSPath, s.handleWebSocket)
	return mux
}

// document returns the shared document. The load is detached from the
// caller's cancellation: it runs once and every later request sees its
// outcome, so one client hanging up must not decide it.
func (s *Server) document(ctx context.Context) (*resume.Document, error) {
	return s.Store().Load(context.WithoutCancel(ctx))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/"+site.IndexFile {
		http.NotFound(w, r)
		return
	}
	doc, err := s.document(r.Context())
	if err != nil {
		// The page still renders; the terminal reports the failure.
		logging.ServerWarn("serving page without document: %v", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.builder.Render(w, doc); err != nil {
		logging.ServerError("render page: %v", err)
	}
}

func (s *Server) handleAsset(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := site.Asset(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(data)
	}
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.document(r.Context())
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(doc)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":      "ok",
		"resume":      s.Store().State().String(),
		"connections": s.ActiveConnections(),
		"reloads":     s.Reloads(),
		"uptime":      s.opts.Now().Sub(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.ServerWarn("websocket upgrade failed: %v", err)
		return
	}
	sc := NewSafeConn(conn)
	id := uuid.NewString()

	s.conns.Store(id, sc)
	s.active.Add(1)
	defer func() {
		s.conns.Delete(id)
		s.active.Add(-1)
		sc.Close()
		logging.Server("terminal %s closed", id)
	}()

	store := s.Store()
	reg := command.NewRegistry(store, command.WithClock(s.opts.Now))
	sess := session.New(reg, session.WithPrompt(s.opts.Prompt))
	if err := sess.Start(context.WithoutCancel(r.Context())); err != nil {
		logging.ServerWarn("terminal %s started without document: %v", id, err)
	}
	logging.Server("terminal %s opened from %s", id, r.RemoteAddr)

	if err := sc.WriteJSON(stateOf(id, sess, false)); err != nil {
		return
	}

	conn.SetReadLimit(maxMessageSize)
	for {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.ServerWarn("terminal %s read error: %v", id, err)
			}
			return
		}

		cleared, ok := apply(sess, msg)
		if !ok {
			if err := sc.WriteJSON(ErrorMessage{
				Type:    TypeError,
				Message: fmt.Sprintf("unsupported message %q/%q", msg.Type, msg.Key),
			}); err != nil {
				return
			}
			continue
		}
		if err := sc.WriteJSON(stateOf(id, sess, cleared)); err != nil {
			return
		}
	}
}

// Addr returns the bound address once Run is listening.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run loads the document, serves until ctx is done and then shuts down.
// With Watch set and a local source, edits to the file trigger a reload.
func (s *Server) Run(ctx context.Context) error {
	if _, err := s.document(ctx); err != nil {
		logging.ServerWarn("starting without document: %v", err)
	}

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Addr, err)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.listener = ln
	s.http = srv
	s.mu.Unlock()

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logging.Server("listening on http://%s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		return s.shutdown()
	})

	if s.opts.Watch && isLocal(s.source) {
		w, err := NewWatcher(s.source, s.opts.ReloadDebounce, func(ctx context.Context) {
			_ = s.Reload(ctx)
		})
		if err != nil {
			logging.ServerWarn("file watching disabled: %v", err)
		} else {
			eg.Go(func() error { return w.Run(egCtx) })
		}
	}

	return eg.Wait()
}

func (s *Server) shutdown() error {
	s.conns.Range(func(_, v any) bool {
		v.(*SafeConn).CloseWith(websocket.CloseGoingAway, "server shutting down")
		return true
	})

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	s.mu.Lock()
	srv := s.http
	s.mu.Unlock()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logging.Server("server stopped")
	return nil
}

func isLocal(source string) bool {
	return source != "" && !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://")
}
