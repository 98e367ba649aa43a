package stream

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/engine"
	"github.com/san-kum/buddhabrot/internal/metrics"
	"github.com/san-kum/buddhabrot/internal/plane"
	"github.com/san-kum/buddhabrot/internal/render"
	"github.com/san-kum/buddhabrot/internal/view"
)

//go:embed static
var staticFS embed.FS

const (
	DefaultInterval = 50 * time.Millisecond
	// MaxDimension bounds client resize requests.
	MaxDimension = 4096
	shutdownWait = 5 * time.Second
)

// Options configure every session the server starts.
type Options struct {
	Settings engine.Settings
	Base     plane.Region
	Constant complex128
	View     view.Settings
	// Zoom is the starting zoom of every session; zero means 1.
	Zoom    float64
	Workers int
	Mode    render.Mode
	// Interval is the frame period of each session.
	Interval time.Duration
	// OriginPatterns are passed to websocket.Accept. Empty means same origin.
	OriginPatterns []string
}

type Server struct {
	opts    Options
	reg     *prometheus.Registry
	metrics *metrics.Collector
	mux     *http.ServeMux
}

// NewServer validates opts and builds the HTTP routes.
func NewServer(opts Options) (*Server, error) {
	if err := opts.Settings.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Base.Validate(); err != nil {
		return nil, err
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Mode == "" {
		opts.Mode = render.ModeRGB
	}
	if opts.View == (view.Settings{}) {
		opts.View = view.DefaultSettings()
	}
	if _, err := newController(opts); err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	s := &Server{
		opts:    opts,
		reg:     reg,
		metrics: metrics.NewCollector(reg),
		mux:     http.NewServeMux(),
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}
	s.mux.HandleFunc("/ws", s.handleWS)
	s.mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	s.mux.Handle("/", http.FileServerFS(static))
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.mux }

// Registry exposes the metrics registry for tests and embedding.
func (s *Server) Registry() *prometheus.Registry { return s.reg }

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	buddha.Logger().Info("stream server listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.opts.OriginPatterns,
	})
	if err != nil {
		buddha.Logger().Warn("websocket accept failed", "error", err)
		return
	}

	s.metrics.ClientConnected()
	defer s.metrics.ClientDisconnected()

	log := buddha.Logger().With("remote", r.RemoteAddr)
	log.Info("client connected")

	sess, err := newSession(c, s.opts, s.metrics)
	if err != nil {
		log.Error("session setup failed", "error", err)
		c.Close(websocket.StatusInternalError, "session setup failed")
		return
	}
	defer sess.close()

	err = sess.serve(r.Context())
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		err = nil
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("session ended", "error", err)
		c.Close(websocket.StatusInternalError, "session error")
		return
	}
	log.Info("client disconnected")
	c.Close(websocket.StatusNormalClosure, "")
}
