package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/compute"
	"github.com/san-kum/buddhabrot/internal/engine"
	"github.com/san-kum/buddhabrot/internal/metrics"
	"github.com/san-kum/buddhabrot/internal/render"
	"github.com/san-kum/buddhabrot/internal/storage"
	"github.com/san-kum/buddhabrot/internal/view"
)

const commandBuffer = 64

var errQuit = errors.New("stream: client quit")

type session struct {
	conn    *websocket.Conn
	opts    Options
	eng     *engine.Engine
	ctrl    *view.Controller
	metrics *metrics.Collector

	paused bool
	quit   bool
	// failed holds the parameters of the last failed pass until they change.
	failed *engine.Params
	last   engine.PassStats
	dirty  bool
	err    error
	buf    bytes.Buffer
}

func newSession(c *websocket.Conn, opts Options, m *metrics.Collector) (*session, error) {
	eng, err := engine.New(opts.Settings, compute.NewCPUBackend(opts.Workers))
	if err != nil {
		return nil, err
	}
	eng.AddObserver(m)

	ctrl, err := newController(opts)
	if err != nil {
		eng.Close()
		return nil, err
	}
	return &session{conn: c, opts: opts, eng: eng, ctrl: ctrl, metrics: m, dirty: true}, nil
}

func newController(opts Options) (*view.Controller, error) {
	ctrl, err := view.NewController(opts.Base, opts.Constant, opts.Settings.Width, opts.Settings.Height, opts.View)
	if err != nil {
		return nil, err
	}
	if opts.Zoom != 0 {
		if err := ctrl.SetZoom(opts.Zoom); err != nil {
			return nil, err
		}
	}
	return ctrl, nil
}

func (s *session) close() { s.eng.Close() }

// serve runs the command reader and the frame loop until either fails or the
// client asks to quit.
func (s *session) serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	cmds := make(chan Command, commandBuffer)

	g.Go(func() error {
		defer close(cmds)
		for {
			var cmd Command
			if err := wsjson.Read(ctx, s.conn, &cmd); err != nil {
				return err
			}
			select {
			case cmds <- cmd:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
	g.Go(func() error {
		err := s.loop(ctx, cmds)
		if errors.Is(err, errQuit) {
			s.quit = true
			return s.conn.Close(websocket.StatusNormalClosure, "quit")
		}
		return err
	})

	err := g.Wait()
	if s.quit {
		return nil
	}
	return err
}

func (s *session) loop(ctx context.Context, cmds <-chan Command) error {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	if err := s.step(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd, ok := <-cmds:
			if !ok {
				return nil
			}
			if err := s.apply(cmd); err != nil {
				return err
			}
		case <-ticker.C:
			if err := s.step(ctx); err != nil {
				return err
			}
		}
	}
}

// apply folds one command into the session. Invalid resize requests are
// reported in the next status instead of ending the session.
func (s *session) apply(cmd Command) error {
	switch cmd.Op {
	case OpInput:
		if s.ctrl.Handle(cmd.Event) {
			s.dirty = true
		}
		if s.ctrl.QuitRequested() {
			return errQuit
		}
	case OpPause:
		s.paused = true
		s.dirty = true
	case OpResume:
		s.paused = false
	case OpReset:
		s.err = s.eng.Reset()
		s.dirty = true
	case OpResize:
		s.err = s.resize(cmd.Width, cmd.Height)
		s.dirty = true
	default:
		s.err = buddha.NewConfigError("op", string(cmd.Op), "unknown command")
		s.dirty = true
	}
	return nil
}

func (s *session) resize(w, h int) error {
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		return buddha.NewConfigError("resize", fmt.Sprintf("%dx%d", w, h), fmt.Sprintf("want 1..%d per side", MaxDimension))
	}
	if err := s.eng.Resize(w, h); err != nil {
		return err
	}
	s.ctrl.Resize(w, h)
	s.opts.Settings.Width, s.opts.Settings.Height = w, h
	return nil
}

// step runs one pass unless paused and sends the frame when anything changed.
func (s *session) step(ctx context.Context) error {
	if err := s.pass(ctx); err != nil {
		return err
	}
	if !s.dirty {
		return nil
	}
	s.dirty = false
	return s.send(ctx)
}

// pass accumulates once. A failed pass is reported in the next status and its
// parameters are held until the client changes the view or constant; only a
// cancelled ctx ends the session.
func (s *session) pass(ctx context.Context) error {
	if s.paused {
		return nil
	}
	p := s.ctrl.Params()
	if s.failed != nil && *s.failed == p {
		return nil
	}

	st, err := s.eng.Accumulate(ctx, p)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("accumulate: %w", err)
		}
		buddha.Logger().Warn("pass failed", "error", err)
		s.err = fmt.Errorf("accumulate: %w", err)
		s.failed = &p
		s.dirty = true
		return nil
	}
	s.failed = nil
	s.last = st
	s.dirty = true
	return nil
}

func (s *session) send(ctx context.Context) error {
	snap, err := s.eng.Snapshot()
	if err != nil {
		return err
	}

	status := newStatus(s.last, snap.Max(), s.eng.Settings(), s.ctrl, s.paused)
	if s.err != nil {
		status.Error = s.err.Error()
		s.err = nil
	}
	if err := wsjson.Write(ctx, s.conn, status); err != nil {
		return err
	}

	s.buf.Reset()
	if err := storage.Encode(&s.buf, render.Normalize(snap).Image(s.opts.Mode), "png"); err != nil {
		return err
	}
	if err := s.conn.Write(ctx, websocket.MessageBinary, s.buf.Bytes()); err != nil {
		return err
	}
	s.metrics.FrameSent()
	return nil
}
