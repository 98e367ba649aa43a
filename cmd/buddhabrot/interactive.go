package main

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/buddhabrot/internal/compute"
	"github.com/san-kum/buddhabrot/internal/config"
	"github.com/san-kum/buddhabrot/internal/engine"
	"github.com/san-kum/buddhabrot/internal/gui"
	"github.com/san-kum/buddhabrot/internal/render"
	"github.com/san-kum/buddhabrot/internal/stream"
	"github.com/san-kum/buddhabrot/internal/view"
	"github.com/san-kum/buddhabrot/internal/viz"
)

// newController starts the view on the configured region, constant and zoom.
func newController(cfg *config.Config) (*view.Controller, error) {
	base, err := cfg.ViewRegion()
	if err != nil {
		return nil, err
	}
	ctrl, err := view.NewController(base, cfg.Constant.Value(), cfg.Width, cfg.Height, cfg.ViewSettings())
	if err != nil {
		return nil, err
	}
	if err := ctrl.SetZoom(cfg.View.Zoom); err != nil {
		return nil, err
	}
	return ctrl, nil
}

func newExplorer(ctx context.Context, title string, cfg *config.Config) (viz.Model, *engine.Engine, error) {
	settings, err := cfg.Settings()
	if err != nil {
		return viz.Model{}, nil, err
	}
	ctrl, err := newController(cfg)
	if err != nil {
		return viz.Model{}, nil, err
	}
	eng, err := engine.New(settings, compute.NewCPUBackend(cfg.Workers))
	if err != nil {
		return viz.Model{}, nil, err
	}
	return viz.NewModel(ctx, title, eng, ctrl), eng, nil
}

func runExplore(cmd *cobra.Command, args []string) error {
	if theme != "" {
		if err := viz.SetTheme(theme); err != nil {
			return err
		}
	}
	ctx, stop := signalContext()
	defer stop()

	var engines []*engine.Engine
	defer func() {
		for _, e := range engines {
			e.Close()
		}
	}()

	var model tea.Model
	if preset == "" && configFile == "" {
		items := make([]viz.MenuItem, 0, len(config.Presets))
		for _, name := range config.ListPresets() {
			items = append(items, viz.MenuItem{Name: name, Description: config.Presets[name].Description})
		}
		model = viz.NewMenu(items, func(name string) (viz.Model, error) {
			preset = name
			cfg, err := loadConfig(cmd)
			if err != nil {
				return viz.Model{}, err
			}
			m, eng, err := newExplorer(ctx, name, cfg)
			if err != nil {
				return viz.Model{}, err
			}
			engines = append(engines, eng)
			return m, nil
		})
	} else {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		title := preset
		if title == "" {
			title = "buddhabrot"
		}
		m, eng, err := newExplorer(ctx, title, cfg)
		if err != nil {
			return err
		}
		engines = append(engines, eng)
		model = m
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return err
	}
	if m, ok := final.(viz.Model); ok {
		return m.Err()
	}
	return nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	base, err := cfg.ViewRegion()
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	title := "buddhabrot"
	if preset != "" {
		title += " - " + preset
	}
	return gui.Run(ctx, gui.Options{
		Title:    title,
		Settings: settings,
		Base:     base,
		Constant: cfg.Constant.Value(),
		View:     cfg.ViewSettings(),
		Backend:  cfg.Backend,
		Workers:  cfg.Workers,
		Zoom:     cfg.View.Zoom,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	base, err := cfg.ViewRegion()
	if err != nil {
		return err
	}
	m, err := render.ParseMode(cfg.Output.Mode)
	if err != nil {
		return err
	}

	srv, err := stream.NewServer(stream.Options{
		Settings:       settings,
		Base:           base,
		Constant:       cfg.Constant.Value(),
		View:           cfg.ViewSettings(),
		Zoom:           cfg.View.Zoom,
		Workers:        cfg.Workers,
		Mode:           m,
		Interval:       interval,
		OriginPatterns: origins,
	})
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	return srv.ListenAndServe(ctx, addr)
}
