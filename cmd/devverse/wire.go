package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/devverse"
	"github.com/phanxgames/devverse/blog"
	"github.com/phanxgames/devverse/config"
	"github.com/phanxgames/devverse/contact"
	"github.com/phanxgames/devverse/locale"
	"github.com/phanxgames/devverse/pages"
	"github.com/phanxgames/devverse/profile"
	"github.com/phanxgames/devverse/storage"
)

func openStore(sc config.StorageConfig) (storage.Store, error) {
	switch sc.Driver {
	case config.DriverSQLite:
		s, err := storage.OpenSQLite(sc.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return s, nil
	default:
		return storage.NewMemory(), nil
	}
}

// trackerKeys uses the configured preference keys, keeping the defaults for
// any left empty.
func trackerKeys(sk config.StorageKeysConfig) profile.Keys {
	keys := profile.DefaultKeys()
	if sk.Visited != "" {
		keys.Visited = sk.Visited
	}
	if sk.Achievements != "" {
		keys.Achievements = sk.Achievements
	}
	if sk.PostsRead != "" {
		keys.PostsRead = sk.PostsRead
	}
	return keys
}

// startBlog loads the posts directory and, when configured, watches it.
// The returned stop func is never nil.
func startBlog(ctx context.Context, bc config.BlogConfig) (*blog.Library, func(), error) {
	if bc.Dir == "" {
		return nil, func() {}, nil
	}
	lib := blog.NewLibrary(os.DirFS(bc.Dir), ".", logger.Named("blog"))
	if err := lib.Reload(); err != nil {
		logger.Warn("blog posts failed to load, showing placeholder", zap.String("dir", bc.Dir), zap.Error(err))
	}
	if !bc.Watch {
		return lib, func() {}, nil
	}
	w := blog.NewWatcher(lib, bc.Dir,
		blog.WithWatcherLogger(logger.Named("blog.watch")),
		blog.WithOnReload(func(posts int, err error) {
			if err == nil {
				logger.Info("blog reloaded", zap.Int("posts", posts))
			}
		}))
	if err := w.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("watch blog dir: %w", err)
	}
	return lib, func() { _ = w.Close() }, nil
}

func newSubmitter(cc config.ContactConfig) contact.Submitter {
	if cc.Endpoint == "" {
		logger.Warn("contact.endpoint is not set; the contact form cannot send")
		return nil
	}
	return contact.NewRelaySubmitter(cc.Endpoint, cc.Timeout, contact.WithRelayLogger(logger.Named("contact")))
}

func runApp(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()
	prefs := storage.NewPrefs(store, logger.Named("prefs"))

	bus := profile.NewBus(logger.Named("bus"))
	// The switcher applies the saved theme before the tracker subscribes, so
	// restoring a theme never counts as switching it.
	theme := profile.NewThemeSwitcher(prefs, bus, profile.ThemeOptions{
		Themes:     cfg.App.Themes,
		Default:    cfg.App.DefaultTheme,
		StorageKey: cfg.StorageKeys.Theme,
		Logger:     logger.Named("theme"),
	})
	tracker := profile.NewTracker(cfg.PlanetIDs(), trackerKeys(cfg.StorageKeys), prefs, bus, logger.Named("tracker"))
	defer tracker.Close()

	var langs []string
	if cfg.App.Language != "" {
		langs = append(langs, cfg.App.Language)
	}
	loc, err := locale.New(logger.Named("locale"), langs...)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}

	lib, stopBlog, err := startBlog(ctx, cfg.Blog)
	if err != nil {
		return err
	}
	defer stopBlog()

	fonts, err := devverse.DefaultFonts()
	if err != nil {
		return fmt.Errorf("load fonts: %w", err)
	}

	svc := &devverse.Services{
		Config:    cfg,
		Logger:    logger,
		Prefs:     prefs,
		Bus:       bus,
		Theme:     theme,
		Tracker:   tracker,
		Locale:    loc,
		Blog:      lib,
		Submitter: newSubmitter(cfg.Contact),
		Fonts:     fonts,
	}
	var opts []devverse.AppOption
	if debug {
		opts = append(opts, devverse.WithScene(devverse.NewScene(
			devverse.WithSceneLogger(logger.Named("scene")),
			devverse.WithDebug(true),
		)))
	}
	app, err := devverse.NewApp(svc, pages.RegisterAll(devverse.NewRegistry(), nil), opts...)
	if err != nil {
		return err
	}

	rc := devverse.RunConfig{Start: startPath}
	if scriptPath != "" {
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		if rc.Script, err = devverse.LoadTestScript(data); err != nil {
			return err
		}
	}

	go func() {
		<-ctx.Done()
		app.Post(app.Close)
	}()

	logger.Info("starting",
		zap.String("start", startPath),
		zap.String("language", loc.Language().String()),
		zap.String("storage", cfg.Storage.Driver))
	return devverse.Run(app, rc)
}
