package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/khalidelboray/convos/internal/cookie"
	"github.com/khalidelboray/convos/internal/loop"
	"github.com/khalidelboray/convos/internal/reactive"
	"github.com/khalidelboray/convos/internal/store"
	"github.com/khalidelboray/convos/internal/viewport"
)

// app is the viewport wired to its sqlite stores. Flushes are scheduled on
// loop and run by Drain or Run.
type app struct {
	store   *store.Store
	durable *store.Durable
	session *cookie.Store
	loop    *loop.Loop
	view    *viewport.Viewport
}

func openApp(opts *RootOptions) (*app, error) {
	var vopts []viewport.Option

	if opts.Themes != "" {
		catalog, err := viewport.LoadCatalog(opts.Themes)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load themes", err)
		}
		vopts = append(vopts, viewport.WithCatalog(catalog))
	}
	if opts.Settings != "" {
		settings, err := viewport.LoadSettings(opts.Settings)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load settings", err)
		}
		vopts = append(vopts, viewport.WithSettings(settings))
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to open database %s", opts.DB), err)
	}

	if n, err := st.Cookies().PurgeExpired(context.Background()); err != nil {
		slog.Warn("failed to purge expired cookies", "error", err)
	} else if n > 0 {
		slog.Debug("purged expired cookies", "count", n)
	}

	l := loop.New()
	durable := st.Durable(store.DefaultNamespace)
	session := cookie.NewStore(st.Cookies(),
		cookie.WithName(opts.CookieName),
		cookie.WithCache(cookie.NewCache()),
	)
	vopts = append(vopts,
		viewport.WithDarkPreference(opts.Dark),
		viewport.WithReactiveOptions(
			reactive.WithScheduler(l),
			reactive.WithSessionStore(session),
			reactive.WithDurableStore(durable),
			reactive.WithLogger(slog.Default()),
		),
	)

	view, err := viewport.New(vopts...)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitFailure, "failed to create viewport", err)
	}
	view.LoadThemes()
	l.Drain()

	return &app{store: st, durable: durable, session: session, loop: l, view: view}, nil
}

// Close runs pending flushes and closes the database.
func (a *app) Close() error {
	a.loop.Drain()
	return a.store.Close()
}
