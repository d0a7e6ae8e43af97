package appstate

import (
	"context"
	"fmt"

	"buildhub-state/internal/entity"
	"buildhub-state/internal/middleware"
	"buildhub-state/internal/slice/auth"
	"buildhub-state/internal/slice/chatbot"
	"buildhub-state/internal/slice/contractor"
	"buildhub-state/pkg/store"
)

// CheckOptions are the development check exclusions.
var CheckOptions = store.CheckOptions{
	IgnoredActions:     store.PersistActions,
	IgnoredActionPaths: []string{"meta.arg", "payload.timestamp"},
	IgnoredPaths:       []string{"items.dates"},
}

type Options struct {
	Storage    store.Storage
	Logger     store.Logger
	Production bool
	// DevTools, when set, receives every dispatched action. App.Close closes it.
	DevTools *store.DevTools

	Auth       auth.Options
	Chatbot    chatbot.Options
	Contractor contractor.Options
}

// App is the process-wide store with its thunks and persistence.
type App struct {
	Store      *store.Store[*RootState]
	Auth       *auth.Thunks
	Chatbot    *chatbot.Thunks
	Contractor *contractor.Thunks

	persistor *store.Persistor[*RootState, PersistedState]
	devtools  *store.DevTools
	logger    store.Logger
}

// New composes the store: reducer, persistence, middleware, devtools. The
// auth branch is rehydrated from storage before New returns.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Storage == nil {
		return nil, fmt.Errorf("appstate: storage is required")
	}
	if opts.Logger == nil {
		opts.Logger = store.NopLogger()
	}
	app := &App{devtools: opts.DevTools, logger: opts.Logger}

	var mw []store.Middleware[*RootState]
	if !opts.Production {
		mw = append(mw,
			store.SerializableCheck[*RootState](CheckOptions, opts.Logger),
			store.ImmutableCheck[*RootState](CheckOptions, opts.Logger),
		)
	}
	mw = append(mw, middleware.ErrorMiddleware[*RootState]())
	if !opts.Production {
		mw = append(mw, middleware.APIMiddleware[*RootState](opts.Logger))
	}
	mw = append(mw, middleware.MetricsMiddleware[*RootState]())

	storeOpts := []store.Option[*RootState]{
		store.WithMiddleware(mw...),
		store.WithLogger[*RootState](opts.Logger),
	}
	if opts.DevTools != nil {
		storeOpts = append(storeOpts, store.WithEnhancer[*RootState](opts.DevTools.Enhancer()))
	}
	app.Store = store.New(RootReducer, InitialState, storeOpts...)

	authOpts := opts.Auth
	authOpts.Storage = opts.Storage
	if authOpts.Logger == nil {
		authOpts.Logger = opts.Logger
	}
	app.Auth = auth.NewThunks(authOpts)

	chatOpts := opts.Chatbot
	if chatOpts.Logger == nil {
		chatOpts.Logger = opts.Logger
	}
	chatOpts.History = func() []entity.ChatMessage { return app.Store.GetState().Chatbot.Messages }
	app.Chatbot = chatbot.NewThunks(chatOpts)

	app.Contractor = contractor.NewThunks(opts.Contractor)

	app.persistor = store.NewPersistor(opts.Storage, Boundary, opts.Logger)
	if err := app.persistor.Attach(ctx, app.Store); err != nil {
		return app, fmt.Errorf("rehydrate: %w", err)
	}
	return app, nil
}

func (a *App) State() *RootState {
	return a.Store.GetState()
}

// Logout ends the session and purges the persisted blob.
func (a *App) Logout(ctx context.Context) error {
	_, err := a.Auth.Logout.Dispatch(ctx, a.Store, struct{}{})
	if purgeErr := a.persistor.Purge(ctx, a.Store); purgeErr != nil && err == nil {
		err = purgeErr
	}
	return err
}

// Reset returns every branch to its initial state. The persisted blob
// follows on the next flush.
func (a *App) Reset() {
	a.Store.Reset()
	a.logger.Info("App", "Store reset", nil)
}

// Close stops persistence and the devtools feed.
func (a *App) Close() error {
	a.persistor.Detach()
	if a.devtools != nil {
		return a.devtools.Close()
	}
	return nil
}
