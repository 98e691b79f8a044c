// Package app provides the main Selah application
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"maunium.net/go/mautrix/event"

	"github.com/bdobrica/Selah/common/trace"
	"github.com/bdobrica/Selah/internal/selah/commands"
	"github.com/bdobrica/Selah/internal/selah/dialog"
	"github.com/bdobrica/Selah/internal/selah/lookup"
	"github.com/bdobrica/Selah/internal/selah/matrix"
	"github.com/bdobrica/Selah/internal/selah/responses"
	"github.com/bdobrica/Selah/internal/selah/store"
)

// Config holds application configuration
type Config struct {
	DatabasePath string
	Matrix       matrix.Config
	// LookupBaseURL overrides the passage service endpoint. Empty uses the
	// labs.bible.org default.
	LookupBaseURL string
	// LookupTimeout bounds each passage request. Zero uses the client default.
	LookupTimeout time.Duration
	// DialogTTL is how long a confirmation question stays answerable.
	// Defaults to dialog.DefaultTTL when zero.
	DialogTTL time.Duration
	// ResponsesPath points at a YAML response-tables file. When empty the
	// embedded defaults are used.
	ResponsesPath string
	// RandSeed seeds the reply picker. Zero seeds from the clock.
	RandSeed int64
}

// App is the main Selah application
type App struct {
	config   *Config
	store    *store.Store
	matrix   *matrix.Client
	router   *commands.Router
	handlers *commands.Handlers
	dialogs  *dialog.Store
	picker   *responses.Picker
	tables   *responses.Tables
}

// New creates a new Selah application
func New(config *Config) (*App, error) {
	// Initialize database
	slog.Info("opening database", "path", config.DatabasePath)
	store, err := store.New(config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Matrix client.
	// Inject the DB so the client can persist the sync token across restarts.
	matrixCfg := config.Matrix
	matrixCfg.DB = store.DB()
	slog.Info("connecting to Matrix", "homeserver", matrixCfg.Homeserver)
	matrixClient, err := matrix.New(&matrixCfg)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize Matrix client: %w", err)
	}

	// Load response tables, embedded defaults or an operator-provided file.
	var tables *responses.Tables
	if config.ResponsesPath != "" {
		data, err := os.ReadFile(config.ResponsesPath)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to read responses file: %w", err)
		}
		tables, err = responses.Load(data)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to load responses file: %w", err)
		}
		slog.Info("response tables loaded", "path", config.ResponsesPath)
	} else {
		tables, err = responses.Default()
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to load default responses: %w", err)
		}
	}

	seed := config.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	picker := responses.NewPicker(rand.New(rand.NewSource(seed)))

	lookupClient := lookup.New(lookup.Config{
		BaseURL: config.LookupBaseURL,
		Timeout: config.LookupTimeout,
	})

	dialogs := dialog.NewStore(store.DB(), config.DialogTTL)

	handlers := commands.NewHandlers(commands.Config{
		Store:  store,
		Lookup: lookupClient,
		Tables: tables,
	})

	// Initialize command router
	router := commands.NewRouter("/bible")
	router.Register("help", handlers.HandleHelp)
	router.Register("version", handlers.HandleVersion)
	router.Register("ping", handlers.HandlePing)
	// Any other /bible argument is treated as a passage request.
	router.RegisterFallback(handlers.HandleFetch)

	return &App{
		config:   config,
		store:    store,
		matrix:   matrixClient,
		router:   router,
		handlers: handlers,
		dialogs:  dialogs,
		picker:   picker,
		tables:   tables,
	}, nil
}

// Run starts the Selah application
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start Matrix client
	slog.Info("starting Matrix sync")
	if err := a.matrix.Start(ctx, a.handleMessage); err != nil {
		return fmt.Errorf("failed to start Matrix client: %w", err)
	}

	// Sweep expired confirmation dialogs so stale questions stop absorbing
	// yes/no replies.
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := a.dialogs.ExpireStale(ctx)
				if err != nil {
					slog.Warn("dialog sweep failed", "err", err)
				} else if n > 0 {
					slog.Info("expired stale dialogs", "count", n)
				}
			}
		}
	}()

	// Send startup message to watched rooms
	for _, roomID := range a.config.Matrix.Rooms {
		a.matrix.SendNotice(roomID, "📖 Selah is listening. Type /bible help for commands.")
	}

	slog.Info("Selah is running; press Ctrl+C to stop")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	slog.Info("shutting down")
	return nil
}

// Stop stops the Selah application
func (a *App) Stop() {
	slog.Info("stopping Matrix client")
	a.matrix.Stop()

	slog.Info("closing database")
	a.store.Close()
}

// handleMessage processes incoming Matrix messages
func (a *App) handleMessage(ctx context.Context, evt *event.Event) {
	msgContent := evt.Content.AsMessage()
	if msgContent == nil {
		return
	}

	text := msgContent.Body
	roomID := evt.RoomID.String()
	sender := evt.Sender.String()

	// A pending confirmation question absorbs the sender's next message
	// before anything else gets a look at it.
	st, err := a.dialogs.Pending(ctx, roomID, sender)
	if err != nil {
		slog.Error("pending dialog lookup failed", "room", roomID, "err", err)
	} else if st != nil {
		a.resolveDialog(ctx, st, text, evt)
		return
	}

	// Try to route the command
	response, err := a.router.Route(ctx, text, evt)
	if err == nil {
		a.send(roomID, response)
		return
	}
	if !errors.Is(err, commands.ErrNotACommand) {
		a.matrix.ReplyToMessage(roomID, evt.ID.String(), fmt.Sprintf("❌ Error: %s", err))
		return
	}

	// Ordinary chat. Scripture references found here are not posted outright;
	// the sender is asked first.
	if cits := a.handlers.ExtractCitations(text); len(cits) > 0 {
		if _, err := a.dialogs.Begin(ctx, roomID, sender, cits); err != nil {
			slog.Error("failed to open dialog", "room", roomID, "err", err)
			return
		}
		a.send(roomID, dialog.Prompt(cits))
		return
	}

	if responses.IsThanks(text) {
		a.send(roomID, a.picker.Pick(a.tables.Thanks))
		return
	}

	if a.picker.Sometimes(a.tables.Ambient.Odds) {
		a.send(roomID, a.picker.Pick(a.tables.Ambient.Replies))
	}
}

// resolveDialog feeds a reply into the pending confirmation and acts on the
// outcome.
func (a *App) resolveDialog(ctx context.Context, st *dialog.State, text string, evt *event.Event) {
	roomID := evt.RoomID.String()
	out := dialog.OnReply(text, st)

	switch out.Kind {
	case dialog.KindReprompt:
		a.send(roomID, out.Prompt)

	case dialog.KindAbort:
		if err := a.dialogs.Resolve(ctx, st.ID, dialog.StatusDeclined); err != nil {
			slog.Error("failed to resolve dialog", "id", st.ID, "err", err)
		}
		a.send(roomID, "No problem, I won't post it.")

	case dialog.KindProceed:
		if err := a.dialogs.Resolve(ctx, st.ID, dialog.StatusConfirmed); err != nil {
			slog.Error("failed to resolve dialog", "id", st.ID, "err", err)
		}
		a.matrix.SetTyping(roomID, true, 15*time.Second)
		defer a.matrix.SetTyping(roomID, false, 0)

		traceID := trace.NewID()
		ctx = trace.WithID(ctx, traceID)
		reply, err := a.handlers.FetchAndFormat(ctx, traceID, st.Sender, st.Citations)
		if err != nil {
			slog.Error("passage fetch failed", "trace_id", traceID, "err", err)
			a.send(roomID, commands.ApologyReply)
			return
		}
		a.send(roomID, reply)
	}
}

// send delivers a chat reply, formatted for Matrix clients that render HTML.
func (a *App) send(roomID, message string) {
	if message == "" {
		return
	}
	htmlBody := chatToHTML(message)
	if err := a.matrix.SendFormattedMessage(roomID, htmlBody, message); err != nil {
		slog.Error("failed to send response", "room", roomID, "err", err)
	}
}
