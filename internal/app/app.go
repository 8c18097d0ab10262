package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/KapJ1coH/roomchat/internal/config"
	"github.com/KapJ1coH/roomchat/internal/core"
	"github.com/KapJ1coH/roomchat/internal/session"
	"github.com/KapJ1coH/roomchat/internal/store"
	"github.com/KapJ1coH/roomchat/internal/store/sqlite"
	transporthttp "github.com/KapJ1coH/roomchat/internal/transport/http"
)

// App wires together the actor, session arena and transport layer.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	actor           *core.Actor
	seed            store.SeedStore
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	seed, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open seed store: %w", err)
	}

	actor := core.NewActor(logger)
	if err := populate(actor, seed, logger); err != nil {
		seed.Close()
		return nil, fmt.Errorf("populate actor: %w", err)
	}

	sessions := session.NewArena()
	server := transporthttp.NewServer(actor, sessions, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		actor:           actor,
		seed:            seed,
		log:             logger,
	}, nil
}

// populate loads seeded users, rooms and room history into the actor before
// it starts running; after this the seed store is never read again.
func populate(actor *core.Actor, seed store.SeedStore, logger *zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users, err := seed.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		actor.AddUser(core.Profile{ID: u.ID, Name: u.Name, Username: u.Username})
	}

	rooms, err := seed.ListRooms(ctx)
	if err != nil {
		return fmt.Errorf("list rooms: %w", err)
	}
	for _, r := range rooms {
		room := core.NewRoom(r.ID, r.Name, r.Capacity)
		msgs, err := seed.ListMessages(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("list messages for room %d: %w", r.ID, err)
		}
		for _, m := range msgs {
			room.Log.Append(core.Message{
				Time:     m.CreatedAt,
				Text:     m.Body,
				From:     m.UserID,
				Username: m.Username,
			})
		}
		actor.AddRoom(room)
	}

	logger.Info().Int("users", len(users)).Int("rooms", len(rooms)).Msg("actor state populated")
	return nil
}

// Run starts the actor and HTTP server and blocks until context cancellation
// or a fatal server error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.actor.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

func (a *App) cleanup() {
	if a.seed != nil {
		if err := a.seed.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close seed store")
		}
	}
}
