package runtime

import (
	"context"
	"fmt"
	"keyroom/internal"
	"keyroom/keys"
	"keyroom/repositories"
	"keyroom/responder"
	"keyroom/rng"
	"keyroom/runtime/workers"
	"keyroom/services"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// Engine owns every long-lived component of a keyroom process.
type Engine struct {
	log          *slog.Logger
	db           *badger.DB
	Responder    *responder.Responder
	Service      *services.ChatService
	Orchestrator *Orchestrator
}

// NewEngine opens the database and wires the components. Close must be called once done.
func NewEngine(config internal.Config, log *slog.Logger, src rng.Source) (*Engine, error) {
	if src == nil {
		src = rng.Default()
	}
	table, err := responder.LoadOrDefault(config.PatternsFile)
	if err != nil {
		return nil, err
	}
	bot, err := responder.New(table, src, log)
	if err != nil {
		return nil, fmt.Errorf("reply table: %w", err)
	}

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return nil, fmt.Errorf("database opening failed: %w", err)
	}

	rooms := repositories.NewRoomRepository(db, log)
	messages := repositories.NewMessageRepository(db, log, config.LimitMessages)
	profiles := repositories.NewProfileRepository(db)

	orchestrator := NewOrchestrator(log,
		workers.NewSupervisor(log, config.RestartInterval),
		bot, messages, src,
		config.BotBufferSize, config.BotMinDelay, config.BotMaxDelay,
	)
	service := services.NewChatService(rooms, messages, profiles,
		keys.NewKeyService(src), orchestrator, config.BotReplyLimit, log)

	return &Engine{
		log:          log,
		db:           db,
		Responder:    bot,
		Service:      service,
		Orchestrator: orchestrator,
	}, nil
}

func (e *Engine) Start(ctx context.Context) error {
	if err := e.Orchestrator.Start(ctx); err != nil {
		return fmt.Errorf("orchestrator failed to start: %w", err)
	}
	return nil
}

// Close stops the bot and closes the database.
func (e *Engine) Close() error {
	e.Orchestrator.Stop()
	e.log.Debug("Closing BadgerDB...")
	return e.db.Close()
}
