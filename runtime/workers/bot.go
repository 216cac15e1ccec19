package workers

import (
	"context"
	"keyroom/contract"
	"keyroom/domain"
	"keyroom/errors"
	"keyroom/repositories"
	"keyroom/rng"
	"log/slog"
	"time"
)

// BotWorker answers user messages. Each reply waits a random typing delay,
// is stored like any other message, then published on replies.
type BotWorker struct {
	jobs      <-chan domain.ReplyCommand
	replies   chan<- domain.Message
	responder contract.IResponder
	messages  repositories.IMessageRepository
	src       rng.Source
	minDelay  time.Duration
	maxDelay  time.Duration
	now       func() time.Time
	log       *slog.Logger
}

func NewBotWorker(
	jobs <-chan domain.ReplyCommand,
	replies chan<- domain.Message,
	responder contract.IResponder,
	messages repositories.IMessageRepository,
	src rng.Source,
	minDelay, maxDelay time.Duration,
	log *slog.Logger,
) *BotWorker {
	return &BotWorker{
		jobs:      jobs,
		replies:   replies,
		responder: responder,
		messages:  messages,
		src:       src,
		minDelay:  minDelay,
		maxDelay:  maxDelay,
		now:       func() time.Time { return time.Now().UTC() },
		log:       log,
	}
}

func (w *BotWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping bot worker")
			return ctx.Err()
		case cmd, ok := <-w.jobs:
			if !ok {
				return nil
			}
			if err := w.reply(ctx, cmd); err != nil {
				return err
			}
		}
	}
}

func (w *BotWorker) reply(ctx context.Context, cmd domain.ReplyCommand) error {
	if delay := w.typingDelay(); delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	message := domain.NewBotReply(cmd.Room, cmd.TriggerID, w.responder.Respond(cmd.Trigger), w.now())
	if _, err := w.messages.StoreMessage(message); err != nil {
		// The reply is lost but the worker keeps serving other rooms
		w.log.Error("Unable to store bot reply", "room_id", cmd.Room, "trigger_id", cmd.TriggerID, "error", err)
		return nil
	}
	w.log.Debug("Bot replied", "room_id", cmd.Room, "trigger_id", cmd.TriggerID)

	if w.replies == nil {
		return nil
	}
	select {
	case w.replies <- message:
	default:
		w.log.Warn("Dropping reply notification", "room_id", cmd.Room, "error", errors.ErrReplyQueueFull)
	}
	return nil
}

// typingDelay is uniform in [minDelay, maxDelay].
func (w *BotWorker) typingDelay() time.Duration {
	if w.maxDelay <= w.minDelay {
		return w.minDelay
	}
	spread := int(w.maxDelay - w.minDelay)
	return w.minDelay + time.Duration(w.src.IntN(spread+1))
}
