// Package runtime runs the background side of the chat: the bot reply pipeline.
// It orchestrates the system without containing business logic or domain rules.
package runtime

import (
	"context"
	"fmt"
	"keyroom/contract"
	"keyroom/domain"
	"keyroom/repositories"
	"keyroom/rng"
	"keyroom/runtime/workers"
	"log/slog"
	"sync"
	"time"
)

type Orchestrator struct {
	mu         sync.Mutex
	log        *slog.Logger
	supervisor contract.ISupervisor
	jobs       chan domain.ReplyCommand
	replies    chan domain.Message
	bot        *workers.BotWorker
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	responder contract.IResponder, messages repositories.IMessageRepository, src rng.Source,
	bufferSize int, minDelay, maxDelay time.Duration) *Orchestrator {
	jobs := make(chan domain.ReplyCommand, bufferSize)
	replies := make(chan domain.Message, bufferSize)
	return &Orchestrator{
		log:        log,
		supervisor: supervisor,
		jobs:       jobs,
		replies:    replies,
		bot:        workers.NewBotWorker(jobs, replies, responder, messages, src, minDelay, maxDelay, log),
	}
}

// Dispatch queues a reply, blocking while the queue is full.
func (o *Orchestrator) Dispatch(ctx context.Context, cmd domain.ReplyCommand) error {
	select {
	case o.jobs <- cmd:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("dispatch reply for room %s: %w", cmd.Room, ctx.Err())
	}
}

// Replies delivers every bot message once it has been stored.
func (o *Orchestrator) Replies() <-chan domain.Message {
	return o.replies
}

// Start registers the bot worker and runs the supervisor in the background.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done != nil {
		return fmt.Errorf("orchestrator already started")
	}
	o.supervisor.Add(o.bot)
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.done = make(chan struct{})
	done := o.done
	go func() {
		defer close(done)
		o.supervisor.Run(runCtx)
	}()
	o.log.Info("Orchestrator started")
	return nil
}

// Stop cancels the workers and waits for them. Pending replies are abandoned.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	done, cancel := o.done, o.cancel
	o.mu.Unlock()
	if done == nil {
		return
	}
	cancel()
	o.supervisor.Stop()
	<-done
	o.log.Info("Orchestrator stopped")
}
