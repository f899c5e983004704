package workers

import (
	"context"
	"log/slog"

	"github.com/eBu1171/winona-chat/contract"
	"github.com/eBu1171/winona-chat/domain"
)

// Ensure *RouterWorker implements the contract.Worker interface at compile time.
var _ contract.Worker = (*RouterWorker)(nil)

// RouterWorker drains the inbound command channel and hands each command to
// the router. A single instance consumes the channel: that is what keeps
// commands from one connection processed in the order they were sent.
type RouterWorker struct {
	log      *slog.Logger
	router   contract.Router
	commands chan domain.Command
}

func NewRouterWorker(log *slog.Logger, router contract.Router, commands chan domain.Command) *RouterWorker {
	return &RouterWorker{log: log, router: router, commands: commands}
}

func (w *RouterWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping router worker")
			return ctx.Err()
		case cmd, ok := <-w.commands:
			if !ok {
				w.log.Debug("Command channel is closed")
				return nil
			}
			w.router.Handle(ctx, cmd)
		}
	}
}
