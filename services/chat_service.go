package services

import (
	"context"

	"github.com/eBu1171/winona-chat/contract"
	"github.com/eBu1171/winona-chat/domain"
	"github.com/eBu1171/winona-chat/runtime"
)

// ChatService is the thin facade the transport layer talks to.
// It adds nothing to the engine's semantics; it exists so the transport
// depends on an interface rather than on the engine's internals.
type ChatService struct {
	engine *runtime.Engine
}

var _ contract.IChatService = (*ChatService)(nil)

func NewChatService(engine *runtime.Engine) *ChatService {
	return &ChatService{engine: engine}
}

func (s *ChatService) Connect(id string, sink contract.EventSink) {
	s.engine.Connect(id, sink)
}

func (s *ChatService) Dispatch(ctx context.Context, cmd domain.Command) {
	s.engine.Dispatch(ctx, cmd)
}

func (s *ChatService) Stats() domain.Stats {
	return s.engine.Stats()
}
