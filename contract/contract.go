//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"github.com/eBu1171/winona-chat/domain"
	"github.com/eBu1171/winona-chat/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is the abstract outbound half of a per-connection channel,
// also implemented by permanent in-process consumers (metrics, timeline).
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// Router consumes decoded inbound commands, one at a time.
type Router interface {
	Handle(ctx context.Context, cmd domain.Command)
}

// IChatService is the surface the transport layer talks to.
type IChatService interface {
	Connect(id string, sink EventSink)
	Dispatch(ctx context.Context, cmd domain.Command)
	Stats() domain.Stats
}
