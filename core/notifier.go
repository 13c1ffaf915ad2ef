package core

import (
	"github.com/boyuanitsm/fort/update"
)

// Notifier decouples the service layer from update-event delivery. Services
// call Send after the primary store write succeeds; implementations must be
// best-effort and non-blocking.
type Notifier interface {
	Send(op update.Operation, kind update.ResourceKind, payload update.Keyed)
}

// NopNotifier discards every event. Used when a service runs without a hub,
// e.g. in migrations or one-off tooling.
type NopNotifier struct{}

// Send discards the event.
func (NopNotifier) Send(op update.Operation, kind update.ResourceKind, payload update.Keyed) {}
