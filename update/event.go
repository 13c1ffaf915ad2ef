// Package update implements the security resource update notifier: a fan-out
// hub that tells interested subscribers (SDK clients caching authorization
// data, the admin console, an optional AMQP relay) that a security resource
// of some app was created, updated or deleted.
package update

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Operation tags an update event with the persistence operation that produced
// it.
type Operation string

const (
	OperationPost   Operation = "POST"
	OperationPut    Operation = "PUT"
	OperationDelete Operation = "DELETE"
)

// ResourceKind tags an update event with the class of the changed entity.
type ResourceKind string

const (
	KindSecurityApp            ResourceKind = "SECURITY_APP"
	KindSecurityGroup          ResourceKind = "SECURITY_GROUP"
	KindSecurityRole           ResourceKind = "SECURITY_ROLE"
	KindSecurityNav            ResourceKind = "SECURITY_NAV"
	KindSecurityResourceEntity ResourceKind = "SECURITY_RESOURCE_ENTITY"
	KindSecurityUser           ResourceKind = "SECURITY_USER"
)

// Keyed is anything that can name the app it belongs to. Callers must resolve
// the owning app before handing a payload to the hub; for deletes that means
// capturing the appKey before the row is removed.
type Keyed interface {
	GetAppKey() string
}

// Tombstone is the payload of a DELETE event. The entity itself may already be
// gone from the store, so only the id and the previously captured appKey
// survive.
type Tombstone struct {
	ID     int64  `json:"id"`
	AppKey string `json:"appKey"`
}

// GetAppKey returns the appKey captured before the delete.
func (t Tombstone) GetAppKey() string {
	return t.AppKey
}

// Event describes one completed create/update/delete of a security resource.
// Events are immutable and transient: they exist only for the duration of
// delivery and are never persisted.
type Event struct {
	ID        string       `json:"id"`
	Time      time.Time    `json:"time"`
	Operation Operation    `json:"operation"`
	Kind      ResourceKind `json:"kind"`
	AppKey    string       `json:"appKey"`
	Data      interface{}  `json:"data"`
}

// NewEvent builds an immutable event for the given operation, kind and
// payload snapshot.
func NewEvent(op Operation, kind ResourceKind, appKey string, data interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Time:      time.Now().UTC(),
		Operation: op,
		Kind:      kind,
		AppKey:    appKey,
		Data:      data,
	}
}

// Type returns the event name used as AMQP routing key, e.g.
// fort.resource.security_role.delete.
func (e Event) Type() string {
	return "fort.resource." + strings.ToLower(string(e.Kind)) + "." + strings.ToLower(string(e.Operation))
}
