package domain

import (
	"strings"

	"github.com/bytedance/sonic"
)

// Change actions carried by ChangeEvent.Type as "<entity>-<action>".
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ChangeEvent describes a committed mutation of one entity.
type ChangeEvent struct {
	ID         string                 `json:"id"`
	EntityType string                 `json:"entityType"`
	EntityID   int                    `json:"entityId"`
	Type       string                 `json:"type"`
	Data       sonic.NoCopyRawMessage `json:"data,omitempty"`
	Timestamp  int64                  `json:"timestamp"`
}

// EventType returns the event type name, e.g. "task-created".
func EventType(entity, action string) string {
	return strings.ToLower(entity) + "-" + action
}
