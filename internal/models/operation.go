package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OperationType names a queued mutation intent.
type OperationType string

const (
	OperationCreate OperationType = "create"
	OperationUpdate OperationType = "update"
	OperationDelete OperationType = "delete"
)

// DefaultMaxRetries bounds how many sync passes may fail an operation
// before it is dropped and reported.
const DefaultMaxRetries uint = 3

// PendingOperation is one entry of the durable mutation queue. EntityID is
// the entity's identifier at enqueue time and may be temporary; the
// remapper rewrites it in place once the server issues a permanent id.
//
// Data holds the typed payload: the full entity for a create, the partial
// update struct for an update, nothing for a delete.
type PendingOperation struct {
	ID         string          `json:"id"`
	Type       OperationType   `json:"type"`
	EntityType EntityType      `json:"entity_type"`
	EntityID   EntityID        `json:"entity_id"`
	UserID     string          `json:"user_id"`
	Data       json.RawMessage `json:"data,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	RetryCount uint            `json:"retry_count"`
	MaxRetries uint            `json:"max_retries"`
}

// NewOperation builds a queue entry with a fresh operation id. payload may
// be nil (deletes).
func NewOperation(t OperationType, kind EntityType, entityID EntityID, userID string, payload any, now time.Time) (PendingOperation, error) {
	op := PendingOperation{
		ID:         uuid.NewString(),
		Type:       t,
		EntityType: kind,
		EntityID:   entityID,
		UserID:     userID,
		Timestamp:  now,
		MaxRetries: DefaultMaxRetries,
	}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return PendingOperation{}, fmt.Errorf("failed to encode operation payload: %w", err)
		}
		op.Data = b
	}
	return op, nil
}

// RewriteRefs rewrites every occurrence of old in the operation, both the
// target entity id and any foreign keys inside the payload, and reports whether
// anything changed. Payload schema knowledge stays here so the queue and
// remapper never parse entity JSON themselves.
func (op PendingOperation) RewriteRefs(old, replacement EntityID) (PendingOperation, bool, error) {
	changed := false

	if op.EntityID == old {
		op.EntityID = replacement
		changed = true
	}

	if len(op.Data) == 0 {
		return op, changed, nil
	}

	switch op.EntityType {
	case EntityTypeRecipe:
		// Recipe payloads carry no foreign keys. The create payload's own id
		// is still rewritten so a replayed create never ships a temp id.
		if op.Type == OperationCreate {
			var r Recipe
			if err := json.Unmarshal(op.Data, &r); err != nil {
				return op, changed, fmt.Errorf("failed to decode recipe payload: %w", err)
			}
			if r.ID == old {
				b, err := json.Marshal(r.WithID(replacement))
				if err != nil {
					return op, changed, err
				}
				op.Data = b
				changed = true
			}
		}

	case EntityTypeBrewSession:
		switch op.Type {
		case OperationCreate:
			var s BrewSession
			if err := json.Unmarshal(op.Data, &s); err != nil {
				return op, changed, fmt.Errorf("failed to decode brew session payload: %w", err)
			}
			payloadChanged := false
			if s.ID == old {
				s = s.WithID(replacement)
				payloadChanged = true
			}
			if rewritten, ok := s.RewriteRefs(old, replacement); ok {
				s = rewritten
				payloadChanged = true
			}
			if payloadChanged {
				b, err := json.Marshal(s)
				if err != nil {
					return op, changed, err
				}
				op.Data = b
				changed = true
			}
		case OperationUpdate:
			var u BrewSessionUpdate
			if err := json.Unmarshal(op.Data, &u); err != nil {
				return op, changed, fmt.Errorf("failed to decode brew session update payload: %w", err)
			}
			if u.RecipeID != nil && *u.RecipeID == old {
				id := replacement
				u.RecipeID = &id
				b, err := json.Marshal(u)
				if err != nil {
					return op, changed, err
				}
				op.Data = b
				changed = true
			}
		}
	}

	return op, changed, nil
}
